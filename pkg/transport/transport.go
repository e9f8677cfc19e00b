package transport

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"sync"

	"github.com/richard-senior/xgdash/internal/logger"
	"github.com/richard-senior/xgdash/pkg/protocol"
)

// Transport defines the interface for communication methods
type Transport interface {
	ReadRequest() (*protocol.JsonRpcRequest, error)
	WriteResponse(*protocol.JsonRpcResponse) error
}

// ParseError is returned by ReadRequest for a line that is not a valid
// request. The stream is still usable afterwards
type ParseError struct {
	Line []byte
	Err  error
}

func (e *ParseError) Error() string { return "parse request: " + e.Err.Error() }

func (e *ParseError) Unwrap() error { return e.Err }

// StdioTransport implements newline delimited JSON-RPC over a pair of streams,
// normally standard input and output
type StdioTransport struct {
	reader *bufio.Reader
	mu     sync.Mutex
	writer *bufio.Writer
}

// NewStdioTransport creates a new transport that uses stdin/stdout
func NewStdioTransport() *StdioTransport {
	return NewStreamTransport(os.Stdin, os.Stdout)
}

// NewStreamTransport creates a transport over any reader and writer
func NewStreamTransport(r io.Reader, w io.Writer) *StdioTransport {
	return &StdioTransport{
		reader: bufio.NewReader(r),
		writer: bufio.NewWriter(w),
	}
}

// ReadRequest reads the next non blank line and parses it as a request.
// io.EOF means the client has gone
func (t *StdioTransport) ReadRequest() (*protocol.JsonRpcRequest, error) {
	for {
		line, err := t.reader.ReadBytes('\n')
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			if err != nil {
				if errors.Is(err, io.EOF) {
					logger.Info("Received EOF, client disconnected")
				}
				return nil, err
			}
			continue
		}
		logger.Debug("Received raw request:", string(line))

		req, perr := protocol.ParseJsonRpcRequest(line)
		if perr != nil {
			logger.Warn("Failed to parse JSON-RPC request:", perr)
			return nil, &ParseError{Line: line, Err: perr}
		}
		return req, nil
	}
}

// WriteResponse writes one response followed by a newline and flushes
func (t *StdioTransport) WriteResponse(response *protocol.JsonRpcResponse) error {
	responseBytes, err := json.Marshal(response)
	if err != nil {
		logger.Error("Failed to marshal response:", err)
		return err
	}
	responseBytes = append(responseBytes, '\n')

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := t.writer.Write(responseBytes); err != nil {
		logger.Error("Failed to write response:", err)
		return err
	}
	if err := t.writer.Flush(); err != nil {
		logger.Error("Failed to flush response:", err)
		return err
	}
	logger.Debug("Sending response:", string(responseBytes))
	return nil
}
