package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/richard-senior/xgdash/internal/logger"
	"github.com/richard-senior/xgdash/pkg/protocol"
	"github.com/richard-senior/xgdash/pkg/tools"
	"github.com/richard-senior/xgdash/pkg/transport"
	"github.com/richard-senior/xgdash/pkg/warehouse"
)

// ToolPrefix is stripped from tool names some clients namespace with
const ToolPrefix = "mcp___"

// ServerName and ServerVersion are reported to clients on initialize
const (
	ServerName    = "xgdash"
	ServerVersion = "1.0.0"
)

// Server represents an MCP server
type Server struct {
	transport transport.Transport
	mu        sync.Mutex
	handlers  map[string]HandlerFunc
	tools     []protocol.Tool
}

// HandlerFunc is a function that handles an MCP request
type HandlerFunc func(params any) (any, error)

// New creates a server reading from and writing to t, with the protocol
// methods registered and no tools
func New(t transport.Transport) *Server {
	s := &Server{
		transport: t,
		handlers:  make(map[string]HandlerFunc),
		tools:     []protocol.Tool{},
	}
	s.handlers[string(protocol.MethodInitialize)] = s.handleInitialize
	s.handlers[string(protocol.MethodInitialized)] = s.handleInitialized
	s.handlers[string(protocol.MethodToolsList)] = s.handleToolsList
	s.handlers[string(protocol.MethodToolsCall)] = s.handleToolsCall
	s.handlers[string(protocol.MethodPing)] = func(any) (any, error) { return struct{}{}, nil }
	return s
}

// RegisterTool registers a tool with the server
func (s *Server) RegisterTool(tool protocol.Tool, handler HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tools = append(s.tools, tool)
	s.handlers[tool.Name] = handler
	logger.Info("Registered tool:", tool.Name)
}

// GetTools returns the list of registered tools
func (s *Server) GetTools() []protocol.Tool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]protocol.Tool(nil), s.tools...)
}

// RegisterXgTools registers the league table, team report, expected points
// and comparison tools
func (s *Server) RegisterXgTools(x *tools.XgTools) {
	logger.Info("Registering xG tools...")
	s.RegisterTool(tools.LeagueTableTool(), x.HandleLeagueTable)
	s.RegisterTool(tools.TeamReportTool(), x.HandleTeamReport)
	s.RegisterTool(tools.ExpectedPointsTool(), x.HandleExpectedPoints)
	s.RegisterTool(tools.CompareTeamsTool(), x.HandleCompareTeams)
}

// Start processes requests until the client disconnects or the process is
// signalled
func (s *Server) Start() error {
	logger.Info("Starting MCP server")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.ProcessRequests()
	}()

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		logger.Info("Received signal:", sig)
		return nil
	}
}

// ProcessRequests continuously processes incoming requests. It returns nil
// when the input ends
func (s *Server) ProcessRequests() error {
	for {
		req, err := s.transport.ReadRequest()
		if err != nil {
			var perr *transport.ParseError
			switch {
			case errors.Is(err, io.EOF):
				return nil
			case errors.As(err, &perr):
				resp := protocol.NewJsonRpcErrorResponse(protocol.ErrParse, perr.Error(), nil, nil)
				if err := s.transport.WriteResponse(resp); err != nil {
					return err
				}
				continue
			default:
				return err
			}
		}

		// nil means no response is required
		resp := s.handleRequest(req)
		if resp == nil {
			continue
		}
		if err := s.transport.WriteResponse(resp); err != nil {
			return err
		}
	}
}

// errorCode picks the JSON-RPC code for a failed handler
func errorCode(err error) int {
	var werr *warehouse.Error
	if errors.As(err, &werr) {
		return protocol.ErrSourceUnavailable
	}
	return protocol.ErrToolExecutionFailed
}

// handleRequest processes a request and returns a response
func (s *Server) handleRequest(req *protocol.JsonRpcRequest) *protocol.JsonRpcResponse {
	logger.Info(">> ", req.Method)
	logger.Debug("Full request:", string(req.Params))

	if strings.HasPrefix(req.Method, "notifications/") {
		logger.Info("Received notification:", req.Method)
		return nil
	}

	resp := &protocol.JsonRpcResponse{
		JsonRPC: protocol.JsonRpcVersion,
		ID:      req.ID,
	}

	s.mu.Lock()
	handler := s.handlers[req.Method]
	s.mu.Unlock()
	if handler == nil {
		if req.IsNotification() {
			return nil
		}
		resp.Error = &protocol.JsonRpcError{
			Code:    protocol.ErrMethodNotFound,
			Message: fmt.Sprintf("Method not found: %s", req.Method),
		}
		return resp
	}

	result, err := handler(req.Params)
	if err == nil && result == nil {
		return nil
	}
	if err != nil {
		logger.Warn("Request failed:", req.Method, err)
		var rpcErr *protocol.JsonRpcError
		if errors.As(err, &rpcErr) {
			resp.Error = rpcErr
		} else {
			resp.Error = &protocol.JsonRpcError{
				Code:    errorCode(err),
				Message: err.Error(),
			}
		}
		return resp
	}

	resultBytes, err := json.Marshal(result)
	if err != nil {
		resp.Error = &protocol.JsonRpcError{
			Code:    protocol.ErrInternal,
			Message: "Failed to marshal result: " + err.Error(),
		}
		return resp
	}
	resp.Result = resultBytes
	return resp
}

// decodeParams unmarshals raw request params into v. Missing params leave
// v untouched
func decodeParams(params any, v any) error {
	raw, ok := params.(json.RawMessage)
	if !ok {
		b, err := json.Marshal(params)
		if err != nil {
			return err
		}
		raw = b
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, v)
}

// handleToolsList handles the tools/list method
func (s *Server) handleToolsList(params any) (any, error) {
	logger.Info("Handling tools/list request")
	return protocol.ToolsResponse{Tools: s.GetTools()}, nil
}

// handleInitialize handles the initialize method
func (s *Server) handleInitialize(params any) (any, error) {
	var initParams struct {
		ProtocolVersion string `json:"protocolVersion"`
	}
	if err := decodeParams(params, &initParams); err != nil {
		return nil, &protocol.JsonRpcError{Code: protocol.ErrInvalidParams, Message: "invalid initialize parameters: " + err.Error()}
	}
	version := initParams.ProtocolVersion
	if version == "" {
		version = protocol.DefaultProtocolVersion
	}
	logger.Info("Handling initialize request with", len(s.GetTools()), "tools, protocol", version)

	capabilities := map[string]any{}
	if len(s.GetTools()) > 0 {
		capabilities["tools"] = map[string]any{"listChanged": false}
	}

	type serverInfo struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}
	return struct {
		ProtocolVersion string         `json:"protocolVersion"`
		Capabilities    map[string]any `json:"capabilities"`
		ServerInfo      serverInfo     `json:"serverInfo"`
	}{
		ProtocolVersion: version,
		Capabilities:    capabilities,
		ServerInfo:      serverInfo{Name: ServerName, Version: ServerVersion},
	}, nil
}

// handleInitialized handles the bare 'initialized' notification some
// clients send instead of notifications/initialized
func (s *Server) handleInitialized(params any) (any, error) {
	logger.Info("Handling initialized notification")
	return nil, nil
}

func (s *Server) handleToolsCall(params any) (any, error) {
	var call struct {
		Arguments map[string]any `json:"arguments"`
		Name      string         `json:"name"`
	}
	if err := decodeParams(params, &call); err != nil {
		return nil, &protocol.JsonRpcError{Code: protocol.ErrInvalidParams, Message: "invalid tools/call parameters: " + err.Error()}
	}
	logger.Info("Tool call requested for:", call.Name)

	name := strings.TrimPrefix(call.Name, ToolPrefix)
	s.mu.Lock()
	handler := s.handlers[name]
	registered := false
	for _, t := range s.tools {
		if t.Name == name {
			registered = true
			break
		}
	}
	s.mu.Unlock()

	if handler == nil || !registered {
		return nil, &protocol.JsonRpcError{Code: protocol.ErrInvalidParams, Message: "tool not found: " + call.Name}
	}
	if call.Arguments == nil {
		call.Arguments = map[string]any{}
	}

	result, err := handler(call.Arguments)
	if err != nil {
		return nil, fmt.Errorf("tool %s failed: %w", name, err)
	}
	return result, nil
}
