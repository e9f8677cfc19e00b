package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for name, want := range map[string]LogLevel{"debug": DEBUG, " WARN ": WARN, "warning": WARN, "": INFO, "Error": ERROR} {
		got, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
	_, err := ParseLevel("chatty")
	assert.Error(t, err)
}

func TestLevelFiltering(t *testing.T) {
	var info, errs bytes.Buffer
	SetWriters(&info, &errs)
	SetLevel(WARN)
	t.Cleanup(func() {
		SetWriters(os.Stdout, os.Stderr)
		SetLevel(INFO)
	})

	Info("hidden")
	Warn("loaded events", 42)
	Error("query failed", errors.New("connection refused"))

	assert.NotContains(t, info.String(), "hidden")
	assert.Contains(t, info.String(), "loaded events 42")
	assert.Contains(t, info.String(), "logger_test.go")
	assert.Contains(t, errs.String(), "query failed connection refused")
}

func TestStructuredArgs(t *testing.T) {
	var info bytes.Buffer
	SetWriters(&info, &info)
	t.Cleanup(func() { SetWriters(os.Stdout, os.Stderr) })

	Info("team", struct {
		Team string `json:"team"`
	}{Team: "Hull City"})

	assert.Contains(t, info.String(), "[Object of type struct")
	assert.Contains(t, info.String(), `"team": "Hull City"`)
}

func TestSetLogOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xgdash.log")
	require.NoError(t, SetLogOutput('f', path))
	t.Cleanup(func() { _ = SetLogOutput('c', "") })

	Info("written to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
	assert.NotContains(t, string(data), colorReset)

	assert.Error(t, SetLogOutput('x', path))
}
