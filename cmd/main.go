package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/richard-senior/xgdash/internal/logger"
	"github.com/richard-senior/xgdash/pkg/analysis"
	"github.com/richard-senior/xgdash/pkg/dashboard"
	"github.com/richard-senior/xgdash/pkg/server"
	"github.com/richard-senior/xgdash/pkg/tools"
	"github.com/richard-senior/xgdash/pkg/transport"
	"github.com/richard-senior/xgdash/pkg/util/xg"
	"github.com/richard-senior/xgdash/pkg/warehouse"
)

const usage = `usage: xgdash [command]

commands:
  serve                 run the HTTP dashboard (default)
  mcp                   run the MCP server on stdin/stdout
  load-events <csv|url> load shot events into the warehouse
`

func main() {
	command := "serve"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	cfg, err := xg.LoadFromEnv(xg.DefaultXgConfig())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	// stdout carries the protocol in MCP mode
	if command == "mcp" {
		cfg.LogOutput = "f"
	}
	if err := xg.ValidateConfig(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	xg.UpdateConfig(cfg)

	if err := setupLogging(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger.Info("Starting xgdash", command)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch command {
	case "serve":
		err = serve(ctx, cfg)
	case "mcp":
		err = runMCP(ctx, cfg)
	case "load-events":
		if len(os.Args) < 3 {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		err = loadEvents(ctx, cfg, os.Args[2])
	case "help", "-h", "--help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		logger.Error("xgdash failed:", err)
		os.Exit(1)
	}
	logger.Info("xgdash stopped")
}

func setupLogging(cfg *xg.XgConfig) error {
	logger.SetShowDateTime(true)
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger.SetLevel(level)
	return logger.SetLogOutput(rune(cfg.LogOutput[0]), cfg.LogFile)
}

// openSource opens the warehouse and, when Redis is configured, wraps it in
// the snapshot cache
func openSource(ctx context.Context, cfg *xg.XgConfig) (warehouse.Source, error) {
	db, err := warehouse.Open(ctx, cfg.WarehouseDSN)
	if err != nil {
		return nil, err
	}
	if cfg.RedisURL == "" {
		logger.Info("No Redis configured, snapshots are not cached")
		return db, nil
	}
	client, err := warehouse.NewRedisClient(cfg.RedisURL)
	if err != nil {
		db.Close()
		return nil, err
	}
	logger.Info("Caching snapshots in Redis for", cfg.CacheTTL.String())
	return warehouse.NewCached(db, client, cfg.CacheTTL), nil
}

func serve(ctx context.Context, cfg *xg.XgConfig) error {
	src, err := openSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer src.Close()

	handler := dashboard.NewHandler(analysis.New(src, cfg), cfg)
	return dashboard.Run(ctx, cfg.HTTPAddr, handler.Router())
}

func runMCP(ctx context.Context, cfg *xg.XgConfig) error {
	src, err := openSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer src.Close()

	s := server.New(transport.NewStdioTransport())
	s.RegisterXgTools(tools.NewXgTools(analysis.New(src, cfg), cfg.QueryTimeout))

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.ProcessRequests()
	}()
	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("MCP server interrupted")
		return nil
	}
}

func readLocation(ctx context.Context, location string) (io.Reader, error) {
	if transport.IsRemote(location) {
		logger.Info("Fetching events from", location)
		data, err := transport.Fetch(ctx, nil, location)
		if err != nil {
			return nil, err
		}
		return bytes.NewReader(data), nil
	}
	data, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	return bytes.NewReader(data), nil
}

func loadEvents(ctx context.Context, cfg *xg.XgConfig, location string) error {
	r, err := readLocation(ctx, location)
	if err != nil {
		return err
	}
	events, err := warehouse.ParseEventsCSV(r)
	if err != nil {
		return err
	}

	db, err := warehouse.Open(ctx, cfg.WarehouseDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.CreateSchema(ctx); err != nil {
		return err
	}
	n, err := db.InsertEvents(ctx, events)
	if err != nil {
		return err
	}
	logger.Highlight("Loaded shot events", n, location)

	if cfg.RedisURL != "" {
		client, err := warehouse.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return err
		}
		cached := warehouse.NewCached(db, client, cfg.CacheTTL)
		if err := cached.Invalidate(ctx); err != nil {
			logger.Warn("Failed to invalidate cached snapshot", err)
		}
		client.Close()
	}
	return nil
}
