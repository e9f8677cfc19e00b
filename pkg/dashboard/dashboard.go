// Package dashboard serves the analyses over HTTP: a JSON API under /api/v1
// and server rendered HTML pages.
package dashboard

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/richard-senior/xgdash/internal/logger"
	"github.com/richard-senior/xgdash/pkg/analysis"
	"github.com/richard-senior/xgdash/pkg/util/xg"
)

// CompressionLevel is the brotli quality used for responses
const CompressionLevel = 5

// SnapshotHeader carries the id of the snapshot a response was computed from
const SnapshotHeader = "X-Snapshot-ID"

// Handler contains dependencies for HTTP handlers
type Handler struct {
	analyzer *analysis.Analyzer
	cfg      *xg.XgConfig
}

// NewHandler creates a new handler. A nil cfg uses the global configuration
func NewHandler(a *analysis.Analyzer, cfg *xg.XgConfig) *Handler {
	if cfg == nil {
		cfg = xg.Config
	}
	return &Handler{analyzer: a, cfg: cfg}
}

// requestLogger logs one line per request through the house logger
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.Info(r.Method, r.URL.Path, ww.Status(), ww.BytesWritten(), time.Since(start).String(), middleware.GetReqID(r.Context()))
	})
}

// compressor prefers brotli and falls back to chi's gzip and deflate
func compressor() func(http.Handler) http.Handler {
	c := middleware.NewCompressor(CompressionLevel)
	c.SetEncoder("br", func(w io.Writer, level int) io.Writer {
		return brotli.NewWriterLevel(w, level)
	})
	return c.Handler
}

// Router builds the chi router with middleware and every route
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(h.cfg.QueryTimeout + 5*time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{SnapshotHeader},
		MaxAge:         300,
	}))

	r.Get("/health", h.HealthCheck)
	r.Get("/badges/{team}", h.Badge)

	r.Group(func(r chi.Router) {
		r.Use(compressor())

		r.Get("/", h.LeagueTablePage)
		r.Get("/teams/{team}", h.TeamPage)
		r.Get("/static/xgdash.css", h.Stylesheet)

		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/table", h.GetLeagueTable)
			r.Get("/teams", h.GetTeams)
			r.Get("/teams/{team}", h.GetTeamReport)
			r.Get("/compare", h.GetComparison)
			r.Get("/expected-points", h.GetExpectedPoints)
			r.Post("/refresh", h.Refresh)
		})
	})

	return r
}

// Run serves handler on addr until ctx is cancelled, then shuts down
// gracefully
func Run(ctx context.Context, addr string, handler http.Handler) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Highlight("Dashboard listening on", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down dashboard gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errChan
}
