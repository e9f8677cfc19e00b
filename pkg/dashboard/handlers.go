package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/richard-senior/xgdash/internal/logger"
	"github.com/richard-senior/xgdash/pkg/analysis"
	"github.com/richard-senior/xgdash/pkg/render"
	"github.com/richard-senior/xgdash/pkg/util/xg"
	"github.com/richard-senior/xgdash/pkg/warehouse"
)

// ErrorResponse is the body of every failed API call
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (h *Handler) queryContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.cfg.QueryTimeout)
}

// statusFor maps an analysis error onto an HTTP status
func statusFor(err error) int {
	var werr *warehouse.Error
	switch {
	case errors.As(err, &werr):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, analysis.ErrTeamNotFound), errors.Is(err, xg.ErrUnknownTeam):
		return http.StatusNotFound
	case errors.Is(err, xg.ErrCompareCount),
		errors.Is(err, xg.ErrNegativeExpectedGoals),
		errors.Is(err, xg.ErrInvalidGrid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func teamParam(r *http.Request) string {
	team := chi.URLParam(r, "team")
	if unescaped, err := url.PathUnescape(team); err == nil {
		team = unescaped
	}
	return strings.TrimSpace(team)
}

// HealthCheck returns service health, including whether the warehouse answers
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.queryContext(r)
	defer cancel()

	if err := h.analyzer.Ping(ctx); err != nil {
		logger.Warn("Health check failed", err)
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "unhealthy",
			"service": "xgdash",
			"error":   err.Error(),
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "xgdash",
	})
}

// GetLeagueTable returns the actual vs expected table
func (h *Handler) GetLeagueTable(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.queryContext(r)
	defer cancel()

	table, err := h.analyzer.LeagueTable(ctx)
	if err != nil {
		respondAnalysisError(w, "failed to build league table", err)
		return
	}
	w.Header().Set(SnapshotHeader, table.SnapshotID)
	respondJSON(w, http.StatusOK, table)
}

// GetTeams returns every team's summary and ranks
func (h *Handler) GetTeams(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.queryContext(r)
	defer cancel()

	overview, err := h.analyzer.Teams(ctx)
	if err != nil {
		respondAnalysisError(w, "failed to summarise teams", err)
		return
	}
	w.Header().Set(SnapshotHeader, overview.SnapshotID)
	respondJSON(w, http.StatusOK, overview)
}

// GetTeamReport returns one team's report
func (h *Handler) GetTeamReport(w http.ResponseWriter, r *http.Request) {
	team := teamParam(r)
	ctx, cancel := h.queryContext(r)
	defer cancel()

	report, err := h.analyzer.TeamReport(ctx, team)
	if err != nil {
		respondAnalysisError(w, fmt.Sprintf("failed to build report for %s", team), err)
		return
	}
	w.Header().Set(SnapshotHeader, report.SnapshotID)
	respondJSON(w, http.StatusOK, report)
}

// GetComparison compares the teams named in ?teams=A,B[,C]
func (h *Handler) GetComparison(w http.ResponseWriter, r *http.Request) {
	var teams []string
	for _, t := range strings.Split(r.URL.Query().Get("teams"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			teams = append(teams, t)
		}
	}
	if len(teams) < 2 || len(teams) > 3 {
		respondError(w, http.StatusBadRequest, "teams must name two or three teams", xg.ErrCompareCount)
		return
	}

	ctx, cancel := h.queryContext(r)
	defer cancel()

	cmp, err := h.analyzer.Compare(ctx, teams)
	if err != nil {
		respondAnalysisError(w, "failed to compare teams", err)
		return
	}
	w.Header().Set(SnapshotHeader, cmp.SnapshotID)
	respondJSON(w, http.StatusOK, cmp)
}

// GetExpectedPoints evaluates the estimator for ?xg=&xga=[&max_goals=]
func (h *Handler) GetExpectedPoints(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	xgFor, err := strconv.ParseFloat(q.Get("xg"), 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "xg must be a number", err)
		return
	}
	xgAgainst, err := strconv.ParseFloat(q.Get("xga"), 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "xga must be a number", err)
		return
	}
	maxGoals := 0
	if raw := q.Get("max_goals"); raw != "" {
		maxGoals, err = strconv.Atoi(raw)
		if err != nil || maxGoals < 1 {
			respondError(w, http.StatusBadRequest, "max_goals must be a positive integer", xg.ErrInvalidGrid)
			return
		}
	}

	res, err := h.analyzer.ExpectedPoints(xgFor, xgAgainst, maxGoals)
	if err != nil {
		respondAnalysisError(w, "failed to compute expected points", err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// Refresh drops the cached snapshot so the next request reloads the warehouse
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.queryContext(r)
	defer cancel()

	if err := h.analyzer.Refresh(ctx); err != nil {
		respondError(w, http.StatusServiceUnavailable, "failed to refresh", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
}

// Badge serves a team's badge image from the badge directory
func (h *Handler) Badge(w http.ResponseWriter, r *http.Request) {
	team := teamParam(r)
	path, ok := xg.BadgePath(h.cfg.BadgeDir, team)
	if !ok {
		respondError(w, http.StatusNotFound, "no badge for "+team, nil)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeFile(w, r, path)
}

// LeagueTablePage renders the league table as HTML
func (h *Handler) LeagueTablePage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.queryContext(r)
	defer cancel()

	table, err := h.analyzer.LeagueTable(ctx)
	if err != nil {
		respondPageError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := render.LeagueTablePage(&buf, table); err != nil {
		respondPageError(w, err)
		return
	}
	w.Header().Set(SnapshotHeader, table.SnapshotID)
	respondHTML(w, buf.Bytes())
}

// TeamPage renders one team's report as HTML
func (h *Handler) TeamPage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.queryContext(r)
	defer cancel()

	report, err := h.analyzer.TeamReport(ctx, teamParam(r))
	if err != nil {
		respondPageError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := render.TeamPage(&buf, report); err != nil {
		respondPageError(w, err)
		return
	}
	w.Header().Set(SnapshotHeader, report.SnapshotID)
	respondHTML(w, buf.Bytes())
}

// Stylesheet serves the page styles
func (h *Handler) Stylesheet(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(render.Stylesheet))
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Warn("Failed to encode response", err)
	}
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
		if status >= http.StatusInternalServerError {
			logger.Error(message, err)
		}
	}
	respondJSON(w, status, resp)
}

func respondAnalysisError(w http.ResponseWriter, message string, err error) {
	respondError(w, statusFor(err), message, err)
}

func respondHTML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func respondPageError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Page failed", err)
	}
	http.Error(w, http.StatusText(status)+": "+err.Error(), status)
}
