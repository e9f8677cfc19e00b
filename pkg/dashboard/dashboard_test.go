package dashboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/alicebob/miniredis/v2"
	"github.com/andybalholm/brotli"
	"github.com/richard-senior/xgdash/internal/logger"
	"github.com/richard-senior/xgdash/pkg/analysis"
	"github.com/richard-senior/xgdash/pkg/util/xg"
	"github.com/richard-senior/xgdash/pkg/warehouse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFixtures() []xg.Fixture {
	k := time.Date(2025, 8, 9, 15, 0, 0, 0, time.UTC)
	fx := func(id string, day int, home, away string, hxg, axg float64, hg, ag int) xg.Fixture {
		return xg.Fixture{
			MatchID: id, Kickoff: k.AddDate(0, 0, day), HomeTeam: home, AwayTeam: away,
			HomeXG: hxg, AwayXG: axg, HomeGoals: hg, AwayGoals: ag,
		}
	}
	return []xg.Fixture{
		fx("1", 0, "Hull City", "Stoke City", 1.6, 0.7, 2, 1),
		fx("2", 7, "Stoke City", "Derby County", 1.1, 1.4, 0, 0),
		fx("3", 14, "Derby County", "Hull City", 0.9, 2.3, 1, 1),
		fx("4", 21, "Stoke City", "Hull City", 2.0, 0.4, 0, 1),
	}
}

func testConfig(t *testing.T) *xg.XgConfig {
	cfg := xg.DefaultXgConfig()
	cfg.BadgeDir = t.TempDir()
	cfg.QueryTimeout = 5 * time.Second
	return cfg
}

func newRouter(t *testing.T, src warehouse.Source) (http.Handler, *xg.XgConfig) {
	cfg := testConfig(t)
	return NewHandler(analysis.New(src, cfg), cfg).Router(), cfg
}

func get(h http.Handler, target string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthCheck(t *testing.T) {
	h, _ := newRouter(t, warehouse.NewStatic(testFixtures()))
	rec := get(h, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"xgdash"}`, rec.Body.String())

	down := warehouse.NewStatic(nil)
	down.Err = errors.New("dial tcp: refused")
	h, _ = newRouter(t, down)
	assert.Equal(t, http.StatusServiceUnavailable, get(h, "/health").Code)
}

func TestGetLeagueTable(t *testing.T) {
	h, _ := newRouter(t, warehouse.NewStatic(testFixtures()))
	rec := get(h, "/api/v1/table")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var table analysis.LeagueTable
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &table))
	require.Len(t, table.Rows, 3)
	assert.Equal(t, table.SnapshotID, rec.Header().Get(SnapshotHeader))
	// Hull: W D W from three matches
	assert.Equal(t, "Hull City", table.Rows[0].Team)
	assert.Equal(t, 7, table.Rows[0].TotalPoints)
	assert.Equal(t, 1, table.Rows[0].ActualPosition)
	for _, row := range table.Rows {
		assert.Equal(t, row.ExpectedPosition-row.ActualPosition, row.PositionDiff)
	}
}

func TestGetTeams(t *testing.T) {
	h, _ := newRouter(t, warehouse.NewStatic(testFixtures()))
	rec := get(h, "/api/v1/teams")
	require.Equal(t, http.StatusOK, rec.Code)

	var overview analysis.TeamsOverview
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &overview))
	assert.Equal(t, 3, overview.LeagueSize)
	assert.Len(t, overview.Teams, 3)
}

func TestGetTeamReport(t *testing.T) {
	h, _ := newRouter(t, warehouse.NewStatic(testFixtures()))
	rec := get(h, "/api/v1/teams/Stoke%20City")
	require.Equal(t, http.StatusOK, rec.Code)

	var report analysis.TeamReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "Stoke City", report.Team)
	assert.Len(t, report.Matches, 3)
	assert.Len(t, report.Pace, xg.DefaultSeasonLength)
	assert.Equal(t, "Hull City", report.Matches[0].Opponent)

	rec = get(h, "/api/v1/teams/Atletico")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decodeError(t, rec).Details, "team not found")
}

func TestGetComparison(t *testing.T) {
	h, _ := newRouter(t, warehouse.NewStatic(testFixtures()))

	rec := get(h, "/api/v1/compare?teams=Hull%20City,Derby%20County")
	require.Equal(t, http.StatusOK, rec.Code)
	var cmp analysis.Comparison
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cmp))
	require.Len(t, cmp.Profiles, 2)
	assert.Equal(t, "Hull City", cmp.Profiles[0].Summary.Team)

	assert.Equal(t, http.StatusBadRequest, get(h, "/api/v1/compare?teams=Hull%20City").Code)
	assert.Equal(t, http.StatusBadRequest, get(h, "/api/v1/compare?teams=A,B,C,D").Code)
	assert.Equal(t, http.StatusNotFound, get(h, "/api/v1/compare?teams=Hull%20City,Nobody").Code)
}

func TestGetExpectedPoints(t *testing.T) {
	h, _ := newRouter(t, warehouse.NewStatic(nil))

	rec := get(h, "/api/v1/expected-points?xg=1.2&xga=1.2")
	require.Equal(t, http.StatusOK, rec.Code)
	var res analysis.ExpectedPointsResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	want, err := xg.ExpectedPoints(1.2, 1.2, xg.DefaultMaxGoals)
	require.NoError(t, err)
	assert.InDelta(t, want, res.ExpectedPoints, 1e-12)
	assert.Equal(t, xg.DefaultMaxGoals, res.MaxGoals)
	assert.InDelta(t, res.Outcome.Win, res.Outcome.Loss, 1e-12)

	rec = get(h, "/api/v1/expected-points?xg=1.2&xga=0.8&max_goals=4")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 4, res.MaxGoals)

	for _, bad := range []string{
		"/api/v1/expected-points?xga=1",
		"/api/v1/expected-points?xg=abc&xga=1",
		"/api/v1/expected-points?xg=-0.5&xga=1",
		"/api/v1/expected-points?xg=Inf&xga=1",
		"/api/v1/expected-points?xg=1&xga=NaN",
		"/api/v1/expected-points?xg=1&xga=1&max_goals=0",
		"/api/v1/expected-points?xg=1&xga=1&max_goals=two",
	} {
		rec := get(h, bad)
		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
		assert.NotEmpty(t, decodeError(t, rec).Error, bad)
	}
}

func TestWarehouseFailureIs503(t *testing.T) {
	src := warehouse.NewStatic(nil)
	src.Err = errors.New("relation shot_events does not exist")
	h, _ := newRouter(t, src)

	rec := get(h, "/api/v1/table")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "failed to build league table", body.Error)
	assert.Contains(t, body.Details, "shot_events")

	assert.Equal(t, http.StatusServiceUnavailable, get(h, "/").Code)
}

func TestLeagueTablePage(t *testing.T) {
	h, _ := newRouter(t, warehouse.NewStatic(testFixtures()))
	rec := get(h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	rows := doc.Find("table.league-table tbody tr")
	require.Equal(t, 3, rows.Length())
	assert.Equal(t, "Hull City", rows.First().AttrOr("data-team", ""))
	// nobody has played five matches yet
	rows.Each(func(i int, s *goquery.Selection) {
		assert.Equal(t, "N/A", s.Find("td.form").Text())
	})
}

func TestTeamPage(t *testing.T) {
	h, _ := newRouter(t, warehouse.NewStatic(testFixtures()))
	rec := get(h, "/teams/Derby%20County")
	require.Equal(t, http.StatusOK, rec.Code)

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, "Derby County", doc.Find("h1").Text())
	assert.Equal(t, 2, doc.Find("table.match-log tbody tr").Length())

	assert.Equal(t, http.StatusNotFound, get(h, "/teams/Nobody").Code)
}

func TestBrotliCompression(t *testing.T) {
	h, _ := newRouter(t, warehouse.NewStatic(testFixtures()))

	plain := get(h, "/api/v1/table")
	require.Equal(t, http.StatusOK, plain.Code)
	assert.Empty(t, plain.Header().Get("Content-Encoding"))

	rec := get(h, "/api/v1/table", "Accept-Encoding", "gzip, deflate, br")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "br", rec.Header().Get("Content-Encoding"))
	assert.Contains(t, rec.Header().Values("Vary"), "Accept-Encoding")

	decoded, err := io.ReadAll(brotli.NewReader(rec.Body))
	require.NoError(t, err)
	var table analysis.LeagueTable
	require.NoError(t, json.Unmarshal(decoded, &table))
	assert.Len(t, table.Rows, 3)
}

func TestBadge(t *testing.T) {
	h, cfg := newRouter(t, warehouse.NewStatic(testFixtures()))
	png := []byte("\x89PNG\r\n\x1a\nbadge")
	require.NoError(t, os.WriteFile(filepath.Join(cfg.BadgeDir, xg.TeamBadges["Derby County"]), png, 0o644))

	rec := get(h, "/badges/Derby%20County")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, png, rec.Body.Bytes())

	assert.Equal(t, http.StatusNotFound, get(h, "/badges/Nobody%20FC").Code)
	// mapped, but the file is missing
	assert.Equal(t, http.StatusNotFound, get(h, "/badges/Hull%20City").Code)
}

func TestRefreshInvalidatesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := warehouse.NewRedisClient(fmt.Sprintf("redis://%s/0", mr.Addr()))
	require.NoError(t, err)
	defer client.Close()

	cached := warehouse.NewCached(warehouse.NewStatic(testFixtures()), client, time.Hour)
	h, _ := newRouter(t, cached)

	first := get(h, "/api/v1/table").Header().Get(SnapshotHeader)
	assert.Equal(t, first, get(h, "/api/v1/table").Header().Get(SnapshotHeader))

	var logs bytes.Buffer
	logger.SetWriters(&logs, &logs)
	t.Cleanup(func() { logger.SetWriters(os.Stdout, os.Stderr) })

	req := httptest.NewRequest(http.MethodPost, "/api/v1/refresh", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, strings.Count(logs.String(), "Snapshot cache invalidated"))

	assert.NotEqual(t, first, get(h, "/api/v1/table").Header().Get(SnapshotHeader))
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newRouter(t, warehouse.NewStatic(nil))
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/table", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "GET")
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(&warehouse.Error{Op: "query", Err: errors.New("x")}))
	assert.Equal(t, http.StatusNotFound, statusFor(fmt.Errorf("%w: X", analysis.ErrTeamNotFound)))
	assert.Equal(t, http.StatusBadRequest, statusFor(xg.ErrInvalidGrid))
	assert.Equal(t, http.StatusInternalServerError, statusFor(xg.ErrMalformedFixture))
}
