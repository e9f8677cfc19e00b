// Package analysis turns one warehouse snapshot into the dashboard's reports:
// the actual vs expected league table, per-team breakdowns and comparisons.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/richard-senior/xgdash/internal/logger"
	"github.com/richard-senior/xgdash/pkg/util"
	"github.com/richard-senior/xgdash/pkg/util/xg"
	"github.com/richard-senior/xgdash/pkg/warehouse"
)

// ErrTeamNotFound is returned when a report asks for a team with no matches
var ErrTeamNotFound = errors.New("team not found")

// TableRow is a league table entry with its formatting categories
type TableRow struct {
	xg.TableEntry
	PositionCategory xg.Category `json:"position_category"`
	PointsCategory   xg.Category `json:"points_category"`
}

// LeagueTable is the actual vs expected table for one snapshot
type LeagueTable struct {
	SnapshotID string     `json:"snapshot_id"`
	Rows       []TableRow `json:"rows"`
}

// TeamRow is a team's season summary alongside its league ranks
type TeamRow struct {
	Summary xg.TeamSummary  `json:"summary"`
	Ranks   xg.SummaryRanks `json:"ranks"`
}

// TeamsOverview lists every team's summary, ordered by xG
type TeamsOverview struct {
	SnapshotID string    `json:"snapshot_id"`
	LeagueSize int       `json:"league_size"`
	Teams      []TeamRow `json:"teams"`
}

// TeamReport is everything the team page shows
type TeamReport struct {
	SnapshotID string           `json:"snapshot_id"`
	Team       string           `json:"team"`
	LeagueSize int              `json:"league_size"`
	Summary    xg.TeamSummary   `json:"summary"`
	Ranks      xg.SummaryRanks  `json:"ranks"`
	Table      TableRow         `json:"table"`
	Matches    []xg.SeriesPoint `json:"matches"`
	Pace       []xg.PacePoint   `json:"pace"`
}

// Comparison holds percentile profiles for the requested teams
type Comparison struct {
	SnapshotID string           `json:"snapshot_id"`
	Profiles   []xg.TeamProfile `json:"profiles"`
}

// ExpectedPointsResult is a single evaluation of the estimator
type ExpectedPointsResult struct {
	XGFor          float64    `json:"xg_for"`
	XGAgainst      float64    `json:"xg_against"`
	MaxGoals       int        `json:"max_goals"`
	ExpectedPoints float64    `json:"expected_points"`
	Outcome        xg.Outcome `json:"outcome"`
}

// Analyzer computes reports from a warehouse Source using the model settings
// in cfg. It holds no state between calls
type Analyzer struct {
	src warehouse.Source
	cfg *xg.XgConfig
}

// New returns an Analyzer. A nil cfg uses the global configuration
func New(src warehouse.Source, cfg *xg.XgConfig) *Analyzer {
	if cfg == nil {
		cfg = xg.Config
	}
	return &Analyzer{src: src, cfg: cfg}
}

// season is every derived value for one snapshot
type season struct {
	snapshot  *warehouse.Snapshot
	byTeam    map[string][]xg.MatchObservation
	summaries []xg.TeamSummary
	ranks     map[string]xg.SummaryRanks
	table     []xg.TableEntry
}

func (a *Analyzer) load(ctx context.Context) (*season, error) {
	snap, err := a.src.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	byTeam, err := xg.Observations(snap.Fixtures)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", snap.ID, err)
	}
	table, err := xg.BuildLeagueTable(byTeam, a.cfg.MaxGoals, a.cfg.FormLength)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", snap.ID, err)
	}
	summaries := xg.SummariseAll(byTeam)
	return &season{
		snapshot:  snap,
		byTeam:    byTeam,
		summaries: summaries,
		ranks:     xg.RankSummaries(summaries),
		table:     table,
	}, nil
}

// resolve finds a team by exact name, falling back to a case-insensitive
// match. A miss suggests the closest name
func (s *season) resolve(team string) (string, error) {
	if _, ok := s.byTeam[team]; ok {
		return team, nil
	}
	for name := range s.byTeam {
		if strings.EqualFold(name, strings.TrimSpace(team)) {
			return name, nil
		}
	}
	if guess, ok := util.ClosestMatch(team, xg.TeamNames(s.byTeam)); ok {
		return "", fmt.Errorf("%w: %s (did you mean %s?)", ErrTeamNotFound, team, guess)
	}
	return "", fmt.Errorf("%w: %s", ErrTeamNotFound, team)
}

func (a *Analyzer) row(e xg.TableEntry) TableRow {
	return TableRow{
		TableEntry:       e,
		PositionCategory: xg.PositionDiffCategory(e.PositionDiff),
		PointsCategory:   xg.PointsDiffCategory(e.PointsDiff, a.cfg.StrongPointsDiff),
	}
}

// LeagueTable ranks every team on actual and expected points
func (a *Analyzer) LeagueTable(ctx context.Context) (*LeagueTable, error) {
	s, err := a.load(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]TableRow, len(s.table))
	for i, e := range s.table {
		rows[i] = a.row(e)
	}
	logger.Debug("League table built", s.snapshot.ID.String(), len(rows))
	return &LeagueTable{SnapshotID: s.snapshot.ID.String(), Rows: rows}, nil
}

// Teams returns every team's season summary and ranks
func (a *Analyzer) Teams(ctx context.Context) (*TeamsOverview, error) {
	s, err := a.load(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]TeamRow, len(s.summaries))
	for i, sum := range s.summaries {
		rows[i] = TeamRow{Summary: sum, Ranks: s.ranks[sum.Team]}
	}
	return &TeamsOverview{SnapshotID: s.snapshot.ID.String(), LeagueSize: len(rows), Teams: rows}, nil
}

// TeamReport builds the full breakdown for one team
func (a *Analyzer) TeamReport(ctx context.Context, team string) (*TeamReport, error) {
	s, err := a.load(ctx)
	if err != nil {
		return nil, err
	}
	name, err := s.resolve(team)
	if err != nil {
		return nil, err
	}

	series, err := xg.TeamSeries(s.byTeam[name], a.cfg.RollingWindow, a.cfg.MaxGoals)
	if err != nil {
		return nil, err
	}

	report := &TeamReport{
		SnapshotID: s.snapshot.ID.String(),
		Team:       name,
		LeagueSize: len(s.byTeam),
		Summary:    xg.Summarise(name, s.byTeam[name]),
		Ranks:      s.ranks[name],
		Matches:    series,
		Pace:       xg.PaceProjection(series, a.cfg.SeasonLength, a.cfg.TargetPoints),
	}
	for _, e := range s.table {
		if e.Team == name {
			report.Table = a.row(e)
			break
		}
	}
	return report, nil
}

// Compare profiles two or three teams against the league
func (a *Analyzer) Compare(ctx context.Context, teams []string) (*Comparison, error) {
	s, err := a.load(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(teams))
	for i, t := range teams {
		if names[i], err = s.resolve(t); err != nil {
			return nil, err
		}
	}
	profiles, err := xg.CompareTeams(s.summaries, names)
	if err != nil {
		return nil, err
	}
	return &Comparison{SnapshotID: s.snapshot.ID.String(), Profiles: profiles}, nil
}

// ExpectedPoints evaluates the estimator for one xG pair. maxGoals <= 0
// uses the configured grid size
func (a *Analyzer) ExpectedPoints(xgFor, xgAgainst float64, maxGoals int) (*ExpectedPointsResult, error) {
	if maxGoals <= 0 {
		maxGoals = a.cfg.MaxGoals
	}
	xp, err := xg.ExpectedPoints(xgFor, xgAgainst, maxGoals)
	if err != nil {
		return nil, err
	}
	outcome, err := xg.OutcomeProbabilities(xgFor, xgAgainst, maxGoals)
	if err != nil {
		return nil, err
	}
	return &ExpectedPointsResult{
		XGFor:          xgFor,
		XGAgainst:      xgAgainst,
		MaxGoals:       maxGoals,
		ExpectedPoints: xp,
		Outcome:        outcome,
	}, nil
}

// Refresh drops any cached snapshot. Sources without a cache have nothing to do
func (a *Analyzer) Refresh(ctx context.Context) error {
	if inv, ok := a.src.(warehouse.Invalidator); ok {
		return inv.Invalidate(ctx)
	}
	return nil
}

// Ping checks the underlying source
func (a *Analyzer) Ping(ctx context.Context) error {
	return a.src.Ping(ctx)
}
