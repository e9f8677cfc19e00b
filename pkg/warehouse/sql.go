package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/richard-senior/xgdash/internal/logger"
	"github.com/richard-senior/xgdash/pkg/util/xg"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// fixturesQuery aggregates shot events into one row per match.
// Own goals count for the opponent. The two placeholders are the set-piece phase
const fixturesQuery = `
WITH squad_match AS (
	SELECT
		match_id,
		team,
		SUM(COALESCE(shot_xg, 0)) AS xg,
		SUM(CASE WHEN goal = 1 THEN 1 ELSE 0 END) AS goals,
		SUM(CASE WHEN own_goal = 1 THEN 1 ELSE 0 END) AS own_goals,
		SUM(CASE WHEN phase = ? THEN COALESCE(shot_xg, 0) ELSE 0 END) AS set_piece_xg,
		SUM(CASE WHEN phase = ? AND goal = 1 THEN 1 ELSE 0 END) AS set_piece_goals
	FROM shot_events
	WHERE team IS NOT NULL AND team <> '' AND team <> 'nan'
	GROUP BY match_id, team
),
matches AS (
	SELECT DISTINCT match_id, kickoff, home_team, away_team
	FROM shot_events
)
SELECT
	m.match_id,
	m.kickoff,
	m.home_team,
	m.away_team,
	COALESCE(h.xg, 0),
	COALESCE(a.xg, 0),
	COALESCE(h.goals, 0) + COALESCE(a.own_goals, 0),
	COALESCE(a.goals, 0) + COALESCE(h.own_goals, 0),
	COALESCE(h.set_piece_xg, 0),
	COALESCE(a.set_piece_xg, 0),
	COALESCE(h.set_piece_goals, 0),
	COALESCE(a.set_piece_goals, 0)
FROM matches m
LEFT JOIN squad_match h ON h.match_id = m.match_id AND h.team = m.home_team
LEFT JOIN squad_match a ON a.match_id = m.match_id AND a.team = m.away_team
ORDER BY m.kickoff, m.match_id`

// SQLSource reads fixtures straight from a SQL warehouse
type SQLSource struct {
	db     *sql.DB
	driver string
}

// DriverFor picks the database/sql driver name for a DSN
func DriverFor(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return DriverPostgres
	}
	return DriverSQLite
}

// Open connects to the warehouse named by dsn. postgres:// URLs use lib/pq,
// anything else is treated as a SQLite file path
func Open(ctx context.Context, dsn string) (*SQLSource, error) {
	driver := DriverFor(dsn)
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, wrap("open", err)
	}

	if driver == DriverPostgres {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	} else if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		// each connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	s := NewSQLSource(db, driver)
	if err := s.Ping(ctx); err != nil {
		db.Close()
		return nil, err
	}
	logger.Info("Warehouse connected using driver", driver)
	return s, nil
}

// NewSQLSource wraps an already open database
func NewSQLSource(db *sql.DB, driver string) *SQLSource {
	return &SQLSource{db: db, driver: driver}
}

// rebind rewrites ? placeholders as $1, $2... for Postgres
func (s *SQLSource) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Ping checks the warehouse is reachable
func (s *SQLSource) Ping(ctx context.Context) error {
	return wrap("ping", s.db.PingContext(ctx))
}

// Close releases the connection pool
func (s *SQLSource) Close() error {
	return s.db.Close()
}

// CreateSchema creates the shot_events table and its indexes if missing
func (s *SQLSource) CreateSchema(ctx context.Context) error {
	ev := ShotEvent{}
	for _, stmt := range schemaSQL(ev, ev.TableName()) {
		logger.Debug("Creating schema with SQL", stmt)
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return wrap("create schema", err)
		}
	}
	return nil
}

// InsertEvents writes events in a single transaction. Events without an id
// get a random one
func (s *SQLSource) InsertEvents(ctx context.Context, events []ShotEvent) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, wrap("begin", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, s.rebind(insertSQL(ShotEvent{}, ShotEvent{}.TableName())))
	if err != nil {
		return 0, wrap("prepare insert", err)
	}
	defer stmt.Close()

	for i, ev := range events {
		if ev.ID == "" {
			ev.ID = uuid.NewString()
		}
		if _, err := stmt.ExecContext(ctx, insertValues(ev)...); err != nil {
			return 0, wrap("insert", fmt.Errorf("event %d (match %s): %w", i, ev.MatchID, err))
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, wrap("commit", err)
	}
	return len(events), nil
}

// Fixtures runs the aggregation query and returns matches in kickoff order
func (s *SQLSource) Fixtures(ctx context.Context) ([]xg.Fixture, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(fixturesQuery), PhaseSetPiece, PhaseSetPiece)
	if err != nil {
		return nil, wrap("query fixtures", err)
	}
	defer rows.Close()

	var fixtures []xg.Fixture
	for rows.Next() {
		var f xg.Fixture
		var kickoff string
		if err := rows.Scan(
			&f.MatchID, &kickoff, &f.HomeTeam, &f.AwayTeam,
			&f.HomeXG, &f.AwayXG, &f.HomeGoals, &f.AwayGoals,
			&f.HomeSetPieceXG, &f.AwaySetPieceXG, &f.HomeSetPieceGoals, &f.AwaySetPieceGoals,
		); err != nil {
			return nil, wrap("scan fixture", err)
		}
		f.Kickoff, err = time.Parse(time.RFC3339, kickoff)
		if err != nil {
			return nil, wrap("scan fixture", fmt.Errorf("match %s kickoff %q: %w", f.MatchID, kickoff, err))
		}
		fixtures = append(fixtures, f)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("read fixtures", err)
	}
	return fixtures, nil
}

// Snapshot reads every fixture once
func (s *SQLSource) Snapshot(ctx context.Context) (*Snapshot, error) {
	start := time.Now()
	fixtures, err := s.Fixtures(ctx)
	if err != nil {
		return nil, err
	}
	snap := NewSnapshot(fixtures)
	logger.Debug("Warehouse snapshot", snap.ID.String(), len(fixtures), time.Since(start).String())
	return snap, nil
}
