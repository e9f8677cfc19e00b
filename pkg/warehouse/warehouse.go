// Package warehouse reads shot-level events from the data warehouse and turns
// them into per-match fixtures. Access goes through the Source interface so
// the analysis code can run against SQL, a Redis-cached SQL source, or an
// in-memory fake in tests.
package warehouse

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/richard-senior/xgdash/pkg/util/xg"
)

// Snapshot is one consistent read of the warehouse. Every computation pass
// works on exactly one snapshot
type Snapshot struct {
	ID        uuid.UUID    `json:"id"`
	FetchedAt time.Time    `json:"fetched_at"`
	Fixtures  []xg.Fixture `json:"fixtures"`
}

// NewSnapshot stamps fixtures with a fresh id and the current time
func NewSnapshot(fixtures []xg.Fixture) *Snapshot {
	return &Snapshot{
		ID:        uuid.New(),
		FetchedAt: time.Now().UTC(),
		Fixtures:  fixtures,
	}
}

// Source supplies snapshots of the season's fixtures
type Source interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
	Ping(ctx context.Context) error
	Close() error
}

// Invalidator is implemented by sources that hold cached results
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Error reports a failure talking to the warehouse. Callers use errors.As to
// tell an unavailable warehouse apart from bad input
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("warehouse %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// Static serves a fixed set of fixtures. Each call returns a new snapshot
// over the same fixtures
type Static struct {
	Fixtures []xg.Fixture
	Err      error
}

// NewStatic returns a Source over fixtures held in memory
func NewStatic(fixtures []xg.Fixture) *Static {
	return &Static{Fixtures: fixtures}
}

func (s *Static) Snapshot(ctx context.Context) (*Snapshot, error) {
	if s.Err != nil {
		return nil, wrap("snapshot", s.Err)
	}
	fixtures := make([]xg.Fixture, len(s.Fixtures))
	copy(fixtures, s.Fixtures)
	return NewSnapshot(fixtures), nil
}

func (s *Static) Ping(ctx context.Context) error {
	return wrap("ping", s.Err)
}

func (s *Static) Close() error {
	return nil
}
