package xg

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

// ErrMalformedFixture marks a fixture that cannot be turned into observations
var ErrMalformedFixture = errors.New("malformed fixture")

// Venue of a match from one team's point of view
const (
	Home = "H"
	Away = "A"
)

// Result letters used in form strings
const (
	Win  = "W"
	Draw = "D"
	Loss = "L"
)

// Fixture is one played match as aggregated by the warehouse.
// Own goals are already credited to the opponent
type Fixture struct {
	MatchID           string    `json:"match_id"`
	Kickoff           time.Time `json:"kickoff"`
	HomeTeam          string    `json:"home_team"`
	AwayTeam          string    `json:"away_team"`
	HomeXG            float64   `json:"home_xg"`
	AwayXG            float64   `json:"away_xg"`
	HomeGoals         int       `json:"home_goals"`
	AwayGoals         int       `json:"away_goals"`
	HomeSetPieceXG    float64   `json:"home_set_piece_xg"`
	AwaySetPieceXG    float64   `json:"away_set_piece_xg"`
	HomeSetPieceGoals int       `json:"home_set_piece_goals"`
	AwaySetPieceGoals int       `json:"away_set_piece_goals"`
}

// MatchObservation is a single match seen from one team's side
type MatchObservation struct {
	MatchID              string    `json:"match_id"`
	Kickoff              time.Time `json:"kickoff"`
	MatchIndex           int       `json:"match_index"`
	Opponent             string    `json:"opponent"`
	Venue                string    `json:"venue"`
	XGFor                float64   `json:"xg_for"`
	XGAgainst            float64   `json:"xg_against"`
	GoalsFor             int       `json:"goals_for"`
	GoalsAgainst         int       `json:"goals_against"`
	SetPieceXGFor        float64   `json:"set_piece_xg_for"`
	SetPieceXGAgainst    float64   `json:"set_piece_xg_against"`
	SetPieceGoalsFor     int       `json:"set_piece_goals_for"`
	SetPieceGoalsAgainst int       `json:"set_piece_goals_against"`
}

// Points awarded for the observed score: 3 win, 1 draw, 0 loss
func (m MatchObservation) Points() int {
	switch {
	case m.GoalsFor > m.GoalsAgainst:
		return 3
	case m.GoalsFor == m.GoalsAgainst:
		return 1
	default:
		return 0
	}
}

// Result returns W, D or L
func (m MatchObservation) Result() string {
	switch m.Points() {
	case 3:
		return Win
	case 1:
		return Draw
	default:
		return Loss
	}
}

func validFloat(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func validateFixture(f Fixture) error {
	if f.HomeTeam == "" || f.AwayTeam == "" {
		return fmt.Errorf("%w: match %s has a missing team name", ErrMalformedFixture, f.MatchID)
	}
	if f.HomeTeam == f.AwayTeam {
		return fmt.Errorf("%w: match %s has %s playing itself", ErrMalformedFixture, f.MatchID, f.HomeTeam)
	}
	for _, v := range []float64{f.HomeXG, f.AwayXG, f.HomeSetPieceXG, f.AwaySetPieceXG} {
		if !validFloat(v) {
			return fmt.Errorf("match %s (%s v %s): %w", f.MatchID, f.HomeTeam, f.AwayTeam, ErrNegativeExpectedGoals)
		}
	}
	if f.HomeGoals < 0 || f.AwayGoals < 0 || f.HomeSetPieceGoals < 0 || f.AwaySetPieceGoals < 0 {
		return fmt.Errorf("%w: match %s has a negative goal count", ErrMalformedFixture, f.MatchID)
	}
	return nil
}

// SortFixtures orders fixtures chronologically, breaking kickoff ties by match id
func SortFixtures(fixtures []Fixture) []Fixture {
	sorted := make([]Fixture, len(fixtures))
	copy(sorted, fixtures)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Kickoff.Equal(sorted[j].Kickoff) {
			return sorted[i].Kickoff.Before(sorted[j].Kickoff)
		}
		return sorted[i].MatchID < sorted[j].MatchID
	})
	return sorted
}

// Observations splits every fixture into its home and away perspective and
// groups them by team. Each team's list is chronological with MatchIndex
// running from 1. The input order of fixtures does not matter
func Observations(fixtures []Fixture) (map[string][]MatchObservation, error) {
	byTeam := make(map[string][]MatchObservation)
	seen := make(map[string]bool, len(fixtures))

	for _, f := range SortFixtures(fixtures) {
		if err := validateFixture(f); err != nil {
			return nil, err
		}
		if seen[f.MatchID] {
			return nil, fmt.Errorf("%w: match %s appears more than once", ErrMalformedFixture, f.MatchID)
		}
		seen[f.MatchID] = true

		home := MatchObservation{
			MatchID:              f.MatchID,
			Kickoff:              f.Kickoff,
			MatchIndex:           len(byTeam[f.HomeTeam]) + 1,
			Opponent:             f.AwayTeam,
			Venue:                Home,
			XGFor:                f.HomeXG,
			XGAgainst:            f.AwayXG,
			GoalsFor:             f.HomeGoals,
			GoalsAgainst:         f.AwayGoals,
			SetPieceXGFor:        f.HomeSetPieceXG,
			SetPieceXGAgainst:    f.AwaySetPieceXG,
			SetPieceGoalsFor:     f.HomeSetPieceGoals,
			SetPieceGoalsAgainst: f.AwaySetPieceGoals,
		}
		away := MatchObservation{
			MatchID:              f.MatchID,
			Kickoff:              f.Kickoff,
			MatchIndex:           len(byTeam[f.AwayTeam]) + 1,
			Opponent:             f.HomeTeam,
			Venue:                Away,
			XGFor:                f.AwayXG,
			XGAgainst:            f.HomeXG,
			GoalsFor:             f.AwayGoals,
			GoalsAgainst:         f.HomeGoals,
			SetPieceXGFor:        f.AwaySetPieceXG,
			SetPieceXGAgainst:    f.HomeSetPieceXG,
			SetPieceGoalsFor:     f.AwaySetPieceGoals,
			SetPieceGoalsAgainst: f.HomeSetPieceGoals,
		}
		byTeam[f.HomeTeam] = append(byTeam[f.HomeTeam], home)
		byTeam[f.AwayTeam] = append(byTeam[f.AwayTeam], away)
	}
	return byTeam, nil
}

// TeamNames returns the keys of an observation map in alphabetical order
func TeamNames(byTeam map[string][]MatchObservation) []string {
	names := make([]string, 0, len(byTeam))
	for name := range byTeam {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
