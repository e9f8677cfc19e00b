package xg

import (
	"sort"
	"strings"
)

// TableEntry is one row of the actual vs expected league table
type TableEntry struct {
	Team             string  `json:"team"`
	MatchesPlayed    int     `json:"matches_played"`
	TotalPoints      int     `json:"total_points"`
	ExpectedPoints   float64 `json:"expected_points"`
	GoalsFor         int     `json:"goals_for"`
	GoalsAgainst     int     `json:"goals_against"`
	GoalDifference   int     `json:"goal_difference"`
	XGFor            float64 `json:"xg_for"`
	XGAgainst        float64 `json:"xg_against"`
	XGDifference     float64 `json:"xg_difference"`
	ActualPosition   int     `json:"actual_position"`
	ExpectedPosition int     `json:"expected_position"`
	PositionDiff     int     `json:"position_diff"`
	PointsDiff       float64 `json:"points_diff"`
	Form             string  `json:"form"`
}

// FormString returns the last n results, oldest first, or "" when fewer
// than n matches have been played
func FormString(matches []MatchObservation, n int) string {
	if n < 1 || len(matches) < n {
		return ""
	}
	var b strings.Builder
	for _, m := range matches[len(matches)-n:] {
		b.WriteString(m.Result())
	}
	return b.String()
}

// SeasonExpectedPoints sums the per-match expected points of one team
func SeasonExpectedPoints(matches []MatchObservation, maxGoals int) (float64, error) {
	var total float64
	for _, m := range matches {
		xp, err := ExpectedPoints(m.XGFor, m.XGAgainst, maxGoals)
		if err != nil {
			return 0, err
		}
		total += xp
	}
	return total, nil
}

// RankTable assigns actual and expected positions to entries and fills in
// the position and points differences. Positions are always 1..N with no
// shared places; team name is the last tie-break. Entries come back in
// actual position order
func RankTable(entries []TableEntry) []TableEntry {
	ranked := make([]TableEntry, len(entries))
	copy(ranked, entries)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.ExpectedPoints != b.ExpectedPoints {
			return a.ExpectedPoints > b.ExpectedPoints
		}
		if a.XGDifference != b.XGDifference {
			return a.XGDifference > b.XGDifference
		}
		if a.XGFor != b.XGFor {
			return a.XGFor > b.XGFor
		}
		return a.Team < b.Team
	})
	for i := range ranked {
		ranked[i].ExpectedPosition = i + 1
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.TotalPoints != b.TotalPoints {
			return a.TotalPoints > b.TotalPoints
		}
		if a.GoalDifference != b.GoalDifference {
			return a.GoalDifference > b.GoalDifference
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return a.Team < b.Team
	})
	for i := range ranked {
		ranked[i].ActualPosition = i + 1
		ranked[i].PositionDiff = ranked[i].ExpectedPosition - ranked[i].ActualPosition
		ranked[i].PointsDiff = float64(ranked[i].TotalPoints) - ranked[i].ExpectedPoints
	}
	return ranked
}

// BuildLeagueTable aggregates every team's observations into the actual vs
// expected league table
func BuildLeagueTable(byTeam map[string][]MatchObservation, maxGoals, formLength int) ([]TableEntry, error) {
	entries := make([]TableEntry, 0, len(byTeam))
	for _, team := range TeamNames(byTeam) {
		matches := byTeam[team]
		xp, err := SeasonExpectedPoints(matches, maxGoals)
		if err != nil {
			return nil, err
		}
		s := Summarise(team, matches)
		entries = append(entries, TableEntry{
			Team:           team,
			MatchesPlayed:  s.MatchesPlayed,
			TotalPoints:    s.TotalPoints,
			ExpectedPoints: xp,
			GoalsFor:       s.Goals,
			GoalsAgainst:   s.GoalsAgainst,
			GoalDifference: s.GoalDifference(),
			XGFor:          s.XG,
			XGAgainst:      s.XGA,
			XGDifference:   s.XGD,
			Form:           FormString(matches, formLength),
		})
	}
	return RankTable(entries), nil
}
