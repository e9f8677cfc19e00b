package xg

import "sort"

// TeamSummary holds a team's season-to-date totals and rate statistics.
// "Per 90" figures are per match played
type TeamSummary struct {
	Team          string  `json:"team"`
	MatchesPlayed int     `json:"matches_played"`
	TotalPoints   int     `json:"total_points"`
	PointsPerGame float64 `json:"points_per_game"`

	Goals         int     `json:"goals"`
	XG            float64 `json:"xg"`
	OpenPlayXG    float64 `json:"open_play_xg"`
	SetPieceXG    float64 `json:"set_piece_xg"`
	OpenPlayGoals int     `json:"open_play_goals"`
	SetPieceGoals int     `json:"set_piece_goals"`
	XGPer90       float64 `json:"xg_per_90"`
	XGConversion  float64 `json:"xg_conversion"`

	GoalsAgainst         int     `json:"goals_against"`
	XGA                  float64 `json:"xga"`
	OpenPlayXGA          float64 `json:"open_play_xga"`
	SetPieceXGA          float64 `json:"set_piece_xga"`
	OpenPlayGoalsAgainst int     `json:"open_play_goals_against"`
	SetPieceGoalsAgainst int     `json:"set_piece_goals_against"`
	XGAPer90             float64 `json:"xga_per_90"`
	XGAConversion        float64 `json:"xga_conversion"`

	XGD      float64 `json:"xgd"`
	XGDPer90 float64 `json:"xgd_per_90"`
}

// GoalDifference is goals scored minus goals conceded
func (s TeamSummary) GoalDifference() int {
	return s.Goals - s.GoalsAgainst
}

// perMatch avoids a division by zero for teams without matches
func perMatch(total float64, matches int) float64 {
	if matches == 0 {
		return 0
	}
	return total / float64(matches)
}

// conversion is goals per unit of xG, 0 when there was no xG at all
func conversion(goals int, xg float64) float64 {
	if xg <= 0 {
		return 0
	}
	return float64(goals) / xg
}

// Summarise folds one team's observations into a TeamSummary
func Summarise(team string, matches []MatchObservation) TeamSummary {
	s := TeamSummary{Team: team, MatchesPlayed: len(matches)}
	for _, m := range matches {
		s.TotalPoints += m.Points()
		s.Goals += m.GoalsFor
		s.XG += m.XGFor
		s.SetPieceXG += m.SetPieceXGFor
		s.SetPieceGoals += m.SetPieceGoalsFor
		s.GoalsAgainst += m.GoalsAgainst
		s.XGA += m.XGAgainst
		s.SetPieceXGA += m.SetPieceXGAgainst
		s.SetPieceGoalsAgainst += m.SetPieceGoalsAgainst
	}
	s.OpenPlayXG = s.XG - s.SetPieceXG
	s.OpenPlayGoals = s.Goals - s.SetPieceGoals
	s.OpenPlayXGA = s.XGA - s.SetPieceXGA
	s.OpenPlayGoalsAgainst = s.GoalsAgainst - s.SetPieceGoalsAgainst

	s.PointsPerGame = perMatch(float64(s.TotalPoints), s.MatchesPlayed)
	s.XGPer90 = perMatch(s.XG, s.MatchesPlayed)
	s.XGAPer90 = perMatch(s.XGA, s.MatchesPlayed)
	s.XGConversion = conversion(s.Goals, s.XG)
	s.XGAConversion = conversion(s.GoalsAgainst, s.XGA)
	s.XGD = s.XG - s.XGA
	s.XGDPer90 = perMatch(s.XGD, s.MatchesPlayed)
	return s
}

// SummariseAll builds a summary per team, ordered by xG descending then name
func SummariseAll(byTeam map[string][]MatchObservation) []TeamSummary {
	summaries := make([]TeamSummary, 0, len(byTeam))
	for _, team := range TeamNames(byTeam) {
		summaries = append(summaries, Summarise(team, byTeam[team]))
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].XG != summaries[j].XG {
			return summaries[i].XG > summaries[j].XG
		}
		return summaries[i].Team < summaries[j].Team
	})
	return summaries
}
