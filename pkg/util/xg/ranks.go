package xg

// SummaryRanks are a team's league ranks per metric. Ties share the lowest
// rank ("min" method), so two joint-third teams are both 3 and the next is 5.
// Attacking metrics rank highest first, defensive metrics lowest first
type SummaryRanks struct {
	Goals         int `json:"goals"`
	XG            int `json:"xg"`
	OpenPlayXG    int `json:"open_play_xg"`
	SetPieceXG    int `json:"set_piece_xg"`
	SetPieceGoals int `json:"set_piece_goals"`
	XGPer90       int `json:"xg_per_90"`
	XGConversion  int `json:"xg_conversion"`

	GoalsAgainst         int `json:"goals_against"`
	XGA                  int `json:"xga"`
	OpenPlayXGA          int `json:"open_play_xga"`
	SetPieceXGA          int `json:"set_piece_xga"`
	SetPieceGoalsAgainst int `json:"set_piece_goals_against"`
	XGAPer90             int `json:"xga_per_90"`
	XGAConversion        int `json:"xga_conversion"`
}

// MinRank ranks values 1..N, ties sharing the smallest rank of their group
func MinRank(values []float64, descending bool) []int {
	ranks := make([]int, len(values))
	for i, v := range values {
		rank := 1
		for _, other := range values {
			if (descending && other > v) || (!descending && other < v) {
				rank++
			}
		}
		ranks[i] = rank
	}
	return ranks
}

// PercentileRank returns, per value, its average rank (ascending, ties
// averaged) divided by N and scaled to 0-100
func PercentileRank(values []float64) []float64 {
	n := float64(len(values))
	pct := make([]float64, len(values))
	for i, v := range values {
		var below, equal float64
		for _, other := range values {
			if other < v {
				below++
			} else if other == v {
				equal++
			}
		}
		avgRank := below + (equal+1)/2
		pct[i] = avgRank / n * 100
	}
	return pct
}

func column(summaries []TeamSummary, get func(TeamSummary) float64) []float64 {
	out := make([]float64, len(summaries))
	for i, s := range summaries {
		out[i] = get(s)
	}
	return out
}

// RankSummaries ranks every team against the rest of the league, keyed by team
func RankSummaries(summaries []TeamSummary) map[string]SummaryRanks {
	metrics := []struct {
		get        func(TeamSummary) float64
		descending bool
		set        func(*SummaryRanks, int)
	}{
		{func(s TeamSummary) float64 { return float64(s.Goals) }, true, func(r *SummaryRanks, v int) { r.Goals = v }},
		{func(s TeamSummary) float64 { return s.XG }, true, func(r *SummaryRanks, v int) { r.XG = v }},
		{func(s TeamSummary) float64 { return s.OpenPlayXG }, true, func(r *SummaryRanks, v int) { r.OpenPlayXG = v }},
		{func(s TeamSummary) float64 { return s.SetPieceXG }, true, func(r *SummaryRanks, v int) { r.SetPieceXG = v }},
		{func(s TeamSummary) float64 { return float64(s.SetPieceGoals) }, true, func(r *SummaryRanks, v int) { r.SetPieceGoals = v }},
		{func(s TeamSummary) float64 { return s.XGPer90 }, true, func(r *SummaryRanks, v int) { r.XGPer90 = v }},
		{func(s TeamSummary) float64 { return s.XGConversion }, true, func(r *SummaryRanks, v int) { r.XGConversion = v }},

		{func(s TeamSummary) float64 { return float64(s.GoalsAgainst) }, false, func(r *SummaryRanks, v int) { r.GoalsAgainst = v }},
		{func(s TeamSummary) float64 { return s.XGA }, false, func(r *SummaryRanks, v int) { r.XGA = v }},
		{func(s TeamSummary) float64 { return s.OpenPlayXGA }, false, func(r *SummaryRanks, v int) { r.OpenPlayXGA = v }},
		{func(s TeamSummary) float64 { return s.SetPieceXGA }, false, func(r *SummaryRanks, v int) { r.SetPieceXGA = v }},
		{func(s TeamSummary) float64 { return float64(s.SetPieceGoalsAgainst) }, false, func(r *SummaryRanks, v int) { r.SetPieceGoalsAgainst = v }},
		{func(s TeamSummary) float64 { return s.XGAPer90 }, false, func(r *SummaryRanks, v int) { r.XGAPer90 = v }},
		{func(s TeamSummary) float64 { return s.XGAConversion }, false, func(r *SummaryRanks, v int) { r.XGAConversion = v }},
	}

	ranks := make([]SummaryRanks, len(summaries))
	for _, m := range metrics {
		for i, rank := range MinRank(column(summaries, m.get), m.descending) {
			m.set(&ranks[i], rank)
		}
	}

	byTeam := make(map[string]SummaryRanks, len(summaries))
	for i, s := range summaries {
		byTeam[s.Team] = ranks[i]
	}
	return byTeam
}
