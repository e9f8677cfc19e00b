package xg

import (
	"errors"
	"fmt"
)

// ErrUnknownTeam is returned when a comparison names a team with no summary
var ErrUnknownTeam = errors.New("unknown team")

// ErrCompareCount is returned unless two or three teams are compared
var ErrCompareCount = errors.New("compare needs two or three teams")

// Percentiles are 0-100 with higher always better, so the defensive
// metrics are inverted
type Percentiles struct {
	XGPer90       float64 `json:"xg_per_90"`
	XGAPer90      float64 `json:"xga_per_90"`
	XGConversion  float64 `json:"xg_conversion"`
	XGAConversion float64 `json:"xga_conversion"`
	PointsPerGame float64 `json:"points_per_game"`
	XGDPer90      float64 `json:"xgd_per_90"`
}

// TeamProfile pairs a team's raw summary with its league percentiles
type TeamProfile struct {
	Summary     TeamSummary `json:"summary"`
	Percentiles Percentiles `json:"percentiles"`
}

// LeaguePercentiles computes percentiles for every team against the whole league
func LeaguePercentiles(summaries []TeamSummary) map[string]Percentiles {
	xg90 := PercentileRank(column(summaries, func(s TeamSummary) float64 { return s.XGPer90 }))
	xga90 := PercentileRank(column(summaries, func(s TeamSummary) float64 { return s.XGAPer90 }))
	xgConv := PercentileRank(column(summaries, func(s TeamSummary) float64 { return s.XGConversion }))
	xgaConv := PercentileRank(column(summaries, func(s TeamSummary) float64 { return s.XGAConversion }))
	ppg := PercentileRank(column(summaries, func(s TeamSummary) float64 { return s.PointsPerGame }))
	xgd90 := PercentileRank(column(summaries, func(s TeamSummary) float64 { return s.XGDPer90 }))

	out := make(map[string]Percentiles, len(summaries))
	for i, s := range summaries {
		out[s.Team] = Percentiles{
			XGPer90:       xg90[i],
			XGAPer90:      100 - xga90[i],
			XGConversion:  xgConv[i],
			XGAConversion: 100 - xgaConv[i],
			PointsPerGame: ppg[i],
			XGDPer90:      xgd90[i],
		}
	}
	return out
}

// CompareTeams builds percentile profiles for two or three named teams,
// returned in the order asked for
func CompareTeams(summaries []TeamSummary, names []string) ([]TeamProfile, error) {
	if len(names) < 2 || len(names) > 3 {
		return nil, fmt.Errorf("%w: got %d", ErrCompareCount, len(names))
	}
	byTeam := make(map[string]TeamSummary, len(summaries))
	for _, s := range summaries {
		byTeam[s.Team] = s
	}
	pct := LeaguePercentiles(summaries)

	profiles := make([]TeamProfile, 0, len(names))
	for _, name := range names {
		s, ok := byTeam[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTeam, name)
		}
		profiles = append(profiles, TeamProfile{Summary: s, Percentiles: pct[name]})
	}
	return profiles, nil
}
