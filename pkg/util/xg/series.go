package xg

import "fmt"

// SeriesPoint is a team's state after one match of the season
type SeriesPoint struct {
	MatchIndex               int     `json:"match_index"`
	Label                    string  `json:"label"`
	Opponent                 string  `json:"opponent"`
	Venue                    string  `json:"venue"`
	Result                   string  `json:"result"`
	GoalsFor                 int     `json:"goals_for"`
	GoalsAgainst             int     `json:"goals_against"`
	XGFor                    float64 `json:"xg_for"`
	XGAgainst                float64 `json:"xg_against"`
	RollingXGFor             float64 `json:"rolling_xg_for"`
	RollingXGAgainst         float64 `json:"rolling_xg_against"`
	Points                   int     `json:"points"`
	CumulativePoints         int     `json:"cumulative_points"`
	PointsPerGame            float64 `json:"points_per_game"`
	ExpectedPoints           float64 `json:"expected_points"`
	CumulativeExpectedPoints float64 `json:"cumulative_expected_points"`
	ExpectedPointsPerGame    float64 `json:"expected_points_per_game"`
}

// PacePoint is one step of the linear season projection
type PacePoint struct {
	MatchIndex     int     `json:"match_index"`
	Points         float64 `json:"points"`
	ExpectedPoints float64 `json:"expected_points"`
	Target         float64 `json:"target"`
}

// RollingMean is the trailing mean over min(window, i+1) values ending at i
func RollingMean(values []float64, window int) []float64 {
	if window < 1 {
		window = 1
	}
	out := make([]float64, len(values))
	for i := range values {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		var sum float64
		for _, v := range values[start : i+1] {
			sum += v
		}
		out[i] = sum / float64(i+1-start)
	}
	return out
}

// TeamSeries walks a team's matches in order and produces rolling xG,
// cumulative points and cumulative expected points after every match
func TeamSeries(matches []MatchObservation, window, maxGoals int) ([]SeriesPoint, error) {
	xgFor := make([]float64, len(matches))
	xgAgainst := make([]float64, len(matches))
	for i, m := range matches {
		xgFor[i] = m.XGFor
		xgAgainst[i] = m.XGAgainst
	}
	rollingFor := RollingMean(xgFor, window)
	rollingAgainst := RollingMean(xgAgainst, window)

	series := make([]SeriesPoint, 0, len(matches))
	var cumPoints int
	var cumXP float64
	for i, m := range matches {
		xp, err := ExpectedPoints(m.XGFor, m.XGAgainst, maxGoals)
		if err != nil {
			return nil, fmt.Errorf("match %s: %w", m.MatchID, err)
		}
		n := i + 1
		cumPoints += m.Points()
		cumXP += xp
		series = append(series, SeriesPoint{
			MatchIndex:               n,
			Label:                    fmt.Sprintf("%d: %s", n, m.Opponent),
			Opponent:                 m.Opponent,
			Venue:                    m.Venue,
			Result:                   m.Result(),
			GoalsFor:                 m.GoalsFor,
			GoalsAgainst:             m.GoalsAgainst,
			XGFor:                    m.XGFor,
			XGAgainst:                m.XGAgainst,
			RollingXGFor:             rollingFor[i],
			RollingXGAgainst:         rollingAgainst[i],
			Points:                   m.Points(),
			CumulativePoints:         cumPoints,
			PointsPerGame:            float64(cumPoints) / float64(n),
			ExpectedPoints:           xp,
			CumulativeExpectedPoints: cumXP,
			ExpectedPointsPerGame:    cumXP / float64(n),
		})
	}
	return series, nil
}

// PaceProjection extends the latest points and expected points per game
// linearly across the season, next to the pace needed to hit target.
// An empty series has no rate to project and yields nil
func PaceProjection(series []SeriesPoint, seasonLength int, target float64) []PacePoint {
	if len(series) == 0 || seasonLength < 1 {
		return nil
	}
	last := series[len(series)-1]
	targetRate := target / float64(seasonLength)

	pace := make([]PacePoint, seasonLength)
	for i := 1; i <= seasonLength; i++ {
		pace[i-1] = PacePoint{
			MatchIndex:     i,
			Points:         last.PointsPerGame * float64(i),
			ExpectedPoints: last.ExpectedPointsPerGame * float64(i),
			Target:         targetRate * float64(i),
		}
	}
	return pace
}
