package xg

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarise(t *testing.T) {
	matches := []MatchObservation{
		{GoalsFor: 2, GoalsAgainst: 0, XGFor: 1.5, XGAgainst: 0.5, SetPieceXGFor: 0.5, SetPieceGoalsFor: 1},
		{GoalsFor: 1, GoalsAgainst: 1, XGFor: 0.5, XGAgainst: 1.5, SetPieceXGAgainst: 0.4, SetPieceGoalsAgainst: 1},
	}
	s := Summarise("Norwich City", matches)

	assert.Equal(t, 2, s.MatchesPlayed)
	assert.Equal(t, 4, s.TotalPoints)
	assert.Equal(t, 2.0, s.PointsPerGame)
	assert.Equal(t, 3, s.Goals)
	assert.Equal(t, 2.0, s.XG)
	assert.Equal(t, 1.5, s.OpenPlayXG)
	assert.Equal(t, 2, s.OpenPlayGoals)
	assert.Equal(t, 1.0, s.XGPer90)
	assert.Equal(t, 1.5, s.XGConversion)
	assert.InDelta(t, 1.6, s.OpenPlayXGA, 1e-12)
	assert.Equal(t, 0, s.OpenPlayGoalsAgainst)
	assert.Equal(t, 0.5, s.XGAConversion)
	assert.Equal(t, 0.0, s.XGD)
	assert.Equal(t, 2, s.GoalDifference())
}

func TestSummariseWithoutMatches(t *testing.T) {
	s := Summarise("Derby County", nil)
	assert.Zero(t, s.PointsPerGame)
	assert.Zero(t, s.XGPer90)
	assert.Zero(t, s.XGConversion)
}

func TestSummariseAllOrdersByXG(t *testing.T) {
	byTeam, err := Observations(threeTeamSeason())
	require.NoError(t, err)
	summaries := SummariseAll(byTeam)
	require.Len(t, summaries, 3)
	assert.Equal(t, "Derby County", summaries[0].Team)
	for i := 1; i < len(summaries); i++ {
		assert.GreaterOrEqual(t, summaries[i-1].XG, summaries[i].XG)
	}
}

func TestMinRank(t *testing.T) {
	assert.Equal(t, []int{1, 4, 1, 3}, MinRank([]float64{3, 1, 3, 2}, true))
	assert.Equal(t, []int{3, 1, 3, 2}, MinRank([]float64{3, 1, 3, 2}, false))
	assert.Empty(t, MinRank(nil, true))
}

func TestPercentileRank(t *testing.T) {
	assert.Equal(t, []float64{25, 62.5, 62.5, 100}, PercentileRank([]float64{1, 2, 2, 3}))
}

func TestRankSummaries(t *testing.T) {
	summaries := []TeamSummary{
		{Team: "A", Goals: 10, XG: 12, GoalsAgainst: 5, XGA: 6},
		{Team: "B", Goals: 10, XG: 9, GoalsAgainst: 8, XGA: 4},
		{Team: "C", Goals: 4, XG: 15, GoalsAgainst: 5, XGA: 9},
	}
	ranks := RankSummaries(summaries)
	assert.Equal(t, 1, ranks["A"].Goals)
	assert.Equal(t, 1, ranks["B"].Goals)
	assert.Equal(t, 3, ranks["C"].Goals)
	assert.Equal(t, 1, ranks["C"].XG)
	assert.Equal(t, 1, ranks["A"].GoalsAgainst)
	assert.Equal(t, 1, ranks["C"].GoalsAgainst)
	assert.Equal(t, 3, ranks["B"].GoalsAgainst)
	assert.Equal(t, 1, ranks["B"].XGA)
	assert.Equal(t, 3, ranks["C"].XGA)
}

func TestCategories(t *testing.T) {
	assert.Equal(t, Overperforming, PositionDiffCategory(3))
	assert.Equal(t, Underperforming, PositionDiffCategory(-1))
	assert.Equal(t, Neutral, PositionDiffCategory(0))

	assert.Equal(t, StronglyOverperforming, PointsDiffCategory(2.5, 2))
	assert.Equal(t, Overperforming, PointsDiffCategory(2, 2))
	assert.Equal(t, Neutral, PointsDiffCategory(0, 2))
	assert.Equal(t, Underperforming, PointsDiffCategory(-0.1, 2))
	assert.Equal(t, StronglyUnderperforming, PointsDiffCategory(-2.01, 2))
}

func TestRankBand(t *testing.T) {
	assert.Equal(t, BandTop, RankBand(1, 24))
	assert.Equal(t, BandTop, RankBand(5, 24))
	assert.Equal(t, BandUpper, RankBand(6, 24))
	assert.Equal(t, BandMiddle, RankBand(12, 24))
	assert.Equal(t, BandLower, RankBand(17, 24))
	assert.Equal(t, BandBottom, RankBand(24, 24))

	// a smaller league reaches the bottom band sooner
	assert.Equal(t, BandBottom, RankBand(20, 20))
	assert.Equal(t, BandLower, RankBand(3, 4))
	assert.Equal(t, BandTop, RankBand(1, 1))
}

func TestCompareTeams(t *testing.T) {
	summaries := []TeamSummary{
		{Team: "A", XGPer90: 2.0, XGAPer90: 0.8, PointsPerGame: 2.1},
		{Team: "B", XGPer90: 1.0, XGAPer90: 1.6, PointsPerGame: 0.9},
		{Team: "C", XGPer90: 1.5, XGAPer90: 1.2, PointsPerGame: 1.5},
		{Team: "D", XGPer90: 0.5, XGAPer90: 2.0, PointsPerGame: 0.5},
	}
	profiles, err := CompareTeams(summaries, []string{"B", "A"})
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "B", profiles[0].Summary.Team)
	assert.Equal(t, "A", profiles[1].Summary.Team)

	assert.Equal(t, 100.0, profiles[1].Percentiles.XGPer90)
	assert.Equal(t, 75.0, profiles[1].Percentiles.XGAPer90)
	assert.Equal(t, 50.0, profiles[0].Percentiles.XGPer90)
	assert.Equal(t, 25.0, profiles[0].Percentiles.XGAPer90)

	_, err = CompareTeams(summaries, []string{"A", "Nobody"})
	assert.ErrorIs(t, err, ErrUnknownTeam)

	_, err = CompareTeams(summaries, []string{"A"})
	assert.ErrorIs(t, err, ErrCompareCount)
	_, err = CompareTeams(summaries, []string{"A", "B", "C", "D"})
	assert.True(t, errors.Is(err, ErrCompareCount))
}

func TestBadgePath(t *testing.T) {
	p, ok := BadgePath("/srv/badges", "Stoke City")
	assert.True(t, ok)
	assert.Equal(t, "/srv/badges/Stoke_City_FC.svg.png", p)

	_, ok = BadgePath("/srv/badges", "Real Madrid")
	assert.False(t, ok)
	assert.Len(t, BadgeTeams(), len(TeamBadges))
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("XGDASH_MAX_GOALS", "12")
	t.Setenv("XGDASH_CACHE_TTL", "1h")
	t.Setenv("XGDASH_FORM_LENGTH", "6")
	t.Setenv("XGDASH_STRONG_POINTS_DIFF", "3.5")
	t.Setenv("XGDASH_WAREHOUSE_DSN", "postgres://localhost/xg")
	t.Setenv("XGDASH_CORS_ORIGINS", "https://a.example, https://b.example")

	c, err := LoadFromEnv(DefaultXgConfig())
	require.NoError(t, err)
	assert.Equal(t, 12, c.MaxGoals)
	assert.Equal(t, time.Hour, c.CacheTTL)
	assert.Equal(t, 6, c.FormLength)
	assert.Equal(t, 3.5, c.StrongPointsDiff)
	assert.Equal(t, "postgres://localhost/xg", c.WarehouseDSN)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.CORSOrigins)
	assert.Equal(t, DefaultSeasonLength, c.SeasonLength)
	require.NoError(t, ValidateConfig(c))

	t.Setenv("XGDASH_MAX_GOALS", "lots")
	_, err = LoadFromEnv(DefaultXgConfig())
	assert.Error(t, err)

	t.Setenv("XGDASH_MAX_GOALS", "12")
	t.Setenv("XGDASH_STRONG_POINTS_DIFF", "big")
	_, err = LoadFromEnv(DefaultXgConfig())
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	require.NoError(t, ValidateConfig(DefaultXgConfig()))

	c := DefaultXgConfig()
	c.MaxGoals = 0
	assert.Error(t, ValidateConfig(c))

	c = DefaultXgConfig()
	c.LogOutput = "x"
	assert.Error(t, ValidateConfig(c))
}
