package xg

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var seasonStart = time.Date(2025, 8, 9, 15, 0, 0, 0, time.UTC)

func fixture(id string, day int, home, away string, hxg, axg float64, hg, ag int) Fixture {
	return Fixture{
		MatchID:   id,
		Kickoff:   seasonStart.AddDate(0, 0, day),
		HomeTeam:  home,
		AwayTeam:  away,
		HomeXG:    hxg,
		AwayXG:    axg,
		HomeGoals: hg,
		AwayGoals: ag,
	}
}

// threeTeamSeason is six fixtures, deliberately out of order
func threeTeamSeason() []Fixture {
	return []Fixture{
		fixture("m4", 21, "Stoke City", "Hull City", 0.9, 1.1, 0, 0),
		fixture("m1", 0, "Hull City", "Stoke City", 1.8, 0.6, 2, 0),
		fixture("m3", 14, "Hull City", "Derby County", 0.7, 1.9, 1, 1),
		fixture("m2", 7, "Derby County", "Stoke City", 2.2, 0.4, 1, 2),
		fixture("m6", 35, "Derby County", "Hull City", 1.0, 1.0, 3, 0),
		fixture("m5", 28, "Stoke City", "Derby County", 1.5, 1.2, 1, 0),
	}
}

func TestRankTableTieBreaks(t *testing.T) {
	entries := []TableEntry{
		{Team: "A", TotalPoints: 60, GoalDifference: 10, GoalsFor: 50},
		{Team: "C", TotalPoints: 58, GoalDifference: 5, GoalsFor: 60},
		{Team: "B", TotalPoints: 58, GoalDifference: 12, GoalsFor: 40},
	}
	ranked := RankTable(entries)
	require.Len(t, ranked, 3)

	positions := map[string]int{}
	for _, e := range ranked {
		positions[e.Team] = e.ActualPosition
	}
	assert.Equal(t, map[string]int{"A": 1, "B": 2, "C": 3}, positions)
}

func TestRankTableNeverSharesPositions(t *testing.T) {
	entries := []TableEntry{
		{Team: "Zeta", TotalPoints: 10, ExpectedPoints: 8},
		{Team: "Alpha", TotalPoints: 10, ExpectedPoints: 8},
		{Team: "Mid", TotalPoints: 10, ExpectedPoints: 8},
	}
	ranked := RankTable(entries)
	assert.Equal(t, "Alpha", ranked[0].Team)
	assert.Equal(t, "Mid", ranked[1].Team)
	assert.Equal(t, "Zeta", ranked[2].Team)
	for i, e := range ranked {
		assert.Equal(t, i+1, e.ActualPosition)
		assert.Equal(t, i+1, e.ExpectedPosition)
		assert.Zero(t, e.PositionDiff)
	}
}

func TestRankTableExpectedOrder(t *testing.T) {
	entries := []TableEntry{
		{Team: "A", ExpectedPoints: 30, XGDifference: 1, XGFor: 20},
		{Team: "B", ExpectedPoints: 30, XGDifference: 4, XGFor: 18},
		{Team: "C", ExpectedPoints: 30, XGDifference: 4, XGFor: 25},
		{Team: "D", ExpectedPoints: 31},
	}
	expected := map[string]int{}
	for _, e := range RankTable(entries) {
		expected[e.Team] = e.ExpectedPosition
	}
	assert.Equal(t, map[string]int{"D": 1, "C": 2, "B": 3, "A": 4}, expected)
}

func TestPositionDiffIsExpectedMinusActual(t *testing.T) {
	var entries []TableEntry
	for i := 0; i < 9; i++ {
		points := 70 - i
		if i >= 4 {
			points = 65 - (i - 4)
		}
		entries = append(entries, TableEntry{
			Team:           fmt.Sprintf("Team %d", i),
			TotalPoints:    points,
			ExpectedPoints: float64(60 - i),
		})
	}
	entries = append(entries, TableEntry{Team: "Lucky", TotalPoints: 66, ExpectedPoints: 10})

	for _, e := range RankTable(entries) {
		if e.Team != "Lucky" {
			continue
		}
		assert.Equal(t, 5, e.ActualPosition)
		assert.Equal(t, 10, e.ExpectedPosition)
		assert.Equal(t, 5, e.PositionDiff)
		assert.InDelta(t, 56.0, e.PointsDiff, 1e-12)
		assert.Equal(t, Overperforming, PositionDiffCategory(e.PositionDiff))
	}
}

func TestBuildLeagueTable(t *testing.T) {
	byTeam, err := Observations(threeTeamSeason())
	require.NoError(t, err)

	table, err := BuildLeagueTable(byTeam, DefaultMaxGoals, 4)
	require.NoError(t, err)
	require.Len(t, table, 3)

	// Stoke: L W D W = 7, Hull: W D D L = 5, Derby: L D L W = 4
	assert.Equal(t, "Stoke City", table[0].Team)
	assert.Equal(t, 7, table[0].TotalPoints)
	assert.Equal(t, "Hull City", table[1].Team)
	assert.Equal(t, 5, table[1].TotalPoints)
	assert.Equal(t, "Derby County", table[2].Team)
	assert.Equal(t, 4, table[2].TotalPoints)

	assert.Equal(t, "LWDW", table[0].Form)
	assert.Equal(t, "WDDL", table[1].Form)

	for _, e := range table {
		assert.Equal(t, 4, e.MatchesPlayed)
		assert.Equal(t, e.ExpectedPosition-e.ActualPosition, e.PositionDiff)
		assert.InDelta(t, float64(e.TotalPoints)-e.ExpectedPoints, e.PointsDiff, 1e-12)

		want, err := SeasonExpectedPoints(byTeam[e.Team], DefaultMaxGoals)
		require.NoError(t, err)
		assert.Equal(t, want, e.ExpectedPoints)
	}
	// Derby created the best chances
	assert.Equal(t, 1, positionOf(table, "Derby County", true))
}

func positionOf(table []TableEntry, team string, expected bool) int {
	for _, e := range table {
		if e.Team == team {
			if expected {
				return e.ExpectedPosition
			}
			return e.ActualPosition
		}
	}
	return 0
}

func TestBuildLeagueTableSingleTeamWithoutMatches(t *testing.T) {
	table, err := BuildLeagueTable(map[string][]MatchObservation{"Oxford United": nil}, DefaultMaxGoals, DefaultFormLength)
	require.NoError(t, err)
	require.Len(t, table, 1)
	assert.Equal(t, 1, table[0].ActualPosition)
	assert.Equal(t, 1, table[0].ExpectedPosition)
	assert.Zero(t, table[0].ExpectedPoints)
	assert.Empty(t, table[0].Form)
}

func TestBuildLeagueTableIsIdempotent(t *testing.T) {
	fixtures := threeTeamSeason()
	build := func() []TableEntry {
		byTeam, err := Observations(fixtures)
		require.NoError(t, err)
		table, err := BuildLeagueTable(byTeam, DefaultMaxGoals, DefaultFormLength)
		require.NoError(t, err)
		return table
	}
	assert.Equal(t, build(), build())
}

func TestFormString(t *testing.T) {
	var matches []MatchObservation
	scores := [][2]int{{1, 0}, {0, 0}, {0, 2}, {3, 1}, {1, 1}, {2, 0}}
	for i, s := range scores {
		matches = append(matches, MatchObservation{MatchIndex: i + 1, GoalsFor: s[0], GoalsAgainst: s[1]})
	}
	assert.Equal(t, "DLWDW", FormString(matches, 5))
	assert.Equal(t, "", FormString(matches[:4], 5))
	assert.Equal(t, "WDLWD", FormString(matches[:5], 5))
}

func TestObservationsOrderAndPerspective(t *testing.T) {
	byTeam, err := Observations(threeTeamSeason())
	require.NoError(t, err)
	assert.Equal(t, []string{"Derby County", "Hull City", "Stoke City"}, TeamNames(byTeam))

	hull := byTeam["Hull City"]
	require.Len(t, hull, 4)
	ids := []string{}
	for i, m := range hull {
		assert.Equal(t, i+1, m.MatchIndex)
		ids = append(ids, m.MatchID)
	}
	assert.Equal(t, []string{"m1", "m3", "m4", "m6"}, ids)

	assert.Equal(t, Home, hull[0].Venue)
	assert.Equal(t, 1.8, hull[0].XGFor)
	assert.Equal(t, 0.6, hull[0].XGAgainst)
	assert.Equal(t, Away, hull[2].Venue)
	assert.Equal(t, 1.1, hull[2].XGFor)
	assert.Equal(t, "Stoke City", hull[2].Opponent)
}

func TestObservationsKickoffTieBreaksOnMatchID(t *testing.T) {
	fixtures := []Fixture{
		fixture("b", 0, "A", "B", 1, 1, 0, 0),
		fixture("a", 0, "A", "C", 1, 1, 0, 0),
	}
	byTeam, err := Observations(fixtures)
	require.NoError(t, err)
	assert.Equal(t, "a", byTeam["A"][0].MatchID)
	assert.Equal(t, "b", byTeam["A"][1].MatchID)
}

func TestObservationsRejectsBadFixtures(t *testing.T) {
	_, err := Observations([]Fixture{fixture("m1", 0, "A", "B", -0.2, 1, 0, 0)})
	assert.ErrorIs(t, err, ErrNegativeExpectedGoals)

	_, err = Observations([]Fixture{fixture("m1", 0, "A", "", 1, 1, 0, 0)})
	assert.ErrorIs(t, err, ErrMalformedFixture)

	_, err = Observations([]Fixture{fixture("m1", 0, "A", "A", 1, 1, 0, 0)})
	assert.ErrorIs(t, err, ErrMalformedFixture)

	_, err = Observations([]Fixture{
		fixture("m1", 0, "A", "B", 1, 1, 0, 0),
		fixture("m1", 3, "B", "A", 1, 1, 0, 0),
	})
	assert.ErrorIs(t, err, ErrMalformedFixture)
}
