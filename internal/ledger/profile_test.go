package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-val-metrics/internal/model"
)

var (
	t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	t1 = t0.Add(time.Hour)
)

func TestApplyToProfile_NewProfile(t *testing.T) {
	rec := model.MatchStatRecord{PUUID: "p1", Name: "ace#EU1", Agent: "Jett", ACS: 280, MatchWon: true}
	p := ApplyToProfile(nil, rec, "e10a2", t0)

	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "ace#EU1", p.CurrentName)
	assert.Equal(t, t0, p.LastUpdated)
	assert.Equal(t, 1, p.OverallStats.Games.Won)
	require.Contains(t, p.Seasons, "e10a2")
	assert.Equal(t, 1, p.Seasons["e10a2"].Games.Won)
	assert.Contains(t, p.Seasons["e10a2"].Agents, "Jett")
}

func TestApplyToProfile_SeasonsAreSeparate(t *testing.T) {
	a := model.MatchStatRecord{PUUID: "p1", Name: "ace#EU1", Agent: "Jett", ACS: 200, MatchWon: true}
	b := model.MatchStatRecord{PUUID: "p1", Name: "ace2#EU1", Agent: "Omen", ACS: 100}

	p := ApplyToProfile(nil, a, "e10a1", t0)
	p2 := ApplyToProfile(p, b, "e10a2", t1)

	assert.Equal(t, 2, p2.OverallStats.Games.Total())
	assert.InDelta(t, 150.0, p2.OverallStats.AvgACS, floatTolerance)
	assert.Equal(t, 1, p2.Seasons["e10a1"].Games.Total())
	assert.Equal(t, 1, p2.Seasons["e10a2"].Games.Total())
	assert.Equal(t, "ace2#EU1", p2.CurrentName)

	// The input profile is untouched.
	assert.Equal(t, 1, p.OverallStats.Games.Total())
	assert.NotContains(t, p.Seasons, "e10a2")
}

func TestReverseFromProfile_RoundTrip(t *testing.T) {
	first := model.MatchStatRecord{PUUID: "p1", Name: "ace#EU1", Agent: "Jett", ACS: 230, Kills: 20, MatchWon: true}
	second := model.MatchStatRecord{PUUID: "p1", Name: "ace#EU1", Agent: "Sova", ACS: 170, Kills: 11}

	base := ApplyToProfile(nil, first, "e10a2", t0)
	withSecond := ApplyToProfile(base, second, "e10a2", t1)

	back, err := ReverseFromProfile(withSecond, second, "e10a2", t1)
	require.NoError(t, err)
	requireSectionEqual(t, base.OverallStats, back.OverallStats)
	requireSectionEqual(t, base.Seasons["e10a2"], back.Seasons["e10a2"])
	assert.NotContains(t, back.OverallStats.Agents, "Sova")
	assert.NotContains(t, back.Seasons["e10a2"].Agents, "Sova")
}

func TestReverseFromProfile_KeepsEmptiedSeason(t *testing.T) {
	rec := model.MatchStatRecord{PUUID: "p1", Agent: "Jett", MatchWon: true}
	p := ApplyToProfile(nil, rec, "e10a2", t0)

	back, err := ReverseFromProfile(p, rec, "e10a2", t1)
	require.NoError(t, err)
	require.Contains(t, back.Seasons, "e10a2")
	assert.Equal(t, model.StatsSection{}, back.Seasons["e10a2"])
	assert.Equal(t, model.StatsSection{}, back.OverallStats)
	assert.Equal(t, t1, back.LastUpdated)
}

func TestReverseFromProfile_UnknownSeason(t *testing.T) {
	rec := model.MatchStatRecord{PUUID: "p1", Agent: "Jett", MatchWon: true}
	p := ApplyToProfile(nil, rec, "e10a2", t0)

	_, err := ReverseFromProfile(p, rec, "e9a3", t1)
	var cerr *model.ConsistencyError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "season e9a3", cerr.Scope)
}
