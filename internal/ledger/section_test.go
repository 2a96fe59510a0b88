package ledger

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-val-metrics/internal/model"
)

const floatTolerance = 1e-9

var agentPool = []string{"Jett", "Sova", "Omen", "Killjoy", "Raze"}

func randomRecord(r *rand.Rand) model.MatchStatRecord {
	kills, deaths := r.Intn(35), r.Intn(30)
	fb, fd := r.Intn(6), r.Intn(6)
	return model.MatchStatRecord{
		Name:          "tester#NA1",
		PUUID:         "puuid-1",
		Agent:         agentPool[r.Intn(len(agentPool))],
		ACS:           r.Intn(450),
		Kills:         kills,
		Deaths:        deaths,
		Assists:       r.Intn(15),
		KDADiff:       kills - deaths,
		KAST:          r.Intn(101),
		HSPercentage:  r.Intn(101),
		FirstBloods:   fb,
		FirstDeaths:   fd,
		FKFDDiff:      fb - fd,
		Trades:        r.Intn(5),
		Traded:        r.Intn(5),
		ADR:           r.Intn(250),
		DamageDelta:   r.Intn(200) - 100,
		AttackRounds:  r.Intn(13),
		DefenseRounds: r.Intn(13),
		RoundsWon:     r.Intn(14),
		RoundsLost:    r.Intn(14),
		MatchWon:      r.Intn(2) == 0,
	}
}

// requireSectionEqual compares counters exactly and averages within tolerance.
func requireSectionEqual(t *testing.T, want, got model.StatsSection, msgAndArgs ...any) {
	t.Helper()
	assertFlatEqual(t, want, got, msgAndArgs...)
	require.Len(t, got.Agents, len(want.Agents), msgAndArgs...)
	for name, w := range want.Agents {
		g, ok := got.Agents[name]
		require.True(t, ok, "missing agent %s", name)
		assertFlatEqual(t, w, g, msgAndArgs...)
	}
}

func assertFlatEqual(t *testing.T, want, got model.StatsSection, msgAndArgs ...any) {
	t.Helper()
	floats := func(s model.StatsSection) []float64 {
		return []float64{s.Games.Percentage, s.Rounds.Percentage, s.AvgACS, s.AvgHSPercentage, s.AvgDamageDelta, s.AvgKAST, s.AvgADR}
	}
	wf, gf := floats(want), floats(got)
	for i := range wf {
		require.InDelta(t, wf[i], gf[i], floatTolerance, msgAndArgs...)
	}
	strip := func(s model.StatsSection) model.StatsSection {
		s.Agents = nil
		s.Games.Percentage, s.Rounds.Percentage = 0, 0
		s.AvgACS, s.AvgHSPercentage, s.AvgDamageDelta, s.AvgKAST, s.AvgADR = 0, 0, 0, 0, 0
		return s
	}
	require.Equal(t, strip(want), strip(got), msgAndArgs...)
}

// TestApplyReverse_RoundTrip checks reverse(apply(S, R), R) == S for random
// sections and records.
func TestApplyReverse_RoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(20250301))
	for iter := 0; iter < 300; iter++ {
		var s model.StatsSection
		for n := r.Intn(30); n > 0; n-- {
			rec := randomRecord(r)
			s = Apply(s, rec, rec.MatchWon)
		}

		rec := randomRecord(r)
		applied := Apply(s, rec, rec.MatchWon)
		restored, err := Reverse(applied, rec, rec.MatchWon)
		require.NoError(t, err, "iteration %d", iter)
		requireSectionEqual(t, s, restored, "iteration %d", iter)
	}
}

// TestApplyReverse_DrainInAnyOrder reverses every applied record in shuffled
// order and expects the empty section back.
func TestApplyReverse_DrainInAnyOrder(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for iter := 0; iter < 50; iter++ {
		var s model.StatsSection
		recs := make([]model.MatchStatRecord, 1+r.Intn(25))
		for i := range recs {
			recs[i] = randomRecord(r)
			s = Apply(s, recs[i], recs[i].MatchWon)
		}
		r.Shuffle(len(recs), func(i, j int) { recs[i], recs[j] = recs[j], recs[i] })
		for _, rec := range recs {
			var err error
			s, err = Reverse(s, rec, rec.MatchWon)
			require.NoError(t, err)
		}
		require.Equal(t, model.StatsSection{}, s, "iteration %d", iter)
	}
}

func TestApply_FirstMatch(t *testing.T) {
	rec := model.MatchStatRecord{
		Agent: "Jett", ACS: 300, KAST: 100, HSPercentage: 50, ADR: 150, DamageDelta: 150,
		Kills: 13, KDADiff: 13, FirstBloods: 13, FKFDDiff: 13,
		AttackRounds: 12, DefenseRounds: 1, RoundsWon: 13, MatchWon: true,
	}
	got := Apply(model.StatsSection{}, rec, true)

	assert.Equal(t, model.WinLoss{Won: 1, Lost: 0, Percentage: 100}, got.Games)
	assert.Equal(t, model.WinLoss{Won: 13, Lost: 0, Percentage: 100}, got.Rounds)
	assert.Equal(t, 13, got.TotalKills)
	assert.Equal(t, 13, got.TotalFKFDDiff)
	assert.Equal(t, 300.0, got.AvgACS)
	assert.Equal(t, 150.0, got.AvgDamageDelta)
	require.Contains(t, got.Agents, "Jett")
	assert.Equal(t, 1, got.Agents["Jett"].Games.Won)
	assert.Nil(t, got.Agents["Jett"].Agents)

	// The thirteen-round record reversed from its own section leaves nothing behind.
	back, err := Reverse(got, rec, true)
	require.NoError(t, err)
	assert.Equal(t, model.StatsSection{}, back)
}

func TestApply_RunningAverage(t *testing.T) {
	s := Apply(model.StatsSection{}, model.MatchStatRecord{Agent: "Omen", ACS: 200, KAST: 60}, true)
	s = Apply(s, model.MatchStatRecord{Agent: "Omen", ACS: 300, KAST: 90}, false)
	s = Apply(s, model.MatchStatRecord{Agent: "Sova", ACS: 100, KAST: 30}, false)

	assert.InDelta(t, 200.0, s.AvgACS, floatTolerance)
	assert.InDelta(t, 60.0, s.AvgKAST, floatTolerance)
	assert.InDelta(t, 100.0/3, s.Games.Percentage, floatTolerance)
	assert.InDelta(t, 250.0, s.Agents["Omen"].AvgACS, floatTolerance)
	assert.InDelta(t, 100.0, s.Agents["Sova"].AvgACS, floatTolerance)
	assert.Equal(t, 2, s.Agents["Omen"].Games.Total())
}

func TestApply_DoesNotAliasInput(t *testing.T) {
	base := Apply(model.StatsSection{}, model.MatchStatRecord{Agent: "Jett", Kills: 10}, true)
	before := base.Agents["Jett"]

	_ = Apply(base, model.MatchStatRecord{Agent: "Jett", Kills: 5}, true)
	_ = Apply(base, model.MatchStatRecord{Agent: "Raze", Kills: 5}, true)

	assert.Equal(t, before, base.Agents["Jett"])
	assert.NotContains(t, base.Agents, "Raze")
}

func TestReverse_PrunesAgent(t *testing.T) {
	jett := model.MatchStatRecord{Agent: "Jett", ACS: 250, RoundsWon: 13, RoundsLost: 7}
	sova := model.MatchStatRecord{Agent: "Sova", ACS: 180, RoundsWon: 9, RoundsLost: 13}
	s := Apply(model.StatsSection{}, jett, true)
	s = Apply(s, sova, false)

	s, err := Reverse(s, sova, false)
	require.NoError(t, err)
	assert.NotContains(t, s.Agents, "Sova")
	assert.Contains(t, s.Agents, "Jett")

	s, err = Reverse(s, jett, true)
	require.NoError(t, err)
	assert.Nil(t, s.Agents)
}

func TestReverse_NegativeCounter(t *testing.T) {
	s := Apply(model.StatsSection{}, model.MatchStatRecord{Agent: "Jett", Kills: 3}, true)

	tests := []struct {
		name  string
		rec   model.MatchStatRecord
		won   bool
		field string
	}{
		{"more kills than recorded", model.MatchStatRecord{Agent: "Jett", Kills: 4}, true, "total_kills"},
		{"loss never recorded", model.MatchStatRecord{Agent: "Jett", Kills: 3}, false, "games.lost"},
		{"rounds never recorded", model.MatchStatRecord{Agent: "Jett", Kills: 3, RoundsWon: 1}, true, "rounds.won"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Reverse(s, tt.rec, tt.won)
			var cerr *model.ConsistencyError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, tt.field, cerr.Field)
			assert.Equal(t, "section", cerr.Scope)
		})
	}
}

func TestReverse_MissingAgent(t *testing.T) {
	s := Apply(model.StatsSection{}, model.MatchStatRecord{Agent: "Jett"}, true)
	_, err := Reverse(s, model.MatchStatRecord{Agent: "Sova"}, true)
	var cerr *model.ConsistencyError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "section agent Sova", cerr.Scope)
}

// TestReverse_SignedDiffsMayGoNegative: kda_diff and fkfd_diff are signed and
// never raise consistency errors.
func TestReverse_SignedDiffsMayGoNegative(t *testing.T) {
	s := Apply(model.StatsSection{}, model.MatchStatRecord{Agent: "Jett", KDADiff: -2, FKFDDiff: -1}, true)
	s, err := Reverse(s, model.MatchStatRecord{Agent: "Jett", KDADiff: 4, FKFDDiff: 2}, true)
	require.NoError(t, err)
	assert.Equal(t, -6, s.TotalKDADiff)
	assert.Equal(t, -3, s.TotalFKFDDiff)
}
