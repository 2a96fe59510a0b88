package aggregator

import (
	"errors"
	"testing"
	"time"

	"github.com/pable/go-val-metrics/internal/model"
)

// IDs for test players. A and C play for Red, B and D for Blue.
const (
	playerA = "puuid-a"
	playerB = "puuid-b"
	playerC = "puuid-c"
	playerD = "puuid-d"
)

// makePlayer creates a rostered player with empty match totals.
func makePlayer(id string, team model.TeamID, agent string) model.PlayerInfo {
	return model.PlayerInfo{
		PUUID:       id,
		DisplayName: "name-" + id,
		Tag:         "NA1",
		TeamID:      team,
		AgentName:   agent,
		RankID:      20,
	}
}

// makeRound creates a round won by winner in which every listed player took part.
// deaths lists the players that died; killers maps a player to their kill count.
func makeRound(winner model.TeamID, ids []string, deaths map[string]bool, killers map[string]int) model.RawRound {
	r := model.RawRound{WinningTeam: winner, Result: "Elimination", Ceremony: "CeremonyDefault"}
	for _, id := range ids {
		ps := model.PlayerRoundStats{PUUID: id, Kills: killers[id]}
		if deaths[id] {
			ps.Deaths = 1
		}
		r.PlayerStats = append(r.PlayerStats, ps)
	}
	return r
}

// makeTelemetry builds a MatchTelemetry whose team results are derived from rounds.
func makeTelemetry(players []model.PlayerInfo, rounds []model.RawRound, kills []model.RawKill) *model.MatchTelemetry {
	var red, blue int
	for _, r := range rounds {
		if r.WinningTeam == model.TeamRed {
			red++
		} else {
			blue++
		}
	}
	return &model.MatchTelemetry{
		Metadata: model.MatchMetadata{
			MatchID:     "match-1",
			MapName:     "Ascent",
			StartedAt:   time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC),
			QueueName:   "Custom",
			SeasonLabel: "e10a2",
		},
		Teams: []model.TeamResult{
			{TeamID: model.TeamRed, Won: red > blue, RoundsWon: red},
			{TeamID: model.TeamBlue, Won: blue > red, RoundsWon: blue},
		},
		Players: players,
		Rounds:  rounds,
		Kills:   kills,
	}
}

func findRecord(t *testing.T, res *model.MatchResult, id string) model.MatchStatRecord {
	t.Helper()
	for _, r := range res.Records() {
		if r.PUUID == id {
			return r
		}
	}
	t.Fatalf("no record for %s", id)
	return model.MatchStatRecord{}
}

// buildThirteenZero is a 1v1 match: A (Red) kills B (Blue) once per round and
// Red wins 13-0, 12 rounds on attack and one after the halftime swap.
func buildThirteenZero() *model.MatchTelemetry {
	a := makePlayer(playerA, model.TeamRed, "Jett")
	a.Stats = model.PlayerTotals{Kills: 13, Score: 3900, DamageDealt: 1950, Headshots: 5, Bodyshots: 5}
	b := makePlayer(playerB, model.TeamBlue, "Sova")
	b.Stats = model.PlayerTotals{Deaths: 13, Score: 130, DamageReceived: 1950, Bodyshots: 3}

	var rounds []model.RawRound
	var kills []model.RawKill
	for i := 0; i < 13; i++ {
		rounds = append(rounds, makeRound(model.TeamRed,
			[]string{playerA, playerB},
			map[string]bool{playerB: true},
			map[string]int{playerA: 1},
		))
		kills = append(kills, model.RawKill{
			RoundIndex: i, TimeInRoundMs: 10000,
			KillerPUUID: playerA, VictimPUUID: playerB,
		})
	}
	return makeTelemetry([]model.PlayerInfo{a, b}, rounds, kills)
}

func TestAggregate_ThirteenZero(t *testing.T) {
	res, err := Aggregate(buildThirteenZero(), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a := findRecord(t, res, playerA)
	want := model.MatchStatRecord{
		Name: "name-puuid-a#NA1", PUUID: playerA, Rank: 20, Team: model.Team1, Agent: "Jett",
		ACS: 300, Kills: 13, Deaths: 0, Assists: 0, KDADiff: 13, KAST: 100, HSPercentage: 50,
		FirstBloods: 13, FirstDeaths: 0, FKFDDiff: 13, Trades: 0, Traded: 0,
		ADR: 150, DamageDelta: 150, AttackRounds: 12, DefenseRounds: 1,
		RoundsWon: 13, RoundsLost: 0, MatchWon: true,
	}
	if a != want {
		t.Errorf("player A record:\n got %+v\nwant %+v", a, want)
	}

	b := findRecord(t, res, playerB)
	wantB := model.MatchStatRecord{
		Name: "name-puuid-b#NA1", PUUID: playerB, Rank: 20, Team: model.Team2, Agent: "Sova",
		ACS: 10, Kills: 0, Deaths: 13, Assists: 0, KDADiff: -13, KAST: 0, HSPercentage: 0,
		FirstBloods: 0, FirstDeaths: 13, FKFDDiff: -13,
		ADR: 0, DamageDelta: -150, AttackRounds: 1, DefenseRounds: 12,
		RoundsWon: 0, RoundsLost: 13, MatchWon: false,
	}
	if b != wantB {
		t.Errorf("player B record:\n got %+v\nwant %+v", b, wantB)
	}

	t1 := res.Teams[0]
	if t1.Slot != model.Team1 || !t1.Won || t1.Pick != "Attackers" {
		t.Errorf("team1 summary: %+v", t1)
	}
	if t1.RoundsWon != (model.TeamRoundsWon{Atk: 12, Def: 1, Total: 13, Overtime: 0}) {
		t.Errorf("team1 rounds won: %+v", t1.RoundsWon)
	}
	if res.Teams[1].RoundsWon != (model.TeamRoundsWon{}) {
		t.Errorf("team2 rounds won: %+v", res.Teams[1].RoundsWon)
	}

	if len(res.RoundWinConditions) != 13 {
		t.Fatalf("expected 13 round conditions, got %d", len(res.RoundWinConditions))
	}
	first, last := res.RoundWinConditions[0], res.RoundWinConditions[12]
	if first.Round != 1 || first.RoundType != "Team1 Attack" || first.WinningTeam != model.Team1 {
		t.Errorf("round 1 condition: %+v", first)
	}
	if last.Round != 13 || last.RoundType != "Team2 Attack" || last.IsOvertime {
		t.Errorf("round 13 condition: %+v", last)
	}
	if first.FirstKill == nil || first.FirstKill.PUUID != playerA {
		t.Errorf("round 1 first kill: %+v", first.FirstKill)
	}
	if first.FirstDeath == nil || first.FirstDeath.PUUID != playerB {
		t.Errorf("round 1 first death: %+v", first.FirstDeath)
	}
}

// TestAggregate_Team1Defending: flipping the flag maps Blue to Team1 without
// changing which original side attacked first.
func TestAggregate_Team1Defending(t *testing.T) {
	res, err := Aggregate(buildThirteenZero(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a := findRecord(t, res, playerA); a.Team != model.Team2 || a.AttackRounds != 12 {
		t.Errorf("player A: team=%s attack=%d", a.Team, a.AttackRounds)
	}
	t1 := res.Teams[0]
	if t1.Won || t1.Pick != "Defenders" || t1.RoundsWon.Total != 0 {
		t.Errorf("team1 summary: %+v", t1)
	}
	if res.Teams[1].RoundsWon.Atk != 12 || res.Teams[1].RoundsWon.Def != 1 {
		t.Errorf("team2 rounds won: %+v", res.Teams[1].RoundsWon)
	}
	// round_type names the slot that attacked, so with Team1 defending the
	// first half reads "Team2 Attack", in step with pick and the atk tally.
	if res.Teams[1].Pick != "Attackers" {
		t.Errorf("team2 pick: %s", res.Teams[1].Pick)
	}
	for i, rc := range res.RoundWinConditions {
		want := "Team2 Attack"
		if i >= 12 {
			want = "Team1 Attack"
		}
		if rc.RoundType != want {
			t.Errorf("round %d type = %s, want %s", rc.Round, rc.RoundType, want)
		}
		if rc.WinningTeam != model.Team2 {
			t.Errorf("round %d winner = %s, want Team2", rc.Round, rc.WinningTeam)
		}
	}
}

func TestAggregate_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.MatchTelemetry) *model.MatchTelemetry
	}{
		{"nil telemetry", func(*model.MatchTelemetry) *model.MatchTelemetry { return nil }},
		{"no players", func(m *model.MatchTelemetry) *model.MatchTelemetry { m.Players = nil; return m }},
		{"no rounds", func(m *model.MatchTelemetry) *model.MatchTelemetry { m.Rounds = nil; return m }},
		{"one team", func(m *model.MatchTelemetry) *model.MatchTelemetry { m.Teams = m.Teams[:1]; return m }},
		{"no match id", func(m *model.MatchTelemetry) *model.MatchTelemetry { m.Metadata.MatchID = ""; return m }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Aggregate(tt.mutate(buildThirteenZero()), true)
			var verr *model.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if res != nil {
				t.Error("expected no partial result")
			}
		})
	}
}

func TestAggregate_UnknownTeam(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.MatchTelemetry)
	}{
		{"team result", func(m *model.MatchTelemetry) { m.Teams[1].TeamID = "Green" }},
		{"player", func(m *model.MatchTelemetry) { m.Players[0].TeamID = "Neutral" }},
		{"round winner", func(m *model.MatchTelemetry) { m.Rounds[3].WinningTeam = "" }},
		{"duplicate team", func(m *model.MatchTelemetry) { m.Teams[1].TeamID = model.TeamRed }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := buildThirteenZero()
			tt.mutate(raw)
			_, err := Aggregate(raw, true)
			var derr *model.DataIntegrityError
			if !errors.As(err, &derr) {
				t.Fatalf("expected DataIntegrityError, got %v", err)
			}
		})
	}
}

// TestAggregate_UnrosteredReferencesIgnored: a stranger in round and kill data
// earns nothing and breaks nothing.
func TestAggregate_UnrosteredReferencesIgnored(t *testing.T) {
	raw := buildThirteenZero()
	raw.Rounds[0].PlayerStats = append(raw.Rounds[0].PlayerStats, model.PlayerRoundStats{PUUID: "ghost", Kills: 4})
	raw.Kills = append([]model.RawKill{{RoundIndex: 0, TimeInRoundMs: 500, KillerPUUID: "ghost", VictimPUUID: playerA}}, raw.Kills...)

	res, err := Aggregate(raw, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len(res.Records()); n != 2 {
		t.Fatalf("expected 2 records, got %d", n)
	}
	// Round 0's opening kill belongs to the stranger, so A loses one first blood
	// and gains a first death.
	a := findRecord(t, res, playerA)
	if a.FirstBloods != 12 || a.FirstDeaths != 1 {
		t.Errorf("player A: first bloods=%d first deaths=%d", a.FirstBloods, a.FirstDeaths)
	}
	if res.RoundWinConditions[0].FirstKill != nil {
		t.Errorf("expected nil first-kill ref for unrostered killer, got %+v", res.RoundWinConditions[0].FirstKill)
	}
}
