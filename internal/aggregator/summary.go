package aggregator

import (
	"math"

	"github.com/pable/go-val-metrics/internal/model"
)

// teamRoundTally counts regulation round wins by side for one slot.
type teamRoundTally struct {
	atk, def int
}

// Summarize rolls the kill timeline and round records up into the match document.
func Summarize(t *model.MatchTelemetry, team1Attacking bool, kills *KillSummary, rounds *RoundAggregate, regulation int) *model.MatchResult {
	teamByID := make(map[model.TeamID]model.TeamResult, len(t.Teams))
	winner := model.TeamRed
	for _, tr := range t.Teams {
		teamByID[tr.TeamID] = tr
	}
	for _, tr := range t.Teams {
		if tr.Won {
			winner = tr.TeamID
			break
		}
	}
	slot := func(id model.TeamID) model.TeamSlot { return model.SlotOf(id, team1Attacking) }

	// ---- Pass 1: round wins by side, regulation and overtime tracked apart. ----
	tally := map[model.TeamSlot]*teamRoundTally{model.Team1: {}, model.Team2: {}}
	overtimeRounds := 0
	conditions := make([]model.RoundWinCondition, 0, len(t.Rounds))
	for rn, round := range t.Rounds {
		side := SideForRound(rn, regulation)
		if side.IsOvertime {
			overtimeRounds++
		} else if round.WinningTeam == side.Attacker {
			tally[slot(round.WinningTeam)].atk++
		} else {
			tally[slot(round.WinningTeam)].def++
		}

		cond := model.RoundWinCondition{
			Round:       rn + 1,
			WinningTeam: slot(round.WinningTeam),
			RoundType:   string(slot(side.Attacker)) + " Attack",
			Result:      round.Result,
			Site:        round.PlantSite,
			Ceremony:    round.Ceremony,
			IsOvertime:  side.IsOvertime,
		}
		if fk, ok := kills.FirstKillByRound[rn]; ok {
			cond.FirstKill = playerRef(t.Players, fk.KillerPUUID)
			cond.FirstDeath = playerRef(t.Players, fk.VictimPUUID)
		}
		conditions = append(conditions, cond)
	}
	periods := 0
	if overtimeRounds > 0 {
		periods = CompletedOvertimePeriods(len(t.Rounds), regulation)
	}

	// ---- Pass 2: per-player records. ----
	result := &model.MatchResult{
		MatchID:            t.Metadata.MatchID,
		Map:                t.Metadata.MapName,
		StartTime:          t.Metadata.StartedAt,
		GameServer:         t.Metadata.Cluster,
		GameMode:           t.Metadata.QueueName,
		GameDurationMs:     t.Metadata.GameLengthMs,
		Season:             t.Metadata.SeasonLabel,
		Patch:              t.Metadata.PatchVersion,
		Team1Attacking:     team1Attacking,
		RoundWinConditions: conditions,
	}

	for i, s := range []model.TeamSlot{model.Team1, model.Team2} {
		id := teamForSlot(s, team1Attacking)
		own, opp := teamByID[id], teamByID[id.Other()]
		won := id == winner
		pick := "Defenders"
		if (s == model.Team1) == team1Attacking {
			pick = "Attackers"
		}

		summary := model.TeamSummary{
			Slot: s,
			Won:  won,
			Pick: pick,
			RoundsWon: model.TeamRoundsWon{
				Atk:      tally[s].atk,
				Def:      tally[s].def,
				Total:    own.RoundsWon,
				Overtime: OvertimeCredit(periods, won),
			},
		}
		for _, p := range t.Players {
			if p.TeamID != id {
				continue
			}
			rec := buildRecord(p, s, kills, rounds.Totals[p.PUUID])
			rec.RoundsWon = own.RoundsWon
			rec.RoundsLost = opp.RoundsWon
			rec.MatchWon = won
			summary.Players = append(summary.Players, rec)
		}
		result.Teams[i] = summary
	}
	return result
}

// OvertimeCredit returns the overtime rounds credited to a team after the
// given number of completed overtime periods: periods-1, plus 2 for the match
// winner, or 0 when no overtime period completed.
func OvertimeCredit(periods int, matchWinner bool) int {
	if periods == 0 {
		return 0
	}
	credit := periods - 1
	if matchWinner {
		credit += 2
	}
	return credit
}

func buildRecord(p model.PlayerInfo, s model.TeamSlot, kills *KillSummary, tot *PlayerRoundTotals) model.MatchStatRecord {
	if tot == nil {
		tot = &PlayerRoundTotals{}
	}
	st := p.Stats
	fk, fd := kills.FirstKills[p.PUUID], kills.FirstDeaths[p.PUUID]
	return model.MatchStatRecord{
		Name:          p.Name(),
		PUUID:         p.PUUID,
		Rank:          p.RankID,
		Team:          s,
		Agent:         p.AgentName,
		ACS:           perRound(st.Score, tot.RoundsPlayed),
		Kills:         st.Kills,
		Deaths:        st.Deaths,
		Assists:       st.Assists,
		KDADiff:       st.Kills - st.Deaths,
		KAST:          roundHalfUp(100 * float64(tot.KASTRounds) / float64(max(tot.RoundsPlayed, 1))),
		HSPercentage:  headshotPct(st),
		FirstBloods:   fk,
		FirstDeaths:   fd,
		FKFDDiff:      fk - fd,
		Trades:        kills.Trades[p.PUUID],
		Traded:        kills.Traded[p.PUUID],
		ADR:           perRound(st.DamageDealt, tot.RoundsPlayed),
		DamageDelta:   damageDelta(st, tot.RoundsPlayed),
		AttackRounds:  tot.AttackRounds,
		DefenseRounds: tot.DefenseRounds,
	}
}

// perRound divides total by rounds played, treating zero rounds as one.
func perRound(total, roundsPlayed int) int {
	return roundHalfUp(float64(total) / float64(max(roundsPlayed, 1)))
}

func damageDelta(st model.PlayerTotals, roundsPlayed int) int {
	if roundsPlayed == 0 {
		return 0
	}
	v := float64(st.DamageDealt-st.DamageReceived) / float64(roundsPlayed)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return roundHalfUp(v)
}

func headshotPct(st model.PlayerTotals) int {
	shots := st.Headshots + st.Bodyshots + st.Legshots
	if shots == 0 {
		return 0
	}
	return roundHalfUp(float64(st.Headshots) / float64(shots) * 100)
}

// roundHalfUp rounds to the nearest integer with halves going toward +Inf,
// so -2.5 becomes -2.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

func teamForSlot(s model.TeamSlot, team1Attacking bool) model.TeamID {
	team1 := model.TeamBlue
	if team1Attacking {
		team1 = model.TeamRed
	}
	if s == model.Team1 {
		return team1
	}
	return team1.Other()
}

func playerRef(players []model.PlayerInfo, puuid string) *model.PlayerRef {
	for _, p := range players {
		if p.PUUID == puuid {
			return &model.PlayerRef{PUUID: p.PUUID, Name: p.Name(), Rank: p.RankID}
		}
	}
	return nil
}
