package aggregator

import "github.com/pable/go-val-metrics/internal/model"

// FirstKill is the opening duel of a round.
type FirstKill struct {
	KillerPUUID string
	VictimPUUID string
	TimeMs      int64
}

type roundPlayerKey struct {
	round int
	puuid string
}

// KillSummary is the result of walking a match's kill timeline.
type KillSummary struct {
	FirstKillByRound map[int]FirstKill

	FirstKills  map[string]int
	FirstDeaths map[string]int
	Trades      map[string]int // kills that avenged a teammate
	Traded      map[string]int // deaths avenged by a teammate

	tradedDeaths map[roundPlayerKey]bool
	tradeKills   map[roundPlayerKey]bool
}

// DeathTraded reports whether puuid's death in round was avenged by a teammate.
func (s *KillSummary) DeathTraded(round int, puuid string) bool {
	return s.tradedDeaths[roundPlayerKey{round, puuid}]
}

// MadeTrade reports whether puuid made a trading kill in round.
func (s *KillSummary) MadeTrade(round int, puuid string) bool {
	return s.tradeKills[roundPlayerKey{round, puuid}]
}

// ProcessKills computes first kills and trades from kills, which must be in
// occurrence order. teams maps rostered players to their original team; kills
// naming unrostered players still shape the timeline but credit nobody.
// Kills referencing a round outside [0, numRounds) are ignored.
func ProcessKills(kills []model.RawKill, teams map[string]model.TeamID, numRounds int) *KillSummary {
	s := &KillSummary{
		FirstKillByRound: make(map[int]FirstKill),
		FirstKills:       make(map[string]int),
		FirstDeaths:      make(map[string]int),
		Trades:           make(map[string]int),
		Traded:           make(map[string]int),
		tradedDeaths:     make(map[roundPlayerKey]bool),
		tradeKills:       make(map[roundPlayerKey]bool),
	}

	killsByRound := make(map[int][]model.RawKill)
	for _, k := range kills {
		if k.RoundIndex < 0 || k.RoundIndex >= numRounds {
			continue
		}
		killsByRound[k.RoundIndex] = append(killsByRound[k.RoundIndex], k)
	}

	// ---- Pass 1: opening kill per round (earliest time, first occurrence on ties). ----
	for rn, rk := range killsByRound {
		first := rk[0]
		for _, k := range rk[1:] {
			if k.TimeInRoundMs < first.TimeInRoundMs {
				first = k
			}
		}
		s.FirstKillByRound[rn] = FirstKill{
			KillerPUUID: first.KillerPUUID,
			VictimPUUID: first.VictimPUUID,
			TimeMs:      first.TimeInRoundMs,
		}
		if _, ok := teams[first.KillerPUUID]; ok {
			s.FirstKills[first.KillerPUUID]++
		}
		if _, ok := teams[first.VictimPUUID]; ok {
			s.FirstDeaths[first.VictimPUUID]++
		}
	}

	// ---- Pass 2: trades. ----
	// For kill K (A kills B), the trader C is the killer of the first later
	// event in the same round whose victim is A. The trade counts only when
	// C and B share an original team.
	for rn, rk := range killsByRound {
		for _, k := range rk {
			victimKey := roundPlayerKey{rn, k.VictimPUUID}
			if s.tradedDeaths[victimKey] {
				continue
			}
			revenge, ok := findRevenge(rk, k)
			if !ok {
				continue
			}
			victimTeam, victimRostered := teams[k.VictimPUUID]
			traderTeam, traderRostered := teams[revenge.KillerPUUID]
			if !victimRostered || !traderRostered || victimTeam != traderTeam {
				continue
			}
			s.tradedDeaths[victimKey] = true
			s.tradeKills[roundPlayerKey{rn, revenge.KillerPUUID}] = true
			s.Traded[k.VictimPUUID]++
			s.Trades[revenge.KillerPUUID]++
		}
	}

	return s
}

// findRevenge returns the first kill in roundKills whose victim is k's killer
// and which happened strictly after k.
func findRevenge(roundKills []model.RawKill, k model.RawKill) (model.RawKill, bool) {
	for _, next := range roundKills {
		if next.VictimPUUID == k.KillerPUUID && next.TimeInRoundMs > k.TimeInRoundMs {
			return next, true
		}
	}
	return model.RawKill{}, false
}
