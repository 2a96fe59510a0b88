package aggregator

import "github.com/pable/go-val-metrics/internal/model"

// PlayerRoundRecord is one player's participation in one round.
type PlayerRoundRecord struct {
	Kills, Deaths, Assists int

	Survived  bool
	Traded    bool // this player's death was avenged by a teammate
	TradeKill bool // this player avenged a teammate
	WasAttack bool
}

// KASTEarned reports whether the round counts toward KAST: a kill, an assist,
// survival, or a traded death.
func (r PlayerRoundRecord) KASTEarned() bool {
	return r.Kills > 0 || r.Assists > 0 || r.Survived || r.Traded
}

// PlayerRoundTotals accumulates a player's round participation over a match.
type PlayerRoundTotals struct {
	RoundsPlayed  int
	AttackRounds  int
	DefenseRounds int
	KASTRounds    int
}

// RoundAggregate holds every player-round record of a match plus per-player totals.
type RoundAggregate struct {
	Records map[string]map[int]PlayerRoundRecord
	Totals  map[string]*PlayerRoundTotals
}

// AggregateRounds builds a record for every rostered player listed in each
// round's stats. Players missing from a round's stats contribute nothing for it.
func AggregateRounds(rounds []model.RawRound, teams map[string]model.TeamID, kills *KillSummary, regulation int) *RoundAggregate {
	agg := &RoundAggregate{
		Records: make(map[string]map[int]PlayerRoundRecord),
		Totals:  make(map[string]*PlayerRoundTotals),
	}
	for id := range teams {
		agg.Records[id] = make(map[int]PlayerRoundRecord)
		agg.Totals[id] = &PlayerRoundTotals{}
	}

	for rn, round := range rounds {
		side := SideForRound(rn, regulation)
		for _, ps := range round.PlayerStats {
			team, ok := teams[ps.PUUID]
			if !ok {
				continue
			}
			if _, dup := agg.Records[ps.PUUID][rn]; dup {
				continue
			}

			rec := PlayerRoundRecord{
				Kills:     ps.Kills,
				Deaths:    ps.Deaths,
				Assists:   ps.Assists,
				Survived:  ps.Deaths == 0,
				Traded:    kills.DeathTraded(rn, ps.PUUID),
				TradeKill: kills.MadeTrade(rn, ps.PUUID),
				WasAttack: team == side.Attacker,
			}
			agg.Records[ps.PUUID][rn] = rec

			tot := agg.Totals[ps.PUUID]
			tot.RoundsPlayed++
			if rec.WasAttack {
				tot.AttackRounds++
			} else {
				tot.DefenseRounds++
			}
			if rec.KASTEarned() {
				tot.KASTRounds++
			}
		}
	}
	return agg
}
