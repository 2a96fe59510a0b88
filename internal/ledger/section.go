// Package ledger folds per-match player records into long-lived aggregate
// profiles and takes them back out again.
//
// Apply and Reverse are an inverse pair: Reverse(Apply(s, r, w), r, w) == s,
// exactly for counters and within float tolerance for running averages.
package ledger

import (
	"github.com/pable/go-val-metrics/internal/model"
)

// Apply returns section with rec folded in, including rec's agent sub-section.
// section is not modified.
func Apply(section model.StatsSection, rec model.MatchStatRecord, won bool) model.StatsSection {
	out := applyFlat(section, rec, won)

	agents := section.Agents.Clone()
	if agents == nil {
		agents = make(model.AgentStats, 1)
	}
	agents[rec.Agent] = applyFlat(agents[rec.Agent], rec, won)
	out.Agents = agents
	return out
}

// Reverse returns section with rec taken back out. The agent entry is removed
// once its game count reaches zero. A counter that would go negative returns a
// *model.ConsistencyError and no section.
func Reverse(section model.StatsSection, rec model.MatchStatRecord, won bool) (model.StatsSection, error) {
	return reverseScoped(section, rec, won, "section")
}

func reverseScoped(section model.StatsSection, rec model.MatchStatRecord, won bool, scope string) (model.StatsSection, error) {
	out, err := reverseFlat(section, rec, won, scope)
	if err != nil {
		return model.StatsSection{}, err
	}

	agentScope := scope + " agent " + rec.Agent
	agent, ok := section.Agents[rec.Agent]
	if !ok {
		return model.StatsSection{}, &model.ConsistencyError{Scope: agentScope, Field: "games", Value: -1}
	}
	agent, err = reverseFlat(agent, rec, won, agentScope)
	if err != nil {
		return model.StatsSection{}, err
	}

	agents := section.Agents.Clone()
	if agent.Games.Total() == 0 {
		delete(agents, rec.Agent)
	} else {
		agents[rec.Agent] = agent
	}
	if len(agents) == 0 {
		agents = nil
	}
	out.Agents = agents
	return out, nil
}

// applyFlat updates every field of s except Agents, which it leaves nil.
func applyFlat(s model.StatsSection, rec model.MatchStatRecord, won bool) model.StatsSection {
	prev := float64(s.Games.Total())
	out := s
	out.Agents = nil

	if won {
		out.Games.Won++
	} else {
		out.Games.Lost++
	}
	out.Games.Percentage = percentage(out.Games)

	out.Rounds.Won += rec.RoundsWon
	out.Rounds.Lost += rec.RoundsLost
	out.Rounds.Percentage = percentage(out.Rounds)

	out.TotalKills += rec.Kills
	out.TotalDeaths += rec.Deaths
	out.TotalAssists += rec.Assists
	out.TotalKDADiff += rec.KDADiff
	out.TotalFirstBloods += rec.FirstBloods
	out.TotalFirstDeaths += rec.FirstDeaths
	out.TotalFKFDDiff += rec.FKFDDiff
	out.TotalTrades += rec.Trades
	out.TotalTraded += rec.Traded
	out.TotalAttackRounds += rec.AttackRounds
	out.TotalDefenseRounds += rec.DefenseRounds

	out.AvgACS = addAverage(s.AvgACS, prev, rec.ACS)
	out.AvgHSPercentage = addAverage(s.AvgHSPercentage, prev, rec.HSPercentage)
	out.AvgDamageDelta = addAverage(s.AvgDamageDelta, prev, rec.DamageDelta)
	out.AvgKAST = addAverage(s.AvgKAST, prev, rec.KAST)
	out.AvgADR = addAverage(s.AvgADR, prev, rec.ADR)
	return out
}

// reverseFlat is the inverse of applyFlat.
func reverseFlat(s model.StatsSection, rec model.MatchStatRecord, won bool, scope string) (model.StatsSection, error) {
	prev := float64(s.Games.Total())
	out := s
	out.Agents = nil

	c := counterCheck{scope: scope}
	if won {
		out.Games.Won = c.sub("games.won", s.Games.Won, 1)
	} else {
		out.Games.Lost = c.sub("games.lost", s.Games.Lost, 1)
	}
	out.Rounds.Won = c.sub("rounds.won", s.Rounds.Won, rec.RoundsWon)
	out.Rounds.Lost = c.sub("rounds.lost", s.Rounds.Lost, rec.RoundsLost)

	out.TotalKills = c.sub("total_kills", s.TotalKills, rec.Kills)
	out.TotalDeaths = c.sub("total_deaths", s.TotalDeaths, rec.Deaths)
	out.TotalAssists = c.sub("total_assists", s.TotalAssists, rec.Assists)
	out.TotalFirstBloods = c.sub("total_first_bloods", s.TotalFirstBloods, rec.FirstBloods)
	out.TotalFirstDeaths = c.sub("total_first_deaths", s.TotalFirstDeaths, rec.FirstDeaths)
	out.TotalTrades = c.sub("total_trades", s.TotalTrades, rec.Trades)
	out.TotalTraded = c.sub("total_traded", s.TotalTraded, rec.Traded)
	out.TotalAttackRounds = c.sub("total_attack_rounds", s.TotalAttackRounds, rec.AttackRounds)
	out.TotalDefenseRounds = c.sub("total_defense_rounds", s.TotalDefenseRounds, rec.DefenseRounds)
	if c.err != nil {
		return model.StatsSection{}, c.err
	}

	// Differences are signed.
	out.TotalKDADiff -= rec.KDADiff
	out.TotalFKFDDiff -= rec.FKFDDiff

	out.Games.Percentage = percentage(out.Games)
	out.Rounds.Percentage = percentage(out.Rounds)

	out.AvgACS = removeAverage(s.AvgACS, prev, rec.ACS)
	out.AvgHSPercentage = removeAverage(s.AvgHSPercentage, prev, rec.HSPercentage)
	out.AvgDamageDelta = removeAverage(s.AvgDamageDelta, prev, rec.DamageDelta)
	out.AvgKAST = removeAverage(s.AvgKAST, prev, rec.KAST)
	out.AvgADR = removeAverage(s.AvgADR, prev, rec.ADR)
	return out, nil
}

// counterCheck subtracts non-negative counters and remembers the first one
// that would drop below zero.
type counterCheck struct {
	scope string
	err   error
}

func (c *counterCheck) sub(field string, have, take int) int {
	v := have - take
	if v < 0 && c.err == nil {
		c.err = &model.ConsistencyError{Scope: c.scope, Field: field, Value: v}
	}
	return v
}

func percentage(wl model.WinLoss) float64 {
	total := wl.Total()
	if total == 0 {
		return 0
	}
	return float64(wl.Won) / float64(total) * 100
}

// addAverage folds x into a running average over prev samples.
func addAverage(avg, prev float64, x int) float64 {
	return (avg*prev + float64(x)) / (prev + 1)
}

// removeAverage takes x back out of a running average over prev samples.
func removeAverage(avg, prev float64, x int) float64 {
	n := prev - 1
	if n <= 0 {
		return 0
	}
	return (avg*prev - float64(x)) / n
}
