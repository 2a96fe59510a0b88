package model

import "time"

// WinLoss is a won/lost tally with its derived win percentage.
type WinLoss struct {
	Won        int     `json:"won"`
	Lost       int     `json:"lost"`
	Percentage float64 `json:"percentage"`
}

// Total returns Won + Lost.
func (w WinLoss) Total() int {
	return w.Won + w.Lost
}

// StatsSection is one aggregate scope: career, a season, or an agent within either.
// Agent sub-sections never carry their own Agents map.
type StatsSection struct {
	Games  WinLoss `json:"games"`
	Rounds WinLoss `json:"rounds"`

	TotalKills         int `json:"total_kills"`
	TotalDeaths        int `json:"total_deaths"`
	TotalAssists       int `json:"total_assists"`
	TotalKDADiff       int `json:"total_kda_diff"`
	TotalFirstBloods   int `json:"total_first_bloods"`
	TotalFirstDeaths   int `json:"total_first_deaths"`
	TotalFKFDDiff      int `json:"total_fkfd_diff"`
	TotalTrades        int `json:"total_trades"`
	TotalTraded        int `json:"total_traded"`
	TotalAttackRounds  int `json:"total_attack_rounds"`
	TotalDefenseRounds int `json:"total_defense_rounds"`

	AvgACS          float64 `json:"avg_acs"`
	AvgHSPercentage float64 `json:"avg_hs_percentage"`
	AvgDamageDelta  float64 `json:"avg_damage_delta"`
	AvgKAST         float64 `json:"avg_kast"`
	AvgADR          float64 `json:"avg_adr"`

	Agents AgentStats `json:"agents,omitempty"`
}

// AgentStats maps an agent name to that agent's sub-section.
type AgentStats map[string]StatsSection

// Clone returns a copy that shares no map with s.
func (s StatsSection) Clone() StatsSection {
	out := s
	out.Agents = s.Agents.Clone()
	return out
}

// Clone copies the mapping. An empty mapping clones to nil.
func (a AgentStats) Clone() AgentStats {
	if len(a) == 0 {
		return nil
	}
	out := make(AgentStats, len(a))
	for name, sec := range a {
		sec.Agents = nil
		out[name] = sec
	}
	return out
}

// PlayerProfile is the long-lived aggregate for one player.
type PlayerProfile struct {
	ID           string                  `json:"_id"`
	CurrentName  string                  `json:"current_name"`
	OverallStats StatsSection            `json:"overall_stats"`
	Seasons      map[string]StatsSection `json:"seasons"`
	LastUpdated  time.Time               `json:"last_updated"`
}

// Clone returns a deep copy of p.
func (p *PlayerProfile) Clone() *PlayerProfile {
	out := *p
	out.OverallStats = p.OverallStats.Clone()
	out.Seasons = make(map[string]StatsSection, len(p.Seasons))
	for id, sec := range p.Seasons {
		out.Seasons[id] = sec.Clone()
	}
	return &out
}

// PlayerListing is a row of the players leaderboard.
type PlayerListing struct {
	PUUID       string
	Name        string
	Games       int
	WinPct      float64
	AvgACS      float64
	AvgKAST     float64
	AvgADR      float64
	LastUpdated time.Time
}

// SeasonSummary is a season with the number of matches recorded in it.
type SeasonSummary struct {
	SeasonID   string
	MatchCount int
}
