package model

import "time"

// TeamID is the original side a player was rostered on in the telemetry.
type TeamID string

const (
	TeamRed  TeamID = "Red"
	TeamBlue TeamID = "Blue"
)

// Valid reports whether t is one of the two known team identifiers.
func (t TeamID) Valid() bool {
	return t == TeamRed || t == TeamBlue
}

// Other returns the opposing team.
func (t TeamID) Other() TeamID {
	if t == TeamRed {
		return TeamBlue
	}
	return TeamRed
}

// TeamSlot is the stable match-local label assigned to an original team.
type TeamSlot string

const (
	Team1 TeamSlot = "Team1"
	Team2 TeamSlot = "Team2"
)

// SlotOf maps an original team to its slot. team1Attacking means Team1 is
// the side that attacked in the first round, which is always Red.
func SlotOf(t TeamID, team1Attacking bool) TeamSlot {
	team1 := TeamBlue
	if team1Attacking {
		team1 = TeamRed
	}
	if t == team1 {
		return Team1
	}
	return Team2
}

// ---- Raw telemetry ----

type MatchMetadata struct {
	MatchID      string
	MapName      string
	StartedAt    time.Time
	Cluster      string
	QueueName    string
	GameLengthMs int64
	SeasonLabel  string
	PatchVersion string
}

type TeamResult struct {
	TeamID    TeamID
	Won       bool
	RoundsWon int
}

type PlayerTotals struct {
	Kills, Deaths, Assists         int
	Score                          int
	DamageDealt, DamageReceived    int
	Headshots, Bodyshots, Legshots int
}

type PlayerInfo struct {
	PUUID       string
	DisplayName string
	Tag         string
	TeamID      TeamID
	AgentName   string
	RankID      int
	Stats       PlayerTotals
}

// Name returns the "name#tag" form used in records and profiles.
func (p PlayerInfo) Name() string {
	if p.Tag == "" {
		return p.DisplayName
	}
	return p.DisplayName + "#" + p.Tag
}

type PlayerRoundStats struct {
	PUUID                  string
	Kills, Deaths, Assists int
}

type RawRound struct {
	WinningTeam TeamID
	Result      string
	PlantSite   string // empty if the spike was not planted
	Ceremony    string
	PlayerStats []PlayerRoundStats
}

type RawKill struct {
	RoundIndex    int
	TimeInRoundMs int64
	KillerPUUID   string
	VictimPUUID   string
}

// MatchTelemetry is one completed match as delivered by the telemetry source.
// Kills are ordered by occurrence.
type MatchTelemetry struct {
	Metadata MatchMetadata
	Teams    []TeamResult
	Players  []PlayerInfo
	Rounds   []RawRound
	Kills    []RawKill
}

// ---- Per-match output ----

// MatchStatRecord is one player's summarized statistics for one match.
type MatchStatRecord struct {
	Name          string   `json:"name"`
	PUUID         string   `json:"puuid"`
	Rank          int      `json:"rank"`
	Team          TeamSlot `json:"team"`
	Agent         string   `json:"agent"`
	ACS           int      `json:"acs"`
	Kills         int      `json:"kills"`
	Deaths        int      `json:"deaths"`
	Assists       int      `json:"assists"`
	KDADiff       int      `json:"kda_diff"`
	KAST          int      `json:"kast"`
	HSPercentage  int      `json:"hs_percentage"`
	FirstBloods   int      `json:"first_bloods"`
	FirstDeaths   int      `json:"first_deaths"`
	FKFDDiff      int      `json:"fkfd_diff"`
	Trades        int      `json:"trades"`
	Traded        int      `json:"traded"`
	ADR           int      `json:"adr"`
	DamageDelta   int      `json:"damage_delta"`
	AttackRounds  int      `json:"attack_rounds"`
	DefenseRounds int      `json:"defense_rounds"`
	RoundsWon     int      `json:"rounds_won"`
	RoundsLost    int      `json:"rounds_lost"`
	MatchWon      bool     `json:"match_won"`
}

type TeamRoundsWon struct {
	Atk      int `json:"atk"`
	Def      int `json:"def"`
	Total    int `json:"total"`
	Overtime int `json:"overtime"`
}

type TeamSummary struct {
	Slot      TeamSlot          `json:"team_id"`
	Won       bool              `json:"won"`
	Pick      string            `json:"pick"` // "Attackers" or "Defenders"
	RoundsWon TeamRoundsWon     `json:"rounds_won"`
	Players   []MatchStatRecord `json:"players"`
}

// PlayerRef identifies a player inside a round summary.
type PlayerRef struct {
	PUUID string `json:"puuid"`
	Name  string `json:"name"`
	Rank  int    `json:"rank"`
}

type RoundWinCondition struct {
	Round       int        `json:"round"` // 1-based
	WinningTeam TeamSlot   `json:"winning_team"`
	RoundType   string     `json:"round_type"`
	Result      string     `json:"result"`
	Site        string     `json:"site,omitempty"`
	FirstKill   *PlayerRef `json:"first_kill,omitempty"`
	FirstDeath  *PlayerRef `json:"first_death,omitempty"`
	Ceremony    string     `json:"ceremony"`
	IsOvertime  bool       `json:"is_overtime"`
}

// MatchResult is the detailed, persisted document for one match.
type MatchResult struct {
	MatchID            string              `json:"match_id"`
	Map                string              `json:"map"`
	StartTime          time.Time           `json:"start_time"`
	GameServer         string              `json:"game_server"`
	GameMode           string              `json:"game_mode"`
	GameDurationMs     int64               `json:"game_duration"`
	Season             string              `json:"season"`
	Patch              string              `json:"patch"`
	Team1Attacking     bool                `json:"team1_attacking"`
	Teams              [2]TeamSummary      `json:"teams"`
	RoundWinConditions []RoundWinCondition `json:"round_win_conditions"`
}

// Records returns every player record of both teams, Team1 first.
func (m *MatchResult) Records() []MatchStatRecord {
	out := make([]MatchStatRecord, 0, len(m.Teams[0].Players)+len(m.Teams[1].Players))
	out = append(out, m.Teams[0].Players...)
	out = append(out, m.Teams[1].Players...)
	return out
}

// Score returns the final (Team1, Team2) round totals.
func (m *MatchResult) Score() (int, int) {
	return m.Teams[0].RoundsWon.Total, m.Teams[1].RoundsWon.Total
}

// StoredMatch is a persisted match record together with its bookkeeping.
type StoredMatch struct {
	MatchID   string
	SeasonID  string
	CreatedAt time.Time
	Result    MatchResult
}

// MatchSummary is a lightweight record for list/show commands.
type MatchSummary struct {
	MatchID    string
	SeasonID   string
	MapName    string
	StartedAt  string
	Queue      string
	Team1Score int
	Team2Score int
}

// PlayerMatchRow is one player's line in one stored match.
type PlayerMatchRow struct {
	MatchID   string
	SeasonID  string
	MapName   string
	StartedAt string
	Agent     string
	ACS       int
	Kills     int
	Deaths    int
	Assists   int
	KAST      int
	ADR       int
	MatchWon  bool
}
