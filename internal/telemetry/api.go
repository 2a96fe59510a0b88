package telemetry

import (
	"time"

	"github.com/pable/go-val-metrics/internal/model"
)

// apiMatch mirrors the match document served by the public match API.
// Only the fields the aggregator reads are declared.
type apiMatch struct {
	Metadata apiMetadata `json:"metadata"`
	Players  []apiPlayer `json:"players"`
	Teams    []apiTeam   `json:"teams"`
	Rounds   []apiRound  `json:"rounds"`
	Kills    []apiKill   `json:"kills"`
}

type apiMetadata struct {
	MatchID      string    `json:"match_id"`
	Map          apiNamed  `json:"map"`
	GameVersion  string    `json:"game_version"`
	GameLengthMs int64     `json:"game_length_in_ms"`
	StartedAt    time.Time `json:"started_at"`
	Queue        apiNamed  `json:"queue"`
	Season       struct {
		Short string `json:"short"`
	} `json:"season"`
	Cluster string `json:"cluster"`
}

type apiNamed struct {
	Name string `json:"name"`
}

type apiPlayer struct {
	PUUID  string   `json:"puuid"`
	Name   string   `json:"name"`
	Tag    string   `json:"tag"`
	TeamID string   `json:"team_id"`
	Agent  apiNamed `json:"agent"`
	Tier   struct {
		ID int `json:"id"`
	} `json:"tier"`
	Stats struct {
		Score     int `json:"score"`
		Kills     int `json:"kills"`
		Deaths    int `json:"deaths"`
		Assists   int `json:"assists"`
		Headshots int `json:"headshots"`
		Bodyshots int `json:"bodyshots"`
		Legshots  int `json:"legshots"`
		Damage    struct {
			Dealt    int `json:"dealt"`
			Received int `json:"received"`
		} `json:"damage"`
	} `json:"stats"`
}

type apiTeam struct {
	TeamID string `json:"team_id"`
	Won    bool   `json:"won"`
	Rounds struct {
		Won  int `json:"won"`
		Lost int `json:"lost"`
	} `json:"rounds"`
}

type apiRound struct {
	ID          int    `json:"id"`
	Result      string `json:"result"`
	Ceremony    string `json:"ceremony"`
	WinningTeam string `json:"winning_team"`
	Plant       *struct {
		Site string `json:"site"`
	} `json:"plant"`
	Stats []struct {
		Player struct {
			PUUID string `json:"puuid"`
		} `json:"player"`
		Stats struct {
			Kills   int `json:"kills"`
			Deaths  int `json:"deaths"`
			Assists int `json:"assists"`
		} `json:"stats"`
	} `json:"stats"`
}

type apiKill struct {
	Round           int   `json:"round"`
	TimeInRoundInMs int64 `json:"time_in_round_in_ms"`
	Killer          struct {
		PUUID string `json:"puuid"`
	} `json:"killer"`
	Victim struct {
		PUUID string `json:"puuid"`
	} `json:"victim"`
}

// toModel converts the API document to telemetry. Team identifiers are passed
// through unchecked; the aggregator rejects unknown ones.
func (m *apiMatch) toModel() *model.MatchTelemetry {
	out := &model.MatchTelemetry{
		Metadata: model.MatchMetadata{
			MatchID:      m.Metadata.MatchID,
			MapName:      m.Metadata.Map.Name,
			StartedAt:    m.Metadata.StartedAt,
			Cluster:      m.Metadata.Cluster,
			QueueName:    m.Metadata.Queue.Name,
			GameLengthMs: m.Metadata.GameLengthMs,
			SeasonLabel:  m.Metadata.Season.Short,
			PatchVersion: m.Metadata.GameVersion,
		},
		Teams:   make([]model.TeamResult, 0, len(m.Teams)),
		Players: make([]model.PlayerInfo, 0, len(m.Players)),
		Rounds:  make([]model.RawRound, 0, len(m.Rounds)),
		Kills:   make([]model.RawKill, 0, len(m.Kills)),
	}

	for _, t := range m.Teams {
		out.Teams = append(out.Teams, model.TeamResult{
			TeamID:    model.TeamID(t.TeamID),
			Won:       t.Won,
			RoundsWon: t.Rounds.Won,
		})
	}

	for _, p := range m.Players {
		out.Players = append(out.Players, model.PlayerInfo{
			PUUID:       p.PUUID,
			DisplayName: p.Name,
			Tag:         p.Tag,
			TeamID:      model.TeamID(p.TeamID),
			AgentName:   p.Agent.Name,
			RankID:      p.Tier.ID,
			Stats: model.PlayerTotals{
				Kills:          p.Stats.Kills,
				Deaths:         p.Stats.Deaths,
				Assists:        p.Stats.Assists,
				Score:          p.Stats.Score,
				DamageDealt:    p.Stats.Damage.Dealt,
				DamageReceived: p.Stats.Damage.Received,
				Headshots:      p.Stats.Headshots,
				Bodyshots:      p.Stats.Bodyshots,
				Legshots:       p.Stats.Legshots,
			},
		})
	}

	for _, r := range m.Rounds {
		rr := model.RawRound{
			WinningTeam: model.TeamID(r.WinningTeam),
			Result:      r.Result,
			Ceremony:    r.Ceremony,
		}
		if r.Plant != nil {
			rr.PlantSite = r.Plant.Site
		}
		for _, s := range r.Stats {
			rr.PlayerStats = append(rr.PlayerStats, model.PlayerRoundStats{
				PUUID:   s.Player.PUUID,
				Kills:   s.Stats.Kills,
				Deaths:  s.Stats.Deaths,
				Assists: s.Stats.Assists,
			})
		}
		out.Rounds = append(out.Rounds, rr)
	}

	for _, k := range m.Kills {
		out.Kills = append(out.Kills, model.RawKill{
			RoundIndex:    k.Round,
			TimeInRoundMs: k.TimeInRoundInMs,
			KillerPUUID:   k.Killer.PUUID,
			VictimPUUID:   k.Victim.PUUID,
		})
	}
	return out
}
