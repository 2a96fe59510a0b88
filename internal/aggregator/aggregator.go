// Package aggregator turns one match's raw telemetry into per-player match
// statistics: side tracking, first kills, trades, KAST and the team round
// breakdown.
package aggregator

import (
	"fmt"

	"github.com/pable/go-val-metrics/internal/model"
)

// Aggregate computes the MatchResult for raw. team1Attacking states whether
// Team1 started the match attacking, which fixes the Red/Blue to Team1/Team2 mapping.
func Aggregate(raw *model.MatchTelemetry, team1Attacking bool) (*model.MatchResult, error) {
	teams, err := validate(raw)
	if err != nil {
		return nil, err
	}

	kills := ProcessKills(raw.Kills, teams, len(raw.Rounds))
	rounds := AggregateRounds(raw.Rounds, teams, kills, RegulationRounds)
	return Summarize(raw, team1Attacking, kills, rounds, RegulationRounds), nil
}

// validate checks the telemetry shape and returns the roster's original teams.
func validate(raw *model.MatchTelemetry) (map[string]model.TeamID, error) {
	if raw == nil {
		return nil, &model.ValidationError{Field: "telemetry", Reason: "missing"}
	}
	if raw.Metadata.MatchID == "" {
		return nil, &model.ValidationError{Field: "metadata.match_id", Reason: "empty"}
	}
	if len(raw.Teams) != 2 {
		return nil, &model.ValidationError{Field: "teams", Reason: fmt.Sprintf("expected 2 teams, got %d", len(raw.Teams))}
	}
	if len(raw.Players) == 0 {
		return nil, &model.ValidationError{Field: "players", Reason: "empty"}
	}
	if len(raw.Rounds) == 0 {
		return nil, &model.ValidationError{Field: "rounds", Reason: "empty"}
	}

	seen := make(map[model.TeamID]bool, 2)
	for _, t := range raw.Teams {
		if !t.TeamID.Valid() {
			return nil, &model.DataIntegrityError{Field: "team id", Value: string(t.TeamID)}
		}
		if seen[t.TeamID] {
			return nil, &model.DataIntegrityError{Field: "duplicate team id", Value: string(t.TeamID)}
		}
		seen[t.TeamID] = true
	}

	teams := make(map[string]model.TeamID, len(raw.Players))
	for i, p := range raw.Players {
		if p.PUUID == "" {
			return nil, &model.ValidationError{Field: fmt.Sprintf("players[%d].puuid", i), Reason: "empty"}
		}
		if !p.TeamID.Valid() {
			return nil, &model.DataIntegrityError{Field: "player team id", Value: string(p.TeamID)}
		}
		if _, dup := teams[p.PUUID]; dup {
			return nil, &model.DataIntegrityError{Field: "duplicate player", Value: p.PUUID}
		}
		teams[p.PUUID] = p.TeamID
	}

	for _, r := range raw.Rounds {
		if !r.WinningTeam.Valid() {
			return nil, &model.DataIntegrityError{Field: "round winning team", Value: string(r.WinningTeam)}
		}
	}
	return teams, nil
}
