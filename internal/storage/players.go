package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/pable/go-val-metrics/internal/model"
)

// GetPlayerProfile loads a player's aggregate profile. Returns nil, nil if the
// player has none.
func (db *DB) GetPlayerProfile(ctx context.Context, puuid string) (*model.PlayerProfile, error) {
	var raw string
	err := db.conn.QueryRowContext(ctx, "SELECT profile FROM players WHERE puuid = ?", puuid).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeProfile(raw)
}

// PutPlayerProfile inserts or replaces a player's aggregate profile.
func (db *DB) PutPlayerProfile(ctx context.Context, p *model.PlayerProfile) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		return putProfiles(ctx, tx, []*model.PlayerProfile{p})
	})
}

func putProfiles(ctx context.Context, tx *sql.Tx, profiles []*model.PlayerProfile) error {
	for _, p := range profiles {
		raw, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("marshal profile %s: %w", p.ID, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO players(puuid, display_name, profile, last_updated)
			VALUES (?, ?, ?, ?)`,
			p.ID, p.CurrentName, string(raw), formatTime(p.LastUpdated),
		)
		if err != nil {
			return fmt.Errorf("put profile %s: %w", p.ID, err)
		}
	}
	return nil
}

// FindPlayers returns profiles whose puuid starts with query or whose display
// name contains it, case-insensitively. The query is compared literally.
func (db *DB) FindPlayers(ctx context.Context, query string) ([]*model.PlayerProfile, error) {
	if query == "" {
		return nil, errEmptyPrefix
	}
	rows, err := db.conn.QueryContext(ctx, `
		SELECT profile FROM players
		WHERE substr(puuid, 1, length(?)) = ? OR instr(lower(display_name), lower(?)) > 0
		ORDER BY display_name`, query, query, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProfiles(rows)
}

// ListPlayers returns one leaderboard row per player who has games in the
// given season, ordered by average combat score desc. An empty seasonID ranks
// career stats.
func (db *DB) ListPlayers(ctx context.Context, seasonID string) ([]model.PlayerListing, error) {
	rows, err := db.conn.QueryContext(ctx, "SELECT profile FROM players")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	profiles, err := scanProfiles(rows)
	if err != nil {
		return nil, err
	}

	var out []model.PlayerListing
	for _, p := range profiles {
		sec := p.OverallStats
		if seasonID != "" {
			var ok bool
			if sec, ok = p.Seasons[seasonID]; !ok {
				continue
			}
		}
		if sec.Games.Total() == 0 {
			continue
		}
		out = append(out, model.PlayerListing{
			PUUID:       p.ID,
			Name:        p.CurrentName,
			Games:       sec.Games.Total(),
			WinPct:      sec.Games.Percentage,
			AvgACS:      sec.AvgACS,
			AvgKAST:     sec.AvgKAST,
			AvgADR:      sec.AvgADR,
			LastUpdated: p.LastUpdated,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AvgACS != out[j].AvgACS {
			return out[i].AvgACS > out[j].AvgACS
		}
		return out[i].PUUID < out[j].PUUID
	})
	return out, nil
}

func scanProfiles(rows *sql.Rows) ([]*model.PlayerProfile, error) {
	var out []*model.PlayerProfile
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		p, err := decodeProfile(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func decodeProfile(raw string) (*model.PlayerProfile, error) {
	var p model.PlayerProfile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	if p.Seasons == nil {
		p.Seasons = make(map[string]model.StatsSection)
	}
	return &p, nil
}
