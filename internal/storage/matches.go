package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pable/go-val-metrics/internal/model"
)

var errEmptyPrefix = errors.New("empty lookup prefix")

// MatchExists returns true if a match with the given id is already stored.
func (db *DB) MatchExists(ctx context.Context, matchID string) (bool, error) {
	var count int
	err := db.conn.QueryRowContext(ctx, "SELECT COUNT(1) FROM matches WHERE match_id = ?", matchID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// AddMatch stores a match document with its flattened player rows, bumps the
// season's match count and writes the given profiles, all in one transaction.
// Returns model.ErrMatchExists if the id is taken, in which case nothing is written.
func (db *DB) AddMatch(ctx context.Context, m *model.StoredMatch, profiles []*model.PlayerProfile) error {
	blob, err := encodeResult(&m.Result)
	if err != nil {
		return err
	}
	t1, t2 := m.Result.Score()

	return db.withTx(ctx, func(tx *sql.Tx) error {
		var count int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(1) FROM matches WHERE match_id = ?", m.MatchID).Scan(&count); err != nil {
			return err
		}
		if count > 0 {
			return model.ErrMatchExists
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO matches(match_id, season_id, map_name, started_at, queue, team1_score, team2_score, record, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			m.MatchID, m.SeasonID, m.Result.Map, formatTime(m.Result.StartTime), m.Result.GameMode,
			t1, t2, blob, formatTime(m.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("insert match %s: %w", m.MatchID, err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO match_players(
				match_id, puuid, name, team, agent,
				acs, kills, deaths, assists, kast, adr, hs_percentage,
				first_bloods, first_deaths, trades, traded, match_won
			) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, r := range m.Result.Records() {
			_, err = stmt.ExecContext(ctx,
				m.MatchID, r.PUUID, r.Name, string(r.Team), r.Agent,
				r.ACS, r.Kills, r.Deaths, r.Assists, r.KAST, r.ADR, r.HSPercentage,
				r.FirstBloods, r.FirstDeaths, r.Trades, r.Traded, boolInt(r.MatchWon),
			)
			if err != nil {
				return fmt.Errorf("insert match_players for %s: %w", r.PUUID, err)
			}
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO seasons(season_id, match_count) VALUES (?, 1)
			ON CONFLICT(season_id) DO UPDATE SET match_count = match_count + 1`, m.SeasonID)
		if err != nil {
			return err
		}
		return putProfiles(ctx, tx, profiles)
	})
}

// GetMatchRecord loads a stored match. Returns model.ErrMatchNotFound if absent.
func (db *DB) GetMatchRecord(ctx context.Context, matchID string) (*model.StoredMatch, error) {
	var (
		m         model.StoredMatch
		blob      []byte
		createdAt string
	)
	err := db.conn.QueryRowContext(ctx,
		"SELECT match_id, season_id, record, created_at FROM matches WHERE match_id = ?", matchID).
		Scan(&m.MatchID, &m.SeasonID, &blob, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrMatchNotFound
	}
	if err != nil {
		return nil, err
	}
	res, err := decodeResult(blob)
	if err != nil {
		return nil, fmt.Errorf("decode match %s: %w", matchID, err)
	}
	m.Result = *res
	m.CreatedAt = parseTime(createdAt)
	return &m, nil
}

// RemoveMatch deletes a match and its player rows, decrements the season's
// match count (dropping the season once it has no matches) and writes the
// given profiles, all in one transaction. Returns model.ErrMatchNotFound if
// absent, in which case nothing is written.
func (db *DB) RemoveMatch(ctx context.Context, matchID string, profiles []*model.PlayerProfile) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		var seasonID string
		err := tx.QueryRowContext(ctx, "SELECT season_id FROM matches WHERE match_id = ?", matchID).Scan(&seasonID)
		if errors.Is(err, sql.ErrNoRows) {
			return model.ErrMatchNotFound
		}
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM match_players WHERE match_id = ?", matchID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM matches WHERE match_id = ?", matchID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE seasons SET match_count = match_count - 1 WHERE season_id = ?", seasonID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM seasons WHERE season_id = ? AND match_count <= 0", seasonID); err != nil {
			return err
		}
		return putProfiles(ctx, tx, profiles)
	})
}

// ListMatches returns stored match summaries ordered by start time desc.
// An empty seasonID lists every season.
func (db *DB) ListMatches(ctx context.Context, seasonID string) ([]model.MatchSummary, error) {
	q := `SELECT match_id, season_id, map_name, started_at, queue, team1_score, team2_score FROM matches`
	var args []any
	if seasonID != "" {
		q += " WHERE season_id = ?"
		args = append(args, seasonID)
	}
	q += " ORDER BY started_at DESC, match_id"

	rows, err := db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchSummary
	for rows.Next() {
		var s model.MatchSummary
		if err := rows.Scan(&s.MatchID, &s.SeasonID, &s.MapName, &s.StartedAt, &s.Queue,
			&s.Team1Score, &s.Team2Score); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetMatchByPrefix finds the first match whose id starts with the given prefix.
// The prefix is compared literally. Returns nil, nil if nothing matches.
func (db *DB) GetMatchByPrefix(ctx context.Context, prefix string) (*model.MatchSummary, error) {
	if prefix == "" {
		return nil, errEmptyPrefix
	}
	var s model.MatchSummary
	err := db.conn.QueryRowContext(ctx, `
		SELECT match_id, season_id, map_name, started_at, queue, team1_score, team2_score
		FROM matches WHERE substr(match_id, 1, length(?)) = ? ORDER BY match_id LIMIT 1`, prefix, prefix).
		Scan(&s.MatchID, &s.SeasonID, &s.MapName, &s.StartedAt, &s.Queue, &s.Team1Score, &s.Team2Score)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
