package storage

import (
	"context"
	"fmt"

	"github.com/pable/go-val-metrics/internal/model"
)

// ListSeasons returns every season with at least one stored match, newest id first.
func (db *DB) ListSeasons(ctx context.Context) ([]model.SeasonSummary, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT season_id, match_count FROM seasons ORDER BY season_id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SeasonSummary
	for rows.Next() {
		var s model.SeasonSummary
		if err := rows.Scan(&s.SeasonID, &s.MatchCount); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetPlayerMatches returns a player's per-match rows, newest first. limit <= 0
// returns all of them.
func (db *DB) GetPlayerMatches(ctx context.Context, puuid string, limit int) ([]model.PlayerMatchRow, error) {
	q := `
		SELECT m.match_id, m.season_id, m.map_name, m.started_at,
		       p.agent, p.acs, p.kills, p.deaths, p.assists, p.kast, p.adr, p.match_won
		FROM match_players p
		JOIN matches m ON m.match_id = p.match_id
		WHERE p.puuid = ?
		ORDER BY m.started_at DESC`
	args := []any{puuid}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerMatchRow
	for rows.Next() {
		var r model.PlayerMatchRow
		var won int
		if err := rows.Scan(&r.MatchID, &r.SeasonID, &r.MapName, &r.StartedAt,
			&r.Agent, &r.ACS, &r.Kills, &r.Deaths, &r.Assists, &r.KAST, &r.ADR, &won); err != nil {
			return nil, err
		}
		r.MatchWon = won != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

// Totals counts stored matches and player profiles.
func (db *DB) Totals(ctx context.Context) (matches, players int, err error) {
	err = db.conn.QueryRowContext(ctx,
		"SELECT (SELECT COUNT(1) FROM matches), (SELECT COUNT(1) FROM players)").
		Scan(&matches, &players)
	return matches, players, err
}

// QueryRaw runs an arbitrary query and returns column names and stringified rows.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = fmt.Sprintf("<%d bytes>", len(x))
			default:
				row[i] = fmt.Sprint(x)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}
