package store

import (
	"context"

	"stream-rewards/internal/game"
)

func (s *Store) RecordRound(ctx context.Context, entry game.HistoryEntry) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO game_history (id, user_id, game, round_id, bet, payout, result, detail, created_at) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		entry.ID, entry.UserID, entry.Game, entry.RoundID, entry.Bet, entry.Payout, entry.Result, []byte(entry.Detail), entry.CreatedAt)
	return err
}

func (s *Store) ListGameHistory(ctx context.Context, userID string, limit, offset int) ([]game.HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, user_id, game, round_id, bet, payout, result, COALESCE(detail, 'null'), created_at
		 FROM game_history WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []game.HistoryEntry{}
	for rows.Next() {
		var e game.HistoryEntry
		var detail []byte
		if err := rows.Scan(&e.ID, &e.UserID, &e.Game, &e.RoundID, &e.Bet, &e.Payout, &e.Result, &detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Detail = detail
		out = append(out, e)
	}
	return out, rows.Err()
}
