package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"stream-rewards/internal/game"
)

// Active sessions live in a single table keyed (user_id, game): the primary
// key makes "one active game per user" a storage-level guarantee instead of a
// check-then-create. Payloads are validated structurally on every load; a row
// that fails validation is dropped and the caller restarts the game.

func (s *Store) createSession(ctx context.Context, userID, gameName string, payload any) (bool, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return false, err
	}
	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO active_sessions (user_id, game, payload) VALUES ($1,$2,$3) ON CONFLICT (user_id, game) DO NOTHING`,
		userID, gameName, b)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *Store) loadSession(ctx context.Context, userID, gameName string, out interface{ Validate() error }) error {
	row := s.DB.QueryRowContext(ctx, `SELECT payload FROM active_sessions WHERE user_id = $1 AND game = $2`, userID, gameName)
	var b []byte
	if err := row.Scan(&b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return game.ErrSessionNotFound
		}
		return err
	}
	if err := json.Unmarshal(b, out); err != nil {
		s.discardSession(ctx, userID, gameName)
		return game.ErrCorruptedState
	}
	if err := out.Validate(); err != nil {
		s.discardSession(ctx, userID, gameName)
		return game.ErrCorruptedState
	}
	return nil
}

func (s *Store) discardSession(ctx context.Context, userID, gameName string) {
	if _, err := s.deleteSession(ctx, userID, gameName); err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("game", gameName).Msg("discard corrupted session failed")
	} else {
		log.Warn().Str("user_id", userID).Str("game", gameName).Msg("discarded corrupted session")
	}
}

func (s *Store) updateSession(ctx context.Context, userID, gameName string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	res, err := s.DB.ExecContext(ctx, `UPDATE active_sessions SET payload = $1 WHERE user_id = $2 AND game = $3`, b, userID, gameName)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return game.ErrSessionNotFound
	}
	return nil
}

func (s *Store) deleteSession(ctx context.Context, userID, gameName string) (bool, error) {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM active_sessions WHERE user_id = $1 AND game = $2`, userID, gameName)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *Store) CreateMinesSession(ctx context.Context, userID string, st *game.MinesState) (bool, error) {
	return s.createSession(ctx, userID, game.GameMines, st)
}

func (s *Store) GetMinesSession(ctx context.Context, userID string) (*game.MinesState, error) {
	var st game.MinesState
	if err := s.loadSession(ctx, userID, game.GameMines, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *Store) UpdateMinesSession(ctx context.Context, userID string, st *game.MinesState) error {
	return s.updateSession(ctx, userID, game.GameMines, st)
}

func (s *Store) DeleteMinesSession(ctx context.Context, userID string) (bool, error) {
	return s.deleteSession(ctx, userID, game.GameMines)
}

func (s *Store) CreateBlackjackSession(ctx context.Context, userID string, st *game.BlackjackState) (bool, error) {
	return s.createSession(ctx, userID, game.GameBlackjack, st)
}

func (s *Store) GetBlackjackSession(ctx context.Context, userID string) (*game.BlackjackState, error) {
	var st game.BlackjackState
	if err := s.loadSession(ctx, userID, game.GameBlackjack, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *Store) UpdateBlackjackSession(ctx context.Context, userID string, st *game.BlackjackState) error {
	return s.updateSession(ctx, userID, game.GameBlackjack, st)
}

func (s *Store) DeleteBlackjackSession(ctx context.Context, userID string) (bool, error) {
	return s.deleteSession(ctx, userID, game.GameBlackjack)
}
