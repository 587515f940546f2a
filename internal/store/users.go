package store

import (
	"context"
	"database/sql"
	"errors"
)

func (s *Store) GetUserByAPIKey(ctx context.Context, apiKey string) (*User, error) {
	hash := HashAPIKey(apiKey)
	row := s.DB.QueryRowContext(ctx, `SELECT id, name, api_key_hash, external_id, created_at FROM users WHERE api_key_hash = $1`, hash)
	var u User
	if err := row.Scan(&u.ID, &u.Name, &u.APIKeyHash, &u.ExternalID, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*User, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT id, name, api_key_hash, external_id, created_at FROM users WHERE id = $1`, id)
	var u User
	if err := row.Scan(&u.ID, &u.Name, &u.APIKeyHash, &u.ExternalID, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, name, apiKey, externalID string) (string, error) {
	id := NewID()
	hash := HashAPIKey(apiKey)
	_, err := s.DB.ExecContext(ctx, `INSERT INTO users (id, name, api_key_hash, external_id) VALUES ($1,$2,$3,$4)`, id, name, hash, externalID)
	return id, err
}

func (s *Store) EnsureAccount(ctx context.Context, userID string, initial int64) error {
	_, err := s.DB.ExecContext(ctx, `INSERT INTO accounts (user_id, balance) VALUES ($1,$2) ON CONFLICT (user_id) DO NOTHING`, userID, initial)
	return err
}

func (s *Store) GetAccountBalance(ctx context.Context, userID string) (int64, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT balance FROM accounts WHERE user_id = $1`, userID)
	var bal int64
	if err := row.Scan(&bal); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return bal, nil
}

func (s *Store) ListAccounts(ctx context.Context, limit, offset int) ([]Account, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.DB.QueryContext(ctx, `SELECT user_id, balance, updated_at FROM accounts ORDER BY updated_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Account{}
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.UserID, &a.Balance, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
