package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"stream-rewards/internal/game"
)

// Debit atomically removes amount from the user's balance and journals the
// entry. The row lock makes the insufficient-funds check and the update one
// operation, so a balance can never be observed negative.
func (s *Store) Debit(ctx context.Context, userID string, amount int64, entryType, refType, refID string) (int64, error) {
	if amount <= 0 {
		return 0, game.ErrInvalidRequest
	}
	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var bal int64
	row := tx.QueryRowContext(ctx, `SELECT balance FROM accounts WHERE user_id = $1 FOR UPDATE`, userID)
	if err := row.Scan(&bal); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	if bal < amount {
		return 0, game.ErrInsufficientBalance
	}
	newBal := bal - amount
	if _, err := tx.ExecContext(ctx, `UPDATE accounts SET balance = $1, updated_at = now() WHERE user_id = $2`, newBal, userID); err != nil {
		return 0, err
	}
	if err := s.recordLedgerEntry(ctx, tx, userID, entryType, -amount, refType, refID); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return newBal, nil
}

// Credit atomically adds amount to the user's balance. A zero amount is a
// no-op that still returns the current balance.
func (s *Store) Credit(ctx context.Context, userID string, amount int64, entryType, refType, refID string) (int64, error) {
	if amount < 0 {
		return 0, game.ErrInvalidRequest
	}
	if amount == 0 {
		return s.GetAccountBalance(ctx, userID)
	}
	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var bal int64
	row := tx.QueryRowContext(ctx, `SELECT balance FROM accounts WHERE user_id = $1 FOR UPDATE`, userID)
	if err := row.Scan(&bal); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	newBal := bal + amount
	if _, err := tx.ExecContext(ctx, `UPDATE accounts SET balance = $1, updated_at = now() WHERE user_id = $2`, newBal, userID); err != nil {
		return 0, err
	}
	if err := s.recordLedgerEntry(ctx, tx, userID, entryType, amount, refType, refID); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return newBal, nil
}

// SetBalance forces the balance to max(0, balance) and journals the delta.
// Used by admin top-ups and by the external mirror sync.
func (s *Store) SetBalance(ctx context.Context, userID string, balance int64, entryType, refType, refID string) (int64, error) {
	if balance < 0 {
		balance = 0
	}
	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var bal int64
	row := tx.QueryRowContext(ctx, `SELECT balance FROM accounts WHERE user_id = $1 FOR UPDATE`, userID)
	if err := row.Scan(&bal); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE accounts SET balance = $1, updated_at = now() WHERE user_id = $2`, balance, userID); err != nil {
		return 0, err
	}
	if delta := balance - bal; delta != 0 {
		if err := s.recordLedgerEntry(ctx, tx, userID, entryType, delta, refType, refID); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return balance, nil
}

func (s *Store) recordLedgerEntry(ctx context.Context, tx *sql.Tx, userID, entryType string, amount int64, refType, refID string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO ledger_entries (id, user_id, type, amount, ref_type, ref_id) VALUES ($1,$2,$3,$4,$5,$6)`,
		NewID(), userID, entryType, amount, refType, refID)
	return err
}

type LedgerFilter struct {
	UserID  string
	RoundID string
	From    *time.Time
	To      *time.Time
}

func (s *Store) ListLedgerEntries(ctx context.Context, f LedgerFilter, limit, offset int) ([]LedgerEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	where := "WHERE 1=1"
	args := []any{}
	if f.UserID != "" {
		args = append(args, f.UserID)
		where += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	if f.RoundID != "" {
		args = append(args, f.RoundID)
		where += fmt.Sprintf(" AND ref_type = 'round' AND ref_id = $%d", len(args))
	}
	if f.From != nil {
		args = append(args, *f.From)
		where += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if f.To != nil {
		args = append(args, *f.To)
		where += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	args = append(args, limit, offset)
	q := `SELECT id, user_id, type, amount, ref_type, ref_id, created_at FROM ledger_entries ` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []LedgerEntry{}
	for rows.Next() {
		var e LedgerEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Type, &e.Amount, &e.RefType, &e.RefID, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListUnresolvedWagers finds bet debits older than minAge whose round has no
// history row and no open session: the debit happened but settlement never
// did. These need an operator refund or resume, not silent recovery.
func (s *Store) ListUnresolvedWagers(ctx context.Context, minAge time.Duration, limit int) ([]UnresolvedWager, error) {
	if limit <= 0 {
		limit = 50
	}
	cutoff := time.Now().Add(-minAge)
	rows, err := s.DB.QueryContext(ctx, `
		SELECT l.user_id, l.ref_id, -SUM(l.amount) AS net_debited, MIN(l.created_at)
		FROM ledger_entries l
		WHERE l.ref_type = 'round'
		  AND l.created_at < $1
		  AND NOT EXISTS (SELECT 1 FROM game_history h WHERE h.round_id = l.ref_id)
		  AND NOT EXISTS (
			SELECT 1 FROM active_sessions a
			WHERE a.user_id = l.user_id AND a.payload->>'round_id' = l.ref_id
		  )
		GROUP BY l.user_id, l.ref_id
		HAVING SUM(l.amount) < 0
		ORDER BY MIN(l.created_at) ASC
		LIMIT $2
	`, cutoff, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []UnresolvedWager{}
	for rows.Next() {
		var w UnresolvedWager
		if err := rows.Scan(&w.UserID, &w.RoundID, &w.Amount, &w.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}
