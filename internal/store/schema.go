package store

import "context"

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	api_key_hash TEXT NOT NULL UNIQUE,
	external_id  TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS accounts (
	user_id    TEXT PRIMARY KEY REFERENCES users(id),
	balance    BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS ledger_entries (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL REFERENCES users(id),
	type       TEXT NOT NULL,
	amount     BIGINT NOT NULL,
	ref_type   TEXT NOT NULL DEFAULT '',
	ref_id     TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS ledger_entries_user_idx ON ledger_entries (user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS ledger_entries_ref_idx ON ledger_entries (ref_type, ref_id);

CREATE TABLE IF NOT EXISTS active_sessions (
	user_id    TEXT NOT NULL REFERENCES users(id),
	game       TEXT NOT NULL,
	payload    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (user_id, game)
);

CREATE TABLE IF NOT EXISTS game_history (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL REFERENCES users(id),
	game       TEXT NOT NULL,
	round_id   TEXT NOT NULL,
	bet        BIGINT NOT NULL,
	payout     BIGINT NOT NULL,
	result     TEXT NOT NULL,
	detail     JSONB,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS game_history_user_idx ON game_history (user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS game_history_round_idx ON game_history (round_id);
`

func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, schema)
	return err
}
