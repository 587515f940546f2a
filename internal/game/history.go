package game

import (
	"context"
	"encoding/json"
	"time"
)

// HistoryEntry is the immutable record of one resolved wager. Append-only:
// nothing in the engine reads it back.
type HistoryEntry struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Game      string          `json:"game"`
	RoundID   string          `json:"round_id"`
	Bet       int64           `json:"bet"`
	Payout    int64           `json:"payout"`
	Result    string          `json:"result"` // win, loss, push
	Detail    json.RawMessage `json:"detail,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type Recorder interface {
	RecordRound(ctx context.Context, entry HistoryEntry) error
}

func detailJSON(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}
