// Package ledger owns every point movement. When a user is linked to the
// streaming platform's points account, the change is mirrored there first and
// the external balance read back as the source of truth; if the platform is
// unreachable the update falls back to local-only, which can desynchronize
// the two balances until the next successful sync.
package ledger

import (
	"context"

	"github.com/rs/zerolog/log"

	"stream-rewards/internal/game"
	"stream-rewards/internal/store"
)

const mirrorAttempts = 2

// Balances is the slice of the store the ledger uses.
type Balances interface {
	Debit(ctx context.Context, userID string, amount int64, entryType, refType, refID string) (int64, error)
	Credit(ctx context.Context, userID string, amount int64, entryType, refType, refID string) (int64, error)
	SetBalance(ctx context.Context, userID string, balance int64, entryType, refType, refID string) (int64, error)
	GetAccountBalance(ctx context.Context, userID string) (int64, error)
	GetUser(ctx context.Context, id string) (*store.User, error)
}

// Mirror is the external points system.
type Mirror interface {
	Debit(ctx context.Context, accountID string, amount int64) (int64, error)
	Credit(ctx context.Context, accountID string, amount int64) (int64, error)
	SetBalance(ctx context.Context, accountID string, balance int64) (int64, error)
}

type Service struct {
	store  Balances
	mirror Mirror // nil when mirroring is disabled
}

func New(st Balances, mirror Mirror) *Service {
	return &Service{store: st, mirror: mirror}
}

func (s *Service) Balance(ctx context.Context, userID string) (int64, error) {
	return s.store.GetAccountBalance(ctx, userID)
}

func (s *Service) Debit(ctx context.Context, userID string, amount int64, entryType, refType, refID string) (int64, error) {
	if amount <= 0 {
		return 0, game.ErrInvalidRequest
	}
	bal, err := s.store.GetAccountBalance(ctx, userID)
	if err != nil {
		return 0, err
	}
	if bal < amount {
		return 0, game.ErrInsufficientBalance
	}
	if ext := s.externalID(ctx, userID); ext != "" {
		if extBal, ok := s.tryMirror(ctx, userID, func(ctx context.Context) (int64, error) {
			return s.mirror.Debit(ctx, ext, amount)
		}); ok {
			return s.store.SetBalance(ctx, userID, extBal, entryType, refType, refID)
		}
	}
	return s.store.Debit(ctx, userID, amount, entryType, refType, refID)
}

func (s *Service) Credit(ctx context.Context, userID string, amount int64, entryType, refType, refID string) (int64, error) {
	if amount < 0 {
		return 0, game.ErrInvalidRequest
	}
	if amount == 0 {
		return s.store.GetAccountBalance(ctx, userID)
	}
	if ext := s.externalID(ctx, userID); ext != "" {
		if extBal, ok := s.tryMirror(ctx, userID, func(ctx context.Context) (int64, error) {
			return s.mirror.Credit(ctx, ext, amount)
		}); ok {
			return s.store.SetBalance(ctx, userID, extBal, entryType, refType, refID)
		}
	}
	return s.store.Credit(ctx, userID, amount, entryType, refType, refID)
}

func (s *Service) SetBalance(ctx context.Context, userID string, balance int64, entryType, refType, refID string) (int64, error) {
	if balance < 0 {
		balance = 0
	}
	if ext := s.externalID(ctx, userID); ext != "" {
		if extBal, ok := s.tryMirror(ctx, userID, func(ctx context.Context) (int64, error) {
			return s.mirror.SetBalance(ctx, ext, balance)
		}); ok {
			balance = extBal
		}
	}
	return s.store.SetBalance(ctx, userID, balance, entryType, refType, refID)
}

func (s *Service) externalID(ctx context.Context, userID string) string {
	if s.mirror == nil {
		return ""
	}
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return ""
	}
	return u.ExternalID
}

// tryMirror applies the change externally with a bounded retry. On failure it
// reports false and the caller continues with a local-only update.
func (s *Service) tryMirror(ctx context.Context, userID string, op func(context.Context) (int64, error)) (int64, bool) {
	var err error
	for attempt := 0; attempt < mirrorAttempts; attempt++ {
		var bal int64
		bal, err = op(ctx)
		if err == nil {
			return bal, true
		}
	}
	log.Warn().Err(err).Str("user_id", userID).Msg("platform mirror unreachable, applying local-only update")
	return 0, false
}
