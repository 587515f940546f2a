package game

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	GameDice      = "dice"
	GameLimbo     = "limbo"
	GameKeno      = "keno"
	GameMines     = "mines"
	GameBlackjack = "blackjack"
)

// Wallet moves points. Implementations must reject debits that would take a
// balance negative before any game logic runs.
type Wallet interface {
	Debit(ctx context.Context, userID string, amount int64, entryType, refType, refID string) (int64, error)
	Credit(ctx context.Context, userID string, amount int64, entryType, refType, refID string) (int64, error)
	Balance(ctx context.Context, userID string) (int64, error)
}

// SessionStore persists active multi-step games, one per (user, game). Create
// must be a single conditional write. Get returns ErrSessionNotFound when no
// session exists and ErrCorruptedState (after discarding the row) when the
// persisted payload fails structural validation.
type SessionStore interface {
	CreateMinesSession(ctx context.Context, userID string, st *MinesState) (bool, error)
	GetMinesSession(ctx context.Context, userID string) (*MinesState, error)
	UpdateMinesSession(ctx context.Context, userID string, st *MinesState) error
	DeleteMinesSession(ctx context.Context, userID string) (bool, error)

	CreateBlackjackSession(ctx context.Context, userID string, st *BlackjackState) (bool, error)
	GetBlackjackSession(ctx context.Context, userID string) (*BlackjackState, error)
	UpdateBlackjackSession(ctx context.Context, userID string, st *BlackjackState) error
	DeleteBlackjackSession(ctx context.Context, userID string) (bool, error)
}

// Engine resolves every wager for both transports: debit the bet, compute the
// outcome, credit any payout, append a history row.
type Engine struct {
	wallet   Wallet
	sessions SessionStore
	history  Recorder
	keno     *KenoTables
	rng      RNG
	newID    func() string
}

func NewEngine(wallet Wallet, sessions SessionStore, history Recorder, keno *KenoTables, rng RNG, newID func() string) *Engine {
	return &Engine{wallet: wallet, sessions: sessions, history: history, keno: keno, rng: rng, newID: newID}
}

// alertUnresolved marks the systemic fault: a bet was debited but the round
// could not be settled or recorded. The reconciliation listing finds these by
// joining ledger debits against history rounds.
func (e *Engine) alertUnresolved(userID, gameName, roundID string, err error) {
	log.Error().Err(err).
		Str("alert", "wager_unresolved").
		Str("user_id", userID).
		Str("game", gameName).
		Str("round_id", roundID).
		Msg("debited wager could not be settled")
}

func (e *Engine) record(ctx context.Context, entry HistoryEntry) {
	entry.ID = e.newID()
	entry.CreatedAt = time.Now().UTC()
	if err := e.history.RecordRound(ctx, entry); err != nil {
		e.alertUnresolved(entry.UserID, entry.Game, entry.RoundID, err)
	}
}

func winLoss(won bool) string {
	if won {
		return "win"
	}
	return "loss"
}

func (e *Engine) PlayDice(ctx context.Context, userID string, p DiceParams) (*DiceResult, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	roundID := e.newID()
	balance, err := e.wallet.Debit(ctx, userID, p.Bet, "bet_debit", "round", roundID)
	if err != nil {
		return nil, err
	}
	res := resolveDice(e.rng, p)
	res.Balance = balance
	if res.Payout > 0 {
		balance, err = e.wallet.Credit(ctx, userID, res.Payout, "payout_credit", "round", roundID)
		if err != nil {
			e.alertUnresolved(userID, GameDice, roundID, err)
			return nil, err
		}
		res.Balance = balance
	}
	e.record(ctx, HistoryEntry{
		UserID:  userID,
		Game:    GameDice,
		RoundID: roundID,
		Bet:     p.Bet,
		Payout:  res.Payout,
		Result:  winLoss(res.Won),
		Detail: detailJSON(map[string]any{
			"roll": res.Roll, "target": p.Target, "direction": p.Direction, "multiplier": res.Multiplier,
		}),
	})
	return &res, nil
}

func (e *Engine) PlayLimbo(ctx context.Context, userID string, p LimboParams) (*LimboResult, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	roundID := e.newID()
	balance, err := e.wallet.Debit(ctx, userID, p.Bet, "bet_debit", "round", roundID)
	if err != nil {
		return nil, err
	}
	res := resolveLimbo(e.rng, p)
	res.Balance = balance
	if res.Payout > 0 {
		balance, err = e.wallet.Credit(ctx, userID, res.Payout, "payout_credit", "round", roundID)
		if err != nil {
			e.alertUnresolved(userID, GameLimbo, roundID, err)
			return nil, err
		}
		res.Balance = balance
	}
	e.record(ctx, HistoryEntry{
		UserID:  userID,
		Game:    GameLimbo,
		RoundID: roundID,
		Bet:     p.Bet,
		Payout:  res.Payout,
		Result:  winLoss(res.Won),
		Detail:  detailJSON(map[string]any{"crash_point": res.CrashPoint, "target": p.Target}),
	})
	return &res, nil
}

func (e *Engine) PlayKeno(ctx context.Context, userID string, p KenoParams) (*KenoResult, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	roundID := e.newID()
	balance, err := e.wallet.Debit(ctx, userID, p.Bet, "bet_debit", "round", roundID)
	if err != nil {
		return nil, err
	}
	res, err := resolveKeno(e.rng, e.keno, p)
	if err != nil {
		e.alertUnresolved(userID, GameKeno, roundID, err)
		return nil, err
	}
	res.Balance = balance
	if res.Payout > 0 {
		balance, err = e.wallet.Credit(ctx, userID, res.Payout, "payout_credit", "round", roundID)
		if err != nil {
			e.alertUnresolved(userID, GameKeno, roundID, err)
			return nil, err
		}
		res.Balance = balance
	}
	e.record(ctx, HistoryEntry{
		UserID:  userID,
		Game:    GameKeno,
		RoundID: roundID,
		Bet:     p.Bet,
		Payout:  res.Payout,
		Result:  winLoss(res.Won),
		Detail: detailJSON(map[string]any{
			"risk": p.Risk, "picks": p.Picks, "drawn": res.Drawn, "hits": res.Hits, "multiplier": res.Multiplier,
		}),
	})
	return &res, nil
}

func (e *Engine) StartMines(ctx context.Context, userID string, p MinesStartParams) (*MinesStartResult, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	roundID := e.newID()
	balance, err := e.wallet.Debit(ctx, userID, p.Bet, "bet_debit", "round", roundID)
	if err != nil {
		return nil, err
	}
	st := newMinesState(e.rng, userID, roundID, p.Bet, p.MineCount)
	created, err := e.sessions.CreateMinesSession(ctx, userID, st)
	if err != nil {
		e.alertUnresolved(userID, GameMines, roundID, err)
		return nil, err
	}
	if !created {
		// Lost the conditional create: hand the stake back.
		if _, cerr := e.wallet.Credit(ctx, userID, p.Bet, "refund_credit", "round", roundID); cerr != nil {
			e.alertUnresolved(userID, GameMines, roundID, cerr)
		}
		return nil, ErrSessionConflict
	}
	return &MinesStartResult{
		RoundID: roundID,
		Layout:  EncodeLayout(e.rng, st.Mines),
		Balance: balance,
	}, nil
}

func (e *Engine) RevealMines(ctx context.Context, userID string, position int) (*MinesRevealResult, error) {
	if position < 0 || position >= minesBoardSize {
		return nil, ErrInvalidRequest
	}
	st, err := e.sessions.GetMinesSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	if st.isRevealed(position) {
		return nil, ErrIllegalAction
	}

	if st.isMine(position) {
		deleted, err := e.sessions.DeleteMinesSession(ctx, userID)
		if err != nil {
			return nil, err
		}
		if !deleted {
			return nil, ErrSessionNotFound
		}
		e.record(ctx, HistoryEntry{
			UserID:  userID,
			Game:    GameMines,
			RoundID: st.RoundID,
			Bet:     st.Bet,
			Payout:  0,
			Result:  "loss",
			Detail:  detailJSON(map[string]any{"mines": st.Mines, "revealed": st.Revealed, "hit": position}),
		})
		balance, _ := e.wallet.Balance(ctx, userID)
		return &MinesRevealResult{
			HitMine:  true,
			GameOver: true,
			Revealed: st.Revealed,
			Mines:    st.Mines,
			Balance:  balance,
		}, nil
	}

	st.Revealed = append(st.Revealed, position)
	st.Multiplier = MinesMultiplier(st.MineCount, len(st.Revealed))

	if len(st.Revealed) == minesBoardSize-st.MineCount {
		// Every safe tile is open: auto-resolve as a win.
		return e.settleMines(ctx, userID, st, true)
	}

	if err := e.sessions.UpdateMinesSession(ctx, userID, st); err != nil {
		e.alertUnresolved(userID, GameMines, st.RoundID, err)
		return nil, err
	}
	return &MinesRevealResult{Revealed: st.Revealed, Multiplier: st.Multiplier}, nil
}

func (e *Engine) CashoutMines(ctx context.Context, userID string) (*MinesCashoutResult, error) {
	st, err := e.sessions.GetMinesSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(st.Revealed) == 0 {
		return nil, ErrIllegalAction
	}
	res, err := e.settleMines(ctx, userID, st, false)
	if err != nil {
		return nil, err
	}
	return &MinesCashoutResult{
		Multiplier: res.Multiplier,
		Payout:     res.Payout,
		Mines:      res.Mines,
		Balance:    res.Balance,
	}, nil
}

func (e *Engine) settleMines(ctx context.Context, userID string, st *MinesState, autoWin bool) (*MinesRevealResult, error) {
	deleted, err := e.sessions.DeleteMinesSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !deleted {
		return nil, ErrSessionNotFound
	}
	payout := int64(math.Floor(float64(st.Bet) * st.Multiplier))
	balance, err := e.wallet.Credit(ctx, userID, payout, "payout_credit", "round", st.RoundID)
	if err != nil {
		e.alertUnresolved(userID, GameMines, st.RoundID, err)
		return nil, err
	}
	e.record(ctx, HistoryEntry{
		UserID:  userID,
		Game:    GameMines,
		RoundID: st.RoundID,
		Bet:     st.Bet,
		Payout:  payout,
		Result:  "win",
		Detail: detailJSON(map[string]any{
			"mines": st.Mines, "revealed": st.Revealed, "multiplier": st.Multiplier, "auto": autoWin,
		}),
	})
	return &MinesRevealResult{
		GameOver:   true,
		Revealed:   st.Revealed,
		Mines:      st.Mines,
		Multiplier: st.Multiplier,
		Payout:     payout,
		Balance:    balance,
	}, nil
}

func (e *Engine) StartBlackjack(ctx context.Context, userID string, bet int64) (*BlackjackView, error) {
	if bet <= 0 {
		return nil, ErrInvalidRequest
	}
	roundID := e.newID()
	balance, err := e.wallet.Debit(ctx, userID, bet, "bet_debit", "round", roundID)
	if err != nil {
		return nil, err
	}
	st := newBlackjackState(e.rng, userID, roundID, bet)
	if st.Status == BlackjackFinished {
		// Natural off the deal: no session, straight to settlement.
		return e.settleBlackjack(ctx, userID, st, false)
	}
	created, err := e.sessions.CreateBlackjackSession(ctx, userID, st)
	if err != nil {
		e.alertUnresolved(userID, GameBlackjack, roundID, err)
		return nil, err
	}
	if !created {
		if _, cerr := e.wallet.Credit(ctx, userID, bet, "refund_credit", "round", roundID); cerr != nil {
			e.alertUnresolved(userID, GameBlackjack, roundID, cerr)
		}
		return nil, ErrSessionConflict
	}
	return st.view(balance), nil
}

func (e *Engine) HitBlackjack(ctx context.Context, userID string) (*BlackjackView, error) {
	return e.blackjackAction(ctx, userID, func(ctx context.Context, st *BlackjackState) error {
		return st.hit()
	})
}

func (e *Engine) StandBlackjack(ctx context.Context, userID string) (*BlackjackView, error) {
	return e.blackjackAction(ctx, userID, func(ctx context.Context, st *BlackjackState) error {
		return st.stand()
	})
}

func (e *Engine) DoubleBlackjack(ctx context.Context, userID string) (*BlackjackView, error) {
	return e.blackjackAction(ctx, userID, func(ctx context.Context, st *BlackjackState) error {
		if !st.canDouble() {
			return ErrIllegalAction
		}
		if _, err := e.wallet.Debit(ctx, userID, st.hand().Bet, "double_debit", "round", st.RoundID); err != nil {
			return err
		}
		return st.double()
	})
}

func (e *Engine) SplitBlackjack(ctx context.Context, userID string) (*BlackjackView, error) {
	return e.blackjackAction(ctx, userID, func(ctx context.Context, st *BlackjackState) error {
		if !st.canSplit() {
			return ErrIllegalAction
		}
		if _, err := e.wallet.Debit(ctx, userID, st.Hands[0].Bet, "split_debit", "round", st.RoundID); err != nil {
			return err
		}
		return st.split()
	})
}

func (e *Engine) blackjackAction(ctx context.Context, userID string, act func(context.Context, *BlackjackState) error) (*BlackjackView, error) {
	st, err := e.sessions.GetBlackjackSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := act(ctx, st); err != nil {
		return nil, err
	}
	if st.Status == BlackjackFinished {
		return e.settleBlackjack(ctx, userID, st, true)
	}
	if err := e.sessions.UpdateBlackjackSession(ctx, userID, st); err != nil {
		e.alertUnresolved(userID, GameBlackjack, st.RoundID, err)
		return nil, err
	}
	balance, _ := e.wallet.Balance(ctx, userID)
	return st.view(balance), nil
}

func (e *Engine) settleBlackjack(ctx context.Context, userID string, st *BlackjackState, hasSession bool) (*BlackjackView, error) {
	if hasSession {
		deleted, err := e.sessions.DeleteBlackjackSession(ctx, userID)
		if err != nil {
			return nil, err
		}
		if !deleted {
			return nil, ErrSessionNotFound
		}
	}
	results, totalPayout := st.settle()
	var totalBet int64
	for _, h := range st.Hands {
		totalBet += h.Bet
	}
	var balance int64
	var err error
	if totalPayout > 0 {
		balance, err = e.wallet.Credit(ctx, userID, totalPayout, "payout_credit", "round", st.RoundID)
		if err != nil {
			e.alertUnresolved(userID, GameBlackjack, st.RoundID, err)
			return nil, err
		}
	} else {
		balance, _ = e.wallet.Balance(ctx, userID)
	}
	result := "loss"
	switch {
	case totalPayout > totalBet:
		result = "win"
	case totalPayout == totalBet:
		result = "push"
	}
	e.record(ctx, HistoryEntry{
		UserID:  userID,
		Game:    GameBlackjack,
		RoundID: st.RoundID,
		Bet:     totalBet,
		Payout:  totalPayout,
		Result:  result,
		Detail:  detailJSON(map[string]any{"hands": results, "dealer": cardStrings(st.Dealer), "dealer_total": HandTotal(st.Dealer)}),
	})
	view := st.view(balance)
	view.Results = results
	view.TotalPayout = totalPayout
	return view, nil
}
