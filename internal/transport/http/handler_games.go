package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"stream-rewards/internal/game"
)

type GameHandlers struct {
	engine *game.Engine
}

func NewGameHandlers(engine *game.Engine) *GameHandlers {
	return &GameHandlers{engine: engine}
}

func writeGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrInvalidRequest):
		WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
	case errors.Is(err, game.ErrInsufficientBalance):
		WriteHTTPError(w, http.StatusBadRequest, "insufficient_balance")
	case errors.Is(err, game.ErrIllegalAction):
		WriteHTTPError(w, http.StatusBadRequest, "illegal_action")
	case errors.Is(err, game.ErrSessionConflict):
		WriteHTTPError(w, http.StatusConflict, "session_conflict")
	case errors.Is(err, game.ErrCorruptedState):
		WriteHTTPError(w, http.StatusConflict, "corrupted_state")
	case errors.Is(err, game.ErrSessionNotFound):
		WriteHTTPError(w, http.StatusNotFound, "session_not_found")
	default:
		WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (h *GameHandlers) Dice() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := UserFromContext(r.Context())
		var p game.DiceParams
		if !decodeBody(w, r, &p) {
			return
		}
		resp, err := h.engine.PlayDice(r.Context(), user.ID, p)
		if err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func (h *GameHandlers) Limbo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := UserFromContext(r.Context())
		var p game.LimboParams
		if !decodeBody(w, r, &p) {
			return
		}
		resp, err := h.engine.PlayLimbo(r.Context(), user.ID, p)
		if err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func (h *GameHandlers) Keno() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := UserFromContext(r.Context())
		var p game.KenoParams
		if !decodeBody(w, r, &p) {
			return
		}
		resp, err := h.engine.PlayKeno(r.Context(), user.ID, p)
		if err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func (h *GameHandlers) MinesStart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := UserFromContext(r.Context())
		var p game.MinesStartParams
		if !decodeBody(w, r, &p) {
			return
		}
		resp, err := h.engine.StartMines(r.Context(), user.ID, p)
		if err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func (h *GameHandlers) MinesReveal() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := UserFromContext(r.Context())
		var body struct {
			Position int `json:"position"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		resp, err := h.engine.RevealMines(r.Context(), user.ID, body.Position)
		if err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func (h *GameHandlers) MinesCashout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := UserFromContext(r.Context())
		resp, err := h.engine.CashoutMines(r.Context(), user.ID)
		if err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func (h *GameHandlers) BlackjackStart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := UserFromContext(r.Context())
		var body struct {
			Bet int64 `json:"bet"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		resp, err := h.engine.StartBlackjack(r.Context(), user.ID, body.Bet)
		if err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func (h *GameHandlers) BlackjackHit() http.HandlerFunc {
	return h.blackjackAction(h.engine.HitBlackjack)
}

func (h *GameHandlers) BlackjackStand() http.HandlerFunc {
	return h.blackjackAction(h.engine.StandBlackjack)
}

func (h *GameHandlers) BlackjackDouble() http.HandlerFunc {
	return h.blackjackAction(h.engine.DoubleBlackjack)
}

func (h *GameHandlers) BlackjackSplit() http.HandlerFunc {
	return h.blackjackAction(h.engine.SplitBlackjack)
}

func (h *GameHandlers) blackjackAction(act func(ctx context.Context, userID string) (*game.BlackjackView, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := UserFromContext(r.Context())
		resp, err := act(r.Context(), user.ID)
		if err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}
