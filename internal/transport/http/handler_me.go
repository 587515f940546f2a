package httptransport

import (
	"net/http"

	"stream-rewards/internal/ledger"
	"stream-rewards/internal/store"
)

type MeHandlers struct {
	store  *store.Store
	ledger *ledger.Service
}

func NewMeHandlers(st *store.Store, led *ledger.Service) *MeHandlers {
	return &MeHandlers{store: st, ledger: led}
}

func (h *MeHandlers) Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := UserFromContext(r.Context())
		balance, err := h.ledger.Balance(r.Context(), user.ID)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		writeJSON(w, map[string]any{
			"user_id": user.ID,
			"name":    user.Name,
			"linked":  user.ExternalID != "",
			"balance": balance,
		})
	}
}

func (h *MeHandlers) History() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := UserFromContext(r.Context())
		limit, offset := ParsePagination(r)
		items, err := h.store.ListGameHistory(r.Context(), user.ID, limit, offset)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		writeJSON(w, map[string]any{"items": items, "limit": limit, "offset": offset})
	}
}
