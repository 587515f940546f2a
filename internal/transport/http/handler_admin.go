package httptransport

import (
	"net/http"
	"time"

	"stream-rewards/internal/ledger"
	"stream-rewards/internal/store"
)

type AdminHandlers struct {
	store  *store.Store
	ledger *ledger.Service
}

func NewAdminHandlers(st *store.Store, led *ledger.Service) *AdminHandlers {
	return &AdminHandlers{store: st, ledger: led}
}

func (h *AdminHandlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.store.Ping(r.Context()); err != nil {
			WriteHTTPError(w, http.StatusServiceUnavailable, "db_unreachable")
			return
		}
		writeJSON(w, map[string]any{"ok": true})
	}
}

func (h *AdminHandlers) CreateUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name       string `json:"name"`
			APIKey     string `json:"api_key"`
			ExternalID string `json:"external_id"`
			Balance    int64  `json:"balance"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		if body.Name == "" || body.APIKey == "" || body.Balance < 0 {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		id, err := h.store.CreateUser(r.Context(), body.Name, body.APIKey, body.ExternalID)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		if err := h.store.EnsureAccount(r.Context(), id, body.Balance); err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		writeJSON(w, map[string]any{"user_id": id})
	}
}

func (h *AdminHandlers) Topup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			UserID  string `json:"user_id"`
			Balance int64  `json:"balance"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		if body.UserID == "" {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		balance, err := h.ledger.SetBalance(r.Context(), body.UserID, body.Balance, "admin_topup", "admin", "")
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		writeJSON(w, map[string]any{"user_id": body.UserID, "balance": balance})
	}
}

func (h *AdminHandlers) Ledger() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := ParsePagination(r)
		f := store.LedgerFilter{
			UserID:  r.URL.Query().Get("user_id"),
			RoundID: r.URL.Query().Get("round_id"),
		}
		items, err := h.store.ListLedgerEntries(r.Context(), f, limit, offset)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		writeJSON(w, map[string]any{"items": items, "limit": limit, "offset": offset})
	}
}

// Reconciliation lists wagers that were debited but never settled, the one
// failure mode the engine cannot recover on its own.
func (h *AdminHandlers) Reconciliation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := ParsePagination(r)
		minAge := 5 * time.Minute
		if v := r.URL.Query().Get("min_age"); v != "" {
			if d, err := time.ParseDuration(v); err == nil && d > 0 {
				minAge = d
			}
		}
		items, err := h.store.ListUnresolvedWagers(r.Context(), minAge, limit)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		writeJSON(w, map[string]any{"items": items})
	}
}
