package httptransport

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"stream-rewards/internal/config"
	"stream-rewards/internal/game"
	"stream-rewards/internal/ledger"
	"stream-rewards/internal/store"
	"stream-rewards/internal/ws"
)

func NewRouter(st *store.Store, led *ledger.Service, engine *game.Engine, wsSrv *ws.Server, cfg config.ServerConfig) *chi.Mux {
	gameHandlers := NewGameHandlers(engine)
	meHandlers := NewMeHandlers(st, led)
	adminHandlers := NewAdminHandlers(st, led)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(APILogMiddleware()).Get("/healthz", adminHandlers.Health())

	// Persistent transport: same engine, long-lived connection, so no
	// request logger on the upgrade.
	r.Get("/ws", wsSrv.HandleWS)

	r.Route("/api", func(r chi.Router) {
		r.Use(APILogMiddleware())

		r.Group(func(r chi.Router) {
			r.Use(UserAuthMiddleware(st))
			r.Get("/me", meHandlers.Me())
			r.Get("/me/history", meHandlers.History())

			r.Post("/games/dice", gameHandlers.Dice())
			r.Post("/games/limbo", gameHandlers.Limbo())
			r.Post("/games/keno", gameHandlers.Keno())
			r.Post("/games/mines/start", gameHandlers.MinesStart())
			r.Post("/games/mines/reveal", gameHandlers.MinesReveal())
			r.Post("/games/mines/cashout", gameHandlers.MinesCashout())
			r.Post("/games/blackjack/start", gameHandlers.BlackjackStart())
			r.Post("/games/blackjack/hit", gameHandlers.BlackjackHit())
			r.Post("/games/blackjack/stand", gameHandlers.BlackjackStand())
			r.Post("/games/blackjack/double", gameHandlers.BlackjackDouble())
			r.Post("/games/blackjack/split", gameHandlers.BlackjackSplit())
		})

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.AdminAPIKey))
			r.Post("/admin/users", adminHandlers.CreateUser())
			r.Post("/admin/topup", adminHandlers.Topup())
			r.Get("/admin/ledger", adminHandlers.Ledger())
			r.Get("/admin/reconciliation", adminHandlers.Reconciliation())
		})
	})

	return r
}

func LogRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 32)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Registered routes (%d):\n", len(routes)))
	for _, rt := range routes {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", rt.Method, rt.Path))
	}
	fmt.Print(b.String())
}
