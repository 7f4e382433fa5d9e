package httptransport

import (
	"expvar"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"rps-arena/internal/bank"
	"rps-arena/internal/config"
	"rps-arena/internal/feed"
	"rps-arena/internal/game"
	"rps-arena/internal/store"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// Deps collects everything the router serves. Archive may be nil.
type Deps struct {
	Contract *game.Contract
	Bank     *bank.Bank
	Events   *feed.Buffer
	Players  *PlayerRegistry
	Archive  *store.Store
}

func NewRouter(d Deps, cfg config.AppConfig) *chi.Mux {
	playHandlers := NewPlayHandlers(d.Contract)
	publicHandlers := NewPublicHandlers(d.Contract, d.Events, d.Archive)
	playerHandlers := NewPlayerHandlers(d.Players, d.Bank, cfg.Server.FaucetAmount)
	adminHandlers := NewAdminHandlers(d.Contract, d.Bank, cfg.Game.OwnerAddress, d.Archive)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(APILogMiddleware()).Get("/healthz", adminHandlers.Health())

	r.Route("/api", func(r chi.Router) {
		r.Use(APILogMiddleware())

		r.Get("/public/matches", publicHandlers.OpenMatches())
		r.Get("/public/matches/count", publicHandlers.OpenMatchCount())
		r.Get("/public/matches/{match_id}", publicHandlers.Match())
		r.Get("/public/matches/{match_id}/rounds/{round}", publicHandlers.Round())
		r.Get("/public/players/{address}/stats", publicHandlers.PlayerStats())
		r.Get("/public/players/{address}/matches", publicHandlers.PlayerMatches())
		r.Get("/public/history", publicHandlers.History())
		r.Get("/public/history/{match_id}", publicHandlers.HistoryMatch())
		r.Get("/public/history/{match_id}/rounds", publicHandlers.HistoryRounds())
		r.Get("/public/events", publicHandlers.Events())

		r.Post("/players/register", playerHandlers.Register())

		r.Group(func(r chi.Router) {
			r.Use(PlayerAuthMiddleware(d.Players))
			r.Get("/players/me", playerHandlers.Me())
			r.Post("/matches", playHandlers.Create())
			r.Post("/matches/{match_id}/join", playHandlers.Join())
			r.Post("/matches/{match_id}/join-private", playHandlers.JoinPrivate())
			r.Post("/matches/{match_id}/cancel", playHandlers.Cancel())
			r.Post("/matches/{match_id}/commit", playHandlers.Commit())
			r.Post("/matches/{match_id}/reveal", playHandlers.Reveal())
			r.Post("/matches/{match_id}/claim-timeout", playHandlers.ClaimTimeout())
		})

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.Server.AdminAPIKey))
			r.Post("/admin/bet-limits", adminHandlers.BetLimits())
			r.Post("/admin/commission-rate", adminHandlers.CommissionRate())
			r.MethodFunc(http.MethodGet, "/admin/commission-wallets", adminHandlers.CommissionWallets())
			r.MethodFunc(http.MethodPost, "/admin/commission-wallets", adminHandlers.CommissionWallets())
			r.Post("/admin/timeouts", adminHandlers.Timeouts())
			r.Post("/admin/pause", adminHandlers.Pause())
			r.Post("/admin/unpause", adminHandlers.Unpause())
			r.Post("/admin/topup", adminHandlers.Topup())
			r.Get("/admin/bank", adminHandlers.Bank())
			r.Get("/admin/debug/vars", expvar.Handler().ServeHTTP)
		})
	})

	return r
}

func LogRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 64)
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
