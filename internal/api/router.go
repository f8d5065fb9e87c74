package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pmehta/splitbook/internal/auth"
	"github.com/pmehta/splitbook/internal/middleware"
	"github.com/pmehta/splitbook/internal/service"
)

// Services bundles the application services the HTTP surface exposes.
type Services struct {
	Auth         *service.AuthService
	Groups       *service.GroupService
	Transactions *service.TransactionService
	Settlements  *service.SettlementService
	Balances     *service.BalanceService
}

// NewRouter builds the HTTP route tree. Everything under /api except the
// auth endpoints requires a valid Bearer token.
func NewRouter(svcs Services, jwtManager *auth.JWTManager) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestLogging)
	r.Use(middleware.Metrics(routePattern))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	authH := &authHandler{svc: svcs.Auth}
	groupH := &groupHandler{svc: svcs.Groups}
	txnH := &transactionHandler{svc: svcs.Transactions}
	settlementH := &settlementHandler{svc: svcs.Settlements}
	balanceH := &balanceHandler{svc: svcs.Balances}

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authH.register)
		r.Post("/auth/login", authH.login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(jwtManager))

			r.Route("/groups", func(r chi.Router) {
				r.Post("/", groupH.create)
				r.Get("/", groupH.list)
				r.Route("/{groupID}", func(r chi.Router) {
					r.Get("/", groupH.get)
					r.Put("/", groupH.update)
					r.Delete("/", groupH.delete)
					r.Get("/balances", balanceH.group)
					r.Get("/transactions", txnH.listByGroup)
					r.Post("/transactions", txnH.createInGroup)
					r.Get("/settlements", settlementH.listByGroup)
					r.Post("/settlements", settlementH.create)
				})
			})

			r.Route("/transactions", func(r chi.Router) {
				r.Post("/", txnH.create)
				r.Route("/{transactionID}", func(r chi.Router) {
					r.Get("/", txnH.get)
					r.Put("/", txnH.update)
					r.Delete("/", txnH.delete)
				})
			})

			r.Delete("/settlements/{settlementID}", settlementH.delete)

			r.Get("/balances", balanceH.overall)
		})
	})

	return r
}

// routePattern yields the matched chi pattern for metrics labels, keeping
// IDs out of the label set.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
