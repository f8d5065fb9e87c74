package main

import (
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/pmehta/splitbook/internal/api"
	"github.com/pmehta/splitbook/internal/auth"
	"github.com/pmehta/splitbook/internal/config"
	"github.com/pmehta/splitbook/internal/service"
	"github.com/pmehta/splitbook/internal/storage/sqlite"
	"github.com/pmehta/splitbook/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	router := api.NewRouter(api.Services{
		Auth:         service.NewAuthService(authenticator, jwtManager),
		Groups:       service.NewGroupService(store),
		Transactions: service.NewTransactionService(store),
		Settlements:  service.NewSettlementService(store),
		Balances:     service.NewBalanceService(store),
	}, jwtManager)

	// h2c allows HTTP/2 without TLS; a reverse proxy terminates TLS in front.
	handler := h2c.NewHandler(router, &http2.Server{})

	slog.Info("Server starting", "address", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, handler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
