package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/settleup-dev/settleup/internal/config"
	"github.com/settleup-dev/settleup/internal/fx"
	"github.com/settleup-dev/settleup/internal/server"
	"github.com/settleup-dev/settleup/internal/service"
	"github.com/settleup-dev/settleup/internal/storage/sqlite"
	"github.com/settleup-dev/settleup/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	logging.Setup()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	rates := fx.New(
		fx.NewHTTPFetcher(cfg.FXBaseURL, cfg.FXFetchTimeout),
		fx.WithTTL(cfg.FXTTL),
	)

	balances := service.NewBalanceService(store, rates, cfg.DefaultCurrency)
	ledger := service.NewLedgerService(store)
	srv := server.New(balances, ledger)

	addr := ":" + cfg.Port
	slog.Info("Server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
