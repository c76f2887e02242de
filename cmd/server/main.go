package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/paisatrack/paisatrack/internal/api"
	"github.com/paisatrack/paisatrack/internal/auth"
	"github.com/paisatrack/paisatrack/internal/config"
	"github.com/paisatrack/paisatrack/internal/middleware"
	"github.com/paisatrack/paisatrack/internal/service"
	"github.com/paisatrack/paisatrack/internal/storage/sqlite"
	"github.com/paisatrack/paisatrack/pkg/logging"
)

func main() {
	logging.Setup()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	authSvc := service.NewAuthService(store, authenticator, jwtManager, slog.Default())
	txSvc := service.NewTransactionService(store)
	billSvc := service.NewBillService(store)

	server := api.NewServer(authSvc, txSvc, billSvc, jwtManager)

	// Add logging and CORS middleware
	handler := middleware.Logging(middleware.CORS(server.Handler()))

	// Wrap with h2c for HTTP/2 without TLS
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	addr := fmt.Sprintf(":%s", cfg.Port)
	slog.Info("Server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
