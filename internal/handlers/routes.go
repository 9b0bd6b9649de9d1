package handlers

import (
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/cardlink/transfer-service/internal/catalog"
	"github.com/cardlink/transfer-service/internal/config"
	"github.com/cardlink/transfer-service/internal/db"
	"github.com/cardlink/transfer-service/internal/notify"
	"github.com/cardlink/transfer-service/internal/repository"
	"github.com/cardlink/transfer-service/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates and configures the HTTP router with all routes and middleware.
func NewRouter(
	database *db.DB,
	cfg *config.Config,
	notifier notify.Notifier,
	logger *slog.Logger,
) http.Handler {
	transferRepo := repository.NewTransferRepository(database)
	cardRepo := repository.NewCardRepository(database)
	messageStore := repository.NewErrorMessageRepository(database)

	cat := catalog.New(messageStore, logger)
	otp := service.NewRandOTPSource(rand.New(rand.NewSource(time.Now().UnixNano())))

	transferService := service.NewTransferService(
		transferRepo, cardRepo, notifier, otp, cfg.Transfer, logger)
	cardAdminService := service.NewCardAdminService(cardRepo, notifier, logger)

	handler := NewHandler(transferService, cardAdminService, database, cat, logger)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", handler.GetHealth)
	r.HandleFunc("/rpc", handler.ServeRPC)

	r.Route("/admin/cards", func(r chi.Router) {
		r.Post("/import", handler.ImportCards)
		r.Get("/export", handler.ExportCards)
		r.Post("/notify", handler.NotifyCards)
	})

	return r
}
