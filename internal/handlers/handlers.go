// Package handlers implements the JSON-RPC transfer API and the
// administrative card endpoints.
package handlers

import (
	"log/slog"

	"github.com/cardlink/transfer-service/internal/catalog"
	"github.com/cardlink/transfer-service/internal/service"
	"github.com/go-playground/validator/v10"
)

// Handler serves the /rpc endpoint and the admin card routes.
type Handler struct {
	creator   service.TransferCreator
	confirmer service.TransferConfirmer
	canceller service.TransferCanceller
	querier   service.TransferQuerier
	cardAdmin service.CardAdmin
	health    service.HealthChecker
	catalog   *catalog.Catalog
	validate  *validator.Validate
	logger    *slog.Logger
}

// NewHandler creates a new Handler with injected service dependencies.
func NewHandler(
	transfers *service.TransferService,
	cardAdmin service.CardAdmin,
	health service.HealthChecker,
	cat *catalog.Catalog,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		creator:   transfers,
		confirmer: transfers,
		canceller: transfers,
		querier:   transfers,
		cardAdmin: cardAdmin,
		health:    health,
		catalog:   cat,
		validate:  validator.New(),
		logger:    logger,
	}
}
