package service

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/cardlink/transfer-service/internal/config"
	"github.com/cardlink/transfer-service/internal/models"
	"github.com/cardlink/transfer-service/internal/notify"
	"github.com/cardlink/transfer-service/internal/repository"
	"github.com/shopspring/decimal"
)

// TransferService orchestrates the transfer lifecycle: validation, OTP
// issuing, state transitions, and history queries. Each call is a single
// request-scoped unit of work; concurrency safety comes from the
// repository's atomic create and conditional updates.
type TransferService struct {
	transfers repository.TransferRepository
	cards     repository.CardRepository
	notifier  notify.Notifier
	otp       OTPSource
	logger    *slog.Logger
	now       func() time.Time
	cfg       config.TransferConfig
}

// NewTransferService creates a new TransferService.
func NewTransferService(
	transfers repository.TransferRepository,
	cards repository.CardRepository,
	notifier notify.Notifier,
	otp OTPSource,
	cfg config.TransferConfig,
	logger *slog.Logger,
) *TransferService {
	return &TransferService{
		transfers: transfers,
		cards:     cards,
		notifier:  notifier,
		otp:       otp,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// TransferStatus is the answer to confirm, cancel, and state calls.
type TransferStatus struct {
	ExtID string               `json:"extId"`
	State models.TransferState `json:"state"`
}

// CreateResult is the answer to a successful create call.
type CreateResult struct {
	ExtID   string               `json:"extId"`
	State   models.TransferState `json:"state"`
	OTPSent bool                 `json:"otpSent"`
}

// TransferSummary is one row of a history result.
type TransferSummary struct {
	CreatedAt     time.Time            `json:"createdAt"`
	ExtID         string               `json:"extId"`
	State         models.TransferState `json:"state"`
	SendingAmount decimal.Decimal      `json:"sendingAmount"`
}

// MarshalJSON writes sendingAmount as a bare JSON number. decimal.Decimal
// quotes itself by default, which history clients do not expect.
func (s TransferSummary) MarshalJSON() ([]byte, error) {
	type summary TransferSummary
	return json.Marshal(struct {
		summary
		SendingAmount json.RawMessage `json:"sendingAmount"`
	}{
		summary:       summary(s),
		SendingAmount: json.RawMessage(s.SendingAmount.String()),
	})
}

func statusOf(t *models.Transfer) *TransferStatus {
	return &TransferStatus{ExtID: t.ExtID, State: t.State}
}

// internalError logs an unexpected failure with full context and returns
// the opaque generic code; internals never reach the caller.
func (s *TransferService) internalError(op string, err error) *ServiceError {
	s.logger.Error("transfer operation failed", "op", op, "error", err)
	return &ServiceError{Code: ErrCodeInvalidCard, Message: "operation failed", Err: err}
}
