package service

import (
	"context"
	"io"

	"github.com/cardlink/transfer-service/internal/repository"
)

// HealthChecker validates system health.
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// TransferCreator handles transfer creation
type TransferCreator interface {
	Create(ctx context.Context, params CreateParams) (*CreateResult, error)
}

// TransferConfirmer handles OTP confirmation of pending transfers
type TransferConfirmer interface {
	Confirm(ctx context.Context, extID, otp string) (*TransferStatus, error)
}

// TransferCanceller handles cancellation of pending transfers
type TransferCanceller interface {
	Cancel(ctx context.Context, extID string) (*TransferStatus, error)
}

// TransferQuerier handles transfer state lookup and history search
type TransferQuerier interface {
	State(ctx context.Context, extID string) (*TransferStatus, error)
	History(ctx context.Context, params HistoryParams) ([]TransferSummary, error)
}

// CardAdmin handles bulk card administration
type CardAdmin interface {
	ImportRows(ctx context.Context, rows [][]string) (*ImportResult, error)
	ExportCSV(ctx context.Context, filter repository.CardFilter, w io.Writer) (int, error)
	NotifyBalances(ctx context.Context, filter repository.CardFilter) (int, error)
}

// Ensure concrete types implement interfaces
var (
	_ TransferCreator   = (*TransferService)(nil)
	_ TransferConfirmer = (*TransferService)(nil)
	_ TransferCanceller = (*TransferService)(nil)
	_ TransferQuerier   = (*TransferService)(nil)
	_ CardAdmin         = (*CardAdminService)(nil)
)
