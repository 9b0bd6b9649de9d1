package service

import (
	"context"
	"errors"

	"github.com/cardlink/transfer-service/internal/models"
)

// Cancel voids a transfer still awaiting confirmation. Terminal transfers
// are left untouched; the answer always reflects the final state.
func (s *TransferService) Cancel(ctx context.Context, extID string) (*TransferStatus, error) {
	transfer, err := s.transfers.FindByExtID(ctx, extID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, newServiceError(ErrCodeInvalidCard, "transfer not found")
		}
		return nil, s.internalError("cancel", err)
	}

	if transfer.State != models.TransferStateCreated {
		return statusOf(transfer), nil
	}

	ok, err := s.transfers.CancelIfCreated(ctx, extID, s.now())
	if err != nil {
		return nil, s.internalError("cancel", err)
	}
	if !ok {
		// Finalized concurrently; report whatever state won.
		transfer, err := s.transfers.FindByExtID(ctx, extID)
		if err != nil {
			return nil, s.internalError("cancel", err)
		}
		return statusOf(transfer), nil
	}

	s.logger.Info("transfer cancelled", "ext_id", extID)

	return &TransferStatus{ExtID: extID, State: models.TransferStateCancelled}, nil
}
