package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/cardlink/transfer-service/internal/models"
)

// Confirm finalizes a transfer when the supplied OTP matches. Transfers
// already in a terminal state are a no-op: the current state is reported
// back so caller retries of finalized transfers stay safe. The try-count
// increment and the confirm transition are conditional updates, so two
// concurrent attempts cannot both get past the cap or both confirm.
func (s *TransferService) Confirm(ctx context.Context, extID, otp string) (*TransferStatus, error) {
	transfer, err := s.transfers.FindByExtID(ctx, extID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, newServiceError(ErrCodeInvalidCard, "transfer not found")
		}
		return nil, s.internalError("confirm", err)
	}

	if transfer.State != models.TransferStateCreated {
		return statusOf(transfer), nil
	}

	if transfer.AttemptsExhausted(s.cfg.MaxAttempts) {
		return nil, newServiceError(ErrCodeTooManyAttempts, "too many OTP attempts")
	}

	if transfer.OTPExpired(s.now(), s.cfg.OTPTTL) {
		return nil, newServiceError(ErrCodeOTPExpired, "OTP has expired")
	}

	if transfer.OTP != otp {
		tryCount, err := s.transfers.IncrementTryCount(ctx, extID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				// Finalized by a concurrent call between our read and the
				// update; report the current state as a no-op.
				return s.currentStatus(ctx, extID)
			}
			return nil, s.internalError("confirm", err)
		}

		left := s.cfg.MaxAttempts - tryCount
		if left < 0 {
			left = 0
		}
		return nil, newServiceError(ErrCodeWrongOTP,
			fmt.Sprintf("OTP is wrong, left try count is %d", left))
	}

	confirmedAt := s.now()
	ok, err := s.transfers.ConfirmIfCreated(ctx, extID, confirmedAt)
	if err != nil {
		return nil, s.internalError("confirm", err)
	}
	if !ok {
		return s.currentStatus(ctx, extID)
	}

	s.logger.Info("transfer confirmed", "ext_id", extID)

	return &TransferStatus{ExtID: extID, State: models.TransferStateConfirmed}, nil
}

func (s *TransferService) currentStatus(ctx context.Context, extID string) (*TransferStatus, error) {
	transfer, err := s.transfers.FindByExtID(ctx, extID)
	if err != nil {
		return nil, s.internalError("confirm", err)
	}
	return statusOf(transfer), nil
}
