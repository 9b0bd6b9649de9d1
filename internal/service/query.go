package service

import (
	"context"
	"errors"
	"time"

	"github.com/cardlink/transfer-service/internal/cardutil"
	"github.com/cardlink/transfer-service/internal/models"
	"github.com/cardlink/transfer-service/internal/repository"
)

// HistoryParams carries the optional filters of a history request. Dates
// are "YYYY-MM-DD" and bound the creation day inclusively on both ends.
type HistoryParams struct {
	CardNumber string
	State      string
	StartDate  string
	EndDate    string
}

// State reports the current state of a transfer.
func (s *TransferService) State(ctx context.Context, extID string) (*TransferStatus, error) {
	transfer, err := s.transfers.FindByExtID(ctx, extID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, newServiceError(ErrCodeInvalidCard, "transfer not found")
		}
		return nil, s.internalError("state", err)
	}

	return statusOf(transfer), nil
}

// History searches transfers by card number (sender or receiver), state,
// and creation-date range, newest first. The caller owns result-set size;
// there is no pagination.
func (s *TransferService) History(ctx context.Context, params HistoryParams) ([]TransferSummary, error) {
	filter := repository.TransferFilter{
		CardNumber: cardutil.CardDigits(params.CardNumber),
		State:      models.TransferState(params.State),
	}

	if params.StartDate != "" {
		start, err := time.Parse("2006-01-02", params.StartDate)
		if err != nil {
			return nil, newServiceError(ErrCodeInvalidCard, "invalid start_date")
		}
		filter.StartDate = &start
	}
	if params.EndDate != "" {
		end, err := time.Parse("2006-01-02", params.EndDate)
		if err != nil {
			return nil, newServiceError(ErrCodeInvalidCard, "invalid end_date")
		}
		filter.EndDate = &end
	}

	transfers, err := s.transfers.Search(ctx, filter)
	if err != nil {
		return nil, s.internalError("history", err)
	}

	summaries := make([]TransferSummary, 0, len(transfers))
	for _, t := range transfers {
		summaries = append(summaries, TransferSummary{
			ExtID:         t.ExtID,
			SendingAmount: t.SendingAmount,
			State:         t.State,
			CreatedAt:     t.CreatedAt,
		})
	}

	return summaries, nil
}
