package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/cardlink/transfer-service/internal/models"
	"github.com/cardlink/transfer-service/internal/repository"
	"github.com/cardlink/transfer-service/internal/repository/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestTransferService_State(t *testing.T) {
	ctx := context.Background()

	t.Run("reports current state", func(t *testing.T) {
		transfers := mocks.NewMockTransferRepository(t)
		cards := mocks.NewMockCardRepository(t)
		svc := newTestTransferService(transfers, cards, newCaptureNotifier())

		done := pendingTransfer()
		done.State = models.TransferStateConfirmed

		transfers.On("FindByExtID", ctx, "ord-1").Return(done, nil)

		status, err := svc.State(ctx, "ord-1")

		assert.NoError(t, err)
		assert.Equal(t, "ord-1", status.ExtID)
		assert.Equal(t, models.TransferStateConfirmed, status.State)
	})

	t.Run("unknown transfer", func(t *testing.T) {
		transfers := mocks.NewMockTransferRepository(t)
		cards := mocks.NewMockCardRepository(t)
		svc := newTestTransferService(transfers, cards, newCaptureNotifier())

		transfers.On("FindByExtID", ctx, "missing").Return(nil, models.ErrNotFound)

		status, err := svc.State(ctx, "missing")

		assert.Nil(t, status)
		assertServiceCode(t, err, ErrCodeInvalidCard)
	})
}

func TestTransferService_History(t *testing.T) {
	ctx := context.Background()

	t.Run("maps filters and results", func(t *testing.T) {
		transfers := mocks.NewMockTransferRepository(t)
		cards := mocks.NewMockCardRepository(t)
		svc := newTestTransferService(transfers, cards, newCaptureNotifier())

		created := testNow.Add(-time.Hour)
		found := []models.Transfer{
			{
				ExtID:         "ord-2",
				State:         models.TransferStateConfirmed,
				SendingAmount: decimal.NewFromInt(500),
				CreatedAt:     testNow,
			},
			{
				ExtID:         "ord-1",
				State:         models.TransferStateCancelled,
				SendingAmount: decimal.NewFromInt(150),
				CreatedAt:     created,
			},
		}

		transfers.On("Search", ctx, mock.MatchedBy(func(f repository.TransferFilter) bool {
			return f.CardNumber == testSenderCard &&
				f.State == models.TransferStateConfirmed &&
				f.StartDate != nil && f.StartDate.Format("2006-01-02") == "2025-03-01" &&
				f.EndDate != nil && f.EndDate.Format("2006-01-02") == "2025-03-02"
		})).Return(found, nil)

		summaries, err := svc.History(ctx, HistoryParams{
			CardNumber: "4532 0151 1283 0366",
			State:      "confirmed",
			StartDate:  "2025-03-01",
			EndDate:    "2025-03-02",
		})

		assert.NoError(t, err)
		assert.Len(t, summaries, 2)
		assert.Equal(t, "ord-2", summaries[0].ExtID)
		assert.Equal(t, models.TransferStateConfirmed, summaries[0].State)
		assert.True(t, summaries[0].SendingAmount.Equal(decimal.NewFromInt(500)))
		assert.Equal(t, created, summaries[1].CreatedAt)
	})

	t.Run("no filters", func(t *testing.T) {
		transfers := mocks.NewMockTransferRepository(t)
		cards := mocks.NewMockCardRepository(t)
		svc := newTestTransferService(transfers, cards, newCaptureNotifier())

		transfers.On("Search", ctx, repository.TransferFilter{}).
			Return([]models.Transfer{}, nil)

		summaries, err := svc.History(ctx, HistoryParams{})

		assert.NoError(t, err)
		assert.Empty(t, summaries)
	})

	t.Run("invalid start date", func(t *testing.T) {
		transfers := mocks.NewMockTransferRepository(t)
		cards := mocks.NewMockCardRepository(t)
		svc := newTestTransferService(transfers, cards, newCaptureNotifier())

		summaries, err := svc.History(ctx, HistoryParams{StartDate: "01.03.2025"})

		assert.Nil(t, summaries)
		assertServiceCode(t, err, ErrCodeInvalidCard)
	})

	t.Run("invalid end date", func(t *testing.T) {
		transfers := mocks.NewMockTransferRepository(t)
		cards := mocks.NewMockCardRepository(t)
		svc := newTestTransferService(transfers, cards, newCaptureNotifier())

		summaries, err := svc.History(ctx, HistoryParams{EndDate: "yesterday"})

		assert.Nil(t, summaries)
		assertServiceCode(t, err, ErrCodeInvalidCard)
	})
}

func TestTransferSummary_MarshalJSON(t *testing.T) {
	summary := TransferSummary{
		CreatedAt:     time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		ExtID:         "ord-1",
		State:         models.TransferStateConfirmed,
		SendingAmount: decimal.RequireFromString("150.5"),
	}

	data, err := json.Marshal(summary)

	assert.NoError(t, err)
	assert.JSONEq(t, `{
		"createdAt": "2025-03-01T12:00:00Z",
		"extId": "ord-1",
		"state": "confirmed",
		"sendingAmount": 150.5
	}`, string(data))
	assert.Contains(t, string(data), `"sendingAmount":150.5`)
}
