// Package mocks provides testify mocks for the repository interfaces.
package mocks

import (
	"context"
	"testing"
	"time"

	"github.com/cardlink/transfer-service/internal/models"
	"github.com/cardlink/transfer-service/internal/repository"
	"github.com/stretchr/testify/mock"
)

// MockCardRepository is a mock implementation of repository.CardRepository
type MockCardRepository struct {
	mock.Mock
}

// NewMockCardRepository creates a MockCardRepository whose expectations are
// asserted on test cleanup.
func NewMockCardRepository(t *testing.T) *MockCardRepository {
	m := &MockCardRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockCardRepository) FindByNumber(ctx context.Context, cardNumber string) (*models.Card, error) {
	args := m.Called(ctx, cardNumber)
	if card, ok := args.Get(0).(*models.Card); ok {
		return card, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCardRepository) Upsert(ctx context.Context, card *models.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockCardRepository) List(ctx context.Context, filter repository.CardFilter) ([]models.Card, error) {
	args := m.Called(ctx, filter)
	if cards, ok := args.Get(0).([]models.Card); ok {
		return cards, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockTransferRepository is a mock implementation of repository.TransferRepository
type MockTransferRepository struct {
	mock.Mock
}

// NewMockTransferRepository creates a MockTransferRepository whose
// expectations are asserted on test cleanup.
func NewMockTransferRepository(t *testing.T) *MockTransferRepository {
	m := &MockTransferRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTransferRepository) Create(ctx context.Context, transfer *models.Transfer) error {
	args := m.Called(ctx, transfer)
	return args.Error(0)
}

func (m *MockTransferRepository) FindByExtID(ctx context.Context, extID string) (*models.Transfer, error) {
	args := m.Called(ctx, extID)
	if transfer, ok := args.Get(0).(*models.Transfer); ok {
		return transfer, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTransferRepository) ConfirmIfCreated(ctx context.Context, extID string, at time.Time) (bool, error) {
	args := m.Called(ctx, extID, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockTransferRepository) CancelIfCreated(ctx context.Context, extID string, at time.Time) (bool, error) {
	args := m.Called(ctx, extID, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockTransferRepository) IncrementTryCount(ctx context.Context, extID string) (int, error) {
	args := m.Called(ctx, extID)
	return args.Int(0), args.Error(1)
}

func (m *MockTransferRepository) Search(ctx context.Context, filter repository.TransferFilter) ([]models.Transfer, error) {
	args := m.Called(ctx, filter)
	if transfers, ok := args.Get(0).([]models.Transfer); ok {
		return transfers, args.Error(1)
	}
	return nil, args.Error(1)
}

var (
	_ repository.CardRepository     = (*MockCardRepository)(nil)
	_ repository.TransferRepository = (*MockTransferRepository)(nil)
)
