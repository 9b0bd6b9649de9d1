package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cardlink/transfer-service/internal/db"
	"github.com/cardlink/transfer-service/internal/models"
	"github.com/lib/pq"
)

// uniqueViolation is the Postgres error code for unique-constraint breaches.
const uniqueViolation = "23505"

// TransferFilter narrows history searches. CardNumber matches sender OR
// receiver; the date bounds are inclusive and compare on the calendar day
// of creation.
type TransferFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	CardNumber string
	State      models.TransferState
}

// TransferRepository defines the interface for transfer data access.
// The mutating methods carry the concurrency contract: Create relies on
// the ext_id unique constraint rather than a prior existence check, and
// the state transitions are conditional updates that only touch rows
// still in the created state.
type TransferRepository interface {
	Create(ctx context.Context, transfer *models.Transfer) error
	FindByExtID(ctx context.Context, extID string) (*models.Transfer, error)
	ConfirmIfCreated(ctx context.Context, extID string, at time.Time) (bool, error)
	CancelIfCreated(ctx context.Context, extID string, at time.Time) (bool, error)
	IncrementTryCount(ctx context.Context, extID string) (int, error)
	Search(ctx context.Context, filter TransferFilter) ([]models.Transfer, error)
}

// transferRepository implements TransferRepository over Postgres
type transferRepository struct {
	q db.Querier
}

// NewTransferRepository creates a new TransferRepository
func NewTransferRepository(q db.Querier) TransferRepository {
	return &transferRepository{q: q}
}

const transferColumns = `id, ext_id, sender_card_number, receiver_card_number,
	sender_card_expiry, sender_phone, receiver_phone, sending_amount, currency,
	receiving_amount, state, try_count, otp, created_at, confirmed_at,
	cancelled_at, updated_at`

// Create persists a new transfer in the created state. The ext_id unique
// constraint closes the create/create race: a concurrent duplicate
// surfaces as models.ErrDuplicateTransfer.
func (r *transferRepository) Create(ctx context.Context, transfer *models.Transfer) error {
	query := `
		INSERT INTO transfers (ext_id, sender_card_number, receiver_card_number,
			sender_card_expiry, sender_phone, receiver_phone, sending_amount,
			currency, receiving_amount, state, otp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRowContext(ctx, query,
		transfer.ExtID,
		transfer.SenderCardNumber,
		transfer.ReceiverCardNumber,
		transfer.SenderCardExpiry,
		transfer.SenderPhone,
		transfer.ReceiverPhone,
		transfer.SendingAmount,
		transfer.Currency,
		transfer.ReceivingAmount,
		transfer.State,
		transfer.OTP,
	).Scan(&transfer.ID, &transfer.CreatedAt, &transfer.UpdatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return models.ErrDuplicateTransfer
	}
	if err != nil {
		return fmt.Errorf("failed to create transfer: %w", err)
	}

	return nil
}

// FindByExtID retrieves a transfer by its external idempotency key.
func (r *transferRepository) FindByExtID(ctx context.Context, extID string) (*models.Transfer, error) {
	query := `
		SELECT ` + transferColumns + `
		FROM transfers
		WHERE ext_id = $1
	`

	transfer, err := scanTransfer(r.q.QueryRowContext(ctx, query, extID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find transfer by ext_id: %w", err)
	}

	return transfer, nil
}

// ConfirmIfCreated moves a transfer to confirmed if and only if it is
// still in the created state. The returned bool reports whether the
// transition happened; false means the row was already terminal (or
// missing), which callers treat as a no-op.
func (r *transferRepository) ConfirmIfCreated(ctx context.Context, extID string, at time.Time) (bool, error) {
	query := `
		UPDATE transfers
		SET state = $2, confirmed_at = $3, updated_at = NOW()
		WHERE ext_id = $1 AND state = $4
	`

	result, err := r.q.ExecContext(ctx, query,
		extID, models.TransferStateConfirmed, at, models.TransferStateCreated,
	)
	if err != nil {
		return false, fmt.Errorf("failed to confirm transfer: %w", err)
	}

	return oneRowAffected(result)
}

// CancelIfCreated moves a transfer to cancelled if and only if it is
// still in the created state.
func (r *transferRepository) CancelIfCreated(ctx context.Context, extID string, at time.Time) (bool, error) {
	query := `
		UPDATE transfers
		SET state = $2, cancelled_at = $3, updated_at = NOW()
		WHERE ext_id = $1 AND state = $4
	`

	result, err := r.q.ExecContext(ctx, query,
		extID, models.TransferStateCancelled, at, models.TransferStateCreated,
	)
	if err != nil {
		return false, fmt.Errorf("failed to cancel transfer: %w", err)
	}

	return oneRowAffected(result)
}

// IncrementTryCount atomically bumps the wrong-OTP counter of a transfer
// still in the created state and returns the new count. Two concurrent
// wrong attempts each get their own increment; neither can be lost.
func (r *transferRepository) IncrementTryCount(ctx context.Context, extID string) (int, error) {
	query := `
		UPDATE transfers
		SET try_count = try_count + 1, updated_at = NOW()
		WHERE ext_id = $1 AND state = $2
		RETURNING try_count
	`

	var tryCount int
	err := r.q.QueryRowContext(ctx, query, extID, models.TransferStateCreated).Scan(&tryCount)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, models.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to increment try count: %w", err)
	}

	return tryCount, nil
}

// Search retrieves transfers matching the filter, newest first.
func (r *transferRepository) Search(ctx context.Context, filter TransferFilter) ([]models.Transfer, error) {
	query := `
		SELECT ` + transferColumns + `
		FROM transfers
		WHERE ($1 = '' OR sender_card_number = $1 OR receiver_card_number = $1)
		  AND ($2 = '' OR state = $2)
		  AND ($3::date IS NULL OR created_at::date >= $3::date)
		  AND ($4::date IS NULL OR created_at::date <= $4::date)
		ORDER BY created_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query,
		filter.CardNumber, string(filter.State),
		nullableTime(filter.StartDate), nullableTime(filter.EndDate),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search transfers: %w", err)
	}
	defer rows.Close()

	var transfers []models.Transfer
	for rows.Next() {
		transfer, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transfer row: %w", err)
		}
		transfers = append(transfers, *transfer)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transfer rows: %w", err)
	}

	return transfers, nil
}

func scanTransfer(row rowScanner) (*models.Transfer, error) {
	var transfer models.Transfer
	err := row.Scan(
		&transfer.ID,
		&transfer.ExtID,
		&transfer.SenderCardNumber,
		&transfer.ReceiverCardNumber,
		&transfer.SenderCardExpiry,
		&transfer.SenderPhone,
		&transfer.ReceiverPhone,
		&transfer.SendingAmount,
		&transfer.Currency,
		&transfer.ReceivingAmount,
		&transfer.State,
		&transfer.TryCount,
		&transfer.OTP,
		&transfer.CreatedAt,
		&transfer.ConfirmedAt,
		&transfer.CancelledAt,
		&transfer.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &transfer, nil
}

func oneRowAffected(result sql.Result) (bool, error) {
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows == 1, nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
