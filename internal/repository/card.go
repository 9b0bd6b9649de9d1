// Package repository provides data access layer implementations for the
// transfer service.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cardlink/transfer-service/internal/db"
	"github.com/cardlink/transfer-service/internal/models"
)

// CardFilter narrows card listings for export and notification runs.
// Zero values mean "no constraint".
type CardFilter struct {
	Status         models.CardStatus
	CardNumberLike string
	PhoneLike      string
}

// CardRepository defines the interface for card data access
type CardRepository interface {
	FindByNumber(ctx context.Context, cardNumber string) (*models.Card, error)
	Upsert(ctx context.Context, card *models.Card) error
	List(ctx context.Context, filter CardFilter) ([]models.Card, error)
}

// cardRepository implements CardRepository over Postgres
type cardRepository struct {
	q db.Querier
}

// NewCardRepository creates a new CardRepository
func NewCardRepository(q db.Querier) CardRepository {
	return &cardRepository{q: q}
}

const cardColumns = `id, card_number, expire, phone, status, balance, created_at, updated_at`

// FindByNumber retrieves a card by its normalized 16-digit number.
func (r *cardRepository) FindByNumber(ctx context.Context, cardNumber string) (*models.Card, error) {
	query := `
		SELECT ` + cardColumns + `
		FROM cards
		WHERE card_number = $1
	`

	card, err := scanCard(r.q.QueryRowContext(ctx, query, cardNumber))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find card by number: %w", err)
	}

	return card, nil
}

// Upsert inserts a card or, when the card number already exists, replaces
// its expiry, phone, status, and balance. The card is normalized before
// writing.
func (r *cardRepository) Upsert(ctx context.Context, card *models.Card) error {
	card.Normalize()

	query := `
		INSERT INTO cards (card_number, expire, phone, status, balance)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (card_number) DO UPDATE
		SET expire = EXCLUDED.expire,
		    phone = EXCLUDED.phone,
		    status = EXCLUDED.status,
		    balance = EXCLUDED.balance,
		    updated_at = NOW()
	`

	if _, err := r.q.ExecContext(ctx, query,
		card.CardNumber, card.Expire, card.Phone, card.Status, card.Balance,
	); err != nil {
		return fmt.Errorf("failed to upsert card: %w", err)
	}

	return nil
}

// List retrieves cards matching the filter, ordered by card number.
func (r *cardRepository) List(ctx context.Context, filter CardFilter) ([]models.Card, error) {
	query := `
		SELECT ` + cardColumns + `
		FROM cards
		WHERE ($1 = '' OR status = $1)
		  AND ($2 = '' OR card_number LIKE '%' || $2 || '%')
		  AND ($3 = '' OR phone LIKE '%' || $3 || '%')
		ORDER BY card_number
	`

	rows, err := r.q.QueryContext(ctx, query,
		string(filter.Status), filter.CardNumberLike, filter.PhoneLike,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card row: %w", err)
		}
		cards = append(cards, *card)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate card rows: %w", err)
	}

	return cards, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*models.Card, error) {
	var card models.Card
	err := row.Scan(
		&card.ID,
		&card.CardNumber,
		&card.Expire,
		&card.Phone,
		&card.Status,
		&card.Balance,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &card, nil
}
