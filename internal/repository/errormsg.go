package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cardlink/transfer-service/internal/catalog"
	"github.com/cardlink/transfer-service/internal/db"
)

// errorMessageRepository backs the error catalog with the error_messages
// table so operators can override message texts without a deploy.
type errorMessageRepository struct {
	q db.Querier
}

// NewErrorMessageRepository creates a catalog.Store over Postgres.
func NewErrorMessageRepository(q db.Querier) catalog.Store {
	return &errorMessageRepository{q: q}
}

// FindByCode retrieves the localized texts for one error code.
func (r *errorMessageRepository) FindByCode(ctx context.Context, code int) (*catalog.Message, error) {
	query := `
		SELECT code, en, ru, uz
		FROM error_messages
		WHERE code = $1
	`

	var msg catalog.Message
	err := r.q.QueryRowContext(ctx, query, code).Scan(&msg.Code, &msg.EN, &msg.RU, &msg.UZ)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, catalog.ErrUnknownCode
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find error message by code: %w", err)
	}

	return &msg, nil
}
