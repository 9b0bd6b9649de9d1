package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cardlink/transfer-service/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

var cardCols = []string{
	"id", "card_number", "expire", "phone", "status", "balance",
	"created_at", "updated_at",
}

func TestCardRepository_FindByNumber(t *testing.T) {
	ctx := context.Background()

	t.Run("card found", func(t *testing.T) {
		database, mock := newMockDB(t)
		repo := NewCardRepository(database)

		id := uuid.New()
		now := time.Now()
		mock.ExpectQuery("FROM cards").
			WithArgs("8600123412341234").
			WillReturnRows(sqlmock.NewRows(cardCols).AddRow(
				id.String(), "8600123412341234", "2031-07", "998999730303",
				"active", "1500.50", now, now,
			))

		card, err := repo.FindByNumber(ctx, "8600123412341234")

		assert.NoError(t, err)
		assert.Equal(t, id, card.ID)
		assert.Equal(t, "8600123412341234", card.CardNumber)
		assert.Equal(t, "2031-07", card.Expire)
		assert.Equal(t, models.CardStatusActive, card.Status)
		assert.Equal(t, "1500.5", card.Balance.String())
	})

	t.Run("card not found", func(t *testing.T) {
		database, mock := newMockDB(t)
		repo := NewCardRepository(database)

		mock.ExpectQuery("FROM cards").
			WithArgs("8600000000000000").
			WillReturnError(sql.ErrNoRows)

		card, err := repo.FindByNumber(ctx, "8600000000000000")

		assert.Nil(t, card)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestCardRepository_Upsert(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes before writing", func(t *testing.T) {
		database, mock := newMockDB(t)
		repo := NewCardRepository(database)

		mock.ExpectExec("INSERT INTO cards").
			WithArgs("8600123412341234", "2031-07", "998999730303",
				"active", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		card := &models.Card{
			CardNumber: "8600 1234 1234 1234",
			Expire:     "07/31",
			Phone:      "+998 99 973 03 03",
			Status:     models.CardStatusActive,
		}

		assert.NoError(t, repo.Upsert(ctx, card))
		assert.Equal(t, "8600123412341234", card.CardNumber)
	})

	t.Run("exec failure", func(t *testing.T) {
		database, mock := newMockDB(t)
		repo := NewCardRepository(database)

		mock.ExpectExec("INSERT INTO cards").
			WillReturnError(sql.ErrConnDone)

		err := repo.Upsert(ctx, &models.Card{CardNumber: "8600123412341234"})
		assert.ErrorContains(t, err, "failed to upsert card")
	})
}

func TestCardRepository_List(t *testing.T) {
	ctx := context.Background()

	t.Run("applies filter args", func(t *testing.T) {
		database, mock := newMockDB(t)
		repo := NewCardRepository(database)

		now := time.Now()
		mock.ExpectQuery("FROM cards").
			WithArgs("active", "8600", "").
			WillReturnRows(sqlmock.NewRows(cardCols).
				AddRow(uuid.New().String(), "8600123412341234", "2031-07",
					"998999730303", "active", "100", now, now).
				AddRow(uuid.New().String(), "8600123412341235", "2030-01",
					"998901234567", "active", "200", now, now))

		cards, err := repo.List(ctx, CardFilter{
			Status:         models.CardStatusActive,
			CardNumberLike: "8600",
		})

		assert.NoError(t, err)
		assert.Len(t, cards, 2)
		assert.Equal(t, "8600123412341234", cards[0].CardNumber)
		assert.Equal(t, "8600123412341235", cards[1].CardNumber)
	})

	t.Run("empty result", func(t *testing.T) {
		database, mock := newMockDB(t)
		repo := NewCardRepository(database)

		mock.ExpectQuery("FROM cards").
			WithArgs("", "", "").
			WillReturnRows(sqlmock.NewRows(cardCols))

		cards, err := repo.List(ctx, CardFilter{})

		assert.NoError(t, err)
		assert.Empty(t, cards)
	})
}
