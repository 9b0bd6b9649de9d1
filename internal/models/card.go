package models

import (
	"time"

	"github.com/cardlink/transfer-service/internal/cardutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CardStatus represents the lifecycle status of a card
type CardStatus string

const (
	CardStatusActive   CardStatus = "active"
	CardStatusInactive CardStatus = "inactive"
	CardStatusExpired  CardStatus = "expired"
)

// ValidCardStatus reports whether s is a known card status.
func ValidCardStatus(s CardStatus) bool {
	switch s {
	case CardStatusActive, CardStatusInactive, CardStatusExpired:
		return true
	}
	return false
}

// Card represents a payment card with its holder contact and balance.
// CardNumber, Phone, and Expire are stored in normalized form only.
type Card struct {
	CreatedAt  time.Time       `db:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at"`
	CardNumber string          `db:"card_number"`
	Expire     string          `db:"expire"`
	Phone      string          `db:"phone"`
	Status     CardStatus      `db:"status"`
	Balance    decimal.Decimal `db:"balance"`
	ID         uuid.UUID       `db:"id"`
}

// Normalize rewrites the card's identifying fields into canonical form.
// It runs at every write boundary so stored values are never raw input.
func (c *Card) Normalize() {
	c.CardNumber = cardutil.CardDigits(c.CardNumber)
	c.Phone = cardutil.PhoneDigits(c.Phone)
	c.Expire = cardutil.NormalizeExpire(c.Expire)
}

// DisplayNumber returns the card number grouped for display.
func (c *Card) DisplayNumber() string {
	return cardutil.FormatCard(c.CardNumber)
}

// DisplayPhone returns the phone number formatted for display.
func (c *Card) DisplayPhone() string {
	return cardutil.FormatPhone(c.Phone)
}
