package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferState represents the state of a transfer
type TransferState string

const (
	TransferStateCreated   TransferState = "created"
	TransferStateConfirmed TransferState = "confirmed"
	TransferStateCancelled TransferState = "cancelled"
)

// IsTerminal reports whether the state admits no further transitions.
func (s TransferState) IsTerminal() bool {
	return s == TransferStateConfirmed || s == TransferStateCancelled
}

// MaxOTPAttempts is the default cap on wrong OTP submissions; the
// effective cap comes from configuration.
const MaxOTPAttempts = 3

// Transfer represents one card-to-card transfer attempt. ExtID is the
// caller-supplied idempotency key and is unique across all transfers.
// Card numbers, phones, and the sender expiry are stored normalized.
type Transfer struct {
	CreatedAt          time.Time       `db:"created_at"`
	UpdatedAt          time.Time       `db:"updated_at"`
	ConfirmedAt        *time.Time      `db:"confirmed_at"`
	CancelledAt        *time.Time      `db:"cancelled_at"`
	ExtID              string          `db:"ext_id"`
	SenderCardNumber   string          `db:"sender_card_number"`
	ReceiverCardNumber string          `db:"receiver_card_number"`
	SenderCardExpiry   string          `db:"sender_card_expiry"`
	SenderPhone        string          `db:"sender_phone"`
	ReceiverPhone      string          `db:"receiver_phone"`
	OTP                string          `db:"otp"`
	State              TransferState   `db:"state"`
	SendingAmount      decimal.Decimal `db:"sending_amount"`
	ReceivingAmount    decimal.Decimal `db:"receiving_amount"`
	Currency           int             `db:"currency"`
	TryCount           int             `db:"try_count"`
	ID                 uuid.UUID       `db:"id"`
}

// AttemptsExhausted reports whether the wrong-OTP cap has been reached.
func (t *Transfer) AttemptsExhausted(max int) bool {
	return t.TryCount >= max
}

// OTPExpired reports whether now is past the OTP validity window that
// started at the transfer's creation.
func (t *Transfer) OTPExpired(now time.Time, ttl time.Duration) bool {
	return now.After(t.CreatedAt.Add(ttl))
}

// RemainingAttempts returns how many wrong OTP submissions are still
// allowed, never below zero.
func (t *Transfer) RemainingAttempts(max int) int {
	left := max - t.TryCount
	if left < 0 {
		return 0
	}
	return left
}
