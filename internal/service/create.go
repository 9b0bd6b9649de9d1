package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/cardlink/transfer-service/internal/cardutil"
	"github.com/cardlink/transfer-service/internal/models"
	"github.com/shopspring/decimal"
)

// CreateParams carries the caller-supplied fields of a create request.
// Card numbers, expiry, and phones may arrive in any display format; the
// service normalizes them before validation.
type CreateParams struct {
	ExtID              string
	SenderCardNumber   string
	SenderCardExpiry   string
	ReceiverCardNumber string
	SendingAmount      string
	SenderPhone        string
	ReceiverPhone      string
	Currency           int
}

// acceptedCurrencies is the set of valid sending currency codes.
var acceptedCurrencies = map[int]bool{
	cardutil.CurrencyRUB: true,
	cardutil.CurrencyUSD: true,
}

// Create validates a transfer request, persists it in the created state,
// and dispatches the OTP to the sender's phone. Each validation failure
// maps to its own catalog code; nothing is persisted on failure.
func (s *TransferService) Create(ctx context.Context, params CreateParams) (*CreateResult, error) {
	if params.ExtID == "" {
		return nil, newServiceError(ErrCodeMissingExtID, "ext_id is required")
	}

	if _, err := s.transfers.FindByExtID(ctx, params.ExtID); err == nil {
		return nil, newServiceError(ErrCodeDuplicateExtID, "transfer with this ext_id already exists")
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, s.internalError("create", err)
	}

	senderNumber := cardutil.CardDigits(params.SenderCardNumber)
	receiverNumber := cardutil.CardDigits(params.ReceiverCardNumber)
	senderExpiry := cardutil.NormalizeExpire(params.SenderCardExpiry)

	if !cardutil.ValidateCard(senderNumber) || !cardutil.ValidateCard(receiverNumber) {
		return nil, newServiceError(ErrCodeInvalidCard, "card number failed checksum validation")
	}

	senderCard, err := s.cards.FindByNumber(ctx, senderNumber)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, newServiceError(ErrCodeSenderCardMismatch, "sender card not found")
		}
		return nil, s.internalError("create", err)
	}
	if senderCard.Expire != senderExpiry {
		return nil, newServiceError(ErrCodeSenderCardMismatch, "sender card expiry does not match")
	}

	if senderCard.Status != models.CardStatusActive {
		return nil, newServiceError(ErrCodeSenderCardInactive, "sender card is not active")
	}

	amount, ok := cardutil.ParseAmount(params.SendingAmount)
	if !ok || senderCard.Balance.LessThan(amount) {
		return nil, newServiceError(ErrCodeInsufficientBalance, "insufficient balance on sender card")
	}

	if params.SenderPhone == "" && senderCard.Phone == "" {
		return nil, newServiceError(ErrCodeMissingPhone, "no phone number available for sender")
	}

	receiverCard, err := s.cards.FindByNumber(ctx, receiverNumber)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, newServiceError(ErrCodeInvalidCard, "receiver card not found")
		}
		return nil, s.internalError("create", err)
	}

	if !acceptedCurrencies[params.Currency] {
		return nil, newServiceError(ErrCodeUnsupportedCurrency, "unsupported sending currency")
	}

	if !amount.IsPositive() {
		return nil, newServiceError(ErrCodeInvalidAmount, "sending amount must be greater than zero")
	}

	if amount.GreaterThan(decimal.NewFromInt(s.cfg.MaxAmount)) {
		return nil, newServiceError(ErrCodeAmountTooLarge, "sending amount exceeds the allowed maximum")
	}

	receivingAmount, ok := cardutil.Convert(amount, params.Currency)
	if !ok {
		return nil, newServiceError(ErrCodeUnsupportedCurrency, "no exchange rate for currency")
	}

	senderPhone := params.SenderPhone
	if senderPhone == "" {
		senderPhone = senderCard.Phone
	}
	receiverPhone := params.ReceiverPhone
	if receiverPhone == "" {
		receiverPhone = receiverCard.Phone
	}

	transfer := &models.Transfer{
		ExtID:              params.ExtID,
		SenderCardNumber:   senderNumber,
		ReceiverCardNumber: receiverNumber,
		SenderCardExpiry:   senderExpiry,
		SenderPhone:        cardutil.PhoneDigits(senderPhone),
		ReceiverPhone:      cardutil.PhoneDigits(receiverPhone),
		SendingAmount:      amount,
		Currency:           params.Currency,
		ReceivingAmount:    receivingAmount,
		State:              models.TransferStateCreated,
		OTP:                s.otp.Generate(s.cfg.OTPLength),
	}

	if err := s.transfers.Create(ctx, transfer); err != nil {
		if errors.Is(err, models.ErrDuplicateTransfer) {
			return nil, newServiceError(ErrCodeDuplicateExtID, "transfer with this ext_id already exists")
		}
		return nil, s.internalError("create", err)
	}

	s.logger.Info("transfer created",
		"ext_id", transfer.ExtID,
		"sender", cardutil.MaskCard(transfer.SenderCardNumber),
		"receiver", cardutil.MaskCard(transfer.ReceiverCardNumber),
		"amount", transfer.SendingAmount,
		"currency", transfer.Currency,
	)

	s.dispatchOTP(transfer)

	return &CreateResult{
		ExtID:   transfer.ExtID,
		State:   transfer.State,
		OTPSent: true,
	}, nil
}

// dispatchOTP sends the OTP without blocking the create response. A
// delivery failure never rolls back the persisted transfer.
func (s *TransferService) dispatchOTP(transfer *models.Transfer) {
	phone := transfer.SenderPhone
	text := fmt.Sprintf("Your OTP is %s for transfer %s.", transfer.OTP, transfer.ExtID)
	go func() {
		if err := s.notifier.Send(phone, text); err != nil {
			s.logger.Error("otp dispatch failed", "ext_id", transfer.ExtID, "error", err)
		}
	}()
}
