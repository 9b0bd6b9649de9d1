// Package catalog maps numeric error codes to localized human messages.
// Messages can be overridden from storage; built-in defaults cover every
// code the system emits so a missing table never breaks error reporting.
package catalog

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

// Error codes shared by the RPC surface and the transfer service.
const (
	CodeMissingExtID        = 32700
	CodeDuplicateExtID      = 32701
	CodeInsufficientBalance = 32702
	CodeMissingPhone        = 32703
	CodeSenderCardMismatch  = 32704
	CodeSenderCardInactive  = 32705
	CodeInvalidCard         = 32706
	CodeUnsupportedCurrency = 32707
	CodeAmountTooLarge      = 32708
	CodeInvalidAmount       = 32709
	CodeOTPExpired          = 32710
	CodeTooManyAttempts     = 32711
	CodeWrongOTP            = 32712
	CodeMethodNotAllowed    = 32713
)

// genericMessage is returned when a code has no catalog entry at all.
const genericMessage = "Unknown error occurred"

// Message holds the localized texts for one error code.
type Message struct {
	EN   string
	RU   string
	UZ   string
	Code int
}

// Store is the persistence lookup for catalog overrides.
type Store interface {
	FindByCode(ctx context.Context, code int) (*Message, error)
}

// Catalog resolves error codes to localized messages.
type Catalog struct {
	store  Store
	logger *slog.Logger
}

// New creates a catalog backed by store. A nil store means built-in
// messages only.
func New(store Store, logger *slog.Logger) *Catalog {
	return &Catalog{store: store, logger: logger}
}

// Message returns the text for code in the requested language. Unknown
// languages and missing translations fall back to English; unknown codes
// fall back to a generic message.
func (c *Catalog) Message(ctx context.Context, code int, lang string) string {
	if c.store != nil {
		msg, err := c.store.FindByCode(ctx, code)
		if err == nil {
			return msg.text(lang)
		}
		if !errors.Is(err, ErrUnknownCode) {
			c.logger.Warn("catalog store lookup failed", "code", code, "error", err)
		}
	}

	if msg, ok := builtin[code]; ok {
		return msg.text(lang)
	}
	return genericMessage
}

// ErrUnknownCode indicates the store has no entry for a code.
var ErrUnknownCode = errors.New("unknown error code")

func (m *Message) text(lang string) string {
	switch strings.ToLower(lang) {
	case "ru":
		if m.RU != "" {
			return m.RU
		}
	case "uz":
		if m.UZ != "" {
			return m.UZ
		}
	}
	if m.EN != "" {
		return m.EN
	}
	return genericMessage
}

var builtin = map[int]Message{
	CodeMissingExtID: {
		Code: CodeMissingExtID,
		EN:   "ext_id is required",
		RU:   "Необходимо указать ext_id",
		UZ:   "ext_id ko'rsatilishi shart",
	},
	CodeDuplicateExtID: {
		Code: CodeDuplicateExtID,
		EN:   "Transfer with this ext_id already exists",
		RU:   "Перевод с таким ext_id уже существует",
		UZ:   "Bunday ext_id bilan o'tkazma allaqachon mavjud",
	},
	CodeInsufficientBalance: {
		Code: CodeInsufficientBalance,
		EN:   "Insufficient balance on sender card",
		RU:   "Недостаточно средств на карте отправителя",
		UZ:   "Jo'natuvchi kartasida mablag' yetarli emas",
	},
	CodeMissingPhone: {
		Code: CodeMissingPhone,
		EN:   "Phone number is missing",
		RU:   "Не указан номер телефона",
		UZ:   "Telefon raqami ko'rsatilmagan",
	},
	CodeSenderCardMismatch: {
		Code: CodeSenderCardMismatch,
		EN:   "Sender card not found or expiry date does not match",
		RU:   "Карта отправителя не найдена или срок действия не совпадает",
		UZ:   "Jo'natuvchi kartasi topilmadi yoki amal qilish muddati mos kelmaydi",
	},
	CodeSenderCardInactive: {
		Code: CodeSenderCardInactive,
		EN:   "Sender card is not active",
		RU:   "Карта отправителя неактивна",
		UZ:   "Jo'natuvchi kartasi faol emas",
	},
	CodeInvalidCard: {
		Code: CodeInvalidCard,
		EN:   "Invalid card or transfer",
		RU:   "Недействительная карта или перевод",
		UZ:   "Karta yoki o'tkazma yaroqsiz",
	},
	CodeUnsupportedCurrency: {
		Code: CodeUnsupportedCurrency,
		EN:   "Unsupported currency",
		RU:   "Валюта не поддерживается",
		UZ:   "Valyuta qo'llab-quvvatlanmaydi",
	},
	CodeAmountTooLarge: {
		Code: CodeAmountTooLarge,
		EN:   "Amount exceeds the allowed maximum",
		RU:   "Сумма превышает допустимый максимум",
		UZ:   "Summa ruxsat etilgan maksimumdan oshib ketdi",
	},
	CodeInvalidAmount: {
		Code: CodeInvalidAmount,
		EN:   "Amount must be greater than zero",
		RU:   "Сумма должна быть больше нуля",
		UZ:   "Summa noldan katta bo'lishi kerak",
	},
	CodeOTPExpired: {
		Code: CodeOTPExpired,
		EN:   "OTP has expired",
		RU:   "Срок действия OTP истёк",
		UZ:   "OTP muddati tugagan",
	},
	CodeTooManyAttempts: {
		Code: CodeTooManyAttempts,
		EN:   "Too many OTP attempts",
		RU:   "Слишком много попыток ввода OTP",
		UZ:   "OTP kiritish urinishlari soni oshib ketdi",
	},
	CodeWrongOTP: {
		Code: CodeWrongOTP,
		EN:   "OTP is wrong",
		RU:   "Неверный OTP",
		UZ:   "OTP noto'g'ri",
	},
	CodeMethodNotAllowed: {
		Code: CodeMethodNotAllowed,
		EN:   "Method not allowed, use POST",
		RU:   "Метод не поддерживается, используйте POST",
		UZ:   "Metodga ruxsat berilmagan, POST dan foydalaning",
	},
}
