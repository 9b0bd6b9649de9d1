package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/cardlink/transfer-service/internal/cardutil"
	"github.com/cardlink/transfer-service/internal/models"
	"github.com/cardlink/transfer-service/internal/notify"
	"github.com/cardlink/transfer-service/internal/repository"
)

// cardImportHeader is the required first row of a bulk import file.
var cardImportHeader = []string{"card_number", "expire", "phone", "status", "balance"}

// CardAdminService implements the administrative bulk card operations:
// import, export, and balance-notification broadcasts. It sits outside the
// transfer pipeline; the transfer core only ever reads cards.
type CardAdminService struct {
	cards    repository.CardRepository
	notifier notify.Notifier
	logger   *slog.Logger
}

// NewCardAdminService creates a new CardAdminService.
func NewCardAdminService(
	cards repository.CardRepository,
	notifier notify.Notifier,
	logger *slog.Logger,
) *CardAdminService {
	return &CardAdminService{cards: cards, notifier: notifier, logger: logger}
}

// ImportResult reports the outcome of a bulk import. RowErrors holds one
// human-readable message per rejected row, numbered from the file's first
// data row (row 2).
type ImportResult struct {
	RowErrors []string `json:"rowErrors"`
	Imported  int      `json:"imported"`
}

// ImportRows validates and upserts card rows. The first row must be the
// expected header. Rows are normalized before validation; invalid rows are
// skipped and reported, valid rows are upserted keyed by card number.
func (s *CardAdminService) ImportRows(ctx context.Context, rows [][]string) (*ImportResult, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("import file is empty")
	}

	header := make([]string, 0, len(rows[0]))
	for _, cell := range rows[0] {
		header = append(header, strings.ToLower(strings.TrimSpace(cell)))
	}
	if len(header) < len(cardImportHeader) ||
		!equalFields(header[:len(cardImportHeader)], cardImportHeader) {
		return nil, fmt.Errorf("invalid header, expected: %s", strings.Join(cardImportHeader, ", "))
	}

	result := &ImportResult{}
	for i, row := range rows[1:] {
		rowNum := i + 2
		if blankRow(row) {
			continue
		}

		card, rowErrs := parseCardRow(row)
		if len(rowErrs) > 0 {
			result.RowErrors = append(result.RowErrors,
				fmt.Sprintf("row %d: %s", rowNum, strings.Join(rowErrs, ", ")))
			continue
		}

		if err := s.cards.Upsert(ctx, card); err != nil {
			return nil, fmt.Errorf("failed to import row %d: %w", rowNum, err)
		}
		result.Imported++
	}

	s.logger.Info("card import finished",
		"imported", result.Imported,
		"rejected", len(result.RowErrors),
	)

	return result, nil
}

// parseCardRow normalizes and validates one import row.
func parseCardRow(row []string) (*models.Card, []string) {
	get := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	card := &models.Card{
		CardNumber: cardutil.CardDigits(get(0)),
		Expire:     cardutil.NormalizeExpire(get(1)),
		Phone:      cardutil.PhoneDigits(get(2)),
		Status:     models.CardStatus(strings.ToLower(get(3))),
	}

	var errs []string
	if len(card.CardNumber) != 16 {
		errs = append(errs, "card_number must be 16 digits")
	}
	if len(card.Expire) != 7 {
		errs = append(errs, "expire must be in YYYY-MM")
	}
	if card.Phone != "" && len(card.Phone) != 9 && len(card.Phone) != 12 {
		errs = append(errs, "phone must be 9 or 12 digits")
	}
	if !models.ValidCardStatus(card.Status) {
		errs = append(errs, "status must be active, inactive, or expired")
	}
	balance, ok := cardutil.ParseAmount(get(4))
	if !ok {
		errs = append(errs, "balance must be numeric")
	} else {
		card.Balance = balance
	}

	return card, errs
}

// ExportCSV writes the matching cards to w as CSV with a header row and
// returns how many cards were written. Card and phone numbers use display
// formatting, matching the import side's tolerance for separators.
func (s *CardAdminService) ExportCSV(ctx context.Context, filter repository.CardFilter, w io.Writer) (int, error) {
	cards, err := s.cards.List(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to export cards: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(cardImportHeader); err != nil {
		return 0, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, card := range cards {
		record := []string{
			card.DisplayNumber(),
			card.Expire,
			card.DisplayPhone(),
			string(card.Status),
			card.Balance.StringFixed(2),
		}
		if err := writer.Write(record); err != nil {
			return 0, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return 0, fmt.Errorf("failed to flush csv: %w", err)
	}

	return len(cards), nil
}

// NotifyBalances sends the balance-notice message to every matching card
// and returns how many messages went out. Individual delivery failures are
// logged and skipped.
func (s *CardAdminService) NotifyBalances(ctx context.Context, filter repository.CardFilter) (int, error) {
	cards, err := s.cards.List(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to list cards for notification: %w", err)
	}

	sent := 0
	for _, card := range cards {
		text := balanceMessage(&card)
		if err := s.notifier.Send(card.Phone, text); err != nil {
			s.logger.Error("balance notification failed",
				"card", cardutil.MaskCard(card.CardNumber), "error", err)
			continue
		}
		sent++
	}

	return sent, nil
}

// balanceMessage renders the Uzbek-language balance notice for a card.
func balanceMessage(card *models.Card) string {
	return fmt.Sprintf("Sizning kartangiz %s aktiv va foydalanishga %s UZS mavjud!",
		cardutil.MaskCard(card.CardNumber), groupThousands(card.Balance.StringFixed(2)))
}

// groupThousands inserts comma separators into the integer part of a
// fixed-point decimal string: "1234567.89" -> "1,234,567.89".
func groupThousands(fixed string) string {
	intPart, fracPart, hasFrac := strings.Cut(fixed, ".")

	sign := ""
	if strings.HasPrefix(intPart, "-") {
		sign = "-"
		intPart = intPart[1:]
	}

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	out := sign + b.String()
	if hasFrac {
		out += "." + fracPart
	}
	return out
}

func equalFields(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
