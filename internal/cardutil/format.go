// Package cardutil provides normalization and formatting helpers for card
// numbers, phone numbers, expiry dates, and money amounts. All functions are
// pure; the rest of the system stores only normalized values.
package cardutil

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var nonDigitRe = regexp.MustCompile(`\D+`)

// CardDigits strips every non-digit character from a raw card number.
func CardDigits(raw string) string {
	return nonDigitRe.ReplaceAllString(raw, "")
}

// FormatCard renders a card number in display form, grouped in blocks of four:
// "8600123412341234" -> "8600 1234 1234 1234".
func FormatCard(raw string) string {
	digits := CardDigits(raw)
	return groupBy4(digits)
}

// PhoneDigits strips every non-digit character from a raw phone number.
func PhoneDigits(raw string) string {
	return nonDigitRe.ReplaceAllString(raw, "")
}

// FormatPhone renders a phone number in display form. Local 9-digit numbers
// become "99 973 03 03", full 12-digit numbers "+998 99 973 03 03". Other
// lengths are returned as bare digits.
func FormatPhone(raw string) string {
	digits := PhoneDigits(raw)
	switch len(digits) {
	case 9:
		return digits[:2] + " " + digits[2:5] + " " + digits[5:7] + " " + digits[7:]
	case 12:
		return "+" + digits[:3] + " " + digits[3:5] + " " + digits[5:8] + " " + digits[8:10] + " " + digits[10:]
	default:
		return digits
	}
}

// MaskCard hides all but the last four digits of a card number, keeping the
// four-digit display grouping.
func MaskCard(raw string) string {
	digits := CardDigits(raw)
	if len(digits) <= 4 {
		return digits
	}
	masked := strings.Repeat("*", len(digits)-4) + digits[len(digits)-4:]
	return groupBy4(masked)
}

// MaskPhone hides all but the last two digits of a phone number.
func MaskPhone(raw string) string {
	digits := PhoneDigits(raw)
	if len(digits) <= 2 {
		return digits
	}
	return strings.Repeat("*", len(digits)-2) + digits[len(digits)-2:]
}

var (
	expireYearFirstRe  = regexp.MustCompile(`^(\d{4})[-./](\d{1,2})$`)
	expireMonthFirstRe = regexp.MustCompile(`^(\d{1,2})[-./](\d{2}|\d{4})$`)
)

// NormalizeExpire converts an expiry date into canonical "YYYY-MM" form.
// Accepted inputs are year-first ("2031-7", "2031.07", "2031/07") and
// month-first ("07/31", "7-2031") with two-digit years taken as 20xx.
// Unparseable input is returned unchanged; callers re-validate the length.
func NormalizeExpire(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return ""
	}
	if m := expireYearFirstRe.FindStringSubmatch(value); m != nil {
		return m[1] + "-" + pad2(m[2])
	}
	if m := expireMonthFirstRe.FindStringSubmatch(value); m != nil {
		year := m[2]
		if len(year) == 2 {
			year = "20" + year
		}
		return year + "-" + pad2(m[1])
	}
	return value
}

// ParseAmount parses a money amount that may carry thousands separators.
// It reports false when the input is empty or not a number.
func ParseAmount(raw string) (decimal.Decimal, bool) {
	value := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if value == "" {
		return decimal.Decimal{}, false
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return amount, true
}

func groupBy4(digits string) string {
	var b strings.Builder
	for i := 0; i < len(digits); i += 4 {
		if i > 0 {
			b.WriteByte(' ')
		}
		end := i + 4
		if end > len(digits) {
			end = len(digits)
		}
		b.WriteString(digits[i:end])
	}
	return b.String()
}

func pad2(month string) string {
	if len(month) == 1 {
		return "0" + month
	}
	return month
}
