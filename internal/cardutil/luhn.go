package cardutil

// ValidateCard checks a card number with the Luhn algorithm. Non-digit
// characters are ignored; an empty digit string is invalid.
func ValidateCard(cardNumber string) bool {
	digits := CardDigits(cardNumber)
	if digits == "" {
		return false
	}

	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		digit := int(digits[i] - '0')
		if double {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		double = !double
	}

	return sum%10 == 0
}
