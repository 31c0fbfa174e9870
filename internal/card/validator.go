// Package card provides pure card-number and expiration validation. No I/O,
// deterministic given its inputs.
package card

import (
	"regexp"
	"strings"
	"time"
)

var nonDigit = regexp.MustCompile(`\D`)

// allowed characters besides digits: spaces and dashes.
var illegalChars = regexp.MustCompile(`[^0-9\-\s]`)

// IsNumberValid checks structural validity of a card number: length between
// 13 and 19 digits, only digits/spaces/dashes, and a passing Luhn checksum.
func IsNumberValid(cardNumber string) bool {
	trimmed := strings.ReplaceAll(strings.TrimSpace(cardNumber), " ", "")
	if len(trimmed) < 13 || len(trimmed) > 19 {
		return false
	}
	return luhn(cardNumber)
}

func luhn(cardNumber string) bool {
	if illegalChars.MatchString(cardNumber) {
		return false
	}

	digits := nonDigit.ReplaceAllString(cardNumber, "")

	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}

	return sum%10 == 0
}

// IsExpired reports whether today, truncated to midnight, falls strictly
// after the resolved expiration date.
func IsExpired(expirationDate, today time.Time) bool {
	midnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	return midnight.After(expirationDate)
}

// IsSupported reports whether any of the given card-type patterns matches
// the card number. Invalid patterns never match.
func IsSupported(cardNumber string, patterns []string) bool {
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			continue
		}
		if re.MatchString(cardNumber) {
			return true
		}
	}
	return false
}

// Blacklisted is the card blacklist policy hook. The default policy accepts
// every card; deployments can swap it for a real denylist.
var Blacklisted = func(cardNumber string) bool {
	return false
}

// Digits strips every non-digit character from a card number.
func Digits(cardNumber string) string {
	return nonDigit.ReplaceAllString(cardNumber, "")
}

// Mask keeps the BIN and the last four digits, replacing the middle with
// asterisks. Short inputs are fully masked.
func Mask(cardNumber string) string {
	digits := Digits(cardNumber)
	if len(digits) <= 10 {
		return strings.Repeat("*", len(digits))
	}
	return digits[:6] + strings.Repeat("*", len(digits)-10) + digits[len(digits)-4:]
}
