package card

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var twoDigits = regexp.MustCompile(`^\d{2}$`)

// ParseExpiration resolves an "MM/YY" expiration into the last calendar day
// of the stated month. Both segments must be exactly two digits and the month
// must be in [1,12]. The two-digit year is expanded with the current century
// prefix taken from now.
func ParseExpiration(value string, now time.Time) (time.Time, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 || !twoDigits.MatchString(parts[0]) || !twoDigits.MatchString(parts[1]) {
		return time.Time{}, fmt.Errorf("expiration date %q must be formatted as MM/YY", value)
	}

	month, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("expiration month: %w", err)
	}
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("expiration month %d out of range", month)
	}

	yy, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("expiration year: %w", err)
	}
	year := (now.Year()/100)*100 + yy

	// Day zero of the following month resolves to the last day of the
	// stated month.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC), nil
}
