package card

import (
	"testing"
	"time"
)

func TestParseExpirationResolvesLastDayOfMonth(t *testing.T) {
	now := time.Date(2024, time.June, 15, 10, 30, 0, 0, time.UTC)

	got, err := ParseExpiration("01/25", now)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	// February in a leap year.
	got, err = ParseExpiration("02/28", now)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Day() != 29 {
		t.Fatalf("expected leap-year February 29, got day %d", got.Day())
	}
}

func TestParseExpirationRejectsBadInput(t *testing.T) {
	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

	for _, value := range []string{"13/25", "00/25", "1/25", "01/5", "0125", "01/25/33", "aa/25", ""} {
		if _, err := ParseExpiration(value, now); err == nil {
			t.Fatalf("expected %q to be rejected", value)
		}
	}
}
