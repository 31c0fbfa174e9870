// Package merchant owns the Client and POS registry: onboarding records,
// supported card types and the ownership checks run against the caller's
// identity before a payment is processed.
package merchant

import (
	"context"
	"errors"
	"time"
)

// CardType is a named card-number pattern, e.g. VISA or MASTERCARD.
type CardType struct {
	UUID    string
	Name    string
	Pattern string
}

// Client is a merchant onboarding record. AuthSubject is the external
// authentication subject owning the record; Threshold, when set, bounds every
// payment processed under this client.
type Client struct {
	UUID               string
	Name               string
	Address            string
	PAN                string
	Active             bool
	Threshold          *int64
	RedirectURL        string
	AuthSubject        string
	BankUUID           string
	SupportedCardTypes []CardType
	CreatedAt          time.Time
}

// POS is a point of sale belonging to exactly one client.
type POS struct {
	UUID       string
	Active     bool
	ClientUUID string
	CreatedAt  time.Time
}

// ErrNotFound indicates the requested registry record does not exist.
var ErrNotFound = errors.New("registry record not found")

// Repository persists registry records. CreateClient and UpdateClient write
// the client row and its card-type associations inside one transaction.
type Repository interface {
	CreateClient(ctx context.Context, c Client) error
	UpdateClient(ctx context.Context, c Client) error
	ClientByUUID(ctx context.Context, uuid string) (Client, error)
	CreateCardType(ctx context.Context, ct CardType) error
	CardTypeByUUID(ctx context.Context, uuid string) (CardType, error)
	CardTypeByName(ctx context.Context, name string) (CardType, error)
	CreatePos(ctx context.Context, p POS) error
	PosByUUID(ctx context.Context, uuid string) (POS, error)
}

// Patterns extracts the regexp patterns of the supported card types.
func (c Client) Patterns() []string {
	patterns := make([]string, 0, len(c.SupportedCardTypes))
	for _, ct := range c.SupportedCardTypes {
		patterns = append(patterns, ct.Pattern)
	}
	return patterns
}
