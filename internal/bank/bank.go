// Package bank resolves a card's issuing bank from its BIN to the routing
// record holding that bank's authentication and authorization endpoints.
package bank

import (
	"context"
	"errors"
)

// Bank is a routing target for a card's issuing bank. BIN matching is an
// exact six-digit comparison; real issuer ranges overlap, which is a known
// simplification here.
type Bank struct {
	UUID             string
	Name             string
	BIN              int
	AuthorizationURL string
	AReqURL          string
}

// ErrNotFound indicates no bank matches the lookup.
var ErrNotFound = errors.New("bank not found")

// Repository persists bank routing records.
type Repository interface {
	Create(ctx context.Context, b Bank) error
	ByUUID(ctx context.Context, uuid string) (Bank, error)
	ByBIN(ctx context.Context, bin int) (Bank, error)
}
