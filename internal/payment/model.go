// Package payment owns the Payment lifecycle: card validation, registry
// checks, the 3DS authentication and authorization orchestrations against the
// issuing bank, and the asynchronous challenge-result re-entry point.
package payment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status is the payment lifecycle state. Transitions only move forward:
// INITIATED → THREEDS_AUTHENTICATION_* → (THREEDS_CHALLENGE_* →)
// AUTHORIZATION_*. Error and rejected states are terminal for the attempt.
type Status string

const (
	StatusInitiated                 Status = "INITIATED"
	StatusAuthenticationSuccessful  Status = "THREEDS_AUTHENTICATION_SUCCESSFUL"
	StatusAuthenticationRejected    Status = "THREEDS_AUTHENTICATION_REJECTED"
	StatusAuthenticationError       Status = "THREEDS_AUTHENTICATION_ERROR"
	StatusChallengeSuccessful       Status = "THREEDS_CHALLENGE_SUCCESSFUL"
	StatusChallengeUnsuccessful     Status = "THREEDS_CHALLENGE_UNSUCCESSFUL"
	StatusAuthorizationSuccessful   Status = "AUTHORIZATION_SUCCESSFUL"
	StatusAuthorizationRejected     Status = "AUTHORIZATION_REJECTED"
	StatusAuthorizationError        Status = "AUTHORIZATION_ERROR"
)

// TerminalAuthorization reports whether the payment already reached an
// authorization outcome. Duplicate challenge callbacks for such payments are
// a no-op.
func (s Status) TerminalAuthorization() bool {
	switch s {
	case StatusAuthorizationSuccessful, StatusAuthorizationRejected, StatusAuthorizationError:
		return true
	}
	return false
}

// AwaitingChallenge reports whether the payment is suspended on a step-up
// challenge. Only this state accepts a challenge-result delivery; a rejected
// or failed attempt can never be moved back toward success.
func (s Status) AwaitingChallenge() bool {
	return s == StatusAuthenticationSuccessful
}

// Payment is one payment attempt. The raw card number is held in-process for
// the lifetime of the initiating request only; what persists is a bcrypt hash
// and a masked form, neither recoverable to the original PAN.
type Payment struct {
	UUID             string
	PosUUID          string
	BankUUID         string
	Amount           int64
	CardNumberHash   string
	MaskedCardNumber string
	VerificationCode int
	ExpirationDate   time.Time
	Status           Status
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// New builds a payment in INITIATED state with its identity assigned at
// creation time.
func New(posUUID string, amount int64, verificationCode int, expiration time.Time) Payment {
	now := time.Now().UTC()
	return Payment{
		UUID:             uuid.NewString(),
		PosUUID:          posUUID,
		Amount:           amount,
		VerificationCode: verificationCode,
		ExpirationDate:   expiration,
		Status:           StatusInitiated,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// ErrNotFound indicates the payment does not exist.
var ErrNotFound = errors.New("payment not found")

// Repository persists payments. Records are append-only from the business
// point of view: they are never deleted, only moved to later statuses.
type Repository interface {
	Create(ctx context.Context, p Payment) error
	Update(ctx context.Context, p Payment) error
	ByUUID(ctx context.Context, uuid string) (Payment, error)
}
