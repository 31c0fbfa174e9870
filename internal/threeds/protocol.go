// Package threeds holds the wire types exchanged between the gateway and an
// issuing bank: the 3DS authentication request/response, the authorization
// request/response and the challenge-result callback. Both the gateway
// orchestrators and the issuing bank simulator speak this protocol.
package threeds

import "time"

// Outcome status strings mirrored on every bank response.
const (
	StatusSuccess = "SUCCESS"
	StatusFailure = "FAILURE"
	StatusWarning = "WARNING"
)

// Status codes form a closed three-value set. The bank convention treats 0
// and -1 as approval and 1 as the single rejection value; integrations rely
// on this exact mapping, so it must not be normalized.
const (
	CodeSuccess = 0
	CodeWarning = 1
	CodeFailure = -1
)

// Approved reports whether a bank status code counts as approval.
func Approved(code int) bool {
	return code == CodeSuccess || code == CodeFailure
}

// AuthenticationRequest is sent to the issuing bank's AReq endpoint.
type AuthenticationRequest struct {
	UUID               string    `json:"uuid"`
	PAN                string    `json:"pan"`
	ExpirationDate     time.Time `json:"expirationDate"`
	Amount             int64     `json:"amount"`
	VerificationCode   int       `json:"verificationCode"`
	ChallengeResultURL string    `json:"challengeResultURL"`
	RedirectURL        string    `json:"redirectURL"`
}

// AuthenticationResponse carries the bank's enrollment decision.
type AuthenticationResponse struct {
	UUID        string `json:"uuid"`
	Status      string `json:"status"`
	StatusCode  int    `json:"statusCode"`
	Message     string `json:"message"`
	IsEnrolled  bool   `json:"isEnrolled"`
	RedirectURL string `json:"redirectURL"`
}

// AuthorizationRequest asks the issuing bank to debit the cardholder and
// credit the merchant settlement PAN.
type AuthorizationRequest struct {
	DebitPAN         string    `json:"debitPan"`
	CreditPAN        string    `json:"creditPan"`
	ExpirationDate   time.Time `json:"expirationDate"`
	Amount           int64     `json:"amount"`
	VerificationCode int       `json:"verificationCode"`
}

// AuthorizationResponse carries the bank's authorization outcome.
type AuthorizationResponse struct {
	UUID       string `json:"uuid"`
	Status     string `json:"status"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// ChallengeResult is posted back to the gateway once the payer completes the
// step-up challenge.
type ChallengeResult struct {
	UUID       string `json:"uuid"`
	Status     string `json:"status"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}
