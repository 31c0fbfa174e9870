package payment

import (
	"context"

	"github.com/paygs/paygs/internal/bank"
	"github.com/paygs/paygs/internal/merchant"
	"github.com/paygs/paygs/internal/threeds"
)

// Authenticator sends the 3DS authentication request to the card's issuing
// bank and hands the enrollment decision back to the state machine.
type Authenticator struct {
	bank               BankClient
	challengeResultURL string
	successRedirectURL string
}

// NewAuthenticator builds the authentication orchestrator. The URLs are the
// gateway's own endpoints the bank calls back to, respectively redirects the
// payer to, once the step-up challenge completes.
func NewAuthenticator(bankClient BankClient, challengeResultURL, successRedirectURL string) *Authenticator {
	return &Authenticator{
		bank:               bankClient,
		challengeResultURL: challengeResultURL,
		successRedirectURL: successRedirectURL,
	}
}

// Authenticate posts the authentication payload to the bank's AReq endpoint.
// Any transport failure propagates to the caller untouched; the state machine
// decides what it means for the payment.
func (a *Authenticator) Authenticate(ctx context.Context, p Payment, rawPAN string, issuingBank bank.Bank) (threeds.AuthenticationResponse, error) {
	return a.bank.Authenticate(ctx, issuingBank.AReqURL, threeds.AuthenticationRequest{
		UUID:               p.UUID,
		PAN:                rawPAN,
		ExpirationDate:     p.ExpirationDate,
		Amount:             p.Amount,
		VerificationCode:   p.VerificationCode,
		ChallengeResultURL: a.challengeResultURL,
		RedirectURL:        a.successRedirectURL,
	})
}

// Authorizer sends the final debit/credit authorization to the issuing bank.
type Authorizer struct {
	bank BankClient
}

// NewAuthorizer builds the authorization orchestrator.
func NewAuthorizer(bankClient BankClient) *Authorizer {
	return &Authorizer{bank: bankClient}
}

// Authorize debits the cardholder PAN and credits the merchant's settlement
// PAN. Transport failures propagate untouched.
func (a *Authorizer) Authorize(ctx context.Context, p Payment, debitPAN string, client merchant.Client, issuingBank bank.Bank) (threeds.AuthorizationResponse, error) {
	return a.bank.Authorize(ctx, issuingBank.AuthorizationURL, threeds.AuthorizationRequest{
		DebitPAN:         debitPAN,
		CreditPAN:        client.PAN,
		ExpirationDate:   p.ExpirationDate,
		Amount:           p.Amount,
		VerificationCode: p.VerificationCode,
	})
}
