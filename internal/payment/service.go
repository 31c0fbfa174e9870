package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/paygs/paygs/internal/apierrors"
	"github.com/paygs/paygs/internal/bank"
	"github.com/paygs/paygs/internal/card"
	"github.com/paygs/paygs/internal/event"
	"github.com/paygs/paygs/internal/logging"
	"github.com/paygs/paygs/internal/merchant"
	"github.com/paygs/paygs/internal/threeds"
)

const (
	bcryptCost = 10
	binLength  = 6
)

// Service is the payment state machine. It sequences card validation, the
// registry checks, the 3DS authentication and the authorization against the
// issuing bank, persisting every status transition.
type Service struct {
	payments      Repository
	merchants     *merchant.Service
	banks         bank.Repository
	authenticator *Authenticator
	authorizer    *Authorizer
	events        event.Publisher
	logger        *slog.Logger
	now           func() time.Time
}

// NewService wires the payment state machine.
func NewService(
	payments Repository,
	merchants *merchant.Service,
	banks bank.Repository,
	authenticator *Authenticator,
	authorizer *Authorizer,
	events event.Publisher,
	logger *slog.Logger,
) *Service {
	return &Service{
		payments:      payments,
		merchants:     merchants,
		banks:         banks,
		authenticator: authenticator,
		authorizer:    authorizer,
		events:        events,
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// ProcessInput captures a merchant payment request.
type ProcessInput struct {
	PosUUID          string
	Amount           int64
	CardNumber       string
	ExpirationDate   string
	VerificationCode int
}

// ProcessResult is the outcome of processing a payment. A non-empty
// RedirectURL means the payer must complete a step-up challenge and the
// payment is suspended until the challenge-result callback arrives.
type ProcessResult struct {
	Payment     Payment
	RedirectURL string
}

// Process runs a new payment through the state machine.
func (s *Service) Process(ctx context.Context, caller string, in ProcessInput) (ProcessResult, error) {
	expiration, err := s.validateCard(in)
	if err != nil {
		return ProcessResult{}, err
	}

	pos, client, err := s.merchants.AuthorizePos(ctx, caller, in.PosUUID)
	if err != nil {
		return ProcessResult{}, err
	}

	if !card.IsSupported(in.CardNumber, client.Patterns()) {
		return ProcessResult{}, apierrors.NotAcceptable(apierrors.CodeCardNotSupported)
	}

	if client.Threshold != nil && in.Amount > *client.Threshold {
		return ProcessResult{}, apierrors.NotAcceptable(apierrors.CodeAmountExceeded)
	}

	rawPAN := card.Digits(in.CardNumber)

	p := New(pos.UUID, in.Amount, in.VerificationCode, expiration)
	hash, err := bcrypt.GenerateFromPassword([]byte(rawPAN), bcryptCost)
	if err != nil {
		return ProcessResult{}, fmt.Errorf("hash card number: %w", err)
	}
	p.CardNumberHash = string(hash)
	p.MaskedCardNumber = card.Mask(rawPAN)

	if err := s.payments.Create(ctx, p); err != nil {
		return ProcessResult{}, fmt.Errorf("persist payment: %w", err)
	}
	s.publish(ctx, p)

	issuingBank, err := s.resolveIssuingBank(ctx, rawPAN)
	if err != nil {
		return ProcessResult{}, err
	}
	p.BankUUID = issuingBank.UUID

	authResp, err := s.authenticateAndUpdate(ctx, &p, rawPAN, issuingBank)
	if err != nil {
		return ProcessResult{}, err
	}

	if threeds.Approved(authResp.StatusCode) {
		if authResp.IsEnrolled {
			// Suspend until the challenge-result callback arrives.
			return ProcessResult{Payment: p, RedirectURL: authResp.RedirectURL + "/" + authResp.UUID}, nil
		}
		if err := s.authorizeAndUpdate(ctx, &p, rawPAN, client, issuingBank); err != nil {
			return ProcessResult{}, err
		}
	}

	return ProcessResult{Payment: p}, nil
}

func (s *Service) validateCard(in ProcessInput) (time.Time, error) {
	if !card.IsNumberValid(in.CardNumber) || card.Blacklisted(in.CardNumber) {
		return time.Time{}, apierrors.NotAcceptable(apierrors.CodeCardNotValid)
	}
	expiration, err := card.ParseExpiration(in.ExpirationDate, s.now())
	if err != nil {
		return time.Time{}, apierrors.Validation("card expiration date must be formatted as MM/YY")
	}
	if card.IsExpired(expiration, s.now()) {
		return time.Time{}, apierrors.NotAcceptable(apierrors.CodeCardExpired)
	}
	return expiration, nil
}

func (s *Service) resolveIssuingBank(ctx context.Context, rawPAN string) (bank.Bank, error) {
	if len(rawPAN) < binLength {
		return bank.Bank{}, apierrors.NotAcceptable(apierrors.CodeCardNotSupported)
	}
	bin, err := strconv.Atoi(rawPAN[:binLength])
	if err != nil {
		return bank.Bank{}, apierrors.NotAcceptable(apierrors.CodeCardNotSupported)
	}
	issuingBank, err := s.banks.ByBIN(ctx, bin)
	if err != nil {
		if errors.Is(err, bank.ErrNotFound) {
			return bank.Bank{}, apierrors.NotAcceptable(apierrors.CodeCardNotSupported)
		}
		return bank.Bank{}, err
	}
	return issuingBank, nil
}

func (s *Service) authenticateAndUpdate(ctx context.Context, p *Payment, rawPAN string, issuingBank bank.Bank) (threeds.AuthenticationResponse, error) {
	var resp threeds.AuthenticationResponse
	err := logging.Operation(s.logger, "3ds-authenticate", func() error {
		var authErr error
		resp, authErr = s.authenticator.Authenticate(ctx, *p, rawPAN, issuingBank)
		return authErr
	})
	if err != nil {
		s.transition(ctx, p, StatusAuthenticationError)
		return threeds.AuthenticationResponse{}, apierrors.Upstream(err, "issuing bank authentication failed")
	}

	if threeds.Approved(resp.StatusCode) {
		s.transition(ctx, p, StatusAuthenticationSuccessful)
	} else {
		s.transition(ctx, p, StatusAuthenticationRejected)
	}
	return resp, nil
}

func (s *Service) authorizeAndUpdate(ctx context.Context, p *Payment, debitPAN string, client merchant.Client, issuingBank bank.Bank) error {
	var resp threeds.AuthorizationResponse
	err := logging.Operation(s.logger, "authorize", func() error {
		var authErr error
		resp, authErr = s.authorizer.Authorize(ctx, *p, debitPAN, client, issuingBank)
		return authErr
	})
	if err != nil {
		s.transition(ctx, p, StatusAuthorizationError)
		return apierrors.Upstream(err, "issuing bank authorization failed")
	}

	if threeds.Approved(resp.StatusCode) {
		s.transition(ctx, p, StatusAuthorizationSuccessful)
	} else {
		s.transition(ctx, p, StatusAuthorizationRejected)
	}
	return nil
}

// ChallengeResultInput is the issuing bank's step-up outcome delivery.
type ChallengeResultInput struct {
	UUID       string
	Status     string
	StatusCode int
	Message    string
}

// ChallengeResult is the asynchronous re-entry point invoked by the issuing
// bank once the payer completes the step-up challenge. Payments already in a
// terminal authorization state are left untouched, which makes duplicate
// deliveries safe.
func (s *Service) ChallengeResult(ctx context.Context, in ChallengeResultInput) error {
	p, err := s.payments.ByUUID(ctx, in.UUID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return apierrors.NotAcceptable(apierrors.CodePaymentNotFound)
		}
		return err
	}

	if p.Status.TerminalAuthorization() {
		s.logger.Info("duplicate challenge result ignored",
			slog.String("payment_uuid", p.UUID),
			slog.String("status", string(p.Status)),
		)
		return nil
	}
	if !p.Status.AwaitingChallenge() {
		// Rejected, errored and already-challenged attempts stay where they
		// are; a late or forged delivery must not move them toward success.
		s.logger.Info("challenge result ignored for payment not awaiting challenge",
			slog.String("payment_uuid", p.UUID),
			slog.String("status", string(p.Status)),
		)
		return nil
	}

	if threeds.Approved(in.StatusCode) {
		s.transition(ctx, &p, StatusChallengeSuccessful)
	} else {
		s.transition(ctx, &p, StatusChallengeUnsuccessful)
		return nil
	}

	client, err := s.merchants.Owner(ctx, p.PosUUID)
	if err != nil {
		return err
	}
	issuingBank, err := s.banks.ByUUID(ctx, p.BankUUID)
	if err != nil {
		if errors.Is(err, bank.ErrNotFound) {
			return apierrors.NotAcceptable(apierrors.CodeBankNotValid)
		}
		return err
	}

	// The raw PAN is gone once the initiating request finishes; the masked
	// form identifies the card on the deferred authorization.
	return s.authorizeAndUpdate(ctx, &p, p.MaskedCardNumber, client, issuingBank)
}

// RedirectURL resolves the merchant redirect target for a completed payment:
// the owning client's configured URL plus the payment identifier.
func (s *Service) RedirectURL(ctx context.Context, paymentUUID string) (string, error) {
	p, err := s.payments.ByUUID(ctx, paymentUUID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", apierrors.NotAcceptable(apierrors.CodePaymentNotFound)
		}
		return "", err
	}
	client, err := s.merchants.Owner(ctx, p.PosUUID)
	if err != nil {
		return "", err
	}
	return client.RedirectURL + "/" + p.UUID, nil
}

// ByUUID exposes payment lookup for handlers.
func (s *Service) ByUUID(ctx context.Context, paymentUUID string) (Payment, error) {
	p, err := s.payments.ByUUID(ctx, paymentUUID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Payment{}, apierrors.NotAcceptable(apierrors.CodePaymentNotFound)
		}
		return Payment{}, err
	}
	return p, nil
}

// transition persists a forward status change and publishes the event. A
// persistence failure here is logged rather than propagated: the status
// decision has been made and the caller still owes the merchant an answer.
func (s *Service) transition(ctx context.Context, p *Payment, status Status) {
	p.Status = status
	p.UpdatedAt = s.now()
	if err := s.payments.Update(ctx, *p); err != nil {
		s.logger.Error("persist status transition",
			slog.String("payment_uuid", p.UUID),
			slog.String("status", string(status)),
			slog.Any("error", err),
		)
		return
	}
	s.publish(ctx, *p)
}

func (s *Service) publish(ctx context.Context, p Payment) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event.PaymentEvent{
		PaymentUUID: p.UUID,
		Status:      string(p.Status),
		OccurredAt:  p.UpdatedAt,
	}); err != nil {
		s.logger.Warn("publish payment event", slog.String("payment_uuid", p.UUID), slog.Any("error", err))
	}
}
