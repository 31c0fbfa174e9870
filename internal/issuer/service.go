package issuer

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/paygs/paygs/internal/threeds"
)

const otpLength = 6

// Rejection reasons for OTP validation. They are distinguishable for
// diagnostics even though the payer sees a generic failure.
var (
	ErrSessionExpired = errors.New("authentication session expired")
	ErrOTPMismatch    = errors.New("one-time passcode mismatch")
)

// Service simulates an issuing bank: it enrolls every card in the step-up
// challenge, issues one-time passcodes and reports challenge outcomes back to
// the requesting gateway.
type Service struct {
	store       SessionStore
	otpWindow   time.Duration
	validateURL string
	callback    *http.Client
	logger      *slog.Logger
	now         func() time.Time
}

// NewService builds the simulator. validateURL is the public base of the OTP
// entry endpoint; otpWindow bounds how long a passcode stays valid.
func NewService(store SessionStore, otpWindow time.Duration, validateURL string, callbackTimeout time.Duration, logger *slog.Logger) *Service {
	return &Service{
		store:       store,
		otpWindow:   otpWindow,
		validateURL: validateURL,
		callback:    &http.Client{Timeout: callbackTimeout},
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Authenticate opens an OTP session for the payment and reports the card as
// enrolled. Sessions are keyed by the payment identifier so the gateway's
// redirect and the later OTP entry resolve to the same session.
func (s *Service) Authenticate(ctx context.Context, req threeds.AuthenticationRequest) (threeds.AuthenticationResponse, error) {
	otp, err := generateOTP()
	if err != nil {
		return threeds.AuthenticationResponse{}, fmt.Errorf("generate otp: %w", err)
	}

	sess := Session{Request: req, OTP: otp, IssuedAt: s.now()}
	if err := s.store.Put(ctx, req.UUID, sess); err != nil {
		return threeds.AuthenticationResponse{}, fmt.Errorf("store session: %w", err)
	}

	// The simulator has no delivery channel, so the passcode goes to the log.
	s.logger.Info("generated otp", slog.String("session", req.UUID), slog.String("otp", otp))

	return threeds.AuthenticationResponse{
		UUID:        req.UUID,
		Status:      threeds.StatusSuccess,
		StatusCode:  threeds.CodeSuccess,
		Message:     "Authentication successful",
		IsEnrolled:  true,
		RedirectURL: s.validateURL,
	}, nil
}

// Authorize approves every authorization request.
func (s *Service) Authorize(_ context.Context, _ threeds.AuthorizationRequest) threeds.AuthorizationResponse {
	return threeds.AuthorizationResponse{
		UUID:       uuid.NewString(),
		Status:     threeds.StatusSuccess,
		StatusCode: threeds.CodeSuccess,
		Message:    "Authorization successful",
	}
}

// ValidateOTP checks the submitted passcode against the session. On success
// it marks the session validated, posts the challenge result to the
// gateway's callback URL and returns the payer-facing redirect target.
// Expiry is an elapsed-time comparison against the issue timestamp; the
// store's own eviction is only an optimization.
func (s *Service) ValidateOTP(ctx context.Context, id, otp string) (string, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return "", err
	}

	if s.now().Sub(sess.IssuedAt) > s.otpWindow {
		return "", ErrSessionExpired
	}
	if sess.OTP != otp {
		return "", ErrOTPMismatch
	}

	sess.Validated = true
	if err := s.store.Put(ctx, id, sess); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	if err := s.deliverChallengeResult(ctx, sess.Request); err != nil {
		return "", fmt.Errorf("deliver challenge result: %w", err)
	}

	return sess.Request.RedirectURL + "/" + sess.Request.UUID, nil
}

func (s *Service) deliverChallengeResult(ctx context.Context, req threeds.AuthenticationRequest) error {
	result := threeds.ChallengeResult{
		UUID:       req.UUID,
		Status:     threeds.StatusSuccess,
		StatusCode: threeds.CodeSuccess,
		Message:    "success",
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.ChallengeResultURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.callback.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("callback returned status %d", resp.StatusCode)
	}
	return nil
}

func generateOTP() (string, error) {
	digits := make([]byte, otpLength)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}
