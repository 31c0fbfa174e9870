package merchant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/paygs/paygs/internal/apierrors"
	"github.com/paygs/paygs/internal/bank"
)

// Service implements registry operations and the ownership checks the payment
// flow relies on.
type Service struct {
	repo   Repository
	banks  bank.Repository
	logger *slog.Logger
}

// NewService builds a registry service.
func NewService(repo Repository, banks bank.Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, banks: banks, logger: logger}
}

// CreateClientInput captures a client onboarding request.
type CreateClientInput struct {
	Name               string
	Address            string
	PAN                string
	Active             bool
	Threshold          *int64
	RedirectURL        string
	BankUUID           string
	SupportedCardTypes []string
}

// UpdateClientInput captures a client update. It is a distinct type rather
// than an extension of CreateClientInput; both share validateClientInput.
type UpdateClientInput struct {
	UUID               string
	Name               string
	Address            string
	PAN                string
	Active             bool
	Threshold          *int64
	RedirectURL        string
	BankUUID           string
	SupportedCardTypes []string
}

// CreatePosInput captures a point-of-sale creation request.
type CreatePosInput struct {
	Active     bool
	ClientUUID string
}

func validateClientInput(name, address, redirectURL, bankUUID string, cardTypes []string) error {
	if name == "" || address == "" || redirectURL == "" {
		return apierrors.Validation("name, address and redirectURL are required")
	}
	if bankUUID == "" {
		return apierrors.NotAcceptable(apierrors.CodeBankNotValid)
	}
	if len(cardTypes) == 0 {
		return apierrors.Validation("at least one supported card type is required")
	}
	return nil
}

// CreateClient verifies the settlement bank and card types, then persists the
// client together with its card-type associations.
func (s *Service) CreateClient(ctx context.Context, caller string, in CreateClientInput) (Client, error) {
	if err := validateClientInput(in.Name, in.Address, in.RedirectURL, in.BankUUID, in.SupportedCardTypes); err != nil {
		return Client{}, err
	}

	settlementBank, err := s.resolveBank(ctx, in.BankUUID)
	if err != nil {
		return Client{}, err
	}
	cardTypes, err := s.resolveCardTypes(ctx, in.SupportedCardTypes)
	if err != nil {
		return Client{}, err
	}

	c := Client{
		UUID:               uuid.NewString(),
		Name:               in.Name,
		Address:            in.Address,
		PAN:                in.PAN,
		Active:             in.Active,
		Threshold:          in.Threshold,
		RedirectURL:        in.RedirectURL,
		AuthSubject:        caller,
		BankUUID:           settlementBank.UUID,
		SupportedCardTypes: cardTypes,
		CreatedAt:          time.Now().UTC(),
	}

	if err := s.repo.CreateClient(ctx, c); err != nil {
		return Client{}, fmt.Errorf("create client: %w", err)
	}

	s.logger.Info("client created", slog.String("client_uuid", c.UUID), slog.String("name", c.Name))
	return c, nil
}

// UpdateClient applies an update after re-running the ownership check.
func (s *Service) UpdateClient(ctx context.Context, caller string, in UpdateClientInput) (Client, error) {
	if err := validateClientInput(in.Name, in.Address, in.RedirectURL, in.BankUUID, in.SupportedCardTypes); err != nil {
		return Client{}, err
	}

	existing, err := s.ClientByUUID(ctx, caller, in.UUID)
	if err != nil {
		return Client{}, err
	}

	settlementBank, err := s.resolveBank(ctx, in.BankUUID)
	if err != nil {
		return Client{}, err
	}
	cardTypes, err := s.resolveCardTypes(ctx, in.SupportedCardTypes)
	if err != nil {
		return Client{}, err
	}

	existing.Name = in.Name
	existing.Address = in.Address
	existing.PAN = in.PAN
	existing.Active = in.Active
	existing.Threshold = in.Threshold
	existing.RedirectURL = in.RedirectURL
	existing.BankUUID = settlementBank.UUID
	existing.SupportedCardTypes = cardTypes

	if err := s.repo.UpdateClient(ctx, existing); err != nil {
		return Client{}, fmt.Errorf("update client: %w", err)
	}
	return existing, nil
}

// ClientByUUID resolves a client and enforces that the caller owns it.
func (s *Service) ClientByUUID(ctx context.Context, caller, id string) (Client, error) {
	if !isUUIDValid(id) {
		return Client{}, apierrors.NotAcceptable(apierrors.CodeClientNotValid)
	}
	c, err := s.repo.ClientByUUID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Client{}, apierrors.NotAcceptable(apierrors.CodeClientNotFound)
		}
		return Client{}, err
	}
	if c.AuthSubject != caller {
		return Client{}, apierrors.Unauthorized()
	}
	return c, nil
}

// CreatePos attaches a new point of sale to a client owned by the caller.
func (s *Service) CreatePos(ctx context.Context, caller string, in CreatePosInput) (POS, error) {
	if !isUUIDValid(in.ClientUUID) {
		return POS{}, apierrors.NotAcceptable(apierrors.CodeClientNotValid)
	}
	c, err := s.repo.ClientByUUID(ctx, in.ClientUUID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return POS{}, apierrors.NotAcceptable(apierrors.CodeClientNotValid)
		}
		return POS{}, err
	}
	if c.AuthSubject != caller {
		return POS{}, apierrors.Unauthorized()
	}

	p := POS{
		UUID:       uuid.NewString(),
		Active:     in.Active,
		ClientUUID: c.UUID,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.CreatePos(ctx, p); err != nil {
		return POS{}, fmt.Errorf("create pos: %w", err)
	}
	return p, nil
}

// AuthorizePos resolves a POS reference for a payment and verifies the owning
// client matches the caller's identity.
func (s *Service) AuthorizePos(ctx context.Context, caller, posUUID string) (POS, Client, error) {
	if !isUUIDValid(posUUID) {
		return POS{}, Client{}, apierrors.NotAcceptable(apierrors.CodePosNotValid)
	}
	p, err := s.repo.PosByUUID(ctx, posUUID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return POS{}, Client{}, apierrors.NotAcceptable(apierrors.CodePosNotValid)
		}
		return POS{}, Client{}, err
	}
	c, err := s.repo.ClientByUUID(ctx, p.ClientUUID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return POS{}, Client{}, apierrors.NotAcceptable(apierrors.CodePosNotValid)
		}
		return POS{}, Client{}, err
	}
	if c.AuthSubject != caller {
		return POS{}, Client{}, apierrors.Unauthorized()
	}
	return p, c, nil
}

// Owner returns the client owning a POS without a caller check; used by the
// asynchronous callback path where the issuing bank, not the merchant, is the
// caller.
func (s *Service) Owner(ctx context.Context, posUUID string) (Client, error) {
	p, err := s.repo.PosByUUID(ctx, posUUID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Client{}, apierrors.NotAcceptable(apierrors.CodePosNotValid)
		}
		return Client{}, err
	}
	c, err := s.repo.ClientByUUID(ctx, p.ClientUUID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Client{}, apierrors.NotAcceptable(apierrors.CodeClientNotFound)
		}
		return Client{}, err
	}
	return c, nil
}

func (s *Service) resolveBank(ctx context.Context, id string) (bank.Bank, error) {
	if !isUUIDValid(id) {
		return bank.Bank{}, apierrors.NotAcceptable(apierrors.CodeBankNotValid)
	}
	b, err := s.banks.ByUUID(ctx, id)
	if err != nil {
		if errors.Is(err, bank.ErrNotFound) {
			return bank.Bank{}, apierrors.NotAcceptable(apierrors.CodeBankNotValid)
		}
		return bank.Bank{}, err
	}
	return b, nil
}

func (s *Service) resolveCardTypes(ctx context.Context, ids []string) ([]CardType, error) {
	resolved := make([]CardType, 0, len(ids))
	for _, id := range ids {
		if !isUUIDValid(id) {
			return nil, apierrors.NotAcceptable(apierrors.CodeCardTypeNotValid)
		}
		ct, err := s.repo.CardTypeByUUID(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, apierrors.NotAcceptable(apierrors.CodeCardTypeNotValid)
			}
			return nil, err
		}
		resolved = append(resolved, ct)
	}
	return resolved, nil
}

func isUUIDValid(id string) bool {
	parsed, err := uuid.Parse(id)
	return err == nil && parsed != uuid.Nil && len(id) == 36
}
