package payment

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/paygs/paygs/internal/apierrors"
	"github.com/paygs/paygs/internal/middleware"
)

// Handler exposes the payment endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a payment handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type paymentRequest struct {
	PosUUID          string `json:"posUuid"`
	Amount           int64  `json:"amount"`
	CardNumber       string `json:"cardNumber"`
	ExpirationDate   string `json:"expirationDate"`
	VerificationCode int    `json:"verificationCode"`
}

type paymentResponse struct {
	UUID   string `json:"uuid"`
	Status Status `json:"status"`
}

type challengeResultRequest struct {
	UUID       string `json:"uuid"`
	Status     string `json:"status"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// Create handles POST /payments: either the finalized payment with 201, or a
// 302 redirect to the bank's step-up page when the card is enrolled.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req paymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.PosUUID == "" || req.CardNumber == "" || req.ExpirationDate == "" {
		return apierrors.Validation("posUuid, cardNumber and expirationDate are required")
	}
	if req.Amount <= 0 {
		return apierrors.Validation("amount must be positive")
	}

	result, err := h.service.Process(c.UserContext(), middleware.CallerID(c), ProcessInput{
		PosUUID:          req.PosUUID,
		Amount:           req.Amount,
		CardNumber:       req.CardNumber,
		ExpirationDate:   req.ExpirationDate,
		VerificationCode: req.VerificationCode,
	})
	if err != nil {
		return err
	}

	if result.RedirectURL != "" {
		return c.Redirect(result.RedirectURL, http.StatusFound)
	}

	return c.Status(http.StatusCreated).JSON(paymentResponse{
		UUID:   result.Payment.UUID,
		Status: result.Payment.Status,
	})
}

// ChallengeResult handles POST /result, the issuing bank's step-up outcome.
func (h *Handler) ChallengeResult(c *fiber.Ctx) error {
	var req challengeResultRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.UUID == "" {
		return apierrors.Validation("uuid is required")
	}

	if err := h.service.ChallengeResult(c.UserContext(), ChallengeResultInput{
		UUID:       req.UUID,
		Status:     req.Status,
		StatusCode: req.StatusCode,
		Message:    req.Message,
	}); err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{})
}

// Redirect handles GET /redirect/:uuid, sending the payer back to the owning
// merchant's configured redirect URL.
func (h *Handler) Redirect(c *fiber.Ctx) error {
	url, err := h.service.RedirectURL(c.UserContext(), c.Params("uuid"))
	if err != nil {
		return err
	}
	return c.Redirect(url, http.StatusFound)
}
