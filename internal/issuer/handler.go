package issuer

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/paygs/paygs/internal/threeds"
)

// Handler exposes the issuing bank's protocol endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs an issuing bank handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register wires the peer-protocol routes onto the app.
func (h *Handler) Register(app *fiber.App) {
	app.Post("/authenticate", h.Authenticate)
	app.Post("/authorize", h.Authorize)
	app.Get("/validate-otp/:uuid", h.OTPForm)
	app.Post("/validate-otp", h.ValidateOTP)
}

// Authenticate handles POST /authenticate.
func (h *Handler) Authenticate(c *fiber.Ctx) error {
	var req threeds.AuthenticationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.UUID == "" {
		return fiber.NewError(http.StatusBadRequest, "uuid is required")
	}

	resp, err := h.service.Authenticate(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(resp)
}

// Authorize handles POST /authorize.
func (h *Handler) Authorize(c *fiber.Ctx) error {
	var req threeds.AuthorizationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(h.service.Authorize(c.UserContext(), req))
}

const otpFormTemplate = `<html>
  <body>
    <form method="post" action="/validate-otp">
      <input type="hidden" name="uuid" value="%s" />
      <input type="text" name="otp" />

      <button type="submit">Validate</button>
    </form>
  </body>
</html>`

// OTPForm handles GET /validate-otp/:uuid with the passcode entry form.
func (h *Handler) OTPForm(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(fmt.Sprintf(otpFormTemplate, c.Params("uuid")))
}

// ValidateOTP handles the form submission. Every rejection maps to 406 with
// a reason-specific message.
func (h *Handler) ValidateOTP(c *fiber.Ctx) error {
	id := c.FormValue("uuid")
	otp := c.FormValue("otp")

	redirect, err := h.service.ValidateOTP(c.UserContext(), id, otp)
	if err != nil {
		switch {
		case errors.Is(err, ErrSessionNotFound):
			return fiber.NewError(http.StatusNotAcceptable, "invalid session")
		case errors.Is(err, ErrSessionExpired):
			return fiber.NewError(http.StatusNotAcceptable, "timeout")
		case errors.Is(err, ErrOTPMismatch):
			return fiber.NewError(http.StatusNotAcceptable, "otp mismatch")
		default:
			return err
		}
	}

	return c.Redirect(redirect, http.StatusFound)
}
