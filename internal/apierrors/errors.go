package apierrors

import (
	"errors"
	"fmt"
)

// Kind classifies an API error so the HTTP layer can map it to a status code
// without inspecting message text.
type Kind int

const (
	// KindValidation marks malformed input: bad formats, missing fields.
	KindValidation Kind = iota
	// KindNotAcceptable marks a business-rule violation with a coded message.
	KindNotAcceptable
	// KindUnauthorized marks a caller that does not own the referenced resource.
	KindUnauthorized
	// KindUpstream marks a transport failure or timeout talking to the issuing bank.
	KindUpstream
)

// Coded message catalog shared with merchant integrations. The codes are part
// of the public contract and must stay stable.
const (
	CodeClientNotFound    = "ERR1"
	CodeClientNotValid    = "ERR2"
	CodePosNotValid       = "ERR3"
	CodeCardNotValid      = "ERR4"
	CodeCardExpired       = "ERR5"
	CodeCardTypeNotValid  = "ERR6"
	CodeCardNotSupported  = "ERR7"
	CodeAmountExceeded    = "ERR8"
	CodeBankNotValid      = "ERR9"
	CodeUnexpected        = "ERR10"
	CodePaymentNotFound   = "ERR11"
)

var messages = map[string]string{
	CodeClientNotFound:   "Client Not Found",
	CodeClientNotValid:   "Client Not Valid",
	CodePosNotValid:      "Pos Not Valid",
	CodeCardNotValid:     "Card is Not Valid",
	CodeCardExpired:      "Card expired",
	CodeCardTypeNotValid: "Card Type Not Valid",
	CodeCardNotSupported: "Card Not Supported",
	CodeAmountExceeded:   "Amount exceeds permitted limit",
	CodeBankNotValid:     "Bank Not Valid",
	CodeUnexpected:       "Unexpected Error occurred",
	CodePaymentNotFound:  "Payment Not Found",
}

// Error is the API-facing error type carried from services to the HTTP layer.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Validation builds a malformed-input error.
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotAcceptable builds a business-rule error from the coded catalog.
func NotAcceptable(code string) *Error {
	return &Error{Kind: KindNotAcceptable, Code: code, Message: messages[code]}
}

// Unauthorized builds an ownership error.
func Unauthorized() *Error {
	return &Error{Kind: KindUnauthorized, Message: "caller does not own the referenced resource"}
}

// Upstream wraps a transport failure against the issuing bank.
func Upstream(cause error, format string, args ...any) *Error {
	return &Error{Kind: KindUpstream, Message: fmt.Sprintf(format, args...), cause: cause}
}

// HasCode reports whether err is an API error carrying the given code.
func HasCode(err error, code string) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Code == code
}
