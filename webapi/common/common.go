// Package common holds the HTTP plumbing shared by the route packages:
// RFC 9457 problem responses, request binding and validation, and the
// mapping from domain errors to status codes.
package common

import (
	"errors"
	"strings"

	"github.com/amirasaad/cpfledger/pkg/domain"
	"github.com/amirasaad/cpfledger/pkg/domain/account"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CPFHeader is the request header that identifies the customer.
const CPFHeader = "cpf"

// Transport errors.
var (
	ErrMissingCPF  = errors.New("missing cpf header")
	ErrInvalidBody = errors.New("invalid request body")
	ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")
)

// MIMEProblemJSON is the content type of every error response.
const MIMEProblemJSON = "application/problem+json"

var knownErrors = []error{
	domain.ErrAccountNotFound,
	domain.ErrDuplicateAccount,
	domain.ErrInsufficientFunds,
	domain.ErrNegativeAmount,
	domain.ErrValidation,
	domain.ErrNilAccount,
	ErrMissingCPF,
	ErrInvalidBody,
	ErrInvalidDate,
}

// ProblemDetails follows RFC 9457 Problem Details for HTTP APIs.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`     // A URI reference that identifies the problem type
	Title    string `json:"title"`              // Short, human-readable summary
	Status   int    `json:"status"`             // HTTP status code
	Detail   string `json:"detail,omitempty"`   // Human-readable explanation
	Instance string `json:"instance,omitempty"` // URI reference that identifies the specific occurrence
	Errors   any    `json:"errors,omitempty"`   // Optional: additional error details
}

// ProblemDetailsJSON writes a problem+json response for err. The status is
// derived from err unless an int is passed in extras; a string in extras
// replaces the detail, and any other value is reported under "errors".
func ProblemDetailsJSON(c *fiber.Ctx, title string, err error, extras ...any) error {
	pd := ProblemDetails{
		Type:   "about:blank",
		Title:  title,
		Status: fiber.StatusBadRequest,
	}
	if err != nil {
		pd.Status = ErrorToStatusCode(err)
		pd.Detail = detailFor(err)
	}
	for _, extra := range extras {
		switch v := extra.(type) {
		case int:
			pd.Status = v
		case string:
			pd.Detail = v
		case nil:
		default:
			pd.Errors = v
		}
	}
	pd.Instance = c.OriginalURL()
	return c.Status(pd.Status).JSON(pd, MIMEProblemJSON)
}

// detailFor reports the message of the known error err wraps, so the
// internal wrap chain stays out of responses.
func detailFor(err error) string {
	for _, known := range knownErrors {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return err.Error()
}

// ErrorToStatusCode maps domain errors to appropriate HTTP status codes.
func ErrorToStatusCode(err error) int {
	var fe *fiber.Error
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateAccount),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrNegativeAmount),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, ErrMissingCPF),
		errors.Is(err, ErrInvalidBody),
		errors.Is(err, ErrInvalidDate):
		return fiber.StatusBadRequest
	case errors.As(err, &fe):
		return fe.Code
	default:
		return fiber.StatusInternalServerError
	}
}

var validate = validator.New()

// BindAndValidate parses the request body and validates it using go-playground/validator.
// On failure it writes the problem response and returns a nil input together
// with the result of writing it.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, ProblemDetailsJSON(c, "Invalid request body", ErrInvalidBody, err.Error())
	}
	if err := validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[strings.ToLower(fe.Field())] = fe.Tag()
			}
			return nil, ProblemDetailsJSON(c, "Validation failed", domain.ErrValidation, err.Error(), fields)
		}
		return nil, ProblemDetailsJSON(c, "Validation failed", domain.ErrValidation, err.Error())
	}
	return &input, nil
}

// CPF returns the customer identifier carried by the request header.
func CPF(c *fiber.Ctx) (string, error) {
	cpf := account.NormalizeCPF(c.Get(CPFHeader))
	if cpf == "" {
		return "", ErrMissingCPF
	}
	return cpf, nil
}
