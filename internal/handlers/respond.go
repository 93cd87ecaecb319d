package handlers

import (
	"errors"
	"fmt"
	"log"

	"sweetshop/internal/pricing"
	"sweetshop/internal/repositories"
	"sweetshop/internal/services"
	"sweetshop/pkg/payment"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// requestError is a malformed or invalid request body.
type requestError struct {
	msg    string
	fields map[string]string
}

func (e *requestError) Error() string { return e.msg }

// bind parses the JSON body into v and runs its validate tags.
func bind(c *fiber.Ctx, v interface{}) error {
	if err := c.BodyParser(v); err != nil {
		return &requestError{msg: "Invalid request body"}
	}
	if err := validate.Struct(v); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return &requestError{msg: err.Error()}
		}
		fields := make(map[string]string)
		for _, e := range validationErrors {
			fields[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return &requestError{msg: "Validation failed", fields: fields}
	}
	return nil
}

// statusOf maps domain errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, repositories.ErrNotFound), errors.Is(err, pricing.ErrCouponNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrConflict),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrAlreadySubscribed):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, payment.ErrVerificationFailed):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrPaymentFailed):
		return fiber.StatusPaymentRequired
	case errors.Is(err, services.ErrPaymentGatewayUnavailable):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrProductUnavailable),
		errors.Is(err, services.ErrAddressRequired),
		errors.Is(err, services.ErrPaymentMethodDisabled),
		errors.Is(err, services.ErrTicketClosed),
		errors.Is(err, pricing.ErrCouponExpired),
		errors.Is(err, pricing.ErrCouponLimitReached),
		errors.Is(err, pricing.ErrCouponMinOrderNotMet):
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}

// writeError renders err as {"error": ...}. Unexpected errors are logged and
// their details hidden from the client.
func writeError(c *fiber.Ctx, err error) error {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		body := fiber.Map{"error": reqErr.msg}
		if len(reqErr.fields) > 0 {
			body["fields"] = reqErr.fields
		}
		return c.Status(fiber.StatusBadRequest).JSON(body)
	}

	status := statusOf(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		log.Printf("Error handling %s %s: %v", c.Method(), c.Path(), err)
		msg = "Internal server error"
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// ErrorHandler renders errors returned by handlers and Fiber itself.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}
	return writeError(c, err)
}

// page is a slice of results with the total match count.
type page struct {
	Data  interface{} `json:"data"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

func pagination(c *fiber.Ctx) (int, int) {
	p := c.QueryInt("page", 1)
	if p < 1 {
		p = 1
	}
	l := c.QueryInt("limit", 20)
	if l < 1 {
		l = 20
	}
	if l > 100 {
		l = 100
	}
	return p, l
}
