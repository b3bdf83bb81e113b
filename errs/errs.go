package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds shared across the service layer. Handlers translate them to
// HTTP statuses with StatusCode; everything else maps to 500.
var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrValidation       = errors.New("validation failed")
	ErrDeliveryFailure  = errors.New("delivery failed")
	ErrStoreUnavailable = errors.New("store unavailable")
)

func NotFound(what, id string) error {
	return fmt.Errorf("%s %q: %w", what, id, ErrNotFound)
}

func Forbidden(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrForbidden)
}

func Validation(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrValidation)
}

func Store(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, ErrStoreUnavailable)
}

func Delivery(userID string, err error) error {
	return fmt.Errorf("user %s: %v: %w", userID, err, ErrDeliveryFailure)
}

func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
