package predictions

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/coursecast/internal/inference"
	"github.com/JaimeStill/coursecast/pkg/repository"
)

// Domain errors for prediction operations.
var (
	ErrNotFound        = errors.New("prediction not found")
	ErrDuplicate       = errors.New("prediction already exists")
	ErrHistoryDisabled = errors.New("prediction history is disabled")
	ErrInvalidID       = errors.New("invalid prediction id")
	ErrInvalidBody     = errors.New("invalid request body")
)

// dbErrors translates history table failures. A check constraint rejects
// values validation should have caught, so it reads as invalid input.
var dbErrors = repository.Errors{
	NotFound:   ErrNotFound,
	Duplicate:  ErrDuplicate,
	Constraint: inference.ErrInvalidInput,
}

// MapHTTPStatus maps prediction and inference errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrHistoryDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrInvalidID), errors.Is(err, ErrInvalidBody):
		return http.StatusBadRequest
	}
	return inference.MapHTTPStatus(err)
}
