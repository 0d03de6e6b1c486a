package inference

import (
	"errors"
	"net/http"
)

// Pipeline errors. All but ErrArtifactLoad are per-request failures;
// ErrArtifactLoad is raised only by Load and aborts startup.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrSchemaMismatch    = errors.New("schema mismatch")
	ErrUnknownCategory   = errors.New("unknown category")
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrArtifactLoad      = errors.New("artifact load failure")
)

// MapHTTPStatus maps pipeline errors to HTTP status codes.
// Schema and dimension mismatches indicate a broken artifact bundle and
// surface as server errors.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrInvalidInput) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrUnknownCategory) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
