package papers

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/taxon/internal/classifications"
)

// Domain errors for paper operations.
var (
	ErrNotFound  = errors.New("paper not found")
	ErrDuplicate = errors.New("paper already exists")
	ErrInvalid   = errors.New("invalid paper")
)

// MapHTTPStatus maps paper domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalid) || errors.Is(err, classifications.ErrUnknownCode) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
