package questions

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/taxon/internal/classifications"
)

// Domain errors for question operations.
var (
	ErrNotFound  = errors.New("question not found")
	ErrDuplicate = errors.New("question already exists")
	ErrInvalid   = errors.New("invalid question")
)

// MapHTTPStatus maps question domain errors to appropriate HTTP status codes.
// Unknown classification codes are client errors.
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
