package classifications

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/JaimeStill/taxon/internal/references"
)

// Domain errors for classification operations.
var (
	ErrNotFound  = errors.New("classification not found")
	ErrDuplicate = errors.New("classification already exists")
	ErrInvalid   = errors.New("invalid classification")
	ErrInUse     = errors.New("classification is in use")
)

// DependencyError reports the downstream rows that block a delete.
// It matches ErrInUse with errors.Is.
type DependencyError struct {
	Type         references.Type   `json:"type"`
	Code         string            `json:"code"`
	Dependencies references.Counts `json:"dependencies"`
}

func (e *DependencyError) Error() string {
	names := make([]string, 0, len(e.Dependencies))
	for name := range e.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%d", name, e.Dependencies[name])
	}

	return fmt.Sprintf("%s: %s %s referenced by %s", ErrInUse, e.Type, e.Code, strings.Join(parts, ", "))
}

func (e *DependencyError) Unwrap() error {
	return ErrInUse
}

// MapHTTPStatus maps classification domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrInUse):
		return http.StatusConflict
	case errors.Is(err, ErrInvalid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// outcome labels err for the operations counter.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInUse):
		return "in_use"
	case errors.Is(err, ErrDuplicate):
		return "conflict"
	case errors.Is(err, ErrInvalid):
		return "invalid"
	default:
		return "error"
	}
}
