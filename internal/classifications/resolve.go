package classifications

import (
	"context"
	"errors"
	"fmt"

	"github.com/JaimeStill/taxon/internal/references"
)

// ErrUnknownCode reports a code that does not name an active classification
// of the expected type.
var ErrUnknownCode = errors.New("unknown classification code")

// Resolver looks up classifications by type and code. System satisfies it.
type Resolver interface {
	FindByCode(ctx context.Context, t references.Type, code string) (*Classification, error)
}

// ResolveCode returns the stored code of the active classification of type t
// matching code. Inactive and missing classifications yield ErrUnknownCode.
func ResolveCode(ctx context.Context, r Resolver, t references.Type, code string) (string, error) {
	c, err := r.FindByCode(ctx, t, code)
	if errors.Is(err, ErrNotFound) {
		return "", fmt.Errorf("%w: %s %q", ErrUnknownCode, t, code)
	}
	if err != nil {
		return "", fmt.Errorf("resolve %s %q: %w", t, code, err)
	}
	if !c.IsActive {
		return "", fmt.Errorf("%w: %s %q is inactive", ErrUnknownCode, t, code)
	}
	return c.Code, nil
}
