package classifications

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/taxon/internal/references"
	"github.com/JaimeStill/taxon/pkg/pagination"
)

// System defines the public contract for the classification registry.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Classification], error)

	Find(ctx context.Context, id uuid.UUID) (*Classification, error)
	FindByCode(ctx context.Context, t references.Type, code string) (*Classification, error)
	Dependencies(ctx context.Context, id uuid.UUID) (references.Counts, error)
	Summary(ctx context.Context) (*Summary, error)

	Create(ctx context.Context, cmd CreateCommand) (*Classification, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Classification, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
