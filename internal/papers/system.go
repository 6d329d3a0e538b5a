package papers

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/taxon/pkg/pagination"
)

// System defines the public contract for paper domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Paper], error)

	Find(ctx context.Context, id uuid.UUID) (*Paper, error)
	Create(ctx context.Context, cmd CreateCommand) (*Paper, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
