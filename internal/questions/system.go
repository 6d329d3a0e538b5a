package questions

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/taxon/pkg/pagination"
)

// System defines the public contract for question domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Question], error)

	Find(ctx context.Context, id uuid.UUID) (*Question, error)
	Create(ctx context.Context, cmd CreateCommand) (*Question, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
