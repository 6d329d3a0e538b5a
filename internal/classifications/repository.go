package classifications

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/taxon/internal/references"
	"github.com/JaimeStill/taxon/pkg/metrics"
	"github.com/JaimeStill/taxon/pkg/pagination"
	"github.com/JaimeStill/taxon/pkg/repository"
)

type repo struct {
	db         *sql.DB
	engine     *references.Engine
	guard      func(http.Handler) http.Handler
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates the classification registry. guard wraps the mutating
// endpoints and may be nil.
func New(
	db *sql.DB,
	engine *references.Engine,
	guard func(http.Handler) http.Handler,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		engine:     engine,
		guard:      guard,
		logger:     logger.With("system", "classifications"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.guard, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Classification], error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	page.Normalize(r.pagination)

	items, total, err := bind(r.db).List(ctx, page, filters)
	if err != nil {
		return nil, err
	}

	result := pagination.ResultFor(items, total, page)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Classification, error) {
	c, err := bind(r.db).Find(ctx, id)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &c, nil
}

func (r *repo) FindByCode(ctx context.Context, t references.Type, code string) (*Classification, error) {
	c, err := bind(r.db).FindByCode(ctx, t, Normalize(code))
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &c, nil
}

func (r *repo) Dependencies(ctx context.Context, id uuid.UUID) (references.Counts, error) {
	c, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	counts, err := r.engine.CountConcurrent(ctx, r.db, c.Type, c.Code)
	if err != nil {
		return nil, fmt.Errorf("count dependencies: %w", err)
	}
	return counts, nil
}

func (r *repo) Summary(ctx context.Context) (*Summary, error) {
	counts, err := bind(r.db).CountByType(ctx)
	if err != nil {
		return nil, fmt.Errorf("count classifications by type: %w", err)
	}

	s := &Summary{ByType: counts}
	for _, n := range counts {
		s.Total += n
	}
	return s, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (_ *Classification, err error) {
	defer func() { metrics.Operations.WithLabelValues("create", outcome(err)).Inc() }()

	if err := cmd.validate(); err != nil {
		return nil, err
	}

	row := insertRow{
		Type:     cmd.Type,
		Name:     strings.TrimSpace(cmd.Name),
		Code:     deriveCode(cmd.Name, cmd.Code),
		Metadata: metadataArg(cmd.Metadata),
		IsActive: true,
	}
	if cmd.SortOrder != nil {
		row.SortOrder = *cmd.SortOrder
	}
	if cmd.IsActive != nil {
		row.IsActive = *cmd.IsActive
	}
	if err := checkCodeLength(row.Code); err != nil {
		return nil, err
	}

	c, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Classification, error) {
		s := bind(tx)

		if err := r.checkName(ctx, s, row.Type, row.Name, nil); err != nil {
			return Classification{}, err
		}
		if err := r.checkCode(ctx, s, row.Type, row.Code, nil); err != nil {
			return Classification{}, err
		}

		return s.Insert(ctx, row)
	})
	if err != nil {
		return nil, r.mapError(err)
	}

	r.logger.Info("classification created",
		"id", c.ID,
		"type", c.Type,
		"code", c.Code,
	)
	return &c, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (_ *Classification, err error) {
	defer func() { metrics.Operations.WithLabelValues("update", outcome(err)).Inc() }()

	if err := cmd.validate(); err != nil {
		return nil, err
	}

	var cascaded references.Counts
	var previous string

	c, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Classification, error) {
		s := bind(tx)

		current, err := s.Find(ctx, id)
		if err != nil {
			return Classification{}, err
		}

		if cmd.Type != nil && *cmd.Type != current.Type {
			return Classification{}, fmt.Errorf("%w: type cannot be changed", ErrInvalid)
		}

		p, err := r.plan(current, cmd)
		if err != nil {
			return Classification{}, err
		}

		if p.Name != nil {
			if err := r.checkName(ctx, s, current.Type, *p.Name, &current.ID); err != nil {
				return Classification{}, err
			}
		}

		if p.Code != nil {
			if err := r.checkCode(ctx, s, current.Type, *p.Code, &current.ID); err != nil {
				return Classification{}, err
			}

			previous = current.Code
			cascaded, err = r.engine.Cascade(ctx, tx, current.Type, current.Code, *p.Code)
			if err != nil {
				return Classification{}, err
			}
		}

		if p.empty() {
			return current, nil
		}
		return s.Update(ctx, current.ID, p)
	})
	if err != nil {
		return nil, r.mapError(err)
	}

	if previous != "" {
		references.RecordCascade(cascaded)
		r.logger.Info("classification code changed",
			"id", c.ID,
			"type", c.Type,
			"from", previous,
			"to", c.Code,
			"cascaded", cascaded,
		)
	}
	r.logger.Info("classification updated", "id", c.ID)
	return &c, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) (err error) {
	defer func() { metrics.Operations.WithLabelValues("delete", outcome(err)).Inc() }()

	c, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Classification, error) {
		s := bind(tx)

		current, err := s.Find(ctx, id)
		if err != nil {
			return Classification{}, err
		}

		deps, err := r.engine.Count(ctx, tx, current.Type, current.Code)
		if err != nil {
			return Classification{}, err
		}
		if !deps.Empty() {
			metrics.BlockedDeletes.WithLabelValues(string(current.Type)).Inc()
			return Classification{}, &DependencyError{
				Type:         current.Type,
				Code:         current.Code,
				Dependencies: deps,
			}
		}

		return current, s.Delete(ctx, current.ID)
	})
	if err != nil {
		return r.mapError(err)
	}

	r.logger.Info("classification deleted",
		"id", c.ID,
		"type", c.Type,
		"code", c.Code,
	)
	return nil
}

// plan computes the columns an update writes. A changed name derives a new
// code unless an explicit code is supplied; fields equal to the stored value
// are left out.
func (r *repo) plan(current Classification, cmd UpdateCommand) (patch, error) {
	var p patch

	if cmd.Name != nil {
		if name := strings.TrimSpace(*cmd.Name); name != current.Name {
			p.Name = &name
		}
	}

	var code string
	switch {
	case cmd.Code != nil:
		code = Normalize(*cmd.Code)
	case p.Name != nil:
		code = Normalize(*p.Name)
	default:
		code = current.Code
	}
	if err := checkCodeLength(code); err != nil {
		return p, err
	}
	if code != current.Code {
		p.Code = &code
	}

	if len(cmd.Metadata) > 0 {
		m := metadataArg(cmd.Metadata)
		p.Metadata = &m
	}
	if cmd.SortOrder != nil && *cmd.SortOrder != current.SortOrder {
		p.SortOrder = cmd.SortOrder
	}
	if cmd.IsActive != nil && *cmd.IsActive != current.IsActive {
		p.IsActive = cmd.IsActive
	}

	return p, nil
}

func (r *repo) checkName(ctx context.Context, s store, t references.Type, name string, exclude *uuid.UUID) error {
	n, err := s.CountByName(ctx, t, name, exclude)
	if err != nil {
		return fmt.Errorf("check name: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("%w: %s named %q", ErrDuplicate, t, name)
	}
	return nil
}

func (r *repo) checkCode(ctx context.Context, s store, t references.Type, code string, exclude *uuid.UUID) error {
	existing, err := s.FindByCode(ctx, t, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("check code: %w", err)
	}
	if exclude != nil && existing.ID == *exclude {
		return nil
	}
	return fmt.Errorf("%w: %s with code %s", ErrDuplicate, t, code)
}

// mapError translates store failures into domain errors. Domain errors
// pass through unchanged.
func (r *repo) mapError(err error) error {
	var depErr *DependencyError
	switch {
	case errors.As(err, &depErr):
		return depErr
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrInvalid), errors.Is(err, ErrNotFound):
		return err
	case repository.IsCheckViolation(err):
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return repository.MapError(err, ErrNotFound, ErrDuplicate)
}
