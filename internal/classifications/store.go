package classifications

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/JaimeStill/taxon/internal/references"
	"github.com/JaimeStill/taxon/pkg/pagination"
	"github.com/JaimeStill/taxon/pkg/query"
	"github.com/JaimeStill/taxon/pkg/repository"
)

// store holds the SQL for the classifications table. It runs on whatever
// connection it is bound to, so service operations bind it to their
// transaction and reads bind it to the pool.
type store struct {
	conn repository.Conn
}

func bind(conn repository.Conn) store {
	return store{conn: conn}
}

type insertRow struct {
	Type      references.Type
	Code      string
	Name      string
	Metadata  any
	SortOrder int
	IsActive  bool
}

// patch is the closed set of updatable columns. Nil fields are not written.
type patch struct {
	Code      *string
	Name      *string
	Metadata  *any
	SortOrder *int
	IsActive  *bool
}

func (p patch) empty() bool {
	return p.Code == nil && p.Name == nil && p.Metadata == nil && p.SortOrder == nil && p.IsActive == nil
}

func (s store) Insert(ctx context.Context, row insertRow) (Classification, error) {
	q := fmt.Sprintf(`
		INSERT INTO %s (type, code, name, metadata, sort_order, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`,
		projection.Name(), projection.Returning(),
	)

	args := []any{string(row.Type), row.Code, row.Name, row.Metadata, row.SortOrder, row.IsActive}
	return repository.QueryOne(ctx, s.conn, q, args, scanClassification)
}

func (s store) Find(ctx context.Context, id uuid.UUID) (Classification, error) {
	q, args := query.NewBuilder(projection).BuildSingle("id", id)
	return repository.QueryOne(ctx, s.conn, q, args, scanClassification)
}

func (s store) FindByCode(ctx context.Context, t references.Type, code string) (Classification, error) {
	q, args := query.NewBuilder(projection).
		WhereEquals("type", string(t)).
		WhereEquals("code", code).
		BuildSingleOrNull()
	return repository.QueryOne(ctx, s.conn, q, args, scanClassification)
}

func (s store) List(ctx context.Context, page pagination.PageRequest, filters Filters) ([]Classification, int, error) {
	qb := query.
		NewBuilder(projection, defaultSort...).
		LeadWith(leadingSort).
		WhereSearch(page.Search, "name", "code")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	total, err := repository.QueryCount(ctx, s.conn, countSQL, countArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("count classifications: %w", err)
	}

	pageSQL, pageArgs := qb.BuildLimit(page.PageSize, page.Offset())
	items, err := repository.QueryMany(ctx, s.conn, pageSQL, pageArgs, scanClassification)
	if err != nil {
		return nil, 0, fmt.Errorf("query classifications: %w", err)
	}

	return items, int(total), nil
}

// CountByName counts rows of type t named name, ignoring the row excluded.
func (s store) CountByName(ctx context.Context, t references.Type, name string, exclude *uuid.UUID) (int64, error) {
	q := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE type = $1 AND name = $2", projection.Name())
	args := []any{string(t), name}

	if exclude != nil {
		q += " AND id <> $3"
		args = append(args, *exclude)
	}

	return repository.QueryCount(ctx, s.conn, q, args...)
}

func (s store) CountByType(ctx context.Context) (map[references.Type]int64, error) {
	q := fmt.Sprintf("SELECT type, COUNT(*) FROM %s GROUP BY type", projection.Name())

	type typeCount struct {
		t references.Type
		n int64
	}

	rows, err := repository.QueryMany(ctx, s.conn, q, nil, func(sc repository.Scanner) (typeCount, error) {
		var tc typeCount
		err := sc.Scan(&tc.t, &tc.n)
		return tc, err
	})
	if err != nil {
		return nil, err
	}

	counts := make(map[references.Type]int64, len(references.Types))
	for _, t := range references.Types {
		counts[t] = 0
	}
	for _, r := range rows {
		counts[r.t] = r.n
	}
	return counts, nil
}

func (s store) Update(ctx context.Context, id uuid.UUID, p patch) (Classification, error) {
	u := query.NewUpdate(projection.Name())

	if p.Code != nil {
		u.Set("code", *p.Code)
	}
	if p.Name != nil {
		u.Set("name", *p.Name)
	}
	if p.Metadata != nil {
		u.Set("metadata", *p.Metadata)
	}
	if p.SortOrder != nil {
		u.Set("sort_order", *p.SortOrder)
	}
	if p.IsActive != nil {
		u.Set("is_active", *p.IsActive)
	}
	u.SetExpr("updated_at", "NOW()")

	q, args := u.Build("id", id, projection.Returning())
	return repository.QueryOne(ctx, s.conn, q, args, scanClassification)
}

func (s store) Delete(ctx context.Context, id uuid.UUID) error {
	q := fmt.Sprintf("DELETE FROM %s WHERE id = $1", projection.Name())
	return repository.ExecExpectOne(ctx, s.conn, q, id)
}
