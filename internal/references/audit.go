package references

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/taxon/pkg/repository"
)

// Count returns, per reference, the number of rows that hold code for type t.
// List columns count rows whose list contains code. Only non-zero counts are
// returned, so an empty result means code is safe to remove.
func (e *Engine) Count(ctx context.Context, q repository.Querier, t Type, code string) (Counts, error) {
	counts := Counts{}
	for _, ref := range e.refs.For(t) {
		n, err := countReference(ctx, q, ref, code)
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", ref.Name(), err)
		}
		if n > 0 {
			counts[ref.Name()] = n
		}
	}
	return counts, nil
}

// CountConcurrent is Count with one query per reference issued in parallel.
// q must be safe for concurrent use, such as the connection pool; a
// transaction is not.
func (e *Engine) CountConcurrent(ctx context.Context, q repository.Querier, t Type, code string) (Counts, error) {
	var (
		mu     sync.Mutex
		counts = Counts{}
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, ref := range e.refs.For(t) {
		g.Go(func() error {
			n, err := countReference(gctx, q, ref, code)
			if err != nil {
				return fmt.Errorf("count %s: %w", ref.Name(), err)
			}
			if n > 0 {
				mu.Lock()
				counts[ref.Name()] = n
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return counts, nil
}

func countReference(ctx context.Context, q repository.Querier, ref Reference, code string) (int64, error) {
	var cond string
	switch ref.Cardinality {
	case Multi:
		cond = fmt.Sprintf("%s @> jsonb_build_array($1::text)", ref.column())
	default:
		cond = fmt.Sprintf("%s = $1", ref.column())
	}

	stmt := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", ref.table(), cond)
	return repository.QueryCount(ctx, q, stmt, code)
}
