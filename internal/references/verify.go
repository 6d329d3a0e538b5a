package references

import (
	"context"
	"fmt"
	"strings"

	"github.com/JaimeStill/taxon/pkg/repository"
)

// Verify checks that every table and column named by the map exists in the
// current schema, so a map that drifted from the migrations fails startup
// instead of failing the first rename.
func (e *Engine) Verify(ctx context.Context, q repository.Querier) error {
	const stmt = `SELECT count(*) FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = $1 AND column_name = ANY($2)`

	var missing []string
	for _, refs := range e.refs {
		for _, ref := range refs {
			cols := []string{ref.Column}
			if ref.Key != ref.Column {
				cols = append(cols, ref.Key)
			}

			n, err := repository.QueryCount(ctx, q, stmt, ref.Table, cols)
			if err != nil {
				return fmt.Errorf("verify %s: %w", ref.Name(), err)
			}
			if n < int64(len(cols)) {
				missing = append(missing, fmt.Sprintf("%s (%s.%s, key %s)", ref.Name(), ref.Table, ref.Column, ref.Key))
			}
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("reference map does not match schema: %s", strings.Join(missing, ", "))
	}

	e.logger.Info("reference map verified", "types", len(e.refs))
	return nil
}
