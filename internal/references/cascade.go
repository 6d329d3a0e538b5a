package references

import (
	"context"
	"fmt"

	"github.com/JaimeStill/taxon/pkg/repository"
)

type listRow struct {
	key   string
	codes CodeList
}

func scanListRow(s repository.Scanner) (listRow, error) {
	var r listRow
	err := s.Scan(&r.key, &r.codes)
	return r, err
}

// Cascade rewrites oldCode to newCode in every column that references codes
// of type t. It runs on conn, which should be the caller's transaction so that
// a failure rolls back the rename with it. The returned counts hold the rows
// rewritten per reference; pass them to RecordCascade once the transaction
// has committed.
func (e *Engine) Cascade(ctx context.Context, conn repository.Conn, t Type, oldCode, newCode string) (Counts, error) {
	counts := Counts{}
	if oldCode == newCode {
		return counts, nil
	}

	for _, ref := range e.refs.For(t) {
		var (
			n   int64
			err error
		)

		switch ref.Cardinality {
		case Multi:
			n, err = cascadeList(ctx, conn, ref, oldCode, newCode)
		default:
			n, err = cascadeSingle(ctx, conn, ref, oldCode, newCode)
		}
		if err != nil {
			return nil, fmt.Errorf("cascade %s: %w", ref.Name(), err)
		}

		if n > 0 {
			counts[ref.Name()] = n
		}
	}

	e.logger.Debug(
		"code cascade staged",
		"type", t,
		"from", oldCode,
		"to", newCode,
		"rows", counts.Total(),
	)

	return counts, nil
}

func cascadeSingle(ctx context.Context, conn repository.Conn, ref Reference, oldCode, newCode string) (int64, error) {
	q := fmt.Sprintf(
		"UPDATE %s SET %s = $1 WHERE %s = $2",
		ref.table(), ref.column(), ref.column(),
	)
	return repository.ExecCount(ctx, conn, q, newCode, oldCode)
}

// cascadeList locks the rows whose list holds oldCode, replaces the element in
// place, and writes each list back by key. Other elements keep their order.
func cascadeList(ctx context.Context, conn repository.Conn, ref Reference, oldCode, newCode string) (int64, error) {
	sel := fmt.Sprintf(
		"SELECT %s::text, %s FROM %s WHERE %s @> jsonb_build_array($1::text) FOR UPDATE",
		ref.key(), ref.column(), ref.table(), ref.column(),
	)

	rows, err := repository.QueryMany(ctx, conn, sel, []any{oldCode}, scanListRow)
	if err != nil {
		return 0, err
	}

	upd := fmt.Sprintf(
		"UPDATE %s SET %s = $1 WHERE %s = $2",
		ref.table(), ref.column(), ref.key(),
	)

	var n int64
	for _, row := range rows {
		codes, changed := row.codes.Replace(oldCode, newCode)
		if !changed {
			continue
		}
		if err := repository.ExecExpectOne(ctx, conn, upd, codes, row.key); err != nil {
			return n, err
		}
		n++
	}

	return n, nil
}
