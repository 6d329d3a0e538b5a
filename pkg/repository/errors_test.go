package repository_test

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JaimeStill/taxon/pkg/repository"
)

var (
	errNotFound  = errors.New("not found")
	errDuplicate = errors.New("duplicate")
)

func TestMapErrorNil(t *testing.T) {
	if got := repository.MapError(nil, errNotFound, errDuplicate); got != nil {
		t.Errorf("MapError(nil) = %v, want nil", got)
	}
}

func TestMapErrorNotFound(t *testing.T) {
	wrapped := fmt.Errorf("find: %w", sql.ErrNoRows)
	if got := repository.MapError(wrapped, errNotFound, errDuplicate); !errors.Is(got, errNotFound) {
		t.Errorf("MapError(ErrNoRows) = %v, want %v", got, errNotFound)
	}
}

func TestMapErrorDuplicate(t *testing.T) {
	got := repository.MapError(&pgconn.PgError{Code: "23505"}, errNotFound, errDuplicate)
	if !errors.Is(got, errDuplicate) {
		t.Errorf("MapError(PgError 23505) = %v, want %v", got, errDuplicate)
	}
}

func TestMapErrorDuplicateKeepsConstraint(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "classifications_type_code_key"}
	got := repository.MapError(fmt.Errorf("insert: %w", pgErr), errNotFound, errDuplicate)

	if !errors.Is(got, errDuplicate) {
		t.Fatalf("MapError = %v, want wrapped %v", got, errDuplicate)
	}
	if !strings.Contains(got.Error(), "classifications_type_code_key") {
		t.Errorf("message %q should name the constraint", got.Error())
	}
}

func TestMapErrorPassthrough(t *testing.T) {
	original := errors.New("some other error")
	if got := repository.MapError(original, errNotFound, errDuplicate); got != original {
		t.Errorf("MapError(other) = %v, want %v", got, original)
	}

	pgErr := &pgconn.PgError{Code: "23503"}
	if got := repository.MapError(pgErr, errNotFound, errDuplicate); got != pgErr {
		t.Errorf("MapError(PgError 23503) should pass through, got %v", got)
	}
}

func TestIsCheckViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"check violation", &pgconn.PgError{Code: "23514"}, true},
		{"wrapped check violation", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23514"}), true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"plain error", errors.New("x"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := repository.IsCheckViolation(tt.err); got != tt.want {
				t.Errorf("IsCheckViolation(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
