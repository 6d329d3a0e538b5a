package classifications_test

import (
	"context"
	"errors"
	"testing"

	"github.com/JaimeStill/taxon/internal/classifications"
	"github.com/JaimeStill/taxon/internal/references"
)

type fakeResolver map[string]classifications.Classification

func (f fakeResolver) FindByCode(_ context.Context, t references.Type, code string) (*classifications.Classification, error) {
	c, ok := f[string(t)+"/"+classifications.Normalize(code)]
	if !ok {
		return nil, classifications.ErrNotFound
	}
	return &c, nil
}

func TestResolveCode(t *testing.T) {
	r := fakeResolver{
		"subject/MATH": {Type: references.Subject, Code: "MATH", IsActive: true},
		"subject/ART":  {Type: references.Subject, Code: "ART", IsActive: false},
	}
	boom := errors.New("connection reset")

	tests := []struct {
		name    string
		r       classifications.Resolver
		typ     references.Type
		code    string
		want    string
		wantErr error
	}{
		{"active", r, references.Subject, "math", "MATH", nil},
		{"inactive", r, references.Subject, "ART", "", classifications.ErrUnknownCode},
		{"missing", r, references.Subject, "HISTORY", "", classifications.ErrUnknownCode},
		{"wrong type", r, references.ExamLevel, "MATH", "", classifications.ErrUnknownCode},
		{"store failure", failingResolver{boom}, references.Subject, "MATH", "", boom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := classifications.ResolveCode(context.Background(), tt.r, tt.typ, tt.code)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ResolveCode() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveCode() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

type failingResolver struct{ err error }

func (f failingResolver) FindByCode(context.Context, references.Type, string) (*classifications.Classification, error) {
	return nil, f.err
}
