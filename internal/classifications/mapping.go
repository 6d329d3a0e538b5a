package classifications

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/JaimeStill/taxon/internal/references"
	"github.com/JaimeStill/taxon/pkg/query"
	"github.com/JaimeStill/taxon/pkg/repository"
)

var projection = query.
	NewProjectionMap("", "classifications", "c").
	Project("id", "id").
	Project("type", "type").
	Project("code", "code").
	Project("name", "name").
	Project("metadata", "metadata").
	Project("sort_order", "sort_order").
	Project("is_active", "is_active").
	Project("created_at", "created_at").
	Project("updated_at", "updated_at")

// type always leads the ordering; the remaining keys are the default
// secondary order and are replaced by an explicit sort.
var (
	leadingSort = query.SortField{Field: "type"}
	defaultSort = []query.SortField{
		{Field: "sort_order"},
		{Field: "name"},
	}
)

// Filters contains optional filtering criteria for classification queries.
// Nil fields are ignored. All fields use exact matching.
type Filters struct {
	Type     *references.Type `json:"type,omitempty"`
	IsActive *bool            `json:"is_active,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	if f.Type != nil {
		b.WhereEquals("type", string(*f.Type))
	}
	if f.IsActive != nil {
		b.WhereEquals("is_active", *f.IsActive)
	}
	return b
}

// Validate rejects unknown types.
func (f Filters) Validate() error {
	if f.Type != nil && !f.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalid, *f.Type)
	}
	return nil
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Unparseable is_active values are ignored; unknown types are kept so that
// Validate can reject them.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if t := values.Get("type"); t != "" {
		typ := references.Type(t)
		f.Type = &typ
	}

	if a := values.Get("is_active"); a != "" {
		if active, err := strconv.ParseBool(a); err == nil {
			f.IsActive = &active
		}
	}

	return f
}

func scanClassification(s repository.Scanner) (Classification, error) {
	var c Classification
	var metadata []byte

	err := s.Scan(
		&c.ID,
		&c.Type,
		&c.Code,
		&c.Name,
		&metadata,
		&c.SortOrder,
		&c.IsActive,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return c, err
	}

	if len(metadata) > 0 {
		c.Metadata = json.RawMessage(metadata)
	}

	return c, nil
}

// metadataArg converts raw metadata into a JSONB parameter; empty and
// literal null both store NULL.
func metadataArg(raw json.RawMessage) any {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return string(raw)
}
