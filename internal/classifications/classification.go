// Package classifications implements the classification registry: the
// controlled vocabulary of question types, subjects, and exam levels that
// questions and papers reference by code.
package classifications

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/taxon/internal/references"
)

// Classification is one entry of the registry. Code is the stable identifier
// downstream rows store; Name is the display label.
type Classification struct {
	ID        uuid.UUID       `json:"id"`
	Type      references.Type `json:"type"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Metadata  json.RawMessage `json:"metadata"`
	SortOrder int             `json:"sort_order"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CreateCommand carries the fields for a new classification.
// Code defaults to the normalized Name when omitted.
type CreateCommand struct {
	Type      references.Type `json:"type" validate:"required,oneof=question_type subject exam_level"`
	Name      string          `json:"name" validate:"required,max=255"`
	Code      *string         `json:"code,omitempty" validate:"omitempty,max=100"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	SortOrder *int            `json:"sort_order,omitempty"`
	IsActive  *bool           `json:"is_active,omitempty"`
}

// UpdateCommand carries a partial update. Nil fields are left unchanged.
// Type may be sent but must match the stored type.
type UpdateCommand struct {
	Type      *references.Type `json:"type,omitempty"`
	Name      *string          `json:"name,omitempty" validate:"omitempty,max=255"`
	Code      *string          `json:"code,omitempty" validate:"omitempty,max=100"`
	Metadata  json.RawMessage  `json:"metadata,omitempty"`
	SortOrder *int             `json:"sort_order,omitempty"`
	IsActive  *bool            `json:"is_active,omitempty"`
}

// Summary reports the number of classifications per type.
type Summary struct {
	Total  int64                     `json:"total"`
	ByType map[references.Type]int64 `json:"by_type"`
}

// Normalize converts a name or code into code form: trimmed, upper case,
// with spaces replaced by underscores.
func Normalize(s string) string {
	return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), " ", "_")
}

// deriveCode returns the normalized explicit code when one is given,
// otherwise the normalized name.
func deriveCode(name string, code *string) string {
	if code != nil && strings.TrimSpace(*code) != "" {
		return Normalize(*code)
	}
	return Normalize(name)
}
