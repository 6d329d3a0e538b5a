// Package papers implements exam papers. A paper lists its subjects by
// classification code and its exam level by code; both are resolved
// against the registry on write.
package papers

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/taxon/internal/references"
)

// Paper is an exam paper assembled from bank questions.
type Paper struct {
	ID          uuid.UUID           `json:"id"`
	SubjectID   references.CodeList `json:"subject_id"`
	QuestionIDs []uuid.UUID         `json:"question_id"`
	Level       string              `json:"level"`
	Duration    json.RawMessage     `json:"duration"`
	Weights     json.RawMessage     `json:"weights"`
	Grade       *string             `json:"grade"`
	CreatedBy   *string             `json:"created_by"`
	CreatedAt   time.Time           `json:"created_at"`
}

// CreateCommand carries the data needed to add a paper.
type CreateCommand struct {
	SubjectID   []string        `json:"subject_id" validate:"required,min=1,dive,required,max=100"`
	QuestionIDs []uuid.UUID     `json:"question_id"`
	Level       string          `json:"level" validate:"required,max=100"`
	Duration    json.RawMessage `json:"duration,omitempty"`
	Weights     json.RawMessage `json:"weights,omitempty"`
	Grade       *string         `json:"grade,omitempty"`
}
