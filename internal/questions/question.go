// Package questions implements the question bank domain. Each question
// carries a question type, subject, and exam level by classification code;
// codes are checked against the registry when a question is written.
package questions

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Question is a bank entry referencing three classifications by code.
type Question struct {
	ID           uuid.UUID       `json:"id"`
	QuestionType string          `json:"question_type"`
	SubjectType  string          `json:"subject_type"`
	ExamLevel    string          `json:"exam_level"`
	QuestionText string          `json:"question_text"`
	Passage      *string         `json:"passage"`
	ImageURL     *string         `json:"image_url"`
	Marks        int             `json:"marks"`
	Options      json.RawMessage `json:"options"`
	IsActive     bool            `json:"is_active"`
	CreatedBy    *string         `json:"created_by"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// CreateCommand carries the data needed to add a question.
// Options must be a JSON array when present.
type CreateCommand struct {
	QuestionType string          `json:"question_type" validate:"required,max=100"`
	SubjectType  string          `json:"subject_type" validate:"required,max=100"`
	ExamLevel    string          `json:"exam_level" validate:"required,max=100"`
	QuestionText string          `json:"question_text" validate:"required"`
	Passage      *string         `json:"passage,omitempty"`
	ImageURL     *string         `json:"image_url,omitempty" validate:"omitempty,url"`
	Marks        *int            `json:"marks,omitempty" validate:"omitempty,min=0"`
	Options      json.RawMessage `json:"options,omitempty"`
}
