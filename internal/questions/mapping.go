package questions

import (
	"net/url"
	"strconv"

	"github.com/JaimeStill/taxon/pkg/query"
	"github.com/JaimeStill/taxon/pkg/repository"
)

var projection = query.
	NewProjectionMap("", "questions", "q").
	Project("id", "id").
	Project("question_type", "question_type").
	Project("subject_type", "subject_type").
	Project("exam_level", "exam_level").
	Project("question_text", "question_text").
	Project("passage", "passage").
	Project("image_url", "image_url").
	Project("marks", "marks").
	Project("options", "options").
	Project("is_active", "is_active").
	Project("created_by", "created_by").
	Project("created_at", "created_at").
	Project("updated_at", "updated_at")

var defaultSort = query.SortField{
	Field:      "created_at",
	Descending: true,
}

// Filters contains optional filtering criteria for question queries.
// Nil fields are ignored. Codes match exactly.
type Filters struct {
	QuestionType *string `json:"question_type,omitempty"`
	SubjectType  *string `json:"subject_type,omitempty"`
	ExamLevel    *string `json:"exam_level,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("question_type", f.QuestionType).
		WhereEquals("subject_type", f.SubjectType).
		WhereEquals("exam_level", f.ExamLevel).
		WhereEquals("is_active", f.IsActive)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("question_type"); v != "" {
		f.QuestionType = &v
	}

	if v := values.Get("subject_type"); v != "" {
		f.SubjectType = &v
	}

	if v := values.Get("exam_level"); v != "" {
		f.ExamLevel = &v
	}

	if v := values.Get("is_active"); v != "" {
		if active, err := strconv.ParseBool(v); err == nil {
			f.IsActive = &active
		}
	}

	return f
}

func scanQuestion(s repository.Scanner) (Question, error) {
	var q Question
	var options []byte
	err := s.Scan(
		&q.ID,
		&q.QuestionType,
		&q.SubjectType,
		&q.ExamLevel,
		&q.QuestionText,
		&q.Passage,
		&q.ImageURL,
		&q.Marks,
		&options,
		&q.IsActive,
		&q.CreatedBy,
		&q.CreatedAt,
		&q.UpdatedAt,
	)
	q.Options = options
	return q, err
}
