package papers

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/JaimeStill/taxon/pkg/query"
	"github.com/JaimeStill/taxon/pkg/repository"
)

var projection = query.
	NewProjectionMap("", "papers", "p").
	Project("id", "id").
	Project("subject_id", "subject_id").
	Project("question_id", "question_id").
	Project("level", "level").
	Project("duration", "duration").
	Project("weights", "weights").
	Project("grade", "grade").
	Project("created_by", "created_by").
	Project("created_at", "created_at")

var defaultSort = query.SortField{
	Field:      "created_at",
	Descending: true,
}

// Filters contains optional filtering criteria for paper queries.
// Subject matches papers whose subject list contains the code.
type Filters struct {
	Level   *string `json:"level,omitempty"`
	Subject *string `json:"subject,omitempty"`
	Grade   *string `json:"grade,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("level", f.Level).
		WhereElement("subject_id", f.Subject).
		WhereEquals("grade", f.Grade)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("level"); v != "" {
		f.Level = &v
	}

	if v := values.Get("subject"); v != "" {
		f.Subject = &v
	}

	if v := values.Get("grade"); v != "" {
		f.Grade = &v
	}

	return f
}

func scanPaper(s repository.Scanner) (Paper, error) {
	var p Paper
	var questionIDs, duration, weights []byte

	err := s.Scan(
		&p.ID,
		&p.SubjectID,
		&questionIDs,
		&p.Level,
		&duration,
		&weights,
		&p.Grade,
		&p.CreatedBy,
		&p.CreatedAt,
	)
	if err != nil {
		return p, err
	}

	p.QuestionIDs = []uuid.UUID{}
	if len(questionIDs) > 0 {
		if err := json.Unmarshal(questionIDs, &p.QuestionIDs); err != nil {
			return p, fmt.Errorf("scan question_id: %w", err)
		}
	}
	if len(duration) > 0 {
		p.Duration = duration
	}
	if len(weights) > 0 {
		p.Weights = weights
	}

	return p, nil
}

// jsonArg converts raw JSON into a JSONB parameter; empty and null store NULL.
func jsonArg(raw json.RawMessage) any {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return string(raw)
}
