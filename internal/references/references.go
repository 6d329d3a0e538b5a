// Package references declares which downstream columns hold classification
// codes, and rewrites or counts those columns when a code changes or is removed.
package references

import (
	"fmt"
	"slices"

	"github.com/jackc/pgx/v5"
)

// Type is the category a classification belongs to.
type Type string

// Classification types.
const (
	QuestionType Type = "question_type"
	Subject      Type = "subject"
	ExamLevel    Type = "exam_level"
)

// Types lists every classification type in display order.
var Types = []Type{QuestionType, Subject, ExamLevel}

// Valid reports whether t is a known classification type.
func (t Type) Valid() bool {
	return slices.Contains(Types, t)
}

// ParseType converts s to a Type, rejecting unknown values.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown classification type %q", s)
	}
	return t, nil
}

// Cardinality describes how a column holds codes.
type Cardinality int

const (
	// Single columns hold one code as text.
	Single Cardinality = iota
	// Multi columns hold an ordered JSONB array of codes.
	Multi
)

func (c Cardinality) String() string {
	if c == Multi {
		return "multi"
	}
	return "single"
}

// Reference locates one column that stores codes of a classification type.
type Reference struct {
	Entity      string
	Table       string
	Column      string
	Key         string
	Cardinality Cardinality
}

// Name returns the "entity.column" label used in dependency breakdowns.
func (r Reference) Name() string {
	return r.Entity + "." + r.Column
}

func (r Reference) table() string {
	return pgx.Identifier{r.Table}.Sanitize()
}

func (r Reference) column() string {
	return pgx.Identifier{r.Column}.Sanitize()
}

func (r Reference) key() string {
	return pgx.Identifier{r.Key}.Sanitize()
}

// Map lists the references held for each classification type.
type Map map[Type][]Reference

// For returns the references for t, or nil when none exist.
func (m Map) For(t Type) []Reference {
	return m[t]
}

// Default is the reference map for the question bank schema.
var Default = Map{
	QuestionType: {
		{Entity: "question", Table: "questions", Column: "question_type", Key: "id", Cardinality: Single},
	},
	Subject: {
		{Entity: "question", Table: "questions", Column: "subject_type", Key: "id", Cardinality: Single},
		{Entity: "paper", Table: "papers", Column: "subject_id", Key: "id", Cardinality: Multi},
	},
	ExamLevel: {
		{Entity: "question", Table: "questions", Column: "exam_level", Key: "id", Cardinality: Single},
		{Entity: "paper", Table: "papers", Column: "level", Key: "id", Cardinality: Single},
	},
}

// Counts maps a reference name to a number of rows. Only non-zero entries are kept.
type Counts map[string]int64

// Total sums every entry.
func (c Counts) Total() int64 {
	var n int64
	for _, v := range c {
		n += v
	}
	return n
}

// Empty reports whether no reference has rows.
func (c Counts) Empty() bool {
	return len(c) == 0
}
