package references_test

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/taxon/internal/references"
	"github.com/JaimeStill/taxon/internal/testdb"
	"github.com/JaimeStill/taxon/pkg/metrics"
	"github.com/JaimeStill/taxon/pkg/repository"
)

func newEngine() *references.Engine {
	return references.NewEngine(references.Default, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func insertQuestion(t *testing.T, db *sql.DB, qt, subject, level string) string {
	t.Helper()
	var id string
	err := db.QueryRow(
		`INSERT INTO questions (question_type, subject_type, exam_level, question_text)
		 VALUES ($1, $2, $3, 'q') RETURNING id::text`,
		qt, subject, level,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func insertPaper(t *testing.T, db *sql.DB, level string, subjects ...string) string {
	t.Helper()
	var id string
	err := db.QueryRow(
		`INSERT INTO papers (level, subject_id) VALUES ($1, $2) RETURNING id::text`,
		level, references.CodeList(subjects),
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func paperSubjects(t *testing.T, db *sql.DB, id string) references.CodeList {
	t.Helper()
	var l references.CodeList
	require.NoError(t, db.QueryRow(`SELECT subject_id FROM papers WHERE id = $1`, id).Scan(&l))
	return l
}

func questionSubject(t *testing.T, db *sql.DB, id string) string {
	t.Helper()
	var s string
	require.NoError(t, db.QueryRow(`SELECT subject_type FROM questions WHERE id = $1`, id).Scan(&s))
	return s
}

func TestCascadeSubject(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	e := newEngine()

	q1 := insertQuestion(t, db, "MCQ", "GRAMMAR", "A1")
	q2 := insertQuestion(t, db, "MCQ", "MATH", "A1")
	p1 := insertPaper(t, db, "A1", "GRAMMAR", "MATH")
	p2 := insertPaper(t, db, "A1", "MATH")

	counts, err := repository.WithTx(ctx, db, func(tx *sql.Tx) (references.Counts, error) {
		return e.Cascade(ctx, tx, references.Subject, "GRAMMAR", "GRAMMAR_SKILLS")
	})
	require.NoError(t, err)

	assert.Equal(t, references.Counts{"question.subject_type": 1, "paper.subject_id": 1}, counts)
	assert.Equal(t, "GRAMMAR_SKILLS", questionSubject(t, db, q1))
	assert.Equal(t, "MATH", questionSubject(t, db, q2))
	assert.Equal(t, references.CodeList{"GRAMMAR_SKILLS", "MATH"}, paperSubjects(t, db, p1))
	assert.Equal(t, references.CodeList{"MATH"}, paperSubjects(t, db, p2))
}

func TestCascadeRoundTrip(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	e := newEngine()

	q := insertQuestion(t, db, "MCQ", "GRAMMAR", "A1")
	p := insertPaper(t, db, "A1", "ART", "GRAMMAR", "MATH")

	_, err := e.Cascade(ctx, db, references.Subject, "GRAMMAR", "LANGUAGE")
	require.NoError(t, err)
	_, err = e.Cascade(ctx, db, references.Subject, "LANGUAGE", "GRAMMAR")
	require.NoError(t, err)

	assert.Equal(t, "GRAMMAR", questionSubject(t, db, q))
	assert.Equal(t, references.CodeList{"ART", "GRAMMAR", "MATH"}, paperSubjects(t, db, p))
}

func TestCascadeRollsBackWithTransaction(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	e := newEngine()

	q := insertQuestion(t, db, "MCQ", "GRAMMAR", "A1")
	series := metrics.CascadedRows.WithLabelValues("question.subject_type")
	before := testutil.ToFloat64(series)

	_, err := repository.WithTx(ctx, db, func(tx *sql.Tx) (references.Counts, error) {
		if _, err := e.Cascade(ctx, tx, references.Subject, "GRAMMAR", "GRAMMAR_SKILLS"); err != nil {
			return nil, err
		}
		return nil, assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	assert.Equal(t, "GRAMMAR", questionSubject(t, db, q))
	assert.Equal(t, before, testutil.ToFloat64(series), "rolled back cascade must not be counted")
}

func TestRecordCascade(t *testing.T) {
	series := metrics.CascadedRows.WithLabelValues("paper.level")
	before := testutil.ToFloat64(series)

	references.RecordCascade(references.Counts{"paper.level": 3})

	assert.Equal(t, before+3, testutil.ToFloat64(series))
}

func TestCascadeSameCodeIsNoop(t *testing.T) {
	db := testdb.Open(t)
	insertQuestion(t, db, "MCQ", "GRAMMAR", "A1")

	counts, err := newEngine().Cascade(context.Background(), db, references.Subject, "GRAMMAR", "GRAMMAR")
	require.NoError(t, err)
	assert.True(t, counts.Empty())
}

func TestCascadeExamLevel(t *testing.T) {
	db := testdb.Open(t)
	insertQuestion(t, db, "MCQ", "MATH", "A1")
	insertPaper(t, db, "A1", "MATH")
	insertPaper(t, db, "B2", "MATH")

	counts, err := newEngine().Cascade(context.Background(), db, references.ExamLevel, "A1", "A1_PLUS")
	require.NoError(t, err)
	assert.Equal(t, references.Counts{"question.exam_level": 1, "paper.level": 1}, counts)
}

func TestCount(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	e := newEngine()

	insertQuestion(t, db, "MCQ", "GRAMMAR", "A1")
	insertQuestion(t, db, "ESSAY", "GRAMMAR", "A1")
	insertPaper(t, db, "A1", "MATH", "GRAMMAR")
	insertPaper(t, db, "A1", "GRAMMAR_II")

	want := references.Counts{"question.subject_type": 2, "paper.subject_id": 1}

	got, err := e.Count(ctx, db, references.Subject, "GRAMMAR")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	concurrent, err := e.CountConcurrent(ctx, db, references.Subject, "GRAMMAR")
	require.NoError(t, err)
	assert.Equal(t, want, concurrent)

	none, err := e.Count(ctx, db, references.QuestionType, "TRUE_FALSE")
	require.NoError(t, err)
	assert.True(t, none.Empty())
}

func TestVerify(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	require.NoError(t, newEngine().Verify(ctx, db))

	drifted := references.Map{
		references.Subject: {
			{Entity: "paper", Table: "papers", Column: "subjects", Key: "id", Cardinality: references.Multi},
		},
	}
	err := references.NewEngine(drifted, logger).Verify(ctx, db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "paper.subjects")
}
