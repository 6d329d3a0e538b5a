package papers_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/taxon/internal/classifications"
	"github.com/JaimeStill/taxon/internal/papers"
	"github.com/JaimeStill/taxon/internal/questions"
	"github.com/JaimeStill/taxon/internal/references"
	"github.com/JaimeStill/taxon/internal/testdb"
	"github.com/JaimeStill/taxon/pkg/pagination"
)

type fixture struct {
	papers    papers.System
	questions questions.System
	registry  classifications.System
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := testdb.Open(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}

	registry := classifications.New(db, references.NewEngine(references.Default, logger), nil, logger, cfg)
	f := fixture{
		papers:    papers.New(db, registry, nil, logger, cfg),
		questions: questions.New(db, registry, nil, logger, cfg),
		registry:  registry,
	}

	ctx := context.Background()
	for typ, names := range map[references.Type][]string{
		references.QuestionType: {"MCQ"},
		references.Subject:      {"Grammar", "Math"},
		references.ExamLevel:    {"A1", "B2"},
	} {
		for _, name := range names {
			_, err := registry.Create(ctx, classifications.CreateCommand{Type: typ, Name: name})
			require.NoError(t, err)
		}
	}
	return f
}

func TestCreatePaper(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	q, err := f.questions.Create(ctx, questions.CreateCommand{
		QuestionType: "MCQ", SubjectType: "GRAMMAR", ExamLevel: "A1", QuestionText: "?",
	})
	require.NoError(t, err)

	p, err := f.papers.Create(ctx, papers.CreateCommand{
		SubjectID:   []string{"grammar", "MATH"},
		QuestionIDs: []uuid.UUID{q.ID},
		Level:       "a1",
		Duration:    []byte(`{"minutes": 90}`),
	})
	require.NoError(t, err)

	assert.Equal(t, references.CodeList{"GRAMMAR", "MATH"}, p.SubjectID)
	assert.Equal(t, []uuid.UUID{q.ID}, p.QuestionIDs)
	assert.Equal(t, "A1", p.Level)
	assert.JSONEq(t, `{"minutes": 90}`, string(p.Duration))
	assert.Nil(t, p.Weights)

	found, err := f.papers.Find(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.SubjectID, found.SubjectID)
}

func TestCreatePaperRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		cmd     papers.CreateCommand
		wantErr error
	}{
		{"no subjects", papers.CreateCommand{Level: "A1"}, papers.ErrInvalid},
		{"unknown subject", papers.CreateCommand{SubjectID: []string{"HISTORY"}, Level: "A1"}, classifications.ErrUnknownCode},
		{"subject used as level", papers.CreateCommand{SubjectID: []string{"MATH"}, Level: "MATH"}, classifications.ErrUnknownCode},
		{"missing question", papers.CreateCommand{SubjectID: []string{"MATH"}, Level: "A1", QuestionIDs: []uuid.UUID{uuid.New()}}, papers.ErrInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.papers.Create(ctx, tt.cmd)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestListFollowsCascade(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, subjects := range [][]string{{"GRAMMAR", "MATH"}, {"MATH"}} {
		_, err := f.papers.Create(ctx, papers.CreateCommand{SubjectID: subjects, Level: "B2"})
		require.NoError(t, err)
	}

	grammar := "GRAMMAR"
	result, err := f.papers.List(ctx, pagination.PageRequest{}, papers.Filters{Subject: &grammar})
	require.NoError(t, err)
	require.Equal(t, 1, result.Total)

	c, err := f.registry.FindByCode(ctx, references.Subject, "GRAMMAR")
	require.NoError(t, err)
	name := "Grammar Skills"
	_, err = f.registry.Update(ctx, c.ID, classifications.UpdateCommand{Name: &name})
	require.NoError(t, err)

	result, err = f.papers.List(ctx, pagination.PageRequest{}, papers.Filters{Subject: &grammar})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Total)

	renamed := "GRAMMAR_SKILLS"
	result, err = f.papers.List(ctx, pagination.PageRequest{}, papers.Filters{Subject: &renamed})
	require.NoError(t, err)
	require.Len(t, result.Data, 1)
	assert.Equal(t, references.CodeList{"GRAMMAR_SKILLS", "MATH"}, result.Data[0].SubjectID)

	all, err := f.papers.List(ctx, pagination.PageRequest{}, papers.Filters{})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Total)

	require.NoError(t, f.papers.Delete(ctx, result.Data[0].ID))
	assert.ErrorIs(t, f.papers.Delete(ctx, result.Data[0].ID), papers.ErrNotFound)
}
