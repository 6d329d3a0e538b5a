package questions

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/taxon/internal/classifications"
	"github.com/JaimeStill/taxon/internal/references"
	"github.com/JaimeStill/taxon/pkg/auth"
	"github.com/JaimeStill/taxon/pkg/pagination"
	"github.com/JaimeStill/taxon/pkg/query"
	"github.com/JaimeStill/taxon/pkg/repository"
)

type repo struct {
	db         *sql.DB
	registry   classifications.Resolver
	guard      func(http.Handler) http.Handler
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a question repository implementing the System interface.
// registry resolves the classification codes a question references.
func New(
	db *sql.DB,
	registry classifications.Resolver,
	guard func(http.Handler) http.Handler,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		registry:   registry,
		guard:      guard,
		logger:     logger.With("system", "questions"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.guard, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Question], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "question_text")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	total, err := repository.QueryCount(ctx, r.db, countSQL, countArgs...)
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}

	pageSQL, pageArgs := qb.BuildLimit(page.PageSize, page.Offset())
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanQuestion)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}

	result := pagination.ResultFor(items, int(total), page)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Question, error) {
	q, args := query.NewBuilder(projection).BuildSingle("id", id)

	item, err := repository.QueryOne(ctx, r.db, q, args, scanQuestion)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &item, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Question, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}

	questionType, err := classifications.ResolveCode(ctx, r.registry, references.QuestionType, cmd.QuestionType)
	if err != nil {
		return nil, err
	}
	subject, err := classifications.ResolveCode(ctx, r.registry, references.Subject, cmd.SubjectType)
	if err != nil {
		return nil, err
	}
	level, err := classifications.ResolveCode(ctx, r.registry, references.ExamLevel, cmd.ExamLevel)
	if err != nil {
		return nil, err
	}

	marks := 1
	if cmd.Marks != nil {
		marks = *cmd.Marks
	}

	options := "[]"
	if len(cmd.Options) > 0 {
		options = string(cmd.Options)
	}

	var createdBy *string
	if caller, ok := auth.CallerFrom(ctx); ok && caller.ID != "" {
		createdBy = &caller.ID
	}

	q := fmt.Sprintf(`
		INSERT INTO %s (question_type, subject_type, exam_level, question_text, passage, image_url, marks, options, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s`,
		projection.Name(), projection.Returning(),
	)

	args := []any{
		questionType,
		subject,
		level,
		strings.TrimSpace(cmd.QuestionText),
		cmd.Passage,
		cmd.ImageURL,
		marks,
		options,
		createdBy,
	}

	item, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Question, error) {
		return repository.QueryOne(ctx, tx, q, args, scanQuestion)
	})
	if err != nil {
		if repository.IsCheckViolation(err) {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("question created",
		"id", item.ID,
		"question_type", item.QuestionType,
		"subject_type", item.SubjectType,
		"exam_level", item.ExamLevel,
	)
	return &item, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(
			ctx, tx,
			fmt.Sprintf("DELETE FROM %s WHERE id = $1", projection.Name()),
			id,
		)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("question deleted", "id", id)
	return nil
}
