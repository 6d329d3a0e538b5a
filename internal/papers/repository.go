package papers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

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

// New creates a paper repository implementing the System interface.
// registry resolves the subject and level codes a paper references.
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
		logger:     logger.With("system", "papers"),
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
) (*pagination.PageResult[Paper], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "level", "grade")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	total, err := repository.QueryCount(ctx, r.db, countSQL, countArgs...)
	if err != nil {
		return nil, fmt.Errorf("count papers: %w", err)
	}

	pageSQL, pageArgs := qb.BuildLimit(page.PageSize, page.Offset())
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanPaper)
	if err != nil {
		return nil, fmt.Errorf("query papers: %w", err)
	}

	result := pagination.ResultFor(items, int(total), page)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Paper, error) {
	q, args := query.NewBuilder(projection).BuildSingle("id", id)

	p, err := repository.QueryOne(ctx, r.db, q, args, scanPaper)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Paper, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}

	subjects := make(references.CodeList, len(cmd.SubjectID))
	for i, code := range cmd.SubjectID {
		resolved, err := classifications.ResolveCode(ctx, r.registry, references.Subject, code)
		if err != nil {
			return nil, err
		}
		subjects[i] = resolved
	}

	level, err := classifications.ResolveCode(ctx, r.registry, references.ExamLevel, cmd.Level)
	if err != nil {
		return nil, err
	}

	questionIDs := cmd.QuestionIDs
	if questionIDs == nil {
		questionIDs = []uuid.UUID{}
	}
	rawIDs, err := json.Marshal(questionIDs)
	if err != nil {
		return nil, fmt.Errorf("encode question_id: %w", err)
	}

	var createdBy *string
	if caller, ok := auth.CallerFrom(ctx); ok && caller.ID != "" {
		createdBy = &caller.ID
	}

	q := fmt.Sprintf(`
		INSERT INTO %s (subject_id, question_id, level, duration, weights, grade, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s`,
		projection.Name(), projection.Returning(),
	)

	args := []any{
		subjects,
		string(rawIDs),
		level,
		jsonArg(cmd.Duration),
		jsonArg(cmd.Weights),
		cmd.Grade,
		createdBy,
	}

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Paper, error) {
		if err := checkQuestions(ctx, tx, string(rawIDs), len(questionIDs)); err != nil {
			return Paper{}, err
		}
		return repository.QueryOne(ctx, tx, q, args, scanPaper)
	})
	if err != nil {
		if repository.IsCheckViolation(err) {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("paper created",
		"id", p.ID,
		"level", p.Level,
		"subjects", len(p.SubjectID),
		"questions", len(p.QuestionIDs),
	)
	return &p, nil
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

	r.logger.Info("paper deleted", "id", id)
	return nil
}

// checkQuestions requires every id in the JSON array to name an existing question.
func checkQuestions(ctx context.Context, q repository.Querier, ids string, want int) error {
	if want == 0 {
		return nil
	}

	n, err := repository.QueryCount(ctx, q,
		`SELECT COUNT(*) FROM questions
		 WHERE id::text IN (SELECT jsonb_array_elements_text($1::jsonb))`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("check questions: %w", err)
	}
	if int(n) != want {
		return fmt.Errorf("%w: %d of %d questions not found", ErrInvalid, want-int(n), want)
	}
	return nil
}
