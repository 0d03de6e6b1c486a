package predictions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/coursecast/internal/advisor"
	"github.com/JaimeStill/coursecast/internal/inference"
	"github.com/JaimeStill/coursecast/internal/metrics"
	"github.com/JaimeStill/coursecast/pkg/pagination"
	"github.com/JaimeStill/coursecast/pkg/query"
	"github.com/JaimeStill/coursecast/pkg/repository"
)

type repo struct {
	db         *sql.DB
	artifacts  *inference.Artifacts
	advisor    *advisor.Advisor
	metrics    *metrics.Metrics
	validate   *validator.Validate
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a prediction repository implementing the System interface.
// A nil db disables history: Predict still scores and advises, while
// List, Find and Delete return ErrHistoryDisabled. A nil metrics skips
// instrumentation.
func New(
	db *sql.DB,
	artifacts *inference.Artifacts,
	adv *advisor.Advisor,
	m *metrics.Metrics,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		artifacts:  artifacts,
		advisor:    adv,
		metrics:    m,
		validate:   newValidator(),
		logger:     logger.With("system", "predictions"),
		pagination: pagination,
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (r *repo) Handler(maxBodySize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxBodySize)
}

func (r *repo) HistoryEnabled() bool {
	return r.db != nil
}

func (r *repo) Predict(ctx context.Context, cmd Command) (*Result, error) {
	if err := r.validateCommand(cmd); err != nil {
		r.observeError(err)
		return nil, err
	}

	start := time.Now()
	outcome, err := inference.Evaluate(cmd.Course(), r.artifacts)
	if err != nil {
		r.observeError(err)
		return nil, err
	}
	if r.metrics != nil {
		r.metrics.ObservePrediction(outcome.Prediction, time.Since(start))
	}

	result := &Result{
		Prediction: newPrediction(outcome, r.artifacts.Version()),
		Stored:     r.HistoryEnabled(),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		result.Advice = r.advisor.Advise(gctx, outcome.Features.RawCourse, outcome.Prediction)
		return nil
	})

	if result.Stored {
		g.Go(func() error {
			return r.insert(ctx, result.Prediction)
		})
	}

	if err := g.Wait(); err != nil {
		r.observeError(err)
		return nil, fmt.Errorf("persist prediction: %w", err)
	}

	if r.metrics != nil {
		r.metrics.ObserveAdvice(string(result.Advice.Source))
	}

	r.logger.Info(
		"prediction scored",
		"id", result.ID,
		"outcome", result.Outcome,
		"probability", result.ProbabilityText(),
		"advice", result.Advice.Source,
		"stored", result.Stored,
	)

	return result, nil
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Prediction], error) {
	if r.db == nil {
		return nil, ErrHistoryDisabled
	}

	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Title", "Category")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	total, err := repository.Count(ctx, r.db, countSQL, countArgs)
	if err != nil {
		return nil, fmt.Errorf("count predictions: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanPrediction)
	if err != nil {
		return nil, fmt.Errorf("query predictions: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Prediction, error) {
	if r.db == nil {
		return nil, ErrHistoryDisabled
	}

	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	p, err := repository.QueryOne(ctx, r.db, q, args, scanPrediction)
	if err != nil {
		return nil, dbErrors.Map(err)
	}
	return &p, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	if r.db == nil {
		return ErrHistoryDisabled
	}

	err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		return repository.ExecExpectOne(ctx, tx, "DELETE FROM predictions WHERE id = $1", id)
	})
	if err != nil {
		return dbErrors.Map(err)
	}

	r.logger.Info("prediction deleted", "id", id)
	return nil
}

func (r *repo) insert(ctx context.Context, p Prediction) error {
	err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		return repository.ExecExpectOne(ctx, tx, insertPrediction, insertArgs(p)...)
	})
	return dbErrors.Map(err)
}

func (r *repo) validateCommand(cmd Command) error {
	err := r.validate.Struct(cmd)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", inference.ErrInvalidInput, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return fmt.Errorf("%w: %s", inference.ErrInvalidInput, strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "lte", "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
}

func (r *repo) observeError(err error) {
	if r.metrics != nil {
		r.metrics.ObserveError(err)
	}
}
