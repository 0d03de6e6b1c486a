package predictions_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/JaimeStill/coursecast/internal/advisor"
	"github.com/JaimeStill/coursecast/internal/inference"
	"github.com/JaimeStill/coursecast/internal/metrics"
	"github.com/JaimeStill/coursecast/internal/predictions"
	"github.com/JaimeStill/coursecast/pkg/pagination"
)

const bundlePath = "../../artifacts/course_success_model.json"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testPagination() pagination.Config {
	return pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}
}

func loadArtifacts(t *testing.T) *inference.Artifacts {
	t.Helper()
	a, err := inference.LoadFile(bundlePath)
	if err != nil {
		t.Fatalf("load artifacts: %v", err)
	}
	return a
}

func advisorConfig() *advisor.Config {
	return &advisor.Config{
		Provider:    advisor.ProviderMock,
		MaxTokens:   400,
		Temperature: 0.7,
		Timeout:     "5s",
	}
}

func validCommand() predictions.Command {
	return predictions.Command{
		Title:          "Go for Data Engineers",
		Category:       "Tech",
		Difficulty:     "Beginner",
		Price:          500,
		Reviews:        100,
		Rating:         4.5,
		Duration:       8,
		LectureNumbers: 20,
	}
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestCommandCourse(t *testing.T) {
	tests := []struct {
		name string
		cmd  predictions.Command
		want func(inference.RawCourse) string
	}{
		{
			"blank title defaults",
			predictions.Command{Title: "   ", Category: "Tech", Difficulty: "Beginner"},
			func(c inference.RawCourse) string {
				if c.Title != predictions.DefaultTitle {
					return "title = " + c.Title
				}
				return ""
			},
		},
		{
			"instructor proxies from course",
			predictions.Command{Category: "Tech", Difficulty: "Beginner", Reviews: 250, Rating: 4.1},
			func(c inference.RawCourse) string {
				if c.InstrTotalReviews != 250 || c.InstrMeanRating != 4.1 || c.InstrCourseCount != 1 {
					return "unexpected proxies"
				}
				return ""
			},
		},
		{
			"unrated course uses default instructor rating",
			predictions.Command{Category: "Tech", Difficulty: "Beginner"},
			func(c inference.RawCourse) string {
				if c.InstrMeanRating != 4.3 {
					return "instr_mean_rating not defaulted"
				}
				return ""
			},
		},
		{
			"explicit instructor fields win",
			predictions.Command{
				Category:          "Tech",
				Difficulty:        "Beginner",
				Reviews:           10,
				Rating:            3,
				InstrTotalReviews: intPtr(9000),
				InstrMeanRating:   floatPtr(4.8),
				InstrCourseCount:  intPtr(12),
			},
			func(c inference.RawCourse) string {
				if c.InstrTotalReviews != 9000 || c.InstrMeanRating != 4.8 || c.InstrCourseCount != 12 {
					return "explicit instructor fields ignored"
				}
				return ""
			},
		},
		{
			"trims category and difficulty",
			predictions.Command{Category: " Tech ", Difficulty: "Beginner\n"},
			func(c inference.RawCourse) string {
				if c.Category != "Tech" || c.Difficulty != "Beginner" {
					return "not trimmed"
				}
				return ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if msg := tt.want(tt.cmd.Course()); msg != "" {
				t.Error(msg)
			}
		})
	}
}

func TestOutcomeText(t *testing.T) {
	if got := predictions.OutcomeText(1); got != "High success" {
		t.Errorf("OutcomeText(1) = %q", got)
	}
	if got := predictions.OutcomeText(0); got != "Low success" {
		t.Errorf("OutcomeText(0) = %q", got)
	}
}

func TestProbabilityText(t *testing.T) {
	p := predictions.Prediction{Probability: 0.8149}
	if got := p.ProbabilityText(); got != "0.81" {
		t.Errorf("ProbabilityText() = %q, want 0.81", got)
	}
}

func TestPredictWithoutHistory(t *testing.T) {
	provider := advisor.NewMockProvider(advisor.MockResponse{
		Content: `{"summary":"Solid course.","suggestions":[{"heading":"Pricing","detail":"Keep it."}]}`,
	})
	adv := advisor.NewWithProvider(provider, advisorConfig(), discardLogger())
	m := metrics.New()

	sys := predictions.New(nil, loadArtifacts(t), adv, m, discardLogger(), testPagination())

	if sys.HistoryEnabled() {
		t.Fatal("history should be disabled without a database")
	}

	result, err := sys.Predict(context.Background(), validCommand())
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}

	if result.Stored {
		t.Error("Stored should be false without a database")
	}
	if result.ID == uuid.Nil {
		t.Error("ID not assigned")
	}
	if result.Label != 0 && result.Label != 1 {
		t.Errorf("label: got %d", result.Label)
	}
	if result.Probability < 0 || result.Probability > 1 {
		t.Errorf("probability out of range: %v", result.Probability)
	}
	if result.Outcome != predictions.OutcomeText(result.Label) {
		t.Errorf("outcome %q does not match label %d", result.Outcome, result.Label)
	}
	if result.ModelVersion != "2024.11-sample" {
		t.Errorf("model version: got %s", result.ModelVersion)
	}
	if result.Features.PriceBucket != "low" {
		t.Errorf("price bucket: got %s, want low", result.Features.PriceBucket)
	}
	if result.Features.DurationBucket != "short" {
		t.Errorf("duration bucket: got %s, want short", result.Features.DurationBucket)
	}
	if result.Advice.Source != advisor.SourceModel || result.Advice.Summary != "Solid course." {
		t.Errorf("advice: got %+v", result.Advice)
	}

	if n, err := testutil.GatherAndCount(m.Registry(), "coursecast_advice_total"); err != nil || n != 1 {
		t.Errorf("advice series: got %d (%v), want 1", n, err)
	}
}

func TestPredictRejectsInvalidInput(t *testing.T) {
	adv := advisor.NewWithProvider(nil, advisorConfig(), discardLogger())
	m := metrics.New()
	sys := predictions.New(nil, loadArtifacts(t), adv, m, discardLogger(), testPagination())

	tests := []struct {
		name    string
		mutate  func(*predictions.Command)
		wantErr error
		wantMsg string
	}{
		{"missing category", func(c *predictions.Command) { c.Category = "" }, inference.ErrInvalidInput, "category is required"},
		{"negative price", func(c *predictions.Command) { c.Price = -1 }, inference.ErrInvalidInput, "price must be at least 0"},
		{"rating above five", func(c *predictions.Command) { c.Rating = 5.5 }, inference.ErrInvalidInput, "rating must be at most 5"},
		{"reviews beyond history range", func(c *predictions.Command) { c.Reviews = math.MaxInt32 + 1 }, inference.ErrInvalidInput, "reviews must be at most 2147483647"},
		{"lectures beyond history range", func(c *predictions.Command) { c.LectureNumbers = math.MaxInt32 + 1 }, inference.ErrInvalidInput, "lecture_numbers must be at most"},
		{"instructor reviews beyond history range", func(c *predictions.Command) { c.InstrTotalReviews = intPtr(math.MaxInt32 + 1) }, inference.ErrInvalidInput, "instr_total_reviews must be at most"},
		{"zero instructor courses", func(c *predictions.Command) { c.InstrCourseCount = intPtr(0) }, inference.ErrInvalidInput, "instr_course_count"},
		{"unknown category", func(c *predictions.Command) { c.Category = "Cooking" }, inference.ErrUnknownCategory, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := validCommand()
			tt.mutate(&cmd)

			_, err := sys.Predict(context.Background(), cmd)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error: got %v, want %v", err, tt.wantErr)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q should mention %q", err, tt.wantMsg)
			}
		})
	}

	if n, err := testutil.GatherAndCount(m.Registry(), "coursecast_prediction_errors_total"); err != nil || n == 0 {
		t.Errorf("error series: got %d (%v)", n, err)
	}
}

func TestPredictFallsBackWhenAdvisorFails(t *testing.T) {
	provider := advisor.NewMockProvider(advisor.MockResponse{Err: advisor.ErrRateLimited})
	adv := advisor.NewWithProvider(provider, advisorConfig(), discardLogger())
	sys := predictions.New(nil, loadArtifacts(t), adv, nil, discardLogger(), testPagination())

	result, err := sys.Predict(context.Background(), validCommand())
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if result.Advice.Source != advisor.SourceFallback {
		t.Errorf("advice source: got %s, want fallback", result.Advice.Source)
	}
	if len(result.Advice.Suggestions) == 0 {
		t.Error("fallback advice has no suggestions")
	}
}

func TestHistoryDisabled(t *testing.T) {
	adv := advisor.NewWithProvider(nil, advisorConfig(), discardLogger())
	sys := predictions.New(nil, loadArtifacts(t), adv, nil, discardLogger(), testPagination())
	ctx := context.Background()

	if _, err := sys.List(ctx, pagination.PageRequest{}, predictions.Filters{}); !errors.Is(err, predictions.ErrHistoryDisabled) {
		t.Errorf("List: got %v", err)
	}
	if _, err := sys.Find(ctx, uuid.New()); !errors.Is(err, predictions.ErrHistoryDisabled) {
		t.Errorf("Find: got %v", err)
	}
	if err := sys.Delete(ctx, uuid.New()); !errors.Is(err, predictions.ErrHistoryDisabled) {
		t.Errorf("Delete: got %v", err)
	}
}
