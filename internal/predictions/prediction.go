// Package predictions implements the prediction domain for CourseCast.
// It validates course submissions, scores them with the fitted model,
// pairs each result with improvement advice, and keeps an optional
// history of scored courses in PostgreSQL.
package predictions

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/coursecast/internal/advisor"
	"github.com/JaimeStill/coursecast/internal/inference"
)

// DefaultTitle names a course submitted without a title.
const DefaultTitle = "Custom Course"

// defaultInstrMeanRating stands in for the instructor mean rating when the
// course itself has no rating yet.
const defaultInstrMeanRating = 4.3

// Outcome display strings.
const (
	OutcomeHigh = "High success"
	OutcomeLow  = "Low success"
)

// Features holds the engineered features recorded with a prediction.
type Features struct {
	LogReviews           float64 `json:"log_reviews"`
	SuccessScore         float64 `json:"success_score"`
	InstrLogTotalReviews float64 `json:"instr_log_total_reviews"`
	PriceBucket          string  `json:"price_bucket"`
	DurationBucket       string  `json:"duration_bucket"`
}

// Prediction is a scored course.
type Prediction struct {
	ID           uuid.UUID           `json:"id"`
	Course       inference.RawCourse `json:"course"`
	Features     Features            `json:"features"`
	Label        int                 `json:"label"`
	Probability  float64             `json:"probability"`
	Outcome      string              `json:"outcome"`
	ModelVersion string              `json:"model_version"`
	CreatedAt    time.Time           `json:"created_at"`
}

// ProbabilityText formats Probability with two decimals.
func (p Prediction) ProbabilityText() string {
	return fmt.Sprintf("%.2f", p.Probability)
}

// Result is a prediction paired with its advice. Stored reports whether
// the prediction was written to history.
type Result struct {
	Prediction
	Advice advisor.Advice `json:"advice"`
	Stored bool           `json:"stored"`
}

// Command carries a course submission. Instructor fields are optional;
// when absent they are derived from the course itself. Count fields are
// capped at the range of the history table's INTEGER columns.
type Command struct {
	Title             string   `json:"title" validate:"max=200"`
	Category          string   `json:"category" validate:"required,max=100"`
	Difficulty        string   `json:"difficulty" validate:"required,max=100"`
	Price             float64  `json:"price" validate:"gte=0"`
	Reviews           int      `json:"reviews" validate:"gte=0,lte=2147483647"`
	Rating            float64  `json:"rating" validate:"gte=0,lte=5"`
	Duration          float64  `json:"duration" validate:"gte=0"`
	LectureNumbers    int      `json:"lecture_numbers" validate:"gte=0,lte=2147483647"`
	InstrTotalReviews *int     `json:"instr_total_reviews,omitempty" validate:"omitempty,gte=0,lte=2147483647"`
	InstrMeanRating   *float64 `json:"instr_mean_rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	InstrCourseCount  *int     `json:"instr_course_count,omitempty" validate:"omitempty,gte=1,lte=2147483647"`
}

// Course converts the command into a RawCourse, applying the default title
// and the instructor proxies for any instructor field left unset.
func (c Command) Course() inference.RawCourse {
	raw := inference.RawCourse{
		Title:          strings.TrimSpace(c.Title),
		Category:       strings.TrimSpace(c.Category),
		Difficulty:     strings.TrimSpace(c.Difficulty),
		Price:          c.Price,
		Reviews:        c.Reviews,
		Rating:         c.Rating,
		Duration:       c.Duration,
		LectureNumbers: c.LectureNumbers,

		InstrTotalReviews: c.Reviews,
		InstrMeanRating:   defaultInstrMeanRating,
		InstrCourseCount:  1,
	}

	if raw.Title == "" {
		raw.Title = DefaultTitle
	}
	if c.Rating > 0 {
		raw.InstrMeanRating = c.Rating
	}

	if c.InstrTotalReviews != nil {
		raw.InstrTotalReviews = *c.InstrTotalReviews
	}
	if c.InstrMeanRating != nil {
		raw.InstrMeanRating = *c.InstrMeanRating
	}
	if c.InstrCourseCount != nil {
		raw.InstrCourseCount = *c.InstrCourseCount
	}

	return raw
}

// OutcomeText returns the display string for a predicted label.
func OutcomeText(label int) string {
	if label == 1 {
		return OutcomeHigh
	}
	return OutcomeLow
}

func newPrediction(o inference.Outcome, version string) Prediction {
	return Prediction{
		ID:     uuid.New(),
		Course: o.Features.RawCourse,
		Features: Features{
			LogReviews:           o.Features.LogReviews,
			SuccessScore:         o.Features.SuccessScore,
			InstrLogTotalReviews: o.Features.InstrLogTotalReviews,
			PriceBucket:          o.Features.PriceBucket,
			DurationBucket:       o.Features.DurationBucket,
		},
		Label:        o.Prediction.Label,
		Probability:  o.Prediction.Probability,
		Outcome:      OutcomeText(o.Prediction.Label),
		ModelVersion: version,
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
}
