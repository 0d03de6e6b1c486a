package predictions

import (
	"net/url"
	"strconv"

	"github.com/JaimeStill/coursecast/pkg/query"
	"github.com/JaimeStill/coursecast/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "predictions", "p").
	Project("id", "ID").
	Project("title", "Title").
	Project("category", "Category").
	Project("difficulty", "Difficulty").
	Project("price", "Price").
	Project("reviews", "Reviews").
	Project("rating", "Rating").
	Project("duration", "Duration").
	Project("lecture_numbers", "LectureNumbers").
	Project("instr_total_reviews", "InstrTotalReviews").
	Project("instr_mean_rating", "InstrMeanRating").
	Project("instr_course_count", "InstrCourseCount").
	Project("log_reviews", "LogReviews").
	Project("success_score", "SuccessScore").
	Project("instr_log_total_reviews", "InstrLogTotalReviews").
	Project("price_bucket", "PriceBucket").
	Project("duration_bucket", "DurationBucket").
	Project("label", "Label").
	Project("probability", "Probability").
	Project("outcome", "Outcome").
	Project("model_version", "ModelVersion").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

const insertPrediction = `
	INSERT INTO predictions(
		id, title, category, difficulty, price, reviews, rating, duration, lecture_numbers,
		instr_total_reviews, instr_mean_rating, instr_course_count,
		log_reviews, success_score, instr_log_total_reviews, price_bucket, duration_bucket,
		label, probability, outcome, model_version, created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`

// Filters contains optional filtering criteria for prediction history.
// Nil fields are ignored. Category, Difficulty, Label and the buckets use
// exact matching. MinProbability and MaxProbability bound the probability
// inclusively.
type Filters struct {
	Category       *string  `json:"category,omitempty"`
	Difficulty     *string  `json:"difficulty,omitempty"`
	Label          *int     `json:"label,omitempty"`
	PriceBucket    *string  `json:"price_bucket,omitempty"`
	DurationBucket *string  `json:"duration_bucket,omitempty"`
	ModelVersion   *string  `json:"model_version,omitempty"`
	MinProbability *float64 `json:"min_probability,omitempty"`
	MaxProbability *float64 `json:"max_probability,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Category", f.Category).
		WhereEquals("Difficulty", f.Difficulty).
		WhereEquals("Label", f.Label).
		WhereEquals("PriceBucket", f.PriceBucket).
		WhereEquals("DurationBucket", f.DurationBucket).
		WhereEquals("ModelVersion", f.ModelVersion).
		WhereCompare("Probability", query.Ge, f.MinProbability).
		WhereCompare("Probability", query.Le, f.MaxProbability)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Malformed numeric values are ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if c := values.Get("category"); c != "" {
		f.Category = &c
	}

	if d := values.Get("difficulty"); d != "" {
		f.Difficulty = &d
	}

	if l := values.Get("label"); l != "" {
		if v, err := strconv.Atoi(l); err == nil {
			f.Label = &v
		}
	}

	if pb := values.Get("price_bucket"); pb != "" {
		f.PriceBucket = &pb
	}

	if db := values.Get("duration_bucket"); db != "" {
		f.DurationBucket = &db
	}

	if mv := values.Get("model_version"); mv != "" {
		f.ModelVersion = &mv
	}

	if mp := values.Get("min_probability"); mp != "" {
		if v, err := strconv.ParseFloat(mp, 64); err == nil {
			f.MinProbability = &v
		}
	}

	if mp := values.Get("max_probability"); mp != "" {
		if v, err := strconv.ParseFloat(mp, 64); err == nil {
			f.MaxProbability = &v
		}
	}

	return f
}

func insertArgs(p Prediction) []any {
	return []any{
		p.ID,
		p.Course.Title,
		p.Course.Category,
		p.Course.Difficulty,
		p.Course.Price,
		p.Course.Reviews,
		p.Course.Rating,
		p.Course.Duration,
		p.Course.LectureNumbers,
		p.Course.InstrTotalReviews,
		p.Course.InstrMeanRating,
		p.Course.InstrCourseCount,
		p.Features.LogReviews,
		p.Features.SuccessScore,
		p.Features.InstrLogTotalReviews,
		p.Features.PriceBucket,
		p.Features.DurationBucket,
		p.Label,
		p.Probability,
		p.Outcome,
		p.ModelVersion,
		p.CreatedAt,
	}
}

func scanPrediction(s repository.Scanner) (Prediction, error) {
	var p Prediction
	err := s.Scan(
		&p.ID,
		&p.Course.Title,
		&p.Course.Category,
		&p.Course.Difficulty,
		&p.Course.Price,
		&p.Course.Reviews,
		&p.Course.Rating,
		&p.Course.Duration,
		&p.Course.LectureNumbers,
		&p.Course.InstrTotalReviews,
		&p.Course.InstrMeanRating,
		&p.Course.InstrCourseCount,
		&p.Features.LogReviews,
		&p.Features.SuccessScore,
		&p.Features.InstrLogTotalReviews,
		&p.Features.PriceBucket,
		&p.Features.DurationBucket,
		&p.Label,
		&p.Probability,
		&p.Outcome,
		&p.ModelVersion,
		&p.CreatedAt,
	)
	return p, err
}
