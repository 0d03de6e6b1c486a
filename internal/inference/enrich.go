package inference

import (
	"fmt"
	"math"
)

// Price buckets. Boundaries are upper-inclusive: (-inf, 0], (0, 1000],
// (1000, 3000], (3000, +inf).
const (
	PriceFree   = "free"
	PriceLow    = "low"
	PriceMedium = "medium"
	PriceHigh   = "high"
)

// Duration buckets in hours. Boundaries are upper-inclusive: (-inf, 2],
// (2, 10], (10, 30], (30, +inf).
const (
	DurationVeryShort = "very_short"
	DurationShort     = "short"
	DurationMedium    = "medium"
	DurationLong      = "long"
)

const (
	priceLowMax       = 1000.0
	priceMediumMax    = 3000.0
	durationVeryShort = 2.0
	durationShortMax  = 10.0
	durationMediumMax = 30.0

	ratingWeight     = 0.6
	logReviewsWeight = 0.4
	maxRating        = 5.0
)

// PriceBucket maps a price to its bucket label.
func PriceBucket(price float64) string {
	switch {
	case price <= 0:
		return PriceFree
	case price <= priceLowMax:
		return PriceLow
	case price <= priceMediumMax:
		return PriceMedium
	default:
		return PriceHigh
	}
}

// DurationBucket maps a duration in hours to its bucket label.
func DurationBucket(hours float64) string {
	switch {
	case hours <= durationVeryShort:
		return DurationVeryShort
	case hours <= durationShortMax:
		return DurationShort
	case hours <= durationMediumMax:
		return DurationMedium
	default:
		return DurationLong
	}
}

// Enrich validates raw and derives the engineered features.
// Out-of-domain values (negative counts, price or duration, ratings outside
// [0, 5], non-finite reals, zero instructor course count) return
// ErrInvalidInput rather than being clamped.
func Enrich(raw RawCourse) (Enriched, error) {
	if err := validate(raw); err != nil {
		return Enriched{}, err
	}

	logReviews := math.Log1p(float64(raw.Reviews))

	return Enriched{
		RawCourse:            raw,
		LogReviews:           logReviews,
		SuccessScore:         ratingWeight*raw.Rating + logReviewsWeight*logReviews,
		InstrLogTotalReviews: math.Log1p(float64(raw.InstrTotalReviews)),
		PriceBucket:          PriceBucket(raw.Price),
		DurationBucket:       DurationBucket(raw.Duration),
	}, nil
}

func validate(raw RawCourse) error {
	reals := []struct {
		name  string
		value float64
	}{
		{"price", raw.Price},
		{"rating", raw.Rating},
		{"duration", raw.Duration},
		{"instr_mean_rating", raw.InstrMeanRating},
	}
	for _, r := range reals {
		if math.IsNaN(r.value) || math.IsInf(r.value, 0) {
			return fmt.Errorf("%w: %s must be finite", ErrInvalidInput, r.name)
		}
	}

	switch {
	case raw.Price < 0:
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	case raw.Duration < 0:
		return fmt.Errorf("%w: duration must not be negative", ErrInvalidInput)
	case raw.Reviews < 0:
		return fmt.Errorf("%w: reviews must not be negative", ErrInvalidInput)
	case raw.LectureNumbers < 0:
		return fmt.Errorf("%w: lecture_numbers must not be negative", ErrInvalidInput)
	case raw.InstrTotalReviews < 0:
		return fmt.Errorf("%w: instr_total_reviews must not be negative", ErrInvalidInput)
	case raw.InstrCourseCount < 1:
		return fmt.Errorf("%w: instr_course_count must be positive", ErrInvalidInput)
	case raw.Rating < 0 || raw.Rating > maxRating:
		return fmt.Errorf("%w: rating must be within [0, 5]", ErrInvalidInput)
	case raw.InstrMeanRating < 0 || raw.InstrMeanRating > maxRating:
		return fmt.Errorf("%w: instr_mean_rating must be within [0, 5]", ErrInvalidInput)
	}

	return nil
}
