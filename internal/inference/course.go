// Package inference implements the course success scoring pipeline.
// A RawCourse is enriched with derived features, projected into a fixed-width
// feature vector using fitted Artifacts, and scored by the fitted classifier.
// Every step is pure; Artifacts are immutable after Load and safe to share
// across goroutines without synchronization.
package inference

// RawCourse holds one course's input attributes as submitted by a user.
// Title is display-only and never contributes to the feature vector.
type RawCourse struct {
	Title             string  `json:"title"`
	Category          string  `json:"category"`
	Difficulty        string  `json:"difficulty"`
	Price             float64 `json:"price"`
	Reviews           int     `json:"reviews"`
	Rating            float64 `json:"rating"`
	Duration          float64 `json:"duration"`
	LectureNumbers    int     `json:"lecture_numbers"`
	InstrTotalReviews int     `json:"instr_total_reviews"`
	InstrMeanRating   float64 `json:"instr_mean_rating"`
	InstrCourseCount  int     `json:"instr_course_count"`
}

// Enriched is a RawCourse extended with the engineered features the model
// was trained on.
type Enriched struct {
	RawCourse
	LogReviews           float64 `json:"log_reviews"`
	SuccessScore         float64 `json:"success_score"`
	InstrLogTotalReviews float64 `json:"instr_log_total_reviews"`
	PriceBucket          string  `json:"price_bucket"`
	DurationBucket       string  `json:"duration_bucket"`
}

// Numeric returns the numeric field with the given training-time name.
// The second return is false when no numeric field carries that name.
func (e Enriched) Numeric(name string) (float64, bool) {
	switch name {
	case "price":
		return e.Price, true
	case "reviews":
		return float64(e.Reviews), true
	case "rating":
		return e.Rating, true
	case "duration":
		return e.Duration, true
	case "lecture_numbers":
		return float64(e.LectureNumbers), true
	case "instr_total_reviews":
		return float64(e.InstrTotalReviews), true
	case "instr_mean_rating":
		return e.InstrMeanRating, true
	case "instr_course_count":
		return float64(e.InstrCourseCount), true
	case "log_reviews":
		return e.LogReviews, true
	case "success_score":
		return e.SuccessScore, true
	case "instr_log_total_reviews":
		return e.InstrLogTotalReviews, true
	}
	return 0, false
}

// Categorical returns the categorical field with the given training-time name.
// The second return is false when no categorical field carries that name.
func (e Enriched) Categorical(name string) (string, bool) {
	switch name {
	case "category":
		return e.Category, true
	case "difficulty":
		return e.Difficulty, true
	case "price_bucket":
		return e.PriceBucket, true
	case "duration_bucket":
		return e.DurationBucket, true
	}
	return "", false
}
