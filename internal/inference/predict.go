package inference

import (
	"fmt"
	"math"
)

// Threshold is the positive-class probability at or above which a course
// is labelled high success.
const Threshold = 0.5

// Prediction is the classifier decision for a single course.
type Prediction struct {
	Label       int     `json:"label"`
	Probability float64 `json:"probability"`
}

// Positive reports whether the prediction is the high success class.
func (p Prediction) Positive() bool {
	return p.Label == 1
}

// Outcome bundles a prediction with the features it was derived from.
type Outcome struct {
	Features   Enriched   `json:"features"`
	Prediction Prediction `json:"prediction"`
}

// BuildMatrix selects the numeric and categorical fields declared by the
// artifacts, scales and encodes them, and concatenates numeric first.
func BuildMatrix(e Enriched, a *Artifacts) ([]float64, error) {
	numeric := make([]float64, len(a.numeric))
	for i, name := range a.numeric {
		v, ok := e.Numeric(name)
		if !ok {
			return nil, fmt.Errorf("%w: numeric feature %q", ErrSchemaMismatch, name)
		}
		numeric[i] = v
	}

	categorical := make([]string, len(a.categorical))
	for i, name := range a.categorical {
		v, ok := e.Categorical(name)
		if !ok {
			return nil, fmt.Errorf("%w: categorical feature %q", ErrSchemaMismatch, name)
		}
		categorical[i] = v
	}

	scaled, err := a.scaler.Transform(numeric)
	if err != nil {
		return nil, err
	}

	encoded, err := a.encoder.Transform(categorical)
	if err != nil {
		return nil, err
	}

	return append(scaled, encoded...), nil
}

// Predict scores a feature vector. The label is 1 when the probability is at
// least Threshold.
func Predict(vector []float64, a *Artifacts) (Prediction, error) {
	if len(vector) != a.model.Width() {
		return Prediction{}, fmt.Errorf(
			"%w: classifier expects %d features, got %d",
			ErrDimensionMismatch, a.model.Width(), len(vector),
		)
	}

	p := a.model.Probability(vector)
	if math.IsNaN(p) {
		return Prediction{}, fmt.Errorf("%w: non-finite feature vector", ErrInvalidInput)
	}
	p = min(max(p, 0), 1)

	label := 0
	if p >= Threshold {
		label = 1
	}
	return Prediction{Label: label, Probability: p}, nil
}

// Evaluate runs the full pipeline and keeps the enriched features alongside
// the prediction.
func Evaluate(raw RawCourse, a *Artifacts) (Outcome, error) {
	enriched, err := Enrich(raw)
	if err != nil {
		return Outcome{}, err
	}

	vector, err := BuildMatrix(enriched, a)
	if err != nil {
		return Outcome{}, err
	}

	prediction, err := Predict(vector, a)
	if err != nil {
		return Outcome{}, err
	}

	return Outcome{Features: enriched, Prediction: prediction}, nil
}

// PredictSuccess returns the label and positive-class probability for raw.
func PredictSuccess(raw RawCourse, a *Artifacts) (Prediction, error) {
	o, err := Evaluate(raw, a)
	if err != nil {
		return Prediction{}, err
	}
	return o.Prediction, nil
}
