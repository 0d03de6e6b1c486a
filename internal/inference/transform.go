package inference

import (
	"fmt"
	"slices"
)

// Scaler standardizes numeric features: (x - mean) / scale.
type Scaler struct {
	mean  []float64
	scale []float64
}

func newScaler(spec ScalerSpec, width int) (*Scaler, error) {
	if len(spec.Mean) != width || len(spec.Scale) != width {
		return nil, fmt.Errorf(
			"scaler has %d means and %d scales for %d numeric features",
			len(spec.Mean), len(spec.Scale), width,
		)
	}
	for i, s := range spec.Scale {
		if s <= 0 {
			return nil, fmt.Errorf("scaler scale[%d] must be positive", i)
		}
	}
	return &Scaler{
		mean:  slices.Clone(spec.Mean),
		scale: slices.Clone(spec.Scale),
	}, nil
}

// Width returns the number of numeric features the scaler was fitted on.
func (s *Scaler) Width() int {
	return len(s.mean)
}

// Transform returns the standardized copy of x.
func (s *Scaler) Transform(x []float64) ([]float64, error) {
	if len(x) != len(s.mean) {
		return nil, fmt.Errorf("%w: scaler expects %d values, got %d", ErrDimensionMismatch, len(s.mean), len(x))
	}
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = (v - s.mean[i]) / s.scale[i]
	}
	return out, nil
}

// Encoder one-hot encodes categorical features against a fixed vocabulary.
type Encoder struct {
	features   []string
	categories [][]string
	index      []map[string]int
	widths     []int
	policy     UnknownPolicy
}

func newEncoder(spec EncoderSpec, features []string) (*Encoder, error) {
	if len(spec.Categories) != len(features) {
		return nil, fmt.Errorf(
			"encoder has %d category lists for %d categorical features",
			len(spec.Categories), len(features),
		)
	}

	policy := spec.HandleUnknown
	switch policy {
	case "":
		policy = UnknownError
	case UnknownError, UnknownIgnore:
	default:
		return nil, fmt.Errorf("unsupported handle_unknown policy %q", policy)
	}

	categories := make([][]string, len(spec.Categories))
	index := make([]map[string]int, len(spec.Categories))
	widths := make([]int, len(spec.Categories))
	for i, cats := range spec.Categories {
		if len(cats) == 0 {
			return nil, fmt.Errorf("feature %q has no categories", features[i])
		}
		m := make(map[string]int, len(cats))
		for j, c := range cats {
			if _, dup := m[c]; dup {
				return nil, fmt.Errorf("feature %q lists category %q twice", features[i], c)
			}
			m[c] = j
		}
		categories[i] = slices.Clone(cats)
		index[i] = m
		widths[i] = len(cats)
	}

	return &Encoder{
		features:   slices.Clone(features),
		categories: categories,
		index:      index,
		widths:     widths,
		policy:     policy,
	}, nil
}

// Width returns the total number of indicator columns.
func (e *Encoder) Width() int {
	total := 0
	for _, w := range e.widths {
		total += w
	}
	return total
}

// Categories returns a copy of the fitted vocabulary for feature, or nil
// when feature is not encoded.
func (e *Encoder) Categories(feature string) []string {
	i := slices.Index(e.features, feature)
	if i < 0 {
		return nil
	}
	return slices.Clone(e.categories[i])
}

// Policy returns the unknown-category policy in effect.
func (e *Encoder) Policy() UnknownPolicy {
	return e.policy
}

// Transform one-hot encodes values, which must be ordered like the
// encoder's features.
func (e *Encoder) Transform(values []string) ([]float64, error) {
	if len(values) != len(e.index) {
		return nil, fmt.Errorf("%w: encoder expects %d values, got %d", ErrDimensionMismatch, len(e.index), len(values))
	}

	out := make([]float64, e.Width())
	offset := 0
	for i, v := range values {
		j, ok := e.index[i][v]
		switch {
		case ok:
			out[offset+j] = 1
		case e.policy == UnknownError:
			return nil, fmt.Errorf("%w: %s=%q", ErrUnknownCategory, e.features[i], v)
		}
		offset += e.widths[i]
	}
	return out, nil
}
