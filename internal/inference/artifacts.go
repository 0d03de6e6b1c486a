package inference

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed bundle.schema.json
var bundleSchema []byte

const bundleSchemaURL = "coursecast://bundle.schema.json"

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(bundleSchema))
	if err != nil {
		return nil, fmt.Errorf("parse bundle schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(bundleSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("add bundle schema: %w", err)
	}
	return c.Compile(bundleSchemaURL)
})

// Artifacts is the immutable set of fitted transforms and the classifier.
// It is built once by Load or New and only read afterwards.
type Artifacts struct {
	version     string
	numeric     []string
	categorical []string
	scaler      *Scaler
	encoder     *Encoder
	model       Classifier
}

// New builds Artifacts from a decoded bundle, checking that every component
// agrees on feature counts and vector width.
func New(b Bundle) (*Artifacts, error) {
	scaler, err := newScaler(b.Scaler, len(b.NumericFeatures))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArtifactLoad, err)
	}

	encoder, err := newEncoder(b.OHE, b.CategoricalFeatures)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArtifactLoad, err)
	}

	model, err := newClassifier(b.Model)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArtifactLoad, err)
	}

	width := scaler.Width() + encoder.Width()
	if model.Width() != width {
		return nil, fmt.Errorf(
			"%w: model expects %d features, transforms produce %d",
			ErrArtifactLoad, model.Width(), width,
		)
	}

	return &Artifacts{
		version:     b.Version,
		numeric:     slices.Clone(b.NumericFeatures),
		categorical: slices.Clone(b.CategoricalFeatures),
		scaler:      scaler,
		encoder:     encoder,
		model:       model,
	}, nil
}

// Load reads a JSON bundle, validates it against the bundle schema, and
// builds Artifacts. Every failure wraps ErrArtifactLoad.
func Load(r io.Reader) (*Artifacts, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read bundle: %w", ErrArtifactLoad, err)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: parse bundle: %w", ErrArtifactLoad, err)
	}

	schema, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArtifactLoad, err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArtifactLoad, err)
	}

	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("%w: decode bundle: %w", ErrArtifactLoad, err)
	}

	return New(b)
}

// LoadFile opens path and loads the bundle it contains.
func LoadFile(path string) (*Artifacts, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArtifactLoad, err)
	}
	defer f.Close()

	return Load(f)
}

// Version returns the bundle version label, which may be empty.
func (a *Artifacts) Version() string {
	return a.version
}

// NumericFeatures returns a copy of the ordered numeric feature names.
func (a *Artifacts) NumericFeatures() []string {
	return slices.Clone(a.numeric)
}

// CategoricalFeatures returns a copy of the ordered categorical feature names.
func (a *Artifacts) CategoricalFeatures() []string {
	return slices.Clone(a.categorical)
}

// Categories returns a copy of the fitted vocabulary for a categorical
// feature, or nil when the bundle does not encode it.
func (a *Artifacts) Categories(feature string) []string {
	return a.encoder.Categories(feature)
}

// Width returns the feature vector width the classifier expects.
func (a *Artifacts) Width() int {
	return a.model.Width()
}

// ModelKind returns the classifier kind.
func (a *Artifacts) ModelKind() string {
	return a.model.Kind()
}

// UnknownPolicy returns the encoder's unknown-category policy.
func (a *Artifacts) UnknownPolicy() UnknownPolicy {
	return a.encoder.Policy()
}
