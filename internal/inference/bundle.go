package inference

// Bundle is the serialized form of a fitted artifact set as emitted by the
// offline training export.
type Bundle struct {
	Version             string      `json:"version,omitempty"`
	NumericFeatures     []string    `json:"numeric_features"`
	CategoricalFeatures []string    `json:"categorical_features"`
	Scaler              ScalerSpec  `json:"scaler"`
	OHE                 EncoderSpec `json:"ohe"`
	Model               ModelSpec   `json:"model"`
}

// ScalerSpec holds standard scaler parameters, one entry per numeric feature.
type ScalerSpec struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// UnknownPolicy controls how the encoder treats category values that were
// absent from the training vocabulary.
type UnknownPolicy string

const (
	// UnknownError rejects unseen values with ErrUnknownCategory.
	UnknownError UnknownPolicy = "error"
	// UnknownIgnore encodes unseen values as an all-zero indicator block.
	UnknownIgnore UnknownPolicy = "ignore"
)

// EncoderSpec holds the one-hot vocabulary, one category list per
// categorical feature, in indicator column order.
type EncoderSpec struct {
	Categories    [][]string    `json:"categories"`
	HandleUnknown UnknownPolicy `json:"handle_unknown,omitempty"`
}

// Model kinds.
const (
	ModelLogistic = "logistic"
	ModelForest   = "forest"
)

// ModelSpec describes the fitted classifier. Logistic models use Coef and
// Intercept; forest models use NFeatures and Trees.
type ModelSpec struct {
	Type      string     `json:"type"`
	Coef      []float64  `json:"coef,omitempty"`
	Intercept float64    `json:"intercept,omitempty"`
	NFeatures int        `json:"n_features,omitempty"`
	Trees     []TreeSpec `json:"trees,omitempty"`
}

// TreeSpec is a fitted decision tree in flat node layout. Node 0 is the root.
type TreeSpec struct {
	Nodes []NodeSpec `json:"nodes"`
}

// NodeSpec is a single tree node. Leaves have Left and Right set to -1 and
// carry per-class weights in Value ([negative, positive]). Split nodes route
// x[Feature] <= Threshold to Left and everything else to Right.
type NodeSpec struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
	Value     []float64 `json:"value,omitempty"`
}
