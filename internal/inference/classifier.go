package inference

import (
	"fmt"
	"math"
	"slices"
)

// Classifier is a fitted binary classifier over fixed-width feature vectors.
type Classifier interface {
	// Kind returns the model kind (ModelLogistic or ModelForest).
	Kind() string
	// Width returns the expected feature vector width.
	Width() int
	// Probability returns the positive-class probability for x.
	// Callers guarantee len(x) == Width().
	Probability(x []float64) float64
}

func newClassifier(spec ModelSpec) (Classifier, error) {
	switch spec.Type {
	case ModelLogistic:
		return newLogistic(spec)
	case ModelForest:
		return newForest(spec)
	default:
		return nil, fmt.Errorf("unsupported model type %q", spec.Type)
	}
}

type logistic struct {
	coef      []float64
	intercept float64
}

func newLogistic(spec ModelSpec) (*logistic, error) {
	if len(spec.Coef) == 0 {
		return nil, fmt.Errorf("logistic model has no coefficients")
	}
	return &logistic{
		coef:      slices.Clone(spec.Coef),
		intercept: spec.Intercept,
	}, nil
}

func (m *logistic) Kind() string { return ModelLogistic }
func (m *logistic) Width() int   { return len(m.coef) }

func (m *logistic) Probability(x []float64) float64 {
	z := m.intercept
	for i, w := range m.coef {
		z += w * x[i]
	}
	return sigmoid(z)
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	ez := math.Exp(z)
	return ez / (1 + ez)
}

type node struct {
	feature     int
	threshold   float64
	left, right int
	positive    float64
}

type forest struct {
	width int
	trees [][]node
}

func newForest(spec ModelSpec) (*forest, error) {
	if spec.NFeatures < 1 {
		return nil, fmt.Errorf("forest model requires n_features")
	}
	if len(spec.Trees) == 0 {
		return nil, fmt.Errorf("forest model has no trees")
	}

	trees := make([][]node, len(spec.Trees))
	for t, tree := range spec.Trees {
		nodes, err := compileTree(tree, spec.NFeatures)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", t, err)
		}
		trees[t] = nodes
	}

	return &forest{width: spec.NFeatures, trees: trees}, nil
}

// compileTree checks that every split references a valid feature and that
// children always follow their parent, which guarantees traversal ends.
func compileTree(tree TreeSpec, width int) ([]node, error) {
	n := len(tree.Nodes)
	if n == 0 {
		return nil, fmt.Errorf("no nodes")
	}

	nodes := make([]node, n)
	for i, spec := range tree.Nodes {
		if spec.Left == -1 && spec.Right == -1 {
			if len(spec.Value) != 2 {
				return nil, fmt.Errorf("leaf %d must carry two class weights", i)
			}
			total := spec.Value[0] + spec.Value[1]
			positive := 0.0
			if total > 0 {
				positive = spec.Value[1] / total
			}
			nodes[i] = node{left: -1, right: -1, positive: positive}
			continue
		}

		if spec.Feature < 0 || spec.Feature >= width {
			return nil, fmt.Errorf("node %d splits on feature %d outside [0, %d)", i, spec.Feature, width)
		}
		if spec.Left <= i || spec.Left >= n || spec.Right <= i || spec.Right >= n {
			return nil, fmt.Errorf("node %d has invalid children %d/%d", i, spec.Left, spec.Right)
		}
		nodes[i] = node{
			feature:   spec.Feature,
			threshold: spec.Threshold,
			left:      spec.Left,
			right:     spec.Right,
		}
	}
	return nodes, nil
}

func (m *forest) Kind() string { return ModelForest }
func (m *forest) Width() int   { return m.width }

func (m *forest) Probability(x []float64) float64 {
	sum := 0.0
	for _, nodes := range m.trees {
		i := 0
		for nodes[i].left != -1 {
			if x[nodes[i].feature] <= nodes[i].threshold {
				i = nodes[i].left
			} else {
				i = nodes[i].right
			}
		}
		sum += nodes[i].positive
	}
	return sum / float64(len(m.trees))
}
