package model

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// TreeNode is one node of a flattened decision tree. Leaves have Left and
// Right set to -1 and carry per-class sample counts in Value.
type TreeNode struct {
	Value     []float64 `json:"value,omitempty"     yaml:"value,omitempty"`
	Threshold float64   `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	Feature   int       `json:"feature,omitempty"   yaml:"feature,omitempty"`
	Left      int       `json:"left"                yaml:"left"`
	Right     int       `json:"right"               yaml:"right"`
}

// IsLeaf reports whether the node has no children.
func (n TreeNode) IsLeaf() bool {
	return n.Left == -1 && n.Right == -1
}

// DecisionTree is a fitted binary decision tree. Rows go left when
// x[feature] <= threshold.
type DecisionTree struct {
	nodes     []TreeNode
	proba     [][]float64 // normalized leaf distributions, nil for split nodes
	nFeatures int
}

// NewDecisionTree validates nodes and creates a DecisionTree. Children must
// be stored after their parent, which rules out cycles.
func NewDecisionTree(nFeatures int, nodes []TreeNode) (*DecisionTree, error) {
	if nFeatures < 1 {
		return nil, fmt.Errorf("%w: n_features must be positive", ErrInvalidArtifact)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: tree has no nodes", ErrInvalidArtifact)
	}

	proba := make([][]float64, len(nodes))
	for i, node := range nodes {
		if node.IsLeaf() {
			if len(node.Value) != len(binaryClasses) {
				return nil, fmt.Errorf("%w: leaf %d has %d class counts", ErrInvalidArtifact, i, len(node.Value))
			}
			total := floats.Sum(node.Value)
			if total <= 0 {
				return nil, fmt.Errorf("%w: leaf %d has no samples", ErrInvalidArtifact, i)
			}
			dist := slices.Clone(node.Value)
			floats.Scale(1/total, dist)
			proba[i] = dist
			continue
		}

		if node.Feature < 0 || node.Feature >= nFeatures {
			return nil, fmt.Errorf("%w: node %d splits on feature %d of %d", ErrInvalidArtifact, i, node.Feature, nFeatures)
		}
		for _, child := range []int{node.Left, node.Right} {
			if child <= i || child >= len(nodes) {
				return nil, fmt.Errorf("%w: node %d has invalid child %d", ErrInvalidArtifact, i, child)
			}
		}
	}

	return &DecisionTree{
		nodes:     slices.Clone(nodes),
		proba:     proba,
		nFeatures: nFeatures,
	}, nil
}

// Kind returns ClassifierKindDecisionTree.
func (t *DecisionTree) Kind() ClassifierKind { return ClassifierKindDecisionTree }

// NumFeatures returns the fitted dimensionality.
func (t *DecisionTree) NumFeatures() int { return t.nFeatures }

// Classes returns [0 1].
func (t *DecisionTree) Classes() []int { return slices.Clone(binaryClasses) }

// leaf walks row i of x down to its leaf and returns the leaf index.
func (t *DecisionTree) leaf(x mat.Matrix, i int) int {
	idx := 0
	for !t.nodes[idx].IsLeaf() {
		node := t.nodes[idx]
		if x.At(i, node.Feature) <= node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
	}
	return idx
}

func (t *DecisionTree) checkShape(x mat.Matrix) (int, error) {
	r, c := x.Dims()
	if c != t.nFeatures {
		return 0, fmt.Errorf("%w: classifier expects %d features, got %d", ErrShapeMismatch, t.nFeatures, c)
	}
	return r, nil
}

// Predict returns the majority class of each row's leaf. Ties go to class 0.
func (t *DecisionTree) Predict(x mat.Matrix) ([]int, error) {
	r, err := t.checkShape(x)
	if err != nil {
		return nil, err
	}

	labels := make([]int, r)
	for i := range r {
		labels[i] = binaryClasses[floats.MaxIdx(t.proba[t.leaf(x, i)])]
	}

	return labels, nil
}

// PredictProba returns the normalized class counts of each row's leaf.
func (t *DecisionTree) PredictProba(x mat.Matrix) (*mat.Dense, error) {
	r, err := t.checkShape(x)
	if err != nil {
		return nil, err
	}

	proba := mat.NewDense(r, len(binaryClasses), nil)
	for i := range r {
		proba.SetRow(i, t.proba[t.leaf(x, i)])
	}

	return proba, nil
}
