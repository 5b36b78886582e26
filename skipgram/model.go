// Package skipgram holds the two embedding tables of a skip-gram model, its
// negative-sampling loss and nearest-neighbour queries over the result.
package skipgram

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/t1hachane/NLP-Fall-2024/params"
	"github.com/t1hachane/NLP-Fall-2024/utils"
)

// Model owns the target-side and context-side tables, each (V x D).
type Model struct {
	Target  *mat.Dense
	Context *mat.Dense
}

// New initializes both tables uniformly in [-1/sqrt(D), 1/sqrt(D)]:
// zero mean, variance 1/(3D).
func New(vocabSize, dim int, rng *rand.Rand) (*Model, error) {
	if vocabSize <= 0 {
		return nil, &params.InvalidConfigurationError{Field: "vocab_size", Value: vocabSize}
	}
	if dim <= 0 {
		return nil, &params.InvalidConfigurationError{Field: "embedding_dim", Value: dim}
	}
	return &Model{
		Target:  mat.NewDense(vocabSize, dim, utils.RandomArray(rng, vocabSize*dim, float64(dim))),
		Context: mat.NewDense(vocabSize, dim, utils.RandomArray(rng, vocabSize*dim, float64(dim))),
	}, nil
}

// FromTables wraps existing tables, e.g. loaded from a checkpoint.
func FromTables(target, context *mat.Dense) (*Model, error) {
	tr, tc := target.Dims()
	cr, cc := context.Dims()
	if tr != cr || tc != cc {
		return nil, fmt.Errorf("table shapes differ: %dx%d vs %dx%d", tr, tc, cr, cc)
	}
	return &Model{Target: target, Context: context}, nil
}

func (m *Model) Dims() (vocabSize, dim int) { return m.Target.Dims() }

// Vector returns a copy of the target embedding for index i.
func (m *Model) Vector(i int) []float64 {
	return append([]float64(nil), m.Target.RawRowView(i)...)
}
