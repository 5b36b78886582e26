package sampling

import (
	"iter"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/t1hachane/NLP-Fall-2024/vocab"
)

// DefaultPower smooths the unigram distribution used for negatives.
const DefaultPower = 0.75

// NegativeSampler draws vocabulary indices from count^power, normalized once
// at construction. Negatives are not filtered against the positive pair and
// may repeat within a draw.
type NegativeSampler struct {
	probs []float64
	dist  distuv.Categorical
}

// NewNegativeSampler weights every vocabulary token by freq.Count(token)^power.
// freq is expected to be the pre-subsampling table.
func NewNegativeSampler(v *vocab.Vocabulary, freq *vocab.FrequencyTable, power float64, rng *rand.Rand) *NegativeSampler {
	w := make([]float64, v.Len())
	for i, tok := range v.IDToToken {
		c := freq.Count(tok)
		if c == 0 {
			// token only reachable through v; treat as seen once
			c = 1
		}
		w[i] = math.Pow(float64(c), power)
	}
	floats.Scale(1/floats.Sum(w), w)
	return &NegativeSampler{
		probs: w,
		dist:  distuv.NewCategorical(w, rng),
	}
}

// Draw returns k independent indices, with replacement.
func (s *NegativeSampler) Draw(k int) []int {
	out := make([]int, k)
	for i := range out {
		out[i] = int(s.dist.Rand())
	}
	return out
}

// Draws is an endless sequence of k-sized draws. Nothing is produced ahead of
// the consumer; stop by breaking out of the range loop.
func (s *NegativeSampler) Draws(k int) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		for {
			if !yield(s.Draw(k)) {
				return
			}
		}
	}
}

// Probabilities returns a copy of the normalized sampling distribution.
func (s *NegativeSampler) Probabilities() []float64 {
	return append([]float64(nil), s.probs...)
}
