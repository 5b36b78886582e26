// Package sampling holds the two corpus-frequency driven samplers: per-occurrence
// subsampling of frequent tokens and the smoothed unigram negative sampler.
package sampling

import (
	"math"
	"math/rand/v2"

	"github.com/t1hachane/NLP-Fall-2024/vocab"
)

// DefaultThreshold is the t in (sqrt(p/t)+1)*t/p.
const DefaultThreshold = 1e-3

// KeepProbability returns the chance of keeping one occurrence of a token with
// relative frequency p, clamped to [0, 1]. Rare tokens push the raw value
// above 1 and are always kept.
func KeepProbability(p, t float64) float64 {
	if p <= 0 {
		return 1
	}
	keep := (math.Sqrt(p/t) + 1) * t / p
	return math.Max(0, math.Min(1, keep))
}

// Subsample drops token occurrences with probability 1-KeepProbability.
// Exactly one rng.Float64 draw is consumed per occurrence, in corpus order.
func Subsample(corpus [][]string, freq *vocab.FrequencyTable, t float64, rng *rand.Rand) [][]string {
	keep := make(map[string]float64, len(freq.Counts))
	for tok := range freq.Counts {
		keep[tok] = KeepProbability(freq.Prob(tok), t)
	}
	out := make([][]string, len(corpus))
	for i, doc := range corpus {
		kept := make([]string, 0, len(doc))
		for _, tok := range doc {
			p, ok := keep[tok]
			if !ok {
				p = 1
			}
			if rng.Float64() < p {
				kept = append(kept, tok)
			}
		}
		out[i] = kept
	}
	return out
}
