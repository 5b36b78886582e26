package skipgram

import (
	"cmp"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/t1hachane/NLP-Fall-2024/vocab"
)

type Metric int

const (
	Euclidean Metric = iota
	Cosine
)

func (m Metric) String() string {
	switch m {
	case Euclidean:
		return "euclidean"
	case Cosine:
		return "cosine"
	}
	return fmt.Sprintf("Metric(%d)", int(m))
}

// ParseMetric accepts "euclidean" or "cosine".
func ParseMetric(s string) (Metric, error) {
	switch s {
	case "euclidean", "l2":
		return Euclidean, nil
	case "cosine", "cos":
		return Cosine, nil
	}
	return 0, fmt.Errorf("unknown metric %q", s)
}

// Neighbor is one nearest-neighbour hit. Score is a distance for Euclidean
// and a similarity for Cosine.
type Neighbor struct {
	Token string
	Index int
	Score float64
}

// Nearest returns the n tokens closest to token over the target embeddings,
// excluding token itself. Equal scores keep vocabulary index order.
func (m *Model) Nearest(v *vocab.Vocabulary, token string, n int, metric Metric) ([]Neighbor, error) {
	q, err := v.Index(token)
	if err != nil {
		return nil, err
	}
	return m.NearestTo(v, m.Target.RawRowView(q), n, metric, q), nil
}

// NearestTo ranks every vocabulary row against query. Index skip (if >= 0) is
// left out of the result.
func (m *Model) NearestTo(v *vocab.Vocabulary, query []float64, n int, metric Metric, skip int) []Neighbor {
	rows, d := m.Target.Dims()
	qNorm := floats.Norm(query, 2)
	var dots mat.VecDense
	if metric == Cosine {
		dots.MulVec(m.Target, mat.NewVecDense(d, append([]float64(nil), query...)))
	}
	out := make([]Neighbor, 0, rows)
	for i := 0; i < rows; i++ {
		if i == skip {
			continue
		}
		row := m.Target.RawRowView(i)
		var score float64
		switch metric {
		case Cosine:
			if denom := qNorm * floats.Norm(row, 2); denom > 0 {
				score = dots.AtVec(i) / denom
			}
		default:
			score = floats.Distance(query, row, 2)
		}
		out = append(out, Neighbor{Token: v.Token(i), Index: i, Score: score})
	}
	slices.SortStableFunc(out, func(a, b Neighbor) int {
		if metric == Cosine {
			return cmp.Compare(b.Score, a.Score)
		}
		return cmp.Compare(a.Score, b.Score)
	})
	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out
}
