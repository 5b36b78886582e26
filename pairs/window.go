// Package pairs turns encoded documents into (target, context) training pairs.
package pairs

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/t1hachane/NLP-Fall-2024/params"
)

// Pair is one positive (target, context) example plus its sampled negatives.
type Pair struct {
	Target    int
	Context   int
	Negatives []int
}

// Span selects the window bounds around a target position i.
type Span int

const (
	// Symmetric covers [i-w, i+w], w neighbours on each side.
	Symmetric Span = iota
	// HalfOpen covers [i-w, i+w), dropping the right-most neighbour.
	HalfOpen
)

// Generate slides a window of half-width w over each document, pairing doc[i]
// with every doc[j] inside the span, j != i, clipped to the document. Pairs
// never cross documents and come out in document, position, window order.
func Generate(docs [][]int, w int, span Span) ([]Pair, error) {
	if w <= 0 {
		return nil, &params.InvalidConfigurationError{Field: "window", Value: w}
	}
	var out []Pair
	for _, doc := range docs {
		out = appendDoc(out, doc, w, span)
	}
	return out, nil
}

// GenerateParallel produces the same pairs as Generate, spreading documents
// over up to workers goroutines.
func GenerateParallel(ctx context.Context, docs [][]int, w int, span Span, workers int) ([]Pair, error) {
	if w <= 0 {
		return nil, &params.InvalidConfigurationError{Field: "window", Value: w}
	}
	if workers <= 1 {
		return Generate(docs, w, span)
	}
	perDoc := make([][]Pair, len(docs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, doc := range docs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			perDoc[i] = appendDoc(nil, doc, w, span)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	n := 0
	for _, p := range perDoc {
		n += len(p)
	}
	out := make([]Pair, 0, n)
	for _, p := range perDoc {
		out = append(out, p...)
	}
	return out, nil
}

func appendDoc(out []Pair, doc []int, w int, span Span) []Pair {
	reach := w + 1
	if span == HalfOpen {
		reach = w
	}
	for i := range doc {
		lo := max(0, i-w)
		hi := min(len(doc), i+reach)
		for j := lo; j < hi; j++ {
			if j == i {
				continue
			}
			out = append(out, Pair{Target: doc[i], Context: doc[j]})
		}
	}
	return out
}

// AttachNegatives pulls one draw from next per pair, in pair order.
func AttachNegatives(ps []Pair, next func() []int) {
	for i := range ps {
		ps[i].Negatives = next()
	}
}
