// Package vocab maps corpus tokens to dense indices and counts them.
package vocab

import (
	"fmt"
	"sort"
)

// EmptyVocabularyError is returned when a corpus holds no tokens at all.
type EmptyVocabularyError struct{}

func (*EmptyVocabularyError) Error() string { return "empty vocabulary: corpus has no tokens" }

// UnknownTokenError is returned for lookups of tokens outside the vocabulary.
type UnknownTokenError struct {
	Token string
}

func (e *UnknownTokenError) Error() string {
	return fmt.Sprintf("unknown token %q", e.Token)
}

type Vocabulary struct {
	TokenToID map[string]int
	IDToToken []string
}

// Build assigns one index per distinct token in corpus. Indices are ordered by
// descending count, ties broken lexicographically, so the same corpus always
// yields the same mapping.
func Build(corpus [][]string) (*Vocabulary, error) {
	return FromCounts(NewFrequencyTable(corpus).Counts)
}

// FromCounts builds a vocabulary over the keys of cnt.
func FromCounts(cnt map[string]int) (*Vocabulary, error) {
	type kv struct {
		k string
		v int
	}
	arr := make([]kv, 0, len(cnt))
	for k, v := range cnt {
		if v > 0 {
			arr = append(arr, kv{k, v})
		}
	}
	if len(arr) == 0 {
		return nil, &EmptyVocabularyError{}
	}
	sort.Slice(arr, func(i, j int) bool {
		if arr[i].v == arr[j].v {
			return arr[i].k < arr[j].k
		}
		return arr[i].v > arr[j].v
	})
	v := &Vocabulary{
		TokenToID: make(map[string]int, len(arr)),
		IDToToken: make([]string, len(arr)),
	}
	for i, p := range arr {
		v.TokenToID[p.k] = i
		v.IDToToken[i] = p.k
	}
	return v, nil
}

func (v *Vocabulary) Len() int { return len(v.IDToToken) }

func (v *Vocabulary) Index(tok string) (int, error) {
	if id, ok := v.TokenToID[tok]; ok {
		return id, nil
	}
	return -1, &UnknownTokenError{Token: tok}
}

func (v *Vocabulary) Token(id int) string { return v.IDToToken[id] }

// Encode maps every token of doc to its index.
func (v *Vocabulary) Encode(doc []string) ([]int, error) {
	out := make([]int, len(doc))
	for i, t := range doc {
		id, err := v.Index(t)
		if err != nil {
			return nil, err
		}
		out[i] = id
	}
	return out, nil
}

// EncodeCorpus encodes each document, keeping document boundaries.
func (v *Vocabulary) EncodeCorpus(corpus [][]string) ([][]int, error) {
	out := make([][]int, len(corpus))
	for i, doc := range corpus {
		ids, err := v.Encode(doc)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		out[i] = ids
	}
	return out, nil
}
