package train

import (
	"context"
	"errors"
	"iter"
	"math/rand/v2"

	"github.com/t1hachane/NLP-Fall-2024/pairs"
	"github.com/t1hachane/NLP-Fall-2024/params"
	"github.com/t1hachane/NLP-Fall-2024/sampling"
	"github.com/t1hachane/NLP-Fall-2024/vocab"
)

var ErrNoPairs = errors.New("no context pairs: every document has fewer than two tokens")

// Dataset is everything derived from a corpus before training starts.
type Dataset struct {
	Vocab  *vocab.Vocabulary
	Freq   *vocab.FrequencyTable // pre-subsampling counts
	Corpus [][]string            // after subsampling
	Pairs  []pairs.Pair
}

// Prepare runs frequency counting, subsampling, vocabulary building, pair
// generation and negative drawing, in that order. rng is consumed first by the
// subsampler (one draw per token occurrence) and then by the negative sampler
// (one k-draw per pair, in pair order).
func Prepare(ctx context.Context, corpus [][]string, cfg params.TrainingConfig, rng *rand.Rand) (*Dataset, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	freq := vocab.NewFrequencyTable(corpus)
	if freq.Total() == 0 {
		return nil, &vocab.EmptyVocabularyError{}
	}
	sub := sampling.Subsample(corpus, freq, cfg.SubsampleT, rng)
	v, err := vocab.Build(sub)
	if err != nil {
		return nil, err
	}
	docs, err := v.EncodeCorpus(sub)
	if err != nil {
		return nil, err
	}
	span := pairs.Symmetric
	if cfg.HalfOpenWindow {
		span = pairs.HalfOpen
	}
	ps, err := pairs.GenerateParallel(ctx, docs, cfg.Window, span, cfg.Workers)
	if err != nil {
		return nil, err
	}
	if len(ps) == 0 {
		return nil, ErrNoPairs
	}

	neg := sampling.NewNegativeSampler(v, freq, cfg.NegativePower, rng)
	next, stop := iter.Pull(neg.Draws(cfg.NegativeSamples))
	defer stop()
	pairs.AttachNegatives(ps, func() []int {
		d, _ := next()
		return d
	})

	return &Dataset{Vocab: v, Freq: freq, Corpus: sub, Pairs: ps}, nil
}
