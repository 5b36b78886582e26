// Package train drives skip-gram optimization: batching, Adam updates and the
// plateau-based early stopping rule, bounded by a hard epoch cap.
package train

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/t1hachane/NLP-Fall-2024/log"
	"github.com/t1hachane/NLP-Fall-2024/optimizations"
	"github.com/t1hachane/NLP-Fall-2024/pairs"
	"github.com/t1hachane/NLP-Fall-2024/params"
	"github.com/t1hachane/NLP-Fall-2024/skipgram"
	"github.com/t1hachane/NLP-Fall-2024/utils"
)

type State int

const (
	StateInit State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

type StopReason int

const (
	StopNone StopReason = iota
	StopPlateau
	StopMaxEpochs
	StopCancelled
)

func (r StopReason) String() string {
	switch r {
	case StopNone:
		return "none"
	case StopPlateau:
		return "plateau"
	case StopMaxEpochs:
		return "max_epochs"
	case StopCancelled:
		return "cancelled"
	}
	return fmt.Sprintf("StopReason(%d)", int(r))
}

var ErrAlreadyRun = errors.New("trainer already ran; build a new one")

type Result struct {
	RunID       string
	Epochs      int
	Steps       int
	Losses      []float64 // epoch-mean batch loss, one per finished epoch
	InitialLoss float64   // mean batch loss before any update
	FinalLoss   float64   // mean batch loss after the last update
	Reason      StopReason
	Elapsed     time.Duration
}

type Trainer struct {
	Model *skipgram.Model

	cfg     params.TrainingConfig
	rng     *rand.Rand
	log     log.Logger
	metrics *Metrics
	stopper *EarlyStopping

	targetOpt  *optimizations.Adam
	contextOpt *optimizations.Adam

	state State
	step  int
	runID string
}

type Option func(*Trainer)

func WithLogger(l log.Logger) Option {
	return func(t *Trainer) { t.log = l }
}

func WithMetrics(m *Metrics) Option {
	return func(t *Trainer) { t.metrics = m }
}

// NewTrainer validates cfg and sets up one Adam state per embedding table.
// rng drives the per-epoch shuffle.
func NewTrainer(model *skipgram.Model, cfg params.TrainingConfig, rng *rand.Rand, opts ...Option) (*Trainer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	t := &Trainer{
		Model:   model,
		cfg:     cfg,
		rng:     rng,
		log:     log.Nop{},
		metrics: NewMetrics(nil),
		stopper: NewEarlyStopping(cfg.Patience, cfg.MinPercentGain),
		runID:   uuid.NewString(),
	}
	for _, o := range opts {
		o(t)
	}
	t.log = t.log.With("run", t.runID)
	t.targetOpt = optimizations.NewAdam(model.Target, cfg.AdamBeta1, cfg.AdamBeta2, cfg.AdamEps, cfg.WeightDecay)
	t.contextOpt = optimizations.NewAdam(model.Context, cfg.AdamBeta1, cfg.AdamBeta2, cfg.AdamEps, cfg.WeightDecay)
	return t, nil
}

func (t *Trainer) State() State { return t.state }

func (t *Trainer) RunID() string { return t.runID }

// Run trains until the loss plateaus, MaxEpochs is reached, or ctx is done.
// ctx is checked between batches; on cancellation the partial result is
// returned together with ctx.Err().
func (t *Trainer) Run(ctx context.Context, ps []pairs.Pair) (*Result, error) {
	if t.state != StateInit {
		return nil, ErrAlreadyRun
	}
	if len(ps) == 0 {
		return nil, ErrNoPairs
	}
	t.state = StateRunning
	defer func() { t.state = StateStopped }()

	start := time.Now()
	res := &Result{RunID: t.runID}
	initial, err := t.Evaluate(ps)
	if err != nil {
		return nil, err
	}
	res.InitialLoss = initial
	t.metrics.Pairs.Set(float64(len(ps)))
	t.log.Info("training on %d pairs, batch %d, initial loss %.4f", len(ps), t.cfg.BatchSize, initial)

	order := append([]pairs.Pair(nil), ps...)
	for e := 0; e < t.cfg.MaxEpochs; e++ {
		epochStart := time.Now()
		loss, err := t.epoch(ctx, order)
		if err != nil {
			res.Steps = t.step
			res.Elapsed = time.Since(start)
			if ctx.Err() != nil {
				res.Reason = StopCancelled
				t.log.Warn("cancelled during epoch %d after %d steps", e+1, t.step)
			}
			return res, err
		}
		res.Epochs++
		res.Losses = append(res.Losses, loss)
		t.stopper.Record(loss)

		t.metrics.Epochs.Inc()
		t.metrics.EpochLoss.Set(loss)
		t.metrics.Gain.Set(t.stopper.Gain())
		t.log.Info("epoch %d - loss %.4f, gain %.4f, time %v", e+1, loss, t.stopper.Gain(), time.Since(epochStart))

		if t.stopper.ShouldStop() {
			res.Reason = StopPlateau
			break
		}
	}
	if res.Reason == StopNone {
		res.Reason = StopMaxEpochs
	}
	res.Steps = t.step
	final, err := t.Evaluate(ps)
	if err != nil {
		return res, err
	}
	res.FinalLoss = final
	res.Elapsed = time.Since(start)
	t.log.Info("stopped (%s) after %d epochs, final loss %.4f", res.Reason, res.Epochs, final)
	return res, nil
}

// epoch shuffles order in place, then applies one optimizer step per batch.
// It returns the mean batch loss.
func (t *Trainer) epoch(ctx context.Context, order []pairs.Pair) (float64, error) {
	t.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	bs := t.cfg.BatchSize
	total, batches := 0.0, 0
	for lo := 0; lo < len(order); lo += bs {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		loss, err := t.Step(order[lo:min(lo+bs, len(order))])
		if err != nil {
			return 0, err
		}
		total += loss
		batches++
	}
	return total / float64(batches), nil
}

// Step runs forward/backward on one batch and applies the Adam update.
// It returns the batch loss computed before the update.
func (t *Trainer) Step(batch []pairs.Pair) (float64, error) {
	loss, grads, err := t.Model.Forward(batch, t.cfg.Reduction)
	if err != nil {
		return 0, err
	}
	t.step++
	lr := utils.LRSchedule(t.step, t.cfg.LearningRate, t.cfg.WarmupSteps, t.cfg.DecaySteps)
	if t.cfg.GradClip > 0 {
		utils.ClipGrads(t.cfg.GradClip, grads.Target.Grad, grads.Context.Grad)
	}

	t.targetOpt.Step()
	t.contextOpt.Step()
	if t.cfg.SparseAdam {
		t.targetOpt.UpdateRows(t.Model.Target, grads.Target.Rows, grads.Target.Grad, lr)
		t.contextOpt.UpdateRows(t.Model.Context, grads.Context.Rows, grads.Context.Grad, lr)
	} else {
		v, _ := t.Model.Dims()
		t.targetOpt.Update(t.Model.Target, grads.Target.Dense(v), lr)
		t.contextOpt.Update(t.Model.Context, grads.Context.Dense(v), lr)
	}
	t.metrics.Steps.Inc()
	return loss, nil
}

// Evaluate is the mean batch loss over ps in the given order, without updates.
func (t *Trainer) Evaluate(ps []pairs.Pair) (float64, error) {
	bs := t.cfg.BatchSize
	total, batches := 0.0, 0
	for lo := 0; lo < len(ps); lo += bs {
		l, err := t.Model.Loss(ps[lo:min(lo+bs, len(ps))], t.cfg.Reduction)
		if err != nil {
			return 0, err
		}
		total += l
		batches++
	}
	if batches == 0 {
		return 0, ErrNoPairs
	}
	return total / float64(batches), nil
}
