package params

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Reduction selects how per-pair losses are combined within a batch.
type Reduction string

const (
	ReductionSum  Reduction = "sum"
	ReductionMean Reduction = "mean"
)

type TrainingConfig struct {
	// Model
	EmbeddingDim    int     `yaml:"embedding_dim"`    // D
	Window          int     `yaml:"window"`           // context half-width
	HalfOpenWindow  bool    `yaml:"half_open_window"` // [i-w, i+w) instead of [i-w, i+w]
	NegativeSamples int     `yaml:"negative_samples"` // k
	SubsampleT      float64 `yaml:"subsample_t"`      // keep-probability threshold
	NegativePower   float64 `yaml:"negative_power"`   // unigram exponent for negatives

	// Optimization
	LearningRate float64   `yaml:"learning_rate"`
	AdamBeta1    float64   `yaml:"adam_beta1"` // default 0.9
	AdamBeta2    float64   `yaml:"adam_beta2"` // default 0.999
	AdamEps      float64   `yaml:"adam_eps"`   // default 1e-8
	WeightDecay  float64   `yaml:"weight_decay"`
	GradClip     float64   `yaml:"grad_clip"`    // <=0 disables
	WarmupSteps  int       `yaml:"warmup_steps"` // linear warmup steps (0 = none)
	DecaySteps   int       `yaml:"decay_steps"`  // cosine decay steps after warmup (0 = none)
	SparseAdam   bool      `yaml:"sparse_adam"`  // update only rows touched by a batch
	Reduction    Reduction `yaml:"reduction"`

	// Training wheel
	BatchSize      int     `yaml:"batch_size"`
	MaxEpochs      int     `yaml:"max_epochs"`       // hard cap on top of early stopping
	Patience       int     `yaml:"patience"`         // early stopping window
	MinPercentGain float64 `yaml:"min_percent_gain"` // stop when (max-min)/max drops below this

	Seed    uint64 `yaml:"seed"`
	Workers int    `yaml:"workers"` // pair generation goroutines
}

var Config = TrainingConfig{
	EmbeddingDim:    200,
	Window:          2,
	NegativeSamples: 5,
	SubsampleT:      1e-3,
	NegativePower:   0.75,

	LearningRate: 0.001,
	AdamBeta1:    0.9,
	AdamBeta2:    0.999,
	AdamEps:      1e-8,
	WeightDecay:  0,
	GradClip:     0,
	WarmupSteps:  0,
	DecaySteps:   0,
	SparseAdam:   true,
	Reduction:    ReductionSum,

	BatchSize:      512,
	MaxEpochs:      100,
	Patience:       5,
	MinPercentGain: 0.01,

	Seed:    42,
	Workers: 4,
}

// InvalidConfigurationError reports a configuration field outside its legal range.
type InvalidConfigurationError struct {
	Field string
	Value any
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s = %v", e.Field, e.Value)
}

func invalid(field string, value any) error {
	return &InvalidConfigurationError{Field: field, Value: value}
}

// Validate checks every field the trainer depends on.
func (c TrainingConfig) Validate() error {
	switch {
	case c.Window <= 0:
		return invalid("window", c.Window)
	case c.EmbeddingDim <= 0:
		return invalid("embedding_dim", c.EmbeddingDim)
	case c.BatchSize <= 0:
		return invalid("batch_size", c.BatchSize)
	case c.NegativeSamples <= 0:
		return invalid("negative_samples", c.NegativeSamples)
	case c.Patience < 1:
		return invalid("patience", c.Patience)
	case c.MaxEpochs < 1:
		return invalid("max_epochs", c.MaxEpochs)
	case c.LearningRate <= 0:
		return invalid("learning_rate", c.LearningRate)
	case c.MinPercentGain < 0:
		return invalid("min_percent_gain", c.MinPercentGain)
	case c.SubsampleT <= 0:
		return invalid("subsample_t", c.SubsampleT)
	case c.Workers < 1:
		return invalid("workers", c.Workers)
	case c.Reduction != ReductionSum && c.Reduction != ReductionMean:
		return invalid("reduction", c.Reduction)
	}
	return nil
}

// Load overlays the YAML file at path on top of the defaults in Config.
// A missing file is not an error; the defaults are returned as-is.
func Load(path string) (TrainingConfig, error) {
	cfg := Config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}
