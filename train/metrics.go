package train

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exported while training. A nil Registerer leaves them unregistered.
type Metrics struct {
	EpochLoss prometheus.Gauge
	Gain      prometheus.Gauge
	Pairs     prometheus.Gauge
	Epochs    prometheus.Counter
	Steps     prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		EpochLoss: f.NewGauge(prometheus.GaugeOpts{
			Name: "skipgram_epoch_loss",
			Help: "mean batch loss of the last finished epoch",
		}),
		Gain: f.NewGauge(prometheus.GaugeOpts{
			Name: "skipgram_early_stopping_gain",
			Help: "relative loss spread over the early stopping window",
		}),
		Pairs: f.NewGauge(prometheus.GaugeOpts{
			Name: "skipgram_training_pairs",
			Help: "context pairs per epoch",
		}),
		Epochs: f.NewCounter(prometheus.CounterOpts{
			Name: "skipgram_epochs_total",
			Help: "finished epochs",
		}),
		Steps: f.NewCounter(prometheus.CounterOpts{
			Name: "skipgram_optimizer_steps_total",
			Help: "optimizer steps (one per batch)",
		}),
	}
}
