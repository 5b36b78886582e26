package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/natefinch/lumberjack"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/t1hachane/NLP-Fall-2024/IO"
	"github.com/t1hachane/NLP-Fall-2024/log"
	"github.com/t1hachane/NLP-Fall-2024/params"
	"github.com/t1hachane/NLP-Fall-2024/skipgram"
	"github.com/t1hachane/NLP-Fall-2024/train"
	"github.com/t1hachane/NLP-Fall-2024/vocab"
)

var (
	configPath  string
	corpusPath  string
	outDir      string
	modelPath   string
	queryFlag   bool
	metricName  string
	topN        int
	metricsAddr string
	logLevel    string
	logFile     string

	dimFlag    int
	windowFlag int
	epochsFlag int
	seedFlag   uint64
)

func init() {
	flag.StringVar(&configPath, "config", "config.yaml", "YAML training config (missing file = defaults)")
	flag.StringVar(&corpusPath, "corpus", "../data/raw/corpus.txt", "training text, one document per line")
	flag.StringVar(&outDir, "out", "models", "directory for model.gob, vocab.json and vectors.txt")
	flag.StringVar(&modelPath, "model", "", "load a trained model.gob instead of training")
	flag.BoolVar(&queryFlag, "query", false, "read tokens from stdin and print nearest neighbours")
	flag.StringVar(&metricName, "metric", "cosine", "neighbour metric: cosine or euclidean")
	flag.IntVar(&topN, "top", 10, "neighbours per query")
	flag.StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address, e.g. :9090")
	flag.StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	flag.StringVar(&logFile, "log-file", "", "also write logs to this rotated file")

	flag.IntVar(&dimFlag, "dim", 0, "override embedding dimension")
	flag.IntVar(&windowFlag, "window", 0, "override context half-width")
	flag.IntVar(&epochsFlag, "epochs", 0, "override max epochs")
	flag.Uint64Var(&seedFlag, "seed", 0, "override random seed")
}

func main() {
	flag.Parse()

	logger := log.New()
	logger.SetLevel(logLevel)
	if logFile != "" {
		logger.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     28, // days
		}))
	}

	if err := run(logger); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}

func run(logger log.Logger) error {
	metric, err := skipgram.ParseMetric(metricName)
	if err != nil {
		return err
	}

	var (
		v     *vocab.Vocabulary
		model *skipgram.Model
	)
	if modelPath != "" {
		v, model, err = IO.LoadModel(modelPath)
		if err != nil {
			return fmt.Errorf("load model: %w", err)
		}
		logger.Info("loaded %s: %d tokens", modelPath, v.Len())
	} else {
		v, model, err = trainModel(logger)
		if err != nil {
			return err
		}
	}

	if queryFlag {
		return QueryCLI(os.Stdin, os.Stdout, v, model, metric, topN)
	}
	return nil
}

func loadConfig() (params.TrainingConfig, error) {
	cfg, err := params.Load(configPath)
	if err != nil {
		return cfg, err
	}
	if dimFlag != 0 {
		cfg.EmbeddingDim = dimFlag
	}
	if windowFlag != 0 {
		cfg.Window = windowFlag
	}
	if epochsFlag != 0 {
		cfg.MaxEpochs = epochsFlag
	}
	if seedFlag != 0 {
		cfg.Seed = seedFlag
	}
	return cfg, cfg.Validate()
}

func trainModel(logger log.Logger) (*vocab.Vocabulary, *skipgram.Model, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	corpus, err := IO.LoadCorpus(corpusPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load corpus: %w", err)
	}
	logger.Info("loaded %d documents from %s", len(corpus), corpusPath)

	// Ctrl-C stops training between batches; what was learned so far is still saved.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))
	ds, err := train.Prepare(ctx, corpus, cfg, rng)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("vocabulary %d tokens, %d of %d tokens kept after subsampling, %d pairs",
		ds.Vocab.Len(), countTokens(ds.Corpus), ds.Freq.Total(), len(ds.Pairs))

	model, err := skipgram.New(ds.Vocab.Len(), cfg.EmbeddingDim, rng)
	if err != nil {
		return nil, nil, err
	}

	reg := prometheus.NewRegistry()
	metrics := train.NewMetrics(reg)
	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(metricsAddr, mux); err != nil {
				logger.Warn("metrics server: %v", err)
			}
		}()
	}

	trainer, err := train.NewTrainer(model, cfg, rng, train.WithLogger(logger), train.WithMetrics(metrics))
	if err != nil {
		return nil, nil, err
	}
	res, err := trainer.Run(ctx, ds.Pairs)
	if err != nil && !errors.Is(err, context.Canceled) {
		return nil, nil, err
	}
	logger.Info("run %s: %d epochs, %d steps, loss %.4f -> %.4f (%s) in %v",
		res.RunID, res.Epochs, res.Steps, res.InitialLoss, res.FinalLoss, res.Reason, res.Elapsed)

	if err := save(ds.Vocab, model); err != nil {
		return nil, nil, err
	}
	logger.Info("saved model, vocab and vectors to %s", outDir)
	return ds.Vocab, model, nil
}

func save(v *vocab.Vocabulary, model *skipgram.Model) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	if err := IO.SaveModel(filepath.Join(outDir, "model.gob"), v, model); err != nil {
		return err
	}
	if err := IO.ExportVocabJSON(filepath.Join(outDir, "vocab.json"), v); err != nil {
		return err
	}
	return IO.ExportVectors(filepath.Join(outDir, "vectors.txt"), v, model.Target)
}

func countTokens(corpus [][]string) int {
	n := 0
	for _, doc := range corpus {
		n += len(doc)
	}
	return n
}
