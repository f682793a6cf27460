package commands

import (
	"boxes/engine"
	"boxes/experiments"
	"boxes/printer"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	tuneIterations    int
	tuneTrainEpisodes int
	tuneTestEpisodes  int
	tuneWorkers       int
)

var tuneCmd = &cobra.Command{
	Use:   "tune",
	Short: "Search hyperparameters against a random opponent",
	Long: `Each trial draws a learning rate, discount factor and exploration rate
from the configured ranges, trains a fresh agent against a random player and
measures its win rate with learning switched off. Trials run in parallel and
are written to the tuning results file.`,
	RunE: runTune,
}

func init() {
	flags := tuneCmd.Flags()
	flags.IntVar(&tuneIterations, "iterations", 0, "Number of hyperparameter draws")
	flags.IntVar(&tuneTrainEpisodes, "train-episodes", 0, "Training games per trial")
	flags.IntVar(&tuneTestEpisodes, "test-episodes", 0, "Evaluation games per trial")
	flags.IntVar(&tuneWorkers, "workers", 0, "Trials run at once")
	flags.StringVar(&metricsAddr, "metrics-addr", "", "Serve prometheus metrics on host:port")
	rootCmd.AddCommand(tuneCmd)
}

func runTune(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if flags.Changed("iterations") {
		cfg.Tune.Iterations = tuneIterations
	}
	if flags.Changed("train-episodes") {
		cfg.Tune.TrainEpisodes = tuneTrainEpisodes
	}
	if flags.Changed("test-episodes") {
		cfg.Tune.TestEpisodes = tuneTestEpisodes
	}
	if flags.Changed("workers") {
		cfg.Tune.Workers = tuneWorkers
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr = metricsAddr
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	collector, stop := serveMetrics(cfg.MetricsAddr)
	defer stop()
	run, err := newRun(cfg, collector)
	if err != nil {
		return err
	}

	best, records, err := experiments.Tune(cmd.Context(), run, experiments.TuneConfig{
		Size:            cfg.GridSize,
		Iterations:      cfg.Tune.Iterations,
		TrainEpisodes:   cfg.Tune.TrainEpisodes,
		TestEpisodes:    cfg.Tune.TestEpisodes,
		Workers:         cfg.Tune.Workers,
		LearningRate:    cfg.Tune.LearningRate,
		DiscountFactor:  cfg.Tune.DiscountFactor,
		ExplorationRate: cfg.Tune.ExplorationRate,
		ResultsPath:     cfg.TuningResults,
	})
	err = errors.Join(err, run.Close())
	if errors.Is(err, engine.ErrInterrupted) {
		log.Warn().Msg("tuning interrupted, no results written")
		return nil
	}
	if err != nil {
		return err
	}

	printer.Success(cmd.OutOrStdout(), "ran %d trials, best learning rate %.4f, discount factor %.4f, exploration rate %.4f, results in %s",
		len(records), best.LearningRate, best.DiscountFactor, best.ExplorationRate, cfg.TuningResults)
	return nil
}
