package commands

import (
	"boxes/engine"
	"boxes/experiments"
	"boxes/printer"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var trainEpisodes int

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the agent by self-play and save its policy",
	Long: `Two learning agents play each other for the configured number of
episodes. The policy of the agent with more wins is saved.`,
	RunE: runTrain,
}

func init() {
	trainCmd.Flags().IntVar(&trainEpisodes, "episodes", 0, "Self-play games to train for")
	trainCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve prometheus metrics on host:port")
	rootCmd.AddCommand(trainCmd)
}

func runTrain(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("episodes") {
		cfg.Train.Episodes = trainEpisodes
	}
	if cmd.Flags().Changed("metrics-addr") {
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

	store := newStore(cfg)
	report, err := experiments.Train(cmd.Context(), run, experiments.TrainConfig{
		Size:     cfg.GridSize,
		Episodes: cfg.Train.Episodes,
		Params: experiments.Params{
			LearningRate:    cfg.LearningRate,
			DiscountFactor:  cfg.DiscountFactor,
			ExplorationRate: cfg.ExplorationRate,
		},
		Store: store,
	})
	err = errors.Join(err, run.Close())
	if errors.Is(err, engine.ErrInterrupted) {
		log.Warn().Msgf("training interrupted after %d episodes, nothing saved", report.Episodes)
		return nil
	}
	if err != nil {
		return err
	}

	printer.Success(cmd.OutOrStdout(), "trained %d episodes (A %d, B %d, ties %d), saved agent %s with %d entries to %s",
		report.Episodes, report.WinsA, report.WinsB, report.Ties, report.Saved, report.TableSize, cfg.PolicyPath)
	return nil
}
