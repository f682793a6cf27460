package experiments

import (
	"boxes/config"
	"boxes/engine"
	"boxes/experiments/metrics"
	"boxes/game"
	"boxes/player"
	"context"
	"errors"
	"fmt"

	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

var ErrNoTestEpisodes = errors.New("evaluation needs at least one test episode")

type Trial struct {
	Params        Params
	Size          int
	TrainEpisodes int
	TestEpisodes  int
}

// Evaluate trains an agent as PlayerA against a random PlayerB, then freezes it
// and returns the share of test games it wins.
func Evaluate(ctx context.Context, run *engine.Run, trial Trial) (float64, error) {
	if trial.TestEpisodes < 1 {
		return 0, fmt.Errorf("%w: %d test episodes", ErrNoTestEpisodes, trial.TestEpisodes)
	}
	a := createAgent(trial.Size, trial.Params, run.Seed, run, true)
	b := player.NewRandom(run.Seed + 1)
	e := engine.NewEngine(run, engine.WithSize(trial.Size))

	for i := 0; i < trial.TrainEpisodes; i++ {
		if _, err := e.Play(ctx, a, b); err != nil {
			return 0, err
		}
	}

	a.SetTraining(false)
	wins := 0
	for i := 0; i < trial.TestEpisodes; i++ {
		result, err := e.Play(ctx, a, b)
		if err != nil {
			return 0, err
		}
		if result == game.WinA {
			wins++
		}
	}
	return float64(wins) / float64(trial.TestEpisodes), nil
}

type TuneConfig struct {
	Size            int
	Iterations      int
	TrainEpisodes   int
	TestEpisodes    int
	Workers         int
	LearningRate    config.Range
	DiscountFactor  config.Range
	ExplorationRate config.Range
	ResultsPath     string
}

// Tune evaluates cfg.Iterations random draws from the configured ranges, up to
// cfg.Workers at a time, and writes one row per trial in draw order. Every
// trial owns its agent and table. The best params are the first maximum.
func Tune(ctx context.Context, run *engine.Run, cfg TuneConfig) (Params, []metrics.TrialRecord, error) {
	rng := rand.New(rand.NewSource(run.Seed))
	draw := func(r config.Range) float64 {
		return r.Min + rng.Float64()*(r.Max-r.Min)
	}
	trials := make([]Params, cfg.Iterations)
	for i := range trials {
		trials[i] = Params{
			LearningRate:    draw(cfg.LearningRate),
			DiscountFactor:  draw(cfg.DiscountFactor),
			ExplorationRate: draw(cfg.ExplorationRate),
		}
	}

	run.Log.Info().Msgf("starting tuning with %d trials on %d workers...", cfg.Iterations, cfg.Workers)

	records := make([]metrics.TrialRecord, len(trials))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Workers, 1))
	for i, p := range trials {
		g.Go(func() error {
			rate, err := Evaluate(gctx, run.Child(run.Seed+uint64(2*i+2)), Trial{
				Params:        p,
				Size:          cfg.Size,
				TrainEpisodes: cfg.TrainEpisodes,
				TestEpisodes:  cfg.TestEpisodes,
			})
			if err != nil {
				return fmt.Errorf("trial %d: %w", i+1, err)
			}
			records[i] = metrics.TrialRecord{
				LearningRate:    p.LearningRate,
				DiscountFactor:  p.DiscountFactor,
				ExplorationRate: p.ExplorationRate,
				WinRate:         rate,
			}
			run.Log.Info().Msgf("completed trial %d of %d: %+v win rate %.3f", i+1, len(trials), p, rate)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Params{}, nil, err
	}

	if err := metrics.WriteTrials(cfg.ResultsPath, records); err != nil {
		return Params{}, records, err
	}

	best := 0
	for i, r := range records {
		if r.WinRate > records[best].WinRate {
			best = i
		}
	}
	run.Log.Info().Msgf("stored %d trials, best %+v", len(records), trials[best])
	return trials[best], records, nil
}
