package experiments

import (
	"boxes/agent"
	"boxes/engine"
	"boxes/game"
	"boxes/policy"
	"context"
	"fmt"

	"golang.org/x/exp/rand"
)

// Params are the hyperparameters of a Q-learning agent.
type Params struct {
	LearningRate    float64
	DiscountFactor  float64
	ExplorationRate float64
}

type TrainConfig struct {
	Size     int
	Episodes int
	Params   Params
	Store    policy.Store
}

type TrainReport struct {
	Episodes  int
	WinsA     int
	WinsB     int
	Ties      int
	Saved     game.Player
	TableSize int
}

// Train lets two learning agents play each other for cfg.Episodes games and
// saves the table of the one with more wins, PlayerA on a tie. An interrupted
// run saves nothing.
func Train(ctx context.Context, run *engine.Run, cfg TrainConfig) (TrainReport, error) {
	a := createAgent(cfg.Size, cfg.Params, run.Seed, run, true)
	b := createAgent(cfg.Size, cfg.Params, run.Seed+1, run, true)
	e := engine.NewEngine(run, engine.WithSize(cfg.Size))

	run.Log.Info().Msgf("starting training for %d episodes with %+v...", cfg.Episodes, cfg.Params)

	start := run.Games()
	step := max(cfg.Episodes/10, 1)
	for i := 0; i < cfg.Episodes; i++ {
		if _, err := e.Play(ctx, a, b); err != nil {
			return report(run, start, game.Unowned, 0), fmt.Errorf("training stopped at episode %d: %w", i+1, err)
		}
		if (i+1)%step == 0 {
			run.Log.Info().Msgf("completed episode %d of %d (A %d, B %d, ties %d)",
				i+1, cfg.Episodes, run.Wins(game.PlayerA), run.Wins(game.PlayerB), run.Ties())
		}
	}

	best, seat := a, game.PlayerA
	if run.Wins(game.PlayerB) > run.Wins(game.PlayerA) {
		best, seat = b, game.PlayerB
	}
	if err := best.Save(cfg.Store); err != nil {
		return report(run, start, game.Unowned, 0), err
	}
	run.Log.Info().Msgf("completed training, saved agent %s", seat)
	return report(run, start, seat, best.Table().Len()), nil
}

func report(run *engine.Run, start int, saved game.Player, tableSize int) TrainReport {
	return TrainReport{
		Episodes:  run.Games() - start,
		WinsA:     run.Wins(game.PlayerA),
		WinsB:     run.Wins(game.PlayerB),
		Ties:      run.Ties(),
		Saved:     saved,
		TableSize: tableSize,
	}
}

func createAgent(size int, p Params, seed uint64, run *engine.Run, training bool) *agent.QLearning {
	return agent.NewQLearning(size,
		agent.WithLearningRate(p.LearningRate),
		agent.WithDiscount(p.DiscountFactor),
		agent.WithExploration(p.ExplorationRate),
		agent.WithTraining(training),
		agent.WithRand(rand.New(rand.NewSource(seed))),
		agent.WithCollector(run.Collector),
	)
}
