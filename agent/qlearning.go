package agent

import (
	"boxes/canonical"
	"boxes/experiments/metrics"
	"boxes/game"
	"boxes/player"
	"boxes/policy"
	"boxes/utils"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Option func(q *QLearning)

// QLearning is a tabular agent over canonical states. Moves are stored in the
// frame of their canonical state, so symmetric positions and moves share values.
type QLearning struct {
	canon     *canonical.Canonicalizer
	table     *policy.Table
	alpha     float64
	gamma     float64
	epsilon   float64
	training  bool
	rng       *rand.Rand
	rewards   Rewards
	collector metrics.Collector
	last      map[game.Player]transition
}

type transition struct {
	before game.RawState
	move   game.Edge
}

func WithLearningRate(alpha float64) Option {
	return func(q *QLearning) {
		if alpha > 0 && alpha <= 1 {
			q.alpha = alpha
		}
	}
}

func WithDiscount(gamma float64) Option {
	return func(q *QLearning) {
		if gamma >= 0 && gamma <= 1 {
			q.gamma = gamma
		}
	}
}

func WithExploration(epsilon float64) Option {
	return func(q *QLearning) {
		if epsilon >= 0 && epsilon <= 1 {
			q.epsilon = epsilon
		}
	}
}

func WithTraining(training bool) Option {
	return func(q *QLearning) {
		q.training = training
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(q *QLearning) {
		if rng != nil {
			q.rng = rng
		}
	}
}

// WithTable starts from an existing table. Its grid size wins over the one passed to NewQLearning.
func WithTable(t *policy.Table) Option {
	return func(q *QLearning) {
		if t != nil {
			q.table = t
			q.canon = canonical.New(t.Size())
		}
	}
}

func WithRewards(r Rewards) Option {
	return func(q *QLearning) {
		q.rewards = r
	}
}

func WithCollector(c metrics.Collector) Option {
	return func(q *QLearning) {
		if c != nil {
			q.collector = c
		}
	}
}

func NewQLearning(size int, options ...Option) *QLearning {
	q := &QLearning{ // Default values
		canon:     canonical.New(size),
		table:     policy.NewTable(size),
		alpha:     0.1,
		gamma:     0.9,
		epsilon:   0.1,
		rng:       rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
		rewards:   DefaultRewards(),
		collector: metrics.NewDummyCollector(),
		last:      map[game.Player]transition{},
	}
	for _, option := range options {
		option(q)
	}
	return q
}

func (q *QLearning) Table() *policy.Table { return q.table }
func (q *QLearning) Training() bool       { return q.training }

// SetTraining switches between learning with exploration and pure greedy play.
func (q *QLearning) SetTraining(training bool) {
	q.training = training
	clear(q.last)
}

func (q *QLearning) key(raw game.RawState, move game.Edge) policy.Key {
	form, indices := q.canon.Orient(raw)
	return policy.Key{State: form.Key(), Move: q.canon.MoveIn(indices, move)}
}

// Value is the current estimate for playing move in raw, 0 if never updated.
func (q *QLearning) Value(raw game.RawState, move game.Edge) float64 {
	return q.table.Get(q.key(raw, move))
}

// values returns the estimate of every move in raw, canonicalizing raw once.
func (q *QLearning) values(raw game.RawState, moves []game.Edge) []float64 {
	form, indices := q.canon.Orient(raw)
	state := form.Key()
	values := make([]float64, len(moves))
	for i, m := range moves {
		values[i] = q.table.Get(policy.Key{State: state, Move: q.canon.MoveIn(indices, m)})
	}
	return values
}

// ChooseMove is epsilon-greedy in training and greedy otherwise. Ties between
// the best moves are broken uniformly at random.
func (q *QLearning) ChooseMove(ctx context.Context, gs *game.GameState) (game.Edge, error) {
	if err := ctx.Err(); err != nil {
		return game.Edge{}, player.ErrInterrupted
	}
	moves := gs.LegalMoves()
	if len(moves) == 0 {
		return game.Edge{}, game.ErrGameOver
	}
	if q.training && q.rng.Float64() < q.epsilon {
		q.collector.Explored()
		return utils.Choice(q.rng, moves), nil
	}
	best := utils.ArgMax(q.values(gs.Raw(), moves))
	return moves[utils.Choice(q.rng, best)], nil
}

// Update applies Q <- (1-alpha)*Q + alpha*(reward + gamma*max Q(next, m)).
// The future term is 0 when nextMoves is empty.
func (q *QLearning) Update(prev game.RawState, action game.Edge, reward float64, next game.RawState, nextMoves []game.Edge) {
	future := 0.0
	if len(nextMoves) > 0 {
		values := q.values(next, nextMoves)
		future = values[utils.ArgMax(values)[0]]
	}
	k := q.key(prev, action)
	old := q.table.Get(k)
	q.table.Set(k, (1-q.alpha)*old+q.alpha*(reward+q.gamma*future))
	q.collector.Updated(q.table.Len())
}

// ShapedReward is the immediate reward for a move under the agent's rewards.
func (q *QLearning) ShapedReward(boxCompleted, givesBox bool) float64 {
	return q.rewards.Shaped(boxCompleted, givesBox)
}

// OnMoveResult learns from the agent's own accepted move. A move that ends the
// game also carries the terminal reward.
func (q *QLearning) OnMoveResult(f player.Feedback) {
	if !q.training {
		return
	}
	reward := q.ShapedReward(f.Outcome.BoxCompleted, f.Outcome.Setups > 0)
	if f.Result != game.Undecided {
		reward += q.rewards.Terminal(f.Seat, f.Result)
		delete(q.last, f.Seat)
	} else {
		q.last[f.Seat] = transition{before: f.Before, move: f.Move}
	}
	q.Update(f.Before, f.Move, reward, f.After, f.NextMoves)
}

// OnGameEnd hands the terminal reward to the seat that did not draw the last
// line, applied to its last move.
func (q *QLearning) OnGameEnd(seat game.Player, final game.RawState, result game.Result) {
	if !q.training {
		return
	}
	t, ok := q.last[seat]
	delete(q.last, seat)
	if !ok {
		return
	}
	q.Update(t.before, t.move, q.rewards.Terminal(seat, result), final, nil)
}

func (q *QLearning) Save(store policy.Store) error {
	if err := store.Save(q.table); err != nil {
		return fmt.Errorf("failed to save policy: %w", err)
	}
	log.Info().Msgf("saved policy with %d entries", q.table.Len())
	return nil
}

// Load replaces the table with the stored one, which must match the agent's grid size.
func (q *QLearning) Load(store policy.Store) error {
	t, err := store.Load()
	if err != nil {
		return err
	}
	if t.Size() != q.canon.Size() {
		return fmt.Errorf("%w: policy is for a %dx%d grid, agent plays %dx%d",
			policy.ErrBadPolicy, t.Size(), t.Size(), q.canon.Size(), q.canon.Size())
	}
	q.table = t
	log.Info().Msgf("loaded policy with %d entries", t.Len())
	return nil
}
