package engine

import (
	"boxes/experiments/metrics"
	"boxes/game"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Run carries what lives for a whole process run: its id, the game counter,
// win counters, the seed and the sinks games report to. Create one per run and
// pass it by pointer.
type Run struct {
	ID        uuid.UUID
	Seed      uint64
	Log       zerolog.Logger
	Lines     metrics.LineLog
	Collector metrics.Collector

	games atomic.Int64
	winsA atomic.Int64
	winsB atomic.Int64
	ties  atomic.Int64
}

type RunOption func(r *Run)

func WithLogger(l zerolog.Logger) RunOption {
	return func(r *Run) {
		r.Log = l
	}
}

func WithLineLog(l metrics.LineLog) RunOption {
	return func(r *Run) {
		if l != nil {
			r.Lines = l
		}
	}
}

func WithCollector(c metrics.Collector) RunOption {
	return func(r *Run) {
		if c != nil {
			r.Collector = c
		}
	}
}

func NewRun(seed uint64, options ...RunOption) *Run {
	r := &Run{
		ID:        uuid.New(),
		Seed:      seed,
		Log:       log.Logger,
		Lines:     metrics.Discard,
		Collector: metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(r)
	}
	r.Log = r.Log.With().Str("run", r.ID.String()).Logger()
	return r
}

// Child shares the run's id, logger and collector but keeps its own counters
// and drops line records. Used for runs inside a run, like tuning trials.
func (r *Run) Child(seed uint64) *Run {
	return &Run{
		ID:        r.ID,
		Seed:      seed,
		Log:       r.Log,
		Lines:     metrics.Discard,
		Collector: r.Collector,
	}
}

// NextGame returns the id of a new game, starting at 1.
func (r *Run) NextGame() int {
	return int(r.games.Add(1))
}

func (r *Run) Games() int {
	return int(r.games.Load())
}

func (r *Run) Record(result game.Result) {
	switch result {
	case game.WinA:
		r.winsA.Add(1)
	case game.WinB:
		r.winsB.Add(1)
	case game.Tie:
		r.ties.Add(1)
	}
}

func (r *Run) Wins(p game.Player) int {
	switch p {
	case game.PlayerA:
		return int(r.winsA.Load())
	case game.PlayerB:
		return int(r.winsB.Load())
	default:
		return 0
	}
}

func (r *Run) Ties() int {
	return int(r.ties.Load())
}

func (r *Run) Close() error {
	return r.Lines.Close()
}
