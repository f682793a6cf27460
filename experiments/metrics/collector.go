package metrics

import (
	"boxes/game"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "boxes"

// Collector receives training and play events. Implementations must be safe
// for concurrent use, since tuning trials share one.
type Collector interface {
	GameStarted()
	GameFinished(result game.Result, moves int, duration time.Duration)
	MoveApplied(p game.Player, o game.Outcome)
	MoveRejected()
	Explored()
	Updated(tableSize int)
}

type collector struct {
	games      *prometheus.CounterVec
	active     prometheus.Gauge
	moves      *prometheus.CounterVec
	boxes      prometheus.Counter
	setups     prometheus.Counter
	rejected   prometheus.Counter
	explored   prometheus.Counter
	updates    prometheus.Counter
	tableSize  prometheus.Gauge
	gameLength prometheus.Histogram
	duration   prometheus.Histogram
}

// NewCollector registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) Collector {
	factory := promauto.With(reg)
	return &collector{
		games: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_total",
			Help:      "Finished games by result",
		}, []string{"result"}),
		active: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "games_active",
			Help:      "Games currently being played",
		}),
		moves: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moves_total",
			Help:      "Accepted moves by player",
		}, []string{"player"}),
		boxes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "boxes_completed_total",
			Help:      "Boxes completed",
		}),
		setups: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "setups_total",
			Help:      "Boxes left one line short for the opponent",
		}),
		rejected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moves_rejected_total",
			Help:      "Moves rejected by the engine",
		}),
		explored: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "agent",
			Name:      "explorations_total",
			Help:      "Moves chosen at random for exploration",
		}),
		updates: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "agent",
			Name:      "updates_total",
			Help:      "Q-value updates applied",
		}),
		tableSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "agent",
			Name:      "table_entries",
			Help:      "Entries in the most recently updated Q-table",
		}),
		gameLength: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "game_moves",
			Help:      "Accepted moves per game",
			Buckets:   prometheus.LinearBuckets(4, 8, 10),
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "game_duration_seconds",
			Help:      "Wall time per game",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
	}
}

func (c *collector) GameStarted() {
	c.active.Inc()
}

func (c *collector) GameFinished(result game.Result, moves int, duration time.Duration) {
	c.active.Dec()
	c.games.WithLabelValues(result.String()).Inc()
	c.gameLength.Observe(float64(moves))
	c.duration.Observe(duration.Seconds())
}

func (c *collector) MoveApplied(p game.Player, o game.Outcome) {
	c.moves.WithLabelValues(p.String()).Inc()
	c.boxes.Add(float64(o.Completed))
	c.setups.Add(float64(o.Setups))
}

func (c *collector) MoveRejected() {
	c.rejected.Inc()
}

func (c *collector) Explored() {
	c.explored.Inc()
}

func (c *collector) Updated(tableSize int) {
	c.updates.Inc()
	c.tableSize.Set(float64(tableSize))
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (c *dummyCollector) GameStarted()                                 {}
func (c *dummyCollector) GameFinished(game.Result, int, time.Duration) {}
func (c *dummyCollector) MoveApplied(game.Player, game.Outcome)        {}
func (c *dummyCollector) MoveRejected()                                {}
func (c *dummyCollector) Explored()                                    {}
func (c *dummyCollector) Updated(int)                                  {}
