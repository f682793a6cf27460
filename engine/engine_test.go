package engine

import (
	"boxes/experiments/metrics"
	"boxes/game"
	"boxes/player"
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

// scripted plays its moves in order and records the hook calls it receives.
type scripted struct {
	moves    []game.Edge
	next     int
	feedback []player.Feedback
	ended    []game.Result
	seats    []game.Player
	onChoose func()
}

func (s *scripted) ChooseMove(ctx context.Context, gs *game.GameState) (game.Edge, error) {
	if s.onChoose != nil {
		s.onChoose()
	}
	if s.next >= len(s.moves) {
		return game.Edge{}, errors.New("script exhausted")
	}
	m := s.moves[s.next]
	s.next++
	return m, nil
}

func (s *scripted) OnMoveResult(f player.Feedback) {
	s.feedback = append(s.feedback, f)
}

func (s *scripted) OnGameEnd(seat game.Player, final game.RawState, result game.Result) {
	s.seats = append(s.seats, seat)
	s.ended = append(s.ended, result)
}

type memoryLog struct {
	pending []metrics.LineRecord
	flushed []metrics.LineRecord
	flushes int
}

func (m *memoryLog) Append(r metrics.LineRecord) error {
	m.pending = append(m.pending, r)
	return nil
}

func (m *memoryLog) Flush() error {
	m.flushed = append(m.flushed, m.pending...)
	m.pending = nil
	m.flushes++
	return nil
}

func (m *memoryLog) Close() error { return m.Flush() }

func TestPlay(t *testing.T) {
	edges := game.AllEdges(1) // top, bottom, left, right
	a := &scripted{moves: []game.Edge{edges[0], edges[2]}}
	b := &scripted{moves: []game.Edge{edges[1], edges[3]}}
	lines := &memoryLog{}
	run := NewRun(1, WithLineLog(lines))
	renders := 0
	e := NewEngine(run, WithSize(1), WithRenderer(func(*game.GameState) { renders++ }))

	result, err := e.Play(context.Background(), a, b)
	require.NoError(t, err)
	require.Equal(t, game.WinB, result, "Player drawing the fourth line owns the only box")
	require.Equal(t, 5, renders, "Board should be rendered once up front and after each move")

	require.Len(t, a.feedback, 2, "Each player should hear about its own moves only")
	require.Len(t, b.feedback, 2)
	require.Equal(t, game.PlayerB, b.feedback[1].Seat)
	require.True(t, b.feedback[1].Outcome.BoxCompleted)
	require.Equal(t, game.WinB, b.feedback[1].Result)
	require.Empty(t, b.feedback[1].NextMoves)
	require.Equal(t, game.Undecided, a.feedback[1].Result)
	require.Equal(t, 1, a.feedback[1].Outcome.Setups)
	require.Len(t, a.feedback[1].NextMoves, 1)

	require.Equal(t, []game.Player{game.PlayerA}, a.seats)
	require.Equal(t, []game.Player{game.PlayerB}, b.seats)
	require.Equal(t, []game.Result{game.WinB}, a.ended)

	require.Empty(t, lines.pending, "Line log should be flushed at the end of the game")
	require.Equal(t, []metrics.LineRecord{
		{GameID: 1, TurnID: 1, Player: "A", X1: 0, Y1: 0, X2: 1, Y2: 0},
		{GameID: 1, TurnID: 2, Player: "B", X1: 0, Y1: 1, X2: 1, Y2: 1},
		{GameID: 1, TurnID: 3, Player: "A", X1: 0, Y1: 0, X2: 0, Y2: 1},
		{GameID: 1, TurnID: 4, Player: "B", X1: 1, Y1: 0, X2: 1, Y2: 1},
	}, lines.flushed)

	require.Equal(t, 1, run.Games())
	require.Equal(t, 1, run.Wins(game.PlayerB))
	require.Zero(t, run.Wins(game.PlayerA))
}

func TestPlayRetriesRejectedMoves(t *testing.T) {
	edges := game.AllEdges(1)
	a := &scripted{moves: []game.Edge{edges[0], game.NewEdge(0, 0, 1, 1), edges[0], edges[2]}}
	b := &scripted{moves: []game.Edge{edges[1], edges[3]}}
	run := NewRun(1, WithCollector(metrics.NewCollector(prometheus.NewRegistry())))

	result, err := NewEngine(run, WithSize(1)).Play(context.Background(), a, b)
	require.NoError(t, err)
	require.Equal(t, game.WinB, result)
	require.Equal(t, 4, a.next, "Rejected moves should be retried by the same player")
	require.Len(t, a.feedback, 2, "Rejected moves should not be reported as results")
}

func TestPlayStuck(t *testing.T) {
	bad := make([]game.Edge, MaxRejections)
	for i := range bad {
		bad[i] = game.NewEdge(0, 0, 0, 0)
	}
	a := &scripted{moves: bad}
	b := &scripted{}
	_, err := NewEngine(NewRun(1), WithSize(1)).Play(context.Background(), a, b)
	require.ErrorIs(t, err, ErrStuck)
}

func TestPlayInterrupted(t *testing.T) {
	edges := game.AllEdges(2)
	ctx, cancel := context.WithCancel(context.Background())
	a := &scripted{moves: []game.Edge{edges[0], edges[2]}}
	b := &scripted{moves: []game.Edge{edges[1]}, onChoose: cancel}
	lines := &memoryLog{}
	run := NewRun(1, WithLineLog(lines))

	result, err := NewEngine(run, WithSize(2)).Play(ctx, a, b)
	require.ErrorIs(t, err, ErrInterrupted)
	require.Equal(t, game.Undecided, result)
	require.Len(t, lines.flushed, 2, "Moves made before the interrupt should be flushed")
	require.Empty(t, a.ended, "Interrupted games should not end normally")
	require.Zero(t, run.Wins(game.PlayerA)+run.Wins(game.PlayerB)+run.Ties())
}

func TestPlayPropagatesPlayerErrors(t *testing.T) {
	_, err := NewEngine(NewRun(1), WithSize(1)).Play(context.Background(), &scripted{}, &scripted{})
	require.ErrorContains(t, err, "script exhausted")
}

func TestRun(t *testing.T) {
	run := NewRun(7)
	require.Equal(t, 1, run.NextGame())
	require.Equal(t, 2, run.NextGame())
	run.Record(game.WinA)
	run.Record(game.Tie)
	run.Record(game.Undecided)
	require.Equal(t, 1, run.Wins(game.PlayerA))
	require.Equal(t, 1, run.Ties())

	child := run.Child(8)
	require.Equal(t, run.ID, child.ID)
	require.Zero(t, child.Games(), "Child runs should count their own games")
	require.Equal(t, uint64(8), child.Seed)
	require.NoError(t, run.Close())
}
