package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLegalMoves(t *testing.T) {
	for size := 1; size <= 5; size++ {
		gs := NewGameState(size)
		require.Len(t, gs.LegalMoves(), 2*size*(size+1), "Fresh board should offer every line")
	}

	t.Run("shrinks by one per accepted move and not on rejection", func(t *testing.T) {
		gs := NewGameState(3)
		want := TotalEdges(3)
		for _, e := range AllEdges(3) {
			_, err := gs.Play(e)
			require.NoError(t, err)
			want--
			require.Len(t, gs.LegalMoves(), want, "Accepted move should remove one line")

			_, err = gs.Play(e)
			require.ErrorIs(t, err, ErrInvalidMove)
			require.Len(t, gs.LegalMoves(), want, "Rejected move should not change legal moves")
			gs.PassTurn()
		}
		require.True(t, gs.Terminal(), "Board should be full")
		require.Empty(t, gs.LegalMoves())
	})

	t.Run("never includes drawn lines in either direction", func(t *testing.T) {
		gs := NewGameState(2)
		_, err := gs.Play(NewEdge(1, 0, 0, 0))
		require.NoError(t, err)
		for _, m := range gs.LegalMoves() {
			require.False(t, m.Same(NewEdge(0, 0, 1, 0)), "Drawn line should not be legal")
		}
	})
}

func TestPlayRejections(t *testing.T) {
	tests := []struct {
		name string
		edge Edge
		want error
	}{
		{"identical endpoints", NewEdge(1, 1, 1, 1), ErrSamePoint},
		{"diagonal", NewEdge(0, 0, 1, 1), ErrNotAdjacent},
		{"too long", NewEdge(0, 0, 2, 0), ErrNotAdjacent},
		{"outside the grid", NewEdge(2, 2, 3, 2), ErrOffBoard},
		{"negative coordinates", NewEdge(0, -1, 0, 0), ErrOffBoard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := NewGameState(2)
			_, err := gs.Play(tt.edge)
			require.ErrorIs(t, err, tt.want)
			require.ErrorIs(t, err, ErrInvalidMove, "Every rejection should be an invalid move")
			require.Zero(t, gs.Board().EdgeCount(), "Rejected move should not change the board")
			require.Equal(t, 1, gs.TurnID(), "Rejected move should not consume a turn id")
		})
	}

	t.Run("same edge twice", func(t *testing.T) {
		gs := NewGameState(2)
		_, err := gs.Play(NewEdge(0, 0, 1, 0))
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			_, err = gs.Play(NewEdge(0, 0, 1, 0))
			require.ErrorIs(t, err, ErrLineDrawn)
			_, err = gs.Play(NewEdge(1, 0, 0, 0))
			require.ErrorIs(t, err, ErrLineDrawn, "Reversed endpoints should be the same line")
		}
		require.Equal(t, 1, gs.Board().EdgeCount(), "Board should hold a single line")
	})

	t.Run("terminal board accepts nothing", func(t *testing.T) {
		gs := NewGameState(1)
		for _, e := range AllEdges(1) {
			_, err := gs.Play(e)
			require.NoError(t, err)
		}
		_, err := gs.Play(NewEdge(0, 0, 1, 0))
		require.ErrorIs(t, err, ErrGameOver)
	})
}

func TestBoxCompletion(t *testing.T) {
	t.Run("completes on the fourth line of a 2x2 cell", func(t *testing.T) {
		gs := NewGameState(2)
		require.Equal(t, 12, TotalEdges(2))

		sequence := []Edge{
			NewEdge(0, 0, 1, 0), // top
			NewEdge(0, 1, 1, 1), // bottom
			NewEdge(0, 0, 0, 1), // left
			NewEdge(1, 0, 1, 1), // right
		}
		for i, e := range sequence {
			out, err := gs.Play(e)
			require.NoError(t, err)
			require.Equal(t, i == 3, out.BoxCompleted, "Only the fourth line should complete the box")
		}
		require.Equal(t, PlayerA, gs.Board().Owner(0, 0))
		require.Equal(t, 1, gs.Score(PlayerA))
	})

	t.Run("owner never changes", func(t *testing.T) {
		gs := NewGameState(2)
		for _, e := range BoxEdges(0, 0) {
			_, err := gs.Play(e)
			require.NoError(t, err)
		}
		gs.PassTurn()
		for _, e := range gs.LegalMoves() {
			_, err := gs.Play(e)
			require.NoError(t, err)
		}
		require.Equal(t, PlayerA, gs.Board().Owner(0, 0), "Completed box should keep its first owner")
		require.Equal(t, 3, gs.Score(PlayerB))
	})

	t.Run("one line can complete two boxes", func(t *testing.T) {
		gs := NewGameState(2)
		for _, e := range []Edge{
			NewEdge(0, 0, 1, 0), NewEdge(0, 1, 1, 1), NewEdge(0, 0, 0, 1),
			NewEdge(1, 0, 2, 0), NewEdge(1, 1, 2, 1), NewEdge(2, 0, 2, 1),
		} {
			out, err := gs.Play(e)
			require.NoError(t, err)
			require.False(t, out.BoxCompleted)
		}
		out, err := gs.Play(NewEdge(1, 0, 1, 1))
		require.NoError(t, err)
		require.True(t, out.BoxCompleted)
		require.Equal(t, 2, out.Completed)
	})

	t.Run("boxes are owned only when all four lines are drawn", func(t *testing.T) {
		gs := NewGameState(3)
		for i, e := range AllEdges(3) {
			if i%2 == 0 {
				continue
			}
			_, err := gs.Play(e)
			require.NoError(t, err)
		}
		for row := 0; row < 3; row++ {
			for col := 0; col < 3; col++ {
				owned := gs.Board().Owner(row, col) != Unowned
				require.Equal(t, gs.Board().DrawnAround(row, col) == 4, owned)
			}
		}
	})
}

func TestSetups(t *testing.T) {
	t.Run("third line of a box is a setup", func(t *testing.T) {
		gs := NewGameState(1)
		want := []int{0, 0, 1, 0}
		for i, e := range AllEdges(1) {
			out, err := gs.Play(e)
			require.NoError(t, err)
			require.Equal(t, want[i], out.Setups, "Move %d", i)
		}
	})

	t.Run("shared line can set up both neighbours", func(t *testing.T) {
		gs := NewGameState(2)
		for _, e := range []Edge{
			NewEdge(0, 0, 1, 0), NewEdge(0, 1, 1, 1),
			NewEdge(1, 0, 2, 0), NewEdge(1, 1, 2, 1),
		} {
			_, err := gs.Play(e)
			require.NoError(t, err)
		}
		out, err := gs.Play(NewEdge(1, 1, 1, 0))
		require.NoError(t, err)
		require.Equal(t, 2, out.Setups)
		require.False(t, out.BoxCompleted)
	})
}

func TestWinner(t *testing.T) {
	t.Run("single box goes to whoever draws the last line", func(t *testing.T) {
		gs := NewGameState(1)
		var last Player
		for _, e := range AllEdges(1) {
			require.Equal(t, Undecided, gs.Winner(), "Winner should be undecided mid-game")
			last = gs.Turn()
			_, err := gs.Play(e)
			require.NoError(t, err)
			gs.PassTurn()
		}
		require.True(t, gs.Terminal())
		require.Equal(t, PlayerB, last)
		require.Equal(t, WinB, gs.Winner())
		require.Equal(t, last, gs.Board().Owner(0, 0))
	})

	t.Run("equal scores tie", func(t *testing.T) {
		gs := NewGameState(2)
		// Every line except the middle column, no box is complete yet.
		for _, e := range AllEdges(2) {
			if e.X1 == 1 && e.X2 == 1 {
				continue
			}
			out, err := gs.Play(e)
			require.NoError(t, err)
			require.False(t, out.BoxCompleted)
		}
		out, err := gs.Play(NewEdge(1, 0, 1, 1))
		require.NoError(t, err)
		require.Equal(t, 2, out.Completed)
		gs.PassTurn()
		out, err = gs.Play(NewEdge(1, 1, 1, 2))
		require.NoError(t, err)
		require.Equal(t, 2, out.Completed)

		require.Equal(t, 2, gs.Score(PlayerA))
		require.Equal(t, 2, gs.Score(PlayerB))
		require.Equal(t, Tie, gs.Winner())
		require.Equal(t, Unowned, gs.Winner().Winner())
	})
}

func TestRawAndHistory(t *testing.T) {
	gs := NewGameState(2)
	_, err := gs.Play(NewEdge(1, 1, 0, 1))
	require.NoError(t, err)
	gs.PassTurn()
	_, err = gs.Play(NewEdge(0, 0, 1, 0))
	require.NoError(t, err)

	raw := gs.Raw()
	require.Equal(t, 2, raw.Size)
	require.Equal(t, []Edge{NewEdge(0, 0, 1, 0), NewEdge(0, 1, 1, 1)}, raw.Lines,
		"Snapshot lines should be normalized and sorted")
	require.Len(t, raw.Owners, 2)

	history := gs.History()
	require.Equal(t, []Line{
		{Turn: 1, Player: PlayerA, Edge: NewEdge(1, 1, 0, 1)},
		{Turn: 2, Player: PlayerB, Edge: NewEdge(0, 0, 1, 0)},
	}, history, "History should keep the drawn order and the original endpoints")

	gs.Reset()
	require.Zero(t, gs.Board().EdgeCount())
	require.Equal(t, PlayerA, gs.Turn())
	require.Empty(t, gs.History())
}
