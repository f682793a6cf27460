package metrics

import (
	"boxes/game"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVLineLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "lines.csv")

	l, err := OpenCSVLineLog(path)
	require.NoError(t, err)
	require.NoError(t, l.Append(LineRecord{GameID: 1, TurnID: 1, Player: "A", X1: 0, Y1: 0, X2: 1, Y2: 0}))
	require.NoError(t, l.Append(LineRecord{GameID: 1, TurnID: 2, Player: "B", X1: 0, Y1: 0, X2: 0, Y2: 1}))
	require.NoError(t, l.Close())

	l, err = OpenCSVLineLog(path)
	require.NoError(t, err)
	require.NoError(t, l.Append(LineRecord{GameID: 2, TurnID: 1, Player: "A", X1: 1, Y1: 1, X2: 1, Y2: 2}))
	require.NoError(t, l.Flush())
	require.NoError(t, l.Close())

	rows := readCSV(t, path)
	require.Equal(t, [][]string{
		lineHeader,
		{"1", "1", "A", "0", "0", "1", "0"},
		{"1", "2", "B", "0", "0", "0", "1"},
		{"2", "1", "A", "1", "1", "1", "2"},
	}, rows, "Reopening should append without a second header")
}

func TestParquetLineLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lines.parquet")

	l, err := OpenParquetLineLog(path, "run-1")
	require.NoError(t, err)
	for turn := 1; turn <= 3; turn++ {
		require.NoError(t, l.Append(LineRecord{GameID: 7, TurnID: turn, Player: "A", X1: turn, Y1: 0, X2: turn + 1, Y2: 0}))
	}
	require.NoError(t, l.Flush())
	require.NoError(t, l.Append(LineRecord{GameID: 8, TurnID: 1, Player: "B", X1: 0, Y1: 0, X2: 0, Y2: 1}))
	require.NoError(t, l.Close())

	rows, err := ReadParquetLines(path)
	require.NoError(t, err)
	require.Len(t, rows, 4, "Rows buffered after the last flush should be written on close")
	require.Equal(t, ParquetLine{RunID: "run-1", GameID: 7, TurnID: 2, Player: "A", X1: 2, Y1: 0, X2: 3, Y2: 0}, rows[1])
	require.Equal(t, "B", rows[3].Player)
}

type failingLog struct{ discard }

func (failingLog) Append(LineRecord) error { return errors.New("disk full") }

func TestMultiLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lines.csv")
	csvLog, err := OpenCSVLineLog(path)
	require.NoError(t, err)

	m := MultiLog(csvLog, Discard, failingLog{})
	err = m.Append(LineRecord{GameID: 1, TurnID: 1, Player: "A", X2: 1})
	require.ErrorContains(t, err, "disk full", "Errors from any log should surface")
	require.NoError(t, m.Close())
	require.Len(t, readCSV(t, path), 2, "Healthy logs should still receive the record")
}

func TestWriteTrials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "tuning.csv")
	err := WriteTrials(path, []TrialRecord{
		{LearningRate: 0.1, DiscountFactor: 0.9, ExplorationRate: 0.2, WinRate: 0.75},
		{LearningRate: 0.5, DiscountFactor: 0.95, ExplorationRate: 0.05, WinRate: 0.5},
	})
	require.NoError(t, err)
	require.Equal(t, [][]string{
		{"learning_rate", "discount_factor", "exploration_rate", "win_rate"},
		{"0.1", "0.9", "0.2", "0.75"},
		{"0.5", "0.95", "0.05", "0.5"},
	}, readCSV(t, path))
}

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg).(*collector)

	c.GameStarted()
	require.Equal(t, 1.0, testutil.ToFloat64(c.active))
	c.MoveApplied(game.PlayerA, game.Outcome{BoxCompleted: true, Completed: 2, Setups: 1})
	c.MoveApplied(game.PlayerB, game.Outcome{})
	c.MoveRejected()
	c.Explored()
	c.Updated(12)
	c.Updated(15)
	c.GameFinished(game.WinA, 2, time.Millisecond)

	require.Equal(t, 0.0, testutil.ToFloat64(c.active))
	require.Equal(t, 1.0, testutil.ToFloat64(c.games.WithLabelValues("A")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.moves.WithLabelValues("B")))
	require.Equal(t, 2.0, testutil.ToFloat64(c.boxes))
	require.Equal(t, 1.0, testutil.ToFloat64(c.setups))
	require.Equal(t, 1.0, testutil.ToFloat64(c.rejected))
	require.Equal(t, 1.0, testutil.ToFloat64(c.explored))
	require.Equal(t, 2.0, testutil.ToFloat64(c.updates))
	require.Equal(t, 15.0, testutil.ToFloat64(c.tableSize), "Gauge should hold the latest table size")

	count, err := testutil.GatherAndCount(reg, "boxes_game_moves")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}
