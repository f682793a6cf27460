package metrics

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

// LineRecord is one accepted move.
type LineRecord struct {
	GameID int
	TurnID int
	Player string
	X1     int
	Y1     int
	X2     int
	Y2     int
}

// LineLog receives every accepted move of a run. Appended records may be
// buffered until Flush.
type LineLog interface {
	Append(r LineRecord) error
	Flush() error
	Close() error
}

var lineHeader = []string{"game_id", "turn_id", "player", "x1", "y1", "x2", "y2"}

// CSVLineLog appends to a CSV file across runs. The header is written only
// when the file is new or empty.
type CSVLineLog struct {
	f      *os.File
	writer *csv.Writer
}

func OpenCSVLineLog(path string) (*CSVLineLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open lines log: %w", err)
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat lines log: %w", err)
	}

	l := &CSVLineLog{f: f, writer: csv.NewWriter(f)}
	if stat.Size() == 0 {
		if err := l.writer.Write(lineHeader); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write lines log header: %w", err)
		}
	}
	return l, nil
}

func (l *CSVLineLog) Append(r LineRecord) error {
	row := []string{
		strconv.Itoa(r.GameID),
		strconv.Itoa(r.TurnID),
		r.Player,
		strconv.Itoa(r.X1),
		strconv.Itoa(r.Y1),
		strconv.Itoa(r.X2),
		strconv.Itoa(r.Y2),
	}
	if err := l.writer.Write(row); err != nil {
		return fmt.Errorf("failed to write line record: %w", err)
	}
	return nil
}

func (l *CSVLineLog) Flush() error {
	l.writer.Flush()
	if err := l.writer.Error(); err != nil {
		return fmt.Errorf("failed to flush lines log: %w", err)
	}
	return nil
}

func (l *CSVLineLog) Close() error {
	flushErr := l.Flush()
	if err := l.f.Close(); err != nil {
		return fmt.Errorf("failed to close lines log: %w", err)
	}
	return flushErr
}

// ParquetLine is the columnar form of a LineRecord, tagged with its run.
type ParquetLine struct {
	RunID  string `parquet:"run_id,dict"`
	GameID int32  `parquet:"game_id"`
	TurnID int32  `parquet:"turn_id"`
	Player string `parquet:"player,dict"`
	X1     int32  `parquet:"x1"`
	Y1     int32  `parquet:"y1"`
	X2     int32  `parquet:"x2"`
	Y2     int32  `parquet:"y2"`
}

// ParquetLineLog writes one zstd-compressed parquet file per run. The file is
// only readable after Close.
type ParquetLineLog struct {
	runID  string
	f      *os.File
	writer *parquet.GenericWriter[ParquetLine]
	rows   []ParquetLine
}

func OpenParquetLineLog(path, runID string) (*ParquetLineLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet lines log: %w", err)
	}
	w := parquet.NewGenericWriter[ParquetLine](
		f,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
	)
	w.SetKeyValueMetadata("schema", "line_record_v1")
	return &ParquetLineLog{runID: runID, f: f, writer: w}, nil
}

func (l *ParquetLineLog) Append(r LineRecord) error {
	l.rows = append(l.rows, ParquetLine{
		RunID:  l.runID,
		GameID: int32(r.GameID),
		TurnID: int32(r.TurnID),
		Player: r.Player,
		X1:     int32(r.X1),
		Y1:     int32(r.Y1),
		X2:     int32(r.X2),
		Y2:     int32(r.Y2),
	})
	return nil
}

func (l *ParquetLineLog) Flush() error {
	if len(l.rows) == 0 {
		return nil
	}
	if _, err := l.writer.Write(l.rows); err != nil {
		return fmt.Errorf("failed to write parquet lines: %w", err)
	}
	l.rows = l.rows[:0]
	return nil
}

func (l *ParquetLineLog) Close() error {
	flushErr := l.Flush()
	closeErr := l.writer.Close()
	fileErr := l.f.Close()
	if err := errors.Join(flushErr, closeErr, fileErr); err != nil {
		return fmt.Errorf("failed to close parquet lines log: %w", err)
	}
	return nil
}

// ReadParquetLines loads every row of a closed parquet lines log.
func ReadParquetLines(path string) ([]ParquetLine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet lines log: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat parquet lines log: %w", err)
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet footer: %w", err)
	}

	reader := parquet.NewGenericReader[ParquetLine](pf)
	defer reader.Close()
	rows := make([]ParquetLine, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read parquet lines: %w", err)
	}
	return rows[:n], nil
}

type multiLog []LineLog

// MultiLog fans every call out to each log and joins their errors.
func MultiLog(logs ...LineLog) LineLog {
	return multiLog(logs)
}

func (m multiLog) Append(r LineRecord) error {
	var errs []error
	for _, l := range m {
		errs = append(errs, l.Append(r))
	}
	return errors.Join(errs...)
}

func (m multiLog) Flush() error {
	var errs []error
	for _, l := range m {
		errs = append(errs, l.Flush())
	}
	return errors.Join(errs...)
}

func (m multiLog) Close() error {
	var errs []error
	for _, l := range m {
		errs = append(errs, l.Close())
	}
	return errors.Join(errs...)
}

type discard struct{}

// Discard drops every record.
var Discard LineLog = discard{}

func (discard) Append(LineRecord) error { return nil }
func (discard) Flush() error            { return nil }
func (discard) Close() error            { return nil }

// TrialRecord is one hyperparameter draw and the win rate it reached.
type TrialRecord struct {
	LearningRate    float64
	DiscountFactor  float64
	ExplorationRate float64
	WinRate         float64
}

func WriteTrials(path string, records []TrialRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create trials file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	header := []string{"learning_rate", "discount_factor", "exploration_rate", "win_rate"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write trials header: %w", err)
	}

	for _, r := range records {
		row := []string{
			strconv.FormatFloat(r.LearningRate, 'g', -1, 64),
			strconv.FormatFloat(r.DiscountFactor, 'g', -1, 64),
			strconv.FormatFloat(r.ExplorationRate, 'g', -1, 64),
			strconv.FormatFloat(r.WinRate, 'g', -1, 64),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write trial row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush trials file: %w", err)
	}
	return nil
}
