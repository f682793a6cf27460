// Package config loads the YAML run configuration.
package config

import (
	"boxes/meta"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	GridSize        int     `yaml:"grid_size" validate:"min=1,max=180"`
	PolicyPath      string  `yaml:"policy_path" validate:"required"`
	PolicyStore     string  `yaml:"policy_store" validate:"oneof=json badger"`
	LinesLog        string  `yaml:"lines_log" validate:"required"`
	LinesParquet    string  `yaml:"lines_parquet"`
	GameLog         string  `yaml:"game_log"`
	TuningResults   string  `yaml:"hyperparameter_tuning_results" validate:"required"`
	LearningRate    float64 `yaml:"learning_rate" validate:"gt=0,lte=1"`
	DiscountFactor  float64 `yaml:"discount_factor" validate:"gte=0,lte=1"`
	ExplorationRate float64 `yaml:"exploration_rate" validate:"gte=0,lte=1"`
	Seed            uint64  `yaml:"seed"`
	LogLevel        string  `yaml:"log_level" validate:"oneof=trace debug info warn error"`
	MetricsAddr     string  `yaml:"metrics_addr" validate:"omitempty,hostname_port"`
	Train           Train   `yaml:"train"`
	Tune            Tune    `yaml:"tune"`
}

type Train struct {
	Episodes int `yaml:"episodes" validate:"min=1"`
}

type Tune struct {
	Iterations      int   `yaml:"iterations" validate:"min=1"`
	TrainEpisodes   int   `yaml:"train_episodes" validate:"min=1"`
	TestEpisodes    int   `yaml:"test_episodes" validate:"min=1"`
	Workers         int   `yaml:"workers" validate:"min=1"`
	LearningRate    Range `yaml:"learning_rate"`
	DiscountFactor  Range `yaml:"discount_factor"`
	ExplorationRate Range `yaml:"exploration_rate"`
}

// Range is a closed interval written as [min, max].
type Range struct {
	Min float64 `validate:"gte=0,lte=1"`
	Max float64 `validate:"gte=0,lte=1,gtefield=Min"`
}

func (r *Range) UnmarshalYAML(node *yaml.Node) error {
	var pair []float64
	if err := node.Decode(&pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("line %d: range needs two values, got %d", node.Line, len(pair))
	}
	r.Min, r.Max = pair[0], pair[1]
	return nil
}

func (r Range) MarshalYAML() (interface{}, error) {
	return []float64{r.Min, r.Max}, nil
}

func Default() Config {
	return Config{
		GridSize:        meta.GRID_SIZE,
		PolicyPath:      meta.POLICY_PATH,
		PolicyStore:     "json",
		LinesLog:        meta.LINES_LOG,
		GameLog:         meta.GAME_LOG,
		TuningResults:   meta.TUNING_RESULTS,
		LearningRate:    meta.LEARNING_RATE,
		DiscountFactor:  meta.DISCOUNT_FACTOR,
		ExplorationRate: meta.EXPLORATION_RATE,
		LogLevel:        "info",
		Train:           Train{Episodes: meta.EPISODES},
		Tune: Tune{
			Iterations:      meta.TUNE_ITERATIONS,
			TrainEpisodes:   meta.TUNE_TRAIN_EPISODES,
			TestEpisodes:    meta.TUNE_TEST_EPISODES,
			Workers:         meta.GO_ROUTINES,
			LearningRate:    Range{Min: 0.01, Max: 0.5},
			DiscountFactor:  Range{Min: 0.8, Max: 0.99},
			ExplorationRate: Range{Min: 0.01, Max: 0.3},
		},
	}
}

var validate = validator.New()

// Load reads path over the defaults. A missing file yields the defaults.
// Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, cfg.Validate()
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// EnsureDirs creates the parent directory of every configured output path.
func (c Config) EnsureDirs() error {
	paths := []string{c.LinesLog, c.LinesParquet, c.GameLog, c.TuningResults}
	if c.PolicyStore == "json" {
		paths = append(paths, c.PolicyPath)
	}
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", p, err)
		}
	}
	return nil
}
