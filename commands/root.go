// Package commands wires the boxes command line.
package commands

import (
	"boxes/config"
	"boxes/meta"
	"boxes/printer"
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	configPath string
	gridSize   int
	seed       uint64
	logLevel   string

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "boxes",
	Short: "Dots and boxes with a Q-learning agent",
	Long: `Boxes plays dots and boxes on an n×n grid of boxes.

Train a tabular Q-learning agent by self-play, tune its hyperparameters
against a random opponent, or play against it on the terminal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	PersistentPreRunE: setup,
}

// reported marks an error the printer already showed.
type reported struct {
	error
}

// Execute runs the root command with a context cancelled on SIGINT or SIGTERM.
func Execute() error {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer closeLog()

	err := rootCmd.ExecuteContext(ctx)
	var r reported
	if err != nil && !errors.As(err, &r) {
		printer.Error(os.Stderr, "Command failed", err.Error(), nil)
	}
	return err
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", meta.CONFIG_FILE, "Path to the YAML configuration")
	flags.IntVar(&gridSize, "size", meta.GRID_SIZE, "Boxes per side of the grid")
	flags.Uint64Var(&seed, "seed", 0, "Random seed, 0 picks one from the clock")
	flags.StringVar(&logLevel, "log-level", "info", "One of trace, debug, info, warn, error")
}

// setup loads the configuration, applies flags that were set explicitly and
// starts logging.
func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("size") {
		c.GridSize = gridSize
	}
	if flags.Changed("seed") {
		c.Seed = seed
	}
	if flags.Changed("log-level") {
		c.LogLevel = logLevel
	}
	if c.Seed == 0 {
		c.Seed = uint64(time.Now().UnixNano())
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if err := c.EnsureDirs(); err != nil {
		return err
	}
	if err := setupLogging(c); err != nil {
		return err
	}
	cfg = c
	log.Debug().Uint64("seed", c.Seed).Int("size", c.GridSize).Msgf("loaded config from %s", configPath)
	return nil
}
