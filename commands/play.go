package commands

import (
	"boxes/engine"
	"boxes/experiments/metrics"
	"boxes/gamemaster"
	"boxes/policy"
	"boxes/printer"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var playMode string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play on the terminal against a person or the trained agent",
	Long: `Modes:
  hvh  Human vs Human
  hva  Human vs AI (Human as Player A)
  avh  AI vs Human (Human as Player B)

Without --mode a menu asks for 1, 2 or 3. Moves are entered as
"col1 row1 col2 row2". Games repeat until the input ends.`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&playMode, "mode", "", "hvh, hva or avh")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	run, err := newRun(cfg, metrics.NewDummyCollector())
	if err != nil {
		return err
	}
	session := gamemaster.NewSession(run, newStore(cfg), cmd.InOrStdin(), cmd.OutOrStdout(),
		gamemaster.WithSize(cfg.GridSize))

	err = errors.Join(play(cmd, session), run.Close())
	switch {
	case errors.Is(err, engine.ErrInterrupted), errors.Is(err, io.EOF):
		return nil
	case errors.Is(err, policy.ErrNoPolicy):
		return reported{printer.Error(cmd.ErrOrStderr(),
			"No trained policy found",
			fmt.Sprintf("The AI plays from the policy at %s, which does not exist yet.", cfg.PolicyPath),
			[]string{fmt.Sprintf("Train one first: boxes train --size %d", cfg.GridSize)})}
	case errors.Is(err, policy.ErrBadPolicy):
		return reported{printer.Error(cmd.ErrOrStderr(),
			"Unusable policy",
			err.Error(),
			[]string{
				fmt.Sprintf("Retrain for this grid: boxes train --size %d", cfg.GridSize),
				"Play on the grid the policy was trained for with --size",
			})}
	}
	return err
}

func play(cmd *cobra.Command, session *gamemaster.Session) error {
	var (
		mode gamemaster.Mode
		err  error
	)
	if playMode != "" {
		mode, err = gamemaster.ParseMode(playMode)
	} else {
		mode, err = session.SelectMode(cmd.Context())
	}
	if err != nil {
		return err
	}
	return session.Run(cmd.Context(), mode)
}
