package commands

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/Conceptual-Machines/sightread-api/internal/models"
	"github.com/Conceptual-Machines/sightread-api/internal/playback"
)

// releaseTail lets the last note's envelope finish before the process exits.
const releaseTail = 150 * time.Millisecond

func newPlayCmd(a *app) *cobra.Command {
	var tempo int
	cmd := &cobra.Command{
		Use:   "play [id]",
		Short: "Play a saved sheet or the active one",
		Long: `Play a sheet through the system speaker. Without an ID the active
sheet is played. Press Ctrl+C to stop.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, closeStore, err := a.openWorkspace()
			if err != nil {
				return err
			}
			defer closeStore()

			var score *models.Score
			if len(args) == 1 {
				id, err := resolveID(ws, args[0])
				if err != nil {
					return a.describe(err)
				}
				score, err = ws.Get(ctx(), id)
				if err != nil {
					return a.describe(err)
				}
			} else {
				score, err = ws.Current(ctx())
				if err != nil {
					return a.describe(err)
				}
			}
			return a.play(cmd, score, tempo)
		},
	}
	cmd.Flags().IntVarP(&tempo, "tempo", "t", 0, "playback tempo (default: the sheet's tempo)")
	return cmd
}

// play sounds score and blocks until it finishes or the user interrupts.
func (a *app) play(cmd *cobra.Command, score *models.Score, tempo int) error {
	tones, err := playback.NewSpeakerScheduler(playback.DefaultSampleRate)
	if err != nil {
		return err
	}
	player := playback.NewPlayer(tones)

	plan, err := player.Play(score, tempo)
	if err != nil {
		return a.describe(err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render(
		fmt.Sprintf("▶ %d notes at ♩=%d, %s", len(plan.Tones), plan.Tempo, time.Duration(plan.Total*float64(time.Second)).Round(time.Second/10))))

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)

	select {
	case <-player.Done():
		time.Sleep(releaseTail)
	case <-interrupt:
		player.Stop()
	}
	return nil
}
