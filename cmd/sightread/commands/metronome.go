package commands

import (
	"fmt"
	"io"

	"github.com/eiannone/keyboard"
	"github.com/spf13/cobra"

	"github.com/Conceptual-Machines/sightread-api/internal/music"
	"github.com/Conceptual-Machines/sightread-api/internal/playback"
)

// tempoStep is the change applied by one + or - key press.
const tempoStep = 4

func newMetronomeCmd(a *app) *cobra.Command {
	var (
		tempo   int
		timeSig string
	)
	cmd := &cobra.Command{
		Use:   "metronome",
		Short: "Run a metronome",
		Long: `Click every beat, accenting the first beat of each bar.

Keys:
  + / =   faster
  -       slower
  q, Esc  quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("tempo") {
				tempo = a.cfg.Defaults.Tempo
			}
			if !cmd.Flags().Changed("time") {
				timeSig = a.cfg.Defaults.TimeSig
			}

			clicker, err := playback.NewSpeakerClicker(playback.DefaultSampleRate)
			if err != nil {
				return err
			}
			m := playback.NewMetronome(clicker, tempo, music.ParseTimeSignature(timeSig))

			if err := keyboard.Open(); err != nil {
				return fmt.Errorf("failed to open keyboard: %w", err)
			}
			defer func() { _ = keyboard.Close() }()

			keys, err := keyboard.GetKeys(8)
			if err != nil {
				return fmt.Errorf("failed to read keyboard: %w", err)
			}

			out := cmd.OutOrStdout()
			m.Start()
			defer m.Stop()
			printTempo(out, m.Tempo(), timeSig)

			for ev := range keys {
				if ev.Err != nil {
					return ev.Err
				}
				switch {
				case ev.Rune == 'q' || ev.Key == keyboard.KeyEsc || ev.Key == keyboard.KeyCtrlC:
					fmt.Fprintln(out)
					return nil
				case ev.Rune == '+' || ev.Rune == '=':
					m.SetTempo(m.Tempo() + tempoStep)
				case ev.Rune == '-':
					m.SetTempo(m.Tempo() - tempoStep)
				default:
					continue
				}
				printTempo(out, m.Tempo(), timeSig)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&tempo, "tempo", "t", 0, "beats per minute (default from config)")
	cmd.Flags().StringVar(&timeSig, "time", "", "time signature (default from config)")
	return cmd
}

func printTempo(w io.Writer, tempo int, timeSig string) {
	fmt.Fprintf(w, "\r%s %s  ", titleStyle.Render(fmt.Sprintf("♩=%d", tempo)), dimStyle.Render(timeSig))
}
