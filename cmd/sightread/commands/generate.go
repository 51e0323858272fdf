package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Conceptual-Machines/sightread-api/internal/i18n"
	"github.com/Conceptual-Machines/sightread-api/internal/models"
	"github.com/Conceptual-Machines/sightread-api/internal/music"
	"github.com/Conceptual-Machines/sightread-api/internal/render"
)

type generateOptions struct {
	params models.ScoreParams
	width  int
	save   bool
	play   bool
}

func newGenerateCmd(a *app) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a new practice sheet",
		Long: `Generate a random sheet and make it the active one.

Flags that are not given fall back to the defaults in config.yaml.

Examples:
  sightread generate --key D --time 3/4 --bars 12
  sightread generate --density 40 --low A3 --high C5 --save`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runGenerate(cmd, opts)
		},
	}

	p := models.DefaultParams()
	cmd.Flags().StringVarP(&opts.params.Key, "key", "k", p.Key, "key signature, e.g. C, F#, Bbm")
	cmd.Flags().IntVarP(&opts.params.Bars, "bars", "b", p.Bars, "number of measures")
	cmd.Flags().IntVarP(&opts.params.Tempo, "tempo", "t", p.Tempo, "tempo in quarter-note beats per minute")
	cmd.Flags().StringVar(&opts.params.TimeSig, "time", p.TimeSig, "time signature (4/4, 3/4, 2/4, 6/8)")
	cmd.Flags().IntVarP(&opts.params.NoteDensity, "density", "d", p.NoteDensity, "note density 0-100")
	cmd.Flags().StringVar(&opts.params.LowestPitch, "low", p.LowestPitch, "lowest pitch")
	cmd.Flags().StringVar(&opts.params.HighestPitch, "high", p.HighestPitch, "highest pitch")
	cmd.Flags().IntVarP(&opts.width, "width", "w", 0, "layout width (default from config)")
	cmd.Flags().BoolVarP(&opts.save, "save", "s", false, "save the sheet to the library")
	cmd.Flags().BoolVarP(&opts.play, "play", "p", false, "play the sheet after generating")

	return cmd
}

// resolveParams overlays the flags the user set on the configured defaults.
func resolveParams(cmd *cobra.Command, defaults, flags models.ScoreParams) models.ScoreParams {
	out := defaults
	changed := cmd.Flags().Changed
	if changed("key") {
		out.Key = flags.Key
	}
	if changed("bars") {
		out.Bars = flags.Bars
	}
	if changed("tempo") {
		out.Tempo = flags.Tempo
	}
	if changed("time") {
		out.TimeSig = flags.TimeSig
	}
	if changed("density") {
		out.NoteDensity = flags.NoteDensity
	}
	if changed("low") {
		out.LowestPitch = flags.LowestPitch
	}
	if changed("high") {
		out.HighestPitch = flags.HighestPitch
	}
	return out
}

func (a *app) runGenerate(cmd *cobra.Command, opts *generateOptions) error {
	params := resolveParams(cmd, a.cfg.Defaults.Params(), opts.params)

	ws, closeStore, err := a.openWorkspace()
	if err != nil {
		return err
	}
	defer closeStore()

	score, err := ws.Regenerate(ctx(), params)
	if err != nil {
		if errors.Is(err, music.ErrUnknownKey) {
			return errors.New(a.t(i18n.MsgUnknownKey, params.Key))
		}
		return err
	}

	out := cmd.OutOrStdout()
	if opts.save {
		if _, err := ws.SaveCurrent(ctx()); err != nil {
			return a.describe(err)
		}
	}

	if a.outputJSON {
		if err := printJSON(out, score); err != nil {
			return err
		}
	} else {
		width := opts.width
		if width <= 0 {
			width = a.cfg.Width
		}
		fmt.Fprintln(out, titleStyle.Render(summary(score)))
		fmt.Fprintln(out, dimStyle.Render(score.ID))
		fmt.Fprintln(out, render.Text(render.Layout(score, width)))
		if opts.save {
			printSuccess(out, a.t(i18n.MsgSaved))
		}
	}

	if opts.play {
		return a.play(cmd, score, score.Tempo)
	}
	return nil
}
