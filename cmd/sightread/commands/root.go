// Package commands implements the sightread CLI commands.
package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Conceptual-Machines/sightread-api/internal/generator"
	"github.com/Conceptual-Machines/sightread-api/internal/i18n"
	"github.com/Conceptual-Machines/sightread-api/internal/library"
)

// localOwner owns every score stored by the CLI.
const localOwner = "local"

// app carries the flag values and configuration shared by all commands.
type app struct {
	cfgFile    string
	dataDir    string
	outputJSON bool

	cfg *Config
}

// NewRootCommand builds a fresh command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "sightread",
		Short: "Sight-reading practice sheets",
		Long: `Generate random sight-reading sheets, keep a library of favourites,
and practise with playback and a metronome.

Configuration is read from <user config dir>/sightread/config.yaml and
created with defaults on first run.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig(a.cfgFile)
			if err != nil {
				return err
			}
			if a.dataDir != "" {
				cfg.DataDir = a.dataDir
			}
			a.cfg = cfg
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (default is <user config dir>/sightread/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "library directory (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&a.outputJSON, "json", false, "output JSON")

	rootCmd.AddCommand(newGenerateCmd(a))
	rootCmd.AddCommand(newLibraryCmd(a))
	rootCmd.AddCommand(newPlayCmd(a))
	rootCmd.AddCommand(newMetronomeCmd(a))

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

// openWorkspace opens the on-disk library and returns the local workspace.
// The caller must call the returned close function.
func (a *app) openWorkspace() (*library.Workspace, func(), error) {
	store, err := library.NewBadgerStore(library.BadgerOptions{Dir: a.cfg.LibraryDir()})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open library at %s: %w", a.cfg.LibraryDir(), err)
	}
	ws := library.NewWorkspace(store, generator.New(), localOwner)
	return ws, func() { _ = store.Close() }, nil
}

// t translates a message key into the configured language.
func (a *app) t(key string, args ...interface{}) string {
	return i18n.T(a.cfg.Language(), key, args...)
}

// describe turns domain errors into localized messages.
func (a *app) describe(err error) error {
	if msg := messageFor(err); msg != "" {
		return errors.New(a.t(msg))
	}
	return err
}

func ctx() context.Context {
	return context.Background()
}
