package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Conceptual-Machines/sightread-api/internal/i18n"
	"github.com/Conceptual-Machines/sightread-api/internal/library"
	"github.com/Conceptual-Machines/sightread-api/internal/render"
)

func newLibraryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "library",
		Aliases: []string{"lib"},
		Short:   "Manage saved sheets",
		Long: `List, show, apply, delete, export and import saved sheets.

Score IDs may be given in full or as any unique prefix of at least 4
characters, such as the 8-character prefix shown by list.`,
	}

	cmd.AddCommand(newLibraryListCmd(a))
	cmd.AddCommand(newLibraryShowCmd(a))
	cmd.AddCommand(newLibraryApplyCmd(a))
	cmd.AddCommand(newLibraryDeleteCmd(a))
	cmd.AddCommand(newLibraryExportCmd(a))
	cmd.AddCommand(newLibraryImportCmd(a))

	return cmd
}

func newLibraryListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved sheets, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, closeStore, err := a.openWorkspace()
			if err != nil {
				return err
			}
			defer closeStore()

			scores, err := ws.Library(ctx())
			if err != nil {
				return err
			}
			if a.outputJSON {
				return printJSON(cmd.OutOrStdout(), scores)
			}
			writeScoreTable(cmd.OutOrStdout(), scores)
			return nil
		},
	}
}

func newLibraryShowCmd(a *app) *cobra.Command {
	var width int
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a saved sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, closeStore, err := a.openWorkspace()
			if err != nil {
				return err
			}
			defer closeStore()

			id, err := resolveID(ws, args[0])
			if err != nil {
				return a.describe(err)
			}
			score, err := ws.Get(ctx(), id)
			if err != nil {
				return a.describe(err)
			}

			out := cmd.OutOrStdout()
			if a.outputJSON {
				return printJSON(out, score)
			}
			if width <= 0 {
				width = a.cfg.Width
			}
			fmt.Fprintln(out, titleStyle.Render(summary(score)))
			fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("%s · saved %s", score.ID, humanize.Time(score.Created()))))
			fmt.Fprintln(out, render.Text(render.Layout(score, width)))
			return nil
		},
	}
	cmd.Flags().IntVarP(&width, "width", "w", 0, "layout width (default from config)")
	return cmd
}

func newLibraryApplyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "apply <id>",
		Short: "Make a saved sheet the active one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, closeStore, err := a.openWorkspace()
			if err != nil {
				return err
			}
			defer closeStore()

			id, err := resolveID(ws, args[0])
			if err != nil {
				return a.describe(err)
			}
			score, err := ws.Apply(ctx(), id)
			if err != nil {
				return a.describe(err)
			}
			if a.outputJSON {
				return printJSON(cmd.OutOrStdout(), score)
			}
			printSuccess(cmd.OutOrStdout(), summary(score))
			return nil
		},
	}
}

func newLibraryDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a saved sheet",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, closeStore, err := a.openWorkspace()
			if err != nil {
				return err
			}
			defer closeStore()

			id, err := resolveID(ws, args[0])
			if err != nil {
				return a.describe(err)
			}
			if err := ws.Delete(ctx(), id); err != nil {
				return a.describe(err)
			}
			printSuccess(cmd.OutOrStdout(), a.t(i18n.MsgDeleted))
			return nil
		},
	}
}

func newLibraryExportCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export [id]",
		Short: "Write a sheet to a JSON file",
		Long: `Write a saved sheet, or the active one when no ID is given, to a JSON
file. The file name defaults to score-<key>-<id>.json in the current
directory; use -o - to write to stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, closeStore, err := a.openWorkspace()
			if err != nil {
				return err
			}
			defer closeStore()

			var id string
			if len(args) == 1 {
				if id, err = resolveID(ws, args[0]); err != nil {
					return a.describe(err)
				}
			}
			data, filename, err := ws.Export(ctx(), id)
			if err != nil {
				return a.describe(err)
			}

			if output == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if output == "" {
				output = filename
			} else if info, err := os.Stat(output); err == nil && info.IsDir() {
				output = filepath.Join(output, filename)
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			printSuccess(cmd.OutOrStdout(), fmt.Sprintf("%s (%s)", output, humanize.Bytes(uint64(len(data)))))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file or directory")
	return cmd
}

func newLibraryImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a sheet from a JSON file",
		Long: `Validate a score file, add it to the library and make it the active
sheet. Use - to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			ws, closeStore, err := a.openWorkspace()
			if err != nil {
				return err
			}
			defer closeStore()

			score, err := ws.Import(ctx(), data)
			if err != nil {
				if details := validationDetails(err); details != "" {
					fmt.Fprintln(cmd.ErrOrStderr(), warnStyle.Render(details))
				}
				return a.describe(err)
			}
			if a.outputJSON {
				return printJSON(cmd.OutOrStdout(), score)
			}
			printSuccess(cmd.OutOrStdout(), a.t(i18n.MsgImported))
			fmt.Fprintln(cmd.OutOrStdout(), summary(score))
			return nil
		},
	}
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// resolveID expands an ID prefix to the full ID of a saved score. Exact IDs
// are returned as given.
func resolveID(ws *library.Workspace, prefix string) (string, error) {
	scores, err := ws.Library(ctx())
	if err != nil {
		return "", err
	}
	var match string
	for _, s := range scores {
		if s.ID == prefix {
			return s.ID, nil
		}
		if len(prefix) >= 4 && len(s.ID) >= len(prefix) && s.ID[:len(prefix)] == prefix {
			if match != "" {
				return "", fmt.Errorf("ambiguous id %q", prefix)
			}
			match = s.ID
		}
	}
	if match == "" {
		return prefix, nil
	}
	return match, nil
}
