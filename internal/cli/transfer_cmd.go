package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/pcam/internal/cli/formatter"
	"github.com/spf13/cobra"
)

// readInput reads path, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// writeOutput writes data to path, or to the command output when path is
// empty. It reports where the data went on the command output.
func writeOutput(cmd *cobra.Command, path string, data []byte, what string) error {
	w := cmd.OutOrStdout()
	if path == "" {
		_, err := fmt.Fprintln(w, string(data))
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintln(w, formatter.StyleGreen.Render(fmt.Sprintf("✔ %s written to %s", what, path)))
	return nil
}

func newExportCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the assessment as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := app.Assessment.Export(cmd.Context())
			if err != nil {
				return err
			}
			return writeOutput(cmd, out, data, "Assessment")
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to FILE instead of stdout")
	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the assessment with an exported JSON document",
		Long:  "Replace the assessment with an exported JSON document. Use - to read stdin.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			out, err := app.Assessment.Import(cmd.Context(), data)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, describeOutcome("Imported", out.View))
			printWarning(w, out.Warning)
			return nil
		},
	}
}

func newBackupCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Write every stored entry to a backup document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Assessment.Flush(cmd.Context()); err != nil {
				printWarning(cmd.OutOrStdout(), err)
			}
			data, err := app.Backup.Backup(cmd.Context())
			if err != nil {
				return err
			}
			return writeOutput(cmd, out, data, "Backup")
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to FILE instead of stdout")
	return cmd
}

func newRestoreCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "restore FILE",
		Short: "Replace every stored entry with a backup document",
		Long:  "Replace every stored entry with a backup document. Use - to read stdin.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			n, err := app.Backup.Restore(ctx, data)
			if err != nil {
				return err
			}
			report, err := app.Assessment.Load(ctx)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, formatter.StyleGreen.Render(fmt.Sprintf("✔ Restored %d entries.", n)))
			if report.Discarded {
				fmt.Fprintln(w, formatter.Warning("the restored assessment could not be read and was discarded"))
			} else if report.Restored {
				fmt.Fprintln(w, describeOutcome("Loaded", report.View))
			}
			return nil
		},
	}
}

func newStorageCmd(app *App) *cobra.Command {
	var clearAll, yes bool

	cmd := &cobra.Command{
		Use:   "storage",
		Short: "Show local storage usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			w := cmd.OutOrStdout()

			if clearAll {
				if !yes {
					if !app.Interactive {
						return errors.New("clearing storage needs --yes when not running in a terminal")
					}
					confirmed := false
					if err := wizardConfirm("Delete every stored entry?", "Auto-saves and pillar progress are removed too.", &confirmed).Run(); err != nil {
						return err
					}
					if !confirmed {
						fmt.Fprintln(w, formatter.Dim("Clear cancelled."))
						return nil
					}
				}
				if err := app.Backup.Clear(ctx); err != nil {
					return err
				}
				if _, err := app.Assessment.Load(ctx); err != nil {
					return err
				}
				fmt.Fprintln(w, formatter.StyleGreen.Render("✔ Storage cleared."))
			}

			report, err := app.Backup.Storage(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, formatter.FormatStorage(report))
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearAll, "clear", false, "Delete every entry in the namespace")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
