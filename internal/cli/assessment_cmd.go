package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alexanderramin/pcam/internal/catalog"
	"github.com/alexanderramin/pcam/internal/cli/formatter"
	"github.com/alexanderramin/pcam/internal/domain"
	"github.com/alexanderramin/pcam/internal/service"
	"github.com/spf13/cobra"
)

// printWarning writes the persistence warning of an outcome, if any.
func printWarning(w io.Writer, warning error) {
	if warning != nil {
		fmt.Fprintln(w, formatter.Warning(warning.Error()))
	}
}

// resolveParameter accepts a parameter id or its 1-based catalog position.
func resolveParameter(cat *catalog.Catalog, arg string) (catalog.Parameter, error) {
	if p, ok := cat.Parameter(arg); ok {
		return p, nil
	}
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= cat.N() {
		return cat.Parameters[n-1], nil
	}
	return catalog.Parameter{}, fmt.Errorf("unknown parameter %q (expected one of %s or 1-%d): %w",
		arg, strings.Join(cat.IDs(), ", "), cat.N(), domain.ErrInvalidArgument)
}

// resolveCategory accepts a category name or its 1-based position.
func resolveCategory(arg string) (domain.Category, error) {
	if n, err := strconv.Atoi(arg); err == nil {
		if n >= 1 && n <= domain.CategoryCount {
			return domain.Categories[n-1], nil
		}
		return "", fmt.Errorf("category %d out of range 1-%d: %w", n, domain.CategoryCount, domain.ErrInvalidArgument)
	}
	return domain.ParseCategory(strings.ToLower(arg))
}

func newSelectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "select [PARAMETER] [CATEGORY]",
		Short: "Record one answer",
		Long: "Record the category for one parameter. PARAMETER is an id or 1-based\n" +
			"position; CATEGORY is vishama, tikshna, manda, sama or 1-4.\n" +
			"Missing arguments are prompted for on a terminal.",
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cat := app.Assessment.Catalog()

			var paramID string
			if len(args) > 0 {
				paramID = args[0]
			} else {
				if !app.Interactive {
					return errors.New("parameter is required when not running in a terminal")
				}
				if err := wizardSelectParameter(cat, app.Assessment.View().Selections, &paramID).Run(); err != nil {
					return err
				}
			}
			param, err := resolveParameter(cat, paramID)
			if err != nil {
				return err
			}

			var category domain.Category
			if len(args) > 1 {
				if category, err = resolveCategory(args[1]); err != nil {
					return err
				}
			} else {
				if !app.Interactive {
					return errors.New("category is required when not running in a terminal")
				}
				if err := wizardSelectCategory(param, &category).Run(); err != nil {
					return err
				}
			}

			out, err := app.Assessment.Select(ctx, param.ID, category)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprint(w, formatter.FormatSelected(cat, param.ID, category, out.View))
			if out.View.Phase == domain.PhaseReady {
				fmt.Fprintln(w, formatter.Dim("All parameters answered. Run `pcam complete` to classify."))
			}
			printWarning(w, out.Warning)
			return nil
		},
	}
}

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show progress, totals, dominant category and severity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatStatus(app.Assessment.View(), app.Assessment.Catalog()))
			return nil
		},
	}
}

func newCompleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "complete",
		Short: "Complete the assessment and classify it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := app.Assessment.Complete(cmd.Context())
			if err != nil {
				if errors.Is(err, domain.ErrIncompletePrecondition) {
					cat := app.Assessment.Catalog()
					return fmt.Errorf("%w\n%s", err, formatter.FormatRemaining(app.Assessment.View().Remaining, cat))
				}
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, formatter.FormatResult(*out.Result, app.Assessment.Catalog()))
			printWarning(w, out.Warning)
			return nil
		},
	}
}

func newResetCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear every answer and start over",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if !yes {
				if !app.Interactive {
					return errors.New("reset needs --yes when not running in a terminal")
				}
				confirmed := false
				desc := fmt.Sprintf("%d answers will be discarded.", app.Assessment.View().Answered)
				if err := wizardConfirm("Reset the assessment?", desc, &confirmed).Run(); err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(w, formatter.Dim("Reset cancelled."))
					return nil
				}
			}

			out, err := app.Assessment.Reset(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(w, formatter.StyleGreen.Render("✔ Assessment reset."))
			printWarning(w, out.Warning)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newRecoverCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "recover",
		Short: "Restore the assessment from the latest auto-save",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := app.Assessment.Recover(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, describeOutcome("Recovered", out.View))
			printWarning(w, out.Warning)
			return nil
		},
	}
}

// describeOutcome summarises a state replacement for import and restore.
func describeOutcome(verb string, v service.AssessmentView) string {
	state := "in progress"
	if v.Phase == domain.PhaseCompleted {
		state = "completed"
	}
	return formatter.StyleGreen.Render(fmt.Sprintf("✔ %s %d of %d answers (%s).", verb, v.Answered, v.Total, state))
}
