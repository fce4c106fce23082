package cli

import (
	"fmt"

	"github.com/alexanderramin/pcam/internal/catalog"
	"github.com/alexanderramin/pcam/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newCatalogCmd(app *App) *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Show parameters, descriptors, weights and severity bands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := app.Assessment.Catalog()
			if asYAML {
				data, err := catalog.Marshal(cat)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCatalog(cat))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print the catalog as a loadable YAML file")
	return cmd
}

func newPillarsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "pillars",
		Short: "Show the four assessment pillars and their progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Assessment.Flush(cmd.Context()); err != nil {
				printWarning(cmd.OutOrStdout(), err)
			}
			progress, err := app.Pillars.Progress(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPillars(progress))
			return nil
		},
	}
}

func newHistoryCmd(app *App) *cobra.Command {
	var limit int
	var dominant categoryFlag
	var severity severityFlag

	cmd := &cobra.Command{
		Use:   "history [ID]",
		Short: "List completed assessments, or print one as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			w := cmd.OutOrStdout()

			if len(args) == 1 {
				rec, err := app.History.Get(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(w, string(rec.Payload))
				return nil
			}

			filtered := dominant != "" || severity != ""
			fetch := limit
			if filtered {
				fetch = 0
			}
			records, err := app.History.List(ctx, fetch)
			if err != nil {
				return err
			}
			if filtered {
				kept := records[:0]
				for _, r := range records {
					if dominant.matches(r.Dominant) && severity.matches(r.Severity) {
						kept = append(kept, r)
					}
				}
				records = kept
				if limit > 0 && len(records) > limit {
					records = records[:limit]
				}
			}
			fmt.Fprintln(w, formatter.FormatHistory(records, app.now()))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of results (0 for all)")
	cmd.Flags().Var(&dominant, "dominant", "Only results with this dominant category")
	cmd.Flags().Var(&severity, "severity", "Only results with this severity")
	return cmd
}
