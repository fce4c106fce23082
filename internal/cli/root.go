package cli

import (
	"time"

	"github.com/alexanderramin/pcam/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Assessment service.AssessmentService
	Pillars    service.PillarService
	History    service.HistoryService
	Backup     service.BackupService

	// Interactive enables huh prompts and the accordion TUI. It is false
	// when stdin is not a terminal.
	Interactive bool

	// Now is the clock used for relative timestamps. Nil means time.Now.
	Now func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// NewRootCmd creates the top-level "pcam" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "pcam",
		Short:         "4-Pillar clinical assessment: Agni scoring",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newAssessCmd(app),
		newSelectCmd(app),
		newStatusCmd(app),
		newCompleteCmd(app),
		newResetCmd(app),
		newRecoverCmd(app),
		newExportCmd(app),
		newImportCmd(app),
		newCatalogCmd(app),
		newPillarsCmd(app),
		newHistoryCmd(app),
		newBackupCmd(app),
		newRestoreCmd(app),
		newStorageCmd(app),
	)

	return root
}
