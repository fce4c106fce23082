package service

import (
	"context"
	"time"

	"github.com/alexanderramin/pcam/internal/catalog"
	"github.com/alexanderramin/pcam/internal/domain"
	"github.com/alexanderramin/pcam/internal/repository"
)

// Store keys, relative to the configured namespace.
const (
	KeyAssessment      = "agniAssessmentData"
	KeyPillarProgress  = "assessmentProgress"
	DefaultMaxAutoSave = 10
)

// AssessmentView is the derived read model the views render.
type AssessmentView struct {
	Catalog     string
	Total       int
	Answered    int
	Progress    int
	Phase       domain.Phase
	Totals      domain.CategoryTotals
	Imbalance   int
	Dominant    domain.Category
	Severity    domain.Severity
	Remaining   []string
	Selections  map[string]domain.Selection
	CompletedAt *time.Time
}

// Outcome is returned by every mutating use case. Warning is non-nil when
// the in-memory change succeeded but could not be persisted; it wraps
// domain.ErrPersistenceFailure.
type Outcome struct {
	View    AssessmentView
	Result  *domain.Result
	Warning error
}

// LoadReport describes how the assessment was hydrated at startup.
type LoadReport struct {
	Restored  bool
	Discarded bool
	View      AssessmentView
}

type AssessmentService interface {
	Load(ctx context.Context) (LoadReport, error)
	Catalog() *catalog.Catalog
	View() AssessmentView
	State() domain.AssessmentState
	Snapshot() domain.Result

	Select(ctx context.Context, parameter string, category domain.Category) (Outcome, error)
	Complete(ctx context.Context) (Outcome, error)
	Reset(ctx context.Context) (Outcome, error)
	Import(ctx context.Context, data []byte) (Outcome, error)
	Recover(ctx context.Context) (Outcome, error)
	Export(ctx context.Context) ([]byte, error)

	Flush(ctx context.Context) error
	Close(ctx context.Context) error
}

type PillarService interface {
	Progress(ctx context.Context) (domain.PillarProgress, error)
	SetProgress(ctx context.Context, pillar domain.Pillar, pct int) error
}

type HistoryService interface {
	List(ctx context.Context, limit int) ([]*domain.AssessmentRecord, error)
	Get(ctx context.Context, id string) (*domain.AssessmentRecord, error)
}

// StorageReport summarises the local store.
type StorageReport struct {
	Usage repository.StorageUsage
	Keys  []string
}

type BackupService interface {
	Backup(ctx context.Context) ([]byte, error)
	Restore(ctx context.Context, data []byte) (int, error)
	Storage(ctx context.Context) (StorageReport, error)
	Clear(ctx context.Context) error
}
