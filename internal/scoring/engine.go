// Package scoring holds the Agni scoring engine: per-category counters fed by
// exclusive per-parameter selections, from which progress, the dominant
// category and the severity tier are derived.
package scoring

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/alexanderramin/pcam/internal/catalog"
	"github.com/alexanderramin/pcam/internal/domain"
)

// Observer receives engine notifications synchronously, on the caller's
// goroutine.
type Observer interface {
	ProgressUpdated(pct int)
	AssessmentCompleted(res domain.Result)
}

// NoopObserver ignores all notifications.
type NoopObserver struct{}

func (NoopObserver) ProgressUpdated(int)               {}
func (NoopObserver) AssessmentCompleted(domain.Result) {}

// Option configures an Engine.
type Option func(*Engine)

// WithObserver routes progress and completion notifications to o.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

// WithLogger sets the logger used for bookkeeping warnings.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithClock overrides time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// Engine owns one AssessmentState. It is not safe for concurrent use; the
// owner serialises access.
type Engine struct {
	catalog  *catalog.Catalog
	state    domain.AssessmentState
	observer Observer
	logger   *slog.Logger
	now      func() time.Time
}

// NewEngine returns an engine in the Empty phase scored against c.
func NewEngine(c *catalog.Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog:  c,
		state:    domain.NewAssessmentState(),
		observer: NoopObserver{},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog returns the catalog the engine scores against.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Select records category as the answer for parameter, replacing any prior
// answer, and emits a progress notification.
func (e *Engine) Select(parameter string, category domain.Category) error {
	if !category.Valid() {
		return fmt.Errorf("category %q: %w", category, domain.ErrInvalidArgument)
	}
	weight, err := e.catalog.Weight(parameter, category)
	if err != nil {
		return err
	}
	if e.state.Completed {
		return fmt.Errorf("selecting %s: %w", parameter, domain.ErrAlreadyCompleted)
	}

	if prev, ok := e.state.Selections[parameter]; ok {
		e.subtract(prev)
	}
	e.state.CategoryTotals[category.Index()] += weight
	e.state.Selections[parameter] = domain.Selection{
		Parameter:  parameter,
		Category:   category,
		Weight:     weight,
		SelectedAt: e.now(),
	}

	e.observer.ProgressUpdated(e.Progress())
	return nil
}

// subtract removes a stale selection's weight with a floor of zero. Hitting
// the floor means the totals were already out of step with the selections.
func (e *Engine) subtract(prev domain.Selection) {
	i := prev.Category.Index()
	if i < 0 {
		return
	}
	next := e.state.CategoryTotals[i] - prev.Weight
	if next < 0 {
		e.logger.Warn("category total underflow clamped",
			"parameter", prev.Parameter,
			"category", string(prev.Category),
			"total", e.state.CategoryTotals[i],
			"weight", prev.Weight,
		)
		next = 0
	}
	e.state.CategoryTotals[i] = next
}

// Complete marks a fully answered assessment as completed and emits the
// completion notification.
func (e *Engine) Complete() (domain.Result, error) {
	if e.state.Completed {
		return domain.Result{}, domain.ErrAlreadyCompleted
	}
	answered, n := len(e.state.Selections), e.catalog.N()
	if answered < n {
		return domain.Result{}, fmt.Errorf("%d of %d parameters answered: %w", answered, n, domain.ErrIncompletePrecondition)
	}

	now := e.now()
	e.state.Completed = true
	e.state.CompletedAt = &now

	res := e.result(now)
	e.observer.AssessmentCompleted(res)
	return res, nil
}

// DominantCategory returns the category with the highest total.
func (e *Engine) DominantCategory() domain.Category {
	return Dominant(e.state.CategoryTotals)
}

// Severity classifies the imbalance sum against the catalog thresholds.
func (e *Engine) Severity() domain.Severity {
	return e.catalog.Thresholds.Classify(e.state.CategoryTotals.Imbalance())
}

// Progress returns the answered share of the catalog as a whole percentage.
func (e *Engine) Progress() int {
	return Progress(len(e.state.Selections), e.catalog.N())
}

// Phase reports the lifecycle position.
func (e *Engine) Phase() domain.Phase {
	switch k := len(e.state.Selections); {
	case e.state.Completed:
		return domain.PhaseCompleted
	case k == 0:
		return domain.PhaseEmpty
	case k < e.catalog.N():
		return domain.PhaseInProgress
	default:
		return domain.PhaseReady
	}
}

// Remaining lists unanswered parameter ids in catalog order.
func (e *Engine) Remaining() []string {
	var out []string
	for _, id := range e.catalog.IDs() {
		if _, ok := e.state.Selections[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

// Reset discards all selections and returns to the Empty phase.
func (e *Engine) Reset() {
	e.state = domain.NewAssessmentState()
}

// State returns a copy of the current state.
func (e *Engine) State() domain.AssessmentState {
	return e.state.Clone()
}

// ExportSnapshot returns a copy of the state with its classification,
// stamped with the export time.
func (e *Engine) ExportSnapshot() domain.Result {
	return e.result(e.now())
}

func (e *Engine) result(ts time.Time) domain.Result {
	return domain.Result{
		State:            e.state.Clone(),
		DominantCategory: e.DominantCategory(),
		Severity:         e.Severity(),
		Timestamp:        ts,
	}
}

// Restore replaces the current state with s after checking it against the
// catalog and the bookkeeping invariants. On error the engine is unchanged.
func (e *Engine) Restore(s domain.AssessmentState) error {
	var totals domain.CategoryTotals
	for key, sel := range s.Selections {
		if sel.Parameter == "" {
			sel.Parameter = key
		}
		if sel.Parameter != key {
			return fmt.Errorf("selection key %q names parameter %q: %w", key, sel.Parameter, domain.ErrMalformedImport)
		}
		weight, err := e.catalog.Weight(key, sel.Category)
		if err != nil {
			return fmt.Errorf("selection %q: %v: %w", key, err, domain.ErrMalformedImport)
		}
		if sel.Weight != weight {
			return fmt.Errorf("selection %q weight %d, catalog says %d: %w", key, sel.Weight, weight, domain.ErrMalformedImport)
		}
		totals[sel.Category.Index()] += weight
	}
	if totals != s.CategoryTotals {
		return fmt.Errorf("category totals %v do not match selections %v: %w", s.CategoryTotals, totals, domain.ErrMalformedImport)
	}
	if s.Completed && len(s.Selections) != e.catalog.N() {
		return fmt.Errorf("completed with %d of %d parameters: %w", len(s.Selections), e.catalog.N(), domain.ErrMalformedImport)
	}
	if s.Completed && s.CompletedAt == nil {
		return fmt.Errorf("completed without completedAt: %w", domain.ErrMalformedImport)
	}

	next := s.Clone()
	for key, sel := range next.Selections {
		sel.Parameter = key
		next.Selections[key] = sel
	}
	if !next.Completed {
		next.CompletedAt = nil
	}
	e.state = next
	return nil
}
