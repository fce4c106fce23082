package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alexanderramin/pcam/internal/catalog"
	"github.com/alexanderramin/pcam/internal/domain"
	"github.com/alexanderramin/pcam/internal/repository"
	"github.com/alexanderramin/pcam/internal/scoring"
	"github.com/google/uuid"
)

// ErrClosed is returned by mutating use cases after Close.
var ErrClosed = errors.New("assessment service closed")

// AssessmentOption configures the assessment service.
type AssessmentOption func(*assessmentService)

// WithDebounce sets the persistence debounce delay. A non-positive delay
// saves synchronously inside Select.
func WithDebounce(d time.Duration) AssessmentOption {
	return func(s *assessmentService) { s.delay = d }
}

// WithMaxAutoSaves bounds the number of auto-save entries kept.
func WithMaxAutoSaves(n int) AssessmentOption {
	return func(s *assessmentService) {
		if n > 0 {
			s.maxAutoSaves = n
		}
	}
}

// WithNotifier forwards progress and completion notifications. The
// notifier runs while the service lock is held and must not call back
// into the service.
func WithNotifier(n scoring.Observer) AssessmentOption {
	return func(s *assessmentService) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithLogger sets the logger for persistence and engine warnings.
func WithLogger(l *slog.Logger) AssessmentOption {
	return func(s *assessmentService) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithUseCaseObserver records use-case telemetry.
func WithUseCaseObserver(o UseCaseObserver) AssessmentOption {
	return func(s *assessmentService) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithClock overrides the clock used for selection and completion times.
func WithClock(now func() time.Time) AssessmentOption {
	return func(s *assessmentService) {
		if now != nil {
			s.now = now
		}
	}
}

type assessmentService struct {
	catalog  *catalog.Catalog
	store    repository.KVStore
	results  repository.ResultRepo
	pillars  PillarService
	notifier scoring.Observer
	observer UseCaseObserver
	logger   *slog.Logger
	now      func() time.Time

	delay        time.Duration
	maxAutoSaves int

	// mu guards the engine and the fields below it. saveMu serialises
	// writes so snapshots reach the store in the order they were taken.
	mu       sync.Mutex
	saveMu   sync.Mutex
	engine   *scoring.Engine
	dirty    bool
	closed   bool
	deferred error
	debounce *debouncer
}

// NewAssessmentService wires an engine for cat to the store. results may
// be nil when completion history is not kept.
func NewAssessmentService(
	cat *catalog.Catalog,
	store repository.KVStore,
	results repository.ResultRepo,
	pillars PillarService,
	opts ...AssessmentOption,
) AssessmentService {
	s := &assessmentService{
		catalog:      cat,
		store:        store,
		results:      results,
		pillars:      pillars,
		notifier:     scoring.NoopObserver{},
		observer:     NoopUseCaseObserver{},
		logger:       discardLogger(),
		now:          func() time.Time { return time.Now().UTC() },
		delay:        time.Second,
		maxAutoSaves: DefaultMaxAutoSave,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = scoring.NewEngine(cat,
		scoring.WithObserver(s.notifier),
		scoring.WithLogger(s.logger),
		scoring.WithClock(s.now),
	)
	s.debounce = newDebouncer(s.delay, s.flushFromTimer)
	return s
}

func (s *assessmentService) Catalog() *catalog.Catalog {
	return s.catalog
}

func (s *assessmentService) View() AssessmentView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *assessmentService) viewLocked() AssessmentView {
	st := s.engine.State()
	return AssessmentView{
		Catalog:     s.catalog.Name,
		Total:       s.catalog.N(),
		Answered:    len(st.Selections),
		Progress:    s.engine.Progress(),
		Phase:       s.engine.Phase(),
		Totals:      st.CategoryTotals,
		Imbalance:   st.CategoryTotals.Imbalance(),
		Dominant:    s.engine.DominantCategory(),
		Severity:    s.engine.Severity(),
		Remaining:   s.engine.Remaining(),
		Selections:  st.Selections,
		CompletedAt: st.CompletedAt,
	}
}

func (s *assessmentService) State() domain.AssessmentState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.State()
}

func (s *assessmentService) Snapshot() domain.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.ExportSnapshot()
}

// Load hydrates the engine from the stored blob. A missing blob starts
// empty; a blob that fails to decode or validate is logged and ignored.
func (s *assessmentService) Load(ctx context.Context) (report LoadReport, err error) {
	startedAt := time.Now()
	fields := map[string]any{"catalog": s.catalog.Name}
	defer func() { observe(ctx, s.observer, "load-assessment", startedAt, fields, err) }()

	s.debounce.Cancel()
	raw, err := s.store.Get(ctx, KeyAssessment)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return LoadReport{}, fmt.Errorf("loading assessment: %w", err)
	}
	err = nil

	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = false
	if raw == nil {
		s.engine.Reset()
		report.View = s.viewLocked()
		return report, nil
	}

	state, decodeErr := scoring.Decode(raw)
	if decodeErr == nil {
		decodeErr = s.engine.Restore(state)
	}
	if decodeErr != nil {
		s.logger.Warn("discarding unreadable stored assessment", "key", KeyAssessment, "error", decodeErr)
		s.engine.Reset()
		report.Discarded = true
		fields["discarded"] = true
	} else {
		report.Restored = true
	}
	report.View = s.viewLocked()
	fields["answered"] = report.View.Answered
	return report, nil
}

func (s *assessmentService) Select(ctx context.Context, parameter string, category domain.Category) (out Outcome, err error) {
	startedAt := time.Now()
	fields := map[string]any{"parameter": parameter, "category": string(category)}
	defer func() { observe(ctx, s.observer, "select", startedAt, fields, err) }()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Outcome{}, ErrClosed
	}
	if err = s.engine.Select(parameter, category); err != nil {
		s.mu.Unlock()
		return Outcome{}, err
	}
	s.dirty = true
	out.View = s.viewLocked()
	s.mu.Unlock()
	fields["progress"] = out.View.Progress

	if !s.debounce.Trigger() {
		out.Warning = s.flush(ctx)
	}
	return out, nil
}

func (s *assessmentService) Complete(ctx context.Context) (out Outcome, err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer func() { observe(ctx, s.observer, "complete", startedAt, fields, err) }()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Outcome{}, ErrClosed
	}
	res, err := s.engine.Complete()
	if err != nil {
		s.mu.Unlock()
		return Outcome{}, err
	}
	s.dirty = true
	out.View = s.viewLocked()
	out.Result = &res
	s.mu.Unlock()
	fields["dominant"] = string(res.DominantCategory)
	fields["severity"] = string(res.Severity)

	s.debounce.Cancel()
	warning := s.flush(ctx)
	if histErr := s.recordHistory(ctx, res); histErr != nil {
		warning = errors.Join(warning, persistenceWarning(histErr))
	}
	out.Warning = warning
	return out, nil
}

func (s *assessmentService) recordHistory(ctx context.Context, res domain.Result) error {
	if s.results == nil {
		return nil
	}
	payload, err := scoring.Marshal(res)
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	rec := &domain.AssessmentRecord{
		ID:             uuid.New().String(),
		Catalog:        s.catalog.Name,
		CompletedAt:    res.Timestamp,
		Dominant:       res.DominantCategory,
		Severity:       res.Severity,
		ImbalanceScore: res.State.CategoryTotals.Imbalance(),
		ParameterCount: len(res.State.Selections),
		Payload:        payload,
	}
	if err := s.results.Create(ctx, rec); err != nil {
		s.logger.Warn("recording completed assessment failed", "error", err)
		return err
	}
	return nil
}

func (s *assessmentService) Reset(ctx context.Context) (out Outcome, err error) {
	startedAt := time.Now()
	defer func() { observe(ctx, s.observer, "reset", startedAt, nil, err) }()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Outcome{}, ErrClosed
	}
	s.engine.Reset()
	s.dirty = true
	out.View = s.viewLocked()
	s.mu.Unlock()

	s.debounce.Cancel()
	out.Warning = s.flush(ctx)
	return out, nil
}

// Import replaces the current state with an export document and saves it
// immediately. The document's totals must match its selections; dominant
// category and severity are recomputed.
func (s *assessmentService) Import(ctx context.Context, data []byte) (out Outcome, err error) {
	startedAt := time.Now()
	fields := map[string]any{"bytes": len(data)}
	defer func() { observe(ctx, s.observer, "import", startedAt, fields, err) }()

	state, err := scoring.Decode(data)
	if err != nil {
		return Outcome{}, err
	}
	return s.replace(ctx, state)
}

// Recover restores the newest auto-save entry.
func (s *assessmentService) Recover(ctx context.Context) (out Outcome, err error) {
	startedAt := time.Now()
	defer func() { observe(ctx, s.observer, "recover", startedAt, nil, err) }()

	raw, err := s.store.LatestAutoSave(ctx, KeyAssessment)
	if err != nil {
		return Outcome{}, fmt.Errorf("reading latest auto-save: %w", err)
	}
	state, err := scoring.Decode(raw)
	if err != nil {
		return Outcome{}, err
	}
	return s.replace(ctx, state)
}

func (s *assessmentService) replace(ctx context.Context, state domain.AssessmentState) (Outcome, error) {
	var out Outcome
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Outcome{}, ErrClosed
	}
	if err := s.engine.Restore(state); err != nil {
		s.mu.Unlock()
		return Outcome{}, err
	}
	s.dirty = true
	out.View = s.viewLocked()
	s.mu.Unlock()

	s.debounce.Cancel()
	out.Warning = s.flush(ctx)
	return out, nil
}

func (s *assessmentService) Export(ctx context.Context) ([]byte, error) {
	data, err := scoring.Marshal(s.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("encoding export: %w", err)
	}
	return data, nil
}

// Flush writes any pending change now. It returns the persistence warning
// from this write or, failing that, from the last timer-driven write.
func (s *assessmentService) Flush(ctx context.Context) error {
	s.debounce.Cancel()
	if err := s.flush(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.deferred
	s.deferred = nil
	return err
}

// Close cancels the pending timer, writes the latest state synchronously
// and rejects further mutations. No write starts after Close returns.
func (s *assessmentService) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.debounce.Close()
	return s.Flush(ctx)
}

func (s *assessmentService) flushFromTimer() {
	if err := s.save(context.Background(), true); err != nil {
		s.mu.Lock()
		s.deferred = err
		s.mu.Unlock()
	}
}

// flush persists the current state when it has unsaved changes.
func (s *assessmentService) flush(ctx context.Context) error {
	return s.save(ctx, false)
}

// save writes the state if it is dirty. A timer-driven save that reaches
// the lock after Close is dropped; Close owns the final write.
func (s *assessmentService) save(ctx context.Context, fromTimer bool) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	if !s.dirty || (fromTimer && s.closed) {
		s.mu.Unlock()
		return nil
	}
	snap := s.engine.ExportSnapshot()
	progress := s.engine.Progress()
	s.dirty = false
	s.mu.Unlock()

	if err := s.persist(ctx, snap, progress); err != nil {
		s.mu.Lock()
		s.dirty = true
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *assessmentService) persist(ctx context.Context, snap domain.Result, progress int) error {
	data, err := scoring.Marshal(snap)
	if err != nil {
		return persistenceWarning(fmt.Errorf("encoding assessment: %w", err))
	}

	var errs []error
	if err := s.store.Set(ctx, KeyAssessment, data); err != nil {
		errs = append(errs, err)
	}
	if err := s.store.AutoSave(ctx, KeyAssessment, data); err != nil {
		errs = append(errs, fmt.Errorf("auto-save: %w", err))
	} else if _, err := s.store.PruneAutoSaves(ctx, KeyAssessment, s.maxAutoSaves); err != nil {
		errs = append(errs, fmt.Errorf("pruning auto-saves: %w", err))
	}
	if s.pillars != nil {
		if err := s.pillars.SetProgress(ctx, domain.PillarAgni, progress); err != nil {
			errs = append(errs, fmt.Errorf("pillar progress: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		s.logger.Warn("persisting assessment failed", "key", KeyAssessment, "error", err)
		return persistenceWarning(err)
	}
	return nil
}

func persistenceWarning(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", domain.ErrPersistenceFailure, err)
}
