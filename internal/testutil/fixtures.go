package testutil

import (
	"sync"
	"time"

	"github.com/alexanderramin/pcam/internal/catalog"
	"github.com/alexanderramin/pcam/internal/domain"
	"github.com/google/uuid"
)

// Record options
type RecordOption func(*domain.AssessmentRecord)

func WithCompletedAt(t time.Time) RecordOption {
	return func(r *domain.AssessmentRecord) {
		r.CompletedAt = t
	}
}

func WithClassification(dominant domain.Category, severity domain.Severity, score int) RecordOption {
	return func(r *domain.AssessmentRecord) {
		r.Dominant = dominant
		r.Severity = severity
		r.ImbalanceScore = score
	}
}

func WithCatalogName(name string) RecordOption {
	return func(r *domain.AssessmentRecord) {
		r.Catalog = name
	}
}

func NewTestRecord(opts ...RecordOption) *domain.AssessmentRecord {
	r := &domain.AssessmentRecord{
		ID:             uuid.New().String(),
		Catalog:        catalog.NameDefault,
		CompletedAt:    time.Now().UTC(),
		Dominant:       domain.CategorySama,
		Severity:       domain.SeverityBalanced,
		ParameterCount: 8,
		Payload:        []byte(`{}`),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// UniformState answers every parameter of c with cat, with consistent
// totals. The state is not marked completed.
func UniformState(c *catalog.Catalog, cat domain.Category, at time.Time) domain.AssessmentState {
	s := domain.NewAssessmentState()
	for _, p := range c.Parameters {
		w := p.Descriptors[cat].Weight
		s.Selections[p.ID] = domain.Selection{
			Parameter:  p.ID,
			Category:   cat,
			Weight:     w,
			SelectedAt: at,
		}
		s.CategoryTotals[cat.Index()] += w
	}
	return s
}

// FixedClock returns a clock pinned to t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// SteppingClock returns a clock that starts at t and advances by step on
// every call. It is safe for concurrent use.
func SteppingClock(t time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	next := t
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		cur := next
		next = next.Add(step)
		return cur
	}
}
