package domain

import "time"

// Selection is the current answer for one parameter.
type Selection struct {
	Parameter  string
	Category   Category
	Weight     int
	SelectedAt time.Time
}

// CategoryTotals holds the accumulated weight per category, indexed by
// Category.Index().
type CategoryTotals [CategoryCount]int

// Get returns the total for c. Unknown categories read as zero.
func (t CategoryTotals) Get(c Category) int {
	i := c.Index()
	if i < 0 {
		return 0
	}
	return t[i]
}

// Imbalance returns the summed totals of the three imbalance categories.
func (t CategoryTotals) Imbalance() int {
	sum := 0
	for _, c := range ImbalanceCategories {
		sum += t.Get(c)
	}
	return sum
}

// Map returns the totals keyed by category name.
func (t CategoryTotals) Map() map[Category]int {
	m := make(map[Category]int, CategoryCount)
	for i, c := range Categories {
		m[c] = t[i]
	}
	return m
}

// AssessmentState is the aggregate root of one Agni assessment.
type AssessmentState struct {
	Selections     map[string]Selection
	CategoryTotals CategoryTotals
	Completed      bool
	CompletedAt    *time.Time
}

// NewAssessmentState returns an empty state.
func NewAssessmentState() AssessmentState {
	return AssessmentState{Selections: make(map[string]Selection)}
}

// Clone returns a deep copy that shares nothing with s.
func (s AssessmentState) Clone() AssessmentState {
	out := AssessmentState{
		Selections:     make(map[string]Selection, len(s.Selections)),
		CategoryTotals: s.CategoryTotals,
		Completed:      s.Completed,
	}
	for k, v := range s.Selections {
		out.Selections[k] = v
	}
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		out.CompletedAt = &t
	}
	return out
}

// Result is a completed or exported assessment together with its derived
// classification.
type Result struct {
	State            AssessmentState
	DominantCategory Category
	Severity         Severity
	Timestamp        time.Time
}

// AssessmentRecord is a persisted entry in the completed-assessment history.
type AssessmentRecord struct {
	ID             string
	Catalog        string
	CompletedAt    time.Time
	Dominant       Category
	Severity       Severity
	ImbalanceScore int
	ParameterCount int
	Payload        []byte
}

// PillarProgress is the per-pillar completion percentage shown by the
// navigation shell.
type PillarProgress map[Pillar]int

// NewPillarProgress returns a progress record with every pillar at zero.
func NewPillarProgress() PillarProgress {
	p := make(PillarProgress, len(Pillars))
	for _, pl := range Pillars {
		p[pl] = 0
	}
	return p
}

// Overall returns the mean progress across all pillars.
func (p PillarProgress) Overall() float64 {
	sum := 0
	for _, pl := range Pillars {
		sum += p[pl]
	}
	return float64(sum) / float64(len(Pillars))
}

// CompletedCount returns how many pillars are at 100%.
func (p PillarProgress) CompletedCount() int {
	n := 0
	for _, pl := range Pillars {
		if p[pl] == 100 {
			n++
		}
	}
	return n
}
