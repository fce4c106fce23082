package scoring

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexanderramin/pcam/internal/domain"
)

// SelectionDoc is the wire form of one selection.
type SelectionDoc struct {
	Category   domain.Category `json:"category"`
	Weight     int             `json:"weight"`
	SelectedAt time.Time       `json:"selectedAt"`
}

// Document is the export/import JSON document.
type Document struct {
	Timestamp        time.Time               `json:"timestamp"`
	Selections       map[string]SelectionDoc `json:"selections"`
	CategoryTotals   map[domain.Category]int `json:"categoryTotals"`
	Completed        bool                    `json:"completed"`
	CompletedAt      *time.Time              `json:"completedAt"`
	DominantCategory domain.Category         `json:"dominantCategory"`
	Severity         domain.Severity         `json:"severity"`
}

// Encode converts a result into its export document.
func Encode(res domain.Result) Document {
	doc := Document{
		Timestamp:        res.Timestamp,
		Selections:       make(map[string]SelectionDoc, len(res.State.Selections)),
		CategoryTotals:   res.State.CategoryTotals.Map(),
		Completed:        res.State.Completed,
		DominantCategory: res.DominantCategory,
		Severity:         res.Severity,
	}
	for key, sel := range res.State.Selections {
		doc.Selections[key] = SelectionDoc{
			Category:   sel.Category,
			Weight:     sel.Weight,
			SelectedAt: sel.SelectedAt,
		}
	}
	if res.State.CompletedAt != nil {
		t := *res.State.CompletedAt
		doc.CompletedAt = &t
	}
	return doc
}

// Marshal renders a result as an indented export document.
func Marshal(res domain.Result) ([]byte, error) {
	return json.MarshalIndent(Encode(res), "", "  ")
}

// required mirrors Document with pointer fields so absent keys can be told
// apart from zero values.
type required struct {
	Selections     *map[string]SelectionDoc `json:"selections"`
	CategoryTotals *map[string]int          `json:"categoryTotals"`
	Completed      *bool                    `json:"completed"`
	CompletedAt    *time.Time               `json:"completedAt"`
}

// Decode parses an export document into an assessment state. Dominant
// category and severity in the document are ignored; they are always
// derived from the totals. The returned state still needs Engine.Restore
// to be checked against a catalog.
func Decode(data []byte) (domain.AssessmentState, error) {
	var raw required
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.AssessmentState{}, fmt.Errorf("decoding document: %v: %w", err, domain.ErrMalformedImport)
	}
	switch {
	case raw.Selections == nil:
		return domain.AssessmentState{}, fmt.Errorf("missing selections: %w", domain.ErrMalformedImport)
	case raw.CategoryTotals == nil:
		return domain.AssessmentState{}, fmt.Errorf("missing categoryTotals: %w", domain.ErrMalformedImport)
	case raw.Completed == nil:
		return domain.AssessmentState{}, fmt.Errorf("missing completed: %w", domain.ErrMalformedImport)
	}

	state := domain.NewAssessmentState()
	state.Completed = *raw.Completed
	if raw.CompletedAt != nil {
		t := *raw.CompletedAt
		state.CompletedAt = &t
	}
	for key, v := range *raw.CategoryTotals {
		c, err := domain.ParseCategory(key)
		if err != nil {
			return domain.AssessmentState{}, fmt.Errorf("categoryTotals: %v: %w", err, domain.ErrMalformedImport)
		}
		if v < 0 {
			return domain.AssessmentState{}, fmt.Errorf("categoryTotals[%s] is negative: %w", c, domain.ErrMalformedImport)
		}
		state.CategoryTotals[c.Index()] = v
	}
	for key, sd := range *raw.Selections {
		if !sd.Category.Valid() {
			return domain.AssessmentState{}, fmt.Errorf("selection %q has category %q: %w", key, sd.Category, domain.ErrMalformedImport)
		}
		state.Selections[key] = domain.Selection{
			Parameter:  key,
			Category:   sd.Category,
			Weight:     sd.Weight,
			SelectedAt: sd.SelectedAt,
		}
	}
	return state, nil
}
