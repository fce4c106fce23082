package domain

import "fmt"

// Category is one of the four fixed Agni patterns a selection can fall into.
type Category string

const (
	CategoryVishama Category = "vishama"
	CategoryTikshna Category = "tikshna"
	CategoryManda   Category = "manda"
	CategorySama    Category = "sama"
)

// CategoryCount is the size of the closed Category enumeration.
const CategoryCount = 4

// Categories lists every category in declaration order. Tie-breaks and
// rendering both iterate in this order.
var Categories = [CategoryCount]Category{
	CategoryVishama,
	CategoryTikshna,
	CategoryManda,
	CategorySama,
}

// ImbalanceCategories are the categories whose totals count toward severity.
var ImbalanceCategories = [3]Category{
	CategoryVishama,
	CategoryTikshna,
	CategoryManda,
}

// Index returns the declaration position of c, or -1 if c is not a member.
func (c Category) Index() int {
	switch c {
	case CategoryVishama:
		return 0
	case CategoryTikshna:
		return 1
	case CategoryManda:
		return 2
	case CategorySama:
		return 3
	default:
		return -1
	}
}

// Valid reports whether c is one of the four declared categories.
func (c Category) Valid() bool {
	return c.Index() >= 0
}

// ParseCategory converts s into a Category, rejecting anything outside the
// enumeration.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("category %q: %w", s, ErrInvalidArgument)
	}
	return c, nil
}

// Label returns the display name for the category.
func (c Category) Label() string {
	switch c {
	case CategoryVishama:
		return "Viṣama Agni (Vata Duṣṭi)"
	case CategoryTikshna:
		return "Tīkṣṇa Agni (Pitta Duṣṭi)"
	case CategoryManda:
		return "Manda Agni (Kapha Duṣṭi)"
	case CategorySama:
		return "Sama Agni (Balanced)"
	default:
		return string(c)
	}
}

// ShortLabel returns a compact name suitable for table headers.
func (c Category) ShortLabel() string {
	switch c {
	case CategoryVishama:
		return "Vishama"
	case CategoryTikshna:
		return "Tikshna"
	case CategoryManda:
		return "Manda"
	case CategorySama:
		return "Sama"
	default:
		return string(c)
	}
}

// Risk describes the clinical significance of a dominant category.
func (c Category) Risk() string {
	switch c {
	case CategoryVishama:
		return "IBS-like symptoms, flatulence, irregular metabolism, anxiety disorders (Vata dominance)"
	case CategoryTikshna:
		return "Hyperacidity, peptic ulcers, gastritis, inflammatory conditions (Pitta dominance)"
	case CategoryManda:
		return "Ama formation, metabolic sluggishness, obesity, diabetes risk (Kapha dominance)"
	case CategorySama:
		return "Optimal digestion, proper tissue nourishment, robust immunity (Tridosha balance)"
	default:
		return ""
	}
}

// Severity is the banded classification of the summed imbalance totals.
type Severity string

const (
	SeverityBalanced Severity = "balanced"
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// Description returns the guidance text shown alongside a severity tier.
func (s Severity) Description() string {
	switch s {
	case SeverityBalanced:
		return "Ideal digestion, proper dhatu nourishment, strong immunity"
	case SeverityMild:
		return "Minor digestive imbalance, lifestyle modifications recommended"
	case SeverityModerate:
		return "Significant digestive dysfunction, targeted treatment required"
	case SeveritySevere:
		return "Major digestive pathology, immediate comprehensive intervention needed"
	default:
		return ""
	}
}

// Phase is the lifecycle position of an assessment.
type Phase string

const (
	PhaseEmpty      Phase = "empty"
	PhaseInProgress Phase = "in_progress"
	PhaseReady      Phase = "ready"
	PhaseCompleted  Phase = "completed"
)

// Pillar identifies one of the four assessment pillars shown by the shell.
type Pillar string

const (
	PillarAgni  Pillar = "agni"
	PillarDosha Pillar = "dosha"
	PillarDhatu Pillar = "dhatu"
	PillarSrota Pillar = "srota"
)

// Pillars lists the pillars in display order.
var Pillars = []Pillar{PillarAgni, PillarDosha, PillarDhatu, PillarSrota}

// Title returns the card title for the pillar.
func (p Pillar) Title() string {
	switch p {
	case PillarAgni:
		return "Pillar 1 - Agni Dusti"
	case PillarDosha:
		return "Pillar 2 - Dosha Dusti"
	case PillarDhatu:
		return "Pillar 3 - Dhatu Dusti"
	case PillarSrota:
		return "Pillar 4 - Sroto Dusti"
	default:
		return string(p)
	}
}

// Available reports whether the pillar has an implemented assessment.
func (p Pillar) Available() bool {
	return p == PillarAgni
}
