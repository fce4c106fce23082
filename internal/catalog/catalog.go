// Package catalog defines the fixed parameter set an assessment is scored
// against: one descriptor and weight per (parameter, category) pair plus the
// severity thresholds that belong to that weighting.
package catalog

import (
	"fmt"

	"github.com/alexanderramin/pcam/internal/domain"
)

// Descriptor is the authored text for one (parameter, category) cell.
type Descriptor struct {
	Label  string
	Text   string
	Weight int
}

// Parameter is one assessment dimension.
type Parameter struct {
	ID          string
	Label       string
	Description string
	Descriptors map[domain.Category]Descriptor
}

// Descriptor returns the cell for c. The bool is false when c is not a
// declared category.
func (p Parameter) Descriptor(c domain.Category) (Descriptor, bool) {
	d, ok := p.Descriptors[c]
	return d, ok
}

// Thresholds bands the imbalance sum into severity tiers:
// 0 is balanced, 1..MildMax mild, MildMax+1..ModerateMax moderate, and
// anything above ModerateMax severe.
type Thresholds struct {
	MildMax     int
	ModerateMax int
}

// Classify maps an imbalance sum to its tier.
func (t Thresholds) Classify(sum int) domain.Severity {
	switch {
	case sum <= 0:
		return domain.SeverityBalanced
	case sum <= t.MildMax:
		return domain.SeverityMild
	case sum <= t.ModerateMax:
		return domain.SeverityModerate
	default:
		return domain.SeveritySevere
	}
}

// Catalog is an ordered, validated set of parameters.
type Catalog struct {
	Name       string
	Parameters []Parameter
	Thresholds Thresholds

	index map[string]int
}

// New builds a catalog and validates it.
func New(name string, params []Parameter, thresholds Thresholds) (*Catalog, error) {
	c := &Catalog{
		Name:       name,
		Parameters: params,
		Thresholds: thresholds,
		index:      make(map[string]int, len(params)),
	}
	for i, p := range params {
		if _, dup := c.index[p.ID]; dup {
			return nil, fmt.Errorf("catalog %s: duplicate parameter %q", name, p.ID)
		}
		c.index[p.ID] = i
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNew is New for built-in catalogs that are known to be valid.
func MustNew(name string, params []Parameter, thresholds Thresholds) *Catalog {
	c, err := New(name, params, thresholds)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) validate() error {
	if len(c.Parameters) == 0 {
		return fmt.Errorf("catalog %s: at least one parameter is required", c.Name)
	}
	for _, p := range c.Parameters {
		if p.ID == "" {
			return fmt.Errorf("catalog %s: parameter id is required", c.Name)
		}
		if len(p.Descriptors) != domain.CategoryCount {
			return fmt.Errorf("catalog %s: parameter %q must describe all %d categories, has %d",
				c.Name, p.ID, domain.CategoryCount, len(p.Descriptors))
		}
		for _, cat := range domain.Categories {
			d, ok := p.Descriptors[cat]
			if !ok {
				return fmt.Errorf("catalog %s: parameter %q is missing category %q", c.Name, p.ID, cat)
			}
			if d.Weight < 0 {
				return fmt.Errorf("catalog %s: parameter %q category %q has negative weight %d", c.Name, p.ID, cat, d.Weight)
			}
		}
	}

	t := c.Thresholds
	if t.MildMax < 1 {
		return fmt.Errorf("catalog %s: mild threshold must be at least 1, got %d", c.Name, t.MildMax)
	}
	if t.ModerateMax <= t.MildMax {
		return fmt.Errorf("catalog %s: moderate threshold (%d) must exceed mild threshold (%d)", c.Name, t.ModerateMax, t.MildMax)
	}
	if limit := c.MaxImbalance(); t.ModerateMax >= limit {
		return fmt.Errorf("catalog %s: moderate threshold (%d) must be below the maximum imbalance sum (%d)", c.Name, t.ModerateMax, limit)
	}
	return nil
}

// N returns the number of parameters.
func (c *Catalog) N() int {
	return len(c.Parameters)
}

// Parameter looks up a parameter by id.
func (c *Catalog) Parameter(id string) (Parameter, bool) {
	i, ok := c.index[id]
	if !ok {
		return Parameter{}, false
	}
	return c.Parameters[i], true
}

// Has reports whether id names a parameter in the catalog.
func (c *Catalog) Has(id string) bool {
	_, ok := c.index[id]
	return ok
}

// Position returns the zero-based order of the parameter, or -1.
func (c *Catalog) Position(id string) int {
	i, ok := c.index[id]
	if !ok {
		return -1
	}
	return i
}

// Weight returns the static weight for (parameter, category).
func (c *Catalog) Weight(parameter string, category domain.Category) (int, error) {
	p, ok := c.Parameter(parameter)
	if !ok {
		return 0, fmt.Errorf("parameter %q: %w", parameter, domain.ErrInvalidArgument)
	}
	d, ok := p.Descriptor(category)
	if !ok {
		return 0, fmt.Errorf("category %q: %w", category, domain.ErrInvalidArgument)
	}
	return d.Weight, nil
}

// MaxImbalance is the largest imbalance sum a complete assessment can reach:
// for each parameter, the heaviest of its three imbalance descriptors.
func (c *Catalog) MaxImbalance() int {
	total := 0
	for _, p := range c.Parameters {
		best := 0
		for _, cat := range domain.ImbalanceCategories {
			if w := p.Descriptors[cat].Weight; w > best {
				best = w
			}
		}
		total += best
	}
	return total
}

// MaxCategoryTotal is the largest total any single category can reach.
func (c *Catalog) MaxCategoryTotal(cat domain.Category) int {
	total := 0
	for _, p := range c.Parameters {
		total += p.Descriptors[cat].Weight
	}
	return total
}

// IDs returns parameter ids in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.Parameters))
	for i, p := range c.Parameters {
		ids[i] = p.ID
	}
	return ids
}
