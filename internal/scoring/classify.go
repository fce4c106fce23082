package scoring

import (
	"math"

	"github.com/alexanderramin/pcam/internal/domain"
)

// Dominant returns the first category, in declaration order, whose total
// equals the maximum. When nothing has accumulated any weight the balanced
// category is returned.
func Dominant(totals domain.CategoryTotals) domain.Category {
	best := -1
	dominant := domain.CategorySama
	for i, c := range domain.Categories {
		if totals[i] > best {
			best = totals[i]
			dominant = c
		}
	}
	if best <= 0 {
		return domain.CategorySama
	}
	return dominant
}

// Progress converts answered/total into a whole percentage in [0,100].
// Only a fully answered catalog reports 100.
func Progress(answered, total int) int {
	if total <= 0 || answered <= 0 {
		return 0
	}
	if answered >= total {
		return 100
	}
	pct := int(math.Round(float64(answered) / float64(total) * 100))
	if pct >= 100 {
		return 99
	}
	return pct
}
