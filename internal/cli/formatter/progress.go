package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// clampBar normalises a fraction and width for the bar renderers.
func clampBar(pct float64, width int) (float64, int, int) {
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}
	if width < 2 {
		width = 2
	}
	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}
	return pct, width, filled
}

// RenderProgress renders a progress bar like [████░░░░]  45%.
// The bar is red below a third, yellow below two thirds, green above.
func RenderProgress(pct float64, width int) string {
	pct, width, filled := clampBar(pct, width)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	if pct < 0.33 {
		style = StyleRed
	} else if pct < 0.66 {
		style = StyleYellow
	}

	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), pct*100)
}

// RenderCompactBar renders a bare bar without brackets or percentage,
// used for per-category totals. dim draws it in the muted color.
func RenderCompactBar(pct float64, width int, dim bool) string {
	_, width, filled := clampBar(pct, width)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
	if dim {
		return bar
	}
	return StyleFg.Render(bar)
}

// RenderPercent renders an integer percentage bar, as the assessment and
// pillar progress values are whole numbers.
func RenderPercent(pct int, width int) string {
	return RenderProgress(float64(pct)/100, width)
}
