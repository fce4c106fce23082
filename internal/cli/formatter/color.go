package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/pcam/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorOrange = lipgloss.Color("#fe8019")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleOrange = lipgloss.NewStyle().Foreground(ColorOrange)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// SeverityColor returns the lipgloss style for a severity tier.
func SeverityColor(s domain.Severity) lipgloss.Style {
	switch s {
	case domain.SeverityBalanced:
		return StyleGreen
	case domain.SeverityMild:
		return StyleYellow
	case domain.SeverityModerate:
		return StyleOrange
	case domain.SeveritySevere:
		return StyleRed
	default:
		return StyleDim
	}
}

// SeverityIndicator returns a colored tier marker such as "● MODERATE".
func SeverityIndicator(s domain.Severity) string {
	if s == "" {
		return StyleDim.Render("● UNKNOWN")
	}
	return SeverityColor(s).Render("● " + strings.ToUpper(string(s)))
}

// CategoryColor returns the accent used for a category throughout the UI.
func CategoryColor(c domain.Category) lipgloss.Style {
	switch c {
	case domain.CategoryVishama:
		return StylePurple
	case domain.CategoryTikshna:
		return StyleRed
	case domain.CategoryManda:
		return StyleBlue
	case domain.CategorySama:
		return StyleGreen
	default:
		return StyleDim
	}
}

// CategoryBadge renders the short category name in its accent color.
func CategoryBadge(c domain.Category) string {
	if c == "" {
		return StyleDim.Render("--")
	}
	return CategoryColor(c).Render(c.ShortLabel())
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}

// Warning renders a yellow warning line.
func Warning(text string) string {
	return StyleYellow.Render("  WARNING: " + text)
}
