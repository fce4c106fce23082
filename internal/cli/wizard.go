package cli

import (
	"fmt"

	"github.com/alexanderramin/pcam/internal/catalog"
	"github.com/alexanderramin/pcam/internal/cli/formatter"
	"github.com/alexanderramin/pcam/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// pcamHuhTheme returns a custom huh theme using the Gruvbox palette.
func pcamHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// parameterOptions lists catalog parameters, marking answered ones with
// their current category.
func parameterOptions(cat *catalog.Catalog, selections map[string]domain.Selection) []huh.Option[string] {
	options := make([]huh.Option[string], 0, cat.N())
	for i, p := range cat.Parameters {
		label := fmt.Sprintf("%d. %s", i+1, p.Label)
		if sel, ok := selections[p.ID]; ok {
			label += fmt.Sprintf(" (%s)", sel.Category.ShortLabel())
		}
		options = append(options, huh.NewOption(label, p.ID))
	}
	return options
}

// categoryOptions lists the four descriptors of one parameter.
func categoryOptions(p catalog.Parameter) []huh.Option[domain.Category] {
	options := make([]huh.Option[domain.Category], 0, domain.CategoryCount)
	for _, c := range domain.Categories {
		d, _ := p.Descriptor(c)
		options = append(options, huh.NewOption(fmt.Sprintf("%s: %s", c.ShortLabel(), d.Text), c))
	}
	return options
}

// wizardSelectParameter creates a huh form to pick the parameter to answer.
func wizardSelectParameter(cat *catalog.Catalog, selections map[string]domain.Selection, result *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which parameter?").
				Options(parameterOptions(cat, selections)...).
				Value(result),
		),
	).WithTheme(pcamHuhTheme()).WithShowHelp(false)
}

// wizardSelectCategory creates a huh form to pick a descriptor for p.
func wizardSelectCategory(p catalog.Parameter, result *domain.Category) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[domain.Category]().
				Title(p.Label).
				Description(p.Description).
				Options(categoryOptions(p)...).
				Value(result),
		),
	).WithTheme(pcamHuhTheme()).WithShowHelp(false)
}

// wizardConfirm creates a yes/no confirmation form.
func wizardConfirm(title, description string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(pcamHuhTheme()).WithShowHelp(false)
}
