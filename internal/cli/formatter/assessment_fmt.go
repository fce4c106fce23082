package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/pcam/internal/catalog"
	"github.com/alexanderramin/pcam/internal/domain"
	"github.com/alexanderramin/pcam/internal/service"
)

const (
	statusProgressBarWidth = 20
	totalsBarWidth         = 12
)

// PhaseLabel returns a colored, human-readable phase.
func PhaseLabel(p domain.Phase) string {
	switch p {
	case domain.PhaseEmpty:
		return StyleDim.Render("○ Not started")
	case domain.PhaseInProgress:
		return StyleYellow.Render("◐ In progress")
	case domain.PhaseReady:
		return StyleBlue.Render("● Ready to complete")
	case domain.PhaseCompleted:
		return StyleGreen.Render("✔ Completed")
	default:
		return StyleDim.Render(string(p))
	}
}

// FormatTotals renders one row per category with its running total and a
// bar scaled to the largest total the catalog allows for that category.
func FormatTotals(totals domain.CategoryTotals, cat *catalog.Catalog, dominant domain.Category) string {
	headers := []string{"CATEGORY", "TOTAL", ""}
	rows := make([][]string, 0, domain.CategoryCount)
	for _, c := range domain.Categories {
		n := totals.Get(c)
		limit := cat.MaxCategoryTotal(c)
		pct := 0.0
		if limit > 0 {
			pct = float64(n) / float64(limit)
		}
		name := CategoryBadge(c)
		if c == dominant && n > 0 {
			name += StyleHeader.Render(" ◀")
		}
		rows = append(rows, []string{name, fmt.Sprintf("%d", n), RenderCompactBar(pct, totalsBarWidth, c != dominant)})
	}
	return RenderTable(headers, rows)
}

// FormatStatus renders the live assessment dashboard.
func FormatStatus(v service.AssessmentView, cat *catalog.Catalog) string {
	var b strings.Builder

	b.WriteString(RenderFields([][2]string{
		{"Catalog", StyleFg.Render(v.Catalog)},
		{"Phase", PhaseLabel(v.Phase)},
		{"Answered", fmt.Sprintf("%d of %d", v.Answered, v.Total)},
		{"Progress", RenderPercent(v.Progress, statusProgressBarWidth)},
	}))
	b.WriteString("\n")
	b.WriteString(FormatTotals(v.Totals, cat, v.Dominant))
	b.WriteString("\n")

	if v.Answered > 0 {
		b.WriteString(RenderFields([][2]string{
			{"Dominant", CategoryColor(v.Dominant).Render(v.Dominant.Label())},
			{"Imbalance", fmt.Sprintf("%d", v.Imbalance)},
			{"Severity", SeverityIndicator(v.Severity)},
		}))
	}

	if len(v.Remaining) > 0 && v.Phase != domain.PhaseEmpty {
		b.WriteString("\n")
		b.WriteString(FormatRemaining(v.Remaining, cat))
	}

	return RenderBox("Agni Assessment", b.String())
}

// FormatRemaining lists unanswered parameters by label.
func FormatRemaining(ids []string, cat *catalog.Catalog) string {
	labels := make([]string, 0, len(ids))
	for _, id := range ids {
		if p, ok := cat.Parameter(id); ok {
			labels = append(labels, p.Label)
			continue
		}
		labels = append(labels, id)
	}
	return Dim(fmt.Sprintf("Remaining (%d): ", len(ids))) + StyleFg.Render(strings.Join(labels, ", ")) + "\n"
}

// FormatSelected renders the confirmation line for one selection.
func FormatSelected(cat *catalog.Catalog, parameter string, category domain.Category, v service.AssessmentView) string {
	label := parameter
	weight := 0
	if p, ok := cat.Parameter(parameter); ok {
		label = p.Label
		if d, ok := p.Descriptor(category); ok {
			weight = d.Weight
		}
	}
	line := fmt.Sprintf("%s %s → %s %s",
		StyleGreen.Render("✔"),
		Bold(label),
		CategoryBadge(category),
		Dim(fmt.Sprintf("(weight %d)", weight)),
	)
	return line + "\n" + Dim("Progress ") + RenderPercent(v.Progress, statusProgressBarWidth) + "\n"
}

// FormatResult renders the completion summary.
func FormatResult(res domain.Result, cat *catalog.Catalog) string {
	var b strings.Builder
	totals := res.State.CategoryTotals

	b.WriteString(RenderFields([][2]string{
		{"Dominant", CategoryColor(res.DominantCategory).Render(res.DominantCategory.Label())},
		{"Risk", StyleFg.Render(res.DominantCategory.Risk())},
		{"Imbalance", fmt.Sprintf("%d", totals.Imbalance())},
		{"Severity", SeverityIndicator(res.Severity)},
		{"", Dim(res.Severity.Description())},
	}))
	b.WriteString("\n")
	b.WriteString(FormatTotals(totals, cat, res.DominantCategory))
	if res.State.CompletedAt != nil {
		b.WriteString("\n" + Dim("Completed "+res.State.CompletedAt.Local().Format("Jan 2, 2006 15:04")) + "\n")
	}
	return RenderBox("Assessment Complete", b.String())
}

// FormatCatalog renders every parameter with its four descriptors and
// weights, followed by the severity bands.
func FormatCatalog(cat *catalog.Catalog) string {
	var b strings.Builder

	for i, p := range cat.Parameters {
		b.WriteString(StyleHeader.Render(fmt.Sprintf("%d. %s", i+1, p.Label)))
		b.WriteString(" " + Dim(p.ID) + "\n")
		if p.Description != "" {
			b.WriteString("   " + Dim(p.Description) + "\n")
		}
		for n, c := range domain.Categories {
			d, _ := p.Descriptor(c)
			b.WriteString(fmt.Sprintf("   %s %s %s %s\n",
				Dim(fmt.Sprintf("[%d]", n+1)),
				CategoryColor(c).Render(fmt.Sprintf("%-8s", c.ShortLabel())),
				StyleFg.Render(d.Label),
				Dim(fmt.Sprintf("w%d", d.Weight)),
			))
		}
		b.WriteString("\n")
	}

	t := cat.Thresholds
	b.WriteString(Header("Severity bands") + "\n")
	b.WriteString(RenderTable(
		[]string{"TIER", "IMBALANCE"},
		[][]string{
			{SeverityIndicator(domain.SeverityBalanced), "0"},
			{SeverityIndicator(domain.SeverityMild), fmt.Sprintf("1-%d", t.MildMax)},
			{SeverityIndicator(domain.SeverityModerate), fmt.Sprintf("%d-%d", t.MildMax+1, t.ModerateMax)},
			{SeverityIndicator(domain.SeveritySevere), fmt.Sprintf("%d+", t.ModerateMax+1)},
		},
	))

	return RenderBox(fmt.Sprintf("Catalog: %s (%d parameters)", cat.Name, cat.N()), b.String())
}
