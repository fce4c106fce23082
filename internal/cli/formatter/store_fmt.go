package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/pcam/internal/domain"
	"github.com/alexanderramin/pcam/internal/service"
)

const pillarBarWidth = 16

// FormatPillars renders the four pillar cards with their progress.
func FormatPillars(progress domain.PillarProgress) string {
	var b strings.Builder
	for _, p := range domain.Pillars {
		status := Dim("coming soon")
		if p.Available() {
			status = StyleGreen.Render("available")
		}
		b.WriteString(Bold(p.Title()) + "  " + status + "\n")
		b.WriteString("  " + RenderPercent(progress[p], pillarBarWidth) + "\n\n")
	}
	b.WriteString(Dim(fmt.Sprintf("Overall %.0f%%, %d of %d pillars complete",
		progress.Overall(), progress.CompletedCount(), len(domain.Pillars))) + "\n")
	return RenderBox("Clinical Assessment Pillars", b.String())
}

// FormatHistory renders completed assessments newest first.
func FormatHistory(records []*domain.AssessmentRecord, now time.Time) string {
	if len(records) == 0 {
		return Dim("No completed assessments yet.") + "\n"
	}
	headers := []string{"ID", "COMPLETED", "CATALOG", "DOMINANT", "IMBALANCE", "SEVERITY"}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			TruncID(r.ID),
			HumanTimestamp(r.CompletedAt, now),
			StyleFg.Render(r.Catalog),
			CategoryBadge(r.Dominant),
			fmt.Sprintf("%d", r.ImbalanceScore),
			SeverityIndicator(r.Severity),
		})
	}
	return RenderBox("History", RenderTable(headers, rows))
}

// FormatStorage renders store usage against the quota plus the stored keys.
func FormatStorage(report service.StorageReport) string {
	u := report.Usage
	var b strings.Builder

	quota := Dim("unlimited")
	if u.QuotaBytes > 0 {
		quota = FormatBytes(u.QuotaBytes) + " " +
			RenderProgress(float64(u.TotalBytes)/float64(u.QuotaBytes), pillarBarWidth)
	}
	b.WriteString(RenderFields([][2]string{
		{"Namespace", FormatBytes(u.NamespaceBytes)},
		{"Total", FormatBytes(u.TotalBytes)},
		{"Quota", quota},
		{"Entries", fmt.Sprintf("%d", u.Entries)},
		{"Auto-saves", fmt.Sprintf("%d", u.AutoSaves)},
	}))

	if len(report.Keys) > 0 {
		b.WriteString("\n" + Header("Keys") + "\n")
		for _, k := range report.Keys {
			b.WriteString("  " + StyleFg.Render(k) + "\n")
		}
	}
	return RenderBox("Storage", b.String())
}
