package formatter

import (
	"regexp"
	"testing"
	"time"

	"github.com/alexanderramin/pcam/internal/domain"
	"github.com/stretchr/testify/assert"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// stripANSI removes ANSI escape codes so assertions are terminal-independent.
func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestHumanDate(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "Today", HumanDate(now.Add(-time.Hour), now))
	assert.Equal(t, "Yesterday", HumanDate(now.AddDate(0, 0, -1), now))
	assert.Equal(t, "Sep 30, 2022", HumanDate(time.Date(2022, 9, 30, 0, 0, 0, 0, time.UTC), now))
}

func TestHumanTimestamp(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{"just now", now.Add(-10 * time.Second), "Just now"},
		{"minutes", now.Add(-5 * time.Minute), "5m ago"},
		{"hours", now.Add(-2 * time.Hour), "2h ago"},
		{"days fall back to date", now.Add(-72 * time.Hour), "Feb 4, 2026"},
		{"future falls back to date", now.Add(time.Minute), "Today"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HumanTimestamp(tt.input, now))
		})
	}
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "0 B", FormatBytes(0))
	assert.Equal(t, "1023 B", FormatBytes(1023))
	assert.Equal(t, "1.0 KiB", FormatBytes(1024))
	assert.Equal(t, "5.0 MiB", FormatBytes(5<<20))
}

func TestTruncID(t *testing.T) {
	assert.Equal(t, "abcdef12", stripANSI(TruncID("abcdef1234567890")))
	assert.Equal(t, "abc", stripANSI(TruncID("abc")))
}

func TestSeverityIndicator(t *testing.T) {
	tests := []struct {
		severity domain.Severity
		contains string
	}{
		{domain.SeverityBalanced, "BALANCED"},
		{domain.SeverityMild, "MILD"},
		{domain.SeverityModerate, "MODERATE"},
		{domain.SeveritySevere, "SEVERE"},
		{"", "UNKNOWN"},
	}
	for _, tt := range tests {
		t.Run(string(tt.severity), func(t *testing.T) {
			assert.Contains(t, stripANSI(SeverityIndicator(tt.severity)), tt.contains)
		})
	}
}

func TestCategoryBadge(t *testing.T) {
	assert.Equal(t, "Tikshna", stripANSI(CategoryBadge(domain.CategoryTikshna)))
	assert.Equal(t, "--", stripANSI(CategoryBadge("")))
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := stripANSI(RenderTable(
		[]string{"A", "B"},
		[][]string{{"long value", "x"}, {"s", "y"}},
	))
	lines := regexp.MustCompile("\n").Split(out, -1)
	assert.Equal(t, "A           B", lines[0])
	assert.Equal(t, "long value  x", lines[2])
	assert.Equal(t, "s           y", lines[3])
	assert.Empty(t, RenderTable(nil, nil))
}

func TestRenderFields(t *testing.T) {
	out := stripANSI(RenderFields([][2]string{{"Phase", "ready"}, {"Severity", "mild"}}))
	assert.Equal(t, "Phase     ready\nSeverity  mild\n", out)
}
