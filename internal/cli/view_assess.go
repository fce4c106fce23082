package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/pcam/internal/catalog"
	"github.com/alexanderramin/pcam/internal/cli/formatter"
	"github.com/alexanderramin/pcam/internal/domain"
	"github.com/alexanderramin/pcam/internal/service"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

const headerBarWidth = 24

type assessKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Toggle   key.Binding
	Prev     key.Binding
	Next     key.Binding
	Pick     key.Binding
	Complete key.Binding
	Quit     key.Binding
}

func newAssessKeyMap() assessKeyMap {
	return assessKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:   key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "expand")),
		Prev:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "prev category")),
		Next:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next category")),
		Pick:     key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "select")),
		Complete: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "complete")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k assessKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Pick, k.Prev, k.Next, k.Complete, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k assessKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// outcomeMsg carries the result of a mutating service call back to Update.
type outcomeMsg struct {
	param   string
	advance bool
	out     service.Outcome
	err     error
}

// assessModel is the accordion questionnaire: one section per parameter,
// with the section under the cursor optionally expanded to show its four
// descriptors.
type assessModel struct {
	svc  service.AssessmentService
	cat  *catalog.Catalog
	ctx  context.Context
	keys assessKeyMap
	help help.Model

	view     service.AssessmentView
	cursor   int
	expanded bool
	result   *domain.Result

	notice  string
	warning string
	err     error
	width   int
}

func newAssessModel(ctx context.Context, svc service.AssessmentService) assessModel {
	m := assessModel{
		svc:      svc,
		cat:      svc.Catalog(),
		ctx:      ctx,
		keys:     newAssessKeyMap(),
		help:     help.New(),
		view:     svc.View(),
		expanded: true,
	}
	if rem := m.view.Remaining; len(rem) > 0 {
		m.cursor = max(m.cat.Position(rem[0]), 0)
	}
	if m.view.Phase == domain.PhaseCompleted {
		snap := svc.Snapshot()
		m.result = &snap
	}
	return m
}

func (m assessModel) Init() tea.Cmd { return nil }

func (m assessModel) current() catalog.Parameter {
	return m.cat.Parameters[m.cursor]
}

// selectCmd answers param with c. advance moves the cursor on to the next
// unanswered parameter once the answer is recorded.
func (m assessModel) selectCmd(param string, c domain.Category, advance bool) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		out, err := svc.Select(ctx, param, c)
		return outcomeMsg{param: param, advance: advance, out: out, err: err}
	}
}

func (m assessModel) completeCmd() tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		out, err := svc.Complete(ctx)
		return outcomeMsg{out: out, err: err}
	}
}

// stepCategory returns the category next to the current answer, wrapping
// around the four categories. An unanswered parameter starts at the first
// (forward) or last (backward) category.
func (m assessModel) stepCategory(delta int) domain.Category {
	sel, ok := m.view.Selections[m.current().ID]
	if !ok {
		if delta > 0 {
			return domain.Categories[0]
		}
		return domain.Categories[domain.CategoryCount-1]
	}
	i := (sel.Category.Index() + delta + domain.CategoryCount) % domain.CategoryCount
	return domain.Categories[i]
}

// nextUnanswered returns the first unanswered parameter after the cursor,
// wrapping, or the cursor itself when all are answered.
func (m assessModel) nextUnanswered() int {
	n := m.cat.N()
	for step := 1; step <= n; step++ {
		i := (m.cursor + step) % n
		if _, ok := m.view.Selections[m.cat.Parameters[i].ID]; !ok {
			return i
		}
	}
	return m.cursor
}

func (m assessModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case outcomeMsg:
		m.warning = ""
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.view = msg.out.View
		if msg.out.Warning != nil {
			m.warning = msg.out.Warning.Error()
		}
		if msg.out.Result != nil {
			m.result = msg.out.Result
			m.notice = "Assessment completed."
			return m, nil
		}
		if p, ok := m.cat.Parameter(msg.param); ok {
			sel := m.view.Selections[p.ID]
			m.notice = fmt.Sprintf("%s → %s", p.Label, sel.Category.ShortLabel())
		}
		if m.view.Phase == domain.PhaseReady {
			m.notice += ". All answered, press c to complete."
		} else if msg.advance && m.current().ID == msg.param {
			m.cursor = m.nextUnanswered()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m assessModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.cat.N()-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		m.expanded = !m.expanded
	case key.Matches(msg, m.keys.Pick):
		i := int(msg.String()[0] - '1')
		return m, m.selectCmd(m.current().ID, domain.Categories[i], true)
	case key.Matches(msg, m.keys.Prev):
		return m, m.selectCmd(m.current().ID, m.stepCategory(-1), false)
	case key.Matches(msg, m.keys.Next):
		return m, m.selectCmd(m.current().ID, m.stepCategory(1), false)
	case key.Matches(msg, m.keys.Complete):
		return m, m.completeCmd()
	}
	return m, nil
}

func (m assessModel) View() string {
	var b strings.Builder
	v := m.view

	b.WriteString(formatter.StyleHeader.Render("AGNI ASSESSMENT") + "  " + formatter.Dim(v.Catalog) + "\n")
	b.WriteString(formatter.RenderPercent(v.Progress, headerBarWidth))
	b.WriteString(formatter.Dim(fmt.Sprintf("  %d/%d  ", v.Answered, v.Total)))
	b.WriteString(formatter.PhaseLabel(v.Phase) + "\n")

	totals := make([]string, 0, domain.CategoryCount)
	for _, c := range domain.Categories {
		totals = append(totals, fmt.Sprintf("%s %d", formatter.CategoryBadge(c), v.Totals.Get(c)))
	}
	b.WriteString(strings.Join(totals, formatter.Dim("  ·  ")))
	if v.Answered > 0 {
		b.WriteString(formatter.Dim("  │  ") + formatter.SeverityIndicator(v.Severity))
	}
	b.WriteString("\n\n")

	if m.result != nil {
		b.WriteString(formatter.FormatResult(*m.result, m.cat) + "\n\n")
	}

	for i, p := range m.cat.Parameters {
		b.WriteString(m.renderSection(i, p))
	}

	b.WriteString("\n")
	switch {
	case m.err != nil:
		b.WriteString(formatter.StyleRed.Render("✖ "+describeTUIError(m.err)) + "\n")
	case m.notice != "":
		b.WriteString(formatter.StyleGreen.Render("✔ "+m.notice) + "\n")
	}
	if m.warning != "" {
		b.WriteString(formatter.Warning(m.warning) + "\n")
	}
	b.WriteString(m.help.View(m.keys) + "\n")
	return b.String()
}

func (m assessModel) renderSection(i int, p catalog.Parameter) string {
	var b strings.Builder
	sel, answered := m.view.Selections[p.ID]

	marker, title := "  ", formatter.StyleFg.Render(p.Label)
	if i == m.cursor {
		marker = formatter.StyleHeader.Render("▸ ")
		title = formatter.Bold(p.Label)
	}
	answer := formatter.Dim("unanswered")
	if answered {
		answer = formatter.CategoryBadge(sel.Category)
	}
	fmt.Fprintf(&b, "%s%s %s  %s\n", marker, formatter.Dim(fmt.Sprintf("%d.", i+1)), title, answer)

	if i != m.cursor || !m.expanded {
		return b.String()
	}
	if p.Description != "" {
		b.WriteString("     " + formatter.Dim(p.Description) + "\n")
	}
	for n, c := range domain.Categories {
		d, _ := p.Descriptor(c)
		bullet := "○"
		if answered && sel.Category == c {
			bullet = formatter.CategoryColor(c).Render("●")
		}
		text := d.Text
		if m.width > 30 {
			text = formatter.Wrap(text, m.width-30)
		}
		fmt.Fprintf(&b, "     %s %s %s %s\n",
			bullet,
			formatter.Dim(fmt.Sprintf("[%d]", n+1)),
			formatter.CategoryColor(c).Render(fmt.Sprintf("%-8s", c.ShortLabel())),
			indentContinuation(text, 21),
		)
	}
	return b.String()
}

// indentContinuation indents every line after the first by n spaces.
func indentContinuation(s string, n int) string {
	return strings.ReplaceAll(s, "\n", "\n"+strings.Repeat(" ", n))
}

func describeTUIError(err error) string {
	switch {
	case errors.Is(err, domain.ErrIncompletePrecondition):
		return "Answer every parameter before completing (" + err.Error() + ")"
	case errors.Is(err, domain.ErrAlreadyCompleted):
		return "Assessment already completed; run `pcam reset` to start over"
	default:
		return err.Error()
	}
}

func newAssessCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "assess",
		Short: "Answer the questionnaire in an interactive accordion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.Interactive {
				return errors.New("assess needs a terminal; use `pcam select` instead")
			}
			p := tea.NewProgram(newAssessModel(cmd.Context(), app.Assessment),
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
			)
			if _, err := p.Run(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatStatus(app.Assessment.View(), app.Assessment.Catalog()))
			return nil
		},
	}
}
