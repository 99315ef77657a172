// Package tui implements the interactive plan-review screen: it lists the
// planned commit units, lets the user filter them, and runs the commit pass
// on confirmation.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/chmouel/lazycommit/internal/commit"
	"github.com/chmouel/lazycommit/internal/models"
	"github.com/chmouel/lazycommit/internal/theme"
	devicons "github.com/epilande/go-devicons"
	"github.com/muesli/reflow/truncate"
)

const (
	keyUp    = "up"
	keyDown  = "down"
	keyEnter = "enter"
	keyEsc   = "esc"

	placeholderFilter = "Filter files..."
)

type phase int

const (
	phaseReview phase = iota
	phaseRunning
	phaseDone
)

// Committer executes a reviewed plan. Implemented by app.App.
type Committer interface {
	Commit(ctx context.Context, units []models.CommitUnit, opts commit.Options) commit.Report
}

// row is one rendered line: a unit header or a file beneath it.
type row struct {
	unitIndex int
	file      string // empty for unit headers
	kind      string // change token for file rows
}

type commitDoneMsg struct {
	report commit.Report
}

// Model is the bubbletea model for the review screen.
type Model struct {
	units     []models.CommitUnit
	committer Committer
	opts      commit.Options
	thm       *theme.Theme
	showIcons bool

	rows   []row
	cursor int
	width  int
	height int

	filterInput   textinput.Model
	showingFilter bool
	filterQuery   string

	spin  spinner.Model
	phase phase

	report   commit.Report
	accepted bool
	quitting bool
}

// NewModel builds the review screen for a computed plan.
func NewModel(units []models.CommitUnit, committer Committer, opts commit.Options, thm *theme.Theme, showIcons bool) *Model {
	if thm == nil {
		thm = theme.Default()
	}

	ti := textinput.New()
	ti.Placeholder = placeholderFilter
	ti.CharLimit = 100
	ti.Prompt = "> "

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(thm.Accent)

	m := &Model{
		units:       units,
		committer:   committer,
		opts:        opts,
		thm:         thm,
		showIcons:   showIcons,
		filterInput: ti,
		spin:        sp,
		width:       80,
		height:      24,
	}
	m.rebuildRows()
	return m
}

// Accepted reports whether the user confirmed the plan.
func (m *Model) Accepted() bool { return m.accepted }

// Report returns the run outcome; meaningful only when Accepted().
func (m *Model) Report() commit.Report { return m.report }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) rebuildRows() {
	m.rows = m.rows[:0]
	query := strings.ToLower(m.filterQuery)

	for i, unit := range m.units {
		var files []row
		for j, file := range unit.Files {
			if query != "" && !strings.Contains(strings.ToLower(file), query) {
				continue
			}
			kind := unit.Change.String()
			if unit.Kind == models.UnitIndividual && j < len(unit.FileChanges) {
				kind = unit.FileChanges[j].String()
			}
			files = append(files, row{unitIndex: i, file: file, kind: kind})
		}
		if len(files) == 0 && query != "" {
			continue
		}
		m.rows = append(m.rows, row{unitIndex: i})
		m.rows = append(m.rows, files...)
	}

	if m.cursor >= len(m.rows) {
		m.cursor = max(0, len(m.rows)-1)
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filterInput.Width = msg.Width - 6
		return m, nil

	case commitDoneMsg:
		m.report = msg.report
		m.phase = phaseDone
		return m, nil

	case spinner.TickMsg:
		if m.phase != phaseRunning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.phase == phaseRunning {
		// The pass is sequential and must not be raced; keys wait.
		return m, nil
	}

	if m.phase == phaseDone {
		m.quitting = true
		return m, tea.Quit
	}

	if m.showingFilter {
		switch msg.String() {
		case keyEnter, keyEsc:
			m.showingFilter = false
			m.filterInput.Blur()
			if msg.String() == keyEsc {
				m.filterQuery = ""
				m.filterInput.SetValue("")
				m.rebuildRows()
			}
			return m, nil
		default:
			var cmd tea.Cmd
			m.filterInput, cmd = m.filterInput.Update(msg)
			m.filterQuery = m.filterInput.Value()
			m.rebuildRows()
			return m, cmd
		}
	}

	switch msg.String() {
	case "q", keyEsc, "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "j", keyDown:
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "k", keyUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case "/":
		m.showingFilter = true
		m.filterInput.Focus()
		return m, textinput.Blink
	case keyEnter:
		m.accepted = true
		m.phase = phaseRunning
		return m, tea.Batch(m.spin.Tick, m.runCommit())
	}

	return m, nil
}

func (m *Model) runCommit() tea.Cmd {
	units := m.units
	opts := m.opts
	return func() tea.Msg {
		report := m.committer.Commit(context.Background(), units, opts)
		return commitDoneMsg{report: report}
	}
}

func (m *Model) icon(name string, isDir bool) string {
	if !m.showIcons {
		return ""
	}
	style := devicons.IconForInfo(iconFileInfo{name: name, isDir: isDir})
	if style.Icon == "" {
		return ""
	}
	return style.Icon + " "
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Foreground(m.thm.AccentFg).Background(m.thm.Accent).Padding(0, 1)
	headerStyle := lipgloss.NewStyle().Foreground(m.thm.Cyan).Bold(true)
	fileStyle := lipgloss.NewStyle().Foreground(m.thm.TextFg)
	kindStyle := lipgloss.NewStyle().Foreground(m.thm.Yellow)
	selectedStyle := lipgloss.NewStyle().Background(m.thm.AccentDim)
	mutedStyle := lipgloss.NewStyle().Foreground(m.thm.MutedFg)

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("lazycommit: %d commit units planned", len(m.units))))
	b.WriteString("\n\n")

	switch m.phase {
	case phaseRunning:
		b.WriteString(m.spin.View())
		b.WriteString(" Committing...\n")
		return b.String()
	case phaseDone:
		b.WriteString(m.renderSummary())
		b.WriteString(mutedStyle.Render("\nPress any key to exit.\n"))
		return b.String()
	}

	maxWidth := uint(max(20, m.width-4))
	for i, r := range m.rows {
		var line string
		if r.file == "" {
			unit := m.units[r.unitIndex]
			switch unit.Kind {
			case models.UnitDirectory:
				line = headerStyle.Render(fmt.Sprintf("%s%s  [%s, %d files]",
					m.icon(unit.Path, true), unit.Path, unit.Change, unit.FileCount()))
			case models.UnitIndividual:
				line = headerStyle.Render(fmt.Sprintf("individual commits  [%d files]", unit.FileCount()))
			}
		} else {
			line = fmt.Sprintf("  %s%s %s",
				m.icon(r.file, strings.HasSuffix(r.file, "/")),
				kindStyle.Render(fmt.Sprintf("%-6s", r.kind)),
				fileStyle.Render(r.file))
		}
		line = truncate.StringWithTail(line, maxWidth, "…")
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.showingFilter {
		b.WriteString(m.filterInput.View())
	} else {
		help := "enter commit · / filter · j/k move · q abort"
		if m.opts.DryRun {
			help = "DRY RUN · " + help
		}
		b.WriteString(mutedStyle.Render(help))
	}
	b.WriteString("\n")

	return b.String()
}

func (m *Model) renderSummary() string {
	okStyle := lipgloss.NewStyle().Foreground(m.thm.SuccessFg)
	errStyle := lipgloss.NewStyle().Foreground(m.thm.ErrorFg)
	warnStyle := lipgloss.NewStyle().Foreground(m.thm.WarnFg)

	var b strings.Builder
	b.WriteString(okStyle.Render(fmt.Sprintf("Committed %d", m.report.Committed)))
	if m.report.Failed > 0 {
		b.WriteString("  ")
		b.WriteString(errStyle.Render(fmt.Sprintf("Failed %d", m.report.Failed)))
	}
	if m.report.Pushed {
		b.WriteString("  ")
		b.WriteString(okStyle.Render("Pushed"))
	}
	if m.report.PushErr != nil {
		b.WriteString("\n")
		b.WriteString(warnStyle.Render(fmt.Sprintf("Push failed: %v", m.report.PushErr)))
	}
	b.WriteString("\n")
	return b.String()
}

// iconFileInfo adapts a bare name to fs.FileInfo for devicon lookup.
type iconFileInfo struct {
	name  string
	isDir bool
}

func (i iconFileInfo) Name() string { return i.name }

func (i iconFileInfo) Size() int64 { return 0 }

func (i iconFileInfo) Mode() os.FileMode {
	if i.isDir {
		return os.ModeDir | 0o755
	}
	return 0
}

func (i iconFileInfo) ModTime() time.Time { return time.Time{} }

func (i iconFileInfo) IsDir() bool { return i.isDir }

func (i iconFileInfo) Sys() any { return nil }
