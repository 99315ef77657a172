package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chmouel/lazycommit/internal/commit"
	"github.com/chmouel/lazycommit/internal/models"
)

// fakeCommitter records whether Commit ran and returns a canned report.
type fakeCommitter struct {
	called bool
	units  []models.CommitUnit
	report commit.Report
}

func (f *fakeCommitter) Commit(_ context.Context, units []models.CommitUnit, _ commit.Options) commit.Report {
	f.called = true
	f.units = units
	return f.report
}

func testUnits() []models.CommitUnit {
	return []models.CommitUnit{
		models.NewDirectoryUnit("src", models.ChangeModify, []string{"src/a.go", "src/b.go"}),
		models.NewIndividualUnit(
			[]string{"README.md", "docs/notes.md"},
			[]models.ChangeKind{models.ChangeModify, models.ChangeAdd},
		),
	}
}

func TestModelInitialization(t *testing.T) {
	m := NewModel(testUnits(), &fakeCommitter{}, commit.Options{}, nil, false)

	require.NotNil(t, m)
	assert.False(t, m.Accepted())
	assert.Equal(t, phaseReview, m.phase)
	// One header row per unit plus one row per file.
	assert.Len(t, m.rows, 6)
	assert.Zero(t, m.cursor)
}

func TestRebuildRowsFilter(t *testing.T) {
	m := NewModel(testUnits(), &fakeCommitter{}, commit.Options{}, nil, false)

	m.filterQuery = "readme"
	m.rebuildRows()

	// Only the individual unit matches: its header plus the README row.
	require.Len(t, m.rows, 2)
	assert.Empty(t, m.rows[0].file)
	assert.Equal(t, "README.md", m.rows[1].file)
	assert.Equal(t, "mod", m.rows[1].kind)

	m.filterQuery = ""
	m.rebuildRows()
	assert.Len(t, m.rows, 6)
}

func TestRebuildRowsClampsCursor(t *testing.T) {
	m := NewModel(testUnits(), &fakeCommitter{}, commit.Options{}, nil, false)
	m.cursor = 5

	m.filterQuery = "readme"
	m.rebuildRows()

	assert.Equal(t, 1, m.cursor)
}

func TestRowKindsPerFile(t *testing.T) {
	m := NewModel(testUnits(), &fakeCommitter{}, commit.Options{}, nil, false)

	// Directory unit files carry the uniform kind.
	assert.Equal(t, "mod", m.rows[1].kind)
	assert.Equal(t, "mod", m.rows[2].kind)
	// Individual unit files carry their own kinds.
	assert.Equal(t, "mod", m.rows[4].kind)
	assert.Equal(t, "add", m.rows[5].kind)
}

func TestNavigationAndQuit(t *testing.T) {
	tm := teatest.NewTestModel(
		t,
		NewModel(testUnits(), &fakeCommitter{}, commit.Options{}, nil, false),
		teatest.WithInitialTermSize(120, 40),
	)

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
	time.Sleep(50 * time.Millisecond)

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	fm := tm.FinalModel(t)
	m, ok := fm.(*Model)
	require.True(t, ok)

	assert.Equal(t, 1, m.cursor)
	assert.False(t, m.Accepted(), "quitting must not accept the plan")
}

func TestFilterTyping(t *testing.T) {
	tm := teatest.NewTestModel(
		t,
		NewModel(testUnits(), &fakeCommitter{}, commit.Options{}, nil, false),
		teatest.WithInitialTermSize(120, 40),
	)

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	time.Sleep(50 * time.Millisecond)
	for _, r := range "docs" {
		tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	time.Sleep(50 * time.Millisecond)
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	time.Sleep(50 * time.Millisecond)

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	fm := tm.FinalModel(t)
	m, ok := fm.(*Model)
	require.True(t, ok)

	assert.Equal(t, "docs", m.filterQuery)
	require.Len(t, m.rows, 2)
	assert.Equal(t, "docs/notes.md", m.rows[1].file)
}

func TestFilterEscapeClears(t *testing.T) {
	tm := teatest.NewTestModel(
		t,
		NewModel(testUnits(), &fakeCommitter{}, commit.Options{}, nil, false),
		teatest.WithInitialTermSize(120, 40),
	)

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("z")})
	time.Sleep(50 * time.Millisecond)
	tm.Send(tea.KeyMsg{Type: tea.KeyEsc})
	time.Sleep(50 * time.Millisecond)

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	fm := tm.FinalModel(t)
	m, ok := fm.(*Model)
	require.True(t, ok)

	assert.Empty(t, m.filterQuery)
	assert.Len(t, m.rows, 6)
}

func TestEnterRunsCommit(t *testing.T) {
	committer := &fakeCommitter{report: commit.Report{Units: 2, Committed: 2}}
	tm := teatest.NewTestModel(
		t,
		NewModel(testUnits(), committer, commit.Options{}, nil, false),
		teatest.WithInitialTermSize(120, 40),
	)

	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

	teatest.WaitFor(
		t, tm.Output(),
		func(bts []byte) bool {
			return len(bts) > 0
		},
		teatest.WithCheckInterval(100*time.Millisecond),
		teatest.WithDuration(2*time.Second),
	)

	// Any key exits once the run finished.
	time.Sleep(200 * time.Millisecond)
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(" ")})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	fm := tm.FinalModel(t)
	m, ok := fm.(*Model)
	require.True(t, ok)

	assert.True(t, m.Accepted())
	assert.True(t, committer.called)
	assert.Len(t, committer.units, 2)
	assert.Equal(t, 2, m.Report().Committed)
}

func TestViewShowsPlan(t *testing.T) {
	m := NewModel(testUnits(), &fakeCommitter{}, commit.Options{DryRun: true}, nil, false)

	view := m.View()
	assert.Contains(t, view, "2 commit units planned")
	assert.Contains(t, view, "src")
	assert.Contains(t, view, "README.md")
	assert.Contains(t, view, "DRY RUN")
}

func TestViewAfterDone(t *testing.T) {
	m := NewModel(testUnits(), &fakeCommitter{}, commit.Options{}, nil, false)
	m.phase = phaseDone
	m.report = commit.Report{Committed: 3, Failed: 1}

	view := m.View()
	assert.Contains(t, view, "Committed 3")
	assert.Contains(t, view, "Failed 1")
	assert.Contains(t, view, "Press any key to exit")
}
