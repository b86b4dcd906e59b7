package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"focustrack/internal/config"
	"focustrack/internal/session"
	"focustrack/internal/store"
)

func testConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.Timer.DefaultMinutes = 25
	return cfg
}

func newTestModel(t *testing.T, opts ...ModelOption) (Model, *store.MemoryStore) {
	t.Helper()
	recs := store.NewMemoryStore()
	machine := session.NewMachine(recs, 25*60)
	base := []ModelOption{
		WithMachine(machine),
		WithStore(recs),
		WithPersistenceFlag(true),
		WithNow(func() time.Time {
			return time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC)
		}),
	}
	m := NewModel(testConfig(), append(base, opts...)...)
	return m, recs
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return model, cmd
}

func TestStartWithoutCategoryShowsNotice(t *testing.T) {
	m, _ := newTestModel(t)

	m, cmd := update(t, m, keyPress('s'))

	if cmd != nil {
		t.Error("start without a category should not schedule a tick")
	}
	if m.notice == "" || !m.noticeIsError {
		t.Errorf("expected an error notice, got %q (isError=%v)", m.notice, m.noticeIsError)
	}
	if m.machine.Running() {
		t.Error("machine started without a category")
	}
}

func TestStartArmsTicker(t *testing.T) {
	m, _ := newTestModel(t)
	if err := m.machine.SelectCategory("Coding"); err != nil {
		t.Fatal(err)
	}

	m, cmd := update(t, m, keyPress('s'))

	if cmd == nil {
		t.Fatal("start did not schedule a tick")
	}
	if !m.machine.Running() {
		t.Fatal("machine not running after start")
	}
	if !m.guard.Valid(1) {
		t.Error("guard not armed with the first generation")
	}
}

func TestTickDecrementsAndReschedules(t *testing.T) {
	m, _ := newTestModel(t)
	if err := m.machine.SelectCategory("Coding"); err != nil {
		t.Fatal(err)
	}
	m, _ = update(t, m, keyPress('s'))

	before := m.machine.Remaining()
	m, cmd := update(t, m, tickMsg{gen: 1})

	if got := m.machine.Remaining(); got != before-1 {
		t.Errorf("remaining = %d, want %d", got, before-1)
	}
	if cmd == nil {
		t.Error("tick on a running timer did not reschedule")
	}
}

func TestStaleTickIsDropped(t *testing.T) {
	m, _ := newTestModel(t)
	if err := m.machine.SelectCategory("Coding"); err != nil {
		t.Fatal(err)
	}
	m, _ = update(t, m, keyPress('s'))
	m, _ = update(t, m, keyPress('p'))

	before := m.machine.Remaining()
	m, cmd := update(t, m, tickMsg{gen: 1})

	if got := m.machine.Remaining(); got != before {
		t.Errorf("stale tick decremented the timer: %d -> %d", before, got)
	}
	if cmd != nil {
		t.Error("stale tick rescheduled itself")
	}
}

func TestBlurWhileRunningRecordsDistraction(t *testing.T) {
	m, _ := newTestModel(t)
	if err := m.machine.SelectCategory("Coding"); err != nil {
		t.Fatal(err)
	}
	m, _ = update(t, m, keyPress('s'))
	m, _ = update(t, m, tea.FocusMsg{})

	m, _ = update(t, m, tea.BlurMsg{})

	if m.machine.Running() {
		t.Error("timer kept running after focus loss")
	}
	if got := m.machine.Distractions(); got != 1 {
		t.Errorf("distractions = %d, want 1", got)
	}
	// The in-flight tick must now be dead.
	if m.guard.Valid(1) {
		t.Error("guard still valid after distraction stop")
	}
}

func TestBlurWhilePausedIsNotADistraction(t *testing.T) {
	m, _ := newTestModel(t)
	if err := m.machine.SelectCategory("Coding"); err != nil {
		t.Fatal(err)
	}
	m, _ = update(t, m, keyPress('s'))
	m, _ = update(t, m, tea.FocusMsg{})
	m, _ = update(t, m, keyPress('p'))

	m, _ = update(t, m, tea.BlurMsg{})

	if got := m.machine.Distractions(); got != 0 {
		t.Errorf("distractions = %d, want 0 for a paused timer", got)
	}
}

func TestCompletionTickSavesAndNotifies(t *testing.T) {
	m, recs := newTestModel(t)
	machine := session.NewMachine(recs, 60)
	m.machine = machine
	if err := machine.SelectCategory("Coding"); err != nil {
		t.Fatal(err)
	}
	m, _ = update(t, m, keyPress('s'))

	var cmd tea.Cmd
	for i := 0; i < 60; i++ {
		m, cmd = update(t, m, tickMsg{gen: 1})
	}

	if cmd != nil {
		t.Error("completion tick rescheduled itself")
	}
	if !strings.Contains(m.notice, "session complete") {
		t.Errorf("notice = %q, want completion message", m.notice)
	}
	saved, err := recs.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(saved) != 1 {
		t.Fatalf("saved records = %d, want 1", len(saved))
	}
	if saved[0].DurationSeconds != 60 {
		t.Errorf("saved duration = %d, want 60", saved[0].DurationSeconds)
	}
}

func TestResetConfirmSavesPartialSession(t *testing.T) {
	m, recs := newTestModel(t)
	if err := m.machine.SelectCategory("Study"); err != nil {
		t.Fatal(err)
	}
	m, _ = update(t, m, keyPress('s'))
	for i := 0; i < 90; i++ {
		m, _ = update(t, m, tickMsg{gen: 1})
	}

	m, _ = update(t, m, keyPress('r'))
	if !m.resetConfirm {
		t.Fatal("reset with progress did not open the confirm dialog")
	}
	if m.machine.Running() {
		t.Error("timer kept running under the reset dialog")
	}

	m, _ = update(t, m, keyPress('y'))

	if m.resetConfirm {
		t.Error("dialog still open after confirming")
	}
	saved, _ := recs.ReadAll()
	if len(saved) != 1 {
		t.Fatalf("saved records = %d, want 1", len(saved))
	}
	if saved[0].DurationSeconds != 90 {
		t.Errorf("saved duration = %d, want the 90s actually spent", saved[0].DurationSeconds)
	}
	if m.machine.Remaining() != m.machine.Configured() {
		t.Error("machine not back at baseline after reset")
	}
}

func TestResetDenyDiscards(t *testing.T) {
	m, recs := newTestModel(t)
	if err := m.machine.SelectCategory("Study"); err != nil {
		t.Fatal(err)
	}
	m, _ = update(t, m, keyPress('s'))
	for i := 0; i < 90; i++ {
		m, _ = update(t, m, tickMsg{gen: 1})
	}

	m, _ = update(t, m, keyPress('r'))
	m, _ = update(t, m, keyPress('n'))

	saved, _ := recs.ReadAll()
	if len(saved) != 0 {
		t.Errorf("discarded session was saved: %d records", len(saved))
	}
	if m.machine.Remaining() != m.machine.Configured() {
		t.Error("machine not back at baseline after discard")
	}
}

func TestResetEscapeKeepsAttempt(t *testing.T) {
	m, _ := newTestModel(t)
	if err := m.machine.SelectCategory("Study"); err != nil {
		t.Fatal(err)
	}
	m, _ = update(t, m, keyPress('s'))
	for i := 0; i < 90; i++ {
		m, _ = update(t, m, tickMsg{gen: 1})
	}

	m, _ = update(t, m, keyPress('r'))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEscape})

	if m.resetConfirm {
		t.Error("dialog still open after escape")
	}
	if got := m.machine.Spent(); got != 90 {
		t.Errorf("spent = %d, want the attempt kept at 90", got)
	}
	if m.machine.Running() {
		t.Error("timer should stay paused after a cancelled reset")
	}
}

func TestResetAtBaselineIsSilent(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = update(t, m, keyPress('r'))

	if m.resetConfirm {
		t.Error("baseline reset opened a confirm dialog")
	}
}

func TestTabLoadsReports(t *testing.T) {
	m, recs := newTestModel(t)
	rec := session.NewRecord(time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC), 600, "Coding", 1)
	if err := recs.Append(rec); err != nil {
		t.Fatal(err)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})

	if m.view != ViewReports {
		t.Fatalf("view = %v, want ViewReports", m.view)
	}
	if m.summary.TodayFocusMinutes != 10 {
		t.Errorf("today minutes = %d, want 10", m.summary.TodayFocusMinutes)
	}
	if len(m.series) != testConfig().Display.SeriesDays {
		t.Errorf("series length = %d, want %d", len(m.series), testConfig().Display.SeriesDays)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.view != ViewTimer {
		t.Errorf("view = %v, want ViewTimer after second tab", m.view)
	}
}

func TestClearConfirmFlow(t *testing.T) {
	m, recs := newTestModel(t)
	rec := session.NewRecord(time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC), 600, "Coding", 0)
	if err := recs.Append(rec); err != nil {
		t.Fatal(err)
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})

	m, _ = update(t, m, keyPress('C'))
	if !m.clearConfirm {
		t.Fatal("clear key did not open the confirm dialog")
	}

	m, _ = update(t, m, keyPress('y'))
	if m.clearConfirm {
		t.Error("dialog still open after confirming")
	}
	saved, _ := recs.ReadAll()
	if len(saved) != 0 {
		t.Errorf("history not cleared: %d records", len(saved))
	}
	if m.summary.TotalFocusMinutes != 0 {
		t.Errorf("summary not refreshed after clear: %+v", m.summary)
	}
}

func TestCategoryAndDurationLockedWhileRunning(t *testing.T) {
	m, _ := newTestModel(t)
	if err := m.machine.SelectCategory("Study"); err != nil {
		t.Fatal(err)
	}
	m, _ = update(t, m, keyPress('s'))

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.machine.Category() != "Study" {
		t.Errorf("category changed while running: %q", m.machine.Category())
	}

	before := m.machine.Configured()
	m, _ = update(t, m, keyPress('+'))
	if m.machine.Configured() != before {
		t.Error("duration changed while running")
	}
}

func TestDurationAdjustClampsAtMinimum(t *testing.T) {
	m, _ := newTestModel(t)

	// 25 min in 5 min steps: five decrements reach the 1 min floor.
	for i := 0; i < 8; i++ {
		m, _ = update(t, m, keyPress('-'))
	}

	if got := m.machine.Configured(); got != testConfig().Timer.MinMinutes*60 {
		t.Errorf("configured = %ds, want clamped to %ds", got, testConfig().Timer.MinMinutes*60)
	}
}

func TestViewRendersWithoutPanic(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	if out := m.View(); out == "" {
		t.Error("timer view rendered empty")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if out := m.View(); out == "" {
		t.Error("reports view rendered empty")
	}
}
