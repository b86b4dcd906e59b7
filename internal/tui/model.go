// Package tui renders the timer and reports views and routes every
// terminal event (keys, ticks, focus changes) into the session
// machine. The machine is only ever touched from Update, which keeps
// its single-writer contract without locks.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"focustrack/internal/config"
	"focustrack/internal/report"
	"focustrack/internal/session"
	"focustrack/internal/store"
	"focustrack/internal/ticker"
)

type ViewState int

const (
	ViewTimer ViewState = iota
	ViewReports
)

type tickMsg struct {
	gen int
}

type Model struct {
	view     ViewState
	width    int
	height   int
	keys     KeyMap
	quitting bool

	cfg config.Config

	machine *session.Machine
	records store.Store
	calc    *report.Calculator
	guard   ticker.Guard
	now     func() time.Time

	categoryCursor int
	notice         string
	noticeIsError  bool

	resetConfirm bool
	pendingReset *session.ResetDecision
	clearConfirm bool

	summary      report.Summary
	series       []report.DayMinutes
	distribution []report.CategoryMinutes
	reportErr    string

	isPersistent bool
}

type ModelOption func(*Model)

func WithMachine(m *session.Machine) ModelOption {
	return func(mo *Model) { mo.machine = m }
}

func WithStore(s store.Store) ModelOption {
	return func(mo *Model) { mo.records = s }
}

func WithStartView(v ViewState) ModelOption {
	return func(mo *Model) { mo.view = v }
}

func WithPersistenceFlag(isPersistent bool) ModelOption {
	return func(mo *Model) { mo.isPersistent = isPersistent }
}

func WithNow(now func() time.Time) ModelOption {
	return func(mo *Model) { mo.now = now }
}

func NewModel(cfg config.Config, opts ...ModelOption) Model {
	m := Model{
		view: ViewTimer,
		keys: DefaultKeyMap(),
		cfg:  cfg,
		calc: report.NewCalculator(),
		now:  time.Now,
	}

	for _, opt := range opts {
		opt(&m)
	}

	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) tickCmd(gen int) tea.Cmd {
	return tea.Tick(ticker.Interval, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.FocusMsg:
		m.machine.ObserveVisibility(session.Foreground)
		return m, nil

	case tea.BlurMsg:
		// Visibility is applied before any tick still in flight; the
		// guard cancellation makes that tick stale, so a distraction
		// always wins over a same-moment completion.
		if m.machine.ObserveVisibility(session.Background) {
			m.guard.Cancel()
			m.setNotice("focus lost: timer paused, distraction recorded", true)
		}
		return m, nil

	case tickMsg:
		return m.handleTick(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleTick(msg tickMsg) (tea.Model, tea.Cmd) {
	if !m.guard.Valid(msg.gen) {
		return m, nil
	}

	comp := m.machine.Tick()
	if comp == nil {
		if !m.machine.Running() {
			m.guard.Cancel()
			return m, nil
		}
		return m, m.tickCmd(msg.gen)
	}

	m.guard.Cancel()
	if comp.SaveErr != nil {
		m.setNotice(fmt.Sprintf("session complete, but saving failed: %v", comp.SaveErr), true)
	} else {
		m.setNotice(fmt.Sprintf("session complete: %s saved (%s focused)",
			comp.Record.Category, session.Clock(comp.Record.DurationSeconds)), false)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.resetConfirm {
		return m.handleResetConfirmKey(msg)
	}
	if m.clearConfirm {
		return m.handleClearConfirmKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Tab):
		if m.view == ViewTimer {
			m.view = ViewReports
			m.loadReports()
		} else {
			m.view = ViewTimer
		}
		return m, nil
	}

	switch m.view {
	case ViewTimer:
		return m.handleTimerKey(msg)
	case ViewReports:
		return m.handleReportsKey(msg)
	}

	return m, nil
}

func (m Model) handleTimerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.StartResume):
		err := m.machine.Start()
		if errors.Is(err, session.ErrMissingCategory) {
			m.setNotice("select a category first", true)
			return m, nil
		}
		m.clearNotice()
		gen := m.guard.Arm()
		return m, m.tickCmd(gen)

	case key.Matches(msg, m.keys.Pause):
		if err := m.machine.Pause(); err == nil {
			m.guard.Cancel()
			m.setNotice("paused", false)
		}
		return m, nil

	case key.Matches(msg, m.keys.Reset):
		return m.initiateReset()

	case key.Matches(msg, m.keys.Up):
		m.moveCategory(m.categoryCursor - 1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.moveCategory(m.categoryCursor + 1)
		return m, nil

	case key.Matches(msg, m.keys.IncDuration):
		m.adjustDuration(m.cfg.Timer.AdjustStepMinutes * 60)
		return m, nil

	case key.Matches(msg, m.keys.DecDuration):
		m.adjustDuration(-m.cfg.Timer.AdjustStepMinutes * 60)
		return m, nil
	}

	return m, nil
}

func (m Model) handleReportsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Refresh):
		m.loadReports()
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		m.clearConfirm = true
		return m, nil
	}

	return m, nil
}

// initiateReset asks the machine to reset. With accumulated progress
// this yields a pending decision: the timer is paused while the dialog
// is up so the spent figure cannot drift under the user.
func (m Model) initiateReset() (tea.Model, tea.Cmd) {
	decision := m.machine.Reset()
	if decision == nil {
		m.guard.Cancel()
		m.setNotice("timer reset", false)
		return m, nil
	}

	if m.machine.Running() {
		_ = m.machine.Pause()
	}
	m.guard.Cancel()
	m.pendingReset = decision
	m.resetConfirm = true
	return m, nil
}

func (m Model) handleResetConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		spent := m.pendingReset.Spent()
		saved, err := m.pendingReset.SaveAndReset()
		switch {
		case err != nil:
			m.setNotice(fmt.Sprintf("timer reset, but saving failed: %v", err), true)
		case saved:
			m.setNotice(fmt.Sprintf("partial session saved (%s focused)", session.Clock(spent)), false)
		default:
			m.setNotice("too short to be worth saving, session discarded", false)
		}
		m.resetConfirm = false
		m.pendingReset = nil
		return m, nil

	case key.Matches(msg, m.keys.Deny):
		m.pendingReset.Discard()
		m.setNotice("session discarded", false)
		m.resetConfirm = false
		m.pendingReset = nil
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		// Keep the attempt; it stays paused until resumed.
		m.resetConfirm = false
		m.pendingReset = nil
		m.setNotice("reset cancelled, timer paused", false)
		return m, nil
	}

	return m, nil
}

func (m Model) handleClearConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		if err := m.records.ClearAll(); err != nil {
			m.setNotice(fmt.Sprintf("clearing history failed: %v", err), true)
		} else {
			m.setNotice("history cleared", false)
		}
		m.clearConfirm = false
		m.loadReports()
		return m, nil

	case key.Matches(msg, m.keys.Deny), key.Matches(msg, m.keys.Escape):
		m.clearConfirm = false
		return m, nil
	}

	return m, nil
}

func (m *Model) moveCategory(to int) {
	cats := m.cfg.Timer.Categories
	if to < 0 || to >= len(cats) {
		return
	}
	if err := m.machine.SelectCategory(cats[to]); err != nil {
		m.setNotice("category is locked while the timer is running", true)
		return
	}
	m.categoryCursor = to
	m.clearNotice()
}

func (m *Model) adjustDuration(delta int) {
	minSeconds := m.cfg.Timer.MinMinutes * 60
	if target := m.machine.Configured() + delta; target < minSeconds {
		delta = minSeconds - m.machine.Configured()
	}
	if delta == 0 {
		return
	}
	if !m.machine.AdjustDuration(delta) {
		m.setNotice("duration is locked while a session is in progress", true)
		return
	}
	m.clearNotice()
}

func (m *Model) loadReports() {
	recs, err := m.records.ReadAll()
	if err != nil {
		// Corrupt history is shown, not silently treated as empty.
		m.reportErr = err.Error()
		return
	}
	m.reportErr = ""
	now := m.now()
	m.summary = m.calc.Summary(recs, now)
	m.series = m.calc.DailySeries(recs, now, m.cfg.Display.SeriesDays)
	m.distribution = m.calc.CategoryDistribution(recs)
}

func (m *Model) setNotice(text string, isError bool) {
	m.notice = text
	m.noticeIsError = isError
}

func (m *Model) clearNotice() {
	m.notice = ""
	m.noticeIsError = false
}

func (m Model) headerIndicators() string {
	if m.isPersistent {
		return ""
	}
	return " " + dimStyle.Render("[No persistence]")
}

func (m Model) renderHeader(viewLabel, help string) string {
	title := " focustrack"
	indicators := m.headerIndicators()

	padding := m.width - lipgloss.Width(title+viewLabel) - lipgloss.Width(indicators) - lipgloss.Width(" "+help+" ")
	if padding < 0 {
		padding = 0
	}

	return headerStyle.Width(m.width).Render(
		title + viewLabel + indicators + strings.Repeat(" ", padding) + " " + help + " ")
}

func (m Model) View() string {
	if m.quitting {
		return "Bye.\n"
	}

	var output string
	switch m.view {
	case ViewTimer:
		output = m.renderTimer()
	case ViewReports:
		output = m.renderReports()
	}

	if m.height > 0 {
		lines := strings.Split(output, "\n")
		if len(lines) > m.height {
			lines = lines[:m.height]
			output = strings.Join(lines, "\n")
		}
	}

	return output
}
