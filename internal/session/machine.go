// Package session holds the focus session state machine and the record
// type it persists. The machine is single-threaded: it is mutated only
// in response to discrete events (ticks, user commands, visibility
// changes) delivered by one caller.
package session

import (
	"errors"
	"fmt"
	"time"
)

const (
	// MinDurationSeconds is the floor for a configured session length.
	MinDurationSeconds = 60

	// MinSaveSeconds is the least focused time worth recording. A
	// partial session at or below this is discarded even when the user
	// asked to save it.
	MinSaveSeconds = 10
)

var (
	// ErrMissingCategory is returned by Start when no category has
	// been selected.
	ErrMissingCategory = errors.New("no category selected")

	// ErrRunning is returned by SelectCategory while the clock is
	// counting down.
	ErrRunning = errors.New("session is running")

	// ErrNotRunning is returned by Pause when there is nothing to pause.
	ErrNotRunning = errors.New("session is not running")
)

// Visibility is the host process visibility as last reported by the
// terminal. Only foreground-to-not-foreground transitions matter to the
// machine; the rest is bookkeeping.
type Visibility int

const (
	Foreground Visibility = iota
	Background
	Inactive
)

func (v Visibility) String() string {
	switch v {
	case Foreground:
		return "foreground"
	case Background:
		return "background"
	case Inactive:
		return "inactive"
	}
	return "unknown"
}

// Phase is the observable state of the machine. Completion is transient:
// the tick that exhausts the countdown immediately re-arms to Idle.
type Phase int

const (
	Idle Phase = iota
	Running
	Paused
)

func (p Phase) String() string {
	switch p {
	case Running:
		return "running"
	case Paused:
		return "paused"
	}
	return "idle"
}

// Appender persists finished session records. Implemented by the stores
// in internal/store.
type Appender interface {
	Append(rec Record) error
}

// Completion reports a session that ran to zero. SaveErr is non-nil when
// the record could not be persisted; the machine re-arms either way, so
// the caller must surface the data loss rather than hide it.
type Completion struct {
	Record  Record
	SaveErr error
}

// Machine owns the countdown for exactly one focus session at a time.
type Machine struct {
	appender Appender
	now      func() time.Time

	configured   int // seconds
	remaining    int
	running      bool
	category     string
	distractions int
	lastVis      Visibility
}

// MachineOption configures a Machine at construction.
type MachineOption func(*Machine)

// WithClock substitutes the wall clock used to stamp records.
func WithClock(now func() time.Time) MachineOption {
	return func(m *Machine) { m.now = now }
}

// NewMachine returns an idle machine with the given configured session
// length. configuredSeconds is clamped to MinDurationSeconds.
func NewMachine(appender Appender, configuredSeconds int, opts ...MachineOption) *Machine {
	if configuredSeconds < MinDurationSeconds {
		configuredSeconds = MinDurationSeconds
	}
	m := &Machine{
		appender:   appender,
		now:        time.Now,
		configured: configuredSeconds,
		remaining:  configuredSeconds,
		lastVis:    Foreground,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Machine) Configured() int { return m.configured }

func (m *Machine) Remaining() int { return m.remaining }

func (m *Machine) Running() bool { return m.running }

func (m *Machine) Category() string { return m.category }

func (m *Machine) Distractions() int { return m.distractions }

func (m *Machine) LastVisibility() Visibility { return m.lastVis }

// Spent is the focused time accumulated by the current attempt.
func (m *Machine) Spent() int { return m.configured - m.remaining }

func (m *Machine) Phase() Phase {
	switch {
	case m.running:
		return Running
	case m.remaining < m.configured && m.remaining > 0:
		return Paused
	default:
		return Idle
	}
}

// AdjustDuration changes the configured session length by delta seconds.
// Allowed only at the Idle baseline; returns false without effect while
// a session is in progress so the spent calculation stays well-defined.
func (m *Machine) AdjustDuration(delta int) bool {
	if m.running || m.remaining != m.configured {
		return false
	}
	d := m.configured + delta
	if d < MinDurationSeconds {
		d = MinDurationSeconds
	}
	m.configured = d
	m.remaining = d
	return true
}

// SelectCategory sets the category for the next saved record. Rejected
// while the clock is counting down.
func (m *Machine) SelectCategory(name string) error {
	if m.running {
		return ErrRunning
	}
	m.category = name
	return nil
}

// Start begins counting, or resumes a paused attempt. Starting after a
// completed or exhausted attempt re-arms to a fresh one first.
func (m *Machine) Start() error {
	if m.running {
		return nil
	}
	if m.category == "" {
		return ErrMissingCategory
	}
	if m.remaining == 0 {
		m.remaining = m.configured
		m.distractions = 0
	}
	m.running = true
	return nil
}

// Pause stops counting without recording a distraction. This is the
// user-initiated variant; ObserveVisibility covers the involuntary one.
func (m *Machine) Pause() error {
	if !m.running {
		return ErrNotRunning
	}
	m.running = false
	return nil
}

// Tick consumes one elapsed second. It must only be delivered while the
// machine is running; stale ticks are ignored. When the countdown hits
// zero the session completes: the full configured length is persisted
// and the machine re-arms to Idle. The returned Completion is nil for
// ordinary ticks.
func (m *Machine) Tick() *Completion {
	if !m.running || m.remaining <= 0 {
		return nil
	}
	m.remaining--
	if m.remaining > 0 {
		return nil
	}
	return m.complete()
}

func (m *Machine) complete() *Completion {
	m.running = false
	rec := NewRecord(m.now(), m.configured, m.category, m.distractions)
	var saveErr error
	if m.appender != nil {
		saveErr = m.appender.Append(rec)
	}
	// Re-arm after the persistence attempt, whether or not it worked.
	m.remaining = m.configured
	m.distractions = 0
	return &Completion{Record: rec, SaveErr: saveErr}
}

// ObserveVisibility records the newly reported visibility and classifies
// the transition. Losing the foreground while running is a distraction:
// the clock stops and the distraction count goes up by one. The return
// value reports whether that happened.
func (m *Machine) ObserveVisibility(v Visibility) bool {
	prev := m.lastVis
	m.lastVis = v
	if prev != Foreground || v == Foreground || !m.running {
		return false
	}
	m.running = false
	m.distractions++
	return true
}

// Reset returns the machine to the Idle baseline. With no accumulated
// progress the reset happens immediately and nil is returned. Otherwise
// the caller gets a pending decision to resolve with Discard or
// SaveAndReset; the machine itself never blocks on user input.
func (m *Machine) Reset() *ResetDecision {
	spent := m.configured - m.remaining
	if spent == 0 {
		m.silentReset()
		return nil
	}
	return &ResetDecision{m: m, spent: spent}
}

func (m *Machine) silentReset() {
	m.running = false
	m.remaining = m.configured
	m.distractions = 0
}

// ResetDecision is an unresolved reset of a partially completed session.
// Exactly one of Discard or SaveAndReset should be called; further calls
// are no-ops.
type ResetDecision struct {
	m        *Machine
	spent    int
	resolved bool
}

// Spent is the focused seconds the pending reset would record.
func (d *ResetDecision) Spent() int { return d.spent }

// Discard resets without persisting anything.
func (d *ResetDecision) Discard() {
	if d.resolved {
		return
	}
	d.resolved = true
	d.m.silentReset()
}

// SaveAndReset persists the partial session, then resets. Sessions at or
// below MinSaveSeconds are never recorded, so saved is false for them.
// An append failure still resets the machine; the error is returned so
// the caller can report the lost record.
func (d *ResetDecision) SaveAndReset() (saved bool, err error) {
	if d.resolved {
		return false, nil
	}
	d.resolved = true
	m := d.m
	if d.spent <= MinSaveSeconds {
		m.silentReset()
		return false, nil
	}
	rec := NewRecord(m.now(), d.spent, m.category, m.distractions)
	if m.appender != nil {
		err = m.appender.Append(rec)
	}
	m.silentReset()
	if err != nil {
		return false, err
	}
	return true, nil
}

// Clock renders a second count as mm:ss.
func Clock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
