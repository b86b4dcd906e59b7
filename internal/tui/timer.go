package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"focustrack/internal/session"
)

func (m Model) renderTimer() string {
	var sb strings.Builder

	help := "s:Start p:Pause r:Reset +/-:Length Tab:Reports q:Quit"
	sb.WriteString(m.renderHeader(" [Timer]", help))
	sb.WriteByte('\n')
	sb.WriteByte('\n')

	face := timerFaceStyle.Render(session.Clock(m.machine.Remaining()))
	sb.WriteString(centered(m.width, face))
	sb.WriteByte('\n')

	sb.WriteString(centered(m.width, m.renderPhaseLine()))
	sb.WriteByte('\n')
	sb.WriteString(centered(m.width, dimStyle.Render(
		fmt.Sprintf("session length %s   distractions %d",
			session.Clock(m.machine.Configured()), m.machine.Distractions()))))
	sb.WriteByte('\n')
	sb.WriteByte('\n')

	sb.WriteString(centered(m.width, dimStyle.Render("category")))
	sb.WriteByte('\n')
	sb.WriteString(m.renderCategories())
	sb.WriteByte('\n')

	if m.notice != "" {
		style := noticeStyle
		if m.noticeIsError {
			style = errorStyle
		}
		sb.WriteString(centered(m.width, style.Render(m.notice)))
		sb.WriteByte('\n')
	}

	layout := sb.String()
	if m.resetConfirm {
		layout = m.overlayResetDialog(layout)
	}
	return layout
}

func (m Model) renderPhaseLine() string {
	switch m.machine.Phase() {
	case session.Running:
		return runningStyle.Render("● running")
	case session.Paused:
		return pausedStyle.Render("‖ paused")
	default:
		return idleStyle.Render("○ idle")
	}
}

func (m Model) renderCategories() string {
	var sb strings.Builder
	for i, cat := range m.cfg.Timer.Categories {
		cursor := "  "
		if i == m.categoryCursor {
			cursor = "> "
		}
		mark := "  "
		if cat == m.machine.Category() {
			mark = " ●"
		}
		line := cursor + cat + mark
		if cat == m.machine.Category() {
			line = selectedStyle.Render(line)
		}
		sb.WriteString(centered(m.width, line))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (m Model) overlayResetDialog(base string) string {
	spent := m.pendingReset.Spent()
	body := fmt.Sprintf("Reset with %s of progress?\n\n[Y] Save partial  [n] Discard  [Esc] Keep going",
		session.Clock(spent))
	if spent <= session.MinSaveSeconds {
		body = fmt.Sprintf("Reset with only %s of progress?\n(too short to save)\n\n[Y/n] Reset  [Esc] Keep going",
			session.Clock(spent))
	}
	dialog := dialogStyle.Render(body)

	return lipgloss.Place(
		lipgloss.Width(base),
		lipgloss.Height(base),
		lipgloss.Center,
		lipgloss.Center,
		dialog,
		lipgloss.WithWhitespaceChars(" "),
	)
}

func centered(width int, s string) string {
	if width <= 0 {
		return s
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}
