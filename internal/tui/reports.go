package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const barWidth = 30

func (m Model) renderReports() string {
	var sb strings.Builder

	help := "R:Refresh C:Clear Tab:Timer q:Quit"
	sb.WriteString(m.renderHeader(" [Reports]", help))
	sb.WriteByte('\n')
	sb.WriteByte('\n')

	if m.reportErr != "" {
		sb.WriteString("  " + errorStyle.Render("could not read session history: "+m.reportErr))
		sb.WriteByte('\n')
		sb.WriteString("  " + dimStyle.Render("the log was left untouched; fix or clear it to continue"))
		sb.WriteByte('\n')
		return sb.String()
	}

	sb.WriteString(m.renderSummaryCards())
	sb.WriteByte('\n')

	sb.WriteString("  " + sectionTitleStyle.Render(fmt.Sprintf("Last %d days (minutes)", len(m.series))))
	sb.WriteByte('\n')
	sb.WriteString(m.renderSeries())
	sb.WriteByte('\n')

	sb.WriteString("  " + sectionTitleStyle.Render("By category"))
	sb.WriteByte('\n')
	sb.WriteString(m.renderDistribution())

	if m.notice != "" {
		style := noticeStyle
		if m.noticeIsError {
			style = errorStyle
		}
		sb.WriteByte('\n')
		sb.WriteString("  " + style.Render(m.notice))
		sb.WriteByte('\n')
	}

	layout := sb.String()
	if m.clearConfirm {
		layout = m.overlayClearDialog(layout)
	}
	return layout
}

func (m Model) renderSummaryCards() string {
	card := func(title string, value string) string {
		return cardStyle.Render(
			cardTitleStyle.Render(title) + "\n" + cardValueStyle.Render(value))
	}

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Today", fmt.Sprintf("%d min", m.summary.TodayFocusMinutes)),
		card("Total", fmt.Sprintf("%d min", m.summary.TotalFocusMinutes)),
		card("Distractions", fmt.Sprintf("%d", m.summary.TotalDistractions)),
	)

	var sb strings.Builder
	for _, line := range strings.Split(cards, "\n") {
		sb.WriteString("  " + line + "\n")
	}
	return sb.String()
}

func (m Model) renderSeries() string {
	maxMinutes := 0
	for _, day := range m.series {
		if day.Minutes > maxMinutes {
			maxMinutes = day.Minutes
		}
	}

	var sb strings.Builder
	for _, day := range m.series {
		bar := ""
		if maxMinutes > 0 {
			n := day.Minutes * barWidth / maxMinutes
			if n == 0 && day.Minutes > 0 {
				n = 1
			}
			bar = strings.Repeat("█", n)
		}
		sb.WriteString(fmt.Sprintf("  %s %s %s %d\n",
			day.Label, dimStyle.Render(day.Date), barStyle.Render(bar), day.Minutes))
	}
	return sb.String()
}

func (m Model) renderDistribution() string {
	var sb strings.Builder
	for _, cat := range m.distribution {
		sb.WriteString(fmt.Sprintf("  %-20s %5d min\n", cat.Category, cat.Minutes))
	}
	return sb.String()
}

func (m Model) overlayClearDialog(base string) string {
	dialog := dialogStyle.Render(
		"Delete all session history?\n\nThis cannot be undone.\n\n[Y] Delete  [n/Esc] Cancel")

	return lipgloss.Place(
		lipgloss.Width(base),
		lipgloss.Height(base),
		lipgloss.Center,
		lipgloss.Center,
		dialog,
		lipgloss.WithWhitespaceChars(" "),
	)
}
