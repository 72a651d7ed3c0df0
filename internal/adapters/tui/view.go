package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/charmbracelet/lipgloss"

	"github.com/PabloGalante/mindecho/internal/app/journal"
	"github.com/PabloGalante/mindecho/internal/domain"
)

const (
	sparklineHeight = 4
	patternLabelLen = 20
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Background(lipgloss.Color("99")).
			Bold(true).
			Padding(0, 1)

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("141"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("111"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")).
			Bold(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("99")).
			Padding(0, 1)

	errorCardStyle = cardStyle.
			BorderForeground(lipgloss.Color("203"))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			MarginTop(1)
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("MindEcho"))
	if m.session != nil {
		b.WriteString(" " + dimStyle.Render(m.session.User.Username))
	}
	b.WriteString("\n\n")

	switch m.screen {
	case screenLogin:
		b.WriteString(m.viewLogin())
	case screenOnboarding:
		b.WriteString(m.viewOnboarding())
	case screenJournal:
		b.WriteString(m.viewJournal())
	}
	return b.String()
}

func (m Model) viewLogin() string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Email") + "\n")
	b.WriteString(m.email.View() + "\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()) + "\n")
	}
	b.WriteString(footer("enter", "continue", "esc", "quit"))
	return b.String()
}

func (m Model) viewOnboarding() string {
	var b strings.Builder
	b.WriteString(labelStyle.Render(fmt.Sprintf(
		"Pick %d to %d interests (%d selected)", domain.MinInterests, domain.MaxInterests, m.picker.Count(),
	)) + "\n\n")

	for i, interest := range domain.Interests {
		cursor := "  "
		if i == m.cursor {
			cursor = accentStyle.Render("> ")
		}
		check := "[ ]"
		if m.picker.Selected(interest) {
			check = accentStyle.Render("[x]")
		}
		b.WriteString(fmt.Sprintf("%s%s %s\n", cursor, check, interest))
	}

	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render(m.err.Error()) + "\n")
	}
	b.WriteString(footer("space", "toggle", "enter", "continue", "ctrl+r", "logout"))
	return b.String()
}

func (m Model) viewJournal() string {
	var b strings.Builder

	phase := "not tracking"
	if p := m.cyclePhase(); p != domain.CyclePhaseNone {
		phase = string(p)
	}
	b.WriteString(labelStyle.Render("Cycle phase: ") + valueStyle.Render(phase) + "\n")
	b.WriteString(m.entry.View() + "\n")

	switch {
	case m.analyzing:
		b.WriteString(m.spinner.View() + " " + dimStyle.Render("Listening for echoes...") + "\n")
	case m.notice != "":
		b.WriteString(dimStyle.Render(m.notice) + "\n")
	}

	if m.err != nil {
		b.WriteString(errorCardStyle.Width(m.width - 2).Render(errorStyle.Render(m.err.Error())) + "\n")
	} else if m.insight != nil {
		b.WriteString(m.viewInsight(*m.insight) + "\n")
	}

	b.WriteString(m.viewDashboard(journal.BuildDashboard(m.session)))
	b.WriteString(footer("ctrl+s", "reflect", "tab", "cycle phase", "ctrl+r", "clear session", "ctrl+c", "quit"))
	return b.String()
}

func (m Model) viewInsight(in domain.InsightResult) string {
	lines := []string{
		accentStyle.Render(in.Pattern) + "  " + dimStyle.Render(in.MoodIndicator),
		"",
		in.ReflectionInsight,
		"",
		labelStyle.Render("Try: ") + in.Suggestion,
		labelStyle.Render("Activity: ") + in.ActivitySuggestion,
		labelStyle.Render("Echo score: ") + valueStyle.Render(fmt.Sprintf("%.0f", in.EchoScore)),
	}
	return cardStyle.Width(m.width - 2).Render(strings.Join(lines, "\n"))
}

func (m Model) viewDashboard(d journal.Dashboard) string {
	var b strings.Builder

	b.WriteString("\n" + labelStyle.Render("Consistency ") + valueStyle.Render(fmt.Sprintf("%d", d.ConsistencyScore)) + " ")
	b.WriteString(accentStyle.Render(strings.Repeat("●", d.ConsistencyDots)))
	b.WriteString(dimStyle.Render(strings.Repeat("○", journal.MaxConsistencyDots-d.ConsistencyDots)) + "\n")

	b.WriteString("\n" + labelStyle.Render("Echo trend") + "\n")
	if d.Trend == nil {
		b.WriteString(dimStyle.Render(d.TrendMessage) + "\n")
	} else {
		b.WriteString(renderTrend(d.Trend.Scores, m.width-4) + "\n")
	}

	if len(d.Frequency.Bars) > 0 {
		b.WriteString("\n" + labelStyle.Render("Patterns") + "\n")
		for _, bar := range d.Frequency.Bars {
			b.WriteString(fmt.Sprintf("%-*s %s %s\n",
				patternLabelLen, truncate(bar.Pattern, patternLabelLen),
				m.bar.ViewAs(bar.Percent/100),
				dimStyle.Render(fmt.Sprintf("%d", bar.Count)),
			))
		}
	}
	return b.String()
}

// renderTrend draws the score history as a sparkline.
func renderTrend(scores []float64, width int) string {
	width = max(width, len(scores))
	spark := sparkline.New(width, sparklineHeight)
	for _, s := range scores {
		spark.Push(s)
	}
	spark.Draw()
	return accentStyle.Render(spark.View())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// footer renders "key action" pairs.
func footer(pairs ...string) string {
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, accentStyle.Render(pairs[i])+" "+pairs[i+1])
	}
	return footerStyle.Render(strings.Join(parts, "  •  "))
}
