package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"debatehub/internal/session"
)

var (
	viewChromeStyle     = lipgloss.NewStyle().Padding(0, 1)
	viewHeroStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("74")).Background(lipgloss.Color("236")).Padding(0, 1)
	viewTitleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("30")).Padding(0, 1)
	viewSubtitleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("151")).Italic(true)
	viewChipStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("254")).Background(lipgloss.Color("238")).Padding(0, 1)
	viewChipHotStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("31")).Padding(0, 1).Bold(true)
	viewBusyBadge       = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("166")).Bold(true).Padding(0, 1)
	viewIdleBadge       = lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("60")).Bold(true).Padding(0, 1)
	viewPanelStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("67")).Background(lipgloss.Color("235")).Padding(0, 1)
	viewPanelTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("222"))
	viewPanelMetaStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("151"))
	viewHintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("151"))
	viewInputLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("31")).Bold(true).Padding(0, 1)
	viewInputBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("74")).Background(lipgloss.Color("236")).Padding(0, 1)
)

func (m model) View() string {
	l := m.layout()
	if l.compact {
		return m.renderCompactView()
	}

	title, body := m.sidePanel(maxInt(20, l.side-4), maxInt(4, l.panelH-3))
	sidePanel := viewPanelStyle.
		Width(l.side).
		Height(l.panelH).
		Render(lipgloss.JoinVertical(lipgloss.Left, viewPanelTitleStyle.Render(title), body))

	logMeta := viewPanelMetaStyle.Render(fmt.Sprintf("lines=%d follow=%s", len(m.logs), onOff(m.autoFollow)))
	logPanel := viewPanelStyle.
		Width(l.log).
		Height(l.panelH).
		Render(lipgloss.JoinVertical(lipgloss.Left, viewPanelTitleStyle.Render(m.logTitle()), logMeta, m.logViewport.View()))

	return viewChromeStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHero(l.content),
		lipgloss.JoinHorizontal(lipgloss.Top, sidePanel, " ", logPanel),
		m.renderFooter(l.content),
	))
}

func (m model) renderCompactView() string {
	width := maxInt(20, m.width-4)
	title := lipgloss.JoinHorizontal(lipgloss.Left, viewTitleStyle.Render("Debate Hub"), " ", m.statusBadge())

	parts := []string{title}
	switch m.sess.View() {
	case session.ViewQuestionnaire:
		parts = append(parts, m.buildQuestionnairePanel(width, maxInt(4, m.height-6)))
	default:
		parts = append(parts, m.logViewport.View())
	}
	parts = append(parts,
		viewHintStyle.Render("hint: "+m.inputHint()),
		viewInputBoxStyle.Render(viewInputLabelStyle.Render("INPUT")+" "+m.input.View()),
	)
	return viewChromeStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m model) sidePanel(width int, maxLines int) (string, string) {
	switch m.sess.View() {
	case session.ViewQuestionnaire:
		return "QUESTIONNAIRE", m.buildQuestionnairePanel(width, maxLines)
	case session.ViewDebate:
		return "DEBATE ROOM", m.buildRoomPanel(width, maxLines)
	default:
		return "WAITING ROOM", m.buildProfilePanel(width, maxLines)
	}
}

func (m model) logTitle() string {
	if m.sess.View() == session.ViewDebate {
		return "DEBATE"
	}
	return "ACTIVITY"
}

func (m model) renderHero(width int) string {
	titleLine := lipgloss.JoinHorizontal(
		lipgloss.Left,
		viewTitleStyle.Render("Debate Hub"),
		" ",
		viewSubtitleStyle.Render(truncateText(m.sess.Topic(), maxInt(12, width-40))),
		"  ",
		m.statusBadge(),
	)

	chips := []string{m.renderChip("view "+string(m.sess.View()), true)}
	if room := m.sess.Room(); room != nil {
		chips = append(chips,
			m.renderChip(fmt.Sprintf("%d min", room.DurationMinutes), false),
			m.renderChip(fmt.Sprintf("messages %d", len(m.sess.Messages())), false),
		)
	}
	chips = append(chips, m.renderChip("follow "+onOff(m.autoFollow), m.autoFollow))

	return viewHeroStyle.Width(width).Render(lipgloss.JoinVertical(
		lipgloss.Left,
		titleLine,
		lipgloss.JoinHorizontal(lipgloss.Left, chips...),
	))
}

func (m model) renderFooter(width int) string {
	hint := viewHintStyle.Render("hint: " + m.inputHint())
	inputBox := viewInputBoxStyle.Width(width).Render(
		lipgloss.JoinHorizontal(lipgloss.Left, viewInputLabelStyle.Render("INPUT"), " ", m.input.View()),
	)
	return lipgloss.JoinVertical(lipgloss.Left, hint, inputBox)
}

func (m model) statusBadge() string {
	switch m.sess.View() {
	case session.ViewMatching:
		return viewBusyBadge.Render("MATCHING " + m.spin.View())
	case session.ViewDebate:
		return viewBusyBadge.Render("LIVE")
	case session.ViewQuestionnaire:
		return viewIdleBadge.Render("PREPARING")
	default:
		return viewIdleBadge.Render("IDLE")
	}
}

func (m model) renderChip(text string, hot bool) string {
	if hot {
		return viewChipHotStyle.Render(text + " ")
	}
	return viewChipStyle.Render(text + " ")
}

func (m model) inputHint() string {
	switch m.sess.View() {
	case session.ViewQuestionnaire:
		return "Up/Down field · Left/Right value · Enter next · Shift+Tab back · Esc cancel"
	case session.ViewMatching:
		return "Finding a debate partner..."
	case session.ViewDebate:
		line := strings.ToLower(strings.TrimSpace(m.input.Value()))
		if strings.HasPrefix(line, "/") {
			return "/leave exits the room · /help lists commands"
		}
		return "Enter sends · Esc leaves · PgUp/PgDn scroll"
	default:
		return "Enter on an empty line starts matching · /help · Ctrl+C quits"
	}
}
