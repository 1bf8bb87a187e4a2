package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"debatehub/internal/commandutil"
	"debatehub/internal/msgfmt"
	"debatehub/internal/session"
)

var tuiCommandAliases = map[string]string{
	"/start":  "/start",
	"/match":  "/start",
	"/leave":  "/leave",
	"follow":  "/follow",
	"/follow": "/follow",
	"help":    "/help",
	"/help":   "/help",
	"exit":    "/exit",
	"/exit":   "/exit",
}

func parseCommand(line string) (command string, arg string) {
	return commandutil.Parse(line, tuiCommandAliases)
}

func onOff(v bool) string {
	if v {
		return "ON"
	}
	return "OFF"
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func wrapLogLines(lines []string, width int) []string {
	if len(lines) == 0 {
		return nil
	}
	if width <= 0 {
		return append([]string(nil), lines...)
	}

	wrapped := make([]string, 0, len(lines)*2)
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			wrapped = append(wrapped, "")
			continue
		}
		if strings.Contains(line, "\x1b[") {
			// Styled headers are kept intact.
			wrapped = append(wrapped, line)
			continue
		}
		if runewidth.StringWidth(line) <= width {
			wrapped = append(wrapped, line)
			continue
		}
		wrapped = append(wrapped, strings.Split(runewidth.Wrap(line, width), "\n")...)
	}
	return wrapped
}

func wrapLogLinesToWidth(lines []string, width int) string {
	return strings.Join(wrapLogLines(lines, width), "\n")
}

func truncateText(text string, width int) string {
	text = strings.TrimSpace(text)
	if width <= 0 || runewidth.StringWidth(text) <= width {
		return text
	}
	if width == 1 {
		return "…"
	}
	return runewidth.Truncate(text, width, "…")
}

func formatMessageLines(msg session.Message, userID string) []string {
	return msgfmt.FormatLines(msg, msgfmt.Options{
		UserID:         userID,
		Header:         func(m session.Message, label string) string { return renderMessageHeader(m, label, userID) },
		Separator:      renderMessageSeparator,
		ContentPrefix:  "  ",
		KeepBlankLines: true,
	})
}

func renderMessageSeparator(msg session.Message) string {
	if msg.SenderID == session.SenderSystem {
		return strings.Repeat("=", 58)
	}
	return strings.Repeat("-", 58)
}

func renderMessageHeader(msg session.Message, label string, userID string) string {
	badge := "[O]"
	badgeStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("166")).Padding(0, 1)
	nameColor := lipgloss.Color("222")
	switch msg.SenderID {
	case session.SenderSystem:
		badge = "[S]"
		badgeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("60")).Padding(0, 1)
		nameColor = lipgloss.Color("151")
	case userID:
		badge = "[Y]"
		badgeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("31")).Padding(0, 1)
		nameColor = lipgloss.Color("45")
	}

	header := lipgloss.JoinHorizontal(
		lipgloss.Left,
		badgeStyle.Render(badge),
		" ",
		lipgloss.NewStyle().Bold(true).Foreground(nameColor).Render(label),
	)
	if msg.CreatedAt.IsZero() {
		return header
	}
	timeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("151"))
	return lipgloss.JoinHorizontal(lipgloss.Left, header, " | ", timeStyle.Render(msg.CreatedAt.Local().Format(time.TimeOnly)))
}
