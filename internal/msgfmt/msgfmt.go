package msgfmt

import (
	"strings"
	"time"

	"debatehub/internal/session"
)

type Options struct {
	// UserID identifies messages written by the local user.
	UserID         string
	Header         func(msg session.Message, label string) string
	Separator      func(msg session.Message) string
	ContentPrefix  string
	KeepBlankLines bool
}

// Label names the author of msg from the local user's point of view.
func Label(msg session.Message, userID string) string {
	switch msg.SenderID {
	case session.SenderSystem:
		return "System"
	case session.SenderAI:
		return "Opponent"
	case userID:
		return "You"
	default:
		return msg.SenderID
	}
}

func FormatLines(msg session.Message, opts Options) []string {
	label := Label(msg, opts.UserID)

	header := defaultHeader(msg, label)
	if opts.Header != nil {
		header = opts.Header(msg, label)
	}

	separator := defaultSeparator(msg)
	if opts.Separator != nil {
		separator = opts.Separator(msg)
	}

	prefix := opts.ContentPrefix
	if prefix == "" {
		prefix = "  "
	}

	lines := []string{"", separator, header}
	appended := false
	for _, line := range strings.Split(strings.TrimSpace(msg.Content), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if opts.KeepBlankLines {
				lines = append(lines, "")
			}
			continue
		}
		lines = append(lines, prefix+trimmed)
		appended = true
	}
	if !appended {
		lines = append(lines, prefix+"(empty)")
	}
	return append(lines, separator)
}

func defaultHeader(msg session.Message, label string) string {
	if msg.CreatedAt.IsZero() {
		return label
	}
	return label + " · " + msg.CreatedAt.Local().Format(time.TimeOnly)
}

func defaultSeparator(msg session.Message) string {
	if msg.SenderID == session.SenderSystem {
		return strings.Repeat("=", 40)
	}
	return strings.Repeat("-", 40)
}
