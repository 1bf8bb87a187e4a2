package msgfmt

import (
	"strings"
	"testing"
	"time"

	"debatehub/internal/session"
)

func TestLabel(t *testing.T) {
	tests := map[string]string{
		session.SenderSystem: "System",
		session.SenderAI:     "Opponent",
		"user-1":             "You",
		"someone":            "someone",
	}
	for sender, want := range tests {
		if got := Label(session.Message{SenderID: sender}, "user-1"); got != want {
			t.Fatalf("Label(%q)=%q, want %q", sender, got, want)
		}
	}
}

func TestFormatLinesSystemMessage(t *testing.T) {
	msg := session.Message{
		SenderID:  session.SenderSystem,
		Content:   "Debate started! Match score: 80%\nMatching debate style: factual",
		CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	lines := FormatLines(msg, Options{UserID: "u"})
	if lines[0] != "" || !strings.HasPrefix(lines[1], "===") {
		t.Fatalf("unexpected block start: %#v", lines)
	}
	if !strings.HasPrefix(lines[2], "System · ") {
		t.Fatalf("unexpected header: %q", lines[2])
	}
	if lines[3] != "  Debate started! Match score: 80%" || lines[4] != "  Matching debate style: factual" {
		t.Fatalf("unexpected content: %#v", lines)
	}
}

func TestFormatLinesBlankHandling(t *testing.T) {
	msg := session.Message{SenderID: "u", Content: "one\n\ntwo"}
	keep := strings.Join(FormatLines(msg, Options{UserID: "u", KeepBlankLines: true}), "\n")
	if !strings.Contains(keep, "one\n\n  two") {
		t.Fatalf("expected preserved blank line, got %q", keep)
	}
	drop := strings.Join(FormatLines(msg, Options{UserID: "u"}), "\n")
	if strings.Contains(drop, "one\n\n  two") {
		t.Fatalf("expected blank line removed, got %q", drop)
	}
	if !strings.Contains(drop, "\nYou\n") {
		t.Fatalf("expected bare label without timestamp, got %q", drop)
	}
}

func TestFormatLinesCustomHooks(t *testing.T) {
	msg := session.Message{SenderID: session.SenderAI, Content: "   "}
	lines := FormatLines(msg, Options{
		Header:        func(_ session.Message, label string) string { return "[" + label + "]" },
		Separator:     func(session.Message) string { return "~" },
		ContentPrefix: "> ",
	})
	want := []string{"", "~", "[Opponent]", "> (empty)", "~"}
	if strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected lines: %#v", lines)
	}
}
