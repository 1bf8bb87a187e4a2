package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"debatehub/internal/questionnaire"
	"debatehub/internal/session"
)

type fakeResponder struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeResponder) Respond(_ context.Context, _ questionnaire.Response, history []string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return fmt.Sprintf("counter point %d (history %d)", f.calls, len(history))
}

// stallingResponder blocks until its request is cancelled.
type stallingResponder struct {
	started   chan struct{}
	cancelled chan error
}

func newStallingResponder() *stallingResponder {
	return &stallingResponder{started: make(chan struct{}, 1), cancelled: make(chan error, 1)}
}

func (r *stallingResponder) Respond(ctx context.Context, _ questionnaire.Response, _ []string) string {
	r.started <- struct{}{}
	<-ctx.Done()
	r.cancelled <- ctx.Err()
	return "too late"
}

func newTestSession(responder session.Responder) *session.Session {
	ids := 0
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return session.New(session.Config{
		User:          questionnaire.Profile{ID: "user-1", Name: "Demo User"},
		Topic:         "judicial reform",
		Responder:     responder,
		MatchDelay:    time.Millisecond,
		ReplyMinDelay: time.Millisecond,
		ReplyMaxDelay: 2 * time.Millisecond,
		Now:           func() time.Time { return base },
		NewID: func() string {
			ids++
			return fmt.Sprintf("id-%d", ids)
		},
	})
}

func runScript(t *testing.T, s *session.Session, script string) string {
	t.Helper()
	var out strings.Builder
	app := NewApp(Config{Session: s, Writer: &out})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.Start(ctx, strings.NewReader(script)); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	return out.String()
}

func TestParseCommandSupportsAliases(t *testing.T) {
	cmd, arg := parseCommand("SET\tstance for")
	if cmd != "/set" || arg != "stance for" {
		t.Fatalf("unexpected set parse: %q %q", cmd, arg)
	}

	cmd, arg = parseCommand("/match")
	if cmd != "/start" || arg != "" {
		t.Fatalf("unexpected match parse: %q %q", cmd, arg)
	}
}

func TestFullDebateFlow(t *testing.T) {
	responder := &fakeResponder{}
	s := newTestSession(responder)

	script := strings.Join([]string{
		"/start",
		"/set spectrum center-right",
		"/next",
		"/set two-state oppose",
		"/next",
		"/arg Security first",
		"/next",
		"/set preference opposite",
		"/submit",
		"what about security?",
		"",
	}, "\n")
	out := runScript(t, s, script)

	for _, want := range []string{
		"step 1/4",
		"spectrum = center-right",
		"two-state = oppose",
		"arguments: 1",
		"Finding a debate partner...",
		"Debate Room | judicial reform | 15 minutes | freeform",
		"Debate started! Match score:",
		"what about security?",
		"counter point 1 (history 2)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if s.View() != session.ViewDebate {
		t.Fatalf("expected debate view, got %s", s.View())
	}
	if got := len(s.Messages()); got != 3 {
		t.Fatalf("expected 3 messages, got %d", got)
	}
}

func TestInputWaitsForMatch(t *testing.T) {
	s := newTestSession(&fakeResponder{})

	// "hello" is read only after the room opens, so it is sent as a message.
	out := runScript(t, s, "/start\n/submit\nhello\n")

	if strings.Contains(out, "plain text is sent only inside a debate") {
		t.Fatalf("message consumed before match:\n%s", out)
	}
	msgs := s.Messages()
	if len(msgs) != 3 || msgs[1].Content != "hello" {
		t.Fatalf("unexpected messages: %#v", msgs)
	}
}

func TestLeaveDropsPendingReply(t *testing.T) {
	responder := &fakeResponder{}
	s := newTestSession(responder)

	out := runScript(t, s, "/start\n/submit\nhi\n/leave\n")

	if !strings.Contains(out, "left the debate") {
		t.Fatalf("expected leave confirmation:\n%s", out)
	}
	if s.View() != session.ViewIdle || s.Room() != nil {
		t.Fatalf("expected idle session, got %s", s.View())
	}
	if s.Messages() != nil {
		t.Fatalf("expected messages cleared, got %#v", s.Messages())
	}
}

func TestSlowReplyKeepsInputLive(t *testing.T) {
	responder := newStallingResponder()
	s := newTestSession(responder)
	in, feed := io.Pipe()
	defer feed.Close()

	var out strings.Builder
	app := NewApp(Config{Session: s, Writer: &out})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	result := make(chan error, 1)
	go func() { result <- app.Start(ctx, in) }()

	go func() { _, _ = io.WriteString(feed, "/start\n/submit\nhi\n") }()
	select {
	case <-responder.started:
	case <-time.After(2 * time.Second):
		t.Fatal("reply was never requested")
	}

	// the loop still reads commands while the reply is outstanding
	go func() {
		_, _ = io.WriteString(feed, "/leave\n")
		_ = feed.Close()
	}()
	select {
	case err := <-result:
		if err != nil {
			t.Fatalf("start failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("loop blocked on a pending reply")
	}

	if err := <-responder.cancelled; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected leave to cancel the reply, got %v", err)
	}
	if !strings.Contains(out.String(), "left the debate") || strings.Contains(out.String(), "too late") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
	if s.Messages() != nil {
		t.Fatalf("expected messages cleared, got %#v", s.Messages())
	}
}

func TestReadLinesStopsWhenDone(t *testing.T) {
	in, feed := io.Pipe()
	defer feed.Close()
	go func() { _, _ = io.WriteString(feed, "/exit\nleftover\n") }()

	done := make(chan struct{})
	lines := readLines(in, done)
	if got := <-lines; got.text != "/exit" {
		t.Fatalf("unexpected first line: %#v", got)
	}

	// nobody reads "leftover"; closing done must release the goroutine
	close(done)
	time.Sleep(50 * time.Millisecond)
	select {
	case line, ok := <-lines:
		if ok {
			t.Fatalf("unexpected line after done: %#v", line)
		}
	case <-time.After(time.Second):
		t.Fatal("reader goroutine still blocked after done")
	}
}

func TestInvalidActionsArePrinted(t *testing.T) {
	s := newTestSession(&fakeResponder{})

	out := runScript(t, s, "/submit\n/leave\nhello\n/bogus\n/exit\n")

	for _, want := range []string{
		"not available while idle",
		"plain text is sent only inside a debate",
		"unknown command",
		"bye",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestQuestionnaireEditing(t *testing.T) {
	s := newTestSession(&fakeResponder{})

	out := runScript(t, s, "/start\n/set stance maybe\n/set stance\n/arg one\n/arg two\n/unarg 1\n/unarg 9\n/show\n/cancel\n/exit\n")

	for _, want := range []string{
		"set failed:",
		"usage: /set",
		"arguments: 2",
		"arguments: 1",
		"usage: /unarg <number>",
		"questionnaire cancelled",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if s.View() != session.ViewIdle {
		t.Fatalf("expected idle, got %s", s.View())
	}
}

func TestCompletionErrorsArePrinted(t *testing.T) {
	s := newTestSession(&fakeResponder{})
	errs := make(chan error, 1)
	errs <- errors.New("remote down")

	var out strings.Builder
	app := NewApp(Config{Session: s, Writer: &out, CompletionErrors: errs})
	if err := app.Start(context.Background(), strings.NewReader("")); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	if !strings.Contains(out.String(), "completion failed: remote down") {
		t.Fatalf("error not printed:\n%s", out.String())
	}
}

func TestStartRequiresSession(t *testing.T) {
	app := NewApp(Config{})
	if err := app.Start(context.Background(), strings.NewReader("")); err == nil {
		t.Fatal("expected error")
	}
}
