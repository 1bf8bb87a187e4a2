package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"debatehub/internal/questionnaire"
	"debatehub/internal/session"
)

func (m *model) handleCommand(line string) tea.Cmd {
	command, arg := parseCommand(line)
	switch command {
	case "/exit":
		m.appendLog("bye")
		m.cancelReplies()
		return tea.Quit
	case "/start":
		return m.startMatching()
	case "/leave":
		m.leaveRoom()
		return nil
	case "/follow":
		return m.handleFollowCommand(arg)
	case "/help":
		m.appendHelp()
		return nil
	default:
		if strings.HasPrefix(strings.TrimSpace(line), "/") {
			m.appendLog("unknown command. Use /start, /leave, /follow, /help, /exit")
			return nil
		}
		m.appendLog("press Enter on an empty line to start matching")
		return nil
	}
}

func (m *model) handleFollowCommand(arg string) tea.Cmd {
	mode := strings.ToLower(strings.TrimSpace(arg))
	switch mode {
	case "", "toggle":
		m.autoFollow = !m.autoFollow
	case "on":
		m.autoFollow = true
	case "off":
		m.autoFollow = false
	default:
		m.appendLog("usage: /follow [on|off|toggle]")
		return nil
	}
	if m.autoFollow {
		m.logViewport.GotoBottom()
	}
	m.appendLog(fmt.Sprintf("auto-follow: %s", onOff(m.autoFollow)))
	return nil
}

func (m *model) startMatching() tea.Cmd {
	if !m.report(m.sess.StartMatching()) {
		return nil
	}
	m.fieldCursor = 0
	m.syncInput()
	m.appendLog("questionnaire started: " + m.sess.Questionnaire().StepTitle())
	return nil
}

func (m *model) cancelQuestionnaire() tea.Cmd {
	if m.report(m.sess.CancelQuestionnaire()) {
		m.syncInput()
		m.appendLog("questionnaire cancelled")
	}
	return nil
}

func (m *model) moveStep(b *questionnaire.Builder, forward bool) {
	if forward {
		b.Next()
	} else {
		b.Back()
	}
	m.fieldCursor = 0
	m.input.SetValue("")
	m.syncInput()
}

func (m *model) moveFieldCursor(b *questionnaire.Builder, delta int) {
	rows := questionRows(b)
	if len(rows) == 0 {
		return
	}
	m.fieldCursor = (m.fieldCursor + delta + len(rows)) % len(rows)
}

func (m *model) submitQuestionnaire() tea.Cmd {
	task, err := m.sess.SubmitBuilder()
	if !m.report(err) {
		return nil
	}
	m.syncInput()
	m.appendLog("Finding a debate partner...")
	return tea.Batch(scheduleTaskCmd(task), m.spin.Tick)
}

func (m *model) sendMessage(text string) tea.Cmd {
	task, err := m.sess.SendMessage(text)
	if !m.report(err) {
		return nil
	}
	m.autoFollow = true
	m.flushMessages()
	return scheduleTaskCmd(task)
}

func (m *model) leaveRoom() {
	if !m.report(m.sess.LeaveRoom()) {
		return
	}
	m.roomID, m.printed = "", 0
	m.cancelReplies()
	m.replyCtx, m.cancelReplies = context.WithCancel(m.ctx)
	m.pendingReplies = 0
	m.syncInput()
	m.appendLogs("left the debate", "==== debate end ====")
}

// applyTask fires a due task; stale tasks are dropped by the session. A due
// reply is resolved by the returned command, off the update loop.
func (m *model) applyTask(task session.Task) tea.Cmd {
	req, ok := m.sess.Fire(task)
	if !ok {
		return nil
	}
	if task.Kind == session.TaskOpponentReply {
		m.pendingReplies++
		return resolveReplyCmd(m.replyCtx, req)
	}
	m.syncInput()
	m.autoFollow = true
	if room := m.sess.Room(); room != nil {
		m.appendLogs("==== debate start ====", fmt.Sprintf("room: %s | %d minutes | %s", room.Topic, room.DurationMinutes, room.Mode))
	}
	m.flushMessages()
	return nil
}

func (m *model) applyReply(msg replyReadyMsg) {
	if msg.req.Generation == m.sess.Generation() && m.pendingReplies > 0 {
		m.pendingReplies--
	}
	if m.sess.AppendReply(msg.req, msg.text) {
		m.flushMessages()
	}
}

func (m *model) flushMessages() {
	room := m.sess.Room()
	if room == nil {
		return
	}
	if room.ID != m.roomID {
		m.roomID, m.printed = room.ID, 0
	}
	msgs := m.sess.Messages()
	userID := m.sess.User().ID
	lines := make([]string, 0, (len(msgs)-m.printed)*5)
	for _, msg := range msgs[m.printed:] {
		lines = append(lines, formatMessageLines(msg, userID)...)
	}
	m.printed = len(msgs)
	m.appendLogs(lines...)
}

// report logs err and returns whether the action succeeded.
func (m *model) report(err error) bool {
	if err == nil {
		return true
	}
	switch {
	case errors.Is(err, session.ErrEmptyMessage):
		m.appendLog("type a message first")
	case errors.Is(err, session.ErrInvalidTransition):
		m.appendLog(fmt.Sprintf("not available while %s", m.sess.View()))
	default:
		m.appendLog("error: " + err.Error())
	}
	return false
}

// syncInput updates the text input placeholder for the current screen.
func (m *model) syncInput() {
	switch m.sess.View() {
	case session.ViewQuestionnaire:
		m.input.Placeholder = "Type an argument and press Enter"
	case session.ViewDebate:
		m.input.Placeholder = "Type your argument... (/leave to exit)"
	case session.ViewMatching:
		m.input.Placeholder = "Finding a debate partner..."
	default:
		m.input.Placeholder = "Press Enter to start matching"
	}
	m.resizeLayout()
}

func (m *model) appendLog(line string) {
	m.appendLogs(line)
}

func (m *model) appendLogs(lines ...string) {
	if len(lines) == 0 {
		return
	}
	m.logs = append(m.logs, lines...)

	trimmed := false
	if len(m.logs) > logBufferMax {
		m.logs = m.logs[len(m.logs)-logBufferMax:]
		trimmed = true
	}

	if trimmed || m.wrappedLogs == nil || m.wrappedWidth != m.logViewport.Width {
		m.refreshLogViewport()
		return
	}

	m.wrappedLogs = append(m.wrappedLogs, wrapLogLines(lines, m.logViewport.Width)...)
	m.logViewport.SetContent(strings.Join(m.wrappedLogs, "\n"))
	if m.autoFollow {
		m.logViewport.GotoBottom()
	}
}

// refreshLogViewport rewraps the whole log at the viewport width.
func (m *model) refreshLogViewport() {
	m.wrappedWidth = m.logViewport.Width
	m.wrappedLogs = wrapLogLines(m.logs, m.wrappedWidth)
	m.logViewport.SetContent(strings.Join(m.wrappedLogs, "\n"))
	if m.autoFollow {
		m.logViewport.GotoBottom()
	}
}

func (m *model) appendHelp() {
	m.appendLogs(
		"commands:",
		"  Enter           : start matching (waiting room)",
		"  /leave          : leave the debate (or Esc)",
		"  /follow [mode]  : auto-follow log (on/off/toggle)",
		"  /help           : show this help",
		"  /exit           : quit",
		"questionnaire: Up/Down field, Left/Right value, Enter next, Shift+Tab back, Ctrl+D drop argument, Esc cancel",
		"shortcuts: PgUp/PgDn/Home/End scroll, wheel/trackpad scroll, Ctrl+C quit",
	)
}

func scheduleTaskCmd(task session.Task) tea.Cmd {
	return tea.Tick(task.Delay, func(time.Time) tea.Msg {
		return taskDueMsg{task: task}
	})
}

// resolveReplyCmd runs the responder on bubbletea's command goroutine.
func resolveReplyCmd(ctx context.Context, req session.ReplyRequest) tea.Cmd {
	return func() tea.Msg {
		return replyReadyMsg{req: req, text: req.Resolve(ctx)}
	}
}

func listenCompletionErrorsCmd(errs <-chan error) tea.Cmd {
	if errs == nil {
		return nil
	}
	return func() tea.Msg {
		err, ok := <-errs
		if !ok {
			return nil
		}
		return completionErrorMsg{err: err}
	}
}
