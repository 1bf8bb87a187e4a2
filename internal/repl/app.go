package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"debatehub/internal/commandutil"
	"debatehub/internal/msgfmt"
	"debatehub/internal/questionnaire"
	"debatehub/internal/session"
)

type Config struct {
	Session *session.Session
	Writer  io.Writer
	// CompletionErrors carries remote completion failures to print.
	CompletionErrors <-chan error
}

type App struct {
	session *session.Session
	writer  io.Writer
	errs    <-chan error

	due      chan dueTask
	replies  chan replyReady
	timers   map[uint64]scheduled
	// resolving counts replies whose responder call is still running.
	resolving int
	done      chan struct{}

	baseCtx       context.Context
	replyCtx      context.Context
	cancelReplies context.CancelFunc

	nextID   uint64
	roomID   string
	printed  int
	inputEOF bool
}

type scheduled struct {
	task  session.Task
	timer *time.Timer
}

type dueTask struct {
	id   uint64
	task session.Task
}

type replyReady struct {
	req  session.ReplyRequest
	text string
}

type inputLine struct {
	text string
	err  error
	eof  bool
}

const maxREPLInputBytes = 1024 * 1024

var replCommandAliases = map[string]string{
	"start":   "/start",
	"/start":  "/start",
	"/match":  "/start",
	"set":     "/set",
	"/set":    "/set",
	"arg":     "/arg",
	"/arg":    "/arg",
	"unarg":   "/unarg",
	"/unarg":  "/unarg",
	"next":    "/next",
	"/next":   "/next",
	"back":    "/back",
	"/back":   "/back",
	"show":    "/show",
	"/show":   "/show",
	"submit":  "/submit",
	"/submit": "/submit",
	"cancel":  "/cancel",
	"/cancel": "/cancel",
	"/say":    "/say",
	"leave":   "/leave",
	"/leave":  "/leave",
	"help":    "/help",
	"/help":   "/help",
	"exit":    "/exit",
	"/exit":   "/exit",
}

func NewApp(cfg Config) *App {
	if cfg.Writer == nil {
		cfg.Writer = io.Discard
	}
	return &App{
		session: cfg.Session,
		writer:  cfg.Writer,
		errs:    cfg.CompletionErrors,
		due:     make(chan dueTask, 16),
		replies: make(chan replyReady),
		timers:  make(map[uint64]scheduled),
	}
}

// Start reads commands from in until /exit or EOF. After EOF it waits for
// pending tasks of the current room so piped scripts see every reply.
func (a *App) Start(ctx context.Context, in io.Reader) error {
	if a.session == nil {
		return errors.New("session is required")
	}
	if in == nil {
		return errors.New("input reader is required")
	}

	a.printLine("Debate Hub REPL")
	a.printLine("Topic: " + a.session.Topic())
	a.printLine("Commands: /start, /help, /exit")
	a.prompt()

	a.done = make(chan struct{})
	defer close(a.done)
	a.baseCtx = ctx
	a.replyCtx, a.cancelReplies = context.WithCancel(ctx)
	defer func() { a.cancelReplies() }()

	lines := readLines(in, a.done)
	defer a.stopAll()

	for {
		if a.inputEOF && len(a.timers) == 0 && a.resolving == 0 {
			a.drainErrors()
			a.printLine("")
			return nil
		}

		// No input is consumed while a match is being found.
		input := lines
		if a.inputEOF || a.session.IsMatching() {
			input = nil
		}

		select {
		case <-ctx.Done():
			return nil
		case err := <-a.errs:
			a.printLine(fmt.Sprintf("completion failed: %v", err))
		case due := <-a.due:
			a.handleDue(due)
		case ready := <-a.replies:
			a.handleReply(ready)
		case line := <-input:
			if line.err != nil {
				return line.err
			}
			if line.eof {
				a.inputEOF = true
				a.cancelStale()
				continue
			}
			text := strings.TrimSpace(line.text)
			if text == "" {
				a.prompt()
				continue
			}
			if quit := a.handleLine(text); quit {
				return nil
			}
			a.prompt()
		}
	}
}

// readLines scans in on its own goroutine. Closing done releases a pending
// send once the loop stops reading.
func readLines(in io.Reader, done <-chan struct{}) <-chan inputLine {
	out := make(chan inputLine)
	send := func(line inputLine) bool {
		select {
		case out <- line:
			return true
		case <-done:
			return false
		}
	}
	go func() {
		defer close(out)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), maxREPLInputBytes)
		for scanner.Scan() {
			if !send(inputLine{text: scanner.Text()}) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			send(inputLine{err: err})
			return
		}
		send(inputLine{eof: true})
	}()
	return out
}

func (a *App) handleLine(line string) bool {
	command, arg := parseCommand(line)
	switch command {
	case "/exit":
		a.printLine("bye")
		return true
	case "/help":
		a.printHelp()
	case "/start":
		a.report(a.session.StartMatching())
		a.showQuestionnaireStep()
	case "/set":
		a.handleSet(arg)
	case "/arg":
		a.handleArgument(arg)
	case "/unarg":
		a.handleRemoveArgument(arg)
	case "/next":
		a.moveStep(true)
	case "/back":
		a.moveStep(false)
	case "/show":
		a.showStatus()
	case "/submit":
		a.handleSubmit()
	case "/cancel":
		if a.report(a.session.CancelQuestionnaire()) {
			a.printLine("questionnaire cancelled")
		}
	case "/say":
		a.handleSay(arg)
	case "/leave":
		if a.report(a.session.LeaveRoom()) {
			a.cancelStale()
			a.cancelReplies()
			a.replyCtx, a.cancelReplies = context.WithCancel(a.baseCtx)
			a.roomID, a.printed = "", 0
			a.printLine("left the debate")
		}
	default:
		if commandutil.IsCommand(line) {
			a.printLine("unknown command. Use /help")
			return false
		}
		if a.session.View() == session.ViewDebate {
			a.handleSay(line)
			return false
		}
		a.printLine("plain text is sent only inside a debate. Use /start")
	}
	return false
}

func (a *App) handleSet(arg string) {
	builder := a.session.Questionnaire()
	if builder == nil {
		a.printLine("no questionnaire in progress; use /start")
		return
	}
	field, value := commandutil.SplitArg(arg)
	if field == "" || value == "" {
		a.printLine("usage: /set <" + strings.Join(questionnaire.Fields, "|") + "> <value>")
		return
	}
	if err := builder.Set(field, value); err != nil {
		a.printLine(fmt.Sprintf("set failed: %v", err))
		return
	}
	a.printLine(fmt.Sprintf("%s = %s", field, strings.ToLower(strings.TrimSpace(value))))
}

func (a *App) handleArgument(arg string) {
	builder := a.session.Questionnaire()
	if builder == nil {
		a.printLine("no questionnaire in progress; use /start")
		return
	}
	if !builder.AddArgument(arg) {
		a.printLine("usage: /arg <text>")
		return
	}
	a.printLine(fmt.Sprintf("arguments: %d", len(builder.Current().Arguments)))
}

func (a *App) handleRemoveArgument(arg string) {
	builder := a.session.Questionnaire()
	if builder == nil {
		a.printLine("no questionnaire in progress; use /start")
		return
	}
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || !builder.RemoveArgument(n-1) {
		a.printLine("usage: /unarg <number>")
		return
	}
	a.printLine(fmt.Sprintf("arguments: %d", len(builder.Current().Arguments)))
}

func (a *App) moveStep(forward bool) {
	builder := a.session.Questionnaire()
	if builder == nil {
		a.printLine("no questionnaire in progress; use /start")
		return
	}
	if forward {
		builder.Next()
	} else {
		builder.Back()
	}
	a.showQuestionnaireStep()
}

func (a *App) handleSubmit() {
	task, err := a.session.SubmitBuilder()
	if !a.report(err) {
		return
	}
	a.cancelStale()
	a.schedule(task)
	a.printLine("Finding a debate partner...")
}

func (a *App) handleSay(text string) {
	task, err := a.session.SendMessage(text)
	if errors.Is(err, session.ErrEmptyMessage) {
		a.printLine("usage: /say <message>")
		return
	}
	if !a.report(err) {
		return
	}
	a.flushMessages()
	a.schedule(task)
}

func (a *App) handleDue(due dueTask) {
	delete(a.timers, due.id)
	req, ok := a.session.Fire(due.task)
	if !ok {
		return
	}
	if due.task.Kind == session.TaskOpponentReply {
		a.resolve(req)
		return
	}
	a.printLine("")
	a.printRoomHeader()
	a.flushMessages()
	if !a.inputEOF {
		a.prompt()
	}
}

// resolve runs the responder off the loop and hands the text back through
// a.replies.
func (a *App) resolve(req session.ReplyRequest) {
	a.resolving++
	ctx, replies, done := a.replyCtx, a.replies, a.done
	go func() {
		text := req.Resolve(ctx)
		select {
		case replies <- replyReady{req: req, text: text}:
		case <-done:
		}
	}()
}

func (a *App) handleReply(ready replyReady) {
	a.resolving--
	if !a.session.AppendReply(ready.req, ready.text) {
		return
	}
	a.flushMessages()
	if !a.inputEOF {
		a.prompt()
	}
}

// report prints err and returns whether the action succeeded.
func (a *App) report(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, session.ErrInvalidTransition) {
		a.printLine(fmt.Sprintf("not available while %s", a.session.View()))
		return false
	}
	a.printLine(fmt.Sprintf("error: %v", err))
	return false
}

func (a *App) schedule(task session.Task) {
	a.nextID++
	id := a.nextID
	due := a.due
	a.timers[id] = scheduled{
		task: task,
		timer: time.AfterFunc(task.Delay, func() {
			due <- dueTask{id: id, task: task}
		}),
	}
}

// cancelStale stops timers whose generation is no longer current.
func (a *App) cancelStale() {
	current := a.session.Generation()
	for id, s := range a.timers {
		if s.task.Generation == current {
			continue
		}
		if s.timer.Stop() {
			delete(a.timers, id)
		}
	}
}

func (a *App) drainErrors() {
	for {
		select {
		case err := <-a.errs:
			a.printLine(fmt.Sprintf("completion failed: %v", err))
		default:
			return
		}
	}
}

func (a *App) stopAll() {
	for id, s := range a.timers {
		s.timer.Stop()
		delete(a.timers, id)
	}
}

func (a *App) flushMessages() {
	room := a.session.Room()
	if room == nil {
		return
	}
	if room.ID != a.roomID {
		a.roomID, a.printed = room.ID, 0
	}
	msgs := a.session.Messages()
	userID := a.session.User().ID
	for _, msg := range msgs[a.printed:] {
		for _, line := range formatMessageLines(msg, userID) {
			a.printLine(line)
		}
	}
	a.printed = len(msgs)
}

func (a *App) printRoomHeader() {
	room := a.session.Room()
	if room == nil {
		return
	}
	a.printLine(fmt.Sprintf("==== Debate Room | %s | %d minutes | %s ====", room.Topic, room.DurationMinutes, room.Mode))
}

func (a *App) showQuestionnaireStep() {
	builder := a.session.Questionnaire()
	if builder == nil {
		return
	}
	a.printLines(stepLines(builder)...)
}

func (a *App) showStatus() {
	switch a.session.View() {
	case session.ViewQuestionnaire:
		a.showQuestionnaireStep()
	case session.ViewDebate:
		a.printRoomHeader()
		a.printLine(fmt.Sprintf("messages: %d", len(a.session.Messages())))
	default:
		user := a.session.User()
		a.printLine(fmt.Sprintf("view: %s", a.session.View()))
		a.printLine(fmt.Sprintf("profile: %s | experience: %s | interests: %s", user.Name, user.Experience, strings.Join(user.Interests, ", ")))
	}
}

func (a *App) prompt() {
	_, _ = fmt.Fprintf(a.writer, "%s> ", a.session.View())
}

func (a *App) printLine(msg string) {
	_, _ = fmt.Fprintln(a.writer, msg)
}

func (a *App) printLines(lines ...string) {
	for _, line := range lines {
		a.printLine(line)
	}
}

func parseCommand(line string) (command string, arg string) {
	return commandutil.Parse(line, replCommandAliases)
}

func formatMessageLines(msg session.Message, userID string) []string {
	return msgfmt.FormatLines(msg, msgfmt.Options{
		UserID: userID,
		Header: func(m session.Message, label string) string {
			return fmt.Sprintf("---- %s | %s ----", label, m.CreatedAt.Local().Format(time.TimeOnly))
		},
	})
}

func stepLines(b *questionnaire.Builder) []string {
	cur := b.Current()
	lines := []string{fmt.Sprintf("step %d/4: %s", b.Step(), b.StepTitle())}
	switch b.Step() {
	case questionnaire.StepAlignment:
		lines = append(lines,
			optionLine(questionnaire.FieldSpectrum, cur.Spectrum, questionnaire.Spectrums),
			optionLine(questionnaire.FieldStance, cur.Stance, questionnaire.Stances),
		)
	case questionnaire.StepPolicies:
		lines = append(lines,
			optionLine(questionnaire.FieldTwoState, cur.Policies.TwoStateSolution, questionnaire.TwoStateSolutions),
			optionLine(questionnaire.FieldSettlement, cur.Policies.SettlementPolicy, questionnaire.SettlementPolicies),
			optionLine(questionnaire.FieldReligion, cur.Policies.ReligiousState, questionnaire.ReligiousStates),
			optionLine(questionnaire.FieldEconomy, cur.Policies.EconomicPolicy, questionnaire.EconomicPolicies),
		)
	case questionnaire.StepArguments:
		if len(cur.Arguments) == 0 {
			lines = append(lines, "  (no arguments yet; /arg <text>)")
		}
		for i, arg := range cur.Arguments {
			lines = append(lines, fmt.Sprintf("  %d. %s", i+1, arg))
		}
	case questionnaire.StepPrefs:
		lines = append(lines,
			optionLine(questionnaire.FieldPreference, cur.MatchPreference, questionnaire.MatchPreferences),
			optionLine(questionnaire.FieldStyle, cur.Style, questionnaire.DebateStyles),
			fmt.Sprintf("  %-10s = %d minutes", questionnaire.FieldPrepTime, cur.PrepTime),
		)
	}
	if b.IsLastStep() {
		lines = append(lines, "/submit to start the debate, /back to revise, /cancel to quit")
	} else {
		lines = append(lines, "/next to continue, /back to revise, /cancel to quit")
	}
	return lines
}

func optionLine[T ~string](field string, current T, options []T) string {
	parts := make([]string, 0, len(options))
	for _, o := range options {
		if o == current {
			parts = append(parts, "["+string(o)+"]")
			continue
		}
		parts = append(parts, string(o))
	}
	return fmt.Sprintf("  %-10s = %s", field, strings.Join(parts, " "))
}

func (a *App) printHelp() {
	a.printLines(
		"commands:",
		"  /start                 : open the questionnaire",
		"  /set <field> <value>   : answer a question ("+strings.Join(questionnaire.Fields, ", ")+")",
		"  /arg <text>            : add a main argument",
		"  /unarg <n>             : remove argument n",
		"  /next, /back           : move between questionnaire steps",
		"  /show                  : show the current step or room",
		"  /submit                : finish the questionnaire and find a match",
		"  /cancel                : abandon the questionnaire",
		"  /say <text>            : send a message (plain text works in a debate)",
		"  /leave                 : leave the debate",
		"  /help                  : show this help",
		"  /exit                  : quit",
	)
}
