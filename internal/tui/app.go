package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"debatehub/internal/commandutil"
	"debatehub/internal/questionnaire"
	"debatehub/internal/session"
)

type Config struct {
	Session *session.Session
	// CompletionErrors carries remote completion failures to the log pane.
	CompletionErrors <-chan error
}

type App struct {
	session *session.Session
	errs    <-chan error
}

func NewApp(cfg Config) *App {
	return &App{session: cfg.Session, errs: cfg.CompletionErrors}
}

func (a *App) Start(ctx context.Context) error {
	if a.session == nil {
		return errors.New("session is required")
	}

	m := newModel(ctx, modelConfig{Session: a.session, CompletionErrors: a.errs})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

type modelConfig struct {
	Session          *session.Session
	CompletionErrors <-chan error
}

type model struct {
	ctx  context.Context
	sess *session.Session
	errs <-chan error

	input        textinput.Model
	logViewport  viewport.Model
	spin         spinner.Model
	logs         []string
	wrappedLogs  []string
	wrappedWidth int
	width        int
	height       int
	autoFollow   bool

	// replyCtx scopes in-flight opponent replies; leaving the room or
	// quitting cancels it.
	replyCtx       context.Context
	cancelReplies  context.CancelFunc
	pendingReplies int

	// fieldCursor selects the option row on the current questionnaire step.
	fieldCursor int
	roomID      string
	printed     int
}

const (
	defaultWidth  = 100
	defaultHeight = 32
	logBufferMax  = 4000
	scrollStep    = 5
)

type taskDueMsg struct {
	task session.Task
}

type replyReadyMsg struct {
	req  session.ReplyRequest
	text string
}

type completionErrorMsg struct {
	err error
}

func newModel(ctx context.Context, cfg modelConfig) model {
	if ctx == nil {
		ctx = context.Background()
	}
	ti := textinput.New()
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 1024 * 4
	ti.Width = defaultWidth - 4

	vp := viewport.New(defaultWidth-4, defaultHeight-12)
	vp.SetContent("")

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))

	m := model{
		ctx:         ctx,
		sess:        cfg.Session,
		errs:        cfg.CompletionErrors,
		input:       ti,
		logViewport: vp,
		spin:        sp,
		logs:        []string{"Debate Hub ready. Press Enter to start matching."},
		width:       defaultWidth,
		height:      defaultHeight,
		autoFollow:  true,
	}
	m.replyCtx, m.cancelReplies = context.WithCancel(ctx)
	m.syncInput()
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, listenCompletionErrorsCmd(m.errs))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.height = typed.Height
		m.resizeLayout()
		return m, nil

	case spinner.TickMsg:
		return m, m.updateSpinner(typed)

	case tea.KeyMsg:
		if cmd, handled := m.handleKeyMessage(typed); handled {
			return m, cmd
		}

	case taskDueMsg:
		return m, m.applyTask(typed.task)

	case replyReadyMsg:
		m.applyReply(typed)
		return m, nil

	case completionErrorMsg:
		m.appendLog("completion failed: " + typed.err.Error())
		return m, listenCompletionErrorsCmd(m.errs)
	}

	return m, m.updateInteractiveInputs(msg)
}

func (m *model) updateSpinner(msg spinner.TickMsg) tea.Cmd {
	var cmd tea.Cmd
	m.spin, cmd = m.spin.Update(msg)
	if m.sess.IsMatching() {
		return cmd
	}
	return nil
}

func (m *model) handleKeyMessage(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.cancelReplies()
		return tea.Quit, true
	case tea.KeyPgUp:
		m.autoFollow = false
		m.logViewport.LineUp(scrollStep)
		return nil, true
	case tea.KeyPgDown:
		m.autoFollow = false
		m.logViewport.LineDown(scrollStep)
		if m.logViewport.AtBottom() {
			m.autoFollow = true
		}
		return nil, true
	case tea.KeyHome:
		m.autoFollow = false
		m.logViewport.GotoTop()
		return nil, true
	case tea.KeyEnd:
		m.autoFollow = true
		m.logViewport.GotoBottom()
		return nil, true
	}

	switch m.sess.View() {
	case session.ViewQuestionnaire:
		return m.handleQuestionnaireKey(msg)
	case session.ViewDebate:
		return m.handleDebateKey(msg)
	case session.ViewMatching:
		// Input is locked until the room opens.
		return nil, true
	default:
		return m.handleIdleKey(msg)
	}
}

func (m *model) handleIdleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if msg.Type != tea.KeyEnter {
		return nil, false
	}
	line := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	if line != "" {
		return m.handleCommand(line), true
	}
	return m.startMatching(), true
}

func (m *model) handleQuestionnaireKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	builder := m.sess.Questionnaire()
	if builder == nil {
		return nil, true
	}
	argumentStep := builder.Step() == questionnaire.StepArguments

	switch msg.Type {
	case tea.KeyEsc:
		return m.cancelQuestionnaire(), true
	case tea.KeyShiftTab:
		m.moveStep(builder, false)
		return nil, true
	case tea.KeyBackspace:
		if m.input.Value() == "" {
			m.moveStep(builder, false)
			return nil, true
		}
		return nil, !argumentStep
	case tea.KeyCtrlD:
		if argumentStep {
			args := builder.Current().Arguments
			if builder.RemoveArgument(len(args) - 1) {
				m.appendLog(fmt.Sprintf("removed argument %d", len(args)))
			}
		}
		return nil, true
	case tea.KeyUp:
		m.moveFieldCursor(builder, -1)
		return nil, true
	case tea.KeyDown:
		m.moveFieldCursor(builder, 1)
		return nil, true
	case tea.KeyLeft, tea.KeyRight:
		if argumentStep {
			return nil, false
		}
		delta := 1
		if msg.Type == tea.KeyLeft {
			delta = -1
		}
		if err := cycleField(builder, m.fieldCursor, delta); err != nil {
			m.appendLog("update failed: " + err.Error())
		}
		return nil, true
	case tea.KeyEnter:
		if argumentStep {
			text := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if text != "" {
				if builder.AddArgument(text) {
					m.appendLog(fmt.Sprintf("added argument %d", len(builder.Current().Arguments)))
				}
				return nil, true
			}
		}
		if builder.IsLastStep() {
			return m.submitQuestionnaire(), true
		}
		m.moveStep(builder, true)
		return nil, true
	default:
		// Only the arguments step accepts typed text.
		return nil, !argumentStep
	}
}

func (m *model) handleDebateKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.Type {
	case tea.KeyEsc:
		m.leaveRoom()
		return nil, true
	case tea.KeyEnter:
		line := strings.TrimSpace(m.input.Value())
		m.input.SetValue("")
		if line == "" {
			return nil, true
		}
		if commandutil.IsCommand(line) {
			return m.handleCommand(line), true
		}
		return m.sendMessage(line), true
	default:
		return nil, false
	}
}

func (m *model) updateInteractiveInputs(msg tea.Msg) tea.Cmd {
	mouseWheelUp, mouseWheelDown := isMouseWheelScroll(msg)
	var viewportCmd tea.Cmd
	var inputCmd tea.Cmd
	// Typed keys belong to the input; the viewport scrolls via mouse and paging keys.
	if _, isKey := msg.(tea.KeyMsg); !isKey {
		m.logViewport, viewportCmd = m.logViewport.Update(msg)
	}
	if m.acceptsText() {
		m.input, inputCmd = m.input.Update(msg)
	}
	if mouseWheelUp {
		m.autoFollow = false
	}
	if mouseWheelDown && m.logViewport.AtBottom() {
		m.autoFollow = true
	}
	return tea.Batch(viewportCmd, inputCmd)
}

// acceptsText reports whether the text input is live on the current screen.
func (m model) acceptsText() bool {
	switch m.sess.View() {
	case session.ViewIdle, session.ViewDebate:
		return true
	case session.ViewQuestionnaire:
		b := m.sess.Questionnaire()
		return b != nil && b.Step() == questionnaire.StepArguments
	default:
		return false
	}
}

func isMouseWheelScroll(msg tea.Msg) (up bool, down bool) {
	mm, ok := msg.(tea.MouseMsg)
	if !ok || mm.Action != tea.MouseActionPress {
		return false, false
	}
	switch mm.Button { //nolint:exhaustive
	case tea.MouseButtonWheelUp:
		return true, false
	case tea.MouseButtonWheelDown:
		return false, true
	default:
		return false, false
	}
}
