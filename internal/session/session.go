package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"debatehub/internal/match"
	"debatehub/internal/opponent"
	"debatehub/internal/questionnaire"
)

const (
	DefaultMatchDelay    = 2 * time.Second
	DefaultReplyMinDelay = 1 * time.Second
	DefaultReplyMaxDelay = 2 * time.Second
	DefaultRoomMinutes   = 15
)

var (
	ErrInvalidTransition = errors.New("action not available in current view")
	ErrEmptyMessage      = errors.New("message is empty")
)

// Responder produces opponent replies. Respond is called off the host loop and
// may run concurrently with the session.
type Responder interface {
	Respond(ctx context.Context, viewer questionnaire.Response, history []string) string
}

type Config struct {
	User        questionnaire.Profile
	Topic       string
	Counterpart questionnaire.Response
	Responder   Responder
	// Rand drives the reply delay jitter.
	Rand          opponent.Rand
	MatchDelay    time.Duration
	ReplyMinDelay time.Duration
	ReplyMaxDelay time.Duration
	Now           func() time.Time
	NewID         func() string
}

// Session is the view state machine. It is not safe for concurrent use; a
// host drives it from one goroutine.
type Session struct {
	user          questionnaire.Profile
	topic         string
	counterpart   questionnaire.Response
	responder     Responder
	rand          opponent.Rand
	matchDelay    time.Duration
	replyMinDelay time.Duration
	replyMaxDelay time.Duration
	now           func() time.Time
	newID         func() string

	view       View
	generation uint64
	builder    *questionnaire.Builder
	response   *questionnaire.Response
	pending    match.Result
	room       *Room
	messages   []Message
}

func New(cfg Config) *Session {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	if cfg.Rand == nil {
		cfg.Rand = opponent.NewRand(cfg.Now().UnixNano())
	}
	if cfg.Responder == nil {
		cfg.Responder = opponent.NewResponder(opponent.ResponderConfig{Generator: opponent.NewGenerator(cfg.Rand)})
	}
	if cfg.MatchDelay <= 0 {
		cfg.MatchDelay = DefaultMatchDelay
	}
	if cfg.ReplyMinDelay <= 0 {
		cfg.ReplyMinDelay = DefaultReplyMinDelay
	}
	if cfg.ReplyMaxDelay <= cfg.ReplyMinDelay {
		cfg.ReplyMaxDelay = cfg.ReplyMinDelay + time.Millisecond
	}
	if cfg.Counterpart.Validate() != nil {
		cfg.Counterpart = questionnaire.MockOpponent()
	}
	if strings.TrimSpace(cfg.User.ID) == "" {
		cfg.User.ID = cfg.NewID()
	}

	return &Session{
		user:          cfg.User.Clone(),
		topic:         cfg.Topic,
		counterpart:   cfg.Counterpart.Clone(),
		responder:     cfg.Responder,
		rand:          cfg.Rand,
		matchDelay:    cfg.MatchDelay,
		replyMinDelay: cfg.ReplyMinDelay,
		replyMaxDelay: cfg.ReplyMaxDelay,
		now:           cfg.Now,
		newID:         cfg.NewID,
		view:          ViewIdle,
	}
}

func (s *Session) View() View { return s.view }

func (s *Session) IsMatching() bool { return s.view == ViewMatching }

func (s *Session) User() questionnaire.Profile { return s.user.Clone() }

func (s *Session) Topic() string { return s.topic }

// Generation changes whenever pending tasks must be invalidated.
func (s *Session) Generation() uint64 { return s.generation }

// Room returns a copy of the active room, or nil.
func (s *Session) Room() *Room {
	if s.room == nil {
		return nil
	}
	room := s.room.clone()
	return &room
}

func (s *Session) Messages() []Message {
	return append([]Message(nil), s.messages...)
}

// Questionnaire is the in-progress builder; nil outside the questionnaire.
func (s *Session) Questionnaire() *questionnaire.Builder {
	if s.view != ViewQuestionnaire {
		return nil
	}
	return s.builder
}

// Response is the submitted questionnaire, if any.
func (s *Session) Response() (questionnaire.Response, bool) {
	if s.response == nil {
		return questionnaire.Response{}, false
	}
	return s.response.Clone(), true
}

func (s *Session) StartMatching() error {
	if s.view != ViewIdle {
		return fmt.Errorf("start matching from %s: %w", s.view, ErrInvalidTransition)
	}
	s.builder = questionnaire.NewBuilder()
	s.view = ViewQuestionnaire
	return nil
}

func (s *Session) CancelQuestionnaire() error {
	if s.view != ViewQuestionnaire {
		return fmt.Errorf("cancel questionnaire from %s: %w", s.view, ErrInvalidTransition)
	}
	s.builder = nil
	s.generation++
	s.view = ViewIdle
	return nil
}

// SubmitQuestionnaire finalizes resp, scores it against the counterpart and
// schedules the match-found transition.
func (s *Session) SubmitQuestionnaire(resp questionnaire.Response) (Task, error) {
	if s.view != ViewQuestionnaire {
		return Task{}, fmt.Errorf("submit questionnaire from %s: %w", s.view, ErrInvalidTransition)
	}
	if err := resp.Validate(); err != nil {
		return Task{}, fmt.Errorf("invalid questionnaire: %w", err)
	}

	finalized := resp.Clone()
	s.response = &finalized
	s.pending = match.Score(finalized, s.counterpart)
	s.builder = nil
	s.generation++
	s.view = ViewMatching

	return Task{Kind: TaskMatchFound, Generation: s.generation, Delay: s.matchDelay}, nil
}

// SubmitBuilder submits the in-progress questionnaire.
func (s *Session) SubmitBuilder() (Task, error) {
	if s.view != ViewQuestionnaire || s.builder == nil {
		return Task{}, fmt.Errorf("submit questionnaire from %s: %w", s.view, ErrInvalidTransition)
	}
	resp, err := s.builder.Build()
	if err != nil {
		return Task{}, fmt.Errorf("invalid questionnaire: %w", err)
	}
	return s.SubmitQuestionnaire(resp)
}

func (s *Session) SendMessage(content string) (Task, error) {
	if s.view != ViewDebate {
		return Task{}, fmt.Errorf("send message from %s: %w", s.view, ErrInvalidTransition)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return Task{}, ErrEmptyMessage
	}

	s.appendMessage(s.user.ID, content)
	return Task{
		Kind:       TaskOpponentReply,
		Generation: s.generation,
		Delay:      s.replyDelay(),
		history:    s.historyContents(),
	}, nil
}

func (s *Session) LeaveRoom() error {
	if s.view != ViewDebate {
		return fmt.Errorf("leave room from %s: %w", s.view, ErrInvalidTransition)
	}
	if s.room != nil {
		s.room.Status = StatusCompleted
	}
	s.room = nil
	s.messages = nil
	s.response = nil
	s.pending = match.Result{}
	s.generation++
	s.view = ViewIdle
	return nil
}

// Fire applies a due task and reports whether it is still current. Tasks from
// an older generation, or whose view has been left, are dropped.
//
// A match task opens the room. A reply task only returns the request: the
// host resolves it off its event loop and hands the text to AppendReply.
func (s *Session) Fire(task Task) (ReplyRequest, bool) {
	if task.Generation != s.generation {
		return ReplyRequest{}, false
	}

	switch task.Kind {
	case TaskMatchFound:
		if s.view != ViewMatching {
			return ReplyRequest{}, false
		}
		s.openRoom()
		return ReplyRequest{}, true
	case TaskOpponentReply:
		if s.view != ViewDebate || s.response == nil {
			return ReplyRequest{}, false
		}
		history := task.history
		if history == nil {
			history = s.historyContents()
		}
		return ReplyRequest{
			Generation: task.Generation,
			viewer:     s.response.Clone(),
			history:    append([]string(nil), history...),
			responder:  s.responder,
		}, true
	default:
		return ReplyRequest{}, false
	}
}

// AppendReply adds a resolved opponent reply. It is dropped when the room it
// was requested for has been left since.
func (s *Session) AppendReply(req ReplyRequest, text string) bool {
	if req.responder == nil || req.Generation != s.generation || s.view != ViewDebate {
		return false
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	s.appendMessage(SenderAI, text)
	return true
}

func (s *Session) openRoom() {
	s.room = &Room{
		ID:              s.newID(),
		Participants:    []questionnaire.Profile{s.user.Clone()},
		Topic:           s.topic,
		Mode:            ModeFreeform,
		DurationMinutes: DefaultRoomMinutes,
		Status:          StatusActive,
	}
	s.messages = nil
	s.appendMessage(SenderSystem, s.pending.Summary())
	s.view = ViewDebate
}

func (s *Session) appendMessage(sender string, content string) {
	s.messages = append(s.messages, Message{
		ID:        s.newID(),
		SenderID:  sender,
		Content:   content,
		CreatedAt: s.now(),
	})
}

func (s *Session) historyContents() []string {
	out := make([]string, 0, len(s.messages))
	for _, m := range s.messages {
		out = append(out, m.Content)
	}
	return out
}

// replyDelay is uniform over [min, max) at millisecond resolution.
func (s *Session) replyDelay() time.Duration {
	span := int((s.replyMaxDelay - s.replyMinDelay) / time.Millisecond)
	if span <= 0 {
		return s.replyMinDelay
	}
	return s.replyMinDelay + time.Duration(s.rand.Intn(span))*time.Millisecond
}
