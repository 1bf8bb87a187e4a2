package session

import (
	"context"
	"time"

	"debatehub/internal/questionnaire"
)

type View string

const (
	ViewIdle          View = "idle"
	ViewQuestionnaire View = "questionnaire"
	ViewMatching      View = "matching"
	ViewDebate        View = "debate"
)

type RoomMode string

const (
	ModeTimed     RoomMode = "timed"
	ModeFreeform  RoomMode = "freeform"
	ModeQuickfire RoomMode = "quickfire"
)

type RoomStatus string

const (
	StatusWaiting   RoomStatus = "waiting"
	StatusActive    RoomStatus = "active"
	StatusCompleted RoomStatus = "completed"
)

const (
	SenderSystem = "system"
	SenderAI     = "ai"
)

type Room struct {
	ID              string                  `json:"id"`
	Participants    []questionnaire.Profile `json:"participants"`
	Topic           string                  `json:"topic"`
	Mode            RoomMode                `json:"mode"`
	DurationMinutes int                     `json:"duration_minutes"`
	Status          RoomStatus              `json:"status"`
}

type Message struct {
	ID        string    `json:"id"`
	SenderID  string    `json:"sender_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type TaskKind int

const (
	TaskMatchFound TaskKind = iota + 1
	TaskOpponentReply
)

func (k TaskKind) String() string {
	switch k {
	case TaskMatchFound:
		return "match-found"
	case TaskOpponentReply:
		return "opponent-reply"
	default:
		return "unknown"
	}
}

// Task is a one-shot delayed callback. Hosts wait Delay and hand it back to
// Session.Fire; tasks from an older generation are dropped there.
type Task struct {
	Kind       TaskKind
	Generation uint64
	Delay      time.Duration

	history []string
}

// ReplyRequest is an opponent reply that is due. Resolve may run on any
// goroutine; only AppendReply touches the session.
type ReplyRequest struct {
	Generation uint64

	viewer    questionnaire.Response
	history   []string
	responder Responder
}

// Resolve produces the reply text. A cancelled ctx aborts any remote
// completion and yields the canned reply.
func (r ReplyRequest) Resolve(ctx context.Context) string {
	if r.responder == nil {
		return ""
	}
	return r.responder.Respond(ctx, r.viewer, r.history)
}

func (r Room) clone() Room {
	out := r
	out.Participants = make([]questionnaire.Profile, 0, len(r.Participants))
	for _, p := range r.Participants {
		out.Participants = append(out.Participants, p.Clone())
	}
	return out
}
