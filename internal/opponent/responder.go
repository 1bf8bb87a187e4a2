package opponent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"debatehub/internal/questionnaire"
)

// ErrRequestFailed marks a completion call that did not produce text.
var ErrRequestFailed = errors.New("completion request failed")

// Completer turns a prompt into generated text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// CompleterFunc adapts a plain function to Completer.
type CompleterFunc func(ctx context.Context, prompt string) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

type Responder struct {
	generator *Generator
	completer Completer
	onError   func(error)
}

type ResponderConfig struct {
	Generator *Generator
	// Completer is optional; without it every reply is canned.
	Completer Completer
	// OnError receives completion failures after the canned fallback is used.
	OnError func(error)
}

func NewResponder(cfg ResponderConfig) *Responder {
	if cfg.Generator == nil {
		cfg.Generator = NewGenerator(nil)
	}
	return &Responder{
		generator: cfg.Generator,
		completer: cfg.Completer,
		onError:   cfg.OnError,
	}
}

// Respond never fails: a completion error degrades to the canned reply.
func (r *Responder) Respond(ctx context.Context, viewer questionnaire.Response, history []string) string {
	canned := r.generator.Reply(viewer, history)
	if r.completer == nil {
		return canned
	}

	text, err := r.completer.Complete(ctx, BuildPrompt(viewer, history))
	if err == nil && strings.TrimSpace(text) == "" {
		err = fmt.Errorf("%w: empty completion", ErrRequestFailed)
	}
	if err != nil {
		if !errors.Is(err, ErrRequestFailed) {
			err = fmt.Errorf("%w: %w", ErrRequestFailed, err)
		}
		// a cancelled request was abandoned by the host, not failed
		if r.onError != nil && ctx.Err() == nil {
			r.onError(err)
		}
		return canned
	}
	return strings.TrimSpace(text)
}

// BuildPrompt describes the viewer's positions and the conversation so far.
func BuildPrompt(viewer questionnaire.Response, history []string) string {
	var b strings.Builder
	b.WriteString("You are a debate opponent. Reply in one or two sentences and challenge the user's view.\n")
	b.WriteString(fmt.Sprintf("User stance: %s; spectrum: %s; style: %s.\n", viewer.Stance, viewer.Spectrum, viewer.Style))
	b.WriteString(fmt.Sprintf(
		"User policies: two-state=%s, settlements=%s, religion=%s, economy=%s.\n",
		viewer.Policies.TwoStateSolution,
		viewer.Policies.SettlementPolicy,
		viewer.Policies.ReligiousState,
		viewer.Policies.EconomicPolicy,
	))
	if len(viewer.Arguments) > 0 {
		b.WriteString("User arguments:\n")
		for _, arg := range viewer.Arguments {
			b.WriteString("- " + arg + "\n")
		}
	}
	b.WriteString("Conversation:\n")
	for _, line := range history {
		b.WriteString("> " + strings.TrimSpace(line) + "\n")
	}
	return b.String()
}
