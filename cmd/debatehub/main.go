package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/term"

	"debatehub/internal/completion"
	"debatehub/internal/config"
	"debatehub/internal/opponent"
	"debatehub/internal/questionnaire"
	"debatehub/internal/repl"
	"debatehub/internal/session"
	"debatehub/internal/tui"
)

type runtimeOptions struct {
	opponentPath string
}

func main() {
	opts, err := parseRuntimeOptions(os.Args[1:])
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "argument error:", err)
		os.Exit(1)
	}

	settings, err := config.FromEnv()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}

	counterpart, err := loadCounterpart(opts.opponentPath)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "opponent error:", err)
		os.Exit(1)
	}

	completionErrors := make(chan error, 16)
	sess, err := buildSession(settings, counterpart, completionErrors)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "completion client error:", err)
		os.Exit(1)
	}

	if isTTY() {
		app := tui.NewApp(tui.Config{Session: sess, CompletionErrors: completionErrors})
		if err := app.Start(context.Background()); err != nil {
			_, _ = fmt.Fprintln(os.Stderr, "runtime error:", err)
			os.Exit(1)
		}
		return
	}

	// Fallback for non-interactive shells (pipes, CI).
	app := repl.NewApp(repl.Config{
		Session:          sess,
		Writer:           os.Stdout,
		CompletionErrors: completionErrors,
	})
	if err := app.Start(context.Background(), os.Stdin); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "runtime error:", err)
		os.Exit(1)
	}
}

func isTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func parseRuntimeOptions(args []string) (runtimeOptions, error) {
	fs := flag.NewFlagSet("debatehub", flag.ContinueOnError)
	opponentPath := fs.String("opponent", "", "path to a counterpart questionnaire yaml file")
	fs.StringVar(opponentPath, "counterpart", "", "alias of -opponent")
	fs.SetOutput(os.Stderr)

	if err := fs.Parse(args); err != nil {
		return runtimeOptions{}, err
	}
	if len(fs.Args()) > 0 {
		return runtimeOptions{}, fmt.Errorf("unexpected positional args: %s", strings.Join(fs.Args(), " "))
	}
	return runtimeOptions{opponentPath: strings.TrimSpace(*opponentPath)}, nil
}

func loadCounterpart(path string) (questionnaire.Response, error) {
	if path == "" {
		return questionnaire.MockOpponent(), nil
	}
	return questionnaire.LoadFromFile(path)
}

// buildSession wires the opponent responder and, when configured, the remote
// completion client. Completion failures are forwarded to errs without
// blocking the session.
func buildSession(settings config.Settings, counterpart questionnaire.Response, errs chan<- error) (*session.Session, error) {
	rng := opponent.NewRand(time.Now().UnixNano())

	responderCfg := opponent.ResponderConfig{Generator: opponent.NewGenerator(rng)}
	if settings.CompletionURL != "" {
		client, err := completion.NewClient(completion.Config{
			Endpoint:   settings.CompletionURL,
			Timeout:    settings.CompletionTimeout,
			MaxRetries: settings.CompletionRetries,
		})
		if err != nil {
			return nil, err
		}
		responderCfg.Completer = client
		responderCfg.OnError = func(err error) {
			select {
			case errs <- err:
			default:
			}
		}
	}

	experience := settings.UserExperience
	if !experience.Valid() {
		experience = questionnaire.ExperienceIntermediate
	}

	return session.New(session.Config{
		User: questionnaire.Profile{
			ID:         uuid.NewString(),
			Name:       settings.UserName,
			Experience: experience,
			Spectrum:   questionnaire.SpectrumCenter,
			Interests:  append([]string(nil), config.DefaultInterests...),
		},
		Topic:         settings.Topic,
		Counterpart:   counterpart,
		Responder:     opponent.NewResponder(responderCfg),
		Rand:          rng,
		MatchDelay:    settings.MatchDelay,
		ReplyMinDelay: settings.ReplyMinDelay,
		ReplyMaxDelay: settings.ReplyMaxDelay,
	}), nil
}
