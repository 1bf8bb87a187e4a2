package main

import (
	"os"
	"path/filepath"
	"testing"

	"debatehub/internal/config"
	"debatehub/internal/questionnaire"
	"debatehub/internal/session"
)

func TestParseRuntimeOptionsDefaults(t *testing.T) {
	opts, err := parseRuntimeOptions(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.opponentPath != "" {
		t.Fatalf("unexpected default opponent path: %s", opts.opponentPath)
	}
}

func TestParseRuntimeOptionsOpponentFlag(t *testing.T) {
	opts, err := parseRuntimeOptions([]string{"--opponent", "  ./opponent.yaml "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.opponentPath != "./opponent.yaml" {
		t.Fatalf("unexpected opponent path: %s", opts.opponentPath)
	}
}

func TestParseRuntimeOptionsCounterpartAlias(t *testing.T) {
	opts, err := parseRuntimeOptions([]string{"--counterpart", "./custom.yaml"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.opponentPath != "./custom.yaml" {
		t.Fatalf("unexpected opponent path: %s", opts.opponentPath)
	}
}

func TestParseRuntimeOptionsRejectsPositionalArgs(t *testing.T) {
	if _, err := parseRuntimeOptions([]string{"unexpected"}); err == nil {
		t.Fatal("expected error for positional args")
	}
}

func TestLoadCounterpartDefaultsToMock(t *testing.T) {
	got, err := loadCounterpart("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Spectrum != questionnaire.MockOpponent().Spectrum {
		t.Fatalf("unexpected counterpart: %#v", got)
	}
}

func TestLoadCounterpartFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opponent.yaml")
	content := "stance: for\nspectrum: left\npolicies:\n  two_state_solution: support\n  settlement_policy: withdraw\n  religious_state: secular\n  economic_policy: socialist\nstyle: casual\nprep_time: 10\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write opponent: %v", err)
	}

	got, err := loadCounterpart(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Spectrum != questionnaire.SpectrumLeft || got.MatchPreference != questionnaire.PreferAny {
		t.Fatalf("unexpected counterpart: %#v", got)
	}
}

func TestBuildSessionRejectsBadCompletionURL(t *testing.T) {
	settings := config.Settings{
		UserName:          "Demo User",
		Topic:             "judicial reform",
		CompletionURL:     "ftp://nope",
		CompletionTimeout: config.DefaultCompletionTimeout,
	}
	if _, err := buildSession(settings, questionnaire.MockOpponent(), make(chan error, 1)); err == nil {
		t.Fatal("expected completion client error")
	}
}

func TestBuildSessionStartsIdle(t *testing.T) {
	settings := config.Settings{
		UserName:      "Noa",
		Topic:         "judicial reform",
		MatchDelay:    config.DefaultMatchDelay,
		ReplyMinDelay: config.DefaultReplyMinDelay,
		ReplyMaxDelay: config.DefaultReplyMaxDelay,
	}
	sess, err := buildSession(settings, questionnaire.MockOpponent(), make(chan error, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.View() != session.ViewIdle {
		t.Fatalf("expected idle, got %s", sess.View())
	}
	user := sess.User()
	if user.Name != "Noa" || user.ID == "" || len(user.Interests) != len(config.DefaultInterests) {
		t.Fatalf("unexpected user: %#v", user)
	}
	if user.Experience != questionnaire.ExperienceIntermediate {
		t.Fatalf("expected default experience, got %q", user.Experience)
	}
}

func TestBuildSessionUsesConfiguredExperience(t *testing.T) {
	settings := config.Settings{
		UserName:       "Noa",
		UserExperience: questionnaire.ExperienceExpert,
		Topic:          "judicial reform",
		MatchDelay:     config.DefaultMatchDelay,
		ReplyMinDelay:  config.DefaultReplyMinDelay,
		ReplyMaxDelay:  config.DefaultReplyMaxDelay,
	}
	sess, err := buildSession(settings, questionnaire.MockOpponent(), make(chan error, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := sess.User().Experience; got != questionnaire.ExperienceExpert {
		t.Fatalf("experience=%q, want expert", got)
	}
}
