package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"debatehub/internal/questionnaire"
)

const (
	DefaultUserName          = "Demo User"
	DefaultTopic             = "הרפורמה המשפטית"
	DefaultMatchDelay        = 2 * time.Second
	DefaultReplyMinDelay     = 1 * time.Second
	DefaultReplyMaxDelay     = 2 * time.Second
	DefaultCompletionTimeout = 30 * time.Second
	DefaultCompletionRetries = 2
)

// DefaultInterests are shown on the waiting-room profile card.
var DefaultInterests = []string{"Israeli Politics", "Middle East"}

type Settings struct {
	UserName          string
	UserExperience    questionnaire.Experience
	Topic             string
	MatchDelay        time.Duration
	ReplyMinDelay     time.Duration
	ReplyMaxDelay     time.Duration
	CompletionURL     string
	CompletionTimeout time.Duration
	CompletionRetries int
}

func FromEnv() (Settings, error) {
	settings := Settings{
		UserName:          DefaultUserName,
		UserExperience:    questionnaire.ExperienceIntermediate,
		Topic:             DefaultTopic,
		MatchDelay:        DefaultMatchDelay,
		ReplyMinDelay:     DefaultReplyMinDelay,
		ReplyMaxDelay:     DefaultReplyMaxDelay,
		CompletionURL:     strings.TrimSpace(os.Getenv("DEBATE_COMPLETION_URL")),
		CompletionTimeout: DefaultCompletionTimeout,
		CompletionRetries: DefaultCompletionRetries,
	}

	if v := strings.TrimSpace(os.Getenv("DEBATE_USER_NAME")); v != "" {
		settings.UserName = v
	}
	if v := strings.TrimSpace(os.Getenv("DEBATE_TOPIC")); v != "" {
		settings.Topic = v
	}

	if v := strings.TrimSpace(os.Getenv("DEBATE_USER_EXPERIENCE")); v != "" {
		experience, err := questionnaire.ParseExperience(v)
		if err != nil {
			return Settings{}, fmt.Errorf("DEBATE_USER_EXPERIENCE: %w", err)
		}
		settings.UserExperience = experience
	}

	positive := func(v time.Duration) bool { return v > 0 }

	var err error
	settings.MatchDelay, err = parseOptionalDuration("DEBATE_MATCH_DELAY", settings.MatchDelay, positive)
	if err != nil {
		return Settings{}, err
	}
	settings.ReplyMinDelay, err = parseOptionalDuration("DEBATE_REPLY_MIN_DELAY", settings.ReplyMinDelay, positive)
	if err != nil {
		return Settings{}, err
	}
	settings.ReplyMaxDelay, err = parseOptionalDuration("DEBATE_REPLY_MAX_DELAY", settings.ReplyMaxDelay, positive)
	if err != nil {
		return Settings{}, err
	}
	if settings.ReplyMaxDelay <= settings.ReplyMinDelay {
		return Settings{}, fmt.Errorf("DEBATE_REPLY_MAX_DELAY (%s) must be greater than DEBATE_REPLY_MIN_DELAY (%s)", settings.ReplyMaxDelay, settings.ReplyMinDelay)
	}
	settings.CompletionTimeout, err = parseOptionalDuration("DEBATE_COMPLETION_TIMEOUT", settings.CompletionTimeout, positive)
	if err != nil {
		return Settings{}, err
	}
	settings.CompletionRetries, err = parseOptionalInt("DEBATE_COMPLETION_MAX_RETRIES", settings.CompletionRetries, func(v int) bool { return v >= 0 })
	if err != nil {
		return Settings{}, err
	}

	return settings, nil
}

func parseOptionalInt(env string, fallback int, valid func(int) bool) (int, error) {
	raw := strings.TrimSpace(os.Getenv(env))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", env, err)
	}
	if valid != nil && !valid(v) {
		return 0, fmt.Errorf("%s has invalid value: %d", env, v)
	}
	return v, nil
}

func parseOptionalDuration(env string, fallback time.Duration, valid func(time.Duration) bool) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(env))
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid duration (e.g. 1500ms, 2s): %w", env, err)
	}
	if valid != nil && !valid(v) {
		return 0, fmt.Errorf("%s has invalid value: %s", env, v)
	}
	return v, nil
}
