package questionnaire

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFromFile reads a counterpart response from a YAML document.
func LoadFromFile(path string) (Response, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Response{}, fmt.Errorf("read opponent file: %w", err)
	}

	var resp Response
	if err := yaml.Unmarshal(data, &resp); err != nil {
		return Response{}, fmt.Errorf("parse opponent yaml: %w", err)
	}

	normalized, err := NormalizeAndValidate(resp)
	if err != nil {
		return Response{}, fmt.Errorf("opponent %s: %w", path, err)
	}
	return normalized, nil
}

func NormalizeAndValidate(r Response) (Response, error) {
	r.Stance = Stance(normalizeToken(string(r.Stance)))
	r.Spectrum = Spectrum(normalizeToken(string(r.Spectrum)))
	r.Policies.TwoStateSolution = TwoStateSolution(normalizeToken(string(r.Policies.TwoStateSolution)))
	r.Policies.SettlementPolicy = SettlementPolicy(normalizeToken(string(r.Policies.SettlementPolicy)))
	r.Policies.ReligiousState = ReligiousState(normalizeToken(string(r.Policies.ReligiousState)))
	r.Policies.EconomicPolicy = EconomicPolicy(normalizeToken(string(r.Policies.EconomicPolicy)))
	r.Style = DebateStyle(normalizeToken(string(r.Style)))
	r.MatchPreference = MatchPreference(normalizeToken(string(r.MatchPreference)))
	r.Arguments = trimNonEmpty(r.Arguments)

	if r.MatchPreference == "" {
		r.MatchPreference = PreferAny
	}
	if err := r.Validate(); err != nil {
		return Response{}, err
	}
	return r, nil
}

func normalizeToken(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
