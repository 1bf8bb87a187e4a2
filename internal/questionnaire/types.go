package questionnaire

import (
	"fmt"
	"strings"
)

type Experience string

const (
	ExperienceBeginner     Experience = "beginner"
	ExperienceIntermediate Experience = "intermediate"
	ExperienceExpert       Experience = "expert"
)

var Experiences = []Experience{ExperienceBeginner, ExperienceIntermediate, ExperienceExpert}

type Spectrum string

const (
	SpectrumLeft        Spectrum = "left"
	SpectrumCenterLeft  Spectrum = "center-left"
	SpectrumCenter      Spectrum = "center"
	SpectrumCenterRight Spectrum = "center-right"
	SpectrumRight       Spectrum = "right"
)

// Spectrums is ordered left to right; the index is the scale position.
var Spectrums = []Spectrum{SpectrumLeft, SpectrumCenterLeft, SpectrumCenter, SpectrumCenterRight, SpectrumRight}

type Stance string

const (
	StanceFor     Stance = "for"
	StanceAgainst Stance = "against"
	StanceNeutral Stance = "neutral"
)

var Stances = []Stance{StanceFor, StanceAgainst, StanceNeutral}

type TwoStateSolution string

const (
	TwoStateSupport TwoStateSolution = "support"
	TwoStateOppose  TwoStateSolution = "oppose"
	TwoStateNeutral TwoStateSolution = "neutral"
)

var TwoStateSolutions = []TwoStateSolution{TwoStateSupport, TwoStateOppose, TwoStateNeutral}

type SettlementPolicy string

const (
	SettlementExpand   SettlementPolicy = "expand"
	SettlementFreeze   SettlementPolicy = "freeze"
	SettlementWithdraw SettlementPolicy = "withdraw"
)

var SettlementPolicies = []SettlementPolicy{SettlementExpand, SettlementFreeze, SettlementWithdraw}

type ReligiousState string

const (
	ReligiousSecular     ReligiousState = "secular"
	ReligiousTraditional ReligiousState = "traditional"
	ReligiousReligious   ReligiousState = "religious"
)

var ReligiousStates = []ReligiousState{ReligiousSecular, ReligiousTraditional, ReligiousReligious}

type EconomicPolicy string

const (
	EconomicSocialist  EconomicPolicy = "socialist"
	EconomicMixed      EconomicPolicy = "mixed"
	EconomicCapitalist EconomicPolicy = "capitalist"
)

var EconomicPolicies = []EconomicPolicy{EconomicSocialist, EconomicMixed, EconomicCapitalist}

type DebateStyle string

const (
	StyleFactual       DebateStyle = "factual"
	StylePhilosophical DebateStyle = "philosophical"
	StyleCasual        DebateStyle = "casual"
)

var DebateStyles = []DebateStyle{StyleFactual, StylePhilosophical, StyleCasual}

type MatchPreference string

const (
	PreferSimilar  MatchPreference = "similar"
	PreferOpposite MatchPreference = "opposite"
	PreferAny      MatchPreference = "any"
)

var MatchPreferences = []MatchPreference{PreferSimilar, PreferOpposite, PreferAny}

func (v Experience) Valid() bool       { return contains(Experiences, v) }
func (v Spectrum) Valid() bool         { return contains(Spectrums, v) }
func (v Stance) Valid() bool           { return contains(Stances, v) }
func (v TwoStateSolution) Valid() bool { return contains(TwoStateSolutions, v) }
func (v SettlementPolicy) Valid() bool { return contains(SettlementPolicies, v) }
func (v ReligiousState) Valid() bool   { return contains(ReligiousStates, v) }
func (v EconomicPolicy) Valid() bool   { return contains(EconomicPolicies, v) }
func (v DebateStyle) Valid() bool      { return contains(DebateStyles, v) }
func (v MatchPreference) Valid() bool  { return contains(MatchPreferences, v) }

// Index returns the 0-based scale position, or -1 for an unknown value.
func (v Spectrum) Index() int {
	for i, s := range Spectrums {
		if s == v {
			return i
		}
	}
	return -1
}

// SpectrumDistance is the absolute index difference of two positions (0..4).
func SpectrumDistance(a, b Spectrum) int {
	d := a.Index() - b.Index()
	if d < 0 {
		return -d
	}
	return d
}

func ParseExperience(raw string) (Experience, error) {
	return parseEnum("experience", raw, Experiences)
}

func ParseSpectrum(raw string) (Spectrum, error) {
	return parseEnum("spectrum", raw, Spectrums)
}

func ParseStance(raw string) (Stance, error) {
	return parseEnum("stance", raw, Stances)
}

func ParseTwoStateSolution(raw string) (TwoStateSolution, error) {
	return parseEnum("two-state solution", raw, TwoStateSolutions)
}

func ParseSettlementPolicy(raw string) (SettlementPolicy, error) {
	return parseEnum("settlement policy", raw, SettlementPolicies)
}

func ParseReligiousState(raw string) (ReligiousState, error) {
	return parseEnum("religious state", raw, ReligiousStates)
}

func ParseEconomicPolicy(raw string) (EconomicPolicy, error) {
	return parseEnum("economic policy", raw, EconomicPolicies)
}

func ParseDebateStyle(raw string) (DebateStyle, error) {
	return parseEnum("debate style", raw, DebateStyles)
}

func ParseMatchPreference(raw string) (MatchPreference, error) {
	return parseEnum("match preference", raw, MatchPreferences)
}

// Label renders an enum value for display: "center-left" -> "Center Left".
func Label[T ~string](v T) string {
	words := strings.Split(string(v), "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func parseEnum[T ~string](name string, raw string, legal []T) (T, error) {
	v := T(strings.ToLower(strings.TrimSpace(raw)))
	if contains(legal, v) {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid %s %q (want one of %s)", name, strings.TrimSpace(raw), joinValues(legal))
}

func contains[T comparable](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, string(v))
	}
	return strings.Join(parts, "|")
}
