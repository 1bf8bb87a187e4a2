package questionnaire

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	StepAlignment = 1
	StepPolicies  = 2
	StepArguments = 3
	StepPrefs     = 4
)

var stepTitles = map[int]string{
	StepAlignment: "Political Alignment",
	StepPolicies:  "Key Policy Positions",
	StepArguments: "Main Arguments",
	StepPrefs:     "Debate Preferences",
}

// Field names accepted by Builder.Set.
const (
	FieldStance     = "stance"
	FieldSpectrum   = "spectrum"
	FieldTwoState   = "two-state"
	FieldSettlement = "settlement"
	FieldReligion   = "religion"
	FieldEconomy    = "economy"
	FieldStyle      = "style"
	FieldPrepTime   = "prep"
	FieldPreference = "preference"
)

// Fields lists the settable fields in questionnaire order.
var Fields = []string{
	FieldStance, FieldSpectrum, FieldTwoState, FieldSettlement, FieldReligion,
	FieldEconomy, FieldStyle, FieldPrepTime, FieldPreference,
}

// Builder collects a Response across the four questionnaire steps. It always
// holds a complete, valid response; setters reject illegal values.
type Builder struct {
	step     int
	response Response
}

func NewBuilder() *Builder {
	return &Builder{step: StepAlignment, response: DefaultResponse()}
}

func (b *Builder) Step() int { return b.step }

func (b *Builder) StepTitle() string { return stepTitles[b.step] }

func (b *Builder) IsLastStep() bool { return b.step == StepPrefs }

func (b *Builder) Next() {
	if b.step < StepPrefs {
		b.step++
	}
}

func (b *Builder) Back() {
	if b.step > StepAlignment {
		b.step--
	}
}

// Current returns a snapshot of the in-progress response.
func (b *Builder) Current() Response {
	return b.response.Clone()
}

func (b *Builder) SetStance(v Stance) error {
	if !v.Valid() {
		return fmt.Errorf("invalid stance %q", v)
	}
	b.response.Stance = v
	return nil
}

func (b *Builder) SetSpectrum(v Spectrum) error {
	if !v.Valid() {
		return fmt.Errorf("invalid spectrum %q", v)
	}
	b.response.Spectrum = v
	return nil
}

func (b *Builder) SetTwoStateSolution(v TwoStateSolution) error {
	if !v.Valid() {
		return fmt.Errorf("invalid two-state solution %q", v)
	}
	b.response.Policies.TwoStateSolution = v
	return nil
}

func (b *Builder) SetSettlementPolicy(v SettlementPolicy) error {
	if !v.Valid() {
		return fmt.Errorf("invalid settlement policy %q", v)
	}
	b.response.Policies.SettlementPolicy = v
	return nil
}

func (b *Builder) SetReligiousState(v ReligiousState) error {
	if !v.Valid() {
		return fmt.Errorf("invalid religious state %q", v)
	}
	b.response.Policies.ReligiousState = v
	return nil
}

func (b *Builder) SetEconomicPolicy(v EconomicPolicy) error {
	if !v.Valid() {
		return fmt.Errorf("invalid economic policy %q", v)
	}
	b.response.Policies.EconomicPolicy = v
	return nil
}

func (b *Builder) SetDebateStyle(v DebateStyle) error {
	if !v.Valid() {
		return fmt.Errorf("invalid debate style %q", v)
	}
	b.response.Style = v
	return nil
}

func (b *Builder) SetPrepTime(minutes int) error {
	if minutes < 0 {
		return fmt.Errorf("prep time must be >= 0, got %d", minutes)
	}
	b.response.PrepTime = minutes
	return nil
}

func (b *Builder) SetMatchPreference(v MatchPreference) error {
	if !v.Valid() {
		return fmt.Errorf("invalid match preference %q", v)
	}
	b.response.MatchPreference = v
	return nil
}

// Set assigns a field from its textual form.
func (b *Builder) Set(field string, value string) error {
	switch strings.ToLower(strings.TrimSpace(field)) {
	case FieldStance:
		return setParsed(value, ParseStance, b.SetStance)
	case FieldSpectrum:
		return setParsed(value, ParseSpectrum, b.SetSpectrum)
	case FieldTwoState:
		return setParsed(value, ParseTwoStateSolution, b.SetTwoStateSolution)
	case FieldSettlement:
		return setParsed(value, ParseSettlementPolicy, b.SetSettlementPolicy)
	case FieldReligion:
		return setParsed(value, ParseReligiousState, b.SetReligiousState)
	case FieldEconomy:
		return setParsed(value, ParseEconomicPolicy, b.SetEconomicPolicy)
	case FieldStyle:
		return setParsed(value, ParseDebateStyle, b.SetDebateStyle)
	case FieldPreference:
		return setParsed(value, ParseMatchPreference, b.SetMatchPreference)
	case FieldPrepTime:
		minutes, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("prep must be an integer: %w", err)
		}
		return b.SetPrepTime(minutes)
	default:
		return fmt.Errorf("unknown field %q (want one of %s)", field, strings.Join(Fields, "|"))
	}
}

// AddArgument appends a trimmed argument; blank text is ignored.
func (b *Builder) AddArgument(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	b.response.Arguments = append(b.response.Arguments, text)
	return true
}

func (b *Builder) RemoveArgument(index int) bool {
	if index < 0 || index >= len(b.response.Arguments) {
		return false
	}
	args := make([]string, 0, len(b.response.Arguments)-1)
	args = append(args, b.response.Arguments[:index]...)
	args = append(args, b.response.Arguments[index+1:]...)
	b.response.Arguments = args
	return true
}

// Build returns the finalized response.
func (b *Builder) Build() (Response, error) {
	if err := b.response.Validate(); err != nil {
		return Response{}, err
	}
	return b.response.Clone(), nil
}

func setParsed[T any](raw string, parse func(string) (T, error), set func(T) error) error {
	v, err := parse(raw)
	if err != nil {
		return err
	}
	return set(v)
}
