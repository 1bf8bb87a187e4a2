package questionnaire

import (
	"errors"
	"fmt"
	"strings"
)

// Policies is the four-field policy bundle. Fields are independent.
type Policies struct {
	TwoStateSolution TwoStateSolution `json:"two_state_solution" yaml:"two_state_solution"`
	SettlementPolicy SettlementPolicy `json:"settlement_policy" yaml:"settlement_policy"`
	ReligiousState   ReligiousState   `json:"religious_state" yaml:"religious_state"`
	EconomicPolicy   EconomicPolicy   `json:"economic_policy" yaml:"economic_policy"`
}

type Response struct {
	Stance          Stance          `json:"stance" yaml:"stance"`
	Spectrum        Spectrum        `json:"spectrum" yaml:"spectrum"`
	Arguments       []string        `json:"arguments,omitempty" yaml:"arguments,omitempty"`
	Policies        Policies        `json:"policies" yaml:"policies"`
	Style           DebateStyle     `json:"style" yaml:"style"`
	PrepTime        int             `json:"prep_time" yaml:"prep_time"`
	MatchPreference MatchPreference `json:"preference" yaml:"preference"`
}

type Profile struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Experience Experience `json:"experience"`
	Spectrum   Spectrum   `json:"spectrum"`
	Interests  []string   `json:"interests,omitempty"`
}

// DefaultResponse is the starting point of every questionnaire.
func DefaultResponse() Response {
	return Response{
		Stance:   StanceNeutral,
		Spectrum: SpectrumCenter,
		Policies: Policies{
			TwoStateSolution: TwoStateNeutral,
			SettlementPolicy: SettlementFreeze,
			ReligiousState:   ReligiousSecular,
			EconomicPolicy:   EconomicMixed,
		},
		Style:           StyleFactual,
		PrepTime:        5,
		MatchPreference: PreferAny,
	}
}

// MockOpponent is the scripted counterpart every user is matched against.
func MockOpponent() Response {
	return Response{
		Stance:   StanceAgainst,
		Spectrum: SpectrumCenterRight,
		Policies: Policies{
			TwoStateSolution: TwoStateOppose,
			SettlementPolicy: SettlementExpand,
			ReligiousState:   ReligiousTraditional,
			EconomicPolicy:   EconomicCapitalist,
		},
		Style:           StyleFactual,
		PrepTime:        5,
		MatchPreference: PreferAny,
	}
}

func (r Response) Validate() error {
	var errs []error
	if !r.Stance.Valid() {
		errs = append(errs, fmt.Errorf("invalid stance %q", r.Stance))
	}
	if !r.Spectrum.Valid() {
		errs = append(errs, fmt.Errorf("invalid spectrum %q", r.Spectrum))
	}
	if !r.Policies.TwoStateSolution.Valid() {
		errs = append(errs, fmt.Errorf("invalid two-state solution %q", r.Policies.TwoStateSolution))
	}
	if !r.Policies.SettlementPolicy.Valid() {
		errs = append(errs, fmt.Errorf("invalid settlement policy %q", r.Policies.SettlementPolicy))
	}
	if !r.Policies.ReligiousState.Valid() {
		errs = append(errs, fmt.Errorf("invalid religious state %q", r.Policies.ReligiousState))
	}
	if !r.Policies.EconomicPolicy.Valid() {
		errs = append(errs, fmt.Errorf("invalid economic policy %q", r.Policies.EconomicPolicy))
	}
	if !r.Style.Valid() {
		errs = append(errs, fmt.Errorf("invalid debate style %q", r.Style))
	}
	if !r.MatchPreference.Valid() {
		errs = append(errs, fmt.Errorf("invalid match preference %q", r.MatchPreference))
	}
	if r.PrepTime < 0 {
		errs = append(errs, fmt.Errorf("prep time must be >= 0, got %d", r.PrepTime))
	}
	return errors.Join(errs...)
}

// Clone returns a copy that shares no slices with r.
func (r Response) Clone() Response {
	out := r
	out.Arguments = append([]string(nil), r.Arguments...)
	return out
}

func (p Profile) Clone() Profile {
	out := p
	out.Interests = append([]string(nil), p.Interests...)
	return out
}

func trimNonEmpty(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
