package questionnaire

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSpectrumDistance(t *testing.T) {
	for i, a := range Spectrums {
		for j, b := range Spectrums {
			want := i - j
			if want < 0 {
				want = -want
			}
			if got := SpectrumDistance(a, b); got != want {
				t.Fatalf("SpectrumDistance(%s,%s)=%d, want %d", a, b, got, want)
			}
			if SpectrumDistance(a, b) != SpectrumDistance(b, a) {
				t.Fatalf("distance not symmetric for %s,%s", a, b)
			}
		}
	}
	if len(Spectrums) != 5 {
		t.Fatalf("expected 5 spectrum positions, got %d", len(Spectrums))
	}
}

func TestParseEnums(t *testing.T) {
	s, err := ParseSpectrum("  Center-Right ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != SpectrumCenterRight {
		t.Fatalf("unexpected spectrum: %s", s)
	}

	if _, err := ParseSettlementPolicy("annex"); err == nil {
		t.Fatal("expected error for unknown settlement policy")
	} else if !strings.Contains(err.Error(), "expand|freeze|withdraw") {
		t.Fatalf("expected legal values in error, got %v", err)
	}
}

func TestLabel(t *testing.T) {
	if got := Label(SpectrumCenterLeft); got != "Center Left" {
		t.Fatalf("unexpected label: %q", got)
	}
	if got := Label(StyleFactual); got != "Factual" {
		t.Fatalf("unexpected label: %q", got)
	}
}

func TestBuilderDefaults(t *testing.T) {
	b := NewBuilder()
	if b.Step() != StepAlignment {
		t.Fatalf("unexpected start step: %d", b.Step())
	}
	resp, err := b.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Spectrum != SpectrumCenter || resp.Policies.SettlementPolicy != SettlementFreeze || resp.MatchPreference != PreferAny {
		t.Fatalf("unexpected defaults: %#v", resp)
	}
	if resp.PrepTime != 5 {
		t.Fatalf("unexpected prep time: %d", resp.PrepTime)
	}
}

func TestBuilderStepsClamp(t *testing.T) {
	b := NewBuilder()
	b.Back()
	if b.Step() != StepAlignment {
		t.Fatalf("expected clamp at first step, got %d", b.Step())
	}
	for i := 0; i < 10; i++ {
		b.Next()
	}
	if !b.IsLastStep() || b.StepTitle() != "Debate Preferences" {
		t.Fatalf("expected last step, got %d %q", b.Step(), b.StepTitle())
	}
}

func TestBuilderSetRejectsInvalidValue(t *testing.T) {
	b := NewBuilder()
	if err := b.Set(FieldEconomy, "feudal"); err == nil {
		t.Fatal("expected error for invalid economy")
	}
	if err := b.Set("color", "blue"); err == nil {
		t.Fatal("expected error for unknown field")
	}
	if err := b.Set(FieldPrepTime, "-1"); err == nil {
		t.Fatal("expected error for negative prep time")
	}
	if got := b.Current().Policies.EconomicPolicy; got != EconomicMixed {
		t.Fatalf("builder changed on rejected set: %s", got)
	}

	if err := b.Set(FieldTwoState, "SUPPORT"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := b.Set(FieldPrepTime, " 12 "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp, _ := b.Build()
	if resp.Policies.TwoStateSolution != TwoStateSupport || resp.PrepTime != 12 {
		t.Fatalf("unexpected response: %#v", resp)
	}
}

func TestBuilderArguments(t *testing.T) {
	b := NewBuilder()
	if b.AddArgument("   ") {
		t.Fatal("expected blank argument to be ignored")
	}
	b.AddArgument(" first ")
	b.AddArgument("second")
	b.AddArgument("third")
	if !b.RemoveArgument(1) {
		t.Fatal("expected remove to succeed")
	}
	if b.RemoveArgument(5) {
		t.Fatal("expected out-of-range remove to fail")
	}
	resp, _ := b.Build()
	if strings.Join(resp.Arguments, ",") != "first,third" {
		t.Fatalf("unexpected arguments: %#v", resp.Arguments)
	}
}

func TestBuildReturnsIndependentCopy(t *testing.T) {
	b := NewBuilder()
	b.AddArgument("one")
	resp, _ := b.Build()
	b.AddArgument("two")
	resp.Arguments[0] = "mutated"
	again, _ := b.Build()
	if len(resp.Arguments) != 1 || again.Arguments[0] != "one" {
		t.Fatalf("built response shares state with builder: %#v %#v", resp.Arguments, again.Arguments)
	}
}

func TestValidateReportsEveryField(t *testing.T) {
	err := Response{PrepTime: -3}.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"stance", "spectrum", "two-state", "settlement", "religious", "economic", "style", "preference", "prep time"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in %v", want, err)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opponent.yaml")
	doc := `stance: " For "
spectrum: Left
arguments: ["  occupation costs ", ""]
policies:
  two_state_solution: support
  settlement_policy: withdraw
  religious_state: secular
  economic_policy: socialist
style: philosophical
prep_time: 10
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	resp, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Stance != StanceFor || resp.Spectrum != SpectrumLeft {
		t.Fatalf("unexpected stance/spectrum: %#v", resp)
	}
	if resp.MatchPreference != PreferAny {
		t.Fatalf("expected default preference any, got %s", resp.MatchPreference)
	}
	if len(resp.Arguments) != 1 || resp.Arguments[0] != "occupation costs" {
		t.Fatalf("unexpected arguments: %#v", resp.Arguments)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opponent.yaml")
	if err := os.WriteFile(path, []byte("stance: maybe\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Fatal("expected validation error")
	}
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected read error")
	}
}

func TestMockOpponentIsValid(t *testing.T) {
	if err := MockOpponent().Validate(); err != nil {
		t.Fatalf("mock opponent invalid: %v", err)
	}
}
