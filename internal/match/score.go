package match

import (
	"fmt"
	"strings"

	"debatehub/internal/questionnaire"
)

const (
	maxScore       = 100
	spectrumWeight = 20
	anyPreference  = 50
	policyWeight   = 15
	styleWeight    = 20
)

// Result is a 0-100 compatibility score with ordered, human-readable reasons.
type Result struct {
	Score       int      `json:"score"`
	Explanation []string `json:"explanation"`
}

// Score rates counterpart against the viewer's preferences. Explanation order
// is spectrum note, then policy notes, then the style note.
func Score(viewer, counterpart questionnaire.Response) Result {
	score := 0
	var explanation []string

	distance := questionnaire.SpectrumDistance(viewer.Spectrum, counterpart.Spectrum)
	switch viewer.MatchPreference {
	case questionnaire.PreferSimilar:
		score += (5 - distance) * spectrumWeight
		if distance < 2 {
			explanation = append(explanation, "Political views closely aligned")
		}
	case questionnaire.PreferOpposite:
		score += distance * spectrumWeight
		if distance > 3 {
			explanation = append(explanation, "Opposing political perspectives")
		}
	default:
		score += anyPreference
	}

	policyScore, policyNotes := comparePolicies(viewer.Policies, counterpart.Policies)
	score += policyScore
	explanation = append(explanation, policyNotes...)

	if viewer.Style == counterpart.Style {
		score += styleWeight
		explanation = append(explanation, fmt.Sprintf("Matching debate style: %s", viewer.Style))
	}

	return Result{Score: clamp(score, 0, maxScore), Explanation: explanation}
}

// Summary is the opening system message of a debate room.
func (r Result) Summary() string {
	lines := append([]string{fmt.Sprintf("Debate started! Match score: %d%%", r.Score)}, r.Explanation...)
	return strings.Join(lines, "\n")
}

func comparePolicies(a, b questionnaire.Policies) (int, []string) {
	score := 0
	var notes []string
	if a.TwoStateSolution == b.TwoStateSolution {
		score += policyWeight
		notes = append(notes, "Similar views on two-state solution")
	}
	if a.SettlementPolicy == b.SettlementPolicy {
		score += policyWeight
		notes = append(notes, "Matching settlement policy stance")
	}
	if a.ReligiousState == b.ReligiousState {
		score += policyWeight
		notes = append(notes, "Similar views on religion and state")
	}
	if a.EconomicPolicy == b.EconomicPolicy {
		score += policyWeight
		notes = append(notes, "Matching economic policy preferences")
	}
	return score, notes
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
