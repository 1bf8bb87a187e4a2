package opponent

import "debatehub/internal/questionnaire"

// openingCandidates lists every reply the opening turn can produce for viewer.
func openingCandidates(viewer questionnaire.Response) []string {
	out := append([]string(nil), twoStateReplies[viewer.Policies.TwoStateSolution]...)
	return append(out, settlementReplies[viewer.Policies.SettlementPolicy]...)
}
