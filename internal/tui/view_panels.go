package tui

import (
	"fmt"
	"strconv"
	"strings"

	"debatehub/internal/questionnaire"
)

// prepStep is the prep-time increment for Left/Right, in minutes.
const prepStep = 5

type fieldRow struct {
	field   string
	title   string
	value   string
	options []string
}

func questionRows(b *questionnaire.Builder) []fieldRow {
	cur := b.Current()
	switch b.Step() {
	case questionnaire.StepAlignment:
		return []fieldRow{
			{questionnaire.FieldSpectrum, "Political spectrum", string(cur.Spectrum), optionStrings(questionnaire.Spectrums)},
			{questionnaire.FieldStance, "Stance on the topic", string(cur.Stance), optionStrings(questionnaire.Stances)},
		}
	case questionnaire.StepPolicies:
		return []fieldRow{
			{questionnaire.FieldTwoState, "Two-state solution", string(cur.Policies.TwoStateSolution), optionStrings(questionnaire.TwoStateSolutions)},
			{questionnaire.FieldSettlement, "Settlement policy", string(cur.Policies.SettlementPolicy), optionStrings(questionnaire.SettlementPolicies)},
			{questionnaire.FieldReligion, "Religion and state", string(cur.Policies.ReligiousState), optionStrings(questionnaire.ReligiousStates)},
			{questionnaire.FieldEconomy, "Economic policy", string(cur.Policies.EconomicPolicy), optionStrings(questionnaire.EconomicPolicies)},
		}
	case questionnaire.StepPrefs:
		return []fieldRow{
			{questionnaire.FieldPreference, "Match me with", string(cur.MatchPreference), optionStrings(questionnaire.MatchPreferences)},
			{questionnaire.FieldStyle, "Debate style", string(cur.Style), optionStrings(questionnaire.DebateStyles)},
			{questionnaire.FieldPrepTime, "Prep time (min)", strconv.Itoa(cur.PrepTime), nil},
		}
	default:
		return nil
	}
}

// cycleField moves the value of row index by delta, wrapping around the
// option list. Prep time steps by prepStep and stops at zero.
func cycleField(b *questionnaire.Builder, index int, delta int) error {
	rows := questionRows(b)
	if index < 0 || index >= len(rows) {
		return nil
	}
	row := rows[index]
	if row.field == questionnaire.FieldPrepTime {
		return b.SetPrepTime(maxInt(0, b.Current().PrepTime+delta*prepStep))
	}
	if len(row.options) == 0 {
		return nil
	}
	at := 0
	for i, o := range row.options {
		if o == row.value {
			at = i
			break
		}
	}
	next := (at + delta + len(row.options)) % len(row.options)
	return b.Set(row.field, row.options[next])
}

func optionStrings[T ~string](values []T) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, string(v))
	}
	return out
}

func (m model) buildQuestionnairePanel(width int, maxLines int) string {
	b := m.sess.Questionnaire()
	if b == nil {
		return ""
	}
	lines := []string{truncateText(stepProgressLine(b, width), width), ""}

	if b.Step() == questionnaire.StepArguments {
		args := b.Current().Arguments
		if len(args) == 0 {
			lines = append(lines, "(no arguments yet)")
		}
		for i, arg := range args {
			lines = append(lines, truncateText(fmt.Sprintf("%d. %s", i+1, arg), width))
		}
		lines = append(lines, "", truncateText("Enter adds · Ctrl+D removes last · Enter on empty continues", width))
	} else {
		for i, row := range questionRows(b) {
			marker := " "
			if i == m.fieldCursor {
				marker = ">"
			}
			lines = append(lines,
				fmt.Sprintf("%s %s", marker, truncateText(row.title, width-2)),
				"    "+truncateText("< "+labelFor(row)+" >", width-4),
			)
		}
	}

	next := "Enter next"
	if b.IsLastStep() {
		next = "Enter start debate"
	}
	lines = append(lines, "", truncateText(next+" · Shift+Tab back · Esc cancel", width))
	return strings.Join(clipLines(lines, maxLines), "\n")
}

func labelFor(row fieldRow) string {
	if row.options == nil {
		return row.value
	}
	return questionnaire.Label(row.value)
}

func (m model) buildProfilePanel(width int, maxLines int) string {
	user := m.sess.User()
	interests := "-"
	if len(user.Interests) > 0 {
		interests = strings.Join(user.Interests, ", ")
	}
	lines := []string{
		truncateText(user.Name, width),
		truncateText("experience: "+questionnaire.Label(user.Experience), width),
		truncateText("spectrum: "+questionnaire.Label(user.Spectrum)+" "+spectrumMeter(user.Spectrum), width),
		truncateText("interests: "+interests, width),
		"",
		truncateText("topic: "+m.sess.Topic(), width),
	}
	if m.sess.IsMatching() {
		lines = append(lines, "", m.spin.View()+" Finding a debate partner...")
	} else {
		lines = append(lines, "", "Enter  Start Matching")
	}
	return strings.Join(clipLines(lines, maxLines), "\n")
}

func (m model) buildRoomPanel(width int, maxLines int) string {
	room := m.sess.Room()
	if room == nil {
		return ""
	}
	lines := []string{
		truncateText(room.Topic, width),
		truncateText(fmt.Sprintf("%d minutes · %s · %s", room.DurationMinutes, room.Mode, room.Status), width),
		fmt.Sprintf("messages: %d", len(m.sess.Messages())),
	}
	if resp, ok := m.sess.Response(); ok {
		lines = append(lines,
			"",
			truncateText("you: "+questionnaire.Label(resp.Stance)+" · "+questionnaire.Label(resp.Spectrum), width),
			truncateText("style: "+questionnaire.Label(resp.Style), width),
		)
	}
	if m.pendingReplies > 0 {
		lines = append(lines, "", "opponent is typing...")
	}
	lines = append(lines, "", "Esc or /leave  Leave")
	return strings.Join(clipLines(lines, maxLines), "\n")
}

func clipLines(lines []string, maxLines int) []string {
	if maxLines <= 0 || len(lines) <= maxLines {
		return lines
	}
	return lines[:maxLines]
}
