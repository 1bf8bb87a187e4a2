package tui

import (
	"fmt"
	"strings"

	"debatehub/internal/questionnaire"
)

func stepProgressLine(b *questionnaire.Builder, width int) string {
	const steps = questionnaire.StepPrefs
	barWidth := minInt(30, maxInt(12, width-34))
	bar := renderProgressBar(barWidth, b.Step(), steps)
	return fmt.Sprintf("step %d/%d  %s  %s", b.Step(), steps, bar, b.StepTitle())
}

func renderProgressBar(width int, current int, total int) string {
	if width <= 0 {
		return "[]"
	}
	if total <= 0 {
		if current <= 0 {
			return "[" + strings.Repeat("░", width) + "]"
		}
		return "[" + strings.Repeat("█", width) + "]"
	}

	ratio := float64(current) / float64(total)
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio * float64(width))
	if current > 0 && filled == 0 {
		filled = 1
	}
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

// spectrumMeter marks a position on the left-to-right spectrum scale.
func spectrumMeter(s questionnaire.Spectrum) string {
	idx := s.Index()
	if idx < 0 {
		return strings.Repeat("·", len(questionnaire.Spectrums))
	}
	return strings.Repeat("▯", idx) + "▮" + strings.Repeat("▯", len(questionnaire.Spectrums)-idx-1)
}
