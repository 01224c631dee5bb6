package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
	sliderKnob  = "●"
	sliderTrack = "─"
)

// RenderScoreBar renders an automation score as [████░░░░]  70%, colored
// by the score's priority band.
func RenderScoreBar(score, width int) string {
	score = min(max(score, 0), 100)
	width = max(width, 2)

	filled := score * width / 100
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleRed
	switch {
	case score >= 80:
		style = StyleGreen
	case score >= 60:
		style = StyleYellow
	case score >= 40:
		style = StyleOrange
	}
	return fmt.Sprintf("[%s] %3d%%", style.Render(bar), score)
}

// RenderSlider draws a horizontal track with a knob at value's position
// between lo and hi, followed by the formatted value.
func RenderSlider(value, lo, hi, width int, label string) string {
	width = max(width, 3)
	pos := 0
	if hi > lo {
		pos = (min(max(value, lo), hi) - lo) * (width - 1) / (hi - lo)
	}
	track := StyleDim.Render(strings.Repeat(sliderTrack, pos)) +
		StyleHeader.Render(sliderKnob) +
		StyleDim.Render(strings.Repeat(sliderTrack, width-1-pos))
	return fmt.Sprintf("%s %s  %s", Dim(fmt.Sprint(lo)), track, Dim(fmt.Sprint(hi))) + "  " + StyleBold.Render(label)
}
