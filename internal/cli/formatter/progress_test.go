package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderScoreBar(t *testing.T) {
	tests := []struct {
		score  int
		filled int
		pct    string
	}{
		{0, 0, "  0%"},
		{50, 5, " 50%"},
		{100, 10, "100%"},
		{140, 10, "100%"},
		{-5, 0, "  0%"},
	}
	for _, tt := range tests {
		out := RenderScoreBar(tt.score, 10)
		assert.Equal(t, tt.filled, strings.Count(out, filledBlock), "score %d", tt.score)
		assert.Equal(t, 10-tt.filled, strings.Count(out, emptyBlock), "score %d", tt.score)
		assert.True(t, strings.HasSuffix(out, tt.pct), "score %d: %q", tt.score, out)
	}
}

func TestRenderSlider_KnobPosition(t *testing.T) {
	knobAt := func(out string) int {
		// Track characters before the knob.
		before, _, _ := strings.Cut(out, sliderKnob)
		return strings.Count(before, sliderTrack)
	}

	assert.Equal(t, 0, knobAt(RenderSlider(0, 0, 100, 11, "0分")))
	assert.Equal(t, 5, knobAt(RenderSlider(50, 0, 100, 11, "50分")))
	assert.Equal(t, 10, knobAt(RenderSlider(100, 0, 100, 11, "100分")))
	assert.Equal(t, 10, knobAt(RenderSlider(500, 0, 100, 11, "")))
	assert.Contains(t, RenderSlider(30, 0, 60, 11, "30分"), "30分")
}

func TestRenderSlider_DegenerateRange(t *testing.T) {
	out := RenderSlider(5, 5, 5, 8, "")
	assert.Equal(t, 1, strings.Count(out, sliderKnob))
}
