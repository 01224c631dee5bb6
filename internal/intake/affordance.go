package intake

import (
	"strconv"
	"strings"

	"github.com/alexanderramin/carte/internal/domain"
)

// AffordanceKind is the input control offered for the next user turn.
type AffordanceKind string

const (
	AffordanceNone     AffordanceKind = "none"
	AffordanceNumeric  AffordanceKind = "boundedNumeric"
	AffordanceFreeText AffordanceKind = "freeText"
)

// Unit is the unit of a bounded numeric answer.
type Unit string

const (
	UnitMinutes Unit = "minutes"
	UnitHours   Unit = "hours"
	UnitCount   Unit = "count"
)

// Label is the suffix appended to a numeric answer sent to the model.
func (u Unit) Label() string {
	switch u {
	case UnitMinutes:
		return "分"
	case UnitHours:
		return "時間"
	case UnitCount:
		return "回"
	default:
		return ""
	}
}

// Affordance describes the input control for the next user turn. Min, Max,
// Step and Default are set only for AffordanceNumeric; Suggestions only for
// AffordanceFreeText.
type Affordance struct {
	Kind        AffordanceKind
	Unit        Unit
	Min         int
	Max         int
	Step        int
	Default     int
	Suggestions []string
}

type numericCue struct {
	unit      Unit
	fragments []string
	min       int
	max       int
	step      int
	def       int
}

// numericCues are checked in order; the first match wins.
var numericCues = []numericCue{
	{unit: UnitMinutes, fragments: []string{"何分", "分で"}, min: 5, max: 480, step: 5, def: 30},
	{unit: UnitHours, fragments: []string{"何時間"}, min: 1, max: 24, step: 1, def: 2},
	{unit: UnitCount, fragments: []string{"何回", "回数"}, min: 1, max: 100, step: 1, def: 10},
}

// SelectAffordance derives the input control from the latest assistant
// message. It is a pure function of its arguments.
func SelectAffordance(transcript []domain.ChatMessage, busy bool) Affordance {
	if busy {
		return Affordance{Kind: AffordanceNone}
	}
	last, ok := domain.LatestAssistant(transcript)
	if !ok {
		return Affordance{Kind: AffordanceNone}
	}

	for _, cue := range numericCues {
		for _, f := range cue.fragments {
			if strings.Contains(last.Text, f) {
				return Affordance{
					Kind:    AffordanceNumeric,
					Unit:    cue.unit,
					Min:     cue.min,
					Max:     cue.max,
					Step:    cue.step,
					Default: cue.def,
				}
			}
		}
	}

	suggestions := make([]string, len(last.Suggestions))
	copy(suggestions, last.Suggestions)
	return Affordance{Kind: AffordanceFreeText, Suggestions: suggestions}
}

// Clamp snaps value to the nearest step and bounds it to [Min, Max].
func (a Affordance) Clamp(value int) int {
	if a.Kind != AffordanceNumeric {
		return value
	}
	if a.Step > 0 {
		offset := value - a.Min
		steps := (offset + a.Step/2) / a.Step
		if offset < 0 {
			steps = 0
		}
		value = a.Min + steps*a.Step
	}
	return max(a.Min, min(a.Max, value))
}

// Answer formats a numeric answer the way it is sent to the model,
// e.g. "30分".
func (a Affordance) Answer(value int) string {
	return strconv.Itoa(a.Clamp(value)) + a.Unit.Label()
}
