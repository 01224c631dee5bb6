package intake

import (
	"errors"

	"github.com/alexanderramin/carte/internal/llm"
)

// Reply is one decoded assistant turn.
type Reply struct {
	Text        string
	Suggestions []string
}

// replyPayload is the JSON structure the model outputs at each turn.
type replyPayload struct {
	Text        *string  `json:"text"`
	Suggestions []string `json:"suggestions"`
}

var errNoText = errors.New("reply has no text field")

// Decode turns raw model output into a Reply. Only the first complete
// top-level object is parsed; anything after it is discarded. The object
// must be standard JSON. When it cannot be parsed the whole raw input
// becomes the text. Decode never fails.
func Decode(raw string) Reply {
	payload, err := llm.ParseObject(raw, func(p replyPayload) error {
		if p.Text == nil {
			return errNoText
		}
		return nil
	})
	if err != nil {
		return Reply{Text: raw, Suggestions: []string{}}
	}

	suggestions := payload.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}
	return Reply{Text: *payload.Text, Suggestions: suggestions}
}
