package domain

// ChatMessage is one visible turn of an interview transcript.
// Messages are appended in order and never mutated afterwards.
type ChatMessage struct {
	ID          string   `json:"id"`
	Sender      Sender   `json:"sender"`
	Text        string   `json:"text"`
	Suggestions []string `json:"suggestions"`
}

func (m ChatMessage) FromAssistant() bool {
	return m.Sender == SenderAssistant
}

// LatestAssistant returns the most recent assistant message, if any.
func LatestAssistant(transcript []ChatMessage) (ChatMessage, bool) {
	for i := len(transcript) - 1; i >= 0; i-- {
		if transcript[i].FromAssistant() {
			return transcript[i], true
		}
	}
	return ChatMessage{}, false
}
