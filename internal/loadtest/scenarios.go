package loadtest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/alexanderramin/carte/internal/domain"
	"github.com/alexanderramin/carte/internal/intake"
	"github.com/alexanderramin/carte/internal/llm"
)

// Scenario names a load-test workload.
type Scenario string

const (
	ScenarioStream Scenario = "stream"
	ScenarioCarte  Scenario = "carte"
)

var Scenarios = []Scenario{ScenarioStream, ScenarioCarte}

// Label is the name written to the metrics file.
func (s Scenario) Label() string {
	switch s {
	case ScenarioStream:
		return "S1-Stream"
	case ScenarioCarte:
		return "S3-Carte"
	}
	return string(s)
}

func ParseScenario(s string) (Scenario, error) {
	for _, known := range Scenarios {
		if Scenario(s) == known {
			return known, nil
		}
	}
	return "", fmt.Errorf("invalid scenario %q (available: stream, carte)", s)
}

// Deps are the collaborators a scenario exercises.
type Deps struct {
	Chat    llm.ChatTransport
	Synth   intake.RecordSynthesizer
	Backend string
}

var errMissingWorkID = errors.New("generated carte is invalid or missing workId")

const summaryRunes = 200

// sampleTranscript is a complete short interview about a weekly report.
var sampleTranscript = []domain.ChatMessage{
	{ID: "1", Sender: domain.SenderUser, Text: "週次レポート作成業務を改善したい"},
	{ID: "2", Sender: domain.SenderAssistant, Text: "どのようなレポートですか？"},
	{ID: "3", Sender: domain.SenderUser, Text: "Excelで売上データをまとめてPowerPointに貼り付ける作業です"},
	{ID: "4", Sender: domain.SenderAssistant, Text: "ありがとうございます。次に、業務の量についていくつか質問します。"},
	{ID: "5", Sender: domain.SenderUser, Text: "週に1回、2時間かかります。担当は3名です。"},
	{ID: "6", Sender: domain.SenderAssistant, Text: "最後に、この業務に分かりやすい名前を付けてください。"},
	{ID: "7", Sender: domain.SenderUser, Text: "週次売上レポート作成"},
}

// runStream opens a session and sends the begin message.
func runStream(ctx context.Context, deps Deps) (string, error) {
	session, err := deps.Chat.StartSession(ctx, intake.SystemInstruction)
	if err != nil {
		return "", err
	}
	text, err := session.Send(ctx, intake.BeginMessage)
	if err != nil {
		return "", err
	}
	return summarizeReply(text), nil
}

func runCarte(ctx context.Context, deps Deps) (string, error) {
	transcript := make([]domain.ChatMessage, len(sampleTranscript))
	copy(transcript, sampleTranscript)

	rec, err := deps.Synth.Synthesize(ctx, transcript)
	if err != nil {
		return "", err
	}
	if rec == nil || rec.WorkID == "" {
		return "", errMissingWorkID
	}
	return fmt.Sprintf("ID: %s, Title: %s", rec.WorkID, rec.Title), nil
}

// summarizeReply keeps the first 200 characters with newlines and commas
// blanked so the summary stays one CSV cell.
func summarizeReply(text string) string {
	if utf8.RuneCountInString(text) > summaryRunes {
		text = string([]rune(text)[:summaryRunes])
	}
	return strings.NewReplacer("\n", " ", ",", " ").Replace(text)
}
