package cli

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/carte/internal/domain"
	"github.com/alexanderramin/carte/internal/intake"
	"github.com/alexanderramin/carte/internal/llm"
	"github.com/alexanderramin/carte/internal/service"
	"github.com/alexanderramin/carte/internal/teatest"
	"github.com/alexanderramin/carte/internal/testutil"
)

// scriptedChat is both transport and session; it answers each Send with
// the next scripted reply.
type scriptedChat struct {
	mu      sync.Mutex
	replies []string
	sent    []string
}

func (c *scriptedChat) StartSession(context.Context, string) (llm.ChatSession, error) {
	return c, nil
}

func (c *scriptedChat) Send(_ context.Context, message string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, message)
	if len(c.replies) == 0 {
		return "", errors.New("script exhausted")
	}
	r := c.replies[0]
	c.replies = c.replies[1:]
	return r, nil
}

func (c *scriptedChat) messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.sent...)
}

type stubSynth struct {
	rec *domain.WorkRecord
	err error
}

func (s *stubSynth) Synthesize(context.Context, []domain.ChatMessage) (*domain.WorkRecord, error) {
	return s.rec, s.err
}

func newInterviewDriver(t *testing.T, chat *scriptedChat, synth intake.RecordSynthesizer) (*teatest.Driver, service.RecordService) {
	t.Helper()
	app := testApp(t)
	m := newInterviewModel(context.Background(), chat, synth, app.Records, app.UserID)
	d := teatest.New(t, m, teatest.WithSize(100, 40))
	d.DrainInit()
	return d, app.Records
}

func model(d *teatest.Driver) *interviewModel {
	return d.Model.(*interviewModel)
}

func TestInterviewView_FullFlowSavesRecord(t *testing.T) {
	chat := &scriptedChat{replies: []string{
		`{"text":"どのような業務を改善したいですか？","suggestions":["資料作成","データ入力"]}`,
		`{"text":"どのくらいの頻度ですか？","suggestions":["毎日","週次","月次"]}`,
		`{"text":"1回あたり、平均で何分かかりますか？","suggestions":[]}`,
		`{"text":"` + intake.Sentinel + `","suggestions":[]}`,
	}}
	rec := testutil.NewTestRecord("週次売上レポート作成", testutil.WithWorkID("W01"))
	d, records := newInterviewDriver(t, chat, &stubSynth{rec: rec})

	assert.Contains(t, d.View(), "どのような業務を改善したいですか？")
	assert.Contains(t, d.View(), "[1] 資料作成")

	d.Type("売上レポート作成")
	d.PressEnter()
	assert.Contains(t, d.View(), "売上レポート作成")
	assert.Contains(t, d.View(), "どのくらいの頻度ですか？")

	// Empty input sends the selected chip.
	d.PressTab()
	d.PressEnter()

	// Numeric question shows the slider at its default.
	assert.Contains(t, d.View(), "30分")
	d.PressRight()
	d.PressRight()
	d.PressLeft()
	assert.Contains(t, d.View(), "35分")
	d.PressEnter()

	require.True(t, d.Quitting, "saving the record quits the program")
	m := model(d)
	require.NoError(t, m.err)
	require.NotNil(t, m.saved)
	assert.Equal(t, "W01", m.saved.Record.WorkID)

	assert.Equal(t, []string{intake.BeginMessage, "売上レポート作成", "週次", "35分"}, chat.messages())

	list, err := records.List(context.Background(), "u1", service.SortDefault)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "週次売上レポート作成", list[0].Record.Title)
}

func TestInterviewView_TypedTextOverridesSlider(t *testing.T) {
	chat := &scriptedChat{replies: []string{
		`{"text":"月に何回実施しますか？","suggestions":[]}`,
		`{"text":"ありがとうございます。","suggestions":[]}`,
	}}
	d, _ := newInterviewDriver(t, chat, &stubSynth{})

	d.Type("約12回")
	d.PressEnter()
	assert.Equal(t, []string{intake.BeginMessage, "約12回"}, chat.messages())
}

func TestInterviewView_SliderClampsAtBounds(t *testing.T) {
	chat := &scriptedChat{replies: []string{
		`{"text":"何時間かかりますか？","suggestions":[]}`,
	}}
	d, _ := newInterviewDriver(t, chat, &stubSynth{})

	for range 30 {
		d.PressRight()
	}
	assert.Equal(t, 24, model(d).slider)
	for range 30 {
		d.PressLeft()
	}
	assert.Equal(t, 1, model(d).slider)
}

func TestInterviewView_EmptyEnterWithoutSuggestionsDoesNothing(t *testing.T) {
	chat := &scriptedChat{replies: []string{
		`{"text":"業務の流れを教えてください。","suggestions":[]}`,
	}}
	d, _ := newInterviewDriver(t, chat, &stubSynth{})

	d.PressEnter()
	assert.Equal(t, []string{intake.BeginMessage}, chat.messages())
	assert.False(t, d.Quitting)
}

func TestInterviewView_SynthesisFailureKeepsInterviewOpen(t *testing.T) {
	chat := &scriptedChat{replies: []string{
		`{"text":"最後に、この業務に分かりやすい名前を付けてください。","suggestions":[]}`,
		`{"text":"` + intake.Sentinel + `","suggestions":[]}`,
	}}
	d, _ := newInterviewDriver(t, chat, &stubSynth{err: intake.ErrMissingField})

	d.Type("週次売上レポート作成")
	d.PressEnter()

	assert.False(t, d.Quitting)
	assert.Nil(t, model(d).saved)
	assert.Contains(t, d.View(), intake.SynthesisFailText)
}

func TestInterviewView_TransportFailureShowsApology(t *testing.T) {
	chat := &scriptedChat{replies: []string{
		`{"text":"こんにちは。","suggestions":[]}`,
	}}
	d, _ := newInterviewDriver(t, chat, &stubSynth{})

	d.Type("テスト")
	d.PressEnter()
	assert.Contains(t, d.View(), intake.TransportFailText)
	assert.False(t, model(d).busy)
}

func TestInterviewView_EscQuits(t *testing.T) {
	chat := &scriptedChat{replies: []string{`{"text":"こんにちは。","suggestions":[]}`}}
	d, _ := newInterviewDriver(t, chat, &stubSynth{})

	d.PressEsc()
	assert.True(t, d.Quitting)
	assert.Nil(t, model(d).saved)
}

func TestTailLines(t *testing.T) {
	blocks := []string{"a\nb", "c", "d\ne"}
	assert.Equal(t, []string{"c", "d", "e"}, tailLines(blocks, 3))
	assert.Equal(t, blocks, tailLines(blocks, 0))
}
