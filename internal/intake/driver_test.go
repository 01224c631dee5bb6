package intake

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/alexanderramin/carte/internal/domain"
	"github.com/alexanderramin/carte/internal/llm"
)

type fakeReply struct {
	text string
	err  error
}

type fakeSession struct {
	mu      sync.Mutex
	replies []fakeReply
	sent    []string
	gate    chan struct{} // when set, Send blocks until it is closed
}

func (s *fakeSession) Send(ctx context.Context, message string) (string, error) {
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, message)
	if len(s.replies) == 0 {
		return "", errors.New("no scripted reply")
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	return r.text, r.err
}

func (s *fakeSession) script(replies ...fakeReply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies = append(s.replies, replies...)
}

type fakeTransport struct {
	session *fakeSession
	err     error
	system  string
}

func (t *fakeTransport) StartSession(_ context.Context, systemInstruction string) (llm.ChatSession, error) {
	t.system = systemInstruction
	if t.err != nil {
		return nil, t.err
	}
	return t.session, nil
}

type fakeSynth struct {
	rec   *domain.WorkRecord
	err   error
	calls int
	got   []domain.ChatMessage
}

func (s *fakeSynth) Synthesize(_ context.Context, transcript []domain.ChatMessage) (*domain.WorkRecord, error) {
	s.calls++
	s.got = transcript
	if s.err != nil {
		return nil, s.err
	}
	return s.rec, nil
}

func scripted(text string) fakeReply { return fakeReply{text: text} }

func startedDriver(t *testing.T, synth RecordSynthesizer, opts ...DriverOption) (*Driver, *fakeSession) {
	t.Helper()
	session := &fakeSession{}
	session.script(scripted(`{"text":"どのような業務を改善したいですか？","suggestions":["資料作成","データ入力"]}`))
	d := NewDriver(&fakeTransport{session: session}, synth, opts...)
	require.NoError(t, d.Start(context.Background()))
	return d, session
}

func TestDriver_StartShowsGreetingWithChips(t *testing.T) {
	transport := &fakeTransport{session: &fakeSession{}}
	transport.session.script(scripted(`{"text":"どのような業務を改善したいですか？","suggestions":["資料作成","データ入力"]}`))
	d := NewDriver(transport, &fakeSynth{})

	require.NoError(t, d.Start(context.Background()))

	assert.Equal(t, SystemInstruction, transport.system)
	assert.Equal(t, []string{BeginMessage}, transport.session.sent)
	transcript := d.Transcript()
	require.Len(t, transcript, 1)
	assert.Equal(t, domain.SenderAssistant, transcript[0].Sender)
	assert.Equal(t, "どのような業務を改善したいですか？", transcript[0].Text)
	assert.False(t, d.AwaitingModel())

	aff := d.Affordance()
	assert.Equal(t, AffordanceFreeText, aff.Kind)
	assert.Equal(t, []string{"資料作成", "データ入力"}, aff.Suggestions)
}

func TestDriver_StartFailure(t *testing.T) {
	session := &fakeSession{}
	session.script(fakeReply{err: llm.ErrProviderUnavailable})
	d := NewDriver(&fakeTransport{session: session}, &fakeSynth{})

	err := d.Start(context.Background())

	assert.ErrorIs(t, err, llm.ErrProviderUnavailable)
	transcript := d.Transcript()
	require.Len(t, transcript, 1)
	assert.Equal(t, StartFailedText, transcript[0].Text)
	assert.False(t, d.AwaitingModel())
	assert.False(t, d.Submit(context.Background(), "hello"))
	assert.Len(t, d.Transcript(), 1)
}

func TestDriver_StartSessionFailure(t *testing.T) {
	d := NewDriver(&fakeTransport{err: errors.New("no credentials")}, &fakeSynth{})

	require.Error(t, d.Start(context.Background()))
	assert.Equal(t, StartFailedText, d.Transcript()[0].Text)
}

func TestDriver_StartTwice(t *testing.T) {
	d, _ := startedDriver(t, &fakeSynth{})
	assert.ErrorIs(t, d.Start(context.Background()), ErrAlreadyStarted)
}

func TestDriver_SubmitAppendsInOrder(t *testing.T) {
	d, session := startedDriver(t, &fakeSynth{})
	session.script(scripted(`{"text":"1回あたり、平均で何分かかりますか？","suggestions":[]}`))

	require.True(t, d.Submit(context.Background(), "  週次レポート作成  "))

	transcript := d.Transcript()
	require.Len(t, transcript, 3)
	assert.Equal(t, domain.SenderUser, transcript[1].Sender)
	assert.Equal(t, "週次レポート作成", transcript[1].Text)
	assert.Equal(t, "1回あたり、平均で何分かかりますか？", transcript[2].Text)
	assert.Equal(t, Affordance{Kind: AffordanceNumeric, Unit: UnitMinutes, Min: 5, Max: 480, Step: 5, Default: 30}, d.Affordance())

	ids := map[string]bool{}
	for _, m := range transcript {
		assert.False(t, ids[m.ID], "duplicate id %s", m.ID)
		ids[m.ID] = true
	}
}

func TestDriver_SubmitBlankIsNoop(t *testing.T) {
	d, session := startedDriver(t, &fakeSynth{})

	assert.False(t, d.Submit(context.Background(), "   "))
	assert.Len(t, d.Transcript(), 1)
	assert.Equal(t, []string{BeginMessage}, session.sent)
}

func TestDriver_SubmitWhileAwaitingIsNoop(t *testing.T) {
	defer goleak.VerifyNone(t)

	d, session := startedDriver(t, &fakeSynth{})
	session.gate = make(chan struct{})
	session.script(scripted(`{"text":"ありがとうございます。","suggestions":[]}`))

	done := make(chan bool)
	go func() { done <- d.Submit(context.Background(), "first") }()

	require.Eventually(t, d.AwaitingModel, time.Second, time.Millisecond)
	assert.Equal(t, AffordanceNone, d.Affordance().Kind)

	before := d.Transcript()
	assert.False(t, d.Submit(context.Background(), "second"))
	assert.Equal(t, before, d.Transcript())

	close(session.gate)
	assert.True(t, <-done)
	assert.False(t, d.AwaitingModel())
	assert.Equal(t, []string{BeginMessage, "first"}, session.sent)
	assert.Len(t, d.Transcript(), 3)
}

func TestDriver_TransportFailureIsRecoverable(t *testing.T) {
	d, session := startedDriver(t, &fakeSynth{})
	session.script(fakeReply{err: llm.ErrTimeout}, scripted(`{"text":"続けましょう。","suggestions":[]}`))

	require.True(t, d.Submit(context.Background(), "hello"))
	transcript := d.Transcript()
	assert.Equal(t, TransportFailText, transcript[len(transcript)-1].Text)
	assert.False(t, d.AwaitingModel())

	require.True(t, d.Submit(context.Background(), "hello"))
	transcript = d.Transcript()
	assert.Equal(t, "続けましょう。", transcript[len(transcript)-1].Text)
}

func TestDriver_FinalizesOnSentinel(t *testing.T) {
	synth := &fakeSynth{rec: &domain.WorkRecord{WorkID: "A1B", Title: "週次売上レポート作成"}}
	var ready []*domain.WorkRecord
	d, session := startedDriver(t, synth, OnRecordReady(func(r *domain.WorkRecord) { ready = append(ready, r) }))
	session.script(
		scripted(`{"text":"最後に、この業務に分かりやすい名前を付けてください。","suggestions":[]}`),
		scripted("```json\n{\"text\":\"[GENERATE_CARTE]\",\"suggestions\":[]}\n```"),
	)

	require.True(t, d.Submit(context.Background(), "週に1回、2時間かかります。"))
	require.True(t, d.Submit(context.Background(), "週次売上レポート作成"))

	transcript := d.Transcript()
	require.Len(t, transcript, 5)
	assert.Equal(t, GeneratingText, transcript[4].Text)
	for _, m := range transcript {
		assert.NotContains(t, m.Text, Sentinel)
	}

	require.Equal(t, 1, synth.calls)
	assert.Equal(t, transcript[:4], synth.got)
	assert.Equal(t, "週次売上レポート作成", synth.got[3].Text)

	require.Len(t, ready, 1)
	assert.Equal(t, "A1B", ready[0].WorkID)
	assert.True(t, d.Finalizing())
	assert.Equal(t, AffordanceNone, d.Affordance().Kind)
	assert.False(t, d.Submit(context.Background(), "more"))
	assert.Len(t, ready, 1)
}

func TestDriver_FinalizesOnSameLineFencedSentinel(t *testing.T) {
	synth := &fakeSynth{rec: &domain.WorkRecord{WorkID: "A1B", Title: "週次売上レポート作成"}}
	var ready []*domain.WorkRecord
	d, session := startedDriver(t, synth, OnRecordReady(func(r *domain.WorkRecord) { ready = append(ready, r) }))
	session.script(scripted("```json{\"text\":\"[GENERATE_CARTE]\",\"suggestions\":[]}```"))

	require.True(t, d.Submit(context.Background(), "週次売上レポート作成"))

	transcript := d.Transcript()
	assert.Equal(t, GeneratingText, transcript[len(transcript)-1].Text)
	for _, m := range transcript {
		assert.NotContains(t, m.Text, Sentinel)
	}
	assert.Equal(t, 1, synth.calls)
	require.Len(t, ready, 1)
	assert.Equal(t, "A1B", ready[0].WorkID)
	assert.True(t, d.Finalizing())
}

func TestDriver_SynthesisFailureAllowsRetry(t *testing.T) {
	synth := &fakeSynth{err: ErrMissingField}
	called := false
	d, session := startedDriver(t, synth, OnRecordReady(func(*domain.WorkRecord) { called = true }))
	session.script(scripted(`{"text":"[GENERATE_CARTE]","suggestions":[]}`))

	require.True(t, d.Submit(context.Background(), "週次売上レポート作成"))

	transcript := d.Transcript()
	assert.Equal(t, GeneratingText, transcript[len(transcript)-2].Text)
	assert.Equal(t, SynthesisFailText, transcript[len(transcript)-1].Text)
	assert.False(t, d.Finalizing())
	assert.False(t, called)

	synth.err = nil
	synth.rec = &domain.WorkRecord{WorkID: "A1B"}
	session.script(scripted(`{"text":"[GENERATE_CARTE]","suggestions":[]}`))

	require.True(t, d.Submit(context.Background(), "週次売上レポート作成"))
	assert.True(t, called)
	assert.Equal(t, 2, synth.calls)
}

func TestDriver_EmbeddedSentinelDoesNotFinalize(t *testing.T) {
	synth := &fakeSynth{}
	d, session := startedDriver(t, synth)
	session.script(scripted(`{"text":"了解しました。[GENERATE_CARTE]","suggestions":["[GENERATE_CARTE]","はい"]}`))

	require.True(t, d.Submit(context.Background(), "週次売上レポート作成"))

	transcript := d.Transcript()
	last := transcript[len(transcript)-1]
	assert.Equal(t, "了解しました。", last.Text)
	assert.Equal(t, []string{"はい"}, last.Suggestions)
	assert.Zero(t, synth.calls)
	assert.False(t, d.Finalizing())
}

func TestDriver_UndecodableReplyShownRaw(t *testing.T) {
	d, session := startedDriver(t, &fakeSynth{})
	session.script(scripted("申し訳ありません、もう一度お願いします"))

	require.True(t, d.Submit(context.Background(), "hello"))

	transcript := d.Transcript()
	last := transcript[len(transcript)-1]
	assert.Equal(t, "申し訳ありません、もう一度お願いします", last.Text)
	assert.Empty(t, last.Suggestions)
}
