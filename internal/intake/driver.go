package intake

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/alexanderramin/carte/internal/domain"
	"github.com/alexanderramin/carte/internal/llm"
)

// ErrAlreadyStarted is returned by Start on a driver that has already
// opened its session.
var ErrAlreadyStarted = errors.New("interview already started")

// Driver runs one interview session. Its state may be read from other
// goroutines while a round-trip is in flight; at most one round-trip is
// outstanding at a time.
type Driver struct {
	chat          llm.ChatTransport
	synth         RecordSynthesizer
	logger        *zap.Logger
	onRecordReady func(*domain.WorkRecord)
	now           func() time.Time

	mu            sync.Mutex
	session       llm.ChatSession
	started       bool
	transcript    []domain.ChatMessage
	awaitingModel bool
	finalizing    bool
	seq           int
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

func WithLogger(logger *zap.Logger) DriverOption {
	return func(d *Driver) { d.logger = logger }
}

// OnRecordReady registers the callback that receives the synthesized
// record. It is called at most once per driver.
func OnRecordReady(fn func(*domain.WorkRecord)) DriverOption {
	return func(d *Driver) { d.onRecordReady = fn }
}

func WithClock(now func() time.Time) DriverOption {
	return func(d *Driver) { d.now = now }
}

func NewDriver(chat llm.ChatTransport, synth RecordSynthesizer, opts ...DriverOption) *Driver {
	d := &Driver{
		chat:          chat,
		synth:         synth,
		logger:        zap.NewNop(),
		onRecordReady: func(*domain.WorkRecord) {},
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.Named("driver")
	return d
}

// Start opens the model session and sends the implicit begin message. On
// failure a single apology is appended and the error is returned for
// logging; the driver then stays unusable.
func (d *Driver) Start(ctx context.Context) error {
	d.mu.Lock()
	if d.started {
		d.mu.Unlock()
		return ErrAlreadyStarted
	}
	d.started = true
	d.awaitingModel = true
	d.mu.Unlock()

	session, err := d.chat.StartSession(ctx, SystemInstruction)
	if err != nil {
		return d.failStart(fmt.Errorf("starting chat session: %w", err))
	}
	raw, err := session.Send(ctx, BeginMessage)
	if err != nil {
		return d.failStart(fmt.Errorf("sending begin message: %w", err))
	}

	d.mu.Lock()
	d.session = session
	d.mu.Unlock()

	d.handleReply(ctx, raw)
	return nil
}

func (d *Driver) failStart(err error) error {
	d.logger.Error("interview start failed", zap.Error(err))
	d.mu.Lock()
	d.appendLocked(domain.SenderAssistant, StartFailedText, nil)
	d.awaitingModel = false
	d.mu.Unlock()
	return err
}

// Submit sends one user turn. It reports false, changing nothing, when
// text is blank, the session is not open, or a round-trip or synthesis
// is in flight.
func (d *Driver) Submit(ctx context.Context, text string) bool {
	text = strings.TrimSpace(text)

	d.mu.Lock()
	if text == "" || d.session == nil || d.awaitingModel || d.finalizing {
		d.mu.Unlock()
		return false
	}
	d.appendLocked(domain.SenderUser, text, nil)
	d.awaitingModel = true
	session := d.session
	d.mu.Unlock()

	raw, err := session.Send(ctx, text)
	if err != nil {
		d.logger.Warn("model round-trip failed", zap.Error(err))
		d.mu.Lock()
		d.appendLocked(domain.SenderAssistant, TransportFailText, nil)
		d.awaitingModel = false
		d.mu.Unlock()
		return true
	}

	d.handleReply(ctx, raw)
	return true
}

func (d *Driver) handleReply(ctx context.Context, raw string) {
	reply := Decode(raw)
	if strings.TrimSpace(reply.Text) == Sentinel {
		d.finalize(ctx)
		return
	}

	if strings.Contains(reply.Text, Sentinel) || slices.ContainsFunc(reply.Suggestions, containsSentinel) {
		d.logger.Warn("sentinel embedded in reply; showing it without finalizing")
		reply = stripSentinel(reply)
	}

	d.mu.Lock()
	d.appendLocked(domain.SenderAssistant, reply.Text, reply.Suggestions)
	d.awaitingModel = false
	d.mu.Unlock()
}

func (d *Driver) finalize(ctx context.Context) {
	d.mu.Lock()
	d.finalizing = true
	d.awaitingModel = false
	snapshot := slices.Clone(d.transcript)
	d.appendLocked(domain.SenderAssistant, GeneratingText, nil)
	d.mu.Unlock()

	rec, err := d.synth.Synthesize(ctx, snapshot)
	if err != nil {
		d.logger.Error("carte synthesis failed", zap.Error(err))
		d.mu.Lock()
		d.appendLocked(domain.SenderAssistant, SynthesisFailText, nil)
		d.finalizing = false
		d.mu.Unlock()
		return
	}

	d.logger.Info("carte synthesized", zap.String("work_id", rec.WorkID), zap.Int("turns", len(snapshot)))
	d.onRecordReady(rec)
}

func (d *Driver) appendLocked(sender domain.Sender, text string, suggestions []string) {
	if suggestions == nil {
		suggestions = []string{}
	}
	d.seq++
	d.transcript = append(d.transcript, domain.ChatMessage{
		ID:          fmt.Sprintf("%d-%d", d.now().UnixNano(), d.seq),
		Sender:      sender,
		Text:        text,
		Suggestions: suggestions,
	})
}

// Transcript returns a copy of the visible messages in order.
func (d *Driver) Transcript() []domain.ChatMessage {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.transcript)
}

func (d *Driver) AwaitingModel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.awaitingModel
}

func (d *Driver) Finalizing() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.finalizing
}

// Affordance derives the input control for the current state.
func (d *Driver) Affordance() Affordance {
	d.mu.Lock()
	defer d.mu.Unlock()
	return SelectAffordance(d.transcript, d.awaitingModel || d.finalizing)
}

func containsSentinel(s string) bool {
	return strings.Contains(s, Sentinel)
}

func stripSentinel(r Reply) Reply {
	out := Reply{Text: strings.TrimSpace(strings.ReplaceAll(r.Text, Sentinel, ""))}
	out.Suggestions = make([]string, 0, len(r.Suggestions))
	for _, s := range r.Suggestions {
		s = strings.TrimSpace(strings.ReplaceAll(s, Sentinel, ""))
		if s != "" {
			out.Suggestions = append(out.Suggestions, s)
		}
	}
	return out
}
