// Package teatest drives bubbletea models synchronously in tests.
//
// Update is called directly and every returned Cmd is executed and fed
// back until the model goes quiet. Cmds that block on timers (cursor
// blink, spinner ticks) are abandoned after a short timeout, so views
// that animate can still be tested deterministically.
package teatest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxDrainDepth bounds how many chained Cmds a single Send may trigger.
const MaxDrainDepth = 100

// DefaultCmdTimeout separates immediate Cmds (fake LLM turns, DB writes)
// from timer Cmds, which block for at least ~100ms.
const DefaultCmdTimeout = 50 * time.Millisecond

// Driver is a synchronous test harness for any tea.Model.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set once a tea.QuitMsg is produced. The runtime would
	// normally intercept it, so the driver records it explicitly.
	Quitting bool

	cmdTimeout time.Duration
}

// Option configures the Driver during construction.
type Option func(*Driver)

// New creates a Driver for model. Call DrainInit to run Init.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model, cmdTimeout: DefaultCmdTimeout}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// WithSize sends an initial WindowSizeMsg.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.T.Helper()
		updated, _ := d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
		d.Model = updated
	}
}

// WithCmdTimeout overrides how long a Cmd may run before it is skipped.
func WithCmdTimeout(timeout time.Duration) Option {
	return func(d *Driver) {
		d.cmdTimeout = timeout
	}
}

// DrainInit executes the model's Init command and drains the results.
func (d *Driver) DrainInit() {
	d.T.Helper()
	d.drainCmd(d.Model.Init(), 0)
}

// Send dispatches msg through Update and drains all resulting Cmds.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	updated, cmd := d.Model.Update(msg)
	d.Model = updated
	d.drainCmd(cmd, 0)
}

func (d *Driver) key(t tea.KeyType) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: t})
}

// PressKey sends a single rune.
func (d *Driver) PressKey(r rune) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

func (d *Driver) PressEnter() { d.T.Helper(); d.key(tea.KeyEnter) }
func (d *Driver) PressEsc()   { d.T.Helper(); d.key(tea.KeyEsc) }
func (d *Driver) PressCtrlC() { d.T.Helper(); d.key(tea.KeyCtrlC) }
func (d *Driver) PressTab()   { d.T.Helper(); d.key(tea.KeyTab) }
func (d *Driver) PressLeft()  { d.T.Helper(); d.key(tea.KeyLeft) }
func (d *Driver) PressRight() { d.T.Helper(); d.key(tea.KeyRight) }

// Type sends s one rune at a time.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.PressKey(r)
	}
}

// View returns the model's current rendering.
func (d *Driver) View() string {
	return d.Model.View()
}

func (d *Driver) drainCmd(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.T.Logf("teatest.Driver: drain depth limit (%d) reached", MaxDrainDepth)
		return
	}

	msg := d.exec(cmd)
	if msg == nil || isTimerMsg(msg) {
		return
	}

	switch m := msg.(type) {
	case tea.BatchMsg:
		for _, sub := range m {
			d.drainCmd(sub, depth+1)
		}
		return
	case tea.QuitMsg:
		d.Quitting = true
		updated, _ := d.Model.Update(m)
		d.Model = updated
		return
	}

	updated, next := d.Model.Update(msg)
	d.Model = updated
	d.drainCmd(next, depth+1)
}

// exec runs cmd and returns nil when it does not finish within the
// driver's timeout.
func (d *Driver) exec(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() {
		ch <- cmd()
	}()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(d.cmdTimeout):
		return nil
	}
}

// isTimerMsg matches cursor blink and spinner tick messages, which would
// otherwise reschedule themselves forever.
func isTimerMsg(msg tea.Msg) bool {
	t := fmt.Sprintf("%T", msg)
	return strings.Contains(t, "Blink") || strings.Contains(t, "blink") || strings.HasSuffix(t, "TickMsg")
}
