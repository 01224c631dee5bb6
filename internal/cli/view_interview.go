package cli

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/carte/internal/cli/formatter"
	"github.com/alexanderramin/carte/internal/domain"
	"github.com/alexanderramin/carte/internal/intake"
	"github.com/alexanderramin/carte/internal/llm"
	"github.com/alexanderramin/carte/internal/service"
)

const sliderWidth = 30

type interviewKeyMap struct {
	Quit  key.Binding
	Send  key.Binding
	Next  key.Binding
	Left  key.Binding
	Right key.Binding
}

var interviewKeys = interviewKeyMap{
	Quit:  key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
	Send:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
	Next:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next suggestion")),
	Left:  key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "less")),
	Right: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "more")),
}

// turnDoneMsg is sent when Start or Submit returns.
type turnDoneMsg struct{}

type savedMsg struct {
	record *domain.StoredRecord
	err    error
}

// readyBox receives the synthesized record from the driver goroutine.
type readyBox struct {
	mu  sync.Mutex
	rec *domain.WorkRecord
}

func (b *readyBox) put(r *domain.WorkRecord) {
	b.mu.Lock()
	b.rec = r
	b.mu.Unlock()
}

func (b *readyBox) take() *domain.WorkRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	r := b.rec
	b.rec = nil
	return r
}

// interviewModel renders an intake.Driver and routes key input to it.
type interviewModel struct {
	ctx     context.Context
	driver  *intake.Driver
	ready   *readyBox
	records service.RecordService
	ownerID string

	input   textinput.Model
	spinner spinner.Model
	width   int
	height  int

	// busy is set while a driver call or save is in flight.
	busy bool

	// promptID is the assistant message the controls were reset for.
	promptID string
	chip     int
	slider   int

	saved *domain.StoredRecord
	err   error
}

func newInterviewModel(ctx context.Context, chat llm.ChatTransport, synth intake.RecordSynthesizer, records service.RecordService, ownerID string, opts ...intake.DriverOption) *interviewModel {
	box := &readyBox{}
	opts = append(opts, intake.OnRecordReady(box.put))

	ti := textinput.New()
	ti.Placeholder = "回答を入力..."
	ti.Prompt = "› "
	ti.CharLimit = 500
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = formatter.StyleOrange

	return &interviewModel{
		ctx:     ctx,
		driver:  intake.NewDriver(chat, synth, opts...),
		ready:   box,
		records: records,
		ownerID: ownerID,
		input:   ti,
		spinner: sp,
		width:   80,
		busy:    true,
	}
}

func (m *interviewModel) Init() tea.Cmd {
	driver, ctx := m.driver, m.ctx
	start := func() tea.Msg {
		_ = driver.Start(ctx)
		return turnDoneMsg{}
	}
	return tea.Batch(start, m.spinner.Tick, textinput.Blink)
}

func (m *interviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(msg.Width-6, 10)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case turnDoneMsg:
		m.busy = false
		m.syncControls()
		if rec := m.ready.take(); rec != nil {
			m.busy = true
			return m, m.save(rec)
		}
		return m, nil

	case savedMsg:
		m.busy = false
		m.saved, m.err = msg.record, msg.err
		return m, tea.Quit

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *interviewModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, interviewKeys.Quit) {
		return m, tea.Quit
	}
	if m.busy {
		return m, nil
	}

	aff := m.driver.Affordance()
	typed := strings.TrimSpace(m.input.Value())

	switch {
	case key.Matches(msg, interviewKeys.Send):
		if typed != "" {
			return m, m.send(typed)
		}
		switch aff.Kind {
		case intake.AffordanceNumeric:
			return m, m.send(aff.Answer(m.slider))
		case intake.AffordanceFreeText:
			if len(aff.Suggestions) > 0 {
				return m, m.send(aff.Suggestions[m.chip%len(aff.Suggestions)])
			}
		}
		return m, nil

	case key.Matches(msg, interviewKeys.Next) && aff.Kind == intake.AffordanceFreeText:
		if n := len(aff.Suggestions); n > 0 {
			m.chip = (m.chip + 1) % n
		}
		return m, nil

	case key.Matches(msg, interviewKeys.Left) && aff.Kind == intake.AffordanceNumeric && typed == "":
		m.slider = aff.Clamp(m.slider - aff.Step)
		return m, nil

	case key.Matches(msg, interviewKeys.Right) && aff.Kind == intake.AffordanceNumeric && typed == "":
		m.slider = aff.Clamp(m.slider + aff.Step)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *interviewModel) send(text string) tea.Cmd {
	m.busy = true
	m.input.Reset()
	driver, ctx := m.driver, m.ctx
	submit := func() tea.Msg {
		driver.Submit(ctx, text)
		return turnDoneMsg{}
	}
	return tea.Batch(submit, m.spinner.Tick)
}

func (m *interviewModel) save(rec *domain.WorkRecord) tea.Cmd {
	records, ctx, owner := m.records, m.ctx, m.ownerID
	return func() tea.Msg {
		stored, err := records.Save(ctx, owner, rec)
		return savedMsg{record: stored, err: err}
	}
}

// syncControls resets the chip cursor and slider when a new assistant
// message arrives.
func (m *interviewModel) syncControls() {
	last, ok := domain.LatestAssistant(m.driver.Transcript())
	if !ok || last.ID == m.promptID {
		return
	}
	m.promptID = last.ID
	m.chip = 0
	if aff := m.driver.Affordance(); aff.Kind == intake.AffordanceNumeric {
		m.slider = aff.Default
	}
}

func (m *interviewModel) View() string {
	var b strings.Builder
	b.WriteString(formatter.Header("業務ヒアリング"))
	b.WriteString("\n\n")

	bubble := lipgloss.NewStyle().Width(max(m.width-8, 20))
	var lines []string
	for _, msg := range m.driver.Transcript() {
		var who string
		if msg.FromAssistant() {
			who = formatter.StyleBlue.Render("AI ")
		} else {
			who = formatter.StyleGreen.Render("You")
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, who+"  ", bubble.Render(msg.Text)), "")
	}
	b.WriteString(strings.Join(tailLines(lines, m.height-8), "\n"))
	b.WriteString("\n")
	b.WriteString(m.controlsView())
	return b.String()
}

func (m *interviewModel) controlsView() string {
	if m.busy || m.driver.AwaitingModel() || m.driver.Finalizing() {
		label := "考え中..."
		if m.driver.Finalizing() || m.saved != nil {
			label = "カルテを生成しています..."
		}
		return m.spinner.View() + " " + formatter.Dim(label) + "\n"
	}

	var b strings.Builder
	aff := m.driver.Affordance()
	var help []key.Binding
	switch aff.Kind {
	case intake.AffordanceNumeric:
		b.WriteString(formatter.RenderSlider(m.slider, aff.Min, aff.Max, sliderWidth, aff.Answer(m.slider)))
		b.WriteString("\n")
		help = []key.Binding{interviewKeys.Left, interviewKeys.Right, interviewKeys.Send}
	case intake.AffordanceFreeText:
		if len(aff.Suggestions) > 0 {
			chips := make([]string, len(aff.Suggestions))
			for i, s := range aff.Suggestions {
				chip := fmt.Sprintf("[%d] %s", i+1, s)
				if i == m.chip%len(aff.Suggestions) {
					chips[i] = formatter.StyleHeader.Render(chip)
				} else {
					chips[i] = formatter.Dim(chip)
				}
			}
			b.WriteString(strings.Join(chips, "  "))
			b.WriteString("\n")
			help = append(help, interviewKeys.Next)
		}
		help = append(help, interviewKeys.Send)
	default:
		return formatter.Dim("esc quit") + "\n"
	}

	b.WriteString(m.input.View())
	b.WriteString("\n")
	help = append(help, interviewKeys.Quit)
	parts := make([]string, len(help))
	for i, h := range help {
		parts[i] = h.Help().Key + " " + h.Help().Desc
	}
	b.WriteString(formatter.Dim(strings.Join(parts, " · ")))
	b.WriteString("\n")
	return b.String()
}

// tailLines keeps the last n rendered lines. n <= 0 keeps everything.
func tailLines(blocks []string, n int) []string {
	if n <= 0 {
		return blocks
	}
	var lines []string
	for _, b := range blocks {
		lines = append(lines, strings.Split(b, "\n")...)
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}
