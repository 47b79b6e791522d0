// Package tui is the interactive evaluation form: four inputs, a progress
// spinner while the stages run, and one expandable panel per stage.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/SuhaibK10/startup-idea-evaluator/pkg/pipeline"
	"github.com/SuhaibK10/startup-idea-evaluator/pkg/render"
)

const (
	emptyIdeaWarning = "Please enter your startup idea."
	completeMessage  = "✅ Evaluation complete. Expand the sections above to view each agent’s output."
)

// RunFunc executes an evaluation, reporting progress as stages start and finish.
type RunFunc func(ctx context.Context, in pipeline.IdeaInput, progress func(pipeline.Event)) (*pipeline.RunResult, error)

type state int

const (
	stateForm state = iota
	stateRunning
	stateDone
)

// field indexes, in focus order
const (
	fieldIdea = iota
	fieldTarget
	fieldRegion
	fieldPricing
	fieldCount
)

type progressMsg struct{ event pipeline.Event }

type runFinishedMsg struct {
	result *pipeline.RunResult
	err    error
}

type panel struct {
	label    string
	status   pipeline.Status
	text     string
	err      error
	expanded bool
}

var (
	labelStyle    = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED")).Bold(true)
)

// Model is the bubbletea model for the evaluator.
type Model struct {
	ctx      context.Context
	cancel   context.CancelFunc
	run      RunFunc
	renderer *render.Renderer

	state    state
	idea     textarea.Model
	inputs   []textinput.Model
	focus    int
	warning  string
	status   string
	spinner  spinner.Model
	viewport viewport.Model
	width    int

	events   chan tea.Msg
	panels   []panel
	selected int
	result   *pipeline.RunResult
	runErr   error
	quitting bool
}

// New creates the form model.
func New(ctx context.Context, run RunFunc, renderer *render.Renderer) Model {
	idea := textarea.New()
	idea.Placeholder = "AI voice bot that books appointments for clinics"
	idea.SetHeight(4)
	idea.ShowLineNumbers = false
	idea.Focus()

	placeholders := []string{"Target customer (optional)", "Region (optional)", "Pricing idea (optional)"}
	inputs := make([]textinput.Model, len(placeholders))
	for i, ph := range placeholders {
		ti := textinput.New()
		ti.Placeholder = ph
		ti.CharLimit = 200
		inputs[i] = ti
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED"))

	ctx, cancel := context.WithCancel(ctx)
	return Model{
		ctx:      ctx,
		cancel:   cancel,
		run:      run,
		renderer: renderer,
		idea:     idea,
		inputs:   inputs,
		spinner:  s,
		viewport: viewport.New(80, 20),
		width:    80,
	}
}

// Init starts the cursor blinking.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Input returns the form contents.
func (m Model) Input() pipeline.IdeaInput {
	return pipeline.IdeaInput{
		Idea:    m.idea.Value(),
		Target:  m.inputs[0].Value(),
		Region:  m.inputs[1].Value(),
		Pricing: m.inputs[2].Value(),
	}
}

// Result returns the finished run, if any.
func (m Model) Result() *pipeline.RunResult {
	return m.result
}

// Update handles incoming messages and updates the model state accordingly.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-4, 5)
		m.idea.SetWidth(max(msg.Width-4, 20))
		if m.state == stateDone {
			m.viewport.SetContent(m.renderPanels())
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			m.cancel()
			return m, tea.Quit
		}
		switch m.state {
		case stateForm:
			return m.updateForm(msg)
		case stateDone:
			return m.updateDone(msg)
		}
		return m, nil

	case spinner.TickMsg:
		if m.state != stateRunning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progressMsg:
		m.handleProgress(msg.event)
		return m, waitForEvent(m.events)

	case runFinishedMsg:
		m.state = stateDone
		m.events = nil
		m.result = msg.result
		m.runErr = msg.err
		switch {
		case msg.err != nil:
			m.status = ""
			m.warning = msg.err.Error()
		case msg.result != nil && msg.result.Err() != nil:
			m.status = ""
			m.warning = msg.result.Err().Error()
		default:
			m.status = completeMessage
		}
		m.viewport.SetContent(m.renderPanels())
		m.viewport.GotoTop()
		return m, nil
	}

	if m.state == stateForm {
		return m.updateFocused(msg)
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlS:
		return m.submit()
	case tea.KeyTab, tea.KeyShiftTab:
		if msg.Type == tea.KeyTab {
			m.focus = (m.focus + 1) % fieldCount
		} else {
			m.focus = (m.focus + fieldCount - 1) % fieldCount
		}
		return m, m.applyFocus()
	case tea.KeyEnter:
		switch {
		case m.focus == fieldPricing:
			return m.submit()
		case m.focus != fieldIdea:
			m.focus++
			return m, m.applyFocus()
		}
	case tea.KeyEsc:
		m.quitting = true
		m.cancel()
		return m, tea.Quit
	}
	return m.updateFocused(msg)
}

func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.focus == fieldIdea {
		m.idea, cmd = m.idea.Update(msg)
		return m, cmd
	}
	i := m.focus - 1
	m.inputs[i], cmd = m.inputs[i].Update(msg)
	return m, cmd
}

func (m *Model) applyFocus() tea.Cmd {
	m.idea.Blur()
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	if m.focus == fieldIdea {
		return m.idea.Focus()
	}
	return m.inputs[m.focus-1].Focus()
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	input := m.Input()
	if err := input.Validate(); err != nil {
		m.warning = emptyIdeaWarning
		return m, nil
	}

	m.warning = ""
	m.state = stateRunning
	m.panels = nil
	m.selected = 0
	m.status = "Starting evaluation…"
	m.events = make(chan tea.Msg, 16)
	go runPipeline(m.ctx, m.run, input, m.events)
	return m, tea.Batch(m.spinner.Tick, waitForEvent(m.events))
}

func runPipeline(ctx context.Context, run RunFunc, input pipeline.IdeaInput, events chan<- tea.Msg) {
	defer close(events)
	res, err := run(ctx, input, func(ev pipeline.Event) {
		events <- progressMsg{event: ev}
	})
	events <- runFinishedMsg{result: res, err: err}
}

func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}

func (m *Model) handleProgress(ev pipeline.Event) {
	switch ev.Kind {
	case pipeline.EventStageStarted:
		m.status = fmt.Sprintf("%s (%d/%d)", ev.Stage.Spinner(), ev.Index+1, ev.Total)
	case pipeline.EventStageFinished:
		if ev.Result == nil {
			return
		}
		m.panels = append(m.panels, panel{
			label:    ev.Result.Label,
			status:   ev.Result.Status,
			text:     ev.Result.Text,
			err:      ev.Result.Err,
			expanded: true,
		})
	}
}

func (m Model) updateDone(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.quitting = true
		m.cancel()
		return m, tea.Quit
	case "tab":
		if len(m.panels) > 0 {
			m.selected = (m.selected + 1) % len(m.panels)
		}
	case "shift+tab":
		if len(m.panels) > 0 {
			m.selected = (m.selected + len(m.panels) - 1) % len(m.panels)
		}
	case "enter", " ":
		if m.selected < len(m.panels) {
			m.panels[m.selected].expanded = !m.panels[m.selected].expanded
		}
	case "e":
		m.setExpanded(true)
	case "c":
		m.setExpanded(false)
	case "n":
		m.state = stateForm
		m.status = ""
		m.warning = ""
		m.focus = fieldIdea
		return m, m.applyFocus()
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	m.viewport.SetContent(m.renderPanels())
	return m, nil
}

func (m *Model) setExpanded(expanded bool) {
	for i := range m.panels {
		m.panels[i].expanded = expanded
	}
}

func (m Model) renderPanels() string {
	var sections []string
	for i, p := range m.panels {
		marker := "▸"
		if p.expanded {
			marker = "▾"
		}
		header := fmt.Sprintf("%s %s", marker, p.label)
		if i == m.selected {
			header = selectedStyle.Render(header)
		}
		if p.status == pipeline.StatusSkipped {
			header += render.FaintStyle.Render(" (skipped)")
		}

		if !p.expanded || p.status == pipeline.StatusSkipped {
			sections = append(sections, header)
			continue
		}
		switch {
		case p.err != nil:
			sections = append(sections, header+"\n"+m.renderer.ErrorPanel(p.label, p.err))
		default:
			sections = append(sections, header+"\n"+m.renderer.Markdown(p.text))
		}
	}
	if m.status != "" {
		sections = append(sections, render.SuccessStyle.Render(m.status))
	}
	return strings.Join(sections, "\n\n")
}
