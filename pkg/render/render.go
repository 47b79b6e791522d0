// Package render formats stage output for terminals.
package render

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			MarginBottom(1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)

	panelHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#5B8DEF"))

	errorStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#EF4444")).
			Padding(0, 1)

	// WarningStyle marks input problems such as a missing idea.
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true)
	// SuccessStyle marks a completed evaluation.
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	// FaintStyle is used for help lines.
	FaintStyle = lipgloss.NewStyle().Faint(true)
)

// Options controls terminal rendering.
type Options struct {
	Width int
	// Plain disables markdown styling, for pipes and tests.
	Plain bool
}

// Renderer turns markdown into styled terminal text.
type Renderer struct {
	opts Options
	term *glamour.TermRenderer
}

// New creates a renderer. The glamour style is chosen from the terminal
// unless Plain is set.
func New(opts Options) (*Renderer, error) {
	width := opts.Width
	if width <= 0 {
		width = 80
	}
	styleOpt := glamour.WithAutoStyle()
	if opts.Plain {
		styleOpt = glamour.WithStandardStyle("notty")
	}
	term, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width-4))
	if err != nil {
		return nil, err
	}
	opts.Width = width
	return &Renderer{opts: opts, term: term}, nil
}

// Markdown renders markdown text, falling back to the raw text on error.
func (r *Renderer) Markdown(text string) string {
	rendered, err := r.term.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(rendered, "\n")
}

// Panel renders a titled box around a stage's markdown output.
func (r *Renderer) Panel(title, body string) string {
	if r.opts.Plain {
		return title + "\n\n" + strings.TrimSpace(body)
	}
	content := panelHeaderStyle.Render(title) + "\n" + r.Markdown(body)
	return panelStyle.Width(r.opts.Width - 2).Render(content)
}

// ErrorPanel renders a failed stage.
func (r *Renderer) ErrorPanel(title string, err error) string {
	msg := title + "\n" + "Error: " + err.Error()
	if r.opts.Plain {
		return msg
	}
	return errorStyle.Width(r.opts.Width - 2).Render(msg)
}

// Title renders a heading line.
func Title(text string) string {
	return titleStyle.Render(text)
}
