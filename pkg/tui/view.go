package tui

import (
	"fmt"
	"strings"

	"github.com/SuhaibK10/startup-idea-evaluator/pkg/pipeline"
	"github.com/SuhaibK10/startup-idea-evaluator/pkg/render"
)

var fieldLabels = []string{"Startup idea", "Target customer", "Region", "Pricing"}

// View renders the current state of the model as a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(render.Title("🚀 Startup Idea Evaluator"))
	b.WriteString("\n")

	switch m.state {
	case stateForm:
		b.WriteString(labelStyle.Render(fieldLabels[fieldIdea]))
		b.WriteString("\n")
		b.WriteString(m.idea.View())
		b.WriteString("\n\n")
		for i, input := range m.inputs {
			b.WriteString(labelStyle.Render(fieldLabels[i+1]))
			b.WriteString("\n")
			b.WriteString(input.View())
			b.WriteString("\n\n")
		}
		if m.warning != "" {
			b.WriteString(render.WarningStyle.Render(m.warning))
			b.WriteString("\n\n")
		}
		b.WriteString(render.FaintStyle.Render("tab: next field • ctrl+s: evaluate • esc: quit"))

	case stateRunning:
		for _, p := range m.panels {
			fmt.Fprintf(&b, "%s %s\n", statusIcon(p), p.label)
		}
		fmt.Fprintf(&b, "\n%s %s\n", m.spinner.View(), m.status)
		b.WriteString(render.FaintStyle.Render("ctrl+c: cancel"))

	case stateDone:
		if m.warning != "" {
			b.WriteString(render.WarningStyle.Render(m.warning))
			b.WriteString("\n")
		}
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
		b.WriteString(render.FaintStyle.Render("tab: select • enter: expand/collapse • e/c: expand/collapse all • n: new idea • q: quit"))
	}

	return b.String()
}

func statusIcon(p panel) string {
	switch {
	case p.err != nil:
		return "✗"
	case p.status == pipeline.StatusSkipped:
		return "·"
	default:
		return "✓"
	}
}
