// Package agent describes the persona-driven LLM calls that make up an
// evaluation. An Agent carries the persona, a Task carries the instructions,
// and an Executor turns the pair plus prior context into text.
package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SuhaibK10/startup-idea-evaluator/pkg/adapter"
	"github.com/SuhaibK10/startup-idea-evaluator/pkg/output"
)

// Agent is an LLM persona.
type Agent struct {
	Name      string `yaml:"name" json:"name"`
	Role      string `yaml:"role" json:"role"`
	Goal      string `yaml:"goal" json:"goal"`
	Backstory string `yaml:"backstory" json:"backstory"`
}

// Task is a single instruction for an agent.
type Task struct {
	Description    string `yaml:"description" json:"description"`
	ExpectedOutput string `yaml:"expected_output" json:"expected_output"`
}

// Tool is a capability an agent may call. Evaluation stages run without tools.
type Tool interface {
	Name() string
}

// Call is one agent invocation.
type Call struct {
	Agent   Agent
	Task    Task
	Context string
	Tools   []Tool
}

// Output is the result of an agent invocation.
type Output struct {
	Result   output.Result
	Text     string
	Adapter  string
	Model    string
	Usage    *adapter.Usage
	Prompt   string
	Duration time.Duration
}

// Executor runs agent calls.
type Executor interface {
	Execute(ctx context.Context, call Call) (*Output, error)
}

// AdapterExecutor runs calls against a single adapter and model.
type AdapterExecutor struct {
	Adapter adapter.Adapter
	Model   string
}

// Execute composes the persona and task into a request and normalizes the reply.
func (e *AdapterExecutor) Execute(ctx context.Context, call Call) (*Output, error) {
	if e.Adapter == nil {
		return nil, fmt.Errorf("agent %s: no adapter configured", call.Agent.Name)
	}
	if len(call.Tools) > 0 {
		return nil, fmt.Errorf("agent %s: tools are not supported", call.Agent.Name)
	}

	model := e.Model
	if model == "" {
		models := e.Adapter.Models()
		if len(models) == 0 {
			return nil, fmt.Errorf("adapter %s has no models", e.Adapter.Name())
		}
		model = models[0]
	}

	prompt := ComposePrompt(call.Task, call.Context)
	start := time.Now()
	resp, err := e.Adapter.Generate(ctx, adapter.Request{
		Model:  model,
		System: ComposeSystem(call.Agent),
		Prompt: prompt,
	})
	if err != nil {
		return nil, err
	}

	out := &Output{
		Result:   resp.Result,
		Text:     output.Normalize(resp.Result),
		Adapter:  e.Adapter.Name(),
		Model:    model,
		Usage:    resp.Usage,
		Prompt:   prompt,
		Duration: time.Since(start),
	}
	if resp.Model != "" {
		out.Model = resp.Model
	}
	return out, nil
}

// ComposeSystem renders the persona as a system prompt.
func ComposeSystem(a Agent) string {
	var b strings.Builder
	if a.Role != "" {
		fmt.Fprintf(&b, "You are %s.", a.Role)
	}
	if a.Backstory != "" {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(a.Backstory)
	}
	if a.Goal != "" {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Your personal goal is: %s", a.Goal)
	}
	return b.String()
}

// ComposePrompt renders the task, its expected output and any prior context.
// The expected output is guidance for the model and is never checked.
func ComposePrompt(t Task, prior string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(t.Description))
	if t.ExpectedOutput != "" {
		b.WriteString("\n\nThis is the expected criteria for your final answer: ")
		b.WriteString(t.ExpectedOutput)
	}
	if strings.TrimSpace(prior) != "" {
		b.WriteString("\n\nThis is the context you're working with:\n")
		b.WriteString(prior)
	}
	return b.String()
}
