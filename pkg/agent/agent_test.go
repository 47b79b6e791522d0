package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/SuhaibK10/startup-idea-evaluator/pkg/adapter"
	"github.com/SuhaibK10/startup-idea-evaluator/pkg/output"
)

type recordingAdapter struct {
	requests []adapter.Request
	result   output.Result
	err      error
}

func (a *recordingAdapter) Generate(_ context.Context, req adapter.Request) (*adapter.Response, error) {
	a.requests = append(a.requests, req)
	if a.err != nil {
		return nil, a.err
	}
	return &adapter.Response{Result: a.result, Usage: &adapter.Usage{TotalTokens: 3}}, nil
}

func (a *recordingAdapter) Name() string { return "recording" }

func (a *recordingAdapter) Models() []string { return []string{"rec-1"} }

func TestComposeSystem(t *testing.T) {
	got := ComposeSystem(Agent{
		Role:      "Problem Validator",
		Goal:      "Decide if the problem is real.",
		Backstory: "PM who interviews users.",
	})
	want := "You are Problem Validator. PM who interviews users.\nYour personal goal is: Decide if the problem is real."
	if got != want {
		t.Fatalf("unexpected system prompt:\n%q\nwant\n%q", got, want)
	}
}

func TestComposePromptContext(t *testing.T) {
	task := Task{Description: "Evaluate.", ExpectedOutput: "Bullets."}

	withoutCtx := ComposePrompt(task, "")
	if strings.Contains(withoutCtx, "context you're working with") {
		t.Fatalf("expected no context section, got %q", withoutCtx)
	}
	if !strings.Contains(withoutCtx, "Bullets.") {
		t.Fatalf("expected expected output guidance, got %q", withoutCtx)
	}

	withCtx := ComposePrompt(task, "prior output")
	if !strings.HasSuffix(withCtx, "This is the context you're working with:\nprior output") {
		t.Fatalf("expected context appended, got %q", withCtx)
	}
}

func TestAdapterExecutorNormalizesOutput(t *testing.T) {
	rec := &recordingAdapter{result: output.Sequence{
		output.NamedField{Name: "text", Text: "part one"},
		output.NamedField{Name: "text", Text: "part two"},
	}}
	exec := &AdapterExecutor{Adapter: rec}

	out, err := exec.Execute(context.Background(), Call{
		Agent:   Agent{Name: "validator", Role: "Problem Validator"},
		Task:    Task{Description: "Evaluate."},
		Context: "ctx",
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out.Text != "part one\n\npart two" {
		t.Fatalf("unexpected text %q", out.Text)
	}
	if out.Model != "rec-1" {
		t.Fatalf("expected default model, got %q", out.Model)
	}
	if len(rec.requests) != 1 || rec.requests[0].System != "You are Problem Validator." {
		t.Fatalf("unexpected requests %+v", rec.requests)
	}
}

func TestAdapterExecutorPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	exec := &AdapterExecutor{Adapter: &recordingAdapter{err: boom}, Model: "rec-1"}
	if _, err := exec.Execute(context.Background(), Call{Task: Task{Description: "x"}}); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestAdapterExecutorRequiresAdapter(t *testing.T) {
	exec := &AdapterExecutor{}
	if _, err := exec.Execute(context.Background(), Call{}); err == nil {
		t.Fatalf("expected error without adapter")
	}
}
