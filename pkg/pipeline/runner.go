package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/SuhaibK10/startup-idea-evaluator/pkg/adapter"
	"github.com/SuhaibK10/startup-idea-evaluator/pkg/agent"
	"github.com/SuhaibK10/startup-idea-evaluator/pkg/artifact"
	"github.com/SuhaibK10/startup-idea-evaluator/pkg/config"
	"github.com/SuhaibK10/startup-idea-evaluator/pkg/logging"
	"github.com/SuhaibK10/startup-idea-evaluator/pkg/output"
)

// RunOptions configures pipeline execution.
type RunOptions struct {
	// Adapters available to stages, keyed by adapter name.
	Adapters map[string]adapter.Adapter
	// DefaultAdapter and DefaultModel apply to stages that name neither.
	DefaultAdapter string
	DefaultModel   string
	// Executor, when set, runs every stage instead of the resolved adapter.
	Executor agent.Executor
	Pricing  config.PricingConfig
	Logger   *log.Logger
	Progress func(Event)
}

// Status is the outcome of a stage.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// StageError records the stage a failure happened in.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// StageResult captures execution results for a stage.
type StageResult struct {
	Kind     StageKind
	Name     string
	Label    string
	Status   Status
	Text     string
	Err      error
	Adapter  string
	Model    string
	Usage    adapter.Usage
	Cost     adapter.Cost
	Artifact *artifact.Artifact
	Duration time.Duration
}

// RunResult captures pipeline outputs.
type RunResult struct {
	RunID     string
	InputHash string
	Input     IdeaInput
	StartedAt time.Time
	Duration  time.Duration
	Stages    []*StageResult
	Usage     adapter.Usage
	Cost      adapter.Cost
	Calls     []adapter.CallReport
}

// Err returns the first stage failure, or nil when every stage succeeded.
func (r *RunResult) Err() error {
	for _, stage := range r.Stages {
		if stage.Status == StatusFailed {
			return stage.Err
		}
	}
	return nil
}

// Stage returns the result for the given stage kind, or nil.
func (r *RunResult) Stage(kind StageKind) *StageResult {
	for _, stage := range r.Stages {
		if stage.Kind == kind {
			return stage
		}
	}
	return nil
}

// Text returns the normalized output of a stage, empty if it did not succeed.
func (r *RunResult) Text(kind StageKind) string {
	if stage := r.Stage(kind); stage != nil {
		return stage.Text
	}
	return ""
}

// EventKind distinguishes progress events.
type EventKind int

const (
	EventStageStarted EventKind = iota
	EventStageFinished
)

// Event reports stage progress to the presentation layer.
type Event struct {
	Kind   EventKind
	Index  int
	Total  int
	Stage  *Stage
	Result *StageResult
}

// Run validates the input and executes the catalogue's stages in order. A nil
// catalogue runs the built-in stages. The returned error covers input and setup
// problems only; stage failures are reported on the result.
func Run(ctx context.Context, cat *Catalogue, input IdeaInput, opts RunOptions) (*RunResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if cat == nil {
		cat = DefaultCatalogue()
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	if opts.Executor == nil && len(opts.Adapters) == 0 {
		return nil, fmt.Errorf("no adapters configured")
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	result := &RunResult{
		RunID:     uuid.NewString(),
		InputHash: hashString(input.ProblemContext()),
		Input:     input,
		StartedAt: time.Now().UTC(),
	}
	logger.Info("evaluation started", "run", result.RunID, "stages", len(cat.Stages))

	tracker := newCostTracker(opts.Pricing)
	var prior []any
	failed := false

	for i, stage := range cat.Stages {
		if failed {
			skipped := &StageResult{Kind: stage.Kind, Name: stage.Name, Label: stage.Label, Status: StatusSkipped}
			result.Stages = append(result.Stages, skipped)
			logger.Warn("stage skipped", "stage", stage.Name)
			emit(opts.Progress, Event{Kind: EventStageFinished, Index: i, Total: len(cat.Stages), Stage: stage, Result: skipped})
			continue
		}

		emit(opts.Progress, Event{Kind: EventStageStarted, Index: i, Total: len(cat.Stages), Stage: stage})
		stageResult := runStage(ctx, stage, cat, input, output.JoinContext(prior...), opts, tracker, logger)
		result.Stages = append(result.Stages, stageResult)
		emit(opts.Progress, Event{Kind: EventStageFinished, Index: i, Total: len(cat.Stages), Stage: stage, Result: stageResult})

		if stageResult.Status == StatusFailed {
			failed = true
			continue
		}
		prior = append(prior, stageResult.Text)
	}

	result.Duration = time.Since(result.StartedAt)
	result.Usage = tracker.totalUsage
	result.Cost = tracker.total()
	result.Calls = tracker.calls

	if err := result.Err(); err != nil {
		logger.Error("evaluation failed", "run", result.RunID, "err", err)
	} else {
		logger.Info("evaluation complete", "run", result.RunID, "duration", result.Duration.Round(time.Millisecond), "tokens", result.Usage.TotalTokens)
	}
	return result, nil
}

func runStage(
	ctx context.Context,
	stage *Stage,
	cat *Catalogue,
	input IdeaInput,
	accumulated string,
	opts RunOptions,
	tracker *costTracker,
	logger *log.Logger,
) *StageResult {
	start := time.Now()
	res := &StageResult{Kind: stage.Kind, Name: stage.Name, Label: stage.Label}
	fail := func(err error) *StageResult {
		res.Status = StatusFailed
		res.Err = &StageError{Stage: stage.Name, Err: err}
		res.Duration = time.Since(start)
		logger.Error("stage failed", "stage", stage.Name, "err", err, "transient", adapter.IsTransient(err))
		return res
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	executor, adapterName, model, err := resolveExecutor(stage, cat, opts)
	if err != nil {
		return fail(err)
	}

	task, err := stage.RenderTask(input)
	if err != nil {
		return fail(err)
	}

	logger.Info(stage.Spinner(), "stage", stage.Name, "adapter", adapterName, "model", model)
	out, err := executor.Execute(ctx, agent.Call{
		Agent:   stage.Agent,
		Task:    task,
		Context: accumulated,
	})
	if err != nil {
		tracker.record(stage.Name, adapterName, model, nil, err)
		res.Adapter, res.Model = adapterName, model
		return fail(err)
	}

	if out.Adapter != "" {
		adapterName = out.Adapter
	}
	if out.Model != "" {
		model = out.Model
	}
	usage, cost := tracker.record(stage.Name, adapterName, model, out.Usage, nil)

	// Executors may hand back only a structured result.
	text := out.Text
	if text == "" && out.Result != nil {
		text = output.Normalize(out.Result)
	}

	res.Status = StatusSucceeded
	res.Text = text
	res.Adapter = adapterName
	res.Model = model
	res.Usage = usage
	res.Cost = cost
	res.Artifact = artifact.New(stage.Name, text, adapterName, model, out.Prompt).WithMetadata("label", stage.Label)
	res.Duration = time.Since(start)

	logger.Info("stage complete",
		"stage", stage.Name,
		"duration", res.Duration.Round(time.Millisecond),
		"tokens", usage.TotalTokens,
		"cost_usd", fmt.Sprintf("%.4f", cost.Amount),
	)
	return res
}

// resolveExecutor picks the adapter and model for a stage: stage, then
// catalogue default, then run default, then the only configured adapter.
func resolveExecutor(stage *Stage, cat *Catalogue, opts RunOptions) (agent.Executor, string, string, error) {
	if opts.Executor != nil {
		return opts.Executor, firstNonEmpty(stage.Adapter, cat.DefaultAdapter, opts.DefaultAdapter), firstNonEmpty(stage.Model, cat.DefaultModel, opts.DefaultModel), nil
	}

	adapterName := firstNonEmpty(stage.Adapter, cat.DefaultAdapter, opts.DefaultAdapter, pickSingleAdapter(opts.Adapters))
	adapterImpl, ok := opts.Adapters[adapterName]
	if !ok {
		return nil, "", "", fmt.Errorf("adapter %q not found", adapterName)
	}

	model := firstNonEmpty(stage.Model, cat.DefaultModel)
	if model == "" && adapterName == opts.DefaultAdapter {
		model = opts.DefaultModel
	}
	if model == "" {
		models := adapterImpl.Models()
		if len(models) > 0 {
			model = models[0]
		}
	}
	if model == "" {
		return nil, "", "", fmt.Errorf("model not specified for stage %s", stage.Name)
	}

	return &agent.AdapterExecutor{Adapter: adapterImpl, Model: model}, adapterName, model, nil
}

func emit(progress func(Event), ev Event) {
	if progress != nil {
		progress(ev)
	}
}

func pickSingleAdapter(adapters map[string]adapter.Adapter) string {
	if len(adapters) != 1 {
		return ""
	}
	for key := range adapters {
		return key
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func hashString(value string) string {
	h := sha256.Sum256([]byte(value))
	return hex.EncodeToString(h[:])
}
