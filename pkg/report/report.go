// Package report turns a finished evaluation into a portable record and
// writes it to disk.
package report

import (
	"encoding/json"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/invopop/jsonschema"

	"github.com/SuhaibK10/startup-idea-evaluator/pkg/adapter"
	"github.com/SuhaibK10/startup-idea-evaluator/pkg/pipeline"
)

// Report is the exported form of an evaluation run.
type Report struct {
	ID           string             `json:"id" yaml:"id" jsonschema_description:"Run identifier"`
	Timestamp    time.Time          `json:"timestamp" yaml:"timestamp"`
	Input        pipeline.IdeaInput `json:"input" yaml:"input"`
	InputHash    string             `json:"input_hash" yaml:"input_hash"`
	Catalogue    string             `json:"catalogue,omitempty" yaml:"catalogue,omitempty"`
	Stages       []StageRecord      `json:"stages" yaml:"stages"`
	Usage        adapter.Usage      `json:"usage" yaml:"usage"`
	Cost         adapter.Cost       `json:"cost" yaml:"cost"`
	Succeeded    bool               `json:"succeeded" yaml:"succeeded"`
	Error        string             `json:"error,omitempty" yaml:"error,omitempty"`
	DurationMS   int64              `json:"duration_ms" yaml:"duration_ms"`
	ToolVersions map[string]string  `json:"tool_versions,omitempty" yaml:"tool_versions,omitempty"`
}

// StageRecord captures the outcome of a single stage.
type StageRecord struct {
	Name       string        `json:"name" yaml:"name"`
	Label      string        `json:"label" yaml:"label"`
	Status     string        `json:"status" yaml:"status" jsonschema:"enum=succeeded,enum=failed,enum=skipped"`
	Adapter    string        `json:"adapter,omitempty" yaml:"adapter,omitempty"`
	Model      string        `json:"model,omitempty" yaml:"model,omitempty"`
	Output     string        `json:"output,omitempty" yaml:"output,omitempty"`
	OutputHash string        `json:"output_hash,omitempty" yaml:"output_hash,omitempty"`
	ArtifactID string        `json:"artifact_id,omitempty" yaml:"artifact_id,omitempty"`
	Usage      adapter.Usage `json:"usage" yaml:"usage"`
	Cost       adapter.Cost  `json:"cost" yaml:"cost"`
	Error      string        `json:"error,omitempty" yaml:"error,omitempty"`
	Transient  bool          `json:"transient,omitempty" yaml:"transient,omitempty"`
	DurationMS int64         `json:"duration_ms" yaml:"duration_ms"`
}

// Build converts a run result into a report.
func Build(res *pipeline.RunResult, catalogue string) *Report {
	r := &Report{
		ID:           res.RunID,
		Timestamp:    res.StartedAt,
		Input:        res.Input,
		InputHash:    res.InputHash,
		Catalogue:    catalogue,
		Usage:        res.Usage,
		Cost:         res.Cost,
		Succeeded:    true,
		DurationMS:   res.Duration.Milliseconds(),
		ToolVersions: map[string]string{"go": runtime.Version()},
	}
	if err := res.Err(); err != nil {
		r.Succeeded = false
		r.Error = err.Error()
	}

	for _, stage := range res.Stages {
		rec := StageRecord{
			Name:       stage.Name,
			Label:      stage.Label,
			Status:     string(stage.Status),
			Adapter:    stage.Adapter,
			Model:      stage.Model,
			Output:     stage.Text,
			Usage:      stage.Usage,
			Cost:       stage.Cost,
			DurationMS: stage.Duration.Milliseconds(),
		}
		if stage.Artifact != nil {
			rec.OutputHash = stage.Artifact.Hash
			rec.ArtifactID = stage.Artifact.ID
		}
		if stage.Err != nil {
			rec.Error = stage.Err.Error()
			rec.Transient = adapter.IsTransient(stage.Err)
		}
		r.Stages = append(r.Stages, rec)
	}
	return r
}

// Markdown renders the report as a markdown document, one section per stage.
func Markdown(r *Report) string {
	var b strings.Builder
	b.WriteString("# Startup Idea Evaluation\n\n")
	fmt.Fprintf(&b, "- **Idea:** %s\n", r.Input.Idea)
	fmt.Fprintf(&b, "- **Target:** %s\n", orNA(r.Input.Target))
	fmt.Fprintf(&b, "- **Region:** %s\n", orNA(r.Input.Region))
	fmt.Fprintf(&b, "- **Pricing:** %s\n", orNA(r.Input.Pricing))

	for _, stage := range r.Stages {
		fmt.Fprintf(&b, "\n## %s\n\n", stage.Label)
		switch stage.Status {
		case string(pipeline.StatusSucceeded):
			b.WriteString(strings.TrimSpace(stage.Output))
			b.WriteString("\n")
		case string(pipeline.StatusFailed):
			fmt.Fprintf(&b, "> **Failed:** %s\n", stage.Error)
		default:
			b.WriteString("_Skipped._\n")
		}
	}

	b.WriteString("\n---\n\n")
	fmt.Fprintf(&b, "_Run %s · %d tokens", r.ID, r.Usage.TotalTokens)
	if r.Cost.Amount > 0 {
		fmt.Fprintf(&b, " · ~$%.4f", r.Cost.Amount)
	}
	b.WriteString("_\n")
	return b.String()
}

// Schema returns the JSON Schema of the report format.
func Schema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	schema := reflector.Reflect(&Report{})
	return json.MarshalIndent(schema, "", "  ")
}

func orNA(value string) string {
	if value == "" {
		return "N/A"
	}
	return value
}
