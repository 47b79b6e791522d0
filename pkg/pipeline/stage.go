package pipeline

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/SuhaibK10/startup-idea-evaluator/pkg/agent"
)

// StageKind identifies one of the four evaluation stages.
type StageKind int

const (
	StageValidate StageKind = iota
	StageResearch
	StageBusinessModel
	StageRisks
)

// StageOrder is the fixed execution order.
var StageOrder = []StageKind{StageValidate, StageResearch, StageBusinessModel, StageRisks}

var stageNames = map[StageKind]string{
	StageValidate:      "validate",
	StageResearch:      "research",
	StageBusinessModel: "business_model",
	StageRisks:         "risks",
}

func (k StageKind) String() string {
	if name, ok := stageNames[k]; ok {
		return name
	}
	return fmt.Sprintf("stage(%d)", int(k))
}

// ParseStageKind maps a stage name back to its kind.
func ParseStageKind(name string) (StageKind, bool) {
	for kind, n := range stageNames {
		if n == name {
			return kind, true
		}
	}
	return 0, false
}

// Stage is one step of the evaluation.
type Stage struct {
	Kind    StageKind   `yaml:"-" json:"-"`
	Name    string      `yaml:"name" json:"name"`
	Agent   agent.Agent `yaml:"agent" json:"agent"`
	Task    agent.Task  `yaml:"task" json:"task"`
	Label   string      `yaml:"label,omitempty" json:"label,omitempty"`
	Adapter string      `yaml:"adapter,omitempty" json:"adapter,omitempty"`
	Model   string      `yaml:"model,omitempty" json:"model,omitempty"`
}

// Spinner is the progress message shown while the stage runs.
func (s *Stage) Spinner() string {
	return fmt.Sprintf("Running %s…", s.Agent.Name)
}

// taskData is exposed to task description templates.
type taskData struct {
	Problem string
	Idea    string
	Target  string
	Region  string
	Pricing string
}

func newTaskData(in IdeaInput) taskData {
	return taskData{
		Problem: in.ProblemContext(),
		Idea:    in.Idea,
		Target:  orNA(in.Target),
		Region:  orNA(in.Region),
		Pricing: orNA(in.Pricing),
	}
}

// RenderTask fills the stage's task description for the given input.
func (s *Stage) RenderTask(in IdeaInput) (agent.Task, error) {
	description, err := renderTemplate(s.Name, s.Task.Description, newTaskData(in))
	if err != nil {
		return agent.Task{}, fmt.Errorf("render task for stage %s: %w", s.Name, err)
	}
	return agent.Task{Description: description, ExpectedOutput: s.Task.ExpectedOutput}, nil
}

func renderTemplate(name, text string, data any) (string, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}
