package pipeline

import (
	"fmt"
	"strings"

	"github.com/SuhaibK10/startup-idea-evaluator/pkg/agent"
)

// Catalogue is the ordered set of stages an evaluation runs.
type Catalogue struct {
	Name           string   `yaml:"name" json:"name"`
	Description    string   `yaml:"description,omitempty" json:"description,omitempty"`
	DefaultAdapter string   `yaml:"adapter,omitempty" json:"adapter,omitempty"`
	DefaultModel   string   `yaml:"model,omitempty" json:"model,omitempty"`
	Stages         []*Stage `yaml:"stages" json:"stages"`
}

// DefaultCatalogue returns the built-in four-stage evaluation.
func DefaultCatalogue() *Catalogue {
	return &Catalogue{
		Name:        "startup-idea-evaluation",
		Description: "Validate, research, model and stress-test a startup idea.",
		Stages:      DefaultStages(),
	}
}

// DefaultStages returns fresh copies of the built-in stages in execution order.
func DefaultStages() []*Stage {
	return []*Stage{
		{
			Kind: StageValidate,
			Name: StageValidate.String(),
			Agent: agent.Agent{
				Name:      "Problem Validator",
				Role:      "Validates problem-solution fit",
				Goal:      "Decide if the problem is real and painful enough to solve now.",
				Backstory: "PM who interviews users and kills weak ideas early.",
			},
			Task: agent.Task{
				Description: "Evaluate the PROBLEM and its urgency.\n{{ .Problem }}\n\n" +
					"Output:\n" +
					"- Problem statement in one line\n" +
					"- Who is suffering & how often\n" +
					"- Current workarounds\n" +
					"- Verdict: green/yellow/red with 2–3 lines why",
				ExpectedOutput: "Concise bullets + a Green/Yellow/Red verdict with justification.",
			},
			Label: "🧩 Problem Validator Output",
		},
		{
			Kind: StageResearch,
			Name: StageResearch.String(),
			Agent: agent.Agent{
				Name:      "Market Researcher",
				Role:      "Quant & qual market research",
				Goal:      "Size the market, map competitors, and find insights.",
				Backstory: "Analyst triangulating public data and reasonable assumptions.",
			},
			Task: agent.Task{
				Description: "Market & competition.\n{{ .Problem }}\n\n" +
					"Output:\n" +
					"- TAM/SAM/SOM (rough ranges) with assumptions\n" +
					"- 3–5 competitors (direct/indirect) and quick notes\n" +
					"- Differentiators\n" +
					"- Early adopter segment\n" +
					"- 3 insights you’d bet on",
				ExpectedOutput: "Numbers + bullets, compact.",
			},
			Label: "📊 Market Researcher Output",
		},
		{
			Kind: StageBusinessModel,
			Name: StageBusinessModel.String(),
			Agent: agent.Agent{
				Name:      "Business Model Builder",
				Role:      "Designs business model & GTM",
				Goal:      "Propose pricing, costs, GTM, and a simple unit economics check.",
				Backstory: "Operator thinking in CAC, LTV, margins, and payback.",
			},
			Task: agent.Task{
				Description: "Business model & GTM design.\n{{ .Problem }}\n\n" +
					"Use insights from prior tasks. Output:\n" +
					"- Pricing model (Free/Pro/Enterprise) with example tiers\n" +
					"- Simple unit economics: ARPU, gross margin guess, CAC guess, payback\n" +
					"- Top 3 channels and a 30-day GTM plan\n" +
					"- 3 traction KPIs for first 60–90 days",
				ExpectedOutput: "Clear plan + one small unit-econ math example.",
			},
			Label: "💼 Business Model Builder Output",
		},
		{
			Kind: StageRisks,
			Name: StageRisks.String(),
			Agent: agent.Agent{
				Name:      "Risk Analyzer",
				Role:      "Identifies risks and mitigations",
				Goal:      "Surface product, market, execution, legal, and moat risks with mitigations.",
				Backstory: "Skeptical advisor who stress-tests assumptions.",
			},
			Task: agent.Task{
				Description: "Risk assessment & mitigations.\n{{ .Problem }}\n\n" +
					"Output:\n" +
					"- Product risks\n" +
					"- Market/Timing risks\n" +
					"- Execution risks\n" +
					"- Legal/Compliance risks\n" +
					"- Moat & defensibility\n" +
					"- Mitigations (bulleted, concrete)",
				ExpectedOutput: "Bulleted risks grouped by type + concrete mitigations.",
			},
			Label: "⚠️ Risk Analyzer Output",
		},
	}
}

// Stage returns the stage with the given kind, or nil.
func (c *Catalogue) Stage(kind StageKind) *Stage {
	for _, stage := range c.Stages {
		if stage.Kind == kind {
			return stage
		}
	}
	return nil
}

// Validate checks that the catalogue holds exactly the four stages in order
// and that every task template parses.
func (c *Catalogue) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("catalogue name is required")
	}
	if len(c.Stages) != len(StageOrder) {
		return fmt.Errorf("catalogue must define %d stages, got %d", len(StageOrder), len(c.Stages))
	}

	for i, stage := range c.Stages {
		if stage == nil {
			return fmt.Errorf("stage %d is nil", i)
		}
		want := StageOrder[i]
		if stage.Kind != want || stage.Name != want.String() {
			return fmt.Errorf("stage %d must be %s, got %s", i, want, stage.Name)
		}
		if strings.TrimSpace(stage.Agent.Role) == "" {
			return fmt.Errorf("stage %s must have an agent role", stage.Name)
		}
		if strings.TrimSpace(stage.Task.Description) == "" {
			return fmt.Errorf("stage %s must have a task description", stage.Name)
		}
		if _, err := stage.RenderTask(IdeaInput{Idea: "check"}); err != nil {
			return err
		}
	}

	return nil
}
