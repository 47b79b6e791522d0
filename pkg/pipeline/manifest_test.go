package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadManifest(t *testing.T) {
	content := `name: clinic-evaluation
adapter: mock
model: mock-1

stages:
  - name: research
    display_name: Clinic Market Analyst
    task: "Market sizing for clinics.\n{{ .Problem }}"
  - name: risks
    model: mock-2
`

	path := filepath.Join(t.TempDir(), "stages.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	cat, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	if err := cat.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	if cat.Name != "clinic-evaluation" || cat.DefaultAdapter != "mock" || cat.DefaultModel != "mock-1" {
		t.Fatalf("unexpected catalogue header %+v", cat)
	}
	research := cat.Stage(StageResearch)
	if research.Agent.Name != "Clinic Market Analyst" {
		t.Fatalf("expected display name override, got %q", research.Agent.Name)
	}
	if research.Agent.Role != "Quant & qual market research" {
		t.Fatalf("expected role to keep default, got %q", research.Agent.Role)
	}
	task, err := research.RenderTask(sampleInput)
	if err != nil {
		t.Fatalf("render task: %v", err)
	}
	if !strings.HasPrefix(task.Description, "Market sizing for clinics.\nIdea: AI voice bot for clinics") {
		t.Fatalf("unexpected task %q", task.Description)
	}
	if cat.Stage(StageRisks).Model != "mock-2" {
		t.Fatalf("expected model override on risks")
	}
}

func TestLoadManifestRejectsUnknownStage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stages.yaml")
	if err := os.WriteFile(path, []byte("name: x\nstages:\n  - name: pitch\n"), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	if _, err := LoadManifest(path); err == nil || !strings.Contains(err.Error(), "unknown stage pitch") {
		t.Fatalf("expected unknown stage error, got %v", err)
	}
}

func TestLoadManifestRejectsBadTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stages.yaml")
	if err := os.WriteFile(path, []byte("name: x\nstages:\n  - name: validate\n    task: \"{{ .Missing }}\"\n"), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	cat, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	if err := cat.Validate(); err == nil {
		t.Fatalf("expected template error")
	}
}

func TestCatalogueValidateOrder(t *testing.T) {
	cat := DefaultCatalogue()
	cat.Stages[0], cat.Stages[1] = cat.Stages[1], cat.Stages[0]
	if err := cat.Validate(); err == nil {
		t.Fatalf("expected order error")
	}

	cat = DefaultCatalogue()
	cat.Stages = cat.Stages[:3]
	if err := cat.Validate(); err == nil {
		t.Fatalf("expected count error")
	}
}
