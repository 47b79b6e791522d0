package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is the on-disk form of a stage override file. Stages are matched
// by name; fields left empty keep their built-in values.
type Manifest struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description,omitempty"`
	Adapter     string          `yaml:"adapter,omitempty"`
	Model       string          `yaml:"model,omitempty"`
	Stages      []StageOverride `yaml:"stages,omitempty"`
}

// StageOverride replaces parts of a built-in stage.
type StageOverride struct {
	Name           string `yaml:"name"`
	Label          string `yaml:"label,omitempty"`
	DisplayName    string `yaml:"display_name,omitempty"`
	Role           string `yaml:"role,omitempty"`
	Goal           string `yaml:"goal,omitempty"`
	Backstory      string `yaml:"backstory,omitempty"`
	Task           string `yaml:"task,omitempty"`
	ExpectedOutput string `yaml:"expected_output,omitempty"`
	Adapter        string `yaml:"adapter,omitempty"`
	Model          string `yaml:"model,omitempty"`
}

// LoadManifest reads a stage manifest and applies it over the default catalogue.
func LoadManifest(path string) (*Catalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}

	return manifest.Apply(DefaultCatalogue())
}

// Apply merges the manifest into the catalogue in place and returns it.
func (m *Manifest) Apply(cat *Catalogue) (*Catalogue, error) {
	if m.Name != "" {
		cat.Name = m.Name
	}
	if m.Description != "" {
		cat.Description = m.Description
	}
	cat.DefaultAdapter = m.Adapter
	cat.DefaultModel = m.Model

	seen := make(map[string]struct{})
	for _, override := range m.Stages {
		if override.Name == "" {
			return nil, fmt.Errorf("stage name is required")
		}
		if _, ok := seen[override.Name]; ok {
			return nil, fmt.Errorf("duplicate stage name: %s", override.Name)
		}
		seen[override.Name] = struct{}{}

		kind, ok := ParseStageKind(override.Name)
		if !ok {
			return nil, fmt.Errorf("unknown stage %s", override.Name)
		}
		stage := cat.Stage(kind)
		if stage == nil {
			return nil, fmt.Errorf("stage %s missing from catalogue", override.Name)
		}
		override.applyTo(stage)
	}

	return cat, nil
}

func (o StageOverride) applyTo(stage *Stage) {
	set := func(dst *string, value string) {
		if value != "" {
			*dst = value
		}
	}
	set(&stage.Label, o.Label)
	set(&stage.Agent.Name, o.DisplayName)
	set(&stage.Agent.Role, o.Role)
	set(&stage.Agent.Goal, o.Goal)
	set(&stage.Agent.Backstory, o.Backstory)
	set(&stage.Task.Description, o.Task)
	set(&stage.Task.ExpectedOutput, o.ExpectedOutput)
	set(&stage.Adapter, o.Adapter)
	set(&stage.Model, o.Model)
}
