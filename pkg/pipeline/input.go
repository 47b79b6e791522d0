package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyIdea is returned when an evaluation is requested without an idea.
var ErrEmptyIdea = errors.New("idea is required")

// notAvailable stands in for optional fields the user left blank.
const notAvailable = "N/A"

// IdeaInput is the user's submission. Only Idea is required.
type IdeaInput struct {
	Idea    string `json:"idea" yaml:"idea"`
	Target  string `json:"target,omitempty" yaml:"target,omitempty"`
	Region  string `json:"region,omitempty" yaml:"region,omitempty"`
	Pricing string `json:"pricing,omitempty" yaml:"pricing,omitempty"`
}

// Validate rejects submissions whose idea is blank after trimming.
func (in IdeaInput) Validate() error {
	if strings.TrimSpace(in.Idea) == "" {
		return ErrEmptyIdea
	}
	return nil
}

// ProblemContext renders the submission in the fixed four-line form every
// stage's task embeds.
func (in IdeaInput) ProblemContext() string {
	return fmt.Sprintf("Idea: %s\nTarget: %s\nRegion: %s\nPricing: %s",
		in.Idea,
		orNA(in.Target),
		orNA(in.Region),
		orNA(in.Pricing),
	)
}

func orNA(value string) string {
	if value == "" {
		return notAvailable
	}
	return value
}
