package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// Artifact is the immutable text a stage produced, with its provenance.
type Artifact struct {
	ID        string            `json:"id" yaml:"id"`
	Stage     string            `json:"stage" yaml:"stage"`
	Content   string            `json:"content" yaml:"content"`
	Adapter   string            `json:"adapter" yaml:"adapter"`
	Model     string            `json:"model" yaml:"model"`
	Prompt    string            `json:"prompt,omitempty" yaml:"prompt,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at" yaml:"created_at"`
	Hash      string            `json:"hash" yaml:"hash"`
}

// New creates a new Artifact with computed hash.
func New(stage, content, adapter, model, prompt string) *Artifact {
	a := &Artifact{
		ID:        uuid.NewString(),
		Stage:     stage,
		Content:   content,
		Adapter:   adapter,
		Model:     model,
		Prompt:    prompt,
		Metadata:  make(map[string]string),
		CreatedAt: time.Now().UTC(),
	}
	a.Hash = a.computeHash()
	return a
}

// WithMetadata returns a copy of the artifact with an additional metadata entry.
func (a *Artifact) WithMetadata(key, value string) *Artifact {
	clone := *a
	clone.Metadata = make(map[string]string, len(a.Metadata)+1)
	for k, v := range a.Metadata {
		clone.Metadata[k] = v
	}
	clone.Metadata[key] = value
	return &clone
}

// Verify reports whether the content still matches the recorded hash.
func (a *Artifact) Verify() bool {
	return a.Hash == a.computeHash()
}

func (a *Artifact) computeHash() string {
	h := sha256.New()
	h.Write([]byte(a.Stage))
	h.Write([]byte{0})
	h.Write([]byte(a.Content))
	h.Write([]byte{0})
	h.Write([]byte(a.Adapter))
	h.Write([]byte{0})
	h.Write([]byte(a.Model))
	return hex.EncodeToString(h.Sum(nil))[:16]
}
