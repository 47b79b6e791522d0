package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Writer writes report bundles to disk.
type Writer struct {
	runDir string
}

// NewWriter creates a new report writer rooted at baseDir/runID.
func NewWriter(baseDir, runID string) (*Writer, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("base directory is required")
	}
	if runID == "" {
		return nil, fmt.Errorf("run ID is required")
	}

	runDir := filepath.Join(baseDir, runID)
	if err := os.MkdirAll(filepath.Join(runDir, "stages"), 0o755); err != nil {
		return nil, err
	}

	return &Writer{runDir: runDir}, nil
}

// RunDir returns the run directory path.
func (w *Writer) RunDir() string {
	return w.runDir
}

// WriteRun writes the full report to run.json.
func (w *Writer) WriteRun(r *Report) error {
	return writeJSON(filepath.Join(w.runDir, "run.json"), r)
}

// WriteStage writes a stage record to stages/<stage>.json.
func (w *Writer) WriteStage(record StageRecord) error {
	if record.Name == "" {
		return fmt.Errorf("stage name is required")
	}
	path := filepath.Join(w.runDir, "stages", fmt.Sprintf("%s.json", record.Name))
	return writeJSON(path, record)
}

// WriteReport writes the markdown rendering to report.md.
func (w *Writer) WriteReport(r *Report) error {
	return os.WriteFile(filepath.Join(w.runDir, "report.md"), []byte(Markdown(r)), 0o644)
}

// WriteAll writes run.json, every stage record and report.md.
func (w *Writer) WriteAll(r *Report) error {
	if err := w.WriteRun(r); err != nil {
		return err
	}
	for _, stage := range r.Stages {
		if err := w.WriteStage(stage); err != nil {
			return err
		}
	}
	return w.WriteReport(r)
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
