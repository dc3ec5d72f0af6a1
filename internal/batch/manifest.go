package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Manifest summarises a batch run.
type Manifest struct {
	Generated time.Time `json:"generated"`
	Total     int       `json:"total"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	Entries   []Result  `json:"entries"`
}

// NewManifest tallies results.
func NewManifest(results []Result, now time.Time) Manifest {
	m := Manifest{Generated: now.UTC(), Total: len(results), Entries: results}
	for _, r := range results {
		if r.Success {
			m.Succeeded++
		} else {
			m.Failed++
		}
	}
	return m
}

// WriteManifest writes manifest.json to path.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("batch: encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("batch: write manifest %s: %w", path, err)
	}
	return nil
}
