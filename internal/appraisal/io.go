package appraisal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// LoadDataset reads an appraisal document from disk. A missing or unreadable
// file is a boundary failure and is returned as an error.
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read appraisal document %s: %w", path, err)
	}

	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse appraisal document %s: %w", path, err)
	}

	return &ds, nil
}

// SaveDataset writes an appraisal document, preserving the {"appraisals":[...]}
// wrapper so each stage's output can be fed back in as the next stage's input.
func SaveDataset(path string, ds *Dataset) error {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode appraisal document: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write appraisal document %s: %w", path, err)
	}

	return nil
}
