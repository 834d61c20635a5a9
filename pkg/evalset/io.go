package evalset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// WriteJSON persists the evaluation set with the same formatting conventions
// as the training dataset files.
func WriteJSON(cases []Case, outputPath string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err := enc.Encode(cases); err != nil {
		return fmt.Errorf("failed to encode evaluation set: %w", err)
	}

	if err := os.WriteFile(outputPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write evaluation set: %w", err)
	}

	return nil
}

// ReadJSON loads an evaluation set file.
func ReadJSON(path string) ([]Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read evaluation set: %w", err)
	}

	var cases []Case
	if err := json.Unmarshal(data, &cases); err != nil {
		return nil, fmt.Errorf("failed to parse evaluation set: %w", err)
	}

	return cases, nil
}
