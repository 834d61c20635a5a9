package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strings"
)

// QAPair is one supervised fine-tuning record. The instruction field stays
// empty: the full question lives in the input so every record has a single
// deterministic answer.
type QAPair struct {
	Instruction string `json:"instruction"`
	Input       string `json:"input"`
	Output      string `json:"output"`
}

// AnswerStats counts answer openings, used to keep the positive/negative
// balance visible after generation.
type AnswerStats struct {
	Affirmative int
	Negative    int
	Other       int
}

func (s AnswerStats) Total() int {
	return s.Affirmative + s.Negative + s.Other
}

// Dedup removes records whose input was already seen, keeping the first.
func Dedup(pairs []QAPair) []QAPair {
	seen := make(map[string]bool)
	var unique []QAPair

	for _, qa := range pairs {
		if seen[qa.Input] {
			continue
		}
		seen[qa.Input] = true
		unique = append(unique, qa)
	}

	return unique
}

// Merge combines two datasets, preferring the primary dataset's answer when
// both contain the same input. Returns the merged set and the number of
// records contributed by the secondary dataset.
func Merge(primary, secondary []QAPair) ([]QAPair, int) {
	seen := make(map[string]bool)
	var merged []QAPair

	for _, qa := range primary {
		if seen[qa.Input] {
			continue
		}
		seen[qa.Input] = true
		merged = append(merged, qa)
	}

	added := 0
	for _, qa := range secondary {
		if seen[qa.Input] {
			continue
		}
		seen[qa.Input] = true
		merged = append(merged, qa)
		added++
	}

	return merged, added
}

// Shuffle permutes the records in place using the supplied source.
func Shuffle(rng *rand.Rand, pairs []QAPair) {
	rng.Shuffle(len(pairs), func(i, j int) {
		pairs[i], pairs[j] = pairs[j], pairs[i]
	})
}

// CountAnswers classifies answers by their opening: affirmations start with
// 是, denials with 不是.
func CountAnswers(pairs []QAPair) AnswerStats {
	var stats AnswerStats
	for _, qa := range pairs {
		switch {
		case strings.HasPrefix(qa.Output, "不是"):
			stats.Negative++
		case strings.HasPrefix(qa.Output, "是"):
			stats.Affirmative++
		default:
			stats.Other++
		}
	}
	return stats
}

// WriteJSON writes the dataset the way the trainer reads it: a UTF-8 JSON
// array, two-space indent, no HTML escaping of the CJK text.
func WriteJSON(pairs []QAPair, outputPath string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err := enc.Encode(pairs); err != nil {
		return fmt.Errorf("failed to encode dataset: %w", err)
	}

	if err := os.WriteFile(outputPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write dataset file: %w", err)
	}

	return nil
}

// ReadJSON loads a dataset file written by WriteJSON (or by hand).
func ReadJSON(path string) ([]QAPair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset file: %w", err)
	}

	var pairs []QAPair
	if err := json.Unmarshal(data, &pairs); err != nil {
		return nil, fmt.Errorf("failed to parse dataset file: %w", err)
	}

	return pairs, nil
}
