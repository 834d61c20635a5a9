package vocab

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// BuildTokenList deduplicates raw item names into the vocabulary-extension
// token list handed to the trainer. Blank entries are dropped and first-seen
// order is preserved.
func BuildTokenList(items []string) []string {
	seen := make(map[string]bool)
	var tokens []string

	for _, item := range items {
		token := strings.TrimSpace(item)
		if token == "" || seen[token] {
			continue
		}
		seen[token] = true
		tokens = append(tokens, token)
	}

	return tokens
}

// MergeTokenLists combines several token lists, keeping the first occurrence
// of each token.
func MergeTokenLists(lists ...[]string) []string {
	seen := make(map[string]bool)
	var combined []string

	for _, list := range lists {
		for _, token := range list {
			if token != "" && !seen[token] {
				seen[token] = true
				combined = append(combined, token)
			}
		}
	}

	return combined
}

// WriteTokenList writes one token per line, the format the trainer expects
// for its vocabulary-extension step.
func WriteTokenList(tokens []string, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create token list file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, token := range tokens {
		if _, err := writer.WriteString(token + "\n"); err != nil {
			return fmt.Errorf("failed to write to token list: %w", err)
		}
	}

	return writer.Flush()
}

// ReadTokenList loads a token list file, skipping blanks and comments.
func ReadTokenList(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var tokens []string
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			tokens = append(tokens, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	return tokens, nil
}
