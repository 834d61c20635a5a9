package evaluator

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/easonai/armorytune/pkg/evalset"
)

var DebugLog func(string, ...interface{})

// Result records the outcome of one evaluation case.
type Result struct {
	Category evalset.Category `json:"category"`
	Input    string           `json:"input"`
	Expected string           `json:"expected"`
	Answer   string           `json:"answer"`
	Passed   bool             `json:"passed"`
	Error    string           `json:"error,omitempty"`
}

// CategoryStat aggregates results per query category.
type CategoryStat struct {
	Category evalset.Category
	Total    int
	Passed   int
	Errors   int
	Duration time.Duration
}

func (s CategoryStat) Accuracy() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Passed) / float64(s.Total)
}

// Report is the full outcome of one evaluation run.
type Report struct {
	Model     string
	StartTime time.Time
	Duration  time.Duration
	Total     int
	Passed    int
	Results   []Result
	Stats     []CategoryStat
}

func (r *Report) Accuracy() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Passed) / float64(r.Total)
}

// Run asks the model every case in order and grades the answers. Cases run
// sequentially: the evaluation is a single operator-driven pass, and batched
// inference belongs to the serving side.
func Run(ctx context.Context, client Client, model string, cases []evalset.Case) (*Report, error) {
	report := &Report{
		Model:     model,
		StartTime: time.Now(),
	}

	statIndex := make(map[evalset.Category]*CategoryStat)
	var extraCategories []evalset.Category
	for _, cc := range evalset.CategoryCounts {
		stat := &CategoryStat{Category: cc.Category}
		statIndex[cc.Category] = stat
	}

	for _, c := range cases {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		stat, ok := statIndex[c.Category]
		if !ok {
			// Category outside the standard partition; keep
			// first-seen order for the report.
			stat = &CategoryStat{Category: c.Category}
			statIndex[c.Category] = stat
			extraCategories = append(extraCategories, c.Category)
		}

		caseStart := time.Now()
		answer, err := client.Ask(ctx, c.Input)
		stat.Duration += time.Since(caseStart)
		stat.Total++

		result := Result{
			Category: c.Category,
			Input:    c.Input,
			Expected: c.Expected,
			Answer:   answer,
		}

		if err != nil {
			result.Error = err.Error()
			stat.Errors++
		} else if Grade(c.Expected, answer) {
			result.Passed = true
			stat.Passed++
			report.Passed++
		}

		if DebugLog != nil {
			DebugLog("[%s] %q -> passed=%v", c.Category, c.Input, result.Passed)
		}

		report.Results = append(report.Results, result)
		report.Total++
	}

	for _, cc := range evalset.CategoryCounts {
		report.Stats = append(report.Stats, *statIndex[cc.Category])
	}
	for _, cat := range extraCategories {
		report.Stats = append(report.Stats, *statIndex[cat])
	}

	report.Duration = time.Since(report.StartTime)
	return report, nil
}

// Grade accepts an answer that matches the expected text exactly, or that
// contains it after whitespace normalization. Models often prepend a short
// lead-in to an otherwise correct answer.
func Grade(expected, answer string) bool {
	e := normalize(expected)
	a := normalize(answer)

	if e == "" {
		return false
	}
	if a == e {
		return true
	}
	return strings.Contains(a, e)
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.TrimSpace(s)), "")
}

// WriteJSONL writes one result per line, the format the Elasticsearch bulk
// export consumes.
func WriteJSONL(results []Result, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create results file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	enc := json.NewEncoder(writer)
	enc.SetEscapeHTML(false)

	for _, r := range results {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
	}

	return writer.Flush()
}
