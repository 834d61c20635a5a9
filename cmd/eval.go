package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/easonai/armorytune/pkg/evaluator"
	"github.com/easonai/armorytune/pkg/orchestrator"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	evalModel       string
	evalSetPath     string
	evalOutput      string
	evalESExport    bool
	evalMinAccuracy float64
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate a fine-tuned model against the evaluation set",
	Long: `Evaluate a fine-tuned model by sending every evaluation case to the
configured OpenAI-compatible inference endpoint and grading the answers.
Results are written as JSONL and can optionally be indexed into
Elasticsearch.`,
	Example: `  armorytune eval -m weapon-inventory-merged
  armorytune eval -m weapon-inventory-merged -e data/evalset.json --es`,
	Run: runEval,
}

func init() {
	evalCmd.Flags().StringVarP(&evalModel, "model", "m", "", "model name served by the inference endpoint")
	evalCmd.Flags().StringVarP(&evalSetPath, "evalset", "e", "", "evaluation set file (default: <output-dir>/evalset.json)")
	evalCmd.Flags().StringVarP(&evalOutput, "output", "o", "", "results file (default: <output-dir>/eval_results.jsonl)")
	evalCmd.Flags().BoolVar(&evalESExport, "es", false, "index results into Elasticsearch after the run")
	evalCmd.Flags().Float64Var(&evalMinAccuracy, "min-accuracy", 0, "exit non-zero when overall accuracy falls below this fraction (e.g., 0.9)")
	evalCmd.Flags().BoolVar(&stats, "stats", false, "display per-category statistics after the run")
	evalCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose/debug output")
	rootCmd.AddCommand(evalCmd)
}

func runEval(cmd *cobra.Command, args []string) {
	Verbose = verbose
	if verbose {
		setDebugLogFunctions()
	}

	orch, err := orchestrator.NewOrchestrator(configFile)
	if err != nil {
		color.Red("Failed to initialize orchestrator: %v", err)
		os.Exit(1)
	}

	options := orchestrator.EvalOptions{
		EvalsetPath: evalSetPath,
		OutputPath:  evalOutput,
		Model:       evalModel,
		ESExport:    evalESExport,
	}

	report, err := orch.RunEval(context.Background(), options)
	if err != nil {
		color.Red("Evaluation failed: %v", err)
		os.Exit(1)
	}

	color.Green("\nEvaluation completed: %d/%d passed (%.1f%%) for %s in %v",
		report.Passed, report.Total, report.Accuracy()*100, report.Model, report.Duration)

	if stats {
		displayEvalStatistics(report)
	}

	if !meetsAccuracyThreshold(report, evalMinAccuracy) {
		color.Red("Accuracy %.1f%% is below the required %.1f%%", report.Accuracy()*100, evalMinAccuracy*100)
		os.Exit(1)
	}
}

// meetsAccuracyThreshold gates the exit code; a completed run is a success
// unless the operator asked for a minimum accuracy.
func meetsAccuracyThreshold(report *evaluator.Report, min float64) bool {
	if min <= 0 {
		return true
	}
	return report.Accuracy() >= min
}

func displayEvalStatistics(report *evaluator.Report) {
	fmt.Println()

	color.Cyan("[INF] Printing category statistics for %s", report.Model)
	fmt.Println()

	fmt.Printf(" %-28s %-15s %-10s %-10s %-10s\n", "Category", "Duration", "Total", "Passed", "Accuracy")
	color.Cyan(strings.Repeat("─", 76))

	for _, stat := range report.Stats {
		duration := fmt.Sprintf("%.0fms", stat.Duration.Seconds()*1000)
		if stat.Duration.Seconds() >= 1 {
			duration = fmt.Sprintf("%.3fs", stat.Duration.Seconds())
		}

		accuracy := fmt.Sprintf("%.1f%%", stat.Accuracy()*100)

		fmt.Printf(" %-28s %-15s %-10d %-10d %-10s\n",
			string(stat.Category),
			duration,
			stat.Total,
			stat.Passed,
			accuracy,
		)
	}

	fmt.Println()
}
