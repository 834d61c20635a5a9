package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/easonai/armorytune/pkg/orchestrator"
	"github.com/easonai/armorytune/pkg/trainer"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var trainConfigPath string

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Run LoRA fine-tuning with a rendered trainer config",
	Long: `Run LoRA fine-tuning through the configured trainer binary.
The trainer config is rendered by the prepare step (train.yaml in the
output directory); pass -f to use a different one.`,
	Example: `  armorytune train
  armorytune train -f data/train.yaml -v`,
	Run: runTrain,
}

func init() {
	trainCmd.Flags().StringVarP(&trainConfigPath, "file", "f", "", "trainer config file (default: <output-dir>/train.yaml)")
	trainCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose/debug output")
	rootCmd.AddCommand(trainCmd)
}

func runTrain(cmd *cobra.Command, args []string) {
	Verbose = verbose
	if verbose {
		setDebugLogFunctions()
	}

	orch, err := orchestrator.NewOrchestrator(configFile)
	if err != nil {
		color.Red("Failed to initialize orchestrator: %v", err)
		os.Exit(1)
	}

	cfg := orch.GetConfig()

	cfgPath := trainConfigPath
	if cfgPath == "" {
		cfgPath = filepath.Join(cfg.Dataset.OutputDir, "train.yaml")
	}

	runner := trainer.NewRunner(cfg.Trainer.Binary, verbose)

	color.Cyan("[INF] Starting LoRA fine-tuning with %s", cfgPath)
	if err := runner.Train(context.Background(), cfgPath); err != nil {
		color.Red("Training failed: %v", err)
		os.Exit(1)
	}

	color.Green("\nTraining completed, adapter saved to %s", cfg.Trainer.OutputDir)
}
