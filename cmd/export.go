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

var exportConfigPath string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Merge the trained LoRA adapter into a standalone model",
	Long: `Merge the trained LoRA adapter into the base model and export the
result as a standalone model directory, using the export config rendered
by the prepare step (export.yaml in the output directory).`,
	Example: `  armorytune export
  armorytune export -f data/export.yaml`,
	Run: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportConfigPath, "file", "f", "", "export config file (default: <output-dir>/export.yaml)")
	exportCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose/debug output")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) {
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

	cfgPath := exportConfigPath
	if cfgPath == "" {
		cfgPath = filepath.Join(cfg.Dataset.OutputDir, "export.yaml")
	}

	runner := trainer.NewRunner(cfg.Trainer.Binary, verbose)

	color.Cyan("[INF] Merging adapter with %s", cfgPath)
	if err := runner.Export(context.Background(), cfgPath); err != nil {
		color.Red("Export failed: %v", err)
		os.Exit(1)
	}

	color.Green("\nExport completed, merged model written to %s", cfg.Trainer.ExportDir)
}
