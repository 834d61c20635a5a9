package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/easonai/armorytune/pkg/config"
	"github.com/easonai/armorytune/pkg/database"
	"github.com/easonai/armorytune/pkg/elastic"
	"github.com/easonai/armorytune/pkg/evaluator"
	"github.com/easonai/armorytune/pkg/hub"
	"github.com/easonai/armorytune/pkg/orchestrator"
	"github.com/easonai/armorytune/pkg/session"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	configFile    string
	inventoryPath string
	outputDir     string
	mergePath     string
	seed          int64
	shuffle       bool
	silent        bool
	stats         bool
	verbose       bool
)

var Verbose bool

var rootCmd = &cobra.Command{
	Use:   "armorytune",
	Short: "weapon inventory fine-tuning toolkit",
	Long:  `all in one toolkit for LoRA fine-tuning an LLM on weapon inventory question answering`,
	Run:   runPrepare,
}

func Execute() {
	hasSilentFlag := false
	for i, arg := range os.Args {
		if arg == "-silent" {
			os.Args[i] = "--silent"
			hasSilentFlag = true
		}
		if arg == "-stats" {
			os.Args[i] = "--stats"
		}
		if arg == "-shuffle" {
			os.Args[i] = "--shuffle"
		}
		if arg == "-merge" {
			os.Args[i] = "--merge"
		}
		if arg == "-seed" {
			os.Args[i] = "--seed"
		}
	}

	if !hasSilentFlag {
		printBanner()
	}

	if err := rootCmd.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func DebugLog(format string, args ...interface{}) {
	if Verbose {
		fmt.Printf("[DBG] "+format+"\n", args...)
	}
}

func setDebugLogFunctions() {
	config.DebugLog = DebugLog
	orchestrator.DebugLog = DebugLog
	session.DebugLog = DebugLog
	database.DebugLog = DebugLog
	elastic.DebugLog = DebugLog
	evaluator.DebugLog = DebugLog
	hub.DebugLog = DebugLog
}

func init() {
	rootCmd.SetHelpTemplate(`Usage:
  {{.UseLine}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}

{{if .HasAvailableSubCommands}}Commands:{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}

{{end}}Flags:
INPUT:
   -i, -inventory string   inventory export file, one item name per line
   -merge string           existing dataset to merge into the generated one

GENERATION:
   -seed int               random seed for dataset generation (default: 42)
   -shuffle                shuffle the training dataset before writing

OUTPUT:
   -o, -output string      output directory for generated files (default: data)
   -silent                 silent mode - no banner or extra output
   -stats                  display generation statistics after the run

CONFIGURATION:
   -c, -config string      config file path (default: config/config.yaml)

OPTIMIZATION:
   -v, -verbose            enable verbose/debug output
{{if .HasAvailableSubCommands}}
Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`)

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (default: config/config.yaml)")

	rootCmd.Flags().StringVarP(&inventoryPath, "inventory", "i", "", "inventory export file, one item name per line")
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory for generated files (default: data)")
	rootCmd.Flags().StringVar(&mergePath, "merge", "", "existing dataset to merge into the generated one")
	rootCmd.Flags().Int64Var(&seed, "seed", 0, "random seed for dataset generation (default: 42)")
	rootCmd.Flags().BoolVar(&shuffle, "shuffle", false, "shuffle the training dataset before writing")
	rootCmd.Flags().BoolVar(&silent, "silent", false, "silent mode - no banner or extra output")
	rootCmd.Flags().BoolVar(&stats, "stats", false, "display generation statistics after the run")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose/debug output")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

func runPrepare(cmd *cobra.Command, args []string) {
	Verbose = verbose

	if verbose {
		setDebugLogFunctions()
	}

	orch, err := orchestrator.NewOrchestrator(configFile)
	if err != nil {
		color.Red("Failed to initialize orchestrator: %v", err)
		os.Exit(1)
	}

	if inventoryPath == "" && orch.GetConfig().Dataset.InventoryPath == "" {
		color.Red("Error: -i (inventory) is required")
		cmd.Help()
		os.Exit(1)
	}

	DebugLog("preparing fine-tuning data from %s", inventoryPath)

	options := orchestrator.PrepareOptions{
		InventoryPath: inventoryPath,
		OutputDir:     outputDir,
		MergePath:     mergePath,
		Seed:          seed,
		Shuffle:       shuffle,
		Stats:         stats,
		Silent:        silent,
	}

	result, err := orch.RunPrepare(options)
	if err != nil {
		color.Red("Preparation failed: %v", err)
		os.Exit(1)
	}

	if !silent {
		color.Green("\nPreparation completed: %d training records and %d evaluation cases from %d weapons in %v",
			result.TrainRecords, result.EvalCases, result.Weapons, result.Duration)
	}

	if stats && !silent {
		displayStatistics(result)
	}
}

func printBanner() {
	banner := color.CyanString(`
┌─┐┬─┐┌┬┐┌─┐┬─┐┬ ┬┌┬┐┬ ┬┌┐┌┌─┐
├─┤├┬┘││││ │├┬┘└┬┘ │ │ ││││├┤
┴ ┴┴└─┴ ┴└─┘┴└─ ┴  ┴ └─┘┘└┘└─┘ @easonai
`)
	info := color.HiBlackString("weapon inventory dataset generation & LoRA fine-tuning toolkit")
	fmt.Println(banner)
	fmt.Println(info)
	fmt.Println()
}

func displayStatistics(result *orchestrator.PrepareResult) {
	fmt.Println()

	color.Green("[INF] Generated %d records from %d items (%d weapons, %d excluded) in %v",
		result.TrainRecords, result.Items, result.Weapons, result.Excluded, result.Duration)
	fmt.Println()

	color.Cyan("[INF] Printing generation statistics")
	fmt.Println()

	fmt.Printf(" %-24s %-10s\n", "Record kind", "Count")
	color.Cyan(strings.Repeat("─", 40))
	fmt.Printf(" %-24s %-10d\n", "positive", result.GenStats.Positive)
	fmt.Printf(" %-24s %-10d\n", "negative", result.GenStats.Negative)
	fmt.Printf(" %-24s %-10d\n", "comparison", result.GenStats.Comparison)
	fmt.Printf(" %-24s %-10d\n", "deduplicated", result.GenStats.Deduped)
	fmt.Printf(" %-24s %-10d\n", "vocabulary tokens", result.Tokens)
	fmt.Println()

	color.Cyan("[INF] Weapons per type")
	fmt.Println()
	fmt.Printf(" %-16s %-10s\n", "Type", "Count")
	color.Cyan(strings.Repeat("─", 30))

	types := make([]string, 0, len(result.TypeCounts))
	for t := range result.TypeCounts {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Printf(" %-16s %-10d\n", t, result.TypeCounts[t])
	}

	fmt.Println()
}
