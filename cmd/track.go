package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/easonai/armorytune/pkg/database"
	"github.com/easonai/armorytune/pkg/orchestrator"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var trackAll bool

var trackCmd = &cobra.Command{
	Use:   "track [model]",
	Short: "Query the evaluation run tracking database",
	Long:  `Query the evaluation run tracking database for a specific model or all models`,
	Run:   runTrack,
}

func init() {
	trackCmd.Flags().BoolVar(&trackAll, "all", false, "query all models")
	rootCmd.AddCommand(trackCmd)
}

func runTrack(cmd *cobra.Command, args []string) {
	if !trackAll && len(args) == 0 {
		color.Red("Error: either provide a model name or use --all flag")
		cmd.Help()
		os.Exit(1)
	}

	if trackAll && len(args) > 0 {
		color.Red("Error: cannot use both model name and --all flag together")
		cmd.Help()
		os.Exit(1)
	}

	orch, err := orchestrator.NewOrchestrator(configFile)
	if err != nil {
		color.Red("Failed to initialize orchestrator: %v", err)
		os.Exit(1)
	}

	db := orch.GetDB()
	if db == nil || !db.IsEnabled() {
		color.Red("Error: Database is not enabled. Please enable it in config.yaml")
		os.Exit(1)
	}

	records, err := queryRecords(orch, args)
	if err != nil {
		color.Red("Failed to query database: %v", err)
		os.Exit(1)
	}

	if len(records) == 0 {
		if len(args) > 0 {
			color.Yellow("[INF] Model %s not found in database.", args[0])
		} else {
			color.Yellow("[INF] No evaluation runs recorded yet.")
		}
		os.Exit(0)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, color.CyanString("RUN\tMODEL\tCATEGORY\tPASSED\tTOTAL\tACCURACY\tRUN_AT"))
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for _, r := range records {
		accuracy := 0.0
		if r.CatTotal > 0 {
			accuracy = float64(r.CatPass) / float64(r.CatTotal) * 100
		}

		accColor := color.GreenString
		if accuracy < 50 {
			accColor = color.RedString
		} else if accuracy < 90 {
			accColor = color.YellowString
		}

		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%s\t%s\n",
			r.ID,
			r.Model,
			r.Category,
			r.CatPass,
			r.CatTotal,
			accColor(fmt.Sprintf("%.1f%%", accuracy)),
			r.RunAt.Format("2006-01-02 15:04:05"),
		)
	}
	w.Flush()

	color.Green("\nTotal records: %d", len(records))
}

func queryRecords(orch *orchestrator.Orchestrator, args []string) ([]database.EvalRunRecord, error) {
	db := orch.GetDB()
	if trackAll {
		return db.QueryAllRuns()
	}
	return db.QueryRuns(args[0])
}
