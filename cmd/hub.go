package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/easonai/armorytune/pkg/config"
	"github.com/easonai/armorytune/pkg/hub"
	"github.com/easonai/armorytune/pkg/orchestrator"
	"github.com/easonai/armorytune/pkg/session"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	hubRepo    string
	hubToken   string
	hubDir     string
	hubMessage string
	hubForce   bool
)

var hubCmd = &cobra.Command{
	Use:   "hub",
	Short: "Upload or download model artifacts on the model hub",
	Long:  `Upload merged model artifacts to the configured model hub, or download a published model into the local cache.`,
}

var hubUploadCmd = &cobra.Command{
	Use:   "upload [files...]",
	Short: "Upload model artifacts to the hub",
	Long: `Upload model artifacts to the configured hub repository. Without
arguments the standard checkpoint files from the export directory are
uploaded.`,
	Example: `  armorytune hub upload
  armorytune hub upload export/weapon-inventory-merged/model.safetensors -m "retrained adapter"`,
	Run: runHubUpload,
}

var hubDownloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download a published model from the hub",
	Example: `  armorytune hub download -r easonai/weapon-inventory-qwen
  armorytune hub download -r easonai/weapon-inventory-qwen --force`,
	Run: runHubDownload,
}

func init() {
	hubCmd.PersistentFlags().StringVarP(&hubRepo, "repo", "r", "", "hub repository (e.g., 'easonai/weapon-inventory-qwen')")
	hubCmd.PersistentFlags().StringVarP(&hubToken, "token", "t", "", "hub access token (overrides config)")
	hubUploadCmd.Flags().StringVarP(&hubMessage, "message", "m", "", "commit message for the upload")
	hubDownloadCmd.Flags().StringVarP(&hubDir, "dir", "d", "", "destination directory (default: model cache)")
	hubDownloadCmd.Flags().BoolVar(&hubForce, "force", false, "re-download files that already exist locally")
	hubCmd.AddCommand(hubUploadCmd)
	hubCmd.AddCommand(hubDownloadCmd)
	rootCmd.AddCommand(hubCmd)
}

func hubClient(orch *orchestrator.Orchestrator) (*hub.Client, string) {
	cfg := orch.GetConfig()

	token := hubToken
	if token == "" {
		token = cfg.Hub.Token
	}

	repo := hubRepo
	if repo == "" {
		repo = cfg.Hub.Repo
	}

	sess, err := session.New(cfg)
	if err != nil {
		color.Red("Failed to create session: %v", err)
		os.Exit(1)
	}

	return hub.New(cfg.Hub.Endpoint, token, sess.Client), repo
}

func runHubUpload(cmd *cobra.Command, args []string) {
	Verbose = verbose
	if verbose {
		setDebugLogFunctions()
	}

	orch, err := orchestrator.NewOrchestrator(configFile)
	if err != nil {
		color.Red("Failed to initialize orchestrator: %v", err)
		os.Exit(1)
	}

	client, repo := hubClient(orch)
	if repo == "" {
		color.Red("Error: -r (repo) is required")
		cmd.Help()
		os.Exit(1)
	}

	paths := args
	if len(paths) == 0 {
		exportDir := orch.GetConfig().Trainer.ExportDir
		for _, name := range hub.DefaultModelFiles {
			paths = append(paths, filepath.Join(exportDir, name))
		}
	}

	color.Cyan("[INF] Uploading %d files to %s", len(paths), repo)

	if err := client.Upload(context.Background(), repo, paths, hubMessage); err != nil {
		handleHubError(err)
		os.Exit(1)
	}

	color.Green("\nUpload completed: %d files pushed to %s", len(paths), repo)
}

func runHubDownload(cmd *cobra.Command, args []string) {
	Verbose = verbose
	if verbose {
		setDebugLogFunctions()
	}

	orch, err := orchestrator.NewOrchestrator(configFile)
	if err != nil {
		color.Red("Failed to initialize orchestrator: %v", err)
		os.Exit(1)
	}

	client, repo := hubClient(orch)
	if repo == "" {
		color.Red("Error: -r (repo) is required")
		cmd.Help()
		os.Exit(1)
	}

	destDir := hubDir
	if destDir == "" {
		destDir = filepath.Join(config.GetModelCacheDir(), filepath.Base(repo))
	}

	color.Cyan("[INF] Downloading %s into %s", repo, destDir)

	if err := client.Download(context.Background(), repo, nil, destDir, hubForce); err != nil {
		handleHubError(err)
		os.Exit(1)
	}

	color.Green("\nDownload completed: %s is ready in %s", repo, destDir)
}

func handleHubError(err error) {
	switch {
	case errors.Is(err, hub.ErrUnauthorized):
		color.Red("Hub error: %v", err)
		color.Yellow("Run with -t <token> or set hub.token in config.yaml, then retry.")
	case errors.Is(err, hub.ErrForbidden):
		color.Red("Hub error: %v", err)
		color.Yellow("The token does not have write access to this repository.")
	case errors.Is(err, hub.ErrNotFound):
		color.Red("Hub error: %v", err)
		color.Yellow("Check the repository name; private repositories need a valid token.")
	default:
		color.Red("Hub error: %v", err)
	}
}
