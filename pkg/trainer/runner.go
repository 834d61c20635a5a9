package trainer

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// Runner drives the external trainer CLI. Each run is a single process
// invocation executed to completion.
type Runner struct {
	Binary  string
	Verbose bool
}

func NewRunner(binary string, verbose bool) *Runner {
	if binary == "" {
		binary = "llamafactory-cli"
	}
	return &Runner{Binary: binary, Verbose: verbose}
}

// Train launches a fine-tuning run with the given config file.
func (r *Runner) Train(ctx context.Context, configPath string) error {
	return r.run(ctx, "train", configPath)
}

// Export merges the adapter into the base checkpoint per the config file.
func (r *Runner) Export(ctx context.Context, configPath string) error {
	return r.run(ctx, "export", configPath)
}

func (r *Runner) run(ctx context.Context, subcommand, configPath string) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file not found: %s", configPath)
	}

	if _, err := exec.LookPath(r.Binary); err != nil {
		return fmt.Errorf("trainer binary %q not found in PATH: %w", r.Binary, err)
	}

	if r.Verbose {
		fmt.Printf("[DBG] running %s %s %s\n", r.Binary, subcommand, configPath)
	}

	cmd := exec.CommandContext(ctx, r.Binary, subcommand, configPath)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s failed: %w", r.Binary, subcommand, err)
	}

	return nil
}
