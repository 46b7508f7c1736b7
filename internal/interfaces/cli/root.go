// Package cli defines the moldesc command tree: global flag registration,
// configuration loading, logger initialisation, and the compute/describe
// subcommands.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/turtacn/MolDesc-Engine/internal/config"
	"github.com/turtacn/MolDesc-Engine/internal/infrastructure/monitoring/logging"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// cliContextKey is the context key for CLIContext.
type cliContextKey struct{}

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
}

// CLIContext carries initialised dependencies through the command tree.
type CLIContext struct {
	Config *config.Config
	Logger logging.Logger
}

// NewRootCommand creates the root command with all global flags and
// subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "moldesc",
		Short:   "Molecular descriptor calculation engine",
		Long:    "moldesc computes configurable sets of molecular descriptors for chemical\nstructures given as SMILES, resolving per-descriptor dependency graphs with\nmemoization and isolated failure handling, serially or in parallel.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: environment only)")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level override (debug, info, warn, error)")

	cmd.AddCommand(newComputeCommand())
	cmd.AddCommand(newDescribeCommand())

	return cmd
}

// persistentPreRun loads configuration, applies flag overrides, builds the
// logger, and stashes the CLIContext for subcommands.
func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	var cfg *config.Config
	var err error
	if opts.ConfigPath != "" {
		cfg, err = config.Load(opts.ConfigPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	logging.SetDefault(logger)

	cliCtx := &CLIContext{Config: cfg, Logger: logger}
	cmd.SetContext(context.WithValue(cmd.Context(), cliContextKey{}, cliCtx))
	return nil
}

// GetCLIContext extracts the CLIContext placed by persistentPreRun.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	cliCtx, ok := cmd.Context().Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, fmt.Errorf("cli context not initialised")
	}
	return cliCtx, nil
}

// Execute runs the root command.
func Execute() error {
	cmd := NewRootCommand()
	cmd.SetContext(context.Background())
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)
	return cmd.Execute()
}
