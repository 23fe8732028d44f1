// Package cli implements the headerstamp command-line interface.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/albertocavalcante/headerstamp/internal/log"
	"github.com/albertocavalcante/headerstamp/pkg/config"
)

// Version information (set via ldflags)
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// ErrCheckFailed is returned by --check style commands when something would
// change. Execute turns it into exit status 1.
var ErrCheckFailed = errors.New("check failed")

// globalFlags holds persistent flags that apply to all commands
var globalFlags struct {
	verbosity  int
	logFormat  string
	configPath string
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "headerstamp",
	Short: "Stamp documentation headers onto source files",
	Long: `Headerstamp walks a source tree and (re)writes a standard block-comment
header at the top of every candidate file: copyright line, file name, author,
dates, versions, and a per-file summary and description looked up in a
metadata table.

Use 'headerstamp stamp --dry-run' to preview a run.`,
	// Default behavior: show help
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// versionCmd shows version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "headerstamp %s (%s)\n", Version, GitCommit)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)

	// Global flags (persistent across all commands)
	rootCmd.PersistentFlags().IntVarP(&globalFlags.verbosity, "verbosity", "v", 1,
		"Verbosity level (0=error, 1=warn, 2=info, 3=debug, 4=trace)")
	rootCmd.PersistentFlags().StringVar(&globalFlags.logFormat, "log-format", "text",
		"Log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&globalFlags.configPath, "config", "",
		"Config file to use instead of the discovered project config")

	// Hook to apply flags before command runs
	cobra.OnInitialize(initLogging)
}

// initLogging applies CLI flags to the logger.
// This runs after flags are parsed but before command execution.
func initLogging() {
	log.Init(globalFlags.verbosity, globalFlags.logFormat)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// RootCmd returns the root command for testing.
func RootCmd() *cobra.Command {
	return rootCmd
}

// loadConfig loads the layered config for dir, or the --config file.
func loadConfig(dir string) (*config.Config, error) {
	if globalFlags.configPath != "" {
		cfg, err := config.LoadExplicit(globalFlags.configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		return cfg, nil
	}
	return config.LoadFrom(dir), nil
}

// resolveDir returns the absolute directory named by the first argument,
// defaulting to the working directory.
func resolveDir(args []string) (string, error) {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("invalid path %s: %w", path, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path must be a directory: %s", path)
	}
	return abs, nil
}

func outputJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
