package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/albertocavalcante/headerstamp/cmd/headerstamp/internal/report"
	"github.com/albertocavalcante/headerstamp/cmd/headerstamp/internal/walk"
	"github.com/albertocavalcante/headerstamp/internal/log"
	"github.com/albertocavalcante/headerstamp/pkg/rewrite"
)

var stampFlags struct {
	noForce     bool
	dryRun      bool
	check       bool
	incremental bool
	languages   []string
	metadata    string
	json        bool
	noColor     bool
}

var stampCmd = &cobra.Command{
	Use:   "stamp [dir]",
	Short: "Write headers into every candidate file under dir",
	Long: `Walks dir (default: current directory) and rewrites the header of every
candidate file. An existing header is replaced; use --no-force to leave
annotated files alone.

Files are processed one at a time. The first write failure stops the run;
files already processed stay rewritten.

The --check flag can be used in CI to verify headers are up to date
without making changes (exit 1 if any file would change).
The --incremental flag only processes files added or modified since the
last stamp run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStamp,
}

func init() {
	stampCmd.Flags().BoolVar(&stampFlags.noForce, "no-force", false,
		"Skip files that already have a header instead of replacing it")
	stampCmd.Flags().BoolVar(&stampFlags.dryRun, "dry-run", false,
		"Report what would change without writing")
	stampCmd.Flags().BoolVar(&stampFlags.check, "check", false,
		"Check if headers are up to date (implies --dry-run, exit 1 if changes needed)")
	stampCmd.Flags().BoolVar(&stampFlags.incremental, "incremental", false,
		"Only process files changed since the last stamp run")
	stampCmd.Flags().StringSliceVar(&stampFlags.languages, "languages", nil,
		"Languages to stamp (comma-separated, overrides config)")
	stampCmd.Flags().StringVar(&stampFlags.metadata, "metadata", "",
		"Metadata table (YAML), overrides config")
	stampCmd.Flags().BoolVar(&stampFlags.json, "json", false,
		"Output one JSON event per line")
	stampCmd.Flags().BoolVar(&stampFlags.noColor, "no-color", false,
		"Disable colored output")

	rootCmd.AddCommand(stampCmd)
}

func runStamp(cmd *cobra.Command, args []string) error {
	dir, err := resolveDir(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(dir)
	if err != nil {
		return err
	}
	if len(stampFlags.languages) > 0 {
		cfg.Scan.Languages = stampFlags.languages
	}
	if stampFlags.metadata != "" {
		abs, err := filepath.Abs(stampFlags.metadata)
		if err != nil {
			return err
		}
		cfg.Metadata.File = abs
	}

	opts := rewrite.Options{
		Force:  !stampFlags.noForce,
		DryRun: stampFlags.dryRun || stampFlags.check,
	}
	p, err := newPipeline(dir, cfg, opts)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var paths []string
	if stampFlags.incremental {
		paths, err = p.tracker.Pending(ctx)
	} else {
		paths, err = p.walker.Walk(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	log.Info("stamping", "root", dir, "files", len(paths), "incremental", stampFlags.incremental)

	rep := report.New(report.Config{
		Writer:  cmd.OutOrStdout(),
		Root:    p.walker.Root(),
		NoColor: stampFlags.noColor,
		JSON:    stampFlags.json,
	})

	sum, err := walk.Run(ctx, paths, p.rewriter, rep.File)
	if err != nil {
		return err
	}
	rep.Summary(sum, opts.DryRun)
	log.Info("stamp finished", "updated", sum.Updated, "changed", sum.Changed, "skipped", sum.SkippedTotal())

	if stampFlags.check {
		if sum.Changed > 0 {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%d file(s) need a header update\n", sum.Changed)
			return fmt.Errorf("%w: run 'headerstamp stamp' to apply changes", ErrCheckFailed)
		}
		return nil
	}

	if !opts.DryRun {
		if err := p.tracker.Refresh(ctx); err != nil {
			log.Warn("failed to record stamp state", "error", err)
		}
	}
	return nil
}
