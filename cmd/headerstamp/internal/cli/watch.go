package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/albertocavalcante/headerstamp/cmd/headerstamp/internal/report"
	"github.com/albertocavalcante/headerstamp/cmd/headerstamp/internal/watch"
	"github.com/albertocavalcante/headerstamp/pkg/rewrite"
)

var watchFlags struct {
	debounce  int
	languages []string
	noForce   bool
	json      bool
	noColor   bool
}

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch for source file changes and stamp them",
	Long: `Watches dir for created or edited candidate files and stamps them as
soon as the editor goes quiet. The watcher's own writes do not retrigger it.

Example output:

  $ headerstamp watch src

  headerstamp: watching 214 files in /path/to/project/src
  headerstamp: languages: header
  headerstamp: ready
  updated common/Logger.h

Press Ctrl+C to stop watching.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().IntVar(&watchFlags.debounce, "debounce", 500,
		"Debounce window in milliseconds")
	watchCmd.Flags().StringSliceVar(&watchFlags.languages, "languages", nil,
		"Only watch specific languages (comma-separated)")
	watchCmd.Flags().BoolVar(&watchFlags.noForce, "no-force", false,
		"Leave files that already have a header alone")
	watchCmd.Flags().BoolVar(&watchFlags.json, "json", false,
		"Stream JSON events (for tooling integration)")
	watchCmd.Flags().BoolVar(&watchFlags.noColor, "no-color", false,
		"Disable colored output")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir, err := resolveDir(args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(dir)
	if err != nil {
		return err
	}
	if len(watchFlags.languages) > 0 {
		cfg.Scan.Languages = watchFlags.languages
	}

	p, err := newPipeline(dir, cfg, rewrite.Options{Force: !watchFlags.noForce})
	if err != nil {
		return err
	}

	// Include SIGHUP to handle terminal hangup
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer cancel()

	w, err := watch.New(watch.Config{
		Walker:    p.walker,
		Processor: p.rewriter,
		Reporter: report.New(report.Config{
			Writer:  cmd.OutOrStdout(),
			Root:    p.walker.Root(),
			NoColor: watchFlags.noColor,
			JSON:    watchFlags.json,
		}),
		Tracker:   p.tracker,
		Languages: cfg.Scan.Languages,
		Debounce:  time.Duration(watchFlags.debounce) * time.Millisecond,
	})
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	return w.Run(ctx)
}
