package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/albertocavalcante/headerstamp/pkg/rewrite"
)

var statusFlags struct {
	verbose bool
	json    bool
	reset   bool
}

var statusCmd = &cobra.Command{
	Use:   "status [dir]",
	Short: "Show which files changed since the last stamp run",
	Long: `Compares the candidate files under dir against the state recorded by the
last 'headerstamp stamp' run and lists files that were added, modified, or
deleted since. A change to the template, metadata table, or locale marks
every file stale.

The --verbose flag shows individual file changes.
The --json flag outputs the result as JSON for scripting.
The --reset flag discards the recorded state so the next incremental run
processes every file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusFlags.verbose, "verbose", false,
		"Show individual file changes")
	statusCmd.Flags().BoolVar(&statusFlags.json, "json", false,
		"Output as JSON")
	statusCmd.Flags().BoolVar(&statusFlags.reset, "reset", false,
		"Discard the recorded stamp state")

	rootCmd.AddCommand(statusCmd)
}

// StatusOutput is the JSON output format for headerstamp status.
type StatusOutput struct {
	Stale         bool     `json:"stale"`
	TrackedFiles  int      `json:"tracked_files"`
	InputsChanged bool     `json:"inputs_changed,omitempty"`
	NewFiles      []string `json:"new_files,omitempty"`
	ModifiedFiles []string `json:"modified_files,omitempty"`
	DeletedFiles  []string `json:"deleted_files,omitempty"`
	Error         string   `json:"error,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	dir, err := resolveDir(args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(dir)
	if err != nil {
		return err
	}
	p, err := newPipeline(dir, cfg, rewrite.Options{Force: true, DryRun: true})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if statusFlags.reset {
		if err := p.tracker.Clear(); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, "Stamp state cleared")
		return nil
	}

	if !p.tracker.HasState() {
		if statusFlags.json {
			return outputJSON(out, StatusOutput{Stale: true, Error: "no state found"})
		}
		_, _ = fmt.Fprintln(out, "No state found. Run 'headerstamp stamp' to create initial state.")
		return nil
	}

	cs, err := p.tracker.Status(context.Background())
	if err != nil {
		return fmt.Errorf("failed to detect changes: %w", err)
	}

	if statusFlags.json {
		return outputJSON(out, StatusOutput{
			Stale:         !cs.IsEmpty(),
			TrackedFiles:  p.tracker.TrackedFileCount(),
			InputsChanged: cs.Stale,
			NewFiles:      cs.Added,
			ModifiedFiles: cs.Modified,
			DeletedFiles:  cs.Deleted,
		})
	}

	if cs.IsEmpty() {
		_, _ = fmt.Fprintf(out, "Headers are up to date (%d files tracked)\n", p.tracker.TrackedFileCount())
		return nil
	}

	if cs.Stale {
		_, _ = fmt.Fprintln(out, "Header inputs changed since the last run; every file needs restamping")
	}
	if n := cs.TotalChanges(); n > 0 {
		_, _ = fmt.Fprintf(out, "%d change(s): %d new, %d modified, %d deleted\n",
			n, len(cs.Added), len(cs.Modified), len(cs.Deleted))
	}

	if statusFlags.verbose {
		printFiles(out, "New files", "+", cs.Added)
		printFiles(out, "Modified files", "~", cs.Modified)
		printFiles(out, "Deleted files", "-", cs.Deleted)
	}

	_, _ = fmt.Fprintln(out, "\nRun 'headerstamp stamp --incremental' to update changed files")
	return nil
}

func printFiles(w io.Writer, title, mark string, files []string) {
	if len(files) == 0 {
		return
	}
	_, _ = fmt.Fprintf(w, "\n%s (%d):\n", title, len(files))
	for _, f := range files {
		_, _ = fmt.Fprintf(w, "  %s %s\n", mark, f)
	}
}
