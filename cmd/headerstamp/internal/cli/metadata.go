package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/albertocavalcante/headerstamp/pkg/metadata"
	"github.com/albertocavalcante/headerstamp/pkg/rewrite"
)

var metadataFlags struct {
	json bool
}

var metadataCmd = &cobra.Command{
	Use:   "metadata",
	Short: "Inspect the metadata table",
}

var metadataCheckCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Validate a metadata table (exit 1 on problems)",
	Long: `Loads the metadata table (default: the one named in the config) and
reports entries whose text contains "*/". The header renderer does not
escape it, so such an entry would end the header comment early.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMetadataCheck,
}

var metadataResolveCmd = &cobra.Command{
	Use:   "resolve <filename>...",
	Short: "Show the summary and description a file would get",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runMetadataResolve,
}

func init() {
	metadataResolveCmd.Flags().BoolVar(&metadataFlags.json, "json", false,
		"Output as JSON")

	metadataCmd.AddCommand(metadataCheckCmd)
	metadataCmd.AddCommand(metadataResolveCmd)
	rootCmd.AddCommand(metadataCmd)
}

func runMetadataCheck(cmd *cobra.Command, args []string) error {
	var path string
	if len(args) > 0 {
		path = args[0]
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		cfg, err := loadConfig(wd)
		if err != nil {
			return err
		}
		path = cfg.MetadataPath()
	}
	if path == "" {
		return errors.New("no metadata table configured; pass a file or set [metadata] file")
	}

	table, err := metadata.LoadFile(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	problems := table.Check()
	for _, p := range problems {
		_, _ = fmt.Fprintf(out, "%s: %s %s\n", p.File, p.Field, p.Reason)
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %d problem(s) in %s", ErrCheckFailed, len(problems), path)
	}

	_, _ = fmt.Fprintf(out, "%s: %d entries, ok\n", path, table.Len())
	return nil
}

// ResolveOutput is the JSON output format for headerstamp metadata resolve.
type ResolveOutput struct {
	File        string `json:"file"`
	Summary     string `json:"summary"`
	Description string `json:"description"`
	FromTable   bool   `json:"from_table"`
}

func runMetadataResolve(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(wd)
	if err != nil {
		return err
	}
	table, err := rewrite.LoadTable(cfg)
	if err != nil {
		return err
	}
	resolver := metadata.NewResolver(table, cfg.Fallback())

	results := make([]ResolveOutput, 0, len(args))
	for _, name := range args {
		e, fromTable := resolver.Resolve(name)
		results = append(results, ResolveOutput{
			File:        name,
			Summary:     e.Summary,
			Description: e.Description,
			FromTable:   fromTable,
		})
	}

	out := cmd.OutOrStdout()
	if metadataFlags.json {
		return outputJSON(out, results)
	}
	for _, r := range results {
		source := "fallback"
		if r.FromTable {
			source = "table"
		}
		_, _ = fmt.Fprintf(out, "%s (%s)\n  summary:     %s\n  description: %s\n", r.File, source, r.Summary, r.Description)
	}
	return nil
}
