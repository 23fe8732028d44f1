package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/albertocavalcante/headerstamp/cmd/headerstamp/internal/detect"
	"github.com/albertocavalcante/headerstamp/cmd/headerstamp/internal/langs"
	"github.com/albertocavalcante/headerstamp/pkg/config"
)

// metadataFileName is the table created next to the project config.
const metadataFileName = "headers.yaml"

var initFlags struct {
	languages []string
	author    string
	locale    string
	dryRun    bool
}

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create a headerstamp config and an empty metadata table",
	Long: `Initializes dir (default: current directory) for headerstamp.

This command will:
1. Detect which block-comment languages the tree contains
2. Create headerstamp.toml with those languages
3. Create an empty headers.yaml metadata table

Existing files are never overwritten.
Use --dry-run to preview the files without writing them.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringSliceVarP(&initFlags.languages, "languages", "l", nil,
		"Languages to configure (auto-detected if not specified)")
	initCmd.Flags().StringVar(&initFlags.author, "author", "",
		"Author written into every header")
	initCmd.Flags().StringVar(&initFlags.locale, "locale", config.LocaleEnglish,
		"Header locale (en, zh)")
	initCmd.Flags().BoolVar(&initFlags.dryRun, "dry-run", false,
		"Show what would be created without writing")

	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	dir, err := resolveDir(args)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	languages := initFlags.languages
	if len(languages) == 0 {
		detected, err := detect.Languages(dir)
		if err != nil {
			return fmt.Errorf("failed to detect languages: %w", err)
		}
		languages = detected
	}
	for _, lang := range languages {
		if !langs.Known(lang) {
			return fmt.Errorf("unknown language %q (known: %s)", lang, strings.Join(langs.Names(), ", "))
		}
	}
	if len(languages) == 0 {
		_, _ = fmt.Fprintf(out, "No languages detected, defaulting to %s\n", strings.Join(langs.DefaultLanguages, ", "))
		languages = langs.DefaultLanguages
	} else {
		_, _ = fmt.Fprintf(out, "Languages: %s\n", strings.Join(languages, ", "))
	}

	defaults := config.NewConfig()
	defaults.Header.Locale = initFlags.locale
	if err := defaults.Validate(); err != nil {
		return err
	}
	author := initFlags.author
	if author == "" {
		author = defaults.Header.Author
	}

	files := []struct {
		path    string
		content string
	}{
		{filepath.Join(dir, config.ConfigFileName), generateConfigContent(languages, author, initFlags.locale)},
		{filepath.Join(dir, metadataFileName), generateMetadataContent()},
	}

	for _, f := range files {
		if fileExists(f.path) {
			_, _ = fmt.Fprintf(out, "%s already exists (skipping)\n", f.path)
			continue
		}
		if initFlags.dryRun {
			_, _ = fmt.Fprintf(out, "Would create %s:\n%s\n", f.path, f.content)
			continue
		}
		if err := os.WriteFile(f.path, []byte(f.content), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", filepath.Base(f.path), err)
		}
		_, _ = fmt.Fprintf(out, "Created %s\n", f.path)
	}

	if !initFlags.dryRun {
		printNextSteps(out)
	}
	return nil
}

func generateConfigContent(languages []string, author, locale string) string {
	defaults := config.NewConfig()
	var sb strings.Builder

	sb.WriteString("# headerstamp configuration\n\n")

	sb.WriteString("[header]\n")
	fmt.Fprintf(&sb, "copyright = %s\n", strconv.Quote(defaults.Header.Copyright))
	fmt.Fprintf(&sb, "author = %s\n", strconv.Quote(author))
	fmt.Fprintf(&sb, "created = %s\n", strconv.Quote(defaults.Header.Created))
	fmt.Fprintf(&sb, "initial_version = %s\n", strconv.Quote(defaults.Header.InitialVersion))
	fmt.Fprintf(&sb, "current_version = %s\n", strconv.Quote(defaults.Header.CurrentVersion))
	fmt.Fprintf(&sb, "locale = %s\n", strconv.Quote(locale))
	sb.WriteString("\n")

	sb.WriteString("[scan]\n")
	fmt.Fprintf(&sb, "languages = %s\n", tomlList(languages))
	fmt.Fprintf(&sb, "exclude = %s\n", tomlList(defaults.Scan.Exclude))
	sb.WriteString("\n")

	sb.WriteString("[metadata]\n")
	fmt.Fprintf(&sb, "file = %s\n", strconv.Quote(metadataFileName))

	return sb.String()
}

func generateMetadataContent() string {
	return `# Per-file header metadata, keyed by bare file name.
#
# files:
#   Logger.h:
#     summary: Logging facility
#     description: |
#       Thread-safe logger with rotating file output.
#       Continuation lines are indented automatically.
files: {}
`
}

func tomlList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = strconv.Quote(s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func printNextSteps(w io.Writer) {
	_, _ = fmt.Fprintln(w, "\nNext steps:")
	_, _ = fmt.Fprintln(w, "  1. Describe your files in "+metadataFileName)
	_, _ = fmt.Fprintln(w, "  2. Run 'headerstamp stamp --dry-run' to preview")
	_, _ = fmt.Fprintln(w, "  3. Run 'headerstamp stamp' to write headers")
}
