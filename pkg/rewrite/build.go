package rewrite

import (
	"fmt"
	"os"

	"github.com/albertocavalcante/headerstamp/internal/log"
	"github.com/albertocavalcante/headerstamp/pkg/config"
	"github.com/albertocavalcante/headerstamp/pkg/header"
	"github.com/albertocavalcante/headerstamp/pkg/metadata"
	"github.com/albertocavalcante/headerstamp/pkg/textenc"
)

// FromConfig wires a Rewriter from configuration. The metadata table is
// loaded once here and shared read-only by every file. opts supplies the
// run mode; exclusions and anchoring are taken from cfg.
func FromConfig(cfg *config.Config, opts Options, extra ...Option) (*Rewriter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	chain, err := textenc.NewChain(cfg.Encoding.Fallbacks...)
	if err != nil {
		return nil, err
	}

	tmpl, err := loadTemplate(cfg)
	if err != nil {
		return nil, err
	}
	detector := header.NewDetector(cfg.Header.Marker, cfg.Header.Window)
	if err := tmpl.Verify(detector); err != nil {
		return nil, fmt.Errorf("invalid header settings: %w", err)
	}

	table, err := LoadTable(cfg)
	if err != nil {
		return nil, err
	}

	opts.Exclude = append(opts.Exclude, cfg.Scan.Exclude...)
	opts.RequireAnchored = opts.RequireAnchored || cfg.RequireAnchoredHeader()

	log.Info("rewriter ready",
		"encodings", chain.Names(),
		"locale", cfg.Header.Locale,
		"metadata_entries", table.Len(),
		"force", opts.Force,
		"dry_run", opts.DryRun)

	return New(
		chain,
		detector,
		tmpl,
		metadata.NewResolver(table, cfg.Fallback()),
		opts,
		extra...,
	), nil
}

// LoadTable loads the configured metadata table. With no table configured
// every file resolves through the fallback.
func LoadTable(cfg *config.Config) (*metadata.Table, error) {
	path := cfg.MetadataPath()
	if path == "" {
		log.Info("no metadata table configured, using fallback descriptions")
		return metadata.NewTable(nil), nil
	}
	table, err := metadata.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load metadata: %w", err)
	}
	for _, p := range table.Check() {
		log.Warn("metadata entry would end the header early", "file", p.File, "field", p.Field, "reason", p.Reason)
	}
	return table, nil
}

func loadTemplate(cfg *config.Config) (*header.Template, error) {
	path := cfg.TemplatePath()
	if path == "" {
		return header.NewTemplate(cfg.Labels(), cfg.Fields()), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	tmpl, err := header.ParseTemplate(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tmpl, nil
}
