package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/albertocavalcante/headerstamp/cmd/headerstamp/internal/incremental"
	"github.com/albertocavalcante/headerstamp/cmd/headerstamp/internal/walk"
	"github.com/albertocavalcante/headerstamp/pkg/config"
	"github.com/albertocavalcante/headerstamp/pkg/rewrite"
)

// pipeline bundles what every file-processing command needs.
type pipeline struct {
	rewriter *rewrite.Rewriter
	walker   *walk.Walker
	tracker  *incremental.Tracker
}

// newPipeline wires the rewriter, walker and state tracker for dir.
func newPipeline(dir string, cfg *config.Config, opts rewrite.Options) (*pipeline, error) {
	rw, err := rewrite.FromConfig(cfg, opts)
	if err != nil {
		return nil, err
	}

	w, err := walk.New(walk.Config{
		Root:       dir,
		Languages:  cfg.Scan.Languages,
		Include:    cfg.Scan.Include,
		IgnoreDirs: cfg.Scan.IgnoreDirs,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid scan config: %w", err)
	}

	fp, err := fingerprint(cfg, rw)
	if err != nil {
		return nil, err
	}

	return &pipeline{
		rewriter: rw,
		walker:   w,
		tracker:  incremental.NewTracker(w, fp),
	}, nil
}

// fingerprint identifies everything that decides a file's outcome, so a
// change to any of it invalidates the recorded stamp state. Force is part of
// it because a --no-force run records files it left alone. Dry runs never
// record state and are left out.
func fingerprint(cfg *config.Config, rw *rewrite.Rewriter) (string, error) {
	var table string
	if path := cfg.MetadataPath(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read metadata: %w", err)
		}
		table = string(data)
	}

	opts := rw.Options()
	detector := rw.Detector()
	return incremental.Fingerprint(
		rw.Template().Skeleton(),
		table,
		cfg.Header.Locale,
		strconv.FormatBool(opts.RequireAnchored),
		strings.Join(opts.Exclude, ","),
		strings.Join(rw.Encodings(), ","),
		detector.Marker,
		strconv.Itoa(detector.Window),
		strconv.FormatBool(opts.Force),
	), nil
}
