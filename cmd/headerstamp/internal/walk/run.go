package walk

import (
	"context"
	"fmt"

	"github.com/albertocavalcante/headerstamp/internal/log"
	"github.com/albertocavalcante/headerstamp/pkg/rewrite"
)

// Processor rewrites a single file.
type Processor interface {
	Rewrite(path string) (rewrite.Result, error)
}

// Summary aggregates a run. Counters are only read after the run returns.
type Summary struct {
	Total   int                    `json:"total"`
	Updated int                    `json:"updated"`
	Changed int                    `json:"changed"`
	Skipped map[rewrite.Status]int `json:"skipped,omitempty"`
}

// SkippedTotal returns the number of skipped files.
func (s Summary) SkippedTotal() int {
	n := 0
	for _, c := range s.Skipped {
		n += c
	}
	return n
}

// Run processes paths sequentially. onResult, if set, is called once per
// completed file. The first error stops the run; files already processed
// stay rewritten and the remaining ones are untouched.
func Run(ctx context.Context, paths []string, p Processor, onResult func(rewrite.Result)) (Summary, error) {
	sum := Summary{Skipped: make(map[rewrite.Status]int)}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		res, err := p.Rewrite(path)
		if err != nil {
			log.Error("stopping run", "path", path, "error", err, "processed", sum.Total)
			return sum, fmt.Errorf("failed to process %s: %w", path, err)
		}

		sum.Total++
		if res.Status.Skipped() {
			sum.Skipped[res.Status]++
		} else {
			sum.Updated++
			if res.Changed {
				sum.Changed++
			}
		}
		if onResult != nil {
			onResult(res)
		}
	}

	return sum, nil
}
