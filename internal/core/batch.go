package core

import (
	"fmt"

	"github.com/caratcompare/caratreel/internal/diamond"
	"github.com/caratcompare/caratreel/internal/logger"
	"github.com/caratcompare/caratreel/internal/storage"
	"github.com/caratcompare/caratreel/internal/tui"
)

// Pilot is the first set of comparisons published, used when the config
// has no batch list
var Pilot = []diamond.Comparison{
	// popular round comparisons
	diamond.NewComparison(0.5, "round", 1.0, "round"),
	diamond.NewComparison(0.75, "round", 1.0, "round"),
	diamond.NewComparison(1.0, "round", 1.5, "round"),
	diamond.NewComparison(1.0, "round", 2.0, "round"),
	diamond.NewComparison(1.5, "round", 2.0, "round"),
	// shapes at the same carat
	diamond.NewComparison(1.0, "round", 1.0, "oval"),
	diamond.NewComparison(1.0, "round", 1.0, "princess"),
	diamond.NewComparison(1.0, "round", 1.0, "cushion"),
	diamond.NewComparison(1.5, "round", 1.5, "oval"),
	diamond.NewComparison(2.0, "round", 2.0, "oval"),
	// fancy shapes
	diamond.NewComparison(1.0, "oval", 1.5, "oval"),
	diamond.NewComparison(1.0, "oval", 2.0, "oval"),
	diamond.NewComparison(1.0, "cushion", 1.5, "cushion"),
	diamond.NewComparison(1.0, "princess", 1.5, "princess"),
	// budget
	diamond.NewComparison(0.25, "round", 0.5, "round"),
	diamond.NewComparison(0.5, "round", 0.75, "round"),
	// premium
	diamond.NewComparison(2.0, "round", 3.0, "round"),
	diamond.NewComparison(3.0, "round", 4.0, "round"),
	// mixed
	diamond.NewComparison(1.0, "pear", 1.5, "pear"),
	diamond.NewComparison(1.0, "emerald", 1.5, "emerald"),
}

type BatchResult struct {
	Rendered []string
	Skipped  []string
	Failed   map[string]error
}

// Comparisons is the configured batch list, or the pilot list
func (c *Core) Comparisons() ([]diamond.Comparison, error) {
	if len(c.cfg.Batch.Comparisons) == 0 {
		return Pilot, nil
	}
	list := make([]diamond.Comparison, 0, len(c.cfg.Batch.Comparisons))
	for _, slug := range c.cfg.Batch.Comparisons {
		cmp, err := diamond.ParseSlug(slug)
		if err != nil {
			return nil, err
		}
		list = append(list, cmp)
	}
	return list, nil
}

// Batch renders every comparison whose video does not exist yet. A failed
// comparison is reported at the end and does not stop the others.
func (c *Core) Batch(list []diamond.Comparison) (BatchResult, error) {
	log := logger.Scope("core batch")
	res := BatchResult{Failed: map[string]error{}}

	// fail before the first video when narration cannot work at all
	if _, err := c.narration(); err != nil {
		return res, err
	}

	for i, cmp := range list {
		if err := c.ctx.Err(); err != nil {
			return res, err
		}
		out := storage.VideoPath(c.cfg.Output.Dir, c.cfg.Output.Prefix, cmp)
		if storage.Exists(out) {
			log.Infof("[%d/%d] %s exists, skipping", i+1, len(list), out)
			res.Skipped = append(res.Skipped, out)
			continue
		}
		c.emit(tui.NewEventText(fmt.Sprintf("[%d/%d] %s", i+1, len(list), cmp)))
		path, err := c.Render(cmp)
		if err != nil {
			if c.ctx.Err() != nil {
				return res, c.ctx.Err()
			}
			log.Errorf("[%d/%d] %s failed: %v", i+1, len(list), cmp, err)
			res.Failed[cmp.Slug()] = err
			continue
		}
		res.Rendered = append(res.Rendered, path)
	}

	if len(res.Failed) > 0 {
		return res, fmt.Errorf("%d of %d comparisons failed", len(res.Failed), len(list))
	}
	return res, nil
}
