package dedup

import (
	"log/slog"
	"sort"

	"github.com/pranitsh/keyflare/domain/geometry"
)

// Config tunes overlap suppression.
type Config struct {
	// MinArea drops boxes with area at or below it before indexing.
	MinArea int
	// Margin expands each box on every side when looking for neighbours.
	Margin int
	// DominanceSlack is how much larger a neighbour must be to remove a box.
	DominanceSlack int
	// LinearScanBelow switches to a plain scan when fewer boxes are indexed.
	LinearScanBelow int
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{MinArea: 15, Margin: 10, DominanceSlack: 5}
}

// Deduplicator suppresses boxes dominated by a larger nearby box.
type Deduplicator struct {
	cfg    Config
	logger *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Deduplicator {
	if cfg.MinArea < 0 {
		cfg.MinArea = 0
	}
	if cfg.Margin < 0 {
		cfg.Margin = 0
	}
	if cfg.DominanceSlack < 0 {
		cfg.DominanceSlack = 0
	}
	return &Deduplicator{cfg: cfg, logger: logger}
}

// Config returns the effective configuration.
func (d *Deduplicator) Config() Config { return d.cfg }

// Deduplicate keeps every box that no margin-neighbour outweighs by more than
// DominanceSlack. Every ordered pair is compared, so the result does not
// depend on input order and a second pass removes nothing. Survivors are
// returned in their original relative order.
func (d *Deduplicator) Deduplicate(boxes []geometry.Region) []geometry.Region {
	candidates := make([]int, 0, len(boxes))
	for i, b := range boxes {
		if b.Degenerate() || b.Area() <= d.cfg.MinArea {
			continue
		}
		candidates = append(candidates, i)
	}

	var idx spatialIndex
	if len(candidates) < d.cfg.LinearScanBelow {
		idx = newLinearIndex(len(candidates))
	} else {
		idx = &rtreeIndex{}
	}
	indexed := candidates[:0]
	for _, i := range candidates {
		if err := idx.insert(i, boxes[i]); err != nil {
			if d.logger != nil {
				d.logger.Warn("skipping box", "error", err)
			}
			continue
		}
		indexed = append(indexed, i)
	}

	removed := make(map[int]struct{})
	neighbours := make([]int, 0, 16)
	for _, i := range indexed {
		neighbours = neighbours[:0]
		idx.search(boxes[i].Expand(d.cfg.Margin), func(j int) bool {
			neighbours = append(neighbours, j)
			return true
		})
		if len(neighbours) <= 1 {
			continue
		}
		ai := boxes[i].Area()
		for _, j := range neighbours {
			if j != i && boxes[j].Area() < ai-d.cfg.DominanceSlack {
				removed[j] = struct{}{}
			}
		}
	}
	for j := range removed {
		idx.remove(j, boxes[j])
	}

	out := make([]geometry.Region, 0, idx.len())
	survivors := make([]int, 0, idx.len())
	idx.search(geometry.Region{X: minCoord, Y: minCoord, Width: spanCoord, Height: spanCoord}, func(id int) bool {
		survivors = append(survivors, id)
		return true
	})
	sort.Ints(survivors)
	for _, id := range survivors {
		out = append(out, boxes[id])
	}
	if d.logger != nil {
		d.logger.Debug("dedup complete", "input", len(boxes), "indexed", len(indexed), "removed", len(removed), "kept", len(out))
	}
	return out
}

// Query bounds covering every representable screen coordinate.
const (
	minCoord  = -1 << 29
	spanCoord = 1 << 30
)
