package quantize

import (
	"sort"

	"github.com/waresnew/gif-compressor/pkg/imaging"
)

// Histogram counts color occurrences across an animation. Keys are canonical
// flagless values; transparent pixels are never counted.
type Histogram struct {
	counts map[imaging.RGB]uint64
}

// NewHistogram returns an empty histogram.
func NewHistogram() *Histogram {
	return &Histogram{counts: make(map[imaging.RGB]uint64)}
}

// Add counts every non-transparent pixel of the canvas.
func (h *Histogram) Add(c *imaging.Canvas) {
	for i := 0; i < c.Height; i++ {
		for _, px := range c.Row(i) {
			if px.Transparent {
				continue
			}
			h.counts[px.Key()]++
		}
	}
}

// Distinct returns the number of distinct colors seen.
func (h *Histogram) Distinct() int {
	return len(h.counts)
}

// Pairs returns the histogram as (color, count) pairs sorted
// lexicographically by color, so palette construction is reproducible for a
// given input.
func (h *Histogram) Pairs() []ColorCount {
	pairs := make([]ColorCount, 0, len(h.counts))
	for c, n := range h.counts {
		pairs = append(pairs, ColorCount{Color: c, Count: n})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Color.Less(pairs[j].Color) })
	return pairs
}
