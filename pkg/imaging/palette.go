package imaging

import (
	"sort"

	"github.com/waresnew/gif-compressor/pkg/kdtree"
)

// Palette is an immutable set of unique colors indexed by a k-d tree for
// nearest-neighbor queries. Construction sorts the colors lexicographically
// and removes duplicates.
type Palette struct {
	colors []RGB
	tree   *kdtree.Tree[RGB]
}

// NewPalette builds a palette from the given colors. Transparency flags are
// stripped; the stored list is sorted and unique.
func NewPalette(colors []RGB) *Palette {
	sorted := make([]RGB, len(colors))
	for i, c := range colors {
		sorted[i] = c.Key()
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })
	uniq := sorted[:0]
	for i, c := range sorted {
		if i == 0 || !c.Equal(sorted[i-1]) {
			uniq = append(uniq, c)
		}
	}
	return &Palette{colors: uniq, tree: kdtree.New(uniq, 3)}
}

// FromRaw builds a palette from packed RGB bytes (r, g, b, r, g, b, ...).
// A trailing partial triple is ignored.
func FromRaw(raw []byte) *Palette {
	colors := make([]RGB, 0, len(raw)/3)
	for i := 0; i+2 < len(raw); i += 3 {
		colors = append(colors, RGB{R: raw[i], G: raw[i+1], B: raw[i+2]})
	}
	return NewPalette(colors)
}

// Len returns the number of unique colors.
func (p *Palette) Len() int {
	return len(p.colors)
}

// Colors returns the sorted unique color list. The caller must not mutate it.
func (p *Palette) Colors() []RGB {
	return p.colors
}

// Color returns the color at index i, clamped to the valid range.
func (p *Palette) Color(i int) RGB {
	if i < 0 {
		i = 0
	}
	if i >= len(p.colors) {
		i = len(p.colors) - 1
	}
	return p.colors[i]
}

// Nearest returns the palette color closest to target that equals neither
// exclusion, or false when the palette has fewer than three entries. It asks
// the tree for the three nearest candidates so that excluding two colors
// still leaves a result.
func (p *Palette) Nearest(target, ex1, ex2 RGB, cache kdtree.Cache[RGB]) (RGB, bool) {
	if len(p.colors) < 3 {
		return RGB{}, false
	}
	for _, c := range p.tree.KNN(target.Key(), 3, cache) {
		if !c.Equal(ex1) && !c.Equal(ex2) {
			return c, true
		}
	}
	return RGB{}, false
}

// NearestOne returns the single palette color closest to target. The palette
// must be non-empty.
func (p *Palette) NearestOne(target RGB, cache kdtree.Cache[RGB]) RGB {
	return p.tree.KNN(target.Key(), 1, cache)[0]
}
