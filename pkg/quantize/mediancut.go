// Package quantize reduces a color-frequency histogram to a bounded palette
// using median cut: a priority-queue-driven partition of the 3D color space
// along its widest axis.
package quantize

import (
	"container/heap"

	"github.com/waresnew/gif-compressor/pkg/imaging"
)

// ColorCount is one histogram entry: a color and its occurrence count.
type ColorCount struct {
	Color imaging.RGB
	Count uint64
}

// box is a contiguous sub-range of the histogram queued for splitting, keyed
// by the widest axis range over the slice. seq makes pop order deterministic
// when two boxes tie on (rng, axis).
type box struct {
	rng, axis, seq int
	span           []ColorCount
}

type boxQueue struct {
	boxes []box
}

func (q *boxQueue) Len() int { return len(q.boxes) }

// Less orders boxes by (rng, axis) descending so the widest slice pops first;
// on a full tie the earlier-pushed box wins.
func (q *boxQueue) Less(i, j int) bool {
	a, b := q.boxes[i], q.boxes[j]
	if a.rng != b.rng {
		return a.rng > b.rng
	}
	if a.axis != b.axis {
		return a.axis > b.axis
	}
	return a.seq < b.seq
}

func (q *boxQueue) Swap(i, j int) { q.boxes[i], q.boxes[j] = q.boxes[j], q.boxes[i] }

func (q *boxQueue) Push(x any) { q.boxes = append(q.boxes, x.(box)) }

func (q *boxQueue) Pop() any {
	old := q.boxes
	n := len(old)
	b := old[n-1]
	q.boxes = old[:n-1]
	return b
}

// MedianCut reduces hist to at most maxN representative colors. When the
// histogram already holds maxN or fewer distinct colors they are returned
// verbatim. The input slice is reordered in place. No output ordering is
// promised.
func MedianCut(hist []ColorCount, maxN int) []imaging.RGB {
	if len(hist) <= maxN {
		colors := make([]imaging.RGB, len(hist))
		for i, cc := range hist {
			colors[i] = cc.Color
		}
		return colors
	}

	pq := &boxQueue{}
	seq := 0
	pushSpan(pq, hist, &seq)

	ans := make([]imaging.RGB, 0, maxN)
	for pq.Len() > 0 && len(ans)+pq.Len() < maxN {
		b := heap.Pop(pq).(box)
		if len(b.span) == 1 {
			ans = append(ans, b.span[0].Color)
			continue
		}
		// Split around the cardinality median: many singletons of one color
		// still count as many entries, not one.
		mid := len(b.span) / 2
		selectNth(b.span, mid, b.axis)
		pushSpan(pq, b.span[:mid], &seq)
		pushSpan(pq, b.span[mid:], &seq)
	}

	// The remaining slices collapse to their count-weighted centroids.
	for pq.Len() > 0 {
		b := heap.Pop(pq).(box)
		ans = append(ans, centroid(b.span))
	}
	return ans
}

func pushSpan(pq *boxQueue, span []ColorCount, seq *int) {
	if len(span) == 0 {
		return
	}
	rng, axis := widestAxis(span)
	heap.Push(pq, box{rng: rng, axis: axis, seq: *seq, span: span})
	*seq++
}

// widestAxis returns the largest max-min channel range over the slice and the
// axis it occurs on; ties go to the larger axis id.
func widestAxis(span []ColorCount) (rng, axis int) {
	for a := 0; a < 3; a++ {
		lo, hi := 255, 0
		for _, cc := range span {
			v := cc.Color.Dim(a)
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		if hi-lo >= rng {
			rng, axis = hi-lo, a
		}
	}
	return rng, axis
}

func centroid(span []ColorCount) imaging.RGB {
	var sumR, sumG, sumB, total uint64
	for _, cc := range span {
		sumR += cc.Count * uint64(cc.Color.R)
		sumG += cc.Count * uint64(cc.Color.G)
		sumB += cc.Count * uint64(cc.Color.B)
		total += cc.Count
	}
	return imaging.RGB{
		R: uint8(sumR / total),
		G: uint8(sumG / total),
		B: uint8(sumB / total),
	}
}

// selectNth partially sorts span so that span[n] holds the entry of rank n by
// the given axis. Deterministic quickselect with a median-of-three pivot.
func selectNth(span []ColorCount, n, axis int) {
	lo, hi := 0, len(span)-1
	for lo < hi {
		p := partition(span, lo, hi, axis)
		switch {
		case p == n:
			return
		case p < n:
			lo = p + 1
		default:
			hi = p - 1
		}
	}
}

func partition(span []ColorCount, lo, hi, axis int) int {
	mid := lo + (hi-lo)/2
	if span[mid].Color.Dim(axis) < span[lo].Color.Dim(axis) {
		span[mid], span[lo] = span[lo], span[mid]
	}
	if span[hi].Color.Dim(axis) < span[lo].Color.Dim(axis) {
		span[hi], span[lo] = span[lo], span[hi]
	}
	if span[hi].Color.Dim(axis) < span[mid].Color.Dim(axis) {
		span[hi], span[mid] = span[mid], span[hi]
	}
	span[mid], span[hi] = span[hi], span[mid]
	pivot := span[hi].Color.Dim(axis)
	i := lo
	for j := lo; j < hi; j++ {
		if span[j].Color.Dim(axis) < pivot {
			span[i], span[j] = span[j], span[i]
			i++
		}
	}
	span[i], span[hi] = span[hi], span[i]
	return i
}
