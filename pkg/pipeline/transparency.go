package pipeline

import "github.com/waresnew/gif-compressor/pkg/imaging"

// Rect is an axis-aligned sub-rectangle of the canvas.
type Rect struct {
	Top, Left     int
	Height, Width int
}

// ApplyTransparency marks every pixel of cur transparent whose luma distance
// to the same position in prev falls below the threshold, and returns the
// smallest rectangle enclosing the remaining opaque pixels. When nothing
// stays opaque the rectangle collapses to a single pixel at the origin.
func ApplyTransparency(cur, prev *imaging.Canvas, threshold int) Rect {
	minI, minJ := cur.Height-1, cur.Width-1
	maxI, maxJ := 0, 0
	found := false
	thresholdSq := threshold * threshold
	for i := 0; i < cur.Height; i++ {
		curRow := cur.Row(i)
		prevRow := prev.Row(i)
		for j := range curRow {
			if curRow[j].Transparent || curRow[j].LumaDistanceSq(prevRow[j]) < thresholdSq {
				curRow[j].Transparent = true
				continue
			}
			found = true
			if i < minI {
				minI = i
			}
			if i > maxI {
				maxI = i
			}
			if j < minJ {
				minJ = j
			}
			if j > maxJ {
				maxJ = j
			}
		}
	}
	if !found {
		return Rect{Top: 0, Left: 0, Height: 1, Width: 1}
	}
	return Rect{Top: minI, Left: minJ, Height: maxI - minI + 1, Width: maxJ - minJ + 1}
}
