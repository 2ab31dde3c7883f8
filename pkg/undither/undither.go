// Package undither reverses ordered and diffusion dithering by smoothing each
// pixel toward the weighted mean of its 3x3 neighborhood, gated by a Prewitt
// edge magnitude and palette-distance heuristics.
package undither

import (
	"math"
	"runtime"
	"sync"

	"github.com/waresnew/gif-compressor/pkg/imaging"
	"github.com/waresnew/gif-compressor/pkg/kdtree"
)

// Empirical thresholds on the Prewitt luma magnitude: above high the pixel is
// a strong edge and is preserved; above low the center dominates the blend.
const (
	prewittHigh = 256
	prewittLow  = 160
)

var (
	prewittGx = [3][3]int{{1, 0, -1}, {1, 0, -1}, {1, 0, -1}}
	prewittGy = [3][3]int{{1, 1, 1}, {0, 0, 0}, {-1, -1, -1}}
)

// Undither smooths the canvas in place against its effective palette. Rows
// are processed by a fork-join worker pool; each worker owns an independent
// nearest-neighbor cache, so the shared tree is read-only during the pass.
func Undither(canvas *imaging.Canvas, palette *imaging.Palette) {
	out := imaging.NewCanvas(canvas.Height, canvas.Width)
	workers := runtime.NumCPU()
	if workers > canvas.Height {
		workers = canvas.Height
	}
	block := (canvas.Height + workers - 1) / workers
	var wg sync.WaitGroup
	for lo := 0; lo < canvas.Height; lo += block {
		hi := lo + block
		if hi > canvas.Height {
			hi = canvas.Height
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			cache := make(kdtree.Cache[imaging.RGB])
			for i := lo; i < hi; i++ {
				row := out.Row(i)
				for j := range row {
					row[j] = smoothPixel(canvas, palette, i, j, cache)
				}
			}
		}(lo, hi)
	}
	wg.Wait()
	canvas.CopyFrom(out)
}

func smoothPixel(c *imaging.Canvas, palette *imaging.Palette, i, j int, cache kdtree.Cache[imaging.RGB]) imaging.RGB {
	cur := c.At(i, j)

	// Gather the 3x3 window with clamp-to-edge boundaries.
	var window [3][3]imaging.RGB
	allTransparent := cur.Transparent
	for di := -1; di <= 1; di++ {
		for dj := -1; dj <= 1; dj++ {
			ni := clamp(i+di, 0, c.Height-1)
			nj := clamp(j+dj, 0, c.Width-1)
			n := c.At(ni, nj)
			window[di+1][dj+1] = n
			if (di != 0 || dj != 0) && !n.Transparent {
				allTransparent = false
			}
		}
	}
	if allTransparent {
		return cur
	}

	mag := prewittMagnitude(&window)
	if mag > prewittHigh {
		return cur
	}
	centerWeight := uint32(8)
	if mag > prewittLow {
		centerWeight = 24
	}

	sumR := centerWeight * uint32(cur.R)
	sumG := centerWeight * uint32(cur.G)
	sumB := centerWeight * uint32(cur.B)
	weightSum := centerWeight
	for di := 0; di < 3; di++ {
		for dj := 0; dj < 3; dj++ {
			if di == 1 && dj == 1 {
				continue
			}
			n := window[di][dj]
			w := neighborWeight(cur, n, palette, cache)
			sumR += w * uint32(n.R)
			sumG += w * uint32(n.G)
			sumB += w * uint32(n.B)
			weightSum += w
		}
	}
	return imaging.RGB{
		R: uint8(sumR / weightSum),
		G: uint8(sumG / weightSum),
		B: uint8(sumB / weightSum),
	}
}

// neighborWeight asks whether the palette would naturally contain the blend
// of cur and n. A blend far from any legal palette color marks the pair as
// dithering partners worth averaging; a close palette match means the two are
// distinct colors and blending would smear them.
func neighborWeight(cur, n imaging.RGB, palette *imaging.Palette, cache kdtree.Cache[imaging.RGB]) uint32 {
	avg := cur.Average(n)
	nearest, ok := palette.Nearest(avg, cur, n, cache)
	if !ok {
		return 8
	}
	d1 := cur.DistanceSq(avg)
	d2 := avg.DistanceSq(nearest)
	switch {
	case d2 >= 2*d1:
		return 8
	case d2 >= d1:
		return 6
	case 3*d2 >= 2*d1:
		return 1
	default:
		return 0
	}
}

func prewittMagnitude(window *[3][3]imaging.RGB) int {
	var luma [3][3]int
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			luma[i][j] = int(window[i][j].Luma())
		}
	}
	gx, gy := 0, 0
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			gx += luma[i][j] * prewittGx[i][j]
			gy += luma[i][j] * prewittGy[i][j]
		}
	}
	return int(math.Sqrt(float64(gx*gx + gy*gy)))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
