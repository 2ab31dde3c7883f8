// Package pipeline drives the compressor: it composites decoded frames onto
// a persistent canvas, undithers them, strips inter-frame redundancy via
// fuzzy transparency, and orchestrates the two-pass histogram-then-emit run.
package pipeline

import (
	"github.com/waresnew/gif-compressor/pkg/gifio"
	"github.com/waresnew/gif-compressor/pkg/imaging"
)

// Frame is a fully composited animation frame: an owned canvas clone plus the
// frame's delay in centiseconds.
type Frame struct {
	Canvas *imaging.Canvas
	Delay  int
}

// Composite draws the raw frame onto the canvas at its (top, left) offset.
// Alpha acts as a pure transparency mask: pixels with zero alpha leave the
// canvas untouched, everything else overwrites it.
func Composite(raw *gifio.Frame, canvas *imaging.Canvas) {
	for i := 0; i < raw.Height; i++ {
		row := canvas.Row(raw.Top + i)
		for j := 0; j < raw.Width; j++ {
			off := 4 * (i*raw.Width + j)
			if raw.Pixels[off+3] == 0 {
				continue
			}
			row[raw.Left+j] = imaging.RGB{
				R: raw.Pixels[off],
				G: raw.Pixels[off+1],
				B: raw.Pixels[off+2],
			}
		}
	}
}
