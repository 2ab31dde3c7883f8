package pipeline

import (
	"fmt"
	"io"

	"github.com/waresnew/gif-compressor/pkg/gifio"
	"github.com/waresnew/gif-compressor/pkg/imaging"
	"github.com/waresnew/gif-compressor/pkg/kdtree"
)

// Quantizer is the emitting half of the second pass: it snaps every opaque
// pixel to the final palette, strips pixels that fuzzily match the running
// emitted canvas, and writes the opaque bounding rectangle of each frame.
type Quantizer struct {
	height, width    int
	palette          *imaging.Palette
	cache            kdtree.Cache[imaging.RGB]
	indexOf          map[imaging.RGB]uint8
	transparentIndex uint8
	writer           *gifio.Writer
	prev             *imaging.Canvas
	first            bool
	threshold        int
}

// NewQuantizer builds the palette index and opens the encoder on out. The
// written global palette holds the true colors followed by one dummy (0,0,0)
// entry reserved as the transparent index. Panics if more than 255 colors are
// supplied; median cut with maxN 255 guarantees this cannot happen.
func NewQuantizer(out io.Writer, colors []imaging.RGB, height, width, threshold int) (*Quantizer, error) {
	if len(colors) == 0 {
		return nil, fmt.Errorf("empty palette")
	}
	if len(colors) > 255 {
		panic(fmt.Sprintf("pipeline: palette holds %d colors, the limit is 255", len(colors)))
	}
	palette := imaging.NewPalette(colors)
	packed := make([]byte, 0, 3*(palette.Len()+1))
	indexOf := make(map[imaging.RGB]uint8, palette.Len())
	for i, c := range palette.Colors() {
		packed = append(packed, c.R, c.G, c.B)
		indexOf[c] = uint8(i)
	}
	packed = append(packed, 0, 0, 0) // dummy slot for the transparent index
	transparentIndex := uint8(palette.Len())

	writer, err := gifio.NewWriter(out, width, height, packed, transparentIndex)
	if err != nil {
		return nil, err
	}
	return &Quantizer{
		height:           height,
		width:            width,
		palette:          palette,
		cache:            make(kdtree.Cache[imaging.RGB]),
		indexOf:          indexOf,
		transparentIndex: transparentIndex,
		writer:           writer,
		prev:             imaging.NewCanvas(height, width),
		first:            true,
		threshold:        threshold,
	}, nil
}

// TransparentIndex returns the palette slot reserved for transparency.
func (q *Quantizer) TransparentIndex() uint8 {
	return q.transparentIndex
}

// WriteFrame quantizes the frame's canvas, applies fuzzy transparency against
// the last-emitted canvas, and writes the opaque rectangle. The frame's
// canvas is consumed and mutated.
func (q *Quantizer) WriteFrame(f *Frame) error {
	canvas := f.Canvas
	for i := 0; i < q.height; i++ {
		row := canvas.Row(i)
		for j, px := range row {
			if px.Transparent {
				continue
			}
			row[j] = q.palette.NearestOne(px, q.cache)
		}
	}

	rect := Rect{Top: 0, Left: 0, Height: q.height, Width: q.width}
	if q.first {
		q.first = false
	} else {
		rect = ApplyTransparency(canvas, q.prev, q.threshold)
	}

	indices := make([]byte, 0, rect.Height*rect.Width)
	for i := 0; i < rect.Height; i++ {
		row := canvas.Row(rect.Top + i)
		for j := 0; j < rect.Width; j++ {
			px := row[rect.Left+j]
			if px.Transparent {
				indices = append(indices, q.transparentIndex)
				continue
			}
			indices = append(indices, q.indexOf[px.Key()])
			// The reference canvas only advances at opaque positions.
			q.prev.Set(rect.Top+i, rect.Left+j, px)
		}
	}
	return q.writer.WriteFrame(rect.Top, rect.Left, rect.Width, rect.Height, indices, f.Delay)
}

// Close flushes the encoder.
func (q *Quantizer) Close() error {
	return q.writer.Close()
}
