package gifio

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io"
)

// Writer accepts palette-indexed frames and emits a GIF89a stream with a
// shared global palette, an infinite looping hint, and per-frame transparent
// indices. Frames are gathered and flushed by Close, which writes the whole
// container through the underlying writer.
type Writer struct {
	out     io.Writer
	palette color.Palette
	g       *gif.GIF
}

// NewWriter prepares an encoder for a width x height animation. The palette
// is packed RGB bytes; the entry at transparentIndex is the reserved
// transparent slot and is encoded with zero alpha so decoders treat it as
// "don't draw".
func NewWriter(out io.Writer, width, height int, palette []byte, transparentIndex uint8) (*Writer, error) {
	if len(palette) == 0 || len(palette)%3 != 0 {
		return nil, fmt.Errorf("palette must be a non-empty multiple of 3 bytes, got %d", len(palette))
	}
	n := len(palette) / 3
	if n > 256 {
		return nil, fmt.Errorf("palette holds %d colors, the limit is 256", n)
	}
	if int(transparentIndex) >= n {
		return nil, fmt.Errorf("transparent index %d out of range for %d colors", transparentIndex, n)
	}
	pal := make(color.Palette, n)
	for i := 0; i < n; i++ {
		c := color.RGBA{R: palette[3*i], G: palette[3*i+1], B: palette[3*i+2], A: 0xff}
		if i == int(transparentIndex) {
			c = color.RGBA{}
		}
		pal[i] = c
	}
	return &Writer{
		out:     out,
		palette: pal,
		g: &gif.GIF{
			Config:    image.Config{ColorModel: pal, Width: width, Height: height},
			LoopCount: 0, // loop forever
		},
	}, nil
}

// WriteFrame appends one frame covering the given sub-rectangle. indices must
// hold width*height palette indices in row-major order; disposal is always
// Keep.
func (w *Writer) WriteFrame(top, left, width, height int, indices []byte, delay int) error {
	if len(indices) != width*height {
		return fmt.Errorf("frame buffer holds %d indices, want %d", len(indices), width*height)
	}
	pix := make([]byte, len(indices))
	copy(pix, indices)
	w.g.Image = append(w.g.Image, &image.Paletted{
		Pix:     pix,
		Stride:  width,
		Rect:    image.Rect(left, top, left+width, top+height),
		Palette: w.palette,
	})
	w.g.Delay = append(w.g.Delay, delay)
	w.g.Disposal = append(w.g.Disposal, gif.DisposalNone)
	return nil
}

// Close encodes the gathered frames to the underlying writer. image/gif only
// writes the looping extension for multi-frame animations, so for a single
// frame it is inserted here, right after the global color table.
func (w *Writer) Close() error {
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, w.g); err != nil {
		return fmt.Errorf("encode gif: %w", err)
	}
	data := buf.Bytes()
	if len(w.g.Image) == 1 {
		at := 13 + 3<<(data[10]&0x07+1)
		loop := []byte{0x21, 0xff, 0x0b, 'N', 'E', 'T', 'S', 'C', 'A', 'P', 'E', '2', '.', '0',
			0x03, 0x01, byte(w.g.LoopCount), byte(w.g.LoopCount >> 8), 0x00}
		data = append(data[:at:at], append(loop, data[at:]...)...)
	}
	if _, err := w.out.Write(data); err != nil {
		return fmt.Errorf("write gif: %w", err)
	}
	return nil
}
