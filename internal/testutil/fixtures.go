// Package testutil builds small synthetic GIFs for pipeline tests.
package testutil

import (
	"image"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"testing"
)

// Frame builds a paletted frame covering the given rectangle.
func Frame(rect image.Rectangle, palette color.Palette, indices []byte) *image.Paletted {
	pm := image.NewPaletted(rect, palette)
	copy(pm.Pix, indices)
	return pm
}

// SolidFrame builds a frame filled with a single palette index.
func SolidFrame(rect image.Rectangle, palette color.Palette, index uint8) *image.Paletted {
	pm := image.NewPaletted(rect, palette)
	for i := range pm.Pix {
		pm.Pix[i] = index
	}
	return pm
}

// WriteGIF encodes g into a temporary file and returns its path.
func WriteGIF(t *testing.T, g *gif.GIF) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.gif")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}
	if err := gif.EncodeAll(f, g); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close fixture: %v", err)
	}
	return path
}

// Animation wraps frames into a gif.GIF with the given canvas size, zero
// delays, and DisposalNone for every frame.
func Animation(width, height int, frames ...*image.Paletted) *gif.GIF {
	g := &gif.GIF{
		Config: image.Config{Width: width, Height: height},
	}
	if len(frames) > 0 {
		g.Config.ColorModel = frames[0].Palette
	}
	for _, frame := range frames {
		g.Image = append(g.Image, frame)
		g.Delay = append(g.Delay, 0)
		g.Disposal = append(g.Disposal, gif.DisposalNone)
	}
	return g
}
