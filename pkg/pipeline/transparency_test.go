package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/waresnew/gif-compressor/pkg/imaging"
)

func TestApplyTransparencyMarksMatchingPixels(t *testing.T) {
	cur := imaging.NewCanvas(2, 2)
	prev := imaging.NewCanvas(2, 2)
	cur.Fill(imaging.RGB{R: 100})
	prev.Fill(imaging.RGB{R: 100})
	cur.Set(0, 1, imaging.RGB{R: 200})

	rect := ApplyTransparency(cur, prev, 5)
	assert.True(t, cur.At(0, 0).Transparent)
	assert.True(t, cur.At(1, 0).Transparent)
	assert.True(t, cur.At(1, 1).Transparent)
	assert.False(t, cur.At(0, 1).Transparent)
	assert.Equal(t, Rect{Top: 0, Left: 1, Height: 1, Width: 1}, rect)
}

func TestApplyTransparencyStrictThreshold(t *testing.T) {
	cur := imaging.NewCanvas(1, 2)
	prev := imaging.NewCanvas(1, 2)
	cur.Set(0, 0, imaging.RGB{R: 100})
	prev.Set(0, 0, imaging.RGB{R: 100})
	cur.Set(0, 1, imaging.RGB{R: 102})
	prev.Set(0, 1, imaging.RGB{R: 100})

	// Threshold 1 admits only a zero luma distance, so exact matches become
	// transparent and anything else stays.
	rect := ApplyTransparency(cur, prev, 1)
	assert.True(t, cur.At(0, 0).Transparent)
	assert.False(t, cur.At(0, 1).Transparent)
	assert.Equal(t, Rect{Top: 0, Left: 1, Height: 1, Width: 1}, rect)
}

func TestApplyTransparencyThresholdZeroMarksNothing(t *testing.T) {
	cur := imaging.NewCanvas(1, 2)
	prev := imaging.NewCanvas(1, 2)
	cur.Fill(imaging.RGB{R: 42})
	prev.Fill(imaging.RGB{R: 42})

	rect := ApplyTransparency(cur, prev, 0)
	assert.False(t, cur.At(0, 0).Transparent)
	assert.False(t, cur.At(0, 1).Transparent)
	assert.Equal(t, Rect{Top: 0, Left: 0, Height: 1, Width: 2}, rect)
}

func TestApplyTransparencyBoundingRectEnclosesOpaque(t *testing.T) {
	cur := imaging.NewCanvas(5, 5)
	prev := imaging.NewCanvas(5, 5)
	cur.Fill(imaging.RGB{R: 10})
	prev.Fill(imaging.RGB{R: 10})
	cur.Set(1, 2, imaging.RGB{R: 250})
	cur.Set(3, 4, imaging.RGB{G: 250})

	rect := ApplyTransparency(cur, prev, 5)
	assert.Equal(t, Rect{Top: 1, Left: 2, Height: 3, Width: 3}, rect)
	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			if cur.At(i, j).Transparent {
				continue
			}
			assert.GreaterOrEqual(t, i, rect.Top)
			assert.Less(t, i, rect.Top+rect.Height)
			assert.GreaterOrEqual(t, j, rect.Left)
			assert.Less(t, j, rect.Left+rect.Width)
		}
	}
}

func TestApplyTransparencyEmptyRectCollapsesToOrigin(t *testing.T) {
	cur := imaging.NewCanvas(3, 4)
	prev := imaging.NewCanvas(3, 4)
	cur.Fill(imaging.RGB{R: 7})
	prev.Fill(imaging.RGB{R: 7})

	rect := ApplyTransparency(cur, prev, 5)
	assert.Equal(t, Rect{Top: 0, Left: 0, Height: 1, Width: 1}, rect)
}

func TestApplyTransparencyKeepsExistingMarks(t *testing.T) {
	cur := imaging.NewCanvas(1, 2)
	prev := imaging.NewCanvas(1, 2)
	cur.Set(0, 0, imaging.RGB{R: 250, Transparent: true})
	prev.Set(0, 0, imaging.RGB{R: 1})
	cur.Set(0, 1, imaging.RGB{R: 250})
	prev.Set(0, 1, imaging.RGB{R: 1})

	rect := ApplyTransparency(cur, prev, 5)
	assert.True(t, cur.At(0, 0).Transparent, "pre-marked pixels stay transparent regardless of distance")
	assert.Equal(t, Rect{Top: 0, Left: 1, Height: 1, Width: 1}, rect)
}
