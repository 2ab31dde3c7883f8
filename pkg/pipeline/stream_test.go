package pipeline

import (
	"image"
	"image/color"
	"image/gif"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/willibrandon/mtlog"
	"github.com/willibrandon/mtlog/core"

	"github.com/waresnew/gif-compressor/internal/testutil"
	"github.com/waresnew/gif-compressor/pkg/imaging"
)

var (
	testRed   = color.RGBA{R: 0xff, A: 0xff}
	testWhite = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	testBlack = color.RGBA{A: 0xff}
)

func quietLogger() core.Logger {
	return mtlog.New(mtlog.WithMinimumLevel(core.ErrorLevel))
}

func drain(t *testing.T, s *Stream) []*Frame {
	t.Helper()
	var frames []*Frame
	for {
		f, err := s.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		frames = append(frames, f)
	}
	return frames
}

func TestStreamFirstFrameIsNeverTransparent(t *testing.T) {
	// A solid black first frame matches the blank canvas in luma distance;
	// staying opaque proves the first frame skips the transparency pass.
	palette := color.Palette{testBlack, testWhite}
	g := testutil.Animation(2, 2, testutil.SolidFrame(image.Rect(0, 0, 2, 2), palette, 0))

	s, err := OpenStream(testutil.WriteGIF(t, g), 5, quietLogger())
	require.NoError(t, err)
	frames := drain(t, s)
	require.Len(t, frames, 1)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			assert.Equal(t, imaging.RGB{}, frames[0].Canvas.At(i, j))
		}
	}
}

func TestStreamIdenticalFrameGoesTransparent(t *testing.T) {
	palette := color.Palette{testRed, testWhite}
	g := testutil.Animation(2, 2,
		testutil.SolidFrame(image.Rect(0, 0, 2, 2), palette, 0),
		testutil.SolidFrame(image.Rect(0, 0, 2, 2), palette, 0),
	)
	g.Delay = []int{10, 20}

	s, err := OpenStream(testutil.WriteGIF(t, g), 5, quietLogger())
	require.NoError(t, err)
	frames := drain(t, s)
	require.Len(t, frames, 2)
	assert.Equal(t, 10, frames[0].Delay)
	assert.Equal(t, 20, frames[1].Delay)

	red := imaging.RGB{R: 0xff}
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			assert.Equal(t, red, frames[0].Canvas.At(i, j))
			assert.True(t, frames[1].Canvas.At(i, j).Transparent)
		}
	}
}

func TestStreamDisposalPreviousRestoresCanvas(t *testing.T) {
	palette := color.Palette{testWhite, testBlack}
	first := testutil.SolidFrame(image.Rect(0, 0, 4, 4), palette, 0)  // white
	second := testutil.SolidFrame(image.Rect(0, 0, 4, 4), palette, 1) // black
	third := testutil.SolidFrame(image.Rect(0, 0, 2, 4), palette, 1)  // black left half
	g := testutil.Animation(4, 4, first, second, third)
	g.Disposal[1] = gif.DisposalPrevious

	s, err := OpenStream(testutil.WriteGIF(t, g), 5, quietLogger())
	require.NoError(t, err)
	frames := drain(t, s)
	require.Len(t, frames, 3)

	// Frame 2's canvas was restored before frame 3 composited, so the right
	// half reverts to white and fuzzily matches it: transparent. The black
	// left half differs and stays opaque.
	for i := 0; i < 4; i++ {
		for j := 0; j < 2; j++ {
			assert.Equal(t, imaging.RGB{}, frames[2].Canvas.At(i, j), "pixel (%d,%d)", i, j)
		}
		for j := 2; j < 4; j++ {
			assert.True(t, frames[2].Canvas.At(i, j).Transparent, "pixel (%d,%d)", i, j)
		}
	}
}

func TestStreamDisposalBackgroundClearsCanvas(t *testing.T) {
	palette := color.Palette{testWhite, testRed}
	first := testutil.SolidFrame(image.Rect(0, 0, 4, 4), palette, 0) // white
	second := testutil.SolidFrame(image.Rect(0, 0, 2, 4), palette, 1) // red left half
	g := testutil.Animation(4, 4, first, second)
	g.Disposal[0] = gif.DisposalBackground

	s, err := OpenStream(testutil.WriteGIF(t, g), 5, quietLogger())
	require.NoError(t, err)
	frames := drain(t, s)
	require.Len(t, frames, 2)

	// The canvas was cleared after frame 1, so frame 2 holds its red left
	// half over a blank field; nothing white survives.
	assert.Equal(t, imaging.RGB{R: 0xff}, frames[1].Canvas.At(1, 0))
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			px := frames[1].Canvas.At(i, j)
			if !px.Transparent {
				assert.NotEqual(t, imaging.RGB{R: 0xff, G: 0xff, B: 0xff}, px)
			}
		}
	}
	for i := 0; i < 4; i++ {
		assert.True(t, frames[1].Canvas.At(i, 3).Transparent, "far column reverts to background")
	}
}

func TestStreamSizeAndEOF(t *testing.T) {
	palette := color.Palette{testRed, testWhite}
	g := testutil.Animation(3, 2, testutil.SolidFrame(image.Rect(0, 0, 3, 2), palette, 0))

	s, err := OpenStream(testutil.WriteGIF(t, g), 5, quietLogger())
	require.NoError(t, err)
	w, h := s.Size()
	assert.Equal(t, 3, w)
	assert.Equal(t, 2, h)

	drain(t, s)
	_, err = s.Next()
	assert.ErrorIs(t, err, io.EOF)
}
