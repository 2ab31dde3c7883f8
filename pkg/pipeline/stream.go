package pipeline

import (
	"fmt"

	"github.com/willibrandon/mtlog/core"

	"github.com/waresnew/gif-compressor/pkg/gifio"
	"github.com/waresnew/gif-compressor/pkg/imaging"
	"github.com/waresnew/gif-compressor/pkg/undither"
)

// Stream is the undithered frame iterator: decoder, compositor, undither,
// and fuzzy transparency chained into a lazy pull-based sequence. The stream
// exclusively owns its working canvas and yields an independent clone per
// frame; the clone is the caller's to retain or drop.
type Stream struct {
	reader    *gifio.Reader
	global    *imaging.Palette
	canvas    *imaging.Canvas
	first     bool
	threshold int
	frameNum  int
	logger    core.Logger
}

// OpenStream opens the GIF at path and prepares the frame sequence.
// Re-opening the same path yields an identical sequence, which is how the
// streaming mode runs its second pass.
func OpenStream(path string, threshold int, logger core.Logger) (*Stream, error) {
	reader, err := gifio.Open(path)
	if err != nil {
		return nil, err
	}
	width, height := reader.Size()
	s := &Stream{
		reader:    reader,
		canvas:    imaging.NewCanvas(height, width),
		first:     true,
		threshold: threshold,
		logger:    logger,
	}
	if raw := reader.GlobalPalette(); len(raw) > 0 {
		s.global = imaging.FromRaw(raw)
	}
	return s, nil
}

// Size returns the overall canvas dimensions.
func (s *Stream) Size() (width, height int) {
	return s.reader.Size()
}

// Next composites the next raw frame, undithers it, applies fuzzy
// transparency against the previous canvas (never on the first frame), and
// returns a clone. io.EOF signals the end of the animation.
func (s *Stream) Next() (*Frame, error) {
	raw, err := s.reader.Next()
	if err != nil {
		return nil, err
	}
	s.frameNum++

	cur := s.canvas.Clone()
	Composite(raw, cur)

	palette := s.global
	if len(raw.Palette) > 0 {
		palette = imaging.FromRaw(raw.Palette)
	}
	if palette == nil {
		return nil, fmt.Errorf("malformed gif: frame %d has no global or local palette", s.frameNum)
	}
	undither.Undither(cur, palette)

	if s.first {
		s.first = false
	} else {
		ApplyTransparency(cur, s.canvas, s.threshold)
	}
	out := &Frame{Canvas: cur.Clone(), Delay: raw.Delay}
	s.logger.Debug("Undithered frame {Frame} (disposal {Disposal}, delay {Delay}cs)", s.frameNum, raw.Disposal, raw.Delay)

	// Prepare the working canvas for the next frame per the disposal method.
	switch raw.Disposal {
	case gifio.DisposalBackground:
		cur.Fill(imaging.TransparentRGB)
	case gifio.DisposalPrevious:
		cur.CopyFrom(s.canvas)
	}
	s.canvas = cur
	return out, nil
}
