package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/willibrandon/mtlog"
	"github.com/willibrandon/mtlog/core"

	"github.com/waresnew/gif-compressor/pkg/imaging"
	"github.com/waresnew/gif-compressor/pkg/quantize"
)

// maxColors is the palette budget for median cut; the 256th slot of the GIF
// color table is reserved for transparency.
const maxColors = 255

// Options configures a compression run.
type Options struct {
	Input  string
	Output string
	// Stream trades a second full decode pass for not retaining undithered
	// frames in memory.
	Stream bool
	// Threshold is the luma distance below which a pixel is considered
	// unchanged from the previous frame.
	Threshold int
}

// Run executes the two-pass compression: pass one accumulates the color
// histogram (and, unless streaming, retains the undithered frames), pass two
// quantizes against the median-cut palette and emits the output file.
func Run(opts Options, logger core.Logger) error {
	runID := uuid.New().String()[:8]
	ctx := mtlog.PushProperty(context.Background(), "RunID", runID)
	log := logger.WithContext(ctx)

	start := time.Now()
	stream, err := OpenStream(opts.Input, opts.Threshold, log)
	if err != nil {
		return err
	}
	width, height := stream.Size()
	log.Information("Reading {Input} ({Width}x{Height}, streaming={Stream})", opts.Input, width, height, opts.Stream)

	hist := quantize.NewHistogram()
	var frames []*Frame
	frameCount := 0
	for {
		frame, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("histogram pass: %w", err)
		}
		hist.Add(frame.Canvas)
		if !opts.Stream {
			frames = append(frames, frame)
		}
		frameCount++
	}
	if frameCount == 0 {
		return fmt.Errorf("malformed gif %s: no frames", opts.Input)
	}
	log.Information("Histogram pass saw {Frames} frames and {Distinct} distinct colors in {Duration}",
		frameCount, hist.Distinct(), time.Since(start))

	colors := quantize.MedianCut(hist.Pairs(), maxColors)
	summary := imaging.Describe(colors)
	log.Information("Median cut reduced the palette to {Colors} colors", len(colors))
	log.Debug("Palette summary: dominant hue {Hue}, lightness {LightnessMin}-{LightnessMax}, {Contrast} contrast",
		summary.DominantHue, summary.LightnessMin, summary.LightnessMax, summary.Contrast)

	out, err := os.Create(opts.Output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()

	quantizer, err := NewQuantizer(out, colors, height, width, opts.Threshold)
	if err != nil {
		return err
	}

	emitStart := time.Now()
	if opts.Stream {
		second, err := OpenStream(opts.Input, opts.Threshold, log)
		if err != nil {
			return fmt.Errorf("reopen for emit pass: %w", err)
		}
		for {
			frame, err := second.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return fmt.Errorf("emit pass: %w", err)
			}
			if err := quantizer.WriteFrame(frame); err != nil {
				return err
			}
		}
	} else {
		for _, frame := range frames {
			if err := quantizer.WriteFrame(frame); err != nil {
				return err
			}
		}
	}
	if err := quantizer.Close(); err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	log.Information("Emit pass wrote {Frames} frames to {Output} in {Duration}", frameCount, opts.Output, time.Since(emitStart))
	log.Information("Finished in {Duration}", time.Since(start))
	return nil
}
