// Command gif-compressor re-encodes an animated GIF into a smaller file by
// undithering its frames, building one shared 255-color palette over the
// whole animation, and stripping inter-frame redundancy via transparency.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"github.com/willibrandon/mtlog"
	"github.com/willibrandon/mtlog/core"
	"github.com/willibrandon/mtlog/sinks"

	"github.com/waresnew/gif-compressor/pkg/pipeline"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:            "gif-compressor",
		Usage:           "re-encode an animated GIF with a shared undithered palette",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "input GIF `FILE`",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Usage:    "output GIF `FILE`",
				Required: true,
			},
			&cli.BoolFlag{
				Name:    "stream",
				Aliases: []string{"s"},
				Usage:   "do not retain frames in memory; decode the input twice instead",
			},
			&cli.IntFlag{
				Name:    "transparency",
				Aliases: []string{"t"},
				Usage:   "luma distance below which a pixel repeats the previous frame",
				Value:   5,
			},
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	if c.Args().Present() {
		return fmt.Errorf("unexpected token: %s", c.Args().First())
	}
	threshold := c.Int("transparency")
	if threshold < 0 {
		return fmt.Errorf("transparency must be non-negative, got %d", threshold)
	}

	logger := createLogger()
	logger.Information("gif-compressor {Version} (built {BuildTime})", Version, BuildTime)

	return pipeline.Run(pipeline.Options{
		Input:     c.String("input"),
		Output:    c.String("output"),
		Stream:    c.Bool("stream"),
		Threshold: threshold,
	}, logger)
}

// createLogger creates a configured logger instance.
func createLogger() core.Logger {
	return mtlog.New(
		mtlog.WithSink(sinks.NewConsoleSink()),
		mtlog.WithMinimumLevel(core.InformationLevel),
	)
}
