package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ironsheep/image-enhance-mcp/internal/enhance"
	"github.com/ironsheep/image-enhance-mcp/internal/imaging"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// options holds the flag values of the root command.
type options struct {
	denoise    int
	clipLimit  float64
	sharpen    int
	saturation float64
	outDir     string
	quality    int
	backend    string
	timeout    time.Duration
	debug      bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	preset := enhance.Preset()
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "image-enhance [flags] <image>...",
		Short: "Denoise, equalize, re-saturate and sharpen images",
		Long: "image-enhance runs each input through bilateral denoising, CLAHE contrast\n" +
			"equalization, saturation remapping and sharpening, and writes\n" +
			"<name>_processed.jpg and <name>_processed.png for every input.",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := initLogger(opts.debug, cmd.ErrOrStderr())
			return run(cmd.Context(), logger, opts, args)
		},
	}

	f := cmd.Flags()
	f.IntVarP(&opts.denoise, "denoise", "d", preset.DenoiseStrength, "bilateral filter diameter (0-15, 0 picks the default neighbourhood)")
	f.Float64VarP(&opts.clipLimit, "clip-limit", "c", preset.ClipLimit, "CLAHE clip limit (0.1-3.0)")
	f.IntVarP(&opts.sharpen, "sharpen", "s", preset.SharpenSize, "sharpening kernel size (odd, 1-9)")
	f.Float64Var(&opts.saturation, "saturation", preset.Saturation, "saturation multiplier (0.0-2.0)")
	f.StringVarP(&opts.outDir, "out-dir", "o", "", "output directory (default: next to each input)")
	f.IntVarP(&opts.quality, "quality", "q", imaging.DefaultJPEGQuality, "JPEG quality (1-100)")
	f.StringVar(&opts.backend, "backend", "native", "enhancement backend")
	f.DurationVar(&opts.timeout, "timeout", 2*time.Minute, "time limit per image")
	f.BoolVar(&opts.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "image-enhance %s\n", Version)
			fmt.Fprintf(out, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(out, "  Git commit: %s\n", GitCommit)
		},
	}
}

func (o *options) params() enhance.Params {
	return enhance.Params{
		DenoiseStrength: o.denoise,
		ClipLimit:       o.clipLimit,
		SharpenSize:     o.sharpen,
		Saturation:      o.saturation,
	}
}

// run enhances every path in turn. A failing input is logged and skipped,
// as is an input whose exports would overwrite those of an earlier one; the
// returned error reports how many failed.
func run(ctx context.Context, logger *logrus.Logger, opts *options, paths []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	p := opts.params()
	if err := p.Validate(); err != nil {
		return err
	}
	if opts.quality < 1 || opts.quality > 100 {
		return fmt.Errorf("quality %d outside [1, 100]", opts.quality)
	}
	if opts.timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", opts.timeout)
	}
	proc, err := enhance.Backend(opts.backend)
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"params":  p.String(),
		"backend": opts.backend,
		"inputs":  len(paths),
	}).Debug("starting")

	failed := 0
	exports := make(map[string]string, len(paths))
	for _, path := range paths {
		// Inputs sharing a stem would write the same export files.
		stem := filepath.Join(outputDir(opts, path), imaging.ProcessedName(path, ""))
		if prev, ok := exports[stem]; ok {
			logger.WithFields(logrus.Fields{
				"path":     path,
				"conflict": prev,
			}).Error("export would overwrite an earlier input's output")
			failed++
			continue
		}
		exports[stem] = path

		if err := enhanceFile(ctx, logger, proc, p, path, opts); err != nil {
			logger.WithError(err).WithField("path", path).Error("failed to enhance image")
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d images failed", failed, len(paths))
	}
	return nil
}

func enhanceFile(ctx context.Context, logger *logrus.Logger, proc enhance.Processor, p enhance.Params, path string, opts *options) error {
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	start := time.Now()
	src, err := imaging.Decode(path)
	if err != nil {
		return err
	}

	out, err := proc.Process(ctx, src, p)
	if err != nil {
		return err
	}

	res, err := imaging.Export(out, path, outputDir(opts, path), opts.quality)
	if err != nil {
		return err
	}

	entry := logger.WithFields(logrus.Fields{
		"path":       path,
		"width":      res.Width,
		"height":     res.Height,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	for _, enc := range res.Encodings {
		entry = entry.WithField(enc.Format, enc.Path)
	}
	entry.Info("enhanced image")
	return nil
}

// outputDir is --out-dir, or the input's own directory when unset.
func outputDir(opts *options, path string) string {
	if opts.outDir != "" {
		return filepath.Clean(opts.outDir)
	}
	return filepath.Dir(path)
}

// initLogger writes to w with the JSON formatter, or the text formatter at
// debug level.
func initLogger(debugMode bool, w io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)

	if debugMode {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
		logger.Debug("Debug logging enabled")
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return logger
}
