// Command win2xcur converts Windows cursors (.cur, .ani) to X11 Xcursor files.
//
// Usage:
//
//	win2xcur [flags] files...
//
// Each input is written to the output directory under its base name without
// extension. Inputs are converted in parallel; a failing input is reported
// and the remaining ones are still converted.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gogpu/curconv"
	"github.com/gogpu/curconv/internal/parallel"
)

const programName = "win2xcur"

// Exit codes.
const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

// errOutputCollision is reported for an input whose output name was already
// claimed by an earlier input of the same batch.
var errOutputCollision = errors.New("output name already used by another input")

// config holds the parsed command line.
type config struct {
	outDir   string
	scale    float64
	sizes    []int
	workers  int
	comments bool
	verbose  bool
	inputs   []string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run converts the inputs named by args and returns the exit status.
func run(args []string, stderr io.Writer) int {
	cfg, err := parseFlags(args, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(stderr, "%s: %v\n", programName, err)
		}
		return exitUsage
	}

	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	curconv.SetLogger(logger)
	defer curconv.SetLogger(nil)

	pool := parallel.NewWorkerPool(cfg.workers)
	defer pool.Close()
	logger.Debug("converting", "inputs", len(cfg.inputs), "workers", pool.Workers())

	collisions := outputCollisions(cfg.inputs)
	errs := pool.Map(context.Background(), len(cfg.inputs), func(_ context.Context, i int) error {
		if collisions[i] != nil {
			return collisions[i]
		}
		return convertFile(cfg, cfg.inputs[i], logger)
	})

	status := exitOK
	for i, err := range errs {
		if err == nil {
			continue
		}
		logger.Error("conversion failed", "file", cfg.inputs[i], "kind", errorKind(err), "err", err)
		status = exitFailed
	}
	return status
}

func parseFlags(args []string, stderr io.Writer) (*config, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: %s [flags] files...\n", programName)
		fs.PrintDefaults()
	}

	cfg := &config{}
	var sizes string
	fs.StringVar(&cfg.outDir, "o", ".", "output `directory`")
	fs.Float64Var(&cfg.scale, "scale", 0, "scale every cursor by `factor` before writing (0 = none)")
	fs.StringVar(&sizes, "sizes", "", "comma-separated nominal `sizes` (default 22,24,...,96)")
	fs.IntVar(&cfg.workers, "workers", 0, "number of parallel conversions (0 = GOMAXPROCS)")
	fs.BoolVar(&cfg.comments, "comments", false, "store ANI title and author as Xcursor comments")
	fs.BoolVar(&cfg.verbose, "v", false, "print debug diagnostics")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.inputs = fs.Args()
	if len(cfg.inputs) == 0 {
		fs.Usage()
		return nil, errors.New("no input files")
	}
	if math.IsNaN(cfg.scale) || math.IsInf(cfg.scale, 0) || cfg.scale < 0 {
		return nil, fmt.Errorf("invalid -scale %v", cfg.scale)
	}

	var err error
	if cfg.sizes, err = parseSizes(sizes); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseSizes parses a comma-separated size list. An empty list selects the
// default table.
func parseSizes(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var sizes []int
	for _, field := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid size %q in -sizes", field)
		}
		sizes = append(sizes, n)
	}
	return sizes, nil
}

// convertFile converts one input. It owns its input bytes and decoded
// sequence; only the returned error is shared with the caller.
func convertFile(cfg *config, path string, logger *slog.Logger) error {
	blob, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	seq, err := curconv.Parse(blob)
	if err != nil {
		return err
	}
	if seq.Len() == 0 {
		logger.Warn("cursor has no images, writing an empty Xcursor file", "file", path)
	}
	if cfg.scale != 0 && cfg.scale != 1 {
		if err := curconv.ScaleSequence(seq, cfg.scale); err != nil {
			return err
		}
	}

	out, err := curconv.WriteXcursor(seq,
		curconv.WithSizes(cfg.sizes...),
		curconv.WithComments(cfg.comments),
	)
	if err != nil {
		return err
	}

	dst := filepath.Join(cfg.outDir, outputName(path))
	if err := os.WriteFile(dst, out, 0o644); err != nil { //nolint:gosec // cursor themes are world-readable
		return err
	}
	logger.Info("converted", "file", path, "output", dst, "format", curconv.Detect(blob), "frames", seq.Len())
	return nil
}

// outputName strips the directory and extension from an input path.
func outputName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// outputCollisions returns, per input, an error when an earlier input maps
// to the same output file. The first input keeps the name.
func outputCollisions(inputs []string) []error {
	errs := make([]error, len(inputs))
	owner := make(map[string]string, len(inputs))
	for i, path := range inputs {
		name := outputName(path)
		if first, ok := owner[name]; ok {
			errs[i] = fmt.Errorf("%w: %q and %q both map to %q", errOutputCollision, first, path, name)
			continue
		}
		owner[name] = path
	}
	return errs
}

// errorKind names the failure class of a conversion error for diagnostics.
func errorKind(err error) string {
	switch {
	case errors.Is(err, curconv.ErrUnsupportedFormat):
		return "unsupported format"
	case errors.Is(err, curconv.ErrMalformedContainer):
		return "malformed container"
	case errors.Is(err, curconv.ErrUnsupportedPixelFormat):
		return "unsupported pixel format"
	case errors.Is(err, curconv.ErrEncodingFailure):
		return "encoding failure"
	case errors.Is(err, curconv.ErrInvalidScale):
		return "invalid scale"
	case errors.Is(err, errOutputCollision):
		return "output collision"
	case errors.Is(err, os.ErrNotExist), errors.Is(err, os.ErrPermission):
		return "io"
	default:
		return "other"
	}
}
