package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/ampproject/amphtml-sub099/internal/config"
	"github.com/ampproject/amphtml-sub099/internal/documents"
	"github.com/ampproject/amphtml-sub099/internal/log"
	"github.com/ampproject/amphtml-sub099/internal/validator"
	"github.com/ampproject/amphtml-sub099/internal/version"
	"github.com/bmatcuk/doublestar/v4"
)

const (
	exitPass  = 0
	exitFail  = 1
	exitUsage = 2
)

// ErrNoInputs is returned when the arguments match no files.
var ErrNoInputs = errors.New("no input files")

type options struct {
	format     string
	configPath string
	logLevel   string
	workers    int
	version    bool
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var opts options
	fs := flag.NewFlagSet("ampvalidator", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.format, "format", "text", "Output format: text or json")
	fs.StringVar(&opts.configPath, "config", "", "Config file. Defaults to .ampvalidator.yaml or package.json in the working directory")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error. Overrides the config file")
	fs.IntVar(&opts.workers, "workers", -1, "Files validated concurrently; 0 means one per CPU. Overrides the config file")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: ampvalidator [flags] <file-or-glob>...\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitPass
		}
		return exitUsage
	}

	if opts.version {
		fmt.Fprintln(stdout, version.Get())
		return exitPass
	}

	format, err := newFormatter(opts.format)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", err)
		return exitUsage
	}

	vopts, err := loadOptions(opts)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", err)
		return exitUsage
	}

	paths, err := expand(fs.Args())
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", err)
		fs.Usage()
		return exitUsage
	}

	inputs, failed := readInputs(paths, stderr)
	results := validator.ValidateMany(ctx, inputs, vopts)

	code := exitPass
	for _, r := range results {
		switch {
		case r.Err != nil:
			fmt.Fprintf(stderr, "error: %s\n", r.Err)
			failed = true
		case !r.Report.Pass():
			code = exitFail
		}
	}
	if err := format(stdout, results); err != nil {
		fmt.Fprintf(stderr, "error: %s\n", err)
		return exitUsage
	}
	if failed {
		return exitUsage
	}
	return code
}

// loadOptions reads the config file and applies flag overrides.
func loadOptions(opts options) (validator.Options, error) {
	var (
		cfg    config.Config
		source string
		err    error
	)
	if opts.configPath != "" {
		cfg, err = config.Load(opts.configPath)
		source = opts.configPath
	} else {
		var wd string
		if wd, err = os.Getwd(); err == nil {
			cfg, source, err = config.Discover(wd)
		}
	}
	if err != nil {
		return validator.Options{}, err
	}

	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.workers >= 0 {
		cfg.Workers = opts.workers
	}
	level, err := cfg.Level()
	if err != nil {
		return validator.Options{}, err
	}
	log.SetLevel(level)
	if source != "" {
		log.Debug("Loaded config from %s", source)
	}

	return validator.NewOptions(cfg)
}

// expand resolves glob arguments with doublestar. Plain paths are kept
// as given so a missing file is reported when it is read.
func expand(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[{") {
			paths = append(paths, arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			log.Warn("No files match %s", arg)
		}
		paths = append(paths, matches...)
	}

	slices.Sort(paths)
	paths = slices.Compact(paths)
	if len(paths) == 0 {
		return nil, ErrNoInputs
	}
	return paths, nil
}

// readInputs loads each path. Unreadable or unsupported files are
// reported to stderr and skipped.
func readInputs(paths []string, stderr io.Writer) ([]validator.Input, bool) {
	inputs := make([]validator.Input, 0, len(paths))
	failed := false
	for _, path := range paths {
		kind := documents.DetectKind(path, "")
		if kind == documents.KindUnknown {
			fmt.Fprintf(stderr, "error: %s: %s\n", path, validator.ErrUnsupportedInput)
			failed = true
			continue
		}
		data, err := os.ReadFile(path) //nolint:gosec // G304: paths come from the command line
		if err != nil {
			fmt.Fprintf(stderr, "error: %s\n", err)
			failed = true
			continue
		}
		inputs = append(inputs, validator.Input{Name: path, Content: string(data), Kind: kind})
	}
	return inputs, failed
}
