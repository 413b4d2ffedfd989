package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jallum/mdwrap/internal/config"
	"github.com/jallum/mdwrap/internal/runner"
	"github.com/jallum/mdwrap/internal/walk"
)

func cmdFormat(a Args, w Writer) error {
	return formatRoots(a, w, a.Bool("--check"))
}

func cmdCheck(a Args, w Writer) error {
	return formatRoots(a, w, true)
}

// resolveConfig applies the command-line overrides in a on top of the
// environment, .mdwrap.yaml in the working directory and the defaults.
func resolveConfig(a Args) (config.Config, error) {
	var o config.Overrides
	width, ok, err := a.IntErr("--max-visible-width")
	if err != nil {
		return config.Config{}, usageErr(fmt.Errorf("%w: %s", config.ErrInvalidWidth, a.String("--max-visible-width")))
	}
	if ok {
		o.MaxWidth = &width
	}
	jobs, ok, err := a.IntErr("--jobs")
	if err != nil {
		return config.Config{}, usageErr(err)
	}
	if ok {
		o.Jobs = &jobs
	}
	o.Roots = append(append(o.Roots, a.Strings("--root")...), a.Pos()...)
	o.Extensions = splitList(a.Strings("--ext"))
	if a.Bool("--no-gitignore") {
		off := false
		o.Gitignore = &off
	}

	dir, err := os.Getwd()
	if err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Resolve(dir, os.LookupEnv, o)
	if err != nil {
		return config.Config{}, usageErr(err)
	}
	return cfg, nil
}

type fileFailure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

type checkReport struct {
	Checked int           `json:"checked"`
	Changed []string      `json:"changed"`
	Skipped []string      `json:"skipped"`
	Failed  []fileFailure `json:"failed"`
}

func formatRoots(a Args, w Writer, check bool) error {
	cfg, err := resolveConfig(a)
	if err != nil {
		return err
	}
	logger := newLogger(a.Bool("--verbose"))

	// Open every root first so a typo fails before anything is written.
	roots := make([]*walk.Root, 0, len(cfg.Roots))
	for _, p := range cfg.Roots {
		r, err := walk.Open(p)
		if errors.Is(err, walk.ErrRootNotFound) {
			return usageErr(err)
		}
		if err != nil {
			return fmt.Errorf("open %s: %w", p, err)
		}
		roots = append(roots, r)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report := checkReport{Changed: []string{}, Skipped: []string{}, Failed: []fileFailure{}}
	wopts := walk.Options{
		Extensions:  cfg.Extensions,
		ExcludeDirs: cfg.ExcludeDirs,
		Gitignore:   cfg.Gitignore,
		Log:         logger,
	}
	seen := make(map[string]bool)
	for _, r := range roots {
		listed, err := r.Files(wopts)
		if err != nil {
			return fmt.Errorf("walk %s: %w", r.Path, err)
		}
		// Overlapping roots reach some files twice; format each once.
		files := listed[:0]
		for _, name := range listed {
			abs := r.Abs(name)
			if seen[abs] {
				logger.Printf("skip %s: already listed", r.Display(name))
				continue
			}
			seen[abs] = true
			files = append(files, name)
		}
		logger.Printf("%s: %d candidate file(s)", r.Path, len(files))

		rep, err := runner.Run(ctx, r.FS, files, runner.Options{
			MaxWidth: cfg.MaxWidth,
			Check:    check,
			Jobs:     cfg.Jobs,
			Log:      logger,
		})
		if err != nil {
			return err
		}
		report.Checked += rep.Checked
		for _, name := range rep.Changed {
			report.Changed = append(report.Changed, r.Display(name))
		}
		for _, name := range rep.Skipped {
			report.Skipped = append(report.Skipped, r.Display(name))
		}
		for _, fe := range rep.Failed {
			report.Failed = append(report.Failed, fileFailure{Path: r.Display(fe.Path), Error: fe.Err.Error()})
		}
	}

	if check && a.JSON() {
		fprintJSON(w, report)
	} else {
		printReport(w, report, check)
	}

	if len(report.Failed) > 0 || (check && len(report.Changed) > 0) {
		return &exitError{code: 1}
	}
	return nil
}

func printReport(w Writer, report checkReport, check bool) {
	for _, f := range report.Failed {
		fmt.Fprintf(stderr, "error: %s: %s\n", f.Path, f.Error)
	}
	if check {
		for _, p := range report.Changed {
			fmt.Fprintf(w, "%s %s\n", w.Style("needs format:", Yellow), p)
		}
		return
	}
	if n := len(report.Changed); n > 0 {
		fmt.Fprintln(w, w.Style(fmt.Sprintf("formatted %d file(s)", n), Green))
	}
}
