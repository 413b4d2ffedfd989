// Package runner formats many documents concurrently and writes the
// results back atomically.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"sync/atomic"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/jallum/mdwrap/internal/document"
	"golang.org/x/sync/errgroup"
)

// Options controls a run.
type Options struct {
	MaxWidth int
	Check    bool // report changes without writing
	Jobs     int  // concurrent files; values < 1 mean 1
	Log      *log.Logger
}

// ErrSymlink is returned by WriteFile for a path that is a symbolic link.
var ErrSymlink = errors.New("refusing to replace a symbolic link")

// FileError is a failure confined to one file.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string { return e.Path + ": " + e.Err.Error() }
func (e *FileError) Unwrap() error { return e.Err }

// Report summarizes a run. Paths are in the order the files were given.
type Report struct {
	Checked int
	Changed []string
	Skipped []string
	Failed  []*FileError
}

type outcome struct {
	changed bool
	skipped bool
	err     error
}

// Run formats files on fs. A file that cannot be read, formatted or
// written is recorded in Report.Failed and does not stop the others. The
// returned error is non-nil only when ctx is done before every file ran.
func Run(ctx context.Context, fs billy.Filesystem, files []string, opts Options) (Report, error) {
	logger := opts.Log
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	jobs := opts.Jobs
	if jobs < 1 {
		jobs = 1
	}

	results := make([]outcome, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, name := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			results[i] = formatFile(fs, name, opts)
			logger.Printf("%s: changed=%v skipped=%v (%s)", name, results[i].changed, results[i].skipped, time.Since(start))
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	var rep Report
	for i, res := range results {
		rep.Checked++
		switch {
		case res.err != nil:
			rep.Failed = append(rep.Failed, &FileError{Path: files[i], Err: res.err})
		case res.skipped:
			rep.Skipped = append(rep.Skipped, files[i])
		case res.changed:
			rep.Changed = append(rep.Changed, files[i])
		}
	}
	return rep, nil
}

func formatFile(fs billy.Filesystem, name string, opts Options) outcome {
	data, err := util.ReadFile(fs, name)
	if err != nil {
		return outcome{err: err}
	}
	res, err := document.Format(string(data), document.Options{MaxWidth: opts.MaxWidth})
	if err != nil {
		return outcome{err: err}
	}
	if res.Skipped {
		return outcome{skipped: true}
	}
	if !res.Changed {
		return outcome{}
	}
	if !opts.Check {
		if err := WriteFile(fs, name, []byte(res.Text)); err != nil {
			return outcome{err: err}
		}
	}
	return outcome{changed: true}
}

// tmpSeq keeps temporary names unique within the process.
var tmpSeq atomic.Int64

// WriteFile replaces name with data by writing a temporary file in the
// same directory and renaming it over the original, so readers never see
// a partial document. The original permission bits are kept. A symbolic
// link is not replaced; WriteFile fails with ErrSymlink instead.
func WriteFile(fs billy.Filesystem, name string, data []byte) error {
	perm := os.FileMode(0644)
	if info, err := fs.Lstat(name); err == nil {
		if info.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("%s: %w", name, ErrSymlink)
		}
		perm = info.Mode().Perm()
	}

	tmpName := path.Join(path.Dir(name),
		fmt.Sprintf(".%s.mdwrap-%d-%d", path.Base(name), os.Getpid(), tmpSeq.Add(1)))
	tmp, err := fs.OpenFile(tmpName, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		fs.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		fs.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := fs.Rename(tmpName, name); err != nil {
		fs.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
