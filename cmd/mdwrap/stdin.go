package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jallum/mdwrap/internal/document"
)

// stdin is read by the stdin command; tests replace it.
var stdin io.Reader = os.Stdin

func cmdStdin(a Args, w Writer) error {
	cfg, err := resolveConfig(a)
	if err != nil {
		return err
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	res, err := document.Format(string(data), document.Options{MaxWidth: cfg.MaxWidth})
	if err != nil {
		return err
	}
	if a.Bool("--check") {
		if res.Changed {
			return &exitError{code: 1}
		}
		return nil
	}
	_, err = io.WriteString(w, res.Text)
	return err
}
