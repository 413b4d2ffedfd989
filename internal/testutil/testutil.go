// Package testutil provides in-memory filesystem fixtures for tests.
package testutil

import (
	"sort"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
)

// NewFS returns an in-memory filesystem holding files, keyed by
// slash-separated path.
func NewFS(t *testing.T, files map[string]string) billy.Filesystem {
	t.Helper()
	fs := memfs.New()
	for name, body := range files {
		WriteFile(t, fs, name, body)
	}
	return fs
}

// WriteFile writes body to name, creating parent directories.
func WriteFile(t *testing.T, fs billy.Filesystem, name, body string) {
	t.Helper()
	if err := util.WriteFile(fs, name, []byte(body), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

// ReadFile returns the contents of name, failing the test if it is missing.
func ReadFile(t *testing.T, fs billy.Filesystem, name string) string {
	t.Helper()
	data, err := util.ReadFile(fs, name)
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return string(data)
}

// ListFiles returns every regular file in fs, sorted.
func ListFiles(t *testing.T, fs billy.Filesystem) []string {
	t.Helper()
	var names []string
	var walk func(dir string)
	walk = func(dir string) {
		infos, err := fs.ReadDir(dir)
		if err != nil {
			t.Fatalf("readdir %s: %v", dir, err)
		}
		for _, fi := range infos {
			p := fi.Name()
			if dir != "" {
				p = dir + "/" + fi.Name()
			}
			if fi.IsDir() {
				walk(p)
				continue
			}
			names = append(names, p)
		}
	}
	walk("")
	sort.Strings(names)
	return names
}
