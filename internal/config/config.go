// Package config resolves mdwrap settings from flags, the environment, an
// optional .mdwrap.yaml file and built-in defaults, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultMaxWidth is the visible width used when nothing else is set.
	DefaultMaxWidth = 120

	// FileName is the optional per-project config file.
	FileName = ".mdwrap.yaml"

	EnvMaxWidth = "MDWRAP_MAX_VISIBLE_WIDTH"
	EnvJobs     = "MDWRAP_JOBS"
)

var (
	ErrNegativeWidth = errors.New("max visible width must be >= 0")
	ErrInvalidWidth  = errors.New("invalid max visible width")
	ErrInvalidJobs   = errors.New("jobs must be >= 1")
)

// Source records where a setting came from.
type Source string

const (
	SourceDefault Source = "default"
	SourceFile    Source = "file"
	SourceEnv     Source = "env"
	SourceFlag    Source = "flag"
)

// Config is the resolved configuration for one run.
type Config struct {
	MaxWidth    int      `yaml:"max_visible_width" json:"max_visible_width"`
	Roots       []string `yaml:"roots" json:"roots"`
	Extensions  []string `yaml:"extensions" json:"extensions"`
	ExcludeDirs []string `yaml:"exclude_dirs" json:"exclude_dirs"`
	Gitignore   bool     `yaml:"gitignore" json:"gitignore"`
	Jobs        int      `yaml:"jobs" json:"jobs"`

	// Sources maps each key above to where its value came from.
	Sources map[string]Source `yaml:"-" json:"sources"`
}

// Keys lists the configuration keys in display order.
var Keys = []string{"max_visible_width", "roots", "extensions", "exclude_dirs", "gitignore", "jobs"}

// Default returns the built-in configuration.
func Default() Config {
	c := Config{
		MaxWidth:    DefaultMaxWidth,
		Roots:       []string{"."},
		Extensions:  []string{".mdx"},
		ExcludeDirs: []string{".git", ".mintlify", "node_modules"},
		Gitignore:   true,
		Jobs:        runtime.GOMAXPROCS(0),
		Sources:     make(map[string]Source, len(Keys)),
	}
	for _, k := range Keys {
		c.Sources[k] = SourceDefault
	}
	return c
}

// Overrides holds values given explicitly on the command line. Nil or
// empty fields are not set.
type Overrides struct {
	MaxWidth   *int
	Roots      []string
	Extensions []string
	Gitignore  *bool
	Jobs       *int
}

// fileConfig mirrors Config with pointers so absent keys can be told apart
// from zero values.
type fileConfig struct {
	MaxWidth    *int     `yaml:"max_visible_width"`
	Roots       []string `yaml:"roots"`
	Extensions  []string `yaml:"extensions"`
	ExcludeDirs []string `yaml:"exclude_dirs"`
	Gitignore   *bool    `yaml:"gitignore"`
	Jobs        *int     `yaml:"jobs"`
}

// LookupEnv matches the signature of os.LookupEnv.
type LookupEnv func(key string) (string, bool)

// Resolve builds the configuration for a run started in dir. The lookup
// function is usually os.LookupEnv.
func Resolve(dir string, env LookupEnv, o Overrides) (Config, error) {
	c := Default()

	fc, err := readFile(filepath.Join(dir, FileName))
	if err != nil {
		return Config{}, err
	}
	if fc != nil {
		c.applyFile(fc)
	}

	if env != nil {
		if v, ok := env(EnvMaxWidth); ok && strings.TrimSpace(v) != "" {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return Config{}, fmt.Errorf("%w: %s=%q", ErrInvalidWidth, EnvMaxWidth, v)
			}
			c.set("max_visible_width", SourceEnv)
			c.MaxWidth = n
		}
		if v, ok := env(EnvJobs); ok && strings.TrimSpace(v) != "" {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return Config{}, fmt.Errorf("%w: %s=%q", ErrInvalidJobs, EnvJobs, v)
			}
			c.set("jobs", SourceEnv)
			c.Jobs = n
		}
	}

	if o.MaxWidth != nil {
		c.MaxWidth = *o.MaxWidth
		c.set("max_visible_width", SourceFlag)
	}
	if len(o.Roots) > 0 {
		c.Roots = o.Roots
		c.set("roots", SourceFlag)
	}
	if len(o.Extensions) > 0 {
		c.Extensions = normalizeExtensions(o.Extensions)
		c.set("extensions", SourceFlag)
	}
	if o.Gitignore != nil {
		c.Gitignore = *o.Gitignore
		c.set("gitignore", SourceFlag)
	}
	if o.Jobs != nil {
		c.Jobs = *o.Jobs
		c.set("jobs", SourceFlag)
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks the invariants every run relies on.
func (c Config) Validate() error {
	if c.MaxWidth < 0 {
		return fmt.Errorf("%w (got %d)", ErrNegativeWidth, c.MaxWidth)
	}
	if c.Jobs < 1 {
		return fmt.Errorf("%w (got %d)", ErrInvalidJobs, c.Jobs)
	}
	return nil
}

// Value returns the display form of a key, e.g. "120" or ".md,.mdx".
func (c Config) Value(key string) (string, bool) {
	switch key {
	case "max_visible_width":
		return strconv.Itoa(c.MaxWidth), true
	case "roots":
		return strings.Join(c.Roots, ","), true
	case "extensions":
		return strings.Join(c.Extensions, ","), true
	case "exclude_dirs":
		return strings.Join(c.ExcludeDirs, ","), true
	case "gitignore":
		return strconv.FormatBool(c.Gitignore), true
	case "jobs":
		return strconv.Itoa(c.Jobs), true
	}
	return "", false
}

func (c *Config) set(key string, s Source) {
	c.Sources[key] = s
}

func (c *Config) applyFile(fc *fileConfig) {
	if fc.MaxWidth != nil {
		c.MaxWidth = *fc.MaxWidth
		c.set("max_visible_width", SourceFile)
	}
	if len(fc.Roots) > 0 {
		c.Roots = fc.Roots
		c.set("roots", SourceFile)
	}
	if len(fc.Extensions) > 0 {
		c.Extensions = normalizeExtensions(fc.Extensions)
		c.set("extensions", SourceFile)
	}
	if len(fc.ExcludeDirs) > 0 {
		c.ExcludeDirs = fc.ExcludeDirs
		c.set("exclude_dirs", SourceFile)
	}
	if fc.Gitignore != nil {
		c.Gitignore = *fc.Gitignore
		c.set("gitignore", SourceFile)
	}
	if fc.Jobs != nil {
		c.Jobs = *fc.Jobs
		c.set("jobs", SourceFile)
	}
}

// readFile returns nil, nil when the file does not exist.
func readFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &fc, nil
}

// normalizeExtensions lowercases extensions and adds the leading dot.
func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}
