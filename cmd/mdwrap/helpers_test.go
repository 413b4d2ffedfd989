package main

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseArgsSeparatesKinds(t *testing.T) {
	a, err := ParseArgs(
		[]string{"docs", "--jobs", "4", "--check", "api", "--ext=.md"},
		[]string{"--jobs", "--ext"},
		[]string{"--check"},
	)
	if err != nil {
		t.Fatal(err)
	}
	if !a.Bool("--check") {
		t.Error("expected --check")
	}
	if a.String("--jobs") != "4" {
		t.Errorf("--jobs = %q, want 4", a.String("--jobs"))
	}
	if a.String("--ext") != ".md" {
		t.Errorf("--ext = %q, want .md", a.String("--ext"))
	}
	if diff := cmp.Diff([]string{"docs", "api"}, a.Pos()); diff != "" {
		t.Errorf("Pos mismatch (-want +got):\n%s", diff)
	}
}

func TestParseArgsRepeatedValueFlag(t *testing.T) {
	a, err := ParseArgs([]string{"--root", "a", "--root", "b"}, []string{"--root"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, a.Strings("--root")); diff != "" {
		t.Errorf("Strings mismatch (-want +got):\n%s", diff)
	}
	if a.String("--root") != "b" {
		t.Errorf("String = %q, want last value", a.String("--root"))
	}
}

func TestParseArgsErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
	}{
		{"unknown flag", []string{"--nope"}},
		{"missing value", []string{"--jobs"}},
		{"value on bool", []string{"--check=yes"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseArgs(tt.raw, []string{"--jobs"}, []string{"--check"}); err == nil {
				t.Errorf("ParseArgs(%q) succeeded, want error", tt.raw)
			}
		})
	}
}

func TestArgsIntErr(t *testing.T) {
	a, _ := ParseArgs([]string{"--jobs", "3", "--max-visible-width", "wide"}, []string{"--jobs", "--max-visible-width"}, nil)

	n, ok, err := a.IntErr("--jobs")
	if n != 3 || !ok || err != nil {
		t.Errorf("IntErr(--jobs) = %d, %v, %v", n, ok, err)
	}
	if _, ok, err := a.IntErr("--max-visible-width"); !ok || err == nil {
		t.Errorf("IntErr(--max-visible-width) = %v, %v; want set with error", ok, err)
	}
	if _, ok, err := a.IntErr("--missing"); ok || err != nil {
		t.Errorf("IntErr(--missing) = %v, %v; want unset", ok, err)
	}
}

func TestExpandAliases(t *testing.T) {
	got := expandAliases([]string{"-w", "80", "-j", "2", "-x"}, selectionFlags)
	want := []string{"--max-visible-width", "80", "--jobs", "2", "-x"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("expandAliases mismatch (-want +got):\n%s", diff)
	}
}

func TestSplitList(t *testing.T) {
	got := splitList([]string{".md, .mdx", "", ",txt"})
	if diff := cmp.Diff([]string{".md", ".mdx", "txt"}, got); diff != "" {
		t.Errorf("splitList mismatch (-want +got):\n%s", diff)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{errors.New("boom"), 1},
		{&exitError{code: 1}, 1},
		{usageErr(errors.New("bad flag")), 2},
	}
	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestExitErrorMessage(t *testing.T) {
	if got := usageErr(errors.New("bad flag")).Error(); got != "bad flag" {
		t.Errorf("Error() = %q", got)
	}
	if got := (&exitError{code: 1}).Error(); got != "exit status 1" {
		t.Errorf("Error() = %q", got)
	}
}
