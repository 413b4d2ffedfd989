package main

import (
	"bytes"
	"strings"
	"testing"
)

func withStdin(t *testing.T, s string) {
	t.Helper()
	old := stdin
	stdin = strings.NewReader(s)
	t.Cleanup(func() { stdin = old })
}

func TestStdinFormats(t *testing.T) {
	setupDir(t, nil)
	withStdin(t, "# Title\n\n"+longDoc)
	var buf bytes.Buffer
	if err := commandMap["stdin"].Exec([]string{"-w", "10"}, PlainWriter(&buf)); err != nil {
		t.Fatal(err)
	}
	want := "# Title\n\n" + wrappedDoc
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestStdinCheck(t *testing.T) {
	setupDir(t, nil)
	tests := []struct {
		in   string
		code int
	}{
		{longDoc, 1},
		{wrappedDoc, 0},
	}
	for _, tt := range tests {
		withStdin(t, tt.in)
		var buf bytes.Buffer
		err := commandMap["stdin"].Exec([]string{"--check", "-w", "10"}, PlainWriter(&buf))
		if exitCode(err) != tt.code {
			t.Errorf("stdin --check %q: exitCode = %d, want %d", tt.in, exitCode(err), tt.code)
		}
		if buf.Len() != 0 {
			t.Errorf("--check wrote output: %q", buf.String())
		}
	}
}

func TestStdinRejectsRoots(t *testing.T) {
	setupDir(t, nil)
	err := commandMap["stdin"].Exec([]string{"docs"}, PlainWriter(&bytes.Buffer{}))
	if exitCode(err) != 2 {
		t.Errorf("exitCode = %d, want 2", exitCode(err))
	}
}
