package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestCommandMapContainsAllCommands(t *testing.T) {
	for _, name := range []string{"format", "check", "stdin", "config"} {
		if _, ok := commandMap[name]; !ok {
			t.Errorf("commandMap missing command %q", name)
		}
	}
}

func TestCommandsAreComplete(t *testing.T) {
	for _, cmd := range commands {
		if cmd.Run == nil {
			t.Errorf("command %q has nil Run", cmd.Name)
		}
		if cmd.Summary == "" {
			t.Errorf("command %q has empty Summary", cmd.Name)
		}
	}
}

func TestCommandFlagsAreUnique(t *testing.T) {
	for _, cmd := range commands {
		seen := map[string]bool{}
		for _, f := range cmd.Flags {
			for _, name := range []string{f.Long, f.Short} {
				if name == "" {
					continue
				}
				if seen[name] {
					t.Errorf("command %q declares %s twice", cmd.Name, name)
				}
				seen[name] = true
			}
		}
	}
}

func TestPrintUsageContainsAllCommands(t *testing.T) {
	var buf bytes.Buffer
	printUsage(PlainWriter(&buf))
	out := buf.String()

	for _, cmd := range commands {
		if !strings.Contains(out, cmd.Name) {
			t.Errorf("printUsage output missing command %q", cmd.Name)
		}
		if !strings.Contains(out, cmd.Summary) {
			t.Errorf("printUsage output missing summary for %q: %q", cmd.Name, cmd.Summary)
		}
	}
}

func TestPrintCommandHelpLayout(t *testing.T) {
	var buf bytes.Buffer
	printCommandHelp(PlainWriter(&buf), commandMap["format"])
	out := buf.String()

	order := []string{"Usage:", "Arguments:", "Flags:", "Examples:"}
	last := -1
	for _, section := range order {
		idx := strings.Index(out, section)
		if idx < 0 {
			t.Fatalf("help missing %q:\n%s", section, out)
		}
		if idx < last {
			t.Errorf("%q appears out of order", section)
		}
		last = idx
	}
	if !strings.Contains(out, "-w, --max-visible-width N") {
		t.Errorf("help missing short flag form:\n%s", out)
	}
}

func TestPrintCommandHelpWrapsDescription(t *testing.T) {
	var buf bytes.Buffer
	printCommandHelp(ColorWriter(&buf, 40), commandMap["format"])
	desc, _, _ := strings.Cut(buf.String(), "\n\n")
	for _, line := range strings.Split(desc, "\n") {
		if len(line) > 40 {
			t.Errorf("description line exceeds width: %d chars: %q", len(line), line)
		}
	}
}

func TestExecRejectsUnexpectedArgument(t *testing.T) {
	err := commandMap["config"].Exec([]string{"extra"}, PlainWriter(&bytes.Buffer{}))
	if exitCode(err) != 2 {
		t.Errorf("exitCode = %d, want 2 (err %v)", exitCode(err), err)
	}
}

func TestExecUnknownFlag(t *testing.T) {
	err := commandMap["check"].Exec([]string{"--frobnicate"}, PlainWriter(&bytes.Buffer{}))
	if exitCode(err) != 2 || !strings.Contains(err.Error(), "--frobnicate") {
		t.Errorf("err = %v, want usage error naming the flag", err)
	}
}

func TestRunVersion(t *testing.T) {
	var buf bytes.Buffer
	if err := run([]string{"--version"}, PlainWriter(&buf)); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "mdwrap "+version+"\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestRunCommandHelp(t *testing.T) {
	var buf bytes.Buffer
	if err := run([]string{"stdin", "--help"}, PlainWriter(&buf)); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "mdwrap stdin [flags]") {
		t.Errorf("help output:\n%s", buf.String())
	}
}

func TestRunDefaultsToFormat(t *testing.T) {
	t.Chdir(t.TempDir())
	err := run([]string{"missing-dir"}, PlainWriter(&bytes.Buffer{}))
	var ee *exitError
	if !errors.As(err, &ee) || ee.code != 2 {
		t.Errorf("err = %v, want root-not-found usage error", err)
	}
}
