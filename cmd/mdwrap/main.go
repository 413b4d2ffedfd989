package main

import (
	"fmt"
	"os"
)

const version = "0.1.0"

func main() {
	_, noColor := os.LookupEnv("NO_COLOR")
	if err := run(os.Args[1:], TerminalWriter(os.Stdout, noColor)); err != nil {
		fatal(err)
	}
}

// run dispatches args to a command. Without a known command name the
// arguments go to format.
func run(args []string, w Writer) error {
	if len(args) > 0 {
		switch args[0] {
		case "--version", "-v":
			fmt.Fprintln(w, "mdwrap "+version)
			return nil
		case "--help", "-h", "help":
			printUsage(w)
			return nil
		}
	}

	c := commandMap["format"]
	if len(args) > 0 {
		if named, ok := commandMap[args[0]]; ok {
			c = named
			args = args[1:]
		}
	}
	if hasFlag(args, "--help") || hasFlag(args, "-h") {
		printCommandHelp(w, c)
		return nil
	}
	return c.Exec(args, w)
}
