/*
Shapescript starts an interactive ShapeScript evaluation session, or
evaluates a single source file given on the command line.

Usage:

	shapescript [flags] [file]

The flags are:

	-v, --version
		Give the current version of the tool and then exit.

	-s, --seed N
		Seed the deterministic PRNG with N. Defaults to the value in
		shapescript.toml, or 1 if no config file is present.

	-c, --config FILE
		Read settings from the given TOML file instead of
		"shapescript.toml" in the current working directory.

If file is given, its contents are parsed and evaluated once, the
resulting scene is summarized, and the program exits. Dialect is chosen
by the file's extension: ".scad" sources are parsed with the secondary
(OpenSCAD-style) grammar, everything else with primary ShapeScript.

Without a file, an interactive REPL is started: each line is parsed and
evaluated as its own primary-dialect program with a fresh evaluation
context, so definitions do not carry over from one line to the next. Type
"quit" to exit.
*/
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/dekarrin/tunaq"
	"github.com/dekarrin/tunaq/internal/direrr"
	"github.com/dekarrin/tunaq/internal/input"
	"github.com/dekarrin/tunaq/internal/version"
	"github.com/dekarrin/tunaq/shapescript/diag"
)

const (
	exitSuccess = iota
	exitEvalError
	exitInitError
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Print version info and exit")
	flagSeed    = pflag.Uint64P("seed", "s", 0, "Seed the deterministic PRNG (0 means use config/default)")
	flagConfig  = pflag.StringP("config", "c", "shapescript.toml", "Path to a shapescript.toml settings file")
)

func main() {
	os.Exit(run())
}

func run() int {
	pflag.Parse()

	if *flagVersion {
		fmt.Println(version.Current)
		return exitSuccess
	}

	cfg, err := loadConfig(*flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: load config: %s\n", err)
		return exitInitError
	}
	seed := cfg.Seed
	if *flagSeed != 0 {
		seed = *flagSeed
	}

	args := pflag.Args()
	if len(args) > 0 {
		return runFile(args[0], seed)
	}
	return runREPL(cfg, seed)
}

func runFile(path string, seed uint64) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		return exitInitError
	}

	prog, err := tunaq.Parse(string(data), path)
	if err != nil {
		printEvalError(err, string(data))
		return exitEvalError
	}

	delegate := newLocalDelegate(path)
	builder := newNullBuilder()
	scene, err := tunaq.Evaluate(prog, delegate, builder, seed, nil)
	if err != nil {
		printEvalError(err, string(data))
		return exitEvalError
	}

	fmt.Printf("scene: %d top-level children\n", len(scene.Children))
	for tag, n := range builder.byTag {
		fmt.Printf("  %s: %d\n", tag, n)
	}
	return exitSuccess
}

func runREPL(cfg config, seed uint64) int {
	reader, err := input.NewInteractiveReader()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: create reader: %s\n", err)
		return exitInitError
	}
	defer reader.Close()
	reader.SetPrompt(cfg.Prompt)

	delegate := newLocalDelegate("repl")
	builder := newNullBuilder()

	for {
		line, err := reader.ReadCommand()
		if err != nil {
			break
		}
		line = strings.TrimSpace(line)
		if line == "quit" || line == "exit" {
			break
		}

		prog, err := tunaq.Parse(line, "repl.shape")
		if err != nil {
			printEvalError(err, line)
			continue
		}
		scene, err := tunaq.Evaluate(prog, delegate, builder, seed, nil)
		if err != nil {
			printEvalError(err, line)
			continue
		}
		if len(scene.Children) > 0 {
			fmt.Printf("=> %d value(s)\n", len(scene.Children))
		}
	}
	return exitSuccess
}

func printEvalError(err error, source string) {
	if de, ok := err.(*diag.Error); ok {
		fmt.Fprintln(os.Stderr, de.Render(source))
		return
	}
	fmt.Fprintf(os.Stderr, "ERROR: %s\n", direrr.UserMessage(err))
}
