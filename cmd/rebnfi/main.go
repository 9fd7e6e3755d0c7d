/*
Rebnfi starts an interactive session against one REBNF grammar: each line
read is matched against the grammar's start rule and the resulting CST (or
error) is printed, until the "QUIT" command is entered.

Usage:

	rebnfi [flags] GRAMMAR-FILE

The flags are:

	-v, --version
		Give the current version of rebnfi and then exit.

	-s, --start RULE
		Name the start rule. It must be the grammar's first-defined rule;
		any other rule is rejected at startup. Starting from another rule
		is not supported.

	-d, --direct
		Force reading directly from stdin instead of going through GNU
		readline where possible.

	--no-collapse
		Disable tree collapsing (spec §4.7).

	-t, --trace
		Print each parse's report log (spec §7) alongside its result.

Once a session has started, each line of input is parsed against the
grammar's start rule. Type "QUIT" to exit.
*/
package main

import (
	"fmt"
	"os"

	"github.com/dekarrin/rebnf"
	"github.com/dekarrin/rebnf/internal/input"
	"github.com/dekarrin/rebnf/internal/util"
	"github.com/dekarrin/rebnf/internal/version"
	"github.com/google/uuid"
	"github.com/spf13/pflag"
)

const (
	// ExitSuccess indicates a clean session exit.
	ExitSuccess = iota

	// ExitInitError indicates an unsuccessful program execution due to an
	// issue initializing the session (bad grammar, bad start-rule
	// override).
	ExitInitError
)

var (
	returnCode  int     = ExitSuccess
	flagVersion *bool   = pflag.BoolP("version", "v", false, "Gives the version info")
	startRule   *string = pflag.StringP("start", "s", "", "Start rule; must be the grammar's first-defined rule")
	forceDirect *bool   = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline")
	noCollapse  *bool   = pflag.Bool("no-collapse", false, "Disable tree collapsing")
	flagTrace   *bool   = pflag.BoolP("trace", "t", false, "Print each parse's report log alongside its result")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	args := pflag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "ERROR: a grammar file is required")
		returnCode = ExitInitError
		return
	}

	source, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: reading grammar file: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}

	g, err := rebnf.Compile(string(source))
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	if *startRule != "" && *startRule != g.StartRule() {
		fmt.Fprintf(os.Stderr, "ERROR: grammar's start rule is %q, not %q; rules defined are %s\n",
			g.StartRule(), *startRule, util.MakeTextList(g.RuleNames()))
		returnCode = ExitInitError
		return
	}
	g.SetCollapse(!*noCollapse)

	var reader commandReader
	if *forceDirect {
		reader = input.NewDirectReader(os.Stdin)
	} else {
		reader, err = input.NewInteractiveReader()
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: initializing interactive-mode input reader: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
	}
	defer reader.Close()

	runUntilQuit(g, reader, *flagTrace)
}

// commandReader is the subset of input.DirectCommandReader /
// input.InteractiveCommandReader that the REPL loop needs.
type commandReader interface {
	ReadCommand() (string, error)
	AllowBlank(bool)
	Close() error
}

func runUntilQuit(g *rebnf.Grammar, reader commandReader, trace bool) {
	fmt.Printf("rebnf interactive session, start rule %q\n", g.StartRule())
	fmt.Println("type QUIT to exit")

	for {
		line, err := reader.ReadCommand()
		if err != nil {
			// io.EOF or any other read failure both end the session the
			// same way a console hangup would.
			fmt.Println()
			return
		}
		if line == "QUIT" {
			fmt.Println("Goodbye")
			return
		}

		id := uuid.New()

		if trace {
			cst, remaining, log, err := g.ParseTraced(line)
			fmt.Printf("[%s]\n%s\n", id, log.Report())
			reportResult(cst, remaining, err)
		} else {
			cst, remaining, err := g.Parse(line)
			reportResult(cst, remaining, err)
		}
	}
}

func reportResult(cst *rebnf.CSTNode, remaining []rebnf.Token, err error) {
	if err != nil {
		fmt.Printf("ERROR: %s\n", err.Error())
		return
	}
	fmt.Println(cst.String())
	if len(remaining) > 0 {
		fmt.Printf("(%d tokens unconsumed)\n", len(remaining))
	}
}
