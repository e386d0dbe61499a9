/*
Tcon starts an interactive TunaCon console session.

It loads the console's commands, variables, and enumerations from a TCD file if
one is given and then reads prompts from stdin, running each one and printing
what it gives to stdout, until the "quit" command is entered or input ends.

Usage:

	tcon [flags]

The flags are:

	-v, --version
		Give the current version of TunaCon and then exit.

	-f, --defs FILE
		Load definitions from the given TCD file. If not given, the file
		"console.tcd" in the current working directory is used if it exists,
		and otherwise the console starts with only the built-in commands.

	-d, --direct
		Force reading directly from the console as opposed to using GNU readline
		based routines for reading prompt input even if launched in a tty with
		stdin and stdout.

	--history FILE
		Save entered prompts to the given file and load them from it at start.
		Only used when reading with readline.

Once a session has started, enter "help" for a list of commands.
*/
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/dekarrin/tunacon"
	"github.com/dekarrin/tunacon/internal/version"
	"github.com/spf13/pflag"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitConsoleError indicates an unsuccessful program execution due to a
	// problem while the console was running.
	ExitConsoleError

	// ExitInitError indicates an unsuccessful program execution due to an issue
	// initializing the engine.
	ExitInitError
)

const defaultDefsFile = "console.tcd"

var (
	returnCode  = ExitSuccess
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of TunaCon and then exit.")
	flagDefs    = pflag.StringP("defs", "f", defaultDefsFile, "The TCD definitions or manifest file to load the console from.")
	flagDirect  = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible.")
	flagHistory = pflag.String("history", "", "Keep prompt history in the given file.")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			// we are panicking, make sure we dont lose the panic just because
			// we checked
			panic(panicErr)
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	defsPath := *flagDefs
	if !pflag.Lookup("defs").Changed {
		if _, err := os.Stat(defsPath); errors.Is(err, fs.ErrNotExist) {
			defsPath = ""
		}
	}

	eng, initErr := tunacon.New(os.Stdin, os.Stdout, defsPath, *flagDirect, *flagHistory)
	if initErr != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", initErr.Error())
		returnCode = ExitInitError
		return
	}
	defer eng.Close()

	err := eng.RunUntilQuit()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitConsoleError
		return
	}
}
