// Package tunacon contains a CLI-driven engine for reading prompts from an
// operator and running them against a console of commands until the operator
// quits.
package tunacon

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dekarrin/rosed"
	"github.com/dekarrin/tunacon/command"
	"github.com/dekarrin/tunacon/internal/builtin"
	"github.com/dekarrin/tunacon/internal/input"
	"github.com/dekarrin/tunacon/internal/tcerrors"
	"golang.org/x/text/unicode/norm"
)

// Engine contains the things needed to run a console from an interactive shell
// attached to an input stream and an output stream.
type Engine struct {
	env         *builtin.Env
	in          input.Reader
	out         *bufio.Writer
	forceDirect bool
	running     bool
}

const consoleOutputWidth = 80

// New creates a new engine ready to operate on the given input and output
// streams. It will immediately open a buffered reader on the input stream and a
// buffered writer on the output stream.
//
// If nil is given for the input stream, stdin is used. If nil is given for the
// output stream, stdout is used. If defsPath is not empty, the console's
// commands, variables, and enumerations are loaded from the TCD file at that
// path. historyFile is only used in interactive mode and may be empty to not
// keep history between sessions.
func New(inputStream io.Reader, outputStream io.Writer, defsPath string, forceDirectInput bool, historyFile string) (*Engine, error) {
	if inputStream == nil {
		inputStream = os.Stdin
	}
	if outputStream == nil {
		outputStream = os.Stdout
	}

	env, err := builtin.NewConsole(defsPath)
	if err != nil {
		return nil, err
	}
	env.Width = consoleOutputWidth

	eng := &Engine{
		env:         env,
		out:         bufio.NewWriter(outputStream),
		forceDirect: forceDirectInput,
	}

	useReadline := !forceDirectInput && inputStream == os.Stdin && outputStream == os.Stdout

	if useReadline {
		eng.in, err = input.NewInteractiveReader(env.Interp.Repository().Names, historyFile)
		if err != nil {
			return nil, fmt.Errorf("initializing interactive-mode input reader: %w", err)
		}
	} else {
		eng.in = input.NewDirectReader(inputStream)
	}

	return eng, nil
}

// Interpreter returns the Interpreter that prompts are parsed with. Commands
// registered on it can be run from the console.
func (eng *Engine) Interpreter() *command.Interpreter {
	return eng.env.Interp
}

// Close closes all resources associated with the Engine, including any
// readline-related resources created for interactive mode.
func (eng *Engine) Close() error {
	if eng.running {
		return fmt.Errorf("cannot close a running engine")
	}

	err := eng.in.Close()
	if err != nil {
		return fmt.Errorf("close prompt reader: %w", err)
	}

	return nil
}

// Execute parses text as a prompt and runs the action of its command. The
// returned error is builtin.ErrQuit if the prompt asks to quit.
func (eng *Engine) Execute(text string) (string, error) {
	p, err := eng.env.Interp.Parse(norm.NFC.String(text))
	if err != nil {
		return "", err
	}

	return builtin.Run(eng.env, p)
}

// RunUntilQuit begins reading prompts from the streams and running them until
// the quit command is received or input ends.
func (eng *Engine) RunUntilQuit() error {
	introMsg := "Welcome to TunaCon\n"
	if eng.forceDirect {
		introMsg += "(direct input mode)\n"
	}
	introMsg += "==================\n"
	introMsg += "Enter \"help\" for a list of commands.\n"
	introMsg += "\n"

	if err := eng.write(introMsg); err != nil {
		return err
	}

	eng.running = true
	// so we dont have to remember to do this on every returned error condition
	defer func() {
		eng.running = false
	}()

	for eng.running {
		text, err := eng.in.ReadPrompt()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("get prompt: %w", err)
		}

		output, err := eng.Execute(text)
		if err != nil {
			if errors.Is(err, builtin.ErrQuit) {
				eng.running = false
				break
			}

			if err := eng.write(consoleMessage(err) + "\n"); err != nil {
				return err
			}
			continue
		}

		if output != "" {
			if err := eng.write(output + "\n"); err != nil {
				return err
			}
		}
	}

	return eng.write("Goodbye\n")
}

func (eng *Engine) write(s string) error {
	if _, err := eng.out.WriteString(s); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}
	if err := eng.out.Flush(); err != nil {
		return fmt.Errorf("could not flush output: %w", err)
	}
	return nil
}

// consoleMessage gives the text shown to the operator for err. Syntax errors
// are not wrapped so that the cursor stays under the offending character.
func consoleMessage(err error) string {
	msg := tcerrors.ConsoleMessage(err)

	var synErr *command.SyntaxError
	if errors.As(err, &synErr) {
		return msg
	}
	return rosed.Edit(msg).Wrap(consoleOutputWidth).String()
}
