// Package input contains identifiers used in getting prompt text from the CLI
// or other sources of input.
package input

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// DefaultPrompt is the prompt shown by an InteractiveReader until it is
// changed with SetPrompt.
const DefaultPrompt = "> "

// Reader is a type that can be used for getting prompt input.
type Reader interface {
	// ReadPrompt reads a single line of user input. It will block until one
	// is ready. If there is an error or input is at end (EOF), the returned
	// string will be empty, otherwise it will always be non-empty unless
	// blanks are allowed.
	//
	// When error is io.EOF, string will always be empty. If EOF was
	// encountered on a call but some input was received, the input will be
	// returned and error will be nil, and the next call to ReadPrompt will
	// return "", io.EOF.
	ReadPrompt() (string, error)

	// Close performs any operations required to clean the resources created by
	// the Reader. It should be called at least once when the Reader is no
	// longer needed.
	Close() error
}

// NameLister gives the names that an InteractiveReader offers as completions
// for the first word of a line. It is called on every completion so that
// commands registered after the reader was created are offered too.
type NameLister func() []string

// DirectReader implements Reader and reads prompts from any generic input
// stream directly. It can be used generically with any io.Reader but does not
// sanitize the input of control and escape sequences.
//
// DirectReader should not be used directly; instead, create one with
// [NewDirectReader].
type DirectReader struct {
	r             *bufio.Reader
	blanksAllowed bool
}

// InteractiveReader implements Reader and reads prompts from stdin using a go
// implementation of the GNU Readline library. This keeps input clear of all
// typing and editing escape sequences and enables the use of history and tab
// completion of command names. This should in general probably only be used
// when directly connecting to a TTY for input.
//
// InteractiveReader should not be used directly; instead, create one with
// [NewInteractiveReader].
type InteractiveReader struct {
	rl            *readline.Instance
	blanksAllowed bool
	prompt        string
}

// NewDirectReader creates a new DirectReader and initializes a buffered reader
// on the provided reader.
func NewDirectReader(r io.Reader) *DirectReader {
	return &DirectReader{
		r: bufio.NewReader(r),
	}
}

// NewInteractiveReader creates a new InteractiveReader and initializes
// readline. names is used for completing the command name at the start of a
// line and may be nil to disable completion. If historyFile is not empty,
// entered lines are saved to and loaded from it. The returned
// InteractiveReader must have Close() called on it before disposal to properly
// teardown readline resources.
func NewInteractiveReader(names NameLister, historyFile string) (*InteractiveReader, error) {
	cfg := &readline.Config{
		Prompt:          DefaultPrompt,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	}
	if names != nil {
		cfg.AutoComplete = commandCompleter{names: names}
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}

	return &InteractiveReader{
		rl:     rl,
		prompt: DefaultPrompt,
	}, nil
}

// Close cleans up resources associated with the DirectReader.
func (dr *DirectReader) Close() error {
	// DirectReader does not create resources, but callers should treat it as
	// though it must have Close called on it.
	return nil
}

// Close cleans up readline resources and other resources associated with the
// InteractiveReader.
func (ir *InteractiveReader) Close() error {
	return ir.rl.Close()
}

// ReadPrompt reads the next line from the underlying reader. The returned
// string will only be empty if there is an error reading input or blanks are
// allowed, otherwise this function is blocked on until a line containing
// non-space characters is read.
//
// If at end of input, the returned string will be empty and error will be
// io.EOF. If any other error occurs, the returned string will be empty and
// error will be that error.
func (dr *DirectReader) ReadPrompt() (string, error) {
	var line string
	var err error

	for line == "" {
		line, err = dr.r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}

		line = strings.TrimSpace(line)

		if line == "" && dr.blanksAllowed {
			return line, nil
		}
	}

	return line, nil
}

// ReadPrompt reads the next line from stdin. The returned string will only be
// empty if there is an error or blanks are allowed, otherwise this function is
// blocked on until a line consisting of more than empty or whitespace-only
// input is read.
//
// An interrupt (Ctrl-C) on an empty line is reported as io.EOF. An interrupt
// with text on the line discards the text and keeps reading.
func (ir *InteractiveReader) ReadPrompt() (string, error) {
	var line string
	var err error

	for line == "" {
		line, err = ir.rl.Readline()
		if err == readline.ErrInterrupt {
			if line == "" {
				return "", io.EOF
			}
			line = ""
			continue
		}
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}

		line = strings.TrimSpace(line)

		if line == "" && ir.blanksAllowed {
			return line, nil
		}
	}

	return line, nil
}

// AllowBlank sets whether blank input is returned. By default it is not.
func (dr *DirectReader) AllowBlank(allow bool) {
	dr.blanksAllowed = allow
}

// AllowBlank sets whether blank input is returned. By default it is not.
func (ir *InteractiveReader) AllowBlank(allow bool) {
	ir.blanksAllowed = allow
}

// SetPrompt updates the prompt to the given text.
func (ir *InteractiveReader) SetPrompt(p string) {
	ir.prompt = p
	ir.rl.SetPrompt(p)
}

// GetPrompt gets the current prompt.
func (ir *InteractiveReader) GetPrompt() string {
	return ir.prompt
}
