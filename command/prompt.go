package command

import (
	"strings"

	"github.com/dekarrin/tunacon/dynamic"
)

// Prompt is the result of parsing one line of user input against a Command.
type Prompt struct {
	// Command is the Command that was invoked. It is owned by the Repository
	// it came from.
	Command *Command

	// Args holds one value per positional argument of Command, in order.
	// Optional arguments that were not given hold their default.
	Args *dynamic.ListValue

	// Kwargs holds the keyword arguments that were given, in the order they
	// were given. Keyword arguments that were not given are absent.
	Kwargs *dynamic.MapValue
}

// Executor returns the executor of the invoked Command.
func (p Prompt) Executor() any {
	if p.Command == nil {
		return nil
	}
	return p.Command.Executor
}

// Arg returns the value bound to the argument with the given name. A keyword
// argument that was given takes precedence over a positional argument of the
// same name. A keyword argument that was not given is its default. The second
// return value is false only if the Command declares no argument with that
// name.
func (p Prompt) Arg(name string) (dynamic.Value, bool) {
	if p.Command == nil {
		return dynamic.Value{}, false
	}

	if v, ok := p.Kwargs.Get(name); ok {
		return v, true
	}

	if idx := p.Command.ArgIndex(name); idx >= 0 {
		if v, ok := p.Args.Get(idx); ok {
			return v, true
		}
		return p.Command.Args[idx].Default, true
	}

	if kw, ok := p.Command.Keyword(name); ok {
		return kw.Default, true
	}

	return dynamic.Value{}, false
}

// String returns the Prompt as a line that parses back to the same Prompt,
// with every positional value written out and keyword values in the order
// they were given.
func (p Prompt) String() string {
	if p.Command == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(p.Command.Name)
	for _, v := range p.Args.Items() {
		sb.WriteRune(' ')
		sb.WriteString(Literal(v))
	}
	for _, k := range p.Kwargs.Keys() {
		v, _ := p.Kwargs.Get(k)
		sb.WriteRune(' ')
		sb.WriteString(schemeName(k))
		sb.WriteRune('=')
		sb.WriteString(Literal(v))
	}
	return sb.String()
}
