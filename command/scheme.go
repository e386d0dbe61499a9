package command

import (
	"strings"
	"unicode"

	"github.com/dekarrin/tunacon/dynamic"
	"github.com/dekarrin/tunacon/internal/scan"
)

// Compile parses a scheme into a Command that carries the given executor.
// Compilation stops at the first problem, which is returned as a
// *SyntaxError.
//
// A scheme is a command name, optionally followed by ':', then any number of
// positional arguments, then an optional block of keyword arguments in
// braces:
//
//	name[:] arg* [{ arg* }]
//
// Each argument is written as name:type followed by any modifiers. The type is
// one of num, int, str, @ (selector), or enum; an enum type is followed
// directly by either an inline set such as [a|b|c] or a reference to a named
// enumeration such as $colors, and the enum keyword itself may be left out
// before an inline set. The modifier =value makes the argument optional with
// the given default, and ~value gives a numeric argument an origin for
// relative values, either a number or the name of a variable.
func Compile(scheme string, executor any) (Command, error) {
	p := newParser(schemeSource, scheme)

	cmd := Command{
		Kwargs:   map[string]Argument{},
		Executor: executor,
	}

	cmd.Name = p.commandName()
	if cmd.Name == "" {
		if c := p.s.PeekNoSkip(); c != scan.EOF {
			return Command{}, p.s.Errorf("invalid character %q in command name", c)
		}
		return Command{}, p.s.Errorf("command name expected")
	}
	if p.s.PeekNoSkip() == ':' {
		p.s.Next()
	} else if !p.atWordEnd() && p.s.PeekNoSkip() != '{' {
		return Command{}, p.s.Errorf("invalid character %q in command name", p.s.PeekNoSkip())
	}

	for {
		c := p.s.Peek()
		if c == scan.EOF {
			break
		}

		if c == '{' {
			p.s.Next()
			if err := p.keywordBlock(&cmd); err != nil {
				return Command{}, err
			}
			if p.s.Peek() != scan.EOF {
				return Command{}, p.s.Errorf("keyword block must be the last part of a scheme")
			}
			break
		}

		argPos := p.s.Pos()
		arg, err := p.argument()
		if err != nil {
			return Command{}, err
		}
		if cmd.ArgIndex(arg.Name) != -1 {
			return Command{}, p.s.ErrorAt(argPos, "duplicate argument %q", arg.Name)
		}
		cmd.Args = append(cmd.Args, arg)
	}

	return cmd, nil
}

// keywordBlock parses keyword arguments up to and including the closing brace.
// The opening brace must already be consumed.
func (p *parser) keywordBlock(cmd *Command) error {
	for {
		c := p.s.Peek()
		if c == '}' {
			p.s.Next()
			return nil
		}
		if c == scan.EOF {
			return p.s.Errorf("'}' expected")
		}

		argPos := p.s.Pos()
		arg, err := p.argument()
		if err != nil {
			return err
		}
		if _, exists := cmd.Kwargs[arg.Name]; exists {
			return p.s.ErrorAt(argPos, "duplicate keyword argument %q", arg.Name)
		}
		cmd.Kwargs[arg.Name] = arg
	}
}

// argument parses a single argument declaration.
func (p *parser) argument() (Argument, error) {
	var arg Argument

	c := p.s.Peek()
	switch {
	case c == '"' || c == '\'':
		p.s.Next()
		name, err := p.s.String(c)
		if err != nil {
			return arg, err
		}
		if name == "" {
			return arg, p.s.Errorf("argument name cannot be empty")
		}
		arg.Name = name
	case isIdentStart(c):
		arg.Name = p.s.Take(isIdentPart)
	default:
		return arg, p.s.Errorf("invalid character %q, argument name expected", c)
	}

	if p.s.PeekNoSkip() != ':' {
		return arg, p.s.Errorf("':' expected after argument name")
	}
	p.s.Next()

	var err error
	arg.Type, err = p.argType()
	if err != nil {
		return arg, err
	}

	if arg.Type == EnumValue {
		arg.Enum, err = p.enumSpec()
		if err != nil {
			return arg, err
		}
	}

	for {
		c := p.s.Peek()
		modPos := p.s.Pos()

		if c == '=' {
			p.s.Next()
			p.s.SkipWhitespace()
			valPos := p.s.Pos()
			def, err := p.value()
			if err != nil {
				return arg, err
			}
			arg.Optional = true
			arg.Default = def

			if err := checkDefault(arg); err != nil {
				return arg, p.s.ErrorAt(valPos, "%s", err.Error())
			}
		} else if c == '~' {
			if !arg.Type.IsNumeric() {
				return arg, p.s.Errorf("'~' operator is only allowed for numeric arguments")
			}
			p.s.Next()
			origin, err := p.value()
			if err != nil {
				return arg, err
			}
			switch origin.Kind() {
			case dynamic.Integer, dynamic.Number, dynamic.String, dynamic.None:
				arg.Origin = origin
			default:
				return arg, p.s.ErrorAt(modPos, "origin must be a number or a variable name")
			}
		} else {
			break
		}
	}

	return arg, nil
}

// argType reads the type of an argument. An inline enumeration in type
// position declares an EnumValue without consuming anything.
func (p *parser) argType() (ArgType, error) {
	typePos := p.s.Pos()

	switch p.s.PeekNoSkip() {
	case '[':
		return EnumValue, nil
	case '@':
		p.s.Next()
		return Selector, nil
	}

	kw := p.s.Take(unicode.IsLetter)
	if kw == "" {
		if c := p.s.PeekNoSkip(); c != scan.EOF {
			return 0, p.s.Errorf("invalid character %q, argument type expected", c)
		}
		return 0, p.s.Errorf("argument type expected")
	}

	at, ok := ParseArgType(kw)
	if !ok {
		return 0, p.s.ErrorAt(typePos, "unknown argument type %q", kw)
	}
	return at, nil
}

// enumSpec reads either an inline set or a $name reference directly at the
// cursor. Inline sets are returned in the form "|a|b|c|" and references as
// the bare name.
func (p *parser) enumSpec() (string, error) {
	switch p.s.PeekNoSkip() {
	case '$':
		p.s.Next()
		name := p.s.Take(isIdentPart)
		if name == "" {
			return "", p.s.Errorf("enumeration name expected after '$'")
		}
		return name, nil
	case '[':
		p.s.Next()
	default:
		return "", p.s.Errorf("'[' or '$' expected for enumeration")
	}

	if p.s.PeekNoSkip() == ']' {
		return "", p.s.Errorf("empty enumeration is not allowed")
	}

	var sb strings.Builder
	sb.WriteRune('|')

	memberLen := 0
	for {
		c := p.s.PeekNoSkip()
		switch {
		case c == scan.EOF:
			return "", p.s.Errorf("']' expected")
		case scan.IsSpace(c):
			return "", p.s.Errorf("use '|' as separator, not a space")
		case c == '|' || c == ']':
			if memberLen == 0 {
				return "", p.s.Errorf("empty enumeration value")
			}
			p.s.Next()
			sb.WriteRune('|')
			memberLen = 0
			if c == ']' {
				return sb.String(), nil
			}
		default:
			p.s.Next()
			sb.WriteRune(c)
			memberLen++
		}
	}
}
