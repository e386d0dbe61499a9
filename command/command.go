// Package command compiles command schemes into Commands and parses prompt
// text entered by a user against them.
//
// A scheme is a compact signature such as:
//
//	tp: player:@ x:num y:num z:num ~0 {mode:enum[relative|absolute]=absolute}
//
// which declares a command named "tp" with four positional arguments and one
// keyword argument. Once compiled and stored in a Repository, an Interpreter
// parses a line like "tp 12 1.5 ~2 0 mode=relative" into a Prompt holding the
// bound values, ready to be handed to whatever executes the command.
package command

import (
	"strconv"
	"strings"

	"github.com/dekarrin/tunacon/dynamic"
	"github.com/dekarrin/tunacon/internal/util"
)

// Argument is a single slot in the signature of a Command.
type Argument struct {
	// Name is the name of the argument. It is unique within the positional
	// arguments of its Command, and separately unique within the keyword
	// arguments.
	Name string

	// Type is the declared type of the argument.
	Type ArgType

	// Optional is whether the argument may be omitted.
	Optional bool

	// Default is the value used when an optional argument is not given. It is
	// None for mandatory arguments.
	Default dynamic.Value

	// Origin is what a relative value for the argument is applied to. It is
	// None if the argument does not accept relative values, a numeric
	// constant, or a String naming a variable that is resolved at parse time.
	Origin dynamic.Value

	// Enum is the enumeration of allowed values. It is empty unless Type is
	// EnumValue, in which case it is either an inline set stored as "|a|b|c|"
	// or the bare name of an enumeration defined on the Interpreter.
	Enum string
}

// Relative returns whether the argument accepts relative values.
func (arg Argument) Relative() bool {
	return !arg.Origin.IsNone()
}

// NamedEnum returns whether the argument's enumeration refers to an
// enumeration defined elsewhere rather than an inline set.
func (arg Argument) NamedEnum() bool {
	return arg.Type == EnumValue && !strings.HasPrefix(arg.Enum, "|")
}

// EnumValues returns the members of an inline enumeration in declared order.
// Returns nil for named enumerations and non-enum arguments.
func (arg Argument) EnumValues() []string {
	if arg.Type != EnumValue || arg.NamedEnum() {
		return nil
	}
	return splitEnum(arg.Enum)
}

// Scheme returns the argument as it would be written in a scheme.
func (arg Argument) Scheme() string {
	var sb strings.Builder

	sb.WriteString(schemeName(arg.Name))
	sb.WriteRune(':')
	sb.WriteString(arg.Type.Keyword())
	if arg.Type == EnumValue {
		if arg.NamedEnum() {
			sb.WriteString("$" + arg.Enum)
		} else {
			sb.WriteString("[" + strings.Join(arg.EnumValues(), "|") + "]")
		}
	}
	if arg.Optional {
		sb.WriteRune('=')
		sb.WriteString(Literal(arg.Default))
	}
	if arg.Relative() {
		sb.WriteString(" ~")
		sb.WriteString(Literal(arg.Origin))
	}

	return sb.String()
}

// Command is a compiled scheme.
type Command struct {
	// Name is the name that the command is invoked with. It may contain ':'
	// to separate a category prefix, as in "world:tp".
	Name string

	// Args is the positional arguments in the order they are bound.
	Args []Argument

	// Kwargs is the keyword arguments by name.
	Kwargs map[string]Argument

	// Executor is the handle given when the command was compiled. It is
	// returned unchanged in every Prompt for the command and is not otherwise
	// used.
	Executor any
}

// Arg returns the positional argument at index i.
func (cmd *Command) Arg(i int) (*Argument, bool) {
	if i < 0 || i >= len(cmd.Args) {
		return nil, false
	}
	return &cmd.Args[i], true
}

// ArgIndex returns the index of the positional argument with the given name,
// or -1 if there is none.
func (cmd *Command) ArgIndex(name string) int {
	for i := range cmd.Args {
		if cmd.Args[i].Name == name {
			return i
		}
	}
	return -1
}

// Keyword returns the keyword argument with the given name.
func (cmd *Command) Keyword(name string) (*Argument, bool) {
	arg, ok := cmd.Kwargs[name]
	if !ok {
		return nil, false
	}
	return &arg, true
}

// KeywordNames returns the names of all keyword arguments in sorted order.
func (cmd *Command) KeywordNames() []string {
	return util.OrderedKeys(cmd.Kwargs)
}

// Usage returns the scheme that the Command was compiled from, normalized. It
// compiles back to an identical Command.
func (cmd *Command) Usage() string {
	var sb strings.Builder
	sb.WriteString(cmd.Name)

	for _, arg := range cmd.Args {
		sb.WriteRune(' ')
		sb.WriteString(arg.Scheme())
	}

	if len(cmd.Kwargs) > 0 {
		sb.WriteString(" {")
		for i, name := range cmd.KeywordNames() {
			if i > 0 {
				sb.WriteRune(' ')
			}
			sb.WriteString(cmd.Kwargs[name].Scheme())
		}
		sb.WriteRune('}')
	}

	return sb.String()
}

// Literal returns v written as a literal that parses back to v. Strings are
// left bare where they would read as a word and quoted otherwise.
func Literal(v dynamic.Value) string {
	switch v.Kind() {
	case dynamic.String:
		s, _ := v.AsString()
		if isBareWord(s) && !isKeywordLiteral(s) {
			return s
		}
		return strconv.Quote(s)
	case dynamic.Number:
		s := v.String()
		// inf and nan are only numbers when signed
		if !strings.HasPrefix(s, "-") && !isDecimalDigit(rune(s[0])) {
			s = "+" + s
		}
		return s
	case dynamic.List, dynamic.Map:
		// not expressible as a literal; the quoted display form is the closest
		return strconv.Quote(v.String())
	default:
		return v.String()
	}
}

func schemeName(name string) string {
	if isBareWord(name) {
		return name
	}
	return strconv.Quote(name)
}

func isBareWord(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 && !isIdentStart(r) {
			return false
		}
		if !isIdentPart(r) {
			return false
		}
	}
	return true
}

func isKeywordLiteral(s string) bool {
	switch s {
	case "true", "false", "none", "nil", "null":
		return true
	}
	return false
}

func splitEnum(spec string) []string {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(spec, "|"), "|")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "|")
}
