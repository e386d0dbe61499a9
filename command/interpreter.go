package command

import (
	"fmt"
	"strings"
	"sync"

	"github.com/dekarrin/tunacon/dynamic"
	"github.com/dekarrin/tunacon/internal/scan"
	"github.com/dekarrin/tunacon/internal/util"
)

// Interpreter parses prompts against the Commands in a Repository. It also
// holds the named enumerations that enum arguments may refer to.
//
// An Interpreter is safe for concurrent use.
type Interpreter struct {
	repo *Repository
	vars Variables

	mtx   sync.RWMutex
	enums map[string]string
}

// NewInterpreter creates an Interpreter that looks up commands in repo and
// resolves relative origins in vars. If repo is nil, a new empty Repository is
// used. vars may be nil, in which case every variable origin resolves to None.
func NewInterpreter(repo *Repository, vars Variables) *Interpreter {
	if repo == nil {
		repo = NewRepository()
	}
	return &Interpreter{
		repo:  repo,
		vars:  vars,
		enums: map[string]string{},
	}
}

// Repository returns the Repository that commands are looked up in.
func (ip *Interpreter) Repository() *Repository {
	return ip.repo
}

// Variables returns the namespace that relative origins are resolved in.
func (ip *Interpreter) Variables() Variables {
	return ip.vars
}

// Register compiles scheme and adds it to the Interpreter's Repository. It
// returns the name of the new Command.
func (ip *Interpreter) Register(scheme string, executor any) (string, error) {
	return ip.repo.Add(scheme, executor)
}

// DefineEnum creates or replaces the named enumeration referred to in schemes
// as $name. Values must be non-empty and must not contain whitespace or '|'.
func (ip *Interpreter) DefineEnum(name string, values []string) error {
	if name == "" || !isBareWord(name) {
		return fmt.Errorf("invalid enumeration name %q", name)
	}
	if len(values) == 0 {
		return fmt.Errorf("enumeration %q: empty enumeration is not allowed", name)
	}

	var sb strings.Builder
	sb.WriteRune('|')
	for _, v := range values {
		if v == "" {
			return fmt.Errorf("enumeration %q: empty enumeration value", name)
		}
		if strings.ContainsAny(v, "| \t\r\n]") {
			return fmt.Errorf("enumeration %q: invalid character in value %q", name, v)
		}
		sb.WriteString(v)
		sb.WriteRune('|')
	}

	ip.mtx.Lock()
	defer ip.mtx.Unlock()
	ip.enums[name] = sb.String()
	return nil
}

// Enum returns the values of the named enumeration in declared order.
func (ip *Interpreter) Enum(name string) ([]string, bool) {
	spec, ok := ip.lookupEnum(name)
	if !ok {
		return nil, false
	}
	return splitEnum(spec), true
}

// EnumNames returns the names of all defined enumerations in sorted order.
func (ip *Interpreter) EnumNames() []string {
	ip.mtx.RLock()
	defer ip.mtx.RUnlock()

	return util.OrderedKeys(ip.enums)
}

func (ip *Interpreter) lookupEnum(name string) (string, bool) {
	ip.mtx.RLock()
	defer ip.mtx.RUnlock()

	spec, ok := ip.enums[name]
	return spec, ok
}

// Parse parses one line of user input into a Prompt. The first word names
// the Command; the rest are its arguments, each either a positional value, a
// keyword argument written as name=value, or a relative value written as ~ or
// ~delta.
//
// Positional values are bound to the Command's positional arguments in order.
// When a value is the wrong kind for an optional argument, that argument takes
// its default and the value is tried against the next one. A relative value is
// bound to the next argument that has an origin, with optional arguments
// before it taking their defaults.
//
// Any problem is returned as a *SyntaxError and no Prompt is produced.
func (ip *Interpreter) Parse(text string) (Prompt, error) {
	p := newParser(promptSource, text)

	p.s.SkipWhitespace()
	namePos := p.s.Pos()
	name := p.commandName()
	if name == "" {
		if c := p.s.PeekNoSkip(); c != scan.EOF {
			return Prompt{}, p.s.Errorf("invalid character %q, command name expected", c)
		}
		return Prompt{}, p.s.Errorf("command name expected")
	}
	if !p.atWordEnd() {
		return Prompt{}, p.s.Errorf("invalid character %q in command name", p.s.PeekNoSkip())
	}

	cmd, ok := ip.repo.Get(name)
	if !ok {
		return Prompt{}, p.s.ErrorAt(namePos, "unknown command %q", name)
	}

	args := dynamic.NewList()
	kwargs := dynamic.NewMap()
	slot := 0

	for {
		c := p.s.Peek()
		if c == scan.EOF {
			break
		}

		valuePos := p.s.Pos()
		relative := false
		hasDelta := false
		value := dynamic.NewInt(0)

		if c == '~' {
			relative = true
			p.s.Next()
			if !p.atWordEnd() {
				var err error
				value, err = p.value()
				if err != nil {
					return Prompt{}, err
				}
				hasDelta = true
			}
		} else {
			var err error
			value, err = p.value()
			if err != nil {
				return Prompt{}, err
			}
		}

		if !relative && p.s.Peek() == '=' {
			key, ok := value.AsString()
			if !ok {
				return Prompt{}, p.s.ErrorAt(valuePos, "keyword name expected before '='")
			}
			p.s.Next()

			kwarg, ok := cmd.Keyword(key)
			if !ok {
				return Prompt{}, p.s.ErrorAt(valuePos, "unknown keyword %q", key)
			}

			kwValue, err := ip.keywordValue(p, kwarg)
			if err != nil {
				return Prompt{}, err
			}
			kwargs.Put(key, kwValue)
			continue
		}

		// find the slot the value binds to
		var arg *Argument
		for arg == nil {
			candidate, ok := cmd.Arg(slot)
			if !ok {
				return Prompt{}, p.s.ErrorAt(valuePos, "extra positional argument")
			}

			var accept bool
			if relative {
				if candidate.Relative() {
					accept = true
				} else if !candidate.Optional {
					return Prompt{}, p.s.ErrorAt(valuePos, "argument %q: relative values are not supported", candidate.Name)
				}
			} else {
				var err error
				accept, err = checkType(candidate, value, false, ip.lookupEnum)
				if err != nil {
					return Prompt{}, p.s.ErrorAt(valuePos, "%s", err.Error())
				}
			}

			if accept {
				arg = candidate
			} else {
				args.Put(candidate.Default)
			}
			slot++
		}

		if relative {
			var err error
			value, err = applyRelative(arg, ip.vars, value, hasDelta)
			if err != nil {
				return Prompt{}, p.s.ErrorAt(valuePos, "%s", err.Error())
			}
		}

		args.Put(value)
	}

	for ; slot < len(cmd.Args); slot++ {
		arg := &cmd.Args[slot]
		if !arg.Optional {
			return Prompt{}, p.s.Errorf("missing argument %q", arg.Name)
		}
		args.Put(arg.Default)
	}

	return Prompt{
		Command: cmd,
		Args:    args,
		Kwargs:  kwargs,
	}, nil
}

// keywordValue parses and checks the value of a keyword argument, after the
// '=' has been consumed. An optional keyword argument of the wrong kind is an
// error since there is no other slot to try.
func (ip *Interpreter) keywordValue(p *parser, arg *Argument) (dynamic.Value, error) {
	p.s.SkipWhitespace()
	valuePos := p.s.Pos()

	if p.s.PeekNoSkip() == '~' {
		p.s.Next()
		if !arg.Relative() {
			return dynamic.Value{}, p.s.ErrorAt(valuePos, "argument %q: relative values are not supported", arg.Name)
		}

		delta := dynamic.NewInt(0)
		hasDelta := false
		if !p.atWordEnd() {
			var err error
			delta, err = p.value()
			if err != nil {
				return dynamic.Value{}, err
			}
			hasDelta = true
		}

		v, err := applyRelative(arg, ip.vars, delta, hasDelta)
		if err != nil {
			return dynamic.Value{}, p.s.ErrorAt(valuePos, "%s", err.Error())
		}
		return v, nil
	}

	v, err := p.value()
	if err != nil {
		return dynamic.Value{}, err
	}
	if _, err := checkType(arg, v, true, ip.lookupEnum); err != nil {
		return dynamic.Value{}, p.s.ErrorAt(valuePos, "%s", err.Error())
	}
	return v, nil
}
