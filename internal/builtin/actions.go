package builtin

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rosed"
	"github.com/dekarrin/tunacon/command"
	"github.com/dekarrin/tunacon/dynamic"
	"github.com/dekarrin/tunacon/internal/tcerrors"
)

var tableOpts = rosed.Options{
	TableHeaders:             true,
	NoTrailingLineSeparators: true,
}

// echoAction shows what every argument of the prompt was bound to.
func echoAction(env *Env, p command.Prompt) (string, error) {
	var sb strings.Builder
	sb.WriteString(p.Command.Name)

	// positionals and keywords may share a name, so neither is looked up
	// through the other
	for i, arg := range p.Command.Args {
		v, ok := p.Args.Get(i)
		if !ok {
			v = arg.Default
		}
		sb.WriteString(fmt.Sprintf(" %s=%s", arg.Name, command.Literal(v)))
	}
	for _, name := range p.Command.KeywordNames() {
		v, ok := p.Kwargs.Get(name)
		if !ok {
			kw, _ := p.Command.Keyword(name)
			v = kw.Default
		}
		sb.WriteString(fmt.Sprintf(" %s=%s", name, command.Literal(v)))
	}

	return sb.String(), nil
}

func helpAction(env *Env, p command.Prompt) (string, error) {
	repo := env.Interp.Repository()

	nameVal, _ := p.Arg("cmd")
	if !nameVal.IsNone() {
		name, _ := nameVal.AsString()
		cmd, ok := repo.Get(name)
		if !ok {
			return "", tcerrors.Consolef("There is no command named %q.", name)
		}

		out := "Usage: " + cmd.Usage()
		if h := env.Help(name); h != "" {
			out += "\n\n" + rosed.Edit(h).Wrap(env.width()).String()
		}
		return out, nil
	}

	data := [][]string{{"Command", "Usage", "Description"}}
	for _, name := range repo.Names() {
		cmd, ok := repo.Get(name)
		if !ok {
			continue
		}
		data = append(data, []string{name, cmd.Usage(), env.Help(name)})
	}

	output := rosed.Edit("").
		InsertTableOpts(0, data, env.width(), tableOpts).
		String()

	return output, nil
}

func defineAction(env *Env, p command.Prompt) (string, error) {
	schemeVal, _ := p.Arg("scheme")
	actVal, _ := p.Arg("action")
	helpVal, _ := p.Arg("help")

	scheme, _ := schemeVal.AsString()
	act, _ := actVal.AsString()
	help, _ := helpVal.AsString()

	name, err := env.Define(scheme, act, help)
	if err != nil {
		return "", tcerrors.WrapConsolef(err, "Could not define command:\n%s", tcerrors.ConsoleMessage(err))
	}

	return fmt.Sprintf("Defined %s", name), nil
}

func setAction(env *Env, p command.Prompt) (string, error) {
	nameVal, _ := p.Arg("name")
	name, _ := nameVal.AsString()

	v, _ := p.Arg("num")
	if v.IsNone() {
		v, _ = p.Arg("text")
	}
	if v.IsNone() {
		return "", tcerrors.Consolef("Give a number or a string to set %s to.", name)
	}

	if err := env.Vars.Set(name, v); err != nil {
		return "", tcerrors.WrapConsolef(err, "Could not set %q: %s", name, err.Error())
	}

	return fmt.Sprintf("%s = %s", name, command.Literal(v)), nil
}

func unsetAction(env *Env, p command.Prompt) (string, error) {
	nameVal, _ := p.Arg("name")
	name, _ := nameVal.AsString()

	if !env.Vars.Delete(name) {
		return "", tcerrors.Consolef("There is no variable named %q.", name)
	}
	return fmt.Sprintf("Removed %s", name), nil
}

// varsAction returns a text table of all variables and their current values.
func varsAction(env *Env, p command.Prompt) (string, error) {
	all := env.Vars.All()
	if len(all) < 1 {
		return "(no variables are set)", nil
	}

	data := [][]string{{"Variable", "Type", "Value"}}
	for _, v := range all {
		data = append(data, []string{v.Name, dynamic.TypeName(v.Value), command.Literal(v.Value)})
	}

	output := rosed.Edit("").
		InsertTableOpts(0, data, env.width(), tableOpts).
		String()

	return output, nil
}

func enumsAction(env *Env, p command.Prompt) (string, error) {
	data := [][]string{{"Enumeration", "Values"}}
	for _, name := range env.Interp.EnumNames() {
		values, _ := env.Interp.Enum(name)
		data = append(data, []string{"$" + name, strings.Join(values, " | ")})
	}

	output := rosed.Edit("").
		InsertTableOpts(0, data, env.width(), tableOpts).
		String()

	return output, nil
}

func quitAction(env *Env, p command.Prompt) (string, error) {
	return "", ErrQuit
}
