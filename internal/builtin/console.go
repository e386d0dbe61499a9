package builtin

import (
	"fmt"

	"github.com/dekarrin/tunacon/command"
	"github.com/dekarrin/tunacon/internal/tcdef"
	"github.com/dekarrin/tunacon/internal/vars"
)

// NewConsole creates an Env with the built-in commands installed. If defsPath
// is not empty, the TCD file at that path is loaded into it with Load.
func NewConsole(defsPath string) (*Env, error) {
	vs := vars.New(nil)
	env := NewEnv(command.NewInterpreter(nil, vs), vs)

	if err := Install(env); err != nil {
		return nil, err
	}

	if defsPath != "" {
		defs, err := tcdef.LoadDefinitions(defsPath)
		if err != nil {
			return nil, fmt.Errorf("load definitions: %w", err)
		}
		if err := Load(env, defs); err != nil {
			return nil, err
		}
	}

	return env, nil
}

// Load adds loaded definitions to env. Enumerations are defined first so that
// the commands can refer to them. A command with the same name as an existing
// one replaces it.
func Load(env *Env, defs tcdef.Definitions) error {
	for _, e := range defs.Enums {
		if e.Name == ActionsEnum {
			return fmt.Errorf("enumeration %q is reserved", e.Name)
		}
		if err := env.Interp.DefineEnum(e.Name, e.Values); err != nil {
			return err
		}
	}

	for _, v := range defs.Vars {
		if err := env.Vars.Set(v.Name, v.Value); err != nil {
			return fmt.Errorf("variable %q: %w", v.Name, err)
		}
	}

	for _, c := range defs.Commands {
		if _, err := env.Define(c.Scheme, c.Action, c.Help); err != nil {
			if c.File != "" {
				return fmt.Errorf("%s: command %q: %w", c.File, c.Name, err)
			}
			return fmt.Errorf("command %q: %w", c.Name, err)
		}
	}

	return nil
}
