package tcdef

import (
	"fmt"
	"strings"

	"github.com/dekarrin/tunacon/command"
)

// DefaultAction is the action given to commands that do not name one.
const DefaultAction = "echo"

func parseManifest(tcd topLevelManifest) (Manifest, error) {
	manif := Manifest{
		Files: tcd.Files,
	}

	return manif, nil
}

type stringSet map[string]bool

func parseDefinitions(tcd topLevelDefs) (Definitions, error) {
	defs := Definitions{}

	enumNames := stringSet{}
	for i, e := range tcd.Enums {
		if err := validateEnumDef(e); err != nil {
			return defs, fmt.Errorf("enum[%d]: %w", i, err)
		}
		if enumNames[e.Name] {
			return defs, fmt.Errorf("enum[%d]: duplicate enumeration %q", i, e.Name)
		}
		enumNames[e.Name] = true
		defs.Enums = append(defs.Enums, e.toEnumDef())
	}

	varNames := stringSet{}
	for i, v := range tcd.Vars {
		if strings.TrimSpace(v.Name) == "" {
			return defs, fmt.Errorf("var[%d]: name: must not be blank", i)
		}
		if varNames[v.Name] {
			return defs, fmt.Errorf("var[%d]: duplicate variable %q", i, v.Name)
		}
		varNames[v.Name] = true

		vd, err := v.toVarDef()
		if err != nil {
			return defs, fmt.Errorf("var[%q]: value: %w", v.Name, err)
		}
		defs.Vars = append(defs.Vars, vd)
	}

	cmdNames := stringSet{}
	for i, c := range tcd.Commands {
		if strings.TrimSpace(c.Scheme) == "" {
			return defs, fmt.Errorf("command[%d]: scheme: must not be blank", i)
		}

		cmd, err := command.Compile(c.Scheme, nil)
		if err != nil {
			return defs, fmt.Errorf("command[%d]: scheme: %w", i, err)
		}
		if err := validateEnumRefs(cmd, enumNames); err != nil {
			return defs, fmt.Errorf("command[%q]: %w", cmd.Name, err)
		}
		if cmdNames[cmd.Name] {
			return defs, fmt.Errorf("command[%d]: duplicate command %q", i, cmd.Name)
		}
		cmdNames[cmd.Name] = true

		defs.Commands = append(defs.Commands, c.toCommandDef(cmd.Name))
	}

	return defs, nil
}

func validateEnumDef(e enumDef) error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("name: must not be blank")
	}
	if len(e.Values) < 1 {
		return fmt.Errorf("values: must have at least one value")
	}
	return nil
}

// validateEnumRefs checks that every named enumeration used by cmd is declared
// somewhere in the loaded files.
func validateEnumRefs(cmd command.Command, enums stringSet) error {
	check := func(arg command.Argument) error {
		if arg.NamedEnum() && !enums[arg.Enum] {
			return fmt.Errorf("argument %q: enumeration %q is not defined", arg.Name, arg.Enum)
		}
		return nil
	}

	for _, arg := range cmd.Args {
		if err := check(arg); err != nil {
			return err
		}
	}
	for _, name := range cmd.KeywordNames() {
		if err := check(cmd.Kwargs[name]); err != nil {
			return err
		}
	}
	return nil
}
