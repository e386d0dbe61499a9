package tcdef

import (
	"fmt"
	"strings"
	"time"

	"github.com/dekarrin/tunacon/dynamic"
	"github.com/dekarrin/tunacon/internal/util"
)

type topLevelManifest struct {
	Format string   `toml:"format"`
	Type   string   `toml:"type"`
	Files  []string `toml:"files"`
}

// topLevelDefs is the top-level structure containing all keys in a complete
// TCD 'DEFS' type file.
type topLevelDefs struct {
	Format   string       `toml:"format"`
	Type     string       `toml:"type"`
	Commands []commandDef `toml:"command"`
	Vars     []varDef     `toml:"var"`
	Enums    []enumDef    `toml:"enum"`
}

// setFile records the file that every command came from.
func (td *topLevelDefs) setFile(path string) {
	for i := range td.Commands {
		td.Commands[i].file = path
	}
}

type commandDef struct {
	Scheme string `toml:"scheme"`
	Action string `toml:"action"`
	Help   string `toml:"help"`

	file string
}

func (tc commandDef) toCommandDef(name string) CommandDef {
	act := strings.ToLower(strings.TrimSpace(tc.Action))
	if act == "" {
		act = DefaultAction
	}

	return CommandDef{
		Name:   name,
		Scheme: strings.TrimSpace(tc.Scheme),
		Action: act,
		Help:   tc.Help,
		File:   tc.file,
	}
}

type varDef struct {
	Name  string `toml:"name"`
	Value any    `toml:"value"`
}

func (tv varDef) toVarDef() (VarDef, error) {
	v, err := tomlToValue(tv.Value)
	if err != nil {
		return VarDef{}, err
	}
	return VarDef{Name: tv.Name, Value: v}, nil
}

type enumDef struct {
	Name   string   `toml:"name"`
	Values []string `toml:"values"`
}

func (te enumDef) toEnumDef() EnumDef {
	ed := EnumDef{
		Name:   te.Name,
		Values: make([]string, len(te.Values)),
	}
	copy(ed.Values, te.Values)
	return ed
}

// tomlToValue converts a value decoded by the TOML library into a dynamic
// Value. Date and time values are not supported.
func tomlToValue(tv any) (dynamic.Value, error) {
	switch typed := tv.(type) {
	case nil:
		return dynamic.NoneValue(), nil
	case bool, int64, float64, string:
		return dynamic.ValueOf(typed), nil
	case []any:
		l := dynamic.NewList()
		for i := range typed {
			item, err := tomlToValue(typed[i])
			if err != nil {
				return dynamic.Value{}, fmt.Errorf("[%d]: %w", i, err)
			}
			l.Put(item)
		}
		return dynamic.NewListValue(l), nil
	case []map[string]any:
		l := dynamic.NewList()
		for i := range typed {
			item, err := tomlToValue(typed[i])
			if err != nil {
				return dynamic.Value{}, fmt.Errorf("[%d]: %w", i, err)
			}
			l.Put(item)
		}
		return dynamic.NewListValue(l), nil
	case map[string]any:
		m := dynamic.NewMap()
		for _, k := range util.OrderedKeys(typed) {
			item, err := tomlToValue(typed[k])
			if err != nil {
				return dynamic.Value{}, fmt.Errorf("[%q]: %w", k, err)
			}
			m.Put(k, item)
		}
		return dynamic.NewMapValue(m), nil
	case time.Time:
		return dynamic.Value{}, fmt.Errorf("date-time values are not supported")
	default:
		return dynamic.Value{}, fmt.Errorf("unsupported value type %T", tv)
	}
}
