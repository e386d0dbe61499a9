package command

import (
	"fmt"
	"strings"

	"github.com/dekarrin/tunacon/dynamic"
	"github.com/dekarrin/tunacon/internal/util"
)

// enumLookup returns the materialized "|a|b|" form of a named enumeration.
type enumLookup func(name string) (string, bool)

// checkType decides whether v can be bound to arg. It returns true if v is
// accepted. It returns false with no error if v is the wrong kind but arg is
// optional and not strict, meaning the next slot should be tried with the same
// value. Every other rejection is an error.
//
// Membership in an enumeration is always enforced; a string that is not a
// member is an error even for optional arguments.
func checkType(arg *Argument, v dynamic.Value, strict bool, enums enumLookup) (bool, error) {
	var kindOK bool
	switch arg.Type {
	case Number:
		kindOK = v.IsNumeric()
	case Integer, Selector:
		kindOK = v.Kind() == dynamic.Integer
	case String, EnumValue:
		kindOK = v.Kind() == dynamic.String
	default:
		return false, fmt.Errorf("argument %q: unknown argument type %v", arg.Name, arg.Type)
	}

	if !kindOK {
		if arg.Optional && !strict {
			return false, nil
		}
		return false, fmt.Errorf("argument %q: %s expected, got %s", arg.Name, expectedKind(arg.Type), describeValue(v))
	}

	if arg.Type == EnumValue {
		spec := arg.Enum
		if arg.NamedEnum() {
			var ok bool
			spec, ok = enums(arg.Enum)
			if !ok {
				return false, fmt.Errorf("argument %q: enumeration %q is not defined", arg.Name, arg.Enum)
			}
		}

		s, _ := v.AsString()
		if !enumContains(spec, s) {
			return false, fmt.Errorf("argument %q: %q is not one of %s", arg.Name, s, util.MakeTextList(splitEnum(spec), "or"))
		}
	}

	return true, nil
}

// checkDefault checks the default of arg against its own type. Defaults of
// none are always allowed, and members of named enumerations cannot be checked
// until the enumeration is defined.
func checkDefault(arg Argument) error {
	if arg.Default.IsNone() {
		return nil
	}
	if arg.NamedEnum() {
		// still must be a string
		if arg.Default.Kind() != dynamic.String {
			return fmt.Errorf("default for argument %q: string expected, got %s", arg.Name, describeValue(arg.Default))
		}
		return nil
	}

	_, err := checkType(&arg, arg.Default, true, nil)
	if err != nil {
		return fmt.Errorf("default for %w", err)
	}
	return nil
}

// enumContains tests membership of value in an enumeration stored in
// "|a|b|c|" form.
func enumContains(spec string, value string) bool {
	if value == "" || strings.ContainsAny(value, "|") {
		return false
	}
	return strings.Contains(spec, "|"+value+"|")
}

func expectedKind(at ArgType) string {
	switch at {
	case Number:
		return "number"
	case Integer, Selector:
		return "integer"
	default:
		return "string"
	}
}

func describeValue(v dynamic.Value) string {
	switch v.Kind() {
	case dynamic.String:
		s, _ := v.AsString()
		return fmt.Sprintf("string %q", s)
	case dynamic.None:
		return "none"
	default:
		return fmt.Sprintf("%s %s", dynamic.TypeName(v), v.String())
	}
}
