package command

import (
	"fmt"
	"math"

	"github.com/dekarrin/tunacon/dynamic"
)

// Variables is a namespace of values that can be looked up by name. It is
// consulted for the origin of relative values when an argument's origin names
// a variable.
type Variables interface {
	// Resolve returns the current value of the named variable. Unknown names
	// give None.
	Resolve(name string) dynamic.Value
}

// fetchOrigin returns the current origin of arg. Numeric origins are
// returned as-is and variable origins are resolved through vars.
func fetchOrigin(arg *Argument, vars Variables) dynamic.Value {
	switch arg.Origin.Kind() {
	case dynamic.Integer, dynamic.Number:
		return arg.Origin
	case dynamic.String:
		if vars == nil {
			return dynamic.NoneValue()
		}
		name, _ := arg.Origin.AsString()
		return vars.Resolve(name)
	default:
		return dynamic.NoneValue()
	}
}

// applyRelative computes the value of a relative argument. Without a delta the
// result is the origin itself. With one, it is origin + delta added in the
// argument's domain, or just the delta if the origin is None. The result is
// always converted into the argument's domain, with Number values truncated
// toward zero for Integer arguments.
func applyRelative(arg *Argument, vars Variables, delta dynamic.Value, hasDelta bool) (dynamic.Value, error) {
	if !arg.Type.IsNumeric() {
		return dynamic.Value{}, fmt.Errorf("argument %q: '~' operator is only allowed for numeric arguments", arg.Name)
	}

	origin := fetchOrigin(arg, vars)

	var result dynamic.Value
	var err error
	switch {
	case !hasDelta && origin.IsNone():
		result, err = toDomain(arg.Type, dynamic.NewInt(0))
	case !hasDelta:
		result, err = toDomain(arg.Type, origin)
		if err != nil {
			err = fmt.Errorf("origin: %w", err)
		}
	case origin.IsNone():
		result, err = toDomain(arg.Type, delta)
	default:
		result, err = add(arg.Type, origin, delta)
	}

	if err != nil {
		return dynamic.Value{}, fmt.Errorf("argument %q: %w", arg.Name, err)
	}
	return result, nil
}

func add(at ArgType, origin, delta dynamic.Value) (dynamic.Value, error) {
	if at == Number {
		o, err := origin.ToNumber()
		if err != nil {
			return dynamic.Value{}, fmt.Errorf("origin: %w", err)
		}
		d, err := delta.ToNumber()
		if err != nil {
			return dynamic.Value{}, err
		}
		return dynamic.NewNumber(o + d), nil
	}

	o, err := origin.ToInt()
	if err != nil {
		return dynamic.Value{}, fmt.Errorf("origin: %w", err)
	}
	d, err := delta.ToInt()
	if err != nil {
		return dynamic.Value{}, err
	}
	if (d > 0 && o > math.MaxInt-d) || (d < 0 && o < math.MinInt-d) {
		return dynamic.Value{}, fmt.Errorf("integer overflow")
	}
	return dynamic.NewInt(o + d), nil
}

func toDomain(at ArgType, v dynamic.Value) (dynamic.Value, error) {
	if at == Number {
		f, err := v.ToNumber()
		if err != nil {
			return dynamic.Value{}, err
		}
		return dynamic.NewNumber(f), nil
	}

	i, err := v.ToInt()
	if err != nil {
		return dynamic.Value{}, err
	}
	return dynamic.NewInt(i), nil
}
