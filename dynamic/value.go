// Package dynamic contains the untyped runtime value used for command
// arguments, defaults, origins, and console variables.
package dynamic

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dekarrin/tunacon/internal/util"
)

// Kind is the kind of data held in a Value.
type Kind int

const (
	None Kind = iota
	Bool
	Integer
	Number
	String
	List
	Map
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Bool:
		return "boolean"
	case Integer:
		return "integer"
	case Number:
		return "number"
	case String:
		return "string"
	case List:
		return "list"
	case Map:
		return "map"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is a single piece of dynamically-typed data. Only the field that
// corresponds to kind is valid; the others hold their zero value.
//
// The zero value of Value is a None value and is ready to use.
type Value struct {
	kind Kind
	b    bool
	i    int
	f    float64
	s    string
	l    *ListValue
	m    *MapValue
}

// NoneValue returns a Value of kind None.
func NoneValue() Value {
	return Value{}
}

// NewBool returns a Value of kind Bool.
func NewBool(b bool) Value {
	return Value{kind: Bool, b: b}
}

// NewInt returns a Value of kind Integer.
func NewInt(i int) Value {
	return Value{kind: Integer, i: i}
}

// NewNumber returns a Value of kind Number.
func NewNumber(f float64) Value {
	return Value{kind: Number, f: f}
}

// NewString returns a Value of kind String.
func NewString(s string) Value {
	return Value{kind: String, s: s}
}

// NewListValue returns a Value of kind List that refers to l. If l is nil, a
// new empty list is created.
func NewListValue(l *ListValue) Value {
	if l == nil {
		l = NewList()
	}
	return Value{kind: List, l: l}
}

// NewMapValue returns a Value of kind Map that refers to m. If m is nil, a new
// empty map is created.
func NewMapValue(m *MapValue) Value {
	if m == nil {
		m = NewMap()
	}
	return Value{kind: Map, m: m}
}

// ValueOf creates a Value of the appropriate kind from a native Go value. The
// argument must be nil, a bool, any int type, a float32 or float64, a string, a
// Value, a *ListValue, a *MapValue, a []Value, or a map[string]Value. Anything
// else causes a panic.
func ValueOf(v any) Value {
	switch typedV := v.(type) {
	case nil:
		return Value{}
	case Value:
		return typedV
	case bool:
		return NewBool(typedV)
	case int:
		return NewInt(typedV)
	case int8:
		return NewInt(int(typedV))
	case int16:
		return NewInt(int(typedV))
	case int32:
		return NewInt(int(typedV))
	case int64:
		return NewInt(int(typedV))
	case uint8:
		return NewInt(int(typedV))
	case uint16:
		return NewInt(int(typedV))
	case uint32:
		return NewInt(int(typedV))
	case float32:
		return NewNumber(float64(typedV))
	case float64:
		return NewNumber(typedV)
	case string:
		return NewString(typedV)
	case *ListValue:
		return NewListValue(typedV)
	case *MapValue:
		return NewMapValue(typedV)
	case []Value:
		return NewListValue(NewList(typedV...))
	case map[string]Value:
		m := NewMap()
		for _, k := range util.OrderedKeys(typedV) {
			m.Put(k, typedV[k])
		}
		return NewMapValue(m)
	default:
		panic(fmt.Sprintf("cannot create dynamic value from %T", v))
	}
}

// Kind returns the kind of data in the Value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNone returns whether v is of kind None.
func (v Value) IsNone() bool {
	return v.kind == None
}

// IsNumeric returns whether v is of kind Integer or Number.
func (v Value) IsNumeric() bool {
	return v.kind == Integer || v.kind == Number
}

// AsBool returns the bool held by v. The second return value is false if v is
// not of kind Bool.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == Bool
}

// AsInt returns the int held by v. The second return value is false if v is
// not of kind Integer.
func (v Value) AsInt() (int, bool) {
	return v.i, v.kind == Integer
}

// AsNumber returns the float held by v. Integers are acceptable wherever a
// number is, so this succeeds for kind Integer as well as kind Number.
func (v Value) AsNumber() (float64, bool) {
	switch v.kind {
	case Number:
		return v.f, true
	case Integer:
		return float64(v.i), true
	default:
		return 0, false
	}
}

// AsString returns the string held by v. The second return value is false if
// v is not of kind String.
func (v Value) AsString() (string, bool) {
	return v.s, v.kind == String
}

// AsList returns the list held by v. The second return value is false if v is
// not of kind List.
func (v Value) AsList() (*ListValue, bool) {
	return v.l, v.kind == List
}

// AsMap returns the map held by v. The second return value is false if v is
// not of kind Map.
func (v Value) AsMap() (*MapValue, bool) {
	return v.m, v.kind == Map
}

// ToNumber converts v to a float for arithmetic. It fails if v is not numeric.
func (v Value) ToNumber() (float64, error) {
	f, ok := v.AsNumber()
	if !ok {
		return 0, fmt.Errorf("number expected, got %s", v.kind)
	}
	return f, nil
}

// ToInt converts v to an int for arithmetic. Numbers are truncated toward zero.
// It fails if v is not numeric or if a Number does not fit in an int.
func (v Value) ToInt() (int, error) {
	switch v.kind {
	case Integer:
		return v.i, nil
	case Number:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return 0, fmt.Errorf("cannot convert %s to integer", v.String())
		}
		t := math.Trunc(v.f)
		if t >= math.MaxInt || t < math.MinInt {
			return 0, fmt.Errorf("%s is out of integer range", v.String())
		}
		return int(t), nil
	default:
		return 0, fmt.Errorf("integer expected, got %s", v.kind)
	}
}

// Equal returns whether v and o hold the same kind and the same data. Lists
// and maps are compared element by element; map ordering is not considered.
// An Integer never equals a Number, even when numerically the same.
func (v Value) Equal(o any) bool {
	other, ok := o.(Value)
	if !ok {
		otherPtr, ok := o.(*Value)
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if v.kind != other.kind {
		return false
	}

	switch v.kind {
	case None:
		return true
	case Bool:
		return v.b == other.b
	case Integer:
		return v.i == other.i
	case Number:
		return v.f == other.f
	case String:
		return v.s == other.s
	case List:
		return v.l.Equal(other.l)
	case Map:
		return v.m.Equal(other.m)
	default:
		panic("unrecognized dynamic value kind")
	}
}

// String returns a display form of v.
func (v Value) String() string {
	switch v.kind {
	case None:
		return "none"
	case Bool:
		return strconv.FormatBool(v.b)
	case Integer:
		return strconv.Itoa(v.i)
	case Number:
		return formatNumber(v.f)
	case String:
		return v.s
	case List:
		return v.l.String()
	case Map:
		return v.m.String()
	default:
		panic("unrecognized dynamic value kind")
	}
}

// TypeName returns the name of the kind of v, for use in messages.
func TypeName(v Value) string {
	return v.kind.String()
}

func formatNumber(f float64) string {
	if math.IsInf(f, 1) {
		return "inf"
	} else if math.IsInf(f, -1) {
		return "-inf"
	} else if math.IsNaN(f) {
		return "nan"
	}

	str := strconv.FormatFloat(f, 'f', -1, 64)
	// there should be a decimal point so it is not confused with an integer
	if !strings.ContainsAny(str, ".e") {
		str += ".0"
	}
	return str
}
