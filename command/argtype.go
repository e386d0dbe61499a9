package command

import "fmt"

// ArgType is the declared type of a single argument slot.
type ArgType int

const (
	// Number accepts any numeric value, Integer included.
	Number ArgType = iota

	// Integer accepts only integral values.
	Integer

	// String accepts only string values.
	String

	// Selector is a reference to an object by its ID. It is checked exactly
	// as Integer is.
	Selector

	// EnumValue accepts only strings that are members of the argument's
	// enumeration.
	EnumValue
)

// typeKeywords maps the keyword used in schemes to the ArgType it declares.
var typeKeywords = map[string]ArgType{
	"num":  Number,
	"int":  Integer,
	"str":  String,
	"@":    Selector,
	"enum": EnumValue,
}

// ParseArgType returns the ArgType declared by the given scheme keyword. The
// second return value is false if the keyword is not a type keyword.
func ParseArgType(keyword string) (ArgType, bool) {
	at, ok := typeKeywords[keyword]
	return at, ok
}

// Keyword returns the scheme keyword that declares at.
func (at ArgType) Keyword() string {
	switch at {
	case Number:
		return "num"
	case Integer:
		return "int"
	case String:
		return "str"
	case Selector:
		return "@"
	case EnumValue:
		return "enum"
	default:
		return fmt.Sprintf("ArgType(%d)", int(at))
	}
}

func (at ArgType) String() string {
	switch at {
	case Number:
		return "number"
	case Integer:
		return "integer"
	case String:
		return "string"
	case Selector:
		return "selector"
	case EnumValue:
		return "enum"
	default:
		return fmt.Sprintf("ArgType(%d)", int(at))
	}
}

// IsNumeric returns whether arguments of the type hold numbers, and therefore
// whether they may declare a relative origin.
func (at ArgType) IsNumeric() bool {
	return at == Number || at == Integer
}
