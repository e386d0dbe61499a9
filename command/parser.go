package command

import (
	"unicode"

	"github.com/dekarrin/tunacon/dynamic"
	"github.com/dekarrin/tunacon/internal/scan"
)

// SyntaxError is the error returned for every problem found while compiling
// a scheme or parsing a prompt. It gives the position of the problem along
// with a message.
type SyntaxError = scan.Error

const (
	schemeSource = "<scheme>"
	promptSource = "<prompt>"
)

// parser holds the pieces shared by scheme compilation and prompt parsing.
type parser struct {
	s *scan.Scanner
}

func newParser(source, text string) *parser {
	return &parser{s: scan.New(source, text)}
}

// commandName reads a command name at the cursor, skipping leading
// whitespace. A ':' is included only when it joins two parts of the name.
// Returns an empty string if there is no name at the cursor.
func (p *parser) commandName() string {
	p.s.SkipWhitespace()
	if !isIdentStart(p.s.PeekNoSkip()) {
		return ""
	}
	return p.namespacedWord()
}

// namespacedWord reads identifier characters at the cursor, joining parts
// separated by a single ':' such as "base:stone". A trailing ':' is left
// unread.
func (p *parser) namespacedWord() string {
	word := p.s.Take(isIdentPart)
	for p.s.PeekNoSkip() == ':' && isIdentPart(p.s.PeekAt(1)) {
		p.s.Next()
		word += ":" + p.s.Take(isIdentPart)
	}
	return word
}

// value parses a single literal at the cursor.
func (p *parser) value() (dynamic.Value, error) {
	c := p.s.Peek()

	switch {
	case c == scan.EOF:
		return dynamic.Value{}, p.s.Errorf("value expected")
	case c == '"' || c == '\'':
		p.s.Next()
		str, err := p.s.String(c)
		if err != nil {
			return dynamic.Value{}, err
		}
		return dynamic.NewString(str), nil
	case c == '+' || c == '-':
		p.s.Next()
		sign := 1
		if c == '-' {
			sign = -1
		}
		return p.s.Number(sign)
	case isDecimalDigit(c):
		return p.s.Number(1)
	case isIdentStart(c):
		word := p.namespacedWord()
		switch word {
		case "true":
			return dynamic.NewBool(true), nil
		case "false":
			return dynamic.NewBool(false), nil
		case "none", "nil", "null":
			return dynamic.NoneValue(), nil
		default:
			return dynamic.NewString(word), nil
		}
	default:
		return dynamic.Value{}, p.s.Errorf("invalid character %q", c)
	}
}

// atWordEnd returns whether the cursor is at whitespace or end of input.
func (p *parser) atWordEnd() bool {
	c := p.s.PeekNoSkip()
	return c == scan.EOF || scan.IsSpace(c)
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || r == '@' || r == '.' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || r == '-' || unicode.IsDigit(r)
}

func isDecimalDigit(r rune) bool {
	return '0' <= r && r <= '9'
}
