// Package scan provides a position-tracking cursor over text, along with the
// primitives for decoding quoted strings and numeric literals from it.
package scan

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/dekarrin/tunacon/dynamic"
)

// EOF is returned by the peek and next operations when there is no more input.
const EOF rune = -1

// Scanner is a cursor over a piece of text. It has no lookahead state other
// than its position, so rewinding with Back is always safe.
//
// Scanner should not be used directly; create one with New.
type Scanner struct {
	source string
	src    []rune
	pos    int
}

// New creates a Scanner over text. The source name is used as the label in any
// errors created by the Scanner.
func New(sourceName, text string) *Scanner {
	return &Scanner{
		source: sourceName,
		src:    []rune(text),
	}
}

// IsSpace returns whether r is insignificant whitespace.
func IsSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}

// Pos returns the current rune offset of the cursor.
func (s *Scanner) Pos() int {
	return s.pos
}

// HasNext returns whether there is any input remaining, whitespace included.
func (s *Scanner) HasNext() bool {
	return s.pos < len(s.src)
}

// SkipWhitespace advances the cursor past any whitespace.
func (s *Scanner) SkipWhitespace() {
	for s.pos < len(s.src) && IsSpace(s.src[s.pos]) {
		s.pos++
	}
}

// Peek skips whitespace and then returns the current rune without consuming
// it. Returns EOF if there is nothing after the whitespace.
func (s *Scanner) Peek() rune {
	s.SkipWhitespace()
	return s.PeekNoSkip()
}

// PeekNoSkip returns the current rune without consuming it or skipping
// whitespace. Returns EOF at end of input.
func (s *Scanner) PeekNoSkip() rune {
	if s.pos >= len(s.src) {
		return EOF
	}
	return s.src[s.pos]
}

// PeekAt returns the rune offset runes after the cursor without consuming
// anything. Returns EOF if that is past the end of input.
func (s *Scanner) PeekAt(offset int) rune {
	idx := s.pos + offset
	if idx < 0 || idx >= len(s.src) {
		return EOF
	}
	return s.src[idx]
}

// Next consumes and returns the current rune. Returns EOF at end of input, in
// which case the cursor is not moved.
func (s *Scanner) Next() rune {
	if s.pos >= len(s.src) {
		return EOF
	}
	r := s.src[s.pos]
	s.pos++
	return r
}

// Back rewinds the cursor by n runes. It panics if that would move before the
// start of input.
func (s *Scanner) Back(n int) {
	if n > s.pos {
		panic(fmt.Sprintf("cannot rewind %d runes from position %d", n, s.pos))
	}
	s.pos -= n
}

// Expect skips whitespace and consumes r. If the next rune is not r, the
// cursor is left on it and an error is returned.
func (s *Scanner) Expect(r rune) error {
	if s.Peek() != r {
		return s.Errorf("%q expected", r)
	}
	s.pos++
	return nil
}

// Take consumes runes for as long as pred returns true for them and returns
// the consumed text.
func (s *Scanner) Take(pred func(r rune) bool) string {
	start := s.pos
	for s.pos < len(s.src) && pred(s.src[s.pos]) {
		s.pos++
	}
	return string(s.src[start:s.pos])
}

// ReadUntil consumes runes up to but not including the first occurrence of r,
// or up to the end of input if r does not occur.
func (s *Scanner) ReadUntil(r rune) string {
	return s.Take(func(c rune) bool { return c != r })
}

// String decodes the body of a quoted string. The opening quote must already
// have been consumed; the closing quote is consumed by this function.
func (s *Scanner) String(quote rune) (string, error) {
	// the opening quote is the error location for unterminated strings
	openPos := s.pos - 1
	if openPos < 0 {
		openPos = 0
	}

	var sb strings.Builder
	for {
		c := s.Next()
		switch c {
		case EOF:
			return "", s.ErrorAt(openPos, "unterminated string")
		case quote:
			return sb.String(), nil
		case '\\':
			escPos := s.pos - 1
			decoded, err := s.escape()
			if err != nil {
				return "", s.ErrorAt(escPos, "%s", err.Error())
			}
			sb.WriteRune(decoded)
		default:
			sb.WriteRune(c)
		}
	}
}

func (s *Scanner) escape() (rune, error) {
	c := s.Next()
	switch c {
	case 'n':
		return '\n', nil
	case 't':
		return '\t', nil
	case 'r':
		return '\r', nil
	case 'b':
		return '\b', nil
	case 'f':
		return '\f', nil
	case '0':
		return 0, nil
	case '\\', '\'', '"', '/':
		return c, nil
	case 'x':
		return s.hexEscape(2)
	case 'u':
		return s.hexEscape(4)
	case EOF:
		return 0, fmt.Errorf("unterminated escape sequence")
	default:
		return 0, fmt.Errorf("invalid escape sequence '\\%c'", c)
	}
}

func (s *Scanner) hexEscape(digits int) (rune, error) {
	start := s.pos
	for i := 0; i < digits; i++ {
		if !isDigitOfBase(s.PeekNoSkip(), 16) {
			return 0, fmt.Errorf("escape sequence needs %d hex digits", digits)
		}
		s.pos++
	}
	code, err := strconv.ParseUint(string(s.src[start:s.pos]), 16, 32)
	if err != nil {
		return 0, err
	}
	return rune(code), nil
}

// Number decodes a numeric literal at the cursor. Any sign character must
// already have been consumed by the caller and is given as sign, which must be
// 1 or -1. The result is an Integer if the literal has no fractional part or
// exponent, otherwise it is a Number. Integers may be written with a 0x, 0o,
// or 0b prefix; "inf" and "nan" are accepted as Numbers.
func (s *Scanner) Number(sign int) (dynamic.Value, error) {
	start := s.pos

	if s.hasPrefix("inf") && !isWordRune(s.PeekAt(3)) {
		s.pos += 3
		return dynamic.NewNumber(math.Inf(sign)), nil
	}
	if s.hasPrefix("nan") && !isWordRune(s.PeekAt(3)) {
		s.pos += 3
		return dynamic.NewNumber(math.NaN()), nil
	}

	if s.PeekNoSkip() == '0' {
		base := 0
		switch s.PeekAt(1) {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			s.pos += 2
			digits := s.Take(func(r rune) bool { return isDigitOfBase(r, base) })
			if digits == "" {
				return dynamic.Value{}, s.ErrorAt(start, "invalid number literal")
			}
			if err := s.checkNumberEnd(); err != nil {
				return dynamic.Value{}, err
			}
			i, err := strconv.ParseInt(signPrefix(sign)+digits, base, strconv.IntSize)
			if err != nil {
				return dynamic.Value{}, s.ErrorAt(start, "integer literal out of range")
			}
			return dynamic.NewInt(int(i)), nil
		}
	}

	intPart := s.Take(isDecimalDigit)
	text := intPart
	isFloat := false

	if s.PeekNoSkip() == '.' {
		s.pos++
		frac := s.Take(isDecimalDigit)
		if intPart == "" && frac == "" {
			return dynamic.Value{}, s.ErrorAt(start, "invalid number literal")
		}
		text += "." + frac
		isFloat = true
	} else if intPart == "" {
		return dynamic.Value{}, s.ErrorAt(start, "invalid number literal")
	}

	if c := s.PeekNoSkip(); c == 'e' || c == 'E' {
		expPos := s.pos
		s.pos++
		text += "e"
		if c := s.PeekNoSkip(); c == '+' || c == '-' {
			text += string(c)
			s.pos++
		}
		expDigits := s.Take(isDecimalDigit)
		if expDigits == "" {
			return dynamic.Value{}, s.ErrorAt(expPos, "invalid exponent in number literal")
		}
		text += expDigits
		isFloat = true
	}

	if err := s.checkNumberEnd(); err != nil {
		return dynamic.Value{}, err
	}

	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return dynamic.Value{}, s.ErrorAt(start, "invalid number literal")
		}
		return dynamic.NewNumber(float64(sign) * f), nil
	}

	i, err := strconv.Atoi(signPrefix(sign) + text)
	if err != nil {
		return dynamic.Value{}, s.ErrorAt(start, "integer literal out of range")
	}
	return dynamic.NewInt(i), nil
}

// signPrefix gives the text that makes a literal negative when sign is -1, so
// the smallest integer can be parsed without overflowing its magnitude.
func signPrefix(sign int) string {
	if sign < 0 {
		return "-"
	}
	return ""
}

// a numeric literal must not run directly into a word; "12abc" is an error
// rather than two tokens.
func (s *Scanner) checkNumberEnd() error {
	if c := s.PeekNoSkip(); isWordRune(c) {
		return s.Errorf("invalid character %q in number literal", c)
	}
	return nil
}

func (s *Scanner) hasPrefix(prefix string) bool {
	pr := []rune(prefix)
	if s.pos+len(pr) > len(s.src) {
		return false
	}
	for i := range pr {
		if s.src[s.pos+i] != pr[i] {
			return false
		}
	}
	return true
}

// Errorf creates an Error at the current cursor position.
func (s *Scanner) Errorf(format string, a ...interface{}) *Error {
	return s.ErrorAt(s.pos, format, a...)
}

// ErrorAt creates an Error at the given rune offset.
func (s *Scanner) ErrorAt(pos int, format string, a ...interface{}) *Error {
	if pos > len(s.src) {
		pos = len(s.src)
	}
	if pos < 0 {
		pos = 0
	}

	line, col := 1, 1
	lineStart := 0
	for i := 0; i < pos; i++ {
		if s.src[i] == '\n' {
			line++
			col = 1
			lineStart = i + 1
		} else {
			col++
		}
	}

	lineEnd := lineStart
	for lineEnd < len(s.src) && s.src[lineEnd] != '\n' {
		lineEnd++
	}

	return &Error{
		Source:     s.source,
		Line:       line,
		Column:     col,
		Message:    fmt.Sprintf(format, a...),
		SourceLine: string(s.src[lineStart:lineEnd]),
	}
}

func isDecimalDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isDigitOfBase(r rune, base int) bool {
	switch base {
	case 2:
		return r == '0' || r == '1'
	case 8:
		return '0' <= r && r <= '7'
	case 16:
		return isDecimalDigit(r) || ('a' <= r && r <= 'f') || ('A' <= r && r <= 'F')
	default:
		return isDecimalDigit(r)
	}
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
