package scan

import (
	"fmt"
	"strings"
)

// Error is a syntax error found while scanning text. It records where the
// error occurred so that it can be shown to whoever wrote the text.
type Error struct {
	// Source is the label of the text that was being scanned, such as a file
	// name or "<prompt>".
	Source string

	// Line is the line the error occurred on, 1-indexed.
	Line int

	// Column is the character position within the line, 1-indexed.
	Column int

	// Message is the human-readable description of the problem.
	Message string

	// SourceLine is the full text of the line the error occurred on.
	SourceLine string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Source, e.Line, e.Column, e.Message)
}

// FullMessage shows the complete message of the error along with the
// offending line and a cursor pointing to the problem position.
func (e *Error) FullMessage() string {
	cursor := e.SourceLineWithCursor()
	if cursor == "" {
		return e.Error()
	}
	return cursor + "\n" + e.Error()
}

// SourceLineWithCursor returns the offending source line and directly under it
// a cursor showing where the error occurred. Returns an empty string if there
// is no source line.
func (e *Error) SourceLineWithCursor() string {
	if e.SourceLine == "" {
		return ""
	}

	col := e.Column
	if col < 1 {
		col = 1
	}

	// column is 1-indexed
	return e.SourceLine + "\n" + strings.Repeat(" ", col-1) + "^"
}
