package input

import (
	"strings"
	"unicode"
)

// commandCompleter implements readline.AutoCompleter by completing the command
// name at the start of the line. Arguments are not completed.
type commandCompleter struct {
	names NameLister
}

// Do returns the suffixes that complete the word under the cursor, along with
// the length of the part of the word that was already typed.
func (cc commandCompleter) Do(line []rune, pos int) (newLine [][]rune, length int) {
	if pos > len(line) {
		pos = len(line)
	}
	typed := line[:pos]

	// skip leading space; only the first word is a command name
	start := 0
	for start < len(typed) && unicode.IsSpace(typed[start]) {
		start++
	}
	word := typed[start:]
	for _, r := range word {
		if unicode.IsSpace(r) {
			return nil, 0
		}
	}

	prefix := string(word)
	for _, name := range cc.names() {
		if strings.HasPrefix(name, prefix) && len(name) > len(prefix) {
			newLine = append(newLine, []rune(name[len(prefix):]+" "))
		}
	}

	return newLine, len(word)
}
