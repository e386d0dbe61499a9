package input

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_DirectReader_ReadPrompt(t *testing.T) {
	testCases := []struct {
		name        string
		input       string
		allowBlanks bool
		expect      []string
	}{
		{
			name:   "single line",
			input:  "heal 7\n",
			expect: []string{"heal 7"},
		},
		{
			name:   "no trailing newline",
			input:  "heal 7",
			expect: []string{"heal 7"},
		},
		{
			name:   "blank lines are skipped",
			input:  "\n   \nlook\n\ntp 1 2 3\n",
			expect: []string{"look", "tp 1 2 3"},
		},
		{
			name:        "blank lines returned when allowed",
			input:       "look\n\n",
			allowBlanks: true,
			expect:      []string{"look", ""},
		},
		{
			name:   "surrounding space trimmed",
			input:  "\t echo hi  \r\n",
			expect: []string{"echo hi"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			r := NewDirectReader(strings.NewReader(tc.input))
			r.AllowBlank(tc.allowBlanks)
			defer r.Close()

			var actual []string
			for {
				line, err := r.ReadPrompt()
				if err == io.EOF {
					break
				}
				if !assert.NoError(err) {
					return
				}
				actual = append(actual, line)
			}

			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_commandCompleter_Do(t *testing.T) {
	names := func() []string {
		return []string{"heal", "help", "world:tp", "hello"}
	}

	testCases := []struct {
		name         string
		line         string
		pos          int
		expect       []string
		expectLength int
	}{
		{
			name:         "several matches",
			line:         "he",
			pos:          2,
			expect:       []string{"al ", "lp ", "llo "},
			expectLength: 2,
		},
		{
			name:         "single match",
			line:         "wor",
			pos:          3,
			expect:       []string{"ld:tp "},
			expectLength: 3,
		},
		{
			name:         "leading space",
			line:         "  hea",
			pos:          5,
			expect:       []string{"l "},
			expectLength: 3,
		},
		{
			name:         "exact name gives nothing",
			line:         "heal",
			pos:          4,
			expect:       nil,
			expectLength: 4,
		},
		{
			name:         "arguments are not completed",
			line:         "heal he",
			pos:          7,
			expect:       nil,
			expectLength: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			cc := commandCompleter{names: names}
			actual, length := cc.Do([]rune(tc.line), tc.pos)

			var actualStrs []string
			for _, r := range actual {
				actualStrs = append(actualStrs, string(r))
			}

			assert.Equal(tc.expect, actualStrs)
			assert.Equal(tc.expectLength, length)
		})
	}
}
