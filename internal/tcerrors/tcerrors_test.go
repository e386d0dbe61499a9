package tcerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dekarrin/tunacon/command"
	"github.com/stretchr/testify/assert"
)

func Test_ConsoleMessage(t *testing.T) {
	_, synErr := command.Compile("f: x:enum[a b]", nil)

	testCases := []struct {
		name   string
		err    error
		expect string
	}{
		{
			name:   "plain error",
			err:    errors.New("disk on fire"),
			expect: "disk on fire",
		},
		{
			name:   "console error",
			err:    Console("You can't do that.", "forbidden"),
			expect: "You can't do that.",
		},
		{
			name:   "formatted console error",
			err:    Consolef("No variable named %q.", "hp"),
			expect: `No variable named "hp".`,
		},
		{
			name:   "wrapped console error",
			err:    fmt.Errorf("running: %w", WrapConsole(errors.New("inner"), "Oops.", "")),
			expect: "Oops.",
		},
		{
			name:   "syntax error",
			err:    synErr,
			expect: "f: x:enum[a b]\n           ^\n<scheme>:1:12: use '|' as separator, not a space",
		},
		{
			name:   "wrapped syntax error",
			err:    fmt.Errorf("loading: %w", synErr),
			expect: "f: x:enum[a b]\n           ^\n<scheme>:1:12: use '|' as separator, not a space",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			assert.Equal(tc.expect, ConsoleMessage(tc.err))
		})
	}
}

func Test_WrapConsole_unwraps(t *testing.T) {
	assert := assert.New(t)

	inner := errors.New("inner")
	err := WrapConsolef(inner, "Could not %s.", "save")

	assert.ErrorIs(err, inner)
	assert.Equal(`got ConsoleError("Could not save.")`, err.Error())
}
