package builtin

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dekarrin/tunacon/dynamic"
	"github.com/dekarrin/tunacon/internal/tcdef"
	"github.com/stretchr/testify/assert"
)

const consoleDefs = `
format = "TCD"
type = "DEFS"

[[enum]]
name = "colors"
values = ["red", "green"]

[[var]]
name = "health"
value = 50

[[command]]
scheme = "heal: target:@ amount:int=10 ~health"
help = "Heal a target."

[[command]]
scheme = "paint c:enum$colors"
`

func Test_NewConsole(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "console.tcd")
	if err := os.WriteFile(path, []byte(consoleDefs), 0o644); err != nil {
		t.Fatal(err)
	}

	env, err := NewConsole(path)
	if !assert.NoError(err) {
		return
	}

	assert.Equal(dynamic.NewInt(50), env.Vars.Resolve("health"))
	assert.Equal("Heal a target.", env.Help("heal"))

	out, err := run(env, "heal 7 ~3")
	assert.NoError(err)
	assert.Equal("heal target=7 amount=53", out)

	_, err = run(env, "paint blue")
	assert.Error(err)

	// built-ins are still there
	_, err = run(env, "quit")
	assert.ErrorIs(err, ErrQuit)
}

func Test_NewConsole_noDefs(t *testing.T) {
	env, err := NewConsole("")
	if !assert.NoError(t, err) {
		return
	}

	_, ok := env.Interp.Repository().Get("help")
	assert.True(t, ok)
}

func Test_NewConsole_missingFile(t *testing.T) {
	_, err := NewConsole(filepath.Join(t.TempDir(), "nope.tcd"))
	assert.Error(t, err)
}

func Test_Load(t *testing.T) {
	testCases := []struct {
		name      string
		defs      tcdef.Definitions
		expectErr bool
	}{
		{
			name: "empty",
		},
		{
			name: "reserved enumeration",
			defs: tcdef.Definitions{
				Enums: []tcdef.EnumDef{{Name: ActionsEnum, Values: []string{"a"}}},
			},
			expectErr: true,
		},
		{
			name: "unknown action",
			defs: tcdef.Definitions{
				Commands: []tcdef.CommandDef{{Name: "x", Scheme: "x", Action: "teleport"}},
			},
			expectErr: true,
		},
		{
			name: "replaces a built-in",
			defs: tcdef.Definitions{
				Commands: []tcdef.CommandDef{{Name: "vars", Scheme: "vars", Action: "echo"}},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			env, err := NewConsole("")
			if !assert.NoError(err) {
				return
			}

			err = Load(env, tc.defs)
			if tc.expectErr {
				assert.Error(err)
			} else {
				assert.NoError(err)
			}
		})
	}
}
