package tcdef

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dekarrin/tunacon/dynamic"
	"github.com/stretchr/testify/assert"
)

func writeFiles(t *testing.T, files map[string]string) string {
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

const basicDefs = `
format = "TCD"
type = "DEFS"

[[enum]]
name = "colors"
values = ["red", "green", "blue"]

[[var]]
name = "health"
value = 50

[[var]]
name = "speed"
value = 1.5

[[var]]
name = "title"
value = "hero"

[[command]]
scheme = "heal: amount:int=10 ~health"
action = "set"
help = "Heals by some amount"

[[command]]
scheme = "paint c:enum$colors"
`

func Test_ScanFileInfo(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect FileInfo
	}{
		{
			name:   "header only",
			input:  "format = \"TCD\"\ntype = \"DEFS\"\n",
			expect: FileInfo{Format: "TCD", Type: "DEFS"},
		},
		{
			name:   "stops at first table",
			input:  "format = \"TCD\"\ntype = \"MANIFEST\"\n[[command]]\nscheme = 7\n",
			expect: FileInfo{Format: "TCD", Type: "MANIFEST"},
		},
		{
			name:   "table header after indent",
			input:  "format = \"TCD\"\n  [[var]]\nname = 1\n",
			expect: FileInfo{Format: "TCD"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := ScanFileInfo([]byte(tc.input))
			if !assert.NoError(err) {
				return
			}
			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_LoadDefinitions(t *testing.T) {
	assert := assert.New(t)

	dir := writeFiles(t, map[string]string{"defs.toml": basicDefs})
	path := filepath.Join(dir, "defs.toml")

	defs, err := LoadDefinitions(path)
	if !assert.NoError(err) {
		return
	}

	assert.Equal([]EnumDef{{Name: "colors", Values: []string{"red", "green", "blue"}}}, defs.Enums)
	assert.Equal([]VarDef{
		{Name: "health", Value: dynamic.NewInt(50)},
		{Name: "speed", Value: dynamic.NewNumber(1.5)},
		{Name: "title", Value: dynamic.NewString("hero")},
	}, defs.Vars)

	if assert.Len(defs.Commands, 2) {
		assert.Equal(CommandDef{
			Name:   "heal",
			Scheme: "heal: amount:int=10 ~health",
			Action: "set",
			Help:   "Heals by some amount",
			File:   path,
		}, defs.Commands[0])
		assert.Equal("paint", defs.Commands[1].Name)
		assert.Equal(DefaultAction, defs.Commands[1].Action)
	}
}

func Test_LoadDefinitions_manifest(t *testing.T) {
	assert := assert.New(t)

	dir := writeFiles(t, map[string]string{
		"main.toml": `
format = "TCD"
type = "MANIFEST"
files = ["a.toml", "sub/inner.toml"]
`,
		"a.toml": `
format = "TCD"
type = "DEFS"

[[command]]
scheme = "look"
`,
		"sub/inner.toml": `
format = "TCD"
type = "MANIFEST"
files = ["b.toml", "../main.toml"]
`,
		"sub/b.toml": `
format = "TCD"
type = "DEFS"

[[command]]
scheme = "jump height:num"

[[var]]
name = "gravity"
value = -9.8
`,
	})

	defs, err := LoadDefinitions(filepath.Join(dir, "main.toml"))
	if !assert.NoError(err) {
		return
	}

	if assert.Len(defs.Commands, 2) {
		assert.Equal("look", defs.Commands[0].Name)
		assert.Equal("jump", defs.Commands[1].Name)
		assert.Equal(filepath.Join(dir, "sub", "b.toml"), defs.Commands[1].File)
	}
	assert.Equal([]VarDef{{Name: "gravity", Value: dynamic.NewNumber(-9.8)}}, defs.Vars)
}

func Test_LoadDefinitions_errors(t *testing.T) {
	testCases := []struct {
		name      string
		files     map[string]string
		expectErr error
	}{
		{
			name: "empty manifest",
			files: map[string]string{
				"main.toml": "format = \"TCD\"\ntype = \"MANIFEST\"\nfiles = []\n",
			},
			expectErr: ErrManifestEmpty,
		},
		{
			name: "manifest of only itself",
			files: map[string]string{
				"main.toml": "format = \"TCD\"\ntype = \"MANIFEST\"\nfiles = [\"main.toml\"]\n",
			},
			expectErr: ErrManifestEmpty,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := writeFiles(t, tc.files)

			_, err := LoadDefinitions(filepath.Join(dir, "main.toml"))
			assert.ErrorIs(t, err, tc.expectErr)
		})
	}
}

func Test_ParseDefinitions_errors(t *testing.T) {
	const header = "format = \"TCD\"\ntype = \"DEFS\"\n"

	testCases := []struct {
		name      string
		input     string
		expectErr string
	}{
		{
			name:      "wrong format",
			input:     "format = \"TUNA\"\ntype = \"DEFS\"\n",
			expectErr: "in header: 'format' key must exist and be set to 'TCD'",
		},
		{
			name:      "wrong type",
			input:     "format = \"TCD\"\ntype = \"MANIFEST\"\n",
			expectErr: "in header: 'type' must exist and be set to 'DEFS'",
		},
		{
			name:      "blank scheme",
			input:     header + "[[command]]\nscheme = \"  \"\n",
			expectErr: "command[0]: scheme: must not be blank",
		},
		{
			name:      "bad scheme",
			input:     header + "[[command]]\nscheme = \"x a:bogus\"\n",
			expectErr: "command[0]: scheme: <scheme>:1:5: unknown argument type \"bogus\"",
		},
		{
			name:      "duplicate command",
			input:     header + "[[command]]\nscheme = \"x\"\n[[command]]\nscheme = \"x: a:int\"\n",
			expectErr: "command[1]: duplicate command \"x\"",
		},
		{
			name:      "undefined enum",
			input:     header + "[[command]]\nscheme = \"x a:enum$nope\"\n",
			expectErr: "command[\"x\"]: argument \"a\": enumeration \"nope\" is not defined",
		},
		{
			name:      "duplicate var",
			input:     header + "[[var]]\nname = \"v\"\nvalue = 1\n[[var]]\nname = \"v\"\nvalue = 2\n",
			expectErr: "var[1]: duplicate variable \"v\"",
		},
		{
			name:      "blank var name",
			input:     header + "[[var]]\nvalue = 1\n",
			expectErr: "var[0]: name: must not be blank",
		},
		{
			name:      "enum with no values",
			input:     header + "[[enum]]\nname = \"e\"\nvalues = []\n",
			expectErr: "enum[0]: values: must have at least one value",
		},
		{
			name:      "duplicate enum",
			input:     header + "[[enum]]\nname = \"e\"\nvalues = [\"a\"]\n[[enum]]\nname = \"e\"\nvalues = [\"b\"]\n",
			expectErr: "enum[1]: duplicate enumeration \"e\"",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseDefinitions([]byte(tc.input), "test.toml")
			assert.EqualError(t, err, tc.expectErr)
		})
	}
}

func Test_tomlToValue(t *testing.T) {
	assert := assert.New(t)

	v, err := tomlToValue(map[string]any{
		"b": []any{int64(1), "two"},
		"a": true,
	})
	if !assert.NoError(err) {
		return
	}

	m, ok := v.AsMap()
	if !assert.True(ok) {
		return
	}
	assert.Equal([]string{"a", "b"}, m.Keys())

	b, _ := m.Get("b")
	assert.Equal(`[1, "two"]`, b.String())
}
