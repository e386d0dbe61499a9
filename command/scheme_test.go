package command

import (
	"errors"
	"testing"

	"github.com/dekarrin/tunacon/dynamic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Compile(t *testing.T) {
	testCases := []struct {
		name   string
		scheme string
		expect Command
	}{
		{
			name:   "name only",
			scheme: "quit",
			expect: Command{Name: "quit", Kwargs: map[string]Argument{}},
		},
		{
			name:   "name with separator and no args",
			scheme: "quit:",
			expect: Command{Name: "quit", Kwargs: map[string]Argument{}},
		},
		{
			name:   "namespaced name",
			scheme: "world:tp x:num",
			expect: Command{
				Name:   "world:tp",
				Args:   []Argument{{Name: "x", Type: Number}},
				Kwargs: map[string]Argument{},
			},
		},
		{
			name:   "every type keyword",
			scheme: "f: a:num b:int c:str d:@ e:enum[x|y]",
			expect: Command{
				Name: "f",
				Args: []Argument{
					{Name: "a", Type: Number},
					{Name: "b", Type: Integer},
					{Name: "c", Type: String},
					{Name: "d", Type: Selector},
					{Name: "e", Type: EnumValue, Enum: "|x|y|"},
				},
				Kwargs: map[string]Argument{},
			},
		},
		{
			name:   "implicit enum type",
			scheme: "f: e:[x|y|z]",
			expect: Command{
				Name:   "f",
				Args:   []Argument{{Name: "e", Type: EnumValue, Enum: "|x|y|z|"}},
				Kwargs: map[string]Argument{},
			},
		},
		{
			name:   "named enum",
			scheme: "paint: color:enum$colors",
			expect: Command{
				Name:   "paint",
				Args:   []Argument{{Name: "color", Type: EnumValue, Enum: "colors"}},
				Kwargs: map[string]Argument{},
			},
		},
		{
			name:   "default and variable origin",
			scheme: "heal: target:@ amount:int=10 ~health",
			expect: Command{
				Name: "heal",
				Args: []Argument{
					{Name: "target", Type: Selector},
					{
						Name:     "amount",
						Type:     Integer,
						Optional: true,
						Default:  dynamic.NewInt(10),
						Origin:   dynamic.NewString("health"),
					},
				},
				Kwargs: map[string]Argument{},
			},
		},
		{
			name:   "teleport with keyword block",
			scheme: "tp: player:@ x:num y:num z:num ~0 {mode:enum[relative|absolute]=absolute}",
			expect: Command{
				Name: "tp",
				Args: []Argument{
					{Name: "player", Type: Selector},
					{Name: "x", Type: Number},
					{Name: "y", Type: Number},
					{Name: "z", Type: Number, Origin: dynamic.NewInt(0)},
				},
				Kwargs: map[string]Argument{
					"mode": {
						Name:     "mode",
						Type:     EnumValue,
						Enum:     "|relative|absolute|",
						Optional: true,
						Default:  dynamic.NewString("absolute"),
					},
				},
			},
		},
		{
			name:   "unusual argument names",
			scheme: `f {$a:int=1 @b:str="x" .c:num=-2.5 "d e":int=0}`,
			expect: Command{
				Name: "f",
				Kwargs: map[string]Argument{
					"$a":  {Name: "$a", Type: Integer, Optional: true, Default: dynamic.NewInt(1)},
					"@b":  {Name: "@b", Type: String, Optional: true, Default: dynamic.NewString("x")},
					".c":  {Name: ".c", Type: Number, Optional: true, Default: dynamic.NewNumber(-2.5)},
					"d e": {Name: "d e", Type: Integer, Optional: true, Default: dynamic.NewInt(0)},
				},
			},
		},
		{
			name:   "none default",
			scheme: "help name:str=none",
			expect: Command{
				Name:   "help",
				Args:   []Argument{{Name: "name", Type: String, Optional: true}},
				Kwargs: map[string]Argument{},
			},
		},
		{
			name:   "namespaced default",
			scheme: "fill: block:str=base:air {with:str=mod:ore:gold}",
			expect: Command{
				Name: "fill",
				Args: []Argument{{Name: "block", Type: String, Optional: true, Default: dynamic.NewString("base:air")}},
				Kwargs: map[string]Argument{
					"with": {Name: "with", Type: String, Optional: true, Default: dynamic.NewString("mod:ore:gold")},
				},
			},
		},
		{
			name:   "integer default for number argument",
			scheme: "walk speed:num=1",
			expect: Command{
				Name:   "walk",
				Args:   []Argument{{Name: "speed", Type: Number, Optional: true, Default: dynamic.NewInt(1)}},
				Kwargs: map[string]Argument{},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := Compile(tc.scheme, nil)

			if !assert.NoError(err) {
				return
			}
			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_Compile_errors(t *testing.T) {
	testCases := []struct {
		name         string
		scheme       string
		expectMsg    string
		expectColumn int
	}{
		{name: "empty", scheme: "", expectMsg: "command name expected", expectColumn: 1},
		{name: "bad name", scheme: "1abc", expectMsg: `invalid character '1' in command name`, expectColumn: 1},
		{name: "space in enum", scheme: "f: x:enum[a b]", expectMsg: "use '|' as separator, not a space", expectColumn: 12},
		{name: "empty enum", scheme: "f: x:enum[]", expectMsg: "empty enumeration is not allowed", expectColumn: 11},
		{name: "empty enum member", scheme: "f: x:[a||b]", expectMsg: "empty enumeration value", expectColumn: 9},
		{name: "unterminated enum", scheme: "f: x:[a|b", expectMsg: "']' expected", expectColumn: 10},
		{name: "enum without set", scheme: "f: x:enum", expectMsg: "'[' or '$' expected for enumeration", expectColumn: 10},
		{name: "unknown type", scheme: "f: x:float", expectMsg: `unknown argument type "float"`, expectColumn: 6},
		{name: "missing colon", scheme: "f: x num", expectMsg: "':' expected after argument name", expectColumn: 5},
		{name: "missing type", scheme: "f: x:", expectMsg: "argument type expected", expectColumn: 6},
		{name: "origin on string", scheme: "f: s:str ~health", expectMsg: "'~' operator is only allowed for numeric arguments", expectColumn: 10},
		{name: "origin on selector", scheme: "f: s:@ ~0", expectMsg: "'~' operator is only allowed for numeric arguments", expectColumn: 8},
		{name: "origin is bool", scheme: "f: n:int ~true", expectMsg: "origin must be a number or a variable name", expectColumn: 10},
		{name: "duplicate positional", scheme: "f: a:int a:str", expectMsg: `duplicate argument "a"`, expectColumn: 10},
		{name: "duplicate keyword", scheme: "f {a:int=1 a:int=2}", expectMsg: `duplicate keyword argument "a"`, expectColumn: 12},
		{name: "same name positional and keyword is fine but unclosed block is not", scheme: "f: a:int {a:int=1", expectMsg: "'}' expected", expectColumn: 18},
		{name: "keyword block not last", scheme: "f {a:int=1} b:int", expectMsg: "keyword block must be the last part of a scheme", expectColumn: 13},
		{name: "bad default type", scheme: "f: n:int=abc", expectMsg: `default for argument "n": integer expected, got string "abc"`, expectColumn: 10},
		{name: "default not in enum", scheme: "f: e:[a|b]=c", expectMsg: `default for argument "e": "c" is not one of a or b`, expectColumn: 12},
		{name: "unterminated default string", scheme: `f: s:str="abc`, expectMsg: "unterminated string", expectColumn: 10},
		{name: "invalid argument start", scheme: "f: =x", expectMsg: `invalid character '=', argument name expected`, expectColumn: 4},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			_, err := Compile(tc.scheme, nil)

			if !assert.Error(err) {
				return
			}
			var synErr *SyntaxError
			if !assert.True(errors.As(err, &synErr), "error should be a *SyntaxError") {
				return
			}
			assert.Equal(tc.expectMsg, synErr.Message)
			assert.Equal(1, synErr.Line)
			assert.Equal(tc.expectColumn, synErr.Column)
			assert.Equal("<scheme>", synErr.Source)
		})
	}
}

func Test_Compile_deterministic(t *testing.T) {
	schemes := []string{
		"tp: player:@ x:num y:num z:num ~0 {mode:enum[relative|absolute]=absolute}",
		"heal: target:@ amount:int=10 ~health",
		`say msg:str="hello world" {loud:str=no}`,
	}

	for _, scheme := range schemes {
		t.Run(scheme, func(t *testing.T) {
			first, err := Compile(scheme, nil)
			require.NoError(t, err)
			second, err := Compile(scheme, nil)
			require.NoError(t, err)

			assert.Equal(t, first, second)
		})
	}
}

func Test_Command_Usage_recompiles(t *testing.T) {
	testCases := []struct {
		name        string
		scheme      string
		expectUsage string
	}{
		{
			name:        "teleport",
			scheme:      "tp: player:@ x:num y:num z:num ~0 {mode:[relative|absolute]=absolute}",
			expectUsage: "tp player:@ x:num y:num z:num ~0 {mode:enum[relative|absolute]=absolute}",
		},
		{
			name:        "heal",
			scheme:      "heal: target:@ amount:int=10 ~health",
			expectUsage: "heal target:@ amount:int=10 ~health",
		},
		{
			name:        "quoting where needed",
			scheme:      `say {"the msg":str="none" x:num=+inf}`,
			expectUsage: `say {"the msg":str="none" x:num=+inf}`,
		},
		{
			name:        "named enum and sorted keywords",
			scheme:      "paint {z:int=0 color:enum$colors=red}",
			expectUsage: "paint {color:enum$colors=red z:int=0}",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			cmd, err := Compile(tc.scheme, nil)
			require.NoError(t, err)

			usage := cmd.Usage()
			assert.Equal(tc.expectUsage, usage)

			recompiled, err := Compile(usage, nil)
			require.NoError(t, err)
			assert.Equal(cmd.Name, recompiled.Name)
			assert.Equal(len(cmd.Args), len(recompiled.Args))
			for i := range cmd.Args {
				assertArgsEqual(t, cmd.Args[i], recompiled.Args[i])
			}
			for k, v := range cmd.Kwargs {
				assertArgsEqual(t, v, recompiled.Kwargs[k])
			}
		})
	}
}

func Test_Command_Lookups(t *testing.T) {
	assert := assert.New(t)

	cmd, err := Compile("f: a:int b:str {y:int=0 x:int=1}", "handle")
	require.NoError(t, err)

	arg, ok := cmd.Arg(1)
	assert.True(ok)
	assert.Equal("b", arg.Name)

	_, ok = cmd.Arg(2)
	assert.False(ok)

	assert.Equal(0, cmd.ArgIndex("a"))
	assert.Equal(-1, cmd.ArgIndex("x"))

	kw, ok := cmd.Keyword("x")
	assert.True(ok)
	assert.Equal(dynamic.NewInt(1), kw.Default)

	assert.Equal([]string{"x", "y"}, cmd.KeywordNames())
	assert.Equal("handle", cmd.Executor)
}

func Test_Argument_EnumValues(t *testing.T) {
	assert := assert.New(t)

	inline := Argument{Name: "e", Type: EnumValue, Enum: "|a|b|c|"}
	named := Argument{Name: "e", Type: EnumValue, Enum: "colors"}

	assert.Equal([]string{"a", "b", "c"}, inline.EnumValues())
	assert.False(inline.NamedEnum())
	assert.Nil(named.EnumValues())
	assert.True(named.NamedEnum())
	assert.False(Argument{Name: "n", Type: Integer}.NamedEnum())
}

func assertArgsEqual(t *testing.T, expect, actual Argument) {
	t.Helper()
	assert.Equal(t, expect.Name, actual.Name)
	assert.Equal(t, expect.Type, actual.Type)
	assert.Equal(t, expect.Optional, actual.Optional)
	assert.Equal(t, expect.Enum, actual.Enum)
	assert.True(t, expect.Default.Equal(actual.Default), "default %v != %v", expect.Default, actual.Default)
	assert.True(t, expect.Origin.Equal(actual.Origin), "origin %v != %v", expect.Origin, actual.Origin)
}
