package dynamic

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Value_AsNumber(t *testing.T) {
	testCases := []struct {
		name     string
		input    Value
		expect   float64
		expectOK bool
	}{
		{name: "number", input: NewNumber(2.5), expect: 2.5, expectOK: true},
		{name: "integer is accepted as number", input: NewInt(4), expect: 4.0, expectOK: true},
		{name: "string is not a number", input: NewString("4"), expectOK: false},
		{name: "none is not a number", input: NoneValue(), expectOK: false},
		{name: "bool is not a number", input: NewBool(true), expectOK: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, ok := tc.input.AsNumber()

			assert.Equal(tc.expectOK, ok)
			if tc.expectOK {
				assert.Equal(tc.expect, actual)
			}
		})
	}
}

func Test_Value_AsInt_rejectsNumber(t *testing.T) {
	_, ok := NewNumber(3.0).AsInt()
	assert.False(t, ok)
}

func Test_Value_ToInt(t *testing.T) {
	testCases := []struct {
		name      string
		input     Value
		expect    int
		expectErr bool
	}{
		{name: "integer", input: NewInt(-7), expect: -7},
		{name: "number truncates toward zero", input: NewNumber(-2.9), expect: -2},
		{name: "string fails", input: NewString("x"), expectErr: true},
		{name: "none fails", input: NoneValue(), expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := tc.input.ToInt()
			if tc.expectErr {
				assert.Error(err)
				return
			}
			assert.NoError(err)
			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_Value_Equal(t *testing.T) {
	testCases := []struct {
		name   string
		left   Value
		right  Value
		expect bool
	}{
		{name: "none equals none", left: NoneValue(), right: Value{}, expect: true},
		{name: "same ints", left: NewInt(3), right: NewInt(3), expect: true},
		{name: "integer is not number", left: NewInt(3), right: NewNumber(3), expect: false},
		{name: "different strings", left: NewString("a"), right: NewString("b"), expect: false},
		{
			name:   "lists compare items",
			left:   ValueOf([]Value{NewInt(1), NewString("a")}),
			right:  ValueOf([]Value{NewInt(1), NewString("a")}),
			expect: true,
		},
		{
			name:   "list order matters",
			left:   ValueOf([]Value{NewInt(1), NewInt(2)}),
			right:  ValueOf([]Value{NewInt(2), NewInt(1)}),
			expect: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, tc.left.Equal(tc.right))
		})
	}
}

func Test_Value_String(t *testing.T) {
	testCases := []struct {
		name   string
		input  Value
		expect string
	}{
		{name: "none", input: NoneValue(), expect: "none"},
		{name: "bool", input: NewBool(false), expect: "false"},
		{name: "int", input: NewInt(12), expect: "12"},
		{name: "whole number keeps decimal", input: NewNumber(3), expect: "3.0"},
		{name: "fractional number", input: NewNumber(0.25), expect: "0.25"},
		{name: "string", input: NewString("hi"), expect: "hi"},
		{name: "list", input: ValueOf([]Value{NewInt(1), NewString("a")}), expect: `[1, "a"]`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, tc.input.String())
		})
	}
}

func Test_MapValue_Put(t *testing.T) {
	assert := assert.New(t)

	m := NewMap()
	m.Put("b", NewInt(1))
	m.Put("a", NewInt(2))
	m.Put("b", NewInt(3))

	assert.Equal([]string{"b", "a"}, m.Keys())
	assert.Equal(2, m.Len())

	v, ok := m.Get("b")
	assert.True(ok)
	assert.Equal(NewInt(3), v)

	assert.False(m.Has("c"))
}

func Test_ListValue_Put(t *testing.T) {
	assert := assert.New(t)

	l := NewList()
	l.Put(NewInt(1))
	l.Put(NewString("two"))

	assert.Equal(2, l.Len())
	v, ok := l.Get(1)
	assert.True(ok)
	assert.Equal(NewString("two"), v)

	_, ok = l.Get(2)
	assert.False(ok)
}

func Test_Value_JSON(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		check func(t *testing.T, v Value)
	}{
		{
			name:  "integer stays integer",
			input: `15`,
			check: func(t *testing.T, v Value) {
				assert.Equal(t, NewInt(15), v)
			},
		},
		{
			name:  "fraction is number",
			input: `1.5`,
			check: func(t *testing.T, v Value) {
				assert.Equal(t, NewNumber(1.5), v)
			},
		},
		{
			name:  "null is none",
			input: `null`,
			check: func(t *testing.T, v Value) {
				assert.True(t, v.IsNone())
			},
		},
		{
			name:  "object keeps key order",
			input: `{"z": 1, "a": [true, "x"]}`,
			check: func(t *testing.T, v Value) {
				m, ok := v.AsMap()
				require.True(t, ok)
				assert.Equal(t, []string{"z", "a"}, m.Keys())

				a, _ := m.Get("a")
				assert.Equal(t, ValueOf([]Value{NewBool(true), NewString("x")}), a)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var v Value
			err := json.Unmarshal([]byte(tc.input), &v)
			require.NoError(t, err)
			tc.check(t, v)
		})
	}
}

func Test_Value_MarshalJSON_mapOrder(t *testing.T) {
	m := NewMap()
	m.Put("second", NewNumber(2))
	m.Put("first", NewInt(1))

	data, err := json.Marshal(NewMapValue(m))

	require.NoError(t, err)
	assert.Equal(t, `{"second":2.0,"first":1}`, string(data))
}

func Test_Value_Binary(t *testing.T) {
	m := NewMap()
	m.Put("hp", NewInt(50))
	m.Put("pos", ValueOf([]Value{NewNumber(1.25), NewNumber(-3)}))
	m.Put("name", NewString("steve"))
	m.Put("alive", NewBool(true))
	m.Put("target", NoneValue())
	input := NewMapValue(m)

	data, err := input.MarshalBinary()
	require.NoError(t, err)

	var actual Value
	err = actual.UnmarshalBinary(data)
	require.NoError(t, err)

	assert.True(t, input.Equal(actual))
	actualMap, _ := actual.AsMap()
	assert.Equal(t, m.Keys(), actualMap.Keys())
}
