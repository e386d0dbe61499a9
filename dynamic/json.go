package dynamic

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// MarshalJSON converts v into its natural JSON form. None is null, lists are
// arrays, and maps are objects with keys written in insertion order.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case None:
		return []byte("null"), nil
	case Bool:
		return json.Marshal(v.b)
	case Integer:
		return json.Marshal(v.i)
	case Number:
		data, err := json.Marshal(v.f)
		if err != nil {
			return nil, err
		}
		// keep a decimal point so the value decodes back as a Number
		if !bytes.ContainsAny(data, ".eE") {
			data = append(data, []byte(".0")...)
		}
		return data, nil
	case String:
		return json.Marshal(v.s)
	case List:
		return v.l.MarshalJSON()
	case Map:
		return v.m.MarshalJSON()
	default:
		return nil, fmt.Errorf("unrecognized dynamic value kind: %v", v.kind)
	}
}

// UnmarshalJSON sets v from JSON data. Integral JSON numbers become Integer
// and all others become Number. Object key order is preserved.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	decoded, err := decodeJSONValue(dec)
	if err != nil {
		return err
	}

	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("unexpected data after top-level value")
	}

	*v = decoded
	return nil
}

// MarshalJSON converts l into a JSON array.
func (l *ListValue) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i := 0; i < l.Len(); i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		item, err := l.items[i].MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		buf.Write(item)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// MarshalJSON converts m into a JSON object whose keys are in insertion order.
func (m *MapValue) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyData, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(keyData)
		buf.WriteByte(':')

		valData, err := m.vals[k].MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		buf.Write(valData)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func decodeJSONValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Value{}, io.ErrUnexpectedEOF
		}
		return Value{}, err
	}

	switch typedTok := tok.(type) {
	case nil:
		return Value{}, nil
	case bool:
		return NewBool(typedTok), nil
	case string:
		return NewString(typedTok), nil
	case json.Number:
		return numberFromJSON(typedTok)
	case json.Delim:
		switch typedTok {
		case '[':
			l := NewList()
			for dec.More() {
				item, err := decodeJSONValue(dec)
				if err != nil {
					return Value{}, err
				}
				l.Put(item)
			}
			// consume closing bracket
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return NewListValue(l), nil
		case '{':
			m := NewMap()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("object key is not a string")
				}
				item, err := decodeJSONValue(dec)
				if err != nil {
					return Value{}, fmt.Errorf("key %q: %w", key, err)
				}
				m.Put(key, item)
			}
			// consume closing brace
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return NewMapValue(m), nil
		default:
			return Value{}, fmt.Errorf("unexpected delimiter %q", rune(typedTok))
		}
	default:
		return Value{}, fmt.Errorf("unexpected JSON token %v", tok)
	}
}

func numberFromJSON(n json.Number) (Value, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		i, err := strconv.Atoi(s)
		if err == nil {
			return NewInt(i), nil
		}
		// too big for an int; fall through and keep it as a Number
	}
	f, err := n.Float64()
	if err != nil {
		return Value{}, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return NewNumber(f), nil
}
