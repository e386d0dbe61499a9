package dynamic

import (
	"fmt"
	"strconv"

	"github.com/dekarrin/rezi"
)

// MarshalBinary converts v into a slice of bytes that can be decoded with
// UnmarshalBinary. The kind is written first, followed by the data for that
// kind; lists and maps encode each of their elements recursively.
func (v Value) MarshalBinary() ([]byte, error) {
	data := rezi.EncInt(int(v.kind))

	switch v.kind {
	case None:
		// nothing else to write
	case Bool:
		data = append(data, rezi.EncBool(v.b)...)
	case Integer:
		data = append(data, rezi.EncInt(v.i)...)
	case Number:
		// 'g' with -1 precision round-trips exactly through ParseFloat
		data = append(data, rezi.EncString(strconv.FormatFloat(v.f, 'g', -1, 64))...)
	case String:
		data = append(data, rezi.EncString(v.s)...)
	case List:
		data = append(data, rezi.EncInt(v.l.Len())...)
		for i := 0; i < v.l.Len(); i++ {
			data = append(data, rezi.EncBinary(v.l.items[i])...)
		}
	case Map:
		keys := v.m.Keys()
		data = append(data, rezi.EncInt(len(keys))...)
		for _, k := range keys {
			data = append(data, rezi.EncString(k)...)
			data = append(data, rezi.EncBinary(v.m.vals[k])...)
		}
	default:
		return nil, fmt.Errorf("unrecognized dynamic value kind: %v", v.kind)
	}

	return data, nil
}

// UnmarshalBinary decodes a Value previously encoded with MarshalBinary.
func (v *Value) UnmarshalBinary(data []byte) error {
	var n int
	var err error

	var kindNum int
	kindNum, n, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("kind: %w", err)
	}
	data = data[n:]

	decoded := Value{kind: Kind(kindNum)}

	switch decoded.kind {
	case None:
		// no data follows
	case Bool:
		decoded.b, _, err = rezi.DecBool(data)
		if err != nil {
			return fmt.Errorf("boolean: %w", err)
		}
	case Integer:
		decoded.i, _, err = rezi.DecInt(data)
		if err != nil {
			return fmt.Errorf("integer: %w", err)
		}
	case Number:
		var s string
		s, _, err = rezi.DecString(data)
		if err != nil {
			return fmt.Errorf("number: %w", err)
		}
		decoded.f, err = strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("number: %w", err)
		}
	case String:
		decoded.s, _, err = rezi.DecString(data)
		if err != nil {
			return fmt.Errorf("string: %w", err)
		}
	case List:
		var count int
		count, n, err = rezi.DecInt(data)
		if err != nil {
			return fmt.Errorf("list length: %w", err)
		}
		data = data[n:]

		decoded.l = NewList()
		for i := 0; i < count; i++ {
			var item Value
			n, err = rezi.DecBinary(data, &item)
			if err != nil {
				return fmt.Errorf("list item %d: %w", i, err)
			}
			data = data[n:]
			decoded.l.Put(item)
		}
	case Map:
		var count int
		count, n, err = rezi.DecInt(data)
		if err != nil {
			return fmt.Errorf("map length: %w", err)
		}
		data = data[n:]

		decoded.m = NewMap()
		for i := 0; i < count; i++ {
			var key string
			key, n, err = rezi.DecString(data)
			if err != nil {
				return fmt.Errorf("map key %d: %w", i, err)
			}
			data = data[n:]

			var item Value
			n, err = rezi.DecBinary(data, &item)
			if err != nil {
				return fmt.Errorf("map key %q: %w", key, err)
			}
			data = data[n:]
			decoded.m.Put(key, item)
		}
	default:
		return fmt.Errorf("unrecognized dynamic value kind: %d", kindNum)
	}

	*v = decoded
	return nil
}
