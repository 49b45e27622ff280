package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"unicode/utf16"
)

// Value is a sealed interface over the JSON-shaped values a transition
// document may carry. Only Null, Bool, Number, String, Array, and Object
// implement it.
//
// Documents are foreign data authored by an external editor, so every JSON
// shape must survive normalization: null and fractional numbers are
// representable here, unlike stricter canonical-IR profiles.
type Value interface {
	value() // Sealed - only these types implement it
}

// Null represents a JSON null.
// Using an explicit type keeps nil out of the sealed interface.
type Null struct{}

func (Null) value() {}

// MarshalJSON implements json.Marshaler for Null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// Bool represents a JSON boolean.
type Bool bool

func (Bool) value() {}

// Number represents a JSON number as its source literal.
// CRITICAL: the literal is preserved verbatim ("1.50" stays "1.50", never
// "1.5"), so canonical serialization is byte-stable without any
// floating-point re-formatting.
type Number string

func (Number) value() {}

// MarshalJSON emits the preserved literal. A literal that is not a valid
// JSON number (possible only through direct construction) is emitted as a
// quoted string rather than corrupting the output.
func (n Number) MarshalJSON() ([]byte, error) {
	if json.Valid([]byte(n)) {
		return []byte(n), nil
	}
	return json.Marshal(string(n))
}

// String represents a JSON string.
type String string

func (String) value() {}

// Array represents an ordered list of Values.
type Array []Value

func (Array) value() {}

// Object represents a map of string keys to Values.
// Use SortedKeys() for deterministic iteration.
type Object map[string]Value

func (Object) value() {}

// NumberFromInt builds a Number from an integer.
func NumberFromInt(n int64) Number {
	return Number(strconv.FormatInt(n, 10))
}

// NumberFromFloat builds a Number from a float. The shortest round-trip
// representation is used so the same float always yields the same literal.
func NumberFromFloat(f float64) Number {
	return Number(strconv.FormatFloat(f, 'g', -1, 64))
}

// FromAny converts a decoded JSON/YAML value into a Value. Total function:
// unrecognized types degrade to Null rather than failing, matching the
// never-throw posture of the extraction pipeline.
func FromAny(v any) Value {
	switch val := v.(type) {
	case nil:
		return Null{}
	case Value:
		return val
	case bool:
		return Bool(val)
	case string:
		return String(val)
	case json.Number:
		return Number(val)
	case int:
		return NumberFromInt(int64(val))
	case int64:
		return NumberFromInt(val)
	case uint64:
		return Number(strconv.FormatUint(val, 10))
	case float64:
		return NumberFromFloat(val)
	case []any:
		arr := make(Array, len(val))
		for i, elem := range val {
			arr[i] = FromAny(elem)
		}
		return arr
	case map[string]any:
		obj := make(Object, len(val))
		for k, elem := range val {
			obj[k] = FromAny(elem)
		}
		return obj
	default:
		return Null{}
	}
}

// DecodeValue parses JSON into a Value. Numbers keep their source literal
// via json.Number. The only failure mode is malformed JSON.
func DecodeValue(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return FromAny(raw), nil
}

// AsString unwraps a String value.
func AsString(v Value) (string, bool) {
	s, ok := v.(String)
	return string(s), ok
}

// SortedKeys returns keys in RFC 8785 canonical order (UTF-16 code units).
// CRITICAL: Go's sort.Strings uses UTF-8 which produces DIFFERENT order.
func (obj Object) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysRFC8785)
	return keys
}

// compareKeysRFC8785 compares strings by UTF-16 code units as required by
// RFC 8785 (Canonical JSON).
// CRITICAL: Must use unicode/utf16.Encode for correct surrogate handling.
func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	minLen := len(a16)
	if len(b16) < minLen {
		minLen = len(b16)
	}

	for i := 0; i < minLen; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	if len(a16) < len(b16) {
		return -1
	}
	if len(a16) > len(b16) {
		return 1
	}
	return 0
}

// MarshalJSON implements json.Marshaler for Object with sorted keys.
// NOTE: This is display serialization, not canonical - strings may be
// HTML-escaped. Use MarshalCanonical for content-addressed hashing.
func (obj Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, k := range obj.SortedKeys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", k, err)
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')

		valBytes, err := MarshalValue(obj[k])
		if err != nil {
			return nil, fmt.Errorf("marshal value for key %q: %w", k, err)
		}
		buf.Write(valBytes)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON implements json.Marshaler for Array.
func (arr Array) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')

	for i, elem := range arr {
		if i > 0 {
			buf.WriteByte(',')
		}
		elemBytes, err := MarshalValue(elem)
		if err != nil {
			return nil, fmt.Errorf("array[%d]: %w", i, err)
		}
		buf.Write(elemBytes)
	}

	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// MarshalValue marshals a Value to display JSON bytes.
// NOTE: not canonical; use MarshalCanonical for hashing.
func MarshalValue(v Value) ([]byte, error) {
	switch val := v.(type) {
	case nil:
		return []byte("null"), nil
	case Null:
		return []byte("null"), nil
	case Bool:
		return json.Marshal(bool(val))
	case Number:
		return val.MarshalJSON()
	case String:
		return json.Marshal(string(val))
	case Array:
		return val.MarshalJSON()
	case Object:
		return val.MarshalJSON()
	default:
		return nil, fmt.Errorf("unknown Value type: %T", v)
	}
}
