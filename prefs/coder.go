package prefs

import (
	"math"
)

// Coder converts a typed value to its raw JSON compatible form and back.
//
// Encode returning nil means the value has no stored form and the key should
// be removed. Decode never fails loudly: it returns false when the raw value
// cannot be interpreted at all, and coders with a natural fallback (fonts,
// colors) return that fallback with true instead.
type Coder[V any] interface {
	Encode(v V) any
	Decode(raw any) (V, bool)
}

// CoderFuncs adapts a pair of functions to Coder.
type CoderFuncs[V any] struct {
	EncodeFunc func(V) any
	DecodeFunc func(any) (V, bool)
}

func (c CoderFuncs[V]) Encode(v V) any {
	return c.EncodeFunc(v)
}

func (c CoderFuncs[V]) Decode(raw any) (V, bool) {
	return c.DecodeFunc(raw)
}

type boolCoder struct{}

// Bool stores booleans as JSON booleans.
var Bool Coder[bool] = boolCoder{}

func (boolCoder) Encode(v bool) any {
	return v
}

func (boolCoder) Decode(raw any) (bool, bool) {
	v, ok := raw.(bool)
	return v, ok
}

type floatCoder struct{}

// Float stores floating point numbers as JSON numbers.
var Float Coder[float64] = floatCoder{}

func (floatCoder) Encode(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

func (floatCoder) Decode(raw any) (float64, bool) {
	v, ok := raw.(float64)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

type intCoder struct{}

// Int stores integers as JSON numbers, fractional numbers do not decode.
var Int Coder[int] = intCoder{}

func (intCoder) Encode(v int) any {
	return float64(v)
}

func (intCoder) Decode(raw any) (int, bool) {
	v, ok := raw.(float64)
	if !ok || v != math.Trunc(v) || v > math.MaxInt32 || v < math.MinInt32 {
		return 0, false
	}
	return int(v), true
}

type stringCoder struct{}

// String stores strings as JSON strings, empty string has no stored form.
var String Coder[string] = stringCoder{}

func (stringCoder) Encode(v string) any {
	if len(v) == 0 {
		return nil
	}
	return v
}

func (stringCoder) Decode(raw any) (string, bool) {
	v, ok := raw.(string)
	return v, ok
}

// Enum stores enumeration values by their names, using parse to decode.
// Unknown names do not decode.
func Enum[E interface {
	comparable
	String() string
}](parse func(string) (E, error)) Coder[E] {
	return CoderFuncs[E]{
		EncodeFunc: func(v E) any {
			return v.String()
		},
		DecodeFunc: func(raw any) (E, bool) {
			var zero E
			name, ok := raw.(string)
			if !ok {
				return zero, false
			}
			v, err := parse(name)
			if err != nil {
				return zero, false
			}
			return v, true
		},
	}
}
