package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ValueKind tags the variant held by a Value.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindObject
)

// Value is a JSON value of statically unknown shape, used for
// provider-specific model parameters and storage metadata. It round-trips
// null, integer, float, boolean, string, array and string-keyed-object
// values recursively.
//
// Equality on composite variants is intentionally shallow: arrays compare by
// length and objects by key set. Callers must not rely on deep structural
// equality for wrapped arrays or objects.
type Value struct {
	kind     ValueKind
	boolVal  bool
	intVal   int64
	floatVal float64
	strVal   string
	arrVal   []Value
	objVal   map[string]Value
}

func NullValue() Value            { return Value{kind: KindNull} }
func BoolValue(b bool) Value      { return Value{kind: KindBool, boolVal: b} }
func IntValue(i int64) Value      { return Value{kind: KindInt, intVal: i} }
func FloatValue(f float64) Value  { return Value{kind: KindFloat, floatVal: f} }
func StringValue(s string) Value  { return Value{kind: KindString, strVal: s} }
func ArrayValue(a []Value) Value  { return Value{kind: KindArray, arrVal: a} }
func ObjectValue(o map[string]Value) Value {
	return Value{kind: KindObject, objVal: o}
}

// Kind returns the variant tag.
func (v Value) Kind() ValueKind { return v.kind }

func (v Value) Bool() (bool, bool)      { return v.boolVal, v.kind == KindBool }
func (v Value) Int() (int64, bool)      { return v.intVal, v.kind == KindInt }
func (v Value) Float() (float64, bool)  { return v.floatVal, v.kind == KindFloat }
func (v Value) Text() (string, bool)    { return v.strVal, v.kind == KindString }
func (v Value) Array() ([]Value, bool)  { return v.arrVal, v.kind == KindArray }
func (v Value) Object() (map[string]Value, bool) {
	return v.objVal, v.kind == KindObject
}

// Equal compares two values. Scalars compare by value; arrays compare by
// length only and objects by key set only (see type doc).
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.boolVal == o.boolVal
	case KindInt:
		return v.intVal == o.intVal
	case KindFloat:
		return v.floatVal == o.floatVal
	case KindString:
		return v.strVal == o.strVal
	case KindArray:
		return len(v.arrVal) == len(o.arrVal)
	case KindObject:
		if len(v.objVal) != len(o.objVal) {
			return false
		}
		for k := range v.objVal {
			if _, ok := o.objVal[k]; !ok {
				return false
			}
		}
		return true
	}
	return false
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.boolVal)
	case KindInt:
		return json.Marshal(v.intVal)
	case KindFloat:
		return json.Marshal(v.floatVal)
	case KindString:
		return json.Marshal(v.strVal)
	case KindArray:
		if v.arrVal == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.arrVal)
	case KindObject:
		if v.objVal == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(v.objVal)
	}
	return nil, fmt.Errorf("unknown value kind %d", v.kind)
}

// UnmarshalJSON implements json.Unmarshaler. Numbers without a fractional or
// exponent part become KindInt; everything else numeric becomes KindFloat.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	parsed, err := valueFromAny(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func valueFromAny(raw any) (Value, error) {
	switch t := raw.(type) {
	case nil:
		return NullValue(), nil
	case bool:
		return BoolValue(t), nil
	case string:
		return StringValue(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return IntValue(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("unparseable number %q", t.String())
		}
		return FloatValue(f), nil
	case []any:
		arr := make([]Value, 0, len(t))
		for _, el := range t {
			parsed, err := valueFromAny(el)
			if err != nil {
				return Value{}, err
			}
			arr = append(arr, parsed)
		}
		return ArrayValue(arr), nil
	case map[string]any:
		obj := make(map[string]Value, len(t))
		for k, el := range t {
			parsed, err := valueFromAny(el)
			if err != nil {
				return Value{}, err
			}
			obj[k] = parsed
		}
		return ObjectValue(obj), nil
	}
	return Value{}, fmt.Errorf("unsupported JSON value of type %T", raw)
}
