package analysis

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	}
	return "null"
}

// Value is an arbitrary provider JSON value. The zero Value is null. Lookups on a
// value of the wrong kind return null instead of panicking, so deep paths such as
// v.Get("documents").Index(0).Get("fields") are always safe.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	obj  map[string]Value
	arr  []Value
}

func Null() Value                     { return Value{} }
func String(s string) Value           { return Value{kind: KindString, str: s} }
func Number(n float64) Value          { return Value{kind: KindNumber, num: n} }
func Bool(b bool) Value               { return Value{kind: KindBool, b: b} }
func Object(m map[string]Value) Value { return Value{kind: KindObject, obj: m} }
func Array(items ...Value) Value      { return Value{kind: KindArray, arr: items} }

// FromAny converts the output of encoding/json (with or without UseNumber) into a Value.
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case string:
		return String(t)
	case bool:
		return Bool(t)
	case float64:
		return Number(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return String(t.String())
		}
		return Number(f)
	case int:
		return Number(float64(t))
	case map[string]any:
		m := make(map[string]Value, len(t))
		for k, v := range t {
			m[k] = FromAny(v)
		}
		return Object(m)
	case []any:
		arr := make([]Value, len(t))
		for i, v := range t {
			arr[i] = FromAny(v)
		}
		return Array(arr...)
	case map[string]Value:
		return Object(t)
	case []Value:
		return Array(t...)
	case Value:
		return t
	}
	return Null()
}

// Any converts v back into plain Go values.
func (v Value) Any() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	case KindObject:
		m := make(map[string]any, len(v.obj))
		for k, e := range v.obj {
			m[k] = e.Any()
		}
		return m
	case KindArray:
		arr := make([]any, len(v.arr))
		for i, e := range v.arr {
			arr[i] = e.Any()
		}
		return arr
	}
	return nil
}

func (v Value) Kind() Kind     { return v.kind }
func (v Value) IsNull() bool   { return v.kind == KindNull }
func (v Value) IsObject() bool { return v.kind == KindObject }
func (v Value) IsArray() bool  { return v.kind == KindArray }

// Str returns the string held by v, or "".
func (v Value) Str() string {
	if v.kind == KindString {
		return v.str
	}
	return ""
}

// Num returns the number held by v.
func (v Value) Num() (float64, bool) {
	if v.kind == KindNumber {
		return v.num, true
	}
	return 0, false
}

// Text renders scalars as text: strings as-is, numbers in shortest form, bools as
// true/false. Objects, arrays and null render as "".
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	}
	return ""
}

// Get returns the member key of an object, or null.
func (v Value) Get(key string) Value {
	if v.kind != KindObject {
		return Value{}
	}
	return v.obj[key]
}

// Has reports whether v is an object holding key.
func (v Value) Has(key string) bool {
	if v.kind != KindObject {
		return false
	}
	_, ok := v.obj[key]
	return ok
}

// Path follows a chain of object keys.
func (v Value) Path(keys ...string) Value {
	cur := v
	for _, k := range keys {
		cur = cur.Get(k)
	}
	return cur
}

// Index returns element i of an array, or null.
func (v Value) Index(i int) Value {
	if v.kind != KindArray || i < 0 || i >= len(v.arr) {
		return Value{}
	}
	return v.arr[i]
}

// Len is the number of members of an object or elements of an array.
func (v Value) Len() int {
	switch v.kind {
	case KindObject:
		return len(v.obj)
	case KindArray:
		return len(v.arr)
	}
	return 0
}

// Elems returns the elements of an array; nil for any other kind.
func (v Value) Elems() []Value {
	if v.kind != KindArray {
		return nil
	}
	return v.arr
}

// Members returns the object members; nil for any other kind.
func (v Value) Members() map[string]Value {
	if v.kind != KindObject {
		return nil
	}
	return v.obj
}

// Keys returns the object keys in sorted order.
func (v Value) Keys() []string {
	if v.kind != KindObject {
		return nil
	}
	keys := make([]string, 0, len(v.obj))
	for k := range v.obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var x any
	if err := dec.Decode(&x); err != nil {
		return err
	}
	*v = FromAny(x)
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Any())
}
