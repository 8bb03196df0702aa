package view

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Kind discriminates the variants of a Value
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindLookup
	KindLookupMulti
)

// LookupRef is a reference to an item in another list
type LookupRef struct {
	ID    string `json:"LookupId"`
	Value string `json:"LookupValue"`
}

// Value is a field value of a row. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	num  float64
	str  string
	refs []LookupRef
}

// Null returns the null value
func Null() Value { return Value{} }

// Bool returns a boolean value
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a numeric value
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// String returns a text value
func String(s string) Value { return Value{kind: KindString, str: s} }

// Lookup returns a single-valued reference
func Lookup(ref LookupRef) Value { return Value{kind: KindLookup, refs: []LookupRef{ref}} }

// LookupMulti returns a multi-valued reference
func LookupMulti(refs []LookupRef) Value {
	cp := make([]LookupRef, len(refs))
	copy(cp, refs)
	return Value{kind: KindLookupMulti, refs: cp}
}

// Kind returns the variant held by v
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean held by v
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsNumber returns the number held by v, without coercion
func (v Value) AsNumber() (float64, bool) { return v.num, v.kind == KindNumber }

// AsText returns the string held by v, without coercion
func (v Value) AsText() (string, bool) { return v.str, v.kind == KindString }

// Refs returns the references held by a lookup value
func (v Value) Refs() []LookupRef {
	if v.kind != KindLookup && v.kind != KindLookupMulti {
		return nil
	}
	return v.refs
}

// String renders v as text. Null renders empty and lookups render their display values.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return formatNumber(v.num)
	case KindString:
		return v.str
	case KindLookup, KindLookupMulti:
		vals := make([]string, len(v.refs))
		for i, r := range v.refs {
			vals[i] = r.Value
		}
		return strings.Join(vals, "; ")
	default:
		return ""
	}
}

// Interface returns v as a plain Go value
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.num
	case KindString:
		return v.str
	case KindLookup:
		return v.refs[0]
	case KindLookupMulti:
		return v.refs
	default:
		return nil
	}
}

// MarshalJSON encodes v as its plain JSON value; lookups use the {LookupId, LookupValue} shape
func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == KindNumber && (math.IsNaN(v.num) || math.IsInf(v.num, 0)) {
		return []byte("null"), nil
	}
	return json.Marshal(v.Interface())
}

// UnmarshalJSON decodes any JSON value through ValueOf
func (v *Value) UnmarshalJSON(b []byte) error {
	var raw interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*v = ValueOf(raw)
	return nil
}

// Equal reports whether two values hold the same variant and content
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.b == o.b
	case KindNumber:
		return v.num == o.num || (math.IsNaN(v.num) && math.IsNaN(o.num))
	case KindString:
		return v.str == o.str
	case KindLookup, KindLookupMulti:
		if len(v.refs) != len(o.refs) {
			return false
		}
		for i := range v.refs {
			if v.refs[i] != o.refs[i] {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ValueOf converts a decoded value into a Value.
//
// Maps carrying a LookupId key become lookups and slices of such maps become
// multi-lookups. Numeric kinds become numbers. Anything else that is not a
// bool or string is rendered with %v.
func ValueOf(raw interface{}) Value {
	switch val := raw.(type) {
	case nil:
		return Null()
	case Value:
		return val
	case bool:
		return Bool(val)
	case string:
		return String(val)
	case []byte:
		return String(string(val))
	case time.Time:
		return String(val.UTC().Format(time.RFC3339))
	case LookupRef:
		return Lookup(val)
	case []LookupRef:
		return LookupMulti(val)
	case map[string]interface{}:
		if ref, ok := lookupRefOf(val); ok {
			return Lookup(ref)
		}
		return String(fmt.Sprintf("%v", val))
	case []interface{}:
		refs := make([]LookupRef, 0, len(val))
		for _, item := range val {
			m, ok := item.(map[string]interface{})
			if !ok {
				return String(fmt.Sprintf("%v", val))
			}
			ref, ok := lookupRefOf(m)
			if !ok {
				return String(fmt.Sprintf("%v", val))
			}
			refs = append(refs, ref)
		}
		return LookupMulti(refs)
	}

	if f, ok := toFloat64(raw); ok {
		return Number(f)
	}

	// Pointers produced by optional parquet columns
	rv := reflect.ValueOf(raw)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return Null()
		}
		return ValueOf(rv.Elem().Interface())
	}

	return String(fmt.Sprintf("%v", raw))
}

func lookupRefOf(m map[string]interface{}) (LookupRef, bool) {
	id, ok := m["LookupId"]
	if !ok {
		return LookupRef{}, false
	}
	ref := LookupRef{ID: ValueOf(id).String()}
	if display, ok := m["LookupValue"]; ok {
		ref.Value = ValueOf(display).String()
	}
	return ref, true
}

// toFloat64 converts a Go numeric value to float64 if possible
func toFloat64(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int8:
		return float64(val), true
	case int16:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint8:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// leadingFloat matches the longest numeric prefix of a string
var leadingFloat = regexp.MustCompile(`^[+-]?(Infinity|(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?)`)

// parseFloat parses the numeric prefix of s, ignoring leading whitespace
// and trailing garbage ("12px" is 12). It returns NaN when s has no numeric prefix.
func parseFloat(s string) float64 {
	m := leadingFloat.FindString(strings.TrimLeft(s, " \t\n\r\v\f"))
	if m == "" {
		return math.NaN()
	}
	switch m {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		// Out of range exponents still carry a sign
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
			return f
		}
		return math.NaN()
	}
	return f
}

// ToNumber coerces v to a number: booleans are 1 or 0, numbers are
// returned as-is, strings are parsed by numeric prefix. Null, lookups and
// unparsable strings are NaN.
func ToNumber(v Value) float64 {
	switch v.kind {
	case KindBool:
		if v.b {
			return 1
		}
		return 0
	case KindNumber:
		return v.num
	case KindString:
		return parseFloat(v.str)
	default:
		return math.NaN()
	}
}
