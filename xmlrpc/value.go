// Package xmlrpc implements the subset of XML-RPC needed to serve the
// MetaWeblog/MovableType dialect: decoding an inbound methodCall into typed
// values and encoding methodResponse/fault documents.
package xmlrpc

import (
	"fmt"
	"strconv"
	"time"
)

// Kind enumerates the XML-RPC value types.
type Kind int

const (
	Invalid Kind = iota
	String
	Int
	Bool
	Double
	Base64
	DateTime
	Array
	Struct
)

// Value is one decoded XML-RPC value. The zero Value has Kind Invalid and
// coerces to zero values of every Go type, which keeps optional-field
// handling in callers simple.
type Value struct {
	kind   Kind
	str    string
	num    int
	boolv  bool
	dbl    float64
	bytes  []byte
	t      time.Time
	list   []Value
	fields map[string]Value
}

func NewString(s string) Value  { return Value{kind: String, str: s} }
func NewInt(i int) Value        { return Value{kind: Int, num: i} }
func NewBool(b bool) Value      { return Value{kind: Bool, boolv: b} }
func NewDouble(f float64) Value { return Value{kind: Double, dbl: f} }
func NewBase64(b []byte) Value  { return Value{kind: Base64, bytes: b} }
func NewTime(t time.Time) Value { return Value{kind: DateTime, t: t} }
func NewArray(vs []Value) Value { return Value{kind: Array, list: vs} }

func NewStringArray(ss []string) Value {
	vs := make([]Value, 0, len(ss))
	for _, s := range ss {
		vs = append(vs, NewString(s))
	}
	return Value{kind: Array, list: vs}
}

func NewStruct(fields map[string]Value) Value { return Value{kind: Struct, fields: fields} }

func (v Value) Kind() Kind { return v.kind }

// AsString coerces scalar values to their string form. Clients disagree on
// whether ids are sent as <int> or <string>, so both are accepted wherever
// the catalog expects a string.
func (v Value) AsString() string {
	switch v.kind {
	case String:
		return v.str
	case Int:
		return strconv.Itoa(v.num)
	case Double:
		return strconv.FormatFloat(v.dbl, 'g', -1, 64)
	case Bool:
		if v.boolv {
			return "1"
		}
		return "0"
	case DateTime:
		return v.t.Format(iso8601)
	default:
		return ""
	}
}

// AsInt coerces a scalar to an int; non-numeric values yield 0.
func (v Value) AsInt() int {
	switch v.kind {
	case Int:
		return v.num
	case Double:
		return int(v.dbl)
	case Bool:
		if v.boolv {
			return 1
		}
		return 0
	case String:
		n, err := strconv.Atoi(v.str)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// AsBool coerces booleans sent as <boolean>, <int> or string "1"/"true".
func (v Value) AsBool() bool {
	switch v.kind {
	case Bool:
		return v.boolv
	case Int:
		return v.num != 0
	case Double:
		return v.dbl != 0
	case String:
		return v.str == "1" || v.str == "true"
	default:
		return false
	}
}

// AsBytes returns base64 payload bytes. Some clients send binary payloads
// as plain strings; those are returned verbatim.
func (v Value) AsBytes() []byte {
	switch v.kind {
	case Base64:
		return v.bytes
	case String:
		return []byte(v.str)
	default:
		return nil
	}
}

// AsTime returns the dateTime payload, or the zero time for other kinds.
func (v Value) AsTime() time.Time {
	if v.kind == DateTime {
		return v.t
	}
	return time.Time{}
}

// Values returns array elements; nil for non-arrays.
func (v Value) Values() []Value {
	if v.kind != Array {
		return nil
	}
	return v.list
}

// AsStrings flattens an array value into its elements' string forms.
func (v Value) AsStrings() []string {
	if v.kind != Array {
		return nil
	}
	out := make([]string, 0, len(v.list))
	for _, e := range v.list {
		out = append(out, e.AsString())
	}
	return out
}

// Field looks up a struct member. The second return reports presence, so
// callers can distinguish an absent optional field from an empty one.
func (v Value) Field(name string) (Value, bool) {
	if v.kind != Struct {
		return Value{}, false
	}
	f, ok := v.fields[name]
	return f, ok
}

// Fault is an XML-RPC protocol fault, returned to the caller in place of a
// result.
type Fault struct {
	Code   int
	String string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("xmlrpc fault %d: %s", f.Code, f.String)
}
