package ir

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Kind classifies a Value for comparison purposes.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindTime
	KindOpaque
)

var kindNames = [...]string{
	KindNull:   "Null",
	KindBool:   "Bool",
	KindInt:    "Int",
	KindFloat:  "Float",
	KindString: "String",
	KindTime:   "Time",
	KindOpaque: "Opaque",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Value is a sealed interface over the runtime values a clause can observe.
// Only Null, Bool, Int, Float, String, Time and Opaque implement it, so a
// type switch over a Value is exhaustive.
//
// The kind of a value is decided once, when a literal is parsed or when a
// row adapter hands a field value to the engine.
type Value interface {
	Kind() Kind
	String() string
	value()
}

// Null is the absent value. Rows report missing fields as Null.
type Null struct{}

func (Null) value()         {}
func (Null) Kind() Kind     { return KindNull }
func (Null) String() string { return "NULL" }

// Bool is a boolean value.
type Bool bool

func (Bool) value()     {}
func (Bool) Kind() Kind { return KindBool }

func (b Bool) String() string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

// Int is any whole-number value, held as a signed 64-bit integer.
type Int int64

func (Int) value()           {}
func (Int) Kind() Kind       { return KindInt }
func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

// Float is any fractional numeric value.
type Float float64

func (Float) value()     {}
func (Float) Kind() Kind { return KindFloat }

// String renders the float so that it never reads back as an integer:
// 2.0 prints as "2.0", not "2".
func (f Float) String() string {
	s := strconv.FormatFloat(float64(f), 'g', -1, 64)
	if math.IsInf(float64(f), 0) || math.IsNaN(float64(f)) {
		return s
	}
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// String is a text value. Comparison is ordinal (byte order).
type String string

func (String) value()     {}
func (String) Kind() Kind { return KindString }

// String renders the value as a clause literal, doubling embedded quotes.
func (s String) String() string {
	return "'" + strings.ReplaceAll(string(s), "'", "''") + "'"
}

// Time is a date/time value. Comparison uses the instant, not the location.
type Time struct {
	t time.Time
}

// NewTime wraps t as a Value.
func NewTime(t time.Time) Time {
	return Time{t: t}
}

func (Time) value()     {}
func (Time) Kind() Kind { return KindTime }

// Time returns the wrapped time.
func (v Time) Time() time.Time { return v.t }

func (v Time) String() string {
	return "'" + v.t.Format(time.RFC3339Nano) + "'"
}

// Opaque carries a host value that fits none of the other kinds. It can be
// tested for NULL but any comparison against it is a type mismatch.
type Opaque struct {
	V any
}

func (Opaque) value()     {}
func (Opaque) Kind() Kind { return KindOpaque }

func (o Opaque) String() string {
	return fmt.Sprintf("%v", o.V)
}

// TypeName names the Go type behind the value, for diagnostics.
func (o Opaque) TypeName() string {
	return fmt.Sprintf("%T", o.V)
}

// IsNull reports whether v is absent: a nil interface or Null.
func IsNull(v Value) bool {
	return v == nil || v.Kind() == KindNull
}

// TypeName describes the runtime type of v for error messages.
func TypeName(v Value) string {
	if v == nil {
		return KindNull.String()
	}
	if o, ok := v.(Opaque); ok {
		return "Opaque(" + o.TypeName() + ")"
	}
	return v.Kind().String()
}

// FromAny classifies a host value into a Value.
//
// Go integer types (signed or unsigned, including named types) become Int;
// unsigned values beyond the int64 range become Float. float32 and float64
// become Float even when they hold a whole number: classification follows
// the representation, not the magnitude. []byte becomes String. Anything
// unrecognised is wrapped in Opaque.
func FromAny(v any) Value {
	switch x := v.(type) {
	case nil:
		return Null{}
	case Value:
		return x
	case bool:
		return Bool(x)
	case int:
		return Int(x)
	case int8:
		return Int(x)
	case int16:
		return Int(x)
	case int32:
		return Int(x)
	case int64:
		return Int(x)
	case uint:
		return fromUint(uint64(x))
	case uint8:
		return Int(x)
	case uint16:
		return Int(x)
	case uint32:
		return Int(x)
	case uint64:
		return fromUint(x)
	case float32:
		return Float(x)
	case float64:
		return Float(x)
	case string:
		return String(x)
	case []byte:
		return String(x)
	case time.Time:
		return NewTime(x)
	case *time.Time:
		if x == nil {
			return Null{}
		}
		return NewTime(*x)
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return Int(i)
		}
		if f, err := x.Float64(); err == nil {
			return Float(f)
		}
		return Opaque{V: x}
	case *big.Int:
		if x == nil {
			return Null{}
		}
		if x.IsInt64() {
			return Int(x.Int64())
		}
		f, _ := new(big.Float).SetInt(x).Float64()
		return Float(f)
	}
	return fromReflect(v)
}

func fromUint(u uint64) Value {
	if u > math.MaxInt64 {
		return Float(float64(u))
	}
	return Int(int64(u))
}

// fromReflect handles named scalar types such as `type Level int`.
func fromReflect(v any) Value {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return Null{}
		}
		return FromAny(rv.Elem().Interface())
	case reflect.Bool:
		return Bool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return fromUint(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float())
	case reflect.String:
		return String(rv.String())
	}
	return Opaque{V: v}
}

// ToAny converts a Value back to a plain Go value, the inverse of FromAny
// for the scalar kinds. Time values come back as time.Time.
func ToAny(v Value) any {
	switch x := v.(type) {
	case nil, Null:
		return nil
	case Bool:
		return bool(x)
	case Int:
		return int64(x)
	case Float:
		return float64(x)
	case String:
		return string(x)
	case Time:
		return x.t
	case Opaque:
		return x.V
	}
	return nil
}
