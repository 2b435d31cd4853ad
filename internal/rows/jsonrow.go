package rows

import (
	"encoding/json"
	"fmt"

	"github.com/valyala/fastjson"

	"github.com/roach88/sieve/internal/ir"
)

// JSONRow reads fields from a parsed JSON object without copying it.
//
// The underlying value belongs to the fastjson.Parser that produced it and
// is only valid until that parser parses again.
type JSONRow struct {
	obj *fastjson.Object
}

// NewJSONRow wraps v, which must be a JSON object.
func NewJSONRow(v *fastjson.Value) (*JSONRow, error) {
	obj, err := v.Object()
	if err != nil {
		return nil, fmt.Errorf("row must be a JSON object, got %s", v.Type())
	}
	return &JSONRow{obj: obj}, nil
}

// ParseJSONRow parses data with a private parser and wraps the result.
func ParseJSONRow(data []byte) (*JSONRow, error) {
	var p fastjson.Parser
	v, err := p.ParseBytes(data)
	if err != nil {
		return nil, err
	}
	return NewJSONRow(v)
}

func (r *JSONRow) lookup(name string) *fastjson.Value {
	if v := r.obj.Get(name); v != nil {
		return v
	}
	folded := foldName(name)
	var found *fastjson.Value
	r.obj.Visit(func(key []byte, v *fastjson.Value) {
		if found == nil && foldName(string(key)) == folded {
			found = v
		}
	})
	return found
}

// Exists reports whether the object has a member called name.
func (r *JSONRow) Exists(name string) bool {
	return r.lookup(name) != nil
}

// Value returns member name converted to an ir.Value. Numbers that parse
// as int64 become Int and all others Float. Arrays and objects are Opaque.
func (r *JSONRow) Value(name string) ir.Value {
	v := r.lookup(name)
	if v == nil {
		return nil
	}
	return jsonValue(v)
}

// MapRow copies the object into a MapRow that outlives the parser.
func (r *JSONRow) MapRow() *MapRow {
	m := &MapRow{fields: make(map[string]field, r.obj.Len())}
	r.obj.Visit(func(key []byte, v *fastjson.Value) {
		name := string(key)
		m.fields[foldName(name)] = field{name: name, value: jsonValue(v)}
	})
	return m
}

func jsonValue(v *fastjson.Value) ir.Value {
	switch v.Type() {
	case fastjson.TypeNull:
		return ir.Null{}
	case fastjson.TypeTrue:
		return ir.Bool(true)
	case fastjson.TypeFalse:
		return ir.Bool(false)
	case fastjson.TypeNumber:
		if i, err := v.Int64(); err == nil {
			return ir.Int(i)
		}
		f, _ := v.Float64()
		return ir.Float(f)
	case fastjson.TypeString:
		return ir.String(v.GetStringBytes())
	}
	return ir.Opaque{V: json.RawMessage(v.MarshalTo(nil))}
}
