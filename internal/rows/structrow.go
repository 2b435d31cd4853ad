package rows

import (
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/roach88/sieve/internal/ir"
)

// StructRow reads fields from a protobuf Struct. Protobuf numbers are
// always doubles, so every number is a Float.
type StructRow struct {
	s *structpb.Struct
}

// NewStructRow wraps s.
func NewStructRow(s *structpb.Struct) *StructRow {
	return &StructRow{s: s}
}

// StructRowFromMap builds a Struct from plain Go values. It fails for
// values structpb cannot represent, such as time.Time.
func StructRowFromMap(values map[string]any) (*StructRow, error) {
	s, err := structpb.NewStruct(values)
	if err != nil {
		return nil, err
	}
	return NewStructRow(s), nil
}

func (r *StructRow) lookup(name string) *structpb.Value {
	fields := r.s.GetFields()
	if v, ok := fields[name]; ok {
		return v
	}
	folded := foldName(name)
	for key, v := range fields {
		if foldName(key) == folded {
			return v
		}
	}
	return nil
}

// Exists reports whether the struct has a field called name.
func (r *StructRow) Exists(name string) bool {
	return r.lookup(name) != nil
}

// Value returns field name converted to an ir.Value.
func (r *StructRow) Value(name string) ir.Value {
	v := r.lookup(name)
	if v == nil {
		return nil
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_NullValue:
		return ir.Null{}
	case *structpb.Value_BoolValue:
		return ir.Bool(k.BoolValue)
	case *structpb.Value_NumberValue:
		return ir.Float(k.NumberValue)
	case *structpb.Value_StringValue:
		return ir.String(k.StringValue)
	case nil:
		return ir.Null{}
	}
	return ir.Opaque{V: v.AsInterface()}
}
