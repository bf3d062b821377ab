// Package schema realizes a structured, serializable record with named
// fields as a thin wrapper over reflect.Type. Agents declare schemas from
// zero values of ordinary Go structs; the workflow executor uses
// Schema.Accepts to perform the runtime "is v an instance of this schema"
// check needed at the agent/workflow boundary, where static generics can't
// help because a step's upstream set is heterogeneous.
package schema

import (
	"fmt"
	"reflect"
)

// Value is any record an agent can consume or produce. In practice this is
// usually a plain struct (or a pointer to one); workflow.MergedInput, a map
// keyed by step name, is also a Value.
type Value interface{}

// Schema describes the shape of a Value: the concrete Go type a field of
// that schema must have.
type Schema struct {
	typ reflect.Type
}

// Of captures the schema of v. Passing the zero value of the target struct
// is the idiomatic way to declare a schema:
//
//	var input = schema.Of(TranscriptInput{})
func Of(v Value) Schema {
	t := reflect.TypeOf(v)
	if t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return Schema{typ: t}
}

// IsZero reports whether no schema has been declared.
func (s Schema) IsZero() bool {
	return s.typ == nil
}

// Name returns a human-readable name for error messages.
func (s Schema) Name() string {
	if s.typ == nil {
		return "<undeclared>"
	}
	return s.typ.String()
}

// Accepts reports whether v is a structural instance of this schema: v's
// underlying type (after dereferencing a single pointer indirection) must
// match exactly the type this schema was declared from.
func (s Schema) Accepts(v Value) bool {
	if s.typ == nil || v == nil {
		return false
	}
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t == s.typ
}

// New returns a fresh zero value of this schema's type, useful for
// deserialization targets.
func (s Schema) New() Value {
	if s.typ == nil {
		return nil
	}
	return reflect.New(s.typ).Elem().Interface()
}

// TypeNameOf returns a readable name for the concrete type of v, used in
// error messages ("Expected X, got Y").
func TypeNameOf(v Value) string {
	if v == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%T", v)
}
