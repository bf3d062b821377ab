package store

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/flowmind/agentgraph/schema"
)

// Serializer converts schema values to and from the durable JSON
// representation written under a run's steps/<name>/ directory. Unlike a
// plain json.Marshal/Unmarshal pair, Deserialize has to reconstruct the
// concrete Go type a schema.Schema declares — encoding/json cannot
// unmarshal into a bare interface{} and recover a typed struct, so this
// walks the target type via reflection to build an addressable zero value
// first.
type Serializer struct{}

// Serialize marshals v as indented JSON, matching the on-disk formatting
// of every other file a RunStore writes.
func (Serializer) Serialize(v schema.Value) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serialize %T: %w", v, err)
	}
	return append(data, '\n'), nil
}

// Deserialize unmarshals data into a fresh zero value of the type declared
// by s, and returns it as a schema.Value holding the concrete type (not a
// map[string]interface{}). Fields present in data but absent from the
// declared type are ignored; fields absent from data keep their Go zero
// value.
func (Serializer) Deserialize(data []byte, s schema.Schema) (schema.Value, error) {
	zero := s.New()
	target := reflect.New(reflect.TypeOf(zero))
	if err := json.Unmarshal(data, target.Interface()); err != nil {
		return nil, fmt.Errorf("deserialize into %s: %w", s.Name(), err)
	}
	return target.Elem().Interface(), nil
}
