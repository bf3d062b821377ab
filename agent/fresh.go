package agent

import "reflect"

// Fresh constructs a new, zero-state instance of the same concrete type as
// class, carrying over only the input/output schemas class already
// declared via Declare. It is the building block for the nullary-default
// construction an executor.WithAgents caller reaches for when a step
// should get its own instance instead of sharing the one baked into a
// workflow.Definition at build time — useful for agent types whose only
// state is the Base they embed.
//
// Agents that close over configuration in additional fields (an API
// client, a fixed suffix, a channel) are not safely reconstructible this
// way: Fresh only knows how to re-declare the embedded Base, not those
// fields. Callers with configured agents should construct a new instance
// themselves and pass it through WithAgents instead of calling Fresh.
func Fresh(class Class) Class {
	t := reflect.TypeOf(class)
	if t == nil {
		return class
	}
	elem := t
	if t.Kind() == reflect.Ptr {
		elem = t.Elem()
	}
	if elem.Kind() != reflect.Struct {
		return class
	}

	v := reflect.New(elem)
	fresh, ok := v.Interface().(Class)
	if !ok {
		return class
	}

	baseField := v.Elem().FieldByName("Base")
	if !baseField.IsValid() || !baseField.CanAddr() {
		return fresh
	}
	base, ok := baseField.Addr().Interface().(*Base)
	if !ok {
		return fresh
	}
	base.Declare(class.InputSchema().New(), class.OutputSchema().New())
	return fresh
}
