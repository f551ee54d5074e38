package interpreter

import (
	"sort"

	"github.com/oarkflow/cmdlang"
)

// Environment is the single global variable store of a run. There is no
// nesting: every statement reads and writes the same table.
type Environment struct {
	store map[string]Object
}

func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]Object)}
}

func (e *Environment) Get(name string) (Object, bool) {
	obj, ok := e.store[name]
	return obj, ok
}

// Lookup is Get with the "not defined" execution error.
func (e *Environment) Lookup(name string) (Object, error) {
	obj, ok := e.store[name]
	if !ok {
		return nil, cmdlang.NewExecutionError("Variable '%s' is not defined.", name)
	}
	return obj, nil
}

func (e *Environment) Exists(name string) bool {
	_, ok := e.store[name]
	return ok
}

// Set creates or overwrites name. The previous value's type does not matter.
func (e *Environment) Set(name string, val Object) Object {
	e.store[name] = val
	return val
}

func (e *Environment) Len() int {
	return len(e.store)
}

type Binding struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Snapshot returns the store contents sorted by name.
func (e *Environment) Snapshot() []Binding {
	out := make([]Binding, 0, len(e.store))
	for name, obj := range e.store {
		out = append(out, Binding{Name: name, Type: obj.Type().String(), Value: obj.Inspect()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
