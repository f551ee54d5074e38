package interpreter

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"reflect"

	"github.com/oarkflow/convert"

	"github.com/oarkflow/cmdlang"
)

// Exec parses and runs script with data preloaded into the store, and
// returns the store as it was when the run ended. On failure the partial
// store is returned together with the error. Only errors are logged unless
// a logger is passed with WithLogger.
func Exec(script string, data map[string]any, opts ...Option) (*Environment, error) {
	env := NewEnvironment()
	if err := injectData(env, data); err != nil {
		return env, err
	}
	program, err := cmdlang.Parse(script)
	if err != nil {
		return env, err
	}
	in := New(append(opts, WithEnvironment(env))...)
	return env, in.Run(context.Background(), program)
}

// ExecFile executes the script stored in filename.
func ExecFile(filename string, data map[string]any, opts ...Option) (*Environment, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return Exec(string(content), data, opts...)
}

func injectData(env *Environment, data map[string]any) error {
	for k, v := range data {
		if !cmdlang.IsIdentifier(k) {
			return fmt.Errorf("invalid variable name %q", k)
		}
		obj, err := toObject(v)
		if err != nil {
			return fmt.Errorf("variable %s: %w", k, err)
		}
		env.Set(k, obj)
	}
	return nil
}

// toObject converts a Go value: integers become NUMBER, everything else is
// stored as its string form.
func toObject(val any) (Object, error) {
	switch v := val.(type) {
	case nil:
		return nil, fmt.Errorf("nil value")
	case Object:
		return v, nil
	case *big.Int:
		return &Integer{Value: new(big.Int).Set(v)}, nil
	case string:
		return &String{Value: v}, nil
	}

	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return NewInteger(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Integer{Value: new(big.Int).SetUint64(rv.Uint())}, nil
	default:
		s, ok := convert.ToString(val)
		if !ok {
			return nil, fmt.Errorf("unsupported value of type %T", val)
		}
		return &String{Value: s}, nil
	}
}
