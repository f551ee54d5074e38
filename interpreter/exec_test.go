package interpreter

import (
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestExecWithData(t *testing.T) {
	script := `
	ADD total(x, y)
	MUL scaled(total, factor)
	`

	data := map[string]interface{}{
		"x":      10,
		"y":      uint8(20),
		"factor": big.NewInt(3),
		"label":  "sum",
	}

	var out strings.Builder
	env, err := Exec(script, data, WithOutput(&out))
	if err != nil {
		t.Fatalf("Exec failed: %v", err)
	}
	obj, ok := env.Get("scaled")
	if !ok {
		t.Fatalf("expected scaled to be defined")
	}
	if obj.Inspect() != "90" {
		t.Fatalf("expected scaled = 90, got %s", obj.Inspect())
	}
	label, _ := env.Get("label")
	if label.Type() != STRING_OBJ || label.Inspect() != "sum" {
		t.Fatalf("unexpected label %#v", label)
	}
}

func TestExecConvertsOtherValuesToText(t *testing.T) {
	env, err := Exec("OUT ratio", map[string]interface{}{"ratio": 1.5, "when": time.Duration(0)}, WithOutput(&strings.Builder{}))
	if err != nil {
		t.Fatalf("Exec failed: %v", err)
	}
	obj, _ := env.Get("ratio")
	if obj.Type() != STRING_OBJ {
		t.Fatalf("expected float to become text, got %s", obj.Type())
	}
	when, _ := env.Get("when")
	if when.Type() != INTEGER_OBJ {
		t.Fatalf("expected integer kinds to become numbers, got %s", when.Type())
	}
}

func TestExecTextIsNotNumeric(t *testing.T) {
	_, err := Exec("ADD r(x, 1)", map[string]interface{}{"x": "10"}, WithOutput(&strings.Builder{}))
	if err == nil || err.Error() != "Variable 'x' is not a NUMBER." {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestExecRejectsBadData(t *testing.T) {
	if _, err := Exec("OUT x", map[string]interface{}{"1x": 1}); err == nil {
		t.Fatalf("expected invalid name error")
	}
	if _, err := Exec("OUT x", map[string]interface{}{"x": nil}); err == nil {
		t.Fatalf("expected nil value error")
	}
}

func TestExecReturnsPartialStore(t *testing.T) {
	env, err := Exec("SET a NUMBER(1)\nDIV b(a, 0)\nSET c NUMBER(3)", nil, WithOutput(&strings.Builder{}))
	if err == nil {
		t.Fatalf("expected division error")
	}
	if !env.Exists("a") || env.Exists("b") || env.Exists("c") {
		t.Fatalf("unexpected store after failure: %#v", env.Snapshot())
	}
}

func TestExecFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.cmd")
	if err := os.WriteFile(path, []byte("FACT f n\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ExecFile(path, nil); err == nil {
		t.Fatalf("expected syntax error")
	}
	if err := os.WriteFile(path, []byte("FACT f 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	env, err := ExecFile(path, nil)
	if err != nil {
		t.Fatalf("ExecFile failed: %v", err)
	}
	f, _ := env.Get("f")
	if f.Inspect() != "3628800" {
		t.Fatalf("unexpected factorial %s", f.Inspect())
	}
	if _, err := ExecFile(filepath.Join(t.TempDir(), "missing.cmd"), nil); err == nil {
		t.Fatalf("expected read error")
	}
}
