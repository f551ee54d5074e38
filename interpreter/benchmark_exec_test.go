package interpreter

import (
	"context"
	"io"
	"testing"

	"github.com/oarkflow/expr"

	"github.com/oarkflow/cmdlang"
)

// --- Exec with Data Map (Parse + Inject + Run) ---

func Benchmark_CmdLang_Exec_Math(b *testing.B) {
	script := "ADD r(x, y)"
	data := map[string]interface{}{
		"x": 10,
		"y": 20,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := Exec(script, data, WithOutput(io.Discard))
		if err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_Expr_Exec_Math(b *testing.B) {
	script := "x + y"
	data := map[string]interface{}{
		"x": 10,
		"y": 20,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		program, err := expr.Compile(script, expr.Env(data))
		if err != nil {
			b.Fatal(err)
		}
		_, err = expr.Run(program, data)
		if err != nil {
			b.Fatal(err)
		}
	}
}

// --- Infix evaluation: (1 + 2) * 3 - 4 ---

func Benchmark_CmdLang_Infix(b *testing.B) {
	src := "(1 + 2) * 3 - 4"
	for i := 0; i < b.N; i++ {
		if _, err := EvalInfix(src); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_Expr_Infix(b *testing.B) {
	src := "(1 + 2) * 3 - 4"
	for i := 0; i < b.N; i++ {
		program, err := expr.Compile(src)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := expr.Run(program, nil); err != nil {
			b.Fatal(err)
		}
	}
}

// --- Cached parse, run only ---

func Benchmark_CmdLang_CachedRun(b *testing.B) {
	source := "SET a NUMBER(12)\nMUL b(a, a, a)\nFACT f 20\nEXPR e(\"(1+2)*3\")\nOUT b"
	cache, err := NewCache(16)
	if err != nil {
		b.Fatal(err)
	}
	defer cache.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		program, err := cache.Parse(source)
		if err != nil {
			b.Fatal(err)
		}
		if err := New(WithOutput(io.Discard)).Run(context.Background(), program); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_CmdLang_ParseOnly(b *testing.B) {
	source := "SET a NUMBER(12)\nMUL b(a, a, a)\nFACT f 20\nEXPR e(\"(1+2)*3\")\nOUT b"
	for i := 0; i < b.N; i++ {
		if _, err := cmdlang.Parse(source); err != nil {
			b.Fatal(err)
		}
	}
}
