package runner

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oarkflow/cmdlang"
	"github.com/oarkflow/cmdlang/interpreter"
	"github.com/oarkflow/cmdlang/pkg/journal"
)

func newRunner(t *testing.T, opts ...Option) *Runner {
	t.Helper()
	r, err := New(opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(r.Close)
	return r
}

func TestRunCapturesOutput(t *testing.T) {
	r := newRunner(t)
	var out strings.Builder
	res, err := r.Run(context.Background(), Request{
		Origin: "test",
		Source: "IN n NUMBER\nFACT f 4\nOUT n\nOUT f",
		Input:  strings.NewReader("7\n"),
		Output: &out,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.String() != "Enter value for n: n = 7\nf = 24\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
	if res.ID == "" || res.OutputLines != 2 || res.Env.Len() != 2 {
		t.Fatalf("unexpected result %#v", res)
	}
}

func TestRunSharedEnvironment(t *testing.T) {
	r := newRunner(t)
	env := interpreter.NewEnvironment()
	for _, line := range []string{"SET a NUMBER(2)", "POW a(a, 10)"} {
		if _, err := r.Run(context.Background(), Request{Source: line, Env: env}); err != nil {
			t.Fatalf("%s: %v", line, err)
		}
	}
	a, _ := env.Get("a")
	if a.Inspect() != "1024" {
		t.Fatalf("expected 1024, got %s", a.Inspect())
	}
}

func TestRunUsesConfiguredModes(t *testing.T) {
	r := newRunner(t, WithStrictCommas(true), WithPowMode(interpreter.PowFloat))
	_, err := r.Run(context.Background(), Request{Source: "ADD r(1 2)"})
	if !cmdlang.IsSyntaxError(err) {
		t.Fatalf("expected syntax error, got %v", err)
	}
	_, err = r.Run(context.Background(), Request{Source: "SUB z(0, 1)\nPOW p(0, z)"})
	if err == nil || err.Error() != "Math range error in POW operation." {
		t.Fatalf("expected float range error, got %v", err)
	}
}

func TestRunWritesJournal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.json")
	j, err := journal.Open(path)
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	r := newRunner(t, WithJournal(j))

	ok, err := r.Run(context.Background(), Request{Origin: "ok.cmd", Source: "SET x NUMBER(1)\nOUT x"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	failed, err := r.Run(context.Background(), Request{Origin: "bad.cmd", Source: "MOD r(1, 0)"})
	if err == nil {
		t.Fatalf("expected modulus error")
	}
	if err := j.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	records, err := journal.ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ID != ok.ID || records[0].Status != journal.StatusOK || records[0].OutputLines != 1 || records[0].Source != "ok.cmd" {
		t.Fatalf("unexpected first record %#v", records[0])
	}
	if records[1].ID != failed.ID || records[1].Status != journal.StatusFailed || records[1].Error != "Execution Error: Modulus by zero." {
		t.Fatalf("unexpected second record %#v", records[1])
	}
}

func TestCheck(t *testing.T) {
	r := newRunner(t)
	program, err := r.Check("OUT a\nOUT b")
	if err != nil || len(program.Statements) != 2 {
		t.Fatalf("unexpected check result %v, %v", program, err)
	}
	if _, err := r.Check("OUT"); !cmdlang.IsSyntaxError(err) {
		t.Fatalf("expected syntax error, got %v", err)
	}
}
