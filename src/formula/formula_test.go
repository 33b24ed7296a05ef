package formula

import (
	"math"
	"testing"
)

func TestCompileAndEval(t *testing.T) {
	e, err := Compile("sin(x)*2.0 + x*x", "x")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	got, err := e.Eval(1.5)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	want := math.Sin(1.5)*2 + 2.25
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("got %v want %v", got, want)
	}
	if e.Source() != "sin(x)*2.0 + x*x" {
		t.Fatalf("unexpected source %q", e.Source())
	}
}

func TestCompileRejectsUnknownIdentifier(t *testing.T) {
	if _, err := Compile("foo(x)", "x"); err == nil {
		t.Fatalf("expected compile error for unknown function")
	}
}

func TestEvalArity(t *testing.T) {
	e, err := Compile("x + y", "x", "y")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if _, err := e.Eval(1.0); err == nil {
		t.Fatalf("expected arity error")
	}
	if v, err := e.Eval(1.0, 2.5); err != nil || v != 3.5 {
		t.Fatalf("got %v %v", v, err)
	}
}

func TestSampleDropsNonFinite(t *testing.T) {
	e, err := Compile("sqrt(x)", "x")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	xs, ys, err := e.Sample(-1.0, 1.0, 5) // -1, -0.5, 0, 0.5, 1
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if len(xs) != 3 || len(ys) != 3 {
		t.Fatalf("expected 3 finite samples, got %d", len(xs))
	}
	if xs[0] != 0 || ys[2] != 1 {
		t.Fatalf("unexpected samples %v %v", xs, ys)
	}
}

func TestSampleClampsCount(t *testing.T) {
	e, err := Compile("x*x", "x")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	xs, _, err := e.Sample(0, 1, 10*MaxSamples)
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if len(xs) != MaxSamples {
		t.Fatalf("expected %d samples, got %d", MaxSamples, len(xs))
	}
	if xs, _, _ = e.Sample(0, 1, 0); len(xs) != 2 {
		t.Fatalf("expected the minimum of 2 samples, got %d", len(xs))
	}
}
