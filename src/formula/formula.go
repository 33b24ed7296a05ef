// Package formula compiles and evaluates the user formulas used by function
// curves and axis label transforms.
package formula

import (
	"fmt"
	"math"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Expr is a compiled formula over float64 variables.
type Expr struct {
	src  string
	vars []string
	prog *vm.Program
}

func baseEnv() map[string]interface{} {
	return map[string]interface{}{
		"pi":    math.Pi,
		"e":     math.E,
		"sin":   math.Sin,
		"cos":   math.Cos,
		"tan":   math.Tan,
		"asin":  math.Asin,
		"acos":  math.Acos,
		"atan":  math.Atan,
		"atan2": math.Atan2,
		"sinh":  math.Sinh,
		"cosh":  math.Cosh,
		"tanh":  math.Tanh,
		"exp":   math.Exp,
		"ln":    math.Log,
		"log":   math.Log10,
		"log2":  math.Log2,
		"sqrt":  math.Sqrt,
		"pow":   math.Pow,
		"fabs":  math.Abs,
		"rint":  math.Round,
	}
}

// Compile parses src with the given variable names (all float64).
func Compile(src string, vars ...string) (*Expr, error) {
	env := baseEnv()
	for _, v := range vars {
		env[v] = 0.0
	}
	prog, err := expr.Compile(src, expr.Env(env), expr.AsFloat64())
	if err != nil {
		return nil, fmt.Errorf("formula %q: %w", src, err)
	}
	return &Expr{src: src, vars: vars, prog: prog}, nil
}

// Source returns the formula text.
func (e *Expr) Source() string { return e.src }

// Eval evaluates the formula with the given variable values, in the order
// passed to Compile.
func (e *Expr) Eval(vals ...float64) (float64, error) {
	if len(vals) != len(e.vars) {
		return 0, fmt.Errorf("formula %q: want %d values, got %d", e.src, len(e.vars), len(vals))
	}
	env := baseEnv()
	for i, v := range e.vars {
		env[v] = vals[i]
	}
	out, err := expr.Run(e.prog, env)
	if err != nil {
		return 0, fmt.Errorf("formula %q: %w", e.src, err)
	}
	f, ok := out.(float64)
	if !ok {
		return 0, fmt.Errorf("formula %q: non-numeric result %T", e.src, out)
	}
	return f, nil
}

// MaxSamples bounds the points a single Sample call evaluates.
const MaxSamples = 100000

// Sample evaluates a one-variable formula at n evenly spaced points in
// [from, to], with n clamped to [2, MaxSamples]. Points where the result
// is not finite are dropped.
func (e *Expr) Sample(from, to float64, n int) (xs, ys []float64, err error) {
	if len(e.vars) != 1 {
		return nil, nil, fmt.Errorf("formula %q: sampling needs exactly one variable", e.src)
	}
	n = max(2, min(n, MaxSamples))
	step := (to - from) / float64(n-1)
	for i := 0; i < n; i++ {
		x := from + float64(i)*step
		y, err := e.Eval(x)
		if err != nil {
			return nil, nil, err
		}
		if math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	return xs, ys, nil
}
