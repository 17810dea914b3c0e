package infix_test

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"testing"

	"github.com/kr/pretty"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/zephyrtronium/infix"
)

func TestEvaluate(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"num", "1", "1"},
		{"frac", "1.5", "1.5"},
		{"add", "4+5+6", "15"},
		{"sub", "4-5-6", "-7"},
		{"mul", "4*5*6", "120"},
		{"worked", "(1+4)*7+9-2", "42"},
		{"spaces", " ( 1 + 4 ) * 7 + 9 - 2 ", "42"},
		// A division node divides its right operand by its left.
		{"div", "8/2", "0.25"},
		{"div3", "8/4/2", "0.0625"},
		{"divmul", "8/2*2", "0.5"},
		{"divparen", "(8/2)*2", "0.5"},
		{"div-zero", "0/1", "+Inf"},
		{"div-neg-zero", "0/(0-1)", "-Inf"},
		{"div-nan", "0/0", "NaN"},
		{"unclosed", "2*(3+4", "14"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := infix.Evaluate(c.src, nil); got != c.want {
				t.Errorf("evaluating %q: want %q, got %q", c.src, c.want, got)
			}
			// With no variables involved, both modes agree.
			if got := infix.Simplify(c.src, nil); got != c.want {
				t.Errorf("simplifying %q: want %q, got %q", c.src, c.want, got)
			}
		})
	}
}

func TestSimplify(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"var", "x", "x"},
		{"add", "x + 1", "(x + 1)"},
		{"fold-rhs", "x + 2*3", "(x + 6)"},
		{"fold-lhs", "(1+2)*x", "3 * x"},
		{"order", "1 - x", "(1 - x)"},
		{"div", "x/2", "x / 2"},
		{"mul3", "2*x*3", "2 * x * 3"},
		{"mixed", "a*b+c/d", "(a * b + c / d)"},
		{"nested", "(x+1)*(y-2*3)", "(x + 1) * (y - 6)"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := infix.Simplify(c.src, nil)
			if got != c.want {
				t.Errorf("simplifying %q: want %q, got %q", c.src, c.want, got)
			}
			// Simplifying a simplified expression changes nothing.
			if again := infix.Simplify(got, nil); again != got {
				t.Errorf("simplifying %q again gave %q", got, again)
			}
		})
	}
}

func TestModesAgreeWhenBound(t *testing.T) {
	ctx := infix.NewContext(
		infix.SetVar('a', infix.Num(3)),
		infix.SetVar('b', infix.Sum(infix.Var('a'), infix.Num(1))),
		infix.SetVar('c', infix.Div(infix.Var('b'), infix.Var('a'))),
	)
	for _, src := range []string{"a", "b*c", "(a+b)*(c-1)", "c/b/a", "a-b-c"} {
		ev := infix.Evaluate(src, ctx)
		simp := infix.Simplify(src, ctx)
		if ev != simp {
			t.Errorf("%q: evaluate gave %q, simplify gave %q", src, ev, simp)
		}
		// Negative and non-finite numbers have no literal form to read back.
		if strings.HasPrefix(simp, "-") || strings.HasSuffix(simp, "Inf") || simp == "NaN" {
			continue
		}
		if again := infix.Simplify(simp, ctx); again != simp {
			t.Errorf("%q: simplified to %q, then to %q", src, simp, again)
		}
	}
}

func TestResultsDoNotShareNodes(t *testing.T) {
	ctx := infix.NewContext(infix.SetVar('x', infix.Sum(infix.Var('z'), infix.Num(1))))
	r, err := ctx.Simplify("x*x")
	if err != nil {
		t.Fatal(err)
	}
	if got := r.String(); got != "(z + 1) * (z + 1)" {
		t.Fatalf("wrong result %q", got)
	}
	seen := make(map[*infix.Node]bool)
	for n := range r.Nodes() {
		if seen[n] {
			t.Errorf("node %v appears twice in %v", n, r)
		}
		seen[n] = true
	}
	for n := range ctx.Lookup('x').Nodes() {
		if seen[n] {
			t.Errorf("result shares %v with the binding of x", n)
		}
	}
	// Editing results leaves bindings alone.
	r.Left.Left.Name = 'w'
	a, err := ctx.Simplify("y = x")
	if err != nil {
		t.Fatal(err)
	}
	a.Name = 'q'
	a.Kind = infix.NodeNum
	if got := ctx.Lookup('x').String(); got != "(z + 1)" {
		t.Errorf("binding of x changed to %q", got)
	}
	if got := ctx.Lookup('y').String(); got != "x" {
		t.Errorf("binding of y changed to %q", got)
	}
}

func TestZeroContext(t *testing.T) {
	var ctx infix.Context
	if n := ctx.Len(); n != 0 {
		t.Errorf("zero context has %d bindings", n)
	}
	if got := infix.Simplify("x + 1", &ctx); got != "(x + 1)" {
		t.Errorf("simplifying with zero context gave %q", got)
	}
	if got := infix.Evaluate("x = 2", &ctx); got != "2" {
		t.Errorf("binding in zero context gave %q", got)
	}
	if got := infix.Evaluate("x + 1", &ctx); got != "3" {
		t.Errorf("evaluating with zero context gave %q", got)
	}
	cl := ctx.Clone()
	cl.Set('y', infix.Num(1))
	if v := cl.Vars(); !reflect.DeepEqual(v, []rune("xy")) {
		t.Errorf("clone of zero context has bindings %q", v)
	}
}

func TestEvaluateUndefNames(t *testing.T) {
	cases := []struct {
		name string
		src  string
		r    rune
	}{
		{"x", "x", 'x'},
		{"add-lhs", "x+1", 'x'},
		{"add-rhs", "1+x", 'x'},
		{"sub-lhs", "x-1", 'x'},
		{"sub-rhs", "1-x", 'x'},
		{"mul-lhs", "x*1", 'x'},
		{"mul-rhs", "1*x", 'x'},
		{"div-lhs", "x/1", 'x'},
		{"div-rhs", "1/x", 'x'},
		{"first", "y*(x+z)", 'y'},
	}
	ure := regexp.MustCompile(`(?i)\bundefined\b`)
	vre := regexp.MustCompile(`(?i)\bvariable\b`)
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ctx := infix.NewContext()
			n, err := ctx.Evaluate(c.src)
			if n != nil {
				t.Errorf("evaluating %q gave non-nil result %v", c.src, n)
			}
			var u *infix.UnresolvedVariableError
			if !errors.As(err, &u) {
				t.Fatalf("error was %#v, not *UnresolvedVariableError", err)
			}
			if u.Name != c.r {
				t.Errorf("%q: error on %q, want %q", c.src, u.Name, c.r)
			}
			msg := err.Error()
			if !ure.MatchString(msg) {
				t.Errorf(`%q doesn't mention "undefined"`, msg)
			}
			if !vre.MatchString(msg) {
				t.Errorf(`%q doesn't mention "variable"`, msg)
			}
			if s := infix.Evaluate(c.src, ctx); s != msg {
				t.Errorf("string result %q differs from error %q", s, msg)
			}
		})
	}
}

func TestEvaluateParseError(t *testing.T) {
	for _, src := range []string{"", "1)", "1+", "x $ 1", "2x"} {
		n, err := infix.NewContext().Evaluate(src)
		if n != nil {
			t.Errorf("%q evaluated to %v", src, n)
		}
		var ie infix.InputError
		if !errors.As(err, &ie) {
			t.Errorf("%q gave %#v, not an InputError", src, err)
			continue
		}
		if s := infix.Simplify(src, nil); s != err.Error() {
			t.Errorf("%q: string result %q differs from error %q", src, s, err.Error())
		}
	}
}

func TestAssign(t *testing.T) {
	ctx := infix.NewContext()
	steps := []struct {
		src  string
		want string
	}{
		{"x = 18", "18"},
		{"x", "18"},
		// The result of an assignment is its value as written.
		{"y = 1+2", "(1 + 2)"},
		{"y", "3"},
		{"z = x*y", "x * y"},
		{"z", "54"},
		{"x = 2", "2"},
		{"z", "6"},
		{"z + x", "8"},
	}
	for i, s := range steps {
		if got := infix.Evaluate(s.src, ctx); got != s.want {
			t.Errorf("step %d: evaluating %q: want %q, got %q", i, s.src, s.want, got)
		}
	}
	if n := ctx.Len(); n != 3 {
		t.Errorf("context has %d bindings, want 3", n)
	}
}

func TestLazyBinding(t *testing.T) {
	ctx := infix.NewContext()
	if got := infix.Simplify("y = x + 1", ctx); got != "(x + 1)" {
		t.Errorf("binding y gave %q", got)
	}
	if got := infix.Simplify("y", ctx); got != "(x + 1)" {
		t.Errorf("y with x unbound simplified to %q", got)
	}
	if got := infix.Evaluate("y", ctx); got != `undefined variable: "x"` {
		t.Errorf("y with x unbound evaluated to %q", got)
	}
	infix.Simplify("x = 2", ctx)
	if got := infix.Evaluate("y", ctx); got != "3" {
		t.Errorf("y with x = 2 evaluated to %q", got)
	}
	infix.Simplify("x = 5", ctx)
	if got := infix.Evaluate("y", ctx); got != "6" {
		t.Errorf("y with x = 5 evaluated to %q", got)
	}
	want := infix.Sum(infix.Var('x'), infix.Num(1))
	if got := ctx.Lookup('y'); !got.Equal(want) {
		t.Errorf("binding of y changed: %v", pretty.Diff(want, got))
	}
}

func TestAssignDoesNotEvaluate(t *testing.T) {
	// Binding a value that refers to an unbound variable succeeds even in
	// evaluate mode.
	ctx := infix.NewContext()
	n, err := ctx.Evaluate("a = b*2")
	if err != nil {
		t.Fatalf("assignment failed: %v", err)
	}
	want := infix.Mul(infix.Var('b'), infix.Num(2))
	if !n.Equal(want) {
		t.Errorf("wrong result: %v", pretty.Diff(want, n))
	}
	if _, err := ctx.Evaluate("a"); err == nil {
		t.Error("evaluating a with b unbound succeeded")
	}
}

func TestCycles(t *testing.T) {
	cases := []struct {
		name  string
		binds []string
		src   string
		chain []rune
		simp  string
	}{
		{"self", []string{"x = x + 1"}, "x", []rune("xx"), "(x + 1)"},
		{"pair", []string{"a = b", "b = a"}, "a", []rune("aba"), "a"},
		{"deep", []string{"a = b + 1", "b = c * 2", "c = a"}, "a", []rune("abca"), "(a * 2 + 1)"},
		{"inner", []string{"a = b", "b = b + 1"}, "a", []rune("bb"), "(b + 1)"},
	}
	cre := regexp.MustCompile(`(?i)\bcircular\b`)
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ctx := infix.NewContext()
			for _, b := range c.binds {
				if _, err := ctx.Evaluate(b); err != nil {
					t.Fatalf("binding %q failed: %v", b, err)
				}
			}
			n, err := ctx.Evaluate(c.src)
			if n != nil {
				t.Errorf("evaluating %q gave %v", c.src, n)
			}
			var ce *infix.CycleError
			if !errors.As(err, &ce) {
				t.Fatalf("error was %#v, not *CycleError", err)
			}
			if !reflect.DeepEqual(ce.Chain, c.chain) {
				t.Errorf("wrong chain: want %q, got %q", c.chain, ce.Chain)
			}
			if !cre.MatchString(err.Error()) {
				t.Errorf("%q doesn't mention circularity", err.Error())
			}
			if got := infix.Simplify(c.src, ctx); got != c.simp {
				t.Errorf("simplifying %q: want %q, got %q", c.src, c.simp, got)
			}
		})
	}
}

func TestContextVars(t *testing.T) {
	zero := infix.Num(0)
	one := infix.Num(1)
	ctx := infix.NewContext(infix.SetVar('x', zero), nil)
	if x := ctx.Lookup('x'); x != zero {
		t.Errorf("x should be %v but is %v", zero, x)
	}
	if y := ctx.Lookup('y'); y != nil {
		t.Errorf("context has y: %v", y)
	}
	ctx.Set('y', one)
	if x := ctx.Lookup('x'); x != zero {
		t.Errorf("x should be %v but is %v", zero, x)
	}
	if y := ctx.Lookup('y'); y != one {
		t.Errorf("y should be %v but is %v", one, y)
	}
	ctx.Set('x', one)
	if x := ctx.Lookup('x'); x != one {
		t.Errorf("x should be %v but is %v", one, x)
	}
	if v := ctx.Vars(); !reflect.DeepEqual(v, []rune("xy")) {
		t.Errorf("wrong bound names: %q", v)
	}
	if n := ctx.Len(); n != 2 {
		t.Errorf("context has %d bindings, want 2", n)
	}
}

func TestContextClone(t *testing.T) {
	ctx := infix.NewContext(infix.SetVar('x', infix.Num(1)))
	cl := ctx.Clone(infix.SetVar('y', infix.Num(2)))
	cl.Set('x', infix.Num(3))
	if got := infix.Evaluate("x", ctx); got != "1" {
		t.Errorf("clone changed original x to %s", got)
	}
	if ctx.Lookup('y') != nil {
		t.Error("clone option bound y in original")
	}
	if got := infix.Evaluate("x+y", cl); got != "5" {
		t.Errorf("clone evaluated x+y to %s", got)
	}
	if v := infix.NewContext().Vars(); len(v) != 0 {
		t.Errorf("new context has bindings %q", v)
	}
}

func TestContextLogger(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	ctx := infix.NewContext(infix.WithLogger(log))
	if _, err := ctx.Evaluate("x = 1+2"); err != nil {
		t.Fatal(err)
	}
	if _, err := ctx.Evaluate("x*2"); err != nil {
		t.Fatal(err)
	}
	entries := hook.AllEntries()
	if len(entries) != 2 {
		t.Fatalf("want 2 log entries, got %d: %# v", len(entries), pretty.Formatter(entries))
	}
	bind, res := entries[0], entries[1]
	if bind.Message != "bind" || bind.Data["var"] != "x" || bind.Data["expr"] != "(1 + 2)" {
		t.Errorf("wrong bind entry: %s %v", bind.Message, bind.Data)
	}
	if res.Message != "resolve" || res.Data["var"] != "x" || res.Data["mode"] != "evaluate" {
		t.Errorf("wrong resolve entry: %s %v", res.Message, res.Data)
	}
	for _, e := range entries {
		if e.Level != logrus.DebugLevel {
			t.Errorf("%q logged at %v", e.Message, e.Level)
		}
	}

	// Clones keep the logger unless told otherwise.
	hook.Reset()
	ctx.Clone().Set('y', infix.Num(1))
	if len(hook.AllEntries()) != 1 {
		t.Errorf("clone didn't log")
	}
	hook.Reset()
	ctx.Clone(infix.WithLogger(nil)).Set('y', infix.Num(1))
	if len(hook.AllEntries()) != 0 {
		t.Errorf("clone without logger logged %d entries", len(hook.AllEntries()))
	}
}

func TestEval(t *testing.T) {
	ctx := infix.NewContext(infix.SetVar('x', infix.Num(4)))
	n := infix.Div(infix.Num(2), infix.Sum(infix.Var('x'), infix.Var('y')))
	r, err := ctx.Eval(n, infix.ModeSimplify)
	if err != nil {
		t.Fatal(err)
	}
	want := infix.Div(infix.Num(2), infix.Sum(infix.Num(4), infix.Var('y')))
	if !r.Equal(want) {
		t.Errorf("wrong simplification: %v", pretty.Diff(want, r))
	}
	// The input tree is not modified.
	if n.Right.Left.Kind != infix.NodeVar {
		t.Errorf("input tree changed to %v", n)
	}
	ctx.Set('y', infix.Num(4))
	r, err = ctx.Eval(n, infix.ModeEvaluate)
	if err != nil {
		t.Fatal(err)
	}
	if !r.Equal(infix.Num(4)) {
		t.Errorf("wrong evaluation: %v", r)
	}
}

func TestModeString(t *testing.T) {
	cases := []struct {
		m    infix.Mode
		want string
	}{
		{infix.ModeSimplify, "simplify"},
		{infix.ModeEvaluate, "evaluate"},
		{infix.Mode(9), "Mode(9)"},
	}
	for _, c := range cases {
		if got := c.m.String(); got != c.want {
			t.Errorf("mode %d: want %q, got %q", c.m, c.want, got)
		}
	}
}

func BenchmarkEvaluate(b *testing.B) {
	b.Run("nums", func(b *testing.B) {
		b.ReportAllocs()
		ctx := infix.NewContext()
		for i := 0; i < b.N; i++ {
			ctx.Evaluate("(1+4)*7+9-2")
		}
	})
	b.Run("vars", func(b *testing.B) {
		b.ReportAllocs()
		ctx := infix.NewContext(
			infix.SetVar('x', infix.Num(2)),
			infix.SetVar('y', infix.Sum(infix.Var('x'), infix.Num(3))),
			infix.SetVar('z', infix.Mul(infix.Var('y'), infix.Var('y'))),
		)
		for i := 0; i < b.N; i++ {
			ctx.Evaluate("x+y+z")
		}
	})
}

func Example() {
	ctx := infix.NewContext()
	for _, stmt := range []string{"(1+4)*7+9-2", "y = x + 1", "y", "x = 2", "y", "8/2"} {
		fmt.Printf("%-12s => %s\n", stmt, infix.Simplify(stmt, ctx))
	}

	// Output:
	// (1+4)*7+9-2  => 42
	// y = x + 1    => (x + 1)
	// y            => (x + 1)
	// x = 2        => 2
	// y            => 3
	// 8/2          => 0.25
}

func ExampleEvaluate() {
	fmt.Println(infix.Evaluate("x + 1", nil))
	fmt.Println(infix.Simplify("x + 1", nil))

	// Output:
	// undefined variable: "x"
	// (x + 1)
}
