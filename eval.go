package infix

import (
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Context holds the variable bindings shared by the statements of a session.
// Bindings are unevaluated expressions. The zero Context has no bindings and
// logs nothing. It is not safe to use a Context concurrently.
type Context struct {
	vars map[rune]*Node
	log  logrus.FieldLogger
}

// ContextOption is an option used when creating a context.
type ContextOption interface {
	ctxOption()
}

type (
	varopt struct {
		name rune
		val  *Node
	}
	logopt struct {
		log logrus.FieldLogger
	}
)

func (varopt) ctxOption() {}
func (logopt) ctxOption() {}

// SetVar binds a variable in the context.
func SetVar(name rune, val *Node) ContextOption {
	return varopt{name, val}
}

// WithLogger sets a logger to which the context reports bindings and variable
// resolutions at debug level. A nil logger disables logging.
func WithLogger(log logrus.FieldLogger) ContextOption {
	return logopt{log}
}

// nolog discards everything.
var nolog = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}()

// NewContext creates a new context with no bindings other than those given
// by options.
func NewContext(opts ...ContextOption) *Context {
	ctx := Context{log: nolog}
	return ctx.Clone(opts...)
}

// Clone creates a copy of a context and applies options to it. Bindings added
// to the copy do not affect the original.
func (ctx *Context) Clone(opts ...ContextOption) *Context {
	n := Context{
		vars: maps.Clone(ctx.vars),
		log:  ctx.log,
	}
	if n.vars == nil {
		n.vars = make(map[rune]*Node)
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case varopt:
			n.vars[opt.name] = opt.val
		case logopt:
			n.log = opt.log
			if n.log == nil {
				n.log = nolog
			}
		default:
			panic("infix: unknown option type")
		}
	}
	return &n
}

// Set binds a variable to an unevaluated expression. Returns ctx for chaining.
func (ctx *Context) Set(name rune, value *Node) *Context {
	ctx.logger().WithFields(logrus.Fields{"var": string(name), "expr": value.String()}).Debug("bind")
	if ctx.vars == nil {
		ctx.vars = make(map[rune]*Node)
	}
	ctx.vars[name] = value
	return ctx
}

// logger returns the context's logger, which is nolog for a zero Context.
func (ctx *Context) logger() logrus.FieldLogger {
	if ctx.log == nil {
		return nolog
	}
	return ctx.log
}

// Lookup returns the expression bound to a variable, or nil if there is none.
// The result must not be modified.
func (ctx *Context) Lookup(name rune) *Node {
	return ctx.vars[name]
}

// Vars returns the bound variable names in sorted order.
func (ctx *Context) Vars() []rune {
	return slices.Sorted(maps.Keys(ctx.vars))
}

// Len returns the number of bound variables.
func (ctx *Context) Len() int {
	return len(ctx.vars)
}

// Mode selects how variables without bindings are treated.
type Mode int8

const (
	// ModeSimplify keeps variables without bindings as symbols.
	ModeSimplify Mode = iota
	// ModeEvaluate fails on variables without bindings.
	ModeEvaluate
)

func (m Mode) String() string {
	switch m {
	case ModeSimplify:
		return "simplify"
	case ModeEvaluate:
		return "evaluate"
	default:
		return "Mode(" + strconv.Itoa(int(m)) + ")"
	}
}

// Eval evaluates a tree, folding every subtree whose operands are numbers.
// Variables are replaced by their bindings, evaluated in turn. An assignment
// binds its value without evaluating it, and the result is a copy of the value
// as given. The result never shares nodes with n or with any binding.
func (ctx *Context) Eval(n *Node, mode Mode) (*Node, error) {
	ev := evaluator{ctx: ctx, mode: mode}
	return ev.eval(n)
}

// Simplify parses and evaluates a statement in simplify mode.
func (ctx *Context) Simplify(stmt string) (*Node, error) {
	return ctx.resolve(stmt, ModeSimplify)
}

// Evaluate parses and evaluates a statement in evaluate mode.
func (ctx *Context) Evaluate(stmt string) (*Node, error) {
	return ctx.resolve(stmt, ModeEvaluate)
}

func (ctx *Context) resolve(stmt string, mode Mode) (*Node, error) {
	n, err := ParseStatement(stmt)
	if err != nil {
		return nil, err
	}
	return ctx.Eval(n, mode)
}

// Simplify evaluates a statement against ctx, keeping variables without
// bindings as symbols, and returns the rendered result. If the statement
// cannot be parsed, the result is the error message instead. If ctx is nil,
// the statement is evaluated with no bindings.
func Simplify(stmt string, ctx *Context) string {
	return render(stmt, ctx, ModeSimplify)
}

// Evaluate evaluates a statement against ctx and returns the rendered result.
// If the statement cannot be parsed or uses a variable without a binding, the
// result is the error message instead. If ctx is nil, the statement is
// evaluated with no bindings.
func Evaluate(stmt string, ctx *Context) string {
	return render(stmt, ctx, ModeEvaluate)
}

func render(stmt string, ctx *Context, mode Mode) string {
	if ctx == nil {
		ctx = NewContext()
	}
	r, err := ctx.resolve(stmt, mode)
	if err != nil {
		return err.Error()
	}
	return r.String()
}

type evaluator struct {
	ctx  *Context
	mode Mode
	// resolving is the chain of variables currently being expanded.
	resolving []rune
}

func (ev *evaluator) eval(n *Node) (*Node, error) {
	switch n.Kind {
	case NodeNum:
		return Num(n.Num), nil
	case NodeVar:
		return ev.lookup(n)
	case NodeSum, NodeSub, NodeMul, NodeDiv:
		l, err := ev.eval(n.Left)
		if err != nil {
			return nil, err
		}
		r, err := ev.eval(n.Right)
		if err != nil {
			return nil, err
		}
		if l.Kind == NodeNum && r.Kind == NodeNum {
			return Num(fold(n.Kind, l.Num, r.Num)), nil
		}
		return &Node{Kind: n.Kind, Left: l, Right: r}, nil
	case NodeAssign:
		ev.ctx.Set(n.Left.Name, n.Right)
		return n.Right.Copy(), nil
	default:
		panic("infix: invalid node kind " + n.Kind.String())
	}
}

func (ev *evaluator) lookup(n *Node) (*Node, error) {
	v := ev.ctx.vars[n.Name]
	if v == nil {
		if ev.mode == ModeEvaluate {
			return nil, &UnresolvedVariableError{Name: n.Name}
		}
		return Var(n.Name), nil
	}
	if k := slices.Index(ev.resolving, n.Name); k >= 0 {
		if ev.mode == ModeEvaluate {
			chain := append(slices.Clone(ev.resolving[k:]), n.Name)
			return nil, &CycleError{Chain: chain}
		}
		return Var(n.Name), nil
	}
	ev.ctx.logger().WithFields(logrus.Fields{"var": string(n.Name), "mode": ev.mode.String()}).Debug("resolve")
	ev.resolving = append(ev.resolving, n.Name)
	r, err := ev.eval(v)
	ev.resolving = ev.resolving[:len(ev.resolving)-1]
	return r, err
}

// fold computes the value of an arithmetic node with numeric operands l and r.
func fold(k NodeKind, l, r float64) float64 {
	switch k {
	case NodeSum:
		return l + r
	case NodeSub:
		return l - r
	case NodeMul:
		return l * r
	case NodeDiv:
		return r / l
	default:
		panic("infix: cannot fold " + k.String())
	}
}

// UnresolvedVariableError is an error from a lookup in evaluate mode for a
// variable that has no binding in the context.
type UnresolvedVariableError struct {
	// Name is the name that was missing.
	Name rune
}

func (err *UnresolvedVariableError) Error() string {
	return "undefined variable: " + strconv.Quote(string(err.Name))
}

// CycleError is an error from a lookup in evaluate mode for a variable whose
// binding refers back to itself.
type CycleError struct {
	// Chain is the sequence of variables from the first occurrence of the
	// repeated variable to its repetition.
	Chain []rune
}

func (err *CycleError) Error() string {
	names := make([]string, len(err.Chain))
	for i, r := range err.Chain {
		names[i] = string(r)
	}
	return "circular definition of variable " + strconv.Quote(names[0]) + ": " + strings.Join(names, " -> ")
}
