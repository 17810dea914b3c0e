package infix

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Statement = Var '=' Expr | Expr
// Expr = num | Var | Expr '+' Expr | Expr '-' Expr | Expr '*' Expr | Expr '/' Expr | '(' Expr ')'
// Var = letter

// Build assembles a tree from postfix tokens. For each operator, the operand
// pushed earlier becomes the left child and the one pushed later becomes the
// right child. Exactly one operand must remain at the end.
func Build(postfix []Token) (*Node, error) {
	end := 1
	if len(postfix) > 0 {
		last := postfix[len(postfix)-1]
		end = last.Pos + utf8.RuneCountInString(last.Text)
	}
	return build(postfix, end)
}

// build is Build with a known end-of-input column for errors found after the
// last token.
func build(postfix []Token, end int) (*Node, error) {
	var stack []*Node
	for _, tok := range postfix {
		switch tok.Kind {
		case TokenNum:
			stack = append(stack, Num(tok.Num))
		case TokenVar:
			r, _ := utf8.DecodeRuneInString(tok.Text)
			stack = append(stack, Var(r))
		case TokenPlus, TokenMinus, TokenStar, TokenSlash:
			if len(stack) < 2 {
				return nil, underflow(tok, len(stack))
			}
			op1 := stack[len(stack)-1]
			op2 := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			stack = append(stack, &Node{Kind: opkind(tok.Kind), Left: op2, Right: op1})
		case TokenOpen, TokenClose:
			return nil, &ParseError{Col: tok.Pos, Token: tok.Text, Msg: "bracket " + tok.Text + " in postfix expression"}
		default:
			panic("infix: unknown token: " + tok.String())
		}
	}
	switch len(stack) {
	case 0:
		return nil, &ParseError{Col: end, Msg: "no expression"}
	case 1:
		return stack[0], nil
	default:
		return nil, &ParseError{Col: end, Msg: strconv.Itoa(len(stack)) + " operands left without an operator"}
	}
}

// opkind gets the node kind for an operator token kind.
func opkind(k TokenKind) NodeKind {
	switch k {
	case TokenPlus:
		return NodeSum
	case TokenMinus:
		return NodeSub
	case TokenStar:
		return NodeMul
	case TokenSlash:
		return NodeDiv
	default:
		panic("infix: not an operator: " + k.String())
	}
}

// Parse parses an expression, without assignment.
func Parse(src string) (*Node, error) {
	toks, err := Postfix(src)
	if err != nil {
		return nil, err
	}
	return build(toks, utf8.RuneCountInString(src)+1)
}

// ParseStatement parses either an assignment of the form "x = expr", which
// results in a NodeAssign, or a bare expression.
func ParseStatement(stmt string) (*Node, error) {
	name, rhs, off, ok := assignment(stmt)
	if !ok {
		return Parse(stmt)
	}
	n, err := Parse(rhs)
	if err != nil {
		return nil, shift(err, off)
	}
	return Assign(name, n), nil
}

// SplitAssignment splits an assignment statement "x = expr" into the variable
// being bound and the source of its value. If stmt is not an assignment, ok is
// false and stmt should be parsed as a bare expression.
func SplitAssignment(stmt string) (name rune, expr string, ok bool) {
	name, expr, _, ok = assignment(stmt)
	return name, expr, ok
}

// assignment splits an assignment statement into its variable and the source
// of its value. off is the number of runes preceding the value. If stmt is not
// an assignment, ok is false.
func assignment(stmt string) (name rune, rhs string, off int, ok bool) {
	lhs, rhs, ok := strings.Cut(stmt, "=")
	if !ok {
		return 0, "", 0, false
	}
	lhs = strings.TrimSpace(lhs)
	r, sz := utf8.DecodeRuneInString(lhs)
	if sz == 0 || sz != len(lhs) || !unicode.IsLetter(r) {
		return 0, "", 0, false
	}
	off = utf8.RuneCountInString(stmt[:len(stmt)-len(rhs)])
	return r, rhs, off, true
}

// shift moves the position of an input error right by off runes, so that it
// is relative to the whole statement.
func shift(err error, off int) error {
	var le *LexError
	if errors.As(err, &le) {
		le.Col += off
		return err
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		pe.Col += off
	}
	return err
}
