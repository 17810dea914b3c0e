package infix

import "strconv"

// ParseError is an error indicating a malformed token stream: a close bracket
// with no open bracket, an operator without two operands, or an expression
// that leaves more than one operand. It implements InputError.
type ParseError struct {
	// Col is the position of the token that caused the error, or the
	// position just past the end of the input if the problem was found there.
	Col int
	// Token is the text of the token that caused the error. It is empty if
	// the error was found at the end of the input.
	Token string
	// Msg describes the problem.
	Msg string
}

func (err *ParseError) Error() string {
	return errpos(err.Col, err.Msg)
}

func (err *ParseError) Pos() int {
	return err.Col
}

// unmatched creates an error for a close bracket with no open bracket.
func unmatched(tok Token) error {
	return &ParseError{Col: tok.Pos, Token: tok.Text, Msg: "close bracket " + tok.Text + " with no open bracket"}
}

// underflow creates an error for an operator with too few operands.
func underflow(tok Token, have int) error {
	return &ParseError{
		Col:   tok.Pos,
		Token: tok.Text,
		Msg:   "operator " + strconv.Quote(tok.Text) + " needs 2 operands, have " + strconv.Itoa(have),
	}
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*ParseError)(nil)
	_ InputError = (*LexError)(nil)
)
