package infix

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// Token is a lexical token of an expression.
type Token struct {
	// Kind is the kind of the token.
	Kind TokenKind
	// Text is the token's source text.
	Text string
	// Num is the value of a TokenNum token.
	Num float64
	// Pos is the 1-based rune column at which the token starts.
	Pos int
}

func (t Token) String() string {
	return t.Kind.String() + ":" + t.Text + "@" + strconv.Itoa(t.Pos)
}

// TokenKind is the kind of a token.
type TokenKind int8

const (
	TokenNone TokenKind = iota
	// TokenNum is a decimal number.
	TokenNum
	// TokenVar is a single-letter variable.
	TokenVar
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	// TokenOpen and TokenClose are round brackets.
	TokenOpen
	TokenClose
)

var tokenKindStrings = [...]string{
	TokenNone:  "None",
	TokenNum:   "Num",
	TokenVar:   "Var",
	TokenPlus:  "Plus",
	TokenMinus: "Minus",
	TokenStar:  "Star",
	TokenSlash: "Slash",
	TokenOpen:  "Open",
	TokenClose: "Close",
}

func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(tokenKindStrings) {
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
	return tokenKindStrings[k]
}

// operator reports whether the token is one of the four binary operators.
func (k TokenKind) operator() bool {
	return TokenPlus <= k && k <= TokenSlash
}

// Operators contains the runes which are considered to be operators, in the
// order of their token kinds.
const Operators = "+-*/"

// Brackets contains the open and close brackets, in that order.
const Brackets = "()"

var operkinds = [...]TokenKind{TokenPlus, TokenMinus, TokenStar, TokenSlash}

type lexer struct {
	src io.RuneScanner
	buf strings.Builder
	col int
}

func lex(src io.RuneScanner) *lexer {
	return &lexer{src: src}
}

// readRune reads a rune from the src and updates the lexer's position info.
func (l *lexer) readRune() (rune, error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.col++
	}
	return r, err
}

// unreadRune unreads a rune from the src and updates the lexer's position
// info. Panics if unreading returns an error.
func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.col--
}

// next scans the next token from the input. Whitespace between tokens is
// skipped. At the end of the input, the error is io.EOF.
func (l *lexer) next() (Token, error) {
	defer l.buf.Reset()
	for {
		r, err := l.readRune()
		if err != nil {
			return Token{}, err
		}
		tok := Token{Pos: l.col}
		switch {
		case unicode.IsSpace(r):
			continue
		case '0' <= r && r <= '9', r == '.':
			l.unreadRune()
			if err := l.scanNum(); err != nil {
				return tok, err
			}
			tok.Text = l.buf.String()
			tok.Kind = TokenNum
			tok.Num, err = strconv.ParseFloat(tok.Text, 64)
			// Out of range literals keep the ±Inf or 0 that ParseFloat gives.
			if err != nil && !errors.Is(err, strconv.ErrRange) {
				return tok, l.error("number")
			}
			return tok, nil
		case unicode.IsLetter(r):
			tok.Text = string(r)
			tok.Kind = TokenVar
			return tok, nil
		case r == '(':
			tok.Text = "("
			tok.Kind = TokenOpen
			return tok, nil
		case r == ')':
			tok.Text = ")"
			tok.Kind = TokenClose
			return tok, nil
		default:
			if k := strings.IndexRune(Operators, r); k >= 0 {
				tok.Text = Operators[k : k+1]
				tok.Kind = operkinds[k]
				return tok, nil
			}
			// Write the rune so that it shows up in the error message.
			l.buf.WriteRune(r)
			return tok, l.error("")
		}
	}
}

// scanNum scans digits with at most one decimal point.
func (l *lexer) scanNum() error {
	var dig, dot bool
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		switch {
		case '0' <= r && r <= '9':
			dig = true
		case r == '.':
			if dot {
				l.buf.WriteRune(r)
				return l.error("number")
			}
			dot = true
		default:
			l.unreadRune()
			if !dig {
				return l.error("number")
			}
			return nil
		}
		l.buf.WriteRune(r)
	}
	if !dig {
		return l.error("number")
	}
	return nil
}

func (l *lexer) error(kind string) error {
	return &LexError{
		Text: l.buf.String(),
		Kind: kind,
		Col:  l.col,
	}
}

// Tokenize scans an expression into tokens.
func Tokenize(src string) ([]Token, error) {
	scan := lex(strings.NewReader(src))
	var toks []Token
	for {
		tok, err := scan.next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return toks, nil
			}
			return nil, err
		}
		toks = append(toks, tok)
	}
}

// LexError is an error from a rune that cannot start or continue a token. It
// implements InputError.
type LexError struct {
	// Text is the source of the token being scanned, ending with the rune
	// that could not be used.
	Text string
	// Kind is "number" if the bad rune was inside a number, otherwise empty.
	Kind string
	// Col is the column of the last rune in Text.
	Col int
}

func (err *LexError) Error() string {
	what := "invalid character "
	if err.Kind != "" {
		what = "invalid " + err.Kind + " "
	}
	return errpos(err.Col, what+strconv.Quote(err.Text))
}

func (err *LexError) Pos() int {
	return err.Col
}
