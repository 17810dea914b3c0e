package infix

import "strings"

// ToPostfix reorders infix tokens into postfix order.
//
// + and - flush every operator on the stack before they are pushed. * and /
// are pushed without flushing anything, so a chain like a*b/c groups as
// a*(b/c). A close bracket flushes up to the nearest open bracket. Open
// brackets still on the stack at the end of the input are dropped without
// error.
func ToPostfix(toks []Token) ([]Token, error) {
	out := make([]Token, 0, len(toks))
	var stack []Token
	for _, tok := range toks {
		switch tok.Kind {
		case TokenNum, TokenVar:
			out = append(out, tok)
		case TokenPlus, TokenMinus:
			for len(stack) > 0 && stack[len(stack)-1].Kind.operator() {
				out = append(out, stack[len(stack)-1])
				stack = stack[:len(stack)-1]
			}
			stack = append(stack, tok)
		case TokenStar, TokenSlash, TokenOpen:
			stack = append(stack, tok)
		case TokenClose:
			for {
				if len(stack) == 0 {
					return nil, unmatched(tok)
				}
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if top.Kind == TokenOpen {
					break
				}
				out = append(out, top)
			}
		default:
			panic("infix: unknown token: " + tok.String())
		}
	}
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].Kind != TokenOpen {
			out = append(out, stack[i])
		}
	}
	return out, nil
}

// Postfix tokenizes an infix expression and converts it to postfix order.
func Postfix(src string) ([]Token, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	return ToPostfix(toks)
}

// FormatPostfix concatenates the texts of a sequence of tokens with no
// separators, e.g. "14+7*9+2-".
func FormatPostfix(toks []Token) string {
	var b strings.Builder
	for _, tok := range toks {
		b.WriteString(tok.Text)
	}
	return b.String()
}
