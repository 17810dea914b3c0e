// Package infix implements a small symbolic calculator over single-letter
// variables.
//
// A statement is either a bare expression like "(1+4)*7+9-2" or an assignment
// like "x = y*2". Expressions are tokenized, reordered into postfix form by an
// operator-precedence conversion, and assembled into a tree. Evaluating a tree
// folds every subtree whose operands are numbers. In simplify mode, variables
// with no binding are kept as symbols, so "x + 2*3" becomes "(x + 6)". In
// evaluate mode, they are an error.
//
// Assignments bind the right-hand side as written, without evaluating it.
// Variables are resolved again each time they are used, so a binding follows
// later changes to the variables it mentions.
//
// The conversion is permissive in a few ways that differ from conventional
// calculators. Unmatched open brackets are dropped. Chains of * and / group to
// the right, and a division node divides its right operand by its left one, so
// "8/2" evaluates to 0.25.
package infix
