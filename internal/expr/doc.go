// Package expr implements the small expression language used by branch
// guards, loop guards and loop sources. The grammar is deliberately tiny and
// un-nested: one token per side, one binary operator per condition, no
// arithmetic and no user-defined functions. It exists to pick a branch or a
// loop source, not to be a general language, and should not grow beyond that.
package expr
