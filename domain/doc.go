// Package domain defines the contract shared by every input domain.
//
// A domain knows how to generate, mutate, serialize and validate values of
// one logical type. It works on two representations:
//
// - the value (V), the datum handed to the code under test
// - the corpus value (C), the state the search evolves, which may carry more
//   structure than the value it denotes
//
// This package provides:
//
// - Domain, the typed contract, and Untyped, its type-erased form used to
//   hold heterogeneous domains in one ordered list
// - Seeds, the per-instance seed override consulted by Init
// - Printer and PrintMode for rendering corpus values in diagnostics
// - CorpusError, the structured error returned by ValidateCorpusValue
// - ParseTuple and SerializeTuple, the positional helpers combinators use to
//   store several corpus values in one IR sequence
//
// All operations are synchronous and free of I/O. A domain never mutates its
// own configuration, so one instance may be shared by concurrent workers as
// long as each worker owns its random source and corpus values.
package domain
