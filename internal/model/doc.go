// Package model provides the Go struct representation of an automation
// scenario document. Its core purpose is to turn the untyped mapping produced
// by a loader (YAML, JSON or HCL) into a strongly-typed, in-memory tree that
// the rest of the compiler can traverse safely.
//
// # Core Concepts
//
//   - Document: the versioned root record. It aggregates the scenario's
//     identity, its variable and profile declarations, execution and output
//     configuration, and the ordered step tree.
//
//   - Step: a tagged union over three variants. An action step is a leaf that
//     invokes one automation verb against one target. A group step only
//     contributes title prefixes to its descendants. A control step expresses
//     branching, iteration, exception-shaped grouping, or a loop signal.
//
//   - Selector: the polymorphic description of how to locate a target on the
//     chosen platform. A selector's fallbacks are themselves full selectors,
//     so a single declaration can carry an ordered preference chain.
//
// Why a separate model package?
//
// Normalization happens exactly once, at the boundary. Everything downstream
// (variable resolution, expansion, code generation) works on this typed tree
// and never touches the raw document again. Structural problems are caught by
// Validate before any expression is evaluated, which keeps the later stages
// free of defensive shape checks.
package model
