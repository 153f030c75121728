// Package cfg builds per-function control-flow graphs from the syntax tree,
// simplifies them and renders the CFG text format.
//
// Blocks live in a per-function arena and refer to each other by BlockID.
// Branching statements keep their targets as structured Branch values that
// stay unresolved until Simplify has fixed the final block numbering.
package cfg
