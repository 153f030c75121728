// Package trace records what the analyzer is doing: the run itself, its
// passes, every analysed function and, at debug level, the liveness sets
// computed for each block.
//
//	cfa cfg --trace=- --trace-level=detail prog.c
//
// Levels nest: phase shows ScopeRun and ScopePass, detail adds ScopeFunc,
// debug adds ScopeBlock. Tracers are goroutine-safe; functions are analysed
// concurrently and attach to their pass through the parent span id.
package trace
