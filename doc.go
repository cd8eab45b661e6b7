// doc.go - package zrho: the zρ register-machine simulation core

/*
Package zrho implements the simulation core of a register-machine
simulator: bounded-digit integers, scalar/vector registers with
array-index linkage, a typed instruction model with per-kind timing and
energy properties, and a tick-based evaluator with buffered writes,
per-tick call limits, pipelining shortcuts and an interrupt model.

Text assembly lives in the sibling package zrho/asm; this package only
ever sees already-resolved Instructions.

The package has no dependency beyond the standard library. Presentation
(a graphical editor, a terminal REPL) lives under cmd/ and talks to this
package only through its exported API (building a RegisterFile and
Machine, calling Machine's step methods, reading its exported state),
never through evaluator internals.
*/
package zrho
