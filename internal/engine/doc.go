// Package engine implements the Charta ladder-logic scan engine.
//
// The engine evaluates a loaded IR program one scan cycle at a time. Each
// Step merges the supplied input signals, resets non-latching coils, and
// executes rungs in declaration order against live state: a contact reads
// the current value of its signal or coil, including values written by
// earlier rungs in the same cycle. Latching coils keep their value across
// cycle starts until an explicit de-energise action clears them.
//
// ARCHITECTURE:
//
// Single-writer state machine:
// The Engine is NOT safe for concurrent use. All access is serialized by
// the owning façade (the charta package), which enforces the
// readers/writer discipline. Keeping the engine lock-free makes its
// evaluation strictly deterministic and trivial to reason about.
//
// CRITICAL PATTERNS:
//
// Rung order is evaluation order. The rungs slice never changes after
// LoadProgram; the same program and inputs always produce the same
// outputs.
//
// LoadProgram is all-or-nothing. Validation runs against freshly built
// state maps; the engine's visible state is swapped only after every check
// passes, so a failed load leaves the previous program fully intact.
package engine
