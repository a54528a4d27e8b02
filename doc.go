// Package charta embeds the Charta ladder-logic VM in Go applications.
//
// A VM wraps one rule-evaluation engine behind a concurrency-safe façade:
// reads take shared access, mutations take exclusive access, and every
// scan cycle produces a before/after coil diff that is dispatched to
// registered handlers in a deterministic order.
//
// # Example
//
//	vm := charta.New()
//
//	if err := vm.LoadProgramFromFile("program.ir.json"); err != nil {
//		log.Fatal(err)
//	}
//
//	if err := vm.SetSignal("user_submitted", true); err != nil {
//		log.Fatal(err)
//	}
//
//	outputs, err := vm.ExecuteCycle()
//	if err != nil {
//		log.Fatal(err)
//	}
//	if outputs["allow_review"] {
//		fmt.Println("review allowed")
//	}
//
// # Concurrency
//
// All VM methods are safe for concurrent use. The engine follows a
// multiple-readers/single-writer discipline; the mutating portion of a
// cycle never interleaves with any other operation. Handlers run inline
// within the ExecuteCycle call that triggered them, under shared access
// to the callback registry: a handler must not call a mutating VM method
// on the same instance from the same call chain, or it will deadlock.
// This constraint is not enforced - it is caller responsibility.
//
// No VM operation has built-in cancellation or timeout; callers needing
// bounded latency must impose it externally.
package charta
