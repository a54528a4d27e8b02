package charta

import (
	"errors"
	"fmt"
	"slices"
)

// Selector identifies which coil transitions a handler receives: a
// specific coil by name, or every coil. An explicit tagged selector (as
// opposed to a reserved literal such as "*") means a coil named like the
// wildcard can never collide with it.
type Selector struct {
	name string
	any  bool
}

// CoilNamed selects transitions of one specific coil.
func CoilNamed(name string) Selector {
	return Selector{name: name}
}

// AnyCoil selects transitions of every coil.
func AnyCoil() Selector {
	return Selector{any: true}
}

// String implements fmt.Stringer for log output.
func (s Selector) String() string {
	if s.any {
		return "<any>"
	}
	return s.name
}

// CoilHandler receives one coil transition. A non-nil error aborts the
// dispatch pass by default (see WithContinueOnHandlerError).
type CoilHandler interface {
	HandleCoilChange(name string, oldValue, newValue bool) error
}

// CoilHandlerFunc adapts a function to CoilHandler.
type CoilHandlerFunc func(name string, oldValue, newValue bool) error

// HandleCoilChange implements CoilHandler.
func (f CoilHandlerFunc) HandleCoilChange(name string, oldValue, newValue bool) error {
	return f(name, oldValue, newValue)
}

// CycleHandler receives the full coil map after every completed cycle.
type CycleHandler interface {
	HandleCycleComplete(outputs map[string]bool) error
}

// CycleHandlerFunc adapts a function to CycleHandler.
type CycleHandlerFunc func(outputs map[string]bool) error

// HandleCycleComplete implements CycleHandler.
func (f CycleHandlerFunc) HandleCycleComplete(outputs map[string]bool) error {
	return f(outputs)
}

// Registry stores event handlers and dispatches them deterministically.
//
// Handlers for the same selector are kept in registration order (FIFO)
// and that order is observable: dispatch invokes them exactly as
// registered. The cycle-complete slot holds at most one handler;
// registering another replaces it.
//
// NOT thread-safe on its own - the owning VM serializes access, taking
// exclusive access for registration and shared access for dispatch. The
// registry's lifetime is independent of the engine's; the VM owns both.
type Registry struct {
	coil            map[Selector][]CoilHandler
	cycleComplete   CycleHandler
	continueOnError bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		coil: make(map[Selector][]CoilHandler),
	}
}

// Register appends a handler to the ordered sequence for a selector.
func (r *Registry) Register(sel Selector, h CoilHandler) {
	r.coil[sel] = append(r.coil[sel], h)
}

// RegisterCycleComplete stores the cycle-complete handler, replacing any
// previous one (single slot, last write wins).
func (r *Registry) RegisterCycleComplete(h CycleHandler) {
	r.cycleComplete = h
}

// Remove drops all handlers registered under exactly sel. Removing a
// specific coil's handlers never affects wildcard handlers, and removing
// the wildcard never affects specific ones.
func (r *Registry) Remove(sel Selector) {
	delete(r.coil, sel)
}

// Clear removes all coil handlers and the cycle-complete handler.
func (r *Registry) Clear() {
	r.coil = make(map[Selector][]CoilHandler)
	r.cycleComplete = nil
}

// DispatchCoilChanges delivers a cycle's diff to the registered handlers.
//
// Changed coils are visited in ascending name order so dispatch is
// reproducible. For each coil, handlers registered for that specific name
// run first, then wildcard handlers, each set in registration order. Every
// handler runs exactly once per occurrence of its target in the diff.
//
// A handler error aborts the remaining pass and is returned as-is, unless
// the registry was configured to continue, in which case all handlers run
// and the collected errors are joined.
func (r *Registry) DispatchCoilChanges(diff map[string]Transition) error {
	names := make([]string, 0, len(diff))
	for name := range diff {
		names = append(names, name)
	}
	slices.Sort(names)

	var errs []error
	for _, name := range names {
		tr := diff[name]
		for _, h := range r.coil[CoilNamed(name)] {
			if err := h.HandleCoilChange(tr.Name, tr.Old, tr.New); err != nil {
				if !r.continueOnError {
					return fmt.Errorf("coil change handler for %q: %w", name, err)
				}
				errs = append(errs, err)
			}
		}
		for _, h := range r.coil[AnyCoil()] {
			if err := h.HandleCoilChange(tr.Name, tr.Old, tr.New); err != nil {
				if !r.continueOnError {
					return fmt.Errorf("coil change handler for %q: %w", name, err)
				}
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// DispatchCycleComplete invokes the cycle-complete handler, if present,
// with the full outputs map. No-op otherwise.
func (r *Registry) DispatchCycleComplete(outputs map[string]bool) error {
	if r.cycleComplete == nil {
		return nil
	}
	if err := r.cycleComplete.HandleCycleComplete(outputs); err != nil {
		return fmt.Errorf("cycle complete handler: %w", err)
	}
	return nil
}
