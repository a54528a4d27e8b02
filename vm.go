package charta

import (
	"log/slog"
	"os"
	"sync"

	"github.com/charta-vm/charta-go/internal/engine"
	"github.com/charta-vm/charta-go/internal/ir"
)

// VM is the concurrency-safe façade over one shared ladder engine.
//
// All methods may be called concurrently. Two locks enforce the access
// discipline: mu guards the engine with a readers/writer split (reads
// shared, program loads / state writes / the mutating portion of a cycle
// exclusive), and cbmu guards the callback registry independently, so
// handler registration never contends with engine access.
//
// Handlers run inline within the ExecuteCycle call that triggered them;
// see the package documentation for the re-entrancy constraint.
type VM struct {
	mu  sync.RWMutex
	eng *engine.Engine

	cbmu      sync.RWMutex
	callbacks *Registry
}

// Option configures a VM at construction.
type Option func(*VM)

// WithContinueOnHandlerError makes a failing handler non-fatal to its
// dispatch pass: remaining handlers still run and ExecuteCycle returns
// the collected failures joined into one error.
//
// The default is the opposite: the first handler error aborts the pass.
func WithContinueOnHandlerError() Option {
	return func(vm *VM) {
		vm.callbacks.continueOnError = true
	}
}

// New creates a VM with no program loaded.
func New(opts ...Option) *VM {
	vm := &VM{
		eng:       engine.New(),
		callbacks: NewRegistry(),
	}
	for _, opt := range opts {
		opt(vm)
	}
	return vm
}

// LoadProgram parses an IR document and installs it in the engine under
// exclusive access. On parse or engine-level failure no mutation occurs:
// a previously loaded program stays fully intact.
func (vm *VM) LoadProgram(text string) error {
	doc, err := ir.Parse([]byte(text))
	if err != nil {
		return translateParse(err)
	}

	vm.mu.Lock()
	defer vm.mu.Unlock()
	if err := vm.eng.LoadProgram(doc); err != nil {
		return translateLoad(err)
	}
	return nil
}

// LoadProgramFromFile reads path as text and delegates to LoadProgram.
// A read failure surfaces as an IO error and performs no mutation.
func (vm *VM) LoadProgramFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return translateIO(path, err)
	}
	return vm.LoadProgram(string(data))
}

// ExecuteCycle advances one scan cycle with no extra inputs and returns
// the full coil map. See ExecuteCycleWithInputs for the cycle contract.
func (vm *VM) ExecuteCycle() (map[string]bool, error) {
	return vm.ExecuteCycleWithInputs(nil)
}

// ExecuteCycleWithInputs advances one scan cycle:
//
//  1. Snapshot the coil map under shared access.
//  2. Run the engine's mutating step under exclusive access. The step is
//     atomic relative to every other VM operation.
//  3. On step failure, return the error: no diff, no callbacks.
//  4. Diff the snapshot against the step's outputs.
//  5. If the diff is non-empty, dispatch it to coil-change handlers.
//  6. Dispatch cycle-complete with the full outputs, even on an empty diff.
//
// A handler failure propagates out of this call; by then the engine has
// already advanced, so only notification delivery is affected.
func (vm *VM) ExecuteCycleWithInputs(inputs map[string]bool) (map[string]bool, error) {
	vm.mu.RLock()
	oldCoils := vm.eng.AllCoils()
	vm.mu.RUnlock()

	vm.mu.Lock()
	outputs, err := vm.eng.Step(inputs)
	vm.mu.Unlock()
	if err != nil {
		return nil, translateStep(err)
	}

	diff := DiffCoils(oldCoils, outputs)
	slog.Debug("cycle executed", "coils", len(outputs), "changed", len(diff))

	vm.cbmu.RLock()
	defer vm.cbmu.RUnlock()
	if len(diff) > 0 {
		if err := vm.callbacks.DispatchCoilChanges(diff); err != nil {
			return nil, err
		}
	}
	if err := vm.callbacks.DispatchCycleComplete(outputs); err != nil {
		return nil, err
	}
	return outputs, nil
}

// Coil returns the current value of a coil, with ok=false when the name
// was never declared. Absence is not an error.
func (vm *VM) Coil(name string) (value, ok bool, err error) {
	if name == "" {
		return false, false, errEmptyName("coil")
	}
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	value, ok = vm.eng.CoilState(name)
	return value, ok, nil
}

// Signal returns the current value of a signal, with ok=false when the
// name was never declared. Absence is not an error.
func (vm *VM) Signal(name string) (value, ok bool, err error) {
	if name == "" {
		return false, false, errEmptyName("signal")
	}
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	value, ok = vm.eng.SignalState(name)
	return value, ok, nil
}

// AllCoils returns a snapshot of the full coil map.
func (vm *VM) AllCoils() map[string]bool {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.eng.AllCoils()
}

// AllSignals returns a snapshot of the full signal map.
func (vm *VM) AllSignals() map[string]bool {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.eng.AllSignals()
}

// SetSignal overrides a signal value without advancing a cycle.
func (vm *VM) SetSignal(name string, value bool) error {
	if name == "" {
		return errEmptyName("signal")
	}
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if err := vm.eng.SetSignal(name, value); err != nil {
		return translateWrite(err)
	}
	return nil
}

// SetCoil overrides a coil value without advancing a cycle. Intended for
// testing and debugging; the next cycle re-evaluates the coil normally.
func (vm *VM) SetCoil(name string, value bool) error {
	if name == "" {
		return errEmptyName("coil")
	}
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if err := vm.eng.SetCoil(name, value); err != nil {
		return translateWrite(err)
	}
	return nil
}

// SignalNames returns the declared signal names in declaration order.
func (vm *VM) SignalNames() []string {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.eng.SignalNames()
}

// CoilNames returns the declared coil names in declaration order.
func (vm *VM) CoilNames() []string {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.eng.CoilNames()
}

// OnCoilChange registers a handler for one specific coil's transitions.
// Handlers for the same coil fire in registration order.
func (vm *VM) OnCoilChange(name string, h CoilHandler) error {
	if name == "" {
		return errEmptyName("coil")
	}
	vm.cbmu.Lock()
	defer vm.cbmu.Unlock()
	vm.callbacks.Register(CoilNamed(name), h)
	return nil
}

// OnAnyCoilChange registers a handler for every coil's transitions. For a
// given transition, wildcard handlers fire after the coil's specific
// handlers.
func (vm *VM) OnAnyCoilChange(h CoilHandler) {
	vm.cbmu.Lock()
	defer vm.cbmu.Unlock()
	vm.callbacks.Register(AnyCoil(), h)
}

// OnCycleComplete registers the cycle-complete handler, replacing any
// previous one.
func (vm *VM) OnCycleComplete(h CycleHandler) {
	vm.cbmu.Lock()
	defer vm.cbmu.Unlock()
	vm.callbacks.RegisterCycleComplete(h)
}

// RemoveCoilHandlers drops all handlers registered for one specific coil.
// Wildcard handlers are unaffected.
func (vm *VM) RemoveCoilHandlers(name string) error {
	if name == "" {
		return errEmptyName("coil")
	}
	vm.cbmu.Lock()
	defer vm.cbmu.Unlock()
	vm.callbacks.Remove(CoilNamed(name))
	return nil
}

// RemoveAnyCoilHandlers drops all wildcard handlers. Handlers registered
// for specific coils are unaffected.
func (vm *VM) RemoveAnyCoilHandlers() {
	vm.cbmu.Lock()
	defer vm.cbmu.Unlock()
	vm.callbacks.Remove(AnyCoil())
}

// ClearCallbacks removes all coil handlers and the cycle-complete handler.
func (vm *VM) ClearCallbacks() {
	vm.cbmu.Lock()
	defer vm.cbmu.Unlock()
	vm.callbacks.Clear()
}
