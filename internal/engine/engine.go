package engine

import (
	"fmt"
	"log/slog"

	"github.com/charta-vm/charta-go/internal/ir"
)

// Engine holds the state of one loaded ladder program.
//
// NOT thread-safe: the owning façade serializes all access (see doc.go).
// The zero value is unusable; call New.
type Engine struct {
	module *ir.Module

	// Declaration order, preserved for SignalNames/CoilNames.
	signalOrder []string
	coilOrder   []string

	signals  map[string]bool
	coils    map[string]bool
	latching map[string]bool
}

// New creates an engine with no program loaded.
func New() *Engine {
	return &Engine{
		signals:  make(map[string]bool),
		coils:    make(map[string]bool),
		latching: make(map[string]bool),
	}
}

// Loaded reports whether a program has been installed.
func (e *Engine) Loaded() bool {
	return e.module != nil
}

// LoadProgram installs a parsed program, replacing any previous one.
//
// Validation covers what Parse cannot see: duplicate declarations, a name
// declared as both signal and coil, and rung references to undeclared
// names. On any error the engine's previous state is left untouched.
func (e *Engine) LoadProgram(doc *ir.Document) error {
	mod := doc.Module

	signalOrder := make([]string, 0, len(mod.Signals))
	coilOrder := make([]string, 0, len(mod.Coils))
	signals := make(map[string]bool, len(mod.Signals))
	coils := make(map[string]bool, len(mod.Coils))
	latching := make(map[string]bool)

	for _, sig := range mod.Signals {
		if _, dup := signals[sig.Name]; dup {
			return &LoadError{Message: fmt.Sprintf("duplicate signal %q", sig.Name)}
		}
		signals[sig.Name] = false
		signalOrder = append(signalOrder, sig.Name)
	}
	for _, coil := range mod.Coils {
		if _, dup := coils[coil.Name]; dup {
			return &LoadError{Message: fmt.Sprintf("duplicate coil %q", coil.Name)}
		}
		if _, clash := signals[coil.Name]; clash {
			return &LoadError{Message: fmt.Sprintf("%q declared as both signal and coil", coil.Name)}
		}
		coils[coil.Name] = false
		coilOrder = append(coilOrder, coil.Name)
		if coil.Latching {
			latching[coil.Name] = true
		}
	}

	for i := range mod.Rungs {
		rung := &mod.Rungs[i]
		if err := checkGuardRefs(&rung.Guard, rung.Name, signals, coils); err != nil {
			return err
		}
		for _, act := range rung.Actions {
			if _, ok := coils[act.Coil]; !ok {
				return &LoadError{
					Rung:    rung.Name,
					Message: fmt.Sprintf("action references undeclared coil %q", act.Coil),
				}
			}
		}
	}

	// All checks passed; swap in the new program state.
	e.module = &mod
	e.signalOrder = signalOrder
	e.coilOrder = coilOrder
	e.signals = signals
	e.coils = coils
	e.latching = latching

	slog.Debug("program loaded",
		"module", mod.Name,
		"signals", len(signalOrder),
		"coils", len(coilOrder),
		"rungs", len(mod.Rungs),
	)

	return nil
}

// checkGuardRefs verifies every contact in a guard references a declared
// signal or coil.
func checkGuardRefs(g *ir.Guard, rung string, signals, coils map[string]bool) error {
	switch g.Type {
	case ir.GuardContact:
		if _, ok := signals[g.Name]; ok {
			return nil
		}
		if _, ok := coils[g.Name]; ok {
			return nil
		}
		return &LoadError{
			Rung:    rung,
			Message: fmt.Sprintf("contact references undeclared name %q", g.Name),
		}
	default:
		for i := range g.Operands {
			if err := checkGuardRefs(&g.Operands[i], rung, signals, coils); err != nil {
				return err
			}
		}
		for _, sub := range []*ir.Guard{g.Left, g.Right, g.Operand} {
			if sub != nil {
				if err := checkGuardRefs(sub, rung, signals, coils); err != nil {
					return err
				}
			}
		}
		return nil
	}
}

// Step advances one scan cycle and returns a copy of the full coil map.
//
// The cycle: merge inputs into signal state, reset non-latching coils,
// evaluate rungs in declaration order applying actions immediately.
// Passing an input for an undeclared signal fails the whole step before
// any state changes.
func (e *Engine) Step(inputs map[string]bool) (map[string]bool, error) {
	if e.module == nil {
		return nil, &StepError{Message: "no program loaded"}
	}

	// Validate inputs before touching state: a failed step must have no
	// observable effect.
	for name := range inputs {
		if _, ok := e.signals[name]; !ok {
			return nil, &StepError{
				Message: "invalid input",
				Err:     &UnknownNameError{Kind: "signal", Name: name},
			}
		}
	}
	for name, value := range inputs {
		e.signals[name] = value
	}

	// Non-latching coils start each cycle de-energised.
	for name := range e.coils {
		if !e.latching[name] {
			e.coils[name] = false
		}
	}

	for i := range e.module.Rungs {
		rung := &e.module.Rungs[i]
		on, err := e.evalGuard(&rung.Guard)
		if err != nil {
			return nil, &StepError{Message: fmt.Sprintf("rung %q", rung.Name), Err: err}
		}
		if !on {
			continue
		}
		for _, act := range rung.Actions {
			switch act.Type {
			case ir.ActionEnergise:
				e.coils[act.Coil] = true
			case ir.ActionDeEnergise:
				e.coils[act.Coil] = false
			}
		}
	}

	return e.AllCoils(), nil
}

// SignalState returns the current value of a signal, or ok=false if the
// name was not declared.
func (e *Engine) SignalState(name string) (value, ok bool) {
	value, ok = e.signals[name]
	return value, ok
}

// CoilState returns the current value of a coil, or ok=false if the name
// was not declared.
func (e *Engine) CoilState(name string) (value, ok bool) {
	value, ok = e.coils[name]
	return value, ok
}

// AllSignals returns a copy of the full signal map.
func (e *Engine) AllSignals() map[string]bool {
	return copyStates(e.signals)
}

// AllCoils returns a copy of the full coil map.
func (e *Engine) AllCoils() map[string]bool {
	return copyStates(e.coils)
}

// SetSignal overrides a signal value without advancing a cycle.
// Fails if the signal was not declared at load time.
func (e *Engine) SetSignal(name string, value bool) error {
	if _, ok := e.signals[name]; !ok {
		return &UnknownNameError{Kind: "signal", Name: name}
	}
	e.signals[name] = value
	return nil
}

// SetCoil overrides a coil value without advancing a cycle.
// Fails if the coil was not declared at load time.
func (e *Engine) SetCoil(name string, value bool) error {
	if _, ok := e.coils[name]; !ok {
		return &UnknownNameError{Kind: "coil", Name: name}
	}
	e.coils[name] = value
	return nil
}

// SignalNames returns the declared signal names in declaration order.
func (e *Engine) SignalNames() []string {
	out := make([]string, len(e.signalOrder))
	copy(out, e.signalOrder)
	return out
}

// CoilNames returns the declared coil names in declaration order.
func (e *Engine) CoilNames() []string {
	out := make([]string, len(e.coilOrder))
	copy(out, e.coilOrder)
	return out
}

func copyStates(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
