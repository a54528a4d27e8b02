package engine

import (
	"fmt"

	"github.com/charta-vm/charta-go/internal/ir"
)

// evalGuard evaluates a guard expression against live engine state.
//
// Contacts resolve against signals first, then coils; a coil contact reads
// the value written by earlier rungs in the same cycle. LoadProgram
// guarantees every referenced name is declared, so lookup failures here
// indicate a programming error rather than bad input.
func (e *Engine) evalGuard(g *ir.Guard) (bool, error) {
	switch g.Type {
	case ir.GuardContact:
		value, ok := e.signals[g.Name]
		if !ok {
			value, ok = e.coils[g.Name]
		}
		if !ok {
			return false, &UnknownNameError{Kind: "signal", Name: g.Name}
		}
		if g.ContactType == ir.ContactNC {
			return !value, nil
		}
		return value, nil

	case ir.GuardAnd:
		for _, sub := range g.Subguards() {
			v, err := e.evalGuard(sub)
			if err != nil {
				return false, err
			}
			if !v {
				return false, nil
			}
		}
		return true, nil

	case ir.GuardOr:
		for _, sub := range g.Subguards() {
			v, err := e.evalGuard(sub)
			if err != nil {
				return false, err
			}
			if v {
				return true, nil
			}
		}
		return false, nil

	case ir.GuardNot:
		subs := g.Subguards()
		if len(subs) != 1 {
			return false, fmt.Errorf("not guard requires exactly one operand, got %d", len(subs))
		}
		v, err := e.evalGuard(subs[0])
		if err != nil {
			return false, err
		}
		return !v, nil

	default:
		return false, fmt.Errorf("unknown guard type %q", g.Type)
	}
}
