package scenario

import (
	"fmt"
	"sort"

	charta "github.com/charta-vm/charta-go"
)

// TraceEvent is one observed callback during scenario execution.
// Transitions carry Coil/Old/New; cycle completions carry Outputs.
type TraceEvent struct {
	Type    string          `json:"type"` // "transition" or "cycle_complete"
	Cycle   int             `json:"cycle"`
	Seq     int64           `json:"seq"`
	Coil    string          `json:"coil,omitempty"`
	Old     *bool           `json:"old,omitempty"`
	New     *bool           `json:"new,omitempty"`
	Outputs map[string]bool `json:"outputs,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every cycle completed and every expect_coils
	// clause matched.
	Pass bool `json:"pass"`

	// Trace contains every transition and cycle completion in dispatch
	// order. Used for golden comparison.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Observer receives the same callbacks the runner records. Extra
// observers (a journal, a progress printer) see every transition and
// cycle completion in dispatch order.
type Observer interface {
	HandleCoilChange(name string, oldValue, newValue bool) error
	HandleCycleComplete(outputs map[string]bool) error
}

// Run executes a scenario against a fresh VM and returns the result.
//
// The runner observes the VM exactly as an embedding application would:
// a wildcard coil handler records transitions and a cycle-complete
// handler records outputs. A cycle failure aborts the run; the trace
// keeps everything observed up to that point.
func Run(s *Scenario, observers ...Observer) (*Result, error) {
	vm := charta.New()
	if err := vm.LoadProgramFromFile(s.Program); err != nil {
		return nil, fmt.Errorf("load program %s: %w", s.Program, err)
	}

	result := NewResult()

	var seq int64
	cycle := 0
	vm.OnAnyCoilChange(charta.CoilHandlerFunc(
		func(name string, oldValue, newValue bool) error {
			seq++
			oldV, newV := oldValue, newValue
			result.Trace = append(result.Trace, TraceEvent{
				Type:  "transition",
				Cycle: cycle,
				Seq:   seq,
				Coil:  name,
				Old:   &oldV,
				New:   &newV,
			})
			for _, obs := range observers {
				if err := obs.HandleCoilChange(name, oldValue, newValue); err != nil {
					return err
				}
			}
			return nil
		}))
	vm.OnCycleComplete(charta.CycleHandlerFunc(
		func(outputs map[string]bool) error {
			seq++
			result.Trace = append(result.Trace, TraceEvent{
				Type:    "cycle_complete",
				Cycle:   cycle,
				Seq:     seq,
				Outputs: outputs,
			})
			for _, obs := range observers {
				if err := obs.HandleCycleComplete(outputs); err != nil {
					return err
				}
			}
			return nil
		}))

	for i, step := range s.Cycles {
		cycle = i + 1
		outputs, err := vm.ExecuteCycleWithInputs(step.Inputs)
		if err != nil {
			result.AddError(fmt.Sprintf("cycles[%d]: %v", i, err))
			return result, nil
		}
		checkExpectations(result, i, step.ExpectCoils, outputs)
	}
	return result, nil
}

// checkExpectations validates an expect_coils subset match in
// deterministic coil-name order, so failure messages are stable.
func checkExpectations(result *Result, index int, expect, outputs map[string]bool) {
	names := make([]string, 0, len(expect))
	for name := range expect {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		got, ok := outputs[name]
		if !ok {
			result.AddError(fmt.Sprintf(
				"cycles[%d]: expected coil %q is not declared by the program", index, name))
			continue
		}
		if got != expect[name] {
			result.AddError(fmt.Sprintf(
				"cycles[%d]: coil %q = %v, want %v", index, name, got, expect[name]))
		}
	}
}
