package charta

// Transition records one coil changing state during a scan cycle.
// Transitions are ephemeral: produced once per changed coil per cycle and
// handed to handlers, never stored.
type Transition struct {
	Name string
	Old  bool
	New  bool
}

// DiffCoils computes the coil-state diff between two snapshots.
//
// A name appears in the result iff it is present in new and its value
// differs from old's. A name absent from old (e.g. the first cycle after
// a fresh load) has a baseline value of false. Names absent from new are
// never reported: outputs only cover the engine's currently declared
// coils.
//
// Pure and deterministic: no side effects, identical inputs yield
// identical results.
func DiffCoils(old, new map[string]bool) map[string]Transition {
	diff := make(map[string]Transition)
	for name, newValue := range new {
		oldValue := old[name]
		if oldValue != newValue {
			diff[name] = Transition{Name: name, Old: oldValue, New: newValue}
		}
	}
	return diff
}
