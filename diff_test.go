package charta

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiffCoils_ReportsOnlyChangedNames(t *testing.T) {
	old := map[string]bool{"a": false, "b": true, "c": false}
	new := map[string]bool{"a": true, "b": true, "c": false}

	diff := DiffCoils(old, new)

	assert.Equal(t, map[string]Transition{
		"a": {Name: "a", Old: false, New: true},
	}, diff)
}

func TestDiffCoils_AbsentFromOldBaselinesFalse(t *testing.T) {
	// First cycle after a fresh load: no prior snapshot.
	diff := DiffCoils(map[string]bool{}, map[string]bool{"on": true, "off": false})

	assert.Equal(t, map[string]Transition{
		"on": {Name: "on", Old: false, New: true},
	}, diff)
	assert.NotContains(t, diff, "off", "false == baseline false is not a change")
}

func TestDiffCoils_NamesAbsentFromNewNeverReported(t *testing.T) {
	// A coil that disappeared from the outputs (e.g. after loading a new
	// program) is not a transition.
	diff := DiffCoils(map[string]bool{"gone": true}, map[string]bool{})
	assert.Empty(t, diff)
}

func TestDiffCoils_EmptyOnIdenticalSnapshots(t *testing.T) {
	snap := map[string]bool{"a": true, "b": false}
	assert.Empty(t, DiffCoils(snap, snap))
}

func TestDiffCoils_Deterministic(t *testing.T) {
	old := map[string]bool{"a": false, "b": true}
	new := map[string]bool{"a": true, "b": false}

	first := DiffCoils(old, new)
	second := DiffCoils(old, new)
	assert.Equal(t, first, second)
}
