package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charta-vm/charta-go/internal/journal"
)

func TestRun_PassingScenario(t *testing.T) {
	out, err := executeCommand(t, "run", "testdata/motor_latch.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ motor_latch")
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")
}

func TestRun_FailingScenario(t *testing.T) {
	out, err := executeCommand(t, "run", "testdata/failing.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ failing")
	assert.Contains(t, out, `coil "running" = true, want false`)
}

func TestRun_MixedScenarios(t *testing.T) {
	out, err := executeCommand(t, "run", "testdata/motor_latch.yaml", "testdata/failing.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "1 passed, 1 failed, 2 total")
}

func TestRun_MissingScenarioFile(t *testing.T) {
	_, err := executeCommand(t, "run", "testdata/does_not_exist.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRun_JSONOutput(t *testing.T) {
	out, err := executeCommand(t, "--format", "json", "run", "testdata/motor_latch.yaml")
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   RunSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data.Scenarios, 1)
	assert.True(t, resp.Data.Scenarios[0].Pass)
}

func TestRun_JournalRecordsTransitions(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "run.db")

	_, err := executeCommand(t, "run", "testdata/motor_latch.yaml", "--journal", dbPath)
	require.NoError(t, err)

	j, err := journal.Open(dbPath, "verify")
	require.NoError(t, err)
	defer j.Close()

	ctx := context.Background()
	runs, err := j.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2, "scenario run plus this verification run")

	// motor_latch energises running in cycle 1 and de-energises it in
	// cycle 3, so the scenario's run logged exactly two transitions.
	transitions, err := j.TransitionsFor(ctx, runs[0])
	require.NoError(t, err)
	require.Len(t, transitions, 2)
	assert.Equal(t, "running", transitions[0].Coil)
	assert.True(t, transitions[0].New)
	assert.False(t, transitions[1].New)
}
