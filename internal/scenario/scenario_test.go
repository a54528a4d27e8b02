package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValidScenario(t *testing.T) {
	s, err := Load("testdata/scenarios/motor_latch.yaml")
	require.NoError(t, err)

	assert.Equal(t, "motor_latch", s.Name)
	assert.NotEmpty(t, s.Description)
	assert.Len(t, s.Cycles, 3)

	// Program path is resolved relative to the scenario file.
	assert.Equal(t, filepath.Join("testdata", "programs", "motor.ir.json"), s.Program)
	_, err = os.Stat(s.Program)
	assert.NoError(t, err, "resolved program path must exist")

	assert.Equal(t, map[string]bool{"start": true}, s.Cycles[0].Inputs)
	assert.Equal(t, map[string]bool{"running": true}, s.Cycles[0].ExpectCoils)
}

func TestLoad_RejectsUnknownFields(t *testing.T) {
	path := writeScenarioFile(t, `
name: typo
description: "unknown key should be rejected"
program: prog.ir.json
cycle:
  - inputs: {}
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse scenario YAML")
}

func TestLoad_ValidationErrors(t *testing.T) {
	prog, err := filepath.Abs("testdata/programs/motor.ir.json")
	require.NoError(t, err)

	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing name",
			yaml:    "description: d\nprogram: p.json\ncycles:\n  - inputs: {}\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			yaml:    "name: n\nprogram: p.json\ncycles:\n  - inputs: {}\n",
			wantErr: "description is required",
		},
		{
			name:    "missing program",
			yaml:    "name: n\ndescription: d\ncycles:\n  - inputs: {}\n",
			wantErr: "program is required",
		},
		{
			name:    "no cycles",
			yaml:    "name: n\ndescription: d\nprogram: " + prog + "\n",
			wantErr: "cycles list is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeScenarioFile(t, tt.yaml)
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingProgramFile(t *testing.T) {
	path := writeScenarioFile(t, `
name: ghost
description: "program path does not exist"
program: does_not_exist.ir.json
cycles:
  - inputs: {}
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "program file not found")
}

func writeScenarioFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
