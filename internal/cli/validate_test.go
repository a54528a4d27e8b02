package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCommand runs the root command with args and captures stdout.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidate_ValidProgram(t *testing.T) {
	out, err := executeCommand(t, "validate", "testdata/motor.ir.json")
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")
}

func TestValidate_MalformedProgram(t *testing.T) {
	out, err := executeCommand(t, "validate", "testdata/malformed.ir.json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "failed validation")
}

func TestValidate_DanglingReferencesPassStructuralValidation(t *testing.T) {
	// Cross-references are checked at load time, not parse time.
	out, err := executeCommand(t, "validate", "testdata/bad_reference.ir.json")
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")
}

func TestValidate_MissingFile(t *testing.T) {
	_, err := executeCommand(t, "validate", "testdata/does_not_exist.ir.json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestValidate_JSONOutput(t *testing.T) {
	out, err := executeCommand(t, "--format", "json", "validate", "testdata/motor.ir.json")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestValidate_JSONOutputOnFailure(t *testing.T) {
	out, err := executeCommand(t, "--format", "json", "validate", "testdata/malformed.ir.json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "PARSE_ERROR", resp.Error.Code)
}
