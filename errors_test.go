package charta

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charta-vm/charta-go/internal/engine"
	"github.com/charta-vm/charta-go/internal/ir"
)

func TestErrorTranslation_EveryFailureMapsToOneCode(t *testing.T) {
	parseErr := &ir.ParseError{Field: "version", Message: "version is required"}
	loadErr := &engine.LoadError{Message: "duplicate coil"}
	stepErr := &engine.StepError{Message: "no program loaded"}
	unknownErr := &engine.UnknownNameError{Kind: "signal", Name: "ghost"}

	tests := []struct {
		name       string
		translated error
		code       ErrorCode
		cause      error
	}{
		{"parse", translateParse(parseErr), ErrCodeParse, parseErr},
		{"load", translateLoad(loadErr), ErrCodeLoad, loadErr},
		{"step", translateStep(stepErr), ErrCodeStep, stepErr},
		{"io", translateIO("x.json", errors.New("no such file")), ErrCodeIO, nil},
		{"write unknown name", translateWrite(unknownErr), ErrCodeInvalidOperation, unknownErr},
		{"empty name", errEmptyName("coil"), ErrCodeInvalidOperation, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e *Error
			require.ErrorAs(t, tt.translated, &e)
			assert.Equal(t, tt.code, e.Code)
			if tt.cause != nil {
				assert.ErrorIs(t, tt.translated, tt.cause, "cause must survive translation")
			}
		})
	}
}

func TestErrorPredicates(t *testing.T) {
	assert.True(t, IsParseError(translateParse(errors.New("x"))))
	assert.True(t, IsLoadError(translateLoad(errors.New("x"))))
	assert.True(t, IsStepError(translateStep(errors.New("x"))))
	assert.True(t, IsIOError(translateIO("p", errors.New("x"))))
	assert.True(t, IsInvalidOperation(errEmptyName("signal")))

	// Predicates are exclusive and reject foreign errors.
	assert.False(t, IsParseError(translateLoad(errors.New("x"))))
	assert.False(t, IsStepError(nil))
	assert.False(t, IsIOError(errors.New("plain")))
}

func TestError_MessageIncludesCode(t *testing.T) {
	err := translateIO("program.ir.json", errors.New("permission denied"))
	assert.Contains(t, err.Error(), string(ErrCodeIO))
	assert.Contains(t, err.Error(), "program.ir.json")
	assert.Contains(t, err.Error(), "permission denied")
}
