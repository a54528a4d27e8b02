package ir

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"
)

//go:embed schema.cue
var schemaSrc string

var (
	schemaOnce  sync.Once
	schemaValue cue.Value
	schemaErr   error
)

// documentSchema compiles the embedded CUE schema once and returns the
// #Document definition.
func documentSchema() (cue.Value, error) {
	schemaOnce.Do(func() {
		ctx := cuecontext.New()
		v := ctx.CompileString(schemaSrc, cue.Filename("schema.cue"))
		if err := v.Err(); err != nil {
			schemaErr = fmt.Errorf("compile IR schema: %w", err)
			return
		}
		schemaValue = v.LookupPath(cue.ParsePath("#Document"))
		if err := schemaValue.Err(); err != nil {
			schemaErr = fmt.Errorf("lookup #Document: %w", err)
		}
	})
	return schemaValue, schemaErr
}

// ValidateSchema checks raw JSON against the embedded CUE schema.
//
// This is a stricter check than Parse: unknown discriminator values and
// malformed guard shapes are reported with CUE's error positions. Used by
// the CLI validate command; the façade's load path uses Parse directly.
func ValidateSchema(data []byte) error {
	schema, err := documentSchema()
	if err != nil {
		return err
	}
	if err := cuejson.Validate(data, schema); err != nil {
		return &ParseError{Message: "schema validation failed", Err: err}
	}
	return nil
}
