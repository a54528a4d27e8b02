package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/charta-vm/charta-go/internal/ir"
)

// ValidationIssue is one problem found in an IR program.
type ValidationIssue struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ValidationResult holds validation results for one program file.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	File   string            `json:"file"`
	Errors []ValidationIssue `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <program.ir.json>",
		Short: "Validate an IR program without loading it",
		Long: `Validate a Charta IR program file.

Runs schema validation against the IR schema, then the full structural
checks a VM performs at load time. No VM is created and nothing
executes.

Exit codes:
  0 - Program is valid
  1 - Program failed validation
  2 - Command error (file not found, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		_ = formatter.Error("IO_ERROR", fmt.Sprintf("cannot read %s", path), err.Error())
		return WrapExitError(ExitCommandError, fmt.Sprintf("cannot read %s", path), err)
	}

	issues := validateProgram(data, formatter)
	if len(issues) > 0 {
		return outputValidationErrors(formatter, path, issues)
	}

	return outputValidateSuccess(formatter, path)
}

// validateProgram runs schema validation first and falls through to the
// structural parser only when the document matches the schema. Schema
// errors point at the offending path; parse errors carry the field.
func validateProgram(data []byte, formatter *OutputFormatter) []ValidationIssue {
	formatter.VerboseLog("running schema validation")
	if err := ir.ValidateSchema(data); err != nil {
		return []ValidationIssue{issueFromError(err)}
	}

	formatter.VerboseLog("running structural validation")
	if _, err := ir.Parse(data); err != nil {
		return []ValidationIssue{issueFromError(err)}
	}
	return nil
}

func issueFromError(err error) ValidationIssue {
	var parseErr *ir.ParseError
	if errors.As(err, &parseErr) {
		return ValidationIssue{Field: parseErr.Field, Message: parseErr.Message}
	}
	return ValidationIssue{Message: err.Error()}
}

func outputValidateSuccess(formatter *OutputFormatter, path string) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, File: path})
	}
	fmt.Fprintf(formatter.Writer, "✓ %s is valid\n", path)
	return nil
}

func outputValidationErrors(formatter *OutputFormatter, path string, issues []ValidationIssue) error {
	if formatter.Format == "json" {
		_ = formatter.Error("PARSE_ERROR", fmt.Sprintf("%s failed validation", path), ValidationResult{
			Valid:  false,
			File:   path,
			Errors: issues,
		})
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(issues)))
	}

	fmt.Fprintf(formatter.Writer, "✗ %s failed validation\n\n", path)
	for _, issue := range issues {
		if issue.Field != "" {
			fmt.Fprintf(formatter.Writer, "  %s: %s\n", issue.Field, issue.Message)
		} else {
			fmt.Fprintf(formatter.Writer, "  %s\n", issue.Message)
		}
	}
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(issues)))
}
