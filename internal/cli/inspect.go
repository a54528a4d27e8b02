package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	charta "github.com/charta-vm/charta-go"
)

// InspectResult describes a loaded program's declared names.
type InspectResult struct {
	File    string   `json:"file"`
	Signals []string `json:"signals"`
	Coils   []string `json:"coils"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <program.ir.json>",
		Short: "List a program's declared signals and coils",
		Long: `Load a Charta IR program into a VM and list its declared names.

Names print in declaration order, which is also the order rungs observe
them. Loading performs full validation, so inspect fails on any program
validate would reject.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runInspect(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	vm := charta.New()
	if err := vm.LoadProgramFromFile(path); err != nil {
		code := ExitFailure
		if charta.IsIOError(err) {
			code = ExitCommandError
		}
		_ = formatter.Error(errorCode(err), err.Error(), nil)
		return WrapExitError(code, "load failed", err)
	}

	result := InspectResult{
		File:    path,
		Signals: vm.SignalNames(),
		Coils:   vm.CoilNames(),
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "program: %s\n", path)
	fmt.Fprintf(formatter.Writer, "signals (%d):\n", len(result.Signals))
	for _, name := range result.Signals {
		fmt.Fprintf(formatter.Writer, "  %s\n", name)
	}
	fmt.Fprintf(formatter.Writer, "coils (%d):\n", len(result.Coils))
	for _, name := range result.Coils {
		fmt.Fprintf(formatter.Writer, "  %s\n", name)
	}
	return nil
}

// errorCode pulls the façade error code out of a translated error, so
// the CLI's JSON output carries the same codes the API does.
func errorCode(err error) string {
	switch {
	case charta.IsParseError(err):
		return string(charta.ErrCodeParse)
	case charta.IsLoadError(err):
		return string(charta.ErrCodeLoad)
	case charta.IsStepError(err):
		return string(charta.ErrCodeStep)
	case charta.IsIOError(err):
		return string(charta.ErrCodeIO)
	case charta.IsInvalidOperation(err):
		return string(charta.ErrCodeInvalidOperation)
	default:
		return "UNKNOWN"
	}
}
