package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/charta-vm/charta-go/internal/journal"
	"github.com/charta-vm/charta-go/internal/scenario"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Journal string // path to a SQLite journal database, empty to disable
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// RunSummary holds the overall result of a run invocation.
type RunSummary struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>...",
		Short: "Run scenario files against fresh VMs",
		Long: `Run one or more scenario files.

Each scenario loads its program into a fresh VM, drives the declared
scan cycles, and checks expect_coils clauses against cycle outputs.
With --journal, every coil transition and cycle completion is also
recorded to a SQLite journal database.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (missing files, journal cannot open, etc.)

Examples:
  charta run scenarios/motor_latch.yaml
  charta run scenarios/*.yaml --journal run.db
  charta run scenarios/motor_latch.yaml --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Journal, "journal", "", "path to SQLite journal database")

	return cmd
}

func runScenarios(opts *RunOptions, paths []string, cmd *cobra.Command) error {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))

	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return NewExitError(ExitCommandError, fmt.Sprintf("scenario file not found: %s", path))
		}
	}

	summary := RunSummary{
		Scenarios: make([]ScenarioResult, 0, len(paths)),
		Total:     len(paths),
	}

	for _, path := range paths {
		res := runOneScenario(opts, path, cmd)
		summary.Scenarios = append(summary.Scenarios, res)
		if res.Pass {
			summary.Passed++
		} else {
			summary.Failed++
		}
	}

	if opts.Format == "json" {
		return outputRunJSON(cmd, summary)
	}
	return outputRunText(cmd, summary)
}

func runOneScenario(opts *RunOptions, path string, cmd *cobra.Command) ScenarioResult {
	w := cmd.OutOrStdout()

	s, err := scenario.Load(path)
	if err != nil {
		if opts.Format != "json" {
			fmt.Fprintf(w, "✗ %s\n  %v\n", path, err)
		}
		return ScenarioResult{
			Name:   path,
			Pass:   false,
			Errors: []string{fmt.Sprintf("load scenario: %v", err)},
		}
	}

	var observers []scenario.Observer
	if opts.Journal != "" {
		// One journal run per scenario, so run tokens delimit scenarios.
		j, err := journal.Open(opts.Journal, s.Name)
		if err != nil {
			if opts.Format != "json" {
				fmt.Fprintf(w, "✗ %s\n  %v\n", s.Name, err)
			}
			return ScenarioResult{
				Name:   s.Name,
				Pass:   false,
				Errors: []string{fmt.Sprintf("open journal: %v", err)},
			}
		}
		defer j.Close()
		observers = append(observers, j)
	}

	result, err := scenario.Run(s, observers...)
	if err != nil {
		if opts.Format != "json" {
			fmt.Fprintf(w, "✗ %s\n  %v\n", s.Name, err)
		}
		return ScenarioResult{
			Name:   s.Name,
			Pass:   false,
			Errors: []string{fmt.Sprintf("execution failed: %v", err)},
		}
	}

	if result.Pass {
		if opts.Format != "json" {
			fmt.Fprintf(w, "✓ %s\n", s.Name)
		}
		return ScenarioResult{Name: s.Name, Pass: true}
	}

	if opts.Format != "json" {
		fmt.Fprintf(w, "✗ %s\n", s.Name)
		for _, e := range result.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}
	return ScenarioResult{Name: s.Name, Pass: false, Errors: result.Errors}
}

func outputRunJSON(cmd *cobra.Command, summary RunSummary) error {
	status := "ok"
	if summary.Failed > 0 {
		status = "error"
	}

	response := CLIResponse{
		Status: status,
		Data:   summary,
	}
	if summary.Failed > 0 {
		response.Error = &CLIError{
			Code:    "SCENARIO_FAILED",
			Message: fmt.Sprintf("%d scenario(s) failed", summary.Failed),
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}

	if summary.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", summary.Failed))
	}
	return nil
}

func outputRunText(cmd *cobra.Command, summary RunSummary) error {
	w := cmd.OutOrStdout()

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Run Summary: %d passed, %d failed, %d total\n",
		summary.Passed, summary.Failed, summary.Total)

	if summary.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", summary.Failed))
	}

	fmt.Fprintln(w, "✓ All scenarios passed")
	return nil
}
