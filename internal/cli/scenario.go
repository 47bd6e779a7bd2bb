package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/primecart/internal/harness"
	"github.com/roach88/primecart/internal/store"
)

// ScenarioOptions holds options for the scenario command.
type ScenarioOptions struct {
	*RootOptions
	GoldenDir string
	Update    bool
	Persist   bool
}

// ScenarioResult is the outcome of one scenario file.
type ScenarioResult struct {
	Name   string   `json:"name"`
	File   string   `json:"file"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// ScenarioReport aggregates every scenario run.
type ScenarioReport struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
}

// NewScenarioCommand creates the scenario command.
func NewScenarioCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScenarioOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "scenario <file.yaml>...",
		Short: "Run scripted storefront scenarios",
		Long: `Run YAML scenarios of storefront operations and check their
expectations and assertions.

Scenarios run against a fresh in-memory store with a fixed clock and
sequential ids, so their results are reproducible. With --golden-dir the
trace and final state are also compared with <name>.golden in that
directory; --update rewrites those files instead.

With --persist the scenario runs against the --db store instead, starting
from whatever state it holds and leaving its changes behind.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(cmd, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.GoldenDir, "golden-dir", "", "directory of golden snapshots to compare against")
	cmd.Flags().BoolVar(&opts.Update, "update", false, "rewrite golden snapshots instead of comparing")
	cmd.Flags().BoolVar(&opts.Persist, "persist", false, "run against the --db store instead of memory")

	return cmd
}

func runScenarios(cmd *cobra.Command, opts *ScenarioOptions, files []string) error {
	out := opts.formatter(cmd)
	if opts.Update && opts.GoldenDir == "" {
		return out.Fail(ExitCommandError, ErrCodeInput, "--update requires --golden-dir", nil)
	}

	report := ScenarioReport{Scenarios: make([]ScenarioResult, 0, len(files))}
	for _, file := range files {
		res := runScenarioFile(opts, file)
		if res.Pass {
			report.Passed++
		} else {
			report.Failed++
		}
		report.Scenarios = append(report.Scenarios, res)
	}

	if err := out.Success(report, report.render); err != nil {
		return err
	}
	if report.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenarios failed", report.Failed, len(files)))
	}
	return nil
}

func runScenarioFile(opts *ScenarioOptions, file string) ScenarioResult {
	res := ScenarioResult{Name: strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)), File: file}
	fail := func(format string, args ...any) ScenarioResult {
		res.Errors = append(res.Errors, fmt.Sprintf(format, args...))
		return res
	}

	scenario, err := harness.LoadScenario(file)
	if err != nil {
		return fail("load: %v", err)
	}
	res.Name = scenario.Name

	result, err := opts.run(scenario)
	if err != nil {
		return fail("execution failed: %v", err)
	}
	res.Errors = append(res.Errors, result.Errors...)

	if opts.GoldenDir != "" {
		if err := opts.checkGolden(scenario.Name, result); err != nil {
			res.Errors = append(res.Errors, err.Error())
		}
	}

	res.Pass = result.Pass && len(res.Errors) == 0
	return res
}

func (o *ScenarioOptions) run(scenario *harness.Scenario) (*harness.Result, error) {
	if !o.Persist {
		return harness.Run(scenario)
	}

	cfg, err := o.settings()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	defer st.Close()
	return harness.RunOn(st, scenario)
}

func (o *ScenarioOptions) checkGolden(name string, result *harness.Result) error {
	got, err := harness.MarshalSnapshot(name, result)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}

	path := filepath.Join(o.GoldenDir, name+".golden")
	if o.Update {
		if err := os.MkdirAll(o.GoldenDir, 0o755); err != nil {
			return fmt.Errorf("create golden dir: %w", err)
		}
		if err := os.WriteFile(path, got, 0o644); err != nil {
			return fmt.Errorf("write golden: %w", err)
		}
		return nil
	}

	want, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read golden: %w", err)
	}
	if !bytes.Equal(got, want) {
		return fmt.Errorf("snapshot differs from %s (rerun with --update to accept)", path)
	}
	return nil
}

func (r ScenarioReport) render(w io.Writer) {
	for _, s := range r.Scenarios {
		if s.Pass {
			fmt.Fprintf(w, "✓ %s\n", s.Name)
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", s.Name)
		for _, e := range s.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}
	fmt.Fprintf(w, "\n%d passed, %d failed\n", r.Passed, r.Failed)
}
