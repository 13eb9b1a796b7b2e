package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/dryflow/dryflow/pkg/console"
	"github.com/dryflow/dryflow/pkg/constants"
	"github.com/dryflow/dryflow/pkg/gitutil"
	"github.com/dryflow/dryflow/pkg/logger"
	"github.com/dryflow/dryflow/pkg/tty"
	"github.com/dryflow/dryflow/pkg/workflow"
)

var runLog = logger.New("cli:run")

// RunOptions carries the run command's flags.
type RunOptions struct {
	File    string // source file; defaults to the sole source under the source dir
	Base    string // diff base ref override
	Step    string // fuzzy step-name filter
	DryRun  bool   // print the plan without spawning processes
	List    bool   // print the compiled steps and exit
	Verbose bool
}

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	var opts RunOptions

	cmd := &cobra.Command{
		Use:   "run [job]",
		Short: "Execute a workflow job locally",
		Long: `Compile a workflow in memory and execute its steps as local shell
processes. Path checks are evaluated against the git diff without
shelling out; uses-steps cannot run locally and are skipped.

Without a job argument every job runs, in sorted name order. The job
name matches fuzzily; an ambiguous name lists the candidates.

Examples:
  ` + string(constants.CLIExtensionPrefix) + ` run test                   # run the "test" job
  ` + string(constants.CLIExtensionPrefix) + ` run                        # run every job
  ` + string(constants.CLIExtensionPrefix) + ` run test --step lint       # only steps matching "lint"
  ` + string(constants.CLIExtensionPrefix) + ` run test --base main       # diff against another base
  ` + string(constants.CLIExtensionPrefix) + ` run test --list            # show the compiled steps`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var pattern string
			if len(args) > 0 {
				pattern = args[0]
			}
			return RunJobs(pattern, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "Workflow source file to run")
	cmd.Flags().StringVar(&opts.Base, "base", "", "Base ref to diff changed files against")
	cmd.Flags().StringVar(&opts.Step, "step", "", "Only run steps whose name matches")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Print the plan without executing")
	cmd.Flags().BoolVar(&opts.List, "list", false, "Print the compiled steps and exit")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Verbose output")

	return cmd
}

// RunJobs compiles the source in memory and executes the selected jobs.
// A failing step halts the rest of its own job, but later jobs still
// run; the final error reports the accumulated failure tally.
func RunJobs(jobPattern string, opts RunOptions) error {
	path, err := resolveRunFile(opts.File)
	if err != nil {
		return err
	}
	runLog.Printf("Running from %s", path)

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	wf, err := workflow.ParseWorkflow(content, path)
	if err != nil {
		return err
	}
	if err := workflow.NewCompiler(opts.Verbose).CompileDocument(wf); err != nil {
		return err
	}

	jobNames, err := selectJobs(wf, jobPattern)
	if err != nil {
		return err
	}

	if opts.List {
		for _, name := range jobNames {
			fmt.Println(console.RenderTable(compiledStepTable(name, wf.Jobs[name])))
		}
		return nil
	}

	if opts.DryRun {
		items := make([]string, len(jobNames))
		for i, name := range jobNames {
			items[i] = console.FormatListItem(fmt.Sprintf("%s (%d steps)", name, len(wf.Jobs[name].Steps)))
		}
		console.RenderComposedSections([]string{
			strings.Join(console.RenderTitleBox("Local execution plan", tty.StderrWidth(60)), "\n"),
			strings.Join(console.RenderInfoSection(
				"Source: "+console.ToRelativePath(path)+"\n"+
					"Base ref: "+gitutil.ResolveBaseRef(opts.Base)), "\n"),
			strings.Join(items, "\n"),
		})
	}

	runner := newRunner(opts)
	totalFailed := 0
	for _, name := range jobNames {
		failed := runner.runJob(name, wf.Jobs[name])
		if failed > 0 {
			fmt.Fprintln(os.Stderr, console.FormatErrorMessage(
				fmt.Sprintf("Job %s: %d step(s) failed", name, failed)))
		} else {
			fmt.Fprintln(os.Stderr, console.FormatSuccessMessage("Job "+name+" succeeded"))
		}
		totalFailed += failed
	}

	if totalFailed > 0 {
		return fmt.Errorf("%d step(s) failed", totalFailed)
	}
	return nil
}

// compiledStepTable lays out one compiled job's steps for --list.
func compiledStepTable(name string, job *workflow.Job) console.TableConfig {
	rows := make([][]string, len(job.Steps))
	for i, step := range job.Steps {
		kind := "run"
		switch {
		case step.Check != nil:
			kind = "path-check"
		case step.Uses != "":
			kind = "uses"
		}
		rows[i] = []string{stepLabel(step), kind, step.If}
	}
	return console.TableConfig{
		Title:   "Job " + name,
		Headers: []string{"Step", "Kind", "Condition"},
		Rows:    rows,
	}
}

// resolveRunFile picks the workflow source: the explicit flag, or the
// single source under the conventional directory.
func resolveRunFile(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	files, err := collectSourceFiles(nil)
	if err != nil {
		return "", err
	}
	switch len(files) {
	case 0:
		return "", fmt.Errorf("no workflow sources under %s; use --file", constants.SourceDir)
	case 1:
		return files[0], nil
	default:
		return "", fmt.Errorf("multiple workflow sources under %s; pick one with --file", constants.SourceDir)
	}
}

// selectJobs resolves a job-name pattern to job names in sorted order.
// An empty pattern selects every job. Exact matches win; otherwise the
// pattern matches fuzzily and ambiguity is an error listing candidates.
func selectJobs(wf *workflow.Workflow, pattern string) ([]string, error) {
	names := make([]string, 0, len(wf.Jobs))
	for name := range wf.Jobs {
		names = append(names, name)
	}
	sort.Strings(names)

	if pattern == "" {
		return names, nil
	}
	for _, name := range names {
		if name == pattern {
			return []string{name}, nil
		}
	}

	matches := fuzzy.Find(pattern, names)
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no job matches %q (jobs: %s)", pattern, strings.Join(names, ", "))
	case 1:
		runLog.Printf("Fuzzy-matched job %q -> %q", pattern, matches[0].Str)
		return []string{matches[0].Str}, nil
	default:
		candidates := make([]string, len(matches))
		for i, m := range matches {
			candidates[i] = m.Str
		}
		return nil, fmt.Errorf("job name %q is ambiguous: %s", pattern, strings.Join(candidates, ", "))
	}
}
