package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"

	"github.com/dryflow/dryflow/pkg/console"
	"github.com/dryflow/dryflow/pkg/constants"
	"github.com/dryflow/dryflow/pkg/gitutil"
	"github.com/dryflow/dryflow/pkg/logger"
	"github.com/dryflow/dryflow/pkg/stringutil"
	"github.com/dryflow/dryflow/pkg/workflow"
)

var runnerLog = logger.New("cli:runner")

// runner interprets compiled step sequences locally. The changed-file
// list is computed once per invocation and fed to the path matchers
// in-process, so every job of one run diffs the same state.
type runner struct {
	opts RunOptions

	changedOnce sync.Once
	changed     []string
	changedErr  error
}

func newRunner(opts RunOptions) *runner {
	return &runner{opts: opts}
}

// changedFiles lazily lists the files changed against the base ref.
func (r *runner) changedFiles() ([]string, error) {
	r.changedOnce.Do(func() {
		base := gitutil.ResolveBaseRef(r.opts.Base)
		r.changed, r.changedErr = gitutil.ChangedFiles(base)
	})
	return r.changed, r.changedErr
}

// runJob interprets one compiled job, returning the number of failed
// steps. The first failure halts the remainder of the job.
func (r *runner) runJob(name string, job *workflow.Job) int {
	fmt.Fprintln(os.Stderr, console.FormatInfoMessage("Running job "+name))
	ctx := &workflow.EvalContext{Env: os.Getenv}

	for _, step := range job.Steps {
		ok, err := workflow.EvaluateCondition(step.If, ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, console.FormatErrorMessage(
				fmt.Sprintf("%s: %s", stepLabel(step), err.Error())))
			return 1
		}
		if !ok {
			r.reportSkip(step, "condition is false")
			continue
		}

		// Path-check steps are generated gates, not user steps: they
		// must record their "changed" output even when a --step filter
		// is active, or the filtered-for step's condition can never
		// become true.
		if step.Check != nil {
			if err := r.evaluateCheck(step, ctx); err != nil {
				fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
				return 1
			}
			continue
		}

		if r.opts.Step != "" && !r.stepMatchesFilter(step) {
			r.reportSkip(step, "filtered out")
			continue
		}

		if step.Uses != "" {
			r.reportSkip(step, "uses-steps cannot run locally")
			continue
		}
		if step.LocalDisabled {
			r.reportSkip(step, "disabled for local runs")
			continue
		}
		if step.LocalEnvVar != "" && os.Getenv(step.LocalEnvVar) == "" {
			r.reportSkip(step, "requires "+step.LocalEnvVar+" to be set")
			continue
		}

		if r.opts.DryRun {
			fmt.Fprintln(os.Stderr, console.FormatCommandMessage("would run: "+stepLabel(step)))
			continue
		}

		if err := r.executeStep(step, ctx); err != nil {
			fmt.Fprintln(os.Stderr, console.FormatErrorMessage(
				fmt.Sprintf("%s: %s", stepLabel(step), err.Error())))
			// Fail fast within this job; later jobs still run.
			return 1
		}
		fmt.Fprintln(os.Stderr, console.FormatSuccessMessage(stepLabel(step)))
	}
	return 0
}

// evaluateCheck resolves a generated path-check step against the
// precomputed changed-file list instead of shelling out, recording its
// "changed" output for later conditions.
func (r *runner) evaluateCheck(step *workflow.Step, ctx *workflow.EvalContext) error {
	changed, err := r.changedFiles()
	if err != nil {
		return err
	}
	matcher, err := step.Check.Matcher()
	if err != nil {
		return err
	}

	result := "false"
	if matcher.AnyMatch(changed) {
		result = "true"
	}
	ctx.StepOutput(step.ID, constants.ChangedOutputKey, result)
	runnerLog.Printf("Path check %s: changed=%s", step.ID, result)
	fmt.Fprintln(os.Stderr, console.FormatVerboseMessage(
		fmt.Sprintf("%s: changed=%s", stepLabel(step), result)))
	return nil
}

// executeStep spawns the step's shell command, streaming output while
// scanning it for the fatal-error marker and collecting the step's
// GITHUB_OUTPUT file afterwards.
func (r *runner) executeStep(step *workflow.Step, ctx *workflow.EvalContext) error {
	outputFile, err := os.CreateTemp("", "dryflow-output-*")
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	outputPath := outputFile.Name()
	outputFile.Close()
	defer os.Remove(outputPath)

	runnerLog.Printf("Executing step %s", stepLabel(step))
	cmd := exec.Command("bash", "--noprofile", "--norc", "-e", "-o", "pipefail", "-c", step.Run)
	cmd.Env = append(os.Environ(), constants.OutputFileEnv+"="+outputPath)
	cmd.Stdin = nil

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting step: %w", err)
	}

	var wg sync.WaitGroup
	var scanMu sync.Mutex
	markerSeen := false
	var scanErr error
	scan := func(stream io.Reader, sink *os.File) {
		defer wg.Done()
		scanner := bufio.NewScanner(stream)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Text()
			fmt.Fprintln(sink, line)
			if strings.HasPrefix(line, constants.FatalMarkerPrefix) {
				scanMu.Lock()
				markerSeen = true
				scanMu.Unlock()
			}
		}
		// An aborted scan (e.g. a line past the buffer limit) would let
		// a later fatal marker slip by unnoticed. Drain the rest so the
		// child is not blocked writing to a full pipe.
		if err := scanner.Err(); err != nil {
			scanMu.Lock()
			if scanErr == nil {
				scanErr = err
			}
			scanMu.Unlock()
			io.Copy(io.Discard, stream)
		}
	}
	wg.Add(2)
	go scan(stdout, os.Stdout)
	go scan(stderr, os.Stderr)
	wg.Wait()

	waitErr := cmd.Wait()

	if step.ID != "" {
		if err := collectStepOutputs(outputPath, step.ID, ctx); err != nil {
			fmt.Fprintln(os.Stderr, console.FormatWarningMessage(err.Error()))
		}
	}

	if waitErr != nil {
		return fmt.Errorf("exited non-zero: %w", waitErr)
	}
	if scanErr != nil {
		return fmt.Errorf("scanning step output: %w", scanErr)
	}
	if markerSeen {
		return fmt.Errorf("output contains a %s marker", constants.FatalMarkerPrefix)
	}
	return nil
}

// collectStepOutputs parses key=value lines from a step's output file
// into the evaluation context.
func collectStepOutputs(path, stepID string, ctx *workflow.EvalContext) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading step outputs: %w", err)
	}
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		ctx.StepOutput(stepID, key, value)
		runnerLog.Printf("Step %s output: %s=%s", stepID, key, value)
	}
	return nil
}

func (r *runner) stepMatchesFilter(step *workflow.Step) bool {
	if step.Name == "" {
		return false
	}
	return len(fuzzy.Find(r.opts.Step, []string{step.Name})) > 0
}

func (r *runner) reportSkip(step *workflow.Step, reason string) {
	if r.opts.Verbose {
		fmt.Fprintln(os.Stderr, console.FormatVerboseMessage(
			fmt.Sprintf("skip %s: %s", stepLabel(step), reason)))
	}
}

func stepLabel(step *workflow.Step) string {
	switch {
	case step.Name != "":
		return step.Name
	case step.ID != "":
		return step.ID
	case step.Uses != "":
		return step.Uses
	default:
		line := step.Run
		if i := strings.IndexByte(line, '\n'); i > 0 {
			line = line[:i]
		}
		return stringutil.Truncate(line, 60)
	}
}
