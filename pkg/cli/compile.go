// Package cli implements the dryflow commands: compile, run, list, and
// version. Command constructors return cobra commands wired to the
// exported Run* entry points so tests can drive them directly.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"

	"github.com/dryflow/dryflow/pkg/console"
	"github.com/dryflow/dryflow/pkg/constants"
	"github.com/dryflow/dryflow/pkg/envutil"
	"github.com/dryflow/dryflow/pkg/logger"
	"github.com/dryflow/dryflow/pkg/stringutil"
	"github.com/dryflow/dryflow/pkg/workflow"
)

var compileLog = logger.New("cli:compile")

// CompileOptions carries the compile command's flags.
type CompileOptions struct {
	Output   string // explicit output path; only valid for a single source
	DryRun   bool   // compile without writing lock files
	Validate bool   // lint emitted YAML with actionlint
	Watch    bool   // recompile on source changes
	Verbose  bool
}

// NewCompileCommand creates the compile command.
func NewCompileCommand() *cobra.Command {
	var opts CompileOptions

	cmd := &cobra.Command{
		Use:   "compile [files...]",
		Short: "Compile workflow sources into flat lock files",
		Long: `Compile deduplicated workflow sources into flat, directly executable
workflow lock files.

Without arguments, every .yml/.yaml source under ` + constants.SourceDir + ` is
compiled to a sibling .lock.yml file.

Examples:
  ` + string(constants.CLIExtensionPrefix) + ` compile                    # compile all sources
  ` + string(constants.CLIExtensionPrefix) + ` compile ci.yml             # compile one source
  ` + string(constants.CLIExtensionPrefix) + ` compile --watch            # recompile on change
  ` + string(constants.CLIExtensionPrefix) + ` compile --validate         # lint emitted YAML`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Watch {
				return WatchAndCompile(args, opts)
			}
			return CompileFiles(args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Write the compiled workflow to this path (single source only)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Compile without writing lock files")
	cmd.Flags().BoolVar(&opts.Validate, "validate", false, "Lint emitted YAML with actionlint")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Watch sources and recompile on change")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Verbose output")

	return cmd
}

// CompileFiles compiles the given sources, or every source under the
// conventional directory when none are given. Files compile
// concurrently; each gets its own compiler so outputs stay
// deterministic per file.
func CompileFiles(args []string, opts CompileOptions) error {
	files, err := collectSourceFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, console.FormatWarningMessage("No workflow sources found in "+constants.SourceDir))
		return nil
	}
	if opts.Output != "" && len(files) > 1 {
		return fmt.Errorf("--output requires exactly one source file, got %d", len(files))
	}

	maxParallel := envutil.GetIntFromEnv(constants.MaxParallelEnv, constants.DefaultMaxParallel, 1, 64, compileLog)
	compileLog.Printf("Compiling %d files with up to %d workers", len(files), maxParallel)

	var spinner *console.Spinner
	if len(files) > 1 && !opts.Verbose {
		spinner = console.NewSpinner(fmt.Sprintf("Compiling %d workflows", len(files)))
		spinner.Start()
	}

	results := make([]compileResult, len(files))
	p := pool.New().WithMaxGoroutines(maxParallel)
	for i, file := range files {
		p.Go(func() {
			results[i] = compileOne(file, opts)
		})
	}
	p.Wait()
	if spinner != nil {
		spinner.Stop()
	}

	failed := 0
	for _, result := range results {
		if result.err != nil {
			failed++
			fmt.Fprintln(os.Stderr, console.FormatErrorMessage(result.err.Error()))
			continue
		}
		fmt.Fprintln(os.Stderr, result.message)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d workflows failed to compile", failed, len(files))
	}
	if len(files) > 1 {
		fmt.Fprintln(os.Stderr, console.FormatSuccessMessage(fmt.Sprintf("Compiled %d workflows", len(files))))
	}
	return nil
}

// compileResult is one file's outcome; messages are held until every
// worker finishes so output stays in source order.
type compileResult struct {
	message string
	err     error
}

// compileOne compiles a single source to its lock file.
func compileOne(path string, opts CompileOptions) compileResult {
	compiler := workflow.NewCompiler(opts.Verbose)
	content, err := compiler.CompileWorkflow(path)
	if err != nil {
		return compileResult{err: err}
	}

	lockPath := stringutil.SourceToLockFile(path)
	if opts.Output != "" {
		lockPath = opts.Output
	}

	if opts.Validate {
		if err := validateCompiledYAML(lockPath, content); err != nil {
			return compileResult{err: err}
		}
	}

	if opts.DryRun {
		return compileResult{message: console.FormatInfoMessage(fmt.Sprintf("%s compiles cleanly (%s)", console.ToRelativePath(path), console.FormatFileSize(int64(len(content)))))}
	}

	if err := os.WriteFile(lockPath, content, 0o644); err != nil {
		return compileResult{err: fmt.Errorf("writing %s: %w", lockPath, err)}
	}
	console.LogVerbose(opts.Verbose, console.FormatLocationMessage("Wrote "+console.ToRelativePath(lockPath)))
	return compileResult{message: console.FormatSuccessMessage(fmt.Sprintf("%s -> %s", console.ToRelativePath(path), console.ToRelativePath(lockPath)))}
}

// collectSourceFiles resolves explicit arguments, or scans the source
// directory for .yml/.yaml files, skipping compiled lock files.
func collectSourceFiles(args []string) ([]string, error) {
	if len(args) > 0 {
		for _, path := range args {
			if _, err := os.Stat(path); err != nil {
				return nil, fmt.Errorf("source %s: %w", path, err)
			}
			if stringutil.IsLockFile(path) {
				return nil, fmt.Errorf("%s is a compiled lock file, not a source", path)
			}
		}
		return args, nil
	}

	sourceDir := constants.GetSourceDir()
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", sourceDir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if stringutil.IsLockFile(name) {
			continue
		}
		if strings.HasSuffix(name, ".yml") || strings.HasSuffix(name, ".yaml") {
			files = append(files, filepath.Join(sourceDir, name))
		}
	}
	sort.Strings(files)
	return files, nil
}
