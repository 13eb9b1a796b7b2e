package workflow

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/goccy/go-yaml"

	"github.com/dryflow/dryflow/pkg/logger"
)

var compilerLog = logger.New("workflow:compiler")

// Compiler expands a workflow document job by job: build the dependency
// graph, linearize it, weave the conditional expressions, then apply the
// bail-unless rewrites. Each Compiler owns its generated-identifier
// registry, so concurrent compilations of different documents are
// independent.
type Compiler struct {
	verbose bool
	ids     *idRegistry
}

// NewCompiler creates a compiler for one document.
func NewCompiler(verbose bool) *Compiler {
	return &Compiler{verbose: verbose, ids: newIDRegistry()}
}

// CompileWorkflow reads, parses, and compiles a source document,
// returning the emitted lock-file content.
func (c *Compiler) CompileWorkflow(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	wf, err := ParseWorkflow(content, path)
	if err != nil {
		return nil, err
	}
	if err := c.CompileDocument(wf); err != nil {
		return nil, err
	}
	return c.emit(wf, filepath.Base(path))
}

// CompileDocument compiles every job of an already-parsed workflow in
// place: each job's step list becomes its final flat form and the
// consumed setup table is stripped from the document.
func (c *Compiler) CompileDocument(wf *Workflow) error {
	names := make([]string, 0, len(wf.Jobs))
	for name := range wf.Jobs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := c.compileJob(name, wf.Jobs[name], wf.Setup); err != nil {
			return err
		}
	}

	wf.Setup = nil
	return nil
}

// compileJob runs the full pipeline for one job. Jobs without steps
// pass through untouched.
func (c *Compiler) compileJob(name string, job *Job, setups map[string]*Setup) error {
	if len(job.Steps) == 0 {
		job.Setup = nil
		return nil
	}
	compilerLog.Printf("Compiling job %q: %d steps", name, len(job.Steps))

	g, err := buildJobGraph(name, job, setups, c.ids)
	if err != nil {
		return err
	}
	order, err := g.linearize(name)
	if err != nil {
		return err
	}

	steps := g.weave(order)
	rewriteBails(steps, c.ids)

	job.Steps = steps
	job.Setup = nil
	return nil
}

// emit serializes the compiled document with the generated header naming
// the source it was compiled from.
func (c *Compiler) emit(wf *Workflow, source string) ([]byte, error) {
	body, err := yaml.Marshal(wf)
	if err != nil {
		return nil, fmt.Errorf("marshaling compiled workflow: %w", err)
	}
	header := fmt.Sprintf(
		"# This file was automatically generated by dryflow. DO NOT EDIT.\n# Compiled from %s; to update, run: dryflow compile %s\n\n",
		source, source)
	return append([]byte(header), body...), nil
}
