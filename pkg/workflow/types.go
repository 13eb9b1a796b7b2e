// Package workflow implements the dryflow graph compiler: it expands a
// deduplicated workflow description (reusable setup groups, per-step path
// conditions, early-bail conditions) into a flat, directly executable
// step sequence with derived conditional-execution expressions, and
// supports interpreting that sequence locally.
package workflow

import (
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/dryflow/dryflow/pkg/console"
	"github.com/dryflow/dryflow/pkg/logger"
	"github.com/dryflow/dryflow/pkg/parser"
)

var typesLog = logger.New("workflow:types")

// StringList accepts either a single scalar or a sequence of strings.
type StringList []string

// UnmarshalYAML implements yaml.BytesUnmarshaler.
func (l *StringList) UnmarshalYAML(data []byte) error {
	var single string
	if err := yaml.Unmarshal(data, &single); err == nil {
		*l = StringList{single}
		return nil
	}
	var many []string
	if err := yaml.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("expected a string or a list of strings: %w", err)
	}
	*l = many
	return nil
}

// Step is one unit of work. Exactly one of Run/Uses must be set. The
// compiler consumes Setup and Paths while building the graph and strips
// them from the struct; Local and LocalEnvFlag are consumed by the local
// runner and never emitted.
type Step struct {
	ID           string         `yaml:"id,omitempty"`
	Name         string         `yaml:"name,omitempty"`
	If           string         `yaml:"if,omitempty"`
	Run          string         `yaml:"run,omitempty"`
	Uses         string         `yaml:"uses,omitempty"`
	Setup        StringList     `yaml:"setup,omitempty"`
	Paths        StringList     `yaml:"paths,omitempty"`
	BailIf       string         `yaml:"bail_if,omitempty"`
	Local        *bool          `yaml:"local,omitempty"`
	LocalEnvFlag string         `yaml:"local_env_flag,omitempty"`
	Extra        map[string]any `yaml:",inline"`

	// Check is set on generated path-check steps so the local runner can
	// evaluate them in-process instead of shelling out.
	Check *PathCheck `yaml:"-"`

	// LocalDisabled and LocalEnvVar carry the consumed local/
	// local_env_flag gates for the local runner; they are never emitted.
	LocalDisabled bool   `yaml:"-"`
	LocalEnvVar   string `yaml:"-"`
}

// clone returns a shallow copy so emission can attach conditions without
// mutating steps shared between jobs (setup groups are compiled once per
// referencing job).
func (s *Step) clone() *Step {
	c := *s
	return &c
}

// Setup is a named, reusable block of steps. The bare YAML form is a
// plain step sequence; the record form adds the group's own setup
// dependencies.
type Setup struct {
	Requires StringList `yaml:"setup,omitempty"`
	Steps    []*Step    `yaml:"steps"`
}

// UnmarshalYAML implements yaml.BytesUnmarshaler, accepting both forms.
func (s *Setup) UnmarshalYAML(data []byte) error {
	var steps []*Step
	if err := yaml.Unmarshal(data, &steps); err == nil {
		s.Steps = steps
		return nil
	}

	type setupRecord Setup
	var rec setupRecord
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("expected a step list or a setup record: %w", err)
	}
	*s = Setup(rec)
	return nil
}

// Job is one unit of the compiled workflow: an ordered step list plus an
// optional job-level setup reference that gates the first step.
type Job struct {
	Setup StringList     `yaml:"setup,omitempty"`
	Steps []*Step        `yaml:"steps"`
	Extra map[string]any `yaml:",inline"`
}

// Workflow is the top-level document. Setup holds the reusable groups
// consumed during compilation; Extra passes unknown top-level keys
// through to the emitted document untouched.
type Workflow struct {
	Name  string            `yaml:"name,omitempty"`
	Setup map[string]*Setup `yaml:"setup,omitempty"`
	Jobs  map[string]*Job   `yaml:"jobs"`
	Extra map[string]any    `yaml:",inline"`
}

// ParseWorkflow validates the source document and decodes it into the
// typed model. Syntax and schema violations come back as positioned
// compiler errors.
func ParseWorkflow(content []byte, filename string) (*Workflow, error) {
	if _, err := parser.ParseDocument(content, filename); err != nil {
		return nil, err
	}

	var wf Workflow
	if err := yaml.Unmarshal(content, &wf); err != nil {
		line, column, message := parser.ExtractYAMLError(err)
		if message == "" {
			message = err.Error()
		}
		return nil, console.CompilerError{
			Position: console.ErrorPosition{File: filename, Line: line, Column: column},
			Type:     "error",
			Message:  message,
			Context:  parser.ContextLines(content, line),
		}
	}

	typesLog.Printf("Parsed workflow %q: %d setup groups, %d jobs", wf.Name, len(wf.Setup), len(wf.Jobs))
	return &wf, nil
}
