package workflow

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/dryflow/dryflow/pkg/constants"
)

// Edge is one unresolved dependency: From still waits on To.
type Edge struct {
	From string
	To   string
}

func (e Edge) String() string {
	return e.From + ":" + e.To
}

// UnknownSetupError reports a setup reference with no matching entry in
// the workflow's setup table.
type UnknownSetupError struct {
	Job        string
	Setup      string
	Known      []string
	Suggestion string
}

func (e *UnknownSetupError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "job %q: unknown setup %q", e.Job, e.Setup)
	if e.Suggestion != "" {
		fmt.Fprintf(&b, " (did you mean %q?)", e.Suggestion)
	} else if len(e.Known) > 0 {
		fmt.Fprintf(&b, " (known setups: %s)", strings.Join(e.Known, ", "))
	}
	return b.String()
}

// newUnknownSetupError collects the known setup names and picks the
// closest one as a suggestion.
func newUnknownSetupError(job, name string, table map[string]*Setup) *UnknownSetupError {
	known := make([]string, 0, len(table))
	for k := range table {
		known = append(known, k)
	}
	sort.Strings(known)

	suggestion := ""
	if matches := fuzzy.Find(name, known); len(matches) > 0 {
		suggestion = matches[0].Str
	}

	return &UnknownSetupError{Job: job, Setup: name, Known: known, Suggestion: suggestion}
}

// PatternError reports a path glob the compiler cannot translate. Job is
// filled in by the graph builder once the requesting job is known.
type PatternError struct {
	Job     string
	Pattern string
	Reason  string
}

func (e *PatternError) Error() string {
	if e.Job == "" {
		return fmt.Sprintf("unsupported path pattern %q: %s", e.Pattern, e.Reason)
	}
	return fmt.Sprintf("job %q: unsupported path pattern %q: %s", e.Job, e.Pattern, e.Reason)
}

// MissingCheckoutError reports path-conditioned steps in a workflow
// whose setup table has no checkout group to diff against.
type MissingCheckoutError struct {
	Job string
}

func (e *MissingCheckoutError) Error() string {
	return fmt.Sprintf("job %q: path conditions require a %q setup group (path diffing needs the repository checked out first)", e.Job, constants.CheckoutSetupName)
}

// CycleError reports a dependency cycle. Edges lists every unresolved
// edge so the author can locate the cycle without a separate pass.
type CycleError struct {
	Job   string
	Edges []Edge
}

func (e *CycleError) Error() string {
	parts := make([]string, len(e.Edges))
	for i, edge := range e.Edges {
		parts[i] = edge.String()
	}
	return fmt.Sprintf("job %q: dependency cycle detected; unresolved edges: %s", e.Job, strings.Join(parts, ", "))
}

// InvalidStepError reports a step that violates the document shape
// rules, like carrying both run and uses.
type InvalidStepError struct {
	Job    string
	Where  string
	Reason string
}

func (e *InvalidStepError) Error() string {
	return fmt.Sprintf("job %q: %s: %s", e.Job, e.Where, e.Reason)
}
