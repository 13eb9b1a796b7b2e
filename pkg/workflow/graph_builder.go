package workflow

import (
	"fmt"

	"github.com/dryflow/dryflow/pkg/constants"
	"github.com/dryflow/dryflow/pkg/logger"
)

var builderLog = logger.New("workflow:builder")

// builder constructs one job's dependency graph from its step list and
// the workflow's setup table. It lives for a single buildJobGraph call.
type builder struct {
	jobName string
	setups  map[string]*Setup
	g       *graph
	ids     *idRegistry
}

// buildJobGraph turns a job into its dependency graph: one node per
// step, one deduplicated node per referenced setup group, and one
// deduplicated node per distinct path-pattern set, with precedence edges
// and path-conditions recorded per the reference sites.
func buildJobGraph(jobName string, job *Job, setups map[string]*Setup, ids *idRegistry) (*graph, error) {
	b := &builder{jobName: jobName, setups: setups, g: newGraph(), ids: ids}

	// User-authored step ids claim their names first so generated ids
	// can never shadow them.
	for _, step := range job.Steps {
		ids.claimUser(step.ID)
	}

	var prevID string
	for i, step := range job.Steps {
		if err := b.validateStep(i, step); err != nil {
			return nil, err
		}

		stepNode := b.g.addStepNode(fmt.Sprintf("step-%d", i), step)

		if i == 0 {
			for _, name := range job.Setup {
				setupID, err := b.resolveSetup(name, nil)
				if err != nil {
					return nil, err
				}
				b.g.addEdge(stepNode.id, setupID)
			}
		} else {
			b.g.addEdge(stepNode.id, prevID)
		}

		var checkIDs []string
		if len(step.Paths) > 0 {
			checkNode, err := b.pathCheckNode(step.Paths)
			if err != nil {
				return nil, err
			}
			checkIDs = []string{checkNode.id}
			b.g.attach(stepNode, checkIDs)
		}

		for _, name := range step.Setup {
			setupID, err := b.resolveSetup(name, checkIDs)
			if err != nil {
				return nil, err
			}
			b.g.addEdge(stepNode.id, setupID)
		}

		// Consumed by the graph; not part of the compiled output format.
		// The local-run gates survive on fields the emitter never writes.
		step.LocalDisabled = step.Local != nil && !*step.Local
		step.LocalEnvVar = step.LocalEnvFlag
		step.Setup = nil
		step.Paths = nil
		step.Local = nil
		step.LocalEnvFlag = ""

		prevID = stepNode.id
	}

	if err := b.anchorPathChecks(); err != nil {
		return nil, err
	}

	builderLog.Printf("Job %q: graph has %d nodes", jobName, len(b.g.order))
	return b.g, nil
}

func (b *builder) validateStep(index int, step *Step) error {
	where := fmt.Sprintf("step %d", index+1)
	if step.Name != "" {
		where = fmt.Sprintf("step %d (%s)", index+1, step.Name)
	}
	if step.Run != "" && step.Uses != "" {
		return &InvalidStepError{Job: b.jobName, Where: where, Reason: "has both run and uses; a step is exactly one"}
	}
	if step.Run == "" && step.Uses == "" {
		return &InvalidStepError{Job: b.jobName, Where: where, Reason: "needs either run or uses"}
	}
	return nil
}

// pathCheckNode returns the node for a pattern set, compiling a new
// check when this exact sorted set has not been seen in this job.
func (b *builder) pathCheckNode(patterns []string) (*node, error) {
	if n, ok := b.g.nodes[pathNodeID(patterns)]; ok {
		return n, nil
	}
	check, err := newPathCheck(patterns, b.ids)
	if err != nil {
		if perr, ok := err.(*PatternError); ok {
			perr.Job = b.jobName
		}
		return nil, err
	}
	return b.g.addCheckNode(check), nil
}

// resolveSetup returns the node id for a named setup group, creating it
// on first reference. The requesting site's path-check ids gate the
// group and its transitive requirements; a site with no path checks pins
// the chain unconditional. Resolution tolerates requirement cycles by
// registering the node before descending; the linearizer reports them.
func (b *builder) resolveSetup(name string, checkIDs []string) (string, error) {
	id := setupNodeID(name)
	if _, ok := b.g.nodes[id]; ok {
		b.g.noteSetupReference(id, checkIDs)
		return id, nil
	}

	setup, ok := b.setups[name]
	if !ok {
		return "", newUnknownSetupError(b.jobName, name, b.setups)
	}

	b.g.addSetupNode(name, setup)
	for _, step := range setup.Steps {
		b.ids.claimUser(step.ID)
	}

	// The checkout group and everything it requires run unconditionally.
	nested := checkIDs
	if name == constants.CheckoutSetupName {
		nested = nil
	}
	for _, req := range setup.Requires {
		reqID, err := b.resolveSetup(req, nested)
		if err != nil {
			return "", err
		}
		b.g.addEdge(id, reqID)
	}

	b.g.noteSetupReference(id, checkIDs)
	return id, nil
}

// anchorPathChecks orders every path-check node after the checkout
// group: diffing changed files needs the repository checked out first.
func (b *builder) anchorPathChecks() error {
	var checkNodes []string
	for _, id := range b.g.order {
		if b.g.nodes[id].kind == nodePathCheck {
			checkNodes = append(checkNodes, id)
		}
	}
	if len(checkNodes) == 0 {
		return nil
	}

	if _, ok := b.setups[constants.CheckoutSetupName]; !ok {
		return &MissingCheckoutError{Job: b.jobName}
	}
	checkoutID, err := b.resolveSetup(constants.CheckoutSetupName, nil)
	if err != nil {
		return err
	}
	for _, id := range checkNodes {
		b.g.addEdge(id, checkoutID)
	}
	return nil
}
