package workflow

import (
	"fmt"

	"github.com/dryflow/dryflow/pkg/constants"
	"github.com/dryflow/dryflow/pkg/logger"
)

var weaveLog = logger.New("workflow:weave")

// weave emits the linearized nodes as a flat step list, deriving each
// node's "if" expression from its accumulated path-condition set.
func (g *graph) weave(order []*node) []*Step {
	var steps []*Step
	for _, n := range order {
		derived := g.derivedCondition(n)
		switch n.kind {
		case nodePathCheck:
			steps = append(steps, n.step)
		case nodeSetup:
			steps = append(steps, g.weaveSetup(n, derived)...)
		case nodeStep:
			step := n.step
			step.If = andConditions(step.If, derived)
			steps = append(steps, step)
		}
	}
	weaveLog.Printf("Wove %d nodes into %d steps", len(order), len(steps))
	return steps
}

// derivedCondition renders a node's condition set as the OR of the
// "changed" outputs of every path check it is gated on, in the order
// the conditions were attached. Unconditional nodes render empty.
func (g *graph) derivedCondition(n *node) string {
	if len(n.conditions) == 0 {
		return ""
	}
	terms := make([]ConditionNode, len(n.conditions))
	for i, checkNodeID := range n.conditions {
		check := g.nodes[checkNodeID].check
		terms[i] = &ComparisonNode{
			Left:     &ExpressionNode{Expression: fmt.Sprintf("steps.%s.outputs.%s", check.ID, constants.ChangedOutputKey)},
			Operator: "==",
			Right:    &StringLiteralNode{Value: "true"},
		}
	}
	return (&DisjunctionNode{Terms: terms}).Render()
}

// weaveSetup emits a setup group's steps. A single-step group inlines as
// one renamed step; a multi-step group is bracketed by generated group
// markers, every emitted step sharing the derived condition so the whole
// block is skippable as a unit.
func (g *graph) weaveSetup(n *node, derived string) []*Step {
	switch len(n.setup.Steps) {
	case 0:
		return nil
	case 1:
		step := n.setup.Steps[0].clone()
		step.Name = setupStepName(n.setupName, step.Name)
		step.If = andConditions(step.If, derived)
		return []*Step{step}
	}

	steps := make([]*Step, 0, len(n.setup.Steps)+2)
	steps = append(steps, &Step{
		Name: "Start setup: " + n.setupName,
		If:   derived,
		Run:  fmt.Sprintf("echo %q", constants.GroupStartPrefix+"Setup: "+n.setupName),
	})
	for _, s := range n.setup.Steps {
		step := s.clone()
		step.If = andConditions(step.If, derived)
		steps = append(steps, step)
	}
	steps = append(steps, &Step{
		Name: "End setup: " + n.setupName,
		If:   derived,
		Run:  fmt.Sprintf("echo %q", constants.GroupEndMarker),
	})
	return steps
}

// setupStepName labels an inlined single-step group as a generated
// setup wrapper, embedding the group name and the original step name.
func setupStepName(group, original string) string {
	if original == "" {
		return "Setup " + group
	}
	return fmt.Sprintf("Setup %s: %s", group, original)
}

// andConditions combines two condition strings with a logical AND,
// parenthesizing each side. Either side may be empty.
func andConditions(existing, extra string) string {
	if existing == "" {
		return extra
	}
	if extra == "" {
		return existing
	}
	and := &AndNode{
		Left:  &ExpressionNode{Expression: existing},
		Right: &ExpressionNode{Expression: extra},
	}
	return and.Render()
}
