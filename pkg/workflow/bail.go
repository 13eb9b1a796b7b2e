package workflow

import (
	"strings"

	"github.com/dryflow/dryflow/pkg/logger"
	"github.com/dryflow/dryflow/pkg/stringutil"
)

var bailLog = logger.New("workflow:bail")

// rewriteBails post-processes the woven step sequence: every step with a
// bail_if condition gates all later steps on the negation of that
// condition, so once the condition is false the rest of the job skips
// while still reporting success. Multiple bail points compose in order;
// a later bail step is itself gated by earlier ones before contributing
// its own gate.
func rewriteBails(steps []*Step, ids *idRegistry) {
	for i, step := range steps {
		if step.BailIf == "" {
			continue
		}

		if step.ID == "" {
			canonical := "bail"
			if slug := stringutil.Slugify(step.Name); slug != "" {
				canonical = "bail-" + slug
			}
			step.ID = ids.unique(canonical)
		}

		condition := namespaceOutputs(step.BailIf, step.ID)
		step.BailIf = ""

		negated := (&NotNode{Child: &ExpressionNode{Expression: condition}}).Render()
		bailLog.Printf("Bail gate %s: later steps require %s", step.ID, negated)

		for _, later := range steps[i+1:] {
			later.If = andConditions(later.If, negated)
		}
	}
}

// namespaceOutputs rewrites bare "outputs." references in a bail
// condition to the owning step's own output namespace. References
// already qualified (preceded by a dot) are left alone.
func namespaceOutputs(condition, stepID string) string {
	const tok = "outputs."
	var b strings.Builder
	for i := 0; i < len(condition); {
		if strings.HasPrefix(condition[i:], tok) && (i == 0 || condition[i-1] != '.') {
			b.WriteString("steps." + stepID + ".outputs.")
			i += len(tok)
			continue
		}
		b.WriteByte(condition[i])
		i++
	}
	return b.String()
}
