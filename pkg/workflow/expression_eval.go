package workflow

import (
	"fmt"
	"strings"

	"github.com/dryflow/dryflow/pkg/logger"
)

var evalLog = logger.New("workflow:eval")

// EvalContext supplies the values condition expressions can reference at
// local-run time: recorded step outputs (steps.<id>.outputs.<key>) and
// environment variables (env.<NAME>).
type EvalContext struct {
	Outputs map[string]map[string]string
	Env     func(string) string
}

// StepOutput records one output value for a step, creating the step's
// map on first use.
func (c *EvalContext) StepOutput(stepID, key, value string) {
	if c.Outputs == nil {
		c.Outputs = make(map[string]map[string]string)
	}
	if c.Outputs[stepID] == nil {
		c.Outputs[stepID] = make(map[string]string)
	}
	c.Outputs[stepID][key] = value
}

// EvaluateCondition parses and evaluates an "if" expression against the
// context. An empty expression is true (unconditional step).
func EvaluateCondition(expression string, ctx *EvalContext) (bool, error) {
	if strings.TrimSpace(expression) == "" {
		return true, nil
	}
	node, err := ParseExpression(expression)
	if err != nil {
		return false, fmt.Errorf("invalid condition %q: %w", expression, err)
	}
	result, err := evalNode(node, ctx)
	if err != nil {
		return false, err
	}
	evalLog.Printf("Evaluated %q -> %v", expression, result)
	return result, nil
}

func evalNode(node ConditionNode, ctx *EvalContext) (bool, error) {
	switch n := node.(type) {
	case *AndNode:
		left, err := evalNode(n.Left, ctx)
		if err != nil || !left {
			return false, err
		}
		return evalNode(n.Right, ctx)
	case *OrNode:
		left, err := evalNode(n.Left, ctx)
		if err != nil || left {
			return left, err
		}
		return evalNode(n.Right, ctx)
	case *NotNode:
		child, err := evalNode(n.Child, ctx)
		return !child, err
	case *DisjunctionNode:
		for _, term := range n.Terms {
			ok, err := evalNode(term, ctx)
			if err != nil || ok {
				return ok, err
			}
		}
		return false, nil
	case *ExpressionNode:
		return evalLiteral(n.Expression, ctx)
	default:
		return false, fmt.Errorf("cannot evaluate %T node", node)
	}
}

// evalLiteral evaluates a leaf expression: either a bare operand tested
// for truthiness, or a binary comparison with == or !=.
func evalLiteral(literal string, ctx *EvalContext) (bool, error) {
	left, op, right := splitComparison(literal)
	if op == "" {
		value, err := resolveOperand(strings.TrimSpace(literal), ctx)
		if err != nil {
			return false, err
		}
		return value != "" && value != "false", nil
	}

	leftVal, err := resolveOperand(strings.TrimSpace(left), ctx)
	if err != nil {
		return false, err
	}
	rightVal, err := resolveOperand(strings.TrimSpace(right), ctx)
	if err != nil {
		return false, err
	}
	if op == "==" {
		return leftVal == rightVal, nil
	}
	return leftVal != rightVal, nil
}

// splitComparison finds the first == or != outside quotes. Returns empty
// op when the literal is not a comparison.
func splitComparison(literal string) (left, op, right string) {
	for i := 0; i+1 < len(literal); i++ {
		ch := literal[i]
		if ch == '\'' || ch == '"' {
			quote := ch
			i++
			for i < len(literal) && literal[i] != quote {
				i++
			}
			continue
		}
		if pair := literal[i : i+2]; pair == "==" || pair == "!=" {
			return literal[:i], pair, literal[i+2:]
		}
	}
	return literal, "", ""
}

// resolveOperand resolves one side of a comparison to its string value:
// quoted literals, booleans, numbers, steps.<id>.outputs.<key> lookups,
// and env.<NAME> lookups. An unrecorded output or unset variable
// resolves to the empty string, matching shell semantics.
func resolveOperand(operand string, ctx *EvalContext) (string, error) {
	if operand == "" {
		return "", nil
	}

	if (operand[0] == '\'' || operand[0] == '"') && len(operand) >= 2 && operand[len(operand)-1] == operand[0] {
		return operand[1 : len(operand)-1], nil
	}

	if strings.HasPrefix(operand, "steps.") {
		parts := strings.Split(operand, ".")
		if len(parts) != 4 || parts[2] != "outputs" {
			return "", fmt.Errorf("unsupported step reference %q (want steps.<id>.outputs.<key>)", operand)
		}
		if ctx != nil && ctx.Outputs != nil {
			return ctx.Outputs[parts[1]][parts[3]], nil
		}
		return "", nil
	}

	if name, ok := strings.CutPrefix(operand, "env."); ok {
		if ctx != nil && ctx.Env != nil {
			return ctx.Env(name), nil
		}
		return "", nil
	}

	switch operand {
	case "true", "false":
		return operand, nil
	}

	// Bare words and numbers compare as their literal text.
	return operand, nil
}
