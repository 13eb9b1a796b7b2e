package workflow

import (
	"fmt"
	"strings"
)

// ConditionNode represents a node in a condition expression tree.
type ConditionNode interface {
	Render() string
}

// ExpressionNode represents a leaf expression.
type ExpressionNode struct {
	Expression string
}

func (e *ExpressionNode) Render() string {
	return e.Expression
}

// AndNode represents an AND operation between two conditions.
type AndNode struct {
	Left, Right ConditionNode
}

func (a *AndNode) Render() string {
	return fmt.Sprintf("(%s) && (%s)", a.Left.Render(), a.Right.Render())
}

// OrNode represents an OR operation between two conditions.
type OrNode struct {
	Left, Right ConditionNode
}

func (o *OrNode) Render() string {
	return fmt.Sprintf("(%s) || (%s)", o.Left.Render(), o.Right.Render())
}

// NotNode represents a NOT operation on a condition.
type NotNode struct {
	Child ConditionNode
}

func (n *NotNode) Render() string {
	return fmt.Sprintf("!(%s)", n.Child.Render())
}

// DisjunctionNode represents an OR over any number of terms without the
// deep nesting chained OrNodes would produce. Zero terms render empty;
// one term renders bare.
type DisjunctionNode struct {
	Terms []ConditionNode
}

func (d *DisjunctionNode) Render() string {
	if len(d.Terms) == 0 {
		return ""
	}
	if len(d.Terms) == 1 {
		return d.Terms[0].Render()
	}
	parts := make([]string, len(d.Terms))
	for i, term := range d.Terms {
		parts[i] = term.Render()
	}
	return strings.Join(parts, " || ")
}

// ComparisonNode represents comparison operations like == and !=.
type ComparisonNode struct {
	Left     ConditionNode
	Operator string
	Right    ConditionNode
}

func (c *ComparisonNode) Render() string {
	return fmt.Sprintf("%s %s %s", c.Left.Render(), c.Operator, c.Right.Render())
}

// StringLiteralNode represents a single-quoted string literal value.
type StringLiteralNode struct {
	Value string
}

func (s *StringLiteralNode) Render() string {
	return fmt.Sprintf("'%s'", s.Value)
}
