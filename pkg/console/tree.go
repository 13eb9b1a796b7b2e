package console

import (
	"strings"

	"github.com/dryflow/dryflow/pkg/styles"
	"github.com/dryflow/dryflow/pkg/tty"
)

// TreeNode is one node of a renderable tree.
type TreeNode struct {
	Value    string
	Children []TreeNode
}

// RenderTree renders a tree with box-drawing connectors. The root is
// printed bold on terminals.
func RenderTree(tree TreeNode) string {
	root := tree.Value
	if tty.IsStderrTerminal() {
		root = styles.Bold.Render(root)
	}

	var b strings.Builder
	b.WriteString(root)
	b.WriteString("\n")
	for i, child := range tree.Children {
		b.WriteString(renderTreeSimple(child, "", i == len(tree.Children)-1))
	}
	return b.String()
}

// renderTreeSimple renders a subtree using prefix for indentation. last
// selects the corner connector for the final sibling.
func renderTreeSimple(node TreeNode, prefix string, last bool) string {
	connector := "├── "
	childPrefix := prefix + "│   "
	if last {
		connector = "└── "
		childPrefix = prefix + "    "
	}

	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(connector)
	b.WriteString(node.Value)
	b.WriteString("\n")

	for i, child := range node.Children {
		b.WriteString(renderTreeSimple(child, childPrefix, i == len(node.Children)-1))
	}
	return b.String()
}
