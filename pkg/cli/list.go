package cli

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dryflow/dryflow/pkg/console"
	"github.com/dryflow/dryflow/pkg/constants"
	"github.com/dryflow/dryflow/pkg/logger"
	"github.com/dryflow/dryflow/pkg/stringutil"
	"github.com/dryflow/dryflow/pkg/workflow"
)

var listLog = logger.New("cli:list")

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list [files...]",
		Short: "List the jobs and setup groups of workflow sources",
		Long: `List every job, its step count, and the setup groups it references,
plus the reusable setup groups each source defines and how they require
each other.

Without arguments, every source under ` + constants.SourceDir + ` is listed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ListWorkflows(args, jsonOut)
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the job table as JSON")
	return cmd
}

// ListWorkflows renders one table (or JSON array) per source file.
func ListWorkflows(args []string, jsonOut bool) error {
	files, err := collectSourceFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, console.FormatWarningMessage("No workflow sources found in "+constants.SourceDir))
		return nil
	}

	for _, path := range files {
		if err := listOne(path, jsonOut); err != nil {
			return err
		}
	}
	return nil
}

func listOne(path string, jsonOut bool) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	wf, err := workflow.ParseWorkflow(content, path)
	if err != nil {
		return err
	}
	listLog.Printf("Listing %s: %d jobs", path, len(wf.Jobs))

	compiled := "no"
	if _, err := os.Stat(stringutil.SourceToLockFile(path)); err == nil {
		compiled = "yes"
	}

	jobNames := make([]string, 0, len(wf.Jobs))
	for name := range wf.Jobs {
		jobNames = append(jobNames, name)
	}
	sort.Strings(jobNames)

	rows := make([][]string, 0, len(jobNames))
	for _, name := range jobNames {
		job := wf.Jobs[name]
		rows = append(rows, []string{
			name,
			strconv.Itoa(len(job.Steps)),
			strings.Join(referencedSetups(job), ", "),
		})
	}

	jobTable := console.TableConfig{
		Title:   fmt.Sprintf("%s (compiled: %s)", console.ToRelativePath(path), compiled),
		Headers: []string{"Job", "Steps", "Setups"},
		Rows:    rows,
	}

	if jsonOut {
		out, err := console.RenderTableAsJSON(jobTable)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}

	fmt.Println(console.RenderTable(jobTable))

	for _, tree := range setupTrees(wf) {
		fmt.Print(console.RenderTree(tree))
	}
	return nil
}

// referencedSetups collects the distinct setup names a job references,
// job-level first, in first-reference order.
func referencedSetups(job *workflow.Job) []string {
	var names []string
	seen := make(map[string]bool)
	add := func(refs []string) {
		for _, name := range refs {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	add(job.Setup)
	for _, step := range job.Steps {
		add(step.Setup)
	}
	return names
}

// setupTrees renders the setup table as requirement trees, one per root
// group (a group no other group requires), in sorted name order. A
// requirement cycle shows as a pruned repeat rather than recursing.
func setupTrees(wf *workflow.Workflow) []console.TreeNode {
	required := make(map[string]bool)
	for _, s := range wf.Setup {
		for _, req := range s.Requires {
			required[req] = true
		}
	}

	roots := make([]string, 0, len(wf.Setup))
	for name := range wf.Setup {
		if !required[name] {
			roots = append(roots, name)
		}
	}
	sort.Strings(roots)

	trees := make([]console.TreeNode, 0, len(roots))
	for _, root := range roots {
		trees = append(trees, setupNode(wf, root, map[string]bool{root: true}))
	}
	return trees
}

func setupNode(wf *workflow.Workflow, name string, onPath map[string]bool) console.TreeNode {
	setup := wf.Setup[name]
	node := console.TreeNode{Value: fmt.Sprintf("%s (%d steps)", name, len(setup.Steps))}
	for _, req := range setup.Requires {
		if onPath[req] {
			node.Children = append(node.Children, console.TreeNode{Value: req + " (cycle)"})
			continue
		}
		if _, ok := wf.Setup[req]; !ok {
			node.Children = append(node.Children, console.TreeNode{Value: req + " (missing)"})
			continue
		}
		onPath[req] = true
		node.Children = append(node.Children, setupNode(wf, req, onPath))
		delete(onPath, req)
	}
	return node
}
