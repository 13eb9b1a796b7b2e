package workflow

import (
	"github.com/dryflow/dryflow/pkg/constants"
	"github.com/dryflow/dryflow/pkg/logger"
)

var graphLog = logger.New("workflow:graph")

type nodeKind int

const (
	nodeStep nodeKind = iota
	nodeSetup
	nodePathCheck
)

// node is one vertex of a job's dependency graph. Nodes refer to each
// other by id through the owning graph's arena, never by pointer, so
// deduplication and cycle reporting stay plain string work.
type node struct {
	id   string
	kind nodeKind

	step      *Step      // step and path-check nodes
	setup     *Setup     // setup nodes
	setupName string     // setup nodes: the bare group name
	check     *PathCheck // path-check nodes

	deps       map[string]struct{} // ids this node runs after
	depOrder   []string            // deps in first-recorded order
	dependents []string            // ids that run after this node

	conditions    []string // path-check node ids, first-attached order
	conditionSet  map[string]struct{}
	unconditional bool // pinned: an unconditional reference emptied the set for good
}

// graph is the per-job dependency arena: an insertion-ordered index of
// node ids over a flat id-to-record map. Built fresh for every job and
// discarded after linearization.
type graph struct {
	order []string
	nodes map[string]*node
}

func newGraph() *graph {
	return &graph{nodes: make(map[string]*node)}
}

func setupNodeID(name string) string {
	return "setup-" + name
}

func (g *graph) insert(n *node) *node {
	n.deps = make(map[string]struct{})
	n.conditionSet = make(map[string]struct{})
	g.nodes[n.id] = n
	g.order = append(g.order, n.id)
	return n
}

func (g *graph) addStepNode(id string, step *Step) *node {
	return g.insert(&node{id: id, kind: nodeStep, step: step})
}

func (g *graph) addSetupNode(name string, setup *Setup) *node {
	return g.insert(&node{id: setupNodeID(name), kind: nodeSetup, setup: setup, setupName: name})
}

// addCheckNode materializes the check's emitted step up front so every
// later reference to the node sees identical content.
func (g *graph) addCheckNode(check *PathCheck) *node {
	return g.insert(&node{
		id:    pathNodeID(check.Patterns),
		kind:  nodePathCheck,
		step:  check.checkStep(),
		check: check,
	})
}

// addEdge records that from runs after to. Duplicate edges collapse.
func (g *graph) addEdge(from, to string) {
	f := g.nodes[from]
	if _, ok := f.deps[to]; ok {
		return
	}
	f.deps[to] = struct{}{}
	f.depOrder = append(f.depOrder, to)
	g.nodes[to].dependents = append(g.nodes[to].dependents, from)
}

// attach widens a node's path-condition set and orders the node after
// each named check, so the outputs its derived condition reads exist by
// the time it runs. Pinned nodes are left alone.
func (g *graph) attach(n *node, checkIDs []string) {
	if n.unconditional {
		return
	}
	for _, checkID := range checkIDs {
		if _, ok := n.conditionSet[checkID]; ok {
			continue
		}
		n.conditionSet[checkID] = struct{}{}
		n.conditions = append(n.conditions, checkID)
		g.addEdge(n.id, checkID)
	}
}

// clear empties a node's condition set and pins it unconditional.
// Ordering edges added by earlier attaches stay in place.
func (g *graph) clear(n *node) {
	if n.unconditional {
		return
	}
	n.conditions = nil
	n.conditionSet = nil
	n.unconditional = true
	graphLog.Printf("Node %s pinned unconditional", n.id)
}

// noteSetupReference applies one reference site's gating to a setup node
// and pushes it through the node's transitive setup requirements. A site
// with no path checks pins the whole chain: once something needs a setup
// regardless of changed paths, it must always run, and so must everything
// it requires. References to the checkout group are always treated as
// unconditional, since checkout is what makes path-diffing possible.
func (g *graph) noteSetupReference(id string, checkIDs []string) {
	n := g.nodes[id]
	if n.setupName == constants.CheckoutSetupName {
		checkIDs = nil
	}
	if n.unconditional {
		return
	}
	if len(checkIDs) == 0 {
		g.clear(n)
		g.walkRequirements(n, g.clear)
		return
	}
	g.attach(n, checkIDs)
	g.walkRequirements(n, func(dep *node) { g.attach(dep, checkIDs) })
}

// walkRequirements visits the transitive setup requirements of start,
// iterating over recorded dependency edges with an explicit stack. Only
// setup nodes are visited: step and path-check dependencies are ordering,
// not gating, and the privileged checkout group is a hard stop so
// conditions never travel onto or through it.
func (g *graph) walkRequirements(start *node, visit func(*node)) {
	visited := map[string]bool{start.id: true}
	stack := g.pushSetupDeps(nil, start, visited)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visit(n)
		stack = g.pushSetupDeps(stack, n, visited)
	}
}

func (g *graph) pushSetupDeps(stack []*node, n *node, visited map[string]bool) []*node {
	for _, depID := range n.depOrder {
		if visited[depID] {
			continue
		}
		dep := g.nodes[depID]
		if dep.kind != nodeSetup || dep.setupName == constants.CheckoutSetupName {
			continue
		}
		visited[depID] = true
		stack = append(stack, dep)
	}
	return stack
}
