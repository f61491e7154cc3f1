package workflow

import (
	"context"
	"fmt"
)

// End terminates a graph run when returned by a router or set as an edge
// target.
const End = "__end__"

// maxSteps bounds a run so a miswired graph cannot loop forever.
const maxSteps = 100

// Node transforms the state. Nodes run sequentially in graph order.
type Node[S any] func(ctx context.Context, state S) (S, error)

// Router picks the next node name after a node completes.
type Router[S any] func(state S) string

// Graph is a small state-machine runner: named nodes joined by linear edges
// or conditional routers, executed from an entry point until End.
type Graph[S any] struct {
	nodes   map[string]Node[S]
	edges   map[string]string
	routers map[string]Router[S]
	entry   string
}

// NewGraph creates an empty graph.
func NewGraph[S any]() *Graph[S] {
	return &Graph[S]{
		nodes:   make(map[string]Node[S]),
		edges:   make(map[string]string),
		routers: make(map[string]Router[S]),
	}
}

// AddNode registers a named node.
func (g *Graph[S]) AddNode(name string, fn Node[S]) *Graph[S] {
	g.nodes[name] = fn
	return g
}

// AddEdge wires a linear transition from one node to the next.
func (g *Graph[S]) AddEdge(from, to string) *Graph[S] {
	g.edges[from] = to
	return g
}

// AddConditionalEdge wires a router that picks the next node from the state.
func (g *Graph[S]) AddConditionalEdge(from string, router Router[S]) *Graph[S] {
	g.routers[from] = router
	return g
}

// SetEntryPoint names the node a run starts at.
func (g *Graph[S]) SetEntryPoint(name string) *Graph[S] {
	g.entry = name
	return g
}

// Run executes the graph from the entry point until End is reached or a node
// fails. The final state is returned alongside any node error.
func (g *Graph[S]) Run(ctx context.Context, state S) (S, error) {
	if g.entry == "" {
		return state, fmt.Errorf("graph has no entry point")
	}

	current := g.entry
	for steps := 0; ; steps++ {
		if steps >= maxSteps {
			return state, fmt.Errorf("graph exceeded %d steps at node %q", maxSteps, current)
		}
		if err := ctx.Err(); err != nil {
			return state, err
		}

		node, ok := g.nodes[current]
		if !ok {
			return state, fmt.Errorf("graph has no node %q", current)
		}

		var err error
		state, err = node(ctx, state)
		if err != nil {
			return state, fmt.Errorf("node %q: %w", current, err)
		}

		next := End
		if router, ok := g.routers[current]; ok {
			next = router(state)
		} else if to, ok := g.edges[current]; ok {
			next = to
		}
		if next == End {
			return state, nil
		}
		current = next
	}
}
