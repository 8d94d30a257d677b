package graph

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// Provider is anything that can be placed in the graph: a type together with
// the types it needs in order to be built.
type Provider interface {
	// GetType returns the type this provider produces
	GetType() reflect.Type

	// GetDependencies returns the parameter types of the chosen constructor
	GetDependencies() []reflect.Type

	// GetLifetime returns a display label such as "Singleton", or "" for
	// types that are built ad hoc without a registration
	GetLifetime() string
}

// DependencyGraph manages the dependency relationships between types.
// It provides cycle detection, topological sorting, and dependency analysis.
type DependencyGraph struct {
	mu    sync.RWMutex
	nodes map[reflect.Type]*Node
	edges map[reflect.Type][]reflect.Type
}

// Node represents a type in the dependency graph
type Node struct {
	Type     reflect.Type
	Provider Provider // nil for types only seen as dependencies

	InDegree  int // number of dependents
	OutDegree int // number of dependencies
	Depth     int // longest dependency chain below this node, -1 inside cycles

	Dependencies []reflect.Type
	Dependents   []reflect.Type
}

// String returns a string representation of the node
func (n *Node) String() string {
	return fmt.Sprintf("Node{%v, in:%d, out:%d, depth:%d}", n.Type, n.InDegree, n.OutDegree, n.Depth)
}

// NewDependencyGraph creates a new dependency graph
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		nodes: make(map[reflect.Type]*Node),
		edges: make(map[reflect.Type][]reflect.Type),
	}
}

// AddProvider adds a provider to the graph, replacing any previous provider
// of the same type. Cycles are accepted here and reported by DetectCycles.
func (g *DependencyGraph) AddProvider(provider Provider) error {
	if provider == nil {
		return fmt.Errorf("provider cannot be nil")
	}

	t := provider.GetType()
	if t == nil {
		return fmt.Errorf("provider type cannot be nil")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	node := g.ensure(t)
	node.Provider = provider

	deps := provider.GetDependencies()
	edges := make([]reflect.Type, 0, len(deps))
	for _, dep := range deps {
		g.ensure(dep)
		edges = append(edges, dep)
	}
	g.edges[t] = edges

	g.updateDegrees()
	return nil
}

func (g *DependencyGraph) ensure(t reflect.Type) *Node {
	node, ok := g.nodes[t]
	if !ok {
		node = &Node{Type: t}
		g.nodes[t] = node
	}
	return node
}

func (g *DependencyGraph) updateDegrees() {
	for _, node := range g.nodes {
		node.InDegree = 0
		node.OutDegree = 0
		node.Dependencies = nil
		node.Dependents = nil
	}

	for _, from := range g.sortedKeys() {
		tos := g.edges[from]
		fromNode := g.nodes[from]
		fromNode.OutDegree = len(tos)
		fromNode.Dependencies = append([]reflect.Type(nil), tos...)

		for _, to := range tos {
			if toNode, ok := g.nodes[to]; ok {
				toNode.InDegree++
				toNode.Dependents = append(toNode.Dependents, from)
			}
		}
	}
}

// sortedKeys returns node types ordered by name so traversals are deterministic
func (g *DependencyGraph) sortedKeys() []reflect.Type {
	keys := make([]reflect.Type, 0, len(g.nodes))
	for t := range g.nodes {
		keys = append(keys, t)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})
	return keys
}

// TopologicalSort returns nodes in dependency order (dependencies first)
func (g *DependencyGraph) TopologicalSort() ([]*Node, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	result := g.kahn()
	if len(result) != len(g.nodes) {
		return nil, fmt.Errorf("circular dependency detected: graph contains %d nodes but only %d could be sorted",
			len(g.nodes), len(result))
	}
	return result, nil
}

// kahn orders nodes dependencies first. Nodes on or above a cycle never
// become ready and are left out.
func (g *DependencyGraph) kahn() []*Node {
	remaining := make(map[reflect.Type]int, len(g.nodes))
	queue := make([]reflect.Type, 0)

	for _, t := range g.sortedKeys() {
		remaining[t] = len(g.edges[t])
		if remaining[t] == 0 {
			queue = append(queue, t)
		}
	}

	result := make([]*Node, 0, len(g.nodes))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		node := g.nodes[current]
		result = append(result, node)

		for _, dependent := range node.Dependents {
			remaining[dependent]--
			if remaining[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	return result
}

// DetectCycles returns a *CircularDependencyError for the first cycle found,
// walking types in name order.
func (g *DependencyGraph) DetectCycles() error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	const (
		unvisited = iota
		visiting
		done
	)

	state := make(map[reflect.Type]int, len(g.nodes))
	var path []reflect.Type

	var visit func(t reflect.Type) error
	visit = func(t reflect.Type) error {
		switch state[t] {
		case done:
			return nil
		case visiting:
			start := 0
			for i, p := range path {
				if p == t {
					start = i
					break
				}
			}
			cycle := append([]reflect.Type(nil), path[start:]...)
			return &CircularDependencyError{Node: t, Path: cycle}
		}

		state[t] = visiting
		path = append(path, t)

		for _, dep := range g.edges[t] {
			if err := visit(dep); err != nil {
				return err
			}
		}

		path = path[:len(path)-1]
		state[t] = done
		return nil
	}

	for _, t := range g.sortedKeys() {
		if err := visit(t); err != nil {
			return err
		}
	}

	return nil
}

// GetDependencies returns the direct dependencies of a type
func (g *DependencyGraph) GetDependencies(t reflect.Type) []reflect.Type {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if node, ok := g.nodes[t]; ok {
		return append([]reflect.Type(nil), node.Dependencies...)
	}
	return nil
}

// GetDependents returns the types that depend on t
func (g *DependencyGraph) GetDependents(t reflect.Type) []reflect.Type {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if node, ok := g.nodes[t]; ok {
		return append([]reflect.Type(nil), node.Dependents...)
	}
	return nil
}

// GetTransitiveDependencies returns all dependencies (direct and indirect)
func (g *DependencyGraph) GetTransitiveDependencies(t reflect.Type) []reflect.Type {
	g.mu.RLock()
	defer g.mu.RUnlock()

	visited := map[reflect.Type]bool{t: true}
	result := make([]reflect.Type, 0)

	var collect func(current reflect.Type)
	collect = func(current reflect.Type) {
		for _, dep := range g.edges[current] {
			if !visited[dep] {
				visited[dep] = true
				result = append(result, dep)
				collect(dep)
			}
		}
	}

	collect(t)
	return result
}

// HasNode checks if a node exists in the graph
func (g *DependencyGraph) HasNode(t reflect.Type) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	_, ok := g.nodes[t]
	return ok
}

// Size returns the number of nodes in the graph
func (g *DependencyGraph) Size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.nodes)
}

// CalculateDepths assigns each node the length of its longest dependency chain.
// Leaves have depth 0. Nodes on or above a cycle get -1.
func (g *DependencyGraph) CalculateDepths() {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, node := range g.nodes {
		node.Depth = -1
	}

	for _, node := range g.kahn() {
		depth := 0
		for _, dep := range node.Dependencies {
			if d := g.nodes[dep].Depth + 1; d > depth {
				depth = d
			}
		}
		node.Depth = depth
	}
}
