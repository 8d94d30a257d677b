package graph

import (
	"fmt"
	"io"
	"reflect"
	"strings"
)

// Visualizer provides methods to visualize the dependency graph
type Visualizer struct {
	graph *DependencyGraph
}

// NewVisualizer creates a new graph visualizer
func NewVisualizer(graph *DependencyGraph) *Visualizer {
	return &Visualizer{graph: graph}
}

// WriteDOT writes the graph in Graphviz DOT format
func (v *Visualizer) WriteDOT(w io.Writer) error {
	v.graph.mu.RLock()
	defer v.graph.mu.RUnlock()

	var b strings.Builder
	b.WriteString("digraph dependencies {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box];\n")

	keys := v.graph.sortedKeys()
	ids := make(map[reflect.Type]string, len(keys))
	for i, t := range keys {
		id := fmt.Sprintf("n%d", i)
		ids[t] = id

		node := v.graph.nodes[t]
		fmt.Fprintf(&b, "  %s [label=\"%s\", fillcolor=\"%s\", style=filled];\n",
			id, formatNodeLabel(node), nodeColor(node))
	}

	for _, from := range keys {
		for _, to := range v.graph.edges[from] {
			fmt.Fprintf(&b, "  %s -> %s;\n", ids[from], ids[to])
		}
	}

	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteText writes a text representation of the graph grouped by depth
func (v *Visualizer) WriteText(w io.Writer) error {
	v.graph.CalculateDepths()

	v.graph.mu.RLock()
	defer v.graph.mu.RUnlock()

	var b strings.Builder
	b.WriteString("Dependency Graph:\n")
	b.WriteString("=================\n\n")

	levels := make(map[int][]*Node)
	var cyclic []*Node
	maxDepth := -1

	for _, t := range v.graph.sortedKeys() {
		node := v.graph.nodes[t]
		if node.Depth < 0 {
			cyclic = append(cyclic, node)
			continue
		}
		levels[node.Depth] = append(levels[node.Depth], node)
		maxDepth = max(maxDepth, node.Depth)
	}

	for depth := 0; depth <= maxDepth; depth++ {
		nodes, ok := levels[depth]
		if !ok {
			continue
		}

		fmt.Fprintf(&b, "Level %d:\n", depth)
		b.WriteString("--------\n")
		for _, node := range nodes {
			writeNodeDetails(&b, node, "  ")
		}
		b.WriteString("\n")
	}

	if len(cyclic) > 0 {
		b.WriteString("Nodes in Cycles:\n")
		b.WriteString("----------------\n")
		for _, node := range cyclic {
			writeNodeDetails(&b, node, "  ")
		}
		b.WriteString("\n")
	}

	v.writeStatistics(&b, len(cyclic) == 0)

	_, err := io.WriteString(w, b.String())
	return err
}

func formatNodeLabel(node *Node) string {
	if node.Provider != nil && node.Provider.GetLifetime() != "" {
		return fmt.Sprintf("%v\\n%s", node.Type, node.Provider.GetLifetime())
	}
	return node.Type.String()
}

func nodeColor(node *Node) string {
	if node.Provider == nil {
		return "lightgray"
	}

	switch node.Provider.GetLifetime() {
	case "Singleton":
		return "lightblue"
	case "Transient":
		return "lightyellow"
	default:
		return "white"
	}
}

func writeNodeDetails(b *strings.Builder, node *Node, indent string) {
	fmt.Fprintf(b, "%s%v\n", indent, node.Type)

	if node.Provider == nil {
		fmt.Fprintf(b, "%s  Lifetime: unresolved\n", indent)
	} else if lifetime := node.Provider.GetLifetime(); lifetime != "" {
		fmt.Fprintf(b, "%s  Lifetime: %s\n", indent, lifetime)
	}

	if len(node.Dependencies) > 0 {
		fmt.Fprintf(b, "%s  Dependencies: [%s]\n", indent, joinTypes(node.Dependencies))
	}
	if len(node.Dependents) > 0 {
		fmt.Fprintf(b, "%s  Dependents: [%s]\n", indent, joinTypes(node.Dependents))
	}
}

func (v *Visualizer) writeStatistics(b *strings.Builder, acyclic bool) {
	edges := 0
	roots, leaves := 0, 0
	for _, node := range v.graph.nodes {
		edges += node.OutDegree
		if node.InDegree == 0 {
			roots++
		}
		if node.OutDegree == 0 {
			leaves++
		}
	}

	b.WriteString("Statistics:\n")
	b.WriteString("-----------\n")
	fmt.Fprintf(b, "  Total nodes: %d\n", len(v.graph.nodes))
	fmt.Fprintf(b, "  Total edges: %d\n", edges)
	fmt.Fprintf(b, "  Root nodes (no dependents): %d\n", roots)
	fmt.Fprintf(b, "  Leaf nodes (no dependencies): %d\n", leaves)

	if acyclic {
		b.WriteString("  Cycles: None (graph is acyclic)\n")
	} else {
		b.WriteString("  Cycles: DETECTED (graph contains circular dependencies)\n")
	}
}

func joinTypes(types []reflect.Type) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}
