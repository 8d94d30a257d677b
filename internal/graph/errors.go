package graph

import (
	"fmt"
	"reflect"
	"strings"
)

// CircularDependencyError describes a cycle found in the graph.
// Path lists the types on the cycle starting at Node.
type CircularDependencyError struct {
	Node reflect.Type
	Path []reflect.Type
}

func (e *CircularDependencyError) Error() string {
	var b strings.Builder
	b.WriteString("circular dependency detected:\n\n")

	path := e.Path
	if len(path) == 0 {
		path = []reflect.Type{e.Node}
	}

	for i, t := range path {
		b.WriteString(fmt.Sprintf("    %v\n", t))
		if i < len(path)-1 {
			b.WriteString("      ↓\n")
		}
	}
	b.WriteString("      ↓\n")
	b.WriteString(fmt.Sprintf("    %v (cycle)\n", path[0]))

	b.WriteString("\nTo resolve this:\n")
	b.WriteString("  • Register an instance for one of the types\n")
	b.WriteString("  • Declare a constructor that does not take the cyclic parameter\n")
	b.WriteString("  • Restructure to remove the circular relationship\n")

	return b.String()
}
