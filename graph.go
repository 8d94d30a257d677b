package simpledi

import (
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/junioryono/simpledi/internal/graph"
	"github.com/junioryono/simpledi/internal/reflection"
)

// GraphFormat selects the output of WriteGraph.
type GraphFormat int

const (
	// GraphFormatText renders registrations grouped by dependency depth.
	GraphFormatText GraphFormat = iota

	// GraphFormatDOT renders a Graphviz digraph.
	GraphFormatDOT
)

// graphNode adapts a type and its chosen constructor to graph.Provider.
type graphNode struct {
	t        reflect.Type
	deps     []reflect.Type
	lifetime string
}

func (n graphNode) GetType() reflect.Type            { return n.t }
func (n graphNode) GetDependencies() []reflect.Type { return n.deps }
func (n graphNode) GetLifetime() string             { return n.lifetime }

// buildGraph places every registration in a dependency graph, following
// the constructor the selector would pick right now. Unregistered concrete
// parameters and extra roots are added as unlabeled nodes. Registrations
// whose type cannot be built are returned as ValidationErrors.
func (c *Container) buildGraph(roots ...reflect.Type) (*graph.DependencyGraph, []error) {
	g := graph.NewDependencyGraph()
	selector := c.resolver.Selector()

	var problems []error
	seen := make(map[reflect.Type]bool)
	var pending []reflect.Type
	for _, t := range roots {
		if t != nil && !reflection.IsAbstract(t) && !c.registry.Contains(t) {
			pending = append(pending, t)
		}
	}

	add := func(t reflect.Type, impl reflect.Type, lifetime string) {
		seen[t] = true

		ctor, err := selector.Select(impl)
		if err != nil {
			problems = append(problems, ValidationError{ServiceType: t, Cause: err})
			_ = g.AddProvider(graphNode{t: t, lifetime: lifetime})
			return
		}

		_ = g.AddProvider(graphNode{t: t, deps: ctor.Parameters, lifetime: lifetime})

		for _, p := range ctor.Parameters {
			if !seen[p] && !c.registry.Contains(p) {
				pending = append(pending, p)
			}
		}
	}

	for _, e := range c.registry.Entries() {
		if e.HasInstance {
			seen[e.Requested] = true
			_ = g.AddProvider(graphNode{t: e.Requested, lifetime: lifetimeOf(e.Lifetime).String()})
			continue
		}
		add(e.Requested, e.Implementation, lifetimeOf(e.Lifetime).String())
	}

	for len(pending) > 0 {
		t := pending[0]
		pending = pending[1:]
		if seen[t] {
			continue
		}
		add(t, t, "")
	}

	return g, problems
}

// Validate checks every registration without building anything. It reports
// dependency cycles as *CircularDependencyError and registrations that
// cannot be built as ValidationError, joined into one error.
//
// Validate reflects the registrations and constructors at the time of the
// call; later changes can make a valid container invalid and vice versa.
func (c *Container) Validate() error {
	g, problems := c.buildGraph()

	var errs []error
	if err := cycleError(g); err != nil {
		errs = append(errs, err)
	}
	errs = append(errs, problems...)

	if len(errs) == 0 {
		c.logger.Debug().Int("nodes", g.Size()).Msg("validation passed")
		return nil
	}

	c.logger.Warn().Int("problems", len(errs)).Msg("validation failed")
	return errors.Join(errs...)
}

func cycleError(g *graph.DependencyGraph) error {
	err := g.DetectCycles()
	if err == nil {
		return nil
	}

	var cycle *graph.CircularDependencyError
	if errors.As(err, &cycle) {
		return &CircularDependencyError{ServiceType: cycle.Node, Chain: cycle.Path}
	}
	return err
}

// Dependencies returns the types t is built from directly, in parameter
// order of the constructor that would be chosen now. It returns nil for an
// interface without a registration.
func (c *Container) Dependencies(t reflect.Type) []reflect.Type {
	g, _ := c.buildGraph(t)
	return g.GetDependencies(t)
}

// TransitiveDependencies returns every type building t would touch,
// direct dependencies first.
func (c *Container) TransitiveDependencies(t reflect.Type) []reflect.Type {
	g, _ := c.buildGraph(t)
	if !g.HasNode(t) {
		return nil
	}
	return g.GetTransitiveDependencies(t)
}

// Dependents returns the registered types, and the concrete types they pull
// in, whose constructors take t directly.
func (c *Container) Dependents(t reflect.Type) []reflect.Type {
	g, _ := c.buildGraph()
	return g.GetDependents(t)
}

// ConstructionOrder lists the types in the current dependency graph so that
// every type comes after the types it depends on. A cycle is reported as
// *CircularDependencyError.
func (c *Container) ConstructionOrder() ([]reflect.Type, error) {
	g, _ := c.buildGraph()

	if err := cycleError(g); err != nil {
		return nil, err
	}

	nodes, err := g.TopologicalSort()
	if err != nil {
		return nil, err
	}

	order := make([]reflect.Type, len(nodes))
	for i, n := range nodes {
		order[i] = n.Type
	}
	return order, nil
}

// WriteGraph renders the dependency graph of the current registrations.
func (c *Container) WriteGraph(w io.Writer, format GraphFormat) error {
	g, _ := c.buildGraph()
	v := graph.NewVisualizer(g)

	switch format {
	case GraphFormatText:
		return v.WriteText(w)
	case GraphFormatDOT:
		return v.WriteDOT(w)
	default:
		return fmt.Errorf("unknown graph format %d", int(format))
	}
}
