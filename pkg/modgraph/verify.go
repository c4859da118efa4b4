// SPDX-License-Identifier: MPL-2.0

package modgraph

type (
	// VerifyOption configures Verify.
	VerifyOption func(*verifyOptions)

	verifyOptions struct {
		detectCycles bool
	}

	pairKey struct {
		from, to ModuleName
	}
)

// WithCycleDetection enables reporting of dependency cycles between modules.
// Every edge between two distinct declared modules counts, whether or not it
// is allowed.
func WithCycleDetection(enabled bool) VerifyOption {
	return func(o *verifyOptions) {
		o.detectCycles = enabled
	}
}

// Verify checks observed edges against the declared module boundaries.
//
// Problems are reported in the order they are discovered. A repeated
// offending pair produces a single Violation whose Evidence lists each edge.
// The graph and the edges are only read.
func Verify(g *Graph, edges []Edge, opts ...VerifyOption) *ValidationResult {
	var o verifyOptions
	for _, opt := range opts {
		opt(&o)
	}

	result := &ValidationResult{}
	seen := make(map[pairKey]int)

	for _, e := range edges {
		if e.From == e.To {
			continue
		}

		from, fromOK := g.lookup(e.From)
		_, toOK := g.lookup(e.To)
		if !fromOK || !toOK {
			edge := e
			for _, missing := range missingEndpoints(e, fromOK, toOK) {
				result.UnknownReferences = append(result.UnknownReferences, UnknownModuleReference{
					From:    e.From,
					To:      e.To,
					Missing: missing,
					Field:   FieldEdge,
					Edge:    &edge,
				})
			}
			continue
		}

		if g.allows(from, e.To) {
			continue
		}

		key := pairKey{from: e.From, to: e.To}
		if i, ok := seen[key]; ok {
			result.Violations[i].Evidence = append(result.Violations[i].Evidence, e)
			continue
		}
		seen[key] = len(result.Violations)
		result.Violations = append(result.Violations, Violation{
			From:     e.From,
			To:       e.To,
			Reason:   violationReason(e.From, e.To),
			Evidence: []Edge{e},
		})
	}

	if o.detectCycles {
		result.Cycles = g.cycles(edges)
	}

	return result
}

// lookup returns the declaration without copying its allow-list.
func (g *Graph) lookup(name ModuleName) (*Module, bool) {
	i, ok := g.index[name]
	if !ok {
		return nil, false
	}
	return &g.modules[i], true
}

// allows applies the visibility rule for an edge from -> target.
func (g *Graph) allows(from *Module, target ModuleName) bool {
	to, _ := g.lookup(target)
	if to.IsOpen() {
		return true
	}
	return from.Allows(target)
}

// cycles returns every strongly connected set of more than one module.
func (g *Graph) cycles(edges []Edge) []Cycle {
	d := g.dependencyDAG(edges)
	components := d.StronglyConnected()
	if len(components) == 0 {
		return nil
	}
	out := make([]Cycle, 0, len(components))
	for _, comp := range components {
		c := Cycle{Modules: make([]ModuleName, len(comp))}
		for i, name := range comp {
			c.Modules[i] = ModuleName(name)
		}
		// The DAG stores reversed edges; reverse the walk so the path reads
		// in dependency direction.
		walk := d.CyclePath(comp[0])
		c.Path = make([]ModuleName, len(walk))
		for i, name := range walk {
			c.Path[len(walk)-1-i] = ModuleName(name)
		}
		out = append(out, c)
	}
	return out
}

func missingEndpoints(e Edge, fromOK, toOK bool) []ModuleName {
	var out []ModuleName
	if !fromOK {
		out = append(out, e.From)
	}
	if !toOK {
		out = append(out, e.To)
	}
	return out
}
