// Package backbone models the host network a delta method attaches to. A
// backbone is a tree of named modules whose leaves carry parameter matrices.
// Delta methods insert their own parameter blocks as marked children so the
// original structure stays recoverable.
package backbone

import (
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Param is a named weight matrix belonging to a module.
type Param struct {
	Name   string
	Data   *mat.Dense
	Frozen bool
}

// Size returns the number of elements in the matrix.
func (p *Param) Size() int {
	r, c := p.Data.Dims()
	return r * c
}

// Module is a node in a backbone tree. Sibling names should be unique.
type Module struct {
	name     string
	parent   *Module
	children []*Module
	params   []*Param
	isDelta  bool
}

// New creates a root module. The name identifies the backbone class, for
// example "bert".
func New(name string) *Module {
	return &Module{name: name}
}

// Name returns the local name of the module.
func (m *Module) Name() string { return m.name }

// Parent returns the enclosing module, nil for the root.
func (m *Module) Parent() *Module { return m.parent }

// Path returns the dotted path from the root. The root itself has an empty
// path, so a child named "encoder" has path "encoder".
func (m *Module) Path() string {
	if m.parent == nil {
		return ""
	}
	parent := m.parent.Path()
	if parent == "" {
		return m.name
	}
	return parent + "." + m.name
}

// NewChild appends a child module and returns it.
func (m *Module) NewChild(name string) *Module {
	c := &Module{name: name, parent: m}
	m.children = append(m.children, c)
	return c
}

// Children returns the direct children in insertion order.
func (m *Module) Children() []*Module { return m.children }

// MarkDelta flags the module as delta-inserted. Marked subtrees are excluded
// from matching, freezing and the structural checksum.
func (m *Module) MarkDelta() { m.isDelta = true }

// IsDelta reports whether the module was inserted by a delta method.
func (m *Module) IsDelta() bool { return m.isDelta }

// AddParam attaches a zero-initialized rows×cols parameter and returns it.
func (m *Module) AddParam(name string, rows, cols int) *Param {
	p := &Param{Name: name, Data: mat.NewDense(rows, cols, nil)}
	m.params = append(m.params, p)
	return p
}

// AddParamMatrix attaches an existing matrix as a named parameter.
func (m *Module) AddParamMatrix(name string, data *mat.Dense) *Param {
	p := &Param{Name: name, Data: data}
	m.params = append(m.params, p)
	return p
}

// Param returns the named parameter of this module.
func (m *Module) Param(name string) (*Param, bool) {
	for _, p := range m.params {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// Params returns the parameters of this module in insertion order.
func (m *Module) Params() []*Param { return m.params }

// Weight returns the parameter named "weight", or the first parameter when
// none carries that name. It is nil for modules without parameters.
func (m *Module) Weight() *Param {
	for _, p := range m.params {
		if p.Name == "weight" {
			return p
		}
	}
	if len(m.params) == 0 {
		return nil
	}
	return m.params[0]
}

// OutDim returns the output dimension of the module: the row count of the
// first weight in its subtree, skipping delta-inserted children. It is zero
// when the subtree carries no parameters.
func (m *Module) OutDim() int {
	dim := 0
	m.Walk(func(n *Module) bool {
		if dim > 0 || n.isDelta {
			return false
		}
		if w := n.Weight(); w != nil {
			dim, _ = w.Data.Dims()
			return false
		}
		return true
	})
	return dim
}

// Find locates a descendant by dotted path relative to this module.
func (m *Module) Find(path string) (*Module, bool) {
	if path == "" {
		return m, true
	}
	cur := m
	for _, seg := range strings.Split(path, ".") {
		var next *Module
		for _, c := range cur.children {
			if c.name == seg {
				next = c
				break
			}
		}
		if next == nil {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Walk visits the module and its descendants in depth-first order. Returning
// false from fn prunes the subtree below the visited module.
func (m *Module) Walk(fn func(*Module) bool) {
	if !fn(m) {
		return
	}
	for _, c := range m.children {
		c.Walk(fn)
	}
}

// Match returns the modules whose path matches one of the patterns and none
// of the excludes. A path matches a pattern when it equals the pattern or
// ends with "." followed by the pattern. An empty pattern list selects every
// parameter-carrying module. Delta-inserted subtrees are never matched.
func (m *Module) Match(patterns, excludes []string) []*Module {
	var out []*Module
	m.Walk(func(n *Module) bool {
		if n.isDelta {
			return false
		}
		path := n.Path()
		for _, ex := range excludes {
			if pathMatches(path, ex) {
				return true
			}
		}
		if len(patterns) == 0 {
			if len(n.params) > 0 {
				out = append(out, n)
			}
			return true
		}
		for _, pat := range patterns {
			if pathMatches(path, pat) {
				out = append(out, n)
				return true
			}
		}
		return true
	})
	return out
}

func pathMatches(path, pattern string) bool {
	if path == "" || pattern == "" {
		return false
	}
	return path == pattern || strings.HasSuffix(path, "."+pattern)
}

// Freeze marks every parameter in the subtree as frozen. Delta-inserted
// modules keep their training state.
func (m *Module) Freeze() {
	m.Walk(func(n *Module) bool {
		if n.isDelta {
			return false
		}
		for _, p := range n.params {
			p.Frozen = true
		}
		return true
	})
}

// Unfreeze clears the frozen flag on every parameter in the subtree,
// excluding delta-inserted modules.
func (m *Module) Unfreeze() {
	m.Walk(func(n *Module) bool {
		if n.isDelta {
			return false
		}
		for _, p := range n.params {
			p.Frozen = false
		}
		return true
	})
}

// NumParams returns the total number of parameter elements in the subtree,
// delta-inserted modules included.
func (m *Module) NumParams() int {
	total := 0
	m.Walk(func(n *Module) bool {
		for _, p := range n.params {
			total += p.Size()
		}
		return true
	})
	return total
}

// TrainableParams returns the number of unfrozen parameter elements in the
// subtree, delta-inserted modules included.
func (m *Module) TrainableParams() int {
	total := 0
	m.Walk(func(n *Module) bool {
		for _, p := range n.params {
			if !p.Frozen {
				total += p.Size()
			}
		}
		return true
	})
	return total
}
