package facet

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/legalsearch/internal/domain"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/filter"
)

// Address locates a tree level: the nodes directly below Path in Category.
// An empty path addresses the root level.
type Address struct {
	Category string
	Path     []string
}

func (a Address) key() string {
	return a.Category + "\x00" + strings.Join(a.Path, "\x00")
}

func (a Address) child(name string) Address {
	p := make([]string, len(a.Path), len(a.Path)+1)
	copy(p, a.Path)
	return Address{Category: a.Category, Path: append(p, name)}
}

type level struct {
	nodes []Node
}

// Tree is an immutable arena of facet levels keyed by (category, path).
// Updates return a new Tree that shares untouched levels with the receiver.
type Tree struct {
	order    []Category
	levels   map[string]level
	selected map[string]bool
}

// NewTree builds a tree from categories. Nested children that are already
// populated become their own levels.
func NewTree(categories []Category) Tree {
	t := Tree{
		order:    make([]Category, 0, len(categories)),
		levels:   make(map[string]level),
		selected: make(map[string]bool),
	}
	for _, c := range categories {
		t.order = append(t.order, Category{Name: c.Name, DisplayName: c.DisplayName})
		t.load(Address{Category: c.Name}, c.Nodes)
	}
	return t
}

func (t Tree) load(at Address, nodes []Node) {
	flat := make([]Node, len(nodes))
	for i, n := range nodes {
		addr := at.child(n.Name)
		if n.Selected {
			t.selected[addr.key()] = true
		}
		if n.Children != nil {
			t.load(addr, n.Children)
		}
		n.Children = nil
		n.Selected = false
		flat[i] = n
	}
	t.levels[at.key()] = level{nodes: flat}
}

// Children returns the nodes at an address and whether the level was fetched.
func (t Tree) Children(at Address) ([]Node, bool) {
	lv, ok := t.levels[at.key()]
	if !ok {
		return nil, false
	}
	return t.materialize(at, lv.nodes), true
}

// WithChildren returns a tree where the level at the address holds nodes.
// Populating below a node that reports no children is rejected.
func (t Tree) WithChildren(at Address, nodes []Node) (Tree, error) {
	if len(at.Path) > 0 {
		parent := Address{Category: at.Category, Path: at.Path[:len(at.Path)-1]}
		lv, ok := t.levels[parent.key()]
		if !ok {
			return Tree{}, fmt.Errorf("%w: parent level of %v not fetched", domain.ErrInvalidRequest, at.Path)
		}
		name := at.Path[len(at.Path)-1]
		var found bool
		for _, n := range lv.nodes {
			if n.Name == name {
				found = true
				if !n.HasChildren && len(nodes) > 0 {
					return Tree{}, fmt.Errorf("%w: %q has no children", domain.ErrInvalidRequest, name)
				}
			}
		}
		if !found {
			return Tree{}, fmt.Errorf("%w: unknown node %q", domain.ErrInvalidRequest, name)
		}
	}
	next := t.clone()
	next.load(at, nodes)
	return next, nil
}

// Apply returns a tree with the node at path marked selected or cleared.
func (t Tree) Apply(category string, path []string, on bool) Tree {
	if len(path) == 0 {
		return t
	}
	addr := Address{Category: category, Path: path}
	next := t.clone()
	if on {
		next.selected[addr.key()] = true
	} else {
		delete(next.selected, addr.key())
	}
	return next
}

// Selections returns the selected node values as filter selections,
// in category order then depth-first tree order.
func (t Tree) Selections() []filter.Selected {
	var out []filter.Selected
	for _, c := range t.order {
		t.walk(Address{Category: c.Name}, func(addr Address, n Node) {
			if t.selected[addr.child(n.Name).key()] {
				out = append(out, filter.Selected{Category: c.Name, Value: n.Name})
			}
		})
	}
	return out
}

// Categories materializes the tree into nested categories.
func (t Tree) Categories() []Category {
	out := make([]Category, 0, len(t.order))
	for _, c := range t.order {
		root, _ := t.Children(Address{Category: c.Name})
		out = append(out, Category{Name: c.Name, DisplayName: c.DisplayName, Nodes: root})
	}
	return out
}

func (t Tree) walk(at Address, fn func(Address, Node)) {
	lv, ok := t.levels[at.key()]
	if !ok {
		return
	}
	for _, n := range lv.nodes {
		fn(at, n)
		t.walk(at.child(n.Name), fn)
	}
}

func (t Tree) materialize(at Address, nodes []Node) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		addr := at.child(n.Name)
		n.Selected = t.selected[addr.key()]
		if lv, ok := t.levels[addr.key()]; ok {
			n.Children = t.materialize(addr, lv.nodes)
		} else if !n.HasChildren {
			n.Children = []Node{}
		}
		out[i] = n
	}
	return out
}

func (t Tree) clone() Tree {
	next := Tree{
		order:    t.order,
		levels:   make(map[string]level, len(t.levels)+1),
		selected: make(map[string]bool, len(t.selected)),
	}
	for k, v := range t.levels {
		next.levels[k] = v
	}
	for k, v := range t.selected {
		next.selected[k] = v
	}
	return next
}
