package facet

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/legalsearch/internal/domain"
)

func causeTree() Tree {
	return NewTree([]Category{
		{Name: "cause", DisplayName: "案由", Nodes: []Node{
			{Name: "A", Count: 3, HasChildren: true},
			{Name: "D", Count: 1, HasChildren: false},
		}},
		{Name: "type", DisplayName: "参照级别", Nodes: []Node{
			{Name: "典型案例", Count: 2, Children: []Node{}},
		}},
	})
}

func TestTree_RootUnfetchedChildren(t *testing.T) {
	tr := causeTree()
	root, ok := tr.Children(Address{Category: "cause"})
	if !ok || len(root) != 2 {
		t.Fatalf("root = %v, %v", root, ok)
	}
	if root[0].Children != nil {
		t.Error("A has children but level not fetched: Children must be nil")
	}
	if root[1].Children == nil || len(root[1].Children) != 0 {
		t.Error("D has no children: Children must be fetched-empty")
	}
}

func TestTree_WithChildrenIsImmutable(t *testing.T) {
	tr := causeTree()
	next, err := tr.WithChildren(Address{Category: "cause", Path: []string{"A"}}, []Node{
		{Name: "B", Count: 2, HasChildren: true},
		{Name: "C", Count: 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := tr.Children(Address{Category: "cause", Path: []string{"A"}}); ok {
		t.Error("original tree must stay untouched")
	}
	kids, ok := next.Children(Address{Category: "cause", Path: []string{"A"}})
	if !ok || len(kids) != 2 || kids[0].Name != "B" {
		t.Fatalf("children = %v, %v", kids, ok)
	}

	root, _ := next.Children(Address{Category: "cause"})
	if len(root[0].Children) != 2 {
		t.Errorf("root A should carry fetched children, got %v", root[0].Children)
	}
}

func TestTree_WithChildrenRejects(t *testing.T) {
	tr := causeTree()
	tests := []struct {
		name string
		path []string
	}{
		{"leaf node", []string{"D"}},
		{"unknown node", []string{"Z"}},
		{"unfetched parent", []string{"A", "B"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tr.WithChildren(Address{Category: "cause", Path: tc.path}, []Node{{Name: "x", Count: 1}})
			if !errors.Is(err, domain.ErrInvalidRequest) {
				t.Errorf("err = %v, want ErrInvalidRequest", err)
			}
		})
	}
}

func TestTree_ApplySelection(t *testing.T) {
	tr := causeTree()
	tr, err := tr.WithChildren(Address{Category: "cause", Path: []string{"A"}}, []Node{{Name: "B", Count: 2}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sel := tr.Apply("cause", []string{"A", "B"}, true).Apply("type", []string{"典型案例"}, true)

	if got := tr.Selections(); len(got) != 0 {
		t.Errorf("original selections = %v, want none", got)
	}
	got := sel.Selections()
	if len(got) != 2 {
		t.Fatalf("selections = %v", got)
	}
	if got[0].Category != "cause" || got[0].Value != "B" {
		t.Errorf("selections[0] = %+v", got[0])
	}
	if got[1].Category != "type" || got[1].Value != "典型案例" {
		t.Errorf("selections[1] = %+v", got[1])
	}

	cats := sel.Categories()
	if !cats[0].Nodes[0].Children[0].Selected {
		t.Error("materialized B should be selected")
	}
	if cats[0].Nodes[0].Selected {
		t.Error("A was not selected")
	}

	cleared := sel.Apply("cause", []string{"A", "B"}, false)
	if len(cleared.Selections()) != 1 {
		t.Errorf("cleared selections = %v", cleared.Selections())
	}
}

func TestNewTree_LoadsNestedChildren(t *testing.T) {
	tr := NewTree([]Category{{Name: "cause", Nodes: []Node{
		{Name: "A", Count: 1, HasChildren: true, Selected: true, Children: []Node{{Name: "B", Count: 1}}},
	}}})
	kids, ok := tr.Children(Address{Category: "cause", Path: []string{"A"}})
	if !ok || len(kids) != 1 {
		t.Fatalf("children = %v, %v", kids, ok)
	}
	if len(tr.Selections()) != 1 {
		t.Errorf("selections = %v", tr.Selections())
	}
}
