package legalsearch

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/legalsearch/internal/domain/facet"
)

// FacetTree is an immutable filter tree addressed by (category, path).
// Updates return a new tree; Selections turns marked nodes into filters.
type FacetTree = facet.Tree

// FacetAddress locates one level of a FacetTree.
type FacetAddress = facet.Address

// FilterTree returns the initial filter tree: every category with its
// root level populated.
func (c *Client) FilterTree(ctx context.Context) (FacetTree, error) {
	cats, err := c.Categories(ctx)
	if err != nil {
		return FacetTree{}, err
	}
	return facet.NewTree(cats), nil
}

// Expand fetches the children of the node at path and returns a tree with
// that level populated.
func (c *Client) Expand(ctx context.Context, tree FacetTree, category string, path []string) (FacetTree, error) {
	nodes, err := c.ChildFacets(ctx, category, path)
	if err != nil {
		return FacetTree{}, err
	}
	next, err := tree.WithChildren(facet.Address{Category: category, Path: path}, nodes)
	if err != nil {
		return FacetTree{}, fmt.Errorf("expand %s: %w", category, err)
	}
	return next, nil
}

// ExpandPath expands every level along path, so the node at path and its
// ancestors are populated.
func (c *Client) ExpandPath(ctx context.Context, tree FacetTree, category string, path []string) (FacetTree, error) {
	var err error
	for depth := 1; depth < len(path); depth++ {
		at := facet.Address{Category: category, Path: path[:depth]}
		if _, fetched := tree.Children(at); fetched {
			continue
		}
		if tree, err = c.Expand(ctx, tree, category, path[:depth]); err != nil {
			return FacetTree{}, err
		}
	}
	return tree, nil
}
