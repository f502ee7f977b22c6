// Package facet models filter tree nodes and the per-category arena that holds them.
package facet

import (
	"sort"
	"strconv"
)

// YearUnit is appended to year facet names for display.
const YearUnit = "年"

// Node is one value of a filterable attribute with its document count.
//
// Children is nil when the level below has not been fetched; an empty
// non-nil slice means it was fetched and is empty. HasChildren is
// authoritative regardless of fetch state.
type Node struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Count       int64  `json:"count"`
	HasChildren bool   `json:"hasChildren"`
	Children    []Node `json:"children"`
	Selected    bool   `json:"selected"`
}

// Category is a named group of root-level nodes.
type Category struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Nodes       []Node `json:"filters"`
}

// Bucket is a raw (value, count) group produced by the store.
type Bucket struct {
	Value string
	Count int64
}

// FromBuckets turns scalar buckets into leaf nodes sorted by count desc, name asc.
// Empty values are dropped.
func FromBuckets(buckets []Bucket) []Node {
	nodes := make([]Node, 0, len(buckets))
	for _, b := range buckets {
		if b.Value == "" {
			continue
		}
		nodes = append(nodes, Node{Name: b.Value, DisplayName: b.Value, Count: b.Count, Children: []Node{}})
	}
	SortByCount(nodes)
	return nodes
}

// FromYearBuckets turns year buckets into nodes sorted by year desc.
// Values that are not 4-digit years are dropped.
func FromYearBuckets(buckets []Bucket) []Node {
	nodes := make([]Node, 0, len(buckets))
	for _, b := range buckets {
		if len(b.Value) != 4 {
			continue
		}
		if _, err := strconv.Atoi(b.Value); err != nil {
			continue
		}
		nodes = append(nodes, Node{
			Name:        b.Value,
			DisplayName: b.Value + YearUnit,
			Count:       b.Count,
			Children:    []Node{},
		})
	}
	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].Name > nodes[j].Name })
	return nodes
}

// SortByCount orders nodes by count desc, breaking ties by name asc.
func SortByCount(nodes []Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Count != nodes[j].Count {
			return nodes[i].Count > nodes[j].Count
		}
		return nodes[i].Name < nodes[j].Name
	})
}
