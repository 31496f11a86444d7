// ABOUTME: Pure tree operations over section forests
// ABOUTME: All operations return new trees and never mutate their input

package section

import "strings"

// FindByID returns a deep copy of the first node with the given id, searching
// depth-first. Ids are unique across the tree, so the result is unambiguous.
func FindByID(nodes []Node, id string) (Node, bool) {
	for i := range nodes {
		if nodes[i].ID == id {
			return nodes[i].Clone(), true
		}
		if found, ok := FindByID(nodes[i].Children, id); ok {
			return found, true
		}
	}
	return Node{}, false
}

// Contains reports whether a node with the given id exists in the forest.
func Contains(nodes []Node, id string) bool {
	for i := range nodes {
		if nodes[i].ID == id || Contains(nodes[i].Children, id) {
			return true
		}
	}
	return false
}

// PathTo returns the chain of ancestors ending in the node with the given id,
// or nil if the id is not present. Returned nodes are deep copies.
func PathTo(nodes []Node, id string) []Node {
	for i := range nodes {
		if nodes[i].ID == id {
			return []Node{nodes[i].Clone()}
		}
		if sub := PathTo(nodes[i].Children, id); sub != nil {
			return append([]Node{nodes[i].Clone()}, sub...)
		}
	}
	return nil
}

// UpdateByID applies fn to the node with the given id and returns the new
// forest. fn receives a deep copy and may mutate it freely. When the id is
// absent the returned forest is structurally equal to the input.
func UpdateByID(nodes []Node, id string, fn func(Node) Node) []Node {
	if len(nodes) == 0 {
		return nodes
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		if n.ID == id {
			out[i] = fn(n.Clone())
			continue
		}
		n.Children = UpdateByID(n.Children, id, fn)
		out[i] = n
	}
	return out
}

// DeleteByID removes the node with the given id together with its entire
// subtree. Deleting an absent id returns a structurally equal forest.
func DeleteByID(nodes []Node, id string) []Node {
	if len(nodes) == 0 {
		return nodes
	}
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if n.ID == id {
			continue
		}
		n.Children = DeleteByID(n.Children, id)
		out = append(out, n)
	}
	return out
}

// AddChild appends child under parentID, or as a new root when parentID is
// empty. A non-empty parentID that does not exist is a silent no-op,
// consistent with the not-found policy of the other tree operations.
func AddChild(nodes []Node, parentID string, child Node) []Node {
	if parentID == "" {
		out := make([]Node, 0, len(nodes)+1)
		out = append(out, nodes...)
		return append(out, child)
	}
	return UpdateByID(nodes, parentID, func(n Node) Node {
		n.Children = append(n.Children, child)
		return n
	})
}

// Flatten returns every node in pre-order: each node before its children,
// children in order. The returned nodes are shallow copies for reading.
func Flatten(nodes []Node) []Node {
	var out []Node
	var walk func([]Node)
	walk = func(ns []Node) {
		for _, n := range ns {
			out = append(out, n)
			walk(n.Children)
		}
	}
	walk(nodes)
	return out
}

// Count returns the total number of nodes in the forest.
func Count(nodes []Node) int {
	total := 0
	for i := range nodes {
		total += 1 + Count(nodes[i].Children)
	}
	return total
}

// Filter returns a pruned copy keeping a node iff it matches pred or at
// least one descendant does. Kept nodes retain only their matching or
// matching-containing children.
func Filter(nodes []Node, pred func(Node) bool) []Node {
	var out []Node
	for _, n := range nodes {
		kept := Filter(n.Children, pred)
		if pred(n) || len(kept) > 0 {
			n.Children = kept
			out = append(out, n)
		}
	}
	return out
}

// MatchQuery reports whether the node matches a free-text query by
// case-insensitive substring over its title, categories, and custom-field
// values. Used with Filter to implement section search.
func MatchQuery(n Node, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(n.Title), q) {
		return true
	}
	for _, c := range n.Categories {
		if strings.Contains(strings.ToLower(c), q) {
			return true
		}
	}
	matched := false
	n.CustomFields.Each(func(_, v string) {
		if strings.Contains(strings.ToLower(v), q) {
			matched = true
		}
	})
	return matched
}
