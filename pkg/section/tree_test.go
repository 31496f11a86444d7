// ABOUTME: Tests for pure section tree operations
// ABOUTME: Verifies search, update, delete, flatten, and filter semantics

package section

import (
	"reflect"
	"testing"

	"github.com/nainya/doctree/pkg/fields"
)

// testTree builds: A(a) -> B(b) -> C(c), plus root D(d).
func testTree() []Node {
	return []Node{
		{
			ID:         "a",
			Title:      "Introduction",
			Categories: []string{"general"},
			Children: []Node{
				{
					ID:         "b",
					Title:      "Background",
					Categories: []string{"context"},
					Children: []Node{
						{
							ID:           "c",
							Title:        "Prior Work",
							CustomFields: fields.FromPairs("importance", "high"),
						},
					},
				},
			},
		},
		{ID: "d", Title: "Conclusion", StartPosition: 10, EndPosition: 20},
	}
}

func TestFindByID(t *testing.T) {
	tree := testTree()

	n, ok := FindByID(tree, "c")
	if !ok {
		t.Fatal("expected to find node c")
	}
	if n.Title != "Prior Work" {
		t.Errorf("expected 'Prior Work', got %q", n.Title)
	}

	if _, ok := FindByID(tree, "nope"); ok {
		t.Error("expected not-found for unknown id")
	}
}

func TestFindReturnsCopy(t *testing.T) {
	tree := testTree()
	n, _ := FindByID(tree, "a")
	n.Title = "mutated"
	n.Categories[0] = "mutated"

	if tree[0].Title != "Introduction" || tree[0].Categories[0] != "general" {
		t.Error("mutating a found node leaked into the tree")
	}
}

func TestPathTo(t *testing.T) {
	tree := testTree()

	path := PathTo(tree, "c")
	if len(path) != 3 {
		t.Fatalf("expected path of 3 ancestors, got %d", len(path))
	}
	for i, want := range []string{"a", "b", "c"} {
		if path[i].ID != want {
			t.Errorf("path[%d]: expected %q, got %q", i, want, path[i].ID)
		}
	}

	if PathTo(tree, "nope") != nil {
		t.Error("expected nil path for unknown id")
	}
}

func TestUpdateByIDDoesNotMutateInput(t *testing.T) {
	tree := testTree()

	out := UpdateByID(tree, "b", func(n Node) Node {
		n.Title = "Rewritten"
		n.CustomFields.Set("edited", "yes")
		return n
	})

	if tree[0].Children[0].Title != "Background" {
		t.Error("input tree was mutated")
	}
	got, _ := FindByID(out, "b")
	if got.Title != "Rewritten" {
		t.Errorf("expected updated title, got %q", got.Title)
	}
	if _, ok := tree[0].Children[0].CustomFields.Get("edited"); ok {
		t.Error("custom field mutation leaked into input tree")
	}
}

func TestUpdateByIDUnknownIsNoop(t *testing.T) {
	tree := testTree()
	out := UpdateByID(tree, "nope", func(n Node) Node {
		n.Title = "x"
		return n
	})
	if !reflect.DeepEqual(out, tree) {
		t.Error("updating an unknown id should return an equal tree")
	}
}

func TestDeleteByIDRemovesSubtree(t *testing.T) {
	tree := testTree()

	out := DeleteByID(tree, "a")
	if Contains(out, "a") {
		t.Error("deleted node still present")
	}
	if Contains(out, "b") || Contains(out, "c") {
		t.Error("descendants of a deleted node must be removed too")
	}
	if !Contains(out, "d") {
		t.Error("unrelated root was removed")
	}
}

func TestDeleteByIDNestedChild(t *testing.T) {
	tree := testTree()
	out := DeleteByID(tree, "b")

	if Contains(out, "b") || Contains(out, "c") {
		t.Error("expected b and its subtree gone")
	}
	if !Contains(out, "a") {
		t.Error("parent of deleted node must survive")
	}
}

func TestDeleteByIDNonexistentIsIdempotent(t *testing.T) {
	tree := testTree()
	out := DeleteByID(tree, "nonexistent")
	if !reflect.DeepEqual(out, tree) {
		t.Error("deleting a nonexistent id should return a structurally equal tree")
	}
}

func TestAddChildToRoot(t *testing.T) {
	tree := testTree()
	out := AddChild(tree, "", Node{ID: "e", Title: "Appendix"})

	if len(out) != 3 {
		t.Fatalf("expected 3 roots, got %d", len(out))
	}
	if out[2].ID != "e" {
		t.Errorf("new root should be appended last, got %q", out[2].ID)
	}
	if len(tree) != 2 {
		t.Error("input forest was mutated")
	}
}

func TestAddChildUnderParent(t *testing.T) {
	tree := testTree()
	out := AddChild(tree, "b", Node{ID: "e", Title: "Detail"})

	parent, _ := FindByID(out, "b")
	if len(parent.Children) != 2 || parent.Children[1].ID != "e" {
		t.Errorf("expected child appended under b, got %+v", parent.Children)
	}
	if len(tree[0].Children[0].Children) != 1 {
		t.Error("input tree was mutated")
	}
}

func TestAddChildMissingParentIsNoop(t *testing.T) {
	tree := testTree()
	out := AddChild(tree, "nope", Node{ID: "e"})
	if !reflect.DeepEqual(out, tree) {
		t.Error("adding under a missing parent should be a no-op")
	}
}

func TestFlattenPreOrder(t *testing.T) {
	tree := testTree()
	flat := Flatten(tree)

	want := []string{"a", "b", "c", "d"}
	if len(flat) != len(want) {
		t.Fatalf("expected %d nodes, got %d", len(want), len(flat))
	}
	for i, id := range want {
		if flat[i].ID != id {
			t.Errorf("flatten[%d]: expected %q, got %q", i, id, flat[i].ID)
		}
	}
}

func TestCount(t *testing.T) {
	if got := Count(testTree()); got != 4 {
		t.Errorf("expected 4 nodes, got %d", got)
	}
	if got := Count(nil); got != 0 {
		t.Errorf("expected 0 for empty forest, got %d", got)
	}
}

func TestFilterPreservesAncestorChain(t *testing.T) {
	tree := testTree()

	// Only C matches; A and B must be kept as its ancestor chain.
	out := Filter(tree, func(n Node) bool { return MatchQuery(n, "prior") })

	if len(out) != 1 || out[0].ID != "a" {
		t.Fatalf("expected single root a, got %+v", out)
	}
	if len(out[0].Children) != 1 || out[0].Children[0].ID != "b" {
		t.Fatal("expected ancestor b retained")
	}
	if len(out[0].Children[0].Children) != 1 || out[0].Children[0].Children[0].ID != "c" {
		t.Fatal("expected matching node c retained")
	}
	if Contains(out, "d") {
		t.Error("non-matching sibling root should be pruned")
	}
}

func TestFilterKeepsMatchingParentWithPrunedChildren(t *testing.T) {
	tree := testTree()
	out := Filter(tree, func(n Node) bool { return MatchQuery(n, "introduction") })

	if len(out) != 1 || out[0].ID != "a" {
		t.Fatalf("expected only a, got %+v", out)
	}
	if len(out[0].Children) != 0 {
		t.Error("non-matching children of a matching node should be pruned")
	}
}

func TestMatchQuery(t *testing.T) {
	n := Node{
		Title:        "Safety Procedures",
		Categories:   []string{"Compliance"},
		CustomFields: fields.FromPairs("owner", "Security Team"),
	}

	cases := []struct {
		query string
		want  bool
	}{
		{"safety", true},      // title, case-insensitive
		{"COMPLIANCE", true},  // category
		{"security", true},    // custom field value
		{"unrelated", false},
	}
	for _, tc := range cases {
		if got := MatchQuery(n, tc.query); got != tc.want {
			t.Errorf("MatchQuery(%q) = %v, want %v", tc.query, got, tc.want)
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	tree := testTree()
	cp := Clone(tree)
	cp[0].Children[0].Title = "mutated"
	cp[0].Categories[0] = "mutated"

	if tree[0].Children[0].Title != "Background" {
		t.Error("clone shares child nodes with original")
	}
	if tree[0].Categories[0] != "general" {
		t.Error("clone shares category slice with original")
	}
}
