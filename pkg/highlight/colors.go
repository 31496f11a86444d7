// ABOUTME: Deterministic color assignment for section trees
// ABOUTME: Colors depend on tree shape only, not content or selection

package highlight

import "github.com/nainya/doctree/pkg/section"

// Palette is the fixed, ordered set of highlight colors. Color identity is
// stable across re-renders as long as the tree structure does not change.
var Palette = []string{
	"#3B82F6", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#EC4899", "#14B8A6", "#F97316", "#6366F1", "#84CC16",
}

// AssignColors maps every node id to a palette color. The walk is pre-order;
// a node's color index is (depth*3 + siblingIndex) mod len(Palette).
func AssignColors(nodes []section.Node) map[string]string {
	colors := make(map[string]string)
	assign(nodes, 0, colors)
	return colors
}

func assign(nodes []section.Node, depth int, out map[string]string) {
	for i := range nodes {
		out[nodes[i].ID] = Palette[(depth*3+i)%len(Palette)]
		assign(nodes[i].Children, depth+1, out)
	}
}
