package graph

import (
	"sort"

	"vidvault/internal/models"
)

// TreeNode is a category with its resolved children.
type TreeNode struct {
	Category models.Category `json:"category"`
	Children []*TreeNode     `json:"children"`
}

// BuildCategoryTree resolves the self-referential category forest in two
// passes: first an arena of nodes indexed by id, then parent-link resolution.
// A node whose parent id is missing from the arena, or whose parent chain
// loops back to itself, is promoted to a root rather than dropped or looped
// over.
func BuildCategoryTree(categories []models.Category) []*TreeNode {
	arena := make(map[uint]*TreeNode, len(categories))
	for _, c := range categories {
		arena[c.ID] = &TreeNode{Category: c, Children: []*TreeNode{}}
	}

	var roots []*TreeNode
	for _, c := range categories {
		node := arena[c.ID]
		if c.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := arena[*c.ParentID]
		if !ok || createsCycle(arena, c.ID, *c.ParentID) {
			// Dangling or cyclic parent reference: promote to root.
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	sortTree(roots)
	return roots
}

// createsCycle reports whether attaching child under parent would make the
// parent chain loop. It follows ParentID links from parent upward, bounded by
// the arena size.
func createsCycle(arena map[uint]*TreeNode, childID, parentID uint) bool {
	cur := parentID
	for steps := 0; steps <= len(arena); steps++ {
		if cur == childID {
			return true
		}
		node, ok := arena[cur]
		if !ok || node.Category.ParentID == nil {
			return false
		}
		cur = *node.Category.ParentID
	}
	// Walk exceeded the arena: an existing cycle upstream.
	return true
}

func sortTree(nodes []*TreeNode) {
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].Category.Name < nodes[j].Category.Name
	})
	for _, n := range nodes {
		sortTree(n.Children)
	}
}
