// Package graph renders the category-derived knowledge graph.
package graph

import (
	"sort"

	"vidvault/internal/models"
)

// EdgeTypeSameCategory is the only edge type the builder produces.
const EdgeTypeSameCategory = "same_category"

// Node is one video in the rendered graph.
type Node struct {
	ID          uint   `json:"id"`
	Label       string `json:"label"`
	Category    string `json:"category"`
	WatchStatus string `json:"watch_status"`
}

// Edge links two videos that share a category.
type Edge struct {
	From uint   `json:"from"`
	To   uint   `json:"to"`
	Type string `json:"type"`
}

// Stats summarizes the rendered graph.
type Stats struct {
	Nodes      int `json:"nodes"`
	Edges      int `json:"edges"`
	Categories int `json:"categories"`
}

// Graph is the rendered nodes/edges structure.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
	Stats Stats  `json:"stats"`
}

// Build renders one node per video and, within each category group, a linear
// chain of same_category edges (a group of N videos yields N-1 edges).
// Uncategorized videos form their own implicit group. The result is a forest
// of path-graphs per category, a deliberate simplification over pairwise
// similarity.
func Build(videos []models.Video) Graph {
	nodes := make([]Node, 0, len(videos))
	edges := make([]Edge, 0)

	// Group video ids by category; key 0 is the implicit uncategorized group.
	groups := make(map[uint][]uint)

	for _, v := range videos {
		categoryName := "Uncategorized"
		var groupKey uint
		if v.CategoryID != nil {
			groupKey = *v.CategoryID
			if v.Category != nil {
				categoryName = v.Category.Name
			}
		}

		nodes = append(nodes, Node{
			ID:          v.ID,
			Label:       v.Title,
			Category:    categoryName,
			WatchStatus: v.WatchStatus,
		})
		groups[groupKey] = append(groups[groupKey], v.ID)
	}

	// Chain consecutive videos within each group. Groups are walked in key
	// order so output is deterministic.
	keys := make([]uint, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, k := range keys {
		ids := groups[k]
		for i := 1; i < len(ids); i++ {
			edges = append(edges, Edge{
				From: ids[i-1],
				To:   ids[i],
				Type: EdgeTypeSameCategory,
			})
		}
	}

	return Graph{
		Nodes: nodes,
		Edges: edges,
		Stats: Stats{
			Nodes:      len(nodes),
			Edges:      len(edges),
			Categories: len(groups),
		},
	}
}
