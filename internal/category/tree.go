// Package category turns the backend's flat category list into the tree the
// console renders.
package category

import "sort"

type Category struct {
	ID        string  `json:"id"`
	ParentID  *string `json:"parent_id"`
	Name      string  `json:"name"`
	SortOrder int     `json:"sort_order"`
}

type Node struct {
	Category
	Children []*Node `json:"children"`
}

// BuildTree nests a flat list by parent id. Stable: siblings sort by
// sort_order then name, so the same input always yields the same tree.
// Categories pointing at a missing parent attach to the root.
func BuildTree(flat []Category) []*Node {
	nodes := make(map[string]*Node, len(flat))
	for _, c := range flat {
		nodes[c.ID] = &Node{Category: c}
	}

	var roots []*Node
	for _, c := range flat {
		n := nodes[c.ID]
		if c.ParentID != nil {
			if parent, ok := nodes[*c.ParentID]; ok && parent != n {
				parent.Children = append(parent.Children, n)
				continue
			}
		}
		roots = append(roots, n)
	}

	var sortLevel func(ns []*Node)
	sortLevel = func(ns []*Node) {
		sort.SliceStable(ns, func(i, j int) bool {
			if ns[i].SortOrder != ns[j].SortOrder {
				return ns[i].SortOrder < ns[j].SortOrder
			}
			return ns[i].Name < ns[j].Name
		})
		for _, n := range ns {
			sortLevel(n.Children)
		}
	}
	sortLevel(roots)
	return roots
}
