package tidy

import "sort"

// maxLargeFilesPerCategory bounds how many individual files are broken out
// under a category node.
const maxLargeFilesPerCategory = 5

// TreemapNode is a hierarchical byte-size visualization unit. Siblings are
// ordered by size descending.
type TreemapNode struct {
	Label    string
	Bytes    int64
	Category FileCategory // empty on the root and on file/Other leaves
	Children []*TreemapNode
}

// BuildTreemap groups files by category into a two-level treemap. Only
// categories with positive aggregate bytes are emitted. Within a category,
// up to five files at or above largeFileThreshold become individual child
// nodes, with any remaining bytes folded into a synthetic "Other" child.
func BuildTreemap(files []FileRecord, largeFileThreshold int64) *TreemapNode {
	byCategory := make(map[FileCategory][]*FileRecord)
	totals := make(map[FileCategory]int64)
	for i := range files {
		f := &files[i]
		byCategory[f.Category] = append(byCategory[f.Category], f)
		totals[f.Category] += f.Size
	}

	root := &TreemapNode{Label: "Storage"}
	for category, catFiles := range byCategory {
		total := totals[category]
		if total <= 0 {
			continue
		}
		node := &TreemapNode{
			Label:    string(category),
			Bytes:    total,
			Category: category,
		}

		var large []*FileRecord
		for _, f := range catFiles {
			if f.Size >= largeFileThreshold {
				large = append(large, f)
			}
		}
		sort.Slice(large, func(i, j int) bool { return large[i].Size > large[j].Size })
		if len(large) > maxLargeFilesPerCategory {
			large = large[:maxLargeFilesPerCategory]
		}

		var attributed int64
		for _, f := range large {
			node.Children = append(node.Children, &TreemapNode{
				Label: f.Name,
				Bytes: f.Size,
			})
			attributed += f.Size
		}
		if len(node.Children) > 0 && total > attributed {
			node.Children = append(node.Children, &TreemapNode{
				Label: "Other",
				Bytes: total - attributed,
			})
		}
		sort.Slice(node.Children, func(i, j int) bool { return node.Children[i].Bytes > node.Children[j].Bytes })

		root.Children = append(root.Children, node)
		root.Bytes += total
	}

	sort.Slice(root.Children, func(i, j int) bool { return root.Children[i].Bytes > root.Children[j].Bytes })
	return root
}
