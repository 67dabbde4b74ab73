package library

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// NodeKind tags a tree node as a folder or a deck.
type NodeKind string

const (
	NodeFolder NodeKind = "folder"
	NodeDeck   NodeKind = "deck"
)

// TreeNode is a folder (with children) or a deck (leaf) in the library tree.
type TreeNode struct {
	Kind     NodeKind    `json:"kind"`
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	ParentID *string     `json:"parent_id"` // Declared parent; may point at a missing folder
	Children []*TreeNode `json:"children,omitempty"`
}

// IsFolder reports whether the node can hold children
func (n *TreeNode) IsFolder() bool {
	return n.Kind == NodeFolder
}

// BuildTree turns the flat folder and deck lists into a sorted forest.
//
// Folders whose parent is unknown (or whose parent chain loops back on itself)
// are promoted to the root list, as are decks in unknown folders. Every input
// node appears exactly once; duplicate ids keep their first occurrence.
//
// Ordering at every level: folders before decks, then names compared with
// case-insensitive collation, then id.
func BuildTree(folders []Folder, decks []Deck) []*TreeNode {
	// First pass: create all folder nodes
	folderNodes := make(map[string]*TreeNode, len(folders))
	ordered := make([]Folder, 0, len(folders))
	for _, folder := range folders {
		if _, exists := folderNodes[folder.ID]; exists {
			continue
		}
		folderNodes[folder.ID] = &TreeNode{
			Kind:     NodeFolder,
			ID:       folder.ID,
			Name:     folder.Name,
			ParentID: folder.ParentFolderID,
			Children: []*TreeNode{},
		}
		ordered = append(ordered, folder)
	}

	parents := resolveFolderParents(ordered, folderNodes)

	// Second pass: nest folders under their resolved parents
	roots := make([]*TreeNode, 0)
	for _, folder := range ordered {
		node := folderNodes[folder.ID]
		if parentID, ok := parents[folder.ID]; ok {
			parent := folderNodes[parentID]
			parent.Children = append(parent.Children, node)
			continue
		}
		roots = append(roots, node)
	}

	// Third pass: attach decks
	seenDecks := make(map[string]bool, len(decks))
	for _, deck := range decks {
		if seenDecks[deck.ID] {
			continue
		}
		seenDecks[deck.ID] = true

		node := &TreeNode{
			Kind:     NodeDeck,
			ID:       deck.ID,
			Name:     deck.Name,
			ParentID: deck.FolderID,
		}
		if deck.FolderID != nil {
			if parent, exists := folderNodes[*deck.FolderID]; exists {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	sortTree(roots, newNameCollator())
	return roots
}

// resolveFolderParents maps folder id -> parent id for every folder that has a
// usable parent. Missing parents and self-parents are left out (root). When a
// parent chain forms a cycle, the smallest id in the cycle is cut loose so the
// whole loop hangs off the root.
func resolveFolderParents(folders []Folder, known map[string]*TreeNode) map[string]string {
	parents := make(map[string]string, len(folders))
	for _, folder := range folders {
		if folder.ParentFolderID == nil || *folder.ParentFolderID == folder.ID {
			continue
		}
		if _, ok := known[*folder.ParentFolderID]; ok {
			parents[folder.ID] = *folder.ParentFolderID
		}
	}

	anchored := make(map[string]bool, len(folders))
	for _, folder := range folders {
		var path []string
		onPath := make(map[string]int)

		id := folder.ID
		for !anchored[id] {
			if idx, loop := onPath[id]; loop {
				delete(parents, minID(path[idx:]))
				break
			}
			onPath[id] = len(path)
			path = append(path, id)

			next, ok := parents[id]
			if !ok {
				break
			}
			id = next
		}

		for _, visited := range path {
			anchored[visited] = true
		}
	}

	return parents
}

func minID(ids []string) string {
	lowest := ids[0]
	for _, id := range ids[1:] {
		if id < lowest {
			lowest = id
		}
	}
	return lowest
}

// newNameCollator returns a root-locale collator ignoring case.
// Collators keep internal buffers, so each build gets its own.
func newNameCollator() *collate.Collator {
	return collate.New(language.Und, collate.IgnoreCase)
}

func sortTree(nodes []*TreeNode, c *collate.Collator) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return lessNode(c, nodes[i], nodes[j])
	})
	for _, node := range nodes {
		if len(node.Children) > 0 {
			sortTree(node.Children, c)
		}
	}
}

func lessNode(c *collate.Collator, a, b *TreeNode) bool {
	if a.Kind != b.Kind {
		return a.Kind == NodeFolder
	}
	if cmp := c.CompareString(a.Name, b.Name); cmp != 0 {
		return cmp < 0
	}
	return a.ID < b.ID
}

// Walk visits nodes depth-first in display order. Returning false from fn
// skips the node's children.
func Walk(roots []*TreeNode, fn func(node *TreeNode, depth int) bool) {
	type frame struct {
		node  *TreeNode
		depth int
	}

	stack := make([]frame, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{roots[i], 0})
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !fn(top.node, top.depth) {
			continue
		}
		for i := len(top.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{top.node.Children[i], top.depth + 1})
		}
	}
}

// FindNode returns the node with id and its depth, or nil.
func FindNode(roots []*TreeNode, id string) (*TreeNode, int) {
	var found *TreeNode
	foundDepth := 0
	Walk(roots, func(node *TreeNode, depth int) bool {
		if found != nil {
			return false
		}
		if node.ID == id {
			found = node
			foundDepth = depth
			return false
		}
		return true
	})
	return found, foundDepth
}
