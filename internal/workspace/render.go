package workspace

import (
	"fmt"
	"io"
	"strings"

	"cognicard/internal/domain/models/library"
)

// Action is something the user can do from a row's context menu
type Action string

const (
	ActionToggle Action = "toggle"
	ActionRename Action = "rename"
	ActionMove   Action = "move"
	ActionDelete Action = "delete"
)

var (
	folderActions = []Action{ActionToggle, ActionRename, ActionMove, ActionDelete}
	deckActions   = []Action{ActionRename, ActionMove, ActionDelete}
)

// Row is one visible line of the tree
type Row struct {
	Node       *library.TreeNode
	Depth      int
	Expanded   bool // Folders only
	DropTarget bool // Hovered while dragging
	Dragging   bool // This node is the one being dragged
	Editing    bool // Inline rename is open
	Actions    []Action
}

// Rows flattens tree depth-first, descending only into open folders.
// drag may be nil when no controller is attached.
func Rows(tree []*library.TreeNode, view *ViewState, drag *DragController) []Row {
	var (
		dragged    Item
		isDragging bool
	)
	if drag != nil {
		dragged, isDragging = drag.Dragged()
	}
	editing := view.EditingID()

	var rows []Row
	library.Walk(tree, func(node *library.TreeNode, depth int) bool {
		row := Row{
			Node:    node,
			Depth:   depth,
			Editing: editing != "" && node.ID == editing,
		}
		if node.IsFolder() {
			row.Expanded = view.IsOpen(node.ID)
			row.Actions = folderActions
		} else {
			row.Actions = deckActions
		}
		if isDragging {
			row.Dragging = node.ID == dragged.ID
			row.DropTarget = drag.isDropTarget(node)
		}
		rows = append(rows, row)
		return row.Expanded
	})
	return rows
}

// PrintRows writes rows as an indented outline:
//
//	[-] Biology/
//	    [+] Genetics/
//	     *  Cells (12 cards)
func PrintRows(w io.Writer, rows []Row, cardCounts map[string]int) error {
	for _, row := range rows {
		var b strings.Builder
		b.WriteString(strings.Repeat("    ", row.Depth))

		if row.Node.IsFolder() {
			if row.Expanded {
				b.WriteString("[-] ")
			} else {
				b.WriteString("[+] ")
			}
			b.WriteString(row.Node.Name)
			b.WriteString("/")
		} else {
			b.WriteString(" *  ")
			b.WriteString(row.Node.Name)
			if n, ok := cardCounts[row.Node.ID]; ok {
				fmt.Fprintf(&b, " (%d %s)", n, plural(n, "card", "cards"))
			}
		}

		switch {
		case row.DropTarget:
			b.WriteString("  <- drop here")
		case row.Dragging:
			b.WriteString("  (moving)")
		case row.Editing:
			b.WriteString("  (renaming)")
		}
		b.WriteString("\n")

		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
