package library

import (
	"fmt"
	"math/rand"
	"reflect"
	"testing"
)

func sp(s string) *string { return &s }

// flatten renders a tree as "depth:kind:name" lines in display order
func flatten(roots []*TreeNode) []string {
	var out []string
	Walk(roots, func(node *TreeNode, depth int) bool {
		out = append(out, fmt.Sprintf("%d:%s:%s", depth, node.Kind, node.Name))
		return true
	})
	return out
}

func TestBuildTree_NestingAndOrdering(t *testing.T) {
	folders := []Folder{
		{ID: "f3", Name: "zoology"},
		{ID: "f1", Name: "Biology"},
		{ID: "f2", Name: "cells", ParentFolderID: sp("f1")},
		{ID: "f4", Name: "Anatomy", ParentFolderID: sp("f1")},
	}
	decks := []Deck{
		{ID: "d1", Name: "apple", FolderID: nil},
		{ID: "d2", Name: "Mitosis", FolderID: sp("f2")},
		{ID: "d3", Name: "Aardvark", FolderID: sp("f1")},
	}

	got := flatten(BuildTree(folders, decks))
	want := []string{
		"0:folder:Biology",
		"1:folder:Anatomy",
		"1:folder:cells",
		"2:deck:Mitosis",
		"1:deck:Aardvark",
		"0:folder:zoology",
		"0:deck:apple",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BuildTree() =\n%v\nwant\n%v", got, want)
	}
}

func TestBuildTree_Deterministic(t *testing.T) {
	folders := []Folder{
		{ID: "a", Name: "Same"},
		{ID: "b", Name: "same"},
		{ID: "c", Name: "Child", ParentFolderID: sp("a")},
		{ID: "d", Name: "Lost", ParentFolderID: sp("gone")},
	}
	decks := []Deck{
		{ID: "x", Name: "deck"},
		{ID: "y", Name: "Deck"},
		{ID: "z", Name: "inner", FolderID: sp("c")},
	}

	want := BuildTree(folders, decks)
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		f := append([]Folder(nil), folders...)
		d := append([]Deck(nil), decks...)
		rng.Shuffle(len(f), func(i, j int) { f[i], f[j] = f[j], f[i] })
		rng.Shuffle(len(d), func(i, j int) { d[i], d[j] = d[j], d[i] })

		if got := BuildTree(f, d); !reflect.DeepEqual(got, want) {
			t.Fatalf("shuffle %d produced a different tree:\n%v\nwant\n%v", i, flatten(got), flatten(want))
		}
	}
}

func TestBuildTree_OrphansPromoted(t *testing.T) {
	folders := []Folder{
		{ID: "f1", Name: "Kept"},
		{ID: "f2", Name: "Orphan", ParentFolderID: sp("deleted")},
	}
	decks := []Deck{
		{ID: "d1", Name: "Stray", FolderID: sp("deleted")},
		{ID: "d2", Name: "Home", FolderID: sp("f1")},
	}

	roots := BuildTree(folders, decks)

	var rootIDs []string
	for _, n := range roots {
		rootIDs = append(rootIDs, n.ID)
	}
	if want := []string{"f1", "f2", "d1"}; !reflect.DeepEqual(rootIDs, want) {
		t.Errorf("root ids = %v, want %v", rootIDs, want)
	}

	orphan, _ := FindNode(roots, "f2")
	if orphan == nil || orphan.ParentID == nil || *orphan.ParentID != "deleted" {
		t.Errorf("orphan should keep its declared parent id, got %+v", orphan)
	}
}

func TestBuildTree_EveryNodeOnce(t *testing.T) {
	tests := []struct {
		name    string
		folders []Folder
		decks   []Deck
		want    int
	}{
		{
			name: "two-cycle",
			folders: []Folder{
				{ID: "a", Name: "A", ParentFolderID: sp("b")},
				{ID: "b", Name: "B", ParentFolderID: sp("a")},
			},
			want: 2,
		},
		{
			name: "three-cycle with a tail",
			folders: []Folder{
				{ID: "a", Name: "A", ParentFolderID: sp("c")},
				{ID: "b", Name: "B", ParentFolderID: sp("a")},
				{ID: "c", Name: "C", ParentFolderID: sp("b")},
				{ID: "t", Name: "Tail", ParentFolderID: sp("b")},
			},
			decks: []Deck{{ID: "d", Name: "D", FolderID: sp("c")}},
			want:  5,
		},
		{
			name:    "self parent",
			folders: []Folder{{ID: "s", Name: "Self", ParentFolderID: sp("s")}},
			want:    1,
		},
		{
			name: "duplicate ids keep first",
			folders: []Folder{
				{ID: "f", Name: "First"},
				{ID: "f", Name: "Second"},
			},
			decks: []Deck{{ID: "d", Name: "D"}, {ID: "d", Name: "D again"}},
			want:  2,
		},
		{
			name: "empty",
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roots := BuildTree(tt.folders, tt.decks)

			seen := map[string]int{}
			Walk(roots, func(node *TreeNode, depth int) bool {
				seen[string(node.Kind)+":"+node.ID]++
				return true
			})

			total := 0
			for key, n := range seen {
				if n != 1 {
					t.Errorf("%s appears %d times", key, n)
				}
				total += n
			}
			if total != tt.want {
				t.Errorf("tree has %d nodes, want %d", total, tt.want)
			}
		})
	}
}

func TestBuildTree_CyclePromotesLowestID(t *testing.T) {
	folders := []Folder{
		{ID: "b", Name: "B", ParentFolderID: sp("a")},
		{ID: "a", Name: "A", ParentFolderID: sp("b")},
	}

	roots := BuildTree(folders, nil)
	if len(roots) != 1 || roots[0].ID != "a" {
		t.Fatalf("expected a single root a, got %v", flatten(roots))
	}
	if len(roots[0].Children) != 1 || roots[0].Children[0].ID != "b" {
		t.Errorf("expected b under a, got %v", flatten(roots))
	}
}

func TestBuildTree_FoldersHaveNonNilChildren(t *testing.T) {
	roots := BuildTree([]Folder{{ID: "f", Name: "Empty"}}, []Deck{{ID: "d", Name: "Deck"}})
	if roots[0].Children == nil {
		t.Error("empty folder should have an empty, non-nil children list")
	}
	if roots[1].Children != nil {
		t.Error("deck should have no children list")
	}
}

func TestWalk_SkipChildren(t *testing.T) {
	roots := BuildTree(
		[]Folder{{ID: "f", Name: "Closed"}, {ID: "g", Name: "Inner", ParentFolderID: sp("f")}},
		[]Deck{{ID: "d", Name: "Top"}},
	)

	var visited []string
	Walk(roots, func(node *TreeNode, depth int) bool {
		visited = append(visited, node.ID)
		return node.ID != "f"
	})
	if want := []string{"f", "d"}; !reflect.DeepEqual(visited, want) {
		t.Errorf("visited = %v, want %v", visited, want)
	}
}

func TestFindNode(t *testing.T) {
	roots := BuildTree(
		[]Folder{{ID: "f", Name: "F"}, {ID: "g", Name: "G", ParentFolderID: sp("f")}},
		[]Deck{{ID: "d", Name: "D", FolderID: sp("g")}},
	)

	node, depth := FindNode(roots, "d")
	if node == nil || depth != 2 {
		t.Errorf("FindNode(d) = %v, %d; want deck at depth 2", node, depth)
	}
	if node, _ := FindNode(roots, "missing"); node != nil {
		t.Errorf("FindNode(missing) = %v, want nil", node)
	}
}
