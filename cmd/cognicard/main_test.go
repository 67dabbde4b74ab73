package main

import (
	"testing"
)

func TestSplitLast(t *testing.T) {
	tests := []struct {
		path       string
		wantParent string
		wantName   string
	}{
		{"Biology", "", "Biology"},
		{"Biology/Genetics", "Biology", "Genetics"},
		{"Biology/Genetics/", "Biology", "Genetics"},
		{"/Spanish Basics", "", "Spanish Basics"},
		{" A/B / C ", "A/B ", "C"},
		{"", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			parent, name := splitLast(tt.path)
			if parent != tt.wantParent || name != tt.wantName {
				t.Errorf("splitLast(%q) = (%q, %q), want (%q, %q)", tt.path, parent, name, tt.wantParent, tt.wantName)
			}
		})
	}
}

func TestImportOptions(t *testing.T) {
	tests := []struct {
		name       string
		front      int
		back       int
		header     string
		wantFront  *int
		wantBack   *int
		wantHeader *bool
		wantErr    bool
	}{
		{name: "all detected", front: -1, back: -1, header: "auto"},
		{name: "columns set", front: 1, back: 0, header: "", wantFront: intPtr(1), wantBack: intPtr(0)},
		{name: "header yes", front: -1, back: -1, header: "yes", wantHeader: boolPtr(true)},
		{name: "header no", front: -1, back: -1, header: "NO", wantHeader: boolPtr(false)},
		{name: "bad header", front: -1, back: -1, header: "maybe", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			importFront, importBack, importHeader = tt.front, tt.back, tt.header
			opts, err := importOptions()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !equalInt(opts.FrontColumn, tt.wantFront) || !equalInt(opts.BackColumn, tt.wantBack) {
				t.Errorf("columns = (%v, %v), want (%v, %v)", opts.FrontColumn, opts.BackColumn, tt.wantFront, tt.wantBack)
			}
			if (opts.HasHeader == nil) != (tt.wantHeader == nil) ||
				(opts.HasHeader != nil && *opts.HasHeader != *tt.wantHeader) {
				t.Errorf("HasHeader = %v, want %v", opts.HasHeader, tt.wantHeader)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate short = %q", got)
	}
	if got := truncate("line one\nline   two", 40); got != "line one line two" {
		t.Errorf("whitespace not collapsed: %q", got)
	}
	if got := truncate("abcdefghij", 5); got != "abcd…" {
		t.Errorf("truncate long = %q", got)
	}
}

func TestDisplayFolder(t *testing.T) {
	if got := displayFolder("/"); got != "the top level" {
		t.Errorf("displayFolder(/) = %q", got)
	}
	if got := displayFolder("Biology/Cells/"); got != "Biology/Cells" {
		t.Errorf("displayFolder = %q", got)
	}
}

func intPtr(n int) *int    { return &n }
func boolPtr(b bool) *bool { return &b }

func equalInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
