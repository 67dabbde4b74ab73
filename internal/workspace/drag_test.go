package workspace

import (
	"testing"
	"time"

	"cognicard/internal/config"
)

var testDragConfig = config.DragConfig{
	ActivationDistance: 8,
	HoverExpandDelay:   500 * time.Millisecond,
}

type dropCall struct {
	item   Item
	parent *string
}

func newTestDrag(t *testing.T) (*DragController, *Workspace, *manualClock, *[]dropCall) {
	t.Helper()
	ws, _, _ := newLoadedWorkspace(t)
	clock := &manualClock{}
	var drops []dropCall
	c := NewDragController(ws, testDragConfig, clock, func(item Item, parent *string) {
		drops = append(drops, dropCall{item, parent})
	})
	return c, ws, clock, &drops
}

// startDrag presses on item and moves past the activation distance
func startDrag(t *testing.T, c *DragController, item Item) {
	t.Helper()
	c.PointerDown(item, Point{X: 10, Y: 10})
	if state := c.PointerMove(Point{X: 10, Y: 20}); state != DragActive {
		t.Fatalf("state = %v, want dragging", state)
	}
}

func TestDrag_ActivationDistance(t *testing.T) {
	c, _, _, _ := newTestDrag(t)

	c.PointerDown(DeckItem("d-vocab"), Point{X: 0, Y: 0})
	if state := c.PointerMove(Point{X: 3, Y: 4}); state != DragPending {
		t.Fatalf("5px move: state = %v, want pending", state)
	}
	if _, ok := c.Preview(); ok {
		t.Error("no preview before activation")
	}
	if state := c.PointerMove(Point{X: 0, Y: 8}); state != DragActive {
		t.Fatalf("8px move: state = %v, want dragging", state)
	}
}

func TestDrag_ClickIsNotADrag(t *testing.T) {
	c, _, _, drops := newTestDrag(t)

	c.PointerDown(DeckItem("d-vocab"), Point{X: 0, Y: 0})
	c.PointerMove(Point{X: 1, Y: 1})
	if c.Drop("chem") {
		t.Error("a click must not hand off a move")
	}
	if len(*drops) != 0 || c.State() != DragIdle {
		t.Errorf("drops = %v, state = %v", *drops, c.State())
	}
}

func TestDrag_PreviewCapturesNameAndDepth(t *testing.T) {
	c, _, _, _ := newTestDrag(t)

	startDrag(t, c, FolderItem("mitosis"))
	c.PointerMove(Point{X: 40, Y: 50})

	preview, ok := c.Preview()
	if !ok {
		t.Fatal("expected a preview")
	}
	if preview.Name != "Mitosis" || preview.Depth != 2 {
		t.Errorf("preview = %+v, want Mitosis at depth 2", preview)
	}
	if preview.Pointer != (Point{X: 40, Y: 50}) {
		t.Errorf("pointer = %+v", preview.Pointer)
	}
}

func TestDrag_UnknownItemNeverStarts(t *testing.T) {
	c, _, _, _ := newTestDrag(t)

	c.PointerDown(FolderItem("ghost"), Point{})
	if state := c.PointerMove(Point{X: 50}); state != DragIdle {
		t.Errorf("state = %v, want idle", state)
	}
}

func TestHoverExpand_ShortHoverDoesNotExpand(t *testing.T) {
	c, ws, clock, _ := newTestDrag(t)
	startDrag(t, c, DeckItem("d-vocab"))

	c.Hover("chem")
	clock.Advance(499 * time.Millisecond)
	c.Hover(NoTarget)
	clock.Advance(time.Second)

	if ws.View().IsOpen("chem") {
		t.Error("folder expanded after a short hover")
	}
	if clock.pending() != 0 {
		t.Errorf("pending timers = %d, want 0", clock.pending())
	}
}

func TestHoverExpand_FullHoverExpandsOnce(t *testing.T) {
	c, ws, clock, _ := newTestDrag(t)
	changes := 0
	ws.OnChange(func() { changes++ })
	startDrag(t, c, DeckItem("d-vocab"))

	c.Hover("chem")
	clock.Advance(200 * time.Millisecond)
	c.Hover("chem") // re-reporting the same folder keeps the original timer
	clock.Advance(300 * time.Millisecond)

	if !ws.View().IsOpen("chem") {
		t.Fatal("folder should expand after the full delay")
	}
	if changes != 1 {
		t.Errorf("change notifications = %d, want 1", changes)
	}

	// Hovering the now-open folder never re-arms
	c.Hover("chem")
	if clock.pending() != 0 {
		t.Errorf("pending timers = %d, want 0 over an open folder", clock.pending())
	}
	clock.Advance(time.Second)
	if changes != 1 {
		t.Errorf("change notifications = %d, want still 1", changes)
	}
}

func TestHoverExpand_SingleOutstandingTimer(t *testing.T) {
	c, ws, clock, _ := newTestDrag(t)
	startDrag(t, c, DeckItem("d-vocab"))

	c.Hover("chem")
	clock.Advance(400 * time.Millisecond)
	c.Hover("bio")
	if clock.pending() != 1 {
		t.Fatalf("pending timers = %d, want 1", clock.pending())
	}

	clock.Advance(400 * time.Millisecond)
	if ws.View().IsOpen("chem") || ws.View().IsOpen("bio") {
		t.Fatal("nothing should be open 400ms into the second hover")
	}
	clock.Advance(100 * time.Millisecond)
	if !ws.View().IsOpen("bio") || ws.View().IsOpen("chem") {
		t.Error("only bio should open")
	}
}

func TestHoverExpand_Cancelled(t *testing.T) {
	tests := []struct {
		name  string
		leave func(c *DragController)
	}{
		{"over root", func(c *DragController) { c.Hover(RootTarget) }},
		{"over a deck", func(c *DragController) { c.Hover("d-bio") }},
		{"drag cancelled", func(c *DragController) { c.Cancel() }},
		{"dropped", func(c *DragController) { c.Drop("chem") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ws, clock, _ := newTestDrag(t)
			startDrag(t, c, DeckItem("d-vocab"))

			c.Hover("chem")
			tt.leave(c)
			clock.Advance(time.Second)

			if ws.View().IsOpen("chem") {
				t.Error("folder expanded after the hover was cancelled")
			}
		})
	}
}

func TestHoverExpand_NotOnDraggedFolder(t *testing.T) {
	c, ws, clock, _ := newTestDrag(t)
	startDrag(t, c, FolderItem("chem"))

	c.Hover("chem")
	if clock.pending() != 0 {
		t.Fatal("hovering the dragged folder must not arm the timer")
	}
	clock.Advance(time.Second)
	if ws.View().IsOpen("chem") {
		t.Error("dragged folder expanded")
	}
}

func TestHoverExpand_KeptAfterCancel(t *testing.T) {
	c, ws, clock, drops := newTestDrag(t)
	startDrag(t, c, DeckItem("d-vocab"))

	c.Hover("bio")
	clock.Advance(500 * time.Millisecond)
	c.Cancel()

	if !ws.View().IsOpen("bio") {
		t.Error("hover expansion should survive cancel")
	}
	if len(*drops) != 0 {
		t.Error("cancel must not move anything")
	}
	if c.State() != DragIdle {
		t.Errorf("state = %v, want idle", c.State())
	}
}

func TestDrop(t *testing.T) {
	tests := []struct {
		name       string
		item       Item
		target     string
		wantMove   bool
		wantParent *string
	}{
		{"into folder", DeckItem("d-vocab"), "chem", true, strPtr("chem")},
		{"onto root", DeckItem("d-bio"), RootTarget, true, nil},
		{"onto itself", FolderItem("chem"), "chem", false, nil},
		{"outside", DeckItem("d-vocab"), NoTarget, false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, _, drops := newTestDrag(t)
			startDrag(t, c, tt.item)

			if got := c.Drop(tt.target); got != tt.wantMove {
				t.Fatalf("Drop = %v, want %v", got, tt.wantMove)
			}
			if c.State() != DragIdle {
				t.Errorf("state = %v, want idle", c.State())
			}
			if !tt.wantMove {
				if len(*drops) != 0 {
					t.Errorf("unexpected drop: %+v", *drops)
				}
				return
			}
			if len(*drops) != 1 {
				t.Fatalf("drops = %d, want 1", len(*drops))
			}
			got := (*drops)[0]
			if got.item != tt.item || !sameParent(got.parent, tt.wantParent) {
				t.Errorf("drop = %+v, want %v into %v", got, tt.item, tt.wantParent)
			}
		})
	}
}

func TestDrop_SessionTornDownBeforeHandler(t *testing.T) {
	ws, _, _ := newLoadedWorkspace(t)
	var c *DragController
	var stateInHandler DragState = -1
	c = NewDragController(ws, testDragConfig, &manualClock{}, func(Item, *string) {
		stateInHandler = c.State()
	})

	startDrag(t, c, DeckItem("d-vocab"))
	c.Drop("chem")

	if stateInHandler != DragIdle {
		t.Errorf("state seen by handler = %v, want idle", stateInHandler)
	}
}
