package workspace

import (
	"math"
	"sync"
	"time"

	"cognicard/internal/config"
	"cognicard/internal/domain/models/library"
)

// DragState is the phase of a pointer gesture
type DragState int

const (
	// DragIdle means no pointer is down
	DragIdle DragState = iota
	// DragPending means the pointer is down but has not travelled far enough
	DragPending
	// DragActive means an item is being dragged
	DragActive
)

func (s DragState) String() string {
	switch s {
	case DragIdle:
		return "idle"
	case DragPending:
		return "pending"
	case DragActive:
		return "dragging"
	default:
		return "unknown"
	}
}

// Drop targets other than folder ids
const (
	// RootTarget is the top-level drop area
	RootTarget = "@root"
	// NoTarget means the pointer is outside every drop area
	NoTarget = ""
)

// Point is a pointer position in pixels
type Point struct {
	X, Y float64
}

func (p Point) distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Preview is the floating copy of the dragged node
type Preview struct {
	Item    Item
	Name    string
	Depth   int
	Pointer Point
}

// DropHandler receives a resolved move. newParentID nil means the root.
// It is called after the drag session is torn down.
type DropHandler func(item Item, newParentID *string)

// DragController tracks one pointer gesture at a time: the activation threshold,
// the hover-to-expand timer and drop resolution. Hover expansions are kept on cancel.
type DragController struct {
	ws     *Workspace
	clock  Clock
	onDrop DropHandler

	activationDistance float64
	hoverDelay         time.Duration

	mu       sync.Mutex
	state    DragState
	item     Item
	origin   Point
	preview  Preview
	hovered  string
	timer    Timer
	timerFor string
	timerGen uint64
}

// NewDragController wires a controller to ws. A nil clock uses real timers.
func NewDragController(ws *Workspace, cfg config.DragConfig, clock Clock, onDrop DropHandler) *DragController {
	if clock == nil {
		clock = RealClock()
	}
	return &DragController{
		ws:                 ws,
		clock:              clock,
		onDrop:             onDrop,
		activationDistance: cfg.ActivationDistance,
		hoverDelay:         cfg.HoverExpandDelay,
	}
}

// State returns the current gesture phase
func (c *DragController) State() DragState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Hovered returns the current hover target while dragging
func (c *DragController) Hovered() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != DragActive {
		return NoTarget
	}
	return c.hovered
}

// Dragged returns the item being dragged, if any
func (c *DragController) Dragged() (Item, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.item, c.state == DragActive
}

// Preview returns the floating preview while dragging
func (c *DragController) Preview() (Preview, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.preview, c.state == DragActive
}

// PointerDown records a press on item. Ignored while another gesture is running.
func (c *DragController) PointerDown(item Item, at Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != DragIdle {
		return
	}
	c.state = DragPending
	c.item = item
	c.origin = at
}

// PointerMove starts the drag once the pointer has moved the activation
// distance from where it was pressed, and tracks the preview position after that
func (c *DragController) PointerMove(at Point) DragState {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case DragPending:
		if at.distance(c.origin) < c.activationDistance {
			return c.state
		}
		info, ok := c.ws.Locate(c.item.ID)
		if !ok || info.Item.Kind != c.item.Kind {
			c.resetLocked()
			return c.state
		}
		c.state = DragActive
		c.preview = Preview{Item: c.item, Name: info.Name, Depth: info.Depth, Pointer: at}
		c.hovered = NoTarget
	case DragActive:
		c.preview.Pointer = at
	}
	return c.state
}

// Hover reports what the pointer is over: a folder id, RootTarget or NoTarget.
// Over a closed folder other than the dragged one, the expand timer is armed
// unless it is already armed for that folder. Anything else cancels it.
func (c *DragController) Hover(target string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != DragActive {
		return
	}
	c.hovered = target

	expandable := target != NoTarget &&
		target != RootTarget &&
		target != c.item.ID &&
		c.ws.IsFolder(target) &&
		!c.ws.View().IsOpen(target)
	if !expandable {
		c.stopTimerLocked()
		return
	}
	if c.timer != nil && c.timerFor == target {
		return
	}

	c.stopTimerLocked()
	c.timerGen++
	gen := c.timerGen
	c.timerFor = target
	c.timer = c.clock.AfterFunc(c.hoverDelay, func() { c.expand(gen, target) })
}

// expand runs when the hover timer fires. A timer that was stopped or replaced
// after it started firing is ignored through the generation check.
func (c *DragController) expand(gen uint64, folderID string) {
	c.mu.Lock()
	if c.timerGen != gen || c.timer == nil || c.state != DragActive || c.hovered != folderID {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.timerFor = ""
	c.mu.Unlock()

	c.ws.OpenFolder(folderID)
}

// Drop ends the gesture over target. The session is torn down before the drop
// handler runs. Returns true if a move was handed off.
func (c *DragController) Drop(target string) bool {
	c.mu.Lock()
	active := c.state == DragActive
	item := c.item
	c.resetLocked()
	c.mu.Unlock()

	if !active || target == NoTarget || target == item.ID {
		return false
	}

	var newParentID *string
	if target != RootTarget {
		id := target
		newParentID = &id
	}
	if c.onDrop != nil {
		c.onDrop(item, newParentID)
	}
	return true
}

// Cancel ends the gesture without moving anything
func (c *DragController) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

func (c *DragController) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = nil
	c.timerFor = ""
	c.timerGen++
}

func (c *DragController) resetLocked() {
	c.stopTimerLocked()
	c.state = DragIdle
	c.item = Item{}
	c.preview = Preview{}
	c.hovered = NoTarget
}

// isDropTarget reports whether node should be styled as the hovered drop target
func (c *DragController) isDropTarget(node *library.TreeNode) bool {
	return node.IsFolder() && node.ID == c.Hovered()
}
