package hud

import (
	"image"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
)

// CompositeKey captures every input the HUD composite depends on.
// Two frames with equal keys and no running fade produce identical composites.
type CompositeKey struct {
	Viewport    int
	Bounds      common.Bounds
	Resolution  image.Point
	Mode        camera.Mode
	Active      bool
	MultiView   bool
	HoverButton int
}

// CompositeCache remembers the key of the last composite that was uploaded.
type CompositeCache struct {
	last  CompositeKey
	valid bool
}

// NeedsComposite reports whether key differs from the last committed key.
func (c *CompositeCache) NeedsComposite(key CompositeKey) bool {
	return !c.valid || c.last != key
}

// Commit records key as the current composite.
func (c *CompositeCache) Commit(key CompositeKey) {
	c.last = key
	c.valid = true
}

// Invalidate forces the next NeedsComposite call to return true.
func (c *CompositeCache) Invalidate() {
	c.valid = false
}

// ClickQueue holds at most one mouse-down position until the next HUD draw resolves it
// against the geometry of that frame.
type ClickQueue struct {
	pos     image.Point
	pending bool
}

// RecordClick stores p, replacing any unresolved click.
func (q *ClickQueue) RecordClick(p image.Point) {
	q.pos = p
	q.pending = true
}

// Pending reports whether a click is waiting to be resolved.
func (q *ClickQueue) Pending() bool {
	return q.pending
}

// ResolvePendingClick consumes the pending click and hit-tests it.
//
// Parameters:
//   - hit: maps a window point to the mode of the button under it
//
// Returns:
//   - camera.Mode: the clicked mode
//   - bool: false if there was no pending click or it missed every button
func (q *ClickQueue) ResolvePendingClick(hit func(image.Point) (camera.Mode, bool)) (camera.Mode, bool) {
	if !q.pending {
		return 0, false
	}
	q.pending = false
	return hit(q.pos)
}

// Clear drops any pending click.
func (q *ClickQueue) Clear() {
	q.pending = false
}
