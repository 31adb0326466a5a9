// Package viewport manages the preview's navigation state: current page,
// total page count, zoom scale, and the document lifecycle. All mutations
// clamp to valid ranges; boundary navigation is a no-op, never an error.
package viewport

import "sync"

// Zoom limits and stepping. The scale is display-only; the transform that
// applies it lives with the renderer.
const (
	MinZoom     = 0.5
	MaxZoom     = 2.5
	ZoomStep    = 0.25
	DefaultZoom = 1.0
)

// State is the document lifecycle phase.
type State string

const (
	// StateEmpty means no document has been produced yet.
	StateEmpty State = "empty"

	// StateGenerating means a document build is in flight. Entered on mount
	// and on every language change.
	StateGenerating State = "generating"

	// StateReady means the current document is loaded and navigable.
	StateReady State = "ready"
)

// Snapshot is an immutable copy of the viewer state.
type Snapshot struct {
	State      State   `json:"state"`
	Page       int     `json:"page"`
	TotalPages int     `json:"totalPages"`
	Zoom       float64 `json:"zoom"`
	Generation uint64  `json:"generation"`
}

// Controller owns the viewer state. It is safe for concurrent use.
//
// Document replacement is transactional: BeginGenerate hands out a
// generation token, and only CompleteLoad/FailLoad calls carrying the
// current token are applied. A load completion from a document that has
// since been replaced is silently dropped instead of clobbering the
// newer document's state.
type Controller struct {
	mu         sync.Mutex
	state      State
	page       int
	total      int
	zoom       float64
	generation uint64
}

// NewController returns a controller in the Empty state at page 1, zoom 1.0.
func NewController() *Controller {
	return &Controller{
		state: StateEmpty,
		page:  1,
		zoom:  DefaultZoom,
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		State:      c.state,
		Page:       c.page,
		TotalPages: c.total,
		Zoom:       c.zoom,
		Generation: c.generation,
	}
}

// BeginGenerate enters the Generating state for a new document build and
// returns the generation token the eventual CompleteLoad must present.
// Page resets to 1 and the total is cleared pending the reload.
func (c *Controller) BeginGenerate() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.state = StateGenerating
	c.page = 1
	c.total = 0
	return c.generation
}

// CompleteLoad installs the page count of a freshly loaded document and
// enters the Ready state. It reports whether the transition was applied;
// a stale generation token is ignored.
func (c *Controller) CompleteLoad(gen uint64, totalPages int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return false
	}
	if totalPages < 0 {
		totalPages = 0
	}
	c.total = totalPages
	c.page = 1
	c.state = StateReady
	return true
}

// FailLoad records a failed build or load. The viewer returns to Empty;
// there is no dedicated error state beyond the surfaced error message.
// Stale generation tokens are ignored.
func (c *Controller) FailLoad(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return false
	}
	c.state = StateEmpty
	c.page = 1
	c.total = 0
	return true
}

// Reset empties the viewer after the current document is released. The
// generation advances so any in-flight load completion is dropped.
func (c *Controller) Reset() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.state = StateEmpty
	c.page = 1
	c.total = 0
	c.zoom = DefaultZoom
	return c.snapshotLocked()
}

// SetTotalPages updates the total and clamps the current page down if it
// now exceeds the total (to 1 when the total is zero).
func (c *Controller) SetTotalPages(total int) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if total < 0 {
		total = 0
	}
	c.total = total
	c.page = clampPage(c.page, total)
	return c.snapshotLocked()
}

// GoTo jumps to the given page, clamped to [1, totalPages].
func (c *Controller) GoTo(page int) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.page = clampPage(page, c.total)
	return c.snapshotLocked()
}

// Previous moves one page back, floored at 1.
func (c *Controller) Previous() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.page > 1 {
		c.page--
	}
	return c.snapshotLocked()
}

// Next moves one page forward, capped at the total page count.
func (c *Controller) Next() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.page < c.total {
		c.page++
	}
	return c.snapshotLocked()
}

// ZoomIn increases the zoom scale by one step, capped at MaxZoom.
func (c *Controller) ZoomIn() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.zoom = clampZoom(c.zoom + ZoomStep)
	return c.snapshotLocked()
}

// ZoomOut decreases the zoom scale by one step, floored at MinZoom.
func (c *Controller) ZoomOut() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.zoom = clampZoom(c.zoom - ZoomStep)
	return c.snapshotLocked()
}

// SetZoom sets the zoom scale, clamped to [MinZoom, MaxZoom].
func (c *Controller) SetZoom(scale float64) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.zoom = clampZoom(scale)
	return c.snapshotLocked()
}

// ResetZoom restores the default zoom scale.
func (c *Controller) ResetZoom() Snapshot {
	return c.SetZoom(DefaultZoom)
}

func clampPage(page, total int) int {
	if total <= 0 {
		return 1
	}
	if page < 1 {
		return 1
	}
	if page > total {
		return total
	}
	return page
}

func clampZoom(scale float64) float64 {
	if scale < MinZoom {
		return MinZoom
	}
	if scale > MaxZoom {
		return MaxZoom
	}
	return scale
}
