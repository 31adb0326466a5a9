package api

import (
	"net/http"

	"github.com/previewtools/tableview/pkg/viewport"
)

// ViewerHandler handles viewer state and navigation requests.
type ViewerHandler struct {
	viewer *viewport.Controller
	hub    *Hub
}

// NewViewerHandler creates a new ViewerHandler.
// hub may be nil; state changes are then simply not broadcast.
func NewViewerHandler(viewer *viewport.Controller, hub *Hub) *ViewerHandler {
	return &ViewerHandler{
		viewer: viewer,
		hub:    hub,
	}
}

// RegisterRoutes registers the viewer API routes on the router.
func (h *ViewerHandler) RegisterRoutes(router *Router) {
	router.GET("/api/viewer", h.GetState)
	router.POST("/api/viewer/next", h.NextPage)
	router.POST("/api/viewer/previous", h.PreviousPage)
	router.POST("/api/viewer/zoom", h.Zoom)
	router.POST("/api/viewer/zoom/reset", h.ResetZoom)
}

// ZoomRequest is the expected JSON body for POST /api/viewer/zoom.
// Either direction ("in"/"out") or an explicit scale is accepted;
// an explicit scale wins when both are present.
type ZoomRequest struct {
	Direction string  `json:"direction,omitempty"`
	Scale     float64 `json:"scale,omitempty"`
}

// GetState handles GET /api/viewer.
func (h *ViewerHandler) GetState(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.viewer.Snapshot())
}

// NextPage handles POST /api/viewer/next.
// Advancing past the last page is a no-op, not an error.
func (h *ViewerHandler) NextPage(w http.ResponseWriter, r *http.Request) {
	h.respond(w, h.viewer.Next())
}

// PreviousPage handles POST /api/viewer/previous.
// Going back from the first page is a no-op, not an error.
func (h *ViewerHandler) PreviousPage(w http.ResponseWriter, r *http.Request) {
	h.respond(w, h.viewer.Previous())
}

// Zoom handles POST /api/viewer/zoom.
// The resulting scale is clamped to the supported range.
func (h *ViewerHandler) Zoom(w http.ResponseWriter, r *http.Request) {
	var req ZoomRequest
	if err := ReadJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_json",
			"Failed to parse request body: "+err.Error())
		return
	}

	var snap viewport.Snapshot
	switch {
	case req.Scale > 0:
		snap = h.viewer.SetZoom(req.Scale)
	case req.Direction == "in":
		snap = h.viewer.ZoomIn()
	case req.Direction == "out":
		snap = h.viewer.ZoomOut()
	default:
		WriteError(w, http.StatusBadRequest, "invalid_zoom",
			"Zoom requires direction 'in'/'out' or a positive scale")
		return
	}

	h.respond(w, snap)
}

// ResetZoom handles POST /api/viewer/zoom/reset.
func (h *ViewerHandler) ResetZoom(w http.ResponseWriter, r *http.Request) {
	h.respond(w, h.viewer.ResetZoom())
}

func (h *ViewerHandler) respond(w http.ResponseWriter, snap viewport.Snapshot) {
	if h.hub != nil {
		h.hub.BroadcastViewerState(snap)
	}
	WriteJSON(w, http.StatusOK, snap)
}
