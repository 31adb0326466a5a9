package api

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/previewtools/tableview/pkg/errors"
	"github.com/previewtools/tableview/pkg/locale"
	"github.com/previewtools/tableview/pkg/preview"
	"github.com/previewtools/tableview/pkg/producer"
	"github.com/previewtools/tableview/pkg/viewport"
)

// DocumentBuilder generates table documents for a language.
// This interface allows for dependency injection and testing.
type DocumentBuilder interface {
	Build(tag locale.Tag) (*producer.Result, error)
}

// DocumentsHandler handles document generation, download, and page
// rendering requests.
type DocumentsHandler struct {
	builder DocumentBuilder
	store   *preview.Store
	viewer  *viewport.Controller
	hub     *Hub

	// outputName is the attachment filename for downloads
	outputName string
}

// NewDocumentsHandler creates a new DocumentsHandler.
// hub may be nil; events are then simply not broadcast.
func NewDocumentsHandler(builder DocumentBuilder, store *preview.Store, viewer *viewport.Controller, hub *Hub, outputName string) *DocumentsHandler {
	if outputName == "" {
		outputName = "employee-report.pdf"
	}
	return &DocumentsHandler{
		builder:    builder,
		store:      store,
		viewer:     viewer,
		hub:        hub,
		outputName: outputName,
	}
}

// RegisterRoutes registers the document API routes on the router.
func (h *DocumentsHandler) RegisterRoutes(router *Router) {
	router.POST("/api/documents", h.GenerateDocument)
	router.GET("/api/documents/current", h.GetCurrentDocument)
	router.GET("/api/documents/current/file", h.DownloadDocument)
	router.GET("/api/documents/current/pages/:num", h.GetPage)
	router.DELETE("/api/documents/current", h.ReleaseDocument)
}

// -----------------------------------------------------------------------------
// API Request/Response Types
// -----------------------------------------------------------------------------

// GenerateDocumentRequest is the expected JSON body for POST /api/documents.
type GenerateDocumentRequest struct {
	Language string `json:"language"`
}

// DocumentInfo is the JSON view of the current document.
type DocumentInfo struct {
	Handle       string    `json:"handle"`
	Language     string    `json:"language"`
	PageCount    int       `json:"pageCount"`
	Generation   uint64    `json:"generation"`
	CreatedAt    time.Time `json:"createdAt"`
	SizeBytes    int       `json:"sizeBytes"`
	FontFallback bool      `json:"fontFallback"`
}

// GenerateDocumentResponse is the JSON response for POST /api/documents.
type GenerateDocumentResponse struct {
	Document *DocumentInfo     `json:"document"`
	Viewer   viewport.Snapshot `json:"viewer"`
}

// -----------------------------------------------------------------------------
// Handlers
// -----------------------------------------------------------------------------

// GenerateDocument handles POST /api/documents.
// It builds a new document for the requested language and installs it as
// the current document, replacing (and revoking) any previous one.
func (h *DocumentsHandler) GenerateDocument(w http.ResponseWriter, r *http.Request) {
	var req GenerateDocumentRequest
	if err := ReadJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_json",
			"Failed to parse request body: "+err.Error())
		return
	}

	tag := locale.Tag(req.Language)
	if req.Language == "" {
		tag = locale.English
	}
	if !locale.IsSupported(tag) {
		WriteError(w, http.StatusBadRequest, "language_unsupported",
			"Language '"+req.Language+"' is not supported")
		return
	}

	gen := h.viewer.BeginGenerate()
	h.broadcastGenerating(tag, gen)

	res, err := h.builder.Build(tag)
	if err != nil {
		h.viewer.FailLoad(gen)
		h.broadcastFailed(tag, gen, err)
		log.Printf("[api] document build failed: %v", err)
		WriteError(w, http.StatusInternalServerError, "build_failed",
			"Failed to generate document: "+err.Error())
		return
	}

	doc, err := h.store.Put(tag, res.Data, res.FontFallback)
	if err != nil {
		h.viewer.FailLoad(gen)
		h.broadcastFailed(tag, gen, err)
		log.Printf("[api] document load failed: %v", err)
		WriteError(w, http.StatusInternalServerError, "load_failed",
			"Failed to load generated document: "+err.Error())
		return
	}

	// A concurrent generate may have superseded this one; its completion
	// wins and ours is dropped.
	if !h.viewer.CompleteLoad(gen, doc.PageCount) {
		log.Printf("[api] load completion superseded (generation %d)", gen)
	}

	info := documentInfo(doc, len(res.Data))
	snap := h.viewer.Snapshot()

	if h.hub != nil {
		h.hub.BroadcastDocumentReady(&DocumentEventData{
			Handle:     doc.Handle,
			Language:   string(doc.Language),
			PageCount:  doc.PageCount,
			Generation: gen,
		})
		h.hub.BroadcastViewerState(snap)
	}

	WriteJSON(w, http.StatusCreated, GenerateDocumentResponse{
		Document: info,
		Viewer:   snap,
	})
}

// GetCurrentDocument handles GET /api/documents/current.
func (h *DocumentsHandler) GetCurrentDocument(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.store.Current()
	if !ok {
		WriteError(w, http.StatusNotFound, "no_document",
			"No document has been generated yet")
		return
	}

	WriteJSON(w, http.StatusOK, documentInfo(doc, len(doc.Data())))
}

// DownloadDocument handles GET /api/documents/current/file.
// The current document's bytes are served when they match the requested
// language; otherwise the document is built on demand, so the download
// works even before any preview has been generated.
func (h *DocumentsHandler) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	current, haveCurrent := h.store.Current()

	tag := locale.English
	if haveCurrent {
		tag = current.Language
	}
	if lang := r.URL.Query().Get("language"); lang != "" {
		tag = locale.Tag(lang)
	}
	if !locale.IsSupported(tag) {
		WriteError(w, http.StatusBadRequest, "language_unsupported",
			"Language '"+string(tag)+"' is not supported")
		return
	}

	var data []byte
	if haveCurrent && current.Language == tag {
		data = current.Data()
	} else {
		res, err := h.builder.Build(tag)
		if err != nil {
			log.Printf("[api] download build failed: %v", err)
			WriteError(w, http.StatusInternalServerError, "build_failed",
				"Failed to generate document: "+err.Error())
			return
		}
		data = res.Data
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", h.outputName))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// GetPage handles GET /api/documents/current/pages/:num.
// It rasterizes a single page of the current document at the viewer's
// current zoom scale and returns it as PNG.
func (h *DocumentsHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	numStr := PathParam(r, "num")
	num, err := strconv.Atoi(numStr)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_page",
			"Page number '"+numStr+"' is not a valid integer")
		return
	}

	zoom := h.viewer.Snapshot().Zoom
	page, err := h.store.RenderPage(num, zoom)
	if err != nil {
		switch errors.CodeOf(err) {
		case errors.ErrDocumentNotFound:
			WriteError(w, http.StatusNotFound, "no_document",
				"No document has been generated yet")
		case errors.ErrPageOutOfRange:
			WriteError(w, http.StatusNotFound, "page_out_of_range",
				"Page "+numStr+" is outside the document")
		default:
			WriteError(w, http.StatusBadGateway, "render_failed",
				"Failed to render page "+numStr)
		}
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(page.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(page.Data)
}

// ReleaseDocument handles DELETE /api/documents/current.
// It revokes the current document and empties the viewer.
func (h *DocumentsHandler) ReleaseDocument(w http.ResponseWriter, r *http.Request) {
	h.store.Release()
	snap := h.viewer.Reset()

	if h.hub != nil {
		h.hub.BroadcastViewerState(snap)
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"released": true,
		"viewer":   snap,
	})
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func documentInfo(doc *preview.Document, size int) *DocumentInfo {
	return &DocumentInfo{
		Handle:       doc.Handle,
		Language:     string(doc.Language),
		PageCount:    doc.PageCount,
		Generation:   doc.Generation,
		CreatedAt:    doc.CreatedAt,
		SizeBytes:    size,
		FontFallback: doc.FontFallback,
	}
}

func (h *DocumentsHandler) broadcastGenerating(tag locale.Tag, gen uint64) {
	if h.hub == nil {
		return
	}
	h.hub.BroadcastDocumentGenerating(&DocumentEventData{
		Language:   string(tag),
		Generation: gen,
	})
}

func (h *DocumentsHandler) broadcastFailed(tag locale.Tag, gen uint64, err error) {
	if h.hub == nil {
		return
	}
	h.hub.BroadcastDocumentFailed(&DocumentEventData{
		Language:   string(tag),
		Generation: gen,
		Error:      err.Error(),
	})
}
