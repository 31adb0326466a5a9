// Package preview manages the renderable document resource. It holds at
// most one current document under a revocable handle, reports its page
// count, and rasterizes individual pages for display. Parsing and
// rasterization belong to the pdfcpu and go-poppler libraries.
package preview

import (
	"bytes"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	poppler "github.com/novvoo/go-poppler/pkg/pdf"
	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/previewtools/tableview/pkg/errors"
	"github.com/previewtools/tableview/pkg/locale"
)

// Document is the currently loaded document. The data is immutable; a new
// build always produces a new Document with a fresh handle.
type Document struct {
	// Handle is the revocable resource identifier handed to clients.
	Handle string

	// Language is the tag the document was generated for.
	Language locale.Tag

	// Generation increases monotonically with every replacement.
	Generation uint64

	// PageCount is the total page count reported on load.
	PageCount int

	// FontFallback records that the document was built with the
	// built-in font instead of the configured one.
	FontFallback bool

	CreatedAt time.Time

	data []byte
}

// Data returns the raw document bytes.
func (d *Document) Data() []byte {
	return d.data
}

// RenderedPage is a rasterized page image.
type RenderedPage struct {
	Number int
	Width  int
	Height int
	Data   []byte // PNG bytes
}

// Store owns the current document. Replacing the document revokes the
// previous handle in the same critical section, so no observer can see
// the old handle paired with the new document's state.
type Store struct {
	mu         sync.RWMutex
	dpi        float64
	generation uint64
	current    *Document
}

// NewStore creates a Store rendering at the given base DPI (zoom 1.0).
// A non-positive DPI defaults to 150.
func NewStore(dpi float64) *Store {
	if dpi <= 0 {
		dpi = 150
	}
	return &Store{dpi: dpi}
}

// Put validates and installs a freshly generated document, revoking the
// previous handle. It returns the new Document with its page count.
// A document that cannot be read back is rejected with
// DOCUMENT_LOAD_FAILED and the previous document stays current.
func (s *Store) Put(tag locale.Tag, data []byte, fontFallback bool) (*Document, error) {
	count, err := pageCount(data)
	if err != nil {
		return nil, errors.PreviewWrap(err, errors.ErrDocumentLoadFailed,
			"generated document could not be loaded").
			WithContext("language", string(tag))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		log.Printf("[preview] revoking handle %s", s.current.Handle)
	}

	s.generation++
	doc := &Document{
		Handle:       uuid.NewString(),
		Language:     tag,
		Generation:   s.generation,
		PageCount:    count,
		FontFallback: fontFallback,
		CreatedAt:    time.Now(),
		data:         data,
	}
	s.current = doc

	log.Printf("[preview] document %s loaded (%d pages, %s)", doc.Handle, count, tag)
	return doc, nil
}

// Current returns the current document, or false if none is loaded.
func (s *Store) Current() (*Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, false
	}
	return s.current, true
}

// Release revokes the current handle. Called on teardown and before the
// process exits so the resource is never leaked.
func (s *Store) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		log.Printf("[preview] revoking handle %s", s.current.Handle)
		s.current = nil
	}
}

// RenderPage rasterizes page num of the current document to PNG at the
// given zoom scale. Render failures are logged and surfaced once; there
// is no retry.
func (s *Store) RenderPage(num int, zoom float64) (*RenderedPage, error) {
	s.mu.RLock()
	doc := s.current
	s.mu.RUnlock()

	if doc == nil {
		return nil, errors.Preview(errors.ErrDocumentNotFound,
			"no document is loaded")
	}
	if num < 1 || num > doc.PageCount {
		return nil, errors.Previewf(errors.ErrPageOutOfRange,
			"page %d outside [1, %d]", num, doc.PageCount)
	}
	if zoom <= 0 {
		zoom = 1
	}

	parsed, err := poppler.NewDocument(doc.data)
	if err != nil {
		renderErr := errors.PreviewWrap(err, errors.ErrPageRenderFailed,
			"renderer could not parse document").
			WithContext("handle", doc.Handle)
		log.Printf("[preview] %v", renderErr)
		return nil, renderErr
	}

	renderer := poppler.NewPageRenderer(parsed, poppler.RenderOptions{
		DPI:    s.dpi * zoom,
		Format: "png",
	})
	page, err := renderer.RenderPage(num)
	if err != nil {
		renderErr := errors.PreviewWrap(err, errors.ErrPageRenderFailed,
			"page could not be rasterized").
			WithContext("handle", doc.Handle)
		log.Printf("[preview] %v", renderErr)
		return nil, renderErr
	}

	return &RenderedPage{
		Number: page.PageNum,
		Width:  page.Width,
		Height: page.Height,
		Data:   page.Data,
	}, nil
}

// pageCount reads the document back with pdfcpu and returns its page
// count after validation.
func pageCount(data []byte) (int, error) {
	conf := model.NewDefaultConfiguration()
	ctx, err := pdfapi.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return 0, err
	}
	if err := pdfapi.ValidateContext(ctx); err != nil {
		return 0, err
	}
	return ctx.PageCount, nil
}
