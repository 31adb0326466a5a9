package preview

import (
	"bytes"
	"testing"

	"github.com/previewtools/tableview/pkg/errors"
	"github.com/previewtools/tableview/pkg/locale"
	"github.com/previewtools/tableview/pkg/producer"
)

// buildDocument generates a real document so load/render paths are
// exercised end to end.
func buildDocument(t *testing.T, tag locale.Tag) []byte {
	t.Helper()
	b := producer.NewBuilder(producer.Options{
		FontDir:  "testdata/missing",
		FontFile: "nope.ttf",
		Seed:     11,
	})
	res, err := b.Build(tag)
	if err != nil {
		t.Fatalf("Build(%q): %v", tag, err)
	}
	return res.Data
}

func TestPut(t *testing.T) {
	t.Run("every supported tag loads with at least one page", func(t *testing.T) {
		for _, tag := range locale.Supported() {
			s := NewStore(150)
			doc, err := s.Put(tag, buildDocument(t, tag), false)
			if err != nil {
				t.Fatalf("Put(%q): %v", tag, err)
			}
			if doc.PageCount < 1 {
				t.Errorf("%q: page count %d, want >= 1", tag, doc.PageCount)
			}
			if doc.Handle == "" {
				t.Errorf("%q: empty handle", tag)
			}
		}
	})

	t.Run("replacement issues a fresh handle and generation", func(t *testing.T) {
		s := NewStore(150)
		first, err := s.Put(locale.English, buildDocument(t, locale.English), false)
		if err != nil {
			t.Fatal(err)
		}
		second, err := s.Put(locale.SimplifiedChinese, buildDocument(t, locale.SimplifiedChinese), false)
		if err != nil {
			t.Fatal(err)
		}

		if first.Handle == second.Handle {
			t.Error("handles should be unique per document")
		}
		if second.Generation <= first.Generation {
			t.Errorf("generation %d not after %d", second.Generation, first.Generation)
		}

		cur, ok := s.Current()
		if !ok || cur.Handle != second.Handle {
			t.Error("Current should be the replacement document")
		}
		if cur.Language != locale.SimplifiedChinese {
			t.Errorf("current language = %q", cur.Language)
		}
	})

	t.Run("font fallback flag is kept on the document", func(t *testing.T) {
		s := NewStore(150)
		doc, err := s.Put(locale.English, buildDocument(t, locale.English), true)
		if err != nil {
			t.Fatal(err)
		}
		if !doc.FontFallback {
			t.Error("FontFallback not recorded")
		}
		cur, ok := s.Current()
		if !ok || !cur.FontFallback {
			t.Error("Current should carry the fallback flag")
		}
	})

	t.Run("unreadable bytes are rejected and previous stays current", func(t *testing.T) {
		s := NewStore(150)
		doc, err := s.Put(locale.English, buildDocument(t, locale.English), false)
		if err != nil {
			t.Fatal(err)
		}

		_, err = s.Put(locale.English, []byte("not a pdf"), false)
		if err == nil {
			t.Fatal("expected load failure")
		}
		if errors.CodeOf(err) != errors.ErrDocumentLoadFailed {
			t.Errorf("code = %q", errors.CodeOf(err))
		}

		cur, ok := s.Current()
		if !ok || cur.Handle != doc.Handle {
			t.Error("failed Put should not replace the current document")
		}
	})
}

func TestRelease(t *testing.T) {
	s := NewStore(150)
	if _, err := s.Put(locale.English, buildDocument(t, locale.English), false); err != nil {
		t.Fatal(err)
	}
	s.Release()
	if _, ok := s.Current(); ok {
		t.Error("Current after Release should report no document")
	}

	// Release with nothing loaded is a no-op.
	s.Release()
}

func TestRenderPage(t *testing.T) {
	t.Run("renders the first page to PNG", func(t *testing.T) {
		s := NewStore(72)
		if _, err := s.Put(locale.English, buildDocument(t, locale.English), false); err != nil {
			t.Fatal(err)
		}

		page, err := s.RenderPage(1, 1.0)
		if err != nil {
			t.Fatalf("RenderPage: %v", err)
		}
		if !bytes.HasPrefix(page.Data, []byte("\x89PNG")) {
			t.Error("output is not PNG")
		}
		if page.Width <= 0 || page.Height <= 0 {
			t.Errorf("bad dimensions %dx%d", page.Width, page.Height)
		}
	})

	t.Run("zoom scales the raster size", func(t *testing.T) {
		s := NewStore(72)
		if _, err := s.Put(locale.English, buildDocument(t, locale.English), false); err != nil {
			t.Fatal(err)
		}

		small, err := s.RenderPage(1, 0.5)
		if err != nil {
			t.Fatal(err)
		}
		large, err := s.RenderPage(1, 2.0)
		if err != nil {
			t.Fatal(err)
		}
		if large.Width <= small.Width {
			t.Errorf("zoom 2.0 width %d not larger than zoom 0.5 width %d",
				large.Width, small.Width)
		}
	})

	t.Run("out of range pages", func(t *testing.T) {
		s := NewStore(72)
		doc, err := s.Put(locale.English, buildDocument(t, locale.English), false)
		if err != nil {
			t.Fatal(err)
		}

		for _, num := range []int{0, -1, doc.PageCount + 1} {
			_, err := s.RenderPage(num, 1.0)
			if errors.CodeOf(err) != errors.ErrPageOutOfRange {
				t.Errorf("page %d: code = %q, want PAGE_OUT_OF_RANGE", num, errors.CodeOf(err))
			}
		}
	})

	t.Run("no document loaded", func(t *testing.T) {
		s := NewStore(72)
		_, err := s.RenderPage(1, 1.0)
		if errors.CodeOf(err) != errors.ErrDocumentNotFound {
			t.Errorf("code = %q, want DOCUMENT_NOT_FOUND", errors.CodeOf(err))
		}
	})
}
