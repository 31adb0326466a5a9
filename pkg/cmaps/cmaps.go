// Package cmaps fetches the Adobe character-map files the renderer needs
// for CJK glyph support. Files are cached locally and only downloaded when
// missing; a failed fetch is a logged warning, never fatal, because the
// renderer falls back to its built-in CID mapping.
package cmaps

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/previewtools/tableview/pkg/errors"
)

// DefaultBaseURL is the poppler-data repository the CMap files live in.
const DefaultBaseURL = "https://gitlab.freedesktop.org/poppler/poppler-data/-/raw/master"

// files lists the CMaps covering the scripts the supported locales use:
// Adobe-GB1 for Simplified Chinese, Adobe-Japan1 for Japanese, plus the
// identity maps embedded fonts reference.
var files = []string{
	"Adobe-GB1/Adobe-GB1-UCS2",
	"Adobe-GB1/GBK-EUC-H",
	"Adobe-Japan1/Adobe-Japan1-UCS2",
	"Adobe-Japan1/90ms-RKSJ-H",
	"Adobe-Identity/Identity-H",
	"Adobe-Identity/Identity-V",
}

// Fetcher downloads CMap files into a local cache directory.
type Fetcher struct {
	baseURL string
	dir     string
	client  *http.Client
}

// NewFetcher creates a Fetcher. An empty baseURL uses DefaultBaseURL.
func NewFetcher(baseURL, dir string) *Fetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Fetcher{
		baseURL: baseURL,
		dir:     dir,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Dir returns the cache directory.
func (f *Fetcher) Dir() string {
	return f.dir
}

// Sync ensures the cache directory holds every known CMap, downloading the
// missing ones. Individual fetch failures are logged and skipped; the
// returned count is the number of files newly downloaded. Only an unusable
// cache directory is an error.
func (f *Fetcher) Sync(ctx context.Context) (int, error) {
	if err := os.MkdirAll(f.dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create cmap cache directory: %w", err)
	}

	fetched := 0
	for _, name := range files {
		dest := filepath.Join(f.dir, path.Base(name))
		if _, err := os.Stat(dest); err == nil {
			continue // already cached
		}

		url := fmt.Sprintf("%s/cMap/%s", f.baseURL, name)
		if err := f.download(ctx, url, dest); err != nil {
			warn := errors.NetworkWrap(err, errors.ErrCMapFetchFailed,
				"could not fetch character map").
				WithContext("file", name)
			log.Printf("[cmaps] %v", warn)
			continue
		}
		fetched++
	}

	if fetched > 0 {
		log.Printf("[cmaps] downloaded %d character map(s) to %s", fetched, f.dir)
	}
	return fetched, nil
}

// download writes one remote file to dest, removing partial output on
// failure.
func (f *Fetcher) download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	out, err := os.Create(dest)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	return out.Close()
}
