// Package producer assembles the localized record set and hands it to the
// table-layout PDF writer. Layout, pagination, and byte-stream serialization
// belong to the gofpdf library; this package owns the data, the styling
// options, and the font fallback policy.
package producer

import (
	"bytes"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/previewtools/tableview/pkg/errors"
	"github.com/previewtools/tableview/pkg/locale"
)

// Record is one synthetic table row. Records are immutable once produced
// and regenerated wholesale on every build.
type Record struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Position   string `json:"position"`
	Salary     string `json:"salary"` // formatted currency string
}

// Options specifies styling and sourcing for document builds.
type Options struct {
	// RecordCount is the number of rows to synthesize.
	// Default: 40
	RecordCount int

	// FontDir and FontFile locate the TrueType font embedded for CJK text.
	FontDir  string
	FontFile string

	// FontFamily is the name the font is registered under.
	// Default: "NotoSansSC"
	FontFamily string

	// HeaderFill is the header row background as RGB.
	// Default: steel blue (41, 128, 185)
	HeaderFill [3]int

	// AltRowFill is the alternating row background as RGB.
	// Default: light gray (240, 240, 240)
	AltRowFill [3]int

	// Seed fixes the random source for reproducible builds. Zero means
	// time-seeded.
	Seed int64
}

// Result is a completed build: the document bytes plus the records that
// went into it.
type Result struct {
	Data     []byte
	Records  []Record
	Language locale.Tag

	// FontFallback is true when the configured font could not be applied
	// and the built-in Helvetica was used instead.
	FontFallback bool
}

// Builder produces table documents. Safe to reuse across builds; each
// build regenerates its record set.
type Builder struct {
	opts Options
	rng  *rand.Rand
}

// NewBuilder creates a Builder, applying defaults for zero-value options.
func NewBuilder(opts Options) *Builder {
	if opts.RecordCount == 0 {
		opts.RecordCount = 40
	}
	if opts.FontFamily == "" {
		opts.FontFamily = "NotoSansSC"
	}
	if opts.HeaderFill == [3]int{} {
		opts.HeaderFill = [3]int{41, 128, 185}
	}
	if opts.AltRowFill == [3]int{} {
		opts.AltRowFill = [3]int{240, 240, 240}
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Builder{
		opts: opts,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Records synthesizes a fresh record set from the bundle's vocabularies.
func (b *Builder) Records(bundle *locale.Bundle) []Record {
	records := make([]Record, b.opts.RecordCount)
	for i := range records {
		span := bundle.SalaryMax - bundle.SalaryMin
		amount := bundle.SalaryMin + b.rng.Intn(span)
		amount = amount / 100 * 100 // round down to hundreds

		records[i] = Record{
			ID:         1001 + i,
			Name:       bundle.Names[b.rng.Intn(len(bundle.Names))],
			Department: bundle.Departments[b.rng.Intn(len(bundle.Departments))],
			Position:   bundle.Positions[b.rng.Intn(len(bundle.Positions))],
			Salary:     bundle.FormatSalary(amount),
		}
	}
	return records
}

// Column layout in millimeters on A4 portrait (190mm printable width).
var colWidths = [5]float64{18, 52, 42, 42, 36}

var colAligns = [5]string{"C", "L", "L", "L", "R"}

// Build generates a complete document for the given language tag and
// returns it in memory. The only recovered failure is an unavailable
// font; everything else surfaces as a structured error.
func (b *Builder) Build(tag locale.Tag) (*Result, error) {
	bundle, err := locale.Lookup(tag)
	if err != nil {
		return nil, err
	}

	records := b.Records(bundle)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 22)
	pdf.AliasNbPages("")

	family, tr, fallback := b.applyFont(pdf)

	// Column headers repeat at the top of every page; the title appears
	// above them on the first page only.
	pageNum := 0
	pdf.SetHeaderFunc(func() {
		pageNum++
		if pageNum == 1 {
			pdf.SetFont(family, "", 16)
			pdf.SetTextColor(33, 33, 33)
			pdf.CellFormat(190, 10, tr(bundle.Title), "", 1, "C", false, 0, "")
			pdf.Ln(2)
		}
		pdf.SetFont(family, "", 10)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFillColor(b.opts.HeaderFill[0], b.opts.HeaderFill[1], b.opts.HeaderFill[2])
		for i, h := range bundle.Headers {
			pdf.CellFormat(colWidths[i], 8, tr(h), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	})

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(family, "", 8)
		pdf.SetTextColor(128, 128, 128)
		footer := bundle.FormatFooter(strconv.Itoa(pdf.PageNo()), "{nb}")
		pdf.CellFormat(0, 10, tr(footer), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont(family, "", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFillColor(b.opts.AltRowFill[0], b.opts.AltRowFill[1], b.opts.AltRowFill[2])

	for i, rec := range records {
		fill := i%2 == 1
		cells := [5]string{
			strconv.Itoa(rec.ID), rec.Name, rec.Department, rec.Position, rec.Salary,
		}
		for j, cell := range cells {
			pdf.CellFormat(colWidths[j], 7, tr(cell), "1", 0, colAligns[j], fill, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.DocumentWrap(err, errors.ErrDocumentBuildFailed,
			"table writer failed to produce document").
			WithContext("language", string(tag))
	}

	return &Result{
		Data:         buf.Bytes(),
		Records:      records,
		Language:     tag,
		FontFallback: fallback,
	}, nil
}

// applyFont registers the configured TrueType font and returns the family
// to use plus a text translator. If the font cannot be read or applied it
// falls back to Helvetica with a logged warning; with core fonts the
// translator maps text to cp1252 best-effort, so CJK glyphs degrade but
// generation proceeds.
//
// The font is probed on a scratch writer first: gofpdf's internal error is
// sticky, and a bad font registered on the real document would poison the
// whole build.
func (b *Builder) applyFont(pdf *gofpdf.Fpdf) (family string, tr func(string) string, fallback bool) {
	path := filepath.Join(b.opts.FontDir, b.opts.FontFile)
	data, err := b.probeFont(path)
	if err != nil {
		warn := errors.DocumentWrap(err, errors.ErrFontUnavailable,
			"falling back to Helvetica").
			WithContext("font", path).
			WithSuggestion("place the TrueType font at the configured producer.font_dir/font_file")
		log.Printf("[producer] %v", warn)
		return "Helvetica", pdf.UnicodeTranslatorFromDescriptor(""), true
	}

	pdf.AddUTF8FontFromBytes(b.opts.FontFamily, "", data)
	return b.opts.FontFamily, func(s string) string { return s }, false
}

// probeFont reads the font file and registers it on a scratch writer to
// verify gofpdf accepts it.
func (b *Builder) probeFont(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	probe := gofpdf.New("P", "mm", "A4", "")
	probe.AddUTF8FontFromBytes(b.opts.FontFamily, "", data)
	if probe.Err() {
		return nil, probe.Error()
	}
	return data, nil
}
