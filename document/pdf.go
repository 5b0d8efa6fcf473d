package document

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/wudi/pdffield/geom"
)

// PDF implements Provider over github.com/ledongthuc/pdf. A PDF owns its
// file handle and must be closed by the caller. Instances are not safe for
// concurrent use.
type PDF struct {
	path   string
	file   *os.File
	reader *pdf.Reader
}

// Open opens the document at path. Failure here is the only fatal error in
// the pipeline; everything downstream degrades instead of aborting.
func Open(path string) (*PDF, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document %s: %w", path, err)
	}
	return &PDF{path: path, file: f, reader: r}, nil
}

// Close releases the underlying file handle.
func (p *PDF) Close() error {
	if p.file == nil {
		return nil
	}
	err := p.file.Close()
	p.file = nil
	return err
}

// Path returns the path the document was opened from.
func (p *PDF) Path() string { return p.path }

// BaseName returns the document file name without directory or extension,
// used to name debug artifacts.
func (p *PDF) BaseName() string {
	base := filepath.Base(p.path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// PageCount returns the total number of pages.
func (p *PDF) PageCount() int { return p.reader.NumPage() }

// page fetches the 1-based page for a zero-based index.
func (p *PDF) page(index int) (pdf.Page, error) {
	if index < 0 || index >= p.reader.NumPage() {
		return pdf.Page{}, fmt.Errorf("page %d out of range [0, %d)", index, p.reader.NumPage())
	}
	pg := p.reader.Page(index + 1)
	if pg.V.IsNull() {
		return pdf.Page{}, fmt.Errorf("page %d has no dictionary", index)
	}
	return pg, nil
}

// PageText returns the page's native text. The underlying parser panics on
// some malformed content streams, so the call is recover-contained.
func (p *PDF) PageText(page int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("text extraction on page %d: %v", page, r)
		}
	}()
	pg, err := p.page(page)
	if err != nil {
		return "", err
	}
	return pg.GetPlainText(nil)
}

// GlyphCount returns the number of positioned character objects on the page.
func (p *PDF) GlyphCount(page int) (count int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("content walk on page %d: %v", page, r)
		}
	}()
	pg, err := p.page(page)
	if err != nil {
		return 0, err
	}
	return len(pg.Content().Text), nil
}

// PageSize returns the page dimensions from the (inheritable) MediaBox.
func (p *PDF) PageSize(page int) (width, height float64, err error) {
	pg, err := p.page(page)
	if err != nil {
		return 0, 0, err
	}
	box := inherited(pg.V, "MediaBox")
	if box.IsNull() || box.Kind() != pdf.Array || box.Len() < 4 {
		return 0, 0, fmt.Errorf("page %d missing MediaBox", page)
	}
	x0 := box.Index(0).Float64()
	y0 := box.Index(1).Float64()
	x1 := box.Index(2).Float64()
	y1 := box.Index(3).Float64()
	return x1 - x0, y1 - y0, nil
}

// inherited resolves an inheritable page attribute by walking Parent links.
func inherited(v pdf.Value, key string) pdf.Value {
	for !v.IsNull() {
		if attr := v.Key(key); !attr.IsNull() {
			return attr
		}
		v = v.Key("Parent")
	}
	return pdf.Value{}
}

// PageWords assembles word tokens from the page's character runs and sorts
// them into reading order (top-to-bottom, left-to-right).
func (p *PDF) PageWords(page int) (words []Word, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("word assembly on page %d: %v", page, r)
		}
	}()
	pg, err := p.page(page)
	if err != nil {
		return nil, err
	}
	_, height, err := p.PageSize(page)
	if err != nil {
		return nil, err
	}
	return assembleWords(pg.Content().Text, height), nil
}

// assembleWords groups per-character runs into words. A word ends on a
// whitespace run, a baseline change, or a horizontal gap wider than the
// font-size-relative tolerance.
func assembleWords(chars []pdf.Text, pageHeight float64) []Word {
	var words []Word

	var cur strings.Builder
	var curRect geom.Rect
	started := false

	flush := func() {
		if started && strings.TrimSpace(cur.String()) != "" {
			words = append(words, Word{Text: cur.String(), Rect: curRect})
		}
		cur.Reset()
		started = false
	}

	var prev pdf.Text
	for _, ch := range chars {
		if strings.TrimSpace(ch.S) == "" {
			flush()
			prev = ch
			continue
		}
		rect := charRect(ch, pageHeight)
		if started {
			gap := ch.X - (prev.X + prev.W)
			sameLine := math.Abs(ch.Y-prev.Y) <= baselineTolerance
			if !sameLine || gap > gapTolerance(ch.FontSize) {
				flush()
			}
		}
		if !started {
			curRect = rect
			started = true
		} else {
			curRect = curRect.Union(rect)
		}
		cur.WriteString(ch.S)
		prev = ch
	}
	flush()

	sortReadingOrder(words)
	return words
}

const baselineTolerance = 1.0

func gapTolerance(fontSize float64) float64 {
	return math.Max(1.0, 0.3*fontSize)
}

// charRect approximates the glyph box from the baseline position and font
// size: ascent above the baseline, a small descent below.
func charRect(ch pdf.Text, pageHeight float64) geom.Rect {
	top := pageHeight - ch.Y - 0.8*ch.FontSize
	bottom := pageHeight - ch.Y + 0.2*ch.FontSize
	return geom.Rect{X0: ch.X, Y0: top, X1: ch.X + ch.W, Y1: bottom}
}

// sortReadingOrder orders words top-to-bottom, then left-to-right within a
// line. Words whose vertical centers are within half a line of each other
// are treated as the same line.
func sortReadingOrder(words []Word) {
	sort.SliceStable(words, func(i, j int) bool {
		a, b := words[i].Rect, words[j].Rect
		lineTol := math.Max(a.Height(), b.Height()) / 2
		if math.Abs(a.Center().Y-b.Center().Y) > lineTol {
			return a.Center().Y < b.Center().Y
		}
		return a.X0 < b.X0
	})
}
