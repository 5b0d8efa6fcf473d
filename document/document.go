// Package document provides access to the native text layer of a PDF:
// page count, per-page plain text, word tokens with rectangles, and glyph
// counts. Rectangles are expressed in document points with the origin in
// the upper-left corner of the page.
package document

import "github.com/wudi/pdffield/geom"

// Word is a single native-layer token in reading order.
type Word struct {
	Text string
	Rect geom.Rect
}

// Provider is the text-layer contract consumed by the extraction core.
// Implementations must return errors rather than panic; page indices are
// zero-based.
type Provider interface {
	// PageCount returns the total number of pages.
	PageCount() int
	// PageText returns the full native text of a page.
	PageText(page int) (string, error)
	// PageWords returns the page's word tokens in reading order.
	PageWords(page int) ([]Word, error)
	// GlyphCount returns the number of discrete character objects on a page.
	GlyphCount(page int) (int, error)
	// PageSize returns the page dimensions in points.
	PageSize(page int) (width, height float64, err error)
}
