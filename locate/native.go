// Package locate finds the bounding rectangle of a known phrase on a page.
// Two independent algorithms are provided: NativeLocator stitches exact
// word tokens from the embedded text layer (document-point space), and
// FuzzyLocator matches token windows from OCR output (image-pixel space).
// The two coordinate spaces are never reconciled.
package locate

import (
	"math"
	"strings"

	"github.com/wudi/pdffield/document"
	"github.com/wudi/pdffield/geom"
	"github.com/wudi/pdffield/observability"
)

// NativeLocator finds a phrase by walking the page's word tokens in
// reading order.
type NativeLocator struct {
	doc document.Provider
	log observability.Logger
}

// NewNativeLocator builds a locator over the given provider. A nil logger
// defaults to NopLogger.
func NewNativeLocator(doc document.Provider, log observability.Logger) *NativeLocator {
	if log == nil {
		log = observability.NopLogger{}
	}
	return &NativeLocator{doc: doc, log: log}
}

// Locate returns the phrase's rectangle in document points, expanded by
// tolerance on every edge, or ok=false when the phrase is absent or the
// page is unreadable. Matching is a single forward pass with one active
// accumulation window and no backtracking: an occurrence that would
// require restarting from an earlier token is missed.
func (l *NativeLocator) Locate(phrase string, page int, tolerance float64) (geom.Rect, bool) {
	phrase = strings.ToLower(strings.TrimSpace(phrase))
	if phrase == "" {
		return geom.Rect{}, false
	}
	if page < 0 || page >= l.doc.PageCount() {
		l.log.Debug("page out of range",
			observability.Int("page", page),
			observability.Int("pages", l.doc.PageCount()))
		return geom.Rect{}, false
	}

	words, err := l.doc.PageWords(page)
	if err != nil {
		l.log.Warn("word extraction failed",
			observability.Int("page", page),
			observability.Error("err", err))
		return geom.Rect{}, false
	}
	if len(words) == 0 {
		l.log.Debug("no words on page", observability.Int("page", page))
		return geom.Rect{}, false
	}

	var acc string
	var window []document.Word

	for _, w := range words {
		token := strings.ToLower(strings.TrimSpace(w.Text))

		if token == phrase {
			return w.Rect.Expand(tolerance), true
		}

		if len(window) == 0 {
			if strings.HasPrefix(phrase, token) {
				acc = token
				window = append(window, w)
			}
			continue
		}

		acc += " " + token
		window = append(window, w)

		if acc == phrase {
			return windowRect(window).Expand(tolerance), true
		}
		if !strings.HasPrefix(phrase, acc) {
			acc = ""
			window = nil
		}
	}

	l.log.Info("phrase not found",
		observability.String("phrase", phrase),
		observability.Int("page", page))
	return geom.Rect{}, false
}

// windowRect spans from the first token's left edge to the last token's
// right edge, covering the vertical extent of the whole window.
func windowRect(window []document.Word) geom.Rect {
	top := math.Inf(1)
	bottom := math.Inf(-1)
	for _, w := range window {
		top = math.Min(top, w.Rect.Y0)
		bottom = math.Max(bottom, w.Rect.Y1)
	}
	return geom.Rect{
		X0: window[0].Rect.X0,
		Y0: top,
		X1: window[len(window)-1].Rect.X1,
		Y1: bottom,
	}
}
