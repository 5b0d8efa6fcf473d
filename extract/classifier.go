package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/wudi/pdffield/document"
	"github.com/wudi/pdffield/observability"
)

// Readability thresholds. A page below any of them is treated as scanned
// and routed to OCR.
const (
	// minStrippedLength is the minimum character count after removing all
	// whitespace and newlines.
	minStrippedLength = 10
	// maxMonotonousRunes rejects pages whose stripped text consists of a
	// handful of distinct glyphs (repeated-glyph noise).
	maxMonotonousRunes = 3
	// minGlyphObjects is the minimum number of positioned character
	// objects the page must carry.
	minGlyphObjects = 5
)

// Classifier judges whether a page's native text layer is trustworthy.
// The verdict is recomputed per call and biased toward false: any fault
// during classification selects the OCR fallback rather than risking
// garbage from a marginal text layer.
type Classifier struct {
	doc document.Provider
	log observability.Logger
}

// NewClassifier builds a classifier over the given provider. A nil logger
// defaults to NopLogger.
func NewClassifier(doc document.Provider, log observability.Logger) *Classifier {
	if log == nil {
		log = observability.NopLogger{}
	}
	return &Classifier{doc: doc, log: log}
}

// Classify reports whether the page's native text is usable. Out-of-range
// page indices yield false without raising.
func (c *Classifier) Classify(page int) bool {
	if page < 0 || page >= c.doc.PageCount() {
		c.log.Debug("page out of range",
			observability.Int("page", page),
			observability.Int("pages", c.doc.PageCount()))
		return false
	}

	text, err := c.doc.PageText(page)
	if err != nil {
		c.log.Warn("readability check failed",
			observability.Int("page", page),
			observability.Error("err", err))
		return false
	}
	if strings.TrimSpace(text) == "" {
		return false
	}

	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)
	if utf8.RuneCountInString(stripped) < minStrippedLength {
		return false
	}

	distinct := make(map[rune]struct{})
	for _, r := range stripped {
		distinct[r] = struct{}{}
	}
	if len(distinct) <= maxMonotonousRunes {
		return false
	}

	glyphs, err := c.doc.GlyphCount(page)
	if err != nil {
		c.log.Warn("glyph count failed",
			observability.Int("page", page),
			observability.Error("err", err))
		return false
	}
	if glyphs < minGlyphObjects {
		return false
	}

	return true
}
