package locate

import (
	"context"
	"image"
	"strings"

	"github.com/agext/levenshtein"

	"github.com/wudi/pdffield/geom"
	"github.com/wudi/pdffield/observability"
	"github.com/wudi/pdffield/ocr"
	"github.com/wudi/pdffield/raster"
)

const (
	// defaultMinConfidence filters out OCR tokens the engine itself
	// distrusts before any matching.
	defaultMinConfidence = 0.30
	// similarityThreshold is the acceptance bar for a token window; the
	// first window exceeding it wins, not the best over all candidates.
	similarityThreshold = 0.90
	// maxWindow caps the number of adjacent tokens joined per candidate.
	maxWindow = 3
	// DefaultDebugDir receives the annotated match images.
	DefaultDebugDir = "debug_ocr"
)

// ImageSource yields the pixel image of a page; *raster.ImageCache
// satisfies it.
type ImageSource interface {
	Image(page int) (image.Image, error)
}

// FuzzyLocator finds a phrase in OCR output by greedily testing 1- to
// 3-token windows against the normalized phrase. Coordinates are image
// pixels at the source's rasterization DPI.
type FuzzyLocator struct {
	images        ImageSource
	engine        ocr.Engine
	langs         []string
	dpi           int
	docName       string
	debugDir      string
	minConfidence float64
	params        *levenshtein.Params
	log           observability.Logger
}

// FuzzyOption configures a FuzzyLocator.
type FuzzyOption func(*FuzzyLocator)

// WithEngine overrides the OCR engine.
func WithEngine(engine ocr.Engine) FuzzyOption {
	return func(l *FuzzyLocator) {
		if engine != nil {
			l.engine = engine
		}
	}
}

// WithLanguages sets the OCR language hints.
func WithLanguages(langs ...string) FuzzyOption {
	return func(l *FuzzyLocator) {
		if len(langs) > 0 {
			l.langs = append([]string(nil), langs...)
		}
	}
}

// WithDPI declares the source's rasterization resolution.
func WithDPI(dpi int) FuzzyOption {
	return func(l *FuzzyLocator) {
		if dpi > 0 {
			l.dpi = dpi
		}
	}
}

// WithDocumentName sets the base name used for debug artifacts.
func WithDocumentName(name string) FuzzyOption {
	return func(l *FuzzyLocator) { l.docName = name }
}

// WithDebugDir sets the directory for debug images. An empty directory
// disables them.
func WithDebugDir(dir string) FuzzyOption {
	return func(l *FuzzyLocator) { l.debugDir = dir }
}

// WithMinConfidence overrides the token confidence filter.
func WithMinConfidence(c float64) FuzzyOption {
	return func(l *FuzzyLocator) { l.minConfidence = c }
}

// WithLogger sets the locator logger.
func WithLogger(log observability.Logger) FuzzyOption {
	return func(l *FuzzyLocator) {
		if log != nil {
			l.log = log
		}
	}
}

// NewFuzzyLocator builds a locator over a page image source.
func NewFuzzyLocator(images ImageSource, opts ...FuzzyOption) *FuzzyLocator {
	l := &FuzzyLocator{
		images:        images,
		engine:        ocr.DefaultEngine(),
		langs:         []string{"eng", "deu"},
		dpi:           raster.DefaultDPI,
		docName:       "document",
		debugDir:      DefaultDebugDir,
		minConfidence: defaultMinConfidence,
		params:        levenshtein.NewParams(),
		log:           observability.NopLogger{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Locate returns the phrase's rectangle in image pixels, expanded by
// tolerance, or ok=false. On success it persists an annotated debug image
// and logs the accepted match together with its source text.
func (l *FuzzyLocator) Locate(phrase string, page int, tolerance float64) (geom.Rect, bool) {
	img, err := l.images.Image(page)
	if err != nil {
		l.log.Warn("page image unavailable",
			observability.Int("page", page),
			observability.Error("err", err))
		return geom.Rect{}, false
	}

	in, err := ocr.InputFromImage(img, page,
		ocr.WithLanguages(l.langs...),
		ocr.WithDPI(l.dpi),
	)
	if err != nil {
		l.log.Warn("ocr input encoding failed",
			observability.Int("page", page),
			observability.Error("err", err))
		return geom.Rect{}, false
	}
	res, err := l.engine.Recognize(context.Background(), in)
	if err != nil {
		l.log.Warn("ocr engine failed",
			observability.Int("page", page),
			observability.Error("err", err))
		return geom.Rect{}, false
	}

	target := normalizeFuzzy(phrase)
	if target == "" {
		return geom.Rect{}, false
	}

	tokens := make([]ocr.Word, 0, len(res.Words))
	for _, w := range res.Words {
		if strings.TrimSpace(w.Text) == "" || w.Confidence <= l.minConfidence {
			continue
		}
		tokens = append(tokens, w)
	}

	for i := range tokens {
		for w := 1; w <= maxWindow && i+w <= len(tokens); w++ {
			var joined strings.Builder
			for _, tok := range tokens[i : i+w] {
				joined.WriteString(normalizeFuzzy(tok.Text))
			}
			ratio := levenshtein.Similarity(joined.String(), target, l.params)
			if ratio <= similarityThreshold {
				continue
			}

			rect := tokens[i].Rect
			for _, tok := range tokens[i+1 : i+w] {
				rect = rect.Union(tok.Rect)
			}
			rect = rect.Expand(tolerance)

			if path, err := l.saveDebugImage(img, rect, phrase, page); err != nil {
				l.log.Warn("debug image not written", observability.Error("err", err))
			} else if path != "" {
				l.log.Debug("debug image saved", observability.String("path", path))
			}

			l.log.Info("fuzzy match accepted",
				observability.String("phrase", phrase),
				observability.String("matched", joined.String()),
				observability.Float64("ratio", ratio),
				observability.Int("page", page))
			return rect, true
		}
	}

	l.log.Info("phrase not found",
		observability.String("phrase", phrase),
		observability.Int("page", page))
	return geom.Rect{}, false
}

// normalizeFuzzy lowercases and removes spaces and hyphens, so hyphenation
// and token splits introduced by OCR do not defeat the comparison.
func normalizeFuzzy(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "")
	return strings.ReplaceAll(s, "-", "")
}
