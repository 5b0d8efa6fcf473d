package extract

import (
	"fmt"
	"io"
	"strings"

	"github.com/wudi/pdffield/document"
	"github.com/wudi/pdffield/geom"
	"github.com/wudi/pdffield/observability"
	"github.com/wudi/pdffield/ocr"
	"github.com/wudi/pdffield/raster"
)

// Fallback is the sentinel returned when no candidate box yields text.
const Fallback = "-"

// DefaultLanguages is the trained-data selection for the OCR reader.
var DefaultLanguages = []string{"eng", "deu"}

// Extractor owns one document handle plus the resources needed to read
// field boxes from it. Instances are single-threaded and must not be
// shared; callers wanting parallelism open one extractor per document.
type Extractor struct {
	doc      document.Provider
	closer   io.Closer
	name     string
	engine   ocr.Engine
	ras      raster.Rasterizer
	dpi      int
	langs    []string
	log      observability.Logger
	notified map[int]struct{}
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the pipeline logger.
func WithLogger(log observability.Logger) Option {
	return func(e *Extractor) {
		if log != nil {
			e.log = log
		}
	}
}

// WithEngine overrides the OCR engine.
func WithEngine(engine ocr.Engine) Option {
	return func(e *Extractor) {
		if engine != nil {
			e.engine = engine
		}
	}
}

// WithRasterizer overrides the page rasterizer.
func WithRasterizer(r raster.Rasterizer) Option {
	return func(e *Extractor) {
		if r != nil {
			e.ras = r
		}
	}
}

// WithDPI sets the rasterization resolution for OCR reads.
func WithDPI(dpi int) Option {
	return func(e *Extractor) {
		if dpi > 0 {
			e.dpi = dpi
		}
	}
}

// WithLanguages sets the OCR language hints.
func WithLanguages(langs ...string) Option {
	return func(e *Extractor) {
		if len(langs) > 0 {
			e.langs = append([]string(nil), langs...)
		}
	}
}

// New builds an extractor over an already-open provider. The caller keeps
// ownership of the provider's lifetime.
func New(doc document.Provider, opts ...Option) *Extractor {
	e := &Extractor{
		doc:      doc,
		engine:   ocr.DefaultEngine(),
		dpi:      raster.DefaultDPI,
		langs:    DefaultLanguages,
		log:      observability.NopLogger{},
		notified: make(map[int]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Open opens the document at path and builds an extractor that owns the
// handle. This is the pipeline's only fatal failure point.
func Open(path string, opts ...Option) (*Extractor, error) {
	doc, err := document.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentOpen, err)
	}
	e := New(doc, opts...)
	e.closer = doc
	e.name = doc.BaseName()
	if e.ras == nil {
		e.ras = raster.NewPoppler(path, raster.WithDPI(e.dpi))
	}
	return e, nil
}

// Close releases the document handle if the extractor owns one.
func (e *Extractor) Close() error {
	if e.closer == nil {
		return nil
	}
	err := e.closer.Close()
	e.closer = nil
	return err
}

// PageCount returns the document's total page count.
func (e *Extractor) PageCount() int { return e.doc.PageCount() }

// Name returns the document base name, when known.
func (e *Extractor) Name() string { return e.name }

// selectReader picks the reader for a page: native when the classifier
// trusts the text layer, OCR otherwise or on any classification fault.
// The OCR fallback notice is logged once per page per extractor lifetime.
func (e *Extractor) selectReader(page int) BoxReader {
	if NewClassifier(e.doc, e.log).Classify(page) {
		e.log.Debug("using native text layer",
			observability.Int("page", page),
			observability.String("document", e.name))
		return &nativeReader{doc: e.doc, log: e.log}
	}
	e.notifyFallback(page)
	return e.newOCRReader()
}

func (e *Extractor) notifyFallback(page int) {
	if _, seen := e.notified[page]; seen {
		return
	}
	e.notified[page] = struct{}{}
	e.log.Info("falling back to OCR reader",
		observability.Int("page", page),
		observability.String("document", e.name))
}

func (e *Extractor) newOCRReader() *ocrReader {
	ras := e.ras
	if ras == nil {
		ras = noRasterizer{}
	}
	return &ocrReader{
		cache:  raster.NewImageCache(ras),
		engine: e.engine,
		dpi:    e.dpi,
		langs:  e.langs,
		log:    e.log,
	}
}

// ExtractText tries the candidate boxes strictly in order with the reader
// selected for the page and returns the first non-empty trimmed result.
// Content validity is not checked here; the first hit wins even when a
// later box would read better. It returns fallback when boxes is empty or
// every box yields nothing. Reader resources are released on every exit
// path.
func (e *Extractor) ExtractText(page int, boxes []geom.Rect, fallback string) string {
	if len(boxes) == 0 {
		return fallback
	}

	reader := e.selectReader(page)
	defer reader.Close()

	for _, box := range boxes {
		text, ok := reader.ReadTextFromBox(page, box)
		if !ok {
			e.log.Debug("box yielded no text",
				observability.Int("page", page),
				observability.String("box", fmt.Sprintf("%+v", box)))
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			return text
		}
	}
	return fallback
}
