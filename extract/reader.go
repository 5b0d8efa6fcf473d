package extract

import (
	"context"
	"errors"
	"image"
	"image/draw"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/wudi/pdffield/document"
	"github.com/wudi/pdffield/geom"
	"github.com/wudi/pdffield/observability"
	"github.com/wudi/pdffield/ocr"
	"github.com/wudi/pdffield/raster"
)

// BoxReader reads trimmed text from a rectangular region of a page. The
// box must be authored for the reader's coordinate space: document points
// for the native reader, image pixels for the OCR reader; the two are
// never converted into one another. Implementations do not fail outward:
// an unreadable region yields ok=false. Close releases per-reader
// resources and must be called on every exit path.
type BoxReader interface {
	ReadTextFromBox(page int, box geom.Rect) (text string, ok bool)
	Close() error
}

// nativeReader reads from the embedded text layer by clipping word tokens
// whose centers fall inside the box, pdfplumber-style.
type nativeReader struct {
	doc document.Provider
	log observability.Logger
}

func (r *nativeReader) ReadTextFromBox(page int, box geom.Rect) (string, bool) {
	words, err := r.doc.PageWords(page)
	if err != nil {
		r.log.Warn("native box read failed",
			observability.Int("page", page),
			observability.Error("err", err))
		return "", false
	}
	var parts []string
	for _, w := range words {
		if box.Contains(w.Rect.Center()) {
			parts = append(parts, w.Text)
		}
	}
	text := strings.TrimSpace(strings.Join(parts, " "))
	if text == "" {
		return "", false
	}
	return text, true
}

func (r *nativeReader) Close() error { return nil }

// minOCRTextLength rejects OCR fragments too short to be a field value.
const minOCRTextLength = 3

// ocrReader rasterizes the page at a fixed DPI, caches the image for the
// reader's lifetime, and recognizes cropped boxes as single uniform text
// blocks.
type ocrReader struct {
	cache  *raster.ImageCache
	engine ocr.Engine
	dpi    int
	langs  []string
	log    observability.Logger
}

func (r *ocrReader) ReadTextFromBox(page int, box geom.Rect) (string, bool) {
	img, err := r.cache.Image(page)
	if err != nil {
		r.log.Warn("rasterization failed",
			observability.Int("page", page),
			observability.Error("err", err))
		return "", false
	}

	bounds := img.Bounds()
	clamped := box.Clamp(geom.Rect{
		X0: float64(bounds.Min.X),
		Y0: float64(bounds.Min.Y),
		X1: float64(bounds.Max.X),
		Y1: float64(bounds.Max.Y),
	})
	if clamped.IsEmpty() {
		return "", false
	}

	in, err := ocr.InputFromImage(cropImage(img, clamped), page,
		ocr.WithLanguages(r.langs...),
		ocr.WithDPI(r.dpi),
		ocr.WithTesseractPSM(ocr.PSMSingleBlock),
	)
	if err != nil {
		r.log.Warn("ocr input encoding failed",
			observability.Int("page", page),
			observability.Error("err", err))
		return "", false
	}

	res, err := r.engine.Recognize(context.Background(), in)
	if err != nil {
		r.log.Warn("ocr engine failed",
			observability.Int("page", page),
			observability.Error("err", err))
		return "", false
	}

	text := normalizeOCRText(res.PlainText)
	if !usableOCRText(text) {
		return "", false
	}
	return text, true
}

func (r *ocrReader) Close() error {
	r.cache.Release()
	return nil
}

// cropImage extracts the pixel region covered by the rect. Images that do
// not support sub-imaging are copied.
func cropImage(img image.Image, r geom.Rect) image.Image {
	rect := image.Rect(
		int(math.Floor(r.X0)),
		int(math.Floor(r.Y0)),
		int(math.Ceil(r.X1)),
		int(math.Ceil(r.Y1)),
	).Intersect(img.Bounds())

	if sub, ok := img.(interface {
		SubImage(image.Rectangle) image.Image
	}); ok {
		return sub.SubImage(rect)
	}
	dst := image.NewRGBA(rect)
	draw.Draw(dst, rect, img, rect.Min, draw.Src)
	return dst
}

// normalizeOCRText removes hyphen-linebreak artifacts and collapses the
// remaining line breaks to spaces.
func normalizeOCRText(s string) string {
	s = strings.ReplaceAll(s, "-\n", "")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}

// usableOCRText rejects results that are too short or carry no
// word-constituent character.
func usableOCRText(s string) bool {
	if utf8.RuneCountInString(s) < minOCRTextLength {
		return false
	}
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// noRasterizer stands in when no rasterizer was configured; every OCR
// read degrades instead of panicking.
type noRasterizer struct{}

func (noRasterizer) Rasterize(int) (image.Image, error) {
	return nil, errors.New("no rasterizer configured")
}
