package ocr

import (
	"context"

	"github.com/wudi/pdffield/geom"
)

// ImageFormat identifies the content type of an OCR input image.
type ImageFormat string

const (
	ImageFormatPNG  ImageFormat = "image/png"
	ImageFormatJPEG ImageFormat = "image/jpeg"
	ImageFormatTIFF ImageFormat = "image/tiff"
)

// Input encapsulates a single image submitted for OCR.
type Input struct {
	// ID is an optional caller-provided identifier that is echoed back in
	// the corresponding Result.
	ID string
	// Image is the encoded image payload in the format specified by Format.
	Image []byte
	// Format declares the image content type (e.g., image/png).
	Format ImageFormat
	// PageIndex links the input back to the zero-based page index where the
	// image originated.
	PageIndex int
	// DPI carries the effective dots-per-inch for the image. Providers such
	// as Tesseract use this for scaling and layout heuristics; zero means
	// unknown.
	DPI int
	// Languages is a list of language hints (e.g., "eng", "deu") that
	// providers can use to select trained data.
	Languages []string
	// Metadata allows callers to pass through engine-specific knobs (e.g.,
	// "tessedit_pageseg_mode" for Tesseract) without hard-coding them into
	// the API surface.
	Metadata map[string]string
}

// Word represents a single recognized token. Its rectangle is expressed in
// pixel coordinates of the input image; Confidence is in [0, 1].
type Word struct {
	Text       string
	Rect       geom.Rect
	Confidence float64
}

// Result captures OCR output for a single input image.
type Result struct {
	// InputID mirrors the Input.ID that produced this result.
	InputID string
	// PlainText contains the linearized text extracted from the image.
	PlainText string
	// Words carries the recognized tokens with positional metadata.
	Words []Word
	// MeanConfidence is the average word confidence in [0, 1].
	MeanConfidence float64
}

// Engine is the OCR provider contract: one image in, one result out.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, input Input) (Result, error)
}
