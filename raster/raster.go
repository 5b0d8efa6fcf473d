// Package raster turns PDF pages into pixel images for OCR. Rasterization
// shells out to poppler's pdftoppm, mirroring how scanned-document tooling
// commonly wraps poppler; the binary must be on PATH. Pixel coordinates are
// a separate space from document points and are never reconciled with them.
package raster

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
)

// DefaultDPI is the rasterization resolution used when none is configured.
const DefaultDPI = 300

// Rasterizer produces the pixel image of a single page.
type Rasterizer interface {
	Rasterize(page int) (image.Image, error)
}

// Poppler rasterizes pages by invoking pdftoppm.
type Poppler struct {
	path string
	dpi  int
}

// Option configures a Poppler rasterizer.
type Option func(*Poppler)

// WithDPI overrides the rasterization resolution.
func WithDPI(dpi int) Option {
	return func(p *Poppler) {
		if dpi > 0 {
			p.dpi = dpi
		}
	}
}

// NewPoppler creates a rasterizer for the document at path.
func NewPoppler(path string, opts ...Option) *Poppler {
	p := &Poppler{path: path, dpi: DefaultDPI}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// DPI returns the configured resolution.
func (p *Poppler) DPI() int { return p.dpi }

// Rasterize renders the zero-based page to a PNG via pdftoppm and decodes it.
func (p *Poppler) Rasterize(page int) (image.Image, error) {
	if page < 0 {
		return nil, fmt.Errorf("page %d out of range", page)
	}
	tmp, err := os.MkdirTemp("", "pdffield-raster-")
	if err != nil {
		return nil, fmt.Errorf("create raster workspace: %w", err)
	}
	defer os.RemoveAll(tmp)

	n := strconv.Itoa(page + 1)
	prefix := filepath.Join(tmp, "page")
	cmd := exec.Command("pdftoppm",
		"-png",
		"-r", strconv.Itoa(p.dpi),
		"-f", n,
		"-l", n,
		"-singlefile",
		p.path,
		prefix,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("pdftoppm page %d: %w: %s", page, err, out)
	}

	f, err := os.Open(prefix + ".png")
	if err != nil {
		return nil, fmt.Errorf("read rasterized page %d: %w", page, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode rasterized page %d: %w", page, err)
	}
	return img, nil
}
