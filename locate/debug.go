package locate

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/wudi/pdffield/geom"
)

var matchOutline = color.RGBA{R: 255, A: 255}

// saveDebugImage writes a copy of the page image with the match outlined
// and labeled, named after the document and the 1-based page number.
// Returns the written path, or "" when debug images are disabled.
func (l *FuzzyLocator) saveDebugImage(src image.Image, match geom.Rect, label string, page int) (string, error) {
	if l.debugDir == "" {
		return "", nil
	}
	if err := os.MkdirAll(l.debugDir, 0o750); err != nil {
		return "", fmt.Errorf("create debug dir: %w", err)
	}

	canvas := image.NewRGBA(src.Bounds())
	draw.Draw(canvas, canvas.Bounds(), src, src.Bounds().Min, draw.Src)

	rect := toPixelRect(match).Intersect(canvas.Bounds())
	outlineRect(canvas, rect, matchOutline, 2)
	annotate(canvas, rect, label)

	path := filepath.Join(l.debugDir, fmt.Sprintf("%s_page%d_debug.png", l.docName, page+1))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create debug image: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, canvas); err != nil {
		return "", fmt.Errorf("encode debug image: %w", err)
	}
	return path, nil
}

func toPixelRect(r geom.Rect) image.Rectangle {
	return image.Rect(
		int(math.Floor(r.X0)),
		int(math.Floor(r.Y0)),
		int(math.Ceil(r.X1)),
		int(math.Ceil(r.Y1)),
	)
}

// outlineRect strokes the rectangle's border without filling it.
func outlineRect(img *image.RGBA, rect image.Rectangle, c color.Color, width int) {
	for w := 0; w < width; w++ {
		r := rect.Inset(-w)
		for x := r.Min.X; x < r.Max.X; x++ {
			img.Set(x, r.Min.Y, c)
			img.Set(x, r.Max.Y-1, c)
		}
		for y := r.Min.Y; y < r.Max.Y; y++ {
			img.Set(r.Min.X, y, c)
			img.Set(r.Max.X-1, y, c)
		}
	}
}

// annotate writes the label just above the rectangle, falling back to
// inside the top edge when there is no room.
func annotate(img *image.RGBA, rect image.Rectangle, label string) {
	y := rect.Min.Y - 4
	if y < basicfont.Face7x13.Height {
		y = rect.Min.Y + basicfont.Face7x13.Height
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(matchOutline),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(rect.Min.X, y),
	}
	d.DrawString(label)
}
