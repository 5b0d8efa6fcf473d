package locate

import (
	"encoding/csv"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strconv"

	"github.com/wudi/pdffield/ocr"
)

// DumpWords writes two inspection artifacts for a recognized page: a copy
// of the page image with every token outlined and labeled, and a CSV of
// the token boxes and confidences. It returns the written paths.
func DumpWords(dir, docName string, page int, img image.Image, words []ocr.Word) (pngPath, csvPath string, err error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", "", fmt.Errorf("create word dump dir: %w", err)
	}

	canvas := image.NewRGBA(img.Bounds())
	draw.Draw(canvas, canvas.Bounds(), img, img.Bounds().Min, draw.Src)
	for _, w := range words {
		rect := toPixelRect(w.Rect).Intersect(canvas.Bounds())
		outlineRect(canvas, rect, matchOutline, 1)
		annotate(canvas, rect, w.Text)
	}

	base := fmt.Sprintf("%s_page%d_words", docName, page+1)
	pngPath = filepath.Join(dir, base+".png")
	f, err := os.Create(pngPath)
	if err != nil {
		return "", "", fmt.Errorf("create word dump image: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, canvas); err != nil {
		return "", "", fmt.Errorf("encode word dump image: %w", err)
	}

	csvPath = filepath.Join(dir, base+".csv")
	cf, err := os.Create(csvPath)
	if err != nil {
		return "", "", fmt.Errorf("create word dump csv: %w", err)
	}
	defer cf.Close()

	cw := csv.NewWriter(cf)
	if err := cw.Write([]string{"text", "x0", "y0", "x1", "y1", "confidence"}); err != nil {
		return "", "", fmt.Errorf("write word dump header: %w", err)
	}
	for _, w := range words {
		record := []string{
			w.Text,
			strconv.FormatFloat(w.Rect.X0, 'f', 1, 64),
			strconv.FormatFloat(w.Rect.Y0, 'f', 1, 64),
			strconv.FormatFloat(w.Rect.X1, 'f', 1, 64),
			strconv.FormatFloat(w.Rect.Y1, 'f', 1, 64),
			strconv.FormatFloat(w.Confidence, 'f', 3, 64),
		}
		if err := cw.Write(record); err != nil {
			return "", "", fmt.Errorf("write word dump row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", "", fmt.Errorf("flush word dump csv: %w", err)
	}
	return pngPath, csvPath, nil
}
