package extract

import (
	"context"
	"image"
	"sync"

	"github.com/wudi/pdffield/document"
	"github.com/wudi/pdffield/observability"
	"github.com/wudi/pdffield/ocr"
)

// fakePage scripts one page of a fake provider.
type fakePage struct {
	text     string
	textErr  error
	words    []document.Word
	wordsErr error
	glyphs   int
	glyphErr error
	width    float64
	height   float64
}

type fakeProvider struct {
	pages []fakePage
}

func (p *fakeProvider) PageCount() int { return len(p.pages) }

func (p *fakeProvider) PageText(page int) (string, error) {
	pg := p.pages[page]
	return pg.text, pg.textErr
}

func (p *fakeProvider) PageWords(page int) ([]document.Word, error) {
	pg := p.pages[page]
	return pg.words, pg.wordsErr
}

func (p *fakeProvider) GlyphCount(page int) (int, error) {
	pg := p.pages[page]
	return pg.glyphs, pg.glyphErr
}

func (p *fakeProvider) PageSize(page int) (float64, float64, error) {
	pg := p.pages[page]
	return pg.width, pg.height, nil
}

// scriptedEngine returns one scripted step per Recognize call.
type scriptedEngine struct {
	steps []scriptedStep
	calls int
}

type scriptedStep struct {
	text string
	err  error
}

func (e *scriptedEngine) Name() string { return "scripted" }

func (e *scriptedEngine) Recognize(ctx context.Context, in ocr.Input) (ocr.Result, error) {
	step := scriptedStep{}
	if e.calls < len(e.steps) {
		step = e.steps[e.calls]
	}
	e.calls++
	if step.err != nil {
		return ocr.Result{}, step.err
	}
	return ocr.Result{InputID: in.ID, PlainText: step.text}, nil
}

// stubRasterizer returns the same blank image for every page.
type stubRasterizer struct {
	width, height int
	calls         int
}

func (r *stubRasterizer) Rasterize(page int) (image.Image, error) {
	r.calls++
	return image.NewGray(image.Rect(0, 0, r.width, r.height)), nil
}

// recordLogger captures log messages for assertions.
type recordLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *recordLogger) record(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, msg)
}

func (l *recordLogger) count(msg string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, m := range l.messages {
		if m == msg {
			n++
		}
	}
	return n
}

func (l *recordLogger) Debug(msg string, _ ...observability.Field) { l.record(msg) }
func (l *recordLogger) Info(msg string, _ ...observability.Field)  { l.record(msg) }
func (l *recordLogger) Warn(msg string, _ ...observability.Field)  { l.record(msg) }
func (l *recordLogger) Error(msg string, _ ...observability.Field) { l.record(msg) }
func (l *recordLogger) With(...observability.Field) observability.Logger {
	return l
}
