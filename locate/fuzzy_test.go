package locate

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/wudi/pdffield/geom"
	"github.com/wudi/pdffield/ocr"
)

type fakeImages struct {
	img image.Image
	err error
}

func (f *fakeImages) Image(page int) (image.Image, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.img, nil
}

type wordsEngine struct {
	words []ocr.Word
	err   error
}

func (e *wordsEngine) Name() string { return "words" }

func (e *wordsEngine) Recognize(ctx context.Context, in ocr.Input) (ocr.Result, error) {
	if e.err != nil {
		return ocr.Result{}, e.err
	}
	return ocr.Result{InputID: in.ID, Words: e.words}, nil
}

func token(text string, x0, y0, x1, y1, conf float64) ocr.Word {
	return ocr.Word{Text: text, Rect: geom.Rect{X0: x0, Y0: y0, X1: x1, Y1: y1}, Confidence: conf}
}

func newTestLocator(t *testing.T, engine ocr.Engine, opts ...FuzzyOption) (*FuzzyLocator, string) {
	t.Helper()
	debugDir := filepath.Join(t.TempDir(), "debug")
	base := []FuzzyOption{
		WithEngine(engine),
		WithDebugDir(debugDir),
		WithDocumentName("HWT03-001663-A-LowRes"),
	}
	source := &fakeImages{img: image.NewGray(image.Rect(0, 0, 100, 40))}
	return NewFuzzyLocator(source, append(base, opts...)...), debugDir
}

func TestFuzzyLocateSplitTokens(t *testing.T) {
	engine := &wordsEngine{words: []ocr.Word{
		token("C", 10, 10, 30, 30, 0.95),
		token("H", 32, 10, 50, 30, 0.92),
	}}
	l, debugDir := newTestLocator(t, engine)

	rect, ok := l.Locate("CH", 0, 0)
	if !ok {
		t.Fatal("Locate() missed a two-token window")
	}
	want := geom.Rect{X0: 10, Y0: 10, X1: 50, Y1: 30}
	if rect != want {
		t.Fatalf("Locate() = %+v, want %+v", rect, want)
	}

	path := filepath.Join(debugDir, "HWT03-001663-A-LowRes_page1_debug.png")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("debug image not written: %v", err)
	}
}

func TestFuzzyLocateRectWithinImageBounds(t *testing.T) {
	engine := &wordsEngine{words: []ocr.Word{
		token("Gitternetz", 5, 5, 95, 35, 0.9),
	}}
	l, _ := newTestLocator(t, engine)

	rect, ok := l.Locate("Gitternetz", 0, 0)
	if !ok {
		t.Fatal("Locate() missed an exact token")
	}
	if rect.X0 < 0 || rect.Y0 < 0 || rect.X1 > 100 || rect.Y1 > 40 {
		t.Fatalf("rect %+v escapes the 100x40 page image", rect)
	}
}

func TestFuzzyLocateGreedyFirstAcceptable(t *testing.T) {
	// Both tokens normalize to "ch"; the first acceptable window wins even
	// though the second is just as good.
	engine := &wordsEngine{words: []ocr.Word{
		token("CH-", 10, 10, 20, 20, 0.9),
		token("CH", 40, 10, 50, 20, 0.99),
	}}
	l, _ := newTestLocator(t, engine)

	rect, ok := l.Locate("CH", 0, 0)
	if !ok {
		t.Fatal("Locate() found nothing")
	}
	if rect.X0 != 10 || rect.X1 != 20 {
		t.Fatalf("greedy policy violated, matched %+v", rect)
	}
}

func TestFuzzyLocateFiltersLowConfidence(t *testing.T) {
	engine := &wordsEngine{words: []ocr.Word{
		token("CH", 10, 10, 20, 20, 0.05),
	}}
	l, debugDir := newTestLocator(t, engine)

	if _, ok := l.Locate("CH", 0, 0); ok {
		t.Fatal("low-confidence token accepted")
	}
	if _, err := os.Stat(debugDir); !os.IsNotExist(err) {
		t.Fatal("debug image written for a miss")
	}
}

func TestFuzzyLocateNoMatch(t *testing.T) {
	engine := &wordsEngine{words: []ocr.Word{
		token("completely", 10, 10, 40, 20, 0.9),
		token("unrelated", 45, 10, 80, 20, 0.9),
	}}
	l, _ := newTestLocator(t, engine)

	if _, ok := l.Locate("HWT03-001663-A", 0, 1); ok {
		t.Fatal("Locate() matched unrelated text")
	}
}

func TestFuzzyLocateDegradedCases(t *testing.T) {
	t.Run("engine fault", func(t *testing.T) {
		l, _ := newTestLocator(t, &wordsEngine{err: errors.New("ocr down")})
		if _, ok := l.Locate("CH", 0, 0); ok {
			t.Fatal("Locate() = ok on engine fault")
		}
	})
	t.Run("image fault", func(t *testing.T) {
		l := NewFuzzyLocator(&fakeImages{err: errors.New("render failed")},
			WithEngine(&wordsEngine{}), WithDebugDir(""))
		if _, ok := l.Locate("CH", 3, 0); ok {
			t.Fatal("Locate() = ok on image fault")
		}
	})
	t.Run("empty phrase", func(t *testing.T) {
		l, _ := newTestLocator(t, &wordsEngine{})
		if _, ok := l.Locate("- -", 0, 0); ok {
			t.Fatal("Locate() = ok for a phrase that normalizes to nothing")
		}
	})
}
