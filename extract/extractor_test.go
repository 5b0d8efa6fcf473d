package extract

import (
	"errors"
	"testing"

	"github.com/wudi/pdffield/document"
	"github.com/wudi/pdffield/geom"
)

func readablePage() fakePage {
	return fakePage{
		text:   "HWT03-001663-A released for production 2020",
		glyphs: 40,
		words: []document.Word{
			{Text: "HWT03-001663-A", Rect: geom.Rect{X0: 100, Y0: 860, X1: 300, Y1: 890}},
			{Text: "released", Rect: geom.Rect{X0: 320, Y0: 860, X1: 400, Y1: 890}},
		},
		width:  595,
		height: 842,
	}
}

func scannedPage() fakePage {
	return fakePage{text: "abcd", glyphs: 2, width: 595, height: 842}
}

func TestSelectReaderNativeForReadablePage(t *testing.T) {
	e := New(&fakeProvider{pages: []fakePage{readablePage()}})

	reader := e.selectReader(0)
	defer reader.Close()
	if _, ok := reader.(*nativeReader); !ok {
		t.Fatalf("selectReader() = %T, want *nativeReader", reader)
	}
}

func TestSelectReaderFallsBackToOCR(t *testing.T) {
	log := &recordLogger{}
	e := New(&fakeProvider{pages: []fakePage{scannedPage()}}, WithLogger(log))

	for i := 0; i < 2; i++ {
		reader := e.selectReader(0)
		if _, ok := reader.(*ocrReader); !ok {
			t.Fatalf("selectReader() = %T, want *ocrReader", reader)
		}
		reader.Close()
	}

	if n := log.count("falling back to OCR reader"); n != 1 {
		t.Fatalf("fallback notice logged %d times, want exactly 1", n)
	}
}

func TestSelectReaderOCRForOutOfRangePage(t *testing.T) {
	e := New(&fakeProvider{pages: []fakePage{readablePage()}})
	reader := e.selectReader(7)
	defer reader.Close()
	if _, ok := reader.(*ocrReader); !ok {
		t.Fatalf("selectReader() = %T, want *ocrReader", reader)
	}
}

func TestExtractTextEmptyBoxes(t *testing.T) {
	e := New(&fakeProvider{pages: []fakePage{readablePage()}})
	if got := e.ExtractText(0, nil, Fallback); got != Fallback {
		t.Fatalf("ExtractText() = %q, want %q", got, Fallback)
	}
}

func TestExtractTextNativeFirstHitWins(t *testing.T) {
	e := New(&fakeProvider{pages: []fakePage{readablePage()}})

	boxes := []geom.Rect{
		{X0: 0, Y0: 0, X1: 50, Y1: 50},        // empty region
		{X0: 90, Y0: 850, X1: 310, Y1: 900},   // field box
		{X0: 310, Y0: 850, X1: 410, Y1: 900},  // would also match, never tried
	}
	if got := e.ExtractText(0, boxes, Fallback); got != "HWT03-001663-A" {
		t.Fatalf("ExtractText() = %q, want HWT03-001663-A", got)
	}
}

func TestExtractTextTriesBoxesInOrder(t *testing.T) {
	// Scanned page: first box faults in the engine, second reads empty,
	// third yields the value.
	engine := &scriptedEngine{steps: []scriptedStep{
		{err: errors.New("ocr engine crashed")},
		{text: ""},
		{text: "HWT03-001663-A"},
	}}
	e := New(&fakeProvider{pages: []fakePage{scannedPage()}},
		WithEngine(engine),
		WithRasterizer(&stubRasterizer{width: 2480, height: 3508}),
	)

	boxes := []geom.Rect{
		{X0: 90, Y0: 858, X1: 552, Y1: 901},
		{X0: 90, Y0: 854, X1: 552, Y1: 919},
		{X0: 87, Y0: 857, X1: 550, Y1: 901},
	}
	if got := e.ExtractText(0, boxes, Fallback); got != "HWT03-001663-A" {
		t.Fatalf("ExtractText() = %q, want HWT03-001663-A", got)
	}
	if engine.calls != 3 {
		t.Fatalf("engine called %d times, want 3", engine.calls)
	}
}

func TestExtractTextAllBoxesFail(t *testing.T) {
	engine := &scriptedEngine{steps: []scriptedStep{
		{err: errors.New("fail")},
		{err: errors.New("fail")},
	}}
	e := New(&fakeProvider{pages: []fakePage{scannedPage()}},
		WithEngine(engine),
		WithRasterizer(&stubRasterizer{width: 100, height: 100}),
	)

	boxes := []geom.Rect{{X0: 0, Y0: 0, X1: 50, Y1: 50}, {X0: 10, Y0: 10, X1: 60, Y1: 60}}
	if got := e.ExtractText(0, boxes, Fallback); got != Fallback {
		t.Fatalf("ExtractText() = %q, want fallback", got)
	}
}

func TestExtractTextNeverPanicsOnAnyPage(t *testing.T) {
	e := New(&fakeProvider{pages: []fakePage{readablePage()}},
		WithRasterizer(&stubRasterizer{width: 100, height: 100}),
	)
	boxes := []geom.Rect{{X0: 0, Y0: 0, X1: 10, Y1: 10}}
	for _, page := range []int{-3, 0, 1, 100} {
		got := e.ExtractText(page, boxes, Fallback)
		if got != Fallback && page != 0 {
			t.Fatalf("ExtractText(page=%d) = %q, want fallback", page, got)
		}
	}
}

func TestOCRReaderCachesPageImage(t *testing.T) {
	ras := &stubRasterizer{width: 1000, height: 1000}
	engine := &scriptedEngine{steps: []scriptedStep{{text: ""}, {text: ""}, {text: ""}}}
	e := New(&fakeProvider{pages: []fakePage{scannedPage()}},
		WithEngine(engine), WithRasterizer(ras))

	boxes := []geom.Rect{
		{X0: 0, Y0: 0, X1: 100, Y1: 100},
		{X0: 100, Y0: 0, X1: 200, Y1: 100},
		{X0: 200, Y0: 0, X1: 300, Y1: 100},
	}
	e.ExtractText(0, boxes, Fallback)
	if ras.calls != 1 {
		t.Fatalf("rasterized %d times for one page, want 1", ras.calls)
	}
}

func TestOCRReaderClampsOutOfBoundsBox(t *testing.T) {
	engine := &scriptedEngine{steps: []scriptedStep{{text: "HL - OC"}}}
	e := New(&fakeProvider{pages: []fakePage{scannedPage()}},
		WithEngine(engine),
		WithRasterizer(&stubRasterizer{width: 200, height: 200}),
	)

	// Box far larger than the page image: must clamp, not fault.
	boxes := []geom.Rect{{X0: -500, Y0: -500, X1: 5000, Y1: 5000}}
	if got := e.ExtractText(0, boxes, Fallback); got != "HL - OC" {
		t.Fatalf("ExtractText() = %q, want HL - OC", got)
	}
}

func TestOpenMissingDocument(t *testing.T) {
	_, err := Open("testdata/does-not-exist.pdf")
	if !errors.Is(err, ErrDocumentOpen) {
		t.Fatalf("Open() error = %v, want ErrDocumentOpen", err)
	}
}
