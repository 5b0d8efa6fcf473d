package fields

import (
	"fmt"
	"testing"

	"github.com/wudi/pdffield/extract"
	"github.com/wudi/pdffield/geom"
)

// fakeExtractor returns canned text keyed by the first box of each request.
type fakeExtractor struct {
	pages   int
	byBox   map[geom.Rect]string
	calls   []int
	lastBox []geom.Rect
}

func (f *fakeExtractor) PageCount() int { return f.pages }

func (f *fakeExtractor) ExtractText(page int, boxes []geom.Rect, fallback string) string {
	f.calls = append(f.calls, page)
	f.lastBox = boxes
	if len(boxes) == 0 {
		return fallback
	}
	if text, ok := f.byBox[boxes[0]]; ok {
		return text
	}
	return fallback
}

func TestRegistryOrderAndCopy(t *testing.T) {
	first := Registry()
	wantOrder := []string{
		"HWT Nummer", "Packungsart", "Gitternetz", "Gitternetz Version",
		"EUTPD", "LanderKurzel", "Land", "Set", "Freigabedatum",
		"Software", "Software Version", "CHW Calculation", "HWC Calculation",
	}
	if len(first) != len(wantOrder) {
		t.Fatalf("Registry() has %d fields, want %d", len(first), len(wantOrder))
	}
	for i, name := range wantOrder {
		if first[i].Name != name {
			t.Fatalf("Registry()[%d] = %q, want %q", i, first[i].Name, name)
		}
	}

	first[0].Name = "mutated"
	if Registry()[0].Name != "HWT Nummer" {
		t.Fatal("Registry() shares backing storage with callers")
	}
}

func TestPageRuleResolve(t *testing.T) {
	tests := []struct {
		name  string
		rule  PageRule
		total int
		want  int
	}{
		{"fixed", OnPage(2), 5, 2},
		{"last of one", OnLastPage(), 1, 0},
		{"last of four", OnLastPage(), 4, 3},
		{"last of none", OnLastPage(), 0, 0},
		{"second of three", OnSecondPageOfThree(), 3, 1},
		{"second of two", OnSecondPageOfThree(), 2, 0},
		{"second of five", OnSecondPageOfThree(), 5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rule.Resolve(tt.total); got != tt.want {
				t.Fatalf("Resolve(%d) = %d, want %d", tt.total, got, tt.want)
			}
		})
	}
}

func TestExtractAll(t *testing.T) {
	hwtBox := geom.Rect{X0: 90, Y0: 858, X1: 552, Y1: 901}
	dateBox := geom.Rect{X0: 443, Y0: 3164, X1: 634, Y1: 3192}
	ex := &fakeExtractor{pages: 1, byBox: map[geom.Rect]string{
		hwtBox:  "HWT03-001663-A",
		dateBox: "09.11.2020",
	}}

	values := ExtractAll(ex, Registry())
	if len(values) != len(Registry()) {
		t.Fatalf("got %d values, want %d", len(values), len(Registry()))
	}

	byName := map[string]Value{}
	for _, v := range values {
		byName[v.Name] = v
	}
	if v := byName["HWT Nummer"]; v.Text != "HWT03-001663-A" || !v.Valid {
		t.Fatalf("HWT Nummer = %+v", v)
	}
	if v := byName["Freigabedatum"]; v.Text != "09.11.2020" || !v.Valid {
		t.Fatalf("Freigabedatum = %+v", v)
	}
	if v := byName["Gitternetz"]; v.Text != extract.Fallback || v.Valid {
		t.Fatalf("missing field = %+v, want fallback and invalid", v)
	}
}

func TestExtractAllResolvesPagesPerDocument(t *testing.T) {
	descs := []Descriptor{
		{Name: "front", Page: OnPage(0)},
		{Name: "calc", Page: OnSecondPageOfThree()},
		{Name: "tail", Page: OnLastPage()},
	}

	ex := &fakeExtractor{pages: 3}
	ExtractAll(ex, descs)
	if fmt.Sprint(ex.calls) != "[0 1 2]" {
		t.Fatalf("three-page document pages = %v, want [0 1 2]", ex.calls)
	}

	ex = &fakeExtractor{pages: 2}
	ExtractAll(ex, descs)
	if fmt.Sprint(ex.calls) != "[0 0 1]" {
		t.Fatalf("two-page document pages = %v, want [0 0 1]", ex.calls)
	}
}

func TestPatternValidation(t *testing.T) {
	reg := Registry()
	byName := map[string]Descriptor{}
	for _, d := range reg {
		byName[d.Name] = d
	}

	tests := []struct {
		field string
		text  string
		valid bool
	}{
		{"HWT Nummer", "HWT03-001663-A", true},
		{"HWT Nummer", "HWT03-1663-A", false},
		{"Packungsart", "HL - RCB", true},
		{"Gitternetz", "03-1234", true},
		{"Gitternetz", "3-1234", false},
		{"Set", "SET 2", true},
		{"Set", "SETS", false},
		{"Freigabedatum", "09.11.2020", true},
		{"Freigabedatum", "9.11.20", false},
		{"Software Version", "(14)", true},
		{"CHW Calculation", "CHW03-1234-AB", true},
		{"HWC Calculation", "HWC03-001663-A", true},
	}
	for _, tt := range tests {
		d, ok := byName[tt.field]
		if !ok {
			t.Fatalf("unknown field %q", tt.field)
		}
		if got := d.Pattern.MatchString(tt.text); got != tt.valid {
			t.Errorf("%s pattern match %q = %v, want %v", tt.field, tt.text, got, tt.valid)
		}
	}
}
