// Package fields declares the catalog of named fields the extractor pulls
// from dieline documents. The catalog is an explicit, ordered registry of
// descriptors built once at startup: adding a field means adding one entry
// here (or overriding its box table via YAML), not writing code against
// the pipeline.
package fields

import (
	"regexp"

	"github.com/wudi/pdffield/extract"
	"github.com/wudi/pdffield/geom"
)

// EnrichKind marks fields whose final value is derived from country
// enrichment rather than taken verbatim from the page.
type EnrichKind int

const (
	EnrichNone EnrichKind = iota
	// EnrichCountryCode replaces the value with the matched country code.
	EnrichCountryCode
	// EnrichCountryName replaces the value with the matched country name.
	EnrichCountryName
	// EnrichEUTPD replaces the value with the EUTPD membership flag.
	EnrichEUTPD
)

// PageRule resolves which page a field lives on for a given document.
type PageRule struct {
	kind pageRuleKind
	page int
}

type pageRuleKind int

const (
	pageFixed pageRuleKind = iota
	pageLast
	pageSecondOfThree
)

// OnPage pins the field to a fixed zero-based page index.
func OnPage(page int) PageRule { return PageRule{kind: pageFixed, page: page} }

// OnLastPage pins the field to the document's last page.
func OnLastPage() PageRule { return PageRule{kind: pageLast} }

// OnSecondPageOfThree selects page 1 for three-page documents and page 0
// otherwise; some calculation blocks only exist in the three-page layout.
func OnSecondPageOfThree() PageRule { return PageRule{kind: pageSecondOfThree} }

// Resolve returns the zero-based page index for a document with the given
// page count.
func (r PageRule) Resolve(totalPages int) int {
	switch r.kind {
	case pageLast:
		if totalPages < 1 {
			return 0
		}
		return totalPages - 1
	case pageSecondOfThree:
		if totalPages == 3 {
			return 1
		}
		return 0
	default:
		return r.page
	}
}

// Descriptor declares one extractable field.
type Descriptor struct {
	// Name is the output column header.
	Name string
	// Page resolves the page the field lives on.
	Page PageRule
	// Boxes is the priority-ordered list of candidate regions. Alternates
	// compensate for layout drift across document revisions.
	Boxes []geom.Rect
	// Pattern validates the extracted value. The pipeline itself never
	// checks it; validity is reported alongside the raw value.
	Pattern *regexp.Regexp
	// Enrich derives the final value through country enrichment.
	Enrich EnrichKind
}

// registry is the built-in catalog, in output column order. Boxes are
// authored against 300 DPI page images.
var registry = []Descriptor{
	{
		Name: "HWT Nummer",
		Page: OnPage(0),
		Boxes: []geom.Rect{
			{X0: 90, Y0: 858, X1: 552, Y1: 901},
			{X0: 90, Y0: 854, X1: 552, Y1: 919},
			{X0: 87, Y0: 857, X1: 550, Y1: 901},
			{X0: 90, Y0: 858, X1: 552, Y1: 901},
			{X0: 136, Y0: 1287, X1: 828, Y1: 1351},
		},
		Pattern: regexp.MustCompile(`^HWT03-\d{6}-[A-Z]$`),
	},
	{
		Name:    "Packungsart",
		Page:    OnPage(0),
		Boxes:   []geom.Rect{{X0: 925, Y0: 98, X1: 1164, Y1: 148}},
		Pattern: regexp.MustCompile(`^HL\s*-\s*[A-Z]{2,3}$`),
	},
	{
		Name:    "Gitternetz",
		Page:    OnPage(0),
		Boxes:   []geom.Rect{{X0: 1207, Y0: 99, X1: 1447, Y1: 148}},
		Pattern: regexp.MustCompile(`^03-\d{4}$`),
	},
	{
		Name:    "Gitternetz Version",
		Page:    OnPage(0),
		Boxes:   []geom.Rect{{X0: 103, Y0: 252, X1: 190, Y1: 263}},
		Pattern: regexp.MustCompile(`.(.)$`),
	},
	{
		Name:    "EUTPD",
		Page:    OnPage(0),
		Boxes:   []geom.Rect{{X0: 3581, Y0: 98, X1: 3669, Y1: 148}},
		Pattern: regexp.MustCompile(`(?i)EUTPD`),
		Enrich:  EnrichEUTPD,
	},
	{
		Name:   "LanderKurzel",
		Page:   OnPage(0),
		Boxes:  []geom.Rect{{X0: 3581, Y0: 98, X1: 3669, Y1: 148}},
		Enrich: EnrichCountryCode,
	},
	{
		Name:   "Land",
		Page:   OnPage(0),
		Boxes:  []geom.Rect{{X0: 3581, Y0: 98, X1: 3669, Y1: 148}},
		Enrich: EnrichCountryName,
	},
	{
		Name:    "Set",
		Page:    OnPage(0),
		Boxes:   []geom.Rect{{X0: 3735, Y0: 98, X1: 3915, Y1: 148}},
		Pattern: regexp.MustCompile(`(?i)\bSET\s*\d+\b`),
	},
	{
		Name:    "Freigabedatum",
		Page:    OnPage(0),
		Boxes:   []geom.Rect{{X0: 443, Y0: 3164, X1: 634, Y1: 3192}},
		Pattern: regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}$`),
	},
	{
		Name:  "Software",
		Page:  OnPage(0),
		Boxes: []geom.Rect{{X0: 438, Y0: 3222, X1: 864, Y1: 3259}},
		// RE2 has no lookahead; the name-before-version shape is checked
		// as a whole instead.
		Pattern: regexp.MustCompile(`^[A-Za-z\s.]+\(\d+\)$`),
	},
	{
		Name:    "Software Version",
		Page:    OnPage(0),
		Boxes:   []geom.Rect{{X0: 799, Y0: 3222, X1: 864, Y1: 3259}},
		Pattern: regexp.MustCompile(`^\(\d{2}\)$`),
	},
	{
		Name:    "CHW Calculation",
		Page:    OnSecondPageOfThree(),
		Boxes:   []geom.Rect{{X0: 176, Y0: 1285, X1: 990, Y1: 1350}},
		Pattern: regexp.MustCompile(`^CHW03-\d{4}-[A-Z]{1,2}$`),
	},
	{
		Name:    "HWC Calculation",
		Page:    OnLastPage(),
		Boxes:   []geom.Rect{{X0: 130, Y0: 1285, X1: 832, Y1: 1350}},
		Pattern: regexp.MustCompile(`^HWC03-\d{6}-[A-Z]$`),
	},
}

// Registry returns a copy of the built-in catalog in output order.
func Registry() []Descriptor {
	out := make([]Descriptor, len(registry))
	copy(out, registry)
	return out
}

// Value is one extracted field.
type Value struct {
	Name string
	// Text is the extracted (possibly enriched) value, or the fallback
	// sentinel.
	Text string
	// Valid reports whether Text matches the descriptor's pattern. Fields
	// without a pattern are always valid.
	Valid bool
}

// Extractor is the slice of the pipeline the registry needs.
type Extractor interface {
	PageCount() int
	ExtractText(page int, boxes []geom.Rect, fallback string) string
}

// ExtractAll runs every descriptor against the document and reports the
// values in registry order.
func ExtractAll(ex Extractor, descs []Descriptor) []Value {
	values := make([]Value, 0, len(descs))
	for _, d := range descs {
		page := d.Page.Resolve(ex.PageCount())
		text := ex.ExtractText(page, d.Boxes, extract.Fallback)
		values = append(values, Value{
			Name:  d.Name,
			Text:  text,
			Valid: d.Pattern == nil || d.Pattern.MatchString(text),
		})
	}
	return values
}
