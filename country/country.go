// Package country resolves two-letter market codes and English country
// names for dieline field enrichment, and reports whether the EU Tobacco
// Products Directive applies to the market.
package country

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Flag values reported for EUTPD applicability.
const (
	EUTPDApplies    = "EUTPD"
	EUTPDNotApplies = "-"
)

// eutpdMembers lists the EU member states the directive covers.
var eutpdMembers = map[string]bool{
	"AT": true, "BE": true, "BG": true, "HR": true, "CY": true,
	"CZ": true, "DK": true, "EE": true, "FI": true, "FR": true,
	"DE": true, "GR": true, "HU": true, "IE": true, "IT": true,
	"LV": true, "LT": true, "LU": true, "MT": true, "NL": true,
	"PL": true, "PT": true, "RO": true, "SK": true, "SI": true,
	"ES": true, "SE": true,
}

// extraMarkets are non-EU markets that appear on dielines.
var extraMarkets = []string{"CH", "GB", "IS", "MD", "NO", "RS", "TR", "UA"}

// Info is the enrichment result for one market.
type Info struct {
	Code  string
	Name  string
	EUTPD string
}

func knownCodes() []string {
	codes := make([]string, 0, len(eutpdMembers)+len(extraMarkets))
	for c := range eutpdMembers {
		codes = append(codes, c)
	}
	codes = append(codes, extraMarkets...)
	sort.Strings(codes)
	return codes
}

func eutpdFlag(code string) string {
	if eutpdMembers[code] {
		return EUTPDApplies
	}
	return EUTPDNotApplies
}

// ByCode resolves a known two-letter market code.
func ByCode(code string) (Info, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 2 {
		return Info{}, false
	}
	if !eutpdMembers[code] && !contains(extraMarkets, code) {
		return Info{}, false
	}
	region, err := language.ParseRegion(code)
	if err != nil {
		return Info{}, false
	}
	name := display.English.Regions().Name(region)
	if name == "" {
		return Info{}, false
	}
	return Info{Code: code, Name: name, EUTPD: eutpdFlag(code)}, true
}

// ByName resolves a known market by its English name, case-insensitively.
func ByName(name string) (Info, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Info{}, false
	}
	for _, code := range knownCodes() {
		info, ok := ByCode(code)
		if ok && strings.EqualFold(info.Name, name) {
			return info, true
		}
	}
	return Info{}, false
}

// Enrich resolves a market from free-form extracted text. It tries the
// whole text as a code or name first, then scans for an uppercase
// two-letter token, so strings like "EUTPD 11-1 PL - SET 2" resolve to
// Poland.
func Enrich(text string) (Info, bool) {
	clean := strings.TrimSpace(text)
	if info, ok := ByCode(clean); ok {
		return info, true
	}
	if info, ok := ByName(clean); ok {
		return info, true
	}

	tokens := strings.FieldsFunc(clean, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	for _, tok := range tokens {
		if len(tok) != 2 || tok != strings.ToUpper(tok) {
			continue
		}
		if info, ok := ByCode(tok); ok {
			return info, true
		}
	}
	return Info{}, false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
