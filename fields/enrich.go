package fields

import (
	"github.com/wudi/pdffield/country"
	"github.com/wudi/pdffield/extract"
)

// EnrichCountries derives the country-based values (code, name, EUTPD
// membership) from their extracted source text. Values whose source does
// not name a known country keep the fallback sentinel. The input slice is
// not modified.
func EnrichCountries(descs []Descriptor, values []Value) []Value {
	out := make([]Value, len(values))
	copy(out, values)

	for i := range out {
		if i >= len(descs) || descs[i].Enrich == EnrichNone {
			continue
		}
		info, ok := country.Enrich(out[i].Text)
		if !ok {
			out[i].Text = extract.Fallback
			out[i].Valid = false
			continue
		}
		switch descs[i].Enrich {
		case EnrichCountryCode:
			out[i].Text = info.Code
		case EnrichCountryName:
			out[i].Text = info.Name
		case EnrichEUTPD:
			out[i].Text = info.EUTPD
		}
		out[i].Valid = true
	}
	return out
}
