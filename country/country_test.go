package country

import "testing"

func TestByCode(t *testing.T) {
	tests := []struct {
		code string
		want Info
		ok   bool
	}{
		{"PL", Info{Code: "PL", Name: "Poland", EUTPD: EUTPDApplies}, true},
		{"de", Info{Code: "DE", Name: "Germany", EUTPD: EUTPDApplies}, true},
		{"CH", Info{Code: "CH", Name: "Switzerland", EUTPD: EUTPDNotApplies}, true},
		{" gb ", Info{Code: "GB", Name: "United Kingdom", EUTPD: EUTPDNotApplies}, true},
		{"XX", Info{}, false},
		{"POL", Info{}, false},
		{"", Info{}, false},
	}
	for _, tt := range tests {
		got, ok := ByCode(tt.code)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ByCode(%q) = %+v, %v; want %+v, %v", tt.code, got, ok, tt.want, tt.ok)
		}
	}
}

func TestByName(t *testing.T) {
	info, ok := ByName("poland")
	if !ok || info.Code != "PL" {
		t.Fatalf("ByName(poland) = %+v, %v", info, ok)
	}
	if _, ok := ByName("Atlantis"); ok {
		t.Fatal("ByName(Atlantis) resolved")
	}
}

func TestEnrichScansTokens(t *testing.T) {
	tests := []struct {
		text string
		code string
		ok   bool
	}{
		{"EUTPD 11-1 PL - SET 2", "PL", true},
		{"CH - SET 3", "CH", true},
		{"Germany", "DE", true},
		{"it", "IT", true},
		{"lowercase pl token", "", false},
		{"-", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := Enrich(tt.text)
		if ok != tt.ok {
			t.Errorf("Enrich(%q) ok = %v, want %v", tt.text, ok, tt.ok)
			continue
		}
		if ok && got.Code != tt.code {
			t.Errorf("Enrich(%q) code = %q, want %q", tt.text, got.Code, tt.code)
		}
	}
}

func TestEUTPDMembership(t *testing.T) {
	for _, code := range []string{"AT", "SE", "MT"} {
		info, ok := ByCode(code)
		if !ok || info.EUTPD != EUTPDApplies {
			t.Errorf("ByCode(%s) EUTPD = %+v, %v; want member", code, info, ok)
		}
	}
	for _, code := range []string{"NO", "RS", "UA"} {
		info, ok := ByCode(code)
		if !ok || info.EUTPD != EUTPDNotApplies {
			t.Errorf("ByCode(%s) EUTPD = %+v, %v; want non-member", code, info, ok)
		}
	}
}
