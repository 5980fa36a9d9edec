package locale

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"en", "en"},
		{"uk", "uk"},
		{"uk-UA", "uk"},
		{"de_DE", "de"},
		{"PL", "pl"},
		{"fr", "en"},
		{"", "en"},
		{"zz-ZZ", "en"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTFallsBackToEnglish(t *testing.T) {
	want := T("en", "menu")
	if want == "" {
		t.Fatal("English menu message missing")
	}
	if got := T("fr", "menu"); got != want {
		t.Errorf("T(fr, menu) = %q, want English fallback %q", got, want)
	}
	if got := T("", "menu"); got != want {
		t.Errorf("T(\"\", menu) = %q, want English fallback", got)
	}
}

func TestTf(t *testing.T) {
	got := Tf("en", "welcome", "Ukraine", "UAH")
	if !strings.Contains(got, "Ukraine") || !strings.Contains(got, "UAH") {
		t.Errorf("Tf(welcome) = %q, want country and currency interpolated", got)
	}
}

// Every language table must carry the same keys as the English one, and
// every format message must keep the same verb count, or Tf output breaks
// for that language.
func TestMessageTablesComplete(t *testing.T) {
	verbCount := func(s string) int {
		n := 0
		for i := 0; i < len(s)-1; i++ {
			if s[i] == '%' {
				if s[i+1] == '%' {
					i++
					continue
				}
				n++
			}
		}
		return n
	}
	en := messages["en"]
	for _, lang := range Supported() {
		if lang == "en" {
			continue
		}
		m, ok := messages[lang]
		if !ok {
			t.Errorf("no message table for %s", lang)
			continue
		}
		for key, enMsg := range en {
			msg, ok := m[key]
			if !ok {
				t.Errorf("%s: missing key %q", lang, key)
				continue
			}
			if verbCount(msg) != verbCount(enMsg) {
				t.Errorf("%s: key %q has %d format verbs, English has %d",
					lang, key, verbCount(msg), verbCount(enMsg))
			}
		}
	}
}
