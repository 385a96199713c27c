package i18n

import (
	"testing"

	"golang.org/x/text/language"
)

func TestMatchAcceptLanguage(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{header: "", want: "en-US"},
		{header: "pt-BR,pt;q=0.9", want: "pt-BR"},
		{header: "pt", want: "pt-BR"},
		{header: "fr-FR,en;q=0.5", want: "en-US"},
		{header: "de", want: "en-US"},
		{header: "not a header;;", want: "en-US"},
	}
	for _, tt := range tests {
		if got := LocaleForTag(MatchAcceptLanguage(tt.header)); got != tt.want {
			t.Fatalf("MatchAcceptLanguage(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestParseTag(t *testing.T) {
	if tag, ok := ParseTag("pt-BR"); !ok || tag != language.MustParse("pt-BR") {
		t.Fatalf("ParseTag(pt-BR) = %v, %v", tag, ok)
	}
	if tag, ok := ParseTag("??"); ok || tag != DefaultTag() {
		t.Fatalf("ParseTag(??) = %v, %v", tag, ok)
	}
}

func TestPrinterUsesCatalog(t *testing.T) {
	p := Printer(language.MustParse("pt-BR"))
	if got := p.Sprintf("talents.summary.spent", 5, 61); got != "5 de 61 pontos gastos" {
		t.Fatalf("pt-BR = %q", got)
	}
	p = Printer(DefaultTag())
	if got := p.Sprintf("talents.summary.spent", 5, 61); got != "5 of 61 points spent" {
		t.Fatalf("en-US = %q", got)
	}
}

func TestSupportedTagsIsCopy(t *testing.T) {
	tags := SupportedTags()
	tags[0] = language.French
	if DefaultTag() != language.MustParse("en-US") {
		t.Fatal("default tag changed through SupportedTags")
	}
}
