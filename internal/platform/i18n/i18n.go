// Package i18n resolves request languages against the locales shipped in
// the message catalog.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/louisbranch/talentcalc/internal/platform/i18n/catalog"
)

var supported = []language.Tag{
	language.MustParse("en-US"),
	language.MustParse("pt-BR"),
}

var matcher = language.NewMatcher(supported)

// SupportedTags returns the languages with a message catalog. The first one
// is the default.
func SupportedTags() []language.Tag {
	return append([]language.Tag(nil), supported...)
}

// DefaultTag returns the fallback language.
func DefaultTag() language.Tag {
	return supported[0]
}

// ParseTag parses value and reports whether it names a supported language.
func ParseTag(value string) (language.Tag, bool) {
	tag, err := language.Parse(strings.TrimSpace(value))
	if err != nil {
		return DefaultTag(), false
	}
	_, idx, confidence := matcher.Match(tag)
	if confidence == language.No {
		return DefaultTag(), false
	}
	return supported[idx], true
}

// MatchTags picks the best supported language for an ordered preference list.
func MatchTags(tags []language.Tag) language.Tag {
	if len(tags) == 0 {
		return DefaultTag()
	}
	_, idx, _ := matcher.Match(tags...)
	return supported[idx]
}

// MatchAcceptLanguage resolves an Accept-Language header value.
func MatchAcceptLanguage(header string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return DefaultTag()
	}
	return MatchTags(tags)
}

// LocaleForTag returns the catalog locale name for tag.
func LocaleForTag(tag language.Tag) string {
	return supportedBase(tag).String()
}

// Printer returns a message printer with the embedded catalogs registered.
func Printer(tag language.Tag) *message.Printer {
	catalog.Default()
	return message.NewPrinter(supportedBase(tag))
}

func supportedBase(tag language.Tag) language.Tag {
	for _, s := range supported {
		if s == tag {
			return s
		}
	}
	_, idx, _ := matcher.Match(tag)
	return supported[idx]
}
