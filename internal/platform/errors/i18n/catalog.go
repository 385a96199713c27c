// Package i18n renders localized error messages from the "errors" namespace
// of the locale catalog.
package i18n

import (
	"strings"
	"sync"
	"text/template"

	i18ncatalog "github.com/louisbranch/talentcalc/internal/platform/i18n/catalog"
)

// Catalog holds the compiled error templates of one locale.
type Catalog struct {
	locale string
	raw    map[string]string
	// compiled omits templates that failed to parse.
	compiled map[string]*template.Template
}

// catalogs caches one Catalog per resolved locale.
var catalogs sync.Map

// GetCatalog returns the catalog for locale, falling back through the
// locale catalog to en-US.
func GetCatalog(locale string) *Catalog {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		locale = i18ncatalog.BaseLocale
	}
	if cached, ok := catalogs.Load(locale); ok {
		return cached.(*Catalog)
	}
	resolved, messages := i18ncatalog.Default().NamespaceMessagesWithFallback(locale, "errors")
	cat, _ := catalogs.LoadOrStore(resolved, newCatalog(resolved, messages))
	if resolved != locale {
		catalogs.LoadOrStore(locale, cat)
	}
	return cat.(*Catalog)
}

func newCatalog(locale string, messages map[string]string) *Catalog {
	c := &Catalog{
		locale:   locale,
		raw:      make(map[string]string, len(messages)),
		compiled: make(map[string]*template.Template, len(messages)),
	}
	for code, text := range messages {
		c.raw[code] = text
		t, err := template.New(code).Parse(text)
		if err == nil {
			c.compiled[code] = t
		}
	}
	return c
}

// Format renders the template for code with metadata. Unknown codes render
// as the code itself; templates that fail render as their raw text. Missing
// metadata keys render as "<no value>".
func (c *Catalog) Format(code string, metadata map[string]string) string {
	text, ok := c.raw[code]
	if !ok {
		return code
	}
	t, ok := c.compiled[code]
	if !ok {
		return text
	}
	if metadata == nil {
		metadata = map[string]string{}
	}
	var b strings.Builder
	if err := t.Execute(&b, metadata); err != nil {
		return text
	}
	return b.String()
}
