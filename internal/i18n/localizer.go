package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Localizer renders keys for one locale.
type Localizer struct {
	bundle *Bundle
	locale string
	local  *message.Printer
	base   *message.Printer
}

// NewLocalizer matches requested against the loaded locales. An empty or
// unmatched request selects BaseLocale.
func (b *Bundle) NewLocalizer(requested string) *Localizer {
	locale := b.match(requested)
	return &Localizer{
		bundle: b,
		locale: locale,
		local:  message.NewPrinter(language.MustParse(locale), message.Catalog(b.builder)),
		base:   message.NewPrinter(language.MustParse(BaseLocale), message.Catalog(b.builder)),
	}
}

func (b *Bundle) match(requested string) string {
	if requested == "" {
		return BaseLocale
	}
	want, err := language.Parse(requested)
	if err != nil {
		return BaseLocale
	}
	locales := b.Locales()
	tags := make([]language.Tag, 0, len(locales)+1)
	tags = append(tags, language.MustParse(BaseLocale))
	for _, locale := range locales {
		tags = append(tags, language.MustParse(locale))
	}
	_, index, confidence := language.NewMatcher(tags).Match(want)
	if confidence == language.No || index == 0 {
		return BaseLocale
	}
	return locales[index-1]
}

// Locale returns the selected locale.
func (l *Localizer) Locale() string {
	return l.locale
}

// Has reports whether key resolves in the selected or base locale.
func (l *Localizer) Has(key string) bool {
	return l.bundle.Has(l.locale, key) || l.bundle.Has(BaseLocale, key)
}

// Text renders key with args. Unknown keys are returned unchanged.
func (l *Localizer) Text(key string, args ...any) string {
	switch {
	case l.bundle.Has(l.locale, key):
		return l.local.Sprintf(key, args...)
	case l.bundle.Has(BaseLocale, key):
		return l.base.Sprintf(key, args...)
	default:
		return key
	}
}

// Texter is the lookup surface consumed by help rendering and the dispatcher.
type Texter interface {
	Text(key string, args ...any) string
	Has(key string) bool
}
