package assemble

import (
	"strings"

	"golang.org/x/text/language"

	"gallery-engine/internal/gallery"
)

// SelectContent picks the localized content for hint: a content entry in
// the hint's language, else the exhibition's default language, else the
// first entry, else a placeholder named DefaultName. The returned locale is
// the chosen entry's language code.
func SelectContent(ex gallery.Exhibition, hint string) (gallery.Content, string) {
	if len(ex.Contents) == 0 {
		return gallery.Content{Name: DefaultName}, ""
	}

	if c, ok := findLanguage(ex.Contents, hint); ok {
		return c, c.LanguageCode
	}
	for _, opt := range ex.LanguageOptions {
		if !opt.IsDefault {
			continue
		}
		if c, ok := findLanguage(ex.Contents, opt.Code); ok {
			return c, c.LanguageCode
		}
	}
	return ex.Contents[0], ex.Contents[0].LanguageCode
}

func findLanguage(contents []gallery.Content, code string) (gallery.Content, bool) {
	want, ok := baseOf(code)
	if !ok {
		return gallery.Content{}, false
	}
	for _, c := range contents {
		if got, ok := baseOf(c.LanguageCode); ok && got == want {
			return c, true
		}
	}
	return gallery.Content{}, false
}

// baseOf reduces a BCP 47 tag such as "vi-VN" or "en_US" to its base
// language.
func baseOf(code string) (language.Base, bool) {
	code = strings.TrimSpace(strings.ReplaceAll(code, "_", "-"))
	if code == "" {
		return language.Base{}, false
	}
	tag, err := language.Parse(code)
	if err != nil {
		return language.Base{}, false
	}
	b, conf := tag.Base()
	if conf == language.No {
		return language.Base{}, false
	}
	return b, true
}
