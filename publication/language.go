package publication

import (
	"slices"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

var (
	rtlLanguages = []string{"ar", "fa", "he", "ur", "yi", "ps", "sd", "ug", "dv", "ckb"}
	cjkLanguages = []string{"zh", "ja", "ko"}
)

func baseIn(tag language.Tag, list []string) bool {
	base, confidence := tag.Base()
	if confidence == language.No {
		return false
	}
	return slices.Contains(list, base.String())
}

// IsRTLLanguage reports whether language is written right to left.
func IsRTLLanguage(tag language.Tag) bool {
	return baseIn(tag, rtlLanguages)
}

// IsCJKLanguage reports whether language is Chinese, Japanese or Korean.
func IsCJKLanguage(tag language.Tag) bool {
	return baseIn(tag, cjkLanguages)
}

// IsArabicScript reports whether language uses ligature heavy Arabic script
// (Arabic or Persian).
func IsArabicScript(tag language.Tag) bool {
	return baseIn(tag, []string{"ar", "fa"})
}

// LanguageName returns English name of the primary language.
func (m Metadata) LanguageName() string {
	tag := m.Language()
	if tag == language.Und {
		return ""
	}
	return display.English.Languages().Name(tag)
}
