package settings

import (
	"slices"

	"golang.org/x/text/language"

	"epubnav/prefs"
)

// Font is a typeface known to the navigator. Zero value is the publication
// original font.
type Font struct {
	Name string
}

// Original keeps typeface declared by publication.
var Original = Font{}

// Common fonts shipped with reading systems.
var (
	PTSerif          = Font{Name: "PT Serif"}
	Roboto           = Font{Name: "Roboto"}
	SourceSansPro    = Font{Name: "Source Sans Pro"}
	Vollkorn         = Font{Name: "Vollkorn"}
	OpenDyslexic     = Font{Name: "OpenDyslexic"}
	AccessibleDfA    = Font{Name: "AccessibleDfA"}
	IAWriterDuospace = Font{Name: "IA Writer Duospace"}
)

// DefaultFonts lists typefaces offered when configuration names none.
var DefaultFonts = []Font{
	Original, PTSerif, Roboto, SourceSansPro, Vollkorn, OpenDyslexic, AccessibleDfA, IAWriterDuospace,
}

func (f Font) IsOriginal() bool {
	return len(f.Name) == 0
}

func (f Font) String() string {
	if f.IsOriginal() {
		return "Original"
	}
	return f.Name
}

// FontsFromNames builds font list with Original always first.
func FontsFromNames(names []string) []Font {
	fonts := []Font{Original}
	for _, n := range names {
		f := Font{Name: n}
		if f.IsOriginal() || slices.Contains(fonts, f) {
			continue
		}
		fonts = append(fonts, f)
	}
	return fonts
}

type fontCoder struct {
	fonts []Font
}

// FontCoder stores fonts by name. Names which are not in fonts decode to
// Original.
func FontCoder(fonts []Font) prefs.Coder[Font] {
	return fontCoder{fonts: fonts}
}

func (c fontCoder) Encode(f Font) any {
	if f.IsOriginal() {
		return nil
	}
	return f.Name
}

func (c fontCoder) Decode(raw any) (Font, bool) {
	name, ok := raw.(string)
	if !ok {
		return Original, true
	}
	for _, f := range c.fonts {
		if f.Name == name {
			return f, true
		}
	}
	return Original, true
}

// NewFont creates font setting choosing from fonts.
func NewFont(key prefs.Key[Font], value Font, fonts []Font, activator Activator) *EnumSetting[Font] {
	s := NewEnum(key, value, fonts, Original, activator)
	s.Format = func(_ language.Tag, f Font) string {
		return f.String()
	}
	return s
}
