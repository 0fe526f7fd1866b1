package epub

import (
	"fmt"

	"github.com/gosimple/slug"

	"epubnav/common"
	"epubnav/prefs"
)

// Preset is a named group of preference changes applied together.
type Preset struct {
	ID      string
	Title   string
	changes func(m *prefs.MutablePreferences)
}

func newPreset(title string, changes func(m *prefs.MutablePreferences)) Preset {
	return Preset{ID: slug.Make(title), Title: title, changes: changes}
}

// Apply makes preset changes in m.
func (p Preset) Apply(m *prefs.MutablePreferences) {
	p.changes(m)
}

// Presets available for reflowable publications.
var Presets = []Preset{
	newPreset("Increase legibility", func(m *prefs.MutablePreferences) {
		WordSpacingKey.Set(m, 0.6)
		FontSizeKey.Set(m, 1.4)
	}),
	newPreset("Document", func(m *prefs.MutablePreferences) {
		OverflowKey.Set(m, common.OverflowScrolled)
	}),
	newPreset("Ebook", func(m *prefs.MutablePreferences) {
		OverflowKey.Set(m, common.OverflowPaginated)
	}),
	newPreset("Manga", func(m *prefs.MutablePreferences) {
		OverflowKey.Set(m, common.OverflowPaginated)
	}),
}

// FindPreset looks preset up by identifier or title.
func FindPreset(name string) (Preset, error) {
	id := slug.Make(name)
	for _, p := range Presets {
		if p.ID == id {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("unknown preset %q", name)
}
