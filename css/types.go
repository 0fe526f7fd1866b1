package css

import (
	"fmt"
)

// View is user view mode.
type View string

const (
	ViewPaged  View = "readium-paged-on"
	ViewScroll View = "readium-scroll-on"
)

// Appearance is reading mode.
type Appearance string

const (
	AppearanceSepia Appearance = "readium-sepia-on"
	AppearanceNight Appearance = "readium-night-on"
)

// ColCount is number of CSS columns, "auto", "1" or "2".
type ColCount string

// TextAlign is CSS text alignment supported by Readium CSS.
type TextAlign string

const (
	TextAlignLeft    TextAlign = "left"
	TextAlignRight   TextAlign = "right"
	TextAlignJustify TextAlign = "justify"
)

// Hyphens is CSS hyphenation mode.
type Hyphens string

const (
	HyphensNone Hyphens = "none"
	HyphensAuto Hyphens = "auto"
)

// Ligatures is CSS ligatures mode.
type Ligatures string

const (
	LigaturesNone   Ligatures = "none"
	LigaturesCommon Ligatures = "common-ligatures"
)

// Color is serialized CSS color, empty value means no color.
type Color string

// ARGB returns #RRGGBB notation of packed color, alpha is ignored.
func ARGB(c uint32) Color {
	return Color(fmt.Sprintf("#%06X", c&0xFFFFFF))
}
