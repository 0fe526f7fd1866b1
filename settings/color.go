package settings

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/maruel/natural"
	"golang.org/x/text/language"

	"epubnav/prefs"
)

// Color is ARGB color value, zero means automatic color chosen by the
// reading system.
type Color uint32

// Auto lets reading system pick the color.
const Auto Color = 0

// RGB returns opaque color.
func RGB(r, g, b uint8) Color {
	return Color(0xFF000000 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// ParseHex parses #rgb and #rrggbb notations.
func ParseHex(s string) (Color, error) {
	h, ok := strings.CutPrefix(s, "#")
	if !ok {
		return Auto, fmt.Errorf("color %q must start with #", s)
	}
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return Auto, fmt.Errorf("color %q must have 3 or 6 hex digits", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Auto, fmt.Errorf("unable to parse color %q: %w", s, err)
	}
	return Color(0xFF000000 | uint32(v)), nil
}

func (c Color) IsAuto() bool {
	return c == Auto
}

// Hex returns #RRGGBB notation, alpha is ignored.
func (c Color) Hex() string {
	return fmt.Sprintf("#%06X", uint32(c)&0xFFFFFF)
}

func (c Color) String() string {
	if c.IsAuto() {
		return "auto"
	}
	return c.Hex()
}

// Palette is a set of named colors. Names are kept in natural order so
// lookups by color are deterministic.
type Palette struct {
	names  []string
	colors map[string]Color
}

// NewPalette builds palette from name to color mapping.
func NewPalette(colors map[string]Color) *Palette {
	p := &Palette{colors: make(map[string]Color, len(colors))}
	for name, c := range colors {
		if len(name) == 0 || c.IsAuto() {
			continue
		}
		p.colors[name] = c
		p.names = append(p.names, name)
	}
	sort.Sort(natural.StringSlice(p.names))
	return p
}

// Names returns palette names in natural order.
func (p *Palette) Names() []string {
	if p == nil {
		return nil
	}
	return slices.Clone(p.names)
}

// Lookup returns color by name.
func (p *Palette) Lookup(name string) (Color, bool) {
	if p == nil {
		return Auto, false
	}
	c, ok := p.colors[name]
	return c, ok
}

// NameOf returns first name (in natural order) of color c.
func (p *Palette) NameOf(c Color) (string, bool) {
	if p == nil {
		return "", false
	}
	for _, n := range p.names {
		if p.colors[n] == c {
			return n, true
		}
	}
	return "", false
}

type colorCoder struct {
	palette *Palette
}

// ColorCoder stores colors by palette name when possible, as integer
// otherwise. Anything it cannot interpret decodes to Auto.
func ColorCoder(palette *Palette) prefs.Coder[Color] {
	return colorCoder{palette: palette}
}

func (c colorCoder) Encode(v Color) any {
	if v.IsAuto() {
		return nil
	}
	if name, ok := c.palette.NameOf(v); ok {
		return name
	}
	return float64(v)
}

func (c colorCoder) Decode(raw any) (Color, bool) {
	switch v := raw.(type) {
	case float64:
		if v < 0 || v > math.MaxUint32 || v != math.Trunc(v) {
			return Auto, true
		}
		return Color(uint32(v)), true
	case string:
		if col, ok := c.palette.Lookup(v); ok {
			return col, true
		}
		if col, err := ParseHex(v); err == nil {
			return col, true
		}
	}
	return Auto, true
}

// ColorSetting is a color with an optional palette of named entries.
type ColorSetting struct {
	Setting[Color]
	Palette *Palette
}

// NewColor creates color setting.
func NewColor(key prefs.Key[Color], value Color, palette *Palette, activator Activator) *ColorSetting {
	s := &ColorSetting{
		Setting: Setting[Color]{Key: key, Value: value, Activator: activator},
		Palette: palette,
	}
	s.Format = func(_ language.Tag, c Color) string {
		if name, ok := palette.NameOf(c); ok {
			return name
		}
		return c.String()
	}
	return s
}
