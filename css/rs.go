package css

// Typefaces are font stacks reading system offers for typeface
// recommendations of Readium CSS (--RS__oldStyleTf and friends).
type Typefaces struct {
	OldStyle  []string
	Modern    []string
	Sans      []string
	Humanist  []string
	Monospace []string
}

// RsProperties are reading system properties of Readium CSS, defaults the
// reading system applies before user settings.
type RsProperties struct {
	TypeScale *float64
	Typefaces Typefaces

	// Font stacks for Japanese publications
	SerifJa      []string
	SansSerifJa  []string
	SerifJaV     []string
	SansSerifJaV []string
}

// ToProperties maps reading system settings to --RS__ custom properties.
func (r RsProperties) ToProperties() Properties {
	b := newBuilder(RsPrefix)

	b.number("typeScale", r.TypeScale)

	b.fonts("oldStyleTf", r.Typefaces.OldStyle)
	b.fonts("modernTf", r.Typefaces.Modern)
	b.fonts("sansTf", r.Typefaces.Sans)
	b.fonts("humanistTf", r.Typefaces.Humanist)
	b.fonts("monospaceTf", r.Typefaces.Monospace)

	b.fonts("serif-ja", r.SerifJa)
	b.fonts("sans-serif-ja", r.SansSerifJa)
	b.fonts("serif-ja-v", r.SerifJaV)
	b.fonts("sans-serif-ja-v", r.SansSerifJaV)
	return b.props
}
