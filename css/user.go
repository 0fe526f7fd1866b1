package css

// UserProperties are user settings properties of Readium CSS. Zero or nil
// fields are not emitted.
//
// Some properties only make sense together with a flag: FontFamily and
// A11yNormalize need FontOverride, advanced typography needs
// AdvancedSettings, image filters need night appearance. Properties whose
// requirement is not met are dropped on output.
type UserProperties struct {
	View View

	ColCount    ColCount
	PageMargins *Length

	Appearance   Appearance
	DarkenImages *bool
	InvertImages *bool

	TextColor       Color
	BackgroundColor Color

	FontOverride *bool
	FontFamily   []string
	FontSize     *Length

	AdvancedSettings *bool
	TypeScale        *Length
	TextAlign        TextAlign
	LineHeight       *Length
	ParaSpacing      *Length
	ParaIndent       *Length
	WordSpacing      *Length
	LetterSpacing    *Length
	BodyHyphens      Hyphens
	Ligatures        Ligatures

	A11yNormalize *bool
}

// ToProperties maps user settings to --USER__ custom properties.
func (u UserProperties) ToProperties() Properties {
	b := newBuilder(UserPrefix)

	b.put("view", string(u.View))

	b.put("colCount", string(u.ColCount))
	b.length("pageMargins", u.PageMargins)

	b.put("appearance", string(u.Appearance))
	if u.Appearance == AppearanceNight {
		b.flag("darkenImages", "darken", u.DarkenImages)
		b.flag("invertImages", "invert", u.InvertImages)
	}

	b.put("textColor", string(u.TextColor))
	b.put("backgroundColor", string(u.BackgroundColor))

	b.flag("fontOverride", "font", u.FontOverride)
	if b.has("fontOverride") {
		b.fonts("fontFamily", u.FontFamily)
	}
	b.length("fontSize", u.FontSize)

	b.flag("advancedSettings", "advanced", u.AdvancedSettings)
	if b.has("advancedSettings") {
		b.length("typeScale", u.TypeScale)
		b.put("textAlign", string(u.TextAlign))
		b.length("lineHeight", u.LineHeight)
		b.length("paraSpacing", u.ParaSpacing)
		b.length("paraIndent", u.ParaIndent)
		b.length("wordSpacing", u.WordSpacing)
		b.length("letterSpacing", u.LetterSpacing)
		b.put("bodyHyphens", string(u.BodyHyphens))
		b.put("ligatures", string(u.Ligatures))
	}

	if b.has("fontOverride") {
		b.flag("a11yNormalize", "a11y", u.A11yNormalize)
	}
	return b.props
}
