package epub

import (
	"math"

	"golang.org/x/text/language"

	"epubnav/common"
	"epubnav/css"
	"epubnav/settings"
)

// Readium CSS font stacks for Japanese publications.
var (
	serifJa = []string{
		"YuMincho", "Yu Mincho", "Hiragino Mincho ProN", "Hiragino Mincho Pro",
		"Source Han Serif JP", "BIZ UDPMincho", "MS PMincho", "serif",
	}
	sansSerifJa = []string{
		"YuGothic", "Yu Gothic", "Hiragino Sans", "Hiragino Kaku Gothic ProN",
		"Source Han Sans JP", "BIZ UDPGothic", "Meiryo", "MS PGothic", "sans-serif",
	}
	serifJaV = []string{
		"YuMincho", "Yu Mincho", "Hiragino Mincho ProN", "Hiragino Mincho Pro",
		"Source Han Serif JP", "BIZ UDMincho", "MS Mincho", "serif",
	}
	sansSerifJaV = []string{
		"YuGothic", "Yu Gothic", "Hiragino Sans", "Hiragino Kaku Gothic ProN",
		"Source Han Sans JP", "BIZ UDGothic", "Meiryo", "MS Gothic", "sans-serif",
	}
)

// UserProperties maps settings to Readium CSS user properties. Settings
// which are not offered produce nothing.
func (s *Settings) UserProperties() css.UserProperties {
	var u css.UserProperties

	if s.BackgroundColor != nil {
		u.BackgroundColor = cssColor(s.BackgroundColor.Value)
	}
	if s.layout.IsFixed() {
		return u
	}

	if s.Overflow != nil {
		switch s.Overflow.Value {
		case common.OverflowScrolled:
			u.View = css.ViewScroll
		case common.OverflowPaginated:
			u.View = css.ViewPaged
		}
	}
	if s.ColumnCount != nil && u.View != css.ViewScroll {
		u.ColCount = css.ColCount(columnCountText(s.ColumnCount.Value))
	}
	if s.PageMargins != nil {
		u.PageMargins = ptr(css.Number(s.PageMargins.Value))
	}

	if s.Theme != nil {
		switch s.Theme.Value {
		case common.ThemeDark:
			u.Appearance = css.AppearanceNight
		case common.ThemeSepia:
			u.Appearance = css.AppearanceSepia
		}
	}
	if s.ImageFilter != nil {
		switch s.ImageFilter.Value {
		case common.ImageFilterDarken:
			u.DarkenImages = ptr(true)
		case common.ImageFilterInvert:
			u.InvertImages = ptr(true)
		}
	}
	if s.TextColor != nil {
		u.TextColor = cssColor(s.TextColor.Value)
	}

	if s.FontOverride != nil {
		u.FontOverride = ptr(s.FontOverride.Value)
	}
	if s.Font != nil && !s.Font.Value.IsOriginal() {
		u.FontFamily = []string{s.Font.Value.Name}
	}
	if s.FontSize != nil {
		u.FontSize = ptr(css.Percent(round(s.FontSize.Value * 100)))
	}
	if s.NormalizedText != nil {
		u.A11yNormalize = ptr(s.NormalizedText.Value)
	}

	if s.AdvancedSettings != nil {
		u.AdvancedSettings = ptr(s.AdvancedSettings.Value)
	}
	if s.TypeScale != nil {
		u.TypeScale = ptr(css.Number(s.TypeScale.Value))
	}
	if s.TextAlign != nil {
		u.TextAlign = s.cssTextAlign(s.TextAlign.Value)
	}
	if s.LineHeight != nil {
		u.LineHeight = ptr(css.Number(s.LineHeight.Value))
	}
	if s.ParagraphSpacing != nil {
		u.ParaSpacing = ptr(css.Rem(s.ParagraphSpacing.Value))
	}
	if s.ParagraphIndent != nil {
		u.ParaIndent = ptr(css.Rem(s.ParagraphIndent.Value))
	}
	if s.WordSpacing != nil {
		u.WordSpacing = ptr(css.Rem(s.WordSpacing.Value))
	}
	if s.LetterSpacing != nil {
		u.LetterSpacing = ptr(css.Em(round(s.LetterSpacing.Value / 2)))
	}
	if s.Hyphens != nil {
		u.BodyHyphens = css.HyphensNone
		if s.Hyphens.Value {
			u.BodyHyphens = css.HyphensAuto
		}
	}
	if s.Ligatures != nil {
		u.Ligatures = css.LigaturesNone
		if s.Ligatures.Value {
			u.Ligatures = css.LigaturesCommon
		}
	}
	return u
}

// ReadingSystemProperties returns reading system defaults depending on the
// publication rather than on the reader.
func (s *Settings) ReadingSystemProperties() css.RsProperties {
	rs := css.RsProperties{Typefaces: s.typefaces}
	if isJapanese(s.language) {
		rs.SerifJa, rs.SansSerifJa = serifJa, sansSerifJa
		if s.vertical {
			rs.SerifJaV, rs.SansSerifJaV = serifJaV, sansSerifJaV
		}
	}
	if s.TypeScale != nil && !s.TypeScale.IsActiveWithPreferences(s.preferences) {
		rs.TypeScale = ptr(defaultTypeScale)
	}
	return rs
}

// Properties returns all custom properties to inject into resources.
func (s *Settings) Properties() css.Properties {
	props := s.ReadingSystemProperties().ToProperties()
	props.Merge(s.UserProperties().ToProperties())
	return props
}

// cssTextAlign resolves logical alignment against reading progression,
// stylesheets only know physical sides.
func (s *Settings) cssTextAlign(a common.TextAlign) css.TextAlign {
	rtl := s.ReadingProgression != nil && s.IsRTL()
	switch a {
	case common.TextAlignJustify:
		return css.TextAlignJustify
	case common.TextAlignLeft:
		return css.TextAlignLeft
	case common.TextAlignRight:
		return css.TextAlignRight
	case common.TextAlignStart:
		if rtl {
			return css.TextAlignRight
		}
		return css.TextAlignLeft
	case common.TextAlignEnd:
		if rtl {
			return css.TextAlignLeft
		}
		return css.TextAlignRight
	default:
		return ""
	}
}

func cssColor(c settings.Color) css.Color {
	if c.IsAuto() {
		return ""
	}
	return css.ARGB(uint32(c))
}

func columnCountLabel(_ language.Tag, v common.ColumnCount) string {
	if v == common.ColumnCountAuto {
		return "Auto"
	}
	return columnCountText(v)
}

func isJapanese(tag language.Tag) bool {
	base, confidence := tag.Base()
	return confidence != language.No && base.String() == "ja"
}

func round(v float64) float64 {
	return math.Round(v*100) / 100
}

func ptr[T any](v T) *T {
	return &v
}
