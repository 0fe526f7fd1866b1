package epub

import (
	"strconv"

	"epubnav/common"
	"epubnav/prefs"
	"epubnav/settings"
)

// Preference keys of EPUB settings. Font and color keys depend on the
// configured font list and palette and are created by Factory.
var (
	ThemeKey              = prefs.NewKey("theme", prefs.Enum(common.ParseTheme))
	OverflowKey           = prefs.NewKey("overflow", prefs.Enum(common.ParseOverflow))
	ColumnCountKey        = prefs.NewKey("columnCount", columnCountCoder)
	PageMarginsKey        = prefs.NewKey("pageMargins", prefs.Float)
	FontSizeKey           = prefs.NewKey("fontSize", prefs.Float)
	NormalizedTextKey     = prefs.NewKey("normalizedText", prefs.Bool)
	AdvancedSettingsKey   = prefs.NewKey("advancedSettings", prefs.Bool)
	TextAlignKey          = prefs.NewKey("textAlign", prefs.Enum(common.ParseTextAlign))
	TypeScaleKey          = prefs.NewKey("typeScale", prefs.Float)
	LineHeightKey         = prefs.NewKey("lineHeight", prefs.Float)
	ParagraphIndentKey    = prefs.NewKey("paragraphIndent", prefs.Float)
	ParagraphSpacingKey   = prefs.NewKey("paragraphSpacing", prefs.Float)
	WordSpacingKey        = prefs.NewKey("wordSpacing", prefs.Float)
	LetterSpacingKey      = prefs.NewKey("letterSpacing", prefs.Float)
	HyphensKey            = prefs.NewKey("hyphens", prefs.Bool)
	LigaturesKey          = prefs.NewKey("ligatures", prefs.Bool)
	ReadingProgressionKey = prefs.NewKey("readingProgression", prefs.Enum(common.ParseReadingProgression))
	ImageFilterKey        = prefs.NewKey("imageFilter", prefs.Enum(common.ParseImageFilter))
	FontOverrideKey       = prefs.NewKey("fontOverride", prefs.Bool)
)

// Names of keys created by Factory.
const (
	FontKeyName            = "font"
	TextColorKeyName       = "textColor"
	BackgroundColorKeyName = "backgroundColor"
)

// columnCountCoder stores column count the way stylesheets spell it: "auto",
// "1" or "2". Enum names and plain numbers are accepted on input.
var columnCountCoder = prefs.CoderFuncs[common.ColumnCount]{
	EncodeFunc: func(v common.ColumnCount) any {
		return columnCountText(v)
	},
	DecodeFunc: func(raw any) (common.ColumnCount, bool) {
		switch v := raw.(type) {
		case string:
			if n, err := strconv.Atoi(v); err == nil {
				return columnCountFromNumber(float64(n))
			}
			c, err := common.ParseColumnCount(v)
			return c, err == nil
		case float64:
			return columnCountFromNumber(v)
		}
		return common.ColumnCountAuto, false
	},
}

func columnCountFromNumber(v float64) (common.ColumnCount, bool) {
	switch v {
	case 1:
		return common.ColumnCountOne, true
	case 2:
		return common.ColumnCountTwo, true
	default:
		return common.ColumnCountAuto, false
	}
}

func columnCountText(v common.ColumnCount) string {
	switch v {
	case common.ColumnCountOne:
		return "1"
	case common.ColumnCountTwo:
		return "2"
	default:
		return "auto"
	}
}

// fontKey and colorKey bind configurable coders to their key names.
func fontKey(fonts []settings.Font) prefs.Key[settings.Font] {
	return prefs.NewKey(FontKeyName, settings.FontCoder(fonts))
}

func colorKey(name string, palette *settings.Palette) prefs.Key[settings.Color] {
	return prefs.NewKey(name, settings.ColorCoder(palette))
}
