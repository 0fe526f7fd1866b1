// Package epub builds the settings of an EPUB publication from layered
// preferences and maps them to Readium CSS properties.
package epub

import (
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"epubnav/common"
	"epubnav/css"
	"epubnav/prefs"
	"epubnav/publication"
	"epubnav/settings"
)

// Built-in defaults, the lowest resolution layer.
const (
	defaultPageMargins      = 1.0
	defaultFontSize         = 1.0
	defaultTypeScale        = 1.2
	defaultLineHeight       = 1.2
	defaultParagraphIndent  = 0.0
	defaultParagraphSpacing = 0.0
	defaultWordSpacing      = 0.0
	defaultLetterSpacing    = 0.0
)

// Options configures settings available to readers.
type Options struct {
	// Fonts offered by font setting, Original is always included.
	Fonts []settings.Font
	// Palette of named colors for text and background colors.
	Palette *settings.Palette
	// Typefaces are reading system font stacks, empty ones are left to
	// Readium CSS defaults.
	Typefaces css.Typefaces
}

// Factory creates settings for publications. It is safe for concurrent
// use.
type Factory struct {
	fonts           []settings.Font
	palette         *settings.Palette
	font            prefs.Key[settings.Font]
	textColor       prefs.Key[settings.Color]
	backgroundColor prefs.Key[settings.Color]
	typefaces       css.Typefaces
	log             *zap.Logger
}

// NewFactory prepares settings factory.
func NewFactory(opts Options, log *zap.Logger) *Factory {
	if log == nil {
		log = zap.NewNop()
	}
	fonts := opts.Fonts
	if len(fonts) == 0 {
		fonts = settings.DefaultFonts
	} else {
		names := make([]string, 0, len(fonts))
		for _, f := range fonts {
			names = append(names, f.Name)
		}
		fonts = settings.FontsFromNames(names)
	}
	return &Factory{
		fonts:           fonts,
		palette:         opts.Palette,
		font:            fontKey(fonts),
		textColor:       colorKey(TextColorKeyName, opts.Palette),
		backgroundColor: colorKey(BackgroundColorKeyName, opts.Palette),
		typefaces:       opts.Typefaces,
		log:             log.Named("settings"),
	}
}

// FontKey returns key of font preference.
func (f *Factory) FontKey() prefs.Key[settings.Font] {
	return f.font
}

// TextColorKey returns key of text color preference.
func (f *Factory) TextColorKey() prefs.Key[settings.Color] {
	return f.textColor
}

// BackgroundColorKey returns key of background color preference.
func (f *Factory) BackgroundColorKey() prefs.Key[settings.Color] {
	return f.backgroundColor
}

// Settings is the resolved settings bundle of a publication. Settings not
// offered for the publication are nil. It is rebuilt on every preference
// change and never modified.
type Settings struct {
	Theme              *settings.EnumSetting[common.Theme]
	TextColor          *settings.ColorSetting
	BackgroundColor    *settings.ColorSetting
	Overflow           *settings.EnumSetting[common.Overflow]
	ColumnCount        *settings.EnumSetting[common.ColumnCount]
	PageMargins        *settings.RangeSetting
	Font               *settings.EnumSetting[settings.Font]
	FontSize           *settings.PercentSetting
	NormalizedText     *settings.ToggleSetting
	AdvancedSettings   *settings.ToggleSetting
	TextAlign          *settings.EnumSetting[common.TextAlign]
	TypeScale          *settings.RangeSetting
	LineHeight         *settings.RangeSetting
	ParagraphIndent    *settings.PercentSetting
	ParagraphSpacing   *settings.PercentSetting
	WordSpacing        *settings.PercentSetting
	LetterSpacing      *settings.PercentSetting
	Hyphens            *settings.ToggleSetting
	Ligatures          *settings.ToggleSetting
	ReadingProgression *settings.EnumSetting[common.ReadingProgression]
	ImageFilter        *settings.EnumSetting[common.ImageFilter]
	FontOverride       *settings.ToggleSetting

	layout      common.Layout
	language    language.Tag
	vertical    bool
	typefaces   css.Typefaces
	preferences prefs.Preferences
	offered     []settings.Descriptor
}

// Build resolves settings of pub. Values are looked up in current
// preferences, then in defaults, then in what the publication itself
// declares, and finally built-in defaults are used.
func (f *Factory) Build(pub *publication.Publication, defaults, current prefs.Preferences) *Settings {
	meta := pub.Metadata
	hints := hintPreferences(meta, pub.Hints)
	merged := hints.Merged(defaults, current)
	layers := []prefs.Reader{current, defaults, hints}

	lang := meta.Language()
	s := &Settings{
		layout:      meta.Layout,
		language:    lang,
		vertical:    pub.Hints.IsVertical(),
		typefaces:   f.typefaces,
		preferences: merged,
	}
	offer := func(d settings.Descriptor) {
		s.offered = append(s.offered, d)
	}

	s.ReadingProgression = settings.NewEnum(ReadingProgressionKey,
		settings.Resolve(ReadingProgressionKey, common.ReadingProgressionLtr, layers...),
		[]common.ReadingProgression{common.ReadingProgressionLtr, common.ReadingProgressionRtl},
		common.ReadingProgressionLtr, settings.Activator{})
	offer(s.ReadingProgression)

	s.BackgroundColor = settings.NewColor(f.backgroundColor,
		settings.Resolve(f.backgroundColor, settings.Auto, layers...), f.palette, settings.Activator{})
	offer(s.BackgroundColor)

	if meta.Layout.IsFixed() {
		f.log.Debug("Fixed layout publication, reflowable settings are not offered", zap.String("title", meta.Title))
		return s
	}

	s.Theme = settings.NewEnum(ThemeKey,
		settings.Resolve(ThemeKey, common.ThemeLight, layers...),
		common.ThemeValues(), common.ThemeLight, settings.Activator{})
	offer(s.Theme)

	s.TextColor = settings.NewColor(f.textColor,
		settings.Resolve(f.textColor, settings.Auto, layers...), f.palette, settings.Activator{})
	offer(s.TextColor)

	s.ImageFilter = settings.NewEnum(ImageFilterKey,
		settings.Resolve(ImageFilterKey, common.ImageFilterNone, layers...),
		common.ImageFilterValues(), common.ImageFilterNone,
		settings.RequirePreference(ThemeKey, common.ThemeDark))
	offer(s.ImageFilter)

	s.Overflow = settings.NewEnum(OverflowKey,
		settings.Resolve(OverflowKey, common.OverflowPaginated, layers...),
		[]common.Overflow{common.OverflowPaginated, common.OverflowScrolled},
		common.OverflowPaginated, settings.Activator{})
	offer(s.Overflow)

	if !s.vertical {
		s.ColumnCount = settings.NewEnum(ColumnCountKey,
			settings.Resolve(ColumnCountKey, common.ColumnCountAuto, layers...),
			common.ColumnCountValues(), common.ColumnCountAuto,
			settings.RequirePreference(OverflowKey, common.OverflowPaginated))
		s.ColumnCount.Format = columnCountLabel
		offer(s.ColumnCount)
	}

	s.PageMargins = settings.NewRange(PageMarginsKey,
		settings.Resolve(PageMarginsKey, defaultPageMargins, layers...), 0.5, 4, settings.Activator{})
	offer(s.PageMargins)

	s.FontOverride = settings.NewToggle(FontOverrideKey,
		settings.Resolve(FontOverrideKey, false, layers...), settings.Activator{})
	offer(s.FontOverride)

	requireFontOverride := settings.RequirePreference(FontOverrideKey, true)
	s.Font = settings.NewFont(f.font, settings.Resolve(f.font, settings.Original, layers...), f.fonts, requireFontOverride)
	offer(s.Font)

	s.FontSize = settings.NewPercent(FontSizeKey,
		settings.Resolve(FontSizeKey, defaultFontSize, layers...), 0.4, 5, settings.Activator{})
	offer(s.FontSize)

	s.NormalizedText = settings.NewToggle(NormalizedTextKey,
		settings.Resolve(NormalizedTextKey, false, layers...), requireFontOverride)
	offer(s.NormalizedText)

	s.AdvancedSettings = settings.NewToggle(AdvancedSettingsKey,
		settings.Resolve(AdvancedSettingsKey, false, layers...), settings.Activator{})
	offer(s.AdvancedSettings)

	requireAdvanced := settings.RequirePreference(AdvancedSettingsKey, true)

	if !s.vertical {
		s.TextAlign = settings.NewEnum(TextAlignKey,
			settings.Resolve(TextAlignKey, common.TextAlignStart, layers...),
			[]common.TextAlign{common.TextAlignStart, common.TextAlignLeft, common.TextAlignRight, common.TextAlignJustify},
			common.TextAlignStart, requireAdvanced)
		offer(s.TextAlign)
	}

	s.TypeScale = settings.NewRange(TypeScaleKey,
		settings.Resolve(TypeScaleKey, defaultTypeScale, layers...), 1, 2, requireAdvanced)
	offer(s.TypeScale)

	s.LineHeight = settings.NewRange(LineHeightKey,
		settings.Resolve(LineHeightKey, defaultLineHeight, layers...), 1, 2, requireAdvanced)
	offer(s.LineHeight)

	s.ParagraphIndent = settings.NewPercent(ParagraphIndentKey,
		settings.Resolve(ParagraphIndentKey, defaultParagraphIndent, layers...), 0, 3, requireAdvanced)
	offer(s.ParagraphIndent)

	s.ParagraphSpacing = settings.NewPercent(ParagraphSpacingKey,
		settings.Resolve(ParagraphSpacingKey, defaultParagraphSpacing, layers...), 0, 2, requireAdvanced)
	offer(s.ParagraphSpacing)

	s.WordSpacing = settings.NewPercent(WordSpacingKey,
		settings.Resolve(WordSpacingKey, defaultWordSpacing, layers...), 0, 1, requireAdvanced)
	offer(s.WordSpacing)

	s.LetterSpacing = settings.NewPercent(LetterSpacingKey,
		settings.Resolve(LetterSpacingKey, defaultLetterSpacing, layers...), 0, 1, requireAdvanced)
	offer(s.LetterSpacing)

	if !publication.IsCJKLanguage(lang) {
		s.Hyphens = settings.NewToggle(HyphensKey,
			settings.Resolve(HyphensKey, true, layers...), requireAdvanced)
		offer(s.Hyphens)
	}

	if publication.IsArabicScript(lang) {
		s.Ligatures = settings.NewToggle(LigaturesKey,
			settings.Resolve(LigaturesKey, true, layers...), requireAdvanced)
		offer(s.Ligatures)
	}

	f.log.Debug("Settings resolved",
		zap.String("title", meta.Title),
		zap.Int("offered", len(s.offered)),
		zap.Bool("vertical", s.vertical),
		zap.Stringer("preferences", merged))
	return s
}

// hintPreferences expresses what publication declares as a preference
// layer: its reading progression, or one derived from stylesheet direction
// and language.
func hintPreferences(meta publication.Metadata, hints css.Hints) prefs.Preferences {
	return prefs.New(func(m *prefs.MutablePreferences) {
		switch {
		case meta.ReadingProgression != common.ReadingProgressionAuto:
			ReadingProgressionKey.Set(m, meta.ReadingProgression)
		case hints.Direction == "rtl", publication.IsRTLLanguage(meta.Language()):
			ReadingProgressionKey.Set(m, common.ReadingProgressionRtl)
		}
	})
}

// Descriptors lists offered settings in presentation order.
func (s *Settings) Descriptors() []settings.Descriptor {
	return s.offered
}

// Lookup returns offered setting with preference name.
func (s *Settings) Lookup(name string) (settings.Descriptor, bool) {
	for _, d := range s.offered {
		if d.Name() == name {
			return d, true
		}
	}
	return nil, false
}

// Preferences returns merged preferences settings were resolved from.
func (s *Settings) Preferences() prefs.Preferences {
	return s.preferences
}

// Layout returns layout of the publication.
func (s *Settings) Layout() common.Layout {
	return s.layout
}

// Language returns primary language of the publication.
func (s *Settings) Language() language.Tag {
	return s.language
}

// IsRTL reports whether resolved reading progression is right to left.
func (s *Settings) IsRTL() bool {
	return s.ReadingProgression.Value.IsRTL()
}
