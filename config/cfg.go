package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"text/template"
	"time"

	sprig "github.com/go-task/slim-sprig/v3"

	validator "github.com/go-playground/validator/v10"
	yaml "gopkg.in/yaml.v3"
	"golang.org/x/text/language"

	"github.com/rupor-github/gencfg"

	"epubnav/css"
	"epubnav/prefs"
	"epubnav/settings"
	"epubnav/settings/epub"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	NavigatorConfig struct {
		DebounceMS         int               `yaml:"debounce_ms" validate:"min=1"`
		PositionLength     int               `yaml:"position_length" validate:"min=64"`
		Locale             string            `yaml:"locale" validate:"required"`
		Fonts              []string          `yaml:"fonts" validate:"dive,required"`
		NamedColors        map[string]string `yaml:"named_colors" validate:"dive,keys,required,endkeys,required"`
		DefaultPreferences map[string]any    `yaml:"default_preferences"`
		Typefaces          TypefacesConfig   `yaml:"typefaces"`
	}

	// TypefacesConfig lists reading system font stacks by typeface kind.
	TypefacesConfig struct {
		OldStyle  []string `yaml:"old_style" validate:"dive,required"`
		Modern    []string `yaml:"modern" validate:"dive,required"`
		Sans      []string `yaml:"sans" validate:"dive,required"`
		Humanist  []string `yaml:"humanist" validate:"dive,required"`
		Monospace []string `yaml:"monospace" validate:"dive,required"`
	}

	CoverConfig struct {
		Width       int    `yaml:"width" validate:"min=16,max=4096"`
		Height      int    `yaml:"height" validate:"min=16,max=4096"`
		Format      string `yaml:"format" validate:"oneof=png jpeg"`
		JPEGQuality int    `yaml:"jpeg_quality_level" validate:"min=1,max=100"`
	}

	OutputConfig struct {
		// Template of positions file name, used when destination is a
		// directory.
		PositionsNameTemplate string      `yaml:"positions_name_template" validate:"required"`
		Cover                 CoverConfig `yaml:"cover"`
	}

	StorageConfig struct {
		// Path to reading state database, state is kept in memory when empty.
		Path string `yaml:"path" sanitize:"path_clean,assure_dir_exists_for_file" validate:"omitempty,filepath"`
	}

	Config struct {
		Version   int             `yaml:"version" validate:"eq=1"`
		Navigator NavigatorConfig `yaml:"navigator"`
		Output    OutputConfig    `yaml:"output"`
		Storage   StorageConfig   `yaml:"storage"`
		Logging   LoggingConfig   `yaml:"logging"`
		Reporting ReporterConfig  `yaml:"reporting"`
	}
)

// TemplateFieldName names configuration field holding text/template.
type TemplateFieldName string

// NOTE: must match yaml field name above
const PositionsNameTemplateFieldName TemplateFieldName = "positions_name_template"

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(PositionsNameTemplateFieldName)),
)

// ParseTemplate parses template field with the same functions available
// when it is expanded.
func ParseTemplate(name TemplateFieldName, field string) (*template.Template, error) {
	tmpl, err := template.New(string(name)).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return nil, fmt.Errorf("unable to parse template field %s: %w", name, err)
	}
	return tmpl, nil
}

// checkConfig validates values which tags cannot express.
func checkConfig(sl validator.StructLevel) {
	cfg, ok := sl.Current().Interface().(Config)
	if !ok {
		return
	}
	if _, err := language.Parse(cfg.Navigator.Locale); err != nil {
		sl.ReportError(cfg.Navigator.Locale, "locale", "Locale", "bcp47", "")
	}
	if _, err := ParseTemplate(PositionsNameTemplateFieldName, cfg.Output.PositionsNameTemplate); err != nil {
		sl.ReportError(cfg.Output.PositionsNameTemplate, string(PositionsNameTemplateFieldName), "PositionsNameTemplate", "template", "")
	}
	for name, hex := range cfg.Navigator.NamedColors {
		if len(hex) != 7 {
			sl.ReportError(hex, "named_colors["+name+"]", "NamedColors", "rrggbb", "")
			continue
		}
		if _, err := settings.ParseHex(hex); err != nil {
			sl.ReportError(hex, "named_colors["+name+"]", "NamedColors", "rrggbb", "")
		}
	}
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, fmt.Errorf("failed to sanitize configuration: %w", err)
		}
		if err := gencfg.Validate(cfg, gencfg.WithAdditionalChecks(checkConfig)); err != nil {
			return nil, fmt.Errorf("failed to validate configuration: %w", err)
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration tamplate to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}

// Debounce returns quiet period of locator tracker.
func (conf *NavigatorConfig) Debounce() time.Duration {
	return time.Duration(conf.DebounceMS) * time.Millisecond
}

// Language returns locale setting labels are rendered for.
func (conf *NavigatorConfig) Language() language.Tag {
	tag, err := language.Parse(conf.Locale)
	if err != nil {
		return language.English
	}
	return tag
}

// Palette returns named colors offered by color settings.
func (conf *NavigatorConfig) Palette() (*settings.Palette, error) {
	colors := make(map[string]settings.Color, len(conf.NamedColors))
	for name, hex := range conf.NamedColors {
		c, err := settings.ParseHex(hex)
		if err != nil {
			return nil, fmt.Errorf("named color '%s': %w", name, err)
		}
		colors[name] = c
	}
	return settings.NewPalette(colors), nil
}

// SettingsOptions returns options for settings factory.
func (conf *NavigatorConfig) SettingsOptions() (epub.Options, error) {
	palette, err := conf.Palette()
	if err != nil {
		return epub.Options{}, err
	}
	opts := epub.Options{
		Palette: palette,
		Typefaces: css.Typefaces{
			OldStyle:  conf.Typefaces.OldStyle,
			Modern:    conf.Typefaces.Modern,
			Sans:      conf.Typefaces.Sans,
			Humanist:  conf.Typefaces.Humanist,
			Monospace: conf.Typefaces.Monospace,
		},
	}
	if len(conf.Fonts) > 0 {
		opts.Fonts = settings.FontsFromNames(conf.Fonts)
	}
	return opts, nil
}

// Defaults returns preferences applied under reader's own.
func (conf *NavigatorConfig) Defaults() prefs.Preferences {
	return prefs.FromMap(conf.DefaultPreferences)
}
