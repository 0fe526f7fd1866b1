// Package settings describes typed, bounded and conditionally active
// presentation knobs resolved from preferences.
package settings

import (
	"fmt"
	"math"
	"slices"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"epubnav/prefs"
)

// DefaultStep is increment used by range settings when none is specified.
const DefaultStep = 0.1

// Descriptor is the type independent view of a setting.
type Descriptor interface {
	Name() string
	IsActiveWithPreferences(p prefs.Reader) bool
	ActivateInPreferences(m *prefs.MutablePreferences)
	// ValueLabel renders resolved value for humans.
	ValueLabel(tag language.Tag) string
	// Encoded returns raw preference form of the resolved value, nil when
	// value has none.
	Encoded() any
}

// Setting is a resolved setting value with its preference key and
// activation rules. Settings are rebuilt from preferences, never modified.
type Setting[V any] struct {
	Key       prefs.Key[V]
	Value     V
	Activator Activator
	// Format overrides default label rendering.
	Format func(tag language.Tag, v V) string
}

func (s Setting[V]) Name() string {
	return s.Key.Name
}

func (s Setting[V]) IsActiveWithPreferences(p prefs.Reader) bool {
	return s.Activator.IsActiveWith(p)
}

func (s Setting[V]) ActivateInPreferences(m *prefs.MutablePreferences) {
	s.Activator.ActivateIn(m)
}

func (s Setting[V]) Encoded() any {
	return s.Key.Coder.Encode(s.Value)
}

// Label renders v for humans using locale tag.
func (s Setting[V]) Label(tag language.Tag, v V) string {
	if s.Format != nil {
		return s.Format(tag, v)
	}
	return defaultLabel(tag, v)
}

func (s Setting[V]) ValueLabel(tag language.Tag) string {
	return s.Label(tag, s.Value)
}

// Effective returns override stored in p when decodable, resolved value
// otherwise.
func (s Setting[V]) Effective(p prefs.Reader) V {
	if v, ok := s.Key.Get(p); ok {
		return v
	}
	return s.Value
}

// ToggleSetting is an on/off switch.
type ToggleSetting struct {
	Setting[bool]
}

// NewToggle creates toggle setting.
func NewToggle(key prefs.Key[bool], value bool, activator Activator) *ToggleSetting {
	return &ToggleSetting{Setting: Setting[bool]{Key: key, Value: value, Activator: activator}}
}

// RangeSetting is a number within inclusive bounds. Value is clamped when
// the setting is created, whatever was stored in preferences.
type RangeSetting struct {
	Setting[float64]
	Min, Max float64
	Step     float64
}

// NewRange creates range setting, value is clamped to [lo, hi].
func NewRange(key prefs.Key[float64], value, lo, hi float64, activator Activator) *RangeSetting {
	s := &RangeSetting{
		Setting: Setting[float64]{Key: key, Activator: activator},
		Min:     lo,
		Max:     hi,
		Step:    DefaultStep,
	}
	s.Value = s.Clamp(value)
	return s
}

// Clamp brings v within setting bounds.
func (s *RangeSetting) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return s.Min
	}
	return math.Min(math.Max(v, s.Min), s.Max)
}

// Effective returns clamped override from p when present.
func (s *RangeSetting) Effective(p prefs.Reader) float64 {
	return s.Clamp(s.Setting.Effective(p))
}

// PercentSetting is a range setting where 1.0 means 100%.
type PercentSetting struct {
	RangeSetting
}

// NewPercent creates percent setting, value is clamped to [lo, hi].
func NewPercent(key prefs.Key[float64], value, lo, hi float64, activator Activator) *PercentSetting {
	s := &PercentSetting{RangeSetting: *NewRange(key, value, lo, hi, activator)}
	s.Format = percentLabel
	return s
}

// EnumSetting is one of a fixed list of values.
type EnumSetting[E comparable] struct {
	Setting[E]
	Values []E
}

// NewEnum creates enumeration setting. Values outside of the permitted list
// are replaced with fallback.
func NewEnum[E comparable](key prefs.Key[E], value E, values []E, fallback E, activator Activator) *EnumSetting[E] {
	if len(values) > 0 && !slices.Contains(values, value) {
		value = fallback
	}
	return &EnumSetting[E]{
		Setting: Setting[E]{Key: key, Value: value, Activator: activator},
		Values:  values,
	}
}

// Labels renders all permitted values.
func (s *EnumSetting[E]) Labels(tag language.Tag) []string {
	res := make([]string, 0, len(s.Values))
	for _, v := range s.Values {
		res = append(res, s.Label(tag, v))
	}
	return res
}

// Allows reports whether v is permitted.
func (s *EnumSetting[E]) Allows(v E) bool {
	return len(s.Values) == 0 || slices.Contains(s.Values, v)
}

func defaultLabel(tag language.Tag, v any) string {
	p := message.NewPrinter(tag)
	switch val := v.(type) {
	case bool:
		if val {
			return p.Sprintf("on")
		}
		return p.Sprintf("off")
	case float64:
		return p.Sprint(number.Decimal(val, number.MaxFractionDigits(2)))
	case int:
		return p.Sprint(number.Decimal(val))
	case fmt.Stringer:
		return cases.Title(tag).String(val.String())
	default:
		return p.Sprint(val)
	}
}

func percentLabel(tag language.Tag, v float64) string {
	return message.NewPrinter(tag).Sprint(number.Percent(v, number.MaxFractionDigits(0)))
}
