package epub

import (
	"errors"
	"fmt"

	"epubnav/prefs"
	"epubnav/settings"
)

var (
	// ErrUnknownSetting is returned when setting is not offered for the
	// publication.
	ErrUnknownSetting = errors.New("setting is not available")
	// ErrUnsupportedEdit is returned when operation does not apply to
	// setting kind.
	ErrUnsupportedEdit = errors.New("operation is not supported by setting")
)

type namedToggler interface {
	ToggleByName(m *prefs.MutablePreferences, name string) bool
}

func (s *Settings) lookup(name string) (settings.Descriptor, error) {
	d, ok := s.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrUnknownSetting)
	}
	return d, nil
}

// Increment steps range setting name up.
func (s *Settings) Increment(m *prefs.MutablePreferences, name string) error {
	r, err := s.rangeSetting(name)
	if err != nil {
		return err
	}
	settings.Increment(m, r)
	return nil
}

// Decrement steps range setting name down.
func (s *Settings) Decrement(m *prefs.MutablePreferences, name string) error {
	r, err := s.rangeSetting(name)
	if err != nil {
		return err
	}
	settings.Decrement(m, r)
	return nil
}

func (s *Settings) rangeSetting(name string) (*settings.RangeSetting, error) {
	d, err := s.lookup(name)
	if err != nil {
		return nil, err
	}
	switch r := d.(type) {
	case *settings.RangeSetting:
		return r, nil
	case *settings.PercentSetting:
		return &r.RangeSetting, nil
	default:
		return nil, fmt.Errorf("%s is not a range: %w", name, ErrUnsupportedEdit)
	}
}

// Toggle flips toggle setting name, for enumerations value names the
// option to toggle.
func (s *Settings) Toggle(m *prefs.MutablePreferences, name, value string) error {
	d, err := s.lookup(name)
	if err != nil {
		return err
	}
	switch t := d.(type) {
	case *settings.ToggleSetting:
		settings.ToggleFlag(m, t)
		return nil
	case namedToggler:
		if !t.ToggleByName(m, value) {
			return fmt.Errorf("%s does not permit %q: %w", name, value, ErrUnsupportedEdit)
		}
		return nil
	default:
		return fmt.Errorf("%s cannot be toggled: %w", name, ErrUnsupportedEdit)
	}
}

// Activate changes m so that setting name takes effect.
func (s *Settings) Activate(m *prefs.MutablePreferences, name string) error {
	d, err := s.lookup(name)
	if err != nil {
		return err
	}
	settings.Activate(m, d)
	return nil
}

// Inactive lists offered settings without effect under current
// preferences.
func (s *Settings) Inactive() []string {
	var res []string
	for _, d := range s.offered {
		if !d.IsActiveWithPreferences(s.preferences) {
			res = append(res, d.Name())
		}
	}
	return res
}
