package settings

import (
	"fmt"
	"math"
	"strings"

	"epubnav/prefs"
)

// Toggle makes value the override of enumeration setting s unless it is
// already the stored override, in which case the override is removed. Default
// value does not count, toggling it on absent preference stores it.
// Applying same toggle twice restores original preferences.
func Toggle[E comparable](m *prefs.MutablePreferences, s *EnumSetting[E], value E) {
	if stored, ok := s.Key.Get(m); ok && stored == value {
		s.Key.Remove(m)
		return
	}
	s.Key.Set(m, value)
}

// ToggleByName toggles permitted value whose name or encoded form matches
// name, ignoring case. Returns false when nothing matches.
func (s *EnumSetting[E]) ToggleByName(m *prefs.MutablePreferences, name string) bool {
	for _, v := range s.Values {
		if strings.EqualFold(fmt.Sprint(v), name) || strings.EqualFold(fmt.Sprint(s.Key.Coder.Encode(v)), name) {
			Toggle(m, s, v)
			return true
		}
	}
	return false
}

// ToggleFlag inverts effective value of toggle setting s.
func ToggleFlag(m *prefs.MutablePreferences, s *ToggleSetting) {
	s.Key.Set(m, !s.Effective(m))
}

// Increment adds step of setting s to its effective value and stores the
// result. Bounds are not enforced here, range settings clamp on read.
func Increment(m *prefs.MutablePreferences, s *RangeSetting) {
	s.Key.Set(m, round2(s.Effective(m)+step(s)))
}

// Decrement subtracts step of setting s from its effective value and stores
// the result.
func Decrement(m *prefs.MutablePreferences, s *RangeSetting) {
	s.Key.Set(m, round2(s.Effective(m)-step(s)))
}

// Activate mutates m so that setting described by d becomes active.
func Activate(m *prefs.MutablePreferences, d Descriptor) {
	d.ActivateInPreferences(m)
}

func step(s *RangeSetting) float64 {
	if s.Step <= 0 {
		return DefaultStep
	}
	return s.Step
}

// round2 drops binary representation noise accumulated by repeated steps.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
