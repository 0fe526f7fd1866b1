package settings

import (
	"epubnav/prefs"
)

// Activator decides whether a setting has any effect given the whole
// preference set, and knows how to change preferences so that it does.
// Zero value is always active and activation is a no-op.
type Activator struct {
	IsActive func(p prefs.Reader) bool
	Activate func(m *prefs.MutablePreferences)
}

// IsActiveWith evaluates the predicate against p.
func (a Activator) IsActiveWith(p prefs.Reader) bool {
	if a.IsActive == nil {
		return true
	}
	return a.IsActive(p)
}

// ActivateIn mutates m so that the predicate holds.
func (a Activator) ActivateIn(m *prefs.MutablePreferences) {
	if a.Activate != nil {
		a.Activate(m)
	}
}

// RequirePreference is active when the preference stored under key decodes
// to value. Activation stores value.
func RequirePreference[V comparable](key prefs.Key[V], value V) Activator {
	return Activator{
		IsActive: func(p prefs.Reader) bool {
			v, ok := key.Get(p)
			return ok && v == value
		},
		Activate: func(m *prefs.MutablePreferences) {
			key.Set(m, value)
		},
	}
}

// AllOf is active when all given activators are, activating applies each
// one in order.
func AllOf(activators ...Activator) Activator {
	return Activator{
		IsActive: func(p prefs.Reader) bool {
			for _, a := range activators {
				if !a.IsActiveWith(p) {
					return false
				}
			}
			return true
		},
		Activate: func(m *prefs.MutablePreferences) {
			for _, a := range activators {
				a.ActivateIn(m)
			}
		},
	}
}
