package settings

import (
	"epubnav/prefs"
)

// Resolve walks layers from the highest priority down and returns first value
// stored for key which decodes, fallback when none does.
func Resolve[V any](key prefs.Key[V], fallback V, layers ...prefs.Reader) V {
	for _, l := range layers {
		if v, ok := key.Get(l); ok {
			return v
		}
	}
	return fallback
}
