// Package prefs holds reader preferences: an untyped key-value bag whose
// values are JSON primitives, accessed through strongly typed keys carrying
// their own coders.
package prefs

import (
	"encoding/json"
	"fmt"
	"maps"
	"reflect"
	"slices"
)

// Reader gives access to stored raw values.
type Reader interface {
	Raw(name string) (any, bool)
}

// Preferences is an immutable set of preference values. The zero value is an
// empty set.
type Preferences struct {
	values map[string]any
}

// New builds Preferences using build to populate them.
func New(build func(m *MutablePreferences)) Preferences {
	m := NewMutable()
	if build != nil {
		build(m)
	}
	return m.Preferences()
}

// Raw returns the stored raw value for the key name.
func (p Preferences) Raw(name string) (any, bool) {
	v, ok := p.values[name]
	return v, ok
}

// Len returns number of stored preferences.
func (p Preferences) Len() int {
	return len(p.values)
}

// IsEmpty reports whether there are no preferences at all.
func (p Preferences) IsEmpty() bool {
	return len(p.values) == 0
}

// Keys returns names of all stored preferences in sorted order.
func (p Preferences) Keys() []string {
	return slices.Sorted(maps.Keys(p.values))
}

// Equal reports whether both sets hold the same values.
func (p Preferences) Equal(other Preferences) bool {
	if len(p.values) != len(other.values) {
		return false
	}
	for k, v := range p.values {
		ov, ok := other.values[k]
		if !ok || !reflect.DeepEqual(v, ov) {
			return false
		}
	}
	return true
}

// Copy returns new Preferences with updates applied on top of p.
func (p Preferences) Copy(updates func(m *MutablePreferences)) Preferences {
	m := p.ToMutable()
	if updates != nil {
		updates(m)
	}
	return m.Preferences()
}

// ToMutable returns a mutable copy of p.
func (p Preferences) ToMutable() *MutablePreferences {
	return &MutablePreferences{values: maps.Clone(p.values)}
}

// Merged returns p overlaid by others in order, last write wins.
func (p Preferences) Merged(others ...Preferences) Preferences {
	m := p.ToMutable()
	for _, o := range others {
		m.Merge(o)
	}
	return m.Preferences()
}

// MarshalJSON serializes preferences as a single flat object.
func (p Preferences) MarshalJSON() ([]byte, error) {
	if p.values == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(p.values)
}

// UnmarshalJSON reads a flat object, values which are not JSON primitives
// are dropped.
func (p *Preferences) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("unable to decode preferences: %w", err)
	}
	m := NewMutable()
	for k, v := range raw {
		m.SetRaw(k, v)
	}
	*p = m.Preferences()
	return nil
}

// FromJSON decodes preferences from a JSON object. Empty input results in
// empty preferences.
func FromJSON(data []byte) (Preferences, error) {
	var p Preferences
	if len(data) == 0 {
		return p, nil
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return Preferences{}, err
	}
	return p, nil
}

// FromMap builds preferences from arbitrary values, as produced by YAML or
// JSON decoders. Values which are not primitives are dropped.
func FromMap(values map[string]any) Preferences {
	m := NewMutable()
	for k, v := range values {
		m.SetRaw(k, v)
	}
	return m.Preferences()
}

func (p Preferences) String() string {
	data, err := p.MarshalJSON()
	if err != nil {
		return "{}"
	}
	return string(data)
}

// MutablePreferences is a builder for Preferences. It is not safe for
// concurrent use.
type MutablePreferences struct {
	values map[string]any
}

// NewMutable returns empty mutable preferences.
func NewMutable() *MutablePreferences {
	return &MutablePreferences{values: make(map[string]any)}
}

// Raw returns the stored raw value for the key name.
func (m *MutablePreferences) Raw(name string) (any, bool) {
	v, ok := m.values[name]
	return v, ok
}

// SetRaw stores raw value under name. Nil or non-primitive values remove
// the key.
func (m *MutablePreferences) SetRaw(name string, raw any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	v, ok := normalize(raw)
	if !ok {
		delete(m.values, name)
		return
	}
	m.values[name] = v
}

// RemoveRaw removes the value stored under name.
func (m *MutablePreferences) RemoveRaw(name string) {
	delete(m.values, name)
}

// Clear removes all values.
func (m *MutablePreferences) Clear() {
	clear(m.values)
}

// Merge overlays other on top of m.
func (m *MutablePreferences) Merge(other Preferences) {
	if m.values == nil {
		m.values = make(map[string]any, len(other.values))
	}
	maps.Copy(m.values, other.values)
}

// Preferences returns an immutable snapshot of m.
func (m *MutablePreferences) Preferences() Preferences {
	return Preferences{values: maps.Clone(m.values)}
}

// normalize brings raw values to the shapes produced by encoding/json so
// that stored values compare equal after a round trip.
func normalize(raw any) (any, bool) {
	switch v := raw.(type) {
	case nil:
		return nil, false
	case bool, string, float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, false
		}
		return f, true
	default:
		return nil, false
	}
}
