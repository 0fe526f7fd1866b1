package prefs

// Key identifies a preference and knows how to encode its values.
type Key[V any] struct {
	Name  string
	Coder Coder[V]
}

// NewKey creates preference key name using coder.
func NewKey[V any](name string, coder Coder[V]) Key[V] {
	return Key[V]{Name: name, Coder: coder}
}

// Get decodes the value stored for the key. It returns false when the key is
// absent or its value cannot be decoded.
func (k Key[V]) Get(r Reader) (V, bool) {
	var zero V
	if r == nil {
		return zero, false
	}
	raw, ok := r.Raw(k.Name)
	if !ok {
		return zero, false
	}
	return k.Coder.Decode(raw)
}

// Set encodes and stores v, values without stored form remove the key.
func (k Key[V]) Set(m *MutablePreferences, v V) {
	m.SetRaw(k.Name, k.Coder.Encode(v))
}

// SetOptional stores *v or removes the key when v is nil.
func (k Key[V]) SetOptional(m *MutablePreferences, v *V) {
	if v == nil {
		m.RemoveRaw(k.Name)
		return
	}
	k.Set(m, *v)
}

// Remove clears the preference, so default resolution applies.
func (k Key[V]) Remove(m *MutablePreferences) {
	m.RemoveRaw(k.Name)
}

// IsSet reports whether a value is stored for the key, decodable or not.
func (k Key[V]) IsSet(r Reader) bool {
	if r == nil {
		return false
	}
	_, ok := r.Raw(k.Name)
	return ok
}
