package publication

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
)

// Locator points to a reading position inside a publication.
type Locator struct {
	Href      string    `json:"href"`
	Type      string    `json:"type"`
	Title     string    `json:"title,omitempty"`
	Locations Locations `json:"locations"`
	Text      Text      `json:"text,omitzero"`
}

// Locations locates position inside a resource. Progression is always
// present and within [0, 1].
type Locations struct {
	Fragments        []string `json:"fragments,omitempty"`
	Progression      float64  `json:"progression"`
	Position         int      `json:"position,omitempty"` // 1-based, 0 when unknown
	TotalProgression *float64 `json:"totalProgression,omitempty"`
}

// Text is the text context around a position.
type Text struct {
	Before    string `json:"before,omitempty"`
	Highlight string `json:"highlight,omitempty"`
	After     string `json:"after,omitempty"`
}

// IsEmpty reports whether there is no text context.
func (t Text) IsEmpty() bool {
	return len(t.Before) == 0 && len(t.Highlight) == 0 && len(t.After) == 0
}

// ClampProgression brings p within [0, 1], NaN becomes 0.
func ClampProgression(p float64) float64 {
	if math.IsNaN(p) {
		return 0
	}
	return math.Min(math.Max(p, 0), 1)
}

// Copy returns a deep copy of l.
func (l Locator) Copy() Locator {
	res := l
	res.Locations.Fragments = slices.Clone(l.Locations.Fragments)
	if l.Locations.TotalProgression != nil {
		tp := *l.Locations.TotalProgression
		res.Locations.TotalProgression = &tp
	}
	return res
}

// WithProgression returns a copy of l with clamped progression p.
func (l Locator) WithProgression(p float64) Locator {
	res := l.Copy()
	res.Locations.Progression = ClampProgression(p)
	return res
}

// Equal reports whether both locators point to the same position with same
// context.
func (l Locator) Equal(o Locator) bool {
	if l.Href != o.Href || l.Type != o.Type || l.Title != o.Title || l.Text != o.Text {
		return false
	}
	a, b := l.Locations, o.Locations
	if a.Progression != b.Progression || a.Position != b.Position || !slices.Equal(a.Fragments, b.Fragments) {
		return false
	}
	switch {
	case a.TotalProgression == nil && b.TotalProgression == nil:
		return true
	case a.TotalProgression == nil || b.TotalProgression == nil:
		return false
	default:
		return *a.TotalProgression == *b.TotalProgression
	}
}

func (l Locator) String() string {
	return fmt.Sprintf("%s@%.4f", l.Href, l.Locations.Progression)
}

// UnmarshalJSON decodes locator and clamps progression.
func (l *Locator) UnmarshalJSON(data []byte) error {
	type plain Locator
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unable to decode locator: %w", err)
	}
	if len(v.Href) == 0 {
		return fmt.Errorf("unable to decode locator: %w", ErrNoHref)
	}
	v.Locations.Progression = ClampProgression(v.Locations.Progression)
	if v.Locations.Position < 0 {
		v.Locations.Position = 0
	}
	if v.Locations.TotalProgression != nil {
		tp := ClampProgression(*v.Locations.TotalProgression)
		v.Locations.TotalProgression = &tp
	}
	*l = Locator(v)
	return nil
}

// LocatorFromJSON decodes a serialized locator.
func LocatorFromJSON(data []byte) (Locator, error) {
	var l Locator
	if err := json.Unmarshal(data, &l); err != nil {
		return Locator{}, err
	}
	return l, nil
}
