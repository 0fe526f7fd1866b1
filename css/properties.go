// Package css maps presentation settings to Readium CSS custom properties
// and extracts presentation hints from publication stylesheets.
package css

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
)

// Custom property prefixes.
const (
	UserPrefix = "--USER__"
	RsPrefix   = "--RS__"
)

// Properties is a flat set of CSS custom properties: full property name
// (with prefix) to serialized value. Order is irrelevant.
type Properties map[string]string

// Names returns property names sorted alphabetically.
func (p Properties) Names() []string {
	return slices.Sorted(maps.Keys(p))
}

// Merge copies all properties from other into p.
func (p Properties) Merge(other Properties) {
	maps.Copy(p, other)
}

// WriteTo writes properties as a single :root rule, implementing io.WriterTo.
// Properties are sorted alphabetically for deterministic output.
func (p Properties) WriteTo(w io.Writer) (int64, error) {
	var total int64
	n, err := fmt.Fprint(w, ":root {\n")
	total += int64(n)
	if err != nil {
		return total, err
	}
	for _, name := range p.Names() {
		n, err = fmt.Fprintf(w, "  %s: %s;\n", name, p[name])
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	n, err = fmt.Fprint(w, "}\n")
	total += int64(n)
	return total, err
}

// String returns CSS text of the :root rule.
func (p Properties) String() string {
	var sb strings.Builder
	p.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}

// builder accumulates properties under a single prefix skipping absent
// values.
type builder struct {
	prefix string
	props  Properties
}

func newBuilder(prefix string) *builder {
	return &builder{prefix: prefix, props: make(Properties)}
}

func (b *builder) put(name, value string) {
	if len(value) == 0 {
		return
	}
	b.props[b.prefix+name] = value
}

func (b *builder) has(name string) bool {
	_, ok := b.props[b.prefix+name]
	return ok
}

func (b *builder) length(name string, l *Length) {
	if l != nil {
		b.put(name, l.String())
	}
}

func (b *builder) number(name string, v *float64) {
	if v != nil {
		b.put(name, formatNumber(*v))
	}
}

func (b *builder) flag(name, flag string, v *bool) {
	if v != nil && *v {
		b.put(name, "readium-"+flag+"-on")
	}
}

func (b *builder) fonts(name string, list []string) {
	if len(list) > 0 {
		b.put(name, FontStack(list))
	}
}

// genericFamilies are keywords which stop being generic when quoted.
var genericFamilies = map[string]bool{
	"serif": true, "sans-serif": true, "monospace": true, "cursive": true,
	"fantasy": true, "system-ui": true, "math": true, "emoji": true, "fangsong": true,
	"ui-serif": true, "ui-sans-serif": true, "ui-monospace": true, "ui-rounded": true,
	"-apple-system": true, "blinkmacsystemfont": true,
}

// FontStack joins font family names preserving priority, names are quoted
// unless they are generic family keywords.
func FontStack(families []string) string {
	quoted := make([]string, 0, len(families))
	for _, f := range families {
		if genericFamilies[strings.ToLower(f)] {
			quoted = append(quoted, f)
			continue
		}
		quoted = append(quoted, Quote(f))
	}
	return strings.Join(quoted, ", ")
}

// Quote returns CSS string literal for s.
func Quote(s string) string {
	return `"` + escapeDoubleQuoted(s) + `"`
}

// escapeDoubleQuoted escapes a string for use inside CSS double quotes.
func escapeDoubleQuoted(s string) string {
	if !strings.ContainsAny(s, `"\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
