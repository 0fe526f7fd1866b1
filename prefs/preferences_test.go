package prefs_test

import (
	"encoding/json"
	"strings"
	"testing"

	"epubnav/common"
	"epubnav/prefs"
)

var (
	fontSizeKey = prefs.NewKey("fontSize", prefs.Float)
	hyphensKey  = prefs.NewKey("hyphens", prefs.Bool)
	themeKey    = prefs.NewKey("theme", prefs.Enum(common.ParseTheme))
	fontKey     = prefs.NewKey("font", prefs.String)
	columnsKey  = prefs.NewKey("columns", prefs.Int)
)

func TestKey_SetGet(t *testing.T) {
	m := prefs.NewMutable()
	fontSizeKey.Set(m, 1.5)
	hyphensKey.Set(m, true)
	themeKey.Set(m, common.ThemeSepia)
	fontKey.Set(m, "Roboto")
	columnsKey.Set(m, 2)

	p := m.Preferences()

	if v, ok := fontSizeKey.Get(p); !ok || v != 1.5 {
		t.Errorf("fontSize = %v, %v; want 1.5, true", v, ok)
	}
	if v, ok := hyphensKey.Get(p); !ok || !v {
		t.Errorf("hyphens = %v, %v; want true, true", v, ok)
	}
	if v, ok := themeKey.Get(p); !ok || v != common.ThemeSepia {
		t.Errorf("theme = %v, %v; want sepia, true", v, ok)
	}
	if v, ok := fontKey.Get(p); !ok || v != "Roboto" {
		t.Errorf("font = %q, %v; want Roboto, true", v, ok)
	}
	if v, ok := columnsKey.Get(p); !ok || v != 2 {
		t.Errorf("columns = %v, %v; want 2, true", v, ok)
	}
}

func TestKey_GetAbsent(t *testing.T) {
	var p prefs.Preferences
	if _, ok := fontSizeKey.Get(p); ok {
		t.Error("expected absent key to report false")
	}
	if _, ok := fontSizeKey.Get(nil); ok {
		t.Error("expected nil reader to report false")
	}
}

func TestKey_GetMalformed(t *testing.T) {
	m := prefs.NewMutable()
	m.SetRaw("fontSize", "large")
	m.SetRaw("theme", "purple")
	m.SetRaw("columns", 1.5)

	if _, ok := fontSizeKey.Get(m); ok {
		t.Error("string should not decode as float")
	}
	if _, ok := themeKey.Get(m); ok {
		t.Error("unknown theme name should not decode")
	}
	if _, ok := columnsKey.Get(m); ok {
		t.Error("fractional number should not decode as int")
	}
	if !themeKey.IsSet(m) {
		t.Error("malformed value should still be reported as set")
	}
}

func TestKey_SetNilEncodingRemoves(t *testing.T) {
	m := prefs.NewMutable()
	fontKey.Set(m, "Roboto")
	fontKey.Set(m, "")
	if fontKey.IsSet(m) {
		t.Error("empty string has no stored form and must remove the key")
	}

	fontSizeKey.Set(m, 1.2)
	fontSizeKey.SetOptional(m, nil)
	if fontSizeKey.IsSet(m) {
		t.Error("SetOptional(nil) must remove the key")
	}

	v := 0.8
	fontSizeKey.SetOptional(m, &v)
	if got, _ := fontSizeKey.Get(m); got != 0.8 {
		t.Errorf("fontSize = %v, want 0.8", got)
	}
}

func TestPreferences_Merged(t *testing.T) {
	a := prefs.New(func(m *prefs.MutablePreferences) {
		fontSizeKey.Set(m, 1.0)
		hyphensKey.Set(m, false)
	})
	b := prefs.New(func(m *prefs.MutablePreferences) {
		fontSizeKey.Set(m, 2.0)
		themeKey.Set(m, common.ThemeDark)
	})

	merged := a.Merged(b)

	if v, _ := fontSizeKey.Get(merged); v != 2.0 {
		t.Errorf("overlay must win: fontSize = %v, want 2", v)
	}
	if v, ok := hyphensKey.Get(merged); !ok || v {
		t.Errorf("keys unique to base must survive: hyphens = %v, %v", v, ok)
	}
	if v, _ := themeKey.Get(merged); v != common.ThemeDark {
		t.Errorf("theme = %v, want dark", v)
	}

	// inputs are untouched
	if v, _ := fontSizeKey.Get(a); v != 1.0 {
		t.Errorf("base changed: fontSize = %v", v)
	}
}

func TestPreferences_CopyIsolation(t *testing.T) {
	a := prefs.New(func(m *prefs.MutablePreferences) {
		fontSizeKey.Set(m, 1.0)
	})
	b := a.Copy(func(m *prefs.MutablePreferences) {
		fontSizeKey.Set(m, 3.0)
		m.RemoveRaw("missing")
	})
	if v, _ := fontSizeKey.Get(a); v != 1.0 {
		t.Errorf("original mutated: %v", v)
	}
	if v, _ := fontSizeKey.Get(b); v != 3.0 {
		t.Errorf("copy = %v, want 3", v)
	}

	m := b.ToMutable()
	m.Clear()
	if b.IsEmpty() {
		t.Error("clearing a mutable copy must not affect the snapshot")
	}
}

func TestPreferences_Equal(t *testing.T) {
	a := prefs.New(func(m *prefs.MutablePreferences) {
		columnsKey.Set(m, 2)
		themeKey.Set(m, common.ThemeLight)
	})
	b := prefs.New(func(m *prefs.MutablePreferences) {
		m.SetRaw("theme", "light")
		m.SetRaw("columns", int64(2))
	})
	if !a.Equal(b) {
		t.Errorf("expected %s to equal %s", a, b)
	}

	c := b.Copy(func(m *prefs.MutablePreferences) { m.SetRaw("columns", 3) })
	if a.Equal(c) {
		t.Error("different values must not be equal")
	}
	if a.Equal(prefs.Preferences{}) {
		t.Error("non-empty must not equal empty")
	}
}

func TestPreferences_JSONRoundTrip(t *testing.T) {
	p := prefs.New(func(m *prefs.MutablePreferences) {
		fontSizeKey.Set(m, 1.25)
		hyphensKey.Set(m, true)
		themeKey.Set(m, common.ThemeSepia)
		columnsKey.Set(m, 1)
	})

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal error = %v", err)
	}
	if !strings.HasPrefix(string(data), "{") {
		t.Fatalf("expected flat object, got %s", data)
	}

	back, err := prefs.FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON error = %v", err)
	}
	if !p.Equal(back) {
		t.Errorf("round trip mismatch: %s vs %s", p, back)
	}
}

func TestPreferences_UnmarshalDropsStructured(t *testing.T) {
	p, err := prefs.FromJSON([]byte(`{"a": 1, "b": [1,2], "c": {"x": 1}, "d": null, "e": "s"}`))
	if err != nil {
		t.Fatalf("FromJSON error = %v", err)
	}
	if got := strings.Join(p.Keys(), ","); got != "a,e" {
		t.Errorf("Keys() = %q, want a,e", got)
	}
}

func TestPreferences_FromJSONInvalid(t *testing.T) {
	if _, err := prefs.FromJSON([]byte(`[1,2]`)); err == nil {
		t.Error("expected error for non-object payload")
	}
	p, err := prefs.FromJSON(nil)
	if err != nil || !p.IsEmpty() {
		t.Errorf("empty input: %v, %v", p, err)
	}
	if s := (prefs.Preferences{}).String(); s != "{}" {
		t.Errorf("String() = %q, want {}", s)
	}
}

func TestFromMap(t *testing.T) {
	p := prefs.FromMap(map[string]any{
		"fontSize": 1.4,
		"columns":  2,
		"theme":    "dark",
		"nested":   map[string]any{"x": 1},
	})
	if p.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", p.Len())
	}
	if v, ok := columnsKey.Get(p); !ok || v != 2 {
		t.Errorf("columns = %v, %v", v, ok)
	}
}
