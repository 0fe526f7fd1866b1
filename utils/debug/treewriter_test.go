package debug

import (
	"testing"
)

func TestTreeWriter_Line(t *testing.T) {
	tests := []struct {
		name   string
		depth  int
		format string
		args   []any
		want   string
	}{
		{"no depth", 0, "test", nil, "test\n"},
		{"depth 1", 1, "indented", nil, "  indented\n"},
		{"depth 2", 2, "double indent", nil, "    double indent\n"},
		{"negative depth", -1, "flat", nil, "flat\n"},
		{"with formatting", 1, "value: %d", []any{42}, "  value: 42\n"},
		{"multiple args", 0, "%s = %d", []any{"count", 5}, "count = 5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.Line(tt.depth, tt.format, tt.args...)
			if got := tw.String(); got != tt.want {
				t.Errorf("Line() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_Field(t *testing.T) {
	tests := []struct {
		name  string
		depth int
		label string
		value string
		want  string
	}{
		{"plain", 0, "title", "Chapter", "title: \"Chapter\"\n"},
		{"indented", 2, "href", "text/ch1.xhtml", "    href: \"text/ch1.xhtml\"\n"},
		{"control characters", 1, "text", "a\tb\n", "  text: \"a\\tb\\n\"\n"},
		{"empty is skipped", 1, "title", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.Field(tt.depth, tt.label, tt.value)
			if got := tw.String(); got != tt.want {
				t.Errorf("Field() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_Tree(t *testing.T) {
	tw := NewTreeWriter()
	tw.Line(0, "toc")
	tw.Line(1, "[0] %s", "one.xhtml")
	tw.Field(2, "title", "One")
	tw.Line(1, "[1] %s", "two.xhtml")

	want := "toc\n  [0] one.xhtml\n    title: \"One\"\n  [1] two.xhtml\n"
	if got := string(tw.Bytes()); got != want {
		t.Errorf("tree =\n%s\nwant\n%s", got, want)
	}
}
