// Package debug has helpers producing human readable dumps of program
// structures.
package debug

import (
	"fmt"
	"strconv"
	"strings"
)

const indent = "  "

// TreeWriter renders indented tree, one node per line.
type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{
		w: &strings.Builder{},
	}
}

func (tw *TreeWriter) String() string {
	return tw.w.String()
}

// Bytes returns rendered tree, convenient for report entries.
func (tw *TreeWriter) Bytes() []byte {
	return []byte(tw.w.String())
}

// Line writes formatted node at depth.
func (tw *TreeWriter) Line(depth int, format string, args ...any) {
	tw.pad(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// Field writes labeled value at depth, value is quoted so that white space
// and control characters are visible. Empty values are skipped.
func (tw *TreeWriter) Field(depth int, label, value string) {
	if len(value) == 0 {
		return
	}
	tw.pad(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(strconv.Quote(value))
	tw.w.WriteByte('\n')
}

func (tw *TreeWriter) pad(depth int) {
	tw.w.WriteString(strings.Repeat(indent, max(0, depth)))
}
