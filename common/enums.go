// Package common keeps presentation enums shared by settings, publication
// model and CSS mapping so none of them has to import the others.
package common

//go:generate go tool go-enum --marshal --names --values

// Color theme of the reading view.
// ENUM(light, dark, sepia)
type Theme int

// Text alignment requested by the reader.
// ENUM(center, justify, start, end, left, right)
type TextAlign int

// Number of columns in paginated mode.
// ENUM(auto, one, two)
type ColumnCount int

// Filter applied to images in dark theme.
// ENUM(none, darken, invert)
type ImageFilter int

// How content overflows the viewport.
// ENUM(auto, paginated, scrolled)
type Overflow int

// Direction in which resources and pages progress.
// ENUM(auto, ltr, rtl)
type ReadingProgression int

// Presentation mode of a publication.
// ENUM(reflowable, fixed)
type Layout int

// IsRTL reports whether progression goes from right to left.
func (r ReadingProgression) IsRTL() bool {
	return r == ReadingProgressionRtl
}

// IsFixed reports whether publication pages have fixed geometry.
func (l Layout) IsFixed() bool {
	return l == LayoutFixed
}
