package publication

import (
	"context"
	"math"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// DefaultPositionLength is number of bytes of a reflowable resource covered
// by a single position.
const DefaultPositionLength = 1024

// excerptContext is maximum number of runes kept before and after highlight.
const excerptContext = 50

// PositionTable is a per reading order resource list of fine grained
// locators. It is built once per publication and read-only afterwards.
type PositionTable struct {
	byResource [][]Locator
	total      int
}

// NewPositionTable wraps precomputed positions.
func NewPositionTable(byResource [][]Locator) *PositionTable {
	t := &PositionTable{byResource: byResource}
	for _, list := range byResource {
		t.total += len(list)
	}
	return t
}

// Total returns number of positions in the whole publication.
func (t *PositionTable) Total() int {
	if t == nil {
		return 0
	}
	return t.total
}

// Resources returns number of reading order resources covered.
func (t *PositionTable) Resources() int {
	if t == nil {
		return 0
	}
	return len(t.byResource)
}

// Resource returns positions of reading order resource index.
func (t *PositionTable) Resource(index int) []Locator {
	if t == nil || index < 0 || index >= len(t.byResource) {
		return nil
	}
	return t.byResource[index]
}

// Lookup maps resource local progression to the nearest indexed position:
// ceil(progression × (count−1)).
func (t *PositionTable) Lookup(index int, progression float64) (Locator, bool) {
	positions := t.Resource(index)
	if len(positions) == 0 {
		return Locator{}, false
	}
	return positions[LocalIndex(progression, len(positions))], true
}

// LocalIndex returns index of position matching progression among count
// positions of a resource.
func LocalIndex(progression float64, count int) int {
	if count <= 0 {
		return -1
	}
	i := int(math.Ceil(ClampProgression(progression) * float64(count-1)))
	return min(max(i, 0), count-1)
}

// Position returns locator with 1-based global position n.
func (t *PositionTable) Position(n int) (Locator, bool) {
	if t == nil || n < 1 {
		return Locator{}, false
	}
	n--
	for _, list := range t.byResource {
		if n < len(list) {
			return list[n], true
		}
		n -= len(list)
	}
	return Locator{}, false
}

// All returns all positions in reading order.
func (t *PositionTable) All() []Locator {
	if t == nil {
		return nil
	}
	res := make([]Locator, 0, t.total)
	for _, list := range t.byResource {
		res = append(res, list...)
	}
	return res
}

// PositionBuilder computes position table of a publication.
type PositionBuilder struct {
	length int
	log    *zap.Logger
}

// NewPositionBuilder creates builder producing one position per length bytes
// of reflowable content.
func NewPositionBuilder(length int, log *zap.Logger) *PositionBuilder {
	if length <= 0 {
		length = DefaultPositionLength
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &PositionBuilder{length: length, log: log.Named("positions")}
}

// Build computes positions for every reading order resource. Fixed layout
// publications and non HTML resources get a single position per resource.
// Unreadable resources get a single position without text.
func (b *PositionBuilder) Build(ctx context.Context, pub *Publication) (*PositionTable, error) {
	splitter := NewSplitter(pub.Metadata.Language(), b.log)

	byResource := make([][]Locator, len(pub.ReadingOrder))
	for i, link := range pub.ReadingOrder {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		byResource[i] = b.resourcePositions(pub, link, splitter)
	}

	// global numbering
	total := 0
	for _, list := range byResource {
		total += len(list)
	}
	n := 0
	for _, list := range byResource {
		for j := range list {
			tp := float64(n) / float64(total)
			list[j].Locations.Position = n + 1
			list[j].Locations.TotalProgression = &tp
			n++
		}
	}

	b.log.Debug("Positions computed", zap.Int("resources", len(byResource)), zap.Int("positions", total))
	return NewPositionTable(byResource), nil
}

func (b *PositionBuilder) resourcePositions(pub *Publication, link Link, splitter *Splitter) []Locator {
	single := []Locator{{Href: link.Href, Type: link.Type, Title: link.Title}}

	if pub.Metadata.Layout.IsFixed() || !isHTML(link.Type) {
		return single
	}

	data, err := pub.Read(link.Href)
	if err != nil {
		b.log.Warn("Unable to read resource for positions", zap.String("href", link.Href), zap.Error(err))
		return single
	}

	content, err := ExtractContent(data)
	if err != nil {
		b.log.Warn("Unable to parse resource for positions", zap.String("href", link.Href), zap.Error(err))
		return single
	}

	count := max(1, int(math.Ceil(float64(len(data))/float64(b.length))))
	runes := []rune(content.Text)
	spans := splitter.Spans(content.Text)

	res := make([]Locator, 0, count)
	for j := range count {
		progression := float64(j) / float64(count)
		offset := int(progression * float64(len(runes)))

		loc := Locator{
			Href:      link.Href,
			Type:      link.Type,
			Title:     content.HeadingAt(offset),
			Locations: Locations{Progression: progression},
			Text:      excerpt(runes, spans, offset),
		}
		if len(loc.Title) == 0 {
			loc.Title = link.Title
		}
		res = append(res, loc)
	}
	return res
}

// excerpt returns sentence covering rune offset with some context around it.
func excerpt(runes []rune, spans []Span, offset int) Text {
	if len(runes) == 0 {
		return Text{}
	}
	start, end := 0, len(runes)
	for _, s := range spans {
		if offset >= s.Start && offset < s.End {
			start, end = s.Start, s.End
			break
		}
	}
	if len(spans) == 0 {
		start, end = offset, min(offset+2*excerptContext, len(runes))
	}
	return Text{
		Before:    strings.TrimLeft(string(runes[max(0, start-excerptContext):start]), " "),
		Highlight: strings.TrimSpace(string(runes[start:end])),
		After:     strings.TrimRight(string(runes[end:min(len(runes), end+excerptContext)]), " "),
	}
}

func isHTML(mediaType string) bool {
	switch strings.ToLower(mediaType) {
	case "application/xhtml+xml", "text/html":
		return true
	default:
		return false
	}
}

// runeLen is utf8.RuneCountInString, named for readability at call sites.
func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
