package reading

import (
	"context"
	"strings"

	cli "github.com/urfave/cli/v3"

	"epubnav/publication"
	"epubnav/utils/debug"
)

// Info prints publication structure: metadata, reading order and table of
// contents.
func Info(ctx context.Context, cmd *cli.Command) error {
	b, err := openBook(ctx, cmd, "info")
	if err != nil {
		return err
	}
	defer b.Close()

	_, err = output.Write(describe(b.pub).Bytes())
	return err
}

func describe(pub *publication.Publication) *debug.TreeWriter {
	tw := debug.NewTreeWriter()
	meta := pub.Metadata

	tw.Line(0, "metadata")
	tw.Field(1, "identifier", meta.Identifier)
	tw.Field(1, "title", meta.Title)
	tw.Field(1, "languages", strings.Join(meta.Languages, ", "))
	tw.Line(1, "layout: %s", meta.Layout)
	tw.Line(1, "reading progression: %s", meta.ReadingProgression)
	tw.Field(1, "direction", pub.Hints.Direction)
	tw.Field(1, "writing mode", pub.Hints.WritingMode)

	tw.Line(0, "reading order (%d)", len(pub.ReadingOrder))
	for i, l := range pub.ReadingOrder {
		tw.Line(1, "[%d] %s", i, l.Href)
		tw.Field(2, "type", l.Type)
		tw.Field(2, "title", l.Title)
	}

	tw.Line(0, "toc")
	var walk func(depth int, links []publication.Link)
	walk = func(depth int, links []publication.Link) {
		for _, l := range links {
			index := pub.ResourceIndex(l.Href)
			if index < 0 {
				tw.Line(depth, "%s (not in reading order)", l.Href)
			} else {
				tw.Line(depth, "[%d] %s", index, l.Href)
			}
			tw.Field(depth+1, "title", l.Title)
			walk(depth+1, l.Children)
		}
	}
	walk(1, pub.TOC)
	return tw
}
