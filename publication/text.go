package publication

import (
	"bytes"
	"compress/gzip"
	"embed"
	"errors"
	"io"
	"strings"
	"unicode"

	"github.com/neurosnap/sentences"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Punkt training data shipped with github.com/neurosnap/sentences, named by
// English language name.
//
//go:embed sentences/*.gz
var modelFiles embed.FS

var skipTags = map[atom.Atom]bool{
	atom.Script: true,
	atom.Style:  true,
	atom.Head:   true,
}

var blockTags = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Li: true, atom.Tr: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Blockquote: true, atom.Section: true, atom.Pre: true, atom.Dd: true, atom.Dt: true,
}

var headingTags = map[atom.Atom]bool{
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
}

type heading struct {
	offset int // in runes
	title  string
}

// Content is readable text of an XHTML resource.
type Content struct {
	Text     string
	headings []heading
}

// HeadingAt returns the last heading started at or before rune offset.
func (c *Content) HeadingAt(offset int) string {
	var title string
	for _, h := range c.headings {
		if h.offset > offset {
			break
		}
		title = h.title
	}
	return title
}

// ExtractContent extracts plain text and headings from XHTML data. Block
// elements produce spaces, whitespace runs are collapsed, content of
// script and style is skipped.
func ExtractContent(data []byte) (*Content, error) {
	tokenizer := html.NewTokenizer(bytes.NewReader(data))

	var (
		buf        strings.Builder
		runes      int
		skipDepth  int
		inHeading  bool
		headingBuf strings.Builder
		headStart  int
		lastSpace  = true
		content    = &Content{}
	)

	write := func(s string) {
		for _, r := range s {
			if unicode.IsSpace(r) {
				if lastSpace {
					continue
				}
				r, lastSpace = ' ', true
			} else {
				lastSpace = false
			}
			buf.WriteRune(r)
			runes++
		}
	}

	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			if err := tokenizer.Err(); !errors.Is(err, io.EOF) {
				return nil, err
			}
			content.Text = strings.TrimRight(buf.String(), " ")
			return content, nil

		case html.StartTagToken, html.SelfClosingTagToken:
			tn, _ := tokenizer.TagName()
			a := atom.Lookup(tn)
			if skipTags[a] && tt == html.StartTagToken {
				skipDepth++
				continue
			}
			if skipDepth > 0 {
				continue
			}
			if blockTags[a] {
				write(" ")
			}
			if headingTags[a] && tt == html.StartTagToken {
				inHeading, headStart = true, runes
				headingBuf.Reset()
			}

		case html.EndTagToken:
			tn, _ := tokenizer.TagName()
			a := atom.Lookup(tn)
			if skipTags[a] && skipDepth > 0 {
				skipDepth--
				continue
			}
			if headingTags[a] && inHeading {
				inHeading = false
				if title := strings.Join(strings.Fields(headingBuf.String()), " "); title != "" {
					content.headings = append(content.headings, heading{offset: headStart, title: title})
				}
			}
			if blockTags[a] {
				write(" ")
			}

		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			text := string(tokenizer.Text())
			if inHeading {
				headingBuf.WriteString(text)
			}
			write(text)
		}
	}
}

// Span is a sentence position in text, in runes.
type Span struct {
	Start, End int
}

// Splitter splits text into sentences. Nil splitter does not split.
type Splitter struct {
	*sentences.DefaultSentenceTokenizer
}

func loadModel(name string) ([]byte, error) {
	data, err := modelFiles.ReadFile("sentences/" + name + ".json.gz")
	if err != nil {
		return nil, err
	}
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// modelNames lists model names to try for lang: its own English display
// name first, then the one of its base language.
func modelNames(lang language.Tag) []string {
	if lang == language.Und {
		return []string{"english"}
	}
	names := []string{strings.ToLower(display.English.Languages().Name(lang))}
	if base, confidence := lang.Base(); confidence != language.No {
		if name := strings.ToLower(display.English.Languages().Name(language.Make(base.String()))); name != names[0] {
			names = append(names, name)
		}
	}
	return names
}

// NewSplitter returns sentence splitter for language, nil when there is no
// model for it. Undetermined language is treated as English.
func NewSplitter(lang language.Tag, log *zap.Logger) *Splitter {
	if log == nil {
		log = zap.NewNop()
	}
	for _, name := range modelNames(lang) {
		data, err := loadModel(name)
		if err != nil {
			continue
		}
		model, err := sentences.LoadTraining(data)
		if err != nil {
			log.Warn("Unable to load sentences tokenizer data", zap.Stringer("tag", lang), zap.String("model", name), zap.Error(err))
			return nil
		}
		log.Debug("Sentence tokenizer model loaded", zap.Stringer("tag", lang), zap.String("model", name))
		return &Splitter{sentences.NewSentenceTokenizer(model)}
	}
	log.Debug("No sentence tokenizer model for language, sentence splitting is off", zap.Stringer("language", lang))
	return nil
}

// Split returns slice of sentences. Trailing spaces stay with the sentence
// they follow.
func (s *Splitter) Split(in string) []string {
	var res []string
	if s == nil {
		return append(res, in)
	}

	for _, sentence := range s.Tokenize(in) {
		res = append(res, sentence.Text)
	}

	// tokenizer attaches spaces to the beginning of the next sentence
	for i := range len(res) - 1 {
		for idx, sym := range res[i+1] {
			if !unicode.IsSpace(sym) {
				res[i] = res[i] + res[i+1][0:idx]
				res[i+1] = res[i+1][idx:]
				break
			}
		}
	}
	return res
}

// Spans returns rune ranges of sentences in text, nil when splitting is off.
func (s *Splitter) Spans(text string) []Span {
	if s == nil || len(text) == 0 {
		return nil
	}
	var (
		res   []Span
		start int
	)
	for _, sentence := range s.Split(text) {
		end := start + runeLen(sentence)
		res = append(res, Span{Start: start, End: end})
		start = end
	}
	return res
}
