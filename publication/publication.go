// Package publication models an opened EPUB publication: metadata, reading
// order, table of contents, locators and precomputed positions.
package publication

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"slices"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"epubnav/common"
	"epubnav/css"
)

var (
	// ErrInvalidEPUB is returned when archive does not look like EPUB.
	ErrInvalidEPUB = errors.New("invalid EPUB")
	// ErrResourceNotFound is returned when requested resource is absent.
	ErrResourceNotFound = errors.New("resource not found")
	// ErrNoHref is returned for locators without resource reference.
	ErrNoHref = errors.New("locator has no href")
)

// Container gives access to publication resources by archive path.
type Container interface {
	Read(href string) ([]byte, error)
	io.Closer
}

// MemoryContainer keeps resources in memory.
type MemoryContainer map[string][]byte

func (c MemoryContainer) Read(href string) ([]byte, error) {
	data, ok := c[href]
	if !ok {
		return nil, fmt.Errorf("%s: %w", href, ErrResourceNotFound)
	}
	return data, nil
}

func (c MemoryContainer) Close() error {
	return nil
}

// Link references a publication resource.
type Link struct {
	Href       string   `json:"href"`
	Type       string   `json:"type,omitempty"`
	Title      string   `json:"title,omitempty"`
	Properties []string `json:"properties,omitempty"`
	Children   []Link   `json:"children,omitempty"`
}

// Metadata describes publication.
type Metadata struct {
	Identifier         string                    `json:"identifier,omitempty"`
	Title              string                    `json:"title"`
	Languages          []string                  `json:"languages,omitempty"`
	Layout             common.Layout             `json:"layout"`
	ReadingProgression common.ReadingProgression `json:"readingProgression"`
}

// Language returns primary publication language, und when not declared or
// malformed.
func (m Metadata) Language() language.Tag {
	if len(m.Languages) == 0 {
		return language.Und
	}
	tag, err := language.Parse(m.Languages[0])
	if err != nil {
		return language.Und
	}
	return tag
}

// Publication is an opened publication. It is read-only after it was
// opened and safe for concurrent readers.
type Publication struct {
	Metadata     Metadata
	ReadingOrder []Link
	Resources    []Link
	TOC          []Link
	// Hints are presentation properties declared by publication stylesheets.
	Hints css.Hints

	container Container
	log       *zap.Logger
}

// New assembles publication from parts, used by loaders and tests.
func New(meta Metadata, readingOrder, resources, toc []Link, container Container, log *zap.Logger) *Publication {
	if log == nil {
		log = zap.NewNop()
	}
	return &Publication{
		Metadata:     meta,
		ReadingOrder: readingOrder,
		Resources:    resources,
		TOC:          toc,
		container:    container,
		log:          log,
	}
}

// Close releases underlying container.
func (p *Publication) Close() error {
	if p.container == nil {
		return nil
	}
	return p.container.Close()
}

// Read returns content of resource href, fragment is ignored.
func (p *Publication) Read(href string) ([]byte, error) {
	if p.container == nil {
		return nil, fmt.Errorf("%s: %w", href, ErrResourceNotFound)
	}
	return p.container.Read(StripFragment(href))
}

// ResourceIndex returns index of href in reading order, -1 when href is not
// a reading order resource.
func (p *Publication) ResourceIndex(href string) int {
	href = StripFragment(href)
	for i, l := range p.ReadingOrder {
		if l.Href == href {
			return i
		}
	}
	return -1
}

// LinkWithHref looks for href in reading order and resources.
func (p *Publication) LinkWithHref(href string) (Link, bool) {
	href = StripFragment(href)
	for _, list := range [][]Link{p.ReadingOrder, p.Resources} {
		for _, l := range list {
			if l.Href == href {
				return l, true
			}
		}
	}
	return Link{}, false
}

// TOCTitles maps resource href (without fragment) to the title of the first
// table of contents entry pointing into it. Parent entries are visited
// before their children.
func (p *Publication) TOCTitles() map[string]string {
	titles := make(map[string]string)
	var walk func(links []Link)
	walk = func(links []Link) {
		for _, l := range links {
			if href := StripFragment(l.Href); href != "" && l.Title != "" {
				if _, exists := titles[href]; !exists {
					titles[href] = l.Title
				}
			}
			walk(l.Children)
		}
	}
	walk(p.TOC)
	return titles
}

const coverProperty = "cover-image"

// CoverLink returns cover image resource.
func (p *Publication) CoverLink() (Link, bool) {
	for _, l := range p.Resources {
		if slices.Contains(l.Properties, coverProperty) {
			return l, true
		}
	}
	return Link{}, false
}

// FirstLocator returns locator of the beginning of reading order.
func (p *Publication) FirstLocator() (Locator, bool) {
	if len(p.ReadingOrder) == 0 {
		return Locator{}, false
	}
	l := p.ReadingOrder[0]
	return Locator{Href: l.Href, Type: l.Type, Title: l.Title}, true
}

// LocatorFromLink builds locator for link, keeping fragment.
func (p *Publication) LocatorFromLink(link Link) (Locator, bool) {
	href, fragment, _ := strings.Cut(link.Href, "#")
	res, ok := p.LinkWithHref(href)
	if !ok {
		return Locator{}, false
	}
	loc := Locator{Href: res.Href, Type: res.Type, Title: link.Title}
	if len(loc.Title) == 0 {
		loc.Title = res.Title
	}
	if len(fragment) > 0 {
		loc.Locations.Fragments = []string{fragment}
	}
	return loc, true
}

// StripFragment removes #fragment part from href.
func StripFragment(href string) string {
	before, _, _ := strings.Cut(href, "#")
	return before
}

// ResolveHref resolves href relative to archive path base, keeping
// fragment.
func ResolveHref(base, href string) string {
	href = strings.TrimSpace(href)
	if len(href) == 0 {
		return ""
	}
	target, fragment, hasFragment := strings.Cut(href, "#")
	if u, err := url.PathUnescape(target); err == nil {
		target = u
	}
	if len(target) == 0 {
		target = base
	} else if !strings.HasPrefix(target, "/") {
		target = path.Join(path.Dir(base), target)
	}
	target = strings.TrimPrefix(path.Clean(target), "/")
	if hasFragment {
		return target + "#" + fragment
	}
	return target
}
