package publication

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"slices"
	"strings"

	"github.com/beevik/etree"
	"github.com/h2non/filetype"
	fixzip "github.com/hidez8891/zip"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"epubnav/common"
	"epubnav/css"
)

const containerPath = "META-INF/container.xml"

// zipContainer reads resources from EPUB archive.
type zipContainer struct {
	r     *fixzip.ReadCloser
	files map[string]*fixzip.File
}

func openZip(name string) (*zipContainer, error) {
	r, err := fixzip.OpenReader(name)
	if err != nil {
		return nil, fmt.Errorf("unable to read archive file (%s): %w", name, err)
	}
	c := &zipContainer{r: r, files: make(map[string]*fixzip.File, len(r.File))}
	for _, f := range r.File {
		c.files[f.Name] = f
	}
	return c, nil
}

func (c *zipContainer) Read(href string) ([]byte, error) {
	f, ok := c.files[href]
	if !ok {
		// some producers do not care about case
		for name, file := range c.files {
			if strings.EqualFold(name, href) {
				f, ok = file, true
				break
			}
		}
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", href, ErrResourceNotFound)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("unable to open %s: %w", href, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (c *zipContainer) Close() error {
	return c.r.Close()
}

// Open opens EPUB file.
func Open(name string, log *zap.Logger) (*Publication, error) {
	c, err := openZip(name)
	if err != nil {
		return nil, err
	}
	pub, err := Load(c, log)
	if err != nil {
		return nil, multierr.Append(err, c.Close())
	}
	return pub, nil
}

// Load reads EPUB structure from container: package document, reading order,
// table of contents and stylesheet hints. On success publication owns the
// container.
func Load(c Container, log *zap.Logger) (*Publication, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("epub")

	opfPath, err := findPackagePath(c)
	if err != nil {
		return nil, err
	}
	data, err := c.Read(opfPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read package document: %w", err)
	}
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{Permissive: true}
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("unable to parse package document (%s): %w", opfPath, err)
	}
	root := doc.Root()
	if root == nil || root.Tag != "package" {
		return nil, fmt.Errorf("package document (%s) has no package element: %w", opfPath, ErrInvalidEPUB)
	}

	meta := parseMetadata(root)

	manifest := make(map[string]manifestItem)
	var resources []Link
	if m := root.SelectElement("manifest"); m != nil {
		for _, item := range m.SelectElements("item") {
			mi := manifestItem{
				id:         item.SelectAttrValue("id", ""),
				href:       ResolveHref(opfPath, item.SelectAttrValue("href", "")),
				mediaType:  item.SelectAttrValue("media-type", ""),
				properties: strings.Fields(item.SelectAttrValue("properties", "")),
			}
			if len(mi.href) == 0 {
				continue
			}
			if len(mi.mediaType) == 0 {
				mi.mediaType = sniffMediaType(c, mi.href)
				log.Debug("Manifest item has no media type", zap.String("href", mi.href), zap.String("detected", mi.mediaType))
			}
			manifest[mi.id] = mi
			resources = append(resources, Link{Href: mi.href, Type: mi.mediaType, Properties: mi.properties})
		}
	}

	// EPUB 2 points to cover image from metadata
	if m := root.SelectElement("metadata"); m != nil {
		for _, el := range m.SelectElements("meta") {
			if el.SelectAttrValue("name", "") != "cover" {
				continue
			}
			mi, ok := manifest[el.SelectAttrValue("content", "")]
			if !ok {
				continue
			}
			for i := range resources {
				if resources[i].Href == mi.href && !slices.Contains(resources[i].Properties, coverProperty) {
					resources[i].Properties = append(slices.Clone(resources[i].Properties), coverProperty)
				}
			}
		}
	}

	var readingOrder []Link
	var ncxID string
	if spine := root.SelectElement("spine"); spine != nil {
		ncxID = spine.SelectAttrValue("toc", "")
		if meta.ReadingProgression == common.ReadingProgressionAuto {
			if p, err := common.ParseReadingProgression(spine.SelectAttrValue("page-progression-direction", "")); err == nil {
				meta.ReadingProgression = p
			}
		}
		for _, ref := range spine.SelectElements("itemref") {
			mi, ok := manifest[ref.SelectAttrValue("idref", "")]
			if !ok {
				log.Warn("Spine references unknown manifest item", zap.String("idref", ref.SelectAttrValue("idref", "")))
				continue
			}
			readingOrder = append(readingOrder, Link{Href: mi.href, Type: mi.mediaType, Properties: mi.properties})
		}
	}
	if len(readingOrder) == 0 {
		return nil, fmt.Errorf("package document (%s) has empty spine: %w", opfPath, ErrInvalidEPUB)
	}

	toc := loadNavTOC(c, resources, log)
	if len(toc) == 0 {
		if mi, ok := manifest[ncxID]; ok {
			toc = loadNCX(c, mi.href, log)
		}
	}

	pub := New(meta, readingOrder, resources, toc, c, log)

	// reading order links get titles from table of contents
	titles := pub.TOCTitles()
	for i := range pub.ReadingOrder {
		pub.ReadingOrder[i].Title = titles[pub.ReadingOrder[i].Href]
	}

	scanner := css.NewHintScanner(log)
	for _, r := range resources {
		if r.Type != "text/css" {
			continue
		}
		data, err := c.Read(r.Href)
		if err != nil {
			log.Warn("Unable to read stylesheet", zap.String("href", r.Href), zap.Error(err))
			continue
		}
		pub.Hints.Merge(scanner.Scan(data, r.Href))
	}

	log.Debug("Publication loaded",
		zap.String("title", meta.Title),
		zap.Int("reading order", len(readingOrder)),
		zap.Int("toc", len(toc)),
		zap.Stringer("layout", meta.Layout),
		zap.Stringer("progression", meta.ReadingProgression))
	return pub, nil
}

type manifestItem struct {
	id         string
	href       string
	mediaType  string
	properties []string
}

func findPackagePath(c Container) (string, error) {
	data, err := c.Read(containerPath)
	if err != nil {
		return "", fmt.Errorf("unable to read %s: %w: %w", containerPath, ErrInvalidEPUB, err)
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return "", fmt.Errorf("unable to parse %s: %w", containerPath, err)
	}
	var fallback string
	for _, rf := range doc.FindElements("//rootfile") {
		fullPath := strings.TrimSpace(rf.SelectAttrValue("full-path", ""))
		if len(fullPath) == 0 {
			continue
		}
		if strings.EqualFold(rf.SelectAttrValue("media-type", ""), "application/oebps-package+xml") {
			return fullPath, nil
		}
		if len(fallback) == 0 {
			fallback = fullPath
		}
	}
	if len(fallback) == 0 {
		return "", fmt.Errorf("%s has no rootfile entries: %w", containerPath, ErrInvalidEPUB)
	}
	return fallback, nil
}

func parseMetadata(root *etree.Element) Metadata {
	var meta Metadata
	m := root.SelectElement("metadata")
	if m == nil {
		return meta
	}
	uid := root.SelectAttrValue("unique-identifier", "")
	for _, id := range m.SelectElements("identifier") {
		if len(meta.Identifier) == 0 || id.SelectAttrValue("id", "") == uid {
			meta.Identifier = strings.TrimSpace(id.Text())
		}
	}
	if t := m.SelectElement("title"); t != nil {
		meta.Title = strings.TrimSpace(t.Text())
	}
	for _, l := range m.SelectElements("language") {
		if lang := strings.TrimSpace(l.Text()); lang != "" {
			meta.Languages = append(meta.Languages, lang)
		}
	}
	for _, el := range m.SelectElements("meta") {
		switch el.SelectAttrValue("property", "") {
		case "rendition:layout":
			if strings.TrimSpace(el.Text()) == "pre-paginated" {
				meta.Layout = common.LayoutFixed
			}
		}
	}
	return meta
}

// sniffMediaType detects media type of resource from its content, falling
// back to file extension for text formats.
func sniffMediaType(c Container, href string) string {
	switch strings.ToLower(path.Ext(href)) {
	case ".xhtml", ".html", ".htm":
		return "application/xhtml+xml"
	case ".css":
		return "text/css"
	case ".ncx":
		return "application/x-dtbncx+xml"
	}
	data, err := c.Read(href)
	if err != nil {
		return ""
	}
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return ""
	}
	return kind.MIME.Value
}

func loadNavTOC(c Container, resources []Link, log *zap.Logger) []Link {
	for _, r := range resources {
		if !slices.Contains(r.Properties, "nav") {
			continue
		}
		data, err := c.Read(r.Href)
		if err != nil {
			log.Warn("Unable to read navigation document", zap.String("href", r.Href), zap.Error(err))
			return nil
		}
		toc, err := parseNavDocument(data, r.Href)
		if err != nil {
			log.Warn("Unable to parse navigation document", zap.String("href", r.Href), zap.Error(err))
			return nil
		}
		return toc
	}
	return nil
}

func parseNavDocument(data []byte, base string) ([]Link, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	var toc []Link
	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "nav" && slices.Contains(strings.Fields(attr(n, "epub:type")), "toc") {
			if ol := firstDescendant(n, "ol"); ol != nil {
				toc = parseNavList(ol, base)
			}
			return true
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			if walk(ch) {
				return true
			}
		}
		return false
	}
	walk(doc)
	return toc, nil
}

func parseNavList(ol *html.Node, base string) []Link {
	var links []Link
	for li := ol.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.Data != "li" {
			continue
		}
		var link Link
		for ch := li.FirstChild; ch != nil; ch = ch.NextSibling {
			if ch.Type != html.ElementNode {
				continue
			}
			switch ch.Data {
			case "a":
				if len(link.Href) == 0 {
					link.Href = ResolveHref(base, attr(ch, "href"))
					link.Title = textContent(ch)
				}
			case "span":
				if len(link.Title) == 0 {
					link.Title = textContent(ch)
				}
			case "ol":
				link.Children = parseNavList(ch, base)
			}
		}
		links = append(links, link)
	}
	return links
}

func loadNCX(c Container, href string, log *zap.Logger) []Link {
	data, err := c.Read(href)
	if err != nil {
		log.Warn("Unable to read NCX", zap.String("href", href), zap.Error(err))
		return nil
	}
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{Permissive: true}
	if err := doc.ReadFromBytes(data); err != nil {
		log.Warn("Unable to parse NCX", zap.String("href", href), zap.Error(err))
		return nil
	}
	navMap := doc.FindElement("//navMap")
	if navMap == nil {
		return nil
	}
	return parseNavPoints(navMap, href)
}

func parseNavPoints(parent *etree.Element, base string) []Link {
	var links []Link
	for _, np := range parent.SelectElements("navPoint") {
		var link Link
		if label := np.FindElement("navLabel/text"); label != nil {
			link.Title = strings.Join(strings.Fields(label.Text()), " ")
		}
		if content := np.SelectElement("content"); content != nil {
			link.Href = ResolveHref(base, content.SelectAttrValue("src", ""))
		}
		link.Children = parseNavPoints(np, base)
		links = append(links, link)
	}
	return links
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key || (a.Namespace != "" && a.Namespace+":"+a.Key == key) {
			return a.Val
		}
	}
	return ""
}

func firstDescendant(n *html.Node, tag string) *html.Node {
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type == html.ElementNode && ch.Data == tag {
			return ch
		}
		if found := firstDescendant(ch, tag); found != nil {
			return found
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
