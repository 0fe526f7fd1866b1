package reading

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap/zaptest"

	"epubnav/config"
	"epubnav/publication"
	"epubnav/settings/epub"
	"epubnav/state"
)

const opf = `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0" unique-identifier="uid">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:identifier id="uid">urn:uuid:reading-test</dc:identifier>
    <dc:title>Reading Test</dc:title>
    <dc:language>en</dc:language>
  </metadata>
  <manifest>
    <item id="nav" href="nav.xhtml" media-type="application/xhtml+xml" properties="nav"/>
    <item id="c1" href="text/ch1.xhtml" media-type="application/xhtml+xml"/>
    <item id="c2" href="text/ch2.xhtml" media-type="application/xhtml+xml"/>
    <item id="cover" href="images/cover.png" media-type="image/png" properties="cover-image"/>
  </manifest>
  <spine>
    <itemref idref="c1"/>
    <itemref idref="c2"/>
  </spine>
</package>`

const nav = `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">
<body><nav epub:type="toc"><ol>
  <li><a href="text/ch1.xhtml">Beginning</a></li>
  <li><a href="text/ch2.xhtml">Ending</a></li>
</ol></nav></body>
</html>`

func chapter(title string, paragraphs int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<html xmlns="http://www.w3.org/1999/xhtml"><body><h1>%s</h1>`, title)
	for i := range paragraphs {
		fmt.Fprintf(&sb, "<p>Paragraph %d tells a story. Then it goes on for a while.</p>\n", i)
	}
	sb.WriteString("</body></html>")
	return sb.String()
}

// coverPNG is a 600x800 image.
func coverPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 600, 800))
	for y := range 800 {
		for x := range 600 {
			img.Set(x, y, color.RGBA{uint8(x / 3), uint8(y / 4), 128, 255})
		}
	}
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func writeEPUB(t *testing.T, dir string) string {
	t.Helper()

	name := filepath.Join(dir, "book.epub")
	f, err := os.Create(name)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		t.Fatal(err)
	}
	w.Write([]byte("application/epub+zip"))

	for _, e := range []struct{ name, data string }{
		{"META-INF/container.xml", `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles><rootfile full-path="content.opf" media-type="application/oebps-package+xml"/></rootfiles>
</container>`},
		{"content.opf", opf},
		{"nav.xhtml", nav},
		{"text/ch1.xhtml", chapter("One", 40)},
		{"text/ch2.xhtml", chapter("Two", 40)},
		{"images/cover.png", string(coverPNG(t))},
	} {
		w, err := zw.Create(e.name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(e.data)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return name
}

type fixture struct {
	ctx  context.Context
	env  *state.LocalEnv
	book string
	dir  string
	out  *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dir := t.TempDir()
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Navigator.DebounceMS = 50
	cfg.Storage.Path = filepath.Join(dir, "state.db")

	ctx := state.ContextWithEnv(context.Background())
	env := state.EnvFromContext(ctx)
	env.Cfg = cfg
	env.Log = zaptest.NewLogger(t)

	fx := &fixture{ctx: ctx, env: env, book: writeEPUB(t, dir), dir: dir, out: &bytes.Buffer{}}

	saved := output
	output = fx.out
	t.Cleanup(func() {
		output = saved
		if err := env.CloseStore(); err != nil {
			t.Errorf("CloseStore() error: %v", err)
		}
	})
	return fx
}

// run executes action as if it was invoked from command line.
func (fx *fixture) run(action cli.ActionFunc, flags []cli.Flag, args ...string) (string, error) {
	fx.out.Reset()
	cmd := &cli.Command{
		Name:   "test",
		Flags:  flags,
		Action: action,
	}
	err := cmd.Run(fx.ctx, append([]string{"test"}, args...))
	return fx.out.String(), err
}

func TestSettings(t *testing.T) {
	fx := newFixture(t)
	flags := []cli.Flag{&cli.BoolFlag{Name: "all"}}

	out, err := fx.run(Settings, flags, fx.book)
	if err != nil {
		t.Fatalf("Settings() error: %v", err)
	}
	if !strings.HasPrefix(out, "NAME") {
		t.Errorf("missing header:\n%s", out)
	}
	if !strings.Contains(out, "fontSize") {
		t.Errorf("fontSize is not listed:\n%s", out)
	}
	// type scale has no effect without advanced settings
	if strings.Contains(out, "typeScale") {
		t.Errorf("inactive typeScale is listed:\n%s", out)
	}

	out, err = fx.run(Settings, flags, "--all", fx.book)
	if err != nil {
		t.Fatalf("Settings(--all) error: %v", err)
	}
	if !strings.Contains(out, "typeScale") {
		t.Errorf("typeScale is not listed with --all:\n%s", out)
	}
}

func TestSettings_NoBook(t *testing.T) {
	fx := newFixture(t)
	if _, err := fx.run(Settings, nil); err == nil {
		t.Error("expected error without publication")
	}
	if _, err := fx.run(Settings, nil, filepath.Join(fx.dir, "missing.epub")); err == nil {
		t.Error("expected error for missing publication")
	}
}

func TestCSS(t *testing.T) {
	fx := newFixture(t)
	flags := []cli.Flag{&cli.BoolFlag{Name: "user"}, &cli.BoolFlag{Name: "rs"}}

	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{"all", nil, []string{"--USER__", "--RS__"}, nil},
		{"user", []string{"--user"}, []string{"--USER__"}, []string{"--RS__"}},
		{"rs", []string{"--rs"}, []string{"--RS__"}, []string{"--USER__"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := fx.run(CSS, flags, append(tt.args, fx.book)...)
			if err != nil {
				t.Fatalf("CSS() error: %v", err)
			}
			for _, s := range tt.want {
				if !strings.Contains(out, s) {
					t.Errorf("output does not contain %q:\n%s", s, out)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(out, s) {
					t.Errorf("output contains %q:\n%s", s, out)
				}
			}
		})
	}
}

func TestPositions(t *testing.T) {
	fx := newFixture(t)
	flags := []cli.Flag{&cli.BoolFlag{Name: "overwrite"}}

	out, err := fx.run(Positions, flags, fx.book)
	if err != nil {
		t.Fatalf("Positions() error: %v", err)
	}
	var list []publication.Locator
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("output is not a locator list: %v", err)
	}
	if len(list) < 2 {
		t.Fatalf("got %d positions, want at least one per resource", len(list))
	}
	for i, loc := range list {
		if loc.Locations.Position != i+1 {
			t.Errorf("position %d numbered %d", i, loc.Locations.Position)
		}
	}

	// directory destination is completed with templated name
	dst := t.TempDir()
	if _, err := fx.run(Positions, flags, fx.book, dst); err != nil {
		t.Fatalf("Positions(dir) error: %v", err)
	}
	name := filepath.Join(dst, "Reading Test.positions.json")
	if _, err := os.Stat(name); err != nil {
		t.Fatalf("positions file was not written: %v", err)
	}
	if _, err := fx.run(Positions, flags, fx.book, dst); err == nil {
		t.Error("expected error when destination exists")
	}
	if _, err := fx.run(Positions, flags, "--overwrite", fx.book, dst); err != nil {
		t.Errorf("Positions(--overwrite) error: %v", err)
	}
}

func TestCover(t *testing.T) {
	fx := newFixture(t)
	flags := []cli.Flag{&cli.BoolFlag{Name: "overwrite"}}

	dst := t.TempDir()
	if _, err := fx.run(Cover, flags, fx.book, dst); err != nil {
		t.Fatalf("Cover() error: %v", err)
	}
	f, err := os.Open(filepath.Join(dst, "book.cover.png"))
	if err != nil {
		t.Fatalf("cover was not written: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("cover is not png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 300 || b.Dy() != 400 {
		t.Errorf("cover is %dx%d, want 300x400", b.Dx(), b.Dy())
	}

	if _, err := fx.run(Cover, flags, fx.book, dst); err == nil {
		t.Error("expected error when destination exists")
	}

	fx.env.Cfg.Output.Cover.Format = "jpeg"
	name := filepath.Join(dst, "small.jpg")
	if _, err := fx.run(Cover, flags, fx.book, name); err != nil {
		t.Fatalf("Cover(jpeg) error: %v", err)
	}
	if _, err := os.Stat(name); err != nil {
		t.Errorf("jpeg cover was not written: %v", err)
	}
}

func TestLocate(t *testing.T) {
	fx := newFixture(t)
	flags := []cli.Flag{
		&cli.IntFlag{Name: "resource"},
		&cli.StringFlag{Name: "href"},
		&cli.FloatFlag{Name: "progression"},
	}

	tests := []struct {
		name    string
		args    []string
		href    string
		title   string
		prog    float64
		wantErr bool
	}{
		{"start", nil, "text/ch1.xhtml", "Beginning", 0, false},
		{"index", []string{"--resource", "1", "--progression", "0.5"}, "text/ch2.xhtml", "Ending", 0.5, false},
		{"href", []string{"--href", "text/ch2.xhtml#x", "--progression", "3"}, "text/ch2.xhtml", "Ending", 1, false},
		{"bad index", []string{"--resource", "7"}, "", "", 0, true},
		{"bad href", []string{"--href", "nowhere.xhtml"}, "", "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := fx.run(Locate, flags, append(tt.args, fx.book)...)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %s", out)
				}
				return
			}
			if err != nil {
				t.Fatalf("Locate() error: %v", err)
			}
			loc, err := publication.LocatorFromJSON([]byte(out))
			if err != nil {
				t.Fatalf("bad locator %q: %v", out, err)
			}
			if loc.Href != tt.href || loc.Title != tt.title || loc.Locations.Progression != tt.prog {
				t.Errorf("got %s %q %v, want %s %q %v", loc.Href, loc.Title, loc.Locations.Progression, tt.href, tt.title, tt.prog)
			}
			if loc.Locations.Position == 0 {
				t.Error("position is not set")
			}
		})
	}
}

func TestTrack(t *testing.T) {
	fx := newFixture(t)
	saved := input
	t.Cleanup(func() { input = saved })

	input = strings.NewReader(`# jump to the second chapter
resource 1
scroll 0.25
scroll 0.5
wait

scroll 2
`)
	out, err := fx.run(Track, nil, fx.book)
	if err != nil {
		t.Fatalf("Track() error: %v", err)
	}
	// wait makes sure the first locator is out before scrolling further
	var got []float64
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		loc, err := publication.LocatorFromJSON([]byte(line))
		if err != nil {
			t.Fatal(err)
		}
		if loc.Href != "text/ch2.xhtml" {
			t.Errorf("locator href = %s, want text/ch2.xhtml", loc.Href)
		}
		got = append(got, loc.Locations.Progression)
	}
	if len(got) < 2 || !slices.Contains(got, 0.5) || got[len(got)-1] != 1 {
		t.Errorf("published progressions %v, want 0.5 then 1", got)
	}

	// position is saved when session ends
	s, err := fx.env.Store()
	if err != nil {
		t.Fatal(err)
	}
	st, err := s.Load(fx.ctx, "urn:uuid:reading-test")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if st.Locator == nil || st.Locator.Href != "text/ch2.xhtml" || st.Locator.Locations.Progression != 1 {
		t.Errorf("saved locator = %+v", st.Locator)
	}
}

func TestTrack_Script(t *testing.T) {
	fx := newFixture(t)
	script := filepath.Join(fx.dir, "signals.txt")
	if err := os.WriteFile(script, []byte("go text/ch2.xhtml#s1\npage 1 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := fx.run(Track, nil, fx.book, script)
	if err != nil {
		t.Fatalf("Track() error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	loc, err := publication.LocatorFromJSON([]byte(lines[len(lines)-1]))
	if err != nil {
		t.Fatalf("bad locator %q: %v", out, err)
	}
	if loc.Href != "text/ch2.xhtml" || loc.Locations.Progression != 0.5 {
		t.Errorf("got %s %v", loc.Href, loc.Locations.Progression)
	}
}

func TestTrack_BadSignal(t *testing.T) {
	tests := []string{
		"jump 1",
		"scroll",
		"scroll half",
		"page 1",
		"page one 2",
		"resource nowhere.xhtml",
		"go nowhere.xhtml",
	}
	for _, line := range tests {
		t.Run(line, func(t *testing.T) {
			fx := newFixture(t)
			saved := input
			t.Cleanup(func() { input = saved })
			input = strings.NewReader(line + "\n")

			_, err := fx.run(Track, nil, fx.book)
			if err == nil || !strings.Contains(err.Error(), "line 1") {
				t.Errorf("Track(%q) error = %v", line, err)
			}
		})
	}
}

func decodePreferences(t *testing.T, out string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(out), &m); err != nil {
		t.Fatalf("bad preferences %q: %v", out, err)
	}
	return m
}

func TestPreferences(t *testing.T) {
	fx := newFixture(t)

	steps := []struct {
		name   string
		action cli.ActionFunc
		args   []string
		want   map[string]any
	}{
		{"set", SetPreference, []string{"fontSize", "1.5"}, map[string]any{"fontSize": 1.5}},
		{"increment", IncrementPreference, []string{"fontSize"}, map[string]any{"fontSize": 1.6}},
		{"decrement", DecrementPreference, []string{"fontSize"}, map[string]any{"fontSize": 1.5}},
		{"set string", SetPreference, []string{"theme", "sepia"}, map[string]any{"fontSize": 1.5, "theme": "sepia"}},
		{"toggle", TogglePreference, []string{"theme", "sepia"}, map[string]any{"fontSize": 1.5}},
		{"remove", RemovePreference, []string{"fontSize"}, map[string]any{}},
		{"preset", ApplyPreset, []string{"Document"}, map[string]any{"overflow": "scrolled"}},
		{"activate", ActivatePreference, []string{"typeScale"}, map[string]any{"overflow": "scrolled", "advancedSettings": true}},
		{"show", ShowPreferences, nil, map[string]any{"overflow": "scrolled", "advancedSettings": true}},
		{"reset", ResetPreferences, nil, map[string]any{}},
		{"show empty", ShowPreferences, nil, map[string]any{}},
	}
	for _, s := range steps {
		out, err := fx.run(s.action, nil, append([]string{fx.book}, s.args...)...)
		if err != nil {
			t.Fatalf("%s: %v", s.name, err)
		}
		got := decodePreferences(t, out)
		if len(got) != len(s.want) {
			t.Errorf("%s: got %v, want %v", s.name, got, s.want)
			continue
		}
		for k, v := range s.want {
			if got[k] != v {
				t.Errorf("%s: %s = %v, want %v", s.name, k, got[k], v)
			}
		}
	}
}

func TestPreferences_Errors(t *testing.T) {
	fx := newFixture(t)

	tests := []struct {
		name   string
		action cli.ActionFunc
		args   []string
		target error
	}{
		{"unknown setting", SetPreference, []string{"bogus", "1"}, epub.ErrUnknownSetting},
		{"not a range", IncrementPreference, []string{"hyphens"}, epub.ErrUnsupportedEdit},
		{"bad toggle", TogglePreference, []string{"theme", "purple"}, epub.ErrUnsupportedEdit},
		{"missing value", SetPreference, []string{"fontSize"}, nil},
		{"unknown preset", ApplyPreset, []string{"Comic"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fx.run(tt.action, nil, append([]string{fx.book}, tt.args...)...)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("error = %v, want %v", err, tt.target)
			}
		})
	}

	// failed edits leave nothing behind
	out, err := fx.run(ShowPreferences, nil, fx.book)
	if err != nil {
		t.Fatal(err)
	}
	if got := decodePreferences(t, out); len(got) != 0 {
		t.Errorf("preferences = %v, want none", got)
	}
}

func TestInfo(t *testing.T) {
	fx := newFixture(t)

	out, err := fx.run(Info, nil, fx.book)
	if err != nil {
		t.Fatalf("Info() error: %v", err)
	}
	for _, want := range []string{
		"  title: \"Reading Test\"\n",
		"reading order (2)\n",
		"  [1] text/ch2.xhtml\n",
		"toc\n  [0] text/ch1.xhtml\n    title: \"Beginning\"\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
}

func TestInfo_Report(t *testing.T) {
	fx := newFixture(t)
	rptConf := config.ReporterConfig{Destination: filepath.Join(fx.dir, "report.zip")}
	rpt, err := rptConf.Prepare()
	if err != nil {
		t.Fatal(err)
	}
	fx.env.Rpt = rpt

	if _, err := fx.run(Info, nil, fx.book); err != nil {
		t.Fatalf("Info() error: %v", err)
	}
	// store snapshot goes to report too
	if err := fx.env.CloseStore(); err != nil {
		t.Fatal(err)
	}
	if err := rpt.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := zip.OpenReader(rptConf.Destination)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	for _, want := range []string{"publication.txt", "state.db"} {
		if !slices.Contains(names, want) {
			t.Errorf("report entries %v do not include %s", names, want)
		}
	}
}

func TestExpandName(t *testing.T) {
	pub := publication.New(publication.Metadata{Title: "A/B", Identifier: "id", Languages: []string{"fr"}}, nil, nil, nil, nil, nil)
	untitled := publication.New(publication.Metadata{}, nil, nil, nil, nil, nil)

	tests := []struct {
		name    string
		tmpl    string
		pub     *publication.Publication
		want    string
		wantErr bool
	}{
		{"default", "{{ .Title | default .SourceFile }}.positions.json", pub, "AB.positions.json", false},
		{"fallback", "{{ .Title | default .SourceFile }}.positions.json", untitled, "book.positions.json", false},
		{"sprig", "{{ .Identifier | upper }}-{{ .Language }}.json", pub, "ID-fr.json", false},
		{"empty", "{{ .Title }}", untitled, "_bad_file_name_", false},
		{"broken", "{{ .Title", pub, "", true},
		{"unknown value", "{{ .Author }}", pub, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expandName(config.PositionsNameTemplateFieldName, tt.tmpl, "/tmp/book.epub", tt.pub)
			if (err != nil) != tt.wantErr {
				t.Fatalf("expandName() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("expandName() = %q, want %q", got, tt.want)
			}
		})
	}
}
