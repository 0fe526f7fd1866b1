package navigator

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"epubnav/publication"
)

type fakeTimer struct {
	s       *fakeScheduler
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// fakeScheduler fires timers only when test advances its clock.
type fakeScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{s: s, at: s.now + d, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	var due []func()
	for _, t := range s.timers {
		if !t.stopped && !t.fired && t.at <= s.now {
			t.fired = true
			due = append(due, t.f)
		}
	}
	s.mu.Unlock()
	for _, f := range due {
		f()
	}
}

// testPublication has 10 resources and 100 positions, resource 3 has 12
// of them.
func testPublication() (*publication.Publication, *publication.PositionTable) {
	counts := []int{10, 8, 10, 12, 10, 10, 10, 10, 10, 10}
	readingOrder := make([]publication.Link, len(counts))
	byResource := make([][]publication.Locator, len(counts))
	n := 0
	for i, count := range counts {
		href := fmt.Sprintf("text/r%d.xhtml", i)
		readingOrder[i] = publication.Link{Href: href, Type: "application/xhtml+xml", Title: fmt.Sprintf("Resource %d", i)}
		for j := range count {
			n++
			tp := float64(n-1) / 100
			byResource[i] = append(byResource[i], publication.Locator{
				Href:  href,
				Type:  "application/xhtml+xml",
				Title: fmt.Sprintf("Heading %d.%d", i, j),
				Locations: publication.Locations{
					Progression:      float64(j) / float64(count),
					Position:         n,
					TotalProgression: &tp,
				},
				Text: publication.Text{Highlight: fmt.Sprintf("sentence %d", n)},
			})
		}
	}
	// resource 2 has no position titles
	for j := range byResource[2] {
		byResource[2][j].Title = ""
	}
	readingOrder[4].Type = ""

	toc := []publication.Link{
		{Href: "text/r0.xhtml#start", Title: "Chapter One"},
		{Href: "text/r3.xhtml", Title: "Chapter Three"},
	}
	pub := publication.New(publication.Metadata{Title: "Test", Languages: []string{"en"}}, readingOrder, nil, toc, nil, nil)
	return pub, publication.NewPositionTable(byResource)
}

func flush(t *testing.T, tr *Tracker) {
	t.Helper()
	if !tr.loop.call(func() {}) {
		t.Fatal("loop is closed")
	}
}

func receive(t *testing.T, ch <-chan publication.Locator) publication.Locator {
	t.Helper()
	select {
	case loc, ok := <-ch:
		if !ok {
			t.Fatal("subscription closed")
		}
		return loc
	case <-time.After(2 * time.Second):
		t.Fatal("no locator published")
	}
	return publication.Locator{}
}

func published(t *testing.T, tr *Tracker) int {
	t.Helper()
	var n int
	tr.loop.call(func() { n = tr.published })
	return n
}

// awaitPublished waits until tracker published n locators.
func awaitPublished(t *testing.T, tr *Tracker, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for published(t, tr) < n {
		if time.Now().After(deadline) {
			t.Fatalf("published %d locators, want %d", published(t, tr), n)
		}
		time.Sleep(time.Millisecond)
	}
}

func newTestTracker(t *testing.T, opts ...TrackerOption) (*Tracker, *fakeScheduler) {
	t.Helper()
	pub, table := testPublication()
	sched := &fakeScheduler{}
	opts = append([]TrackerOption{WithScheduler(sched), WithLogger(zaptest.NewLogger(t))}, opts...)
	tr := NewTracker(pub, table, opts...)
	t.Cleanup(tr.Close)
	return tr, sched
}

func TestTracker_Debounce(t *testing.T) {
	tr, sched := newTestTracker(t)
	ch, cancel := tr.Subscribe()
	defer cancel()

	if tr.State() != StateIdle {
		t.Fatalf("State() = %v, want idle", tr.State())
	}

	tr.OnResourceLoaded(3)
	for _, p := range []float64{0.1, 0.2, 0.3, 0.4, 0.5} {
		tr.OnScroll(p)
	}
	flush(t, tr)
	if tr.State() != StateSettling {
		t.Fatalf("State() = %v, want settling", tr.State())
	}

	sched.Advance(DefaultDebounce - time.Millisecond)
	flush(t, tr)
	if n := published(t, tr); n != 0 {
		t.Fatalf("published %d locators before delay elapsed", n)
	}

	sched.Advance(time.Millisecond)
	loc := receive(t, ch)

	if loc.Href != "text/r3.xhtml" {
		t.Errorf("Href = %q", loc.Href)
	}
	if loc.Locations.Progression != 0.5 {
		t.Errorf("Progression = %v, want last signaled 0.5", loc.Locations.Progression)
	}
	// ceil(0.5 * 11) = 6, resource 3 starts at global position 29
	if loc.Locations.Position != 35 {
		t.Errorf("Position = %d, want 35", loc.Locations.Position)
	}
	if loc.Text.Highlight != "sentence 35" {
		t.Errorf("Text = %+v", loc.Text)
	}
	if tr.State() != StateStable {
		t.Errorf("State() = %v, want stable", tr.State())
	}
	if n := published(t, tr); n != 1 {
		t.Errorf("published %d locators, want 1", n)
	}
	if cur, ok := tr.CurrentLocator(); !ok || !cur.Equal(loc) {
		t.Errorf("CurrentLocator() = %v, want %v", cur, loc)
	}
}

func TestTracker_SubscribeKeepsLatest(t *testing.T) {
	tr, sched := newTestTracker(t)
	ch, cancel := tr.Subscribe()
	defer cancel()

	tr.OnResourceLoaded(3)
	tr.OnScroll(0.2)
	flush(t, tr)
	sched.Advance(DefaultDebounce)
	awaitPublished(t, tr, 1)

	tr.OnScroll(0.8)
	flush(t, tr)
	sched.Advance(DefaultDebounce)
	awaitPublished(t, tr, 2)

	loc := receive(t, ch)
	if loc.Locations.Progression != 0.8 {
		t.Errorf("Progression = %v, want newest 0.8", loc.Locations.Progression)
	}
	select {
	case stale := <-ch:
		t.Errorf("unexpected pending locator %v", stale)
	default:
	}
}

func TestTracker_ClampsProgression(t *testing.T) {
	tests := []struct {
		raw, want float64
	}{
		{-0.1, 0},
		{1.3, 1},
		{0.25, 0.25},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.raw), func(t *testing.T) {
			tr, sched := newTestTracker(t)
			ch, cancel := tr.Subscribe()
			defer cancel()

			tr.OnResourceLoaded(1)
			tr.OnScroll(tt.raw)
			flush(t, tr)
			sched.Advance(DefaultDebounce)

			loc := receive(t, ch)
			if loc.Locations.Progression != tt.want {
				t.Errorf("Progression = %v, want %v", loc.Locations.Progression, tt.want)
			}
		})
	}
}

func TestTracker_Title(t *testing.T) {
	tests := []struct {
		resource int
		want     string
	}{
		{0, "Chapter One"},   // table of contents
		{1, "Heading 1.0"},   // position
		{2, "Resource 2"},    // resource
		{3, "Chapter Three"}, // table of contents wins over position
		{4, "Heading 4.0"},   // position
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.resource), func(t *testing.T) {
			tr, sched := newTestTracker(t)
			ch, cancel := tr.Subscribe()
			defer cancel()

			tr.OnResourceLoaded(tt.resource)
			flush(t, tr)
			sched.Advance(DefaultDebounce)

			loc := receive(t, ch)
			if loc.Title != tt.want {
				t.Errorf("Title = %q, want %q", loc.Title, tt.want)
			}
			if loc.Type != "application/xhtml+xml" {
				t.Errorf("Type = %q", loc.Type)
			}
		})
	}
}

func TestTracker_NoPositions(t *testing.T) {
	pub, _ := testPublication()
	sched := &fakeScheduler{}
	tr := NewTracker(pub, nil, WithScheduler(sched))
	defer tr.Close()
	ch, cancel := tr.Subscribe()
	defer cancel()

	tr.OnResourceLoaded(5)
	tr.OnScroll(0.7)
	flush(t, tr)
	sched.Advance(DefaultDebounce)

	loc := receive(t, ch)
	if loc.Locations.Progression != 0.7 || loc.Locations.Position != 0 {
		t.Errorf("unexpected locations %+v", loc.Locations)
	}
	if loc.Title != "Resource 5" || !loc.Text.IsEmpty() {
		t.Errorf("unexpected locator %v", loc)
	}
}

type fakeViewport struct {
	mu        sync.Mutex
	loading   bool
	values    chan float64
	cancelled chan struct{}
}

func newFakeViewport() *fakeViewport {
	return &fakeViewport{values: make(chan float64), cancelled: make(chan struct{}, 4)}
}

func (v *fakeViewport) Progression(ctx context.Context) (float64, error) {
	select {
	case <-ctx.Done():
		v.cancelled <- struct{}{}
		return 0, ctx.Err()
	case p := <-v.values:
		return p, nil
	}
}

func (v *fakeViewport) IsLoading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

func (v *fakeViewport) setLoading(b bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = b
}

func TestTracker_LoadingAbandons(t *testing.T) {
	vp := newFakeViewport()
	vp.setLoading(true)
	tr, sched := newTestTracker(t, WithViewport(vp))
	ch, cancel := tr.Subscribe()
	defer cancel()

	tr.OnResourceLoaded(3)
	flush(t, tr)
	sched.Advance(DefaultDebounce)
	flush(t, tr)
	if n := published(t, tr); n != 0 {
		t.Fatalf("published %d locators while loading", n)
	}
	if tr.State() != StateIdle {
		t.Errorf("State() = %v, want idle", tr.State())
	}

	vp.setLoading(false)
	tr.OnPageLoaded()
	flush(t, tr)
	sched.Advance(DefaultDebounce)
	vp.values <- 0.25

	loc := receive(t, ch)
	if loc.Locations.Progression != 0.25 {
		t.Errorf("Progression = %v, want value read from viewport", loc.Locations.Progression)
	}
}

func TestTracker_SignalCancelsComputation(t *testing.T) {
	vp := newFakeViewport()
	tr, sched := newTestTracker(t, WithViewport(vp))
	ch, cancel := tr.Subscribe()
	defer cancel()

	tr.OnResourceLoaded(3)
	flush(t, tr)
	sched.Advance(DefaultDebounce)
	flush(t, tr)

	// computation is waiting for viewport, new signal cancels it
	tr.OnScroll(0.9)
	flush(t, tr)
	select {
	case <-vp.cancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("running computation was not cancelled")
	}

	sched.Advance(DefaultDebounce)
	vp.values <- 0.7

	loc := receive(t, ch)
	if loc.Locations.Progression != 0.7 {
		t.Errorf("Progression = %v, want 0.7", loc.Locations.Progression)
	}
	if n := published(t, tr); n != 1 {
		t.Errorf("published %d locators, want 1", n)
	}
}

type recordingListener struct {
	mu     sync.Mutex
	pages  [][2]int
	locs   []publication.Locator
	loaded int
}

func (l *recordingListener) OnPageChanged(index, total int, loc publication.Locator) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pages = append(l.pages, [2]int{index, total})
	l.locs = append(l.locs, loc)
}

func (l *recordingListener) OnPageLoaded() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loaded++
}

func TestTracker_Listener(t *testing.T) {
	tr, sched := newTestTracker(t)
	l := &recordingListener{}
	tr.AddListener(l)
	ch, cancel := tr.Subscribe()
	defer cancel()

	tr.OnPageLoaded()
	tr.OnResourceLoaded(3)
	tr.OnPageChanged(2, 5)
	flush(t, tr)
	sched.Advance(DefaultDebounce)
	loc := receive(t, ch)
	flush(t, tr)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.loaded != 1 {
		t.Errorf("OnPageLoaded called %d times", l.loaded)
	}
	if len(l.pages) != 1 || l.pages[0] != [2]int{2, 5} {
		t.Fatalf("OnPageChanged calls = %v", l.pages)
	}
	if !l.locs[0].Equal(loc) {
		t.Error("listener got different locator")
	}
	if loc.Locations.Progression != 0.5 {
		t.Errorf("Progression = %v, want 2/4", loc.Locations.Progression)
	}
}

func TestTracker_Close(t *testing.T) {
	pub, table := testPublication()
	sched := &fakeScheduler{}
	initial := publication.Locator{Href: "text/r2.xhtml", Locations: publication.Locations{Progression: 0.4}}
	tr := NewTracker(pub, table, WithScheduler(sched), WithInitialLocator(initial))
	ch, _ := tr.Subscribe()

	tr.OnScroll(0.8)
	flush(t, tr)
	tr.Close()
	sched.Advance(DefaultDebounce)

	if _, ok := <-ch; ok {
		t.Error("subscription must be closed")
	}
	cur, ok := tr.CurrentLocator()
	if !ok || !cur.Equal(initial) {
		t.Errorf("CurrentLocator() = %v, want initial locator", cur)
	}
	// signals after close are ignored
	tr.OnScroll(0.1)
	tr.Close()
}

func TestTracker_SystemScheduler(t *testing.T) {
	pub, table := testPublication()
	tr := NewTracker(pub, table, WithDebounce(5*time.Millisecond))
	defer tr.Close()
	ch, cancel := tr.Subscribe()
	defer cancel()

	tr.OnResourceLoaded(7)
	tr.OnScroll(0.5)

	loc := receive(t, ch)
	if loc.Href != "text/r7.xhtml" {
		t.Errorf("Href = %q", loc.Href)
	}
}
