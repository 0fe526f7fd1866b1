package navigator

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"epubnav/publication"
)

// DefaultDebounce is quiet period after the last renderer signal before
// current locator is recomputed.
const DefaultDebounce = 100 * time.Millisecond

const defaultMediaType = "application/xhtml+xml"

// Viewport is the part of a renderer which knows what is on screen. It is
// optional, without it the tracker relies on progression reported with
// signals and considers content always loaded.
type Viewport interface {
	// Progression returns position within visible resource, may be outside
	// of [0, 1].
	Progression(ctx context.Context) (float64, error)
	// IsLoading reports whether visible resource is still loading.
	IsLoading() bool
}

// Listener receives legacy notifications. Calls are made from the session
// loop and must not block.
type Listener interface {
	OnPageChanged(index, total int, locator publication.Locator)
	OnPageLoaded()
}

// Tracker turns renderer signals into a stable current locator. Signals
// may come from any goroutine, every one of them restarts debounce delay
// and the locator is recomputed once renderer stays quiet.
type Tracker struct {
	pub       *publication.Publication
	positions *publication.PositionTable
	titles    map[string]string
	viewport  Viewport
	scheduler Scheduler
	delay     time.Duration
	loop      *loop
	log       *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	current atomic.Pointer[publication.Locator]

	// owned by loop
	state       State
	resource    int
	progression float64
	page, pages int
	generation  uint64
	timer       Timer
	inflight    context.CancelFunc
	published   int
	listeners   []Listener
	subscribers map[int]chan publication.Locator
	nextSub     int
}

// TrackerOption configures tracker.
type TrackerOption func(*Tracker)

// WithViewport reads progression and loading state from v.
func WithViewport(v Viewport) TrackerOption {
	return func(t *Tracker) {
		t.viewport = v
	}
}

// WithScheduler replaces wall clock scheduler.
func WithScheduler(s Scheduler) TrackerOption {
	return func(t *Tracker) {
		if s != nil {
			t.scheduler = s
		}
	}
}

// WithDebounce changes debounce delay.
func WithDebounce(d time.Duration) TrackerOption {
	return func(t *Tracker) {
		if d > 0 {
			t.delay = d
		}
	}
}

// WithLogger sets tracker logger.
func WithLogger(log *zap.Logger) TrackerOption {
	return func(t *Tracker) {
		if log != nil {
			t.log = log
		}
	}
}

// WithInitialLocator sets locator reported before anything was computed.
func WithInitialLocator(loc publication.Locator) TrackerOption {
	return func(t *Tracker) {
		if len(loc.Href) > 0 {
			t.current.Store(&loc)
			if i := t.pub.ResourceIndex(loc.Href); i >= 0 {
				t.resource = i
				t.progression = loc.Locations.Progression
			}
		}
	}
}

// NewTracker starts tracking session for pub. Positions may be nil.
func NewTracker(pub *publication.Publication, positions *publication.PositionTable, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		pub:         pub,
		positions:   positions,
		titles:      pub.TOCTitles(),
		scheduler:   SystemScheduler,
		delay:       DefaultDebounce,
		log:         zap.NewNop(),
		subscribers: make(map[int]chan publication.Locator),
	}
	if first, ok := pub.FirstLocator(); ok {
		t.current.Store(&first)
	}
	for _, opt := range opts {
		opt(t)
	}
	t.log = t.log.Named("tracker")
	t.ctx, t.cancel = context.WithCancel(context.Background())
	t.loop = newLoop()
	return t
}

// CurrentLocator returns last published locator. It may be called from any
// goroutine.
func (t *Tracker) CurrentLocator() (publication.Locator, bool) {
	loc := t.current.Load()
	if loc == nil {
		return publication.Locator{}, false
	}
	return loc.Copy(), true
}

// State returns tracking stage.
func (t *Tracker) State() State {
	var s State
	t.loop.call(func() {
		s = t.state
	})
	return s
}

// Subscribe returns channel receiving published locators. Channel keeps only
// the latest locator when consumer is slow and is closed when subscription
// is cancelled or tracker closes.
func (t *Tracker) Subscribe() (<-chan publication.Locator, func()) {
	ch := make(chan publication.Locator, 1)
	var id int
	if !t.loop.call(func() {
		id = t.nextSub
		t.nextSub++
		t.subscribers[id] = ch
	}) {
		close(ch)
		return ch, func() {}
	}
	return ch, func() {
		t.loop.call(func() {
			if sub, ok := t.subscribers[id]; ok {
				delete(t.subscribers, id)
				close(sub)
			}
		})
	}
}

// AddListener registers legacy listener.
func (t *Tracker) AddListener(l Listener) {
	t.loop.post(func() {
		t.listeners = append(t.listeners, l)
	})
}

// OnScroll reports raw progression within current resource.
func (t *Tracker) OnScroll(progression float64) {
	t.loop.post(func() {
		t.progression = progression
		t.arm("scroll")
	})
}

// OnPageChanged reports current page of total pages in current resource.
func (t *Tracker) OnPageChanged(index, total int) {
	t.loop.post(func() {
		t.page, t.pages = index, total
		if total > 1 {
			t.progression = float64(index) / float64(total-1)
		} else {
			t.progression = 0
		}
		t.arm("page")
	})
}

// OnPageLoaded reports that visible content finished loading.
func (t *Tracker) OnPageLoaded() {
	t.loop.post(func() {
		for _, l := range t.listeners {
			l.OnPageLoaded()
		}
		t.arm("loaded")
	})
}

// OnResourceLoaded reports that reading order resource index is now shown.
func (t *Tracker) OnResourceLoaded(index int) {
	t.loop.post(func() {
		if index < 0 || index >= len(t.pub.ReadingOrder) {
			t.log.Debug("Ignoring unknown resource", zap.Int("index", index))
			return
		}
		if index != t.resource {
			t.resource, t.progression, t.page, t.pages = index, 0, 0, 0
		}
		t.arm("resource")
	})
}

// Close stops tracking, pending and running computations are discarded.
func (t *Tracker) Close() {
	t.loop.call(func() {
		t.disarm()
		for id, ch := range t.subscribers {
			delete(t.subscribers, id)
			close(ch)
		}
		t.state = StateIdle
	})
	t.cancel()
	t.loop.close()
}

// arm (re)starts debounce delay, must run on the loop.
func (t *Tracker) arm(reason string) {
	t.disarm()
	t.state = StateSettling
	gen := t.generation
	t.timer = t.scheduler.AfterFunc(t.delay, func() {
		t.loop.post(func() {
			t.fire(gen)
		})
	})
	t.log.Debug("Debounce armed", zap.String("reason", reason), zap.Uint64("generation", gen))
}

// disarm cancels pending timer and running computation.
func (t *Tracker) disarm() {
	t.generation++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	if t.inflight != nil {
		t.inflight()
		t.inflight = nil
	}
}

func (t *Tracker) fire(gen uint64) {
	if gen != t.generation {
		return
	}
	t.timer = nil
	if t.viewport != nil && t.viewport.IsLoading() {
		t.log.Debug("Content is still loading, locator is not updated")
		t.state = StateIdle
		return
	}

	ctx, cancel := context.WithCancel(t.ctx)
	t.inflight = cancel
	resource, progression, page, pages := t.resource, t.progression, t.page, t.pages

	go func() {
		if t.viewport != nil {
			p, err := t.viewport.Progression(ctx)
			if err != nil {
				if ctx.Err() == nil {
					t.log.Warn("Unable to read viewport progression", zap.Error(err))
				}
				cancel()
				return
			}
			progression = p
		}
		loc, ok := t.locate(resource, progression)
		t.loop.post(func() {
			defer cancel()
			if gen != t.generation || ctx.Err() != nil {
				return
			}
			t.inflight = nil
			if !ok {
				t.state = StateIdle
				return
			}
			t.publish(loc, page, pages)
		})
	}()
}

// locate builds locator for progression within reading order resource.
func (t *Tracker) locate(resource int, progression float64) (publication.Locator, bool) {
	if resource < 0 || resource >= len(t.pub.ReadingOrder) {
		return publication.Locator{}, false
	}
	link := t.pub.ReadingOrder[resource]
	progression = publication.ClampProgression(progression)

	loc := publication.Locator{Href: link.Href, Type: link.Type}
	if len(loc.Type) == 0 {
		loc.Type = defaultMediaType
	}

	position, found := t.positions.Lookup(resource, progression)
	if found {
		loc.Locations = position.Copy().Locations
		loc.Text = position.Text
	}
	loc.Locations.Progression = progression

	switch {
	case len(t.titles[link.Href]) > 0:
		loc.Title = t.titles[link.Href]
	case found && len(position.Title) > 0:
		loc.Title = position.Title
	default:
		loc.Title = link.Title
	}
	return loc, true
}

func (t *Tracker) publish(loc publication.Locator, page, pages int) {
	t.current.Store(&loc)
	t.state = StateStable
	t.published++

	for _, ch := range t.subscribers {
		select {
		case ch <- loc:
		default:
			// drop stale value nobody read yet
			select {
			case <-ch:
			default:
			}
			ch <- loc
		}
	}
	if pages > 0 {
		for _, l := range t.listeners {
			l.OnPageChanged(page, pages, loc)
		}
	}
	t.log.Debug("Locator published",
		zap.String("href", loc.Href),
		zap.Float64("progression", loc.Locations.Progression),
		zap.Int("position", loc.Locations.Position))
}
