// Package navigator runs a reading session: it applies reader preferences
// to the renderer and tracks current reading position.
package navigator

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"epubnav/css"
	"epubnav/prefs"
	"epubnav/publication"
	"epubnav/settings/epub"
)

// ErrClosed is returned by operations on closed navigator.
var ErrClosed = errors.New("navigator is closed")

// Renderer displays publication content.
type Renderer interface {
	// ApplyStyles injects custom properties into displayed resources.
	ApplyStyles(ctx context.Context, props css.Properties) error
	// Go displays locator.
	Go(ctx context.Context, loc publication.Locator) error
}

// ElementLocator is implemented by renderers able to point at the first
// element visible on screen.
type ElementLocator interface {
	FirstVisibleElementLocator(ctx context.Context) (publication.Locator, error)
}

// StateStore persists reading state between sessions.
type StateStore interface {
	SavePreferences(ctx context.Context, publicationID string, p prefs.Preferences) error
	SaveLocator(ctx context.Context, publicationID string, loc publication.Locator) error
}

// Config describes navigator session.
type Config struct {
	// Defaults are preferences applied under reader's own.
	Defaults prefs.Preferences
	// Preferences are reader's preferences at session start.
	Preferences prefs.Preferences
	// InitialLocator is where reading starts, beginning of reading order
	// when empty.
	InitialLocator publication.Locator
	// Store persists preferences and locator, may be nil.
	Store StateStore
	// Tracker options, viewport is taken from renderer when it implements
	// Viewport.
	TrackerOptions []TrackerOption
}

// Navigator is a reading session over a single publication.
type Navigator struct {
	id       uuid.UUID
	pub      *publication.Publication
	factory  *epub.Factory
	renderer Renderer
	tracker  *Tracker
	store    StateStore
	defaults prefs.Preferences
	log      *zap.Logger

	// owned by tracker loop
	preferences prefs.Preferences
	settings    *epub.Settings
}

// New starts reading session. Renderer may be nil, then styles and
// navigation requests go nowhere.
func New(ctx context.Context, pub *publication.Publication, positions *publication.PositionTable,
	factory *epub.Factory, renderer Renderer, cfg Config, log *zap.Logger) (*Navigator, error) {

	if log == nil {
		log = zap.NewNop()
	}
	id := uuid.New()
	log = log.Named("navigator").With(zap.Stringer("session", id))

	opts := []TrackerOption{WithLogger(log)}
	if vp, ok := renderer.(Viewport); ok {
		opts = append(opts, WithViewport(vp))
	}
	opts = append(opts, cfg.TrackerOptions...)
	if len(cfg.InitialLocator.Href) > 0 {
		opts = append(opts, WithInitialLocator(cfg.InitialLocator))
	}

	n := &Navigator{
		id:          id,
		pub:         pub,
		factory:     factory,
		renderer:    renderer,
		tracker:     NewTracker(pub, positions, opts...),
		store:       cfg.Store,
		defaults:    cfg.Defaults,
		log:         log,
		preferences: cfg.Preferences,
	}

	var err error
	n.tracker.loop.call(func() {
		n.settings = factory.Build(pub, n.defaults, n.preferences)
		err = n.applyStyles(ctx)
	})
	if err != nil {
		n.tracker.Close()
		return nil, err
	}

	if loc, ok := n.tracker.CurrentLocator(); ok && len(cfg.InitialLocator.Href) > 0 {
		if _, err := n.Go(ctx, loc); err != nil {
			log.Warn("Unable to restore reading position", zap.String("href", loc.Href), zap.Error(err))
		}
	}
	log.Debug("Session started", zap.String("title", pub.Metadata.Title))
	return n, nil
}

// ID identifies session in logs.
func (n *Navigator) ID() uuid.UUID {
	return n.id
}

// Publication returns publication being read.
func (n *Navigator) Publication() *publication.Publication {
	return n.pub
}

// Tracker returns locator tracker of the session, renderer reports its
// signals there.
func (n *Navigator) Tracker() *Tracker {
	return n.tracker
}

// Settings returns current settings.
func (n *Navigator) Settings() (*epub.Settings, error) {
	var s *epub.Settings
	if !n.tracker.loop.call(func() { s = n.settings }) {
		return nil, ErrClosed
	}
	return s, nil
}

// Preferences returns reader's current preferences.
func (n *Navigator) Preferences() (prefs.Preferences, error) {
	var p prefs.Preferences
	if !n.tracker.loop.call(func() { p = n.preferences }) {
		return prefs.Preferences{}, ErrClosed
	}
	return p, nil
}

// ApplyPreferences replaces reader's preferences, recomputes settings and
// sends resulting styles to renderer.
func (n *Navigator) ApplyPreferences(ctx context.Context, p prefs.Preferences) error {
	return n.Edit(ctx, func(m *prefs.MutablePreferences, _ *epub.Settings) error {
		m.Clear()
		m.Merge(p)
		return nil
	})
}

// Edit changes reader's preferences with fn. Settings passed to fn are the
// ones in effect before the change. When fn fails nothing is changed.
func (n *Navigator) Edit(ctx context.Context, fn func(m *prefs.MutablePreferences, s *epub.Settings) error) error {
	var err error
	if !n.tracker.loop.call(func() {
		m := n.preferences.ToMutable()
		if err = fn(m, n.settings); err != nil {
			return
		}
		next := m.Preferences()
		if next.Equal(n.preferences) {
			return
		}
		n.preferences = next
		n.settings = n.factory.Build(n.pub, n.defaults, n.preferences)
		err = n.applyStyles(ctx)
		if n.store != nil {
			err = multierr.Append(err, n.store.SavePreferences(ctx, n.publicationID(), n.preferences))
		}
	}) {
		return ErrClosed
	}
	return err
}

func (n *Navigator) applyStyles(ctx context.Context) error {
	if n.renderer == nil {
		return nil
	}
	props := n.settings.Properties()
	if err := n.renderer.ApplyStyles(ctx, props); err != nil {
		return fmt.Errorf("unable to apply styles: %w", err)
	}
	n.log.Debug("Styles applied", zap.Int("properties", len(props)), zap.Stringer("preferences", n.preferences))
	return nil
}

// Go asks renderer to display locator. Returns false when locator does not
// point into the publication or there is no renderer.
func (n *Navigator) Go(ctx context.Context, loc publication.Locator) (bool, error) {
	if n.tracker.loop.closed() {
		return false, ErrClosed
	}
	if n.renderer == nil || n.pub.ResourceIndex(loc.Href) < 0 {
		return false, nil
	}
	if err := n.renderer.Go(ctx, loc); err != nil {
		return false, fmt.Errorf("unable to go to %s: %w", loc.Href, err)
	}
	return true, nil
}

// GoToLink displays resource link points to.
func (n *Navigator) GoToLink(ctx context.Context, link publication.Link) (bool, error) {
	loc, ok := n.pub.LocatorFromLink(link)
	if !ok {
		return false, nil
	}
	return n.Go(ctx, loc)
}

// CurrentLocator returns last stable reading position.
func (n *Navigator) CurrentLocator() (publication.Locator, bool) {
	return n.tracker.CurrentLocator()
}

// FirstVisibleElementLocator asks renderer for locator of the first element
// on screen. Returns false when renderer cannot tell.
func (n *Navigator) FirstVisibleElementLocator(ctx context.Context) (publication.Locator, bool) {
	el, ok := n.renderer.(ElementLocator)
	if !ok || n.tracker.loop.closed() {
		return publication.Locator{}, false
	}
	loc, err := el.FirstVisibleElementLocator(ctx)
	if err != nil {
		n.log.Debug("No visible element locator", zap.Error(err))
		return publication.Locator{}, false
	}
	return loc, true
}

// Close ends session saving last reading position.
func (n *Navigator) Close(ctx context.Context) error {
	if n.tracker.loop.closed() {
		return ErrClosed
	}
	loc, ok := n.tracker.CurrentLocator()
	n.tracker.Close()

	var err error
	if n.store != nil && ok {
		err = n.store.SaveLocator(ctx, n.publicationID(), loc)
	}
	n.log.Debug("Session closed")
	return err
}

func (n *Navigator) publicationID() string {
	return PublicationID(n.pub)
}

// PublicationID returns identifier reading state of pub is stored under.
func PublicationID(pub *publication.Publication) string {
	if len(pub.Metadata.Identifier) > 0 {
		return pub.Metadata.Identifier
	}
	return pub.Metadata.Title
}
