// Package reading implements program commands working on a single
// publication: inspecting settings and styles, computing positions and
// running reading sessions.
package reading

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"epubnav/css"
	"epubnav/navigator"
	"epubnav/publication"
	"epubnav/settings/epub"
	"epubnav/state"
	"epubnav/store"
)

// book is an opened publication together with its stored reading state.
type book struct {
	pub       *publication.Publication
	positions *publication.PositionTable
	factory   *epub.Factory
	store     *store.Store
	saved     store.State
	src       string
	id        string
	env       *state.LocalEnv
	log       *zap.Logger
}

func openBook(ctx context.Context, cmd *cli.Command, name string) (*book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	env := state.EnvFromContext(ctx)
	log := env.Log.Named(name)

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return nil, errors.New("no publication has been specified")
	}
	src, err := filepath.Abs(src)
	if err != nil {
		return nil, err
	}

	pub, err := publication.Open(src, log)
	if err != nil {
		return nil, err
	}
	b := &book{pub: pub, src: src, id: navigator.PublicationID(pub), env: env, log: log}

	if b.factory, err = env.Factory(); err != nil {
		return nil, multierr.Append(err, pub.Close())
	}
	if b.store, err = env.Store(); err != nil {
		return nil, multierr.Append(err, pub.Close())
	}
	b.saved, err = b.store.Load(ctx, b.id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		log.Debug("No saved reading state", zap.String("publication", b.id))
	case err != nil:
		return nil, multierr.Append(err, pub.Close())
	}

	if env.Rpt != nil {
		env.Rpt.StoreData("publication.txt", describe(pub).Bytes())
	}
	log.Debug("Publication opened",
		zap.String("source", src),
		zap.String("title", pub.Metadata.Title),
		zap.String("language", pub.Metadata.LanguageName()),
		zap.Int("resources", len(pub.ReadingOrder)))
	return b, nil
}

func (b *book) Close() error {
	return b.pub.Close()
}

// settings resolves settings from configured defaults and saved preferences.
func (b *book) settings() *epub.Settings {
	return b.factory.Build(b.pub, b.env.Cfg.Navigator.Defaults(), b.saved.Preferences)
}

func (b *book) buildPositions(ctx context.Context) (*publication.PositionTable, error) {
	if b.positions != nil {
		return b.positions, nil
	}
	table, err := publication.NewPositionBuilder(b.env.Cfg.Navigator.PositionLength, b.log).Build(ctx, b.pub)
	if err != nil {
		return nil, fmt.Errorf("unable to compute positions: %w", err)
	}
	b.positions = table
	return table, nil
}

// session starts navigator over the book restoring saved reading state.
func (b *book) session(ctx context.Context, r navigator.Renderer, opts ...navigator.TrackerOption) (*navigator.Navigator, error) {
	positions, err := b.buildPositions(ctx)
	if err != nil {
		return nil, err
	}
	cfg := navigator.Config{
		Defaults:       b.env.Cfg.Navigator.Defaults(),
		Preferences:    b.saved.Preferences,
		Store:          b.store,
		TrackerOptions: append([]navigator.TrackerOption{navigator.WithDebounce(b.env.Cfg.Navigator.Debounce())}, opts...),
	}
	if b.saved.Locator != nil {
		cfg.InitialLocator = *b.saved.Locator
	}
	return navigator.New(ctx, b.pub, positions, b.factory, r, cfg, b.log)
}

// logRenderer stands in for a real renderer, it logs what it is asked to do.
type logRenderer struct {
	log   *zap.Logger
	props css.Properties
}

func (r *logRenderer) ApplyStyles(_ context.Context, props css.Properties) error {
	r.props = props
	r.log.Debug("Styles", zap.Stringer("properties", props))
	return nil
}

func (r *logRenderer) Go(_ context.Context, loc publication.Locator) error {
	r.log.Info("Go", zap.Stringer("locator", loc))
	return nil
}
