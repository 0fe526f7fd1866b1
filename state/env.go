// Package state defines shared program state.
package state

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"epubnav/config"
	"epubnav/settings/epub"
	"epubnav/store"
)

type envKey struct{}

// LocalEnv keeps everything program needs in a single place.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	start         time.Time
	restoreStdLog func()
	factory       *epub.Factory
	store         *store.Store
}

func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, newLocalEnv())
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
	}
}

// Factory returns settings factory built from configuration.
func (e *LocalEnv) Factory() (*epub.Factory, error) {
	if e.factory != nil {
		return e.factory, nil
	}
	opts, err := e.Cfg.Navigator.SettingsOptions()
	if err != nil {
		return nil, fmt.Errorf("unable to prepare settings: %w", err)
	}
	e.factory = epub.NewFactory(opts, e.logger())
	return e.factory, nil
}

// Store returns reading state database, opening it on first use.
func (e *LocalEnv) Store() (*store.Store, error) {
	if e.store != nil {
		return e.store, nil
	}
	path := e.Cfg.Storage.Path
	if len(path) == 0 {
		path = store.Memory
	}
	s, err := store.Open(path, e.logger())
	if err != nil {
		return nil, err
	}
	e.store = s
	return s, nil
}

// CloseStore closes reading state database if it was opened. Database file
// goes to debug report.
func (e *LocalEnv) CloseStore() error {
	if e.store == nil {
		return nil
	}
	err := e.store.Close()
	e.store = nil
	if err == nil && len(e.Cfg.Storage.Path) > 0 {
		err = e.Rpt.StoreCopy("state.db", e.Cfg.Storage.Path)
	}
	return err
}

func (e *LocalEnv) logger() *zap.Logger {
	if e.Log == nil {
		return zap.NewNop()
	}
	return e.Log
}
