// Package state defines shared program state.
package state

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"splitflap/config"
	"splitflap/registry"
	"splitflap/store"
	"splitflap/timeline"
)

type envKey struct{}

// LocalEnv keeps everything program needs in a single place.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	// opened lazily by commands working with project
	Project  *store.Store
	Registry *registry.Registry

	start         time.Time
	restoreStdLog func()
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

// OpenProject opens project database and loads all flap groups from it.
// Calling it again with project already open does nothing.
func (e *LocalEnv) OpenProject(path string) error {
	if e.Project != nil {
		return nil
	}
	s, err := store.Open(path, e.logger())
	if err != nil {
		return err
	}
	reg, err := s.LoadRegistry()
	if err != nil {
		return multierr.Append(err, s.Close())
	}
	e.Project, e.Registry = s, reg
	e.logger().Debug("Project loaded", zap.String("path", path), zap.Int("groups", reg.Len()))
	return nil
}

// CloseProject closes project database, if debug report is requested
// consistent copy of the project is put into it first.
func (e *LocalEnv) CloseProject() (err error) {
	if e.Project == nil {
		return nil
	}
	if er := e.Rpt.Snapshot("project.db", e.Project.Backup); er != nil {
		err = multierr.Append(err, er)
	}
	err = multierr.Append(err, e.Project.Close())
	e.Project, e.Registry = nil, nil
	return err
}

// TimelineOptions returns options every timeline of the program is created with.
func (e *LocalEnv) TimelineOptions() []timeline.Option {
	options := []timeline.Option{timeline.WithLogger(e.logger())}
	if e.Cfg != nil {
		options = append(options,
			timeline.WithTolerance(e.Cfg.Timeline.Tolerance),
			timeline.WithUnmappedMode(e.Cfg.Timeline.Unmapped))
	}
	return options
}

// Group resolves group by id or unique id prefix and loads its timeline.
func (e *LocalEnv) Group(name string) (*registry.Group, *timeline.Timeline, error) {
	if e.Project == nil {
		return nil, nil, fmt.Errorf("project is not open")
	}
	g, err := e.Registry.Lookup(name)
	if err != nil {
		return nil, nil, err
	}
	tl, err := e.Project.LoadTimeline(g.ID, e.TimelineOptions()...)
	if err != nil {
		return nil, nil, err
	}
	return g, tl, nil
}

func (e *LocalEnv) logger() *zap.Logger {
	if e.Log == nil {
		return zap.NewNop()
	}
	return e.Log
}
