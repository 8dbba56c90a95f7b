package state

import (
	"archive/zip"
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"splitflap/config"
	"splitflap/registry"
	"splitflap/timeline"
)

func TestContextWithEnv(t *testing.T) {
	ctx := ContextWithEnv(context.Background())
	if ctx == nil {
		t.Fatal("ContextWithEnv() returned nil")
	}

	env := EnvFromContext(ctx)
	if env == nil {
		t.Fatal("EnvFromContext() returned nil")
	}

	if env.start.IsZero() {
		t.Error("Environment start time not set")
	}
}

func TestEnvFromContext(t *testing.T) {
	t.Run("valid context", func(t *testing.T) {
		ctx := ContextWithEnv(context.Background())
		env := EnvFromContext(ctx)

		if env == nil {
			t.Error("Expected non-nil environment")
		}
	})

	t.Run("panic on missing env", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Error("Expected panic when env not in context")
			}
		}()

		// Use plain context without env
		EnvFromContext(context.Background())
	})
}

func TestLocalEnv_Uptime(t *testing.T) {
	ctx := ContextWithEnv(context.Background())
	env := EnvFromContext(ctx)

	time.Sleep(10 * time.Millisecond)
	uptime := env.Uptime()

	if uptime < 10*time.Millisecond {
		t.Errorf("Uptime() = %v, expected at least 10ms", uptime)
	}
	if uptime > 1*time.Second {
		t.Errorf("Uptime() = %v, unexpectedly large", uptime)
	}
}

func TestLocalEnv_RedirectStdLog(t *testing.T) {
	t.Run("with logger", func(t *testing.T) {
		env := &LocalEnv{
			Log: zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1))),
		}

		env.RedirectStdLog()
		if env.restoreStdLog == nil {
			t.Error("Expected restoreStdLog to be set")
		}

		env.RestoreStdLog()
	})

	t.Run("without logger", func(t *testing.T) {
		env := &LocalEnv{
			Log: nil,
		}

		// Should not panic
		env.RedirectStdLog()
		if env.restoreStdLog != nil {
			t.Error("Expected restoreStdLog to remain nil")
		}
		env.RestoreStdLog()
	})
}

func TestLocalEnv_Project(t *testing.T) {
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	env := &LocalEnv{
		Cfg:   cfg,
		Log:   zaptest.NewLogger(t),
		start: time.Now(),
	}
	path := filepath.Join(t.TempDir(), "project.db")

	if _, _, err := env.Group("board"); err == nil {
		t.Error("expected error for closed project")
	}

	if err := env.OpenProject(path); err != nil {
		t.Fatalf("OpenProject() error = %v", err)
	}
	g, err := env.Registry.Create("board", registry.Metadata{FlapTime: 0.1, Characters: " AB", RowCount: 1, ColCount: 3})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := env.Project.SaveGroup(g); err != nil {
		t.Fatalf("SaveGroup() error = %v", err)
	}
	tl := timeline.New(g.ID, env.TimelineOptions()...)
	if _, err := tl.Add(env.Registry, timeline.EntryInput{KeyTime: 1, Text: "AB"}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := env.Project.SaveTimeline(tl); err != nil {
		t.Fatalf("SaveTimeline() error = %v", err)
	}
	if err := env.CloseProject(); err != nil {
		t.Fatalf("CloseProject() error = %v", err)
	}
	if env.Project != nil || env.Registry != nil {
		t.Error("project must be released after close")
	}

	if err := env.OpenProject(path); err != nil {
		t.Fatalf("OpenProject() error = %v", err)
	}
	defer env.CloseProject()

	g2, tl2, err := env.Group("board-sys")
	if err != nil {
		t.Fatalf("Group() error = %v", err)
	}
	if g2.ID != g.ID {
		t.Errorf("Group() = %s, want %s", g2.ID, g.ID)
	}
	if tl2.Len() != 1 {
		t.Errorf("timeline has %d entries, want 1", tl2.Len())
	}

	if _, _, err := env.Group("nothing"); !errors.Is(err, registry.ErrUnknownGroup) {
		t.Errorf("Group() error = %v, want ErrUnknownGroup", err)
	}
}

func TestLocalEnv_CloseProjectIntoReport(t *testing.T) {
	dir := t.TempDir()
	conf := config.ReporterConfig{Destination: filepath.Join(dir, "report.zip")}
	rpt, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	env := &LocalEnv{Rpt: rpt, start: time.Now()}
	if err := env.OpenProject(filepath.Join(dir, "project.db")); err != nil {
		t.Fatalf("OpenProject() error = %v", err)
	}
	if err := env.CloseProject(); err != nil {
		t.Fatalf("CloseProject() error = %v", err)
	}
	if err := rpt.Close(); err != nil {
		t.Fatalf("report Close() error = %v", err)
	}

	zr, err := zip.OpenReader(conf.Destination)
	if err != nil {
		t.Fatalf("unable to open report: %v", err)
	}
	defer zr.Close()
	var found bool
	for _, f := range zr.File {
		if f.Name != "project.db" {
			continue
		}
		found = true
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("unable to open project copy: %v", err)
		}
		head := make([]byte, 15)
		_, err = io.ReadFull(rc, head)
		rc.Close()
		if err != nil || string(head) != "SQLite format 3" {
			t.Errorf("project copy is not a database: %q, %v", head, err)
		}
	}
	if !found {
		t.Error("report has no project copy")
	}
}

func TestLocalEnv_TimelineOptionsWithoutConfig(t *testing.T) {
	env := &LocalEnv{}
	if got := len(env.TimelineOptions()); got != 1 {
		t.Errorf("TimelineOptions() returned %d options, want 1", got)
	}
}

func TestEnvKey(t *testing.T) {
	// Verify that envKey is a unique type
	var key envKey
	ctx := context.WithValue(context.Background(), key, &LocalEnv{start: time.Now()})

	val := ctx.Value(key)
	if val == nil {
		t.Error("Failed to retrieve value with envKey")
	}

	if _, ok := val.(*LocalEnv); !ok {
		t.Error("Retrieved value is not *LocalEnv")
	}
}
