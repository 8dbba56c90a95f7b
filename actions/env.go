// Package actions implements program commands.
package actions

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"splitflap/atlas"
	"splitflap/common"
	"splitflap/config"
	"splitflap/preview"
	"splitflap/registry"
	"splitflap/schedule"
	"splitflap/state"
	"splitflap/timeline"
)

// projectEnv returns program environment with project database open. Project
// location comes from command line or configuration.
func projectEnv(ctx context.Context, cmd *cli.Command) (*state.LocalEnv, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	env := state.EnvFromContext(ctx)

	path := cmd.String("project")
	if len(path) == 0 {
		path = env.Cfg.Project.Database
	}
	if err := env.OpenProject(path); err != nil {
		return nil, fmt.Errorf("unable to open project: %w", err)
	}
	return env, nil
}

// groupArg resolves group named by the first command argument.
func groupArg(env *state.LocalEnv, cmd *cli.Command) (*registry.Group, *timeline.Timeline, error) {
	name := cmd.Args().Get(0)
	if len(name) == 0 {
		return nil, nil, fmt.Errorf("no flap group has been specified")
	}
	return env.Group(name)
}

// save persists group and its timeline.
func save(env *state.LocalEnv, g *registry.Group, tl *timeline.Timeline) error {
	if err := env.Project.SaveGroup(g); err != nil {
		return err
	}
	if tl == nil {
		return nil
	}
	return env.Project.SaveTimeline(tl)
}

// policyFlag returns padding policy requested on command line or configured
// default.
func policyFlag(env *state.LocalEnv, cmd *cli.Command) (common.Policy, error) {
	if !cmd.IsSet("policy") {
		return env.Cfg.Timeline.DefaultPolicy, nil
	}
	p, err := common.ParsePolicy(cmd.String("policy"))
	if err != nil {
		return 0, fmt.Errorf("unknown padding policy: %w", err)
	}
	return p, nil
}

// plan replays complete timeline of a group without any sink.
func plan(env *state.LocalEnv, reg *registry.Registry, tl *timeline.Timeline) (*schedule.Plan, error) {
	return schedule.NewScheduler(env.Cfg.Timeline.FPS, env.Log).Apply(reg, tl, nil)
}

// output opens destination, empty name or "-" means standard output.
func output(cmd *cli.Command, name string) (io.WriteCloser, error) {
	if len(name) == 0 || name == "-" {
		return nopCloser{cmd.Root().Writer}, nil
	}
	if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return nil, fmt.Errorf("unable to create destination directory: %w", err)
	}
	f, err := os.Create(name)
	if err != nil {
		return nil, fmt.Errorf("unable to create destination file '%s': %w", name, err)
	}
	return f, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

func atlasStyle(cfg *config.AtlasConfig) (atlas.Style, error) {
	st := atlas.Style{
		CellWidth:  cfg.CellWidth,
		CellHeight: cfg.CellHeight,
		FlapRatio:  cfg.FlapRatio,
		CharWidth:  cfg.CharWidth,
		CharHeight: cfg.CharHeight,
	}
	var err error
	if st.FontColor, err = atlas.ParseColor(cfg.FontColor); err != nil {
		return st, err
	}
	if st.BackgroundColor, err = atlas.ParseColor(cfg.BackgroundColor); err != nil {
		return st, err
	}
	return st, nil
}

// buildAtlas renders glyph atlas of group alphabet with configured font.
func buildAtlas(env *state.LocalEnv, g *registry.Group) (*atlas.Atlas, error) {
	st, err := atlasStyle(&env.Cfg.Atlas)
	if err != nil {
		return nil, err
	}

	path := env.Cfg.Atlas.Font
	if len(path) > 0 {
		if path, err = atlas.FindFont(path, append(env.Cfg.Atlas.FontDirs, config.DefaultFontDirs()...)); err != nil {
			return nil, err
		}
	}
	fnt, err := atlas.LoadFont(path)
	if err != nil {
		return nil, err
	}
	env.Log.Debug("Generating atlas", zap.String("group", g.ID), zap.String("font", path), zap.Int("symbols", g.Alphabet.Len()))
	return atlas.Generate(g.Alphabet, st, fnt)
}

func atlasPNG(at *atlas.Atlas) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := at.Encode(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func previewLayout(cfg *config.PreviewConfig) (preview.Layout, error) {
	lay := preview.Layout{
		CellWidth:  cfg.CellWidth,
		CellHeight: cfg.CellHeight,
		GapX:       cfg.GapX,
		GapY:       cfg.GapY,
		Radius:     cfg.Radius,
		FontFamily: cfg.FontFamily,
	}
	var err error
	if lay.Board, err = atlas.ParseColor(cfg.Board); err != nil {
		return lay, err
	}
	if lay.Flap, err = atlas.ParseColor(cfg.Flap); err != nil {
		return lay, err
	}
	if lay.Text, err = atlas.ParseColor(cfg.Text); err != nil {
		return lay, err
	}
	return lay, nil
}
