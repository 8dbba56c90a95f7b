package actions

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"splitflap/bundle"
	"splitflap/config"
)

// BundleExport packs group metadata, timeline, replayed plan and optionally
// glyph atlas into a single archive.
func BundleExport(ctx context.Context, cmd *cli.Command) error {
	env, err := projectEnv(ctx, cmd)
	if err != nil {
		return err
	}
	g, tl, err := groupArg(env, cmd)
	if err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		dst = config.CleanFileName(g.ID) + ".zip"
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}

	current := g.Current
	p, err := plan(env, env.Registry, tl)
	// exporting must not change the board
	g.Current = current
	if err != nil {
		return fmt.Errorf("unable to replay timeline: %w", err)
	}

	var png []byte
	if cmd.Bool("atlas") {
		at, err := buildAtlas(env, g)
		if err != nil {
			return err
		}
		if png, err = atlasPNG(at); err != nil {
			return err
		}
	}

	if err := bundle.New(g, tl, p, png).Export(dst); err != nil {
		return err
	}
	env.Log.Info("Bundle exported", zap.String("group", g.ID), zap.String("file", dst),
		zap.Int("entries", tl.Len()), zap.Bool("atlas", len(png) > 0))
	return nil
}

// BundleImport installs group from archive into the project. When group
// identifier is already taken new one is allocated.
func BundleImport(ctx context.Context, cmd *cli.Command) error {
	env, err := projectEnv(ctx, cmd)
	if err != nil {
		return err
	}
	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no bundle has been specified")
	}

	b, err := bundle.Import(src)
	if err != nil {
		return err
	}
	g, tl, err := b.Install(env.Registry, env.TimelineOptions()...)
	if err != nil {
		return err
	}
	if err := save(env, g, tl); err != nil {
		return err
	}
	if g.ID != b.Group.ID {
		env.Log.Warn("Group identifier was taken, bundle installed under new one", zap.String("bundled", b.Group.ID), zap.String("id", g.ID))
	}
	env.Log.Info("Bundle imported", zap.String("group", g.ID), zap.String("file", src), zap.Int("entries", tl.Len()))
	fmt.Fprintln(cmd.Root().Writer, g.ID)
	return nil
}
