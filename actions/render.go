package actions

import (
	"context"
	"errors"
	"fmt"
	"image/gif"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"splitflap/atlas"
	"splitflap/preview"
)

// Atlas renders glyph atlas of group alphabet into destination directory
// under the first free name produced by configured template.
func Atlas(ctx context.Context, cmd *cli.Command) (err error) {
	env, err := projectEnv(ctx, cmd)
	if err != nil {
		return err
	}
	g, _, err := groupArg(env, cmd)
	if err != nil {
		return err
	}

	dir := cmd.Args().Get(1)
	if len(dir) == 0 {
		if dir, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("unable to create destination directory: %w", err)
	}

	at, err := buildAtlas(env, g)
	if err != nil {
		return err
	}
	name, err := atlas.OutputName(env.Cfg.Atlas.OutputNameTemplate, dir, atlas.NameValues{Prefix: g.Prefix, Group: g.ID})
	if err != nil {
		return err
	}
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("unable to create atlas file: %w", err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	if err := at.Encode(f); err != nil {
		return err
	}
	env.Log.Info("Atlas created", zap.String("group", g.ID), zap.String("file", name),
		zap.Int("per_row", at.PerRow), zap.Float64("font_size", at.FontSize))
	return nil
}

// Preview renders board state. Output type is selected by destination
// extension: svg, png or gif (animation of the whole timeline or requested
// range).
func Preview(ctx context.Context, cmd *cli.Command) error {
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
		return errors.New("no destination has been specified")
	}
	ext := strings.ToLower(filepath.Ext(dst))
	if ext != ".svg" && ext != ".png" && ext != ".gif" {
		return fmt.Errorf("unsupported preview type '%s', use svg, png or gif", ext)
	}
	lay, err := previewLayout(&env.Cfg.Preview)
	if err != nil {
		return err
	}

	p, err := plan(env, env.Registry, tl)
	if p == nil {
		return err
	}
	if err != nil {
		// board state is still defined by whatever was planned
		env.Log.Warn("Timeline has problems, preview may be incomplete", zap.String("group", g.ID), zap.Error(err))
	}

	text := g.Current
	if cmd.IsSet("at") {
		text = preview.StateAt(p, g, cmd.Float("at"))
	}

	out, err := output(cmd, dst)
	if err != nil {
		return err
	}
	defer out.Close()

	switch ext {
	case ".svg":
		doc := preview.SVG(g, text, lay)
		doc.Indent(2)
		if _, err := doc.WriteTo(out); err != nil {
			return fmt.Errorf("unable to write preview: %w", err)
		}
	case ".png":
		at, err := buildAtlas(env, g)
		if err != nil {
			return err
		}
		img, err := preview.PNG(g, text, at, lay)
		if err != nil {
			return err
		}
		if err := imaging.Encode(out, img, imaging.PNG); err != nil {
			return fmt.Errorf("unable to write preview: %w", err)
		}
	case ".gif":
		at, err := buildAtlas(env, g)
		if err != nil {
			return err
		}
		from, to := 0.0, float64(p.LastFrame())/p.FPS+1
		if cmd.IsSet("from") {
			from = cmd.Float("from")
		}
		if cmd.IsSet("to") {
			to = cmd.Float("to")
		}
		step := env.Cfg.Preview.GIFStep
		if cmd.IsSet("step") {
			step = cmd.Float("step")
		}
		anim, err := preview.GIF(p, g, at, lay, from, to, step)
		if err != nil {
			return err
		}
		if err := gif.EncodeAll(out, anim); err != nil {
			return fmt.Errorf("unable to write preview: %w", err)
		}
		text = preview.StateAt(p, g, to)
	}
	env.Log.Info("Preview created", zap.String("group", g.ID), zap.String("file", dst), zap.String("shows", text))
	return nil
}
