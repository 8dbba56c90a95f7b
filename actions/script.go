package actions

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"splitflap/script"
)

// ScriptImport adds all entries of YAML script to a group timeline. Group
// named on command line takes precedence over the one in the script.
func ScriptImport(ctx context.Context, cmd *cli.Command) error {
	env, err := projectEnv(ctx, cmd)
	if err != nil {
		return err
	}

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no script has been specified")
	}
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("unable to open script: %w", err)
	}
	defer f.Close()

	s, err := script.Load(f)
	if err != nil {
		return err
	}
	name := s.Group
	if cmd.IsSet("group") {
		name = cmd.String("group")
	}
	g, tl, err := env.Group(name)
	if err != nil {
		return err
	}

	added, err := script.Apply(env.Registry, tl, s.Entries, env.Log)
	if err != nil {
		return reportEntryError(env, g, err)
	}
	if err := save(env, g, tl); err != nil {
		return err
	}
	env.Log.Info("Script imported", zap.String("group", g.ID), zap.String("file", src), zap.Int("entries", len(added)))
	return nil
}

// ScriptPaginate splits prose into board sized pages and schedules them after
// the last entry of a group timeline.
func ScriptPaginate(ctx context.Context, cmd *cli.Command) error {
	env, err := projectEnv(ctx, cmd)
	if err != nil {
		return err
	}
	g, tl, err := groupArg(env, cmd)
	if err != nil {
		return err
	}

	src := cmd.Args().Get(1)
	if len(src) == 0 {
		return errors.New("no text file has been specified")
	}
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("unable to open text file: %w", err)
	}
	defer f.Close()
	text, err := script.ReadText(f, mime.TypeByExtension(filepath.Ext(src)))
	if err != nil {
		return err
	}

	opts := script.PageOptions{
		Hold: env.Cfg.Script.Hold,
		Mode: env.Cfg.Timeline.Unmapped,
	}
	if opts.Policy, err = policyFlag(env, cmd); err != nil {
		return err
	}
	if cmd.IsSet("hold") {
		opts.Hold = cmd.Float("hold")
	}
	if entries := tl.Entries(); len(entries) > 0 {
		finals, err := tl.Finals(env.Registry)
		if err != nil {
			return err
		}
		opts.Start = entries[len(entries)-1].KeyTime + opts.Hold
		opts.Previous = finals[len(finals)-1]
	}
	if cmd.IsSet("start") {
		opts.Start = cmd.Float("start")
	}

	lang := env.Cfg.Script.Language
	if cmd.IsSet("language") {
		lang = cmd.String("language")
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return fmt.Errorf("unable to parse language: %w", err)
	}

	pages, err := script.Paginate(text, g, opts, script.NewSplitter(tag, env.Log))
	if err != nil {
		return err
	}

	if cmd.Bool("dry-run") {
		out, err := output(cmd, cmd.String("output"))
		if err != nil {
			return err
		}
		defer out.Close()
		return (&script.Script{Group: g.ID, Entries: pages}).Write(out)
	}

	added, err := script.Apply(env.Registry, tl, pages, env.Log)
	if err != nil {
		return reportEntryError(env, g, err)
	}
	if err := save(env, g, tl); err != nil {
		return err
	}
	env.Log.Info("Text paginated", zap.String("group", g.ID), zap.String("file", src), zap.Int("pages", len(added)))
	return nil
}
