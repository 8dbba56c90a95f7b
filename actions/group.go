package actions

import (
	"context"
	"fmt"
	"text/tabwriter"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"splitflap/registry"
)

func GroupCreate(ctx context.Context, cmd *cli.Command) error {
	env, err := projectEnv(ctx, cmd)
	if err != nil {
		return err
	}
	board := env.Cfg.Board

	prefix := board.Prefix
	if p := cmd.Args().Get(0); len(p) > 0 {
		prefix = p
	}
	meta := registry.Metadata{
		FlapTime:   board.FlapTime,
		Characters: board.Characters,
		RowCount:   board.Rows,
		ColCount:   board.Cols,
	}
	if cmd.IsSet("rows") {
		meta.RowCount = cmd.Int("rows")
	}
	if cmd.IsSet("cols") {
		meta.ColCount = cmd.Int("cols")
	}
	if cmd.IsSet("flap-time") {
		meta.FlapTime = cmd.Float("flap-time")
	}
	if cmd.IsSet("characters") {
		meta.Characters = cmd.String("characters")
	}

	g, err := env.Registry.Create(prefix, meta)
	if err != nil {
		return fmt.Errorf("unable to create flap group: %w", err)
	}
	if err := save(env, g, nil); err != nil {
		return err
	}
	env.Log.Info("Flap group created", zap.String("id", g.ID), zap.Int("rows", g.Rows), zap.Int("cols", g.Cols),
		zap.Float64("flap_time", g.FlapTime), zap.Int("symbols", g.Alphabet.Len()))
	fmt.Fprintln(cmd.Root().Writer, g.ID)
	return nil
}

func GroupList(ctx context.Context, cmd *cli.Command) error {
	env, err := projectEnv(ctx, cmd)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.Root().Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSIZE\tFLAP TIME\tSYMBOLS\tCURRENT")
	for _, g := range env.Registry.List() {
		fmt.Fprintf(tw, "%s\t%dx%d\t%.3f\t%d\t%q\n", g.ID, g.Rows, g.Cols, g.FlapTime, g.Alphabet.Len(), g.Current)
	}
	return tw.Flush()
}

func GroupDelete(ctx context.Context, cmd *cli.Command) error {
	env, err := projectEnv(ctx, cmd)
	if err != nil {
		return err
	}
	g, _, err := groupArg(env, cmd)
	if err != nil {
		return err
	}
	if err := env.Project.DeleteGroup(g.ID); err != nil {
		return err
	}
	if err := env.Registry.Remove(g.ID); err != nil {
		return err
	}
	env.Log.Info("Flap group deleted", zap.String("id", g.ID))
	return nil
}

// GroupShow prints group metadata, its timeline with final strings and all
// timing violations.
func GroupShow(ctx context.Context, cmd *cli.Command) error {
	env, err := projectEnv(ctx, cmd)
	if err != nil {
		return err
	}
	g, tl, err := groupArg(env, cmd)
	if err != nil {
		return err
	}

	w := cmd.Root().Writer
	fmt.Fprintf(w, "id:         %s\n", g.ID)
	fmt.Fprintf(w, "prefix:     %s\n", g.Prefix)
	fmt.Fprintf(w, "size:       %dx%d\n", g.Rows, g.Cols)
	fmt.Fprintf(w, "flap time:  %.3f\n", g.FlapTime)
	fmt.Fprintf(w, "characters: %q\n", g.Alphabet.String())
	fmt.Fprintf(w, "created:    %s\n", g.Created.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "current:    %q\n", g.Current)

	if tl.Len() == 0 {
		return nil
	}
	fmt.Fprintln(w)
	if err := listEntries(w, env.Registry, tl); err != nil {
		return err
	}

	violations, err := tl.Validate(env.Registry)
	if err != nil {
		return err
	}
	for _, v := range violations {
		env.Log.Warn("Infeasible transition", zap.String("group", g.ID), zap.Stringer("violation", v))
	}
	return nil
}
