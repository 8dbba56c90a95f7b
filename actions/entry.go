package actions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"splitflap/registry"
	"splitflap/script"
	"splitflap/state"
	"splitflap/timeline"
)

// entryText returns text from --text or --file, ok is false when neither was
// given.
func entryText(cmd *cli.Command) (text string, ok bool, err error) {
	switch {
	case cmd.IsSet("text") && cmd.IsSet("file"):
		return "", false, errors.New("only one of --text and --file could be specified")
	case cmd.IsSet("text"):
		return cmd.String("text"), true, nil
	case cmd.IsSet("file"):
		f, err := os.Open(cmd.String("file"))
		if err != nil {
			return "", false, fmt.Errorf("unable to open text file: %w", err)
		}
		defer f.Close()
		text, err := script.ReadText(f, "")
		if err != nil {
			return "", false, err
		}
		return text, true, nil
	}
	return "", false, nil
}

func EntryAdd(ctx context.Context, cmd *cli.Command) error {
	env, err := projectEnv(ctx, cmd)
	if err != nil {
		return err
	}
	g, tl, err := groupArg(env, cmd)
	if err != nil {
		return err
	}

	if !cmd.IsSet("time") {
		return errors.New("entry time has not been specified")
	}
	text, ok, err := entryText(cmd)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("entry text has not been specified")
	}
	policy, err := policyFlag(env, cmd)
	if err != nil {
		return err
	}

	e, err := tl.Add(env.Registry, timeline.EntryInput{KeyTime: cmd.Float("time"), Text: text, Policy: policy})
	if err != nil {
		return reportEntryError(env, g, err)
	}
	if err := save(env, g, tl); err != nil {
		return err
	}
	env.Log.Info("Entry added", zap.String("group", g.ID), zap.String("id", e.ID), zap.Float64("time", e.KeyTime))
	fmt.Fprintln(cmd.Root().Writer, e.ID)
	return nil
}

func EntryUpdate(ctx context.Context, cmd *cli.Command) error {
	env, err := projectEnv(ctx, cmd)
	if err != nil {
		return err
	}
	g, tl, err := groupArg(env, cmd)
	if err != nil {
		return err
	}
	old, err := tl.Lookup(cmd.Args().Get(1))
	if err != nil {
		return err
	}

	in := timeline.EntryInput{KeyTime: old.KeyTime, Text: old.Text, Policy: old.Policy}
	if cmd.IsSet("time") {
		in.KeyTime = cmd.Float("time")
	}
	text, ok, err := entryText(cmd)
	if err != nil {
		return err
	}
	if ok {
		in.Text = text
	}
	if cmd.IsSet("policy") {
		if in.Policy, err = policyFlag(env, cmd); err != nil {
			return err
		}
	}

	e, err := tl.Update(env.Registry, old.ID, in)
	if err != nil {
		return reportEntryError(env, g, err)
	}
	if err := save(env, g, tl); err != nil {
		return err
	}
	env.Log.Info("Entry updated", zap.String("group", g.ID), zap.String("id", e.ID), zap.Float64("time", e.KeyTime))
	return nil
}

func EntryDelete(ctx context.Context, cmd *cli.Command) error {
	env, err := projectEnv(ctx, cmd)
	if err != nil {
		return err
	}
	g, tl, err := groupArg(env, cmd)
	if err != nil {
		return err
	}
	old, err := tl.Lookup(cmd.Args().Get(1))
	if err != nil {
		return err
	}

	e, violations, err := tl.Delete(env.Registry, old.ID)
	if err != nil {
		return err
	}
	if err := save(env, g, tl); err != nil {
		return err
	}
	env.Log.Info("Entry deleted", zap.String("group", g.ID), zap.String("id", e.ID))
	for _, v := range violations {
		env.Log.Warn("Transition became infeasible", zap.String("group", g.ID), zap.Stringer("violation", v))
	}
	return nil
}

func EntryList(ctx context.Context, cmd *cli.Command) error {
	env, err := projectEnv(ctx, cmd)
	if err != nil {
		return err
	}
	_, tl, err := groupArg(env, cmd)
	if err != nil {
		return err
	}
	return listEntries(cmd.Root().Writer, env.Registry, tl)
}

func listEntries(w io.Writer, reg *registry.Registry, tl *timeline.Timeline) error {
	finals, err := tl.Finals(reg)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTIME\tPOLICY\tTEXT\tFINAL")
	for i, e := range tl.Entries() {
		fmt.Fprintf(tw, "%s\t%.2f\t%s\t%q\t%q\n", e.ID, e.KeyTime, e.Policy, e.Text, finals[i])
	}
	return tw.Flush()
}

// reportEntryError logs details of timing violation before returning error.
func reportEntryError(env *state.LocalEnv, g *registry.Group, err error) error {
	var ie *timeline.InfeasibleError
	if errors.As(err, &ie) {
		env.Log.Warn("Entry does not leave enough time for flaps to rotate", zap.String("group", g.ID),
			zap.Stringer("neighbour", ie.Direction), zap.Float64("time", ie.KeyTime), zap.Float64("margin", ie.Margin))
	}
	return err
}
