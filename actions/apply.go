package actions

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"splitflap/common"
	"splitflap/config"
	"splitflap/registry"
	"splitflap/schedule"
	"splitflap/state"
	"splitflap/timeline"
)

// Apply replays timelines of requested groups (all groups when none is
// named), writes keyframes for the host animation tool and keeps them in the
// project. Failure of one group does not stop others.
func Apply(ctx context.Context, cmd *cli.Command) (err error) {
	env, err := projectEnv(ctx, cmd)
	if err != nil {
		return err
	}
	log := env.Log.Named("apply")

	format := env.Cfg.Timeline.PlanFormat
	if cmd.IsSet("format") {
		if format, err = common.ParsePlanFormat(cmd.String("format")); err != nil {
			return fmt.Errorf("unknown keyframe format: %w", err)
		}
	}
	dst := cmd.String("output")
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}

	var groups []*registry.Group
	if cmd.NArg() == 0 {
		groups = env.Registry.List()
	} else {
		seen := make(map[string]bool)
		for _, name := range cmd.Args().Slice() {
			g, err := env.Registry.Lookup(name)
			if err != nil {
				return err
			}
			if !seen[g.ID] {
				groups = append(groups, g)
				seen[g.ID] = true
			}
		}
	}
	if len(groups) == 0 {
		log.Warn("Project has no flap groups, nothing to do")
		return nil
	}

	for _, g := range groups {
		if er := ctx.Err(); er != nil {
			return multierr.Append(err, er)
		}
		if er := applyGroup(env, g, cmd.Root().Writer, dst, format, log); er != nil {
			log.Error("Unable to apply timeline", zap.String("group", g.ID), zap.Error(er))
			err = multierr.Append(err, fmt.Errorf("group %s: %w", g.ID, er))
		}
	}
	return err
}

// appliedGroup is kept in debug report next to the plan dump.
type appliedGroup struct {
	ID       string            `yaml:"id"`
	Metadata registry.Metadata `yaml:"metadata"`
	Current  string            `yaml:"current"`
	Entries  []timeline.Entry  `yaml:"entries"`
}

// applyGroup writes keyframes into dst directory, "-" means stdout.
func applyGroup(env *state.LocalEnv, g *registry.Group, stdout io.Writer, dst string, format common.PlanFormat, log *zap.Logger) (err error) {
	tl, err := env.Project.LoadTimeline(g.ID, env.TimelineOptions()...)
	if err != nil {
		return err
	}

	name := filepath.Join(dst, config.CleanFileName(g.ID)+format.Ext())
	if dst == "-" {
		name = ""
	}
	out := stdout
	if len(name) > 0 {
		f, ferr := os.Create(name)
		if ferr != nil {
			return fmt.Errorf("unable to create keyframes file: %w", ferr)
		}
		defer func() {
			err = multierr.Append(err, f.Close())
		}()
		out = f
	}

	sink := schedule.Tee{schedule.NewWriterSink(out, format), env.Project.KeyframeSink()}
	plan, err := schedule.NewScheduler(env.Cfg.Timeline.FPS, env.Log).Apply(env.Registry, tl, sink)
	if plan != nil {
		env.Rpt.StoreData(fmt.Sprintf("plans/%s.txt", g.ID), []byte(plan.Dump()))
	}
	// keyframes emitted so far are already stored, current string must agree
	if serr := env.Project.SaveGroup(g); serr != nil {
		return multierr.Append(err, serr)
	}
	if rerr := env.Rpt.StoreYAML(fmt.Sprintf("groups/%s.yaml", g.ID), appliedGroup{
		ID: g.ID, Metadata: g.Metadata(), Current: g.Current, Entries: tl.Entries(),
	}); rerr != nil {
		log.Warn("Unable to put group into report", zap.String("group", g.ID), zap.Error(rerr))
	}
	if err != nil {
		return err
	}

	log.Info("Timeline applied", zap.String("group", g.ID), zap.Int("transitions", len(plan.Transitions)),
		zap.Int("frames", plan.LastFrame()), zap.String("keyframes", name), zap.String("current", g.Current))
	return nil
}
