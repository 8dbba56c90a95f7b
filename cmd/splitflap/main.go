package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"splitflap/actions"
	"splitflap/common"
	"splitflap/config"
	"splitflap/misc"
	"splitflap/state"
)

// initializeAppContext prepares application context before command execution but
// after command line has been parsed
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var err error

	if cmd.NArg() == 0 {
		// nothing to do, just return
		return ctx, nil
	}

	env := state.EnvFromContext(ctx)

	configFile := cmd.String("config")
	if env.Cfg, err = config.LoadConfiguration(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("debug") {
		if env.Rpt, err = env.Cfg.Reporting.Prepare(); err != nil {
			return ctx, fmt.Errorf("unable to prepare debug reporter: %w", err)
		}
		// save configuration file as given and as processed
		if len(configFile) > 0 {
			if err := env.Rpt.StoreCopy(fmt.Sprintf("config/%s", filepath.Base(configFile)), configFile); err != nil {
				return ctx, err
			}
		}
		if data, err := config.Dump(env.Cfg); err == nil {
			env.Rpt.StoreData("processed-config.yaml", data)
		}
	}
	if env.Log, err = env.Cfg.Logging.Prepare(env.Rpt); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()

	env.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("ver", misc.GetVersion()), zap.String("runtime", runtime.Version()), zap.String("hash", misc.GetGitHash()))

	if env.Rpt != nil {
		env.Log.Info("Creating debug report", zap.String("location", env.Rpt.Name()))
	}
	if len(configFile) == 0 && env.Log != nil {
		env.Log.Debug("Using defaults (no configuration file)")
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	// project copy goes into report, so it has to be closed first
	if er := env.CloseProject(); er != nil {
		err = multierr.Append(err, fmt.Errorf("unable to close project: %w", er))
	}

	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	}

	// close logging
	env.RestoreStdLog()

	// log is synced now and result can be used in report if necessary, errors
	// must be reported directly to stderr from now on
	if env.Rpt != nil {
		if er := env.Rpt.Close(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close debug report: %w", er))
		}
	}
	// reporting is closed now - remove empty panic file if any
	if env.Cfg != nil && len(env.Cfg.Logging.FileLogger.Destination) > 0 {
		debug.SetCrashOutput(nil, debug.CrashOptions{})
		fname := filepath.Join(filepath.Dir(env.Cfg.Logging.FileLogger.Destination), misc.GetAppName()+"-panic.log")
		if fi, er := os.Stat(fname); er == nil && fi.Size() == 0 {
			if er := os.Remove(fname); er != nil {
				err = multierr.Append(err, fmt.Errorf("unable to remove empty panic log file '%s': %w", fname, er))
			}
		}
	}
	return
}

// Ignore urfave/cli default error handling - cli.Exit() is not used, regular
// errors are returned from subcommands.
var errWasHandled bool

// this is called before appContext is destroyed, so we have a chance to
// properly log any error from subcommand
func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {

	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	// do nothing special, error is reported either by exitErrHandler or on
	// exit directly to stderr.
	return err
}

func subcommandNotFoundHandler(ctx context.Context, _ *cli.Command, name string) {
	state.EnvFromContext(ctx).Log.Warn("Unknown command, nothing to do", zap.String("command", name))
}

var policyUsage = "padding `POLICY` of short text (" + strings.Join(common.PolicyNames(), ", ") + "), default from configuration"

func entryFlags(timeUsage string) []cli.Flag {
	return []cli.Flag{
		&cli.FloatFlag{Name: "time", Aliases: []string{"t"}, Usage: timeUsage},
		&cli.StringFlag{Name: "text", Usage: "`TEXT` to show, new lines start new board rows"},
		&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "read text from `FILE` (any encoding)"},
		&cli.StringFlag{Name: "policy", Usage: policyUsage},
	}
}

func main() {

	// allow graceful shutdown on interrupt.
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "animation scheduling engine for split-flap displays",
		Version:         misc.GetVersion() + " (" + runtime.Version() + ") : " + misc.GetGitHash(),
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		CommandNotFound: subcommandNotFoundHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "changes program behavior to help troubleshooting, produces report archive"},
			&cli.StringFlag{Name: "project", Aliases: []string{"p"}, DefaultText: "from configuration", Usage: "project database `FILE` (sqlite)"},
		},
		Commands: []*cli.Command{
			{
				Name:  "group",
				Usage: "Manages flap groups",
				Commands: []*cli.Command{
					{
						Name:         "create",
						Usage:        "Creates new flap group, prints its identifier",
						ArgsUsage:    "[PREFIX]",
						OnUsageError: usageErrorHandler,
						Action:       actions.GroupCreate,
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "rows", Usage: "number of flap `ROWS`"},
							&cli.IntFlag{Name: "cols", Usage: "number of flap `COLUMNS`"},
							&cli.FloatFlag{Name: "flap-time", Usage: "`SECONDS` needed to advance one symbol"},
							&cli.StringFlag{Name: "characters", Usage: "flap alphabet `SYMBOLS` in rotation order"},
						},
					},
					{Name: "list", Usage: "Lists flap groups of the project", OnUsageError: usageErrorHandler, Action: actions.GroupList},
					{Name: "show", Usage: "Shows flap group and its timeline", ArgsUsage: "GROUP", OnUsageError: usageErrorHandler, Action: actions.GroupShow},
					{Name: "delete", Usage: "Deletes flap group with its timeline", ArgsUsage: "GROUP", OnUsageError: usageErrorHandler, Action: actions.GroupDelete},
				},
			},
			{
				Name:  "entry",
				Usage: "Manages timeline entries of a flap group",
				Commands: []*cli.Command{
					{
						Name:         "add",
						Usage:        "Adds timeline entry, prints its identifier",
						ArgsUsage:    "GROUP",
						OnUsageError: usageErrorHandler,
						Action:       actions.EntryAdd,
						Flags:        entryFlags("`SECONDS` from the animation start"),
					},
					{
						Name:         "update",
						Usage:        "Changes timeline entry, values not specified are kept",
						ArgsUsage:    "GROUP ENTRY",
						OnUsageError: usageErrorHandler,
						Action:       actions.EntryUpdate,
						Flags:        entryFlags("new `SECONDS` from the animation start"),
					},
					{Name: "delete", Usage: "Removes timeline entry", ArgsUsage: "GROUP ENTRY", OnUsageError: usageErrorHandler, Action: actions.EntryDelete},
					{Name: "list", Usage: "Lists timeline entries with final board strings", ArgsUsage: "GROUP", OnUsageError: usageErrorHandler, Action: actions.EntryList},
				},
			},
			{
				Name:  "script",
				Usage: "Brings timeline entries from files",
				Commands: []*cli.Command{
					{
						Name:         "import",
						Usage:        "Adds all entries of YAML script, either all or none",
						ArgsUsage:    "SCRIPT",
						OnUsageError: usageErrorHandler,
						Action:       actions.ScriptImport,
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "group", Aliases: []string{"g"}, Usage: "target `GROUP` instead of the one named in script"},
						},
					},
					{
						Name:         "paginate",
						Usage:        "Splits text into board sized pages and schedules them",
						ArgsUsage:    "GROUP TEXT_FILE",
						OnUsageError: usageErrorHandler,
						Action:       actions.ScriptPaginate,
						Flags: []cli.Flag{
							&cli.FloatFlag{Name: "start", Usage: "`SECONDS` of the first page, default after the last entry"},
							&cli.FloatFlag{Name: "hold", Usage: "`SECONDS` every page stays on the board"},
							&cli.StringFlag{Name: "policy", Usage: policyUsage},
							&cli.StringFlag{Name: "language", Aliases: []string{"l"}, Usage: "text `LANGUAGE` for sentence splitting"},
							&cli.BoolFlag{Name: "dry-run", Usage: "output resulting script instead of changing timeline"},
							&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write dry run script to `FILE` instead of STDOUT"},
						},
					},
				},
			},
			{
				Name:         "apply",
				Usage:        "Replays timelines and writes flap keyframes",
				ArgsUsage:    "[GROUP...]",
				OnUsageError: usageErrorHandler,
				Action:       actions.Apply,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Aliases: []string{"f"},
						Usage: "keyframes `FORMAT` (" + strings.Join(common.PlanFormatNames(), ", ") + "), default from configuration"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "destination `DIRECTORY`, \"-\" for STDOUT, default current directory"},
				},
				CustomHelpTemplate: fmt.Sprintf(`%s
GROUP:
    flap group identifier or its unique prefix, when absent all groups of
    the project are processed

Every group is replayed from its initial state, keyframes are written to
"<group>.yaml" or "<group>.jsonl" and kept in the project database.
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "atlas",
				Usage:        "Renders glyph atlas texture for flap group alphabet",
				ArgsUsage:    "GROUP [DIRECTORY]",
				OnUsageError: usageErrorHandler,
				Action:       actions.Atlas,
			},
			{
				Name:         "preview",
				Usage:        "Renders board state (SVG, PNG) or animation (GIF)",
				ArgsUsage:    "GROUP DESTINATION",
				OnUsageError: usageErrorHandler,
				Action:       actions.Preview,
				Flags: []cli.Flag{
					&cli.FloatFlag{Name: "at", Usage: "show board at `SECONDS`, default final state"},
					&cli.FloatFlag{Name: "from", Usage: "animation start `SECONDS`"},
					&cli.FloatFlag{Name: "to", Usage: "animation end `SECONDS`, default one second after the last move"},
					&cli.FloatFlag{Name: "step", Usage: "`SECONDS` between animation frames"},
				},
				CustomHelpTemplate: fmt.Sprintf(`%s
DESTINATION:
    output file, its extension selects type: .svg, .png or .gif
`, cli.CommandHelpTemplate),
			},
			{
				Name:  "bundle",
				Usage: "Moves flap groups between projects",
				Commands: []*cli.Command{
					{
						Name:         "export",
						Usage:        "Writes group, its timeline and keyframe plan into archive",
						ArgsUsage:    "GROUP [DESTINATION]",
						OnUsageError: usageErrorHandler,
						Action:       actions.BundleExport,
						Flags: []cli.Flag{
							&cli.BoolFlag{Name: "atlas", Usage: "include glyph atlas"},
						},
					},
					{Name: "import", Usage: "Installs group from archive", ArgsUsage: "BUNDLE", OnUsageError: usageErrorHandler, Action: actions.BundleImport},
				},
			},
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "DESTINATION",
				CustomHelpTemplate: fmt.Sprintf(`%s

DESTINATION:
    file name to write configuration to, if absent - STDOUT

Produces file with actual "active" configuration values which is composition of
default values and values specified in configuration file. To see default
configuration embedded into the program use --default flag.
`, cli.CommandHelpTemplate),
			},
		},
	}

	var err error
	// NOTE: os.Exit is called at the end of main to set exit code, make sure
	// there are no other deffered functions after that
	defer func() {
		stop()
		if err != nil {
			// It may happen that log is either not set yet (argument parsing) or already closed,
			// report errors to stderr directly
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {

	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	fname := cmd.Args().Get(0)

	var (
		err   error
		data  []byte
		state string
	)

	out := os.Stdout
	if len(fname) > 0 {
		out, err = os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer out.Close()

	}

	if cmd.Bool("default") {
		state = "default"
		data, err = config.Prepare()
	} else {
		state = "actual"
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	if len(fname) == 0 {
		fname = "STDOUT"
	}
	env.Log.Info("Outputing configuration", zap.String("state", state), zap.String("file", fname))

	_, err = out.Write(data)
	if err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
