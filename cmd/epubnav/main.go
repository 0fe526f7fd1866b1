package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"epubnav/config"
	"epubnav/misc"
	"epubnav/reading"
	"epubnav/state"
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
		if len(configFile) > 0 {
			if data, err := config.Dump(env.Cfg); err == nil {
				env.Rpt.StoreData(fmt.Sprintf("config/%s", filepath.Base(configFile)), data)
			}
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
	if len(configFile) == 0 {
		env.Log.Info("Using defaults (no configuration file)")
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	// reading state database goes to report, so it has to be closed first
	if er := env.CloseStore(); er != nil {
		err = multierr.Append(err, fmt.Errorf("unable to close reading state: %w", er))
	}

	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	}

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

// Errors from subcommands are regular errors, they are logged here and
// reported to stderr only when log is not available.
var errWasHandled bool

func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return err
}

func subcommandNotFoundHandler(ctx context.Context, _ *cli.Command, name string) {
	if log := state.EnvFromContext(ctx).Log; log != nil {
		log.Warn("Unknown command, nothing to do", zap.String("command", name))
	}
}

const bookHelp = `
BOOK:
    path to EPUB file, reading state is kept in the database configured under
    storage and is shared by all commands working on the same publication
`

// prefsCommand builds preference editing subcommand.
func prefsCommand(name, usage, args string, action cli.ActionFunc) *cli.Command {
	return &cli.Command{
		Name:               name,
		Usage:              usage,
		OnUsageError:       usageErrorHandler,
		Action:             action,
		ArgsUsage:          args,
		CustomHelpTemplate: cli.CommandHelpTemplate + bookHelp,
	}
}

func main() {

	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "reading session engine for EPUB publications",
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
		},
		Commands: []*cli.Command{
			{
				Name:               "info",
				Usage:              "Outputs publication metadata, reading order and table of contents",
				OnUsageError:       usageErrorHandler,
				Action:             reading.Info,
				ArgsUsage:          "BOOK",
				CustomHelpTemplate: cli.CommandHelpTemplate + bookHelp,
			},
			{
				Name:         "settings",
				Usage:        "Lists settings available for publication with resolved values",
				OnUsageError: usageErrorHandler,
				Action:       reading.Settings,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "all", Aliases: []string{"a"}, Usage: "include settings which have no effect with current preferences"},
				},
				ArgsUsage:          "BOOK",
				CustomHelpTemplate: cli.CommandHelpTemplate + bookHelp,
			},
			{
				Name:         "css",
				Usage:        "Outputs custom CSS properties for current preferences",
				OnUsageError: usageErrorHandler,
				Action:       reading.CSS,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "user", Usage: "only properties controlled by reader (--USER__)"},
					&cli.BoolFlag{Name: "rs", Usage: "only reading system properties (--RS__)"},
				},
				ArgsUsage:          "BOOK",
				CustomHelpTemplate: cli.CommandHelpTemplate + bookHelp,
			},
			{
				Name:         "positions",
				Usage:        "Computes publication positions (JSON)",
				OnUsageError: usageErrorHandler,
				Action:       reading.Positions,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "overwrite destination if it exists"},
				},
				ArgsUsage: "BOOK [DESTINATION]",
				CustomHelpTemplate: fmt.Sprintf(`%s%s
DESTINATION:
    file name to write positions to, if directory - file name is derived from publication title
    if absent - STDOUT
`, cli.CommandHelpTemplate, bookHelp),
			},
			{
				Name:         "cover",
				Usage:        "Writes thumbnail of publication cover image",
				OnUsageError: usageErrorHandler,
				Action:       reading.Cover,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "overwrite destination if it exists"},
				},
				ArgsUsage: "BOOK [DESTINATION]",
				CustomHelpTemplate: fmt.Sprintf(`%s%s
DESTINATION:
    file name to write thumbnail to, if directory or absent - file name is derived from BOOK
    size and format are configured under output.cover
`, cli.CommandHelpTemplate, bookHelp),
			},
			{
				Name:         "locate",
				Usage:        "Computes locator for position in reading order",
				OnUsageError: usageErrorHandler,
				Action:       reading.Locate,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "resource", Aliases: []string{"r"}, Usage: "reading order `INDEX` of the resource"},
					&cli.StringFlag{Name: "href", Usage: "reading order resource `HREF`, takes precedence over index"},
					&cli.FloatFlag{Name: "progression", Aliases: []string{"p"}, Usage: "`PROGRESSION` within resource, clamped to [0, 1]"},
				},
				ArgsUsage:          "BOOK",
				CustomHelpTemplate: cli.CommandHelpTemplate + bookHelp,
			},
			{
				Name:         "track",
				Usage:        "Runs reading session driven by renderer signals",
				OnUsageError: usageErrorHandler,
				Action:       reading.Track,
				ArgsUsage:    "BOOK [SCRIPT]",
				CustomHelpTemplate: fmt.Sprintf(`%s%s
SCRIPT:
    file with renderer signals, one per line, if absent - STDIN
        scroll PROGRESSION
        page INDEX TOTAL
        resource INDEX|HREF
        loaded
        go HREF
        wait

Published locators are printed as JSON lines, locators published faster than
they are printed are coalesced and only the latest one is shown. Reading
position is saved when session ends.
`, cli.CommandHelpTemplate, bookHelp),
			},
			{
				Name:         "prefs",
				Usage:        "Shows and edits reader's preferences of publication",
				OnUsageError: usageErrorHandler,
				Commands: []*cli.Command{
					prefsCommand("show", "Outputs stored preferences (JSON)", "BOOK", reading.ShowPreferences),
					prefsCommand("set", "Sets raw preference value, JSON values are decoded", "BOOK NAME VALUE", reading.SetPreference),
					prefsCommand("remove", "Removes preference", "BOOK NAME", reading.RemovePreference),
					prefsCommand("toggle", "Toggles setting, enumerations need value to toggle", "BOOK NAME [VALUE]", reading.TogglePreference),
					prefsCommand("increment", "Steps range setting up", "BOOK NAME", reading.IncrementPreference),
					prefsCommand("decrement", "Steps range setting down", "BOOK NAME", reading.DecrementPreference),
					prefsCommand("activate", "Changes preferences so setting takes effect", "BOOK NAME", reading.ActivatePreference),
					prefsCommand("preset", "Applies named preset", "BOOK PRESET", reading.ApplyPreset),
					prefsCommand("reset", "Removes all preferences", "BOOK", reading.ResetPreferences),
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

Produces file with actual "active" configuration values wich is composition of
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

	if _, err = out.Write(data); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
