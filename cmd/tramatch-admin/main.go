package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/tramatch/tramatch-web/config"
	"github.com/tramatch/tramatch-web/internal/bootstrap"
	"github.com/tramatch/tramatch-web/internal/domain/nav"
	"github.com/tramatch/tramatch-web/internal/http/views"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
	Out    io.Writer
}

// serviceName tags log records. CLI logs go to stderr so command output
// on stdout stays pipeable.
const serviceName = "tramatch-admin"

const (
	defaultMigrationTimeout = 5 * time.Minute
	defaultCommandTimeout   = 30 * time.Second
)

func main() {
	logger := bootstrap.ConfigureLogger(os.Stderr, serviceName, config.LoggingConfig{Level: "info", Format: "text"})

	if len(os.Args) < 2 {
		if err := printUsage(os.Stdout); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(os.Stdout); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}
	logger = bootstrap.ConfigureLogger(os.Stderr, serviceName, cfg.Observability.Logging)

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Config: cfg,
		Out:    os.Stdout,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"migrate": {
			name:        "migrate",
			description: "Run database migrations",
			run:         runMigrations,
		},
		"routes": {
			name:        "routes",
			description: "Print the page route table and check its ordering",
			run:         runRoutes,
		},
		"preload": {
			name:        "preload",
			description: "Parse every page template and print the preload report",
			run:         runPreload,
		},
		"approve-user": {
			name:        "approve-user",
			description: "Approve (or with --revoke, unapprove) a company account",
			run:         runApproveUser,
		},
		"set-role": {
			name:        "set-role",
			description: "Change the role of an account to user or admin",
			run:         runSetRole,
		},
		"create-admin": {
			name:        "create-admin",
			description: "Create an approved administrator account",
			run:         runCreateAdmin,
		},
	}
}

func printUsage(w io.Writer) error {
	if err := writef(w, "Usage: tramatch-admin <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(w, "Available commands:\n"); err != nil {
		return err
	}
	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := writef(w, "  %-16s %s\n", name, cmds[name].description); err != nil {
			return err
		}
	}
	return nil
}

type migrateOptions struct {
	Timeout time.Duration
}

func runMigrations(cmdCtx *commandContext, args []string) error {
	opts, err := parseMigrateFlags(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	db, err := bootstrap.ConnectDB(ctx, bootstrap.DatabaseConfig{
		DBConfig: cmdCtx.Config.Postgres,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("db close failed", "error", closeErr)
		}
	}()

	cmdCtx.Logger.Info("running database migrations")

	if migrateErr := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); migrateErr != nil {
		return fmt.Errorf("run migrations: %w", migrateErr)
	}

	cmdCtx.Logger.Info("migrations completed successfully")
	return nil
}

func parseMigrateFlags(args []string) (migrateOptions, error) {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := migrateOptions{}
	fs.DurationVar(
		&opts.Timeout,
		"timeout",
		defaultMigrationTimeout,
		"Maximum duration to wait for migrations to complete",
	)

	if err := fs.Parse(args); err != nil {
		return migrateOptions{}, err
	}

	if opts.Timeout <= 0 {
		return migrateOptions{}, errors.New("--timeout must be greater than zero")
	}

	return opts, nil
}

// runRoutes prints the table in match order. A table that fails validation
// is still printed so the offending entries can be located.
func runRoutes(cmdCtx *commandContext, _ []string) error {
	routes := nav.AppRoutes()
	if err := printRoutes(cmdCtx.Out, routes); err != nil {
		return err
	}
	if _, err := nav.NewTable(routes...); err != nil {
		return fmt.Errorf("route table invalid: %w", err)
	}
	return writef(cmdCtx.Out, "%d routes, table valid\n", len(routes))
}

func printRoutes(w io.Writer, routes []nav.Route) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := writeln(tw, "#\tPATTERN\tGUARD\tCHROME\tTARGET"); err != nil {
		return fmt.Errorf("write routes header: %w", err)
	}
	for i, r := range routes {
		target := r.View
		if r.IsRedirect() {
			target = "301 -> " + r.RedirectTo
		}
		chrome := nav.ChromeFor(r.Pattern.String(), r.Guard != nav.GuardNone)
		if err := writef(tw, "%d\t%s\t%s\t%s\t%s\n", i, r.Pattern, r.Guard, chrome, target); err != nil {
			return fmt.Errorf("write route: %w", err)
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush routes table: %w", err)
	}
	return nil
}

type preloadOptions struct {
	Concurrency int
}

// runPreload parses every view from the embedded templates, or from disk
// with DEV=true, and fails when any view does not load.
func runPreload(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("preload", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	opts := preloadOptions{}
	fs.IntVar(&opts.Concurrency, "concurrency", cmdCtx.Config.Views.PreloadConcurrency, "Parallel view loads")
	if err := fs.Parse(args); err != nil {
		return err
	}

	table, err := nav.NewAppTable()
	if err != nil {
		return fmt.Errorf("route table: %w", err)
	}
	registry, err := bootstrap.BuildViewRegistry(&cmdCtx.Config, table, nil, cmdCtx.Logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, defaultCommandTimeout)
	defer cancel()
	rep := views.NewPreloader(views.PreloaderOptions{
		Registry:    registry,
		Concurrency: opts.Concurrency,
		Logger:      cmdCtx.Logger,
	}).Run(ctx)

	if err := printPreloadReport(cmdCtx.Out, rep); err != nil {
		return err
	}
	if failed := rep.Failed(); len(failed) > 0 {
		return fmt.Errorf("%d of %d views failed to load", len(failed), len(rep.Results))
	}
	return nil
}

func printPreloadReport(w io.Writer, rep views.PreloadReport) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := writeln(tw, "VIEW\tRESULT\tDURATION"); err != nil {
		return fmt.Errorf("write preload header: %w", err)
	}
	for _, res := range rep.Results {
		result := "ok"
		if res.Err != nil {
			result = "FAILED: " + res.Err.Error()
		}
		if err := writef(tw, "%s\t%s\t%s\n", res.View, result, res.Duration.Round(time.Microsecond)); err != nil {
			return fmt.Errorf("write preload row: %w", err)
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush preload table: %w", err)
	}
	return writef(w, "%d views, %d failed, %s\n",
		len(rep.Results), len(rep.Failed()), rep.Elapsed.Round(time.Millisecond))
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	_, err := fmt.Fprintln(w, args...)
	return err
}
