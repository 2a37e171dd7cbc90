package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/vaultflow/internal/commands"
	"github.com/colonyops/vaultflow/internal/core/activity"
	"github.com/colonyops/vaultflow/internal/core/config"
	"github.com/colonyops/vaultflow/internal/core/eventbus"
	"github.com/colonyops/vaultflow/internal/core/transition"
	"github.com/colonyops/vaultflow/internal/core/vault"
	"github.com/colonyops/vaultflow/internal/stores"
	"github.com/colonyops/vaultflow/internal/vaultflow"
	"github.com/colonyops/vaultflow/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
)

func build() string {
	v, c := version, commit

	// When installed via `go install module@version`, ldflags aren't set,
	// so fall back to runtime/debug.BuildInfo.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" {
					c = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}
	return fmt.Sprintf("%s (%s)", v, short)
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		vaultApp  = &vaultflow.App{}
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "vaultflow",
		Usage:     "Human-in-the-loop approval workflow over a filesystem vault",
		UsageText: "vaultflow [global options] command [command options]",
		Description: `Vaultflow manages work items as document files moving through category
directories: Needs Action, Pending Approval, Approved, Done, Rejected.
Every transition is an atomic file move plus an append-only audit record.

Run 'vaultflow serve' to start the web dashboard.
Run 'vaultflow' with no arguments to print the current counts.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("VAULTFLOW_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to stderr)",
				Sources:     cli.EnvVars("VAULTFLOW_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("VAULTFLOW_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "vault",
				Usage:       "path to the vault root",
				Sources:     cli.EnvVars("VAULT_PATH"),
				Destination: &flags.VaultPath,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, closer, err := logutils.New(flags.LogLevel, flags.LogFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.VaultPath)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}

			bus := eventbus.New()
			store := stores.NewFSStore(cfg.VaultPath, cfg.DocumentGlob, logger)
			auditLog := stores.NewAuditLog(cfg.LogsDir(), logger)
			engine := transition.NewEngine(cfg.VaultPath, store, auditLog, bus, cfg.Actor, logger)

			vaultSvc := vaultflow.NewVaultService(store, engine, auditLog, cfg, logger)
			activitySvc := activity.NewService(store, logger)

			// Populate the pre-allocated App struct (commands already
			// hold a pointer to it).
			*vaultApp = *vaultflow.NewApp(vaultSvc, activitySvc, cfg, bus)

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	app = commands.NewInitCmd(flags, vaultApp).Register(app)
	app = commands.NewServeCmd(flags, vaultApp).Register(app)
	app = commands.NewLsCmd(flags, vaultApp).Register(app)
	app = commands.NewActionsCmd(flags, vaultApp).Register(app)
	app = commands.NewLogsCmd(flags, vaultApp).Register(app)
	app = commands.NewViewCmd(flags, vaultApp).Register(app)

	// Print counts when no subcommand is provided.
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'vaultflow --help' for usage", c.Args().First())
		}
		counts, err := vaultApp.Activity.Counts(ctx)
		if err != nil {
			return err
		}
		for _, cat := range vault.Primary() {
			fmt.Fprintf(c.Root().Writer, "%-18s %d\n", cat.Label(), counts[cat])
		}
		return nil
	}

	exitCode := 0
	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Println()
		fmt.Println(err.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
