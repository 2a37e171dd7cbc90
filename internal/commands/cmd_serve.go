package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/vaultflow/internal/core/eventbus"
	"github.com/colonyops/vaultflow/internal/vaultflow"
	"github.com/colonyops/vaultflow/internal/web"
)

const shutdownGrace = 10 * time.Second

type ServeCmd struct {
	flags *Flags
	app   *vaultflow.App

	// flags
	host string
	port int
}

// NewServeCmd creates a new serve command.
func NewServeCmd(flags *Flags, app *vaultflow.App) *ServeCmd {
	return &ServeCmd{flags: flags, app: app}
}

// Register adds the serve command to the application.
func (cmd *ServeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "serve",
		Usage:     "Run the approval dashboard",
		UsageText: "vaultflow serve [--host HOST] [--port PORT]",
		Description: `Starts the web dashboard and, unless disabled in the config, the inbox
watcher. Runs until interrupted.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "host",
				Usage:       "address to bind",
				Sources:     cli.EnvVars("VAULTFLOW_HOST"),
				Destination: &cmd.host,
			},
			&cli.IntFlag{
				Name:        "port",
				Usage:       "port to bind",
				Sources:     cli.EnvVars("VAULTFLOW_PORT"),
				Destination: &cmd.port,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *ServeCmd) run(ctx context.Context, c *cli.Command) error {
	if cmd.host != "" {
		cmd.app.Config.Web.Host = cmd.host
	}
	if cmd.port != 0 {
		cmd.app.Config.Web.Port = cmd.port
	}

	// The watcher needs the inbox directories in place; creating them up
	// front also gives a fresh vault its structure on first serve.
	if err := cmd.app.Vault.InitVault(ctx); err != nil {
		return fmt.Errorf("prepare vault: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.app.Bus.Subscribe(eventbus.EventItemDetected, func(payload any) {
		if p, ok := payload.(eventbus.ItemDetectedPayload); ok {
			log.Info().Str("category", string(p.Category)).Str("path", p.Path).Msg("item arrived")
		}
	})

	if cmd.app.Config.Watcher.IsEnabled() {
		watcher, err := vaultflow.NewWatcher(cmd.app.Config, cmd.app.Bus, log.Logger)
		if err != nil {
			return fmt.Errorf("start watcher: %w", err)
		}
		watcher.Start(ctx)
		defer func() { _ = watcher.Close() }()
	}

	server := web.NewServer(cmd.app, log.Logger)
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("start dashboard: %w", err)
	}

	fmt.Fprintf(c.Root().Writer, "Dashboard running at http://%s\n", server.Addr())

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
