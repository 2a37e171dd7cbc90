package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/vaultflow/internal/vaultflow"
)

type InitCmd struct {
	flags *Flags
	app   *vaultflow.App
}

// NewInitCmd creates a new init command.
func NewInitCmd(flags *Flags, app *vaultflow.App) *InitCmd {
	return &InitCmd{flags: flags, app: app}
}

// Register adds the init command to the application.
func (cmd *InitCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "init",
		Usage:     "Create the vault directory structure",
		UsageText: "vaultflow init",
		Description: `Creates every category directory and the Logs directory under the vault
root. Existing directories are left untouched, so init is safe to re-run.`,
		Action: cmd.run,
	})
	return app
}

func (cmd *InitCmd) run(ctx context.Context, c *cli.Command) error {
	if err := cmd.app.Vault.InitVault(ctx); err != nil {
		return fmt.Errorf("init vault: %w", err)
	}
	fmt.Fprintf(c.Root().Writer, "Vault initialized at %s\n", cmd.app.Config.VaultPath)
	return nil
}
