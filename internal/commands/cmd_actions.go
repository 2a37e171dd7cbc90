package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/vaultflow/internal/core/transition"
	"github.com/colonyops/vaultflow/internal/vaultflow"
)

// ActionsCmd registers the four transition commands. They share one runner;
// only the action kind differs.
type ActionsCmd struct {
	flags *Flags
	app   *vaultflow.App
}

// NewActionsCmd creates the transition commands.
func NewActionsCmd(flags *Flags, app *vaultflow.App) *ActionsCmd {
	return &ActionsCmd{flags: flags, app: app}
}

// Register adds approve, reject, send, and done to the application.
func (cmd *ActionsCmd) Register(app *cli.Command) *cli.Command {
	specs := []struct {
		name   string
		usage  string
		action transition.Action
	}{
		{"approve", "Approve an item and move it to Approved", transition.ActionApprove},
		{"reject", "Reject an item and move it to Rejected", transition.ActionReject},
		{"send", "Send a social draft for approval", transition.ActionSendForApproval},
		{"done", "Mark an approved item as done", transition.ActionMarkDone},
	}

	for _, spec := range specs {
		action := spec.action
		app.Commands = append(app.Commands, &cli.Command{
			Name:      spec.name,
			Usage:     spec.usage,
			UsageText: fmt.Sprintf("vaultflow %s <file>", spec.name),
			Action: func(ctx context.Context, c *cli.Command) error {
				return cmd.run(ctx, c, action)
			},
		})
	}
	return app
}

func (cmd *ActionsCmd) run(ctx context.Context, c *cli.Command, action transition.Action) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one file argument")
	}

	result, err := cmd.app.Vault.Apply(ctx, action, c.Args().First())
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}

	fmt.Fprintf(c.Root().Writer, "%s -> %s\n", result.Item.Filename, result.Item.Category.Label())
	if !result.Logged {
		fmt.Fprintln(c.Root().ErrWriter, "warning: move completed but the audit log entry could not be written")
	}
	return nil
}
