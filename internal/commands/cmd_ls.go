package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/vaultflow/internal/core/vault"
	"github.com/colonyops/vaultflow/internal/vaultflow"
	"github.com/colonyops/vaultflow/pkg/iojson"
)

type LsCmd struct {
	flags *Flags
	app   *vaultflow.App

	// flags
	jsonOutput bool
}

// NewLsCmd creates a new ls command.
func NewLsCmd(flags *Flags, app *vaultflow.App) *LsCmd {
	return &LsCmd{flags: flags, app: app}
}

// Register adds the ls command to the application.
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List items in a category",
		UsageText: "vaultflow ls [category] [--json]",
		Description: `Displays the items of one category with their sniffed type, modification
time, and size. Categories: needs_action, pending_approval, approved, done,
rejected, social_draft, pending_social. Defaults to needs_action.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	category := vault.CategoryNeedsAction
	if arg := c.Args().First(); arg != "" {
		var ok bool
		if category, ok = vault.Parse(arg); !ok {
			return fmt.Errorf("unknown category %q", arg)
		}
	}

	items, err := cmd.app.Activity.Listing(ctx, category)
	if err != nil {
		return fmt.Errorf("list %s: %w", category, err)
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, item := range items {
			if err := iojson.WriteLine(out, item); err != nil {
				return fmt.Errorf("encode item: %w", err)
			}
		}
		return nil
	}

	if len(items) == 0 {
		fmt.Fprintf(os.Stderr, "No items in %s\n", category.Label())
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "FILE\tTYPE\tMODIFIED\tSIZE")
	for _, item := range items {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\n",
			item.Filename, item.Type, item.Modified.Format("2006-01-02 15:04:05"), item.Size)
	}
	_ = w.Flush()

	return nil
}
