package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/vaultflow/internal/vaultflow"
)

const fallbackWrapWidth = 80

type ViewCmd struct {
	flags *Flags
	app   *vaultflow.App

	// flags
	raw bool
}

// NewViewCmd creates a new view command.
func NewViewCmd(flags *Flags, app *vaultflow.App) *ViewCmd {
	return &ViewCmd{flags: flags, app: app}
}

// Register adds the view command to the application.
func (cmd *ViewCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "view",
		Usage:     "Render an item's markdown in the terminal",
		UsageText: "vaultflow view <file> [--raw]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "raw",
				Usage:       "print raw content without rendering",
				Destination: &cmd.raw,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *ViewCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one file argument")
	}

	content, err := cmd.app.Vault.ReadItem(ctx, c.Args().First())
	if err != nil {
		return fmt.Errorf("read item: %w", err)
	}

	if cmd.raw {
		fmt.Fprint(c.Root().Writer, string(content))
		return nil
	}

	wrapWidth := fallbackWrapWidth
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		wrapWidth = w
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrapWidth),
	)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}

	rendered, err := r.Render(string(content))
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}

	fmt.Fprint(c.Root().Writer, rendered)
	return nil
}
