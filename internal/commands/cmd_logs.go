package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/vaultflow/internal/vaultflow"
	"github.com/colonyops/vaultflow/pkg/iojson"
)

type LogsCmd struct {
	flags *Flags
	app   *vaultflow.App

	// flags
	limit      int
	jsonOutput bool
}

// NewLogsCmd creates a new logs command.
func NewLogsCmd(flags *Flags, app *vaultflow.App) *LogsCmd {
	return &LogsCmd{flags: flags, app: app}
}

// Register adds the logs command to the application.
func (cmd *LogsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "logs",
		Usage:     "Show recent transition records",
		UsageText: "vaultflow logs [--limit N] [--json]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "limit",
				Usage:       "maximum number of records to show",
				Value:       50,
				Destination: &cmd.limit,
			},
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

func (cmd *LogsCmd) run(ctx context.Context, c *cli.Command) error {
	records, err := cmd.app.Vault.RecentLogs(ctx, cmd.limit)
	if err != nil {
		return fmt.Errorf("read logs: %w", err)
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, rec := range records {
			if err := iojson.WriteLine(out, rec); err != nil {
				return fmt.Errorf("encode record: %w", err)
			}
		}
		return nil
	}

	if len(records) == 0 {
		fmt.Fprintln(os.Stderr, "No log entries")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TIMESTAMP\tACTION\tFILE\tTO\tUSER")
	for _, rec := range records {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			rec.Timestamp, rec.Action, rec.Filename, rec.DestinationDirectory, rec.User)
	}
	_ = w.Flush()

	return nil
}
