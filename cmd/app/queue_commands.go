package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/hmcts/et-case-transfer/cmd/app/commands"
	"github.com/hmcts/et-case-transfer/internal/app"
	"github.com/hmcts/et-case-transfer/internal/config"
)

func getQueueCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "list-work-items",
			Usage: "Show queue depth per status and list work items",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "status",
					Aliases: []string{"s"},
					Usage:   "Only list items with this status (pending, processing, completed, failed)",
				},
				&cli.IntFlag{
					Name:  "offset",
					Value: 0,
					Usage: "Number of items to skip",
				},
				&cli.IntFlag{
					Name:    "limit",
					Aliases: []string{"l"},
					Value:   50,
					Usage:   "Maximum number of items to list",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				useCase, err := container.WorkItemUseCase()
				if err != nil {
					return err
				}

				return commands.RunListWorkItems(
					ctx,
					useCase,
					commands.DefaultIO().Writer,
					cmd.String("status"),
					int(cmd.Int("offset")),
					int(cmd.Int("limit")),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "clean-work-items",
			Usage: "Delete completed and failed work items older than specified days",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:     "days",
					Aliases:  []string{"d"},
					Required: true,
					Usage:    "Delete work items processed more than this many days ago",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				useCase, err := container.WorkItemUseCase()
				if err != nil {
					return err
				}

				return commands.RunCleanWorkItems(
					ctx,
					useCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					int(cmd.Int("days")),
					cmd.String("format"),
				)
			},
		},
	}
}
