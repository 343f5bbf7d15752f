package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/hmcts/et-case-transfer/cmd/app/commands"
	"github.com/hmcts/et-case-transfer/internal/app"
	"github.com/hmcts/et-case-transfer/internal/config"
	transferUsecase "github.com/hmcts/et-case-transfer/internal/transfer/usecase"
)

func transferFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "office",
			Aliases:  []string{"o"},
			Required: true,
			Usage:    "Target managing office",
		},
		&cli.StringFlag{
			Name:    "reason",
			Aliases: []string{"r"},
			Usage:   "Reason for the transfer",
		},
		&cli.StringFlag{
			Name:  "position-type",
			Usage: "Case position recorded on transferred cases",
		},
		&cli.StringFlag{
			Name:    "credential",
			Sources: cli.EnvVars("CASE_TRANSFER_CREDENTIAL"),
			Usage:   "Operator credential passed to the case store",
		},
		formatFlag(),
	}
}

func getTransferCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "transfer-case",
			Usage: "Transfer a case and every case linked to it",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:     "case",
					Aliases:  []string{"c"},
					Required: true,
					Usage:    "Case reference (e.g., 6000001/2026)",
				},
			}, transferFlags()...),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				useCase, err := container.TransferUseCase()
				if err != nil {
					return err
				}

				return commands.RunTransferCase(
					ctx,
					useCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("credential"),
					transferUsecase.TransferCaseInput{
						CaseReference: cmd.String("case"),
						TargetOffice:  cmd.String("office"),
						Reason:        cmd.String("reason"),
						PositionType:  cmd.String("position-type"),
					},
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "transfer-bulk",
			Usage: "Transfer the cases of a bulk container",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:     "bulk",
					Aliases:  []string{"b"},
					Required: true,
					Usage:    "Bulk container reference",
				},
				&cli.StringSliceFlag{
					Name:  "cases",
					Usage: "Case references to transfer (defaults to the container's list)",
				},
			}, transferFlags()...),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				useCase, err := container.TransferUseCase()
				if err != nil {
					return err
				}

				var references []string
				if cmd.IsSet("cases") {
					references = cmd.StringSlice("cases")
				}

				return commands.RunTransferBulk(
					ctx,
					useCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("credential"),
					transferUsecase.BulkTransferInput{
						BulkReference:  cmd.String("bulk"),
						CaseReferences: references,
						TargetOffice:   cmd.String("office"),
						Reason:         cmd.String("reason"),
						PositionType:   cmd.String("position-type"),
					},
					cmd.String("format"),
				)
			},
		},
	}
}
