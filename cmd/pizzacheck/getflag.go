package main

import (
	"context"
	"fmt"

	"github.com/infracollect/pizzacheck/internal/checker"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func newGetFlagCommand() *cli.Command {
	return &cli.Command{
		Name:  "getflag",
		Usage: "Fetch the receipt for an order token and print the stored flag",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "timeout",
				Value: checker.DefaultGetFlagTimeout,
				Usage: "Timeout of the receipt request",
			},
			headerFlag(),
		},
		Arguments: append(targetArgs(),
			&cli.StringArg{
				Name:      "flag_id",
				UsageText: "Flag ID returned by setflag",
			},
			&cli.StringArg{
				Name:      "token",
				UsageText: "Order token returned by setflag",
			},
		),
		Action: func(ctx context.Context, command *cli.Command) error {
			logger := getLogger(ctx)

			target, err := targetFromArgs(command)
			if err != nil {
				return err
			}

			c, err := checker.NewChecker(checker.Config{
				Target:         target,
				Headers:        command.StringMap("header"),
				GetFlagTimeout: command.Duration("timeout"),
			}, checker.WithLogger(logger.Named("checker")), checker.WithUserAgent(userAgent()))
			if err != nil {
				return fmt.Errorf("failed to create checker: %w", err)
			}

			result := c.GetFlag(ctx, command.StringArg("flag_id"), command.StringArg("token"))
			logger.Info("getflag finished", zap.Stringer("status", result.Status))

			return printRecord(ctx, command.Root().Writer, result.Record())
		},
	}
}
