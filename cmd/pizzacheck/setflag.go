package main

import (
	"context"
	"fmt"

	"github.com/infracollect/pizzacheck/internal/checker"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func newSetFlagCommand() *cli.Command {
	return &cli.Command{
		Name:  "setflag",
		Usage: "Place an order carrying a flag and print the order token",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "flag",
				Usage: "Flag to store (default: a random FLAG_ value)",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: checker.DefaultSetFlagTimeout,
				Usage: "Timeout of the order request",
			},
			headerFlag(),
		},
		Arguments: targetArgs(),
		Action: func(ctx context.Context, command *cli.Command) error {
			logger := getLogger(ctx)

			target, err := targetFromArgs(command)
			if err != nil {
				return err
			}

			c, err := checker.NewChecker(checker.Config{
				Target:         target,
				Headers:        command.StringMap("header"),
				SetFlagTimeout: command.Duration("timeout"),
			}, checker.WithLogger(logger.Named("checker")), checker.WithUserAgent(userAgent()))
			if err != nil {
				return fmt.Errorf("failed to create checker: %w", err)
			}

			flag := command.String("flag")
			if flag == "" {
				flag = checker.NewFlag()
				logger.Debug("generated flag", zap.String("flag", flag))
			}

			result := c.SetFlag(ctx, flag)
			logger.Info("setflag finished",
				zap.Stringer("status", result.Status),
				zap.String("flag_id", result.FlagID),
			)

			return printRecord(ctx, command.Root().Writer, result.Record())
		},
	}
}
