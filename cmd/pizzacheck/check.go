package main

import (
	"context"
	"fmt"

	"github.com/infracollect/pizzacheck/internal/checker"
	"github.com/infracollect/pizzacheck/internal/runner"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func newCheckCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Run a setflag/getflag round trip against every target of a job file",
		Flags: []cli.Flag{
			allowedEnvFlag(),
			&cli.BoolFlag{
				Name:  "fail-on-error",
				Usage: "Exit with an error when any target is not functional",
			},
		},
		Arguments: jobArgs(),
		Action: func(ctx context.Context, command *cli.Command) error {
			logger := getLogger(ctx)

			job, err := loadJob(ctx, command)
			if err != nil {
				return err
			}

			r, err := runner.New(logger.Named("runner"), job,
				runner.WithCheckerOptions(checker.WithUserAgent(userAgent())),
			)
			if err != nil {
				return fmt.Errorf("failed to create runner: %w", err)
			}

			statuses, err := r.Run(ctx)
			if err != nil {
				return fmt.Errorf("failed to run job: %w", err)
			}

			var functional, broken, down int
			for _, status := range statuses {
				switch status {
				case checker.Functional:
					functional++
				case checker.Broken:
					broken++
				default:
					down++
				}
			}
			logger.Info("job finished",
				zap.String("job_name", job.Metadata.Name),
				zap.Int("functional", functional),
				zap.Int("broken", broken),
				zap.Int("down", down),
			)

			if command.Bool("fail-on-error") && functional != len(statuses) {
				return fmt.Errorf("%d of %d targets are not functional", len(statuses)-functional, len(statuses))
			}

			return nil
		},
	}
}
