package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func newValidateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Validate a job file",
		Flags:     []cli.Flag{allowedEnvFlag()},
		Arguments: jobArgs(),
		Action: func(ctx context.Context, command *cli.Command) error {
			logger := getLogger(ctx).With(zap.String("job_filename", command.StringArg("job")))
			logger.Debug("validating job file")

			job, err := loadJob(ctx, command)
			if err != nil {
				fmt.Fprintln(command.Root().Writer, err)
				return fmt.Errorf("job file '%s' is invalid", command.StringArg("job"))
			}

			fmt.Fprintf(command.Root().Writer, "✓ Job file '%s' is valid (%d targets)\n", command.StringArg("job"), len(job.Spec.Targets))
			return nil
		},
	}
}

func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("job file has %d validation error(s):", len(validationErrs)))
		for _, fe := range validationErrs {
			sb.WriteString(fmt.Sprintf("\n  • %s: failed '%s' validation", fe.Namespace(), fe.Tag()))
			if fe.Param() != "" {
				sb.WriteString(fmt.Sprintf(" (param: %s)", fe.Param()))
			}
		}
		return errors.New(sb.String())
	}
	return err
}
