package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	v1 "github.com/infracollect/pizzacheck/apis/v1"
	"github.com/infracollect/pizzacheck/internal/runner"
	"github.com/urfave/cli/v3"
)

func jobArgs() []cli.Argument {
	return []cli.Argument{
		&cli.StringArg{
			Name:      "job",
			UsageText: "The job file, or - to read it from stdin",
		},
	}
}

func allowedEnvFlag() cli.Flag {
	return &cli.StringSliceFlag{
		Name:  "allowed-env",
		Usage: "Environment variables allowed in job configuration (can be repeated)",
	}
}

// readJobFile returns the job file contents and the absolute path it was read
// from. "-" reads stdin.
func readJobFile(ctx context.Context, name string) ([]byte, string, error) {
	if name == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, "", err
		}
		return data, "stdin", nil
	}

	path, err := filepath.Abs(name)
	if err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	return data, path, nil
}

// loadJob reads, validates and expands the job named by the job argument.
func loadJob(ctx context.Context, command *cli.Command) (v1.CheckJob, error) {
	jobFilename := command.StringArg("job")
	if jobFilename == "" {
		return v1.CheckJob{}, fmt.Errorf("no job file provided")
	}

	jobFile, _, err := readJobFile(ctx, jobFilename)
	if err != nil {
		return v1.CheckJob{}, fmt.Errorf("failed to read job file '%s': %w", jobFilename, err)
	}

	job, err := runner.ParseCheckJob(jobFile)
	if err != nil {
		return v1.CheckJob{}, formatValidationError(err)
	}

	variables, err := runner.BuildVariables(job, command.StringSlice("allowed-env"))
	if err != nil {
		return v1.CheckJob{}, fmt.Errorf("failed to build variables: %w", err)
	}

	if err := runner.ExpandJob(&job, variables); err != nil {
		return v1.CheckJob{}, fmt.Errorf("failed to expand templates: %w", err)
	}

	if err := runner.ValidateCheckJob(job); err != nil {
		return v1.CheckJob{}, formatValidationError(err)
	}

	return job, nil
}
