package main

import (
	"fmt"
	"strconv"

	"github.com/infracollect/pizzacheck/internal/checker"
	"github.com/urfave/cli/v3"
)

func targetArgs() []cli.Argument {
	return []cli.Argument{
		&cli.StringArg{
			Name:      "host",
			UsageText: "Hostname or IP address of the pizza service",
		},
		&cli.StringArg{
			Name:      "port",
			UsageText: "TCP port of the pizza service",
		},
	}
}

func headerFlag() cli.Flag {
	return &cli.StringMapFlag{
		Name:  "header",
		Usage: "Extra request header as Name=value (can be repeated)",
	}
}

func targetFromArgs(command *cli.Command) (checker.Target, error) {
	host := command.StringArg("host")
	if host == "" {
		return checker.Target{}, fmt.Errorf("no host provided")
	}

	rawPort := command.StringArg("port")
	if rawPort == "" {
		return checker.Target{}, fmt.Errorf("no port provided")
	}
	port, err := strconv.Atoi(rawPort)
	if err != nil {
		return checker.Target{}, fmt.Errorf("invalid port '%s': %w", rawPort, err)
	}

	target := checker.Target{Host: host, Port: port}
	if err := target.Validate(); err != nil {
		return checker.Target{}, err
	}
	return target, nil
}
