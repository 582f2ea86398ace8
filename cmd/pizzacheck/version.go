package main

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/infracollect/pizzacheck/internal/checker"
	"github.com/urfave/cli/v3"
)

// Build information populated at init() from debug.ReadBuildInfo().
var (
	Version   = "unknown"
	GoVersion = "unknown"
	Commit    = "unknown"
	BuildTime = "unknown"
	Modified  bool
)

func init() {
	parseBuildInfo()
}

func parseBuildInfo() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	Version = info.Main.Version
	GoVersion = info.GoVersion

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			Commit = setting.Value
		case "vcs.time":
			BuildTime = setting.Value
		case "vcs.modified":
			Modified = setting.Value == "true"
		}
	}
}

// userAgent is sent on every request; it falls back to the checker default
// when the binary carries no module version.
func userAgent() string {
	if Version == "unknown" || Version == "" || Version == "(devel)" {
		return checker.DefaultUserAgent
	}
	return "pizzacheck/" + Version
}

var versionCommand = &cli.Command{
	Name:  "version",
	Usage: "Print version information",
	Action: func(ctx context.Context, command *cli.Command) error {
		w := command.Root().Writer
		fmt.Fprintf(w, "version: %s\n", Version)
		fmt.Fprintf(w, "go: %s\n", GoVersion)
		if Commit != "unknown" {
			if Modified {
				fmt.Fprintf(w, "commit: %s (dirty)\n", Commit)
			} else {
				fmt.Fprintf(w, "commit: %s\n", Commit)
			}
		}
		if BuildTime != "unknown" {
			fmt.Fprintf(w, "built: %s\n", BuildTime)
		}
		return nil
	},
}
