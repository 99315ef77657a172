// Package main provides CLI flag definitions for lazycommit.
package main

import (
	urfavecli "github.com/urfave/cli/v2"
)

// globalFlags returns all global flags for the application.
// Note: --version is provided automatically by urfave/cli via App.Version
func globalFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.StringFlag{
			Name:    "repo-path",
			Aliases: []string{"r"},
			Value:   ".",
			Usage:   "Path to the git repository",
		},
		&urfavecli.BoolFlag{
			Name:    "push",
			Aliases: []string{"p"},
			Usage:   "Push changes to remote after committing",
		},
		&urfavecli.BoolFlag{
			Name:    "dry-run",
			Aliases: []string{"n"},
			Usage:   "Show what would be committed without committing",
		},
		&urfavecli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Verbose output",
		},
		&urfavecli.BoolFlag{
			Name:    "watch",
			Aliases: []string{"w"},
			Usage:   "Run continuously until interrupted",
		},
		&urfavecli.IntFlag{
			Name:  "interval",
			Usage: "Seconds between passes in watch mode",
		},
		&urfavecli.BoolFlag{
			Name:    "review",
			Aliases: []string{"i"},
			Usage:   "Review the planned commits interactively before running",
		},
		&urfavecli.StringFlag{
			Name:  "debug-log",
			Usage: "Path to debug log file",
		},
		&urfavecli.StringFlag{
			Name:  "config-file",
			Usage: "Path to configuration file",
		},
		&urfavecli.StringSliceFlag{
			Name:    "config",
			Aliases: []string{"C"},
			Usage:   "Override config values (repeatable): --config=lc.key=value",
		},
	}
}
