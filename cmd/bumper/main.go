package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mxcd/bumper/internal/actions"
	"github.com/mxcd/bumper/internal/util"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

var version = "development"

func main() {

	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{},
		Usage:   "print only the version",
	}

	cmd := &cli.Command{
		Name:    "bumper",
		Version: version,
		Usage:   "Dependency bump automation for git repositories",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "debug output",
				Sources: cli.EnvVars("BUMPER_VERBOSE"),
			},
			&cli.BoolFlag{
				Name:    "very-verbose",
				Aliases: []string{"vv"},
				Usage:   "trace output",
				Sources: cli.EnvVars("BUMPER_VERY_VERBOSE"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			return initCli(ctx, cmd)
		},
		Commands: []*cli.Command{
			{
				Name:  "validate",
				Usage: "Validate configuration",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:  "output",
						Usage: "Output format: table, json, yaml",
						Value: "table",
					},
				},
				Action: validateCommand,
			},
			{
				Name:  "check",
				Usage: "Check pinned versions against the latest available tags",
				Flags: []cli.Flag{
					configFlag(),
					repoFlag(),
					&cli.StringFlag{
						Name:  "output",
						Usage: "Output format: table, json, yaml",
						Value: "table",
					},
					limitFlag(),
					onlyFlag(),
				},
				Action: checkCommand,
			},
			{
				Name:  "bump",
				Usage: "Apply pending updates and create or refresh pull requests",
				Flags: []cli.Flag{
					configFlag(),
					repoFlag(),
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Show the plan without modifying anything",
					},
					limitFlag(),
					onlyFlag(),
				},
				Action: bumpCommand,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("command terminated with error")
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   ".bumperconfig.yml",
		Sources: cli.EnvVars("BUMPER_CONFIG"),
	}
}

func repoFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "repo",
		Usage:   "Path to the repository the targets live in",
		Value:   ".",
		Sources: cli.EnvVars("BUMPER_REPO"),
	}
}

func limitFlag() cli.Flag {
	return &cli.IntFlag{
		Name:  "limit",
		Usage: "Maximum number of tags to fetch per dependency",
		Value: 0,
	}
}

func onlyFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "only",
		Usage: "Only consider specific update types: major, minor, patch, all",
		Value: "all",
	}
}

func initCli(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	godotenv.Load()
	util.SetCliLoggerDefaults()
	util.SetCliLogLevel(cmd)
	log.Trace().Msg("Trace logging enabled")
	log.Debug().Msg("Debug logging enabled")
	log.Info().Msg("Info logging enabled")

	return ctx, nil
}

func validateCommand(ctx context.Context, cmd *cli.Command) error {
	err := actions.Validate(&actions.ValidateOptions{
		ConfigPath:   cmd.String("config"),
		OutputFormat: cmd.String("output"),
	})
	if err != nil {
		return cli.Exit(fmt.Sprintf("Validation failed: %v", err), 3)
	}
	return nil
}

func checkCommand(ctx context.Context, cmd *cli.Command) error {
	result, err := actions.Check(&actions.CheckOptions{
		ConfigPath:   cmd.String("config"),
		RepoPath:     cmd.String("repo"),
		OutputFormat: cmd.String("output"),
		Limit:        int(cmd.Int("limit")),
		Only:         cmd.String("only"),
	})
	if err != nil {
		return cli.Exit(fmt.Sprintf("Check failed: %v", err), 1)
	}

	// Exit with code 1 if there are pending updates (for CI gating)
	if result.HasUpdates {
		return cli.Exit("", 1)
	}
	return nil
}

func bumpCommand(ctx context.Context, cmd *cli.Command) error {
	err := actions.Bump(&actions.BumpOptions{
		ConfigPath: cmd.String("config"),
		RepoPath:   cmd.String("repo"),
		DryRun:     cmd.Bool("dry-run"),
		Limit:      int(cmd.Int("limit")),
		Only:       cmd.String("only"),
	})
	if err != nil {
		return cli.Exit(fmt.Sprintf("Bump failed: %v", err), 1)
	}
	return nil
}
