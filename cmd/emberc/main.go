package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/emberlang/emberc/internal/config"
	"github.com/emberlang/emberc/internal/version"
)

// loadConfigWithOverrides loads the project configuration and applies any
// CLI flag overrides, mirroring the teacher's override-merge pattern.
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	configPath := c.String("config")
	root := c.String("root")

	if root != "" && configPath == ".ember.kdl" {
		configPath = filepath.Join(root, ".ember.kdl")
	}

	cfg, err := config.LoadWithRoot(configPath, root)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}

	if includeFlags := c.StringSlice("include"); len(includeFlags) > 0 {
		cfg.Include = includeFlags
	}
	if excludeFlags := c.StringSlice("exclude"); len(excludeFlags) > 0 {
		cfg.Exclude = append(cfg.Exclude, excludeFlags...)
	}
	if root != "" {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve root path %q: %w", root, err)
		}
		cfg.Project.Root = absRoot
	}

	if err := cfg.EnrichExclusionsWithGitignore(); err != nil {
		return nil, fmt.Errorf("failed to read .gitignore: %w", err)
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func main() {
	app := &cli.App{
		Name:                   "emberc",
		Usage:                  "Incremental front-end compiler driver for Ember",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path",
				Value:   ".ember.kdl",
			},
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Project root directory (overrides config)",
			},
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "Include files matching glob patterns (e.g. --include '**/*.ember')",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Exclude files matching glob patterns",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "parse",
				Usage:  "Run the incremental driver once and report a summary",
				Flags:  []cli.Flag{assemblyFlag},
				Action: parseCommand,
			},
			{
				Name:   "check",
				Usage:  "Parse and report diagnostics; exits non-zero on any error",
				Flags:  []cli.Flag{assemblyFlag},
				Action: checkCommand,
			},
			{
				Name:   "watch",
				Usage:  "Re-run the driver on every filesystem change until interrupted",
				Action: watchCommand,
			},
			{
				Name:      "dump",
				Usage:     "Parse one file and print its abstract syntax tree",
				ArgsUsage: "<path>",
				Action:    dumpCommand,
			},
			{
				Name:   "mcp",
				Usage:  "Start the Model Context Protocol server on stdio",
				Action: mcpCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "emberc: %v\n", err)
		os.Exit(1)
	}
}

var assemblyFlag = &cli.StringFlag{
	Name:  "assembly",
	Usage: "Limit to a single configured assembly by name",
}
