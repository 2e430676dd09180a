package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/panbanda/cxxlens/pkg/config"
	"github.com/urfave/cli/v2"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

const configKey = "config"

func newApp() *cli.App {
	return &cli.App{
		Name:     "cxxlens",
		Usage:    "C++ inheritance and operation counting CLI",
		Version:  version,
		Metadata: make(map[string]interface{}),
		Description: `cxxlens parses C and C++ translation units with tree-sitter, classifies
the class hierarchy of each file and counts floating-point operations and
variable references with a declarative AST matcher engine.

Flags must come before file arguments.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"CXXLENS_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, markdown, toon (default from config, else text)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
			&cli.StringSliceFlag{
				Name:    "include",
				Aliases: []string{"I"},
				Usage:   "Add a directory searched for quoted includes (repeatable)",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging on stderr",
			},
		},
		Before: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			c.App.Metadata[configKey] = cfg

			level := slog.LevelWarn
			if c.Bool("verbose") || cfg.Output.Verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: level})))

			if c.Bool("no-color") || !cfg.Output.Color {
				color.NoColor = true
			}
			return nil
		},
		Commands: []*cli.Command{
			classesCmd(),
			opsCmd(),
			dumpCmd(),
			initCmd(),
			mcpCmd(),
		},
		ErrWriter: os.Stderr,
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

// loadConfig reads the file named by --config, or the config file in the
// current directory, and applies the global flags on top of it.
func loadConfig(c *cli.Context) (*config.Config, error) {
	var cfg *config.Config
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
		cfg = loaded
	} else {
		cfg = config.LoadOrDefault()
	}

	cfg.Frontend.IncludeDirs = append(cfg.Frontend.IncludeDirs, c.StringSlice("include")...)
	if format := c.String("format"); format != "" {
		cfg.Output.Format = format
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// getConfig returns the configuration loaded by the Before hook.
func getConfig(c *cli.Context) *config.Config {
	if cfg, ok := c.App.Metadata[configKey].(*config.Config); ok {
		return cfg
	}
	return config.DefaultConfig()
}
