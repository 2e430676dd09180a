package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/panbanda/cxxlens/pkg/config"
	"github.com/pelletier/go-toml"
	"github.com/urfave/cli/v2"
)

func initCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Create a cxxlens.toml configuration file with the defaults",
		Description: `Creates a new cxxlens.toml configuration file in the current directory.
Use --path to write it somewhere else.

Examples:
  cxxlens init                   # Creates cxxlens.toml in current directory
  cxxlens init --path .cxxlens.toml
  cxxlens init --force           # Overwrite existing config file`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "path",
				Value: "cxxlens.toml",
				Usage: "Config file to create",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite existing config file",
			},
		},
		Action: runInitCmd,
	}
}

func runInitCmd(c *cli.Context) error {
	outputPath := c.String("path")

	if _, err := os.Stat(outputPath); err == nil && !c.Bool("force") {
		return fmt.Errorf("config file %q already exists (use --force to overwrite)", outputPath)
	}

	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", dir, err)
		}
	}

	content, err := generateDefaultConfig()
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintln(c.App.Writer, color.GreenString("Created %s", outputPath))
	return nil
}

func generateDefaultConfig() (string, error) {
	content, err := toml.Marshal(config.DefaultConfig())
	if err != nil {
		return "", fmt.Errorf("failed to marshal config to TOML: %w", err)
	}

	var buf strings.Builder
	buf.WriteString("# cxxlens configuration\n")
	buf.WriteString("# Formats: text, json, markdown, toon. Queries: flops, memops.\n\n")
	buf.Write(content)
	return buf.String(), nil
}
