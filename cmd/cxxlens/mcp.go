package main

import (
	"log/slog"

	"github.com/panbanda/cxxlens/internal/mcpserver"
	"github.com/urfave/cli/v2"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start MCP (Model Context Protocol) server for LLM tool integration",
		Description: `Starts an MCP server over stdio transport that exposes the cxxlens
analyzers as tools that LLMs can invoke.

To use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "cxxlens": {
        "command": "cxxlens",
        "args": ["mcp"]
      }
    }
  }

Available tools:
  - classify_inheritance  Class hierarchy classification per file
  - count_operations      Floating-point operation and variable reference counts`,
		Action: runMCPCmd,
		Subcommands: []*cli.Command{
			{
				Name:   "manifest",
				Usage:  "Print the server.json manifest for MCP registries",
				Action: runMCPManifestCmd,
			},
		},
	}
}

func runMCPCmd(c *cli.Context) error {
	server := mcpserver.NewServer(version,
		mcpserver.WithConfig(getConfig(c)),
		mcpserver.WithLogger(slog.Default()),
	)
	return server.Run(c.Context)
}

func runMCPManifestCmd(c *cli.Context) error {
	data, err := mcpserver.GenerateManifest(version)
	if err != nil {
		return err
	}
	_, err = c.App.Writer.Write(append(data, '\n'))
	return err
}
