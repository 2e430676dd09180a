package mcpserver

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/panbanda/cxxlens/internal/output"
	"github.com/panbanda/cxxlens/internal/scanner"
	"github.com/panbanda/cxxlens/pkg/analyzer/inheritance"
	"github.com/panbanda/cxxlens/pkg/analyzer/opcount"
	"github.com/panbanda/cxxlens/pkg/config"
)

// AnalyzeInput is the base input for all tools.
type AnalyzeInput struct {
	Paths       []string `json:"paths,omitempty" jsonschema:"Files or directories to analyze. Defaults to current directory if empty."`
	IncludeDirs []string `json:"include_dirs,omitempty" jsonschema:"Directories searched for quoted includes, in addition to the configured ones."`
	Headers     bool     `json:"headers,omitempty" jsonschema:"Also treat header files found in directories as translation units."`
	Format      string   `json:"format,omitempty" jsonschema:"Output format: toon (default), json, or markdown."`
}

// InheritanceInput is the input of classify_inheritance.
type InheritanceInput struct {
	AnalyzeInput
}

// OperationsInput adds operation counting options.
type OperationsInput struct {
	AnalyzeInput
	Queries         []string `json:"queries,omitempty" jsonschema:"Queries to run: flops, memops. Defaults to the configured queries."`
	SeparatePasses  bool     `json:"separate_passes,omitempty" jsonschema:"Walk each translation unit once per query instead of once in total."`
	PrimaryFileOnly bool     `json:"primary_file_only,omitempty" jsonschema:"Skip matches located in included headers."`
	Sites           bool     `json:"sites,omitempty" jsonschema:"Include the location of every counted node."`
}

// tools holds the state shared by the tool handlers.
type tools struct {
	cfg    *config.Config
	logger *slog.Logger
}

func getPaths(input AnalyzeInput) []string {
	if len(input.Paths) == 0 {
		return []string{"."}
	}
	return input.Paths
}

func getFormat(input AnalyzeInput) output.Format {
	switch input.Format {
	case "json":
		return output.FormatJSON
	case "markdown", "md":
		return output.FormatMarkdown
	default:
		return output.FormatTOON
	}
}

func (t *tools) includeDirs(input AnalyzeInput) []string {
	dirs := append([]string{}, t.cfg.Frontend.IncludeDirs...)
	return append(dirs, input.IncludeDirs...)
}

func (t *tools) scan(input AnalyzeInput) ([]string, error) {
	var opts []scanner.Option
	if input.Headers {
		opts = append(opts, scanner.WithHeaders())
	}
	return scanner.NewScanner(t.cfg, opts...).ScanPaths(getPaths(input))
}

func formatOutput(data any, format output.Format) (string, error) {
	var buf bytes.Buffer
	if err := output.NewWriterFormatter(format, &buf, false).Output(data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func toolResult(data any, format output.Format) (*mcp.CallToolResult, any, error) {
	text, err := formatOutput(data, format)
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

func (t *tools) handleClassifyInheritance(ctx context.Context, req *mcp.CallToolRequest, input InheritanceInput) (*mcp.CallToolResult, any, error) {
	files, err := t.scan(input.AnalyzeInput)
	if err != nil {
		return toolError(err.Error())
	}
	if len(files) == 0 {
		return toolError("no source files found")
	}

	a := inheritance.New(
		inheritance.WithIncludeDirs(t.includeDirs(input.AnalyzeInput)...),
		inheritance.WithMaxIncludeDepth(t.cfg.Frontend.MaxIncludeDepth),
		inheritance.WithWorkers(t.cfg.Workers),
		inheritance.WithLogger(t.logger),
	)
	defer a.Close()

	result, err := a.Analyze(ctx, files)
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(result, getFormat(input.AnalyzeInput))
}

func (t *tools) handleCountOperations(ctx context.Context, req *mcp.CallToolRequest, input OperationsInput) (*mcp.CallToolResult, any, error) {
	queries := opcount.Enabled(t.cfg.Queries.Flops, t.cfg.Queries.Memops)
	if len(input.Queries) > 0 {
		var err error
		if queries, err = opcount.ParseQueries(input.Queries); err != nil {
			return toolError(err.Error())
		}
	}
	if len(queries) == 0 {
		return toolError("no queries enabled")
	}

	files, err := t.scan(input.AnalyzeInput)
	if err != nil {
		return toolError(err.Error())
	}
	if len(files) == 0 {
		return toolError("no source files found")
	}

	runOpts := []opcount.RunOption{opcount.WithQueries(queries...)}
	if input.SeparatePasses || t.cfg.Queries.SeparatePasses {
		runOpts = append(runOpts, opcount.WithSeparatePasses())
	}
	if input.PrimaryFileOnly || t.cfg.Queries.PrimaryFileOnly {
		runOpts = append(runOpts, opcount.WithPrimaryFileOnly())
	}

	a := opcount.New(
		opcount.WithIncludeDirs(t.includeDirs(input.AnalyzeInput)...),
		opcount.WithMaxIncludeDepth(t.cfg.Frontend.MaxIncludeDepth),
		opcount.WithWorkers(t.cfg.Workers),
		opcount.WithLogger(t.logger),
		opcount.WithRunOptions(runOpts...),
	)
	defer a.Close()

	result, err := a.Analyze(ctx, files)
	if err != nil {
		return toolError(err.Error())
	}
	if !input.Sites {
		for _, f := range result.Files {
			f.FlopsSites, f.MemopsSites = nil, nil
		}
	}
	return toolResult(result, getFormat(input.AnalyzeInput))
}
