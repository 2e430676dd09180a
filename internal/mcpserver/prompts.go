package mcpserver

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"path"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"gopkg.in/yaml.v3"
)

//go:embed prompts/*.md
var promptFiles embed.FS

// promptArgument is one argument declared in a prompt's frontmatter.
type promptArgument struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Default     string `yaml:"default"`
	Required    bool   `yaml:"required"`
}

// promptFrontmatter is parsed from YAML frontmatter in prompt files.
type promptFrontmatter struct {
	Description string           `yaml:"description"`
	Arguments   []promptArgument `yaml:"arguments"`
	Tools       []string         `yaml:"tools"`
}

// promptDefinition is a prompt loaded from an embedded markdown file.
type promptDefinition struct {
	Name string
	promptFrontmatter
	Body string
}

// loadPrompts parses every embedded prompt file, in file name order.
func loadPrompts() ([]promptDefinition, error) {
	entries, err := promptFiles.ReadDir("prompts")
	if err != nil {
		return nil, err
	}

	var defs []promptDefinition
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		content, err := promptFiles.ReadFile(path.Join("prompts", entry.Name()))
		if err != nil {
			return nil, err
		}
		fm, body, err := parseFrontmatter(content)
		if err != nil {
			return nil, fmt.Errorf("prompt %s: %w", entry.Name(), err)
		}
		defs = append(defs, promptDefinition{
			Name:              strings.TrimSuffix(entry.Name(), ".md"),
			promptFrontmatter: fm,
			Body:              body,
		})
	}
	return defs, nil
}

// registerPrompts registers every embedded prompt. Prompt files are part of
// the binary, so a malformed one is a build defect and panics.
func (s *Server) registerPrompts() {
	defs, err := loadPrompts()
	if err != nil {
		panic(err)
	}

	for _, def := range defs {
		prompt := &mcp.Prompt{
			Name:        def.Name,
			Description: def.Description,
		}
		for _, arg := range def.Arguments {
			prompt.Arguments = append(prompt.Arguments, &mcp.PromptArgument{
				Name:        arg.Name,
				Description: arg.Description,
				Required:    arg.Required,
			})
		}
		s.server.AddPrompt(prompt, makePromptHandler(def))
	}
}

// parseFrontmatter splits YAML frontmatter from the markdown body. Content
// without frontmatter is all body.
func parseFrontmatter(content []byte) (promptFrontmatter, string, error) {
	var fm promptFrontmatter
	if !bytes.HasPrefix(content, []byte("---\n")) {
		return fm, string(content), nil
	}

	rest := content[4:]
	end := bytes.Index(rest, []byte("\n---\n"))
	if end == -1 {
		return fm, string(content), nil
	}

	if err := yaml.Unmarshal(rest[:end], &fm); err != nil {
		return fm, "", fmt.Errorf("parse frontmatter: %w", err)
	}
	return fm, strings.TrimPrefix(string(rest[end+5:]), "\n"), nil
}

// substituteArg replaces {{key}} in text with the argument value, or with
// defaultVal when the argument is missing or empty.
func substituteArg(text, key string, args map[string]string, defaultVal string) string {
	val := args[key]
	if val == "" {
		val = defaultVal
	}
	return strings.ReplaceAll(text, "{{"+key+"}}", val)
}

func makePromptHandler(def promptDefinition) mcp.PromptHandler {
	return func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		var args map[string]string
		if req != nil && req.Params != nil {
			args = req.Params.Arguments
		}

		text := def.Body
		if len(def.Tools) > 0 {
			text += "\n## Suggested Tool Calls\n\n"
			for _, tool := range def.Tools {
				text += "- " + tool + "\n"
			}
		}
		for _, arg := range def.Arguments {
			if arg.Required && args[arg.Name] == "" {
				return nil, fmt.Errorf("prompt %s: missing argument %q", def.Name, arg.Name)
			}
			text = substituteArg(text, arg.Name, args, arg.Default)
		}

		return &mcp.GetPromptResult{
			Description: def.Description,
			Messages: []*mcp.PromptMessage{
				{
					Role:    "user",
					Content: &mcp.TextContent{Text: text},
				},
			},
		}, nil
	}
}
