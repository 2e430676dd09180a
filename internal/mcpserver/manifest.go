package mcpserver

import (
	"encoding/json"
	"strings"
)

const manifestSchema = "https://static.modelcontextprotocol.io/schemas/2025-10-17/server.schema.json"

// Manifest is the server.json document MCP registries index.
type Manifest struct {
	Schema      string      `json:"$schema"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Version     string      `json:"version"`
	Repository  *Repository `json:"repository,omitempty"`
	Packages    []Package   `json:"packages,omitempty"`
}

// Repository points at the source repository.
type Repository struct {
	URL    string `json:"url"`
	Source string `json:"source"`
}

// Package is one way to launch the server.
type Package struct {
	RegistryType         string        `json:"registryType"`
	Identifier           string        `json:"identifier"`
	Version              string        `json:"version,omitempty"`
	PackageArguments     []Argument    `json:"packageArguments,omitempty"`
	EnvironmentVariables []EnvVariable `json:"environmentVariables,omitempty"`
	Transport            Transport     `json:"transport"`
}

// Argument is a command-line argument passed to the binary.
type Argument struct {
	Type        string `json:"type"`
	Name        string `json:"name,omitempty"`
	Value       string `json:"value,omitempty"`
	Description string `json:"description,omitempty"`
	IsRepeated  bool   `json:"isRepeated,omitempty"`
}

// EnvVariable is an environment variable the server reads.
type EnvVariable struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Format      string `json:"format,omitempty"`
	IsRequired  bool   `json:"isRequired"`
}

// Transport names the protocol transport.
type Transport struct {
	Type string `json:"type"`
}

// manifestVersion turns a build version into the semver registries expect.
// Development builds publish as 0.0.0.
func manifestVersion(version string) string {
	version = strings.TrimPrefix(strings.TrimSpace(version), "v")
	if version == "" || version == "dev" {
		return "0.0.0"
	}
	return version
}

// GenerateManifest creates the server.json manifest for a release. Include
// directories are global flags, so they precede the mcp command; the
// configuration file is picked up from CXXLENS_CONFIG.
func GenerateManifest(version string) ([]byte, error) {
	version = manifestVersion(version)

	manifest := Manifest{
		Schema:      manifestSchema,
		Name:        "io.github.panbanda/cxxlens",
		Description: "C++ inheritance classification and floating-point operation counts over tree-sitter syntax trees",
		Version:     version,
		Repository: &Repository{
			URL:    "https://github.com/panbanda/cxxlens",
			Source: "github",
		},
		Packages: []Package{
			{
				RegistryType: "oci",
				Identifier:   "ghcr.io/panbanda/cxxlens",
				Version:      version,
				PackageArguments: []Argument{
					{
						Type:        "named",
						Name:        "--include",
						Description: "Directory searched for quoted #include headers",
						IsRepeated:  true,
					},
					{Type: "positional", Value: "mcp"},
				},
				EnvironmentVariables: []EnvVariable{
					{
						Name:        "CXXLENS_CONFIG",
						Description: "Path to a cxxlens.toml, .yaml or .json configuration file",
						Format:      "filepath",
					},
				},
				Transport: Transport{Type: "stdio"},
			},
		},
	}

	return json.MarshalIndent(manifest, "", "  ")
}
