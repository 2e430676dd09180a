package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// ErrInvalidConfig is returned when a configuration fails schema validation.
var ErrInvalidConfig = errors.New("invalid configuration")

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "https://cxxlens.dev/config.schema.json"

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("parse config schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("add config schema: %w", err)
	}
	return c.Compile(schemaURL)
})

// Schema returns the JSON schema configuration files are validated against.
func Schema() []byte {
	return schemaJSON
}

// Validate checks the configuration against the embedded schema.
func (c *Config) Validate() error {
	sch, err := compileSchema()
	if err != nil {
		return err
	}

	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	if err := sch.Validate(inst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
