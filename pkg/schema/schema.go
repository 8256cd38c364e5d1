package schema

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed maze.schema.json
var mazeSchemaSource string

const mazeSchemaURL = "maze.schema.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// MazeSchema returns the compiled maze document schema.
func MazeSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		if err := c.AddResource(mazeSchemaURL, strings.NewReader(mazeSchemaSource)); err != nil {
			compileErr = fmt.Errorf("failed to add maze schema: %w", err)
			return
		}
		compiled, compileErr = c.Compile(mazeSchemaURL)
	})
	return compiled, compileErr
}

// ValidateMazeDocument validates a decoded JSON tree (as produced by
// json.Unmarshal into an any) against the maze schema.
func ValidateMazeDocument(doc any) error {
	s, err := MazeSchema()
	if err != nil {
		return err
	}
	if err := s.Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return &AggregateError{Errors: flatten(verr)}
		}
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// ValidateMazeJSON decodes raw JSON and validates it.
func ValidateMazeJSON(data []byte) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to decode maze document: %w", err)
	}
	return ValidateMazeDocument(doc)
}

// flatten collects the leaf causes, which carry the specific messages.
func flatten(v *jsonschema.ValidationError) []*ValidationError {
	if len(v.Causes) == 0 {
		return []*ValidationError{{Key: v.InstanceLocation, Reason: v.Message}}
	}
	var out []*ValidationError
	for _, c := range v.Causes {
		out = append(out, flatten(c)...)
	}
	return out
}
