package curriculum

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed curriculum.json
var bundledCurriculum []byte

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the registry for the bundled curriculum. The bundled
// document is part of the binary, so a parse failure is a build defect
// and panics.
func Default() *Registry {
	defaultOnce.Do(func() {
		reg, err := parse(bundledCurriculum)
		if err != nil {
			panic(fmt.Sprintf("bundled curriculum: %v", err))
		}
		defaultReg = reg
	})
	return defaultReg
}

// Load reads a curriculum document from path, validates it against the
// schema and returns its registry.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read curriculum: %w", err)
	}
	reg, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("curriculum %s: %w", path, err)
	}
	return reg, nil
}

func parse(data []byte) (*Registry, error) {
	if err := validateDocument(data); err != nil {
		return nil, err
	}
	var doc Curriculum
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse curriculum: %w", err)
	}
	return NewRegistry(doc)
}

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// validateDocument checks raw JSON against curriculumSchema.
func validateDocument(data []byte) error {
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	schemaOnce.Do(func() {
		// The jsonschema library expects a parsed JSON value (any), not a
		// Go literal. Marshal then unmarshal to get a clean representation.
		defBytes, err := json.Marshal(curriculumSchema)
		if err != nil {
			schemaErr = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		var defParsed any
		if err := json.Unmarshal(defBytes, &defParsed); err != nil {
			schemaErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("schema://curriculum.json", defParsed); err != nil {
			schemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile("schema://curriculum.json")
	})
	if schemaErr != nil {
		return fmt.Errorf("compile curriculum schema: %w", schemaErr)
	}

	if err := compiledSchema.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
