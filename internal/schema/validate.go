// Package schema provides JSON schema validation for simcheck suite files.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	schemafs "github.com/AndreyAkinshin/simcheck/schema"
)

var (
	suiteSchema *jsonschema.Schema
	compileOnce sync.Once
	compileErr  error
)

// compileSchemas compiles the embedded schema once.
func compileSchemas() error {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()

		suiteData, err := schemafs.FS.ReadFile("suite.schema.json")
		if err != nil {
			compileErr = fmt.Errorf("read suite schema: %w", err)
			return
		}

		suiteDoc, err := jsonschema.UnmarshalJSON(bytes.NewReader(suiteData))
		if err != nil {
			compileErr = fmt.Errorf("unmarshal suite schema: %w", err)
			return
		}

		if err := compiler.AddResource("suite.schema.json", suiteDoc); err != nil {
			compileErr = fmt.Errorf("add suite schema resource: %w", err)
			return
		}

		suiteSchema, err = compiler.Compile("suite.schema.json")
		if err != nil {
			compileErr = fmt.Errorf("compile suite schema: %w", err)
			return
		}
	})

	return compileErr
}

// ValidateSuite validates JSON data against the suite schema.
func ValidateSuite(data []byte) error {
	if err := compileSchemas(); err != nil {
		return err
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if err := suiteSchema.Validate(doc); err != nil {
		return fmt.Errorf("suite validation failed: %w", err)
	}

	return nil
}

// ValidateSuiteValue validates an already decoded document (for example one
// read from YAML) by round-tripping it through JSON.
func ValidateSuiteValue(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode suite for validation: %w", err)
	}
	return ValidateSuite(data)
}
