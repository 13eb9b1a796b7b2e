package parser

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/dryflow/dryflow/pkg/console"
	"github.com/dryflow/dryflow/pkg/logger"
)

var schemaLog = logger.New("parser:schema")

//go:embed workflow_schema.json
var workflowSchemaJSON []byte

var (
	schemaOnce     sync.Once
	workflowSchema *jsonschema.Schema
	schemaErr      error
	schemaPrinter  = message.NewPrinter(language.English)
)

// compiledSchema compiles the embedded workflow schema once per process.
func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		var doc any
		if err := json.Unmarshal(workflowSchemaJSON, &doc); err != nil {
			schemaErr = fmt.Errorf("failed to parse embedded workflow schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("workflow.schema.json", doc); err != nil {
			schemaErr = fmt.Errorf("failed to register workflow schema: %w", err)
			return
		}
		workflowSchema, schemaErr = compiler.Compile("workflow.schema.json")
	})
	return workflowSchema, schemaErr
}

// ValidateDocumentSchema checks the parsed document against the embedded
// JSON Schema. Violations come back as positioned compiler errors; the
// original source content is used to locate the offending node.
func ValidateDocumentSchema(doc map[string]any, content []byte, filename string) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}

	if err := schema.Validate(normalizeForSchema(doc)); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			leaf := leafCause(validationErr)
			line, column := LocateInstancePath(content, leaf.InstanceLocation)
			schemaLog.Printf("Schema violation at %v: line=%d", leaf.InstanceLocation, line)
			return console.CompilerError{
				Position: console.ErrorPosition{File: filename, Line: line, Column: column},
				Type:     "error",
				Message: fmt.Sprintf("invalid document: %s: %s",
					instancePath(leaf.InstanceLocation), leaf.ErrorKind.LocalizedString(schemaPrinter)),
				Context: ContextLines(content, line),
			}
		}
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// leafCause digs to the deepest cause so the reported path points at the
// actual offending node instead of the document root.
func leafCause(err *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(err.Causes) > 0 {
		err = err.Causes[0]
	}
	return err
}

func instancePath(tokens []string) string {
	if len(tokens) == 0 {
		return "$"
	}
	return "$." + strings.Join(tokens, ".")
}

// normalizeForSchema converts YAML-decoded values into the shapes the
// jsonschema library expects (string-keyed maps all the way down).
func normalizeForSchema(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalizeForSchema(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeForSchema(item)
		}
		return out
	case uint64:
		return int64(val)
	default:
		return val
	}
}
