// Package parser turns workflow source files into validated documents.
// It reports syntax and schema violations as positioned compiler errors
// pointing back into the original YAML.
package parser

import (
	"bytes"

	"github.com/goccy/go-yaml"

	"github.com/dryflow/dryflow/pkg/console"
	"github.com/dryflow/dryflow/pkg/logger"
)

var documentLog = logger.New("parser:document")

// ParseDocument parses workflow YAML into a generic document and
// validates it against the workflow schema. Errors carry the position
// and surrounding source lines.
func ParseDocument(content []byte, filename string) (map[string]any, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, console.CompilerError{
			Position: console.ErrorPosition{File: filename, Line: 1, Column: 1},
			Type:     "error",
			Message:  "empty workflow file",
		}
	}

	var doc map[string]any
	if err := yaml.Unmarshal(content, &doc); err != nil {
		line, column, message := ExtractYAMLError(err)
		if message == "" {
			message = err.Error()
		}
		documentLog.Printf("YAML parse failed for %s at %d:%d", filename, line, column)
		return nil, console.CompilerError{
			Position: console.ErrorPosition{File: filename, Line: line, Column: column},
			Type:     "error",
			Message:  message,
			Context:  ContextLines(content, line),
		}
	}

	if err := ValidateDocumentSchema(doc, content, filename); err != nil {
		return nil, err
	}

	documentLog.Printf("Parsed %s: %d top-level keys", filename, len(doc))
	return doc, nil
}
