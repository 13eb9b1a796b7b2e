package parser

import (
	"fmt"
	"strings"

	"github.com/dryflow/dryflow/pkg/logger"
)

var yamlErrorLog = logger.New("parser:yaml_error")

// ExtractYAMLError extracts line and column information from YAML
// parsing errors. Positions are 1-based; 0 means the error carried no
// location.
func ExtractYAMLError(err error) (line int, column int, message string) {
	errStr := err.Error()

	// First try goccy/go-yaml's [line:column] format
	line, column, message = extractFromGoccyFormat(errStr)
	if line > 0 || column > 0 {
		yamlErrorLog.Printf("Extracted error location from goccy format: line=%d, column=%d", line, column)
		return line, column, message
	}

	// Fallback to standard YAML error string parsing for other libraries
	yamlErrorLog.Print("Falling back to string parsing for error location")
	return extractFromStringParsing(errStr)
}

// extractFromGoccyFormat extracts line/column from goccy/go-yaml's
// "[5:10] mapping value is not allowed in this context" message format.
func extractFromGoccyFormat(errStr string) (line int, column int, message string) {
	start := strings.Index(errStr, "[")
	end := strings.Index(errStr, "]")
	if start < 0 || end <= start {
		return 0, 0, ""
	}

	locationPart := errStr[start+1 : end]
	messagePart := strings.TrimSpace(errStr[end+1:])

	parts := strings.Split(locationPart, ":")
	if len(parts) != 2 {
		return 0, 0, ""
	}

	if _, parseErr := fmt.Sscanf(strings.TrimSpace(parts[0]), "%d", &line); parseErr != nil {
		return 0, 0, ""
	}
	if _, parseErr := fmt.Sscanf(strings.TrimSpace(parts[1]), "%d", &column); parseErr != nil {
		return 0, 0, ""
	}
	return line, column, messagePart
}

// extractFromStringParsing provides fallback parsing for the
// "yaml: line X: ..." message formats other libraries emit.
func extractFromStringParsing(errStr string) (line int, column int, message string) {
	// "yaml: line X: column Y: message" format
	if strings.Contains(errStr, "yaml: line ") && strings.Contains(errStr, "column ") {
		parts := strings.SplitN(errStr, "yaml: line ", 2)
		lineInfo := parts[1]

		colonIndex := strings.Index(lineInfo, ":")
		if colonIndex > 0 {
			if _, parseErr := fmt.Sscanf(lineInfo[:colonIndex], "%d", &line); parseErr == nil {
				remaining := lineInfo[colonIndex+1:]
				if columnParts := strings.SplitN(remaining, "column ", 2); len(columnParts) > 1 {
					columnInfo := columnParts[1]
					if colonIndex2 := strings.Index(columnInfo, ":"); colonIndex2 > 0 {
						message = strings.TrimSpace(columnInfo[colonIndex2+1:])
						if _, parseErr := fmt.Sscanf(columnInfo[:colonIndex2], "%d", &column); parseErr == nil {
							return line, column, message
						}
					}
				}
			}
		}
	}

	// "yaml: line X: message" format (no column info)
	if strings.Contains(errStr, "yaml: line ") {
		parts := strings.SplitN(errStr, "yaml: line ", 2)
		lineInfo := parts[1]

		colonIndex := strings.Index(lineInfo, ":")
		if colonIndex > 0 {
			if _, parseErr := fmt.Sscanf(lineInfo[:colonIndex], "%d", &line); parseErr == nil {
				message = strings.TrimSpace(lineInfo[colonIndex+1:])
				return line, 0, message
			}
		}
	}

	// "yaml: unmarshal errors:" multiline format; report the first line
	// number found.
	if strings.Contains(errStr, "yaml: unmarshal errors:") && strings.Contains(errStr, "line ") {
		for _, errorLine := range strings.Split(errStr, "\n") {
			errorLine = strings.TrimSpace(errorLine)
			if !strings.Contains(errorLine, "line ") {
				continue
			}
			parts := strings.SplitN(errorLine, "line ", 2)
			colonIndex := strings.Index(parts[1], ":")
			if colonIndex <= 0 {
				continue
			}
			if _, parseErr := fmt.Sscanf(parts[1][:colonIndex], "%d", &line); parseErr == nil {
				message = strings.TrimSpace(parts[1][colonIndex+1:])
				return line, 0, message
			}
		}
	}

	return 0, 0, errStr
}
