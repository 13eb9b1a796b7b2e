//go:build !integration

package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dryflow/dryflow/pkg/console"
)

func TestParseDocumentValid(t *testing.T) {
	content := []byte(`name: CI
setup:
  checkout:
    - uses: actions/checkout@v4
  node:
    setup: checkout
    steps:
      - run: npm install
jobs:
  test:
    setup: node
    steps:
      - id: lint
        run: npm run lint
        paths:
          - "src/**/*.ts"
      - run: npm test
        bail_if: outputs.skip == 'true'
        local: false
`)

	doc, err := ParseDocument(content, "ci.yml")
	require.NoError(t, err)
	assert.Equal(t, "CI", doc["name"])

	jobs, ok := doc["jobs"].(map[string]any)
	require.True(t, ok, "jobs should decode as a mapping")
	assert.Contains(t, jobs, "test")
}

func TestParseDocumentEmptyFile(t *testing.T) {
	for _, content := range []string{"", "   \n\t\n"} {
		_, err := ParseDocument([]byte(content), "empty.yml")
		require.Error(t, err)

		var compErr console.CompilerError
		require.True(t, errors.As(err, &compErr))
		assert.Equal(t, "empty workflow file", compErr.Message)
		assert.Equal(t, 1, compErr.Position.Line)
	}
}

func TestParseDocumentSyntaxError(t *testing.T) {
	content := []byte("name: CI\njobs: [\n")

	_, err := ParseDocument(content, "broken.yml")
	require.Error(t, err)

	var compErr console.CompilerError
	require.True(t, errors.As(err, &compErr), "syntax errors should be positioned")
	assert.Equal(t, "broken.yml", compErr.Position.File)
	assert.GreaterOrEqual(t, compErr.Position.Line, 1)
	assert.NotEmpty(t, compErr.Message)
}

func TestParseDocumentSchemaViolations(t *testing.T) {
	tests := []struct {
		name            string
		content         string
		expectedLine    int
		expectedColumn  int
		messageContains string
	}{
		{
			name:            "missing jobs",
			content:         "name: CI\n",
			expectedLine:    1,
			expectedColumn:  1,
			messageContains: "jobs",
		},
		{
			name:            "job without steps",
			content:         "jobs:\n  test:\n    setup: node\n",
			expectedLine:    2,
			expectedColumn:  3,
			messageContains: "steps",
		},
		{
			name:            "steps must be a sequence",
			content:         "jobs:\n  test:\n    steps: run me\n",
			expectedLine:    3,
			expectedColumn:  5,
			messageContains: "array",
		},
		{
			name:            "local must be a boolean",
			content:         "jobs:\n  build:\n    steps:\n      - run: make\n        local: maybe\n",
			expectedLine:    5,
			expectedColumn:  9,
			messageContains: "boolean",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDocument([]byte(tt.content), "bad.yml")
			require.Error(t, err)

			var compErr console.CompilerError
			require.True(t, errors.As(err, &compErr), "schema errors should be positioned")
			assert.Equal(t, tt.expectedLine, compErr.Position.Line, "line")
			assert.Equal(t, tt.expectedColumn, compErr.Position.Column, "column")
			assert.True(t, strings.HasPrefix(compErr.Message, "invalid document:"),
				"message should carry the document path: %s", compErr.Message)
			assert.Contains(t, compErr.Message, tt.messageContains)
		})
	}
}
